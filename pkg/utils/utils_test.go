package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cellplan/radiosim/pkg/model"
)

func TestDistance(t *testing.T) {
	a := model.Coordinate{X: 0, Y: 0}
	b := model.Coordinate{X: 3, Y: 4}
	assert.Equal(t, 5.0, Distance(a, b))
	assert.Equal(t, 0.0, Distance(a, a))
}

func TestDistance3D(t *testing.T) {
	a := model.Coordinate{X: 0, Y: 0}
	b := model.Coordinate{X: 0, Y: 3}
	assert.Equal(t, 5.0, Distance3D(a, b, 5, 1))
}

func TestDbmConversionsInvert(t *testing.T) {
	for _, dbm := range []float64{-120, -30, 0, 20, 46} {
		assert.InDelta(t, dbm, MwToDbm(DbmToMw(dbm)), 1e-9)
	}
	assert.Equal(t, 0.0, MwToDbm(1))
	assert.InDelta(t, 1000.0, DbmToMw(30), 1e-9)
}

func TestRoundToDecimal(t *testing.T) {
	assert.Equal(t, 1.23, RoundToDecimal(1.2345, 2))
	assert.Equal(t, 9.88, RoundToDecimal(9.876, 2))
	assert.Equal(t, -7.0, RoundToDecimal(-7.4, 0))
}
