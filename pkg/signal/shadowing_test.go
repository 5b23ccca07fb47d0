package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cellplan/radiosim/pkg/geometry"
)

func TestShadowSigmaSchedule(t *testing.T) {
	assert.Equal(t, 3.5, ShadowSigma(ModelExtendedHata, 20))
	assert.Equal(t, 12.0, ShadowSigma(ModelExtendedHata, 150))
	assert.Equal(t, 9.0, ShadowSigma(ModelExtendedHata, 5000))
	assert.Equal(t, 2.5, ShadowSigma(ModelFreeSpace, 150))
	assert.Equal(t, 7.8, ShadowSigma(ModelUMaNLOS, 150))

	// Interpolated segments stay between their endpoints.
	mid := ShadowSigma(ModelExtendedHata, 70)
	assert.Greater(t, mid, 3.5)
	assert.Less(t, mid, 12.0)
	mid = ShadowSigma(ModelExtendedHata, 400)
	assert.Greater(t, mid, 9.0)
	assert.Less(t, mid, 12.0)
}

func TestShadowSampleDeterministicPerSource(t *testing.T) {
	a := ShadowSample(geometry.TrialRand(7, 0), 1, 9, 50)
	b := ShadowSample(geometry.TrialRand(7, 0), 1, 9, 50)
	assert.Equal(t, a, b)

	c := ShadowSample(geometry.TrialRand(7, 1), 1, 9, 50)
	assert.NotEqual(t, a, c)
}

func TestShadowSampleDegenerateInputs(t *testing.T) {
	rng := geometry.TrialRand(7, 0)
	assert.Equal(t, 0.0, ShadowSample(rng, 1, 0, 50))
	assert.Equal(t, 0.0, ShadowSample(rng, 1, 9, 0))
}

func TestShadowSampleIsPositive(t *testing.T) {
	rng := geometry.TrialRand(11, 0)
	for i := 0; i < 100; i++ {
		assert.Greater(t, ShadowSample(rng, 12, 8, 1), 0.0)
	}
}

func TestIndoorLossOnlyForIndoorReceivers(t *testing.T) {
	rng := geometry.TrialRand(3, 0)
	assert.Equal(t, 0.0, IndoorLoss(rng, false))
	assert.Greater(t, IndoorLoss(rng, true), 0.0)
}
