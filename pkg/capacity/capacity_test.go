package capacity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cellplan/radiosim/pkg/model"
)

func TestLookupStepFunction(t *testing.T) {
	// Below the lowest threshold the link is in outage.
	_, ok := Lookup(model.Gen4G, -10)
	assert.False(t, ok)

	e, ok := Lookup(model.Gen4G, -6.7)
	assert.True(t, ok)
	assert.Equal(t, 1, e.CQI)

	// Between thresholds the lower scheme holds.
	e, _ = Lookup(model.Gen4G, 7.0)
	assert.Equal(t, 7, e.CQI)
	assert.Equal(t, "16QAM", e.Modulation)

	e, _ = Lookup(model.Gen4G, 40)
	assert.Equal(t, 15, e.CQI)
	assert.Equal(t, 5.5547, e.SpectralEffBpsHz)

	e, _ = Lookup(model.Gen5G, 40)
	assert.Equal(t, "256QAM", e.Modulation)
	assert.Equal(t, 7.4063, e.SpectralEffBpsHz)
}

func TestSpectralEfficiencyMonotonic(t *testing.T) {
	for _, gen := range []model.Generation{model.Gen4G, model.Gen5G} {
		for _, cm := range []model.CapacityModel{model.CapacityMCS, model.CapacityShannon} {
			prev := -1.0
			for sinr := -20.0; sinr <= 40; sinr += 0.25 {
				se := SpectralEfficiency(gen, cm, sinr)
				assert.GreaterOrEqual(t, se, prev, "%s/%s at %.2f dB", gen, cm, sinr)
				prev = se
			}
		}
	}
}

func TestSpectralEfficiencyOutage(t *testing.T) {
	assert.Equal(t, 0.0, SpectralEfficiency(model.Gen4G, model.CapacityMCS, -7))
	assert.Equal(t, 0.0, SpectralEfficiency(model.Gen5G, model.CapacityMCS, -20))
}

func TestShannonTracksCapacityBelowCeiling(t *testing.T) {
	se := SpectralEfficiency(model.Gen4G, model.CapacityShannon, 10)
	assert.InDelta(t, math.Log2(1+10), se, 1e-9)

	// Both generations clip at their top MCS efficiency.
	assert.Equal(t, 5.5547, SpectralEfficiency(model.Gen4G, model.CapacityShannon, 60))
	assert.Equal(t, 7.4063, SpectralEfficiency(model.Gen5G, model.CapacityShannon, 60))
}

func TestGenerationsShareLowEndBehavior(t *testing.T) {
	// The bottom threshold is the same for both tables, so outage onset
	// does not depend on the generation.
	for sinr := -8.0; sinr < -6.7; sinr += 0.1 {
		assert.Equal(t,
			SpectralEfficiency(model.Gen4G, model.CapacityMCS, sinr) == 0,
			SpectralEfficiency(model.Gen5G, model.CapacityMCS, sinr) == 0)
	}
}

func TestThroughputScalesWithBandwidth(t *testing.T) {
	assert.InDelta(t, 55.547, ThroughputMbps(5.5547, 10), 1e-9)
	assert.Equal(t, 0.0, ThroughputMbps(0, 100))
}

func TestAreaCapacity(t *testing.T) {
	assert.Equal(t, 250.0, AreaCapacityMbpsKm2(1000, 4))
	assert.Equal(t, 0.0, AreaCapacityMbpsKm2(1000, 0))
}
