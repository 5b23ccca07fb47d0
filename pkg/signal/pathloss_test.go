package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cellplan/radiosim/pkg/model"
)

func macroParams(freqGHz float64, env model.Environment) PathParams {
	return PathParams{
		FrequencyGHz: freqGHz,
		Environment:  env,
		TxHeightM:    30,
		RxHeightM:    1.5,
	}
}

func TestPathLossModelSelection(t *testing.T) {
	_, m := PathLoss(500, macroParams(0.8, model.EnvUrban))
	assert.Equal(t, ModelExtendedHata, m)

	_, m = PathLoss(500, macroParams(3.5, model.EnvUrban))
	assert.Equal(t, ModelUMaNLOS, m)

	_, m = PathLoss(500, macroParams(26, model.EnvUrban))
	assert.Equal(t, ModelCloseIn, m)
}

func TestPathLossFreeSpaceFloor(t *testing.T) {
	// The rural correction pulls the median below free-space attenuation
	// around the 100m breakpoint; the floor must win there.
	pl, m := PathLoss(120, macroParams(0.8, model.EnvRural))
	assert.Equal(t, ModelFreeSpace, m)
	assert.Greater(t, pl, 0.0)

	// Far out the corrected median dominates again.
	_, m = PathLoss(5000, macroParams(0.8, model.EnvRural))
	assert.Equal(t, ModelExtendedHata, m)
}

func TestPathLossMonotonicInDistance(t *testing.T) {
	for _, freq := range []float64{0.7, 0.8, 1.8, 2.6, 3.5, 26} {
		for _, env := range []model.Environment{model.EnvUrban, model.EnvSuburban, model.EnvRural} {
			p := macroParams(freq, env)
			prev := -1.0
			for d := 1.0; d <= 20000; d *= 1.3 {
				pl, _ := PathLoss(d, p)
				assert.GreaterOrEqual(t, pl, prev,
					"loss decreased at %.0fm, %.1fGHz %s", d, freq, env)
				assert.GreaterOrEqual(t, pl, 0.0)
				prev = pl
			}
		}
	}
}

func TestExtendedHataEnvironmentOrdering(t *testing.T) {
	for _, d := range []float64{300, 1000, 5000} {
		urban, _ := PathLoss(d, macroParams(0.8, model.EnvUrban))
		suburban, _ := PathLoss(d, macroParams(0.8, model.EnvSuburban))
		rural, _ := PathLoss(d, macroParams(0.8, model.EnvRural))
		assert.Less(t, suburban, urban, "at %.0fm", d)
		assert.Less(t, rural, suburban, "at %.0fm", d)
	}
}

func TestPathLossClampsShortDistances(t *testing.T) {
	at0, _ := PathLoss(0, macroParams(0.8, model.EnvUrban))
	at1, _ := PathLoss(1, macroParams(0.8, model.EnvUrban))
	assert.Equal(t, at1, at0)
}

func TestUMaNLOSIncludesHeightDelta(t *testing.T) {
	// At very short ground distance the 3D slant keeps the loss bounded
	// away from zero.
	pl, m := PathLoss(1, macroParams(3.5, model.EnvUrban))
	assert.Equal(t, ModelUMaNLOS, m)
	assert.Greater(t, pl, 60.0)
}
