package redis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cellplan/radiosim/pkg/model"
)

func digestScenario() *model.Scenario {
	sc := &model.Scenario{
		Name:          "digest",
		Area:          model.Area{WidthM: 1000, HeightM: 1000},
		FrequencyGHz:  0.8,
		BandwidthMHz:  10,
		SiteCount:     5,
		ReceiverCount: 20,
		Trials:        10,
	}
	sc.ApplyDefaults()
	return sc
}

func TestScenarioDigestIsStable(t *testing.T) {
	a, err := ScenarioDigest(digestScenario())
	assert.NoError(t, err)
	b, err := ScenarioDigest(digestScenario())
	assert.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestScenarioDigestSeesEveryParameter(t *testing.T) {
	base, _ := ScenarioDigest(digestScenario())

	sc := digestScenario()
	sc.FrequencyGHz = 2.6
	changed, _ := ScenarioDigest(sc)
	assert.NotEqual(t, base, changed)

	sc = digestScenario()
	seed := int64(7)
	sc.Seed = &seed
	changed, _ = ScenarioDigest(sc)
	assert.NotEqual(t, base, changed)
}

func TestRunStatisticsRoundTripsThroughJSON(t *testing.T) {
	stats := &model.ScenarioStatistics{
		RunID:           "run-1",
		Scenario:        "digest",
		CompletedTrials: 10,
		Converged:       true,
		Metrics: map[string]model.MetricSummary{
			"median_sinr_db": {
				Count:       10,
				Mean:        7.25,
				StdDev:      1.5,
				Percentiles: map[int]float64{10: 5.5, 50: 7.5, 90: 9.0},
			},
		},
		RetainedTrials: []model.TrialSummary{
			{Trial: 9, MedianSINRDb: 7.5, MeanThroughputMbps: 30, OutageFraction: 0.1},
		},
	}

	b, err := json.Marshal(stats)
	assert.NoError(t, err)
	got := &model.ScenarioStatistics{}
	assert.NoError(t, json.Unmarshal(b, got))
	assert.Equal(t, stats, got)
}

func TestKeyNamespacesDigest(t *testing.T) {
	assert.Equal(t, "abc-RunStatistics", key("abc"))
}
