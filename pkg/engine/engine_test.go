package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellplan/radiosim/pkg/model"
)

func testScenario(seed int64) *model.Scenario {
	sc := &model.Scenario{
		Name:          "rural-lte",
		Area:          model.Area{WidthM: 1000, HeightM: 1000},
		Environment:   model.EnvRural,
		FrequencyGHz:  0.8,
		BandwidthMHz:  10,
		Generation:    model.Gen4G,
		Placement:     model.PlacementUniform,
		SiteCount:     10,
		ReceiverCount: 50,
		Trials:        200,
		Seed:          &seed,
		Workers:       4,
	}
	sc.ApplyDefaults()
	sc.ShadowIterations = 5
	sc.Shadowing = true
	return sc
}

func TestNewRejectsInvalidScenario(t *testing.T) {
	sc := testScenario(1)
	sc.SiteCount = 0
	_, err := New(sc)
	assert.True(t, errors.Is(err, model.ErrInvalidScenario))
}

func TestRunFixedTrials(t *testing.T) {
	eng, err := New(testScenario(42))
	require.NoError(t, err)
	stats, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 200, stats.CompletedTrials)
	assert.Equal(t, 0, stats.DiscardedTrials)
	assert.True(t, stats.Converged)
	assert.Empty(t, stats.Warning)
	assert.NotEmpty(t, stats.RunID)

	sinr := stats.Metrics[MetricMedianSINR]
	assert.Equal(t, int64(200), sinr.Count)
	// Wide sanity band for a lightly loaded rural macro layout.
	assert.Greater(t, sinr.Percentiles[50], -30.0)
	assert.Less(t, sinr.Percentiles[50], 40.0)

	outage := stats.Metrics[MetricOutage]
	assert.GreaterOrEqual(t, outage.Mean, 0.0)
	assert.LessOrEqual(t, outage.Mean, 1.0)

	tput := stats.Metrics[MetricMeanThroughput]
	assert.GreaterOrEqual(t, tput.Mean, 0.0)
	assert.LessOrEqual(t, tput.Mean, 5.5547*10)
}

func TestRunEndToEndBaseline(t *testing.T) {
	if testing.Short() {
		t.Skip("long baseline run")
	}
	sc := testScenario(42)
	sc.Trials = 2000

	eng, err := New(sc)
	require.NoError(t, err)
	stats, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2000, stats.CompletedTrials)
	assert.Equal(t, 0, stats.DiscardedTrials)

	// Pinned reference for this seed: 2.68 dB. The band is tight enough
	// that a dropped noise figure, a wrong environment correction, or a
	// mis-scaled interference load all land outside it.
	median := stats.Metrics[MetricMedianSINR].Percentiles[50]
	assert.InDelta(t, 2.68, median, 2.0)
}

func TestRunReproducibleAcrossWorkerCounts(t *testing.T) {
	a, err := New(testScenario(42))
	require.NoError(t, err)
	statsA, err := a.Run(context.Background())
	require.NoError(t, err)

	scB := testScenario(42)
	scB.Workers = 1
	b, err := New(scB)
	require.NoError(t, err)
	statsB, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, statsA.Metrics, statsB.Metrics)
	assert.Equal(t, statsA.CompletedTrials, statsB.CompletedTrials)
}

func TestRunSeedChangesResults(t *testing.T) {
	a, err := New(testScenario(42))
	require.NoError(t, err)
	statsA, err := a.Run(context.Background())
	require.NoError(t, err)

	b, err := New(testScenario(43))
	require.NoError(t, err)
	statsB, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t,
		statsA.Metrics[MetricMedianSINR].Mean,
		statsB.Metrics[MetricMedianSINR].Mean)
}

func TestRunAdaptiveStopsEarly(t *testing.T) {
	sc := testScenario(42)
	sc.Trials = 0
	sc.Adaptive = true
	sc.RelTolerance = 0.5
	sc.CheckEvery = 50
	sc.MaxTrials = 5000
	// Light load keeps the tracked metric well away from zero, where the
	// relative criterion is meaningless.
	sc.NetworkLoadPct = 10

	eng, err := New(sc)
	require.NoError(t, err)
	stats, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, stats.Converged)
	assert.Less(t, stats.CompletedTrials, 5000)
	assert.Empty(t, stats.Warning)
}

func TestRunAdaptiveHitsTrialCap(t *testing.T) {
	sc := testScenario(42)
	sc.Trials = 0
	sc.Adaptive = true
	sc.RelTolerance = 1e-12
	sc.CheckEvery = 50
	sc.MaxTrials = 100

	eng, err := New(sc)
	require.NoError(t, err)
	stats, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, stats.Converged)
	assert.Equal(t, 100, stats.CompletedTrials)
	assert.NotEmpty(t, stats.Warning)
}

func TestRunRetainsTrialSummaries(t *testing.T) {
	sc := testScenario(42)
	sc.RetainTrials = 16
	eng, err := New(sc)
	require.NoError(t, err)
	stats, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, stats.RetainedTrials, 16)
	// The ring keeps the most recent trials in index order.
	last := stats.RetainedTrials[len(stats.RetainedTrials)-1]
	assert.Equal(t, 199, last.Trial)
	for i := 1; i < len(stats.RetainedTrials); i++ {
		assert.Greater(t, stats.RetainedTrials[i].Trial, stats.RetainedTrials[i-1].Trial)
	}
}

func TestRunCancellationReturnsPartialResults(t *testing.T) {
	sc := testScenario(42)
	sc.Trials = 100000
	sc.CheckEvery = 10
	eng, err := New(sc)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	stats, err := eng.Run(ctx)
	require.NoError(t, err)

	assert.Less(t, stats.CompletedTrials, 100000)
	assert.NotEmpty(t, stats.Warning)
	if stats.CompletedTrials > 0 {
		assert.Equal(t, int64(stats.CompletedTrials),
			stats.Metrics[MetricMedianSINR].Count)
	}
}
