// SPDX-FileCopyrightText: 2026-present Cellplan Project <info@cellplan.io>
//
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/cellplan/radiosim/pkg/capacity"
	"github.com/cellplan/radiosim/pkg/geometry"
	"github.com/cellplan/radiosim/pkg/model"
	"github.com/cellplan/radiosim/pkg/signal"
	"github.com/cellplan/radiosim/pkg/statistics"
)

// ErrUnstableRun marks a run that produced more discarded trials than the
// scenario tolerates. Its results are not representative and are withheld.
var ErrUnstableRun = errors.New("simulation run unstable")

// Metric names tracked across trials. MetricMedianSINR drives adaptive
// stopping.
const (
	MetricMedianSINR     = "median_sinr_db"
	MetricP10SINR        = "p10_sinr_db"
	MetricMeanThroughput = "mean_throughput_mbps"
	MetricAreaCapacity   = "area_capacity_mbps_km2"
	MetricOutage         = "outage_fraction"
)

// Engine orchestrates the Monte-Carlo trials of one scenario. It owns the
// worker pool and the single-writer collection of trial summaries; the
// scenario itself is never mutated.
type Engine struct {
	sc    *model.Scenario
	calc  *signal.Calculator
	runID string
	seed  int64
}

// New validates the scenario and prepares an engine for it. A degenerate
// scenario is rejected here, before any trial runs.
func New(sc *model.Scenario) (*Engine, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	seed := time.Now().UnixNano()
	if sc.Seed != nil {
		seed = *sc.Seed
	}
	return &Engine{
		sc:    sc,
		calc:  signal.NewCalculator(sc),
		runID: uuid.New().String(),
		seed:  seed,
	}, nil
}

// RunID returns the unique identifier of this engine's run.
func (e *Engine) RunID() string { return e.runID }

type trialOutcome struct {
	trial     int
	summary   model.TrialSummary
	discarded bool
	err       error
}

// Run executes the scenario's Monte-Carlo trials and returns the aggregated
// statistics. Trials are dispatched to a worker pool in batches of the
// convergence check interval and folded into the aggregates in trial-index
// order, so results for a given seed are identical regardless of worker
// count. Cancelling the context lets in-flight trials finish, then returns
// the statistics accumulated so far with a warning annotation.
func (e *Engine) Run(ctx context.Context) (*model.ScenarioStatistics, error) {
	workers := e.sc.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	batch := e.sc.CheckEvery
	target := e.sc.Trials
	if e.sc.Adaptive {
		target = e.sc.MaxTrials
	}
	if batch > target {
		batch = target
	}

	log.WithFields(log.Fields{
		"run":      e.runID,
		"scenario": e.sc.Name,
		"seed":     e.seed,
		"workers":  workers,
		"adaptive": e.sc.Adaptive,
	}).Info("starting simulation run")

	agg := statistics.NewAggregator()
	var retained []model.TrialSummary
	accepted, discarded, attempted := 0, 0, 0
	converged := !e.sc.Adaptive
	warning := ""

	outcomes := make([]trialOutcome, batch)
	for attempted < target {
		if err := ctx.Err(); err != nil {
			warning = fmt.Sprintf("run cancelled after %d trials: %v", attempted, err)
			log.WithField("run", e.runID).Warn(warning)
			break
		}

		n := batch
		if rem := target - attempted; rem < n {
			n = rem
		}
		e.runBatch(attempted, n, workers, outcomes)

		for i := 0; i < n; i++ {
			out := outcomes[i]
			if out.err != nil {
				return nil, fmt.Errorf("trial %d: %w", out.trial, out.err)
			}
			if out.discarded {
				discarded++
				continue
			}
			accepted++
			s := out.summary
			agg.Observe(MetricMedianSINR, s.MedianSINRDb)
			agg.Observe(MetricP10SINR, s.P10SINRDb)
			agg.Observe(MetricMeanThroughput, s.MeanThroughputMbps)
			agg.Observe(MetricAreaCapacity, s.AreaCapacityMbpsKm2)
			agg.Observe(MetricOutage, s.OutageFraction)
			if e.sc.RetainTrials > 0 {
				if len(retained) == e.sc.RetainTrials {
					retained = retained[1:]
				}
				retained = append(retained, s)
			}
		}
		attempted += n

		if rate := float64(discarded) / float64(attempted); rate > e.sc.MaxDiscardRate {
			log.WithFields(log.Fields{
				"run":       e.runID,
				"discarded": discarded,
				"attempted": attempted,
			}).Error("discard rate exceeds scenario tolerance")
			return nil, fmt.Errorf("%w: %d of %d trials discarded (limit %.1f%%)",
				ErrUnstableRun, discarded, attempted, e.sc.MaxDiscardRate*100)
		}

		if e.sc.Adaptive {
			// Nothing accepted yet means nothing to converge on.
			m := agg.Metric(MetricMedianSINR)
			if m == nil {
				continue
			}
			rse := m.RelStdErr()
			log.WithFields(log.Fields{
				"run":    e.runID,
				"trials": attempted,
				"relSE":  rse,
			}).Debug("convergence check")
			if rse <= e.sc.RelTolerance {
				converged = true
				break
			}
		}
	}

	if e.sc.Adaptive && !converged && warning == "" {
		warning = fmt.Sprintf("convergence not reached within %d trials (tolerance %.3g)",
			attempted, e.sc.RelTolerance)
		log.WithField("run", e.runID).Warn(warning)
	}

	stats := &model.ScenarioStatistics{
		RunID:           e.runID,
		Scenario:        e.sc.Name,
		CompletedTrials: accepted,
		DiscardedTrials: discarded,
		Converged:       converged,
		Warning:         warning,
		Metrics:         agg.Summaries(e.sc.Percentiles),
		RetainedTrials:  retained,
	}
	log.WithFields(log.Fields{
		"run":       e.runID,
		"trials":    accepted,
		"discarded": discarded,
		"converged": converged,
	}).Info("simulation run finished")
	return stats, nil
}

// runBatch executes trials [start, start+n) on the worker pool and stores
// each outcome at its offset, leaving the fold order to the caller.
func (e *Engine) runBatch(start, n, workers int, outcomes []trialOutcome) {
	if workers > n {
		workers = n
	}
	indices := make(chan int, n)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for trial := range indices {
				outcomes[trial-start] = e.runTrial(trial)
			}
		}()
	}
	for trial := start; trial < start+n; trial++ {
		indices <- trial
	}
	close(indices)
	wg.Wait()
}

// runTrial executes one full trial: sample a geometry, evaluate every link
// budget, map SINR to throughput and reduce to a TrialSummary. A trial whose
// summary contains a non-finite value is marked discarded.
func (e *Engine) runTrial(trial int) trialOutcome {
	rng := geometry.TrialRand(e.seed, trial)
	geo, err := geometry.Sample(e.sc, trial, rng)
	if err != nil {
		// Degenerate geometry is a configuration problem, not trial noise;
		// it aborts the run.
		log.WithError(err).WithField("trial", trial).Error("trial geometry rejected")
		return trialOutcome{trial: trial, err: err}
	}

	links := e.calc.Evaluate(geo, rng)
	sinrs := make([]float64, 0, len(links))
	outage := 0
	tputSum := 0.0
	for i := range links {
		se := capacity.SpectralEfficiency(e.sc.Generation, e.sc.Capacity, links[i].SINRDb)
		links[i].SpectralEff = se
		links[i].ThroughputMbps = capacity.ThroughputMbps(se, e.sc.BandwidthMHz)
		if se == 0 {
			outage++
		}
		sinrs = append(sinrs, links[i].SINRDb)
		tputSum += links[i].ThroughputMbps
	}
	sort.Float64s(sinrs)

	s := model.TrialSummary{
		Trial:               trial,
		MedianSINRDb:        statistics.QuantileSorted(sinrs, 0.5),
		P10SINRDb:           statistics.QuantileSorted(sinrs, 0.1),
		MeanThroughputMbps:  tputSum / float64(len(links)),
		AreaCapacityMbpsKm2: capacity.AreaCapacityMbpsKm2(tputSum, e.sc.Area.Km2()),
		OutageFraction:      float64(outage) / float64(len(links)),
	}
	if !finite(s.MedianSINRDb) || !finite(s.P10SINRDb) || !finite(s.MeanThroughputMbps) {
		log.WithField("trial", trial).Warn("discarding trial with non-finite summary")
		return trialOutcome{trial: trial, discarded: true}
	}
	return trialOutcome{trial: trial, summary: s}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
