// SPDX-FileCopyrightText: 2026-present Cellplan Project <info@cellplan.io>
//
// SPDX-License-Identifier: Apache-2.0

package statistics

import (
	"math"
	"sort"

	"github.com/cellplan/radiosim/pkg/model"
)

// QuantileSorted returns the p-quantile (0..1) of an ascending-sorted sample
// by linear interpolation between the order statistics at rank (n-1)p. This
// is the numpy default convention, so snapshots compare directly against
// offline analysis. NaN when empty.
func QuantileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Running maintains a count, mean and variance over a stream of values using
// Welford's recurrence, so long runs never accumulate the catastrophic
// cancellation of the naive sum-of-squares form.
type Running struct {
	n    int64
	mean float64
	m2   float64
}

// Add folds one observation into the running moments.
func (r *Running) Add(x float64) {
	r.n++
	delta := x - r.mean
	r.mean += delta / float64(r.n)
	r.m2 += delta * (x - r.mean)
}

// Merge folds another set of running moments into this one using the
// pairwise combination of Chan et al., so per-worker moments can be reduced
// without revisiting samples.
func (r *Running) Merge(o Running) {
	if o.n == 0 {
		return
	}
	if r.n == 0 {
		*r = o
		return
	}
	n := r.n + o.n
	delta := o.mean - r.mean
	r.mean += delta * float64(o.n) / float64(n)
	r.m2 += o.m2 + delta*delta*float64(r.n)*float64(o.n)/float64(n)
	r.n = n
}

// Count returns the number of observations folded in.
func (r *Running) Count() int64 { return r.n }

// Mean returns the running mean, or 0 before any observation.
func (r *Running) Mean() float64 { return r.mean }

// Variance returns the unbiased sample variance. It is 0 for fewer than two
// observations.
func (r *Running) Variance() float64 {
	if r.n < 2 {
		return 0
	}
	return r.m2 / float64(r.n-1)
}

// StdDev returns the sample standard deviation.
func (r *Running) StdDev() float64 { return math.Sqrt(r.Variance()) }

// RelStdErr returns the standard error of the mean relative to the mean's
// magnitude. It is infinite while the mean is 0 or fewer than two
// observations exist, so convergence checks cannot trigger spuriously.
func (r *Running) RelStdErr() float64 {
	if r.n < 2 || r.mean == 0 {
		return math.Inf(1)
	}
	return r.StdDev() / math.Sqrt(float64(r.n)) / math.Abs(r.mean)
}

// Accumulator extends the running moments with the full sample record, which
// exact percentile queries need.
type Accumulator struct {
	Running
	samples []float64
	sorted  bool
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{samples: make([]float64, 0, 256)}
}

// Add records one observation.
func (a *Accumulator) Add(x float64) {
	a.Running.Add(x)
	a.samples = append(a.samples, x)
	a.sorted = false
}

// Quantile returns the exact p-quantile (0..1) of the recorded samples with
// linear interpolation between order statistics. NaN when empty.
func (a *Accumulator) Quantile(p float64) float64 {
	if len(a.samples) == 0 {
		return math.NaN()
	}
	if !a.sorted {
		sort.Float64s(a.samples)
		a.sorted = true
	}
	return QuantileSorted(a.samples, p)
}

// Summary renders the accumulator as a metric summary at the requested
// percentile levels.
func (a *Accumulator) Summary(percentiles []int) model.MetricSummary {
	s := model.MetricSummary{
		Count:       a.Count(),
		Mean:        a.Mean(),
		StdDev:      a.StdDev(),
		Percentiles: make(map[int]float64, len(percentiles)),
	}
	for _, p := range percentiles {
		s.Percentiles[p] = a.Quantile(float64(p) / 100)
	}
	return s
}

// Histogram is a fixed-width binned counterpart of Accumulator for runs where
// retaining every sample is too expensive. Quantiles interpolate within the
// matching bin, so their error is bounded by the bin width.
type Histogram struct {
	Running
	lo, hi float64
	counts []int64
	total  int64
}

// NewHistogram builds a histogram over [lo, hi) with the given bin count.
// Observations outside the range clamp to the edge bins.
func NewHistogram(lo, hi float64, bins int) *Histogram {
	if bins < 1 {
		bins = 1
	}
	return &Histogram{lo: lo, hi: hi, counts: make([]int64, bins)}
}

// Add records one observation.
func (h *Histogram) Add(x float64) {
	h.Running.Add(x)
	i := int(float64(len(h.counts)) * (x - h.lo) / (h.hi - h.lo))
	if i < 0 {
		i = 0
	}
	if i >= len(h.counts) {
		i = len(h.counts) - 1
	}
	h.counts[i]++
	h.total++
}

// Quantile returns the approximate p-quantile (0..1). NaN when empty.
func (h *Histogram) Quantile(p float64) float64 {
	if h.total == 0 {
		return math.NaN()
	}
	target := p * float64(h.total)
	binW := (h.hi - h.lo) / float64(len(h.counts))
	cum := 0.0
	for i, c := range h.counts {
		next := cum + float64(c)
		if next >= target {
			frac := 0.0
			if c > 0 {
				frac = (target - cum) / float64(c)
			}
			return h.lo + (float64(i)+frac)*binW
		}
		cum = next
	}
	return h.hi
}

// MetricAccumulator is one metric stream's accumulator. Accumulator (exact)
// and Histogram (approximate) both satisfy it, so an Aggregator can run
// either variant.
type MetricAccumulator interface {
	Add(x float64)
	Count() int64
	Mean() float64
	StdDev() float64
	RelStdErr() float64
	Quantile(p float64) float64
}

// Aggregator collects named metric streams and renders them as the metric
// map of a finished run. The accumulator variant is fixed at construction.
type Aggregator struct {
	newMetric func() MetricAccumulator
	metrics   map[string]MetricAccumulator
	order     []string
}

// NewAggregator returns an aggregator backed by exact accumulators.
func NewAggregator() *Aggregator {
	return &Aggregator{
		newMetric: func() MetricAccumulator { return NewAccumulator() },
		metrics:   make(map[string]MetricAccumulator),
	}
}

// NewApproxAggregator returns an aggregator backed by histograms over
// [lo, hi), for runs too long to retain every sample.
func NewApproxAggregator(lo, hi float64, bins int) *Aggregator {
	return &Aggregator{
		newMetric: func() MetricAccumulator { return NewHistogram(lo, hi, bins) },
		metrics:   make(map[string]MetricAccumulator),
	}
}

// Observe records one observation of the named metric.
func (g *Aggregator) Observe(name string, x float64) {
	acc, ok := g.metrics[name]
	if !ok {
		acc = g.newMetric()
		g.metrics[name] = acc
		g.order = append(g.order, name)
	}
	acc.Add(x)
}

// Metric returns the accumulator for the named metric, or nil before the
// metric's first observation.
func (g *Aggregator) Metric(name string) MetricAccumulator {
	if acc, ok := g.metrics[name]; ok {
		return acc
	}
	return nil
}

// Summaries renders every metric at the requested percentile levels.
func (g *Aggregator) Summaries(percentiles []int) map[string]model.MetricSummary {
	out := make(map[string]model.MetricSummary, len(g.order))
	for _, name := range g.order {
		acc := g.metrics[name]
		s := model.MetricSummary{
			Count:       acc.Count(),
			Mean:        acc.Mean(),
			StdDev:      acc.StdDev(),
			Percentiles: make(map[int]float64, len(percentiles)),
		}
		for _, p := range percentiles {
			s.Percentiles[p] = acc.Quantile(float64(p) / 100)
		}
		out[name] = s
	}
	return out
}
