// SPDX-FileCopyrightText: 2026-present Cellplan Project <info@cellplan.io>
//
// SPDX-License-Identifier: Apache-2.0

package model

// Coordinate is a planar position in meters relative to the area origin.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transmitter is one site in a spatial realization.
type Transmitter struct {
	ID       int        `json:"id"`
	Coord    Coordinate `json:"coord"`
	PowerDbm float64    `json:"powerDbm"`
	GainDbi  float64    `json:"gainDbi"`
	LossesDb float64    `json:"lossesDb"`
	HeightM  float64    `json:"heightM"`
}

// Receiver is one user-equipment position in a spatial realization.
type Receiver struct {
	ID         int        `json:"id"`
	Coord      Coordinate `json:"coord"`
	HeightM    float64    `json:"heightM"`
	GainDbi    float64    `json:"gainDbi"`
	LossesDb   float64    `json:"lossesDb"`
	MiscLossDb float64    `json:"miscLossDb"`
	Indoor     bool       `json:"indoor"`
}

// Realization is the sampled geometry of a single trial. It is owned by the
// trial that produced it and discarded once the trial result is folded in.
type Realization struct {
	Trial        int
	Transmitters []Transmitter
	Receivers    []Receiver
}

// LinkResult is the link budget outcome for one receiver in one trial. Power
// figures are in dBm at this boundary; summation happens in milliwatts inside
// the calculator.
type LinkResult struct {
	ReceiverID     int
	ServingID      int
	DistanceM      float64
	PathLossDb     float64
	PathModel      string
	SignalDbm      float64
	InterferenceMw float64
	NoiseDbm       float64
	SINRDb         float64
	SpectralEff    float64
	ThroughputMbps float64
}

// TrialSummary reduces the per-receiver results of one trial to the scalars
// tracked across the whole run.
type TrialSummary struct {
	Trial               int     `json:"trial"`
	MedianSINRDb        float64 `json:"medianSinrDb"`
	P10SINRDb           float64 `json:"p10SinrDb"`
	MeanThroughputMbps  float64 `json:"meanThroughputMbps"`
	AreaCapacityMbpsKm2 float64 `json:"areaCapacityMbpsKm2"`
	OutageFraction      float64 `json:"outageFraction"`
}

// MetricSummary is the distribution summary of one tracked metric across all
// accepted trials.
type MetricSummary struct {
	Count       int64           `json:"count"`
	Mean        float64         `json:"mean"`
	StdDev      float64         `json:"stdDev"`
	Percentiles map[int]float64 `json:"percentiles"`
}

// ScenarioStatistics is the final output of a run: one distribution summary
// per tracked metric plus run-quality annotations. Immutable once the
// orchestrator declares the run complete.
type ScenarioStatistics struct {
	RunID           string                   `json:"runId"`
	Scenario        string                   `json:"scenario"`
	CompletedTrials int                      `json:"completedTrials"`
	DiscardedTrials int                      `json:"discardedTrials"`
	Converged       bool                     `json:"converged"`
	Warning         string                   `json:"warning,omitempty"`
	Metrics         map[string]MetricSummary `json:"metrics"`
	RetainedTrials  []TrialSummary           `json:"retainedTrials,omitempty"`
}
