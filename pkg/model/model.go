// SPDX-FileCopyrightText: 2026-present Cellplan Project <info@cellplan.io>
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidScenario marks a scenario whose configuration is malformed or
// degenerate. Wrapped errors name the violated constraint.
var ErrInvalidScenario = errors.New("invalid scenario")

// Environment is the settlement class driving propagation parameters.
type Environment string

const (
	EnvUrban    Environment = "urban"
	EnvSuburban Environment = "suburban"
	EnvRural    Environment = "rural"
)

// Generation selects the radio-access technology model.
type Generation string

const (
	Gen4G Generation = "4G"
	Gen5G Generation = "5G"
)

// Placement is the spatial process used to drop transmitter sites.
type Placement string

const (
	PlacementUniform Placement = "uniform"
	PlacementGrid    Placement = "grid"
	PlacementHex     Placement = "hex"
	PlacementCluster Placement = "cluster"
)

// ServingPolicy selects how a receiver picks its serving transmitter.
type ServingPolicy string

const (
	ServeNearest   ServingPolicy = "nearest"
	ServeStrongest ServingPolicy = "strongest"
)

// CapacityModel selects the SINR to spectral-efficiency mapping.
type CapacityModel string

const (
	CapacityMCS     CapacityModel = "mcs"
	CapacityShannon CapacityModel = "shannon"
)

// Area is the planar simulation region in meters. The origin is the
// lower-left corner.
type Area struct {
	WidthM  float64 `mapstructure:"widthM" yaml:"widthM"`
	HeightM float64 `mapstructure:"heightM" yaml:"heightM"`
}

// Km2 returns the region surface in square kilometers.
func (a Area) Km2() float64 {
	return a.WidthM * a.HeightM / 1e6
}

// Scenario is the immutable configuration of one experiment. It is validated
// once before a run starts and never mutated afterwards.
type Scenario struct {
	Name        string      `mapstructure:"name" yaml:"name"`
	Area        Area        `mapstructure:"area" yaml:"area"`
	Environment Environment `mapstructure:"environment" yaml:"environment"`

	FrequencyGHz float64    `mapstructure:"frequencyGHz" yaml:"frequencyGHz"`
	BandwidthMHz float64    `mapstructure:"bandwidthMHz" yaml:"bandwidthMHz"`
	Generation   Generation `mapstructure:"generation" yaml:"generation"`

	Placement      Placement `mapstructure:"placement" yaml:"placement"`
	SiteCount      int       `mapstructure:"siteCount" yaml:"siteCount"`
	SiteDensityKm2 float64   `mapstructure:"siteDensityKm2" yaml:"siteDensityKm2"`
	ReceiverCount  int       `mapstructure:"receiverCount" yaml:"receiverCount"`
	ReceiverGrid   bool      `mapstructure:"receiverGrid" yaml:"receiverGrid"`

	ServingPolicy ServingPolicy `mapstructure:"servingPolicy" yaml:"servingPolicy"`
	Capacity      CapacityModel `mapstructure:"capacityModel" yaml:"capacityModel"`

	TxPowerDbm   float64 `mapstructure:"txPowerDbm" yaml:"txPowerDbm"`
	TxGainDbi    float64 `mapstructure:"txGainDbi" yaml:"txGainDbi"`
	TxLossesDb   float64 `mapstructure:"txLossesDb" yaml:"txLossesDb"`
	MastHeightM  float64 `mapstructure:"mastHeightM" yaml:"mastHeightM"`
	RxHeightM    float64 `mapstructure:"rxHeightM" yaml:"rxHeightM"`
	RxGainDbi    float64 `mapstructure:"rxGainDbi" yaml:"rxGainDbi"`
	RxLossesDb   float64 `mapstructure:"rxLossesDb" yaml:"rxLossesDb"`
	RxMiscLossDb float64 `mapstructure:"rxMiscLossDb" yaml:"rxMiscLossDb"`

	NoiseFigureDb     float64 `mapstructure:"noiseFigureDb" yaml:"noiseFigureDb"`
	NetworkLoadPct    float64 `mapstructure:"networkLoadPct" yaml:"networkLoadPct"`
	IndoorProbability float64 `mapstructure:"indoorProbability" yaml:"indoorProbability"`
	Shadowing         bool    `mapstructure:"shadowing" yaml:"shadowing"`
	ShadowIterations  int     `mapstructure:"shadowIterations" yaml:"shadowIterations"`

	Trials         int     `mapstructure:"trials" yaml:"trials"`
	Adaptive       bool    `mapstructure:"adaptive" yaml:"adaptive"`
	RelTolerance   float64 `mapstructure:"relTolerance" yaml:"relTolerance"`
	CheckEvery     int     `mapstructure:"checkEvery" yaml:"checkEvery"`
	MaxTrials      int     `mapstructure:"maxTrials" yaml:"maxTrials"`
	Seed           *int64  `mapstructure:"seed" yaml:"seed"`
	Workers        int     `mapstructure:"workers" yaml:"workers"`
	MaxDiscardRate float64 `mapstructure:"maxDiscardRate" yaml:"maxDiscardRate"`
	RetainTrials   int     `mapstructure:"retainTrials" yaml:"retainTrials"`
	Percentiles    []int   `mapstructure:"percentiles" yaml:"percentiles"`
}

// TransmitterCount resolves the explicit site count, or derives one from the
// configured density and the region surface.
func (s *Scenario) TransmitterCount() int {
	if s.SiteCount > 0 {
		return s.SiteCount
	}
	return int(math.Round(s.SiteDensityKm2 * s.Area.Km2()))
}

// ApplyDefaults fills zero-valued optional fields with the baseline radio
// parameters used throughout suburban macro-cell planning studies.
func (s *Scenario) ApplyDefaults() {
	if s.Environment == "" {
		s.Environment = EnvUrban
	}
	if s.Generation == "" {
		s.Generation = Gen4G
	}
	if s.Placement == "" {
		s.Placement = PlacementUniform
	}
	if s.ServingPolicy == "" {
		s.ServingPolicy = ServeNearest
	}
	if s.Capacity == "" {
		s.Capacity = CapacityMCS
	}
	if s.TxPowerDbm == 0 {
		s.TxPowerDbm = 40
	}
	if s.TxGainDbi == 0 {
		s.TxGainDbi = 16
	}
	if s.TxLossesDb == 0 {
		s.TxLossesDb = 1
	}
	if s.MastHeightM == 0 {
		s.MastHeightM = 30
	}
	if s.RxHeightM == 0 {
		s.RxHeightM = 1.5
	}
	if s.RxGainDbi == 0 {
		s.RxGainDbi = 4
	}
	if s.RxLossesDb == 0 {
		s.RxLossesDb = 4
	}
	if s.RxMiscLossDb == 0 {
		s.RxMiscLossDb = 4
	}
	if s.NoiseFigureDb == 0 {
		s.NoiseFigureDb = 1.5
	}
	if s.NetworkLoadPct == 0 {
		s.NetworkLoadPct = 50
	}
	if s.ShadowIterations == 0 {
		s.ShadowIterations = 50
	}
	if s.CheckEvery == 0 {
		s.CheckEvery = 100
	}
	if s.MaxTrials == 0 {
		s.MaxTrials = 100000
	}
	if s.MaxDiscardRate == 0 {
		s.MaxDiscardRate = 0.05
	}
	if len(s.Percentiles) == 0 {
		s.Percentiles = []int{10, 50, 90}
	}
}

// Validate checks the scenario for degenerate configuration. It returns an
// error wrapping ErrInvalidScenario naming the first violated constraint.
func (s *Scenario) Validate() error {
	if s.Area.WidthM <= 0 || s.Area.HeightM <= 0 {
		return fmt.Errorf("%w: area has zero measure (%.1fm x %.1fm)",
			ErrInvalidScenario, s.Area.WidthM, s.Area.HeightM)
	}
	if s.TransmitterCount() <= 0 {
		return fmt.Errorf("%w: configuration yields zero transmitters", ErrInvalidScenario)
	}
	if s.ReceiverCount <= 0 {
		return fmt.Errorf("%w: receiver count must be positive, got %d",
			ErrInvalidScenario, s.ReceiverCount)
	}
	if s.BandwidthMHz <= 0 {
		return fmt.Errorf("%w: bandwidth must be positive, got %.2f MHz",
			ErrInvalidScenario, s.BandwidthMHz)
	}
	if s.FrequencyGHz <= 0 {
		return fmt.Errorf("%w: frequency must be positive, got %.3f GHz",
			ErrInvalidScenario, s.FrequencyGHz)
	}
	switch s.Environment {
	case EnvUrban, EnvSuburban, EnvRural:
	default:
		return fmt.Errorf("%w: unknown environment %q", ErrInvalidScenario, s.Environment)
	}
	switch s.Generation {
	case Gen4G, Gen5G:
	default:
		return fmt.Errorf("%w: unknown generation %q", ErrInvalidScenario, s.Generation)
	}
	switch s.Placement {
	case PlacementUniform, PlacementGrid, PlacementHex, PlacementCluster:
	default:
		return fmt.Errorf("%w: unknown placement %q", ErrInvalidScenario, s.Placement)
	}
	switch s.ServingPolicy {
	case ServeNearest, ServeStrongest:
	default:
		return fmt.Errorf("%w: unknown serving policy %q", ErrInvalidScenario, s.ServingPolicy)
	}
	if s.NetworkLoadPct < 0 || s.NetworkLoadPct > 100 {
		return fmt.Errorf("%w: network load must be within [0,100], got %.1f",
			ErrInvalidScenario, s.NetworkLoadPct)
	}
	if s.IndoorProbability < 0 || s.IndoorProbability > 1 {
		return fmt.Errorf("%w: indoor probability must be within [0,1], got %.2f",
			ErrInvalidScenario, s.IndoorProbability)
	}
	if s.MaxDiscardRate < 0 || s.MaxDiscardRate > 1 {
		return fmt.Errorf("%w: max discard rate must be within [0,1], got %.2f",
			ErrInvalidScenario, s.MaxDiscardRate)
	}
	if s.Adaptive {
		if s.RelTolerance <= 0 {
			return fmt.Errorf("%w: adaptive mode requires a positive relative tolerance",
				ErrInvalidScenario)
		}
		if s.MaxTrials < s.CheckEvery {
			return fmt.Errorf("%w: trial cap %d below convergence check interval %d",
				ErrInvalidScenario, s.MaxTrials, s.CheckEvery)
		}
	} else if s.Trials <= 0 {
		return fmt.Errorf("%w: fixed mode requires a positive trial count", ErrInvalidScenario)
	}
	for _, p := range s.Percentiles {
		if p < 0 || p > 100 {
			return fmt.Errorf("%w: percentile %d outside [0,100]", ErrInvalidScenario, p)
		}
	}
	return nil
}
