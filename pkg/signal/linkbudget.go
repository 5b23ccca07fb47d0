// SPDX-FileCopyrightText: 2026-present Cellplan Project <info@cellplan.io>
//
// SPDX-License-Identifier: Apache-2.0

package signal

import (
	"golang.org/x/exp/rand"

	"github.com/cellplan/radiosim/pkg/model"
	"github.com/cellplan/radiosim/pkg/utils"
)

// Calculator evaluates link budgets for one scenario. It is stateless apart
// from the precomputed noise floor; a single Calculator is shared by all
// worker goroutines.
type Calculator struct {
	sc    *model.Scenario
	noise float64
}

// NewCalculator builds a link budget calculator for the scenario. The noise
// floor is fixed per scenario, so it is computed once up front.
func NewCalculator(sc *model.Scenario) *Calculator {
	return &Calculator{
		sc:    sc,
		noise: NoiseFloorDbm(sc.BandwidthMHz, sc.NoiseFigureDb),
	}
}

// NoiseFloor returns the scenario's thermal noise floor in dBm.
func (c *Calculator) NoiseFloor() float64 {
	return c.noise
}

type linkSample struct {
	distM  float64
	lossDb float64
	pm     Model
	rxDbm  float64
}

// Evaluate computes one link budget per receiver of the realization. For each
// receiver every transmitter's path is evaluated with fresh shadow fading,
// the serving transmitter is selected by the scenario policy, and all other
// transmitters contribute interference in the linear power domain, scaled by
// the network load fraction. Ties on the serving criterion resolve to the
// lower transmitter index so results do not depend on iteration order.
func (c *Calculator) Evaluate(r *model.Realization, rng *rand.Rand) []model.LinkResult {
	results := make([]model.LinkResult, 0, len(r.Receivers))
	load := c.sc.NetworkLoadPct / 100
	samples := make([]linkSample, len(r.Transmitters))

	for _, rx := range r.Receivers {
		indoorDb := IndoorLoss(rng, rx.Indoor)

		for i, tx := range r.Transmitters {
			d := utils.Distance(tx.Coord, rx.Coord)
			if d < minPathDistanceM {
				d = minPathDistanceM
			}
			median, pm := PathLoss(d, PathParams{
				FrequencyGHz: c.sc.FrequencyGHz,
				Environment:  c.sc.Environment,
				TxHeightM:    tx.HeightM,
				RxHeightM:    rx.HeightM,
			})
			loss := median + indoorDb
			if c.sc.Shadowing {
				loss += ShadowSample(rng, 1, ShadowSigma(pm, d), c.sc.ShadowIterations)
			}
			eirp := tx.PowerDbm + tx.GainDbi - tx.LossesDb
			samples[i] = linkSample{
				distM:  d,
				lossDb: loss,
				pm:     pm,
				rxDbm:  eirp - loss - rx.MiscLossDb + rx.GainDbi - rx.LossesDb,
			}
		}

		serving := 0
		for i := 1; i < len(samples); i++ {
			switch c.sc.ServingPolicy {
			case model.ServeStrongest:
				if samples[i].rxDbm > samples[serving].rxDbm {
					serving = i
				}
			default:
				if samples[i].distM < samples[serving].distM {
					serving = i
				}
			}
		}

		interferenceMw := 0.0
		for i := range samples {
			if i == serving {
				continue
			}
			interferenceMw += utils.DbmToMw(samples[i].rxDbm) * load
		}

		sv := samples[serving]
		sigMw := utils.DbmToMw(sv.rxDbm)
		noiseMw := utils.DbmToMw(c.noise)
		sinr := utils.MwToDbm(sigMw / (interferenceMw + noiseMw))

		results = append(results, model.LinkResult{
			ReceiverID:     rx.ID,
			ServingID:      r.Transmitters[serving].ID,
			DistanceM:      sv.distM,
			PathLossDb:     sv.lossDb,
			PathModel:      string(sv.pm),
			SignalDbm:      sv.rxDbm,
			InterferenceMw: interferenceMw,
			NoiseDbm:       c.noise,
			SINRDb:         sinr,
		})
	}
	return results
}
