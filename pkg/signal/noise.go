// SPDX-FileCopyrightText: 2026-present Cellplan Project <info@cellplan.io>
//
// SPDX-License-Identifier: Apache-2.0

package signal

import "math"

const (
	boltzmannJPerK = 1.38e-23
	ambientKelvin  = 290.0
)

// NoiseFloorDbm returns the thermal noise floor in dBm for a receiver of the
// given channel bandwidth and noise figure: kTB referred to 1 mW, degraded by
// the receiver's own noise contribution.
func NoiseFloorDbm(bandwidthMHz, noiseFigureDb float64) float64 {
	ktDbm := 10 * math.Log10(boltzmannJPerK*ambientKelvin*1000)
	return ktDbm + noiseFigureDb + 10*math.Log10(bandwidthMHz*1e6)
}
