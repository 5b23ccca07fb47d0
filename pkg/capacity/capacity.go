// SPDX-FileCopyrightText: 2026-present Cellplan Project <info@cellplan.io>
//
// SPDX-License-Identifier: Apache-2.0

package capacity

import (
	"math"

	"github.com/cellplan/radiosim/pkg/model"
)

// MCSEntry is one row of the modulation and coding lookup table: the lowest
// SINR at which the scheme is usable and the spectral efficiency it delivers.
type MCSEntry struct {
	CQI              int
	Modulation       string
	CodingRate       int
	SpectralEffBpsHz float64
	SINRThresholdDb  float64
}

// CQI-to-MCS mapping per ETSI TS 36.213 (4G) and TS 38.214 table 2 (5G),
// ordered by ascending SINR threshold.
var (
	lut4G = []MCSEntry{
		{1, "QPSK", 78, 0.1523, -6.7},
		{2, "QPSK", 120, 0.2344, -4.7},
		{3, "QPSK", 193, 0.3770, -2.3},
		{4, "QPSK", 308, 0.6016, 0.2},
		{5, "QPSK", 449, 0.8770, 2.4},
		{6, "QPSK", 602, 1.1758, 4.3},
		{7, "16QAM", 378, 1.4766, 5.9},
		{8, "16QAM", 490, 1.9141, 8.1},
		{9, "16QAM", 616, 2.4063, 10.3},
		{10, "64QAM", 466, 2.7305, 11.7},
		{11, "64QAM", 567, 3.3223, 14.1},
		{12, "64QAM", 666, 3.9023, 16.3},
		{13, "64QAM", 772, 4.5234, 18.7},
		{14, "64QAM", 873, 5.1152, 21},
		{15, "64QAM", 948, 5.5547, 22.7},
	}
	lut5G = []MCSEntry{
		{1, "QPSK", 78, 0.1523, -6.7},
		{2, "QPSK", 193, 0.3770, -4.7},
		{3, "QPSK", 449, 0.8770, -2.3},
		{4, "16QAM", 378, 1.4766, 0.2},
		{5, "16QAM", 490, 1.9141, 2.4},
		{6, "16QAM", 616, 2.4063, 4.3},
		{7, "64QAM", 466, 2.7305, 5.9},
		{8, "64QAM", 567, 3.3223, 8.1},
		{9, "64QAM", 666, 3.9023, 10.3},
		{10, "64QAM", 772, 4.5234, 11.7},
		{11, "64QAM", 873, 5.1152, 14.1},
		{12, "256QAM", 711, 5.5547, 16.3},
		{13, "256QAM", 797, 6.2266, 18.7},
		{14, "256QAM", 885, 6.9141, 21},
		{15, "256QAM", 948, 7.4063, 22.7},
	}
)

// Table returns the modulation and coding table for the generation.
func Table(gen model.Generation) []MCSEntry {
	if gen == model.Gen5G {
		return lut5G
	}
	return lut4G
}

// Lookup returns the highest-CQI table entry whose SINR threshold the given
// SINR meets, or false when the link cannot sustain even the lowest scheme.
func Lookup(gen model.Generation, sinrDb float64) (MCSEntry, bool) {
	lut := Table(gen)
	found := false
	var best MCSEntry
	for _, e := range lut {
		if sinrDb >= e.SINRThresholdDb {
			best = e
			found = true
		}
	}
	return best, found
}

// SpectralEfficiency maps an SINR to spectral efficiency in bps/Hz under the
// scenario's capacity model. The MCS model is a step function over the CQI
// table; the Shannon model is log2(1+SINR) clipped to the generation's
// highest-scheme efficiency, so both models share the same ceiling.
func SpectralEfficiency(gen model.Generation, cm model.CapacityModel, sinrDb float64) float64 {
	if cm == model.CapacityShannon {
		lut := Table(gen)
		ceiling := lut[len(lut)-1].SpectralEffBpsHz
		se := math.Log2(1 + math.Pow(10, sinrDb/10))
		return math.Min(se, ceiling)
	}
	e, ok := Lookup(gen, sinrDb)
	if !ok {
		return 0
	}
	return e.SpectralEffBpsHz
}

// ThroughputMbps converts spectral efficiency to link throughput for the
// channel bandwidth. bps/Hz times MHz yields Mbps directly.
func ThroughputMbps(spectralEff, bandwidthMHz float64) float64 {
	return spectralEff * bandwidthMHz
}

// AreaCapacityMbpsKm2 is the aggregate throughput of the simulated region
// normalised by its area.
func AreaCapacityMbpsKm2(totalMbps, areaKm2 float64) float64 {
	if areaKm2 <= 0 {
		return 0
	}
	return totalMbps / areaKm2
}
