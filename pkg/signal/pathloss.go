// SPDX-FileCopyrightText: 2026-present Cellplan Project <info@cellplan.io>
//
// SPDX-License-Identifier: Apache-2.0

package signal

import (
	"math"

	"github.com/cellplan/radiosim/pkg/model"
)

// Model identifies the propagation variant that produced a path loss figure.
type Model string

const (
	ModelFreeSpace    Model = "free_space"
	ModelExtendedHata Model = "extended_hata"
	ModelUMaNLOS      Model = "uma_nlos"
	ModelCloseIn      Model = "close_in"
)

// PathParams is the parameter record of a propagation variant. All fields are
// plain values; the path loss functions are pure in (distance, params).
type PathParams struct {
	FrequencyGHz float64
	Environment  model.Environment
	TxHeightM    float64
	RxHeightM    float64
}

// Extended Hata is only specified between 40 m and 100 km; close-range links
// are clamped to the model floor rather than extrapolated.
const (
	minPathDistanceM = 1.0
	maxHataKm        = 100.0
)

// PathLoss returns the median path loss in dB for a link of the given length,
// selecting the propagation variant from the frequency regime:
// Extended Hata (ITU-R SM.2028) with a free-space floor up to 3 GHz, the
// TR 38.901 UMa NLOS optional model up to 6 GHz, and a close-in reference
// model for millimeter-wave bands. The result is never negative and is
// monotonically non-decreasing in distance for fixed parameters.
func PathLoss(distM float64, p PathParams) (float64, Model) {
	if distM < minPathDistanceM {
		distM = minPathDistanceM
	}
	var (
		pl float64
		m  Model
	)
	switch {
	case p.FrequencyGHz <= 3:
		fs := freeSpace(distM, p)
		eh := extendedHata(distM, p)
		// SM.2028: when the median loss falls below free-space attenuation
		// at the same distance, free space is used instead.
		if eh < fs {
			pl, m = fs, ModelFreeSpace
		} else {
			pl, m = eh, ModelExtendedHata
		}
	case p.FrequencyGHz < 6:
		pl, m = umaNLOS(distM, p), ModelUMaNLOS
	default:
		pl, m = closeIn(distM, p), ModelCloseIn
	}
	return math.Max(pl, 0), m
}

// freeSpace implements the free-space model with the antenna height delta
// folded into the slant distance. Frequency in MHz, distance in km.
func freeSpace(distM float64, p PathParams) float64 {
	fMHz := p.FrequencyGHz * 1000
	dKm := distM / 1000
	dh := (p.TxHeightM - p.RxHeightM) / 1000
	return 32.4 + 10*math.Log10(dh*dh+dKm*dKm) + 20*math.Log10(fMHz)
}

// extendedHata implements the Extended Hata median path loss of
// ITU-R SM.2028 (30 MHz - 3 GHz), including the suburban and open-area
// corrections and the 40-100 m log-distance interpolation.
func extendedHata(distM float64, p PathParams) float64 {
	fMHz := p.FrequencyGHz * 1000
	dKm := math.Min(distM/1000, maxHataKm)

	hm := math.Min(p.TxHeightM, p.RxHeightM)
	hb := math.Max(p.TxHeightM, p.RxHeightM)

	alphaHm := (1.1*math.Log10(fMHz)-0.7)*math.Min(10, hm) -
		(1.56*math.Log10(fMHz) - 0.8) + math.Max(0, 20*math.Log10(hm/10))
	betaHb := math.Min(0, 20*math.Log10(hb/30))

	alphaExp := 1.0
	if dKm > 20 {
		alphaExp = 1 + (0.14+1.87e-4*fMHz+1.07e-3*hb)*
			math.Pow(math.Log10(dKm/20), 0.8)
	}

	var pl float64
	switch {
	case dKm < 0.04:
		pl = 32.4 + 20*math.Log10(fMHz) +
			10*math.Log10(dKm*dKm+(hb-hm)*(hb-hm)/1e6)

	case dKm < 0.1:
		lower := 32.4 + 20*math.Log10(fMHz) +
			10*math.Log10(0.04*0.04+(hb-hm)*(hb-hm)/1e6)
		upper := 32.4 + 20*math.Log10(fMHz) +
			10*math.Log10(0.1*0.1+(hb-hm)*(hb-hm)/1e6)
		pl = lower + (math.Log10(dKm)-math.Log10(0.04))/
			(math.Log10(0.1)-math.Log10(0.04))*(upper-lower)

	default:
		hbTerm := 13.82 * math.Log10(math.Max(30, hb))
		slope := (44.9 - 6.55*math.Log10(math.Max(30, hb))) *
			math.Pow(math.Log10(dKm), alphaExp)

		switch {
		case fMHz <= 150:
			pl = 69.6 + 26.2*math.Log10(150) - 20*math.Log10(150/fMHz) -
				hbTerm + slope - alphaHm - betaHb
		case fMHz <= 1500:
			pl = 69.6 + 26.2*math.Log10(fMHz) - hbTerm + slope - alphaHm - betaHb
		case fMHz <= 2000:
			pl = 46.3 + 33.9*math.Log10(fMHz) - hbTerm + slope - alphaHm - betaHb
		default:
			pl = 46.3 + 33.9*math.Log10(2000) + 10*math.Log10(fMHz/2000) -
				hbTerm + slope - alphaHm - betaHb
		}

		fClamped := math.Min(math.Max(150, fMHz), 2000)
		switch p.Environment {
		case model.EnvSuburban:
			t := math.Log10(fClamped / 28)
			pl = pl - 2*t*t - 5.4
		case model.EnvRural:
			t := math.Log10(fClamped)
			pl = pl - 4.78*t*t + 18.33*t - 40.94
		}
	}
	return pl
}

// umaNLOS implements the UMa NLOS optional model of ETSI TR 138.901 for the
// 3-6 GHz range. Frequency in GHz, 3D distance in meters.
func umaNLOS(distM float64, p PathParams) float64 {
	dh := p.TxHeightM - p.RxHeightM
	d3D := math.Sqrt(distM*distM + dh*dh)
	return 32.4 + 20*math.Log10(p.FrequencyGHz) + 30*math.Log10(d3D)
}

// closeIn implements a close-in reference model for millimeter-wave bands
// with per-environment loss exponents. These are configurable defaults, not
// measurements of any specific deployment.
func closeIn(distM float64, p PathParams) float64 {
	n := 2.9
	switch p.Environment {
	case model.EnvSuburban:
		n = 2.8
	case model.EnvRural:
		n = 2.7
	}
	dh := p.TxHeightM - p.RxHeightM
	d3D := math.Sqrt(distM*distM + dh*dh)
	return 32.4 + 10*n*math.Log10(d3D) + 20*math.Log10(p.FrequencyGHz)
}
