// SPDX-FileCopyrightText: 2026-present Cellplan Project <info@cellplan.io>
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"math"

	"github.com/cellplan/radiosim/pkg/model"
)

// Distance returns the planar straight-line distance in meters between two
// coordinates.
func Distance(a, b model.Coordinate) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Distance3D returns the 3D straight-line distance in meters between two
// coordinates given the height of each endpoint above ground.
func Distance3D(a, b model.Coordinate, heightA, heightB float64) float64 {
	d2 := Distance(a, b)
	dh := heightA - heightB
	return math.Sqrt(d2*d2 + dh*dh)
}

// RoundToDecimal rounds value to the given number of decimals.
func RoundToDecimal(value float64, decimals int) float64 {
	intValue := value * math.Pow10(decimals)
	return math.Round(intValue) / math.Pow10(decimals)
}

func MwToDbm(mw float64) float64 {
	return 10 * math.Log10(mw)
}

func DbmToMw(dbm float64) float64 {
	return math.Pow(10, dbm/10)
}
