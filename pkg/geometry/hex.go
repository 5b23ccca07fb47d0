// SPDX-FileCopyrightText: 2026-present Cellplan Project <info@cellplan.io>
//
// SPDX-License-Identifier: Apache-2.0

package geometry

import (
	"math"

	"github.com/cellplan/radiosim/pkg/model"
)

// hexPoints lays a honeycomb lattice over the area with inter-site distance
// derived from the requested count, and keeps the n sites closest to the
// area center. A hexagonal cell of inter-site distance d covers
// sqrt(3)/2 * d^2, which fixes d for a target site count. Rows sit
// sqrt(3)/2 * d apart with every other row offset by half the pitch.
func hexPoints(area model.Area, n int) []model.Coordinate {
	areaM2 := area.WidthM * area.HeightM
	isd := math.Sqrt(2 * areaM2 / (math.Sqrt(3) * float64(n)))
	rowPitch := isd * math.Sqrt(3) / 2

	// Overscan one cell beyond each edge so clipped rows still contribute
	// candidates near the boundary.
	lattice := make([]model.Coordinate, 0, 2*n)
	row := 0
	for y := -rowPitch; y <= area.HeightM+rowPitch; y += rowPitch {
		offset := 0.0
		if row%2 == 1 {
			offset = isd / 2
		}
		for x := -isd + offset; x <= area.WidthM+isd; x += isd {
			if x < 0 || x > area.WidthM || y < 0 || y > area.HeightM {
				continue
			}
			lattice = append(lattice, model.Coordinate{X: x, Y: y})
		}
		row++
	}
	return nearestToCenter(lattice, area, n)
}

// InterferenceRing returns the indices of the ring of sites directly
// neighboring the site closest to the area center, ordered by distance. The
// first interferer tier of a hexagonal layout has six members.
func InterferenceRing(sites []model.Coordinate, area model.Area) (center int, ring []int) {
	c := model.Coordinate{X: area.WidthM / 2, Y: area.HeightM / 2}
	center = 0
	best := math.Inf(1)
	for i, s := range sites {
		if d := sqDist(s, c); d < best {
			best = d
			center = i
		}
	}

	type neighbor struct {
		idx  int
		dist float64
	}
	neighbors := make([]neighbor, 0, len(sites)-1)
	for i, s := range sites {
		if i == center {
			continue
		}
		neighbors = append(neighbors, neighbor{i, sqDist(s, sites[center])})
	}
	for i := 1; i < len(neighbors); i++ {
		for j := i; j > 0 && neighbors[j].dist < neighbors[j-1].dist; j-- {
			neighbors[j], neighbors[j-1] = neighbors[j-1], neighbors[j]
		}
	}
	limit := 6
	if len(neighbors) < limit {
		limit = len(neighbors)
	}
	for _, nb := range neighbors[:limit] {
		ring = append(ring, nb.idx)
	}
	return center, ring
}
