// SPDX-FileCopyrightText: 2026-present Cellplan Project <info@cellplan.io>
//
// SPDX-License-Identifier: Apache-2.0

package geometry

import (
	"fmt"
	"math"
	"sort"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	"github.com/cellplan/radiosim/pkg/model"
)

// Sample produces the spatial realization of one trial: transmitter sites
// dropped under the scenario's placement process and receivers dropped
// uniformly (or on a regular grid) inside the area. Counts always match the
// scenario exactly and every point lies within the area bounds.
func Sample(sc *model.Scenario, trial int, rng *rand.Rand) (*model.Realization, error) {
	txCount := sc.TransmitterCount()
	if txCount <= 0 {
		return nil, fmt.Errorf("%w: configuration yields zero transmitters", model.ErrInvalidScenario)
	}
	if sc.ReceiverCount <= 0 {
		return nil, fmt.Errorf("%w: receiver count must be positive, got %d",
			model.ErrInvalidScenario, sc.ReceiverCount)
	}

	var sites []model.Coordinate
	switch sc.Placement {
	case model.PlacementUniform:
		sites = uniformPoints(sc.Area, txCount, rng)
	case model.PlacementGrid:
		sites = gridPoints(sc.Area, txCount, rng, true)
	case model.PlacementHex:
		sites = hexPoints(sc.Area, txCount)
	case model.PlacementCluster:
		sites = clusterPoints(sc.Area, txCount, rng)
	default:
		return nil, fmt.Errorf("%w: unknown placement %q", model.ErrInvalidScenario, sc.Placement)
	}

	geo := &model.Realization{
		Trial:        trial,
		Transmitters: make([]model.Transmitter, 0, txCount),
		Receivers:    make([]model.Receiver, 0, sc.ReceiverCount),
	}
	for i, c := range sites {
		geo.Transmitters = append(geo.Transmitters, model.Transmitter{
			ID:       i,
			Coord:    c,
			PowerDbm: sc.TxPowerDbm,
			GainDbi:  sc.TxGainDbi,
			LossesDb: sc.TxLossesDb,
			HeightM:  sc.MastHeightM,
		})
	}

	var rxSites []model.Coordinate
	if sc.ReceiverGrid {
		rxSites = gridPoints(sc.Area, sc.ReceiverCount, rng, false)
	} else {
		rxSites = uniformPoints(sc.Area, sc.ReceiverCount, rng)
	}
	for i, c := range rxSites {
		geo.Receivers = append(geo.Receivers, model.Receiver{
			ID:         i,
			Coord:      c,
			HeightM:    sc.RxHeightM,
			GainDbi:    sc.RxGainDbi,
			LossesDb:   sc.RxLossesDb,
			MiscLossDb: sc.RxMiscLossDb,
			Indoor:     rng.Float64() < sc.IndoorProbability,
		})
	}

	log.Debugf("trial %d: sampled %d sites (%s) and %d receivers",
		trial, len(geo.Transmitters), sc.Placement, len(geo.Receivers))
	return geo, nil
}

func uniformPoints(area model.Area, n int, rng *rand.Rand) []model.Coordinate {
	pts := make([]model.Coordinate, n)
	for i := range pts {
		pts[i] = model.Coordinate{
			X: rng.Float64() * area.WidthM,
			Y: rng.Float64() * area.HeightM,
		}
	}
	return pts
}

// gridPoints lays a rectangular lattice over the area with spacing derived
// from the requested count, keeps the n lattice cells closest to the area
// center, and (optionally) jitters each point within a quarter spacing.
func gridPoints(area model.Area, n int, rng *rand.Rand, jitter bool) []model.Coordinate {
	cols := int(math.Ceil(math.Sqrt(float64(n) * area.WidthM / area.HeightM)))
	if cols < 1 {
		cols = 1
	}
	rows := (n + cols - 1) / cols
	sx := area.WidthM / float64(cols)
	sy := area.HeightM / float64(rows)

	lattice := make([]model.Coordinate, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			lattice = append(lattice, model.Coordinate{
				X: (float64(c) + 0.5) * sx,
				Y: (float64(r) + 0.5) * sy,
			})
		}
	}
	pts := nearestToCenter(lattice, area, n)

	if jitter {
		jx := sx / 4
		jy := sy / 4
		for i := range pts {
			pts[i].X = clamp(pts[i].X+(rng.Float64()*2-1)*jx, 0, area.WidthM)
			pts[i].Y = clamp(pts[i].Y+(rng.Float64()*2-1)*jy, 0, area.HeightM)
		}
	}
	return pts
}

// clusterPoints draws sites from a Thomas cluster process: uniformly placed
// parents with normally distributed offspring, reflected back into the area.
func clusterPoints(area model.Area, n int, rng *rand.Rand) []model.Coordinate {
	parents := n / 5
	if parents < 1 {
		parents = 1
	}
	centers := uniformPoints(area, parents, rng)
	sigma := 0.1 * math.Min(area.WidthM, area.HeightM)

	pts := make([]model.Coordinate, n)
	for i := range pts {
		p := centers[rng.Intn(parents)]
		pts[i] = model.Coordinate{
			X: reflect(p.X+rng.NormFloat64()*sigma, area.WidthM),
			Y: reflect(p.Y+rng.NormFloat64()*sigma, area.HeightM),
		}
	}
	return pts
}

// nearestToCenter keeps the n candidates closest to the area center,
// breaking distance ties on the lower candidate index, and returns them in
// their original order so site IDs stay stable.
func nearestToCenter(candidates []model.Coordinate, area model.Area, n int) []model.Coordinate {
	center := model.Coordinate{X: area.WidthM / 2, Y: area.HeightM / 2}
	idx := make([]int, len(candidates))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		da := sqDist(candidates[idx[a]], center)
		db := sqDist(candidates[idx[b]], center)
		if da != db {
			return da < db
		}
		return idx[a] < idx[b]
	})
	if n > len(idx) {
		n = len(idx)
	}
	keep := append([]int(nil), idx[:n]...)
	sort.Ints(keep)

	pts := make([]model.Coordinate, 0, n)
	for _, i := range keep {
		pts = append(pts, candidates[i])
	}
	return pts
}

func sqDist(a, b model.Coordinate) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// reflect folds a coordinate back into [0, limit] by mirroring at the edges.
func reflect(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	period := 2 * limit
	v = math.Mod(v, period)
	if v < 0 {
		v += period
	}
	if v > limit {
		v = period - v
	}
	return v
}
