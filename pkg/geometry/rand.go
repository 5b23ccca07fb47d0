// SPDX-FileCopyrightText: 2026-present Cellplan Project <info@cellplan.io>
//
// SPDX-License-Identifier: Apache-2.0

package geometry

import (
	"golang.org/x/exp/rand"
)

// splitmix64 is the finalizer of the SplitMix64 generator, used here to
// spread (base seed, trial index) pairs into uncorrelated stream seeds.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// TrialSeed derives a deterministic, per-trial stream seed from the scenario
// base seed and the trial index. The derivation depends only on the pair, so
// trials can be dispatched in any order without correlating their streams.
func TrialSeed(base int64, trial int) uint64 {
	return splitmix64(splitmix64(uint64(base)) ^ splitmix64(uint64(trial)+1))
}

// TrialRand returns the random source owned by one trial.
func TrialRand(base int64, trial int) *rand.Rand {
	return rand.New(rand.NewSource(TrialSeed(base, trial)))
}
