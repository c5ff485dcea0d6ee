// Copyright 2025 The Bcn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bcn

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// EstimateEndpoints returns the two ends of a line fitted to values.
//
// The distinct values, in ascending order, are regressed (ordinary least
// squares) against their rank 0, 1, ..., n-1. The fitted line, evaluated at
// rank 0 and rank n-1 and clamped to [0, 255], gives lo and hi. Isolated
// outliers move these less than they would move a plain minimum and maximum.
//
// A single distinct value gives lo == hi == that value. An empty slice gives
// zero for both.
func EstimateEndpoints(values []uint8) (lo uint8, hi uint8) {
	seen := [256]bool{}
	for _, v := range values {
		seen[v] = true
	}

	ranks, ys := [256]float64{}, [256]float64{}
	n := 0
	for v := range 256 {
		if seen[v] {
			ranks[n] = float64(n)
			ys[n] = float64(v)
			n++
		}
	}

	switch n {
	case 0:
		return 0, 0
	case 1:
		return uint8(ys[0]), uint8(ys[0])
	}

	alpha, beta := stat.LinearRegression(ranks[:n], ys[:n], nil, false)
	return clampRound(alpha), clampRound(alpha + (beta * float64(n-1)))
}

// EstimateColorEndpoints is like EstimateEndpoints but for RGB colors. Each
// channel is fitted independently.
func EstimateColorEndpoints(colors [][3]uint8) (lo [3]uint8, hi [3]uint8) {
	buf := [NumBlockPixels]uint8{}
	for c := range 3 {
		values := buf[:0]
		for _, color := range colors {
			values = append(values, color[c])
		}
		lo[c], hi[c] = EstimateEndpoints(values)
	}
	return lo, hi
}

func clampRound(x float64) uint8 {
	return uint8(max(0, min(255, math.Round(x))))
}
