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
)

// Palette is an ordered list of single channel values derived from a pair of
// endpoints. Only the first N Entries are used.
//
// Entries[0] and Entries[1] are always the endpoints themselves.
type Palette struct {
	N       int
	Entries [8]uint8
}

// ColorPalette is the RGB equivalent of a Palette.
type ColorPalette struct {
	N       int
	Entries [8][3]uint8
}

// ExpandPalette returns the palette for the endpoints a and b with the given
// number of levels, which must be 4, 6 or 8.
//
// Entry 0 is a, entry 1 is b and the levels-2 entries after that step from a
// towards b. A 6 level palette also gets the fixed values 0x00 and 0xFF as
// entries 6 and 7, so that its length is 8.
//
// It panics if levels is not 4, 6 or 8.
func ExpandPalette(a uint8, b uint8, levels int) (p Palette) {
	switch levels {
	case 4, 8:
		p.N = levels
	case 6:
		p.N = 8
		p.Entries[6] = 0x00
		p.Entries[7] = 0xFF
	default:
		panic("bcn: invalid palette level count")
	}

	p.Entries[0] = a
	p.Entries[1] = b
	d := int32(levels - 1)
	for j := int32(1); j < d; j++ {
		p.Entries[j+1] = interpolate(a, b, j, d)
	}
	return p
}

// ExpandColorPalette is like ExpandPalette but for RGB endpoints.
func ExpandColorPalette(a [3]uint8, b [3]uint8, levels int) (p ColorPalette) {
	for c := range 3 {
		q := ExpandPalette(a[c], b[c], levels)
		p.N = q.N
		for i := range q.N {
			p.Entries[i][c] = q.Entries[i]
		}
	}
	return p
}

// interpolate returns ((d-j)*a + j*b) / d, rounded to nearest.
func interpolate(a uint8, b uint8, j int32, d int32) uint8 {
	n := (((d - j) * int32(a)) + (j * int32(b)) + (d / 2)) / d
	return uint8(min(0xFF, n))
}

// MapIndices returns, for each sample of block, the index of the nearest
// palette entry (by absolute difference), along with the sum of those
// differences.
//
// On a tie, the lower index wins.
func MapIndices(block *[NumBlockPixels]uint8, p *Palette) (indices [NumBlockPixels]uint8, loss int) {
	for i, v := range block {
		bestJ, bestDist := 0, math.MaxInt
		for j := range p.N {
			dist := absDiff(v, p.Entries[j])
			if bestDist > dist {
				bestJ, bestDist = j, dist
			}
		}
		indices[i] = uint8(bestJ)
		loss += bestDist
	}
	return indices, loss
}

// MapColorIndices sets dst[i] to the index of the palette entry nearest (by
// Euclidean distance) to block[i], for every pixel i whose bit is set in
// mask. Other elements of dst are left unchanged. It returns the sum of the
// Euclidean distances.
//
// On a tie, the lower index wins.
func MapColorIndices(dst *[NumBlockPixels]uint8, block *[NumBlockPixels][3]uint8, mask uint16, p *ColorPalette) (loss float64) {
	for i := range NumBlockPixels {
		if (mask & (1 << i)) == 0 {
			continue
		}
		bestJ, bestDist := 0, maxInt32
		for j := range p.N {
			dist := distanceSquared(block[i], p.Entries[j])
			if bestDist > dist {
				bestJ, bestDist = j, dist
			}
		}
		dst[i] = uint8(bestJ)
		loss += math.Sqrt(float64(bestDist))
	}
	return loss
}

func absDiff(x uint8, y uint8) int {
	if x > y {
		return int(x - y)
	}
	return int(y - x)
}

func distanceSquared(x [3]uint8, y [3]uint8) int32 {
	d0 := int32(x[0]) - int32(y[0])
	d1 := int32(x[1]) - int32(y[1])
	d2 := int32(x[2]) - int32(y[2])
	return (d0 * d0) + (d1 * d1) + (d2 * d2)
}

const maxInt32 = int32(0x7FFF_FFFF) // 2147483647
