// Copyright 2025 The Bcn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bcn

// bc7Mode3Levels is the palette size of BC7 mode 3 (2-bit indices).
const bc7Mode3Levels = 4

// BC7Block is an encoded BC7 mode 3 block: an opaque RGB 4×4 block split into
// two subsets, each with its own pair of endpoints.
type BC7Block struct {
	// Partition indexes the 64 two-subset partition shapes.
	Partition uint8

	// Endpoints[s] holds subset s's two endpoints. Each channel has already
	// been quantized to 7 bits: the low bit is always zero.
	Endpoints [2][2][3]uint8

	// Indices holds each pixel's ColorPalette index, in raster order, for
	// the palette of the pixel's subset.
	Indices [NumBlockPixels]uint8

	// Loss is the sum, over all 16 pixels, of the Euclidean distance between
	// the pixel and its palette entry.
	Loss float64
}

// EncodeBC7 encodes one 4×4 block of RGB pixels, in row-major order, as a BC7
// mode 3 block. It returns ErrBadSampleCount unless len(pixels) is 16.
//
// Every partition shape is tried and the one with the lowest Loss wins. On a
// tie, the lowest numbered partition wins.
func EncodeBC7(pixels [][3]uint8) (BC7Block, error) {
	if len(pixels) != NumBlockPixels {
		return BC7Block{}, ErrBadSampleCount
	}
	return encodeBC7((*[NumBlockPixels][3]uint8)(pixels)), nil
}

type bc7Candidate struct {
	endpoints [2][2][3]uint8
	indices   [NumBlockPixels]uint8
	loss      float64
}

func encodeBC7(block *[NumBlockPixels][3]uint8) BC7Block {
	best, bestPartition := evaluateBC7Partition(block, 0), 0
	for partition := 1; partition < NumBC7Partitions; partition++ {
		c := evaluateBC7Partition(block, partition)
		if best.loss > c.loss {
			best, bestPartition = c, partition
		}
	}

	ret := BC7Block{
		Partition: uint8(bestPartition),
		Indices:   best.indices,
		Loss:      best.loss,
	}
	for s := range 2 {
		for e := range 2 {
			for c := range 3 {
				ret.Endpoints[s][e][c] = best.endpoints[s][e][c] &^ 1
			}
		}
	}
	return ret
}

func evaluateBC7Partition(block *[NumBlockPixels][3]uint8, partition int) (ret bc7Candidate) {
	subset1 := bc7Partitions[partition]
	masks := [2]uint16{^subset1, subset1}

	for s, mask := range masks {
		members, n := [NumBlockPixels][3]uint8{}, 0
		for i := range NumBlockPixels {
			if (mask & (1 << i)) != 0 {
				members[n] = block[i]
				n++
			}
		}

		lo, hi := EstimateColorEndpoints(members[:n])
		ret.endpoints[s] = [2][3]uint8{lo, hi}
		p := ExpandColorPalette(lo, hi, bc7Mode3Levels)
		ret.loss += MapColorIndices(&ret.indices, block, mask, &p)
	}
	return ret
}

// EncodeTo writes the BC7BlockSize byte binary form of b to dst.
//
// The 128 bits, least significant first, are: the mode 3 tag (4 bits), the
// partition (6), four red, four green and four blue 7-bit endpoint values, four
// p-bits (always zero) and the 30 bits of indices. Those are hardware palette
// indices (0 and 3 are the endpoints), not the ColorPalette order of b.Indices.
//
// Each subset's anchor pixel index must have a zero high bit. When it doesn't,
// that subset's endpoints are swapped and its indices mirrored, which decodes
// to the same colors.
//
// dst must be at least BC7BlockSize bytes long.
func (b *BC7Block) EncodeTo(dst []byte) {
	_ = dst[BC7BlockSize-1] // Early bounds check.

	partition := b.Partition % NumBC7Partitions
	subset1 := bc7Partitions[partition]
	anchors := [2]int{0, int(bc7AnchorsSecondSubset[partition])}

	endpoints := b.Endpoints
	indices := [NumBlockPixels]uint8{}
	for i, index := range b.Indices {
		indices[i] = bc7HardwareIndex[index&3]
	}

	for s := range 2 {
		if indices[anchors[s]] < 2 {
			continue
		}
		endpoints[s][0], endpoints[s][1] = endpoints[s][1], endpoints[s][0]
		for i := range NumBlockPixels {
			if int((subset1>>i)&1) == s {
				indices[i] = 3 - indices[i]
			}
		}
	}

	w := bitWriter128{}
	w.write(0b1000, 4)
	w.write(uint64(partition), 6)
	for c := range 3 {
		for s := range 2 {
			for e := range 2 {
				w.write(uint64(endpoints[s][e][c]>>1), 7)
			}
		}
	}
	w.write(0, 4)
	for i, index := range indices {
		if (i == anchors[0]) || (i == anchors[1]) {
			w.write(uint64(index), 1)
		} else {
			w.write(uint64(index), 2)
		}
	}

	writeU64LE(dst[0:], w.lo)
	writeU64LE(dst[8:], w.hi)
}

// bitWriter128 accumulates up to 128 bits, least significant bit first.
type bitWriter128 struct {
	lo uint64
	hi uint64
	n  uint
}

func (w *bitWriter128) write(x uint64, nBits uint) {
	x &= (1 << nBits) - 1
	if w.n < 64 {
		w.lo |= x << w.n
		if (w.n + nBits) > 64 {
			w.hi |= x >> (64 - w.n)
		}
	} else {
		w.hi |= x << (w.n - 64)
	}
	w.n += nBits
}

func writeU64LE(buf []byte, x uint64) {
	_ = buf[7] // Early bounds check.
	buf[0] = uint8(x >> 0)
	buf[1] = uint8(x >> 8)
	buf[2] = uint8(x >> 16)
	buf[3] = uint8(x >> 24)
	buf[4] = uint8(x >> 32)
	buf[5] = uint8(x >> 40)
	buf[6] = uint8(x >> 48)
	buf[7] = uint8(x >> 56)
}
