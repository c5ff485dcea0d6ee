// Copyright 2025 The Bcn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bcn

// BC4Block is an encoded single channel 4×4 block.
//
// When A > B, Indices refer to an 8 level palette. Otherwise they refer to a
// 6 level palette plus the fixed values 0x00 (index 6) and 0xFF (index 7).
// See ExpandPalette.
type BC4Block struct {
	A       uint8
	B       uint8
	Indices [NumBlockPixels]uint8

	// Loss is the sum, over all 16 samples, of the absolute difference
	// between the sample and its palette entry.
	Loss int
}

// EncodeBC4 encodes one 4×4 block of single channel samples, in row-major
// order. It returns ErrBadSampleCount unless len(samples) is 16.
func EncodeBC4(samples []uint8) (BC4Block, error) {
	if len(samples) != NumBlockPixels {
		return BC4Block{}, ErrBadSampleCount
	}
	return encodeBC4((*[NumBlockPixels]uint8)(samples)), nil
}

func encodeBC4(block *[NumBlockPixels]uint8) (ret BC4Block) {
	lo, hi := EstimateEndpoints(block[:])
	ret.A, ret.B = hi, lo

	levels := 6
	if ret.A > ret.B {
		levels = 8
	}
	p := ExpandPalette(ret.A, ret.B, levels)
	ret.Indices, ret.Loss = MapIndices(block, &p)
	return ret
}

// EncodeTo writes the BC4BlockSize byte binary form of b to dst: the two
// endpoints followed by 48 bits (16 × 3 bits, little-endian) of indices.
//
// dst must be at least BC4BlockSize bytes long.
func (b *BC4Block) EncodeTo(dst []byte) {
	_ = dst[BC4BlockSize-1] // Early bounds check.
	dst[0] = b.A
	dst[1] = b.B
	bits := packBC4Indices(&b.Indices)
	for i := range 6 {
		dst[2+i] = uint8(bits >> (8 * i))
	}
}

func packBC4Indices(indices *[NumBlockPixels]uint8) (bits uint64) {
	for i, index := range indices {
		bits |= uint64(index&7) << (3 * i)
	}
	return bits
}

func unpackBC4Indices(bits uint64) (indices [NumBlockPixels]uint8) {
	for i := range indices {
		indices[i] = uint8(bits>>(3*i)) & 7
	}
	return indices
}

// BC5Block is an encoded two channel 4×4 block: two independent BC4 blocks.
//
// Which source channels go in which half (e.g. red and green, or luma and
// alpha) is the caller's choice. It is not recorded in the block.
type BC5Block [2]BC4Block

// EncodeBC5 encodes one 4×4 block of two channel samples, each channel in
// row-major order. It returns ErrMismatchedChannels if the two slices' lengths
// differ and ErrBadSampleCount unless each length is 16.
func EncodeBC5(c0 []uint8, c1 []uint8) (BC5Block, error) {
	if len(c0) != len(c1) {
		return BC5Block{}, ErrMismatchedChannels
	} else if len(c0) != NumBlockPixels {
		return BC5Block{}, ErrBadSampleCount
	}
	return BC5Block{
		encodeBC4((*[NumBlockPixels]uint8)(c0)),
		encodeBC4((*[NumBlockPixels]uint8)(c1)),
	}, nil
}

// Loss returns the sum of the two channels' losses.
func (b *BC5Block) Loss() int {
	return b[0].Loss + b[1].Loss
}

// EncodeTo writes the BC5BlockSize byte binary form of b to dst.
//
// dst must be at least BC5BlockSize bytes long.
func (b *BC5Block) EncodeTo(dst []byte) {
	_ = dst[BC5BlockSize-1] // Early bounds check.
	b[0].EncodeTo(dst[0:])
	b[1].EncodeTo(dst[BC4BlockSize:])
}
