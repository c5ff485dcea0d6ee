// Copyright 2025 The Bcn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bcn

import (
	"image"
	"io"

	"golang.org/x/sync/errgroup"
)

// EncodeOptions are optional arguments to Encode. The zero value is valid and
// means to use the default configuration.
type EncodeOptions struct {
	// Parallelism is the maximum number of 4-pixel-high block rows encoded
	// concurrently. Zero or one means to encode everything on the calling
	// goroutine. The output bytes do not depend on Parallelism.
	Parallelism int
}

// MaxDimension is the largest width or height that Encode accepts.
const MaxDimension = 65536

// CanvasSize returns the width and height of the pixel data that Encode
// writes for a width×height source image. Block compressed formats round both
// down to a multiple of 4. Pixels outside the canvas are dropped.
func (f Format) CanvasSize(width int, height int) (int, int) {
	if f.IsCompressed() {
		return width &^ 3, height &^ 3
	}
	return width, height
}

// Encode writes src's pixel data to dst in the format f.
//
// For block compressed formats, the blocks are written in row-major order with
// no padding, and src is cropped to CanvasSize. Uncompressed formats are
// written as rows of tightly packed pixels.
//
// options may be nil, which means to use the default configuration.
func Encode(dst io.Writer, src image.Image, f Format, options *EncodeOptions) error {
	if (dst == nil) || (src == nil) || !f.IsValid() {
		return ErrBadArgument
	}

	b := src.Bounds()
	bW, bH := f.CanvasSize(b.Dx(), b.Dy())
	if (bW > MaxDimension) || (bH > MaxDimension) {
		return ErrImageIsTooLarge
	}

	if !f.IsCompressed() {
		return encodeUncompressed(dst, src, f, bW, bH)
	}

	parallelism := 1
	if options != nil {
		parallelism = max(1, options.Parallelism)
	}
	if (parallelism > 1) && (bH > 4) {
		return encodeParallel(dst, src, f, bW, bH, parallelism)
	}

	e, bufJ := &encoder{}, 0
	extract := makeExtract(&e.pixels, src)
	blockSize := f.BytesPerBlock()

	for blockY := 0; blockY < bH; blockY += 4 {
		for blockX := 0; blockX < bW; blockX += 4 {
			extract(blockX, blockY)
			e.encodeBlock(e.buf[bufJ:], f)
			bufJ += blockSize

			if bufJ >= encoderBufferSize {
				if _, err := dst.Write(e.buf[:]); err != nil {
					return err
				}
				bufJ = 0
			}
		}
	}

	if bufJ > 0 {
		if _, err := dst.Write(e.buf[:bufJ]); err != nil {
			return err
		}
	}
	return nil
}

// encodeParallel encodes each row of blocks on its own goroutine, then writes
// the rows in order.
func encodeParallel(dst io.Writer, src image.Image, f Format, bW int, bH int, parallelism int) error {
	blockSize := f.BytesPerBlock()
	rows := make([][]byte, bH/4)

	g := errgroup.Group{}
	g.SetLimit(parallelism)
	for r := range rows {
		g.Go(func() error {
			e := &blockEncoder{}
			extract := makeExtract(&e.pixels, src)
			row := make([]byte, (bW/4)*blockSize)
			for blockX, j := 0, 0; blockX < bW; blockX, j = blockX+4, j+blockSize {
				extract(blockX, 4*r)
				e.encodeBlock(row[j:], f)
			}
			rows[r] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := dst.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func encodeUncompressed(dst io.Writer, src image.Image, f Format, bW int, bH int) error {
	minPoint := src.Bounds().Min
	row := make([]byte, 0, bW*f.BitsPerPixel()/8)
	for y := range bH {
		row = row[:0]
		for x := range bW {
			row = f.appendPixel(row, nrgbaAt(src, minPoint.X+x, minPoint.Y+y))
		}
		if _, err := dst.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// encoderBufferSize is a multiple of every BytesPerBlock value.
const encoderBufferSize = 4096 - 64 - 64

type encoder struct {
	blockEncoder
	buf [encoderBufferSize]byte
}

// blockEncoder holds one extracted 4×4 block and the per-channel views of it
// that the block encoders consume.
type blockEncoder struct {
	pixels [64]byte
	scalar [2][NumBlockPixels]uint8
	colors [NumBlockPixels][3]uint8
}

// encodeBlock encodes e.pixels in the compressed format f, writing
// f.BytesPerBlock() bytes to dst.
func (e *blockEncoder) encodeBlock(dst []byte, f Format) {
	switch f {
	case FormatLuma8BC4:
		for i := range NumBlockPixels {
			e.scalar[0][i] = gray(e.pixels[4*i+0], e.pixels[4*i+1], e.pixels[4*i+2])
		}
		b := encodeBC4(&e.scalar[0])
		b.EncodeTo(dst)

	case FormatLumaAlpha8BC5:
		for i := range NumBlockPixels {
			e.scalar[0][i] = gray(e.pixels[4*i+0], e.pixels[4*i+1], e.pixels[4*i+2])
			e.scalar[1][i] = e.pixels[4*i+3]
		}
		b := BC5Block{encodeBC4(&e.scalar[0]), encodeBC4(&e.scalar[1])}
		b.EncodeTo(dst)

	case FormatRG8BC5:
		for i := range NumBlockPixels {
			e.scalar[0][i] = e.pixels[4*i+0]
			e.scalar[1][i] = e.pixels[4*i+1]
		}
		b := BC5Block{encodeBC4(&e.scalar[0]), encodeBC4(&e.scalar[1])}
		b.EncodeTo(dst)

	case FormatRGB8BC7:
		for i := range NumBlockPixels {
			e.colors[i] = [3]uint8{e.pixels[4*i+0], e.pixels[4*i+1], e.pixels[4*i+2]}
		}
		b := encodeBC7(&e.colors)
		b.EncodeTo(dst)
	}
}
