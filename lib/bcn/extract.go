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
	"image/color"
)

// We use the ITU-R BT.709 constants for conversion from color to gray. These
// differ from the Go standard library's image/color package, which follows
// ITU-R BT.601 (0.299 0.587 0.114).
const grayR, grayG, grayB, graySum = 212656, 715158, 72186, 1000000

func gray(r uint8, g uint8, b uint8) uint8 {
	return uint8(((graySum / 2) +
		(uint64(r) * grayR) +
		(uint64(g) * grayG) +
		(uint64(b) * grayB)) / graySum)
}

// makeExtract returns a closure that extracts the 4×4 block from src with the
// given top-left corner (relative to src.Bounds().Min), writing
// non-premultiplied RGBA bytes to pixels.
//
// The caller must only ask for blocks that lie entirely within src.
func makeExtract(pixels *[64]byte, src image.Image) func(blockX int, blockY int) {
	minPoint := src.Bounds().Min

	if srcNRGBA, ok := src.(*image.NRGBA); ok {
		return func(blockX int, blockY int) {
			for y := range 4 {
				i := srcNRGBA.PixOffset(minPoint.X+blockX, minPoint.Y+blockY+y)
				copy(pixels[16*y:16*y+16], srcNRGBA.Pix[i:i+16])
			}
		}
	}

	return func(blockX int, blockY int) {
		for y := range 4 {
			for x := range 4 {
				c := nrgbaAt(src, minPoint.X+blockX+x, minPoint.Y+blockY+y)
				i := (16 * y) + (4 * x)
				pixels[i+0] = c.R
				pixels[i+1] = c.G
				pixels[i+2] = c.B
				pixels[i+3] = c.A
			}
		}
	}
}

// nrgbaAt returns the 8-bit non-premultiplied color of src at (x, y).
func nrgbaAt(src image.Image, x int, y int) color.NRGBA {
	switch src := src.(type) {
	case *image.NRGBA:
		return src.NRGBAAt(x, y)
	case *image.NRGBA64:
		c := src.NRGBA64At(x, y)
		return color.NRGBA{uint8(c.R >> 8), uint8(c.G >> 8), uint8(c.B >> 8), uint8(c.A >> 8)}
	case *image.Gray:
		c := src.GrayAt(x, y)
		return color.NRGBA{c.Y, c.Y, c.Y, 0xFF}
	}

	r, g, b, a := src.At(x, y).RGBA()
	if (a != 0x0000) && (a != 0xFFFF) {
		r = (r * 0xFFFF) / a
		g = (g * 0xFFFF) / a
		b = (b * 0xFFFF) / a
	}
	return color.NRGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

// appendPixel appends the f-specific bytes of one uncompressed pixel.
func (f Format) appendPixel(dst []byte, c color.NRGBA) []byte {
	switch f {
	case FormatLuma8:
		return append(dst, gray(c.R, c.G, c.B))
	case FormatLumaAlpha8:
		return append(dst, gray(c.R, c.G, c.B), c.A)
	case FormatRGB8:
		return append(dst, c.R, c.G, c.B)
	case FormatRGBA8:
		return append(dst, c.R, c.G, c.B, c.A)
	}
	return dst
}
