// Copyright 2025 The Bcn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package testimage synthesizes deterministic images for tests and
// benchmarks, so that no binary fixtures need to be checked in.
//
// Each image is two digits drawn in the Go Italic font: the first filled with
// an orange radial glow, the second with a green/blue gradient. Together they
// give smooth regions, hard edges and partially transparent pixels.
package testimage

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Size is the width and height of the images that Digits returns.
const Size = 256

var ErrBadArgument = errors.New("testimage: bad argument")

// Digits returns a Size×Size image of the two characters of s.
func Digits(s string) (*image.RGBA, error) {
	if len(s) != 2 {
		return nil, ErrBadArgument
	}

	f, err := opentype.Parse(goitalic.TTF)
	if err != nil {
		return nil, fmt.Errorf("testimage: opentype.Parse: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    200,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("testimage: opentype.NewFace: %w", err)
	}
	defer face.Close()

	// The first glyph's mask is inverted: the glow shows everywhere except
	// inside the glyph.
	mask0 := drawGlyph(face, s[0:1], fixed.P(4, 224))
	for i := range mask0.Pix {
		mask0.Pix[i] ^= 0xFF
	}
	mask1 := drawGlyph(face, s[1:2], fixed.P(4+112, 224-48))

	glow := image.NewRGBA(image.Rect(0, 0, Size, Size))
	const cx, cy = 30, 50
	for y := range Size {
		dy := float64(y - cy)
		for x := range Size {
			dx := float64(x - cx)
			distance := int64(math.Sqrt((dx * dx) + (dy * dy)))
			v := 0xFF - uint8(max(0x00, min(0xFF, distance)))
			glow.SetRGBA(x, y, color.RGBA{v, v / 3, 0, v})
		}
	}

	gradient := image.NewRGBA(image.Rect(0, 0, Size, Size))
	for y := range Size {
		for x := range Size {
			gradient.SetRGBA(x, y, color.RGBA{0x00, uint8(x), uint8(y), 0xFF})
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.DrawMask(dst, dst.Bounds(), glow, image.Point{}, mask0, image.Point{}, draw.Over)
	draw.DrawMask(dst, dst.Bounds(), gradient, image.Point{}, mask1, image.Point{}, draw.Over)
	return dst, nil
}

func drawGlyph(face font.Face, s string, dot fixed.Point26_6) *image.Alpha {
	m := image.NewAlpha(image.Rect(0, 0, Size, Size))
	d := font.Drawer{
		Dst:  m,
		Src:  image.Opaque,
		Face: face,
		Dot:  dot,
	}
	d.DrawString(s)
	return m
}

// Downsample returns src shrunk by factor in each dimension, averaging each
// factor×factor box of premultiplied pixels. The result is non-premultiplied.
func Downsample(src *image.RGBA, factor int) (*image.NRGBA, error) {
	b := src.Bounds()
	if (factor <= 0) || ((b.Dx() % factor) != 0) || ((b.Dy() % factor) != 0) {
		return nil, ErrBadArgument
	}
	w, h := b.Dx()/factor, b.Dy()/factor
	n := uint32(factor * factor)

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			sum := [4]uint32{}
			for v := range factor {
				for u := range factor {
					at := src.RGBAAt(b.Min.X+(factor*x)+u, b.Min.Y+(factor*y)+v)
					sum[0] += uint32(at.R)
					sum[1] += uint32(at.G)
					sum[2] += uint32(at.B)
					sum[3] += uint32(at.A)
				}
			}
			c := color.RGBA{
				uint8((sum[0] + n/2) / n),
				uint8((sum[1] + n/2) / n),
				uint8((sum[2] + n/2) / n),
				uint8((sum[3] + n/2) / n),
			}
			dst.Set(x, y, c)
		}
	}
	return dst, nil
}
