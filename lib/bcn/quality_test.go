// Copyright 2025 The Bcn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bcn

import (
	"bytes"
	"image"
	"io"
	"testing"

	"github.com/nigeltao/bcn/internal/testimage"
)

func digitsImage(tb testing.TB, s string, factor int) *image.NRGBA {
	large, err := testimage.Digits(s)
	if err != nil {
		tb.Fatalf("testimage.Digits: %v", err)
	}
	m, err := testimage.Downsample(large, factor)
	if err != nil {
		tb.Fatalf("testimage.Downsample: %v", err)
	}
	return m
}

// TestLossOnDigits checks that the average per-pixel loss on a synthetic but
// realistic image stays well below what a single flat color per block gives.
func TestLossOnDigits(tt *testing.T) {
	for _, s := range []string{"36", "49"} {
		m := digitsImage(tt, s, 4)
		b := m.Bounds()

		bc4Loss, flatLoss, bc7Loss, numPixels := 0, 0, 0.0, 0
		for y := 0; y < b.Dy(); y += 4 {
			for x := 0; x < b.Dx(); x += 4 {
				luma := [NumBlockPixels]uint8{}
				rgb := [NumBlockPixels][3]uint8{}
				for i := range NumBlockPixels {
					c := m.NRGBAAt(x+(i&3), y+(i>>2))
					luma[i] = gray(c.R, c.G, c.B)
					rgb[i] = [3]uint8{c.R, c.G, c.B}
				}

				b4 := encodeBC4(&luma)
				bc4Loss += b4.Loss
				b7 := encodeBC7(&rgb)
				bc7Loss += b7.Loss
				numPixels += NumBlockPixels

				sum := 0
				for _, v := range luma {
					sum += int(v)
				}
				mean := uint8((sum + 8) / 16)
				for _, v := range luma {
					flatLoss += absDiff(v, mean)
				}
			}
		}

		if bc4Loss > flatLoss {
			tt.Errorf("%s: BC4 loss %d exceeds flat loss %d", s, bc4Loss, flatLoss)
		}
		if avg := float64(bc4Loss) / float64(numPixels); avg > 12 {
			tt.Errorf("%s: BC4 average loss: got %.2f, want <= 12", s, avg)
		}
		if avg := bc7Loss / float64(numPixels); avg > 24 {
			tt.Errorf("%s: BC7 average loss: got %.2f, want <= 24", s, avg)
		}
	}
}

func TestEncodeDigitsParallel(tt *testing.T) {
	m := digitsImage(tt, "49", 2)
	for _, f := range []Format{FormatLumaAlpha8BC5, FormatRGB8BC7} {
		serial, parallel := &bytes.Buffer{}, &bytes.Buffer{}
		if err := Encode(serial, m, f, nil); err != nil {
			tt.Fatalf("%v: serial: %v", f, err)
		}
		if err := Encode(parallel, m, f, &EncodeOptions{Parallelism: 8}); err != nil {
			tt.Fatalf("%v: parallel: %v", f, err)
		}
		if !bytes.Equal(serial.Bytes(), parallel.Bytes()) {
			tt.Errorf("%v: output differs", f)
		}
	}
}

func BenchmarkEncodeDigitsBC7(b *testing.B) {
	m := digitsImage(b, "36", 1)
	b.SetBytes(int64(len(m.Pix)))
	b.ReportAllocs()
	for b.Loop() {
		if err := Encode(io.Discard, m, FormatRGB8BC7, nil); err != nil {
			b.Fatal(err)
		}
	}
}
