// Copyright 2025 The Bcn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package testimage

import (
	"bytes"
	"image"
	"testing"
)

func TestDigits(tt *testing.T) {
	m0, err := Digits("36")
	if err != nil {
		tt.Fatalf("Digits: %v", err)
	}
	if got := m0.Bounds(); got != image.Rect(0, 0, Size, Size) {
		tt.Fatalf("bounds: got %v", got)
	}

	m1, err := Digits("36")
	if err != nil {
		tt.Fatalf("Digits: %v", err)
	}
	if !bytes.Equal(m0.Pix, m1.Pix) {
		tt.Errorf("not deterministic")
	}

	m2, err := Digits("49")
	if err != nil {
		tt.Fatalf("Digits: %v", err)
	}
	if bytes.Equal(m0.Pix, m2.Pix) {
		tt.Errorf("different digits gave the same image")
	}

	// The image has both transparent and opaque pixels.
	seen := [2]bool{}
	for i := 3; i < len(m0.Pix); i += 4 {
		switch m0.Pix[i] {
		case 0x00:
			seen[0] = true
		case 0xFF:
			seen[1] = true
		}
	}
	if !seen[0] || !seen[1] {
		tt.Errorf("alpha coverage: got %v", seen)
	}

	if _, err := Digits("123"); err != ErrBadArgument {
		tt.Errorf("Digits(\"123\"): got %v, want %v", err, ErrBadArgument)
	}
}

func TestDownsample(tt *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for i := range src.Pix {
		src.Pix[i] = 0x80
	}
	src.Pix[0], src.Pix[1], src.Pix[2], src.Pix[3] = 0xFF, 0xFF, 0xFF, 0xFF

	dst, err := Downsample(src, 2)
	if err != nil {
		tt.Fatalf("Downsample: %v", err)
	}
	if got := dst.Bounds(); got != image.Rect(0, 0, 2, 1) {
		tt.Fatalf("bounds: got %v", got)
	}
	// (0xFF + 3×0x80 + 2) / 4 = 0xA0 for every channel, so the pixel is an
	// opaque-ish gray whose non-premultiplied value is 0xFF.
	if got := dst.NRGBAAt(0, 0); (got.A != 0xA0) || (got.R != 0xFF) {
		tt.Errorf("pixel 0: got %v", got)
	}
	if got := dst.NRGBAAt(1, 0); (got.A != 0x80) || (got.R != 0xFF) {
		tt.Errorf("pixel 1: got %v", got)
	}

	if _, err := Downsample(src, 3); err != ErrBadArgument {
		tt.Errorf("factor 3: got %v, want %v", err, ErrBadArgument)
	}
}
