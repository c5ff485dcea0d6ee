// Copyright 2025 The Bcn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package dds

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"testing"

	"github.com/nigeltao/bcn/lib/bcn"
)

func TestNewHeader16x16(tt *testing.T) {
	bc7, err := NewHeader(16, 16, bcn.FormatRGB8BC7)
	if err != nil {
		tt.Fatalf("NewHeader(BC7): %v", err)
	}
	if (bc7.Width != 16) || (bc7.Height != 16) || (bc7.PitchOrLinearSize != 64) {
		tt.Errorf("BC7: got %d×%d pitch %d, want 16×16 pitch 64", bc7.Width, bc7.Height, bc7.PitchOrLinearSize)
	}
	if bc7.DX10 == nil {
		tt.Fatalf("BC7: no DX10 header")
	}
	if want := (DX10Header{98, ResourceDimensionTexture2D, 0, 1, 0}); *bc7.DX10 != want {
		tt.Errorf("BC7: DX10: got %+v, want %+v", *bc7.DX10, want)
	}
	if (bc7.PixelFormat.Flags != PixelFormatFourCC) || (bc7.PixelFormat.FourCC != FourCCDX10) {
		tt.Errorf("BC7: pixel format: got %+v", bc7.PixelFormat)
	}
	if got := bc7.Flags; got != 0x1007 {
		tt.Errorf("BC7: flags: got 0x%X, want 0x1007", got)
	}
	if got := bc7.Size(); got != 148 {
		tt.Errorf("BC7: Size: got %d, want 148", got)
	}

	rgba, err := NewHeader(16, 16, bcn.FormatRGBA8)
	if err != nil {
		tt.Fatalf("NewHeader(RGBA8): %v", err)
	}
	if (rgba.Width != 16) || (rgba.Height != 16) || (rgba.PitchOrLinearSize != 64) {
		tt.Errorf("RGBA8: got %d×%d pitch %d, want 16×16 pitch 64", rgba.Width, rgba.Height, rgba.PitchOrLinearSize)
	}
	if rgba.DX10 != nil {
		tt.Errorf("RGBA8: unexpected DX10 header")
	}
	if got := rgba.Flags; got != 0x100F {
		tt.Errorf("RGBA8: flags: got 0x%X, want 0x100F", got)
	}
	if got := rgba.Size(); got != 128 {
		tt.Errorf("RGBA8: Size: got %d, want 128", got)
	}
}

func TestNewHeaderPixelFormats(tt *testing.T) {
	testCases := []struct {
		f          bcn.Format
		flags      uint32
		bitCount   uint32
		r, g, b, a uint32
		pitch      uint32
	}{
		{bcn.FormatLuma8, 0x40, 8, 0xFF, 0, 0, 0, 7},
		{bcn.FormatLumaAlpha8, 0x41, 16, 0xFF, 0, 0, 0xFF00, 14},
		{bcn.FormatRGB8, 0x40, 24, 0xFF, 0xFF00, 0xFF0000, 0, 21},
		{bcn.FormatRGBA8, 0x41, 32, 0xFF, 0xFF00, 0xFF0000, 0xFF000000, 28},
		{bcn.FormatLuma8BC4, 0x04, 0, 0, 0, 0, 0, 8},
		{bcn.FormatLumaAlpha8BC5, 0x04, 0, 0, 0, 0, 0, 16},
		{bcn.FormatRG8BC5, 0x04, 0, 0, 0, 0, 0, 16},
		{bcn.FormatRGB8BC7, 0x04, 0, 0, 0, 0, 0, 16},
	}

	for _, tc := range testCases {
		// 7×5 rounds down to 4×4 for compressed formats.
		h, err := NewHeader(7, 5, tc.f)
		if err != nil {
			tt.Errorf("%v: NewHeader: %v", tc.f, err)
			continue
		}
		pf := h.PixelFormat
		if (pf.Flags != tc.flags) || (pf.RGBBitCount != tc.bitCount) {
			tt.Errorf("%v: flags/bits: got 0x%X/%d, want 0x%X/%d", tc.f, pf.Flags, pf.RGBBitCount, tc.flags, tc.bitCount)
		}
		if (pf.RBitMask != tc.r) || (pf.GBitMask != tc.g) || (pf.BBitMask != tc.b) || (pf.ABitMask != tc.a) {
			tt.Errorf("%v: masks: got %+v", tc.f, pf)
		}
		if h.PitchOrLinearSize != tc.pitch {
			tt.Errorf("%v: pitch: got %d, want %d", tc.f, h.PitchOrLinearSize, tc.pitch)
		}
		if tc.f.IsCompressed() && ((h.Width != 4) || (h.Height != 4)) {
			tt.Errorf("%v: got %d×%d, want 4×4", tc.f, h.Width, h.Height)
		}
		if got := h.Format(); (got != tc.f) && (tc.f != bcn.FormatLumaAlpha8BC5) {
			tt.Errorf("%v: Format: got %v", tc.f, got)
		}
	}
}

func TestNewHeaderErrors(tt *testing.T) {
	if _, err := NewHeader(-1, 4, bcn.FormatRGB8); err != ErrBadArgument {
		tt.Errorf("negative width: got %v, want %v", err, ErrBadArgument)
	}
	if _, err := NewHeader(4, -4, bcn.FormatRGB8BC7); err != ErrBadArgument {
		tt.Errorf("negative height: got %v, want %v", err, ErrBadArgument)
	}
	if _, err := NewHeader(4, 4, bcn.FormatInvalid); err != ErrBadArgument {
		tt.Errorf("invalid format: got %v, want %v", err, ErrBadArgument)
	}
	if _, err := NewHeader(70000, 4, bcn.FormatRGB8); err != ErrImageIsTooLarge {
		tt.Errorf("too large: got %v, want %v", err, ErrImageIsTooLarge)
	}

	// A zero width compressed image still has a one block pitch.
	if h, err := NewHeader(3, 3, bcn.FormatLuma8BC4); err != nil {
		tt.Errorf("3×3: %v", err)
	} else if (h.Width != 0) || (h.PitchOrLinearSize != 8) {
		tt.Errorf("3×3: got width %d pitch %d, want 0 and 8", h.Width, h.PitchOrLinearSize)
	}
}

func TestHeaderRoundTrip(tt *testing.T) {
	for _, f := range []bcn.Format{bcn.FormatLumaAlpha8, bcn.FormatRGB8BC7} {
		original, err := NewHeader(40, 24, f)
		if err != nil {
			tt.Fatalf("%v: NewHeader: %v", f, err)
		}
		data, err := original.MarshalBinary()
		if err != nil {
			tt.Fatalf("%v: MarshalBinary: %v", f, err)
		}
		if len(data) != original.Size() {
			tt.Fatalf("%v: length: got %d, want %d", f, len(data), original.Size())
		}
		if string(data[:4]) != Magic {
			tt.Fatalf("%v: magic: got %q", f, data[:4])
		}
		if got := binary.LittleEndian.Uint32(data[4:]); got != HeaderSize {
			tt.Fatalf("%v: size field: got %d", f, got)
		}

		decoded := &Header{}
		if err := decoded.UnmarshalBinary(data); err != nil {
			tt.Fatalf("%v: UnmarshalBinary: %v", f, err)
		}
		if (decoded.DX10 == nil) != (original.DX10 == nil) {
			tt.Fatalf("%v: DX10 presence differs", f)
		} else if (decoded.DX10 != nil) && (*decoded.DX10 != *original.DX10) {
			tt.Errorf("%v: DX10: got %+v, want %+v", f, *decoded.DX10, *original.DX10)
		}
		d, o := *decoded, *original
		d.DX10, o.DX10 = nil, nil
		if d != o {
			tt.Errorf("%v: got %+v, want %+v", f, d, o)
		}

		fromReader, err := DecodeHeader(bytes.NewReader(data))
		if err != nil {
			tt.Fatalf("%v: DecodeHeader: %v", f, err)
		}
		if fromReader.Format() != original.Format() {
			tt.Errorf("%v: DecodeHeader: got %v", f, fromReader.Format())
		}
	}
}

func TestDecodeHeaderErrors(tt *testing.T) {
	h, _ := NewHeader(8, 8, bcn.FormatRGB8BC7)
	data, _ := h.MarshalBinary()

	testCases := map[string][]byte{
		"empty":         nil,
		"short":         data[:100],
		"truncatedDX10": data[:130],
		"badMagic":      append([]byte("PKM "), data[4:]...),
	}
	for name, tc := range testCases {
		if _, err := DecodeHeader(bytes.NewReader(tc)); err != ErrNotADDSFile {
			tt.Errorf("%s: got %v, want %v", name, err, ErrNotADDSFile)
		}
	}
}

func TestEncode(tt *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			src.SetNRGBA(x, y, color.NRGBA{uint8(16 * x), uint8(16 * y), 0x80, 0xFF})
		}
	}

	testCases := []struct {
		options *EncodeOptions
		want    int
	}{
		{nil, 128 + (16 * 16 * 4)},
		{&EncodeOptions{Format: bcn.FormatRGB8BC7}, 148 + (4 * 4 * 16)},
		{&EncodeOptions{Format: bcn.FormatLuma8BC4, Parallelism: 3}, 148 + (4 * 4 * 8)},
		{&EncodeOptions{Format: bcn.FormatLuma8}, 128 + (16 * 16)},
	}

	for _, tc := range testCases {
		buf := &bytes.Buffer{}
		if err := Encode(buf, src, tc.options); err != nil {
			tt.Errorf("%+v: Encode: %v", tc.options, err)
			continue
		}
		if buf.Len() != tc.want {
			tt.Errorf("%+v: length: got %d, want %d", tc.options, buf.Len(), tc.want)
		}

		config, err := DecodeConfig(bytes.NewReader(buf.Bytes()))
		if err != nil {
			tt.Errorf("%+v: DecodeConfig: %v", tc.options, err)
		} else if (config.Width != 16) || (config.Height != 16) {
			tt.Errorf("%+v: DecodeConfig: got %d×%d", tc.options, config.Width, config.Height)
		}
	}

	if err := Encode(&bytes.Buffer{}, src, &EncodeOptions{Format: bcn.Format(99)}); err != ErrBadArgument {
		tt.Errorf("bad format: got %v, want %v", err, ErrBadArgument)
	}
}
