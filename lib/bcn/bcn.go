// Copyright 2025 The Bcn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package bcn implements encoders for the BCn (Block Compression) family of
// GPU texture formats: BC4 (one channel), BC5 (two channels) and the opaque,
// two-subset mode 3 of BC7 (three channels).
//
// Every format works on 4×4 pixel blocks. Each block is reduced to a pair of
// endpoints, an interpolated palette between them and one palette index per
// pixel, then packed into a fixed size binary record.
//
// BCn is specified at
// https://learn.microsoft.com/en-us/windows/win32/direct3d11/texture-block-compression-in-direct3d-11
package bcn

import (
	"errors"
	"strings"
)

var (
	ErrBadArgument        = errors.New("bcn: bad argument")
	ErrBadSampleCount     = errors.New("bcn: bad sample count")
	ErrImageIsTooLarge    = errors.New("bcn: image is too large")
	ErrMismatchedChannels = errors.New("bcn: mismatched channel lengths")
)

// Format is an output pixel format: either uncompressed 8-bit channels or
// one of the block compressed formats.
//
// The channel names say which source channels are kept. "Luma" is gray,
// computed from red, green and blue.
type Format uint8

const (
	FormatInvalid = Format(0)

	FormatLuma8      = Format(1)
	FormatLumaAlpha8 = Format(2)
	FormatRGB8       = Format(3)
	FormatRGBA8      = Format(4)

	FormatLuma8BC4      = Format(5)
	FormatLumaAlpha8BC5 = Format(6)
	FormatRG8BC5        = Format(7)
	FormatRGB8BC7       = Format(8)
)

// NumBlockPixels is the number of pixels (samples) in a 4×4 block.
const NumBlockPixels = 16

// Block sizes, in bytes.
const (
	BC4BlockSize = 8
	BC5BlockSize = 16
	BC7BlockSize = 16
)

var formatNames = [...]string{
	FormatInvalid:       "invalid",
	FormatLuma8:         "l8",
	FormatLumaAlpha8:    "la8",
	FormatRGB8:          "rgb8",
	FormatRGBA8:         "rgba8",
	FormatLuma8BC4:      "l8-bc4",
	FormatLumaAlpha8BC5: "la8-bc5",
	FormatRG8BC5:        "rg8-bc5",
	FormatRGB8BC7:       "rgb8-bc7",
}

// ParseFormat returns the Format whose String is s, ignoring case.
func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if (i != 0) && strings.EqualFold(s, name) {
			return Format(i), nil
		}
	}
	return FormatInvalid, ErrBadArgument
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return formatNames[FormatInvalid]
}

// IsValid returns whether f is one of the FormatXxx constants, other than
// FormatInvalid.
func (f Format) IsValid() bool {
	return (FormatInvalid < f) && (f <= FormatRGB8BC7)
}

// IsCompressed returns whether f is a block compressed format.
func (f Format) IsCompressed() bool {
	switch f {
	case FormatLuma8BC4,
		FormatLumaAlpha8BC5,
		FormatRG8BC5,
		FormatRGB8BC7:
		return true
	}
	return false
}

// BitsPerPixel returns the bits used per pixel by an uncompressed Format. It
// returns 0 for compressed and invalid formats.
func (f Format) BitsPerPixel() int {
	switch f {
	case FormatLuma8:
		return 8
	case FormatLumaAlpha8:
		return 8 * 2
	case FormatRGB8:
		return 8 * 3
	case FormatRGBA8:
		return 8 * 4
	}
	return 0
}

// BytesPerBlock returns the Format-dependent number of bytes used to encode
// each 4×4 pixel block. It returns 0 for uncompressed and invalid formats.
func (f Format) BytesPerBlock() int {
	switch f {
	case FormatLuma8BC4:
		return BC4BlockSize
	case FormatLumaAlpha8BC5,
		FormatRG8BC5:
		return BC5BlockSize
	case FormatRGB8BC7:
		return BC7BlockSize
	}
	return 0
}

// DXGIFormat returns the DXGI_FORMAT enum value for f, as used by Direct3D and
// by DDS files' DX10 extension header. It returns 0 (DXGI_FORMAT_UNKNOWN) for
// uncompressed and invalid formats, which DDS describes with bit masks instead.
func (f Format) DXGIFormat() uint32 {
	switch f {
	case FormatLuma8BC4:
		return 80 // DXGI_FORMAT_BC4_UNORM
	case FormatLumaAlpha8BC5,
		FormatRG8BC5:
		return 83 // DXGI_FORMAT_BC5_UNORM
	case FormatRGB8BC7:
		return 98 // DXGI_FORMAT_BC7_UNORM
	}
	return 0
}
