// Copyright 2025 The Bcn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package dds implements the DDS (DirectDraw Surface) container format for
// uncompressed and BCn textures.
//
// Only single surface 2D textures are produced: no mipmaps, cube maps or
// arrays. Block compressed formats always use the DX10 extension header.
//
// DDS is specified at
// https://learn.microsoft.com/en-us/windows/win32/direct3ddds/dx-graphics-dds-pguide
package dds

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/nigeltao/bcn/lib/bcn"
)

// Magic is the byte string prefix of every DDS image file.
const Magic = "DDS "

const (
	// HeaderSize is the size of the DDS_HEADER structure, not including the
	// magic or the DX10 extension.
	HeaderSize = 124

	// PixelFormatSize is the size of the DDS_PIXELFORMAT structure.
	PixelFormatSize = 32

	// DX10HeaderSize is the size of the DDS_HEADER_DXT10 structure.
	DX10HeaderSize = 20
)

var (
	ErrBadArgument     = errors.New("dds: bad argument")
	ErrNotADDSFile     = errors.New("dds: not a DDS file")
	ErrImageIsTooLarge = errors.New("dds: image is too large")
)

// DDS_HEADER flags.
const (
	FlagCaps        = 0x00000001
	FlagHeight      = 0x00000002
	FlagWidth       = 0x00000004
	FlagPitch       = 0x00000008
	FlagPixelFormat = 0x00001000
	FlagMipMapCount = 0x00020000
	FlagLinearSize  = 0x00080000
	FlagDepth       = 0x00800000
)

// DDS_PIXELFORMAT flags.
const (
	PixelFormatAlphaPixels = 0x00000001
	PixelFormatAlpha       = 0x00000002
	PixelFormatFourCC      = 0x00000004
	PixelFormatRGB         = 0x00000040
	PixelFormatYUV         = 0x00000200
	PixelFormatLuminance   = 0x00020000
)

const (
	// CapsTexture is the DDSCAPS_TEXTURE bit, required in every file.
	CapsTexture = 0x00001000

	// FourCCDX10 is "DX10" as a little-endian uint32. It marks the presence
	// of a DX10 extension header.
	FourCCDX10 = 0x30315844

	// ResourceDimensionTexture2D is D3D10_RESOURCE_DIMENSION_TEXTURE2D.
	ResourceDimensionTexture2D = 3
)

// PixelFormat is the DDS_PIXELFORMAT structure, minus its constant size field.
type PixelFormat struct {
	Flags       uint32
	FourCC      uint32
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

// DX10Header is the DDS_HEADER_DXT10 structure.
type DX10Header struct {
	DXGIFormat        uint32
	ResourceDimension uint32
	MiscFlag          uint32
	ArraySize         uint32
	MiscFlags2        uint32
}

// Header is a DDS file's header: the DDS_HEADER structure, minus its constant
// size and reserved fields, and the optional DX10 extension.
type Header struct {
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	PixelFormat       PixelFormat
	Caps              uint32
	Caps2             uint32
	Caps3             uint32
	Caps4             uint32

	// DX10 is non-nil if and only if PixelFormat.FourCC is FourCCDX10.
	DX10 *DX10Header
}

// NewHeader returns the header for a width×height image encoded as f.
//
// For block compressed formats, the width and height are rounded down to a
// multiple of 4, matching the pixels that bcn.Encode writes.
func NewHeader(width int, height int, f bcn.Format) (*Header, error) {
	if (width < 0) || (height < 0) || !f.IsValid() {
		return nil, ErrBadArgument
	}
	width, height = f.CanvasSize(width, height)
	if (width > bcn.MaxDimension) || (height > bcn.MaxDimension) {
		return nil, ErrImageIsTooLarge
	}

	h := &Header{
		Flags:             FlagCaps | FlagHeight | FlagWidth | FlagPixelFormat,
		Height:            uint32(height),
		Width:             uint32(width),
		PitchOrLinearSize: uint32(Pitch(width, f)),
		Caps:              CapsTexture,
	}

	if f.IsCompressed() {
		h.PixelFormat = PixelFormat{
			Flags:  PixelFormatFourCC,
			FourCC: FourCCDX10,
		}
		h.DX10 = &DX10Header{
			DXGIFormat:        f.DXGIFormat(),
			ResourceDimension: ResourceDimensionTexture2D,
			ArraySize:         1,
		}
		return h, nil
	}

	h.Flags |= FlagPitch
	h.PixelFormat.RGBBitCount = uint32(f.BitsPerPixel())
	switch f {
	case bcn.FormatLuma8:
		h.PixelFormat.Flags = PixelFormatRGB
		h.PixelFormat.RBitMask = 0x000000FF
	case bcn.FormatLumaAlpha8:
		h.PixelFormat.Flags = PixelFormatRGB | PixelFormatAlphaPixels
		h.PixelFormat.RBitMask = 0x000000FF
		h.PixelFormat.ABitMask = 0x0000FF00
	case bcn.FormatRGB8:
		h.PixelFormat.Flags = PixelFormatRGB
		h.PixelFormat.RBitMask = 0x000000FF
		h.PixelFormat.GBitMask = 0x0000FF00
		h.PixelFormat.BBitMask = 0x00FF0000
	case bcn.FormatRGBA8:
		h.PixelFormat.Flags = PixelFormatRGB | PixelFormatAlphaPixels
		h.PixelFormat.RBitMask = 0x000000FF
		h.PixelFormat.GBitMask = 0x0000FF00
		h.PixelFormat.BBitMask = 0x00FF0000
		h.PixelFormat.ABitMask = 0xFF000000
	}
	return h, nil
}

// Pitch returns the number of bytes per row of pixels (uncompressed formats)
// or per row of 4×4 blocks (compressed formats) of a width pixel wide image.
// A compressed image always has at least one block per row.
func Pitch(width int, f bcn.Format) int {
	if f.IsCompressed() {
		return max(1, (width+3)/4) * f.BytesPerBlock()
	}
	return ((width * f.BitsPerPixel()) + 7) / 8
}

// Size returns the encoded size of h, including the magic.
func (h *Header) Size() int {
	if h.DX10 != nil {
		return len(Magic) + HeaderSize + DX10HeaderSize
	}
	return len(Magic) + HeaderSize
}

// Format returns the bcn.Format that h describes, or bcn.FormatInvalid if it
// is not one that this package produces. DXGI_FORMAT_BC5_UNORM is reported as
// bcn.FormatRG8BC5: the file does not say which channels the halves hold.
func (h *Header) Format() bcn.Format {
	if h.DX10 != nil {
		switch h.DX10.DXGIFormat {
		case 80:
			return bcn.FormatLuma8BC4
		case 83:
			return bcn.FormatRG8BC5
		case 98:
			return bcn.FormatRGB8BC7
		}
		return bcn.FormatInvalid
	}

	pf := &h.PixelFormat
	hasAlpha := (pf.Flags & PixelFormatAlphaPixels) != 0
	switch {
	case (pf.Flags & PixelFormatRGB) == 0:
		return bcn.FormatInvalid
	case !hasAlpha && (pf.RGBBitCount == 8):
		return bcn.FormatLuma8
	case hasAlpha && (pf.RGBBitCount == 16):
		return bcn.FormatLumaAlpha8
	case !hasAlpha && (pf.RGBBitCount == 24):
		return bcn.FormatRGB8
	case hasAlpha && (pf.RGBBitCount == 32):
		return bcn.FormatRGBA8
	}
	return bcn.FormatInvalid
}

func (h *Header) String() string {
	s := fmt.Sprintf("DDS %d×%d %v pitch=%d flags=0x%08X pfflags=0x%08X",
		h.Width, h.Height, h.Format(), h.PitchOrLinearSize, h.Flags, h.PixelFormat.Flags)
	if h.DX10 != nil {
		s += fmt.Sprintf(" dxgi=%d dimension=%d arraysize=%d",
			h.DX10.DXGIFormat, h.DX10.ResourceDimension, h.DX10.ArraySize)
	}
	return s
}

// MarshalBinary encodes h, including the magic.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, h.Size())
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes h, including the magic, to buf, which must be at least
// h.Size() bytes long.
func (h *Header) EncodeTo(buf []byte) {
	_ = buf[h.Size()-1] // Early bounds check.
	le := binary.LittleEndian

	copy(buf[0x00:0x04], Magic)
	le.PutUint32(buf[0x04:], HeaderSize)
	le.PutUint32(buf[0x08:], h.Flags)
	le.PutUint32(buf[0x0C:], h.Height)
	le.PutUint32(buf[0x10:], h.Width)
	le.PutUint32(buf[0x14:], h.PitchOrLinearSize)
	le.PutUint32(buf[0x18:], h.Depth)
	le.PutUint32(buf[0x1C:], h.MipMapCount)
	clear(buf[0x20:0x4C])

	le.PutUint32(buf[0x4C:], PixelFormatSize)
	le.PutUint32(buf[0x50:], h.PixelFormat.Flags)
	le.PutUint32(buf[0x54:], h.PixelFormat.FourCC)
	le.PutUint32(buf[0x58:], h.PixelFormat.RGBBitCount)
	le.PutUint32(buf[0x5C:], h.PixelFormat.RBitMask)
	le.PutUint32(buf[0x60:], h.PixelFormat.GBitMask)
	le.PutUint32(buf[0x64:], h.PixelFormat.BBitMask)
	le.PutUint32(buf[0x68:], h.PixelFormat.ABitMask)

	le.PutUint32(buf[0x6C:], h.Caps)
	le.PutUint32(buf[0x70:], h.Caps2)
	le.PutUint32(buf[0x74:], h.Caps3)
	le.PutUint32(buf[0x78:], h.Caps4)
	le.PutUint32(buf[0x7C:], 0)

	if h.DX10 != nil {
		le.PutUint32(buf[0x80:], h.DX10.DXGIFormat)
		le.PutUint32(buf[0x84:], h.DX10.ResourceDimension)
		le.PutUint32(buf[0x88:], h.DX10.MiscFlag)
		le.PutUint32(buf[0x8C:], h.DX10.ArraySize)
		le.PutUint32(buf[0x90:], h.DX10.MiscFlags2)
	}
}

// UnmarshalBinary decodes h from data, which must start with the magic.
func (h *Header) UnmarshalBinary(data []byte) error {
	if (len(data) < (len(Magic) + HeaderSize)) || (string(data[:4]) != Magic) {
		return ErrNotADDSFile
	}
	le := binary.LittleEndian
	if (le.Uint32(data[0x04:]) != HeaderSize) || (le.Uint32(data[0x4C:]) != PixelFormatSize) {
		return ErrNotADDSFile
	}

	*h = Header{
		Flags:             le.Uint32(data[0x08:]),
		Height:            le.Uint32(data[0x0C:]),
		Width:             le.Uint32(data[0x10:]),
		PitchOrLinearSize: le.Uint32(data[0x14:]),
		Depth:             le.Uint32(data[0x18:]),
		MipMapCount:       le.Uint32(data[0x1C:]),
		PixelFormat: PixelFormat{
			Flags:       le.Uint32(data[0x50:]),
			FourCC:      le.Uint32(data[0x54:]),
			RGBBitCount: le.Uint32(data[0x58:]),
			RBitMask:    le.Uint32(data[0x5C:]),
			GBitMask:    le.Uint32(data[0x60:]),
			BBitMask:    le.Uint32(data[0x64:]),
			ABitMask:    le.Uint32(data[0x68:]),
		},
		Caps:  le.Uint32(data[0x6C:]),
		Caps2: le.Uint32(data[0x70:]),
		Caps3: le.Uint32(data[0x74:]),
		Caps4: le.Uint32(data[0x78:]),
	}

	if ((h.PixelFormat.Flags & PixelFormatFourCC) == 0) || (h.PixelFormat.FourCC != FourCCDX10) {
		return nil
	} else if len(data) < (len(Magic) + HeaderSize + DX10HeaderSize) {
		return ErrNotADDSFile
	}
	h.DX10 = &DX10Header{
		DXGIFormat:        le.Uint32(data[0x80:]),
		ResourceDimension: le.Uint32(data[0x84:]),
		MiscFlag:          le.Uint32(data[0x88:]),
		ArraySize:         le.Uint32(data[0x8C:]),
		MiscFlags2:        le.Uint32(data[0x90:]),
	}
	return nil
}

// DecodeHeader reads a DDS header, including any DX10 extension, from r. It
// leaves r positioned at the start of the pixel data.
func DecodeHeader(r io.Reader) (*Header, error) {
	buf := [len(Magic) + HeaderSize + DX10HeaderSize]byte{}
	n := len(Magic) + HeaderSize
	if _, err := io.ReadFull(r, buf[:n]); err == io.ErrUnexpectedEOF || err == io.EOF {
		return nil, ErrNotADDSFile
	} else if err != nil {
		return nil, err
	}

	le := binary.LittleEndian
	if ((le.Uint32(buf[0x50:]) & PixelFormatFourCC) != 0) && (le.Uint32(buf[0x54:]) == FourCCDX10) {
		if _, err := io.ReadFull(r, buf[n:]); err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil, ErrNotADDSFile
		} else if err != nil {
			return nil, err
		}
		n += DX10HeaderSize
	}

	h := &Header{}
	if err := h.UnmarshalBinary(buf[:n]); err != nil {
		return nil, err
	}
	return h, nil
}

// DecodeConfig reads a DDS image configuration from r. The ColorModel is left
// nil: block compressed pixels are not decoded by this package.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := DecodeHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		Width:  int(h.Width),
		Height: int(h.Height),
	}, nil
}

// EncodeOptions are optional arguments to Encode. The zero value is valid and
// means to use the default configuration.
type EncodeOptions struct {
	// If zero, the default is to use bcn.FormatRGBA8.
	Format bcn.Format

	// Parallelism is passed on to bcn.Encode.
	Parallelism int
}

// Encode writes src to w in the DDS format.
//
// options may be nil, which means to use the default configuration.
func Encode(w io.Writer, src image.Image, options *EncodeOptions) error {
	if (w == nil) || (src == nil) {
		return ErrBadArgument
	}

	f, parallelism := bcn.FormatRGBA8, 0
	if options != nil {
		if options.Format != 0 {
			f = options.Format
		}
		parallelism = options.Parallelism
	}

	b := src.Bounds()
	h, err := NewHeader(b.Dx(), b.Dy(), f)
	if err != nil {
		return err
	}

	buf := [len(Magic) + HeaderSize + DX10HeaderSize]byte{}
	h.EncodeTo(buf[:])
	if _, err := w.Write(buf[:h.Size()]); err != nil {
		return err
	}

	return bcn.Encode(w, src, f, &bcn.EncodeOptions{
		Parallelism: parallelism,
	})
}
