// Copyright 2025 The Bcn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package archive wraps a texture file in a zstd frame behind a small fixed
// size header that records the compressed and uncompressed lengths.
//
// The layout is the 4 byte magic "ZSTD", a little-endian uint32 header length
// (always 16), a little-endian uint64 uncompressed length, a little-endian
// uint64 compressed length and then the zstd frame.
package archive

import (
	"encoding/binary"
	"errors"
)

// Magic is the byte string prefix of every archive.
const Magic = "ZSTD"

const (
	// HeaderSize is the encoded size of a Header, including the magic.
	HeaderSize = 24

	// headerLength is the value of the header length field: the size of the
	// two length fields that follow it.
	headerLength = 16
)

var (
	ErrBadArgument      = errors.New("archive: bad argument")
	ErrNotAnArchive     = errors.New("archive: not an archive")
	ErrLengthMismatch   = errors.New("archive: length mismatch")
	ErrWriterIsClosed   = errors.New("archive: writer is closed")
	ErrUnsupportedLevel = errors.New("archive: unsupported compression level")
)

// Header is an archive's header.
type Header struct {
	// Length is the uncompressed payload length.
	Length uint64

	// CompressedLength is the zstd frame length.
	CompressedLength uint64
}

// MarshalBinary encodes h, including the magic.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes h, including the magic, to buf, which must be at least
// HeaderSize bytes long.
func (h *Header) EncodeTo(buf []byte) {
	_ = buf[HeaderSize-1] // Early bounds check.
	copy(buf[0:4], Magic)
	binary.LittleEndian.PutUint32(buf[4:8], headerLength)
	binary.LittleEndian.PutUint64(buf[8:16], h.Length)
	binary.LittleEndian.PutUint64(buf[16:24], h.CompressedLength)
}

// UnmarshalBinary decodes h from data, which must start with the magic.
//
// An empty payload is valid: a zero Length is not rejected.
func (h *Header) UnmarshalBinary(data []byte) error {
	if (len(data) < HeaderSize) ||
		(string(data[0:4]) != Magic) ||
		(binary.LittleEndian.Uint32(data[4:8]) != headerLength) {
		return ErrNotAnArchive
	}
	h.Length = binary.LittleEndian.Uint64(data[8:16])
	h.CompressedLength = binary.LittleEndian.Uint64(data[16:24])
	if h.CompressedLength == 0 {
		return ErrNotAnArchive
	}
	return nil
}
