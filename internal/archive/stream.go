// Copyright 2025 The Bcn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"io"
	"math"

	"github.com/DataDog/zstd"
)

// DefaultCompressionLevel is the zstd level used when no WithCompressionLevel
// option is given.
const DefaultCompressionLevel = zstd.DefaultCompression

// Writer compresses everything written to it into an archive. The header is
// written up front with zero lengths and rewritten by Close.
type Writer struct {
	dst     io.WriteSeeker
	start   int64
	zWriter *zstd.Writer
	level   int
	header  Header
	closed  bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithCompressionLevel sets the zstd compression level, from zstd.BestSpeed
// to zstd.BestCompression.
func WithCompressionLevel(level int) WriterOption {
	return func(w *Writer) {
		w.level = level
	}
}

// NewWriter starts an archive at dst's current position.
func NewWriter(dst io.WriteSeeker, opts ...WriterOption) (*Writer, error) {
	if dst == nil {
		return nil, ErrBadArgument
	}
	w := &Writer{
		dst:   dst,
		level: DefaultCompressionLevel,
	}
	for _, opt := range opts {
		opt(w)
	}
	if (w.level < zstd.BestSpeed) || (w.level > zstd.BestCompression) {
		return nil, ErrUnsupportedLevel
	}

	start, err := dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("archive: get start position: %w", err)
	}
	w.start = start

	buf := [HeaderSize]byte{}
	w.header.EncodeTo(buf[:])
	if _, err := dst.Write(buf[:]); err != nil {
		return nil, fmt.Errorf("archive: write placeholder header: %w", err)
	}

	w.zWriter = zstd.NewWriterLevel(dst, w.level)
	return w, nil
}

// Write compresses p.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrWriterIsClosed
	}
	n, err := w.zWriter.Write(p)
	w.header.Length += uint64(n)
	return n, err
}

// Header returns the header that Close wrote, or a header with a zero
// CompressedLength if Close has not been called yet.
func (w *Writer) Header() Header {
	return w.header
}

// Close flushes the zstd frame and rewrites the header with the final
// lengths. It leaves dst positioned at the end of the archive.
func (w *Writer) Close() error {
	if w.closed {
		return ErrWriterIsClosed
	}
	w.closed = true

	if err := w.zWriter.Close(); err != nil {
		return fmt.Errorf("archive: close compressor: %w", err)
	}

	end, err := w.dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("archive: get end position: %w", err)
	}
	w.header.CompressedLength = uint64(end - w.start - HeaderSize)

	if _, err := w.dst.Seek(w.start, io.SeekStart); err != nil {
		return fmt.Errorf("archive: seek to header: %w", err)
	}
	buf := [HeaderSize]byte{}
	w.header.EncodeTo(buf[:])
	if _, err := w.dst.Write(buf[:]); err != nil {
		return fmt.Errorf("archive: rewrite header: %w", err)
	}
	if _, err := w.dst.Seek(end, io.SeekStart); err != nil {
		return fmt.Errorf("archive: seek to end: %w", err)
	}
	return nil
}

// Encode writes data to dst as a complete archive.
func Encode(dst io.WriteSeeker, data []byte, opts ...WriterOption) error {
	w, err := NewWriter(dst, opts...)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("archive: write data: %w", err)
	}
	return w.Close()
}

// Reader decompresses an archive's payload.
type Reader struct {
	header  Header
	zReader io.ReadCloser
}

// NewReader reads and checks an archive header from r. Reading from the
// returned Reader yields the decompressed payload. The caller should Close
// it when done.
func NewReader(r io.Reader) (*Reader, error) {
	if r == nil {
		return nil, ErrBadArgument
	}
	buf := [HeaderSize]byte{}
	if _, err := io.ReadFull(r, buf[:]); err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, ErrNotAnArchive
	} else if err != nil {
		return nil, fmt.Errorf("archive: read header: %w", err)
	}

	ret := &Reader{}
	if err := ret.header.UnmarshalBinary(buf[:]); err != nil {
		return nil, err
	}
	ret.zReader = zstd.NewReader(io.LimitReader(r, int64(ret.header.CompressedLength)))
	return ret, nil
}

// Header returns the archive header.
func (r *Reader) Header() Header {
	return r.header
}

// Read reads decompressed payload bytes into p.
func (r *Reader) Read(p []byte) (int, error) {
	return r.zReader.Read(p)
}

// Close releases the decompressor.
func (r *Reader) Close() error {
	return r.zReader.Close()
}

// ReadAll reads a whole archive from r and returns its decompressed payload.
// It returns ErrLengthMismatch if the payload's length differs from the
// header's.
func ReadAll(r io.Reader) ([]byte, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	// Read at most one byte past the header's Length.
	limit := int64(min(reader.header.Length, math.MaxInt64-1)) + 1
	data, err := io.ReadAll(io.LimitReader(reader, limit))
	if err != nil {
		return nil, fmt.Errorf("archive: read payload: %w", err)
	}
	if uint64(len(data)) != reader.header.Length {
		return nil, ErrLengthMismatch
	}
	return data, nil
}
