// Copyright 2025 The Bcn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// bcnpack encodes images as DDS textures, optionally BCn (BC4, BC5 or BC7)
// compressed.
package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/nfnt/resize"

	"github.com/nigeltao/bcn/internal/archive"
	"github.com/nigeltao/bcn/lib/bcn"
	"github.com/nigeltao/bcn/lib/dds"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	redFlag      = flag.Bool("r", false, "keep the red channel")
	greenFlag    = flag.Bool("g", false, "keep the green channel")
	blueFlag     = flag.Bool("b", false, "keep the blue channel")
	alphaFlag    = flag.Bool("a", false, "keep the alpha channel")
	lumaFlag     = flag.Bool("l", false, "keep luma (gray) instead of red, green and blue")
	compressFlag = flag.Bool("c", false, "whether to block compress")
	formatFlag   = flag.String("format", "", "output format, overriding -r -g -b -a -l -c")
	outFlag      = flag.String("o", "", "output path")
	zstdFlag     = flag.Bool("zstd", false, "whether to wrap the output in a zstd archive")
	jobsFlag     = flag.Int("j", 0, "maximum number of block rows encoded concurrently")
	verboseFlag  = flag.Bool("v", false, "whether to log debug messages")
	infoFlag     = flag.Bool("info", false, "print the header of a DDS file instead of encoding")
)

const usageStr = `bcnpack encodes images as DDS textures, optionally BCn compressed.

Usage: choose one of

    bcnpack [flags] [path]
    bcnpack -info [path]

The path to the input file is optional. If omitted, stdin is read.

These flags pick the output channels (the default is all four):

    -r -g -b -a   red, green, blue, alpha
    -l            luma (gray), which excludes -r -g -b
    -c            block compress: l8-bc4, la8-bc5, rg8-bc5 or rgb8-bc7

Or name the output format directly:

    -format=l8 | la8 | rgb8 | rgba8 | l8-bc4 | la8-bc5 | rg8-bc5 | rgb8-bc7

Other flags:

    -o=path   output path ("-" is stdout). The default is the input path plus
              ".dds" (or ".dds.zst" with -zstd), or stdout when reading stdin.
    -zstd     wrap the DDS file in a zstd archive. This needs a seekable output.
    -j=N      encode up to N block rows concurrently. The default is GOMAXPROCS.
    -v        log debug messages to stderr.

Block compressed formats need a width and height that are multiples of 4.
Other sizes are resized (nearest neighbor) down to the next multiple of 4.

The input is BMP, GIF, JPEG, PNG, TIFF or WEBP (or DDS or a zstd archive of
one, with -info).
`

var (
	ErrBadFormatFlag        = errors.New("main: bad -format flag")
	ErrConflictingChannels  = errors.New("main: -l conflicts with -r, -g and -b")
	ErrZstdNeedsSeekableOut = errors.New("main: -zstd needs a seekable output")
)

func main() {
	if err := main1(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func main1() error {
	flag.Usage = func() { os.Stderr.WriteString(usageStr) }
	flag.Parse()
	setVerbose(*verboseFlag)

	inPath := ""
	switch flag.NArg() {
	case 0:
		// No-op.
	case 1:
		inPath = flag.Arg(0)
	default:
		return errors.New("too many filenames; the maximum is one")
	}

	if *infoFlag {
		return printInfo(os.Stdout, inPath)
	}

	f, err := chooseFormat(*formatFlag, channels{
		red:      *redFlag,
		green:    *greenFlag,
		blue:     *blueFlag,
		alpha:    *alphaFlag,
		luma:     *lumaFlag,
		compress: *compressFlag,
	})
	if err != nil {
		return err
	}

	parallelism := *jobsFlag
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	return encodeFile(inPath, outputPath(*outFlag, inPath, *zstdFlag), encodeConfig{
		format:      f,
		parallelism: parallelism,
		zstd:        *zstdFlag,
	})
}

type channels struct {
	red, green, blue, alpha, luma, compress bool
}

// chooseFormat returns the format named by formatFlag, if non-empty, or else
// the format that keeps the requested channels.
func chooseFormat(formatFlag string, c channels) (bcn.Format, error) {
	if formatFlag != "" {
		f, err := bcn.ParseFormat(formatFlag)
		if err != nil {
			return 0, ErrBadFormatFlag
		}
		return f, nil
	}

	if c.luma && (c.red || c.green || c.blue) {
		return 0, ErrConflictingChannels
	}
	r, g, b := c.red || c.luma, c.green, c.blue
	switch {
	case !r && !g && !b && !c.alpha:
		// No channels means all of them.
		return bcn.FormatRGBA8, nil
	case r && !g && !b && !c.alpha:
		if c.compress {
			return bcn.FormatLuma8BC4, nil
		}
		return bcn.FormatLuma8, nil
	case r && !g && !b && c.alpha:
		if c.compress {
			return bcn.FormatLumaAlpha8BC5, nil
		}
		return bcn.FormatLumaAlpha8, nil
	case r && g && !b && !c.alpha && c.compress:
		return bcn.FormatRG8BC5, nil
	case r && g && b && !c.alpha:
		if c.compress {
			return bcn.FormatRGB8BC7, nil
		}
		return bcn.FormatRGB8, nil
	case r && g && b && c.alpha && !c.compress:
		return bcn.FormatRGBA8, nil
	}
	warnlog.Printf("no format keeps exactly the requested channels; writing %v", bcn.FormatRGBA8)
	return bcn.FormatRGBA8, nil
}

// outputPath returns where to write the output. An empty result means stdout.
func outputPath(outFlag string, inPath string, zstd bool) string {
	switch {
	case outFlag == "-":
		return ""
	case outFlag != "":
		return outFlag
	case inPath == "":
		return ""
	case zstd:
		return inPath + ".dds.zst"
	}
	return inPath + ".dds"
}

type encodeConfig struct {
	format      bcn.Format
	parallelism int
	zstd        bool
}

func decodeImage(inPath string) (image.Image, error) {
	in := io.Reader(os.Stdin)
	if inPath != "" {
		f, err := os.Open(inPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}
	src, imageFormat, err := image.Decode(bufio.NewReader(in))
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", inPath, err)
	}
	debuglog.Printf("decoded %q: %s %v", inPath, imageFormat, src.Bounds())
	return src, nil
}

// resizeForBlocks scales src down to a width and height that are multiples of
// 4, if f is block compressed and they are not already.
func resizeForBlocks(src image.Image, f bcn.Format) image.Image {
	b := src.Bounds()
	w, h := f.CanvasSize(b.Dx(), b.Dy())
	if ((w == b.Dx()) && (h == b.Dy())) || (w == 0) || (h == 0) {
		return src
	}
	warnlog.Printf("resizing %d×%d to %d×%d for %v", b.Dx(), b.Dy(), w, h, f)
	return resize.Resize(uint(w), uint(h), src, resize.NearestNeighbor)
}

func encodeFile(inPath string, outPath string, c encodeConfig) error {
	src, err := decodeImage(inPath)
	if err != nil {
		return err
	}
	src = resizeForBlocks(src, c.format)

	if outPath == "" {
		return encodeTo(os.Stdout, src, c, outPath)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	err = encodeTo(f, src, c, outPath)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

func encodeTo(out *os.File, src image.Image, c encodeConfig, outPath string) error {
	b := src.Bounds()
	infolog.Printf("encoding %d×%d as %v to %s", b.Dx(), b.Dy(), c.format, displayPath(outPath))
	start := time.Now()

	options := &dds.EncodeOptions{
		Format:      c.format,
		Parallelism: c.parallelism,
	}
	if !c.zstd {
		w := bufio.NewWriter(out)
		if err := dds.Encode(w, src, options); err != nil {
			return err
		}
		if err := w.Flush(); err != nil {
			return err
		}
		debuglog.Printf("encoded in %v", time.Since(start))
		return nil
	}

	if _, err := out.Seek(0, io.SeekCurrent); err != nil {
		return ErrZstdNeedsSeekableOut
	}
	aw, err := archive.NewWriter(out)
	if err != nil {
		return err
	}
	if err := dds.Encode(aw, src, options); err != nil {
		return err
	}
	if err := aw.Close(); err != nil {
		return err
	}
	h := aw.Header()
	debuglog.Printf("encoded in %v; zstd %d -> %d bytes", time.Since(start), h.Length, h.CompressedLength)
	return nil
}

func displayPath(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}

// printInfo writes a one line summary of the DDS header at inPath. A zstd
// archive is unwrapped first.
func printInfo(w io.Writer, inPath string) error {
	in := io.Reader(os.Stdin)
	if inPath != "" {
		f, err := os.Open(inPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	br := bufio.NewReader(in)
	if magic, err := br.Peek(len(archive.Magic)); (err == nil) && (string(magic) == archive.Magic) {
		data, err := archive.ReadAll(br)
		if err != nil {
			return fmt.Errorf("read archive %q: %w", inPath, err)
		}
		fmt.Fprintf(w, "zstd archive: %d bytes\n", len(data))
		br = bufio.NewReader(bytes.NewReader(data))
	}

	h, err := dds.DecodeHeader(br)
	if err != nil {
		return fmt.Errorf("read header %q: %w", inPath, err)
	}
	_, err = fmt.Fprintln(w, h.String())
	return err
}
