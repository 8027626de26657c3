// Copyright 2024 The ProjectFITS4LAM Authors
// SPDX-License-Identifier: MIT

// Package fitsconv converts 8-bit RGB TIFF images to FITS files following
// UNI 11845:2022.
//
// The pixels are stored as a BITPIX 8 cube with the R, G and B planes as the
// third axis and the rows in FITS order (bottom row first). A fixed set of
// TIFF tags is mapped to header cards; see HeaderCards.
package fitsconv

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/projectfits4lam/fitsconv/fitsfile"
)

const (
	// Version is the converter version.
	Version = "1.0.0"

	// Creator is the value of the CREATOR card.
	Creator = "JFITSConv v" + Version
)

// Options contains the options for the Convert function.
type Options struct {
	// Input is the path of the TIFF file to read.
	Input string

	// Output is the path of the FITS file to write.
	Output string

	// Writer configures the FITS writer.
	// If not set, fitsfile.DefaultConfig is used, with Gzip set when Output
	// ends in ".gz".
	Writer *fitsfile.Config

	// Now returns the creation time written to the DATE card.
	// Default is time.Now.
	Now func() time.Time

	// If set, the converter skips tags in which this function returns false.
	ShouldHandleTag func(tag TagInfo) bool

	// If set, this function is called for each tag in the first image file
	// directory before the metadata is extracted.
	HandleTag HandleTagFunc

	// Warnf will be called for each warning.
	Warnf func(string, ...any)
}

// Result contains the result of a Convert operation.
type Result struct {
	Input  string
	Output string

	// Image dimensions in pixels.
	Width  int
	Height int

	// Cards are the header cards written, without the checksum cards.
	Cards []fitsfile.Card
}

// Megapixels returns the image size in millions of pixels.
func (r Result) Megapixels() float64 {
	return float64(r.Width) * float64(r.Height) / 1e6
}

// Convert reads the TIFF image opts.Input and writes it as a FITS file to
// opts.Output. Nothing is written to opts.Output if the conversion fails.
func Convert(opts Options) (result Result, err error) {
	errFromRecover := func(r any) error {
		if r == nil {
			return nil
		}
		if errp, ok := r.(error); ok {
			return errp
		}
		return fmt.Errorf("unknown panic: %v", r)
	}

	defer func() {
		err2 := errFromRecover(recover())
		if err == nil {
			err = err2
		}
	}()

	if opts.Input == "" {
		return result, errors.New("no input file provided")
	}
	if opts.Output == "" {
		return result, errors.New("no output file provided")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Warnf == nil {
		opts.Warnf = func(string, ...any) {}
	}

	var cfg fitsfile.Config
	if opts.Writer != nil {
		cfg = *opts.Writer
	} else {
		cfg = fitsfile.DefaultConfig()
		cfg.Gzip = strings.HasSuffix(strings.ToLower(opts.Output), ".gz")
	}
	if cfg.Warnf == nil {
		cfg.Warnf = opts.Warnf
	}

	created := opts.Now()

	img, err := decodeFile(opts.Input)
	if err != nil {
		return result, err
	}

	if opts.HandleTag != nil {
		if err := img.Tags.Walk(opts.ShouldHandleTag, opts.HandleTag); err != nil {
			return result, err
		}
	}

	m, err := ExtractMetadata(img.Tags, opts.Input, created)
	if err != nil {
		return result, err
	}
	if unit, _, _ := img.Tags.Int(TagResolutionUnit); unit < 1 || unit > 3 {
		opts.Warnf("unknown ResolutionUnit %d written as %s", unit, m.ResolutionUnit)
	}

	cube := BuildCube(img)
	img.release()

	out := fitsfile.New(cfg)
	defer out.Close()

	hdu, err := out.AddImage(cube)
	if err != nil {
		return result, err
	}
	for _, card := range HeaderCards(m) {
		if err := hdu.AddCard(card.Key, card.Value, card.Comment); err != nil {
			return result, fmt.Errorf("add %s card: %w", card.Key, err)
		}
	}

	out.SetChecksum()

	if err := out.WriteFile(opts.Output); err != nil {
		return result, &IOError{Op: "write", Path: opts.Output, Err: err}
	}

	result = Result{
		Input:  opts.Input,
		Output: opts.Output,
		Width:  cube.Width,
		Height: cube.Height,
		Cards:  hdu.Cards(),
	}

	return result, nil
}

func decodeFile(filename string) (*DecodedImage, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, &IOError{Op: "open", Path: filename, Err: err}
	}
	defer f.Close()

	img, err := DecodeTIFF(f)
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) && ioErr.Path == "" {
			ioErr.Path = filename
		}
		return nil, err
	}
	return img, nil
}
