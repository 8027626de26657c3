// Copyright 2024 The ProjectFITS4LAM Authors
// SPDX-License-Identifier: MIT

// fitsconv converts an 8-bit RGB TIFF image to a FITS file compliant with
// UNI 11845:2022.
//
// Usage:
//
//	fitsconv [options] tiff_filename fits_filename
//
// Options:
//
//	-v           print the TIFF tags and the FITS header cards
//
// A fits_filename ending in .gz is written gzip compressed.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/projectfits4lam/fitsconv"
)

var errUsage = errors.New("Wrong number of arguments")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fmt.Fprintf(stdout, "JFITSConv v%s\n", fitsconv.Version)
	fmt.Fprintln(stdout, "TIFF to FITS UNI 11845:2022 compliant converter")
	fmt.Fprintln(stdout)

	fs := flag.NewFlagSet("fitsconv", flag.ContinueOnError)
	fs.SetOutput(stdout)
	verbose := fs.Bool("v", false, "print the TIFF tags and the FITS header cards")
	fs.Usage = func() {
		fmt.Fprintln(stdout, "Usage:")
		fmt.Fprintln(stdout, "\tfitsconv [options] tiff_filename fits_filename")
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return fail(stdout, err)
	}

	if fs.NArg() == 0 {
		fs.Usage()
	}
	if fs.NArg() != 2 {
		return fail(stdout, errUsage)
	}

	opts := fitsconv.Options{
		Input:  fs.Arg(0),
		Output: fs.Arg(1),
		Warnf: func(format string, args ...any) {
			fmt.Fprintf(stdout, "Warning: "+format+"\n", args...)
		},
	}

	fmt.Fprintf(stdout, "Input:\t%s\n", filepath.Base(opts.Input))
	fmt.Fprintf(stdout, "Output:\t%s\n", filepath.Base(opts.Output))

	if *verbose {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "TIFF tags:")
		opts.HandleTag = func(ti fitsconv.TagInfo) error {
			fmt.Fprintf(stdout, "\t%s (0x%04x): %v\n", ti.Tag, ti.ID, ti.Value)
			return nil
		}
	}

	res, err := fitsconv.Convert(opts)
	if err != nil {
		return fail(stdout, err)
	}

	if *verbose {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "FITS header:")
		for _, c := range res.Cards {
			fmt.Fprintf(stdout, "\t%-8s= %v\n", c.Key, c.Value)
		}
		fmt.Fprintln(stdout)
	}

	fmt.Fprintf(stdout, "Size:\t%dx%d pixels [%.2f MP]\n", res.Width, res.Height, res.Megapixels())
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Operation completed")

	return 0
}

func fail(w io.Writer, err error) int {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Error: %v\n", err)
	return 1
}
