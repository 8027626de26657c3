// Copyright 2024 The ProjectFITS4LAM Authors
// SPDX-License-Identifier: MIT

package fitsconv

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	exiftiff "github.com/rwcarlsen/goexif/tiff"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// DecodedImage is a decoded 8-bit RGB TIFF image and its tag table.
type DecodedImage struct {
	Width  int
	Height int

	// Tags is the first image file directory.
	Tags *TagTable

	pix    []uint8
	stride int
	// Bytes per pixel in pix. The first three are R, G and B.
	bpp int
}

// Pixel returns the R, G and B samples of the pixel at x, y, with row 0 at
// the top of the image.
func (m *DecodedImage) Pixel(x, y int) [3]uint8 {
	i := y*m.stride + x*m.bpp
	return [3]uint8{m.pix[i], m.pix[i+1], m.pix[i+2]}
}

// row returns the samples of row y.
func (m *DecodedImage) row(y int) []uint8 {
	i := y * m.stride
	return m.pix[i : i+m.Width*m.bpp]
}

// release drops the pixel buffer.
func (m *DecodedImage) release() {
	m.pix = nil
}

// DecodeTIFF reads a TIFF image from r.
// The tag table is decoded and checked with ValidateFormat before any pixel
// data is decoded.
func DecodeTIFF(r io.Reader) (img *DecodedImage, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &IOError{Op: "decode", Err: fmt.Errorf("corrupt TIFF: %v", rec)}
		}
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &IOError{Op: "read", Err: err}
	}

	tags, err := decodeTags(data)
	if err != nil {
		return nil, err
	}

	if err := ValidateFormat(tags); err != nil {
		return nil, err
	}

	m, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		var unsupported tiff.UnsupportedError
		if errors.As(err, &unsupported) {
			return nil, &FormatError{Reason: string(unsupported), Err: err}
		}
		return nil, &IOError{Op: "decode", Err: err}
	}

	return newDecodedImage(m, tags), nil
}

func decodeTags(data []byte) (*TagTable, error) {
	t, err := exiftiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &IOError{Op: "decode", Err: err}
	}
	if len(t.Dirs) == 0 {
		return nil, &IOError{Op: "decode", Err: errors.New("no image file directory")}
	}
	return newTagTable(t.Dirs[0]), nil
}

func newDecodedImage(m image.Image, tags *TagTable) *DecodedImage {
	b := m.Bounds()
	img := &DecodedImage{
		Width:  b.Dx(),
		Height: b.Dy(),
		Tags:   tags,
		bpp:    4,
	}

	switch mm := m.(type) {
	case *image.RGBA:
		img.pix = mm.Pix[mm.PixOffset(b.Min.X, b.Min.Y):]
		img.stride = mm.Stride
	case *image.NRGBA:
		img.pix = mm.Pix[mm.PixOffset(b.Min.X, b.Min.Y):]
		img.stride = mm.Stride
	default:
		rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), m, b.Min, draw.Src)
		img.pix = rgba.Pix
		img.stride = rgba.Stride
	}

	return img
}
