// Copyright 2024 The ProjectFITS4LAM Authors
// SPDX-License-Identifier: MIT

package fitsconv

// Cube holds the R, G and B planes of an image in FITS order: plane by
// plane, each plane row by row starting at the bottom row of the image.
type Cube struct {
	Width  int
	Height int

	// Pix holds 3*Width*Height samples.
	Pix []uint8
}

// BuildCube copies the pixels of img into a new Cube, flipping the rows so
// that row 0 of each plane is the last row of img.
func BuildCube(img *DecodedImage) *Cube {
	w, h := img.Width, img.Height
	c := &Cube{
		Width:  w,
		Height: h,
		Pix:    make([]uint8, 3*w*h),
	}

	plane := w * h
	for y := 0; y < h; y++ {
		src := img.row(h - 1 - y)
		o := y * w
		for x := 0; x < w; x++ {
			s := src[x*img.bpp:]
			c.Pix[o+x] = s[0]
			c.Pix[plane+o+x] = s[1]
			c.Pix[2*plane+o+x] = s[2]
		}
	}

	return c
}

// At returns the sample of channel ch at row y and column x of the cube.
func (c *Cube) At(ch, y, x int) uint8 {
	return c.Pix[(ch*c.Height+y)*c.Width+x]
}

// Plane returns the samples of channel ch.
func (c *Cube) Plane(ch int) []uint8 {
	n := c.Width * c.Height
	return c.Pix[ch*n : (ch+1)*n]
}

// Axes returns NAXIS1, NAXIS2 and NAXIS3.
func (c *Cube) Axes() []int {
	return []int{c.Width, c.Height, 3}
}

// Bytes returns the samples in FITS order.
func (c *Cube) Bytes() []byte {
	return c.Pix
}
