// Copyright 2024 The ProjectFITS4LAM Authors
// SPDX-License-Identifier: MIT

package fitsconv

import "github.com/projectfits4lam/fitsconv/fitsfile"

// mmPerInch converts pixels per inch to millimetres per pixel.
const mmPerInch = 25.4

// HeaderCards returns the header cards for m in the order they are written.
// Cards for absent optional fields are left out.
func HeaderCards(m *MetadataRecord) []fitsfile.Card {
	cards := []fitsfile.Card{
		{Key: "UNIKEY", Value: true, Comment: "Compliant with UNI 11845:2022"},
		{Key: "EXTEND", Value: true},
		{Key: "LONGSTRN", Value: "OGIP 1.0", Comment: "The OGIP long string convention may be used"},
		{Key: "CTYPE1", Value: ""},
		{Key: "CTYPE2", Value: ""},
		{Key: "CTYPE3", Value: "RGB"},
		{Key: "CRPIX1", Value: 0.0},
		{Key: "CRPIX2", Value: 0.0},
		{Key: "CRPIX3", Value: 0.0},
		{Key: "CRVAL1", Value: 0.0},
		{Key: "CRVAL2", Value: 0.0},
		{Key: "CRVAL3", Value: 0.0},
		{Key: "CUNIT1", Value: "mm"},
		{Key: "CUNIT2", Value: "mm"},
		{Key: "CUNIT3", Value: ""},
		// The resolution is taken as pixels per inch whatever the unit.
		{Key: "CDELT1", Value: mmPerInch / float64(m.XResolution)},
		{Key: "CDELT2", Value: mmPerInch / float64(m.YResolution)},
		{Key: "CDELT3", Value: 1.0},
		{Key: "COLORMAP", Value: "RGB", Comment: "Colors mapping"},
		{Key: "IMGURESL", Value: m.ResolutionUnit.String(), Comment: "Resolution unit"},
		{Key: "IMGXRESL", Value: m.XResolution, Comment: "Horizontal resolution"},
		{Key: "IMGYRESL", Value: m.YResolution, Comment: "Vertical resolution"},
		{Key: "OBJECT", Value: m.Object, Comment: "Item identification"},
		{Key: "CREATOR", Value: Creator, Comment: "Software that created this FITS file"},
		{Key: "DATE", Value: m.Created.Format(DateLayout), Comment: "Date and time of FITS file creation"},
	}

	if !m.DateObs.IsZero() {
		cards = append(cards, fitsfile.Card{Key: "DATE-OBS", Value: m.DateObs.Format(DateLayout), Comment: "Date and time of acquisition"})
	}
	if m.Copyright != "" {
		cards = append(cards, fitsfile.Card{Key: "ORIGIN", Value: m.Copyright, Comment: "Copyright notice"})
	}
	if m.Artist != "" {
		cards = append(cards, fitsfile.Card{Key: "AUTHOR", Value: m.Artist, Comment: "Author of the image"})
	}
	if m.Device != "" {
		cards = append(cards, fitsfile.Card{Key: "INSTRUME", Value: m.Device, Comment: "Maker and model of the device"})
	}
	if m.Software != "" {
		cards = append(cards, fitsfile.Card{Key: "PROGRAM", Value: m.Software, Comment: "Software that created the image"})
	}

	return cards
}
