// Copyright 2024 The ProjectFITS4LAM Authors
// SPDX-License-Identifier: MIT

package fitsconv

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ResolutionUnit is the unit of the XResolution and YResolution tags.
type ResolutionUnit int

const (
	// MM is used for every ResolutionUnit tag value other than 2.
	MM ResolutionUnit = iota
	// INCH is ResolutionUnit tag value 2.
	INCH
)

// String returns the IMGURESL card value.
func (u ResolutionUnit) String() string {
	if u == INCH {
		return "INCH"
	}
	return "MM"
}

const (
	// DateLayout is the layout of the DATE and DATE-OBS card values.
	DateLayout = "2006-01-02T15:04:05"

	tiffDateLayout = "2006:01:02 15:04:05"
)

// MetadataRecord is the metadata taken from a TIFF tag table and mapped to
// the FITS header. Empty strings and zero times are absent fields.
type MetadataRecord struct {
	// Device pixels per resolution unit.
	XResolution int
	YResolution int

	ResolutionUnit ResolutionUnit

	// Capture time from the DateTime tag.
	DateObs time.Time

	Copyright string
	Artist    string

	// Make and model of the capture device.
	Device string

	// Software that created the TIFF.
	Software string

	// Object is the input file name without its final extension.
	Object string

	// Created is the time the conversion started.
	Created time.Time
}

// ValidateFormat checks that the image described by tags has 8 bits per
// sample and 3 interleaved samples per pixel. A missing tag has the TIFF
// default of 1.
func ValidateFormat(tags *TagTable) error {
	bps, found, err := tags.Int(TagBitsPerSample)
	if err != nil {
		return err
	}
	if !found {
		bps = 1
	}
	if bps != 8 {
		return newFormatErrorf("%d bits per sample", bps)
	}

	spp, found, err := tags.Int(TagSamplesPerPixel)
	if err != nil {
		return err
	}
	if !found {
		spp = 1
	}
	if spp != 3 {
		return newFormatErrorf("%d samples per pixel", spp)
	}

	pc, found, err := tags.Int(TagPlanarConfiguration)
	if err != nil {
		return err
	}
	if found && pc != 1 {
		return newFormatErrorf("planar configuration %d", pc)
	}

	return nil
}

// ExtractMetadata builds the metadata record for the image with the given
// tags read from filename. now is the creation time.
func ExtractMetadata(tags *TagTable, filename string, now time.Time) (*MetadataRecord, error) {
	if err := ValidateFormat(tags); err != nil {
		return nil, err
	}

	m := &MetadataRecord{
		Object:  objectName(filename),
		Created: now,
	}

	var err error
	if m.XResolution, err = resolution(tags, TagXResolution); err != nil {
		return nil, err
	}
	if m.YResolution, err = resolution(tags, TagYResolution); err != nil {
		return nil, err
	}

	unit, found, err := tags.Int(TagResolutionUnit)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, newFormatErrorf("missing %s tag", TagName(TagResolutionUnit))
	}
	if unit == 2 {
		m.ResolutionUnit = INCH
	}

	dateTime, found, err := tags.String(TagDateTime)
	if err != nil {
		return nil, err
	}
	if found {
		if dateTime == "" {
			return nil, &MetadataError{Tag: TagName(TagDateTime), Err: errors.New("empty value")}
		}
		m.DateObs, err = time.Parse(tiffDateLayout, dateTime)
		if err != nil {
			return nil, &MetadataError{Tag: TagName(TagDateTime), Err: err}
		}
	}

	if m.Copyright, err = optionalString(tags, TagCopyright); err != nil {
		return nil, err
	}
	if m.Artist, err = optionalString(tags, TagArtist); err != nil {
		return nil, err
	}
	if m.Software, err = optionalString(tags, TagSoftware); err != nil {
		return nil, err
	}

	maker, err := optionalString(tags, TagMake)
	if err != nil {
		return nil, err
	}
	model, err := optionalString(tags, TagModel)
	if err != nil {
		return nil, err
	}
	m.Device = deviceName(maker, model)

	return m, nil
}

// resolution returns the integer part of a resolution tag.
func resolution(tags *TagTable, id uint16) (int, error) {
	r, found, err := tags.Rat(id)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, newFormatErrorf("missing %s tag", TagName(id))
	}
	v := r.Int()
	if v <= 0 {
		return 0, &FormatError{
			Reason: TagName(id) + " must be positive",
			Err:    errors.New("non-positive resolution"),
		}
	}
	return v, nil
}

// optionalString returns the value of an ASCII tag, or "" if it is absent.
func optionalString(tags *TagTable, id uint16) (string, error) {
	s, _, err := tags.String(id)
	return s, err
}

// deviceName joins maker and model, dropping maker when model already
// starts with it.
func deviceName(maker, model string) string {
	maker, model = strings.TrimSpace(maker), strings.TrimSpace(model)
	switch {
	case maker == "":
		return model
	case model == "":
		return maker
	case strings.HasPrefix(model, maker):
		return model
	}
	return maker + " " + model
}

var extRe = regexp.MustCompile(`[.][^.]+$`)

// objectName returns the base name of filename with its final extension
// stripped.
func objectName(filename string) string {
	return extRe.ReplaceAllString(filepath.Base(filename), "")
}
