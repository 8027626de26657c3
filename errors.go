// Copyright 2024 The ProjectFITS4LAM Authors
// SPDX-License-Identifier: MIT

package fitsconv

import (
	"errors"
	"fmt"
)

const msgFormatNotSupported = "Image format not supported"

// FormatError is returned when the TIFF image is valid but not an 8-bit RGB
// image with the resolution tags this converter needs.
type FormatError struct {
	// Reason is empty or a short description of what is not supported.
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Reason == "" {
		return msgFormatNotSupported
	}
	return msgFormatNotSupported + ": " + e.Reason
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func newFormatErrorf(format string, args ...any) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

// IsFormatError reports whether any error in err's tree is a *FormatError.
func IsFormatError(err error) bool {
	var e *FormatError
	return errors.As(err, &e)
}

// MetadataError is returned when a TIFF tag is present but its value can not
// be used, e.g. a DateTime that does not parse.
type MetadataError struct {
	Tag string
	Err error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("invalid %s tag: %v", e.Tag, e.Err)
}

func (e *MetadataError) Unwrap() error {
	return e.Err
}

// IsMetadataError reports whether any error in err's tree is a *MetadataError.
func IsMetadataError(err error) bool {
	var e *MetadataError
	return errors.As(err, &e)
}

// IOError is returned when reading, decoding or writing a file fails.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsIOError reports whether any error in err's tree is an *IOError.
func IsIOError(err error) bool {
	var e *IOError
	return errors.As(err, &e)
}
