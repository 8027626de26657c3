// Copyright 2024 The ProjectFITS4LAM Authors
// SPDX-License-Identifier: MIT

package fitsconv

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/rwcarlsen/goexif/tiff"
	"golang.org/x/text/encoding/charmap"
)

// ErrStopWalking is a sentinel error to signal that the walk should stop.
var ErrStopWalking = errors.New("stop walking")

// HandleTagFunc is the function that is called for each tag.
type HandleTagFunc func(info TagInfo) error

// TagInfo contains information about a tag.
type TagInfo struct {
	// The tag ID.
	ID uint16
	// The tag name.
	Tag string
	// The tag value: an int64, float64, Rat, string or a slice of these.
	// Binary data is summarized as a string.
	Value any
}

// TagTable is the read-only tag directory (IFD0) of a TIFF image.
type TagTable struct {
	tags map[uint16]*tiff.Tag
	ids  []uint16
}

func newTagTable(dir *tiff.Dir) *TagTable {
	t := &TagTable{
		tags: make(map[uint16]*tiff.Tag, len(dir.Tags)),
	}
	for _, tag := range dir.Tags {
		if _, dup := t.tags[tag.Id]; dup {
			continue
		}
		t.tags[tag.Id] = tag
		t.ids = append(t.ids, tag.Id)
	}
	return t
}

// Has reports whether the tag with the given id is present.
func (t *TagTable) Has(id uint16) bool {
	_, found := t.tags[id]
	return found
}

// Len returns the number of tags in the table.
func (t *TagTable) Len() int {
	return len(t.ids)
}

// Int returns the first value of the tag as an int.
// Rational values are truncated towards zero.
func (t *TagTable) Int(id uint16) (v int, found bool, err error) {
	tag, found := t.tags[id]
	if !found {
		return 0, false, nil
	}
	if tag.Count == 0 {
		return 0, true, &MetadataError{Tag: TagName(id), Err: errors.New("no values")}
	}

	switch tag.Format() {
	case tiff.IntVal:
		v, err = tag.Int(0)
	case tiff.RatVal:
		var r Rat[int32]
		r, err = tagRat[int32](tag, 0)
		if err == nil {
			v = r.Int()
		}
	default:
		err = fmt.Errorf("type %d is not numeric", tag.Type)
	}
	if err != nil {
		return 0, true, &MetadataError{Tag: TagName(id), Err: err}
	}
	return v, true, nil
}

// Rat returns the first value of the tag as a rational number.
// Integer values are returned with a denominator of 1.
func (t *TagTable) Rat(id uint16) (r Rat[int32], found bool, err error) {
	tag, found := t.tags[id]
	if !found {
		return nil, false, nil
	}
	if tag.Count == 0 {
		return nil, true, &MetadataError{Tag: TagName(id), Err: errors.New("no values")}
	}

	switch tag.Format() {
	case tiff.IntVal:
		var i int
		if i, err = tag.Int(0); err == nil {
			r, err = NewRat(int32(i), 1)
		}
	case tiff.RatVal:
		r, err = tagRat[int32](tag, 0)
	default:
		err = fmt.Errorf("type %d is not numeric", tag.Type)
	}
	if err != nil {
		return nil, true, &MetadataError{Tag: TagName(id), Err: err}
	}
	return r, true, nil
}

// tagRat returns value i of a rational tag, halving values that do not fit
// in T while both stay whole.
func tagRat[T int32 | uint32](tag *tiff.Tag, i int) (Rat[T], error) {
	num, den, err := tag.Rat2(i)
	if err != nil {
		return nil, err
	}
	fits := func(v int64) bool { return int64(T(v)) == v }
	for !(fits(num) && fits(den)) && num%2 == 0 && den%2 == 0 {
		num, den = num/2, den/2
	}
	if !fits(num) || !fits(den) {
		return nil, fmt.Errorf("rational %d/%d out of range", num, den)
	}
	return NewRat(T(num), T(den))
}

// String returns the value of an ASCII tag.
// Values that are not valid UTF-8 are decoded as ISO-8859-1, and the result is
// trimmed of NULs, control characters and surrounding white space.
func (t *TagTable) String(id uint16) (s string, found bool, err error) {
	tag, found := t.tags[id]
	if !found {
		return "", false, nil
	}
	if tag.Format() != tiff.StringVal {
		return "", true, &MetadataError{Tag: TagName(id), Err: fmt.Errorf("type %d is not ASCII", tag.Type)}
	}
	return decodeASCII(tag.Val), true, nil
}

func decodeASCII(b []byte) string {
	b = trimBytesNulls(b)
	// Multiple strings in one tag are NUL separated; keep the first one.
	for i, c := range b {
		if c == 0 {
			b = b[:i]
			break
		}
	}
	if !utf8.Valid(b) {
		r := make([]rune, len(b))
		for i, c := range b {
			r[i] = charmap.ISO8859_1.DecodeByte(c)
		}
		return printableString(string(r))
	}
	return printableString(string(b))
}

// Walk calls fn for each tag in file order.
// Returning ErrStopWalking from fn stops the walk without an error.
func (t *TagTable) Walk(shouldHandle func(TagInfo) bool, fn HandleTagFunc) error {
	for _, id := range t.ids {
		ti := TagInfo{ID: id, Tag: TagName(id)}
		if shouldHandle != nil && !shouldHandle(ti) {
			continue
		}
		ti.Value = t.value(t.tags[id])
		if err := fn(ti); err != nil {
			if err == ErrStopWalking {
				return nil
			}
			return err
		}
	}
	return nil
}

const maxWalkValues = 16

// value converts the tag's values for display.
func (t *TagTable) value(tag *tiff.Tag) any {
	count := int(tag.Count)

	switch tag.Format() {
	case tiff.StringVal:
		return decodeASCII(tag.Val)
	case tiff.IntVal, tiff.FloatVal, tiff.RatVal:
	default:
		return fmt.Sprintf("(Binary data %d bytes)", len(tag.Val))
	}

	if count > maxWalkValues {
		return fmt.Sprintf("(%d values)", count)
	}

	values := make([]any, 0, count)
	for i := 0; i < count; i++ {
		var (
			v   any
			err error
		)
		switch tag.Format() {
		case tiff.IntVal:
			v, err = tag.Int64(i)
		case tiff.FloatVal:
			v, err = tag.Float(i)
		case tiff.RatVal:
			if tag.Type == tiff.DTSRational {
				v, err = tagRat[int32](tag, i)
			} else {
				v, err = tagRat[uint32](tag, i)
			}
		}
		if err != nil {
			return fmt.Sprintf("(invalid: %v)", err)
		}
		values = append(values, v)
	}

	if len(values) == 1 {
		return values[0]
	}
	return values
}
