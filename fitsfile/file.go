// Copyright 2024 The ProjectFITS4LAM Authors
// SPDX-License-Identifier: MIT

// Package fitsfile assembles and writes single-HDU FITS files holding 8-bit
// image cubes, with ordered header cards and a CHECKSUM/DATASUM pair.
package fitsfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/astrogo/fitsio"
	"github.com/klauspost/compress/gzip"
)

var (
	// ErrClosed is returned when a closed File is used.
	ErrClosed = errors.New("fitsfile: file already closed")

	errNoHDU = errors.New("fitsfile: no HDU to write")
)

// Keys owned by the serializer; AddCard refuses them.
var reservedKeys = map[string]bool{
	"SIMPLE":    true,
	"BITPIX":    true,
	"NAXIS":     true,
	"NAXIS1":    true,
	"NAXIS2":    true,
	"NAXIS3":    true,
	"END":       true,
	keyChecksum: true,
	keyDatasum:  true,
	keyContinue: true,
	keyComment:  true,
}

// Image is the data unit of an image HDU.
type Image interface {
	// Axes returns the length of each axis, the first axis varying fastest.
	Axes() []int
	// Bytes returns the 8-bit samples in FITS order.
	Bytes() []byte
}

// Card is a header card.
type Card struct {
	Key     string
	Value   any
	Comment string
}

// File is a FITS file being assembled in memory.
// It is not safe for concurrent use.
type File struct {
	cfg      Config
	hdu      *HDU
	checksum bool
	closed   bool
}

// HDU is the primary header-data unit of a File.
type HDU struct {
	cfg   *Config
	axes  []int
	data  []byte
	cards []Card
	keys  map[string]bool
}

// New creates an empty File using cfg.
func New(cfg Config) *File {
	return &File{cfg: cfg}
}

// AddImage adds img as the primary HDU of f with BITPIX 8.
func (f *File) AddImage(img Image) (*HDU, error) {
	if f.closed {
		return nil, ErrClosed
	}
	if f.hdu != nil {
		return nil, errors.New("fitsfile: only a primary HDU is supported")
	}

	axes := img.Axes()
	n := 1
	for _, a := range axes {
		if a <= 0 {
			return nil, fmt.Errorf("fitsfile: invalid axes %v", axes)
		}
		n *= a
	}
	data := img.Bytes()
	if len(data) != n {
		return nil, fmt.Errorf("fitsfile: image has %d bytes, axes %v need %d", len(data), axes, n)
	}

	f.hdu = &HDU{
		cfg:  &f.cfg,
		axes: append([]int(nil), axes...),
		data: data,
		keys: make(map[string]bool),
	}
	return f.hdu, nil
}

// Cards returns the cards added so far, in order.
func (h *HDU) Cards() []Card {
	return h.cards
}

// AddCard appends a card to the header. Values must be bool, int, int64,
// a finite float64 or string.
func (h *HDU) AddCard(key string, value any, comment string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if reservedKeys[key] {
		return fmt.Errorf("fitsfile: keyword %s is reserved", key)
	}
	if h.keys[key] {
		return fmt.Errorf("fitsfile: duplicate keyword %s", key)
	}

	switch v := value.(type) {
	case bool, int, int64:
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("fitsfile: invalid value %v for keyword %s", v, key)
		}
	case string:
		value = h.processString(key, v)
	default:
		return fmt.Errorf("fitsfile: unsupported value type %T for keyword %s", value, key)
	}

	h.keys[key] = true
	h.cards = append(h.cards, Card{Key: key, Value: value, Comment: comment})
	return nil
}

func (h *HDU) processString(key, s string) string {
	if h.cfg.CheckASCII {
		var changed bool
		if s, changed = toASCII(s); changed {
			h.cfg.warnf("non-ASCII characters replaced in %s: %q", key, s)
		}
	}
	if !h.cfg.LongStrings && quotedLen(s) > maxStringLen {
		s = truncateString(s)
		h.cfg.warnf("value of %s truncated to %d characters", key, maxStringLen)
	}
	return s
}

func checkKey(key string) error {
	if key == "" || len(key) > 8 {
		return fmt.Errorf("fitsfile: invalid keyword %q", key)
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return fmt.Errorf("fitsfile: invalid keyword %q", key)
		}
	}
	return nil
}

// SetChecksum makes WriteFile add DATASUM and CHECKSUM as the last cards.
func (f *File) SetChecksum() {
	f.checksum = true
}

// WriteFile serializes f to path. The file is written to a temporary file
// next to path and renamed into place, so a failed write leaves nothing at
// path.
func (f *File) WriteFile(path string) error {
	if f.closed {
		return ErrClosed
	}
	b, err := f.encode()
	if err != nil {
		return err
	}
	return writeFileAtomic(path, b, f.cfg.Gzip)
}

// WriteTo writes the serialized, uncompressed file to w.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	if f.closed {
		return 0, ErrClosed
	}
	b, err := f.encode()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// Close releases the HDU data. It is safe to call Close more than once and
// on a File that was never fully assembled.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.hdu = nil
	return nil
}

func (f *File) encode() ([]byte, error) {
	if f.hdu == nil {
		return nil, errNoHDU
	}

	var records bytes.Buffer
	for _, c := range f.hdu.cards {
		rec, err := encodeCard(c)
		if err != nil {
			return nil, err
		}
		records.Write(rec)
	}
	if f.checksum {
		records.Write(formatStringCard(keyDatasum, "0", "data unit checksum"))
		records.Write(formatStringCard(keyChecksum, zeroChecksum, "HDU checksum"))
	}

	// fitsio writes the mandatory cards and the data unit.
	var buf bytes.Buffer
	w, err := fitsio.Create(&buf)
	if err != nil {
		return nil, err
	}

	im := fitsio.NewImage(8, f.hdu.axes)
	defer im.Close()

	if err := im.Write(f.hdu.data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Write(im); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	b, err := insertCards(buf.Bytes(), records.Bytes())
	if err != nil {
		return nil, err
	}
	if f.checksum {
		if err := stampChecksum(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func writeFileAtomic(path string, b []byte, gz bool) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	var w io.Writer = tmp
	var zw *gzip.Writer
	if gz {
		zw = gzip.NewWriter(tmp)
		w = zw
	}
	if _, err = w.Write(b); err != nil {
		return err
	}
	if zw != nil {
		if err = zw.Close(); err != nil {
			return err
		}
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
