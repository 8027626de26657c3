// Copyright 2024 The ProjectFITS4LAM Authors
// SPDX-License-Identifier: MIT

package fitsconv

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// TIFF field types.
const (
	dtASCII    = 2
	dtShort    = 3
	dtLong     = 4
	dtRational = 5
)

type ifdEntry struct {
	tag      uint16
	dataType uint16
	// ASCII bytes including the terminating NUL.
	ascii []byte
	// Numeric values; a rational takes two.
	vals []uint32
}

func (e ifdEntry) count() int {
	switch e.dataType {
	case dtASCII:
		return len(e.ascii)
	case dtRational:
		return len(e.vals) / 2
	}
	return len(e.vals)
}

func (e ifdEntry) encode(order binary.ByteOrder) []byte {
	switch e.dataType {
	case dtASCII:
		return e.ascii
	case dtShort:
		b := make([]byte, 2*len(e.vals))
		for i, v := range e.vals {
			order.PutUint16(b[2*i:], uint16(v))
		}
		return b
	}
	b := make([]byte, 4*len(e.vals))
	for i, v := range e.vals {
		order.PutUint32(b[4*i:], v)
	}
	return b
}

// testTIFF builds an uncompressed, single strip RGB TIFF in memory.
type testTIFF struct {
	order   binary.ByteOrder
	width   int
	height  int
	pix     []uint8
	entries map[uint16]ifdEntry
}

// newTestTIFF returns a 300 DPI 8-bit RGB image filled with a pattern that
// differs for every sample position.
func newTestTIFF(width, height int) *testTIFF {
	t := &testTIFF{
		order:   binary.LittleEndian,
		width:   width,
		height:  height,
		pix:     make([]uint8, width*height*3),
		entries: make(map[uint16]ifdEntry),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			for c := 0; c < 3; c++ {
				t.pix[(y*width+x)*3+c] = testSample(x, y, c)
			}
		}
	}

	t.setLong(TagImageWidth, uint32(width))
	t.setLong(TagImageLength, uint32(height))
	t.setShort(TagBitsPerSample, 8, 8, 8)
	t.setShort(TagCompression, 1)
	t.setShort(TagPhotometricInterpretation, 2)
	t.setShort(TagSamplesPerPixel, 3)
	t.setLong(TagRowsPerStrip, uint32(height))
	t.setLong(TagStripByteCounts, uint32(len(t.pix)))
	t.setRational(TagXResolution, 300, 1)
	t.setRational(TagYResolution, 300, 1)
	t.setShort(TagResolutionUnit, 2)
	t.setShort(TagPlanarConfiguration, 1)

	return t
}

func testSample(x, y, c int) uint8 {
	return uint8(x*7 + y*13 + c*101)
}

func (t *testTIFF) bigEndian() *testTIFF {
	t.order = binary.BigEndian
	return t
}

func (t *testTIFF) setASCII(tag uint16, s string) *testTIFF {
	t.entries[tag] = ifdEntry{tag: tag, dataType: dtASCII, ascii: append([]byte(s), 0)}
	return t
}

func (t *testTIFF) setShort(tag uint16, vals ...uint16) *testTIFF {
	e := ifdEntry{tag: tag, dataType: dtShort}
	for _, v := range vals {
		e.vals = append(e.vals, uint32(v))
	}
	t.entries[tag] = e
	return t
}

func (t *testTIFF) setLong(tag uint16, vals ...uint32) *testTIFF {
	t.entries[tag] = ifdEntry{tag: tag, dataType: dtLong, vals: vals}
	return t
}

func (t *testTIFF) setRational(tag uint16, num, den uint32) *testTIFF {
	t.entries[tag] = ifdEntry{tag: tag, dataType: dtRational, vals: []uint32{num, den}}
	return t
}

func (t *testTIFF) remove(tag uint16) *testTIFF {
	delete(t.entries, tag)
	return t
}

// Bytes returns the encoded file: header, pixels, then IFD0 followed by the
// values that do not fit in an entry.
func (t *testTIFF) Bytes() []byte {
	const headerLen = 8
	pixEnd := headerLen + len(t.pix)
	ifdOffset := pixEnd + pixEnd%2
	t.setLong(TagStripOffsets, headerLen)

	entries := make([]ifdEntry, 0, len(t.entries))
	for _, e := range t.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].tag < entries[j].tag
	})

	var buf bytes.Buffer
	if t.order == binary.BigEndian {
		buf.WriteString("MM")
	} else {
		buf.WriteString("II")
	}
	b2 := make([]byte, 2)
	b4 := make([]byte, 4)
	t.order.PutUint16(b2, 42)
	buf.Write(b2)
	t.order.PutUint32(b4, uint32(ifdOffset))
	buf.Write(b4)
	buf.Write(t.pix)
	if pixEnd%2 == 1 {
		buf.WriteByte(0)
	}

	var parea []byte
	pstart := ifdOffset + 2 + 12*len(entries) + 4

	t.order.PutUint16(b2, uint16(len(entries)))
	buf.Write(b2)
	for _, e := range entries {
		var ent [12]byte
		t.order.PutUint16(ent[0:2], e.tag)
		t.order.PutUint16(ent[2:4], e.dataType)
		t.order.PutUint32(ent[4:8], uint32(e.count()))
		data := e.encode(t.order)
		if len(data) <= 4 {
			copy(ent[8:12], data)
		} else {
			t.order.PutUint32(ent[8:12], uint32(pstart+len(parea)))
			parea = append(parea, data...)
			if len(parea)%2 == 1 {
				parea = append(parea, 0)
			}
		}
		buf.Write(ent[:])
	}
	t.order.PutUint32(b4, 0)
	buf.Write(b4)
	buf.Write(parea)

	return buf.Bytes()
}

// write writes the file to dir and returns its path.
func (t *testTIFF) write(tb testing.TB, dir, name string) string {
	tb.Helper()
	filename := filepath.Join(dir, name)
	if err := os.WriteFile(filename, t.Bytes(), 0o644); err != nil {
		tb.Fatal(err)
	}
	return filename
}

// decode decodes the file with DecodeTIFF.
func (t *testTIFF) decode(tb testing.TB) *DecodedImage {
	tb.Helper()
	img, err := DecodeTIFF(bytes.NewReader(t.Bytes()))
	if err != nil {
		tb.Fatal(err)
	}
	return img
}
