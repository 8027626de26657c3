// Copyright 2024 The ProjectFITS4LAM Authors
// SPDX-License-Identifier: MIT

package fitsfile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/astrogo/fitsio"
	qt "github.com/frankban/quicktest"
)

func TestEncodeCard(t *testing.T) {
	c := qt.New(t)

	a66 := strings.Repeat("a", 66)

	for _, test := range []struct {
		name string
		card Card
		want []string
	}{
		{"Bool", Card{"UNIKEY", true, "Compliant"}, []string{
			"UNIKEY  =                    T / Compliant",
		}},
		{"Int", Card{"IMGXRESL", 300, ""}, []string{
			"IMGXRESL=                  300",
		}},
		{"Int64", Card{"BIG", int64(-7), ""}, []string{
			"BIG     =                   -7",
		}},
		{"Float", Card{"CDELT3", 1.0, ""}, []string{
			"CDELT3  =                  1.0",
		}},
		{"Float exponent", Card{"CDELT1", 1e-9, ""}, []string{
			"CDELT1  =              1.0E-09",
		}},
		{"Float fraction", Card{"CDELT1", 0.25, ""}, []string{
			"CDELT1  =                 0.25",
		}},
		{"Empty string", Card{"CTYPE1", "", "Axis 1"}, []string{
			"CTYPE1  = ''                   / Axis 1",
		}},
		{"String", Card{"CTYPE3", "RGB", ""}, []string{
			"CTYPE3  = 'RGB     '",
		}},
		{"Quote", Card{"AUTHOR", "Dell'Acqua", "Author of the image"}, []string{
			"AUTHOR  = 'Dell''Acqua'        / Author of the image",
		}},
		{"Quote fills card", Card{"AUTHOR", a66 + "'", "Author"}, []string{
			"AUTHOR  = '" + a66 + "'''",
			"COMMENT Author",
		}},
		{"Quote pair at split", Card{"AUTHOR", a66 + "'b", "Author"}, []string{
			"AUTHOR  = '" + a66 + "&'",
			"CONTINUE  '''b     '           / Author",
		}},
		{"Long", Card{"OBJECT", strings.Repeat("x", 150), ""}, []string{
			"OBJECT  = '" + strings.Repeat("x", 67) + "&'",
			"CONTINUE  '" + strings.Repeat("x", 67) + "&'",
			"CONTINUE  'xxxxxxxxxxxxxxxx'",
		}},
	} {
		c.Run(test.name, func(c *qt.C) {
			b, err := encodeCard(test.card)
			c.Assert(err, qt.IsNil)
			c.Assert(len(b)%cardLen, qt.Equals, 0)

			var got []string
			for i := 0; i < len(b); i += cardLen {
				got = append(got, strings.TrimRight(string(b[i:i+cardLen]), " "))
			}
			c.Assert(got, qt.DeepEquals, test.want)
		})
	}

	_, err := encodeCard(Card{"RATIO", float32(1), ""})
	c.Assert(err, qt.ErrorMatches, "fitsfile: unsupported value type float32 for keyword RATIO")
}

func TestWriteQuotedStrings(t *testing.T) {
	c := qt.New(t)

	values := map[string]string{
		"AUTHOR":   "Dell'Acqua",
		"ORIGIN":   strings.Repeat("a", 66) + "'s archive",
		"INSTRUME": strings.Repeat("'", 40),
		"PROGRAM":  strings.Repeat("b", 67) + "'" + strings.Repeat("c", 70) + "'",
		"OBJECT":   "''",
	}
	keys := []string{"AUTHOR", "ORIGIN", "INSTRUME", "PROGRAM", "OBJECT"}

	f := New(DefaultConfig())
	defer f.Close()
	hdu, err := f.AddImage(newTestImage(3, 2))
	c.Assert(err, qt.IsNil)
	for _, key := range keys {
		c.Assert(hdu.AddCard(key, values[key], "Comment far too long to share the line holding its value"), qt.IsNil)
	}
	c.Assert(hdu.AddCard("IMGXRESL", 300, ""), qt.IsNil)
	f.SetChecksum()

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	c.Assert(err, qt.IsNil)
	c.Assert(VerifyChecksum(buf.Bytes()), qt.IsTrue)

	r, err := fitsio.Open(bytes.NewReader(buf.Bytes()))
	c.Assert(err, qt.IsNil)
	defer r.Close()

	hdr := r.HDU(0).Header()
	for _, key := range keys {
		card := hdr.Get(key)
		c.Assert(card, qt.IsNotNil, qt.Commentf(key))
		c.Assert(card.Value, qt.Equals, values[key], qt.Commentf(key))
	}
	c.Assert(hdr.Get("IMGXRESL").Value, qt.Equals, 300)
	c.Assert(hdr.Axes(), qt.DeepEquals, []int{3, 2, 3})
}

func TestInsertCards(t *testing.T) {
	c := qt.New(t)

	header := bytes.Repeat([]byte{' '}, blockSize)
	copy(header, record("SIMPLE  =                    T", ""))
	copy(header[cardLen:], record("END", ""))
	data := bytes.Repeat([]byte{1}, blockSize)

	var records []byte
	for i := 0; i < 35; i++ {
		records = append(records, record("IMGXRESL=                  300", "")...)
	}

	b, err := insertCards(append(header, data...), records)
	c.Assert(err, qt.IsNil)
	c.Assert(b, qt.HasLen, 3*blockSize)
	end, err := endCard(b)
	c.Assert(err, qt.IsNil)
	c.Assert(end, qt.Equals, 36*cardLen)
	c.Assert(b[2*blockSize:], qt.DeepEquals, data)

	_, err = insertCards(bytes.Repeat([]byte{' '}, blockSize), records)
	c.Assert(err, qt.ErrorMatches, "fitsfile: no END card in header")
}
