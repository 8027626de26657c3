// Copyright 2024 The ProjectFITS4LAM Authors
// SPDX-License-Identifier: MIT

package fitsfile

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Bytes before the value of a keyword card or a CONTINUE card.
	valueStart = 10

	// Characters of a long string that fit in one record, leaving room
	// for the continuation '&'.
	chunkLen = maxStringLen - 1

	keyContinue = "CONTINUE"
	keyComment  = "COMMENT"
)

// encodeCard returns the header records of c, one 80 byte record unless c
// holds a string that needs OGIP 1.0 CONTINUE records.
func encodeCard(c Card) ([]byte, error) {
	var value string
	switch v := c.Value.(type) {
	case bool:
		value = "F"
		if v {
			value = "T"
		}
		value = fmt.Sprintf("%20s", value)
	case int:
		value = fmt.Sprintf("%20d", v)
	case int64:
		value = fmt.Sprintf("%20d", v)
	case float64:
		value = fmt.Sprintf("%20s", formatFloat(v))
	case string:
		return encodeString(c.Key, v, c.Comment), nil
	default:
		return nil, fmt.Errorf("fitsfile: unsupported value type %T for keyword %s", c.Value, c.Key)
	}
	return withComment(fmt.Sprintf("%-8s= %s", c.Key, value), c.Comment), nil
}

// encodeString writes s with embedded quotes doubled. Values too long for
// one record are split into CONTINUE records, never between the two quotes
// of a doubled pair.
func encodeString(key, s, comment string) []byte {
	escaped := strings.ReplaceAll(s, "'", "''")
	if len(escaped) <= maxStringLen {
		return withComment(fmt.Sprintf("%-8s= %-20s", key, quote(escaped)), comment)
	}

	var chunks []string
	var sb strings.Builder
	for _, r := range s {
		unit := string(r)
		if r == '\'' {
			unit = "''"
		}
		if sb.Len()+len(unit) > chunkLen {
			chunks = append(chunks, sb.String())
			sb.Reset()
		}
		sb.WriteString(unit)
	}
	chunks = append(chunks, sb.String())

	var buf bytes.Buffer
	buf.Write(record(fmt.Sprintf("%-8s= '%s&'", key, chunks[0]), ""))
	for _, chunk := range chunks[1 : len(chunks)-1] {
		buf.Write(record(fmt.Sprintf("%-8s  '%s&'", keyContinue, chunk), ""))
	}

	buf.Write(withComment(fmt.Sprintf("%-8s  %-20s", keyContinue, quote(chunks[len(chunks)-1])), comment))
	return buf.Bytes()
}

func quote(escaped string) string {
	if escaped == "" {
		return "''"
	}
	return fmt.Sprintf("'%-8s'", escaped)
}

// withComment returns line with comment appended, or followed by a COMMENT
// record if the comment does not fit.
func withComment(line, comment string) []byte {
	switch {
	case comment == "":
		return record(line, "")
	case len(line)+len(" / ")+len(comment) <= cardLen:
		return record(line, comment)
	}
	return append(record(line, ""), record(fmt.Sprintf("%-8s%s", keyComment, comment), "")...)
}

// record pads line to a full record. Anything past column 80 is dropped.
func record(line, comment string) []byte {
	if comment != "" {
		line += " / " + comment
	}
	if len(line) > cardLen {
		line = line[:cardLen]
	}
	b := bytes.Repeat([]byte{' '}, cardLen)
	copy(b, line)
	return b
}

// formatFloat formats v so it always reads back as a real number.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'G', -1, 64)
	i := strings.IndexByte(s, 'E')
	if i < 0 {
		i = len(s)
	}
	if !strings.Contains(s[:i], ".") {
		s = s[:i] + ".0" + s[i:]
	}
	return s
}

// insertCards splices records into the serialized HDU in b just before its
// END card, re-padding the header to a whole number of blocks.
func insertCards(b, records []byte) ([]byte, error) {
	end, err := endCard(b)
	if err != nil {
		return nil, err
	}
	headerLen, err := headerSize(b)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(b)+len(records)+blockSize)
	out = append(out, b[:end]...)
	out = append(out, records...)
	out = append(out, b[end:end+cardLen]...)
	if r := len(out) % blockSize; r != 0 {
		out = append(out, bytes.Repeat([]byte{' '}, blockSize-r)...)
	}
	return append(out, b[headerLen:]...), nil
}
