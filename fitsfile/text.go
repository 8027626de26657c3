// Copyright 2024 The ProjectFITS4LAM Authors
// SPDX-License-Identifier: MIT

package fitsfile

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxStringLen is the number of value characters that fit in one card
// between the quotes.
const maxStringLen = 68

// toASCII folds s to printable ASCII. It reports whether s was changed.
func toASCII(s string) (string, bool) {
	if isPrintableASCII(s) {
		return s, false
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var sb strings.Builder
	sb.Grow(len(folded))
	for _, r := range folded {
		if r >= 0x20 && r <= 0x7e {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('?')
		}
	}
	return sb.String(), true
}

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

// quotedLen returns the number of bytes s takes up inside the quotes of a
// card value, embedded quotes being doubled.
func quotedLen(s string) int {
	return len(s) + strings.Count(s, "'")
}

// truncateString cuts s down to what fits in a single card.
func truncateString(s string) string {
	n := 0
	for i, r := range s {
		w := utf8.RuneLen(r)
		if r == '\'' {
			w = 2
		}
		if n+w > maxStringLen {
			return s[:i]
		}
		n += w
	}
	return s
}
