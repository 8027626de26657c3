// Copyright 2024 The ProjectFITS4LAM Authors
// SPDX-License-Identifier: MIT

package fitsfile

// Config holds the serialization switches for one File.
// Each File gets its own copy, so files written concurrently or one after
// another never see each other's settings.
type Config struct {
	// LongStrings allows string values longer than a single card can hold,
	// under the OGIP 1.0 long string convention: the value ends with '&' and
	// carries on in CONTINUE cards. The card comment goes on the last
	// CONTINUE card, or on a COMMENT card right after it when it does not
	// fit there; readers such as fitsio then list it as a separate COMMENT.
	// If not set, such values are truncated.
	LongStrings bool

	// CheckASCII makes AddCard fold string values to printable ASCII.
	// Accented letters lose their accent, anything else becomes '?'.
	CheckASCII bool

	// Gzip compresses the serialized file with gzip.
	Gzip bool

	// Warnf will be called for each warning.
	Warnf func(string, ...any)
}

// DefaultConfig returns the configuration used for UNI 11845 output:
// long strings enabled and ASCII checking on.
func DefaultConfig() Config {
	return Config{
		LongStrings: true,
		CheckASCII:  true,
	}
}

func (c *Config) warnf(format string, args ...any) {
	if c.Warnf != nil {
		c.Warnf(format, args...)
	}
}
