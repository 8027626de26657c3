// Copyright 2024 The ProjectFITS4LAM Authors
// SPDX-License-Identifier: MIT

package fitsfile

import (
	"bytes"
	"fmt"
	"strconv"
)

const (
	cardLen   = 80
	blockSize = 2880

	keyChecksum = "CHECKSUM"
	keyDatasum  = "DATASUM"

	// The CHECKSUM value as written before the HDU sum is known.
	zeroChecksum = "0000000000000000"
)

// Characters the ASCII checksum encoding must avoid (punctuation between
// the digits and the letters).
var checksumExclude = [...]byte{
	0x3a, 0x3b, 0x3c, 0x3d, 0x3e, 0x3f, 0x40,
	0x5b, 0x5c, 0x5d, 0x5e, 0x5f, 0x60,
}

// Checksum adds the 32-bit ones-complement sum of b to sum and returns it.
// b is read as big-endian 32-bit words; a trailing partial word is padded
// with zeros.
func Checksum(b []byte, sum uint32) uint32 {
	hi := uint64(sum >> 16)
	lo := uint64(sum & 0xffff)

	n := len(b) &^ 3
	for i := 0; i < n; i += 4 {
		hi += uint64(b[i])<<8 | uint64(b[i+1])
		lo += uint64(b[i+2])<<8 | uint64(b[i+3])
	}
	if rem := b[n:]; len(rem) > 0 {
		var w [4]byte
		copy(w[:], rem)
		hi += uint64(w[0])<<8 | uint64(w[1])
		lo += uint64(w[2])<<8 | uint64(w[3])
	}

	for {
		hicarry, locarry := hi>>16, lo>>16
		if hicarry == 0 && locarry == 0 {
			break
		}
		hi = hi&0xffff + locarry
		lo = lo&0xffff + hicarry
	}

	return uint32(hi<<16 | lo)
}

// EncodeChecksum returns the 16 character ASCII encoding of sum used as the
// CHECKSUM keyword value. With complement set, the ones-complement of sum is
// encoded, which is what makes a stamped HDU sum to -0.
func EncodeChecksum(sum uint32, complement bool) string {
	if complement {
		sum = ^sum
	}

	var asc [16]byte
	for i := 0; i < 4; i++ {
		b := byte(sum >> (24 - 8*uint(i)))
		quotient := b/4 + '0'
		remainder := b % 4
		ch := [4]byte{quotient + remainder, quotient, quotient, quotient}

		for check := true; check; {
			check = false
			for _, e := range checksumExclude {
				for j := 0; j < 4; j += 2 {
					if ch[j] == e || ch[j+1] == e {
						ch[j]++
						ch[j+1]--
						check = true
					}
				}
			}
		}

		for j := 0; j < 4; j++ {
			asc[4*j+i] = ch[j]
		}
	}

	// The value starts at byte 11 of its card, so rotate one place right to
	// line the characters up with the 32-bit words of the header.
	var out [16]byte
	for i := range out {
		out[i] = asc[(i+15)%16]
	}
	return string(out[:])
}

// VerifyChecksum reports whether the serialized HDU in hdu sums to -0, i.e.
// whether its CHECKSUM card matches its content.
func VerifyChecksum(hdu []byte) bool {
	return Checksum(hdu, 0) == 0xffffffff
}

// stampChecksum fills in the DATASUM and CHECKSUM placeholder cards of the
// serialized primary HDU in b.
func stampChecksum(b []byte) error {
	headerLen, err := headerSize(b)
	if err != nil {
		return err
	}

	datasum := Checksum(b[headerLen:], 0)
	if err := replaceCard(b[:headerLen], keyDatasum, strconv.FormatUint(uint64(datasum), 10), "data unit checksum"); err != nil {
		return err
	}
	if err := replaceCard(b[:headerLen], keyChecksum, zeroChecksum, "HDU checksum"); err != nil {
		return err
	}

	sum := Checksum(b[:headerLen], datasum)

	return replaceCard(b[:headerLen], keyChecksum, EncodeChecksum(sum, true), "HDU checksum")
}

// headerSize returns the length in bytes of the header blocks at the start
// of b, END card and padding included.
func headerSize(b []byte) (int, error) {
	end, err := endCard(b)
	if err != nil {
		return 0, err
	}
	n := end + cardLen
	if r := n % blockSize; r != 0 {
		n += blockSize - r
	}
	if n > len(b) {
		return 0, fmt.Errorf("fitsfile: truncated header")
	}
	return n, nil
}

// endCard returns the offset of the END card in b.
func endCard(b []byte) (int, error) {
	for i := 0; i+cardLen <= len(b); i += cardLen {
		if isKey(b[i:i+cardLen], "END") {
			return i, nil
		}
	}
	return 0, fmt.Errorf("fitsfile: no END card in header")
}

func replaceCard(header []byte, key, value, comment string) error {
	for i := 0; i+cardLen <= len(header); i += cardLen {
		card := header[i : i+cardLen]
		if !isKey(card, key) {
			continue
		}
		copy(card, formatStringCard(key, value, comment))
		return nil
	}
	return fmt.Errorf("fitsfile: card %s not found", key)
}

func isKey(card []byte, key string) bool {
	var padded [8]byte
	copy(padded[:], "        ")
	copy(padded[:], key)
	return bytes.Equal(card[:8], padded[:])
}

// formatStringCard formats a fixed-format string card. The opening quote is
// always in column 11 so the checksum value starts at byte 11.
func formatStringCard(key, value, comment string) []byte {
	card := bytes.Repeat([]byte{' '}, cardLen)
	s := fmt.Sprintf("%-8s= %-20s / %s", key, "'"+value+"'", comment)
	copy(card, s)
	return card
}
