// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package kchash

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// NibbleCount is the number of 4-bit groups in a [Hash].
const NibbleCount = 8

// Hash is a 32-bit asset name hash. Equality is bitwise.
type Hash uint32

// ErrMalformedHash is returned by [Parse] for text that is not a
// hexadecimal 32-bit value.
var ErrMalformedHash = errors.New("malformed hash literal")

// Sum computes the hash of data.
func Sum(data []byte) Hash {
	accumulator := uint32(len(data))
	for _, value := range data {
		accumulator = bits.RotateLeft32(accumulator, 4) ^ uint32(FoldCase(value))
	}
	return Hash(accumulator)
}

// SumString computes the hash of the bytes of text.
func SumString(text string) Hash {
	accumulator := uint32(len(text))
	for i := 0; i < len(text); i++ {
		accumulator = bits.RotateLeft32(accumulator, 4) ^ uint32(FoldCase(text[i]))
	}
	return Hash(accumulator)
}

// FoldCase maps an ASCII upper-case letter to its lower-case form and
// returns every other byte unchanged. This is the only transformation
// applied to input bytes before they are mixed.
func FoldCase(value byte) byte {
	if value >= 'A' && value <= 'Z' {
		return value + ('a' - 'A')
	}
	return value
}

// Nibble returns nibble index of the hash, where index 0 is the least
// significant four bits.
func (h Hash) Nibble(index int) uint8 {
	return uint8(uint32(h)>>(uint(index)*4)) & 0x0F
}

// String returns the hash as eight upper-case hexadecimal digits.
func (h Hash) String() string {
	return fmt.Sprintf("%08X", uint32(h))
}

// Parse parses a hexadecimal hash literal. One to eight digits are
// accepted in either case, with an optional 0x prefix.
func Parse(text string) (Hash, error) {
	digits := strings.TrimSpace(text)
	if len(digits) > 2 && (digits[:2] == "0x" || digits[:2] == "0X") {
		digits = digits[2:]
	}
	if digits == "" || len(digits) > 8 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedHash, text)
	}
	value, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedHash, text)
	}
	return Hash(value), nil
}

// MarshalText encodes the hash as [Hash.String] does, so hashes read
// the same in JSON and YAML as on the command line.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText accepts anything [Parse] does.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
