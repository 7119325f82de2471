// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package reverse

import (
	"fmt"
	"slices"
	"strings"
)

// Null is the sentinel character. It mixes nothing into the hash, marks
// wildcard positions in the template hash, and in a [Pair] means "no
// character contributes here".
const Null byte = 0

// DefaultCharacters is the character set observed in shipped asset
// names. Characters outside it would work with the hash but are not
// known to be used, and admitting them multiplies the garbage results.
const DefaultCharacters = "\x00 -0123456789[\\]_abcdefghijklmnopqrstuvwxyz{}"

// Alphabet is an immutable, ordered set of characters the search may
// place at unknown positions.
type Alphabet struct {
	characters []byte
	members    [128]bool
}

// NewAlphabet validates characters and returns the alphabet they form.
// Every character must be 7-bit ASCII, appear once, and not be an
// upper-case letter (the hash folds those onto lower case). The set
// must contain [Null].
func NewAlphabet(characters string) (*Alphabet, error) {
	alphabet := &Alphabet{characters: make([]byte, 0, len(characters))}
	for i := 0; i < len(characters); i++ {
		value := characters[i]
		switch {
		case value > 0x7F:
			return nil, fmt.Errorf("%w: character %q (0x%02X) cannot be hashed", ErrInvalidAlphabet, value, value)
		case value >= 'A' && value <= 'Z':
			return nil, fmt.Errorf("%w: upper-case %q hashes as %q", ErrInvalidAlphabet, value, value+('a'-'A'))
		case value == '*':
			return nil, fmt.Errorf("%w: '*' is the wildcard marker", ErrInvalidAlphabet)
		case alphabet.members[value]:
			return nil, fmt.Errorf("%w: duplicate character %q", ErrInvalidAlphabet, value)
		}
		alphabet.members[value] = true
		alphabet.characters = append(alphabet.characters, value)
	}
	if !alphabet.members[Null] {
		return nil, fmt.Errorf("%w: the NUL sentinel must be included", ErrInvalidAlphabet)
	}
	slices.Sort(alphabet.characters)
	return alphabet, nil
}

// DefaultAlphabet returns the alphabet built from [DefaultCharacters].
func DefaultAlphabet() *Alphabet {
	alphabet, err := NewAlphabet(DefaultCharacters)
	if err != nil {
		panic("reverse: default alphabet is invalid: " + err.Error())
	}
	return alphabet
}

// Contains reports whether value is in the alphabet.
func (a *Alphabet) Contains(value byte) bool {
	return value < 0x80 && a.members[value]
}

// Len returns the number of characters, including [Null].
func (a *Alphabet) Len() int {
	return len(a.characters)
}

// Characters returns the characters in ascending byte order. The
// first is always [Null].
func (a *Alphabet) Characters() []byte {
	return slices.Clone(a.characters)
}

// String returns the characters as a string, suitable for passing back
// to [NewAlphabet].
func (a *Alphabet) String() string {
	return string(a.characters)
}

// Printable returns the alphabet with NUL rendered as \0, for logs.
func (a *Alphabet) Printable() string {
	return strings.ReplaceAll(string(a.characters), "\x00", `\0`)
}

// LowNibble is the part of a character mixed into its own nibble slot.
func LowNibble(value byte) uint8 {
	return value & 0x0F
}

// HighNibble is the part of a character mixed into the slot of the
// character before it.
func HighNibble(value byte) uint8 {
	return (value >> 4) & 0x0F
}
