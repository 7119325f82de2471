// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package reverse

import "strings"

// Pair packs two adjacent characters: First is the character placed at
// a position, Second the character placed right after it. Together
// they produce one nibble of the hash. The packing (First in the high
// byte) makes numeric order equal to lexicographic (First, Second)
// order.
type Pair uint16

// MakePair packs first and second into a Pair.
func MakePair(first, second byte) Pair {
	return Pair(uint16(first)<<8 | uint16(second))
}

// First returns the character whose low nibble the pair contributes.
func (p Pair) First() byte { return byte(p >> 8) }

// Second returns the character whose high nibble the pair contributes.
func (p Pair) Second() byte { return byte(p) }

// Xor returns the 4-bit value the pair mixes into its nibble.
func (p Pair) Xor() uint8 {
	return LowNibble(p.First()) ^ HighNibble(p.Second())
}

// String renders the pair with NUL shown as \0.
func (p Pair) String() string {
	var builder strings.Builder
	for _, value := range []byte{p.First(), p.Second()} {
		if value == Null {
			builder.WriteString(`\0`)
		} else {
			builder.WriteByte(value)
		}
	}
	return builder.String()
}

// PairTable buckets every ordered pair of alphabet characters by the
// nibble value it produces.
type PairTable struct {
	buckets [16][]Pair
	size    int
}

// NewPairTable builds the table for alphabet. Each bucket is sorted in
// (First, Second) order.
func NewPairTable(alphabet *Alphabet) *PairTable {
	table := &PairTable{}
	// Characters are ascending, so appending in nested order already
	// leaves every bucket sorted.
	for _, first := range alphabet.characters {
		for _, second := range alphabet.characters {
			pair := MakePair(first, second)
			xor := pair.Xor()
			table.buckets[xor] = append(table.buckets[xor], pair)
			table.size++
		}
	}
	return table
}

// Bucket returns the sorted pairs producing xor. The slice is shared
// and must not be modified.
func (t *PairTable) Bucket(xor uint8) []Pair {
	return t.buckets[xor&0x0F]
}

// Len returns the total number of pairs across all buckets.
func (t *PairTable) Len() int {
	return t.size
}
