// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package reverse

import (
	"errors"
	"testing"
)

func TestDefaultAlphabet(t *testing.T) {
	alphabet := DefaultAlphabet()
	if alphabet.Len() != 45 {
		t.Errorf("Len = %d, want 45", alphabet.Len())
	}
	characters := alphabet.Characters()
	if characters[0] != Null {
		t.Errorf("first character = %q, want NUL", characters[0])
	}
	for i := 1; i < len(characters); i++ {
		if characters[i] <= characters[i-1] {
			t.Fatalf("characters not ascending at %d: %q after %q", i, characters[i], characters[i-1])
		}
	}
	for _, value := range []byte("az09_-[]{}\\ ") {
		if !alphabet.Contains(value) {
			t.Errorf("Contains(%q) = false", value)
		}
	}
	for _, value := range []byte("A.*/\x80") {
		if alphabet.Contains(value) {
			t.Errorf("Contains(%q) = true", value)
		}
	}
	if alphabet.String() != DefaultCharacters {
		t.Errorf("String = %q, want %q", alphabet.String(), DefaultCharacters)
	}
	if got := alphabet.Printable()[:2]; got != `\0` {
		t.Errorf("Printable starts with %q, want \\0", got)
	}
}

func TestNewAlphabetSorts(t *testing.T) {
	alphabet, err := NewAlphabet("zb\x00a")
	if err != nil {
		t.Fatalf("NewAlphabet: %v", err)
	}
	if got := alphabet.String(); got != "\x00abz" {
		t.Errorf("String = %q, want %q", got, "\x00abz")
	}
}

func TestNewAlphabetRejects(t *testing.T) {
	tests := []struct {
		name       string
		characters string
	}{
		{"high bit", "\x00a\xe9"},
		{"upper case", "\x00aB"},
		{"wildcard", "\x00a*"},
		{"duplicate", "\x00aba"},
		{"missing null", "abc"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewAlphabet(test.characters)
			if !errors.Is(err, ErrInvalidAlphabet) {
				t.Errorf("NewAlphabet(%q) error = %v, want ErrInvalidAlphabet", test.characters, err)
			}
		})
	}
}

func TestNibbleHalves(t *testing.T) {
	if LowNibble('a') != 0x1 || HighNibble('a') != 0x6 {
		t.Errorf("nibbles of 'a' = %X/%X, want 1/6", LowNibble('a'), HighNibble('a'))
	}
	if LowNibble(Null) != 0 || HighNibble(Null) != 0 {
		t.Error("NUL must contribute nothing")
	}
}
