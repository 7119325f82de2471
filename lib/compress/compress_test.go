// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

// arenaLike resembles a serialized tree arena: fixed-size records with
// slowly increasing fields.
func arenaLike() []byte {
	data := make([]byte, 0, 64*1024)
	for i := 0; len(data) < 64*1024; i++ {
		data = append(data, byte(i%45), byte(i%7), byte(i), byte(i>>8), 0, 0, byte(i%127), 0, 0, 0)
	}
	return data
}

func TestTagString(t *testing.T) {
	tests := []struct {
		tag  Tag
		want string
	}{
		{None, "none"},
		{LZ4, "lz4"},
		{Zstd, "zstd"},
		{Tag(99), "unknown(99)"},
	}
	for _, tt := range tests {
		if got := tt.tag.String(); got != tt.want {
			t.Errorf("Tag(%d).String() = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestParseTag(t *testing.T) {
	for _, name := range []string{"none", "lz4", "zstd"} {
		tag, err := ParseTag(name)
		if err != nil {
			t.Fatalf("ParseTag(%q) failed: %v", name, err)
		}
		if tag.String() != name {
			t.Errorf("roundtrip: ParseTag(%q).String() = %q", name, tag.String())
		}
	}
	if tag, err := ParseTag(""); err != nil || tag != None {
		t.Errorf("ParseTag(\"\") = %v, %v; want none", tag, err)
	}
	if _, err := ParseTag("gzip"); err == nil {
		t.Error("ParseTag(\"gzip\") should fail")
	}
}

func TestRoundtrip(t *testing.T) {
	data := arenaLike()
	for _, tag := range []Tag{None, LZ4, Zstd} {
		t.Run(tag.String(), func(t *testing.T) {
			compressed, err := Compress(data, tag)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			if tag != None && len(compressed) >= len(data) {
				t.Errorf("%s did not compress: %d bytes -> %d bytes", tag, len(data), len(compressed))
			}
			decompressed, err := Decompress(compressed, tag, len(data))
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(decompressed, data) {
				t.Error("roundtrip mismatch")
			}
		})
	}
}

func TestDecompressSizeMismatch(t *testing.T) {
	data := arenaLike()
	for _, tag := range []Tag{None, LZ4, Zstd} {
		compressed, err := Compress(data, tag)
		if err != nil {
			t.Fatalf("Compress(%s): %v", tag, err)
		}
		if _, err := Decompress(compressed, tag, len(data)+5); err == nil {
			t.Errorf("Decompress(%s) accepted the wrong size", tag)
		}
	}
}

func TestDecompressNegativeSize(t *testing.T) {
	data := arenaLike()
	for _, tag := range []Tag{None, LZ4, Zstd} {
		compressed, err := Compress(data, tag)
		if err != nil {
			t.Fatalf("Compress(%s): %v", tag, err)
		}
		if _, err := Decompress(compressed, tag, -1); err == nil {
			t.Errorf("Decompress(%s) accepted a negative size", tag)
		}
	}
}

func TestEncodeFallsBackForRandomData(t *testing.T) {
	data := make([]byte, 64*1024)
	rand.Read(data)
	for _, tag := range []Tag{LZ4, Zstd} {
		if _, err := Compress(data, tag); !errors.Is(err, errIncompressible) {
			t.Errorf("Compress(%s) on random data: err = %v, want errIncompressible", tag, err)
		}
		encoded, used, err := Encode(data, tag)
		if err != nil {
			t.Fatalf("Encode(%s): %v", tag, err)
		}
		if used != None || !bytes.Equal(encoded, data) {
			t.Errorf("Encode(%s) on random data used %s, want none", tag, used)
		}
	}
}

func TestUnsupportedTag(t *testing.T) {
	if _, err := Compress([]byte("x"), Tag(9)); err == nil {
		t.Error("Compress accepted an unknown tag")
	}
	if _, err := Decompress([]byte("x"), Tag(9), 1); err == nil {
		t.Error("Decompress accepted an unknown tag")
	}
}
