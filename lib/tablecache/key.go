// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package tablecache

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// FormatVersion is bumped whenever the envelope or snapshot layout
// changes. It is part of every key, so old files simply stop matching.
const FormatVersion = 1

// Digest is a 32-byte BLAKE3 digest.
type Digest [32]byte

// String returns the digest as lower-case hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// domainKey is a 32-byte key for BLAKE3 keyed hashing. The bytes are
// the ASCII domain name, zero-padded, so they read well in hex dumps.
type domainKey [32]byte

var (
	entryDomainKey = domainKey{
		'k', 'c', 'h', 'a', 's', 'h', '.', 't', 'a', 'b', 'l', 'e', 'c', 'a', 'c', 'h',
		'e', '.', 'e', 'n', 't', 'r', 'y', 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	payloadDomainKey = domainKey{
		'k', 'c', 'h', 'a', 's', 'h', '.', 't', 'a', 'b', 'l', 'e', 'c', 'a', 'c', 'h',
		'e', '.', 'p', 'a', 'y', 'l', 'o', 'a', 'd', 0, 0, 0, 0, 0, 0, 0,
	}
)

// Key returns the cache key for tables of depth built over alphabet.
func Key(alphabet string, depth int) Digest {
	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:4], FormatVersion)
	binary.LittleEndian.PutUint32(header[4:8], uint32(depth))
	return keyedHash(entryDomainKey, header[:], []byte(alphabet))
}

// checksum returns the payload-domain digest of data.
func checksum(data []byte) Digest {
	return keyedHash(payloadDomainKey, data)
}

func keyedHash(key domainKey, parts ...[]byte) Digest {
	// NewKeyed only fails for a key of the wrong length, which
	// domainKey rules out.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("tablecache: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	for _, part := range parts {
		hasher.Write(part)
	}
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}
