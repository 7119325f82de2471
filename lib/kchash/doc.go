// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

// Package kchash implements the 32-bit name hash used to address assets
// in kcGameSystem archives.
//
// The hash starts from the byte length of the input. For every byte the
// accumulator is rotated left by four bits and the byte is XORed into
// its low eight bits. ASCII upper-case letters are folded to lower case
// before mixing, so the hash is case-insensitive for identifiers.
//
// Because each byte lands in exactly two adjacent nibbles of the
// result, the hash decomposes into eight independent 4-bit constraints.
// Package reverse exploits this to enumerate strings producing a given
// hash.
//
// The API surface:
//
//   - [Sum] and [SumString] -- the forward hash
//   - [Hash.String] and [Parse] -- the canonical 8-digit hex form used
//     by the command grammar and all report output
//   - [FileID] -- the identifier derived from a raw asset path, which is
//     what the archive actually hashes
//
// This package has no dependencies on other kchash packages.
package kchash
