// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

// Package compress implements the block compression used for on-disk
// search tables.
//
// A [Tag] names the algorithm and is stored next to the compressed
// bytes, together with the uncompressed size, so readers never have to
// guess. Two algorithms are available besides [None]:
//
//   - [LZ4]: block-mode LZ4. Very fast to decode, modest ratio.
//   - [Zstd]: zstd at the default level. Slower, but tree arenas are
//     highly repetitive and shrink several times over.
//
// [Encode] falls back to [None] when an algorithm cannot make the data
// smaller, and reports the tag it actually used.
package compress
