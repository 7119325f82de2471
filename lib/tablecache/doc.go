// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

// Package tablecache persists built search tables between runs.
//
// Building the depth-2 trees for the reference alphabet walks every
// pair of pairs and takes seconds; loading them back from disk takes a
// fraction of that. Each cache file holds one [reverse.Tables] for one
// (alphabet, depth) combination, addressed by a BLAKE3 keyed hash of
// the format version, the depth, and the alphabet.
//
// A file is a single CBOR envelope. The payload is the CBOR-encoded
// [reverse.Snapshot], compressed with the configured [compress.Tag],
// and the envelope records the uncompressed size and a BLAKE3 checksum
// of the uncompressed bytes. Files are written to a temporary name and
// renamed into place, so readers never observe a partial file.
//
// Any entry that cannot be used (unreadable, from another format
// version, failing its checksum, or structurally invalid) is logged,
// removed, and reported as [ErrCacheMiss]. [Cache.LoadOrBuild] turns a
// miss into a build followed by a store.
package tablecache
