// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the shared CBOR configuration used for on-disk
// table caches.
//
// Encoding is deterministic, so hashing an encoded value is a stable
// fingerprint of its content:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Types persisted through this package carry `cbor` struct tags.
package codec
