// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package kchash

import "strings"

// FileIDLength is the number of trailing path characters the archive
// keeps when it derives a file identifier from a full asset path.
const FileIDLength = 31

// FileID returns the identifier hashed for the asset at path. Forward
// slashes are normalised to backslashes, a leading drive designator
// ("C:") is dropped, and only the last [FileIDLength] characters are
// kept.
func FileID(path string) string {
	normalized := strings.ReplaceAll(path, "/", `\`)
	if len(normalized) >= 2 && normalized[1] == ':' && isASCIILetter(normalized[0]) {
		normalized = normalized[2:]
	}
	if len(normalized) > FileIDLength {
		normalized = normalized[len(normalized)-FileIDLength:]
	}
	return normalized
}

func isASCIILetter(value byte) bool {
	return (value >= 'a' && value <= 'z') || (value >= 'A' && value <= 'Z')
}
