// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

// Package playground is the interactive front end to the reversal
// engine: a one-line command grammar, a session that executes
// commands and prints reports, and JSONC batch files that run many
// searches unattended.
//
// The grammar, one command per line:
//
//	$HASH,TEMPLATE     search TEMPLATE for names hashing to HASH
//	!HASH,TEMPLATE     the same, with debug tracing and verification
//	$HASH,TEMPLATE!    a trailing '!' disables repeat mode
//	@HASH,TEMPLATE     repeat-search: grow every wildcard run in turn
//	\path\to\asset     print the file identifier of a path and its hash
//	anything else      print the hash of the line itself
//
// HASH is hexadecimal, TEMPLATE uses '*' for each unknown character.
// A search template with no wildcard becomes a suffix search, which
// tries the template itself and then one to eight appended wildcards.
//
// Reports list candidates least plausible first, so the best guess
// sits just above the summary line when a long list scrolls by.
package playground
