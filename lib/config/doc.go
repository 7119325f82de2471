// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for kchash.
//
// Configuration comes from a single file named by a --config flag or
// the KCHASH_CONFIG environment variable ([Resolve] applies that
// precedence). With neither, [Default] is used as is. There is no
// automatic file discovery.
//
// A file only needs the fields it changes:
//
//	search:
//	  workers: 8
//	cache:
//	  dir: ${HOME}/.cache/kchash-tables
//	  compression: lz4
//	log:
//	  level: debug
//
// ${VAR} and ${VAR:-default} are expanded in cache.dir. No other
// environment variables override config values.
//
// This package depends on no other kchash packages.
package config
