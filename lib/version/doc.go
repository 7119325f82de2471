// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the kchash
// binary.
//
// Four package-level variables are injected at build time via
// -ldflags -X, for example:
//
//	go build -ldflags "-X github.com/kcforge/kchash/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// When GitCommit is not injected, the vcs.* settings the toolchain
// stamps into module builds are used instead. [Info] formats the result
// for --version and [Full] adds the Go toolchain and platform. [Writer]
// is recorded in every table cache entry so a stale cache can be traced
// to the build that wrote it.
package version
