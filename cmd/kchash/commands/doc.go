// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the kchash command tree.
//
// Every search command resolves configuration the same way (--config,
// then KCHASH_CONFIG, then built-in defaults), loads the search tables
// through the on-disk table cache unless it is disabled, and reports
// through a playground session so the CLI and the interactive
// playground print identical reports.
package commands
