// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/kcforge/kchash/cmd/kchash/cli"
	"github.com/kcforge/kchash/lib/version"
)

// Root builds and returns the complete kchash command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "kchash",
		Description: `kchash: reverse the asset name hashes of Frogger: The Great Quest.

The game stores hashes of asset names instead of the names. Given a hash
and a template with '*' for the unknown characters, kchash finds every
name that fits, ranked by how much it looks like a real asset name.`,
		Subcommands: []*cli.Command{
			replCommand(),
			searchCommand(),
			repeatCommand(),
			suffixCommand(),
			hashCommand(),
			pathCommand(),
			batchCommand(),
			tablesCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string) error {
					fmt.Fprintf(stdout, "kchash %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Start the interactive playground",
				Command:     "kchash repl",
			},
			{
				Description: "Recover two missing letters",
				Command:     `kchash search 4019FB66 'S00lIFrogL**og'`,
			},
			{
				Description: "Warm the table cache",
				Command:     "kchash tables",
			},
		},
	}
}
