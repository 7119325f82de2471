// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/kcforge/kchash/cmd/kchash/cli"
	"github.com/kcforge/kchash/lib/playground"
	"github.com/spf13/pflag"
)

type hashParams struct {
	cli.JSONOutput
}

func hashCommand() *cli.Command {
	return newHashCommand(playground.Literal, &cli.Command{
		Name:    "hash",
		Summary: "Print the hash of names",
		Usage:   "kchash hash [flags] NAME...",
		Examples: []cli.Example{
			{Command: "kchash hash S00lIFrogLogog"},
		},
	})
}

func pathCommand() *cli.Command {
	return newHashCommand(playground.Path, &cli.Command{
		Name:    "path",
		Summary: "Print the file identifier of asset paths and its hash",
		Description: `Derive the identifier the game archives store for each asset PATH
(backslash separators, no drive letter, last 31 characters) and print
it with its hash.`,
		Usage: "kchash path [flags] PATH...",
		Examples: []cli.Example{
			{Command: `kchash path 'C:\GameData\Level00\Models\S00lIFrogLogog.vtx'`},
		},
	})
}

func newHashCommand(kind playground.Kind, command *cli.Command) *cli.Command {
	var params hashParams
	command.Flags = func() *pflag.FlagSet {
		return cli.FlagsFromParams(command.Name, &params)
	}
	command.Run = func(ctx context.Context, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("expected at least one argument")
		}
		session := playground.NewSession(playground.SessionOptions{
			Output: stdout,
			Styles: playground.StylesFor(stdout),
		})
		results := make([]*playground.Result, 0, len(args))
		for _, arg := range args {
			result, err := session.Execute(ctx, playground.Command{Kind: kind, Text: arg})
			if err != nil {
				return err
			}
			results = append(results, result)
		}
		if done, err := params.EmitJSON(stdout, results); done {
			return err
		}
		for _, result := range results {
			session.Report(result)
		}
		return nil
	}
	return command
}
