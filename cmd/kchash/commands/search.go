// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/kcforge/kchash/cmd/kchash/cli"
	"github.com/kcforge/kchash/lib/kchash"
	"github.com/kcforge/kchash/lib/playground"
	"github.com/spf13/pflag"
)

type searchParams struct {
	globalParams
	cli.JSONOutput
	Debug     bool `flag:"debug" desc:"trace the search at debug level and re-hash every candidate"`
	NoRepeat  bool `flag:"no-repeat" desc:"never use repeat mode"`
	FailEmpty bool `flag:"fail-empty" desc:"exit with status 1 when nothing is found"`
}

func searchCommand() *cli.Command {
	return newSearchCommand(playground.Search, &cli.Command{
		Name:    "search",
		Summary: "Find the names matching a template that hash to a value",
		Description: `Fill in every '*' of TEMPLATE with the characters of the alphabet and
print each result that hashes to HASH, least plausible first.

Templates with exactly two equal runs of wildcards (a name repeated in a
path, as in S17ePT***Flag\T***Flagx) are searched in repeat mode, which
only keeps results whose runs agree. --no-repeat searches them in full.

A TEMPLATE without any wildcard runs as a suffix search.`,
		Usage: "kchash search [flags] HASH TEMPLATE",
		Examples: []cli.Example{
			{
				Description: "Recover two missing letters of a level prop",
				Command:     `kchash search 4019FB66 'S00lIFrogL**og'`,
			},
		},
	})
}

func repeatCommand() *cli.Command {
	return newSearchCommand(playground.Repeat, &cli.Command{
		Name:    "repeat",
		Summary: "Search a template at every wildcard run width",
		Description: `Resize every run of wildcards in TEMPLATE to one character, then two,
and so on, search each, and print the union.

With more than one run the widths stop at seven and repeat mode is used;
with a single run they go up to eight.`,
		Usage: "kchash repeat [flags] HASH TEMPLATE",
		Examples: []cli.Example{
			{
				Description: "Find a flag name repeated in its own path",
				Command:     `kchash repeat 846BF293 'S17ePT*Flag\T*Flagx'`,
			},
		},
	})
}

func suffixCommand() *cli.Command {
	return newSearchCommand(playground.Suffix, &cli.Command{
		Name:    "suffix",
		Summary: "Find names that start with a prefix",
		Description: `Print PREFIX itself if it hashes to HASH; otherwise append one to eight
wildcards in turn and print the union of the results.`,
		Usage: "kchash suffix [flags] HASH PREFIX",
		Examples: []cli.Example{
			{
				Description: "Complete a known level prefix",
				Command:     "kchash suffix 4019FB66 S00lIFrogL",
			},
		},
	})
}

// newSearchCommand fills in the flags and Run shared by the search
// commands.
func newSearchCommand(kind playground.Kind, command *cli.Command) *cli.Command {
	var params searchParams
	command.Flags = func() *pflag.FlagSet {
		return cli.FlagsFromParams(command.Name, &params)
	}
	command.Run = func(ctx context.Context, args []string) error {
		if len(args) != 2 {
			return fmt.Errorf("expected HASH and TEMPLATE, got %d arguments", len(args))
		}
		target, err := kchash.Parse(args[0])
		if err != nil {
			return err
		}
		env, err := loadEnvironment(&params.globalParams, params.Debug)
		if err != nil {
			return err
		}
		engine, err := env.engine(ctx)
		if err != nil {
			return err
		}

		session := env.session(engine)
		request := playground.Command{
			Kind:          kind,
			Text:          args[1],
			Target:        target,
			Debug:         params.Debug,
			DisableRepeat: params.NoRepeat,
		}
		var result *playground.Result
		if params.OutputJSON {
			result, err = session.Execute(ctx, request)
			if err == nil {
				_, err = params.EmitJSON(stdout, result)
			}
		} else {
			result, err = session.Handle(ctx, request)
		}
		if err != nil {
			return err
		}
		if params.FailEmpty && len(result.Candidates) == 0 {
			return &cli.ExitError{Code: 1}
		}
		return nil
	}
	return command
}
