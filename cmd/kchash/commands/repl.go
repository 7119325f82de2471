// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"

	"github.com/kcforge/kchash/cmd/kchash/cli"
	"github.com/spf13/pflag"
)

type replParams struct {
	globalParams
	Quiet bool `flag:"quiet,q" desc:"skip the welcome banner"`
	Trace bool `flag:"trace" desc:"log at debug level so '!' searches show their traces"`
}

func replCommand() *cli.Command {
	var params replParams
	return &cli.Command{
		Name:    "repl",
		Summary: "Start the interactive hash playground",
		Description: `Read playground commands from stdin, one per line, until end of input.

  $HASH,TEMPLATE     search TEMPLATE ('*' marks unknown characters)
  !HASH,TEMPLATE     the same, traced and verified
  $HASH,TEMPLATE!    a trailing '!' disables repeat mode
  @HASH,TEMPLATE     search at every wildcard run width
  \path\to\asset     print the file identifier and its hash
  anything else      print its hash`,
		Usage: "kchash repl [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("repl", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			env, err := loadEnvironment(&params.globalParams, params.Trace)
			if err != nil {
				return err
			}
			engine, err := env.engine(ctx)
			if err != nil {
				return err
			}
			session := env.session(engine)
			if !params.Quiet {
				session.WriteBanner()
			}
			return session.Run(ctx, stdin)
		},
	}
}
