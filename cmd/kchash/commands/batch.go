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

type batchParams struct {
	globalParams
	cli.JSONOutput
	FailEmpty bool `flag:"fail-empty" desc:"exit with status 1 when any job finds nothing"`
}

func batchCommand() *cli.Command {
	var params batchParams
	return &cli.Command{
		Name:    "batch",
		Summary: "Run the searches listed in a JSONC file",
		Description: `Run every job of a batch file in order and report each. Batch files are
JSON with comments and trailing commas:

  {
    "jobs": [
      // name is optional; mode is search (default), repeat, or suffix
      {"name": "log", "hash": "4019FB66", "template": "S00lIFrogL**og"},
      {"hash": "846BF293", "template": "S17ePT*Flag\\T*Flagx", "mode": "repeat"},
    ],
  }

A job that fails is reported and the batch continues; the exit status
is 1 if any job failed.`,
		Usage: "kchash batch [flags] FILE",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("batch", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected one batch file, got %d arguments", len(args))
			}
			batch, err := playground.ReadBatch(args[0])
			if err != nil {
				return err
			}
			env, err := loadEnvironment(&params.globalParams, false)
			if err != nil {
				return err
			}
			engine, err := env.engine(ctx)
			if err != nil {
				return err
			}

			session := env.session(engine)
			results, err := session.RunBatch(ctx, batch)
			if err != nil {
				return err
			}
			done, err := params.EmitJSON(stdout, results)
			if err != nil {
				return err
			}
			if !done {
				session.ReportBatch(results)
			}

			for _, entry := range results {
				if entry.Error != "" || (params.FailEmpty && len(entry.Result.Candidates) == 0) {
					return &cli.ExitError{Code: 1}
				}
			}
			return nil
		},
	}
}
