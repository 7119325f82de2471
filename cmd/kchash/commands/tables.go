// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/kcforge/kchash/cmd/kchash/cli"
	"github.com/kcforge/kchash/lib/clock"
	"github.com/kcforge/kchash/lib/reverse"
	"github.com/kcforge/kchash/lib/tablecache"
	"github.com/spf13/pflag"
)

type tablesParams struct {
	globalParams
	cli.JSONOutput
	Rebuild bool `flag:"rebuild" desc:"discard the cached tables and build them again"`
}

// tablesReport describes the tables a search would use.
type tablesReport struct {
	Alphabet    string        `json:"alphabet"`
	Characters  int           `json:"characters"`
	Depth       int           `json:"depth"`
	Pairs       int           `json:"pairs"`
	Nodes       int           `json:"nodes"`
	CacheHit    bool          `json:"cache_hit"`
	Elapsed     time.Duration `json:"elapsed_ns"`
	CachePath   string        `json:"cache_path,omitempty"`
	Compression string        `json:"compression,omitempty"`
	StoredBytes int64         `json:"stored_bytes,omitempty"`
	WrittenBy   string        `json:"written_by,omitempty"`
}

func tablesCommand() *cli.Command {
	var params tablesParams
	return &cli.Command{
		Name:    "tables",
		Summary: "Build or load the search tables and describe them",
		Description: `Load the search tables for the configured alphabet and depth, building
and caching them when needed, and print their size. Run it once after
changing the alphabet so later searches start immediately.`,
		Usage: "kchash tables [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("tables", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("unexpected arguments %q", args)
			}
			env, err := loadEnvironment(&params.globalParams, false)
			if err != nil {
				return err
			}
			report, err := describeTables(ctx, env, params.Rebuild, clock.Real())
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(stdout, report); done {
				return err
			}
			printTablesReport(report)
			return nil
		},
	}
}

func describeTables(ctx context.Context, env *environment, rebuild bool, now clock.Clock) (*tablesReport, error) {
	alphabet, err := env.alphabet()
	if err != nil {
		return nil, err
	}
	start := now.Now()

	report := &tablesReport{
		Alphabet:   alphabet.Printable(),
		Characters: alphabet.Len(),
		Depth:      env.depth(),
	}
	var tables *reverse.Tables
	if env.config.Cache.Enabled {
		cache, err := env.cache()
		if err != nil {
			return nil, err
		}
		if rebuild {
			if err := cache.Remove(alphabet, env.depth()); err != nil {
				return nil, err
			}
		}
		tables, report.CacheHit, err = cache.LoadOrBuild(ctx, alphabet, env.depth())
		if err != nil {
			return nil, err
		}
		info, err := cache.Stat(alphabet, env.depth())
		switch {
		case err == nil:
			report.CachePath = info.Path
			report.Compression = info.Compression.String()
			report.StoredBytes = info.StoredSize
			report.WrittenBy = info.WrittenBy
		case !errors.Is(err, tablecache.ErrCacheMiss):
			return nil, err
		}
	} else {
		tables, err = reverse.BuildTables(ctx, alphabet, env.depth())
		if err != nil {
			return nil, err
		}
	}

	report.Elapsed = clock.Since(now, start)
	report.Pairs = tables.Pairs().Len()
	report.Nodes = tables.NodeCount()
	return report, nil
}

func printTablesReport(report *tablesReport) {
	writer := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(writer, "Alphabet:\t%q (%d characters)\n", report.Alphabet, report.Characters)
	fmt.Fprintf(writer, "Depth:\t%d\n", report.Depth)
	fmt.Fprintf(writer, "Pairs:\t%d\n", report.Pairs)
	fmt.Fprintf(writer, "Nodes:\t%d\n", report.Nodes)
	if report.CachePath == "" {
		fmt.Fprintf(writer, "Cache:\tnone\n")
	} else {
		source := "built"
		if report.CacheHit {
			source = "loaded"
		}
		fmt.Fprintf(writer, "Cache:\t%s\n", report.CachePath)
		fmt.Fprintf(writer, "Stored:\t%d bytes, %s, written by %s\n", report.StoredBytes, report.Compression, report.WrittenBy)
		fmt.Fprintf(writer, "Source:\t%s in %s\n", source, report.Elapsed.Round(time.Millisecond))
	}
	writer.Flush()
}
