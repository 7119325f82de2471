// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/kcforge/kchash/cmd/kchash/cli"
	"github.com/kcforge/kchash/lib/compress"
	"github.com/kcforge/kchash/lib/config"
	"github.com/kcforge/kchash/lib/playground"
	"github.com/kcforge/kchash/lib/reverse"
	"github.com/kcforge/kchash/lib/tablecache"
)

// Replaced by tests.
var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

// globalParams are the flags every table-loading command accepts.
// Negative numbers mean "use the configured value".
type globalParams struct {
	Config   string `flag:"config" desc:"configuration file (default: $KCHASH_CONFIG, then built-in defaults)"`
	Workers  int    `flag:"workers" default:"-1" desc:"goroutines per search, 0 for one per CPU (default: from config)"`
	MaxWidth int    `flag:"max-width" default:"-1" desc:"widest wildcard run tried by repeat and suffix searches (default: from config)"`
	NoCache  bool   `flag:"no-cache" desc:"build tables in memory, bypassing the on-disk cache"`
}

// environment is the resolved configuration plus the logger built
// from it.
type environment struct {
	config *config.Config
	logger *slog.Logger
}

// loadEnvironment resolves configuration and applies flag overrides.
// debug lowers the log level so search traces are visible.
func loadEnvironment(params *globalParams, debug bool) (*environment, error) {
	cfg, err := config.Resolve(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Workers >= 0 {
		cfg.Search.Workers = params.Workers
	}
	if params.MaxWidth >= 0 {
		cfg.Search.MaxWidth = params.MaxWidth
	}
	if params.NoCache {
		cfg.Cache.Enabled = false
	}
	if debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := cli.NewCommandLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return &environment{config: cfg, logger: logger}, nil
}

func (e *environment) alphabet() (*reverse.Alphabet, error) {
	return reverse.NewAlphabet(e.config.AlphabetCharacters())
}

func (e *environment) depth() int {
	return e.config.Search.MaxUnknownsPerNibble
}

// cache opens the configured table cache. Callers check
// config.Cache.Enabled first.
func (e *environment) cache() (*tablecache.Cache, error) {
	tag, err := compress.ParseTag(e.config.Cache.Compression)
	if err != nil {
		return nil, err
	}
	if err := e.config.EnsureCacheDir(); err != nil {
		return nil, err
	}
	return tablecache.New(tablecache.Options{
		Dir:         e.config.Cache.Dir,
		Compression: tag,
		Logger:      e.logger,
	})
}

// tables loads or builds the search tables for the configured alphabet
// and depth.
func (e *environment) tables(ctx context.Context) (*reverse.Tables, error) {
	alphabet, err := e.alphabet()
	if err != nil {
		return nil, err
	}
	if e.config.Cache.Enabled {
		cache, err := e.cache()
		if err != nil {
			return nil, err
		}
		tables, _, err := cache.LoadOrBuild(ctx, alphabet, e.depth())
		return tables, err
	}
	if alphabet.String() == reverse.DefaultCharacters && e.depth() == reverse.DefaultMaxUnknownsPerNibble {
		return reverse.DefaultTables()
	}
	return reverse.BuildTables(ctx, alphabet, e.depth())
}

func (e *environment) engine(ctx context.Context) (*reverse.Engine, error) {
	tables, err := e.tables(ctx)
	if err != nil {
		return nil, err
	}
	workers := e.config.Search.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return reverse.NewEngine(tables, reverse.EngineOptions{Logger: e.logger, Workers: workers}), nil
}

// session returns a playground session over engine writing to stdout.
func (e *environment) session(engine *reverse.Engine) *playground.Session {
	return playground.NewSession(playground.SessionOptions{
		Engine:        engine,
		Output:        stdout,
		Styles:        playground.StylesFor(stdout),
		DisableRepeat: !e.config.Search.AllowRepeat,
		MaxWidth:      e.config.Search.MaxWidth,
	})
}
