// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package playground

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/kcforge/kchash/lib/clock"
	"github.com/kcforge/kchash/lib/kchash"
	"github.com/kcforge/kchash/lib/reverse"
)

// SessionOptions configures a [Session].
type SessionOptions struct {
	// Engine runs the searches. A session without one can still hash
	// literals and paths.
	Engine *reverse.Engine

	// Output receives reports. Required.
	Output io.Writer

	// Styles colours the reports. The zero value prints plain text.
	Styles Styles

	// Clock times searches. Nil means the real clock.
	Clock clock.Clock

	// DisableRepeat turns repeat mode off for every search, as if
	// each line ended in '!'.
	DisableRepeat bool

	// MaxWidth caps the wildcard widths tried by repeat and suffix
	// searches. Zero means the full range.
	MaxWidth int
}

// Session executes commands and writes their reports.
type Session struct {
	engine        *reverse.Engine
	output        io.Writer
	styles        Styles
	clock         clock.Clock
	disableRepeat bool
	maxWidth      int
}

// NewSession returns a session. It panics without an output.
func NewSession(options SessionOptions) *Session {
	if options.Output == nil {
		panic("playground: NewSession requires an output")
	}
	now := options.Clock
	if now == nil {
		now = clock.Real()
	}
	return &Session{
		engine:        options.Engine,
		output:        options.Output,
		styles:        options.Styles,
		clock:         now,
		disableRepeat: options.DisableRepeat,
		maxWidth:      options.MaxWidth,
	}
}

// Result is the outcome of one command.
type Result struct {
	Kind Kind `json:"kind"`

	// Text is the input literal, path, or template.
	Text string `json:"text"`

	// FileID is the identifier derived from a path.
	FileID string `json:"file_id,omitempty"`

	// Hash is the hash of a literal or file identifier.
	Hash kchash.Hash `json:"hash,omitempty"`

	// Target is the hash a search reversed.
	Target kchash.Hash `json:"target,omitempty"`

	// Candidates are most plausible first.
	Candidates []string `json:"candidates,omitempty"`

	Elapsed time.Duration `json:"elapsed_ns,omitempty"`
}

// Execute runs command without printing anything. A search template
// with no wildcard runs as a suffix search.
func (s *Session) Execute(ctx context.Context, command Command) (*Result, error) {
	result := &Result{Kind: command.Kind, Text: command.Text, Target: command.Target}
	switch command.Kind {
	case Literal:
		result.Hash = kchash.SumString(command.Text)
		return result, nil
	case Path:
		result.FileID = kchash.FileID(command.Text)
		result.Hash = kchash.SumString(result.FileID)
		return result, nil
	}

	if s.engine == nil {
		return nil, errors.New("no search engine configured")
	}
	options := reverse.SearchOptions{
		DisableRepeat: command.DisableRepeat || s.disableRepeat,
		Debug:         command.Debug,
		MaxWidth:      s.maxWidth,
	}
	kind := command.Kind
	if kind == Search && !strings.ContainsRune(command.Text, reverse.Wildcard) {
		kind = Suffix
	}

	start := s.clock.Now()
	var candidates []string
	var err error
	switch kind {
	case Search:
		candidates, err = s.engine.Reverse(ctx, command.Text, command.Target, options)
	case Repeat:
		candidates, err = s.engine.RepeatSearch(ctx, command.Text, command.Target, options)
	case Suffix:
		candidates, err = s.engine.SuffixSearch(ctx, command.Text, command.Target, options)
	default:
		return nil, fmt.Errorf("unknown command kind %s", command.Kind)
	}
	result.Elapsed = clock.Since(s.clock, start)
	if err != nil {
		return nil, err
	}
	result.Candidates = candidates
	return result, nil
}

// Handle executes command and writes its report.
func (s *Session) Handle(ctx context.Context, command Command) (*Result, error) {
	if command.Kind != Literal && command.Kind != Path {
		s.printf("Brute-forcing '%s' to find strings that hash to '%s'.\n",
			command.Text, s.styles.render(s.styles.Hash, hexHash(command.Target)))
	}
	result, err := s.Execute(ctx, command)
	if err != nil {
		return nil, err
	}
	s.Report(result)
	return result, nil
}

// Report writes the report for result.
func (s *Session) Report(result *Result) {
	switch result.Kind {
	case Literal:
		s.printf("Hash: %s\n", s.styles.render(s.styles.Hash, hexHash(result.Hash)))
	case Path:
		s.printf("Full File Path: '%s'\n", result.Text)
		s.printf("Hash File Path: '%s'\n", result.FileID)
		s.printf("Hash: %s\n", s.styles.render(s.styles.Hash, hexHash(result.Hash)))
	default:
		s.printf("%s\n", s.styles.render(s.styles.Heading, "Results:"))
		for index, candidate := range slices.Backward(result.Candidates) {
			style := s.styles.Candidate
			if index == 0 {
				style = s.styles.Best
			}
			s.printf(" - %s\n", s.styles.render(style, candidate))
		}
		s.printf("%s\n", s.styles.render(s.styles.Summary, fmt.Sprintf("%d result(s) in %d ms for %s.",
			len(result.Candidates), result.Elapsed.Milliseconds(), hexHash(result.Target))))
	}
}

// WriteBanner prints the usage summary shown when the playground
// starts.
func (s *Session) WriteBanner() {
	s.printf("%s\n", s.styles.render(s.styles.Heading, "Frogger: The Great Quest hash playground."))
	s.printf("By default, what you type in is hashed and you are shown the hash of the text.\n")
	s.printf("'$<hash>,<template>' finds every string matching the hash by filling in the '*' characters of the template.\n")
	s.printf("'@<hash>,<template>' searches the template again and again with growing runs of '*'.\n")
	s.printf("'!' in place of '$' traces the search. A '!' at the end forces non-repeat mode.\n")
	s.printf("Lines starting with '\\' are asset paths; their file identifier is hashed.\n")
}

// Run reads commands from input until it is exhausted or ctx is done.
// Errors from individual commands are reported and do not stop the
// loop.
func (s *Session) Run(ctx context.Context, input io.Reader) error {
	scanner := bufio.NewScanner(input)
	for {
		s.printf("%s", s.styles.render(s.styles.Prompt, "> "))
		if !scanner.Scan() {
			s.printf("\n")
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSuffix(scanner.Text(), "\r")

		command, err := ParseLine(line)
		if err == nil {
			_, err = s.Handle(ctx, command)
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.printf("%s\n", s.styles.render(s.styles.Error, "error: "+err.Error()))
		}
	}
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.output, format, args...)
}

// hexHash formats a hash the way the game tools print them.
func hexHash(hash kchash.Hash) string {
	return "0x" + hash.String()
}
