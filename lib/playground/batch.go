// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package playground

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/kcforge/kchash/lib/kchash"
)

// Batch is the content of a batch file. Batch files are JSON extended
// with // line comments, /* block comments */, and trailing commas:
//
//	{
//	  "jobs": [
//	    // the log in level 00
//	    {"hash": "4019FB66", "template": "S00lIFrogL**og"},
//	    {"hash": "846BF293", "template": "S17ePT*Flag\\T*Flagx", "mode": "repeat"},
//	  ],
//	}
type Batch struct {
	Jobs []Job `json:"jobs"`
}

// Job is one search in a batch.
type Job struct {
	// Name labels the job in output. Optional.
	Name string `json:"name,omitempty"`

	Hash     kchash.Hash `json:"hash"`
	Template string      `json:"template"`

	// Mode is "search" (the default), "repeat", or "suffix".
	Mode string `json:"mode,omitempty"`

	// Repeat set to false disables repeat mode.
	Repeat *bool `json:"repeat,omitempty"`

	Debug bool `json:"debug,omitempty"`
}

// Command converts the job into the equivalent playground command.
func (j Job) Command() (Command, error) {
	command := Command{
		Text:          j.Template,
		Target:        j.Hash,
		Debug:         j.Debug,
		DisableRepeat: j.Repeat != nil && !*j.Repeat,
	}
	switch j.Mode {
	case "", "search":
		command.Kind = Search
	case "repeat":
		command.Kind = Repeat
	case "suffix":
		command.Kind = Suffix
	default:
		return Command{}, fmt.Errorf("%w: unknown mode %q (want search, repeat, or suffix)", ErrParse, j.Mode)
	}
	if j.Template == "" {
		return Command{}, fmt.Errorf("%w: template is required", ErrParse)
	}
	return command, nil
}

// ParseBatch strips JSONC comments and trailing commas from data and
// decodes the jobs. Every job is validated before any is returned.
func ParseBatch(data []byte) (*Batch, error) {
	var batch Batch
	if err := json.Unmarshal(jsonc.ToJSON(data), &batch); err != nil {
		return nil, fmt.Errorf("%w: parsing batch: %w", ErrParse, err)
	}
	var errs []error
	for index, job := range batch.Jobs {
		if _, err := job.Command(); err != nil {
			errs = append(errs, fmt.Errorf("job %d: %w", index, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &batch, nil
}

// ReadBatch reads and parses a batch file.
func ReadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}
	batch, err := ParseBatch(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return batch, nil
}

// BatchResult is the outcome of one job. A job that fails records its
// error and the batch moves on.
type BatchResult struct {
	Job    Job     `json:"job"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// RunBatch executes every job in order. Only cancellation of ctx stops
// the batch early; it returns the results gathered so far with the
// context's error.
func (s *Session) RunBatch(ctx context.Context, batch *Batch) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(batch.Jobs))
	for _, job := range batch.Jobs {
		entry := BatchResult{Job: job}
		command, err := job.Command()
		if err == nil {
			entry.Result, err = s.Execute(ctx, command)
		}
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			entry.Error = err.Error()
		}
		results = append(results, entry)
	}
	return results, nil
}

// ReportBatch writes the playground report of every result.
func (s *Session) ReportBatch(results []BatchResult) {
	for _, entry := range results {
		if entry.Job.Name != "" {
			s.printf("%s\n", s.styles.render(s.styles.Heading, "# "+entry.Job.Name))
		}
		s.printf("Brute-forcing '%s' to find strings that hash to '%s'.\n",
			entry.Job.Template, s.styles.render(s.styles.Hash, hexHash(entry.Job.Hash)))
		if entry.Error != "" {
			s.printf("%s\n", s.styles.render(s.styles.Error, "error: "+entry.Error))
			continue
		}
		s.Report(entry.Result)
	}
}
