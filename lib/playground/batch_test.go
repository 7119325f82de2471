// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package playground

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const sampleBatch = `{
  // Level 00 props.
  "jobs": [
    {"name": "log", "hash": "4019FB66", "template": "S00lIFrogL**og"},
    /* far too many unknowns for depth-2 tables */
    {"hash": "0x4019fb66", "template": "****************", "repeat": false},
    {"hash": "4019FB66", "template": "S00lIFrogLogog", "mode": "suffix",},
  ],
}`

func TestParseBatch(t *testing.T) {
	batch, err := ParseBatch([]byte(sampleBatch))
	if err != nil {
		t.Fatalf("ParseBatch: %v", err)
	}
	if len(batch.Jobs) != 3 {
		t.Fatalf("got %d jobs, want 3", len(batch.Jobs))
	}
	if batch.Jobs[0].Name != "log" || batch.Jobs[1].Hash != 0x4019FB66 {
		t.Errorf("jobs decoded wrongly: %+v", batch.Jobs)
	}
	command, err := batch.Jobs[1].Command()
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if !command.DisableRepeat || command.Kind != Search {
		t.Errorf("job 1 command = %+v", command)
	}
	command, _ = batch.Jobs[2].Command()
	if command.Kind != Suffix {
		t.Errorf("job 2 kind = %s, want suffix", command.Kind)
	}
}

func TestParseBatchErrors(t *testing.T) {
	for _, data := range []string{
		`{"jobs": [`,
		`{"jobs": [{"hash": "zz", "template": "a*"}]}`,
		`{"jobs": [{"hash": "1", "template": ""}]}`,
		`{"jobs": [{"hash": "1", "template": "a*", "mode": "fuzzy"}]}`,
	} {
		if _, err := ParseBatch([]byte(data)); !errors.Is(err, ErrParse) {
			t.Errorf("ParseBatch(%s) error = %v, want ErrParse", data, err)
		}
	}
}

func TestReadBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.jsonc")
	if err := os.WriteFile(path, []byte(sampleBatch), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	batch, err := ReadBatch(path)
	if err != nil {
		t.Fatalf("ReadBatch: %v", err)
	}
	if len(batch.Jobs) != 3 {
		t.Errorf("got %d jobs, want 3", len(batch.Jobs))
	}
	if _, err := ReadBatch(filepath.Join(t.TempDir(), "missing.jsonc")); err == nil {
		t.Error("ReadBatch of a missing file succeeded")
	}
}

func TestRunBatch(t *testing.T) {
	batch, err := ParseBatch([]byte(sampleBatch))
	if err != nil {
		t.Fatalf("ParseBatch: %v", err)
	}
	var output bytes.Buffer
	session := newSession(t, &output, 0)

	results, err := session.RunBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if want := []string{"S00lIFrogLogog", "S00lIFrogLnwog", "S00lIFrogLj7og"}; !slices.Equal(results[0].Result.Candidates, want) {
		t.Errorf("job 0 candidates = %q, want %q", results[0].Result.Candidates, want)
	}
	if results[1].Result != nil || !strings.Contains(results[1].Error, "unknown characters in nibble slot") {
		t.Errorf("job 1 = %+v, want an unsupported-template error", results[1])
	}
	if !slices.Equal(results[2].Result.Candidates, []string{"S00lIFrogLogog"}) {
		t.Errorf("job 2 candidates = %q", results[2].Result.Candidates)
	}

	session.ReportBatch(results)
	report := output.String()
	for _, want := range []string{"# log\n", "error: template", "1 result(s) in 5 ms for 0x4019FB66."} {
		if !strings.Contains(report, want) {
			t.Errorf("report does not contain %q:\n%s", want, report)
		}
	}
}

func TestRunBatchCanceled(t *testing.T) {
	batch, err := ParseBatch([]byte(sampleBatch))
	if err != nil {
		t.Fatalf("ParseBatch: %v", err)
	}
	var output bytes.Buffer
	session := newSession(t, &output, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := session.RunBatch(ctx, batch)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results before cancellation, want 0", len(results))
	}
}
