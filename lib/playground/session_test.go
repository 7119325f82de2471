// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package playground

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/kcforge/kchash/lib/clock"
	"github.com/kcforge/kchash/lib/kchash"
	"github.com/kcforge/kchash/lib/reverse"
)

// newSession returns a session over the shared default tables whose
// clock advances 5ms per read, so every search reports 5 ms.
func newSession(t *testing.T, output *bytes.Buffer, maxWidth int) *Session {
	t.Helper()
	tables, err := reverse.DefaultTables()
	if err != nil {
		t.Fatalf("DefaultTables: %v", err)
	}
	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	fake.SetStep(5 * time.Millisecond)
	return NewSession(SessionOptions{
		Engine:   reverse.NewEngine(tables, reverse.EngineOptions{Workers: 1}),
		Output:   output,
		Clock:    fake,
		MaxWidth: maxWidth,
	})
}

func TestHandleSearchReport(t *testing.T) {
	var output bytes.Buffer
	session := newSession(t, &output, 0)
	command, err := ParseLine("$4019FB66,S00lIFrogL**og")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if _, err := session.Handle(context.Background(), command); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	want := "Brute-forcing 'S00lIFrogL**og' to find strings that hash to '0x4019FB66'.\n" +
		"Results:\n" +
		" - S00lIFrogLj7og\n" +
		" - S00lIFrogLnwog\n" +
		" - S00lIFrogLogog\n" +
		"3 result(s) in 5 ms for 0x4019FB66.\n"
	if output.String() != want {
		t.Errorf("report =\n%s\nwant\n%s", output.String(), want)
	}
}

func TestHandleLiteralAndPath(t *testing.T) {
	var output bytes.Buffer
	session := newSession(t, &output, 0)

	if _, err := session.Handle(context.Background(), Command{Kind: Literal, Text: "S00lIFrogLogog"}); err != nil {
		t.Fatalf("Handle literal: %v", err)
	}
	if output.String() != "Hash: 0x4019FB66\n" {
		t.Errorf("literal report = %q", output.String())
	}

	output.Reset()
	path := `C:\GameData\Level00\Models\S00lIFrogLogog.vtx`
	if _, err := session.Handle(context.Background(), Command{Kind: Path, Text: path}); err != nil {
		t.Fatalf("Handle path: %v", err)
	}
	fileID := kchash.FileID(path)
	want := "Full File Path: '" + path + "'\n" +
		"Hash File Path: '" + fileID + "'\n" +
		"Hash: 0x" + kchash.SumString(fileID).String() + "\n"
	if output.String() != want {
		t.Errorf("path report =\n%s\nwant\n%s", output.String(), want)
	}
}

func TestSearchWithoutWildcardRunsSuffixSearch(t *testing.T) {
	var output bytes.Buffer
	session := newSession(t, &output, 2)

	result, err := session.Execute(context.Background(), Command{Kind: Search, Text: "S00lIFrogLogog", Target: 0x4019FB66})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !slices.Equal(result.Candidates, []string{"S00lIFrogLogog"}) {
		t.Errorf("matching prefix: candidates = %q", result.Candidates)
	}

	result, err = session.Execute(context.Background(), Command{Kind: Search, Text: "S00lIFrogLog", Target: 0x4019FB66})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !slices.Contains(result.Candidates, "S00lIFrogLogog") {
		t.Errorf("suffix candidates %q do not include S00lIFrogLogog", result.Candidates)
	}
	if result.Elapsed != 5*time.Millisecond {
		t.Errorf("Elapsed = %v, want 5ms", result.Elapsed)
	}
}

func TestExecuteRepeat(t *testing.T) {
	var output bytes.Buffer
	session := newSession(t, &output, 3)
	command, err := ParseLine(`@846BF293,S17ePT*Flag\T*Flagx`)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	result, err := session.Execute(context.Background(), command)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !slices.Contains(result.Candidates, `S17ePTowrFlag\TowrFlagx`) {
		t.Errorf("candidates %q do not include the tower flag", result.Candidates)
	}
	for _, candidate := range result.Candidates {
		if kchash.SumString(candidate) != 0x846BF293 {
			t.Errorf("%q does not hash to 846BF293", candidate)
		}
	}
}

func TestRunLoop(t *testing.T) {
	var output bytes.Buffer
	session := newSession(t, &output, 0)
	input := strings.Join([]string{
		"S00lIFrogLogog",
		"$zz,a*",
		"$4019FB66,****************",
		"$4019FB66,S00lIFrogL**og\r",
	}, "\n")

	if err := session.Run(context.Background(), strings.NewReader(input)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := output.String()
	for _, want := range []string{
		"> Hash: 0x4019FB66\n",
		"> error: malformed command",
		"error: template \"****************\" has",
		" - S00lIFrogLogog\n3 result(s) in 5 ms for 0x4019FB66.\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
	if !strings.HasSuffix(got, "> \n") {
		t.Errorf("output does not end with a final prompt:\n%s", got)
	}
}

func TestRunCanceled(t *testing.T) {
	var output bytes.Buffer
	session := newSession(t, &output, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := session.Run(ctx, strings.NewReader("S00lIFrogLogog\n"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
}

func TestColorStylesKeepText(t *testing.T) {
	var output bytes.Buffer
	session := newSession(t, &output, 0)
	session.styles = ColorStyles()
	session.Report(&Result{Kind: Search, Target: 0x4019FB66, Candidates: []string{"S00lIFrogLogog"}})
	if !strings.Contains(output.String(), "S00lIFrogLogog") {
		t.Errorf("styled report lost the candidate:\n%s", output.String())
	}
	if StylesFor(&output).enabled {
		t.Error("StylesFor enabled colour for a non-terminal writer")
	}
}

func TestSessionWithoutEngine(t *testing.T) {
	var output bytes.Buffer
	session := NewSession(SessionOptions{Output: &output})
	if _, err := session.Handle(context.Background(), Command{Kind: Literal, Text: "S00lIFrogLogog"}); err != nil {
		t.Fatalf("Handle literal: %v", err)
	}
	if _, err := session.Execute(context.Background(), Command{Kind: Search, Text: "a*", Target: 1}); err == nil {
		t.Error("search without an engine succeeded")
	}
}
