// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package reverse

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/kcforge/kchash/lib/kchash"
)

const frogLogHash kchash.Hash = 0x4019FB66

func TestReverseKnownTemplates(t *testing.T) {
	tests := []struct {
		template string
		target   kchash.Hash
		want     []string
	}{
		// The real name is one character longer, and no single
		// character makes the shorter one collide.
		{"S00lIFrogL*og", frogLogHash, nil},
		{"S00lIFrogLog*g", frogLogHash, []string{"S00lIFrogLogog"}},
		{"S00lIFrogLogo*", frogLogHash, []string{"S00lIFrogLogog"}},
		{"S00lIFrogL**og", frogLogHash, []string{"S00lIFrogLj7og", "S00lIFrogLnwog", "S00lIFrogLogog"}},
		{"S00lIFrogLog**", frogLogHash, []string{"S00lIFrogLogj7", "S00lIFrogLognw", "S00lIFrogLogog"}},
		{"S00lIF**g**gog", frogLogHash, []string{"S00lIFq_glogog", "S00lIFq_go_gog", "S00lIFroglogog", "S00lIFrogo_gog"}},
	}
	for _, workers := range []int{1, 4} {
		engine := testEngine(t, workers)
		for _, test := range tests {
			got, err := engine.Reverse(context.Background(), test.template, test.target, SearchOptions{})
			if err != nil {
				t.Fatalf("workers=%d Reverse(%q): %v", workers, test.template, err)
			}
			if !slices.Equal(sorted(got), test.want) {
				t.Errorf("workers=%d Reverse(%q) = %q, want %q", workers, test.template, got, test.want)
			}
		}
	}
}

func TestReverseRanksMostPlausibleFirst(t *testing.T) {
	engine := testEngine(t, 1)
	got, err := engine.Reverse(context.Background(), "S00lIFrogL**og", frogLogHash, SearchOptions{})
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	want := []string{"S00lIFrogLogog", "S00lIFrogLnwog", "S00lIFrogLj7og"}
	if !slices.Equal(got, want) {
		t.Errorf("Reverse = %q, want %q", got, want)
	}
}

func TestReverseNoFalsePositives(t *testing.T) {
	engine := testEngine(t, 1)
	got, err := engine.Reverse(context.Background(), "S00lI***g**go*", frogLogHash, SearchOptions{})
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if len(got) != 456 {
		t.Errorf("got %d results, want 456", len(got))
	}
	if !slices.Contains(got, "S00lIFrogLogog") {
		t.Error("results do not include S00lIFrogLogog")
	}
	alphabet := engine.Tables().Alphabet()
	seen := make(map[string]bool)
	for _, candidate := range got {
		if hash := kchash.SumString(candidate); hash != frogLogHash {
			t.Errorf("%q hashes to %s, want %s", candidate, hash, frogLogHash)
		}
		if seen[candidate] {
			t.Errorf("duplicate result %q", candidate)
		}
		seen[candidate] = true
		for _, position := range []int{5, 6, 7, 9, 10, 13} {
			if !alphabet.Contains(candidate[position]) {
				t.Errorf("%q places %q outside the alphabet", candidate, candidate[position])
			}
		}
	}
}

func TestReverseForwardBackward(t *testing.T) {
	engine := testEngine(t, 1)
	for _, name := range []string{"ab_c9", "kx-0]z"} {
		template := strings.Repeat("*", len(name))
		got, err := engine.Reverse(context.Background(), template, kchash.SumString(name), SearchOptions{})
		if err != nil {
			t.Fatalf("Reverse(%q): %v", template, err)
		}
		if !slices.Contains(got, name) {
			t.Errorf("reversing the hash of %q over %q did not find it among %d results", name, template, len(got))
		}
	}
}

func TestReverseExactTemplate(t *testing.T) {
	engine := testEngine(t, 1)
	got, err := engine.Reverse(context.Background(), "FrogLog", kchash.SumString("FrogLog"), SearchOptions{})
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if !slices.Equal(got, []string{"FrogLog"}) {
		t.Errorf("matching exact template = %q, want [FrogLog]", got)
	}

	got, err = engine.Reverse(context.Background(), "FrogLog", kchash.SumString("FrogLog")+1, SearchOptions{})
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("mismatching exact template = %#v, want empty", got)
	}
}

func TestReverseDeterministicAcrossWorkers(t *testing.T) {
	var reference []string
	for _, workers := range []int{1, 1, 2, 8} {
		engine := testEngine(t, workers)
		template, err := engine.Analyze("S00lI***g**go*", frogLogHash, SearchOptions{})
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		got, err := engine.Search(context.Background(), template, false)
		if err != nil {
			t.Fatalf("workers=%d Search: %v", workers, err)
		}
		if reference == nil {
			reference = got
			continue
		}
		if !slices.Equal(got, reference) {
			t.Errorf("workers=%d produced a different order than a sequential search", workers)
		}
	}
}

func TestReverseRepeatModeEquivalence(t *testing.T) {
	if testing.Short() {
		t.Skip("full search of two three-character runs")
	}
	const template = `S17ePT***Flag\T***Flagx`
	const target kchash.Hash = 0x846BF293
	engine := testEngine(t, 4)

	repeated, err := engine.Reverse(context.Background(), template, target, SearchOptions{})
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if len(repeated) != 9 || !slices.Contains(repeated, `S17ePTowrFlag\TowrFlagx`) {
		t.Errorf("repeat mode found %d results %q, want 9 including S17ePTowrFlag\\TowrFlagx", len(repeated), repeated)
	}

	full, err := engine.Reverse(context.Background(), template, target, SearchOptions{DisableRepeat: true})
	if err != nil {
		t.Fatalf("Reverse without repeat mode: %v", err)
	}
	var mirrored []string
	for _, candidate := range full {
		if candidate[6:9] == candidate[15:18] {
			mirrored = append(mirrored, candidate)
		}
	}
	if !slices.Equal(sorted(mirrored), sorted(repeated)) {
		t.Errorf("mirrored subset of the full search = %q, repeat mode = %q", mirrored, repeated)
	}
}

func TestReverseUnsupportedTemplate(t *testing.T) {
	engine := testEngine(t, 1)
	_, err := engine.Reverse(context.Background(), strings.Repeat("*", 16), frogLogHash, SearchOptions{})
	if !errors.Is(err, ErrTemplateUnsupported) {
		t.Errorf("error = %v, want ErrTemplateUnsupported", err)
	}
}

func TestReverseUnreachableResidue(t *testing.T) {
	engine := testEngine(t, 1)
	target := kchash.SumString("abc\x00") ^ 0x100
	got, err := engine.Reverse(context.Background(), "abc*", target, SearchOptions{})
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Reverse = %q, want no results", got)
	}
}

func TestReverseCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, workers := range []int{1, 4} {
		engine := testEngine(t, workers)
		_, err := engine.Reverse(ctx, "S00lI***g**go*", frogLogHash, SearchOptions{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d error = %v, want context.Canceled", workers, err)
		}
	}
}

func TestReverseDebugMode(t *testing.T) {
	tables, err := DefaultTables()
	if err != nil {
		t.Fatalf("DefaultTables: %v", err)
	}
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	engine := NewEngine(tables, EngineOptions{Logger: logger})

	got, err := engine.Reverse(context.Background(), "S00lIFrogL**og", frogLogHash, SearchOptions{Debug: true})
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("debug search found %d results, want 3", len(got))
	}
	if !strings.Contains(logs.String(), "candidate accepted") {
		t.Error("debug mode logged no accepted candidates")
	}
}

func TestAcceptDetectsDivergence(t *testing.T) {
	engine := testEngine(t, 1)
	template, err := engine.Analyze("ab*", kchash.SumString("abc"), SearchOptions{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	search := newSearcher(engine, template, true)
	state := partial{chars: []byte("c"), hash: kchash.SumString("abc") ^ 1}
	if _, _, err := search.accept(state); !errors.Is(err, ErrInconsistentHash) {
		t.Errorf("error = %v, want ErrInconsistentHash", err)
	}
}
