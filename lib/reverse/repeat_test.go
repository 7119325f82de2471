// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package reverse

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/kcforge/kchash/lib/kchash"
)

func TestRunCount(t *testing.T) {
	tests := map[string]int{
		"abc":                   0,
		"*":                     1,
		"ab***":                 1,
		`S17ePT*Flag\T*Flagx`:   2,
		"*a**b***c":             3,
	}
	for template, want := range tests {
		if got := RunCount(template); got != want {
			t.Errorf("RunCount(%q) = %d, want %d", template, got, want)
		}
	}
}

func TestRepeatSearchGrowsMirroredRuns(t *testing.T) {
	engine := testEngine(t, 4)
	got, err := engine.RepeatSearch(context.Background(), `S17ePT*Flag\T*Flagx`, 0x846BF293, SearchOptions{MaxWidth: 4})
	if err != nil {
		t.Fatalf("RepeatSearch: %v", err)
	}
	// Only width three has matches.
	if len(got) != 9 {
		t.Errorf("RepeatSearch found %d results %q, want 9", len(got), got)
	}
	if !slices.Contains(got, `S17ePTowrFlag\TowrFlagx`) {
		t.Errorf("RepeatSearch = %q, missing S17ePTowrFlag\\TowrFlagx", got)
	}
	for i := 1; i < len(got); i++ {
		if Score(got[i]) > Score(got[i-1]) {
			t.Errorf("results not ranked: %q scores above %q", got[i], got[i-1])
		}
	}
}

func TestRepeatSearchWithoutWildcards(t *testing.T) {
	engine := testEngine(t, 1)
	got, err := engine.RepeatSearch(context.Background(), "FrogLog", kchash.SumString("FrogLog"), SearchOptions{})
	if err != nil {
		t.Fatalf("RepeatSearch: %v", err)
	}
	if !slices.Equal(got, []string{"FrogLog"}) {
		t.Errorf("RepeatSearch = %q, want [FrogLog]", got)
	}
}

func TestSuffixSearch(t *testing.T) {
	engine := testEngine(t, 4)
	got, err := engine.SuffixSearch(context.Background(), "S00lIFrogLo", frogLogHash, SearchOptions{MaxWidth: 3})
	if err != nil {
		t.Fatalf("SuffixSearch: %v", err)
	}
	if !slices.Contains(got, "S00lIFrogLogog") {
		t.Errorf("SuffixSearch = %q, missing S00lIFrogLogog", got)
	}
	for _, candidate := range got {
		if !strings.HasPrefix(candidate, "S00lIFrogLo") {
			t.Errorf("%q does not extend the prefix", candidate)
		}
		if kchash.SumString(candidate) != frogLogHash {
			t.Errorf("%q does not hash to %s", candidate, frogLogHash)
		}
	}
}

func TestSuffixSearchPrefixMatches(t *testing.T) {
	engine := testEngine(t, 1)
	got, err := engine.SuffixSearch(context.Background(), "S00lIFrogLogog", frogLogHash, SearchOptions{})
	if err != nil {
		t.Fatalf("SuffixSearch: %v", err)
	}
	if !slices.Equal(got, []string{"S00lIFrogLogog"}) {
		t.Errorf("SuffixSearch = %q, want the prefix alone", got)
	}
}
