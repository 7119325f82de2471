// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func withBuild(t *testing.T, commit, dirty string, settings map[string]string) {
	t.Helper()
	savedCommit, savedDirty, savedTime, savedStamps := GitCommit, GitDirty, BuildTime, stamps
	t.Cleanup(func() {
		GitCommit, GitDirty, BuildTime, stamps = savedCommit, savedDirty, savedTime, savedStamps
	})
	GitCommit, GitDirty, BuildTime = commit, dirty, "unknown"
	stamps = func() map[string]string { return settings }
}

func TestInfo(t *testing.T) {
	withBuild(t, "abc1234", "true", nil)

	if got := Info(); !strings.Contains(got, "abc1234-dirty") {
		t.Errorf("Info() = %q, want the dirty commit", got)
	}
	if !strings.HasPrefix(Full(), Info()) || !strings.Contains(Full(), "Go: ") {
		t.Errorf("Full() = %q, want Info plus toolchain", Full())
	}
	if Short() != Version {
		t.Errorf("Short() = %q, want %q", Short(), Version)
	}
	if got, want := Writer(), Version+"+abc1234-dirty"; got != want {
		t.Errorf("Writer() = %q, want %q", got, want)
	}
}

func TestInfoFallsBackToVCSStamps(t *testing.T) {
	withBuild(t, "unknown", "false", map[string]string{
		"vcs.revision": "0123456789abcdef0123",
		"vcs.modified": "false",
		"vcs.time":     "2026-10-01T12:00:00Z",
	})

	got := Info()
	if !strings.Contains(got, "(0123456789ab, 2026-10-01T12:00:00Z)") {
		t.Errorf("Info() = %q, want truncated revision and vcs time", got)
	}
	if got, want := Writer(), Version+"+0123456789ab"; got != want {
		t.Errorf("Writer() = %q, want %q", got, want)
	}
}

func TestWriterWithoutCommit(t *testing.T) {
	withBuild(t, "unknown", "false", nil)

	if got := Writer(); got != Version {
		t.Errorf("Writer() = %q, want %q", got, Version)
	}
	if got := Info(); !strings.Contains(got, "(unknown, unknown)") {
		t.Errorf("Info() = %q, want unknown placeholders", got)
	}
}
