// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via -ldflags -X. Unset values fall back to the VCS stamps the Go
// toolchain embeds in module builds.
var (
	GitCommit = "unknown"
	GitDirty  = "false"
	BuildTime = "unknown"
	Version   = "0.1.0-dev"
)

// stamps reads vcs.* build settings from the running binary.
var stamps = func() map[string]string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	settings := make(map[string]string, len(info.Settings))
	for _, setting := range info.Settings {
		settings[setting.Key] = setting.Value
	}
	return settings
}

func resolved() (commit string, dirty bool, built string) {
	commit, dirty, built = GitCommit, GitDirty == "true", BuildTime
	if commit != "unknown" {
		return commit, dirty, built
	}
	settings := stamps()
	if revision := settings["vcs.revision"]; revision != "" {
		if len(revision) > 12 {
			revision = revision[:12]
		}
		commit = revision
		dirty = settings["vcs.modified"] == "true"
	}
	if when := settings["vcs.time"]; when != "" && built == "unknown" {
		built = when
	}
	return commit, dirty, built
}

// Info returns the one-line version string.
func Info() string {
	commit, dirty, built := resolved()
	suffix := ""
	if dirty {
		suffix = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, commit, suffix, built)
}

// Full adds the Go toolchain and platform to Info.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number.
func Short() string {
	return Version
}

// Writer identifies this build in persisted artifacts such as table
// cache entries: the version plus the commit when one is known.
func Writer() string {
	commit, dirty, _ := resolved()
	if commit == "unknown" {
		return Version
	}
	if dirty {
		commit += "-dirty"
	}
	return Version + "+" + commit
}
