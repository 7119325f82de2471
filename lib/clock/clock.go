// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts reading the time so that reports which include
// elapsed durations are reproducible in tests. Production code injects
// Real(); tests inject Fake().
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// Since returns the time elapsed on clock since start.
func Since(clock Clock, start time.Time) time.Duration {
	return clock.Now().Sub(start)
}
