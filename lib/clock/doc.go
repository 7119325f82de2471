// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides a time source that tests can control.
//
// Searches report how long they took. Code that measures that accepts
// a [Clock] instead of calling time.Now, so tests can pin the reported
// duration:
//
//	c := clock.Fake(start)
//	c.SetStep(12 * time.Millisecond)
//	// every interval measured with two Now calls is now 12ms
package clock
