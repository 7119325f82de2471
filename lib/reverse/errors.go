// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package reverse

import (
	"errors"
	"fmt"
)

var (
	// ErrTemplateUnsupported is returned when a template places more
	// unknown characters into one nibble than the search tables cover.
	// The search is not attempted.
	ErrTemplateUnsupported = errors.New("template unsupported")

	// ErrInvalidAlphabet is returned by [NewAlphabet] for a character
	// set the tables cannot be built from.
	ErrInvalidAlphabet = errors.New("invalid alphabet")

	// ErrInconsistentHash reports that the incrementally tracked hash of
	// a completed candidate disagreed with a direct recomputation. This
	// indicates an engine defect, never bad input.
	ErrInconsistentHash = errors.New("incremental hash diverged from direct hash")
)

// TemplateError describes which nibble of a template exceeded the
// number of simultaneous unknowns the tables were built for.
type TemplateError struct {
	Template string
	Nibble   int
	Unknowns int
	Limit    int

	// PerNibble holds the unknown count of every nibble slot.
	PerNibble [8]int
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q has %d unknown characters in nibble slot %d, but only %d per slot are supported %v",
		e.Template, e.Unknowns, e.Nibble, e.Limit, e.PerNibble)
}

// Unwrap lets errors.Is match [ErrTemplateUnsupported].
func (e *TemplateError) Unwrap() error {
	return ErrTemplateUnsupported
}

// ErrCorruptSnapshot is returned by [TablesFromSnapshot] when the
// snapshot does not describe well-formed trees.
var ErrCorruptSnapshot = errors.New("corrupt table snapshot")
