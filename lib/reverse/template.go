// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package reverse

import (
	"slices"

	"github.com/kcforge/kchash/lib/kchash"
)

// Wildcard marks an unknown character in a template.
const Wildcard = '*'

// AnalyzeOptions controls [Analyze].
type AnalyzeOptions struct {
	// DisableRepeat turns repeat mode off even for templates that
	// qualify.
	DisableRepeat bool

	// MaxUnknownsPerNibble is the deepest tree available. Zero means
	// [DefaultMaxUnknownsPerNibble].
	MaxUnknownsPerNibble int
}

// Template is an analyzed search template bound to a target hash.
// It is immutable.
type Template struct {
	text         string
	target       kchash.Hash
	templateHash kchash.Hash
	unknowns     []int
	repeatLength int
	perNibble    [kchash.NibbleCount]int
}

// Analyze parses template, locating its wildcards, computing the
// template hash, deciding repeat mode, and counting how many unknown
// characters feed each nibble. A nibble fed by more unknowns than
// options allow yields a [*TemplateError].
func Analyze(template string, target kchash.Hash, options AnalyzeOptions) (*Template, error) {
	limit := options.MaxUnknownsPerNibble
	if limit <= 0 {
		limit = DefaultMaxUnknownsPerNibble
	}

	probe := []byte(template)
	analyzed := &Template{text: template, target: target, repeatLength: -1}
	for position, value := range probe {
		if value == Wildcard {
			probe[position] = Null
			analyzed.unknowns = append(analyzed.unknowns, position)
		}
	}
	analyzed.templateHash = kchash.Sum(probe)
	if len(analyzed.unknowns) == 0 {
		return analyzed, nil
	}

	if !options.DisableRepeat {
		runLength, runs := analyzed.runShape()
		if runLength > 2 && runs == 2 && len(analyzed.unknowns) == 2*runLength {
			analyzed.repeatLength = runLength
		}
	}

	for index, position := range analyzed.unknowns {
		analyzed.perNibble[analyzed.nibbleOf(position)]++
		if analyzed.startsSequence(index) {
			// The pair ending at this character belongs to the
			// nibble of the known character before it.
			analyzed.perNibble[analyzed.nibbleOf(position-1)]++
		}
	}
	for nibble, count := range analyzed.perNibble {
		if count > limit {
			return nil, &TemplateError{
				Template:  template,
				Nibble:    nibble,
				Unknowns:  count,
				Limit:     limit,
				PerNibble: analyzed.perNibble,
			}
		}
	}
	return analyzed, nil
}

// runShape returns the length of the first run of adjacent wildcards
// and the number of runs.
func (t *Template) runShape() (firstLength, runs int) {
	runs = 1
	for index := range t.unknowns {
		if index > 0 && t.unknowns[index] > t.unknowns[index-1]+1 {
			runs++
		} else if runs == 1 {
			firstLength++
		}
	}
	return firstLength, runs
}

// Text returns the template as given.
func (t *Template) Text() string { return t.text }

// Target returns the hash being reversed.
func (t *Template) Target() kchash.Hash { return t.target }

// TemplateHash returns the hash of the template with every wildcard
// replaced by [Null].
func (t *Template) TemplateHash() kchash.Hash { return t.templateHash }

// Residue returns the bits the unknown characters must contribute.
func (t *Template) Residue() kchash.Hash { return t.target ^ t.templateHash }

// Unknowns returns the wildcard positions in ascending order.
func (t *Template) Unknowns() []int { return slices.Clone(t.unknowns) }

// Exact reports whether the template has no wildcards.
func (t *Template) Exact() bool { return len(t.unknowns) == 0 }

// RepeatMode reports whether the second run of wildcards mirrors the
// first.
func (t *Template) RepeatMode() bool { return t.repeatLength > 0 }

// RepeatLength returns the run length in repeat mode and -1 otherwise.
func (t *Template) RepeatLength() int { return t.repeatLength }

// PerNibble returns the number of unknown pairs feeding each nibble.
func (t *Template) PerNibble() [kchash.NibbleCount]int { return t.perNibble }

// Unreachable reports whether some nibble needs a non-zero residue but
// no unknown character feeds it, in which case no candidate exists.
func (t *Template) Unreachable() bool {
	residue := t.Residue()
	for nibble, count := range t.perNibble {
		if count == 0 && residue.Nibble(nibble) != 0 {
			return true
		}
	}
	return false
}

// nibbleOf returns the nibble that receives the low half of the
// character at position. Position -1 stands for the length seed and is
// valid.
func (t *Template) nibbleOf(position int) int {
	return ((len(t.text)-position-1)%kchash.NibbleCount + kchash.NibbleCount) % kchash.NibbleCount
}

// startsSequence reports whether unknown index begins a run.
func (t *Template) startsSequence(index int) bool {
	return index == 0 || t.unknowns[index] != t.unknowns[index-1]+1
}

// endsSequence reports whether unknown index ends a run.
func (t *Template) endsSequence(index int) bool {
	return index == len(t.unknowns)-1 || t.unknowns[index+1] != t.unknowns[index]+1
}

// fill substitutes chars, in order, for the wildcards.
func (t *Template) fill(chars []byte) string {
	result := []byte(t.text)
	for index, position := range t.unknowns {
		result[position] = chars[index]
	}
	return string(result)
}
