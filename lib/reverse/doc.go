// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

// Package reverse enumerates strings that reproduce a given
// [kchash.Hash].
//
// The search is driven by a template: a string in which '*' marks each
// unknown character and every other character is taken literally.
// Hashing the template with its wildcards replaced by NUL (which mixes
// nothing) yields the template hash. XORing that with the target
// leaves eight 4-bit residues, one per nibble, that the unknown
// characters must produce between them.
//
// Under the rolling hash, nibble k receives the low nibble of one
// character and the high nibble of the character that follows it, so
// every residue is a constraint over a [Pair] of adjacent characters.
// [Tables] precomputes, for one or two simultaneous unknown pairs per
// nibble and every residue value, a [Tree] whose root-to-leaf paths are
// exactly the pair sequences that cancel the residue. The search walks
// those trees with an explicit stack of immutable partial assignments,
// keyed by the previously placed character, so it only ever visits
// continuations that can still succeed.
//
// Two heuristics shape the output rather than the result set:
//
//   - Repeat mode: when the wildcards form exactly two equal runs
//     longer than two characters, the second run is forced to mirror
//     the first. Asset paths such as "S17ePTowrFlag\TowrFlagx" repeat a
//     directory name as the file name, and this turns searches that
//     would take minutes into milliseconds.
//   - [Score] ranks candidates by how much they look like identifiers,
//     and [Rank] sorts by it. It never removes a candidate.
//
// Collisions are inherent: several strings normally share a hash, and
// the engine returns all of them within the [Alphabet].
//
// Entry points:
//
//   - [BuildTables] / [DefaultTables] -- precomputed lookup structures
//   - [Analyze] -- template parsing into a [Template]
//   - [Engine.Reverse], [Engine.RepeatSearch], [Engine.SuffixSearch]
package reverse
