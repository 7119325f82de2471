// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package reverse

import (
	"context"
	"fmt"
	"log/slog"
	"math/bits"
	"slices"

	"github.com/kcforge/kchash/lib/kchash"
)

// cancelCheckInterval is how many stack pops pass between context
// checks.
const cancelCheckInterval = 4096

// EngineOptions configures an [Engine].
type EngineOptions struct {
	// Logger receives build and debug output. Nil discards it.
	Logger *slog.Logger

	// Workers bounds the goroutines one search may use. Values below
	// two search on the calling goroutine.
	Workers int
}

// SearchOptions controls a single search.
type SearchOptions struct {
	// DisableRepeat forces a full search on templates that would
	// otherwise run in repeat mode.
	DisableRepeat bool

	// Debug logs every expansion at debug level and re-hashes each
	// accepted candidate from scratch, failing with
	// [ErrInconsistentHash] on disagreement.
	Debug bool

	// MaxWidth caps the wildcard run width tried by
	// [Engine.RepeatSearch] and [Engine.SuffixSearch]. Zero means the
	// full range.
	MaxWidth int
}

// Engine runs searches against a set of [Tables]. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	tables  *Tables
	logger  *slog.Logger
	workers int
}

// NewEngine returns an engine backed by tables.
func NewEngine(tables *Tables, options EngineOptions) *Engine {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{tables: tables, logger: logger, workers: options.Workers}
}

// Tables returns the tables the engine searches.
func (e *Engine) Tables() *Tables { return e.tables }

// Analyze analyzes template against the engine's table depth.
func (e *Engine) Analyze(template string, target kchash.Hash, options SearchOptions) (*Template, error) {
	return Analyze(template, target, AnalyzeOptions{
		DisableRepeat:        options.DisableRepeat,
		MaxUnknownsPerNibble: e.tables.MaxUnknownsPerNibble(),
	})
}

// Reverse returns every string matching template that hashes to
// target, most plausible first. A template without wildcards yields
// itself when it matches and nothing otherwise.
func (e *Engine) Reverse(ctx context.Context, template string, target kchash.Hash, options SearchOptions) ([]string, error) {
	analyzed, err := e.Analyze(template, target, options)
	if err != nil {
		return nil, err
	}
	if analyzed.Exact() {
		if kchash.SumString(template) == target {
			return []string{template}, nil
		}
		return []string{}, nil
	}
	results, err := e.Search(ctx, analyzed, options.Debug)
	if err != nil {
		return nil, err
	}
	Rank(results)
	return results, nil
}

// Search enumerates the candidates for an analyzed template in
// generation order. The order is deterministic and independent of the
// worker count.
func (e *Engine) Search(ctx context.Context, template *Template, debug bool) ([]string, error) {
	if template.Exact() {
		if kchash.SumString(template.text) == template.target {
			return []string{template.text}, nil
		}
		return []string{}, nil
	}
	if template.Unreachable() {
		e.logger.Debug("residue lands on a nibble no unknown feeds",
			"template", template.text,
			"target", template.target.String(),
			"residue", template.Residue().String(),
		)
		return []string{}, nil
	}

	search := newSearcher(e, template, debug)
	if e.workers > 1 {
		return search.runParallel(ctx, e.workers)
	}
	results, err := search.run(ctx, search.initial())
	if err != nil {
		return nil, err
	}
	return dedupe(results), nil
}

// cursor is the node a nibble's walk has reached in its tree.
type cursor struct {
	tree *Tree
	node NodeID
}

func (c cursor) pair() Pair { return c.tree.Pair(c.node) }

// partial is one immutable search state. Children share nothing
// mutable with their parent: chars is clipped before appending and
// cursors is copied by value.
type partial struct {
	chars   []byte
	cursors [kchash.NibbleCount]cursor
	hash    kchash.Hash
}

type searcher struct {
	template *Template
	logger   *slog.Logger
	tables   *Tables
	debug    bool

	// Per unknown index.
	nibbles         []int
	previousNibbles []int
	starts          []bool
	ends            []bool
}

func newSearcher(engine *Engine, template *Template, debug bool) *searcher {
	count := len(template.unknowns)
	search := &searcher{
		template:        template,
		logger:          engine.logger,
		tables:          engine.tables,
		debug:           debug,
		nibbles:         make([]int, count),
		previousNibbles: make([]int, count),
		starts:          make([]bool, count),
		ends:            make([]bool, count),
	}
	for index, position := range template.unknowns {
		search.nibbles[index] = template.nibbleOf(position)
		search.previousNibbles[index] = template.nibbleOf(position - 1)
		search.starts[index] = template.startsSequence(index)
		search.ends[index] = template.endsSequence(index)
	}
	return search
}

// initial places every fed nibble at the root of the tree matching its
// unknown count and residue.
func (s *searcher) initial() partial {
	state := partial{hash: s.template.templateHash}
	residue := s.template.Residue()
	for nibble, count := range s.template.perNibble {
		if count > 0 {
			state.cursors[nibble] = cursor{tree: s.tables.Tree(count, residue.Nibble(nibble)), node: Root}
		}
	}
	return state
}

func (s *searcher) complete(state partial) bool {
	return len(state.chars) == len(s.template.unknowns)
}

// run explores the subtree under start depth-first with an explicit
// stack and returns the matching strings in pop order.
func (s *searcher) run(ctx context.Context, start partial) ([]string, error) {
	var results []string
	stack := []partial{start}
	for pops := 0; len(stack) > 0; pops++ {
		if pops%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("search of %q interrupted: %w", s.template.text, err)
			}
		}
		state := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if s.complete(state) {
			candidate, ok, err := s.accept(state)
			if err != nil {
				return nil, err
			}
			if ok {
				results = append(results, candidate)
			}
			continue
		}
		stack = s.expand(state, stack)
	}
	return results, nil
}

// accept tests a complete state against the target.
func (s *searcher) accept(state partial) (string, bool, error) {
	if !s.debug {
		if state.hash != s.template.target {
			return "", false, nil
		}
		return s.template.fill(state.chars), true, nil
	}

	candidate := s.template.fill(state.chars)
	direct := kchash.SumString(candidate)
	if direct != state.hash {
		return "", false, fmt.Errorf("%w: %q tracked %s, hashes to %s",
			ErrInconsistentHash, candidate, state.hash, direct)
	}
	if state.hash != s.template.target {
		return "", false, nil
	}
	s.logger.Debug("candidate accepted", "candidate", candidate, "hash", direct.String())
	return candidate, true, nil
}

// expand pushes every viable child of state onto stack and returns the
// grown stack.
func (s *searcher) expand(state partial, stack []partial) []partial {
	index := len(state.chars)
	current := state.cursors[s.nibbles[index]]
	previous := state.cursors[s.previousNibbles[index]]
	before := len(stack)

	if !s.starts[index] {
		// Inside a run: the character placed here was already chosen
		// as the second half of the previous nibble's pair.
		low, high := current.tree.ChildrenWithFirst(current.node, previous.pair().Second())
		for node := low; node < high; node++ {
			if s.usable(state, index, current.tree, node) {
				stack = append(stack, s.choose(state, index, node, Root, false))
			}
		}
	} else {
		// First of a run: the known character before it is already in
		// the template hash, so the previous nibble needs a pair that
		// starts with Null and names this character second.
		lowLead, highLead := previous.tree.ChildrenWithFirst(previous.node, Null)
		for lead := lowLead; lead < highLead; lead++ {
			low, high := current.tree.ChildrenWithFirst(current.node, previous.tree.Pair(lead).Second())
			for node := low; node < high; node++ {
				if s.usable(state, index, current.tree, node) {
					stack = append(stack, s.choose(state, index, node, lead, true))
				}
			}
		}
	}

	if s.debug {
		s.logger.Debug("expanded",
			"position", s.template.unknowns[index],
			"prefix", string(state.chars),
			"nibble", s.nibbles[index],
			"run_start", s.starts[index],
			"children", len(stack)-before,
		)
	}
	return stack
}

// usable applies the pruning rules to a candidate node of tree.
func (s *searcher) usable(state partial, index int, tree *Tree, node NodeID) bool {
	pair := tree.Pair(node)
	if repeat := s.template.repeatLength; repeat > 0 {
		if index >= repeat {
			if pair.First() != state.chars[index%repeat] {
				return false
			}
		} else if !s.mirrorReachable(state, index, tree, node) {
			return false
		}
	}
	if pair.First() == Null {
		return false
	}
	if s.ends[index] && pair.Second() != Null {
		return false
	}
	return true
}

// mirrorReachable checks, while the first run is being chosen, that
// every mirrored position landing in the same nibble as index can
// still follow node in the tree.
func (s *searcher) mirrorReachable(state partial, index int, tree *Tree, node NodeID) bool {
	repeat := s.template.repeatLength
	nibble := s.nibbles[index]
	for earlier := 0; earlier <= index; earlier++ {
		if s.template.nibbleOf(s.template.unknowns[earlier+repeat]) != nibble {
			continue
		}
		var mirrored Pair
		if earlier == index {
			mirrored = tree.Pair(node)
		} else {
			at := state.cursors[s.nibbles[earlier]]
			if at.node == Root {
				continue
			}
			mirrored = at.pair()
		}
		if _, ok := tree.Child(node, mirrored); !ok {
			return false
		}
	}
	return true
}

// choose derives the child state that places the first character of
// node's pair at unknown index, optionally advancing the previous
// nibble to lead as well.
func (s *searcher) choose(state partial, index int, node, lead NodeID, advancePrevious bool) partial {
	nibble := s.nibbles[index]
	next := partial{
		cursors: state.cursors,
		hash:    state.hash,
	}
	next.cursors[nibble].node = node
	if advancePrevious {
		next.cursors[s.previousNibbles[index]].node = lead
	}
	value := next.cursors[nibble].pair().First()
	next.chars = append(slices.Clip(state.chars), value)
	next.hash ^= kchash.Hash(bits.RotateLeft32(uint32(value), 4*nibble))
	return next
}

// dedupe removes repeated strings, keeping first occurrences in order.
func dedupe(results []string) []string {
	seen := make(map[string]struct{}, len(results))
	unique := make([]string, 0, len(results))
	for _, result := range results {
		if _, ok := seen[result]; ok {
			continue
		}
		seen[result] = struct{}{}
		unique = append(unique, result)
	}
	return unique
}
