// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package reverse

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// branchesPerWorker is how many frontier branches are prepared for
// each worker, so uneven subtrees still keep every worker busy.
const branchesPerWorker = 4

// runParallel expands the search breadth-first until the frontier has
// enough branches, then explores each branch with its own stack.
//
// The sequential search pops children in reverse push order, so the
// subtree of a later frontier entry is always finished before an
// earlier one. Concatenating branch results from the last frontier
// entry to the first reproduces the sequential output exactly.
func (s *searcher) runParallel(ctx context.Context, workers int) ([]string, error) {
	frontier := []partial{s.initial()}
	for len(frontier) < workers*branchesPerWorker {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("search of %q interrupted: %w", s.template.text, err)
		}
		var next []partial
		expanded := false
		for _, state := range frontier {
			if s.complete(state) {
				next = append(next, state)
				continue
			}
			next = s.expand(state, next)
			expanded = true
		}
		frontier = next
		if !expanded || len(frontier) == 0 {
			break
		}
	}

	s.logger.Debug("parallel search",
		"template", s.template.text,
		"branches", len(frontier),
		"workers", workers,
	)

	branches := make([][]string, len(frontier))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for index, state := range frontier {
		group.Go(func() error {
			results, err := s.run(groupCtx, state)
			if err != nil {
				return err
			}
			branches[index] = results
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var results []string
	for index := len(branches) - 1; index >= 0; index-- {
		results = append(results, branches[index]...)
	}
	return dedupe(results), nil
}
