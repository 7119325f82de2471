// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package reverse

import (
	"slices"
	"testing"
)

// testEngine returns an engine over the shared default tables. The
// tables take a few seconds to build, so every test in the package
// reuses one copy.
func testEngine(t *testing.T, workers int) *Engine {
	t.Helper()
	tables, err := DefaultTables()
	if err != nil {
		t.Fatalf("DefaultTables: %v", err)
	}
	return NewEngine(tables, EngineOptions{Workers: workers})
}

// sorted returns a sorted copy of values for set comparison.
func sorted(values []string) []string {
	copied := slices.Clone(values)
	slices.Sort(copied)
	return copied
}

// walkPaths calls visit with the pairs along every root-to-leaf path.
func walkPaths(tree *Tree, visit func(path []Pair)) {
	var walk func(node NodeID, path []Pair)
	walk = func(node NodeID, path []Pair) {
		low, high := tree.Children(node)
		if low == high {
			visit(path)
			return
		}
		for child := low; child < high; child++ {
			walk(child, append(slices.Clip(path), tree.Pair(child)))
		}
	}
	walk(Root, nil)
}
