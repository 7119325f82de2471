// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package reverse

import (
	"context"
	"encoding/binary"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxUnknownsPerNibble is the tree depth built by default.
	// Depth 2 needs roughly four million nodes; depth 3 would need
	// several hundred million.
	DefaultMaxUnknownsPerNibble = 2

	// MaxTreeDepth is the deepest tree [BuildTables] accepts.
	MaxTreeDepth = 3

	// nodeRecordSize is the size of one serialized node: a 16-bit pair
	// followed by 32-bit first-child and child-count fields.
	nodeRecordSize = 10
)

// Tables holds everything the search consults: the alphabet, its pair
// buckets, and one tree per (unknowns, residue) slot. Tables are
// immutable and safe for concurrent use.
type Tables struct {
	alphabet *Alphabet
	pairs    *PairTable

	// trees[unknowns-1][xor]
	trees [][16]*Tree
}

// BuildTables builds trees for one through maxUnknowns simultaneous
// unknown characters per nibble. The sixteen residues of each depth
// are built concurrently.
func BuildTables(ctx context.Context, alphabet *Alphabet, maxUnknowns int) (*Tables, error) {
	if maxUnknowns < 1 || maxUnknowns > MaxTreeDepth {
		return nil, fmt.Errorf("unknowns per nibble must be between 1 and %d, got %d", MaxTreeDepth, maxUnknowns)
	}
	tables := &Tables{
		alphabet: alphabet,
		pairs:    NewPairTable(alphabet),
		trees:    make([][16]*Tree, maxUnknowns),
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for depth := 1; depth <= maxUnknowns; depth++ {
		for xor := range uint8(16) {
			group.Go(func() error {
				if err := groupCtx.Err(); err != nil {
					return err
				}
				tables.trees[depth-1][xor] = buildTree(tables.pairs, depth, xor)
				return nil
			})
		}
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("building search tables: %w", err)
	}
	return tables, nil
}

// DefaultTables returns the tables for [DefaultAlphabet] at
// [DefaultMaxUnknownsPerNibble]. They are built on the first call and
// shared by every later caller.
var DefaultTables = sync.OnceValues(func() (*Tables, error) {
	return BuildTables(context.Background(), DefaultAlphabet(), DefaultMaxUnknownsPerNibble)
})

// Alphabet returns the alphabet the tables were built from.
func (t *Tables) Alphabet() *Alphabet { return t.alphabet }

// Pairs returns the pair buckets.
func (t *Tables) Pairs() *PairTable { return t.pairs }

// MaxUnknownsPerNibble returns the deepest tree available.
func (t *Tables) MaxUnknownsPerNibble() int { return len(t.trees) }

// Tree returns the tree for unknowns simultaneous unknown characters
// and residue xor, or nil when unknowns is out of range.
func (t *Tables) Tree(unknowns int, xor uint8) *Tree {
	if unknowns < 1 || unknowns > len(t.trees) {
		return nil
	}
	return t.trees[unknowns-1][xor&0x0F]
}

// NodeCount returns the number of nodes across all trees.
func (t *Tables) NodeCount() int {
	total := 0
	for _, row := range t.trees {
		for _, tree := range row {
			total += tree.Len()
		}
	}
	return total
}

// Snapshot is the serializable form of [Tables].
type Snapshot struct {
	Alphabet             string         `cbor:"alphabet"`
	MaxUnknownsPerNibble int            `cbor:"max_unknowns"`
	Trees                []TreeSnapshot `cbor:"trees"`
}

// TreeSnapshot is one tree's arena, packed as little-endian
// fixed-size node records in breadth-first order.
type TreeSnapshot struct {
	Depth int    `cbor:"depth"`
	Xor   uint8  `cbor:"xor"`
	Nodes []byte `cbor:"nodes"`
}

// Snapshot exports the tables. Trees appear depth-major, residue-minor.
func (t *Tables) Snapshot() *Snapshot {
	snapshot := &Snapshot{
		Alphabet:             t.alphabet.String(),
		MaxUnknownsPerNibble: len(t.trees),
		Trees:                make([]TreeSnapshot, 0, len(t.trees)*16),
	}
	for _, row := range t.trees {
		for _, tree := range row {
			nodes := make([]byte, len(tree.nodes)*nodeRecordSize)
			for index, node := range tree.nodes {
				record := nodes[index*nodeRecordSize:]
				binary.LittleEndian.PutUint16(record[0:2], uint16(node.pair))
				binary.LittleEndian.PutUint32(record[2:6], uint32(node.firstChild))
				binary.LittleEndian.PutUint32(record[6:10], uint32(node.childCount))
			}
			snapshot.Trees = append(snapshot.Trees, TreeSnapshot{
				Depth: tree.depth,
				Xor:   tree.xor,
				Nodes: nodes,
			})
		}
	}
	return snapshot
}

// TablesFromSnapshot rebuilds tables from a snapshot, checking that
// every tree is structurally sound: child ranges stay in bounds and
// point forward, siblings are strictly ascending, every pair is drawn
// from the alphabet, and every path has the recorded depth.
func TablesFromSnapshot(snapshot *Snapshot) (*Tables, error) {
	alphabet, err := NewAlphabet(snapshot.Alphabet)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	depthCount := snapshot.MaxUnknownsPerNibble
	if depthCount < 1 || depthCount > MaxTreeDepth {
		return nil, fmt.Errorf("%w: %d unknowns per nibble", ErrCorruptSnapshot, depthCount)
	}
	if len(snapshot.Trees) != depthCount*16 {
		return nil, fmt.Errorf("%w: %d trees for depth %d", ErrCorruptSnapshot, len(snapshot.Trees), depthCount)
	}

	tables := &Tables{
		alphabet: alphabet,
		pairs:    NewPairTable(alphabet),
		trees:    make([][16]*Tree, depthCount),
	}
	for index, entry := range snapshot.Trees {
		depth, xor := index/16+1, uint8(index%16)
		if entry.Depth != depth || entry.Xor != xor {
			return nil, fmt.Errorf("%w: tree %d is (%d, %d), expected (%d, %d)",
				ErrCorruptSnapshot, index, entry.Depth, entry.Xor, depth, xor)
		}
		tree, err := decodeTree(alphabet, entry)
		if err != nil {
			return nil, err
		}
		tables.trees[depth-1][xor] = tree
	}
	return tables, nil
}

func decodeTree(alphabet *Alphabet, entry TreeSnapshot) (*Tree, error) {
	if len(entry.Nodes) == 0 || len(entry.Nodes)%nodeRecordSize != 0 {
		return nil, fmt.Errorf("%w: tree (%d, %d) has %d node bytes", ErrCorruptSnapshot, entry.Depth, entry.Xor, len(entry.Nodes))
	}
	count := len(entry.Nodes) / nodeRecordSize
	nodes := make([]treeNode, count)
	for index := range nodes {
		record := entry.Nodes[index*nodeRecordSize:]
		nodes[index] = treeNode{
			pair:       Pair(binary.LittleEndian.Uint16(record[0:2])),
			firstChild: int32(binary.LittleEndian.Uint32(record[2:6])),
			childCount: int32(binary.LittleEndian.Uint32(record[6:10])),
		}
	}

	// Breadth-first layout means every child range starts after its
	// parent, so levels can be assigned in a single forward pass.
	levels := make([]int, count)
	for index, node := range nodes {
		first, children := int(node.firstChild), int(node.childCount)
		if index > 0 && (!alphabet.Contains(node.pair.First()) || !alphabet.Contains(node.pair.Second())) {
			return nil, fmt.Errorf("%w: node %d holds pair %s outside the alphabet", ErrCorruptSnapshot, index, node.pair)
		}
		if children == 0 {
			if index > 0 && levels[index] != entry.Depth {
				return nil, fmt.Errorf("%w: leaf %d at level %d in a depth-%d tree", ErrCorruptSnapshot, index, levels[index], entry.Depth)
			}
			continue
		}
		if children < 0 || first <= index || first+children > count {
			return nil, fmt.Errorf("%w: node %d has child range [%d, %d)", ErrCorruptSnapshot, index, first, first+children)
		}
		for child := first; child < first+children; child++ {
			if child > first && nodes[child].pair <= nodes[child-1].pair {
				return nil, fmt.Errorf("%w: children of node %d are not strictly ascending", ErrCorruptSnapshot, index)
			}
			levels[child] = levels[index] + 1
		}
	}
	return &Tree{depth: entry.Depth, xor: entry.Xor, nodes: nodes}, nil
}
