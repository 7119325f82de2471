// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package reverse

import (
	"cmp"
	"slices"
	"sort"
)

// NodeID identifies a node within one [Tree].
type NodeID int32

// Root is the synthetic root of every tree. It carries no pair.
const Root NodeID = 0

// treeNode is one arena slot. Children occupy the contiguous range
// [firstChild, firstChild+childCount) and are sorted by pair.
type treeNode struct {
	pair       Pair
	firstChild int32
	childCount int32
}

// Tree is an immutable search tree for one (depth, residue) slot. Every
// root-to-leaf path is a sequence of depth pairs whose XOR equals the
// residue. Nodes live in a flat arena laid out breadth-first.
type Tree struct {
	depth int
	xor   uint8
	nodes []treeNode
}

// Depth returns the number of pairs on every root-to-leaf path.
func (t *Tree) Depth() int { return t.depth }

// Xor returns the residue the tree solves for.
func (t *Tree) Xor() uint8 { return t.xor }

// Len returns the number of nodes, including the root.
func (t *Tree) Len() int { return len(t.nodes) }

// Pair returns the pair stored at node. The root returns 0.
func (t *Tree) Pair(node NodeID) Pair { return t.nodes[node].pair }

// ChildCount returns the number of children of node.
func (t *Tree) ChildCount(node NodeID) int { return int(t.nodes[node].childCount) }

// Children returns the half-open ID range of the children of node.
func (t *Tree) Children(node NodeID) (NodeID, NodeID) {
	entry := t.nodes[node]
	return NodeID(entry.firstChild), NodeID(entry.firstChild + entry.childCount)
}

// Child finds the child of node holding pair.
func (t *Tree) Child(node NodeID, pair Pair) (NodeID, bool) {
	low, high := t.Children(node)
	siblings := t.nodes[low:high]
	index, found := sort.Find(len(siblings), func(i int) int {
		return cmp.Compare(pair, siblings[i].pair)
	})
	if !found {
		return 0, false
	}
	return low + NodeID(index), true
}

// ChildrenWithFirst returns the half-open ID range of the children of
// node whose pair starts with first. The range is empty when there are
// none.
func (t *Tree) ChildrenWithFirst(node NodeID, first byte) (NodeID, NodeID) {
	low, high := t.Children(node)
	siblings := t.nodes[low:high]
	start := sort.Search(len(siblings), func(i int) bool {
		return siblings[i].pair.First() >= first
	})
	end := start + sort.Search(len(siblings)-start, func(i int) bool {
		return siblings[start+i].pair.First() > first
	})
	return low + NodeID(start), low + NodeID(end)
}

// builderNode is the mutable form used while enumerating paths.
type builderNode struct {
	pair     Pair
	children []*builderNode
}

// child returns the child holding pair, inserting it in sorted
// position when absent. Repeated paths therefore collapse.
func (n *builderNode) child(pair Pair) *builderNode {
	index, found := slices.BinarySearchFunc(n.children, pair, func(node *builderNode, target Pair) int {
		return cmp.Compare(node.pair, target)
	})
	if found {
		return n.children[index]
	}
	node := &builderNode{pair: pair}
	n.children = slices.Insert(n.children, index, node)
	return node
}

// buildTree enumerates every sequence of depth pairs whose XOR is xor
// and inserts it into a fresh tree. The first depth-1 positions run as
// an odometer over all pairs; the last position is then forced to the
// bucket that cancels what remains.
func buildTree(pairs *PairTable, depth int, xor uint8) *Tree {
	all := make([]Pair, 0, pairs.Len())
	for value := range uint8(16) {
		all = append(all, pairs.Bucket(value)...)
	}

	root := &builderNode{}
	free := depth - 1
	counter := make([]int, free)
	path := make([]Pair, depth)
	for {
		remaining := xor
		for position, index := range counter {
			path[position] = all[index]
			remaining ^= all[index].Xor()
		}
		for _, last := range pairs.Bucket(remaining) {
			path[free] = last
			node := root
			for _, pair := range path {
				node = node.child(pair)
			}
		}
		if !advanceOdometer(counter, len(all)) {
			break
		}
	}
	return freezeTree(root, depth, xor)
}

// advanceOdometer increments counter as a little-endian-last odometer
// with every digit in [0, limit). It returns false after the final
// combination.
func advanceOdometer(counter []int, limit int) bool {
	for digit := len(counter) - 1; digit >= 0; digit-- {
		counter[digit]++
		if counter[digit] < limit {
			return true
		}
		counter[digit] = 0
	}
	return false
}

// freezeTree lays the builder tree out breadth-first so that siblings
// are contiguous.
func freezeTree(root *builderNode, depth int, xor uint8) *Tree {
	queue := []*builderNode{root}
	nodes := []treeNode{{}}
	for index := 0; index < len(queue); index++ {
		current := queue[index]
		nodes[index].firstChild = int32(len(nodes))
		nodes[index].childCount = int32(len(current.children))
		for _, child := range current.children {
			nodes = append(nodes, treeNode{pair: child.pair})
			queue = append(queue, child)
		}
	}
	return &Tree{depth: depth, xor: xor, nodes: slices.Clip(nodes)}
}
