// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import "maps"

// Traversals use explicit stacks,
// as observed phylogenies can be deep enough
// to be a problem for recursive functions.

// PreOrder returns the IDs of the nodes
// descendant of the given node
// (the node included),
// with each parent before its children,
// and children in its defined order.
func (t *Tree) PreOrder(from int) []int {
	if t.node(from) == nil {
		return nil
	}
	var ids []int
	stack := []int{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ids = append(ids, id)

		children := t.nodes[id].children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return ids
}

// PostOrder returns the IDs of the nodes
// descendant of the given node
// (the node included),
// with all children
// (in its defined order)
// before its parent.
func (t *Tree) PostOrder(from int) []int {
	if t.node(from) == nil {
		return nil
	}

	type frame struct {
		id   int
		next int
	}
	var ids []int
	stack := []frame{{id: from}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		children := t.nodes[f.id].children
		if f.next < len(children) {
			c := children[f.next]
			f.next++
			stack = append(stack, frame{id: c})
			continue
		}
		ids = append(ids, f.id)
		stack = stack[:len(stack)-1]
	}
	return ids
}

// Tips returns the IDs of the terminals
// descendant of a node,
// in pre-order.
func (t *Tree) Tips(from int) []int {
	var tips []int
	for _, id := range t.PreOrder(from) {
		if len(t.nodes[id].children) == 0 {
			tips = append(tips, id)
		}
	}
	return tips
}

// Ancestors returns the IDs of the ancestors of a node,
// from its parent to the root.
func (t *Tree) Ancestors(id int) []int {
	n := t.node(id)
	if n == nil {
		return nil
	}
	var anc []int
	for p := n.parent; p >= 0; p = t.nodes[p].parent {
		anc = append(anc, p)
	}
	return anc
}

// IsDescendant returns true if the node desc
// is in the clade of node anc
// (a node is part of its own clade).
func (t *Tree) IsDescendant(desc, anc int) bool {
	if t.node(desc) == nil || t.node(anc) == nil {
		return false
	}
	for id := desc; id >= 0; id = t.nodes[id].parent {
		if id == anc {
			return true
		}
	}
	return false
}

// Depth returns the number of edges
// from the root to the node.
func (t *Tree) Depth(id int) int {
	return len(t.Ancestors(id))
}

// RootDistance returns the sum of branch lengths
// from the root to each node.
// Undefined branch lengths are taken as zero.
func (t *Tree) RootDistance() []float64 {
	dist := make([]float64, len(t.nodes))
	// as parents are always added before its children
	// a single pass in ID order is enough.
	for _, n := range t.nodes {
		if n.parent < 0 {
			continue
		}
		dist[n.id] = dist[n.parent] + n.length
	}
	return dist
}

// Attrs returns a copy of the attributes of a node.
func (t *Tree) Attrs(id int) map[string]Value {
	n := t.node(id)
	if n == nil || len(n.attrs) == 0 {
		return nil
	}
	return maps.Clone(n.attrs)
}
