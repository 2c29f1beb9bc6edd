// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"cmp"
	"maps"
	"slices"
)

// Subtree returns a copy of the subtree
// rooted at the given node,
// that includes only the terminals
// for which keep returns true.
// If keep is nil,
// all terminals are included.
//
// Internal nodes without included terminals
// are removed,
// and internal nodes with a single child
// are merged with its child,
// adding its branch lengths.
// The branch length of the new root
// is always undefined.
// It returns nil if no terminal is included.
func (t *Tree) Subtree(from int, keep func(id int) bool) *Tree {
	if t.node(from) == nil {
		return nil
	}

	kept := make(map[int]int)
	for _, id := range t.PostOrder(from) {
		n := t.nodes[id]
		if len(n.children) == 0 {
			if keep == nil || keep(id) {
				kept[id] = 1
			}
			continue
		}
		for _, c := range n.children {
			kept[id] += kept[c]
		}
	}
	if kept[from] == 0 {
		return nil
	}

	keptChildren := func(id int) []int {
		var children []int
		for _, c := range t.nodes[id].children {
			if kept[c] > 0 {
				children = append(children, c)
			}
		}
		return children
	}

	root := from
	for {
		children := keptChildren(root)
		if len(children) != 1 {
			break
		}
		root = children[0]
	}

	nt := New(t.name)
	t.copyInto(nt, nt.Root(), root)
	nt.ClearLength(nt.Root())

	type frame struct {
		src    int
		parent int
		length float64
		hasLen bool
	}
	var stack []frame
	push := func(parent, src int) {
		children := keptChildren(src)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{src: children[i], parent: parent})
		}
	}
	push(nt.Root(), root)

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := t.nodes[f.src]
		if n.hasLen {
			f.length += n.length
			f.hasLen = true
		}
		if children := keptChildren(f.src); len(children) == 1 {
			f.src = children[0]
			stack = append(stack, f)
			continue
		}

		id, _ := nt.Add(f.parent, "")
		t.copyInto(nt, id, f.src)
		nt.ClearLength(id)
		if f.hasLen {
			nt.SetLength(id, f.length)
		}
		push(id, f.src)
	}
	return nt
}

// CopyInto copies the label,
// branch length,
// and attributes of a node
// into a node of another tree.
func (t *Tree) copyInto(dt *Tree, dst, src int) {
	sn := t.nodes[src]
	dn := dt.nodes[dst]
	dn.label = sn.label
	dn.length = sn.length
	dn.hasLen = sn.hasLen
	if len(sn.attrs) > 0 {
		dn.attrs = maps.Clone(sn.attrs)
	}
	dt.taxa = nil
}

// Ladderize sorts the children of each node
// by the number of terminals of its clade,
// in increasing or decreasing order.
// Clades of the same size
// keep its previous order.
func (t *Tree) Ladderize(increasing bool) {
	size := make([]int, len(t.nodes))
	for _, id := range t.PostOrder(t.Root()) {
		n := t.nodes[id]
		if len(n.children) == 0 {
			size[id] = 1
			continue
		}
		for _, c := range n.children {
			size[id] += size[c]
		}
		slices.SortStableFunc(n.children, func(a, b int) int {
			if increasing {
				return cmp.Compare(size[a], size[b])
			}
			return cmp.Compare(size[b], size[a])
		})
	}
}

// Split returns a tree for each value
// of an attribute in the terminals,
// with the terminals that have that value.
// Trees are named by the value,
// and sorted by its name.
// Terminals without the attribute are ignored.
func (t *Tree) Split(attr string) []*Tree {
	groups := make(map[string]map[int]bool)
	for _, id := range t.Tips(t.Root()) {
		v, ok := t.Attr(id, attr)
		if !ok {
			continue
		}
		name := v.String()
		if groups[name] == nil {
			groups[name] = make(map[int]bool)
		}
		groups[name][id] = true
	}

	names := slices.Sorted(maps.Keys(groups))
	ts := make([]*Tree, 0, len(names))
	for _, name := range names {
		g := groups[name]
		nt := t.Subtree(t.Root(), func(id int) bool { return g[id] })
		nt.SetName(name)
		ts = append(ts, nt)
	}
	return ts
}
