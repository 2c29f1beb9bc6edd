// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package ctxtree

import (
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring"
	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/tree"
	"go.uber.org/zap"
)

// An Extractor performs a context extraction
// in phases:
// Mark,
// Discover,
// Collapse,
// and Materialize.
//
// The state of each phase is stored in the extractor,
// so the source tree is never modified.
type Extractor struct {
	t      *tree.Tree
	p      Param
	logger *zap.Logger

	targets *roaring.Bitmap
	include *roaring.Bitmap

	// subtree index (1-based) of each node
	// that is a subtree root
	subtree map[int]int

	// terminals replaced by a collapsed node
	content map[int]*roaring.Bitmap

	subtrees  []Subtree
	collapsed []Collapsed
}

// NewExtractor returns a new extractor for a tree.
func NewExtractor(t *tree.Tree, p Param, logger *zap.Logger) (*Extractor, error) {
	if p.MaxParent < 0 || p.MaxChild < 0 || p.MaxSiblings < 0 {
		return nil, errkind.Config("invalid context parameters: max-parent %d, max-child %d, max-siblings %d", p.MaxParent, p.MaxChild, p.MaxSiblings)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		t:       t,
		p:       p,
		logger:  logger,
		targets: roaring.New(),
		include: roaring.New(),
		subtree: make(map[int]int),
		content: make(map[int]*roaring.Bitmap),
	}, nil
}

// Mark marks the ancestors of each target terminal
// as included.
// At most MaxParent ancestors are marked
// (or all of them, if MaxParent is 0),
// and at least the parent of the target is marked.
func (x *Extractor) Mark(targets []int) {
	for _, id := range targets {
		x.targets.Add(uint32(id))

		n := id
		for level := 1; ; level++ {
			n = x.t.Parent(n)
			if n < 0 {
				break
			}
			if x.p.MaxParent == 0 && x.include.Contains(uint32(n)) {
				// all ancestors are already marked
				break
			}
			x.include.Add(uint32(n))
			if x.p.MaxParent > 0 && level >= x.p.MaxParent {
				break
			}
		}
	}
	x.logger.Debug("marked nodes",
		zap.Uint64("targets", x.targets.GetCardinality()),
		zap.Uint64("included", x.include.GetCardinality()),
	)
}

// Included returns true if a node is marked as included.
func (x *Extractor) Included(id int) bool {
	return x.include.Contains(uint32(id))
}

// IsTarget returns true if a node is a target.
func (x *Extractor) IsTarget(id int) bool {
	return x.targets.Contains(uint32(id))
}

// Discover search for the roots of the subtrees,
// in pre-order.
// A subtree root is an included internal node
// whose parent is not included.
// It returns the names of the subtrees.
func (x *Extractor) Discover() []string {
	var names []string
	for _, id := range x.t.PreOrder(x.t.Root()) {
		if x.t.IsTerm(id) || !x.Included(id) {
			continue
		}
		if p := x.t.Parent(id); p >= 0 && x.Included(p) {
			continue
		}

		name := fmt.Sprintf("subtree_%d", len(x.subtrees)+1)
		x.subtrees = append(x.subtrees, Subtree{
			Name: name,
			Root: id,
		})
		x.subtree[id] = len(x.subtrees)
		names = append(names, name)
	}
	x.logger.Debug("subtrees", zap.Int("found", len(names)))
	return names
}

// Collapse marks the internal nodes
// that are more than MaxChild levels
// below an included node
// as collapsed.
// The content of a collapsed node
// is the set of terminals descendant of the node.
func (x *Extractor) Collapse() {
	if x.p.MaxChild == 0 {
		return
	}

	type frame struct {
		id    int
		level int
	}
	for _, s := range x.subtrees {
		stack := []frame{{id: s.Root}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if x.t.IsTerm(f.id) {
				continue
			}
			if f.level > x.p.MaxChild {
				if _, ok := x.content[f.id]; !ok {
					x.content[f.id] = x.tips(f.id)
				}
				continue
			}

			children := x.t.Children(f.id)
			for i := len(children) - 1; i >= 0; i-- {
				c := children[i]
				level := f.level + 1
				if x.Included(c) {
					level = 0
				}
				stack = append(stack, frame{id: c, level: level})
			}
		}
	}
	x.logger.Debug("collapsed nodes", zap.Int("nodes", len(x.content)))
}

// IsCollapsed returns true if a node is collapsed.
func (x *Extractor) IsCollapsed(id int) bool {
	_, ok := x.content[id]
	return ok
}

func (x *Extractor) tips(id int) *roaring.Bitmap {
	bm := roaring.New()
	for _, tip := range x.t.Tips(id) {
		bm.Add(uint32(tip))
	}
	return bm
}

// Materialize builds the tree of each subtree,
// in discovery order.
//
// A child that is the root of another subtree
// is replaced by a leaf with the name of that subtree.
// A collapsed child is replaced by a leaf
// named collapsed_<n>.
// If a node has more than MaxSiblings children,
// all children that are not included,
// are not targets,
// and are not subtree roots,
// are clumped into a single collapsed leaf
// added after the other children.
func (x *Extractor) Materialize() {
	for i := range x.subtrees {
		x.subtrees[i].Tree = x.clone(x.subtrees[i])
	}
	x.logger.Debug("materialized subtrees",
		zap.Int("subtrees", len(x.subtrees)),
		zap.Int("collapsed", len(x.collapsed)),
	)
}

func (x *Extractor) clone(s Subtree) *tree.Tree {
	nt := tree.New(s.Name)
	x.copyNode(nt, nt.Root(), s.Root)
	nt.ClearLength(nt.Root())

	type frame struct {
		src      int
		dst      int
		children []int
		next     int
		clumping bool
		clump    *roaring.Bitmap
	}
	newFrame := func(src, dst int) frame {
		children := x.t.Children(src)
		return frame{
			src:      src,
			dst:      dst,
			children: children,
			clumping: x.p.MaxSiblings > 0 && len(children) > x.p.MaxSiblings,
			clump:    roaring.New(),
		}
	}

	stack := []frame{newFrame(s.Root, nt.Root())}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.next >= len(f.children) {
			if !f.clump.IsEmpty() {
				id := x.collapsedLeaf(nt, f.dst, f.clump)
				nt.SetLength(id, 0)
			}
			stack = stack[:len(stack)-1]
			continue
		}

		c := f.children[f.next]
		f.next++

		if n, ok := x.subtree[c]; ok {
			id, _ := nt.Add(f.dst, x.subtrees[n-1].Name)
			copyLength(nt, id, x.t, c)
			continue
		}
		if content, ok := x.content[c]; ok {
			if f.clumping {
				f.clump.Or(content)
				continue
			}
			id := x.collapsedLeaf(nt, f.dst, content)
			copyLength(nt, id, x.t, c)
			continue
		}
		if f.clumping && !x.Included(c) && !x.IsTarget(c) {
			if x.t.IsTerm(c) {
				f.clump.Add(uint32(c))
				continue
			}
			f.clump.Or(x.tips(c))
			continue
		}

		id, _ := nt.Add(f.dst, "")
		x.copyNode(nt, id, c)
		if !x.t.IsTerm(c) {
			// f is invalid after the append
			stack = append(stack, newFrame(c, id))
		}
	}
	return nt
}

// CopyNode copies the label,
// branch length,
// and attributes of a node.
func (x *Extractor) copyNode(nt *tree.Tree, dst, src int) {
	nt.SetLabel(dst, x.t.Label(src))
	copyLength(nt, dst, x.t, src)
	for name, v := range x.t.Attrs(src) {
		nt.SetAttr(dst, name, v)
	}
}

func copyLength(dt *tree.Tree, dst int, st *tree.Tree, src int) {
	if l, ok := st.Length(src); ok {
		dt.SetLength(dst, l)
	}
}

// CollapsedLeaf adds a new collapsed leaf
// and registers its content.
func (x *Extractor) collapsedLeaf(nt *tree.Tree, parent int, content *roaring.Bitmap) int {
	labels := make([]string, 0, content.GetCardinality())
	it := content.Iterator()
	for it.HasNext() {
		labels = append(labels, x.t.Taxon(int(it.Next())))
	}
	slices.Sort(labels)

	name := fmt.Sprintf("collapsed_%d", len(x.collapsed)+1)
	x.collapsed = append(x.collapsed, Collapsed{
		Name:    name,
		Content: labels,
	})
	id, _ := nt.Add(parent, name)
	return id
}

// Subtrees returns the discovered subtrees.
func (x *Extractor) Subtrees() []Subtree {
	return slices.Clone(x.subtrees)
}

// Manifest returns the collapsed leaves
// created during materialization.
func (x *Extractor) Manifest() []Collapsed {
	return slices.Clone(x.collapsed)
}
