// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tree implements rooted phylogenetic trees
// with node attributes.
//
// Nodes are stored in an arena
// and identified by an integer ID.
// The root is always the node 0,
// and the order of the children of a node
// is the order in which they were added,
// unless the tree is ladderized.
// External nodes (terminals)
// are the nodes without children,
// and their label is the name of the taxon.
package tree

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// A Tree is a rooted phylogenetic tree.
type Tree struct {
	name  string
	nodes []*node

	// taxa is the index of terminal names.
	// It is rebuilt on demand
	// after the tree is modified.
	taxa map[string]int
}

type node struct {
	id       int
	parent   int
	children []int

	label  string
	length float64
	hasLen bool

	attrs map[string]Value
}

// New creates a new tree with the given name
// and a single root node.
func New(name string) *Tree {
	t := &Tree{
		name: strings.TrimSpace(name),
	}
	t.nodes = append(t.nodes, &node{
		id:     0,
		parent: -1,
	})
	return t
}

// Add adds a new node as the last child of the parent node,
// and returns the ID of the new node.
// The label is the taxon name
// if the node stays as a terminal.
func (t *Tree) Add(parent int, label string) (int, error) {
	p := t.node(parent)
	if p == nil {
		return -1, fmt.Errorf("tree %q: parent node %d not found", t.name, parent)
	}

	n := &node{
		id:     len(t.nodes),
		parent: parent,
		label:  label,
	}
	t.nodes = append(t.nodes, n)
	p.children = append(p.children, n.id)
	t.taxa = nil
	return n.id, nil
}

// Name returns the name of the tree.
func (t *Tree) Name() string {
	return t.name
}

// SetName sets the name of the tree.
func (t *Tree) SetName(name string) {
	t.name = strings.TrimSpace(name)
}

// Root returns the ID of the root node.
func (t *Tree) Root() int {
	return 0
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Nodes returns the IDs of all nodes,
// in ascending order.
// As nodes are added from its parents,
// a parent always precedes its children.
func (t *Tree) Nodes() []int {
	ids := make([]int, len(t.nodes))
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// Children returns the IDs of the children of a node.
func (t *Tree) Children(id int) []int {
	n := t.node(id)
	if n == nil {
		return nil
	}
	children := make([]int, len(n.children))
	copy(children, n.children)
	return children
}

// NumChildren returns the number of children of a node.
func (t *Tree) NumChildren(id int) int {
	n := t.node(id)
	if n == nil {
		return 0
	}
	return len(n.children)
}

// Parent returns the ID of the parent of a node.
// It returns -1 for the root.
func (t *Tree) Parent(id int) int {
	n := t.node(id)
	if n == nil {
		return -1
	}
	return n.parent
}

// IsRoot returns true if the node is the root of the tree.
func (t *Tree) IsRoot(id int) bool {
	return id == 0
}

// IsTerm returns true if the node is a terminal
// (i.e., an external node).
func (t *Tree) IsTerm(id int) bool {
	n := t.node(id)
	if n == nil {
		return false
	}
	return len(n.children) == 0
}

// Label returns the label of a node.
func (t *Tree) Label(id int) string {
	n := t.node(id)
	if n == nil {
		return ""
	}
	return n.label
}

// SetLabel sets the label of a node.
func (t *Tree) SetLabel(id int, label string) {
	n := t.node(id)
	if n == nil {
		return
	}
	n.label = label
	t.taxa = nil
}

// Taxon returns the taxon name of a terminal node.
// It returns an empty string for internal nodes.
func (t *Tree) Taxon(id int) string {
	if !t.IsTerm(id) {
		return ""
	}
	return t.nodes[id].label
}

// TaxNode returns the ID of the terminal
// with the given taxon name.
func (t *Tree) TaxNode(name string) (int, bool) {
	if t.taxa == nil {
		t.indexTaxa()
	}
	id, ok := t.taxa[name]
	return id, ok
}

func (t *Tree) indexTaxa() {
	t.taxa = make(map[string]int)
	for _, n := range t.nodes {
		if len(n.children) > 0 || n.label == "" {
			continue
		}
		if _, dup := t.taxa[n.label]; dup {
			continue
		}
		t.taxa[n.label] = n.id
	}
}

// Terms returns the names of the terminals of the tree,
// sorted alphabetically.
func (t *Tree) Terms() []string {
	var terms []string
	for _, n := range t.nodes {
		if len(n.children) > 0 {
			continue
		}
		terms = append(terms, n.label)
	}
	slices.Sort(terms)
	return terms
}

// Length returns the branch length of a node,
// and false if the branch length is not defined.
func (t *Tree) Length(id int) (float64, bool) {
	n := t.node(id)
	if n == nil {
		return 0, false
	}
	return n.length, n.hasLen
}

// SetLength sets the branch length of a node.
func (t *Tree) SetLength(id int, length float64) {
	n := t.node(id)
	if n == nil {
		return
	}
	n.length = length
	n.hasLen = true
}

// ClearLength removes the branch length of a node.
func (t *Tree) ClearLength(id int) {
	n := t.node(id)
	if n == nil {
		return
	}
	n.length = 0
	n.hasLen = false
}

// Attr returns the value of an attribute of a node,
// and false if the attribute is not defined.
func (t *Tree) Attr(id int, name string) (Value, bool) {
	n := t.node(id)
	if n == nil {
		return Value{}, false
	}
	v, ok := n.attrs[name]
	return v, ok
}

// SetAttr sets the value of an attribute of a node.
// Setting an invalid value removes the attribute.
func (t *Tree) SetAttr(id int, name string, v Value) {
	n := t.node(id)
	if n == nil {
		return
	}
	if v.Kind() == Invalid {
		delete(n.attrs, name)
		return
	}
	if n.attrs == nil {
		n.attrs = make(map[string]Value)
	}
	n.attrs[name] = v
}

// DelAttr removes an attribute of a node.
func (t *Tree) DelAttr(id int, name string) {
	n := t.node(id)
	if n == nil {
		return
	}
	delete(n.attrs, name)
}

// AttrNames returns the names of the attributes
// defined for a node,
// sorted alphabetically.
func (t *Tree) AttrNames(id int) []string {
	n := t.node(id)
	if n == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(n.attrs))
}

// ClearAttrs removes all the attributes of a node.
func (t *Tree) ClearAttrs(id int) {
	n := t.node(id)
	if n == nil {
		return
	}
	n.attrs = nil
}

// ClearExternalAttrs removes the attributes
// of all the terminals of the tree.
func (t *Tree) ClearExternalAttrs() {
	for _, n := range t.nodes {
		if len(n.children) == 0 {
			n.attrs = nil
		}
	}
}

// ClearInternalAttrs removes the attributes
// of all the internal nodes of the tree.
func (t *Tree) ClearInternalAttrs() {
	for _, n := range t.nodes {
		if len(n.children) > 0 {
			n.attrs = nil
		}
	}
}

// Validate checks that every terminal has a label,
// and that the terminal labels are unique.
func (t *Tree) Validate() error {
	seen := make(map[string]bool)
	for _, n := range t.nodes {
		if len(n.children) > 0 {
			continue
		}
		if n.label == "" {
			if len(t.nodes) == 1 {
				return fmt.Errorf("tree %q: empty tree", t.name)
			}
			return fmt.Errorf("tree %q: terminal node %d without taxon", t.name, n.id)
		}
		if seen[n.label] {
			return fmt.Errorf("tree %q: repeated taxon %q", t.name, n.label)
		}
		seen[n.label] = true
	}
	return nil
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	nt := &Tree{
		name:  t.name,
		nodes: make([]*node, len(t.nodes)),
	}
	for i, n := range t.nodes {
		nn := &node{
			id:       n.id,
			parent:   n.parent,
			children: slices.Clone(n.children),
			label:    n.label,
			length:   n.length,
			hasLen:   n.hasLen,
		}
		if len(n.attrs) > 0 {
			nn.attrs = maps.Clone(n.attrs)
		}
		nt.nodes[i] = nn
	}
	return nt
}

func (t *Tree) node(id int) *node {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}
