// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package propagate implements the propagation of attribute values
// along the nodes of a tree:
// a bottom-up consensus of the values of the terminals,
// and a top-down assignment of the values
// defined at lineage boundaries.
package propagate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/js-arias/phylofunk/tree"
)

// Consensus sets on each internal node
// the most frequent value of an attribute
// among the terminals descendant of the node.
// Terminals without the attribute
// are counted under the empty string,
// which is used only if no terminal
// of the node has a value.
//
// If two or more values have the same count,
// the lexically smallest value is used.
//
// It returns the count of each value at the root.
// The attribute of the terminals must be a string.
func Consensus(t *tree.Tree, attr string) (map[string]int, error) {
	counts := make([]map[string]int, t.Len())
	for _, id := range t.PostOrder(t.Root()) {
		if t.IsTerm(id) {
			v, err := tipValue(t, id, attr)
			if err != nil {
				return nil, err
			}
			counts[id] = map[string]int{v: 1}
			continue
		}

		// reuse the map of the largest child
		children := t.Children(id)
		big := children[0]
		for _, c := range children[1:] {
			if len(counts[c]) > len(counts[big]) {
				big = c
			}
		}
		m := counts[big]
		counts[big] = nil
		for _, c := range children {
			if c == big {
				continue
			}
			for v, n := range counts[c] {
				m[v] += n
			}
			counts[c] = nil
		}
		counts[id] = m
		t.SetAttr(id, attr, tree.StringValue(Mode(m)))
	}

	return counts[t.Root()], nil
}

func tipValue(t *tree.Tree, id int, attr string) (string, error) {
	v, ok := t.Attr(id, attr)
	if !ok {
		return "", nil
	}
	s, err := v.Str()
	if err != nil {
		return "", fmt.Errorf("taxon %q: attribute %q: %w", t.Taxon(id), attr, err)
	}
	return s, nil
}

// Mode returns the value with the largest count.
// Ties are broken by selecting
// the lexically smallest value.
// The empty value is only returned
// if there is no other value with a count.
func Mode(counts map[string]int) string {
	mode := ""
	best := 0
	for v, n := range counts {
		if v == "" || n <= 0 {
			continue
		}
		if n > best || (n == best && v < mode) {
			mode = v
			best = n
		}
	}
	return mode
}

// AssignLineages sets the out attribute
// on the terminals of a tree
// using the lineage values stored in the attribute attr
// of the internal nodes.
//
// An internal node is a lineage boundary
// if its lineage is different from the lineage
// of its parent,
// and either the parent has no lineage,
// or the lineage of the node is a sublineage
// of the lineage of its parent.
// Each terminal receives the lineage
// of its nearest boundary ancestor.
// Internal nodes with an empty lineage
// are taken as nodes without lineage.
//
// If rename is not nil,
// it is used to transform the lineage name
// before it is assigned.
func AssignLineages(t *tree.Tree, attr, out string, rename func(string) string) error {
	if rename == nil {
		rename = func(s string) string { return s }
	}

	type frame struct {
		id     int
		parent string // lineage of the parent
		label  string // lineage of the nearest boundary
		inside bool   // true if there is a boundary ancestor
	}

	stack := []frame{{id: t.Root()}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if t.IsTerm(f.id) {
			if f.inside {
				t.SetAttr(f.id, out, tree.StringValue(f.label))
			}
			continue
		}

		lin := ""
		if v, ok := t.Attr(f.id, attr); ok {
			s, err := v.Str()
			if err != nil {
				return fmt.Errorf("node %d: attribute %q: %w", f.id, attr, err)
			}
			lin = s
		}
		if lin != "" && lin != f.parent && (f.parent == "" || IsSublineage(lin, f.parent)) {
			f.label = rename(lin)
			f.inside = true
		}

		children := t.Children(f.id)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				id:     children[i],
				parent: lin,
				label:  f.label,
				inside: f.inside,
			})
		}
	}
	return nil
}

// IsSublineage returns true if a lineage
// is a sublineage of a parent lineage
// in the dot notation,
// i.e., the dot-delimited segments of the parent
// are a strict prefix of the segments of the lineage.
// For example B.1.1 is a sublineage of B.1 and B,
// but not of B.1.1 or B.11.
func IsSublineage(lineage, parent string) bool {
	l := strings.Split(lineage, ".")
	p := strings.Split(parent, ".")
	if len(l) <= len(p) {
		return false
	}
	return slices.Equal(l[:len(p)], p)
}
