// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package propagate

import (
	"fmt"

	"github.com/js-arias/phylofunk/tree"
)

// Propagate sets the out attribute with the given value
// on a node and its descendants.
// If stop is not nil,
// the propagation does not enter
// the descendant nodes for which stop returns true.
// It returns the number of assigned nodes.
func Propagate(t *tree.Tree, from int, out string, value tree.Value, stop func(id int) bool) int {
	n := 0
	stack := []int{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id != from && stop != nil && stop(id) {
			continue
		}

		t.SetAttr(id, out, value)
		n++
		children := t.Children(id)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return n
}

// Clusters search for maximal groups of connected nodes
// in which the attribute attr has the indicated value,
// and sets the out attribute of the nodes in each group
// to the prefix with the number of the cluster.
// Clusters are numbered from 1
// in pre-order.
// It returns the number of clusters.
func Clusters(t *tree.Tree, attr string, value tree.Value, out, prefix string) int {
	match := func(id int) bool {
		v, ok := t.Attr(id, attr)
		return ok && v.Equal(value)
	}

	n := 0
	for _, id := range t.PreOrder(t.Root()) {
		if !match(id) {
			continue
		}
		if p := t.Parent(id); p >= 0 && match(p) {
			continue
		}
		n++
		name := tree.StringValue(fmt.Sprintf("%s%d", prefix, n))
		Propagate(t, id, out, name, func(id int) bool {
			return !match(id)
		})
	}
	return n
}

// GenomeLength is the length
// of the SARS-CoV-2 reference genome.
const GenomeLength = 29903

// ZeroBranch is the default length
// below which a terminal branch
// is considered to have length zero:
// 1% of the length of a single substitution
// in the reference genome.
const ZeroBranch = 0.01 / GenomeLength

// Haplotypes sets on each internal node
// the most frequent value of the attribute
// among its terminal children
// with a branch length below the threshold
// (i.e., terminals that are identical to the node).
// Terminals without a defined length
// are considered to be of length zero,
// and terminals without the attribute are ignored.
// It returns the number of labeled nodes.
func Haplotypes(t *tree.Tree, attr string, threshold float64) (int, error) {
	n := 0
	for _, id := range t.Nodes() {
		if t.IsTerm(id) {
			continue
		}

		counts := make(map[string]int)
		for _, c := range t.Children(id) {
			if !t.IsTerm(c) {
				continue
			}
			if l, _ := t.Length(c); l >= threshold {
				continue
			}
			v, ok := t.Attr(c, attr)
			if !ok {
				continue
			}
			s, err := v.Str()
			if err != nil {
				return n, fmt.Errorf("taxon %q: attribute %q: %w", t.Taxon(c), attr, err)
			}
			counts[s]++
		}
		if len(counts) == 0 {
			continue
		}
		t.SetAttr(id, attr, tree.StringValue(Mode(counts)))
		n++
	}
	return n, nil
}
