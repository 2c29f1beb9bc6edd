// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/js-arias/phylofunk/tree"
)

func TestSubtree(t *testing.T) {
	tr := newTree(t)

	tests := map[string]struct {
		keep    []string
		terms   []string
		nodes   int
		lengths map[string]float64
		parent  float64
	}{
		"unary nodes merged": {
			keep:    []string{"A", "D", "E"},
			terms:   []string{"A", "D", "E"},
			nodes:   6,
			lengths: map[string]float64{"A": 2, "D": 1, "E": 1},
			parent:  5,
		},
		"new root": {
			keep:    []string{"D", "E"},
			terms:   []string{"D", "E"},
			nodes:   3,
			lengths: map[string]float64{"D": 1, "E": 1},
			parent:  -1,
		},
	}

	for name, test := range tests {
		keep := make(map[string]bool)
		for _, k := range test.keep {
			keep[k] = true
		}
		st := tr.Subtree(tr.Root(), func(id int) bool {
			return keep[tr.Taxon(id)]
		})
		if st == nil {
			t.Errorf("%s: nil subtree", name)
			continue
		}
		if err := st.Validate(); err != nil {
			t.Errorf("%s: validate: %v", name, err)
		}
		if diff := cmp.Diff(test.terms, st.Terms()); diff != "" {
			t.Errorf("%s: terms: (-want +got)\n%s", name, diff)
		}
		if st.Len() != test.nodes {
			t.Errorf("%s: len: got %d, want %d", name, st.Len(), test.nodes)
		}
		if _, ok := st.Length(st.Root()); ok {
			t.Errorf("%s: root with branch length", name)
		}
		for tax, want := range test.lengths {
			id, _ := st.TaxNode(tax)
			if l, _ := st.Length(id); l != want {
				t.Errorf("%s: length of %q: got %g, want %g", name, tax, l, want)
			}
		}

		d, _ := st.TaxNode("D")
		p := st.Parent(d)
		l, ok := st.Length(p)
		if !ok {
			l = -1
		}
		if l != test.parent {
			t.Errorf("%s: parent length of D: got %g, want %g", name, l, test.parent)
		}
	}

	// source tree is unchanged
	if tr.Len() != 9 {
		t.Errorf("source tree modified: len %d", tr.Len())
	}

	if st := tr.Subtree(tr.Root(), func(int) bool { return false }); st != nil {
		t.Errorf("empty subtree: got %d nodes, want nil", st.Len())
	}
}

func TestLadderize(t *testing.T) {
	tests := map[string]struct {
		increasing bool
		tips       []string
	}{
		"increasing": {
			increasing: true,
			tips:       []string{"A", "B", "C", "D", "E"},
		},
		"decreasing": {
			increasing: false,
			tips:       []string{"D", "E", "C", "A", "B"},
		},
	}

	for name, test := range tests {
		tr := newTree(t)
		tr.Ladderize(test.increasing)

		var tips []string
		for _, id := range tr.Tips(tr.Root()) {
			tips = append(tips, tr.Taxon(id))
		}
		if diff := cmp.Diff(test.tips, tips); diff != "" {
			t.Errorf("%s: tips: (-want +got)\n%s", name, diff)
		}
		if err := tr.Validate(); err != nil {
			t.Errorf("%s: validate: %v", name, err)
		}
	}
}

func TestSplit(t *testing.T) {
	tr := newTree(t)
	lineages := map[string]string{
		"A": "B.1",
		"B": "B.1",
		"C": "A",
		"D": "A",
	}
	for tax, lin := range lineages {
		id, _ := tr.TaxNode(tax)
		tr.SetAttr(id, "lineage", tree.StringValue(lin))
	}

	ts := tr.Split("lineage")
	if len(ts) != 2 {
		t.Fatalf("split: got %d trees, want 2", len(ts))
	}

	want := map[string][]string{
		"A":   {"C", "D"},
		"B.1": {"A", "B"},
	}
	for _, st := range ts {
		if diff := cmp.Diff(want[st.Name()], st.Terms()); diff != "" {
			t.Errorf("tree %q: terms: (-want +got)\n%s", st.Name(), diff)
		}
	}
	if ts[0].Name() != "A" {
		t.Errorf("first tree: got %q, want %q", ts[0].Name(), "A")
	}

	d, _ := ts[0].TaxNode("D")
	if l, _ := ts[0].Length(d); l != 3 {
		t.Errorf("length of D: got %g, want %g", l, 3.0)
	}
	if v, ok := ts[0].Attr(d, "lineage"); !ok || v.String() != "A" {
		t.Errorf("attribute of D: got %q", v.String())
	}
}
