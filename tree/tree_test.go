// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/js-arias/phylofunk/tree"
)

// newTree builds the tree:
//
//	((A:1,B:2)x:1,(C:1,(D:1,E:1):2):3);
func newTree(t testing.TB) *tree.Tree {
	t.Helper()

	tr := tree.New("test")
	add := func(parent int, label string, length float64) int {
		id, err := tr.Add(parent, label)
		if err != nil {
			t.Fatalf("add %q: %v", label, err)
		}
		tr.SetLength(id, length)
		return id
	}

	x := add(0, "x", 1)
	add(x, "A", 1)
	add(x, "B", 2)
	y := add(0, "", 3)
	add(y, "C", 1)
	z := add(y, "", 2)
	add(z, "D", 1)
	add(z, "E", 1)
	return tr
}

func TestTree(t *testing.T) {
	tr := newTree(t)
	if err := tr.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if tr.Name() != "test" {
		t.Errorf("name: got %q, want %q", tr.Name(), "test")
	}
	if tr.Len() != 9 {
		t.Errorf("len: got %d, want %d", tr.Len(), 9)
	}

	terms := []string{"A", "B", "C", "D", "E"}
	if diff := cmp.Diff(terms, tr.Terms()); diff != "" {
		t.Errorf("terms: (-want +got)\n%s", diff)
	}

	for _, tax := range terms {
		id, ok := tr.TaxNode(tax)
		if !ok {
			t.Errorf("taxon %q: not found", tax)
			continue
		}
		if !tr.IsTerm(id) {
			t.Errorf("taxon %q: node %d is not a terminal", tax, id)
		}
		if tr.Taxon(id) != tax {
			t.Errorf("taxon %q: got %q", tax, tr.Taxon(id))
		}
	}
	if _, ok := tr.TaxNode("x"); ok {
		t.Errorf("internal label %q: found as taxon", "x")
	}
	if tr.Taxon(1) != "" {
		t.Errorf("internal node 1: got taxon %q", tr.Taxon(1))
	}
	if tr.Label(1) != "x" {
		t.Errorf("internal node 1: label: got %q, want %q", tr.Label(1), "x")
	}

	if p := tr.Parent(tr.Root()); p != -1 {
		t.Errorf("root parent: got %d, want -1", p)
	}
	if !tr.IsRoot(0) || tr.IsRoot(1) {
		t.Errorf("is root: unexpected result")
	}
	if diff := cmp.Diff([]int{6, 4, 0}, tr.Ancestors(7)); diff != "" {
		t.Errorf("ancestors: (-want +got)\n%s", diff)
	}
	if d := tr.Depth(7); d != 3 {
		t.Errorf("depth: got %d, want %d", d, 3)
	}
	if !tr.IsDescendant(8, 4) || tr.IsDescendant(2, 4) {
		t.Errorf("is descendant: unexpected result")
	}

	l, ok := tr.Length(6)
	if !ok || l != 2 {
		t.Errorf("length: got %.2f (%v), want %.2f", l, ok, 2.0)
	}
	if _, ok := tr.Length(0); ok {
		t.Errorf("root length: should be undefined")
	}
	tr.ClearLength(6)
	if _, ok := tr.Length(6); ok {
		t.Errorf("cleared length: should be undefined")
	}
}

func TestTraversal(t *testing.T) {
	tr := newTree(t)

	pre := []int{0, 1, 2, 3, 4, 5, 6, 7, 8}
	if diff := cmp.Diff(pre, tr.PreOrder(0)); diff != "" {
		t.Errorf("pre-order: (-want +got)\n%s", diff)
	}
	post := []int{2, 3, 1, 5, 7, 8, 6, 4, 0}
	if diff := cmp.Diff(post, tr.PostOrder(0)); diff != "" {
		t.Errorf("post-order: (-want +got)\n%s", diff)
	}
	if diff := cmp.Diff([]int{5, 7, 8}, tr.Tips(4)); diff != "" {
		t.Errorf("tips: (-want +got)\n%s", diff)
	}

	dist := tr.RootDistance()
	want := []float64{0, 1, 2, 3, 3, 4, 5, 6, 6}
	if diff := cmp.Diff(want, dist); diff != "" {
		t.Errorf("root distance: (-want +got)\n%s", diff)
	}
}

func TestDeepTree(t *testing.T) {
	// a caterpillar tree
	const size = 100_000
	tr := tree.New("caterpillar")
	p := tr.Root()
	for i := 0; i < size; i++ {
		if _, err := tr.Add(p, "t"+strconv.Itoa(i)); err != nil {
			t.Fatalf("add: %v", err)
		}
		np, err := tr.Add(p, "")
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		p = np
	}
	tr.SetLabel(p, "last")

	if err := tr.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if n := len(tr.PostOrder(0)); n != tr.Len() {
		t.Errorf("post-order: got %d nodes, want %d", n, tr.Len())
	}
	if n := len(tr.Tips(0)); n != size+1 {
		t.Errorf("tips: got %d, want %d", n, size+1)
	}
}

func TestValidate(t *testing.T) {
	tr := tree.New("bad")
	a, _ := tr.Add(0, "A")
	tr.Add(0, "A")
	if err := tr.Validate(); err == nil {
		t.Errorf("repeated taxon: expecting error")
	}

	tr.SetLabel(a, "")
	if err := tr.Validate(); err == nil {
		t.Errorf("terminal without taxon: expecting error")
	}

	if _, err := tr.Add(100, "X"); err == nil {
		t.Errorf("add to undefined parent: expecting error")
	}
}

func TestAttrs(t *testing.T) {
	tr := newTree(t)

	tr.SetAttr(2, "country", tree.StringValue("UK"))
	tr.SetAttr(2, "date", tree.NumberValue(2021.5))
	tr.SetAttr(2, "uk", tree.BoolValue(true))
	tr.SetAttr(2, "content", tree.SetValue("b", "a", "b"))

	names := []string{"content", "country", "date", "uk"}
	if diff := cmp.Diff(names, tr.AttrNames(2)); diff != "" {
		t.Errorf("attribute names: (-want +got)\n%s", diff)
	}

	v, ok := tr.Attr(2, "country")
	if !ok {
		t.Fatalf("attribute country: not found")
	}
	if s, err := v.Str(); err != nil || s != "UK" {
		t.Errorf("attribute country: got %q (%v), want %q", s, err, "UK")
	}
	if _, err := v.Num(); !errors.Is(err, tree.ErrTypeMismatch) {
		t.Errorf("attribute country as number: got %v, want %v", err, tree.ErrTypeMismatch)
	}

	v, _ = tr.Attr(2, "content")
	set, err := v.Set()
	if err != nil {
		t.Fatalf("attribute content: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, set); diff != "" {
		t.Errorf("attribute content: (-want +got)\n%s", diff)
	}
	if _, err := v.Bool(); !errors.Is(err, tree.ErrTypeMismatch) {
		t.Errorf("attribute content as bool: got %v, want %v", err, tree.ErrTypeMismatch)
	}

	c := tr.Clone()
	tr.DelAttr(2, "uk")
	if _, ok := c.Attr(2, "uk"); !ok {
		t.Errorf("clone: attribute uk should not be removed")
	}
	if _, ok := tr.Attr(2, "uk"); ok {
		t.Errorf("attribute uk: should be removed")
	}

	tr.SetAttr(1, "lineage", tree.StringValue("B.1"))
	tr.ClearExternalAttrs()
	if len(tr.AttrNames(2)) != 0 {
		t.Errorf("clear external: got %v", tr.AttrNames(2))
	}
	if _, ok := tr.Attr(1, "lineage"); !ok {
		t.Errorf("clear external: internal attribute removed")
	}
	tr.ClearInternalAttrs()
	if _, ok := tr.Attr(1, "lineage"); ok {
		t.Errorf("clear internal: internal attribute not removed")
	}

	tr.SetAttr(3, "x", tree.StringValue("y"))
	tr.SetAttr(3, "x", tree.Value{})
	if _, ok := tr.Attr(3, "x"); ok {
		t.Errorf("invalid value: attribute should be removed")
	}
}

func TestLabelSpaces(t *testing.T) {
	tr := tree.New("spaces")
	a, _ := tr.Add(tr.Root(), "A ")
	tr.Add(tr.Root(), "A")
	if err := tr.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if tr.Label(a) != "A " {
		t.Errorf("label: got %q, want %q", tr.Label(a), "A ")
	}
	if id, ok := tr.TaxNode("A "); !ok || id != a {
		t.Errorf("taxon node: got %d (%v), want %d", id, ok, a)
	}

	tr.SetLabel(a, " B")
	if tr.Taxon(a) != " B" {
		t.Errorf("set label: got %q, want %q", tr.Taxon(a), " B")
	}
}
