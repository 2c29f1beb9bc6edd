// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package ctxtree_test

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/js-arias/phylofunk/ctxtree"
	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/metadata"
	"github.com/js-arias/phylofunk/tree"
	"github.com/js-arias/phylofunk/treeio"
)

func readTree(t testing.TB, nwk string) *tree.Tree {
	t.Helper()

	ts, err := treeio.Read(strings.NewReader(nwk))
	if err != nil {
		t.Fatalf("read tree: %v", err)
	}
	return ts[0]
}

func extract(t testing.TB, tr *tree.Tree, targets string, p ctxtree.Param) *ctxtree.Result {
	t.Helper()

	keys, err := metadata.TipKeys(tr, metadata.KeySpec{})
	if err != nil {
		t.Fatalf("tip keys: %v", err)
	}
	r, err := ctxtree.Extract(tr, keys, nil, metadata.ParseList(targets), p, nil)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	return r
}

func newick(t testing.TB, tr *tree.Tree) string {
	t.Helper()

	var buf bytes.Buffer
	if err := treeio.Write(&buf, []*tree.Tree{tr}, treeio.Newick); err != nil {
		t.Fatalf("write tree: %v", err)
	}
	return strings.TrimSpace(buf.String())
}

func testForest(t testing.TB, r *ctxtree.Result, want map[string]string) {
	t.Helper()

	got := make(map[string]string, len(r.Subtrees))
	for _, s := range r.Subtrees {
		if s.Tree.Name() != s.Name {
			t.Errorf("subtree %q: tree name %q", s.Name, s.Tree.Name())
		}
		got[s.Name] = newick(t, s.Tree)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subtrees: (-want +got)\n%s", diff)
	}
}

func testManifest(t testing.TB, r *ctxtree.Result, want []ctxtree.Collapsed) {
	t.Helper()

	if diff := cmp.Diff(want, r.Collapsed); diff != "" {
		t.Errorf("manifest: (-want +got)\n%s", diff)
	}
}

func TestParentLevel(t *testing.T) {
	tr := readTree(t, "(((A,B),F),(C,(D,E)));")
	r := extract(t, tr, "A", ctxtree.Param{MaxParent: 2})

	if len(r.Subtrees) != 1 {
		t.Fatalf("subtrees: got %d, want %d", len(r.Subtrees), 1)
	}
	s := r.Subtrees[0]
	if s.Name != "subtree_1" {
		t.Errorf("name: got %q, want %q", s.Name, "subtree_1")
	}
	a, _ := tr.TaxNode("A")
	if want := tr.Parent(tr.Parent(a)); s.Root != want {
		t.Errorf("root: got node %d, want %d", s.Root, want)
	}
	testForest(t, r, map[string]string{"subtree_1": "((A,B),F);"})
	testManifest(t, r, nil)

	// up to the root
	r = extract(t, tr, "A", ctxtree.Param{})
	testForest(t, r, map[string]string{"subtree_1": "(((A,B),F),(C,(D,E)));"})

	// the root is never passed
	r = extract(t, tr, "A", ctxtree.Param{MaxParent: 10})
	testForest(t, r, map[string]string{"subtree_1": "(((A,B),F),(C,(D,E)));"})
}

func TestDiscoveryOrder(t *testing.T) {
	tr := readTree(t, "(((A,B),F),(C,(D,E)));")
	want := map[string]string{
		"subtree_1": "(A,B);",
		"subtree_2": "(D,E);",
	}
	for i := 0; i < 5; i++ {
		r := extract(t, tr, "E,A", ctxtree.Param{MaxParent: 1})
		if len(r.Subtrees) != 2 {
			t.Fatalf("subtrees: got %d, want %d", len(r.Subtrees), 2)
		}
		if r.Subtrees[0].Name != "subtree_1" || r.Subtrees[1].Name != "subtree_2" {
			t.Errorf("subtrees are not in discovery order")
		}
		testForest(t, r, want)
	}
}

func TestNestedSubtree(t *testing.T) {
	tr := readTree(t, "((A:1,(B:1,(C:1,D:1):2):1):1,E:3);")
	tr.SetAttr(1, "lineage", tree.StringValue("B.1"))

	r := extract(t, tr, "A,C", ctxtree.Param{MaxParent: 1})
	want := map[string]string{
		"subtree_1": "(A:1,(B:1,subtree_2:2):1);",
		"subtree_2": "(C:1,D:1);",
	}
	testForest(t, r, want)
	testManifest(t, r, nil)

	s, ok := r.Subtree("subtree_1")
	if !ok {
		t.Fatalf("subtree %q: not found", "subtree_1")
	}
	if v, _ := s.Tree.Attr(s.Tree.Root(), "lineage"); !v.Equal(tree.StringValue("B.1")) {
		t.Errorf("attributes: got %v, want %q", v, "B.1")
	}

	if diff := cmp.Diff([]string{"A", "B", "C", "D"}, r.Coverage()); diff != "" {
		t.Errorf("coverage: (-want +got)\n%s", diff)
	}

	// source tree is not modified
	for _, id := range tr.Nodes() {
		names := tr.AttrNames(id)
		if id == 1 {
			if diff := cmp.Diff([]string{"lineage"}, names); diff != "" {
				t.Errorf("source node %d: attributes: (-want +got)\n%s", id, diff)
			}
			continue
		}
		if len(names) > 0 {
			t.Errorf("source node %d: unexpected attributes %v", id, names)
		}
	}
}

func TestCollapse(t *testing.T) {
	tr := readTree(t, "((A,(B,(C,D):3)),E);")

	r := extract(t, tr, "A", ctxtree.Param{MaxParent: 1, MaxChild: 1})
	testForest(t, r, map[string]string{"subtree_1": "(A,(B,collapsed_1:3));"})
	testManifest(t, r, []ctxtree.Collapsed{
		{Name: "collapsed_1", Content: []string{"C", "D"}},
	})

	// without collapsing
	r = extract(t, tr, "A", ctxtree.Param{MaxParent: 1})
	testForest(t, r, map[string]string{"subtree_1": "(A,(B,(C,D):3));"})
	testManifest(t, r, nil)
}

func TestClumping(t *testing.T) {
	tr := readTree(t, "(A,B,C,(D,E),F);")
	r := extract(t, tr, "A", ctxtree.Param{MaxParent: 1, MaxSiblings: 2})
	testForest(t, r, map[string]string{"subtree_1": "(A,collapsed_1:0);"})
	testManifest(t, r, []ctxtree.Collapsed{
		{Name: "collapsed_1", Content: []string{"B", "C", "D", "E", "F"}},
	})

	// not enough siblings
	r = extract(t, tr, "A", ctxtree.Param{MaxParent: 1, MaxSiblings: 5})
	testForest(t, r, map[string]string{"subtree_1": "(A,B,C,(D,E),F);"})
}

func TestClumpCollapsed(t *testing.T) {
	tr := readTree(t, "((A,B),(C,(D,E)),F,G);")
	r := extract(t, tr, "A", ctxtree.Param{MaxParent: 2, MaxChild: 1, MaxSiblings: 3})
	testForest(t, r, map[string]string{"subtree_1": "((A,B),collapsed_1:0);"})
	testManifest(t, r, []ctxtree.Collapsed{
		{Name: "collapsed_1", Content: []string{"C", "D", "E", "F", "G"}},
	})
}

func TestCollapsedNumbering(t *testing.T) {
	tr := readTree(t, "((A,X,Y,(B,((C,D),Z))),E);")
	p := ctxtree.Param{MaxParent: 1, MaxChild: 1, MaxSiblings: 3}

	want := map[string]string{
		"subtree_1": "(A,(B,(collapsed_1,Z)),collapsed_2:0);",
	}
	manifest := []ctxtree.Collapsed{
		{Name: "collapsed_1", Content: []string{"C", "D"}},
		{Name: "collapsed_2", Content: []string{"X", "Y"}},
	}
	for i := 0; i < 5; i++ {
		r := extract(t, tr, "A,B", p)
		testForest(t, r, want)
		testManifest(t, r, manifest)
	}

	r := extract(t, tr, "A,B", p)
	var buf bytes.Buffer
	if err := ctxtree.WriteManifest(&buf, r.Collapsed); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	wantCSV := "name,count,content\ncollapsed_1,2,[C D]\ncollapsed_2,2,[X Y]\n"
	if buf.String() != wantCSV {
		t.Errorf("manifest: got\n%s\nwant\n%s", buf.String(), wantCSV)
	}

	cover := []string{"A", "B", "C", "D", "X", "Y", "Z"}
	if diff := cmp.Diff(cover, r.Coverage()); diff != "" {
		t.Errorf("coverage: (-want +got)\n%s", diff)
	}
}

func TestTargets(t *testing.T) {
	tr := readTree(t, "((A,B),(C,(D,E)));")
	keys, err := metadata.TipKeys(tr, metadata.KeySpec{})
	if err != nil {
		t.Fatalf("tip keys: %v", err)
	}

	_, err = ctxtree.Extract(tr, keys, nil, nil, ctxtree.DefaultParam(), nil)
	if !errors.Is(err, errkind.ErrConfig) {
		t.Errorf("no targets: got error %v, want %v", err, errkind.ErrConfig)
	}

	taxa := metadata.NewTaxonSet("A", "Q")
	_, err = ctxtree.Extract(tr, keys, taxa, nil, ctxtree.DefaultParam(), nil)
	if !errors.Is(err, errkind.ErrLookup) {
		t.Errorf("missing target: got error %v, want %v", err, errkind.ErrLookup)
	}
	_, err = ctxtree.Extract(tr, keys, nil, taxa, ctxtree.DefaultParam(), nil)
	if !errors.Is(err, errkind.ErrLookup) {
		t.Errorf("missing extra target: got error %v, want %v", err, errkind.ErrLookup)
	}

	p := ctxtree.DefaultParam()
	p.IgnoreMissing = true
	r, err := ctxtree.Extract(tr, keys, taxa, metadata.NewTaxonSet("D"), p, nil)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if diff := cmp.Diff([]int{2, 7}, r.Targets); diff != "" {
		t.Errorf("targets: (-want +got)\n%s", diff)
	}
	testForest(t, r, map[string]string{
		"subtree_1": "(A,B);",
		"subtree_2": "(D,E);",
	})

	_, err = ctxtree.NewExtractor(tr, ctxtree.Param{MaxChild: -1}, nil)
	if !errors.Is(err, errkind.ErrConfig) {
		t.Errorf("negative parameter: got error %v, want %v", err, errkind.ErrConfig)
	}
}

func TestTargetsByField(t *testing.T) {
	tr := readTree(t, "(('s1|2021|UK','s2|2021|ES'),('s3|2020|UK','s4|2022|FR'));")
	keys, err := metadata.TipKeys(tr, metadata.KeySpec{Field: 1})
	if err != nil {
		t.Fatalf("tip keys: %v", err)
	}
	r, err := ctxtree.Extract(tr, keys, metadata.NewTaxonSet("s3"), nil, ctxtree.DefaultParam(), nil)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	testForest(t, r, map[string]string{"subtree_1": "(s3|2020|UK,s4|2022|FR);"})
}

// TestDepthBound checks that no retained internal node
// is more than MaxChild levels
// below an included node.
func TestDepthBound(t *testing.T) {
	tr := readTree(t, "((A,((B,(C,(D,(E,F)))),(G,(H,I)))),((J,K),(L,(M,N))));")
	keys, _ := metadata.TipKeys(tr, metadata.KeySpec{})

	for maxChild := 1; maxChild < 5; maxChild++ {
		p := ctxtree.Param{MaxParent: 3, MaxChild: maxChild}
		x, err := ctxtree.NewExtractor(tr, p, nil)
		if err != nil {
			t.Fatalf("new extractor: %v", err)
		}
		targets, err := ctxtree.Targets(tr, keys, metadata.NewTaxonSet("A", "M"), nil, false)
		if err != nil {
			t.Fatalf("targets: %v", err)
		}
		x.Mark(targets)
		x.Discover()
		x.Collapse()
		x.Materialize()

		for _, s := range x.Subtrees() {
			type frame struct {
				id    int
				level int
			}
			stack := []frame{{id: s.Root}}
			for len(stack) > 0 {
				f := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if tr.IsTerm(f.id) || x.IsCollapsed(f.id) {
					continue
				}
				if f.level > maxChild {
					t.Errorf("max child %d: subtree %q: node %d retained at level %d", maxChild, s.Name, f.id, f.level)
				}
				for _, c := range tr.Children(f.id) {
					l := f.level + 1
					if x.Included(c) {
						l = 0
					}
					stack = append(stack, frame{id: c, level: l})
				}
			}
		}

		r := &ctxtree.Result{Subtrees: x.Subtrees(), Collapsed: x.Manifest()}
		var want []string
		for _, s := range x.Subtrees() {
			for _, id := range tr.Tips(s.Root) {
				want = append(want, tr.Taxon(id))
			}
		}
		want = metadata.NewTaxonSet(want...).Keys()
		if diff := cmp.Diff(want, r.Coverage()); diff != "" {
			t.Errorf("max child %d: coverage: (-want +got)\n%s", maxChild, diff)
		}
	}
}

func TestDeepContext(t *testing.T) {
	// a caterpillar tree
	const size = 100_000
	tr := tree.New("caterpillar")
	p := tr.Root()
	for i := 0; i < size; i++ {
		id, err := tr.Add(p, "t"+strconv.Itoa(i))
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		tr.SetLength(id, 1)
		p, _ = tr.Add(p, "")
		tr.SetLength(p, 1)
	}
	tr.SetLabel(p, "last")

	r := extract(t, tr, "last", ctxtree.Param{})
	if len(r.Subtrees) != 1 {
		t.Fatalf("subtrees: got %d, want %d", len(r.Subtrees), 1)
	}
	if n := r.Subtrees[0].Tree.Len(); n != tr.Len() {
		t.Errorf("nodes: got %d, want %d", n, tr.Len())
	}
	if n := len(r.Coverage()); n != size+1 {
		t.Errorf("coverage: got %d, want %d", n, size+1)
	}

	// clump every terminal outside the path to the target
	r = extract(t, tr, "last", ctxtree.Param{MaxSiblings: 1})
	if len(r.Collapsed) != size {
		t.Errorf("collapsed: got %d, want %d", len(r.Collapsed), size)
	}
	if n := len(r.Coverage()); n != size+1 {
		t.Errorf("coverage: got %d, want %d", n, size+1)
	}

	// collapse everything below the target ancestors
	r = extract(t, tr, "t10", ctxtree.Param{MaxParent: 0, MaxChild: 2})
	if n := len(r.Coverage()); n != size+1 {
		t.Errorf("coverage: got %d, want %d", n, size+1)
	}
	if len(r.Collapsed) != 1 {
		t.Errorf("collapsed: got %d, want %d", len(r.Collapsed), 1)
	}
}
