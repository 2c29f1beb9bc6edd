// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package treeio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/tree"
	"github.com/js-arias/timetree"
)

// millionYears is used to transform the ages
// of a time calibrated tree
// (stored in years)
// into branch lengths.
const millionYears = 1_000_000

// ReadTimeTrees reads the trees
// from a tab-delimited file of time calibrated trees.
// Branch lengths are set in million years.
func ReadTimeTrees(r io.Reader) ([]*tree.Tree, error) {
	c, err := timetree.ReadTSV(r)
	if err != nil {
		return nil, errkind.Format("%v", err)
	}

	var ts []*tree.Tree
	for _, tn := range c.Names() {
		tt := c.Tree(tn)
		t := tree.New(tn)

		ids := make(map[int]int)
		for _, id := range tt.Nodes() {
			if tt.IsRoot(id) {
				ids[id] = t.Root()
				continue
			}
			p := tt.Parent(id)
			nID, err := t.Add(ids[p], tt.Taxon(id))
			if err != nil {
				return nil, fmt.Errorf("tree %q: %w", tn, err)
			}
			ids[id] = nID
			l := float64(tt.Age(p)-tt.Age(id)) / millionYears
			t.SetLength(nID, l)
		}
		if err := t.Validate(); err != nil {
			return nil, errkind.Format("%v", err)
		}
		ts = append(ts, t)
	}
	if len(ts) == 0 {
		return nil, errkind.Format("no trees found")
	}
	return ts, nil
}

// ReadTimeTreeFile reads the trees
// from a tab-delimited file of time calibrated trees.
func ReadTimeTreeFile(name string) ([]*tree.Tree, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errkind.IO(err)
	}
	defer f.Close()

	ts, err := ReadTimeTrees(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %w", name, err)
	}
	return ts, nil
}

// WriteTimeTrees writes the trees
// as a tab-delimited file of time calibrated trees.
// Branch lengths are interpreted as million years,
// and internal labels and annotations are not preserved.
func writeTimeTrees(w io.Writer, ts []*tree.Tree) error {
	coll := timetree.NewCollection()
	for i, t := range ts {
		name := t.Name()
		if name == "" {
			name = fmt.Sprintf("tree_%d", i+1)
		}
		name = strings.ToLower(name)

		var b strings.Builder
		bw := bufio.NewWriter(&b)
		newickString(bw, plain(t), false)
		bw.WriteString(";\n")
		bw.Flush()

		c, err := timetree.Newick(strings.NewReader(b.String()), name, 0)
		if err != nil {
			return errkind.Format("tree %q: %v", name, err)
		}
		for _, tn := range c.Names() {
			if err := coll.Add(c.Tree(tn)); err != nil {
				return errkind.Format("tree %q: %v", name, err)
			}
		}
	}

	if err := coll.TSV(w); err != nil {
		return errkind.IO(err)
	}
	return nil
}

// Plain returns a copy of a tree
// without internal labels.
func plain(t *tree.Tree) *tree.Tree {
	c := t.Clone()
	for _, id := range c.Nodes() {
		if !c.IsTerm(id) {
			c.SetLabel(id, "")
		}
	}
	return c
}
