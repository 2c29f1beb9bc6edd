// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package treeio

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/tree"
)

// ReadNexus reads the trees
// in the trees block of a nexus file.
// Other blocks are ignored.
func readNexus(data string) ([]*tree.Tree, error) {
	// remove the #NEXUS token
	data = strings.TrimSpace(data)
	if i := strings.IndexAny(data, "\n\r"); i >= 0 {
		data = data[i:]
	} else {
		data = ""
	}

	var ts []*tree.Tree
	var translate map[string]string
	block := ""
	for _, st := range statements(data) {
		st = strings.TrimSpace(stripComments(st))
		if st == "" {
			continue
		}
		cmd, rest := firstWord(st)
		switch cmd {
		case "begin":
			block, _ = firstWord(rest)
			continue
		case "end", "endblock":
			block = ""
			continue
		}
		if block != "trees" {
			continue
		}

		switch cmd {
		case "translate":
			tr, err := readTranslate(rest)
			if err != nil {
				return nil, err
			}
			translate = tr
		case "tree":
			t, err := readNexusTree(rest, len(ts)+1)
			if err != nil {
				return nil, err
			}
			if err := translateTaxa(t, translate); err != nil {
				return nil, err
			}
			ts = append(ts, t)
		}
	}
	if len(ts) == 0 {
		return nil, errkind.Format("nexus: no trees found")
	}
	return ts, nil
}

// StripComments removes the comments
// that are at the start of a statement
// (e.g., the comments between blocks).
func stripComments(st string) string {
	st = strings.TrimSpace(st)
	for strings.HasPrefix(st, "[") {
		i := strings.IndexByte(st, ']')
		if i < 0 {
			return ""
		}
		st = strings.TrimSpace(st[i+1:])
	}
	return st
}

// FirstWord returns the first word of a statement
// in lower case,
// and the rest of the statement.
func firstWord(st string) (string, string) {
	st = strings.TrimSpace(st)
	i := strings.IndexAny(st, " \t\n\r")
	if i < 0 {
		return strings.ToLower(st), ""
	}
	return strings.ToLower(st[:i]), strings.TrimSpace(st[i:])
}

func readTranslate(st string) (map[string]string, error) {
	tr := make(map[string]string)
	for _, f := range splitTop(st, ',') {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		key, rest, err := nextToken(f)
		if err != nil {
			return nil, fmt.Errorf("nexus: translate: %w", err)
		}
		name, _, err := nextToken(rest)
		if err != nil {
			return nil, fmt.Errorf("nexus: translate: %w", err)
		}
		if name == "" {
			return nil, errkind.Format("nexus: translate: token %q without taxon", key)
		}
		tr[key] = name
	}
	return tr, nil
}

func readNexusTree(st string, num int) (*tree.Tree, error) {
	name, nwk, ok := strings.Cut(st, "=")
	if !ok {
		return nil, errkind.Format("nexus: tree %d: expecting '='", num)
	}
	name = strings.TrimPrefix(strings.TrimSpace(name), "*")
	if n, _, err := nextToken(name); err == nil {
		name = n
	}
	if name == "" {
		name = fmt.Sprintf("tree_%d", num)
	}

	// comments before the tree,
	// such as the rooting comment [&R]
	nwk = stripComments(nwk)
	t, err := parseNewick(nwk, name)
	if err != nil {
		return nil, fmt.Errorf("nexus: tree %q: %w", name, err)
	}
	return t, nil
}

func translateTaxa(t *tree.Tree, translate map[string]string) error {
	if len(translate) == 0 {
		return nil
	}
	for _, id := range t.Nodes() {
		if !t.IsTerm(id) {
			continue
		}
		if name, ok := translate[t.Label(id)]; ok {
			t.SetLabel(id, name)
		}
	}
	if err := t.Validate(); err != nil {
		return errkind.Format("nexus: %v", err)
	}
	return nil
}

func writeNexus(w io.Writer, ts []*tree.Tree) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "#NEXUS\n\n")

	taxa := make(map[string]bool)
	for _, t := range ts {
		for _, tax := range t.Terms() {
			taxa[tax] = true
		}
	}
	terms := make([]string, 0, len(taxa))
	for tax := range taxa {
		terms = append(terms, tax)
	}
	slices.Sort(terms)

	fmt.Fprintf(bw, "begin taxa;\n")
	fmt.Fprintf(bw, "\tdimensions ntax=%d;\n", len(terms))
	fmt.Fprintf(bw, "\ttaxlabels\n")
	for _, tax := range terms {
		fmt.Fprintf(bw, "\t\t%s\n", quoteLabel(tax))
	}
	fmt.Fprintf(bw, ";\nend;\n\n")

	fmt.Fprintf(bw, "begin trees;\n")
	for i, t := range ts {
		name := t.Name()
		if name == "" {
			name = fmt.Sprintf("tree_%d", i+1)
		}
		fmt.Fprintf(bw, "\ttree %s = [&R] ", quoteLabel(name))
		newickString(bw, t, true)
		fmt.Fprintf(bw, ";\n")
	}
	fmt.Fprintf(bw, "end;\n")
	return bw.Flush()
}
