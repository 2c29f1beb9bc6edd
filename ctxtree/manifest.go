// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package ctxtree

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/js-arias/phylofunk/errkind"
)

var manifestHeader = []string{
	"name",
	"count",
	"content",
}

// WriteManifest writes the content of the collapsed leaves
// as a CSV table.
//
// The table contains the following fields:
//
//   - name, the name of the collapsed leaf
//   - count, the number of terminals in the leaf
//   - content, the labels of the terminals,
//     separated by spaces and enclosed in brackets
//
// Here is an example file:
//
//	name,count,content
//	collapsed_1,3,[A B C]
//	collapsed_2,1,[F]
func WriteManifest(w io.Writer, collapsed []Collapsed) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(manifestHeader); err != nil {
		return errkind.IO(fmt.Errorf("while writing header: %w", err))
	}
	for _, c := range collapsed {
		row := []string{
			c.Name,
			strconv.Itoa(len(c.Content)),
			"[" + strings.Join(c.Content, " ") + "]",
		}
		if err := cw.Write(row); err != nil {
			return errkind.IO(err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errkind.IO(fmt.Errorf("while writing data: %w", err))
	}
	return nil
}

// Coverage returns the labels of the source terminals
// represented in the extracted trees,
// either as terminals,
// or as part of the content of a collapsed leaf.
// The labels are sorted lexically.
func (r *Result) Coverage() []string {
	subtrees := make(map[string]bool, len(r.Subtrees))
	for _, s := range r.Subtrees {
		subtrees[s.Name] = true
	}
	collapsed := make(map[string][]string, len(r.Collapsed))
	for _, c := range r.Collapsed {
		collapsed[c.Name] = c.Content
	}

	set := make(map[string]bool)
	for _, s := range r.Subtrees {
		for _, id := range s.Tree.Tips(s.Tree.Root()) {
			lab := s.Tree.Label(id)
			if subtrees[lab] {
				continue
			}
			if content, ok := collapsed[lab]; ok {
				for _, c := range content {
					set[c] = true
				}
				continue
			}
			set[lab] = true
		}
	}

	labels := make([]string, 0, len(set))
	for lab := range set {
		labels = append(labels, lab)
	}
	slices.Sort(labels)
	return labels
}

// Subtree returns the subtree with the given name.
func (r *Result) Subtree(name string) (Subtree, bool) {
	for _, s := range r.Subtrees {
		if s.Name == name {
			return s, true
		}
	}
	return Subtree{}, false
}
