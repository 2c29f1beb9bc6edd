// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package metadata

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/tree"
)

// Annotate sets the values of the indicated columns
// as attributes of the terminals of a tree.
// If no column is given,
// all columns except the index are used.
// Values that are numbers are stored as numbers,
// any other value is stored as a string,
// and empty values are ignored.
//
// If a terminal is not found in the index
// it returns an error,
// unless ignoreMissing is true.
// It returns the number of annotated terminals.
func Annotate(t *tree.Tree, idx *Index, ks KeySpec, columns []string, ignoreMissing bool) (int, error) {
	columns, err := idx.columns(columns)
	if err != nil {
		return 0, err
	}
	return annotate(t, idx, ks, columns, ignoreMissing, cellValue)
}

// AnnotateString sets the values of a column
// as string attributes of the terminals of a tree.
// It is like Annotate,
// but values that look like numbers
// (for example lineage names, or hashes)
// are kept as strings.
func AnnotateString(t *tree.Tree, idx *Index, ks KeySpec, column string, ignoreMissing bool) (int, error) {
	columns, err := idx.columns([]string{column})
	if err != nil {
		return 0, err
	}
	return annotate(t, idx, ks, columns, ignoreMissing, tree.StringValue)
}

func annotate(t *tree.Tree, idx *Index, ks KeySpec, columns []string, ignoreMissing bool, value func(string) tree.Value) (int, error) {
	n := 0
	for _, id := range t.Nodes() {
		if !t.IsTerm(id) {
			continue
		}
		rec, err := idx.Lookup(t.Taxon(id), ks)
		if err != nil {
			return n, err
		}
		if rec == nil {
			if ignoreMissing {
				continue
			}
			return n, errkind.Lookup("taxon %q not found in metadata", t.Taxon(id))
		}

		for _, c := range columns {
			v, _ := rec.Get(c)
			if v == "" {
				continue
			}
			t.SetAttr(id, c, value(v))
		}
		n++
	}
	return n, nil
}

func cellValue(s string) tree.Value {
	if v := tree.ParseValue(s); v.Kind() == tree.Number {
		return v
	}
	return tree.StringValue(s)
}

// Relabel appends the values of the indicated columns
// to the labels of the terminals of a tree,
// separated by the delimiter.
// If the delimiter is empty,
// DefaultDelimiter is used.
//
// If a terminal is not found in the index
// it returns an error,
// unless ignoreMissing is true.
func Relabel(t *tree.Tree, idx *Index, ks KeySpec, columns []string, delimiter string, ignoreMissing bool) error {
	if len(columns) == 0 {
		return errkind.Config("no label fields defined")
	}
	columns, err := idx.columns(columns)
	if err != nil {
		return err
	}
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	labels := make(map[int]string)
	for _, id := range t.Nodes() {
		if !t.IsTerm(id) {
			continue
		}
		rec, err := idx.Lookup(t.Taxon(id), ks)
		if err != nil {
			return err
		}
		if rec == nil {
			if ignoreMissing {
				continue
			}
			return errkind.Lookup("taxon %q not found in metadata", t.Taxon(id))
		}

		f := []string{t.Taxon(id)}
		for _, c := range columns {
			v, _ := rec.Get(c)
			f = append(f, v)
		}
		labels[id] = strings.Join(f, delimiter)
	}

	for id, lab := range labels {
		t.SetLabel(id, lab)
	}
	if err := t.Validate(); err != nil {
		return errkind.Format("after relabeling: %v", err)
	}
	return nil
}

func (idx *Index) columns(columns []string) ([]string, error) {
	if len(columns) == 0 {
		var cols []string
		for _, h := range idx.header {
			if h == idx.column {
				continue
			}
			cols = append(cols, h)
		}
		return cols, nil
	}
	for _, c := range columns {
		if !idx.HasColumn(c) {
			return nil, errkind.Config("column %q not found in metadata table", c)
		}
	}
	return columns, nil
}

// WriteTips writes the attributes of the terminals of a tree
// as a CSV table.
// The first column is the taxon label,
// and the other columns are the indicated attributes.
// If no attribute is given,
// all the attributes defined in the terminals are used,
// sorted lexically.
func WriteTips(w io.Writer, t *tree.Tree, column string, attrs []string) error {
	return WriteTerms(w, t, t.Tips(t.Root()), column, attrs)
}

// WriteTerms is like WriteTips,
// but only the indicated terminals are written.
func WriteTerms(w io.Writer, t *tree.Tree, tips []int, column string, attrs []string) error {
	if len(attrs) == 0 {
		set := make(map[string]bool)
		for _, id := range tips {
			for _, n := range t.AttrNames(id) {
				set[n] = true
			}
		}
		for n := range set {
			attrs = append(attrs, n)
		}
		slices.Sort(attrs)
	}
	if column == "" {
		column = "taxon"
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{column}, attrs...)); err != nil {
		return errkind.IO(fmt.Errorf("while writing header: %w", err))
	}
	for _, id := range tips {
		row := make([]string, 0, len(attrs)+1)
		row = append(row, t.Taxon(id))
		for _, a := range attrs {
			v, ok := t.Attr(id, a)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, v.String())
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

// WriteForest writes the attributes of the terminals
// of a set of trees
// as a single CSV table.
// If there is a single tree,
// the table is the same as WriteTips,
// otherwise,
// the first column is the name of the tree.
func WriteForest(w io.Writer, ts []*tree.Tree, column string, attrs []string) error {
	if len(ts) == 1 {
		return WriteTips(w, ts[0], column, attrs)
	}
	if column == "" {
		column = "taxon"
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"tree", column}, attrs...)); err != nil {
		return errkind.IO(fmt.Errorf("while writing header: %w", err))
	}
	for _, t := range ts {
		for _, id := range t.Tips(t.Root()) {
			row := make([]string, 0, len(attrs)+2)
			row = append(row, t.Name(), t.Taxon(id))
			for _, a := range attrs {
				v, ok := t.Attr(id, a)
				if !ok {
					row = append(row, "")
					continue
				}
				row = append(row, v.String())
			}
			if err := cw.Write(row); err != nil {
				return errkind.IO(err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errkind.IO(fmt.Errorf("while writing data: %w", err))
	}
	return nil
}
