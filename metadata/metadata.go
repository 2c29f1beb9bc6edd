// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package metadata implements tables of metadata
// indexed by a column
// and its binding to the terminals of a tree.
//
// A metadata table is a comma-delimited file (CSV)
// with a header row.
// By default the first column is used as the index,
// but any other column can be selected.
package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/js-arias/phylofunk/errkind"
)

// A Record is a row of a metadata table.
type Record struct {
	key    string
	fields map[string]int
	header []string
	values []string
}

// Key returns the index key of the record.
func (r *Record) Key() string {
	return r.key
}

// Get returns the value of a column.
func (r *Record) Get(col string) (string, bool) {
	i, ok := r.fields[col]
	if !ok {
		return "", false
	}
	return r.values[i], true
}

// Fields returns the column names of the record,
// in the order of the table.
func (r *Record) Fields() []string {
	return slices.Clone(r.header)
}

// Values returns the values of the record,
// in the order of the table.
func (r *Record) Values() []string {
	return slices.Clone(r.values)
}

// An Index is a metadata table
// indexed by the values of a column.
type Index struct {
	column string
	header []string
	fields map[string]int
	recs   map[string]*Record
	dups   map[string]int
}

// Build creates a new index from a header
// and a set of rows.
// If indexColumn is empty,
// the first column will be used as the index.
//
// If there are duplicated keys,
// the last row with the key is kept,
// and the key is recorded as a duplicate.
func Build(header []string, rows [][]string, indexColumn string) (*Index, error) {
	if len(header) == 0 {
		return nil, errkind.Format("empty header")
	}

	head := make([]string, len(header))
	fields := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := fields[h]; dup {
			return nil, errkind.Format("repeated column %q", h)
		}
		fields[h] = i
		head[i] = h
	}

	col := head[0]
	if indexColumn != "" {
		if _, ok := fields[indexColumn]; !ok {
			return nil, errkind.Config("index column %q not found in metadata table", indexColumn)
		}
		col = indexColumn
	}
	ic := fields[col]

	idx := &Index{
		column: col,
		header: head,
		fields: fields,
		recs:   make(map[string]*Record, len(rows)),
		dups:   make(map[string]int),
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, errkind.Format("row %d: got %d fields, want %d", i+1, len(row), len(header))
		}
		key := row[ic]
		if _, ok := idx.recs[key]; ok {
			idx.dups[key]++
		}
		idx.recs[key] = &Record{
			key:    key,
			fields: fields,
			header: idx.header,
			values: slices.Clone(row),
		}
	}
	return idx, nil
}

// Read reads a metadata table
// from a CSV file with a header row.
func Read(r io.Reader, indexColumn string) (*Index, error) {
	cr := csv.NewReader(r)

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errkind.Format("empty metadata table")
	}
	if err != nil {
		return nil, errkind.Format("header: %v", err)
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errkind.Format("%v", err)
		}
		rows = append(rows, row)
	}
	return Build(head, rows, indexColumn)
}

// ReadFile reads a metadata table from a file.
func ReadFile(name, indexColumn string) (*Index, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errkind.IO(err)
	}
	defer f.Close()

	idx, err := Read(f, indexColumn)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %w", name, err)
	}
	return idx, nil
}

// Column returns the name of the index column.
func (idx *Index) Column() string {
	return idx.column
}

// Header returns the column names of the table.
func (idx *Index) Header() []string {
	return slices.Clone(idx.header)
}

// HasColumn returns true if the table has the indicated column.
func (idx *Index) HasColumn(col string) bool {
	_, ok := idx.fields[col]
	return ok
}

// Len returns the number of different keys
// in the index.
func (idx *Index) Len() int {
	return len(idx.recs)
}

// Keys returns the keys of the index,
// sorted lexically.
func (idx *Index) Keys() []string {
	keys := make([]string, 0, len(idx.recs))
	for k := range idx.recs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Record returns the record with the given key.
func (idx *Index) Record(key string) (*Record, bool) {
	r, ok := idx.recs[key]
	return r, ok
}

// Lookup returns the record of a tip label
// using the key defined by a KeySpec.
// If there is no record,
// it returns nil.
func (idx *Index) Lookup(label string, ks KeySpec) (*Record, error) {
	key, err := ks.Key(label)
	if err != nil {
		return nil, err
	}
	return idx.recs[key], nil
}

// Duplicates returns the keys
// that were found more than once
// when building the index.
func (idx *Index) Duplicates() []string {
	keys := make([]string, 0, len(idx.dups))
	for k := range idx.dups {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Unique returns an error
// if the index was built with duplicated keys.
func (idx *Index) Unique() error {
	dups := idx.Duplicates()
	if len(dups) == 0 {
		return nil
	}
	if len(dups) > 5 {
		return errkind.Config("%d duplicated index keys (first: %q)", len(dups), dups[0])
	}
	return errkind.Config("duplicated index keys: %s", strings.Join(dups, ", "))
}

// WriteRows writes the header of the table,
// and the records with the given keys,
// in the order of the keys.
// Keys without a record are ignored.
func (idx *Index) WriteRows(w io.Writer, keys []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(idx.header); err != nil {
		return errkind.IO(fmt.Errorf("while writing header: %w", err))
	}
	for _, k := range keys {
		r, ok := idx.recs[k]
		if !ok {
			continue
		}
		if err := cw.Write(r.values); err != nil {
			return errkind.IO(err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errkind.IO(fmt.Errorf("while writing data: %w", err))
	}
	return nil
}
