// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package metadata

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/treeio"
)

// A TaxonSet is a set of taxon keys.
type TaxonSet map[string]bool

// NewTaxonSet returns a taxon set
// with the indicated keys.
// Empty keys are ignored.
func NewTaxonSet(keys ...string) TaxonSet {
	ts := make(TaxonSet, len(keys))
	for _, k := range keys {
		ts.Add(k)
	}
	return ts
}

// ParseList returns a taxon set
// from a comma separated list of keys.
func ParseList(list string) TaxonSet {
	return NewTaxonSet(strings.Split(list, ",")...)
}

// Add adds a key to the set.
func (ts TaxonSet) Add(key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	ts[key] = true
}

// Has returns true if the key is in the set.
func (ts TaxonSet) Has(key string) bool {
	return ts[key]
}

// Keys returns the keys of the set,
// sorted lexically.
func (ts TaxonSet) Keys() []string {
	keys := make([]string, 0, len(ts))
	for k := range ts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Union returns a new set
// with the keys of both sets.
func (ts TaxonSet) Union(o TaxonSet) TaxonSet {
	u := make(TaxonSet, len(ts)+len(o))
	for k := range ts {
		u[k] = true
	}
	for k := range o {
		u[k] = true
	}
	return u
}

// ReadTaxa reads a taxon set.
// If the content is a tree file
// (in newick or nexus format),
// the keys are the keys of the terminals
// of the first tree,
// as defined by a KeySpec.
// Otherwise the content is read as a metadata table
// and the keys are the index keys of the table.
func ReadTaxa(r io.Reader, indexColumn string, ks KeySpec) (TaxonSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errkind.IO(err)
	}

	if _, err := treeio.Detect(data); err == nil {
		ts, err := treeio.Read(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		keys, err := TipKeys(ts[0], ks)
		if err != nil {
			return nil, err
		}
		set := make(TaxonSet, len(keys))
		for _, k := range keys {
			set.Add(k)
		}
		return set, nil
	}

	idx, err := Read(bytes.NewReader(data), indexColumn)
	if err != nil {
		return nil, err
	}
	return NewTaxonSet(idx.Keys()...), nil
}

// ReadTaxaFile reads a taxon set from a file.
func ReadTaxaFile(name, indexColumn string, ks KeySpec) (TaxonSet, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errkind.IO(err)
	}
	defer f.Close()

	ts, err := ReadTaxa(f, indexColumn, ks)
	if err != nil {
		return nil, fmt.Errorf("on taxon file %q: %w", name, err)
	}
	return ts, nil
}
