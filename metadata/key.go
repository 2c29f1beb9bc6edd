// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package metadata

import (
	"strings"

	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/tree"
)

// DefaultDelimiter is the delimiter
// used to split the fields of a tip label.
const DefaultDelimiter = "|"

// A KeySpec defines how the key of a tip label
// is extracted.
type KeySpec struct {
	// Field is the 1-based field of the label
	// used as key.
	// If Field is 0 or negative,
	// the whole label is the key.
	Field int

	// Delimiter is the string used to separate
	// the fields of a label.
	// If empty, DefaultDelimiter is used.
	Delimiter string
}

// Key returns the key of a tip label.
// It is an error if the label has fewer fields
// than the requested field.
func (ks KeySpec) Key(label string) (string, error) {
	if ks.Field <= 0 {
		return label, nil
	}
	d := ks.Delimiter
	if d == "" {
		d = DefaultDelimiter
	}
	f := strings.Split(label, d)
	if ks.Field > len(f) {
		return "", errkind.Format("tip label %q doesn't have enough fields (field %d)", label, ks.Field)
	}
	return f[ks.Field-1], nil
}

// TipKeys returns the key of each terminal of a tree,
// indexed by node ID.
func TipKeys(t *tree.Tree, ks KeySpec) (map[int]string, error) {
	keys := make(map[int]string)
	for _, id := range t.Nodes() {
		if !t.IsTerm(id) {
			continue
		}
		k, err := ks.Key(t.Taxon(id))
		if err != nil {
			return nil, err
		}
		keys[id] = k
	}
	return keys, nil
}
