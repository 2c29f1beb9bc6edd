// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package ctxtree implements the extraction of the phylogenetic context
// of a set of target terminals.
//
// The context of a target is the region of the tree
// around its ancestors.
// Each maximal region is cloned into a new tree
// (a subtree),
// and the branches that are far away from any target
// are collapsed into summary leaves,
// whose content is recorded in a manifest.
package ctxtree

import (
	"slices"

	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/metadata"
	"github.com/js-arias/phylofunk/tree"
	"go.uber.org/zap"
)

// Param are the parameters used for a context extraction.
type Param struct {
	// MaxParent is the number of ancestors
	// included for each target.
	// If 0, all ancestors up to the root are included.
	MaxParent int

	// MaxChild is the maximum number of levels
	// below an included node
	// before a branch is collapsed.
	// If 0, branches are never collapsed.
	MaxChild int

	// MaxSiblings is the maximum number of children
	// of a node before its children without targets
	// are clumped into a single collapsed leaf.
	// If 0, children are never clumped.
	MaxSiblings int

	// IgnoreMissing if true,
	// targets not found in the tree are ignored.
	IgnoreMissing bool
}

// DefaultParam returns the default parameters.
func DefaultParam() Param {
	return Param{
		MaxParent: 1,
	}
}

// A Subtree is a tree extracted from a source tree.
type Subtree struct {
	// Name of the subtree
	// in the form subtree_<n>.
	Name string

	// Root is the ID of the root
	// of the subtree in the source tree.
	Root int

	// Tree is the extracted tree.
	Tree *tree.Tree
}

// Collapsed is a leaf of an extracted tree
// that replaces a set of terminals.
type Collapsed struct {
	// Name of the collapsed leaf
	// in the form collapsed_<n>.
	Name string

	// Content is the set of labels
	// of the terminals replaced by the leaf,
	// sorted lexically.
	Content []string
}

// Result is the result of a context extraction.
type Result struct {
	Targets   []int
	Subtrees  []Subtree
	Collapsed []Collapsed
}

// Targets returns the IDs of the terminals of a tree
// whose key is in the taxon list or in the extra target list.
// The keys of the terminals are indexed by node ID.
//
// It is an error if both sets are empty.
// If ignoreMissing is false,
// it is an error if a key is not found in the tree.
func Targets(t *tree.Tree, keys map[int]string, taxa, extra metadata.TaxonSet, ignoreMissing bool) ([]int, error) {
	if len(taxa) == 0 && len(extra) == 0 {
		return nil, errkind.Config("context extraction requires a taxon list and/or additional target taxa")
	}
	want := taxa.Union(extra)

	found := make(map[string]bool, len(want))
	var targets []int
	for id, k := range keys {
		if !want.Has(k) {
			continue
		}
		found[k] = true
		targets = append(targets, id)
	}
	if !ignoreMissing {
		for _, k := range want.Keys() {
			if !found[k] {
				return nil, errkind.Lookup("taxon %q not found in tree %q", k, t.Name())
			}
		}
	}
	slices.Sort(targets)
	return targets, nil
}

// Extract extracts the context of the targets of a tree.
// The keys of the terminals are indexed by node ID
// (see metadata.TipKeys).
// If logger is nil,
// no logging is done.
func Extract(t *tree.Tree, keys map[int]string, taxa, extra metadata.TaxonSet, p Param, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	targets, err := Targets(t, keys, taxa, extra, p.IgnoreMissing)
	if err != nil {
		return nil, err
	}
	logger.Debug("targets",
		zap.String("tree", t.Name()),
		zap.Int("requested", len(taxa.Union(extra))),
		zap.Int("found", len(targets)),
	)

	x, err := NewExtractor(t, p, logger)
	if err != nil {
		return nil, err
	}
	x.Mark(targets)
	x.Discover()
	x.Collapse()
	x.Materialize()

	return &Result{
		Targets:   targets,
		Subtrees:  x.Subtrees(),
		Collapsed: x.Manifest(),
	}, nil
}
