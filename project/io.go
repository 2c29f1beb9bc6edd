// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"path/filepath"
	"strings"

	"github.com/js-arias/phylofunk/colorkey"
	"github.com/js-arias/phylofunk/ctxparam"
	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/metadata"
	"github.com/js-arias/phylofunk/tree"
	"github.com/js-arias/phylofunk/treeio"
)

// Trees reads the trees of the tree file
// as defined in a project.
// Files with a ".tab" or ".tsv" extension
// are read as time-calibrated tree files.
func (p *Project) Trees() ([]*tree.Tree, error) {
	name := p.Path(Tree)
	if name == "" {
		return nil, errkind.Config("tree not defined in project %q", p.name)
	}
	return ReadTrees(name)
}

// ReadTrees reads the trees of a file.
// Files with a ".tab" or ".tsv" extension
// are read as time-calibrated tree files,
// otherwise the file format is detected
// from its content.
func ReadTrees(name string) ([]*tree.Tree, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tab", ".tsv":
		return treeio.ReadTimeTreeFile(name)
	}
	return treeio.ReadFile(name)
}

// Metadata reads the metadata table
// as defined in a project.
func (p *Project) Metadata(indexColumn string) (*metadata.Index, error) {
	name := p.Path(Metadata)
	if name == "" {
		return nil, errkind.Config("metadata not defined in project %q", p.name)
	}
	return metadata.ReadFile(name, indexColumn)
}

// Taxa reads the target taxa file
// as defined in a project.
func (p *Project) Taxa(indexColumn string, ks metadata.KeySpec) (metadata.TaxonSet, error) {
	name := p.Path(Taxa)
	if name == "" {
		return nil, errkind.Config("taxa not defined in project %q", p.name)
	}
	return metadata.ReadTaxaFile(name, indexColumn, ks)
}

// Params reads the context extraction parameters
// as defined in a project.
// If no parameter file is defined,
// it returns the default parameters.
func (p *Project) Params() (*ctxparam.CP, error) {
	name := p.Path(Params)
	if name == "" {
		return ctxparam.New(""), nil
	}
	return ctxparam.Read(name)
}

// Keys reads the color keys
// as defined in a project.
// If no key file is defined,
// it returns an empty key.
func (p *Project) Keys() (*colorkey.Key, error) {
	name := p.Path(Keys)
	if name == "" {
		return colorkey.New(), nil
	}
	return colorkey.Read(name)
}
