// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prune implements a command to remove
// terminals from a tree.
package prune

import (
	"bytes"
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/phylofunk/cmd/phylofunk/input"
	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/metadata"
	"github.com/js-arias/phylofunk/tree"
	"github.com/js-arias/phylofunk/treeio"
	"go.uber.org/zap"
)

var Command = &command.Command{
	Usage: `prune [--taxa <taxon-list>] [--taxon-file <file>]
	[--keep-taxa] [--ignore-missing]
	[-i|--input <tree-file>] [--tsv] [--project <project-file>]
	[-m|--metadata <file>] [-c|--id-column <column>]
	[-n|--id-field <number>] [--field-delimiter <delimiter>]
	[-d|--output-metadata <file>]
	[-o|--output <file>] [-f|--format <format>] [-v|--verbose]`,
	Short: "remove terminals from a tree",
	Long: `
Command prune reads one or more trees and removes a set of terminals. Internal
nodes without terminals are removed, and internal nodes with a single child
are merged with its child, adding its branch lengths.

The taxa are defined with the flag --taxa, as a comma-separated list of taxa,
and/or the flag --taxon-file, with a tree file or a CSV table (see
"phylofunk help context"). If the flag --metadata, or -m, is set, the keys of
the metadata table are also added to the taxa. Terminal labels are matched
using the flags --id-field, or -n, and --field-delimiter. By default, a taxon
not found in a tree is an error; use the flag --ignore-missing to ignore them.

By default the indicated taxa are removed. If the flag --keep-taxa is set,
the indicated taxa are kept, and all the other terminals are removed. It is
an error if a tree ends without terminals.

The trees are read from the file indicated with the flag --input, or -i. If
no file is given, the tree file of the project set with the flag --project
will be used, and if there is no project, the trees will be read from the
standard input.

The resulting trees are written in the standard output, or in the file set
with the flag --output, or -o, by default in nexus format; use the flag
--format, or -f, to set a different format. If the flag --output-metadata, or
-d, is defined, the rows of the metadata table for the terminals that remain
in the trees will be written in the indicated file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var in input.Options
var out input.Output
var taxaFlag string
var taxonFile string
var keepTaxa bool
var ignoreMissing bool
var outMetadata string

func setFlags(c *command.Command) {
	in.SetFlags(c.Flags())
	in.SetMetadataFlags(c.Flags())
	out.SetFlags(c.Flags(), treeio.Nexus)
	c.Flags().StringVar(&taxaFlag, "taxa", "", "")
	c.Flags().StringVar(&taxonFile, "taxon-file", "", "")
	c.Flags().BoolVar(&keepTaxa, "keep-taxa", false, "")
	c.Flags().BoolVar(&ignoreMissing, "ignore-missing", false, "")
	c.Flags().StringVar(&outMetadata, "output-metadata", "", "")
	c.Flags().StringVar(&outMetadata, "d", "", "")
}

func run(c *command.Command, args []string) error {
	if err := out.Check(); err != nil {
		return err
	}
	logger := in.Logger(c.Stderr())
	defer logger.Sync()

	ks := in.KeySpec()
	taxa := metadata.ParseList(taxaFlag)
	if taxonFile != "" {
		set, err := metadata.ReadTaxaFile(taxonFile, "", ks)
		if err != nil {
			return err
		}
		taxa = taxa.Union(set)
	}
	var idx *metadata.Index
	if in.Metadata != "" {
		var err error
		idx, err = metadata.ReadFile(in.Metadata, in.IDColumn)
		if err != nil {
			return err
		}
		taxa = taxa.Union(metadata.NewTaxonSet(idx.Keys()...))
	}
	if len(taxa) == 0 {
		return c.UsageError("expecting taxa, flags --taxa, --taxon-file, or --metadata")
	}
	if outMetadata != "" && idx == nil {
		return c.UsageError("flag --output-metadata requires flag --metadata")
	}

	ts, err := in.Trees(c.Stdin())
	if err != nil {
		return err
	}

	pruned := make([]*tree.Tree, 0, len(ts))
	var remain []string
	for _, t := range ts {
		pt, keys, err := prune(t, taxa, ks, logger)
		if err != nil {
			return err
		}
		pruned = append(pruned, pt)
		remain = append(remain, keys...)
	}

	data, err := out.Encode(pruned)
	if err != nil {
		return err
	}
	if outMetadata != "" {
		var md bytes.Buffer
		if err := idx.WriteRows(&md, remain); err != nil {
			return err
		}
		if err := input.WriteFile(outMetadata, md.Bytes()); err != nil {
			return err
		}
	}
	return out.WriteBytes(c.Stdout(), data)
}

// Prune returns a copy of a tree
// without the removed taxa,
// and the keys of the remaining terminals.
func prune(t *tree.Tree, taxa metadata.TaxonSet, ks metadata.KeySpec, logger *zap.Logger) (*tree.Tree, []string, error) {
	keys, err := metadata.TipKeys(t, ks)
	if err != nil {
		return nil, nil, err
	}

	found := make(map[string]bool, len(taxa))
	for _, k := range keys {
		if taxa.Has(k) {
			found[k] = true
		}
	}
	if !ignoreMissing {
		for _, k := range taxa.Keys() {
			if !found[k] {
				return nil, nil, errkind.Lookup("taxon %q not found in tree %q", k, t.Name())
			}
		}
	}

	pt := t.Subtree(t.Root(), func(id int) bool {
		return taxa.Has(keys[id]) == keepTaxa
	})
	if pt == nil {
		return nil, nil, errkind.Config("tree %q: all terminals removed", t.Name())
	}
	logger.Debug("pruned",
		zap.String("tree", t.Name()),
		zap.Int("terminals", len(keys)),
		zap.Int("removed", len(keys)-len(pt.Terms())),
	)

	var remain []string
	for _, id := range pt.Tips(pt.Root()) {
		k, err := ks.Key(pt.Taxon(id))
		if err != nil {
			return nil, nil, fmt.Errorf("tree %q: %w", t.Name(), err)
		}
		remain = append(remain, k)
	}
	return pt, remain, nil
}
