// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package extract implements a command to extract
// the attributes of the terminals of a tree.
package extract

import (
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/phylofunk/cmd/phylofunk/input"
	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/metadata"
	"golang.org/x/exp/slices"
)

var Command = &command.Command{
	Usage: `extract [--tip-attributes <attributes>]
	[--taxa <taxon-list>] [--taxon-file <file>]
	[-c|--id-column <column>]
	[-n|--id-field <number>] [--field-delimiter <delimiter>]
	[--ignore-missing]
	[-i|--input <tree-file>] [--tsv] [--project <project-file>]
	[-o|--output <file>]`,
	Short: "extract the attributes of the terminals of a tree",
	Long: `
Command extract reads a tree and writes the attributes of its terminals as a
CSV table.

The first column of the table is the terminal label, and it is named with the
value of the flag --id-column, or -c (by default "taxon"). The other columns
are the attributes set with the flag --tip-attributes, as a comma-separated
list. By default all the attributes defined on the terminals are written.

By default all terminals are written. To write only some terminals, use the
flag --taxa with a comma-separated list of taxa, and/or the flag --taxon-file
with a tree file or a CSV table (see "phylofunk help context"). Terminal
labels are matched using the flags --id-field, or -n, and --field-delimiter.
By default, a taxon not found in the tree is an error; use the flag
--ignore-missing to ignore them.

The tree is read from the file indicated with the flag --input, or -i. If no
file is given, the tree file of the project set with the flag --project will
be used, and if there is no project, the tree will be read from the standard
input. Only the first tree of the file is used.

The table is written in the standard output, or in the file set with the flag
--output, or -o.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var in input.Options
var tipAttrs string
var taxaFlag string
var taxonFile string
var ignoreMissing bool
var output string

func setFlags(c *command.Command) {
	in.SetFlags(c.Flags())
	in.SetKeyFlags(c.Flags())
	c.Flags().StringVar(&tipAttrs, "tip-attributes", "", "")
	c.Flags().StringVar(&taxaFlag, "taxa", "", "")
	c.Flags().StringVar(&taxonFile, "taxon-file", "", "")
	c.Flags().BoolVar(&ignoreMissing, "ignore-missing", false, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) (err error) {
	t, err := in.Tree(c.Stdin())
	if err != nil {
		return err
	}

	ks := in.KeySpec()
	keys, err := metadata.TipKeys(t, ks)
	if err != nil {
		return err
	}

	taxa := metadata.ParseList(taxaFlag)
	if taxonFile != "" {
		set, err := metadata.ReadTaxaFile(taxonFile, "", ks)
		if err != nil {
			return err
		}
		taxa = taxa.Union(set)
	}

	var tips []int
	if len(taxa) == 0 {
		tips = t.Tips(t.Root())
	} else {
		found := make(map[string]bool, len(taxa))
		for _, id := range t.Tips(t.Root()) {
			if k := keys[id]; taxa.Has(k) {
				found[k] = true
				tips = append(tips, id)
			}
		}
		if !ignoreMissing {
			for _, k := range taxa.Keys() {
				if !found[k] {
					return errkind.Lookup("taxon %q not found in tree %q", k, t.Name())
				}
			}
		}
	}

	var attrs []string
	if tipAttrs != "" {
		attrs = splitList(tipAttrs)
	}

	w, closeFn, err := input.Create(c.Stdout(), output)
	if err != nil {
		return err
	}
	defer func() {
		if e := closeFn(); e != nil && err == nil {
			err = e
		}
	}()
	return metadata.WriteTerms(w, t, tips, in.IDColumn, attrs)
}

// SplitList splits a comma-separated list,
// keeping the order of the first appearance of each element.
func splitList(list string) []string {
	var ls []string
	for _, s := range strings.Split(list, ",") {
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(ls, s) {
			continue
		}
		ls = append(ls, s)
	}
	return ls
}
