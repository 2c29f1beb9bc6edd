// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package haplotypes implements a command to label
// internal nodes with the haplotype
// of their identical terminals.
package haplotypes

import (
	"github.com/js-arias/command"
	"github.com/js-arias/phylofunk/cmd/phylofunk/input"
	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/metadata"
	"github.com/js-arias/phylofunk/propagate"
	"github.com/js-arias/phylofunk/treeio"
	"go.uber.org/zap"
)

var Command = &command.Command{
	Usage: `haplotypes [-a|--attribute <column>] [--threshold <length>]
	[-m|--metadata <file>] [-c|--id-column <column>]
	[-n|--id-field <number>] [--field-delimiter <delimiter>]
	[--ignore-missing]
	[-i|--input <tree-file>] [--tsv] [--project <project-file>]
	[-o|--output <file>] [-f|--format <format>] [-v|--verbose]`,
	Short: "label internal nodes with haplotypes",
	Long: `
Command haplotypes reads a tree and a metadata table with the haplotype (for
example, the hash of the sequence) of each terminal, and labels each internal
node with the most frequent haplotype among its terminal children that are
identical to the node (i.e., with a branch length smaller than a threshold).

The haplotype of the terminals is read from the metadata column set with the
flag --attribute, or -a (default "sequence_hash"). The metadata table is read
from the file set with the flag --metadata, or -m, or from the project. See
"phylofunk help annotate" for the flags used to match terminals with the
metadata.

By default, the threshold is 1% of a single substitution in the SARS-CoV-2
genome (0.01/29903). Use the flag --threshold to set a different value.

The tree is read from the file indicated with the flag --input, or -i. If no
file is given, the tree file of the project set with the flag --project will
be used, and if there is no project, the tree will be read from the standard
input.

The trees are written in the standard output, or in the file set with the
flag --output, or -o. As the haplotypes are stored as node attributes, the
only valid output format is nexus.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var in input.Options
var out input.Output
var attrName string
var threshold float64
var ignoreMissing bool

func setFlags(c *command.Command) {
	in.SetFlags(c.Flags())
	in.SetMetadataFlags(c.Flags())
	out.SetFlags(c.Flags(), treeio.Nexus)
	c.Flags().StringVar(&attrName, "attribute", "sequence_hash", "")
	c.Flags().StringVar(&attrName, "a", "sequence_hash", "")
	c.Flags().Float64Var(&threshold, "threshold", propagate.ZeroBranch, "")
	c.Flags().BoolVar(&ignoreMissing, "ignore-missing", false, "")
}

func run(c *command.Command, args []string) error {
	if f, err := treeio.ParseFormat(out.Format); err != nil {
		return err
	} else if f != treeio.Nexus {
		return errkind.Config("haplotype annotations are only compatible with nexus output format")
	}
	logger := in.Logger(c.Stderr())
	defer logger.Sync()

	ts, err := in.Trees(c.Stdin())
	if err != nil {
		return err
	}
	idx, err := in.ReadMetadata()
	if err != nil {
		return err
	}

	ks := in.KeySpec()
	for _, t := range ts {
		if _, err := metadata.AnnotateString(t, idx, ks, attrName, ignoreMissing); err != nil {
			return err
		}
		n, err := propagate.Haplotypes(t, attrName, threshold)
		if err != nil {
			return err
		}
		logger.Info("haplotypes",
			zap.String("tree", t.Name()),
			zap.String("attribute", attrName),
			zap.Int("internal nodes", t.Len()-len(t.Terms())),
			zap.Int("labeled", n),
		)
	}

	return out.Write(c.Stdout(), ts)
}
