// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package assign implements a command to assign lineages
// to the terminals of a tree.
package assign

import (
	"bytes"

	"github.com/js-arias/command"
	"github.com/js-arias/phylofunk/cmd/phylofunk/input"
	"github.com/js-arias/phylofunk/metadata"
	"github.com/js-arias/phylofunk/propagate"
	"github.com/js-arias/phylofunk/treeio"
	"go.uber.org/zap"
)

var Command = &command.Command{
	Usage: `assign -a|--attribute <column> [--out-attribute <name>]
	[--lineage-prefix <prefix>]
	[-i|--input <tree-file>] [--tsv] [--project <project-file>]
	[-m|--metadata <file>] [-c|--id-column <column>]
	[-n|--id-field <number>] [--field-delimiter <delimiter>]
	[--ignore-missing] [-d|--output-metadata <file>]
	[-o|--output <file>] [-f|--format <format>] [-v|--verbose]`,
	Short: "assign lineages to the terminals of a tree",
	Long: `
Command assign reads a tree and a metadata table with the lineage of each
terminal, and assigns to each terminal the lineage of the lineage boundary
that contains it.

First, the lineage of each terminal is read from the metadata column set with
the flag --attribute, or -a. Then, each internal node is labeled with the most
frequent lineage among its descendant terminals (ties are resolved by taking
the lexically smallest lineage, and terminals without a lineage are used
only if no descendant has a lineage). An internal node is a lineage boundary if its
lineage is different from the lineage of its parent, and either the parent
does not have a lineage, or the lineage of the node is a sublineage of the
parent lineage (in dot notation, e.g., B.1.1 is a sublineage of B.1). Each
terminal receives the lineage of its closest boundary ancestor, in the
attribute set with the flag --out-attribute (by default, the name of the
attribute, with the suffix "_assigned"). Use the flag --lineage-prefix to add
a prefix to the assigned lineage names.

The tree is read from the file indicated with the flag --input, or -i. If no
file is given, the tree file of the project set with the flag --project will
be used, and if there is no project, the tree will be read from the standard
input. The metadata table is read from the file set with the flag --metadata,
or -m, or from the project. See "phylofunk help annotate" for the flags used
to match terminals with the metadata.

The resulting trees are written in the standard output, or in the file set
with the flag --output, or -o, by default in nexus format; use the flag
--format, or -f, to set a different format. If the flag --output-metadata,
or -d, is defined, a CSV table with the assigned lineage of each terminal
will be written in the indicated file. If there are several trees, the first
column of the table is the name of the tree. Files are only written if all
the trees were processed without errors.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var in input.Options
var out input.Output
var attrName string
var outAttr string
var linPrefix string
var outMetadata string
var ignoreMissing bool

func setFlags(c *command.Command) {
	in.SetFlags(c.Flags())
	in.SetMetadataFlags(c.Flags())
	out.SetFlags(c.Flags(), treeio.Nexus)
	c.Flags().StringVar(&attrName, "attribute", "", "")
	c.Flags().StringVar(&attrName, "a", "", "")
	c.Flags().StringVar(&outAttr, "out-attribute", "", "")
	c.Flags().StringVar(&linPrefix, "lineage-prefix", "", "")
	c.Flags().StringVar(&outMetadata, "output-metadata", "", "")
	c.Flags().StringVar(&outMetadata, "d", "", "")
	c.Flags().BoolVar(&ignoreMissing, "ignore-missing", false, "")
}

func run(c *command.Command, args []string) error {
	if attrName == "" {
		return c.UsageError("expecting lineage attribute, flag --attribute")
	}
	if outAttr == "" {
		outAttr = attrName + "_assigned"
	}
	if err := out.Check(); err != nil {
		return err
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

	var rename func(string) string
	if linPrefix != "" {
		rename = func(s string) string { return linPrefix + s }
	}

	ks := in.KeySpec()
	for _, t := range ts {
		if _, err := metadata.AnnotateString(t, idx, ks, attrName, ignoreMissing); err != nil {
			return err
		}
		root, err := propagate.Consensus(t, attrName)
		if err != nil {
			return err
		}
		logger.Debug("consensus",
			zap.String("tree", t.Name()),
			zap.Int("lineages", len(root)),
			zap.String("root", propagate.Mode(root)),
		)
		if err := propagate.AssignLineages(t, attrName, outAttr, rename); err != nil {
			return err
		}
	}

	// build all outputs before writing any file
	data, err := out.Encode(ts)
	if err != nil {
		return err
	}
	var md bytes.Buffer
	if outMetadata != "" {
		if err := metadata.WriteForest(&md, ts, "sequence_name", []string{outAttr}); err != nil {
			return err
		}
	}

	if outMetadata != "" {
		if err := input.WriteFile(outMetadata, md.Bytes()); err != nil {
			return err
		}
	}
	return out.WriteBytes(c.Stdout(), data)
}
