// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package annotate implements a command to annotate
// the terminals of a tree
// with the values of a metadata table.
package annotate

import (
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/phylofunk/cmd/phylofunk/input"
	"github.com/js-arias/phylofunk/metadata"
	"github.com/js-arias/phylofunk/treeio"
	"go.uber.org/zap"
)

var Command = &command.Command{
	Usage: `annotate [-i|--input <tree-file>] [--tsv] [--project <project-file>]
	[-m|--metadata <file>] [-c|--id-column <column>]
	[-n|--id-field <number>] [--field-delimiter <delimiter>]
	[--tip-attributes <columns>] [-l|--label-fields <columns>]
	[--ignore-missing] [--unique]
	[-o|--output <file>] [-f|--format <format>] [-v|--verbose]`,
	Short: "annotate tree terminals with metadata",
	Long: `
Command annotate reads a tree and a metadata table, and adds the values of the
metadata to the terminals of the tree, either as attributes of the terminals,
or as additional fields of the terminal labels.

The tree is read from the file indicated with the flag --input, or -i. If no
file is given, the tree file of the project set with the flag --project will
be used, and if there is no project, the tree will be read from the standard
input. By default the format of the tree (newick or nexus) is detected from
the file content, use the flag --tsv to read a tab-delimited file of
time-calibrated trees.

The metadata is a CSV file with a header, set with the flag --metadata, or -m
(or defined in the project). By default the first column of the table is used
to match the terminal labels, use the flag --id-column, or -c, to define a
different column. By default the whole terminal label is used as key; use the
flag --id-field, or -n, to use only a field of the label, with fields
separated by the delimiter set with the flag --field-delimiter (default "|").

Use the flag --tip-attributes with a comma-separated list of columns to add
the values as attributes of the terminals. Use "all" to add all the columns
of the table. Use the flag --label-fields, or -l, with a comma-separated list
of columns to append the values as fields of the terminal labels.

By default, a terminal without a metadata record is an error; use the flag
--ignore-missing to ignore them. If the flag --unique is set, duplicated
keys in the metadata table are an error.

The annotated trees are written in the standard output, or in the file set
with the flag --output, or -o. By default the output is written in nexus
format (the only format that keeps the attributes), use the flag --format,
or -f, to set a different format (newick or tsv).
	`,
	SetFlags: setFlags,
	Run:      run,
}

var in input.Options
var out input.Output
var tipAttrs string
var labelFields string
var ignoreMissing bool
var unique bool

func setFlags(c *command.Command) {
	in.SetFlags(c.Flags())
	in.SetMetadataFlags(c.Flags())
	out.SetFlags(c.Flags(), treeio.Nexus)
	c.Flags().StringVar(&tipAttrs, "tip-attributes", "", "")
	c.Flags().StringVar(&labelFields, "label-fields", "", "")
	c.Flags().StringVar(&labelFields, "l", "", "")
	c.Flags().BoolVar(&ignoreMissing, "ignore-missing", false, "")
	c.Flags().BoolVar(&unique, "unique", false, "")
}

func run(c *command.Command, args []string) error {
	if tipAttrs == "" && labelFields == "" {
		return c.UsageError("expecting flag --tip-attributes or --label-fields")
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
	if unique {
		if err := idx.Unique(); err != nil {
			return err
		}
	}
	ks := in.KeySpec()

	for _, t := range ts {
		if tipAttrs != "" {
			n, err := metadata.Annotate(t, idx, ks, columns(tipAttrs), ignoreMissing)
			if err != nil {
				return err
			}
			logger.Debug("annotated terminals",
				zap.String("tree", t.Name()),
				zap.Int("terminals", n),
			)
		}
		if labelFields != "" {
			if err := metadata.Relabel(t, idx, ks, columns(labelFields), in.Delimiter, ignoreMissing); err != nil {
				return err
			}
		}
	}

	return out.Write(c.Stdout(), ts)
}

func columns(list string) []string {
	if strings.ToLower(list) == "all" {
		return nil
	}
	var cols []string
	for _, s := range strings.Split(list, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		cols = append(cols, s)
	}
	return cols
}
