// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package convert implements a command to convert
// a tree file into a different format.
package convert

import (
	"github.com/js-arias/command"
	"github.com/js-arias/phylofunk/cmd/phylofunk/input"
	"github.com/js-arias/phylofunk/treeio"
)

var Command = &command.Command{
	Usage: `convert [-i|--input <tree-file>] [--tsv] [--project <project-file>]
	[-o|--output <file>] [-f|--format <format>]`,
	Short: "convert a tree file into a different format",
	Long: `
Command convert reads the trees of a tree file and writes them in a different
format.

The trees are read from the file indicated with the flag --input, or -i. If no
file is given, the tree file of the project set with the flag --project will
be used, and if there is no project, the trees will be read from the standard
input. By default the format of the input (newick or nexus) is detected from
the file content, use the flag --tsv to read a tab-delimited file of
time-calibrated trees.

The trees are written in the standard output, or in the file set with the
flag --output, or -o. The output format is set with the flag --format, or -f.
Valid formats are:

	nexus   nexus format, with node attributes as comments (default)
	newick  newick format, without node attributes
	tsv     tab-delimited format for time-calibrated trees,
	        branch lengths are interpreted as million years
	`,
	SetFlags: setFlags,
	Run:      run,
}

var in input.Options
var out input.Output

func setFlags(c *command.Command) {
	in.SetFlags(c.Flags())
	out.SetFlags(c.Flags(), treeio.Nexus)
}

func run(c *command.Command, args []string) error {
	if err := out.Check(); err != nil {
		return err
	}
	ts, err := in.Trees(c.Stdin())
	if err != nil {
		return err
	}
	return out.Write(c.Stdout(), ts)
}
