// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package reorder implements a command to sort
// the nodes of a tree by clade size.
package reorder

import (
	"github.com/js-arias/command"
	"github.com/js-arias/phylofunk/cmd/phylofunk/input"
	"github.com/js-arias/phylofunk/treeio"
)

var Command = &command.Command{
	Usage: `reorder [--increasing | --decreasing]
	[-i|--input <tree-file>] [--tsv] [--project <project-file>]
	[-o|--output <file>] [-f|--format <format>]`,
	Short: "sort the nodes of a tree by clade size",
	Long: `
Command reorder reads one or more trees and sorts the children of each node
by the number of terminals in its clade. Clades of the same size keep its
previous order.

By default, or if the flag --increasing is set, the smallest clades are put
first. With the flag --decreasing the largest clades are put first.

The trees are read from the file indicated with the flag --input, or -i. If
no file is given, the tree file of the project set with the flag --project
will be used, and if there is no project, the trees will be read from the
standard input.

The resulting trees are written in the standard output, or in the file set
with the flag --output, or -o, by default in nexus format; use the flag
--format, or -f, to set a different format.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var in input.Options
var out input.Output
var increasing bool
var decreasing bool

func setFlags(c *command.Command) {
	in.SetFlags(c.Flags())
	out.SetFlags(c.Flags(), treeio.Nexus)
	c.Flags().BoolVar(&increasing, "increasing", false, "")
	c.Flags().BoolVar(&decreasing, "decreasing", false, "")
}

func run(c *command.Command, args []string) error {
	if increasing && decreasing {
		return c.UsageError("flags --increasing and --decreasing are exclusive")
	}
	if err := out.Check(); err != nil {
		return err
	}

	ts, err := in.Trees(c.Stdin())
	if err != nil {
		return err
	}
	for _, t := range ts {
		t.Ladderize(!decreasing)
	}
	return out.Write(c.Stdout(), ts)
}
