// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package cluster implements a command to label
// the clusters of nodes
// that share an attribute value.
package cluster

import (
	"bytes"
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/phylofunk/cmd/phylofunk/input"
	"github.com/js-arias/phylofunk/metadata"
	"github.com/js-arias/phylofunk/propagate"
	"github.com/js-arias/phylofunk/tree"
	"github.com/js-arias/phylofunk/treeio"
)

var Command = &command.Command{
	Usage: `cluster -a|--attribute <name> --value <value>
	[--cluster-name <name>] [--cluster-prefix <prefix>]
	[-i|--input <tree-file>] [--tsv] [--project <project-file>]
	[-d|--output-metadata <file>]
	[-o|--output <file>] [-f|--format <format>] [-v|--verbose]`,
	Short: "label clusters of nodes with an attribute value",
	Long: `
Command cluster reads a tree, and search for clusters of connected nodes in
which the attribute set with the flag --attribute, or -a, has the value set
with the flag --value. A cluster is a maximal group of nodes, rooted at a node
whose parent does not have the value.

Clusters are numbered from 1 in pre-order, and the number of the cluster, with
the prefix set with the flag --cluster-prefix, is stored in the attribute set
with the flag --cluster-name (default "cluster") of each node of the cluster.

The tree is read from the file indicated with the flag --input, or -i. If no
file is given, the tree file of the project set with the flag --project will
be used, and if there is no project, the tree will be read from the standard
input.

The resulting trees are written in the standard output, or in the file set
with the flag --output, or -o, by default in nexus format; use the flag
--format, or -f, to set a different format. If the flag --output-metadata,
or -d, is defined, a CSV table with the cluster of each terminal will be
written in the indicated file. If there are several trees, the first column
of the table is the name of the tree.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var in input.Options
var out input.Output
var attrName string
var valueFlag string
var clusterName string
var clusterPrefix string
var outMetadata string

func setFlags(c *command.Command) {
	in.SetFlags(c.Flags())
	out.SetFlags(c.Flags(), treeio.Nexus)
	c.Flags().StringVar(&attrName, "attribute", "", "")
	c.Flags().StringVar(&attrName, "a", "", "")
	c.Flags().StringVar(&valueFlag, "value", "", "")
	c.Flags().StringVar(&clusterName, "cluster-name", "cluster", "")
	c.Flags().StringVar(&clusterPrefix, "cluster-prefix", "", "")
	c.Flags().StringVar(&outMetadata, "output-metadata", "", "")
	c.Flags().StringVar(&outMetadata, "d", "", "")
}

func run(c *command.Command, args []string) error {
	if attrName == "" {
		return c.UsageError("expecting attribute name, flag --attribute")
	}
	if valueFlag == "" {
		return c.UsageError("expecting attribute value, flag --value")
	}
	if err := out.Check(); err != nil {
		return err
	}

	ts, err := in.Trees(c.Stdin())
	if err != nil {
		return err
	}

	v := tree.ParseValue(valueFlag)
	for _, t := range ts {
		n := propagate.Clusters(t, attrName, v, clusterName, clusterPrefix)
		if in.Verbose {
			fmt.Fprintf(c.Stderr(), "# tree %q: %d clusters\n", t.Name(), n)
		}
	}

	data, err := out.Encode(ts)
	if err != nil {
		return err
	}
	var md bytes.Buffer
	if outMetadata != "" {
		if err := metadata.WriteForest(&md, ts, "sequence_name", []string{clusterName}); err != nil {
			return err
		}
		if err := input.WriteFile(outMetadata, md.Bytes()); err != nil {
			return err
		}
	}
	return out.WriteBytes(c.Stdout(), data)
}
