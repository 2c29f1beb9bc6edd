// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// PhyloFunk is a tool to annotate large phylogenies
// with metadata,
// propagate attributes along the tree,
// and extract the phylogenetic context of target taxa.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/phylofunk/cmd/phylofunk/annotate"
	"github.com/js-arias/phylofunk/cmd/phylofunk/assign"
	"github.com/js-arias/phylofunk/cmd/phylofunk/cluster"
	"github.com/js-arias/phylofunk/cmd/phylofunk/contextcmd"
	"github.com/js-arias/phylofunk/cmd/phylofunk/convert"
	"github.com/js-arias/phylofunk/cmd/phylofunk/draw"
	"github.com/js-arias/phylofunk/cmd/phylofunk/extract"
	"github.com/js-arias/phylofunk/cmd/phylofunk/haplotypes"
	"github.com/js-arias/phylofunk/cmd/phylofunk/params"
	"github.com/js-arias/phylofunk/cmd/phylofunk/prj"
	"github.com/js-arias/phylofunk/cmd/phylofunk/prune"
	"github.com/js-arias/phylofunk/cmd/phylofunk/reorder"
	"github.com/js-arias/phylofunk/cmd/phylofunk/split"
	"github.com/js-arias/phylofunk/cmd/phylofunk/stats"
)

var app = &command.Command{
	Usage: "phylofunk <command> [<argument>...]",
	Short: "a tool for annotation and context extraction of large phylogenies",
}

func init() {
	app.Add(annotate.Command)
	app.Add(assign.Command)
	app.Add(cluster.Command)
	app.Add(contextcmd.Command)
	app.Add(convert.Command)
	app.Add(draw.Command)
	app.Add(extract.Command)
	app.Add(haplotypes.Command)
	app.Add(params.Command)
	app.Add(prj.Command)
	app.Add(prune.Command)
	app.Add(reorder.Command)
	app.Add(split.Command)
	app.Add(stats.Command)
}

func main() {
	app.Main()
}
