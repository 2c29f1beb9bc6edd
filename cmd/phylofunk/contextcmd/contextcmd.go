// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package contextcmd implements a command to extract
// the context subtrees of a set of target taxa.
package contextcmd

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/js-arias/command"
	"github.com/js-arias/phylofunk/cmd/phylofunk/input"
	"github.com/js-arias/phylofunk/ctxparam"
	"github.com/js-arias/phylofunk/ctxtree"
	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/metadata"
	"github.com/js-arias/phylofunk/project"
	"github.com/js-arias/phylofunk/tree"
	"github.com/js-arias/phylofunk/treeio"
	"go.uber.org/zap"
)

var Command = &command.Command{
	Usage: `context [--taxa <taxon-list>] [--taxon-file <file>]
	[-m|--metadata <file>] [-c|--id-column <column>]
	[-n|--id-field <number>] [--field-delimiter <delimiter>]
	[--params <file>] [--max-parent <level>] [--max-child <level>]
	[--max-siblings <number>] [--ignore-missing]
	[-i|--input <tree-file>] [--tsv] [--project <project-file>]
	[-o|--output <path>] [-p|--prefix <prefix>] [-f|--format <format>]
	[--output-taxa] [-v|--verbose]`,
	Short: "extract the context of a set of target taxa",
	Long: `
Command context reads a tree and a set of target taxa, and extracts the
subtrees that contain the targets, collapsing the branches that are far from
the targets.

The target taxa are given as a comma-separated list with the flag --taxa,
and/or as a file with the flag --taxon-file. The taxon file can be a tree file
(newick or nexus), in which case the terminals of the first tree are the
targets, or a CSV table, in which case the keys of the table are the targets.
If no taxon file is given, the keys of the metadata table set with the flag
--metadata, or -m, or the taxon file of the project, will be used. See
"phylofunk help annotate" for the flags used to match terminals with the
metadata.

For each target, its ancestors are included in the context, up to the level
set with the flag --max-parent (default 1, i.e., only the parent of the
target). If --max-parent is 0, all ancestors up to the root are included. Each
included node without an included parent is the root of a subtree, named
subtree_<n>, numbered in pre-order.

If the flag --max-child is defined, internal nodes that are at more levels
than the indicated value below an included node are collapsed, and replaced by
a single terminal named collapsed_<n>. If the flag --max-siblings is defined,
and a node has more children than the indicated value, all the children
without targets are clumped into a single collapsed terminal.

The values of these parameters can be read from a parameter file, set with the
flag --params (or defined in the project). Use the command "phylofunk params"
to create a parameter file. Values set as flags override the values of the
parameter file.

By default, a target not found in the tree is an error; use the flag
--ignore-missing to ignore them.

The tree is read from the file indicated with the flag --input, or -i. If no
file is given, the tree file of the project set with the flag --project will
be used, and if there is no project, the tree will be read from the standard
input. Only the first tree of the file is used.

Each subtree is written into a file <prefix>subtree_<n>.<format>, and the
content of the collapsed terminals is written into the file
<prefix>collapsed_nodes.csv. The files are written in the current directory,
or the directory set with the flag --output, or -o. The prefix is set with the
flag --prefix, or -p. By default the subtrees are written in nexus format; use
the flag --format, or -f, to set a different format. If the flag
--output-taxa is set, the labels of the terminals of each subtree will be
written into the file <prefix>subtree_<n>.txt.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var in input.Options
var taxaFlag string
var taxonFile string
var paramFile string
var maxParent int
var maxChild int
var maxSiblings int
var ignoreMissing bool
var outPath string
var prefix string
var formatFlag string
var outTaxa bool

func setFlags(c *command.Command) {
	registerFlags(c.Flags())
}

func registerFlags(fs *flag.FlagSet) {
	in.SetFlags(fs)
	in.SetMetadataFlags(fs)
	fs.StringVar(&taxaFlag, "taxa", "", "")
	fs.StringVar(&taxaFlag, "t", "", "")
	fs.StringVar(&taxonFile, "taxon-file", "", "")
	fs.StringVar(&paramFile, "params", "", "")
	fs.IntVar(&maxParent, "max-parent", 1, "")
	fs.IntVar(&maxChild, "max-child", 0, "")
	fs.IntVar(&maxSiblings, "max-siblings", 0, "")
	fs.BoolVar(&ignoreMissing, "ignore-missing", false, "")
	fs.StringVar(&outPath, "output", "", "")
	fs.StringVar(&outPath, "o", "", "")
	fs.StringVar(&prefix, "prefix", "", "")
	fs.StringVar(&prefix, "p", "", "")
	fs.StringVar(&formatFlag, "format", string(treeio.Nexus), "")
	fs.StringVar(&formatFlag, "f", string(treeio.Nexus), "")
	fs.BoolVar(&outTaxa, "output-taxa", false, "")
}

func run(c *command.Command, args []string) error {
	format, err := treeio.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	logger := in.Logger(c.Stderr())
	defer logger.Sync()

	p, err := in.Project()
	if err != nil {
		return err
	}
	param, err := readParams(c.Flags(), p)
	if err != nil {
		return err
	}

	extra := metadata.ParseList(taxaFlag)
	taxa, err := readTaxa(p)
	if err != nil {
		return err
	}

	t, err := in.Tree(c.Stdin())
	if err != nil {
		return err
	}
	keys, err := metadata.TipKeys(t, in.KeySpec())
	if err != nil {
		return err
	}

	res, err := ctxtree.Extract(t, keys, taxa, extra, param, logger)
	if err != nil {
		return err
	}
	logger.Info("context extracted",
		zap.String("tree", t.Name()),
		zap.Int("targets", len(res.Targets)),
		zap.Int("subtrees", len(res.Subtrees)),
		zap.Int("collapsed", len(res.Collapsed)),
		zap.Int("covered", len(res.Coverage())),
	)

	if outPath != "" {
		if err := os.MkdirAll(outPath, 0755); err != nil {
			return errkind.IO(err)
		}
	}
	for _, s := range res.Subtrees {
		name := outFile(s.Name + "." + format.Ext())
		logger.Debug("writing subtree", zap.String("file", name))
		if err := treeio.WriteFile(name, []*tree.Tree{s.Tree}, format); err != nil {
			return err
		}
		if !outTaxa {
			continue
		}
		if err := writeTaxa(outFile(s.Name+".txt"), s.Tree, res); err != nil {
			return err
		}
	}
	return writeManifest(outFile("collapsed_nodes.csv"), res.Collapsed)
}

func outFile(base string) string {
	return filepath.Join(outPath, prefix+base)
}

// ReadParams returns the context parameters
// from the parameter file,
// updated with the flags set in the command line.
func readParams(fs *flag.FlagSet, p *project.Project) (ctxtree.Param, error) {
	var cp *ctxparam.CP
	var err error
	if paramFile != "" {
		cp, err = ctxparam.Read(paramFile)
	} else {
		cp, err = p.Params()
	}
	if err != nil {
		return ctxtree.Param{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "max-parent":
			err = cp.SetMaxParent(maxParent)
		case "max-child":
			err = cp.SetMaxChild(maxChild)
		case "max-siblings":
			err = cp.SetMaxSiblings(maxSiblings)
		case "ignore-missing":
			cp.SetIgnoreMissing(ignoreMissing)
		}
	})
	if err != nil {
		return ctxtree.Param{}, err
	}
	return cp.Param(), nil
}

func readTaxa(p *project.Project) (metadata.TaxonSet, error) {
	ks := in.KeySpec()
	if taxonFile != "" {
		return metadata.ReadTaxaFile(taxonFile, in.IDColumn, ks)
	}
	if in.Metadata != "" {
		idx, err := metadata.ReadFile(in.Metadata, in.IDColumn)
		if err != nil {
			return nil, err
		}
		return metadata.NewTaxonSet(idx.Keys()...), nil
	}
	if p.Path(project.Taxa) != "" {
		return p.Taxa(in.IDColumn, ks)
	}
	return nil, nil
}

func writeTaxa(name string, t *tree.Tree, res *ctxtree.Result) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return errkind.IO(err)
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = errkind.IO(e)
		}
	}()

	placeholder := make(map[string]bool)
	for _, s := range res.Subtrees {
		placeholder[s.Name] = true
	}
	for _, c := range res.Collapsed {
		placeholder[c.Name] = true
	}

	bw := bufio.NewWriter(f)
	for _, id := range t.Tips(t.Root()) {
		lab := t.Taxon(id)
		if placeholder[lab] {
			continue
		}
		fmt.Fprintf(bw, "%s\n", lab)
	}
	if err := bw.Flush(); err != nil {
		return errkind.IO(fmt.Errorf("while writing %q: %w", name, err))
	}
	return nil
}

func writeManifest(name string, collapsed []ctxtree.Collapsed) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return errkind.IO(err)
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = errkind.IO(e)
		}
	}()

	if err := ctxtree.WriteManifest(f, collapsed); err != nil {
		return fmt.Errorf("while writing %q: %w", name, err)
	}
	return nil
}
