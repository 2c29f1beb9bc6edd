// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prj implements a command to print
// or set the datasets of a project.
package prj

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/phylofunk/metadata"
	"github.com/js-arias/phylofunk/project"
)

var Command = &command.Command{
	Usage: `prj [--set <dataset>=<path>] [-c|--id-column <column>]
	<project-file>`,
	Short: "print or set the datasets of a project",
	Long: `
Command prj reads a phylofunk project and prints the information of the
different project elements into the standard output.

The argument of the command is the name of the project file.

To set the path of a dataset, use the flag --set with a value in the form
<dataset>=<path>. If the path is empty, the dataset will be removed from the
project. If the project file does not exist, it will be created. Valid
datasets are:

	tree      the tree file (newick, nexus,
	          or a tab-delimited file of time-calibrated trees)
	metadata  the metadata table (CSV)
	taxa      the target taxa (a tree or a CSV table)
	params    the context extraction parameters
	keys      the color keys of attribute values

By default the first column of the metadata table (and the taxon table) is
used as the index; use the flag --id-column, or -c, to define a different
column.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var setFlag string
var idColumn string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&setFlag, "set", "", "")
	c.Flags().StringVar(&idColumn, "id-column", "", "")
	c.Flags().StringVar(&idColumn, "c", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	if setFlag != "" {
		set, path, ok := strings.Cut(setFlag, "=")
		if !ok {
			return c.UsageError(fmt.Sprintf("invalid --set value %q", setFlag))
		}
		ds := project.Dataset(strings.ToLower(strings.TrimSpace(set)))
		if !ds.IsValid() {
			return c.UsageError(fmt.Sprintf("unknown dataset %q", set))
		}
		return setPath(args[0], ds, strings.TrimSpace(path))
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	w := c.Stdout()
	if p.Path(project.Tree) != "" {
		if err := printTrees(w, p); err != nil {
			return err
		}
	}
	if p.Path(project.Metadata) != "" {
		if err := printMetadata(w, p); err != nil {
			return err
		}
	}
	if p.Path(project.Taxa) != "" {
		if err := printTaxa(w, p); err != nil {
			return err
		}
	}
	if err := printParams(w, p); err != nil {
		return err
	}
	if p.Path(project.Keys) != "" {
		if err := printKeys(w, p); err != nil {
			return err
		}
	}
	return nil
}

func setPath(name string, set project.Dataset, path string) error {
	p, err := project.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p = project.New()
		p.SetName(name)
	} else if err != nil {
		return err
	}

	p.Add(set, path)
	return p.Write()
}

func printTrees(w io.Writer, p *project.Project) error {
	ts, err := p.Trees()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Trees:\n")
	fmt.Fprintf(w, "\tfile: %s\n", p.Path(project.Tree))
	fmt.Fprintf(w, "\ttrees: %d\n", len(ts))
	for _, t := range ts {
		fmt.Fprintf(w, "\t%s: %d terminals, %d nodes\n", t.Name(), len(t.Terms()), t.Len())
	}
	fmt.Fprintf(w, "\n")
	return nil
}

func printMetadata(w io.Writer, p *project.Project) error {
	idx, err := p.Metadata(idColumn)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Metadata:\n")
	fmt.Fprintf(w, "\tfile: %s\n", p.Path(project.Metadata))
	fmt.Fprintf(w, "\tindex column: %s\n", idx.Column())
	fmt.Fprintf(w, "\tcolumns: %d\n", len(idx.Header()))
	fmt.Fprintf(w, "\trecords: %d\n", idx.Len())
	if d := idx.Duplicates(); len(d) > 0 {
		fmt.Fprintf(w, "\tduplicated keys: %d\n", len(d))
	}
	fmt.Fprintf(w, "\n")
	return nil
}

func printTaxa(w io.Writer, p *project.Project) error {
	taxa, err := p.Taxa(idColumn, metadata.KeySpec{})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Target taxa:\n")
	fmt.Fprintf(w, "\tfile: %s\n", p.Path(project.Taxa))
	fmt.Fprintf(w, "\ttaxa: %d\n", len(taxa))
	fmt.Fprintf(w, "\n")
	return nil
}

func printParams(w io.Writer, p *project.Project) error {
	cp, err := p.Params()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Context parameters:\n")
	if name := p.Path(project.Params); name != "" {
		fmt.Fprintf(w, "\tfile: %s\n", name)
	}
	fmt.Fprintf(w, "\tmax-parent: %d\n", cp.MaxParent())
	fmt.Fprintf(w, "\tmax-child: %d\n", cp.MaxChild())
	fmt.Fprintf(w, "\tmax-siblings: %d\n", cp.MaxSiblings())
	fmt.Fprintf(w, "\tignore-missing: %v\n", cp.IgnoreMissing())
	fmt.Fprintf(w, "\n")
	return nil
}

func printKeys(w io.Writer, p *project.Project) error {
	k, err := p.Keys()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Color keys:\n")
	fmt.Fprintf(w, "\tfile: %s\n", p.Path(project.Keys))
	fmt.Fprintf(w, "\tvalues: %d\n", len(k.Values()))
	fmt.Fprintf(w, "\n")
	return nil
}
