// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package params implements a command to manage
// the parameters of a context extraction.
package params

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/phylofunk/ctxparam"
	"github.com/js-arias/phylofunk/project"
)

var Command = &command.Command{
	Usage: `params [--add <param-file>] [--file <file-name>]
	[--max-parent <level>] [--max-child <level>]
	[--max-siblings <number>] [--ignore-missing <bool>]
	<project-file>`,
	Short: "manage context extraction parameters",
	Long: `
Command params manages the parameters of the context extraction defined for a
phylofunk project.

The argument of the command is the name of the project file. If no project
file exists, a new project will be created.

By default, the command will print the currently defined parameters.

If the flag --add is defined, it will use the indicated file for the context
parameters.

By default, any change on the parameters will be stored in the current
parameters file, or in the file "context-params.tab" if the project does not
have a parameter file. Use the flag --file to define a new parameters file.

The parameters are:

	--max-parent    number of ancestors included for each target
	                (default 1). If 0, all ancestors are included.
	--max-child     number of levels below an included node before a
	                branch is collapsed. If 0, branches are never collapsed.
	--max-siblings  number of children of a node before the children
	                without targets are clumped. If 0, children are never
	                clumped.
	--ignore-missing
	                if true, targets not found in the tree are ignored.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var addFile string
var paramFile string
var maxParent int
var maxChild int
var maxSiblings int
var ignoreMissing bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&addFile, "add", "", "")
	c.Flags().StringVar(&paramFile, "file", "", "")
	c.Flags().IntVar(&maxParent, "max-parent", 1, "")
	c.Flags().IntVar(&maxChild, "max-child", 0, "")
	c.Flags().IntVar(&maxSiblings, "max-siblings", 0, "")
	c.Flags().BoolVar(&ignoreMissing, "ignore-missing", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := openProject(args[0])
	if err != nil {
		return err
	}

	if addFile != "" {
		if _, err := ctxparam.Read(addFile); err != nil {
			return err
		}
		p.Add(project.Params, addFile)
		if err := p.Write(); err != nil {
			return err
		}
		return nil
	}

	cp, err := p.Params()
	if err != nil {
		return err
	}
	if cp.Name() == "" {
		cp.SetName("context-params.tab")
	}
	if paramFile != "" {
		cp.SetName(paramFile)
	}

	ed := false
	c.Flags().Visit(func(f *flag.Flag) {
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
		default:
			return
		}
		ed = true
	})
	if err != nil {
		return err
	}

	if p.Path(project.Params) != cp.Name() {
		if err := cp.Write(); err != nil {
			return err
		}
		p.Add(project.Params, cp.Name())
		if err := p.Write(); err != nil {
			return err
		}
		return nil
	}
	if ed {
		if err := cp.Write(); err != nil {
			return err
		}
		return nil
	}

	printParams(c.Stdout(), cp)
	return nil
}

func openProject(name string) (*project.Project, error) {
	p, err := project.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p := project.New()
		p.SetName(name)
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open project %q: %w", name, err)
	}
	return p, nil
}

func printParams(w io.Writer, cp *ctxparam.CP) {
	fmt.Fprintf(w, "file:           %s\n", cp.Name())
	fmt.Fprintf(w, "max-parent:     %d\n", cp.MaxParent())
	fmt.Fprintf(w, "max-child:      %d\n", cp.MaxChild())
	fmt.Fprintf(w, "max-siblings:   %d\n", cp.MaxSiblings())
	fmt.Fprintf(w, "ignore-missing: %v\n", cp.IgnoreMissing())
}
