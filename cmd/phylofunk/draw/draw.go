// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package draw implements a command to draw
// trees as SVG files.
package draw

import (
	"bufio"
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/phylofunk/cmd/phylofunk/input"
	"github.com/js-arias/phylofunk/colorkey"
	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/tree"
)

var Command = &command.Command{
	Usage: `draw [-a|--attribute <name>] [--key <key-file>]
	[--key-out <file>] [--step <value>] [--cladogram]
	[-i|--input <tree-file>] [--tsv] [--project <project-file>]
	[-o|--output <out-prefix>]`,
	Short: "draw trees as SVG files",
	Long: `
Command draw reads one or more trees and draws them into SVG-encoded files.

The trees are read from the file indicated with the flag --input, or -i. If no
file is given, the tree file of the project set with the flag --project will
be used, and if there is no project, the trees will be read from the standard
input.

By default, branches are drawn using their lengths, with 100 pixel units per
length unit. Use the flag --step to define a different value (it can have
decimal points). If the flag --cladogram is set, or the tree does not have
branch lengths, all branches will be drawn with the same length.

If the flag --attribute, or -a, is defined, the branches will be colored by
the value of the indicated attribute of each node. The colors are read from
the key file set with the flag --key (or the key file defined in the
project). A key file is a tab-delimited file with the columns "key" (the
attribute value) and "color" (an RGB value, for example "68,119,170"). Values
without a color in the key file will receive a color from the iridescent
color scheme of Paul Tol. Use the flag --key-out to write the colors used in
the drawing into a key file. Nodes without the attribute are drawn in black.

By default, the names of the trees will be used as the output file names. Use
the flag -o, or --output, to define a prefix for the resulting files.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var in input.Options
var attrName string
var keyFile string
var keyOut string
var stepX float64
var cladogram bool
var outPrefix string

func setFlags(c *command.Command) {
	in.SetFlags(c.Flags())
	c.Flags().StringVar(&attrName, "attribute", "", "")
	c.Flags().StringVar(&attrName, "a", "", "")
	c.Flags().StringVar(&keyFile, "key", "", "")
	c.Flags().StringVar(&keyOut, "key-out", "", "")
	c.Flags().Float64Var(&stepX, "step", 100, "")
	c.Flags().BoolVar(&cladogram, "cladogram", false, "")
	c.Flags().StringVar(&outPrefix, "output", "", "")
	c.Flags().StringVar(&outPrefix, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if stepX <= 0 {
		return c.UsageError(fmt.Sprintf("invalid --step value %.6f", stepX))
	}

	ts, err := in.Trees(c.Stdin())
	if err != nil {
		return err
	}

	var keys *colorkey.Key
	if attrName != "" {
		keys, err = readKeys()
		if err != nil {
			return err
		}
		for _, t := range ts {
			keys.Fill(attrValues(t))
		}
	}

	for i, t := range ts {
		name := t.Name()
		if name == "" {
			name = fmt.Sprintf("tree_%d", i+1)
		}
		st := copyTree(t, stepX, cladogram)
		if keys != nil {
			st.setColor(t, attrName, keys)
		}
		if err := writeSVG(name, st); err != nil {
			return err
		}
	}

	if keyOut != "" && keys != nil {
		if err := writeKeys(keyOut, keys); err != nil {
			return err
		}
	}
	return nil
}

func readKeys() (*colorkey.Key, error) {
	if keyFile != "" {
		return colorkey.Read(keyFile)
	}
	p, err := in.Project()
	if err != nil {
		return nil, err
	}
	return p.Keys()
}

// AttrValues returns the values of the attribute
// used in a tree.
func attrValues(t *tree.Tree) []string {
	var vs []string
	for _, id := range t.Nodes() {
		v, ok := t.Attr(id, attrName)
		if !ok {
			continue
		}
		vs = append(vs, v.String())
	}
	return vs
}

func writeSVG(name string, t svgTree) (err error) {
	if outPrefix != "" {
		name = fmt.Sprintf("%s-%s.svg", outPrefix, name)
	} else {
		name += ".svg"
	}

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

	bw := bufio.NewWriter(f)
	if err := t.draw(bw); err != nil {
		return errkind.IO(fmt.Errorf("while writing file %q: %v", name, err))
	}
	if err := bw.Flush(); err != nil {
		return errkind.IO(fmt.Errorf("while writing file %q: %v", name, err))
	}
	return nil
}

func writeKeys(name string, keys *colorkey.Key) (err error) {
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

	if err := keys.TSV(f); err != nil {
		return fmt.Errorf("while writing %q: %w", name, err)
	}
	return nil
}
