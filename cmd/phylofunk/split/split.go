// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package split implements a command to split a tree
// by the values of an attribute of its terminals.
package split

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/phylofunk/cmd/phylofunk/input"
	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/metadata"
	"github.com/js-arias/phylofunk/tree"
	"github.com/js-arias/phylofunk/treeio"
	"go.uber.org/zap"
)

var Command = &command.Command{
	Usage: `split -a|--attribute <attribute>
	[-i|--input <tree-file>] [--tsv] [--project <project-file>]
	[-m|--metadata <file>] [-c|--id-column <column>]
	[-n|--id-field <number>] [--field-delimiter <delimiter>]
	[--ignore-missing] [-d|--output-metadata <file>]
	[--output-path <directory>] [--prefix <prefix>]
	[-f|--format <format>] [-v|--verbose]`,
	Short: "split a tree by the values of an attribute",
	Long: `
Command split reads a tree and writes a tree for each value of an attribute
of the terminals, with the terminals that have that value. Internal nodes
without terminals are removed, and internal nodes with a single child are
merged with its child, adding its branch lengths. Terminals without a value
are ignored.

The attribute is set with the flag --attribute, or -a. If the flag --metadata,
or -m, is set, the attribute will be read from the indicated column of the
metadata table (see "phylofunk help annotate" for the flags used to match
terminals with the metadata), otherwise the attribute must be defined in the
terminals of the tree.

The tree is read from the file indicated with the flag --input, or -i. If no
file is given, the tree file of the project set with the flag --project will
be used, and if there is no project, the tree will be read from the standard
input. Only the first tree of the file is used.

Each tree is written in a file named with the attribute value, by default in
nexus format; use the flag --format, or -f, to set a different format. Use
the flag --output-path to set the directory of the files, and the flag
--prefix to add a prefix to the file names. If the flag --output-metadata, or
-d, is defined, a CSV table with the terminals of each tree, and its
attribute value, will be written in the indicated file. Files are only
written if all the trees were built without errors.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var in input.Options
var format string
var attrName string
var outPath string
var prefix string
var outMetadata string
var ignoreMissing bool

func setFlags(c *command.Command) {
	in.SetFlags(c.Flags())
	in.SetMetadataFlags(c.Flags())
	c.Flags().StringVar(&format, "format", string(treeio.Nexus), "")
	c.Flags().StringVar(&format, "f", string(treeio.Nexus), "")
	c.Flags().StringVar(&attrName, "attribute", "", "")
	c.Flags().StringVar(&attrName, "a", "", "")
	c.Flags().StringVar(&outPath, "output-path", "", "")
	c.Flags().StringVar(&prefix, "prefix", "", "")
	c.Flags().StringVar(&outMetadata, "output-metadata", "", "")
	c.Flags().StringVar(&outMetadata, "d", "", "")
	c.Flags().BoolVar(&ignoreMissing, "ignore-missing", false, "")
}

func run(c *command.Command, args []string) error {
	if attrName == "" {
		return c.UsageError("expecting attribute, flag --attribute")
	}
	f, err := treeio.ParseFormat(format)
	if err != nil {
		return err
	}
	logger := in.Logger(c.Stderr())
	defer logger.Sync()

	t, err := in.Tree(c.Stdin())
	if err != nil {
		return err
	}
	if in.Metadata != "" {
		idx, err := in.ReadMetadata()
		if err != nil {
			return err
		}
		if _, err := metadata.AnnotateString(t, idx, in.KeySpec(), attrName, ignoreMissing); err != nil {
			return err
		}
	}

	ts := t.Split(attrName)
	if len(ts) == 0 {
		logger.Warn("no terminal with attribute",
			zap.String("tree", t.Name()),
			zap.String("attribute", attrName),
		)
		return nil
	}

	files := make(map[string][]byte, len(ts))
	names := make([]string, 0, len(ts))
	for _, st := range ts {
		name := fileName(st.Name(), f)
		if _, dup := files[name]; dup {
			return errkind.Config("attribute value %q: repeated file name %q", st.Name(), name)
		}
		var buf bytes.Buffer
		if err := treeio.Write(&buf, []*tree.Tree{st}, f); err != nil {
			return err
		}
		files[name] = buf.Bytes()
		names = append(names, name)
		logger.Debug("split",
			zap.String("value", st.Name()),
			zap.Int("terminals", len(st.Terms())),
		)
	}
	var md bytes.Buffer
	if outMetadata != "" {
		if err := metadata.WriteForest(&md, ts, "sequence_name", []string{attrName}); err != nil {
			return err
		}
	}

	for _, name := range names {
		if err := input.WriteFile(name, files[name]); err != nil {
			return err
		}
	}
	if outMetadata != "" {
		return input.WriteFile(outMetadata, md.Bytes())
	}
	return nil
}

// FileName returns the name of the file
// for an attribute value.
func fileName(value string, f treeio.Format) string {
	value = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '_'
		}
		return r
	}, value)
	return filepath.Join(outPath, fmt.Sprintf("%s%s.%s", prefix, value, f.Ext()))
}
