// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package input implements the flags and readers
// shared by phylofunk commands.
package input

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/logging"
	"github.com/js-arias/phylofunk/metadata"
	"github.com/js-arias/phylofunk/project"
	"github.com/js-arias/phylofunk/tree"
	"github.com/js-arias/phylofunk/treeio"
	"go.uber.org/zap"
)

// Options are the input options of a command.
type Options struct {
	ProjectFile string
	Input       string
	TimeTree    bool
	Verbose     bool

	Metadata  string
	IDColumn  string
	IDField   int
	Delimiter string

	prj *project.Project
}

// SetFlags sets the flags for the input tree.
func (o *Options) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.ProjectFile, "project", "", "")
	fs.StringVar(&o.Input, "input", "", "")
	fs.StringVar(&o.Input, "i", "", "")
	fs.BoolVar(&o.TimeTree, "tsv", false, "")
	fs.BoolVar(&o.Verbose, "verbose", false, "")
	fs.BoolVar(&o.Verbose, "v", false, "")
}

// SetMetadataFlags sets the flags for the metadata table,
// and the matching of tip labels.
func (o *Options) SetMetadataFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.Metadata, "metadata", "", "")
	fs.StringVar(&o.Metadata, "m", "", "")
	o.SetKeyFlags(fs)
}

// SetKeyFlags sets the flags used to match tip labels.
func (o *Options) SetKeyFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.IDColumn, "id-column", "", "")
	fs.StringVar(&o.IDColumn, "c", "", "")
	fs.IntVar(&o.IDField, "id-field", 0, "")
	fs.IntVar(&o.IDField, "n", 0, "")
	fs.StringVar(&o.Delimiter, "field-delimiter", metadata.DefaultDelimiter, "")
}

// Project returns the project defined by the --project flag.
// If no project is defined,
// it returns an empty project.
func (o *Options) Project() (*project.Project, error) {
	if o.prj != nil {
		return o.prj, nil
	}
	if o.ProjectFile == "" {
		o.prj = project.New()
		return o.prj, nil
	}
	p, err := project.Read(o.ProjectFile)
	if err != nil {
		return nil, err
	}
	o.prj = p
	return p, nil
}

// Trees reads the input trees.
// The trees are read from the --input flag,
// then from the tree of the project,
// and finally from r.
func (o *Options) Trees(r io.Reader) ([]*tree.Tree, error) {
	if o.Input != "" {
		if o.TimeTree {
			return treeio.ReadTimeTreeFile(o.Input)
		}
		return project.ReadTrees(o.Input)
	}

	p, err := o.Project()
	if err != nil {
		return nil, err
	}
	if p.Path(project.Tree) != "" {
		return p.Trees()
	}

	var ts []*tree.Tree
	if o.TimeTree {
		ts, err = treeio.ReadTimeTrees(r)
	} else {
		ts, err = treeio.Read(r)
	}
	if err != nil {
		return nil, fmt.Errorf("while reading stdin: %w", err)
	}
	return ts, nil
}

// Tree reads the input trees
// and returns the first one.
func (o *Options) Tree(r io.Reader) (*tree.Tree, error) {
	ts, err := o.Trees(r)
	if err != nil {
		return nil, err
	}
	if len(ts) == 0 {
		return nil, errkind.Format("no trees in input")
	}
	return ts[0], nil
}

// ReadMetadata reads the metadata table
// from the --metadata flag,
// or from the project.
func (o *Options) ReadMetadata() (*metadata.Index, error) {
	if o.Metadata != "" {
		return metadata.ReadFile(o.Metadata, o.IDColumn)
	}
	p, err := o.Project()
	if err != nil {
		return nil, err
	}
	if p.Path(project.Metadata) == "" {
		return nil, errkind.Config("expecting metadata file, flag --metadata")
	}
	return p.Metadata(o.IDColumn)
}

// KeySpec returns the specification
// used to match tip labels.
func (o *Options) KeySpec() metadata.KeySpec {
	return metadata.KeySpec{
		Field:     o.IDField,
		Delimiter: o.Delimiter,
	}
}

// Logger returns the logger of the command.
func (o *Options) Logger(w io.Writer) *zap.Logger {
	return logging.New(w, o.Verbose)
}

// Output are the output options of a command.
type Output struct {
	Name   string
	Format string
}

// SetFlags sets the flags for the output trees.
func (o *Output) SetFlags(fs *flag.FlagSet, format treeio.Format) {
	fs.StringVar(&o.Name, "output", "", "")
	fs.StringVar(&o.Name, "o", "", "")
	fs.StringVar(&o.Format, "format", string(format), "")
	fs.StringVar(&o.Format, "f", string(format), "")
}

// Check returns an error
// if the output format is not valid.
func (o *Output) Check() error {
	_, err := treeio.ParseFormat(o.Format)
	return err
}

// Write writes the trees
// in the file defined by the --output flag,
// or in w.
func (o *Output) Write(w io.Writer, ts []*tree.Tree) error {
	data, err := o.Encode(ts)
	if err != nil {
		return err
	}
	return o.WriteBytes(w, data)
}

// Encode returns the trees
// encoded in the output format.
func (o *Output) Encode(ts []*tree.Tree) ([]byte, error) {
	f, err := treeio.ParseFormat(o.Format)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := treeio.Write(&buf, ts, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteBytes writes already encoded trees
// in the file defined by the --output flag,
// or in w.
func (o *Output) WriteBytes(w io.Writer, data []byte) error {
	if o.Name == "" {
		if _, err := w.Write(data); err != nil {
			return errkind.IO(err)
		}
		return nil
	}
	return WriteFile(o.Name, data)
}

// WriteFile writes data into a file.
func WriteFile(name string, data []byte) error {
	if err := os.WriteFile(name, data, 0644); err != nil {
		return errkind.IO(err)
	}
	return nil
}

// Create creates a file,
// or returns w if name is empty.
// The returned function must be called
// to close the file.
func Create(w io.Writer, name string) (io.Writer, func() error, error) {
	if name == "" {
		return w, func() error { return nil }, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, errkind.IO(err)
	}
	return f, func() error {
		if err := f.Close(); err != nil {
			return errkind.IO(err)
		}
		return nil
	}, nil
}
