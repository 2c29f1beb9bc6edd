// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package treeio implements reading and writing
// of phylogenetic trees
// in newick, nexus,
// and time-calibrated tab-delimited formats.
package treeio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/tree"
)

// Format is a tree file format.
type Format string

// Valid formats.
const (
	// Newick is the parenthetical format
	// (written without node annotations).
	Newick Format = "newick"

	// Nexus is the nexus format,
	// with node annotations written as comments.
	Nexus Format = "nexus"

	// TSV is the tab-delimited format
	// for time-calibrated trees.
	TSV Format = "tsv"
)

// ParseFormat returns the format with the given name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case Newick, Nexus, TSV:
		return f, nil
	}
	return "", errkind.Config("unknown tree format %q", name)
}

// Ext returns the file extension used for a format.
func (f Format) Ext() string {
	if f == TSV {
		return "tab"
	}
	return string(f)
}

// Detect returns the format of a tree file
// based on its first non-blank line.
// Only newick and nexus files are detected.
func Detect(data []byte) (Format, error) {
	s := bufio.NewScanner(bytes.NewReader(data))
	s.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for s.Scan() {
		ln := strings.TrimSpace(s.Text())
		if ln == "" {
			continue
		}
		if strings.HasPrefix(strings.ToUpper(ln), "#NEXUS") {
			return Nexus, nil
		}
		if strings.HasPrefix(ln, "(") {
			return Newick, nil
		}
		break
	}
	if err := s.Err(); err != nil {
		return "", errkind.Format("while detecting tree format: %v", err)
	}
	return "", errkind.Format("unrecognized tree format")
}

// Read reads all the trees from a newick or a nexus file.
// The format is detected from the file content.
func Read(r io.Reader) ([]*tree.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errkind.IO(err)
	}
	return parse(data)
}

func parse(data []byte) ([]*tree.Tree, error) {
	f, err := Detect(data)
	if err != nil {
		return nil, err
	}
	if f == Nexus {
		return readNexus(string(data))
	}
	return readNewick(string(data))
}

// ReadFile reads all the trees from a newick or a nexus file.
func ReadFile(name string) ([]*tree.Tree, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errkind.IO(err)
	}
	ts, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %w", name, err)
	}
	return ts, nil
}

// Write writes a set of trees using the indicated format.
func Write(w io.Writer, ts []*tree.Tree, f Format) error {
	switch f {
	case Newick:
		return writeNewick(w, ts)
	case Nexus:
		return writeNexus(w, ts)
	case TSV:
		return writeTimeTrees(w, ts)
	}
	return errkind.Config("unknown tree format %q", string(f))
}

// WriteFile writes a set of trees into a file
// using the indicated format.
func WriteFile(name string, ts []*tree.Tree, f Format) (err error) {
	file, err := os.Create(name)
	if err != nil {
		return errkind.IO(err)
	}
	defer func() {
		e := file.Close()
		if e != nil && err == nil {
			err = errkind.IO(e)
		}
	}()

	bw := bufio.NewWriter(file)
	if err := Write(bw, ts, f); err != nil {
		return fmt.Errorf("while writing file %q: %w", name, err)
	}
	if err := bw.Flush(); err != nil {
		return errkind.IO(fmt.Errorf("while writing file %q: %w", name, err))
	}
	return nil
}
