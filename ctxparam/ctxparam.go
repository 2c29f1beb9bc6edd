// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package ctxparam implements reading and writing
// of the parameters for a context extraction.
package ctxparam

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/js-arias/phylofunk/ctxtree"
	"github.com/js-arias/phylofunk/errkind"
)

// Key is a keyword to identify
// a parameter in a context parameter file.
type Key string

// Valid parameters
const (
	// MaxParent is the number of ancestors
	// included for each target.
	MaxParent Key = "maxparent"

	// MaxChild is the number of levels
	// below an included node
	// before a branch is collapsed.
	MaxChild Key = "maxchild"

	// MaxSiblings is the number of children
	// of a node before they are clumped.
	MaxSiblings Key = "maxsiblings"

	// IgnoreMissing indicates that targets
	// not found in the tree
	// should be ignored.
	IgnoreMissing Key = "ignoremissing"
)

// CP represents a collection of context extraction parameters.
type CP struct {
	name string // file name

	parent   int
	child    int
	siblings int
	ignore   bool
}

// New creates a new parameter collection
// with the default values.
func New(name string) *CP {
	p := ctxtree.DefaultParam()
	return &CP{
		name:     name,
		parent:   p.MaxParent,
		child:    p.MaxChild,
		siblings: p.MaxSiblings,
		ignore:   p.IgnoreMissing,
	}
}

var header = []string{
	"parameter",
	"value",
}

// Read reads a parameter file from a TSV file.
//
// The TSV must contains the following fields:
//
//   - parameter, the name of the parameter
//   - value, the value of the parameter
//
// Here is an example file:
//
//	# phylofunk context parameters
//	parameter	value
//	maxparent	2
//	maxchild	3
//	maxsiblings	10
//	ignoremissing	false
func Read(name string) (*CP, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errkind.IO(err)
	}
	defer f.Close()

	cp, err := read(f, name)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %w", name, err)
	}
	return cp, nil
}

func read(r io.Reader, name string) (*CP, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, errkind.Format("header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, errkind.Format("expecting field %q", h)
		}
	}

	cp := New(name)
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, errkind.Format("on row %d: %v", ln, err)
		}

		f := "parameter"
		k := Key(strings.ToLower(row[fields[f]]))

		f = "value"
		v := strings.TrimSpace(row[fields[f]])
		switch k {
		case MaxParent, MaxChild, MaxSiblings:
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, errkind.Format("on row %d, field %q: %v", ln, f, err)
			}
			if err := cp.set(k, n); err != nil {
				return nil, fmt.Errorf("on row %d, field %q: %w", ln, f, err)
			}
		case IgnoreMissing:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, errkind.Format("on row %d, field %q: %v", ln, f, err)
			}
			cp.ignore = b
		default:
			return nil, errkind.Config("on row %d: unknown parameter %q", ln, k)
		}
	}
	return cp, nil
}

func (cp *CP) set(k Key, n int) error {
	if n < 0 {
		return errkind.Config("invalid %s value: %d", k, n)
	}
	switch k {
	case MaxParent:
		cp.parent = n
	case MaxChild:
		cp.child = n
	case MaxSiblings:
		cp.siblings = n
	}
	return nil
}

// Name returns the file name of the parameters.
func (cp *CP) Name() string {
	return cp.name
}

// SetName sets the file name of the parameters.
func (cp *CP) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	cp.name = name
}

// MaxParent returns the number of ancestors
// included for each target.
func (cp *CP) MaxParent() int {
	return cp.parent
}

// SetMaxParent sets the number of ancestors
// included for each target.
// If 0, all ancestors are included.
func (cp *CP) SetMaxParent(n int) error {
	return cp.set(MaxParent, n)
}

// MaxChild returns the number of levels
// before a branch is collapsed.
func (cp *CP) MaxChild() int {
	return cp.child
}

// SetMaxChild sets the number of levels
// before a branch is collapsed.
// If 0, branches are never collapsed.
func (cp *CP) SetMaxChild(n int) error {
	return cp.set(MaxChild, n)
}

// MaxSiblings returns the number of children
// before they are clumped.
func (cp *CP) MaxSiblings() int {
	return cp.siblings
}

// SetMaxSiblings sets the number of children
// before they are clumped.
// If 0, children are never clumped.
func (cp *CP) SetMaxSiblings(n int) error {
	return cp.set(MaxSiblings, n)
}

// IgnoreMissing returns true if missing targets
// should be ignored.
func (cp *CP) IgnoreMissing() bool {
	return cp.ignore
}

// SetIgnoreMissing sets whether missing targets
// should be ignored.
func (cp *CP) SetIgnoreMissing(ignore bool) {
	cp.ignore = ignore
}

// Param returns the parameters
// as used by a context extraction.
func (cp *CP) Param() ctxtree.Param {
	return ctxtree.Param{
		MaxParent:     cp.parent,
		MaxChild:      cp.child,
		MaxSiblings:   cp.siblings,
		IgnoreMissing: cp.ignore,
	}
}

// Write writes a parameter collection into a file.
func (cp *CP) Write() (err error) {
	f, err := os.Create(cp.name)
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
	fmt.Fprintf(bw, "# phylofunk context parameters\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return errkind.IO(fmt.Errorf("on file %q: while writing header: %v", cp.name, err))
	}

	rows := [][]string{
		{string(MaxParent), strconv.Itoa(cp.parent)},
		{string(MaxChild), strconv.Itoa(cp.child)},
		{string(MaxSiblings), strconv.Itoa(cp.siblings)},
		{string(IgnoreMissing), strconv.FormatBool(cp.ignore)},
	}
	for _, row := range rows {
		if err := tsv.Write(row); err != nil {
			return errkind.IO(fmt.Errorf("on file %q: %v", cp.name, err))
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return errkind.IO(fmt.Errorf("on file %q: while writing data: %v", cp.name, err))
	}
	if err := bw.Flush(); err != nil {
		return errkind.IO(fmt.Errorf("on file %q: while writing data: %v", cp.name, err))
	}
	return nil
}
