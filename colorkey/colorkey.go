// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package colorkey implements a simple color key
// for the values of a node attribute.
package colorkey

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"hash/fnv"
	"image/color"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/js-arias/blind"
	"github.com/js-arias/phylofunk/errkind"
)

// Key stores the color values
// for attribute values.
type Key struct {
	color map[string]color.RGBA
}

// New returns an empty color key.
func New() *Key {
	return &Key{
		color: make(map[string]color.RGBA),
	}
}

// Set sets the color of a value.
func (k *Key) Set(value string, c color.RGBA) {
	k.color[value] = c
}

// Has returns true if a color is defined for a value.
func (k *Key) Has(value string) bool {
	_, ok := k.color[value]
	return ok
}

// Color returns the color associated with a given value.
// If no color is defined for the value,
// a color from the iridescent gradient
// derived from the value is returned.
func (k *Key) Color(value string) color.Color {
	if c, ok := k.color[value]; ok {
		return c
	}

	h := fnv.New32a()
	h.Write([]byte(value))
	return Gradient(float64(h.Sum32()) / math.MaxUint32)
}

// Fill assigns colors to the values without a defined color,
// spaced evenly along the iridescent gradient
// in lexical order of the values.
func (k *Key) Fill(values []string) {
	var missing []string
	for _, v := range values {
		if k.Has(v) || slices.Contains(missing, v) {
			continue
		}
		missing = append(missing, v)
	}
	slices.Sort(missing)

	for i, v := range missing {
		x := 0.5
		if len(missing) > 1 {
			x = float64(i) / float64(len(missing)-1)
		}
		k.color[v] = Gradient(x)
	}
}

// Values returns the values with a defined color.
func (k *Key) Values() []string {
	vs := make([]string, 0, len(k.color))
	for v := range k.color {
		vs = append(vs, v)
	}
	slices.Sort(vs)
	return vs
}

// Gradient returns a color of the iridescent color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_iridescent>.
func Gradient(v float64) color.RGBA {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	return blind.Sequential(blind.Iridescent, v)
}

// Read reads a key file used to define the colors
// for attribute values.
//
// A key file is a tab-delimited file
// with the following required columns:
//
//	-key	the attribute value
//	-color	an RGB value separated by commas,
//		for example "125,132,148".
//
// Any other columns, will be ignored.
// Here is an example of a key file:
//
//	key	color	comment
//	B.1.1.7	68, 119, 170	alpha
//	B.1.351	204, 187, 68	beta
//	P.1	238, 102, 119	gamma
func Read(name string) (*Key, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errkind.IO(err)
	}
	defer f.Close()

	k, err := ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %w", name, err)
	}
	return k, nil
}

// ReadTSV reads a key file from a reader.
func ReadTSV(r io.Reader) (*Key, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, errkind.Format("while reading header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range []string{"key", "color"} {
		if _, ok := fields[h]; !ok {
			return nil, errkind.Format("expecting field %q", h)
		}
	}

	k := New()
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, errkind.Format("on row %d: %v", ln, err)
		}

		f := "key"
		v := strings.TrimSpace(row[fields[f]])
		if v == "" {
			return nil, errkind.Format("on row %d: field %q: empty value", ln, f)
		}

		f = "color"
		c, err := parseColor(row[fields[f]])
		if err != nil {
			return nil, errkind.Format("on row %d: field %q: %v", ln, f, err)
		}
		k.color[v] = c
	}
	return k, nil
}

var channels = []string{"red", "green", "blue"}

func parseColor(s string) (color.RGBA, error) {
	val := strings.Split(s, ",")
	if len(val) != 3 {
		return color.RGBA{}, fmt.Errorf("found %d values, want 3", len(val))
	}

	var rgb [3]uint8
	for i, ch := range channels {
		n, err := strconv.Atoi(strings.TrimSpace(val[i]))
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%s value: %v", ch, err)
		}
		if n < 0 || n > 255 {
			return color.RGBA{}, fmt.Errorf("%s value: invalid value %d", ch, n)
		}
		rgb[i] = uint8(n)
	}
	return color.RGBA{rgb[0], rgb[1], rgb[2], 255}, nil
}

// TSV writes a key file.
func (k *Key) TSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# phylofunk color keys\n")
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write([]string{"key", "color"}); err != nil {
		return errkind.IO(fmt.Errorf("while writing header: %v", err))
	}
	for _, v := range k.Values() {
		c := k.color[v]
		row := []string{
			v,
			fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B),
		}
		if err := tsv.Write(row); err != nil {
			return errkind.IO(err)
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return errkind.IO(fmt.Errorf("while writing data: %v", err))
	}
	if err := bw.Flush(); err != nil {
		return errkind.IO(fmt.Errorf("while writing data: %v", err))
	}
	return nil
}
