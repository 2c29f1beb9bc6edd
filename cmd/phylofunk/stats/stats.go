// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package stats implements a command to print
// summary statistics of trees.
package stats

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/js-arias/command"
	"github.com/js-arias/phylofunk/cmd/phylofunk/input"
	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/propagate"
	"github.com/js-arias/phylofunk/tree"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var Command = &command.Command{
	Usage: `stats [--threshold <value>] [--plot <prefix>] [--bins <number>]
	[-i|--input <tree-file>] [--tsv] [--project <project-file>]`,
	Short: "print summary statistics of trees",
	Long: `
Command stats reads one or more trees and prints a tab-delimited table with
summary statistics of each tree.

The trees are read from the file indicated with the flag --input, or -i. If no
file is given, the tree file of the project set with the flag --project will
be used, and if there is no project, the trees will be read from the standard
input.

The table has the following columns:

	tree      the name of the tree
	tips      the number of terminals
	internal  the number of internal nodes
	depth     the maximum number of edges from the root to a terminal
	polytomy  the maximum number of children of a node
	length    the sum of branch lengths
	mean      the mean branch length
	median    the median branch length
	q025      the 2.5% quantile of branch lengths
	q975      the 97.5% quantile of branch lengths
	zero      the number of branches with length below the threshold

By default, the threshold for zero-length branches is a single substitution
across the SARS-CoV-2 genome. Use the flag --threshold to set a different
value.

If the flag --plot is set, a histogram of the branch lengths of each tree
will be written as a PNG file, using the value of the flag as a prefix. By
default the histogram uses 20 bins, use the flag --bins to set a different
number.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var in input.Options
var threshold float64
var plotPrefix string
var numBins int

func setFlags(c *command.Command) {
	in.SetFlags(c.Flags())
	c.Flags().Float64Var(&threshold, "threshold", propagate.ZeroBranch, "")
	c.Flags().StringVar(&plotPrefix, "plot", "", "")
	c.Flags().IntVar(&numBins, "bins", 20, "")
}

func run(c *command.Command, args []string) error {
	if numBins < 1 {
		return c.UsageError(fmt.Sprintf("invalid --bins value %d", numBins))
	}

	ts, err := in.Trees(c.Stdin())
	if err != nil {
		return err
	}

	tab := csv.NewWriter(c.Stdout())
	tab.Comma = '\t'
	if err := tab.Write(header); err != nil {
		return errkind.IO(err)
	}
	for i, t := range ts {
		name := t.Name()
		if name == "" {
			name = fmt.Sprintf("tree_%d", i+1)
		}
		s := summarize(t, threshold)
		if err := tab.Write(s.row(name)); err != nil {
			return errkind.IO(err)
		}
		if plotPrefix == "" || len(s.lengths) == 0 {
			continue
		}
		if err := histogram(fmt.Sprintf("%s-%s.png", plotPrefix, name), s.lengths); err != nil {
			return errkind.IO(fmt.Errorf("on tree %q: %v", name, err))
		}
	}
	tab.Flush()
	if err := tab.Error(); err != nil {
		return errkind.IO(err)
	}
	return nil
}

var header = []string{
	"tree",
	"tips",
	"internal",
	"depth",
	"polytomy",
	"length",
	"mean",
	"median",
	"q025",
	"q975",
	"zero",
}

type summary struct {
	tips     int
	internal int
	depth    int
	polytomy int
	zero     int

	// sorted branch lengths
	lengths []float64
}

func summarize(t *tree.Tree, threshold float64) summary {
	var s summary
	depth := make([]int, t.Len())
	for _, id := range t.PreOrder(t.Root()) {
		if p := t.Parent(id); p >= 0 {
			depth[id] = depth[p] + 1
		}
		if t.IsTerm(id) {
			s.tips++
			if depth[id] > s.depth {
				s.depth = depth[id]
			}
		} else {
			s.internal++
			if n := t.NumChildren(id); n > s.polytomy {
				s.polytomy = n
			}
		}

		if t.IsRoot(id) {
			continue
		}
		l, ok := t.Length(id)
		if !ok {
			continue
		}
		s.lengths = append(s.lengths, l)
		if l < threshold {
			s.zero++
		}
	}
	slices.Sort(s.lengths)
	return s
}

func (s summary) row(name string) []string {
	row := []string{
		name,
		strconv.Itoa(s.tips),
		strconv.Itoa(s.internal),
		strconv.Itoa(s.depth),
		strconv.Itoa(s.polytomy),
	}
	if len(s.lengths) == 0 {
		return append(row, "NA", "NA", "NA", "NA", "NA", "NA")
	}

	var sum float64
	for _, l := range s.lengths {
		sum += l
	}
	weights := make([]float64, len(s.lengths))
	for i := range weights {
		weights[i] = 1
	}
	return append(row,
		format(sum),
		format(stat.Mean(s.lengths, nil)),
		format(stat.Quantile(0.5, stat.Empirical, s.lengths, weights)),
		format(stat.Quantile(0.025, stat.Empirical, s.lengths, weights)),
		format(stat.Quantile(0.975, stat.Empirical, s.lengths, weights)),
		strconv.Itoa(s.zero),
	)
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func histogram(name string, lengths []float64) error {
	p := plot.New()
	p.X.Label.Text = "branch length"
	p.Y.Label.Text = "frequency"

	h, err := plotter.NewHist(plotter.Values(lengths), numBins)
	if err != nil {
		return err
	}
	p.Add(h)
	return p.Save(6*vg.Inch, 4*vg.Inch, name)
}
