// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package stats

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/js-arias/phylofunk/tree"
)

func TestSummarize(t *testing.T) {
	// ((A:1,B:0,C:2):1,D:4);
	tr := tree.New("test")
	in, _ := tr.Add(tr.Root(), "")
	tr.SetLength(in, 1)
	for _, tip := range []struct {
		parent int
		label  string
		length float64
	}{
		{in, "A", 1},
		{in, "B", 0},
		{in, "C", 2},
		{tr.Root(), "D", 4},
	} {
		id, err := tr.Add(tip.parent, tip.label)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tr.SetLength(id, tip.length)
	}

	s := summarize(tr, 0.001)
	want := []string{"test", "4", "2", "2", "3", "8", "1.6", "1", "0", "4", "1"}
	if diff := cmp.Diff(want, s.row("test")); diff != "" {
		t.Errorf("summary: mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeNoLengths(t *testing.T) {
	tr := tree.New("cladogram")
	tr.Add(tr.Root(), "A")
	tr.Add(tr.Root(), "B")

	s := summarize(tr, 0.001)
	want := []string{"x", "2", "1", "1", "2", "NA", "NA", "NA", "NA", "NA", "NA"}
	if diff := cmp.Diff(want, s.row("x")); diff != "" {
		t.Errorf("summary: mismatch (-want +got):\n%s", diff)
	}
}
