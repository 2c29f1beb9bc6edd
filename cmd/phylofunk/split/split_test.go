// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package split

import (
	"path/filepath"
	"testing"

	"github.com/js-arias/phylofunk/treeio"
)

func TestFileName(t *testing.T) {
	defer func() {
		outPath = ""
		prefix = ""
	}()

	tests := map[string]struct {
		path   string
		prefix string
		value  string
		format treeio.Format
		want   string
	}{
		"plain": {
			value:  "B.1.1.7",
			format: treeio.Nexus,
			want:   "B.1.1.7.nexus",
		},
		"path and prefix": {
			path:   "out",
			prefix: "uk_",
			value:  "B.1",
			format: treeio.Newick,
			want:   filepath.Join("out", "uk_B.1.newick"),
		},
		"separators": {
			value:  "A/B C:D",
			format: treeio.TSV,
			want:   "A_B_C_D.tab",
		},
	}

	for name, test := range tests {
		outPath = test.path
		prefix = test.prefix
		if got := fileName(test.value, test.format); got != test.want {
			t.Errorf("%s: got %q, want %q", name, got, test.want)
		}
	}
}
