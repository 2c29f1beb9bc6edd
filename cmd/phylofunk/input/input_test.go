// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package input_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/js-arias/phylofunk/cmd/phylofunk/input"
	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/metadata"
)

func TestTrees(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "tree.nwk")
	if err := os.WriteFile(name, []byte("((A:1,B:1):1,C:2);\n"), 0644); err != nil {
		t.Fatalf("unable to write tree file: %v", err)
	}

	in := input.Options{Input: name}
	tr, err := in.Tree(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testTerms(t, tr.Terms(), []string{"A", "B", "C"})

	// from stdin
	in = input.Options{}
	tr, err = in.Tree(strings.NewReader("(X,(Y,Z));"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testTerms(t, tr.Terms(), []string{"X", "Y", "Z"})
}

func TestReadMetadataUndefined(t *testing.T) {
	var in input.Options
	if _, err := in.ReadMetadata(); !errors.Is(err, errkind.ErrConfig) {
		t.Errorf("metadata: got error %v, want %v", err, errkind.ErrConfig)
	}
}

func TestOutput(t *testing.T) {
	out := input.Output{Format: "phylip"}
	if err := out.Check(); !errors.Is(err, errkind.ErrConfig) {
		t.Errorf("check: got error %v, want %v", err, errkind.ErrConfig)
	}

	in := input.Options{}
	ts, err := in.Trees(strings.NewReader("(A,B);"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out = input.Output{Format: "newick"}
	var w bytes.Buffer
	if err := out.Write(&w, ts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(w.String(), "(A,B)") {
		t.Errorf("output: got %q, want %q", w.String(), "(A,B);")
	}
}

func TestKeySpec(t *testing.T) {
	in := input.Options{IDField: 1, Delimiter: metadata.DefaultDelimiter}
	ks := in.KeySpec()
	if ks.Field != 1 || ks.Delimiter != "|" {
		t.Errorf("key spec: got %+v", ks)
	}
}

func testTerms(t testing.TB, got, want []string) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("terms: got %v, want %v", got, want)
	}
	for i, tx := range want {
		if got[i] != tx {
			t.Errorf("terms: got %v, want %v", got, want)
			return
		}
	}
}

func TestEncodeBeforeWrite(t *testing.T) {
	in := input.Options{}
	ts, err := in.Trees(strings.NewReader("((A:1,B:1):1,C:2);"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name := filepath.Join(t.TempDir(), "out.nwk")
	out := input.Output{Name: name, Format: "phylip"}
	if _, err := out.Encode(ts); !errors.Is(err, errkind.ErrConfig) {
		t.Errorf("encode: got error %v, want %v", err, errkind.ErrConfig)
	}
	if _, err := os.Stat(name); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("invalid format: output file was created")
	}

	out.Format = "newick"
	data, err := out.Encode(ts)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := out.WriteBytes(nil, data); err != nil {
		t.Fatalf("write bytes: %v", err)
	}
	got, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("output: got %q, want %q", got, data)
	}
}
