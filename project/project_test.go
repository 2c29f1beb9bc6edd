// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/metadata"
	"github.com/js-arias/phylofunk/project"
)

type setPath struct {
	set  project.Dataset
	path string
}

func TestProject(t *testing.T) {
	p := project.New()

	sets := []setPath{
		{project.Tree, "global.nexus"},
		{project.Metadata, "metadata.csv"},
		{project.Taxa, "targets.csv"},
		{project.Params, "context.tab"},
		{project.Keys, "lineage-keys.tab"},
	}

	for _, s := range sets {
		p.Add(s.set, s.path)
	}
	testProject(t, p, sets)

	name := "tmp-project-for-test.tab"
	defer os.Remove(name)

	p.SetName(name)
	if err := p.Write(); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	np, err := project.Read(name)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	testProject(t, np, sets)

	// removing a dataset
	if prev := np.Add(project.Keys, ""); prev != "lineage-keys.tab" {
		t.Errorf("remove keys: got previous %q, want %q", prev, "lineage-keys.tab")
	}
	testProject(t, np, sets[:4])
}

func TestUnknownDataset(t *testing.T) {
	name := filepath.Join(t.TempDir(), "project.tab")
	data := "dataset\tpath\ngeomotion\tgeo-model.tab\n"
	if err := os.WriteFile(name, []byte(data), 0644); err != nil {
		t.Fatalf("while writing file: %v", err)
	}
	if _, err := project.Read(name); !errors.Is(err, errkind.ErrConfig) {
		t.Errorf("got error %v, want %v", err, errkind.ErrConfig)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"tree.nwk":     "((s1,s2),(s3,s4));\n",
		"metadata.csv": "sequence_name,lineage\ns1,B.1\ns2,B.1.1\ns3,A\ns4,A.1\n",
		"taxa.csv":     "sequence_name\ns3\ns4\n",
	}
	p := project.New()
	p.SetName(filepath.Join(dir, "project.tab"))
	for f, data := range files {
		path := filepath.Join(dir, f)
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatalf("while writing %q: %v", f, err)
		}
	}

	if _, err := p.Trees(); !errors.Is(err, errkind.ErrConfig) {
		t.Errorf("undefined tree: got error %v, want %v", err, errkind.ErrConfig)
	}

	p.Add(project.Tree, filepath.Join(dir, "tree.nwk"))
	p.Add(project.Metadata, filepath.Join(dir, "metadata.csv"))
	p.Add(project.Taxa, filepath.Join(dir, "taxa.csv"))

	ts, err := p.Trees()
	if err != nil {
		t.Fatalf("trees: unexpected error: %v", err)
	}
	if len(ts) != 1 || len(ts[0].Terms()) != 4 {
		t.Errorf("trees: got %d trees", len(ts))
	}

	idx, err := p.Metadata("")
	if err != nil {
		t.Fatalf("metadata: unexpected error: %v", err)
	}
	if idx.Len() != 4 {
		t.Errorf("metadata: got %d records, want %d", idx.Len(), 4)
	}

	taxa, err := p.Taxa("", metadata.KeySpec{})
	if err != nil {
		t.Fatalf("taxa: unexpected error: %v", err)
	}
	if keys := taxa.Keys(); !reflect.DeepEqual(keys, []string{"s3", "s4"}) {
		t.Errorf("taxa: got %v, want %v", keys, []string{"s3", "s4"})
	}

	cp, err := p.Params()
	if err != nil {
		t.Fatalf("params: unexpected error: %v", err)
	}
	if cp.MaxParent() != 1 {
		t.Errorf("params: got max-parent %d, want %d", cp.MaxParent(), 1)
	}
	k, err := p.Keys()
	if err != nil {
		t.Fatalf("keys: unexpected error: %v", err)
	}
	if len(k.Values()) != 0 {
		t.Errorf("keys: got %v, want empty", k.Values())
	}
}

func testProject(t testing.TB, p *project.Project, sets []setPath) {
	t.Helper()

	for _, s := range sets {
		if path := p.Path(s.set); path != s.path {
			t.Errorf("set %s: got path %q, want %q", s.set, path, s.path)
		}
	}
	datasets := make([]project.Dataset, 0, len(sets))
	for _, v := range sets {
		datasets = append(datasets, v.set)
	}
	slices.Sort(datasets)

	if ls := p.Sets(); !reflect.DeepEqual(ls, datasets) {
		t.Errorf("sets: got %v, want %v", ls, datasets)
	}
}
