// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package colorkey_test

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/js-arias/phylofunk/colorkey"
	"github.com/js-arias/phylofunk/errkind"
)

func TestReadTSV(t *testing.T) {
	data := `# lineage colors
key	color	comment
B.1.1.7	68, 119, 170	alpha
P.1	238,102,119	gamma
`
	k, err := colorkey.ReadTSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]color.RGBA{
		"B.1.1.7": {68, 119, 170, 255},
		"P.1":     {238, 102, 119, 255},
	}
	testKey(t, k, want)

	var buf bytes.Buffer
	if err := k.TSV(&buf); err != nil {
		t.Fatalf("while writing: %v", err)
	}
	nk, err := colorkey.ReadTSV(&buf)
	if err != nil {
		t.Fatalf("while reading written key: %v", err)
	}
	testKey(t, nk, want)
}

func TestReadErrors(t *testing.T) {
	tests := map[string]string{
		"no color":   "key\tcomment\nA\tnone\n",
		"two values": "key\tcolor\nA\t10,20\n",
		"overflow":   "key\tcolor\nA\t10,20,300\n",
		"not number": "key\tcolor\nA\t10,green,30\n",
	}
	for name, data := range tests {
		_, err := colorkey.ReadTSV(strings.NewReader(data))
		if !errors.Is(err, errkind.ErrFormat) {
			t.Errorf("%s: got error %v, want %v", name, err, errkind.ErrFormat)
		}
	}
}

func TestFill(t *testing.T) {
	k := colorkey.New()
	k.Set("B", color.RGBA{1, 2, 3, 255})
	k.Fill([]string{"C", "B", "A", "C"})

	want := map[string]color.RGBA{
		"A": colorkey.Gradient(0),
		"B": {1, 2, 3, 255},
		"C": colorkey.Gradient(1),
	}
	testKey(t, k, want)

	// undefined values are stable
	if a, b := k.Color("X"), k.Color("X"); a != b {
		t.Errorf("color of undefined value: got %v and %v", a, b)
	}
}

func testKey(t testing.TB, k *colorkey.Key, want map[string]color.RGBA) {
	t.Helper()

	got := make(map[string]color.RGBA, len(want))
	for _, v := range k.Values() {
		got[v] = k.Color(v).(color.RGBA)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("key mismatch (-want +got):\n%s", diff)
	}
}
