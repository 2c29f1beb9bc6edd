// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree_test

import (
	"testing"

	"github.com/js-arias/phylofunk/tree"
)

func TestParseValue(t *testing.T) {
	tests := map[string]struct {
		in   string
		want tree.Value
		str  string
	}{
		"number":   {"0.25", tree.NumberValue(0.25), "0.25"},
		"negative": {"-3", tree.NumberValue(-3), "-3"},
		"bool":     {"TRUE", tree.BoolValue(true), "true"},
		"string":   {"B.1.1.7", tree.StringValue("B.1.1.7"), "B.1.1.7"},
		"nan":      {"NaN", tree.StringValue("NaN"), "NaN"},
		"set":      {`{"b",a, c}`, tree.SetValue("a", "b", "c"), "[a b c]"},
		"empty":    {"{}", tree.SetValue(), "[]"},
	}

	for name, test := range tests {
		v := tree.ParseValue(test.in)
		if !v.Equal(test.want) {
			t.Errorf("%s: got %v (%s), want %v (%s)", name, v, v.Kind(), test.want, test.want.Kind())
		}
		if v.String() != test.str {
			t.Errorf("%s: string: got %q, want %q", name, v.String(), test.str)
		}
	}
}

func TestValueEqual(t *testing.T) {
	if tree.StringValue("1").Equal(tree.NumberValue(1)) {
		t.Errorf("values of different kind should be different")
	}
	if !tree.SetValue("a", "b").Equal(tree.SetValue("b", "a", "a")) {
		t.Errorf("sets with the same elements should be equal")
	}
	var zero tree.Value
	if zero.Kind() != tree.Invalid {
		t.Errorf("zero value: got kind %s, want %s", zero.Kind(), tree.Invalid)
	}
}
