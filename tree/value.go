// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrTypeMismatch is returned when a value is read
// with an accessor of a different kind.
var ErrTypeMismatch = errors.New("attribute type mismatch")

// Kind is the kind of value stored in an attribute.
type Kind int

// Valid kinds.
const (
	Invalid Kind = iota
	String
	Number
	Bool
	Set
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case Set:
		return "set"
	}
	return "invalid"
}

// A Value is an attribute value of a node.
// The zero value is an invalid value.
type Value struct {
	kind Kind
	s    string
	n    float64
	b    bool
	set  []string
}

// StringValue returns a string value.
func StringValue(s string) Value {
	return Value{kind: String, s: s}
}

// NumberValue returns a number value.
func NumberValue(n float64) Value {
	return Value{kind: Number, n: n}
}

// BoolValue returns a boolean value.
func BoolValue(b bool) Value {
	return Value{kind: Bool, b: b}
}

// SetValue returns a set of strings value.
// Repeated elements are stored only once.
func SetValue(elems ...string) Value {
	set := make([]string, len(elems))
	copy(set, elems)
	slices.Sort(set)
	return Value{kind: Set, set: slices.Compact(set)}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// Str returns the string stored in the value.
func (v Value) Str() (string, error) {
	if v.kind != String {
		return "", fmt.Errorf("%w: got %s, want %s", ErrTypeMismatch, v.kind, String)
	}
	return v.s, nil
}

// Num returns the number stored in the value.
func (v Value) Num() (float64, error) {
	if v.kind != Number {
		return 0, fmt.Errorf("%w: got %s, want %s", ErrTypeMismatch, v.kind, Number)
	}
	return v.n, nil
}

// Bool returns the boolean stored in the value.
func (v Value) Bool() (bool, error) {
	if v.kind != Bool {
		return false, fmt.Errorf("%w: got %s, want %s", ErrTypeMismatch, v.kind, Bool)
	}
	return v.b, nil
}

// Set returns the elements of a set value,
// sorted lexically.
func (v Value) Set() ([]string, error) {
	if v.kind != Set {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrTypeMismatch, v.kind, Set)
	}
	set := make([]string, len(v.set))
	copy(set, v.set)
	return set, nil
}

// Equal returns true if both values are of the same kind
// and store the same data.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case String:
		return v.s == o.s
	case Number:
		return v.n == o.n
	case Bool:
		return v.b == o.b
	case Set:
		return slices.Equal(v.set, o.set)
	}
	return true
}

// String returns a plain text rendition of the value.
// Sets are rendered as space separated elements
// between brackets.
func (v Value) String() string {
	switch v.kind {
	case String:
		return v.s
	case Number:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(v.b)
	case Set:
		return "[" + strings.Join(v.set, " ") + "]"
	}
	return ""
}

// ParseValue returns the value encoded in a string,
// guessing its kind:
// a number,
// a boolean (true or false),
// a set in the form {a,b,c},
// or a string.
func ParseValue(s string) Value {
	s = strings.TrimSpace(s)
	if isNumeric(s) {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return NumberValue(n)
		}
	}
	switch strings.ToLower(s) {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	if len(s) > 1 && s[0] == '{' && s[len(s)-1] == '}' {
		in := strings.TrimSpace(s[1 : len(s)-1])
		if in == "" {
			return SetValue()
		}
		elems := strings.Split(in, ",")
		for i, e := range elems {
			elems[i] = strings.Trim(strings.TrimSpace(e), `"'`)
		}
		return SetValue(elems...)
	}
	return StringValue(s)
}

// IsNumeric returns true if the string starts
// as a decimal number
// (i.e., it rejects "NaN" or "Inf" labels).
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	if c == '-' || c == '+' {
		if len(s) == 1 {
			return false
		}
		c = s[1]
	}
	return (c >= '0' && c <= '9') || c == '.'
}
