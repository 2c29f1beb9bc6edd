// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package errkind_test

import (
	"errors"
	"os"
	"testing"

	"github.com/js-arias/phylofunk/errkind"
)

func TestKinds(t *testing.T) {
	tests := map[string]struct {
		err  error
		kind error
		msg  string
	}{
		"config": {
			err:  errkind.Config("flag %q", "max-child"),
			kind: errkind.ErrConfig,
			msg:  `configuration error: flag "max-child"`,
		},
		"format": {
			err:  errkind.Format("tip %q", "a|b"),
			kind: errkind.ErrFormat,
			msg:  `format error: tip "a|b"`,
		},
		"lookup": {
			err:  errkind.Lookup("taxon %q not found", "x"),
			kind: errkind.ErrLookup,
			msg:  `lookup error: taxon "x" not found`,
		},
	}

	for name, test := range tests {
		if !errors.Is(test.err, test.kind) {
			t.Errorf("%s: error %v is not %v", name, test.err, test.kind)
		}
		if test.err.Error() != test.msg {
			t.Errorf("%s: message: got %q, want %q", name, test.err.Error(), test.msg)
		}
	}
}

func TestIO(t *testing.T) {
	if errkind.IO(nil) != nil {
		t.Errorf("nil error: got non-nil error")
	}

	_, err := os.Open("a-file-that-does-not-exist.tab")
	err = errkind.IO(err)
	if !errors.Is(err, errkind.ErrIO) {
		t.Errorf("got %v, want %v", err, errkind.ErrIO)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want %v", err, os.ErrNotExist)
	}
	if again := errkind.IO(err); again != err {
		t.Errorf("wrapping twice: got %v, want %v", again, err)
	}
}
