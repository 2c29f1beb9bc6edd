// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package errkind defines the kinds of errors
// reported by phylofunk packages.
//
// Errors are wrapped with fmt.Errorf,
// so use errors.Is to check for a given kind.
package errkind

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	// ErrConfig is returned when options are invalid
	// or contradictory.
	ErrConfig = errors.New("configuration error")

	// ErrFormat is returned when a file
	// or a tip label
	// does not follow the expected format.
	ErrFormat = errors.New("format error")

	// ErrLookup is returned when a taxon is not found
	// and strict matching is required.
	ErrLookup = errors.New("lookup error")

	// ErrIO is returned when a file
	// can not be read or written.
	ErrIO = errors.New("i/o error")
)

// Config returns a formatted configuration error.
func Config(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, a...))
}

// Format returns a formatted format error.
func Format(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, a...))
}

// Lookup returns a formatted lookup error.
func Lookup(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrLookup, fmt.Sprintf(format, a...))
}

// IO wraps an error as an I/O error.
// A nil error returns nil.
func IO(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrIO) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}
