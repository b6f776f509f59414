// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gerr defines the exhaustive error kinds used throughout gophon.
//
// Numerical and user-triggerable failures are always returned as a *Error
// carrying one of these kinds; they are never panics. Panics are reserved
// for programmer-error invariant violations (see gosl/chk.Panic for the
// convention this follows).
package gerr

import "fmt"

// Kind identifies one of the exhaustive error categories from the design.
type Kind int

// Error kinds.
const (
	// BadBound indicates check_mirroring_assumption failed: 2*a0-a0 != a0.
	BadBound Kind = iota
	// NoMinimum indicates exact_ls's bracket expansion diverged to infinity.
	NoMinimum
	// GsBadValue indicates golden-section search saw a value beyond its endpoints.
	GsBadValue
	// FunctionOutput indicates a callback returned a non-finite value or slope.
	FunctionOutput
	// NonPrimitiveStructure indicates a symmetry detector received a supercell.
	NonPrimitiveStructure
	// BigDisplacement indicates supercell images moved implausibly far between iterations.
	BigDisplacement
	// IntPrecisionError indicates a quantity required to be integer was not near one.
	IntPrecisionError
	// NonEquivalentLattice indicates a lattice transform is not unimodular-integer-equivalent.
	NonEquivalentLattice
	// ProcessFailed indicates a child process exited with a non-zero status.
	ProcessFailed
	// PotentialError indicates the potential oracle reported a failure.
	PotentialError
	// Cancelled indicates cooperative cancellation was observed.
	Cancelled
	// ConfigInvalid indicates configuration validation failed.
	ConfigInvalid
)

var kindNames = map[Kind]string{
	BadBound:               "BadBound",
	NoMinimum:              "NoMinimum",
	GsBadValue:             "GsBadValue",
	FunctionOutput:         "FunctionOutput",
	NonPrimitiveStructure:  "NonPrimitiveStructure",
	BigDisplacement:        "BigDisplacement",
	IntPrecisionError:      "IntPrecisionError",
	NonEquivalentLattice:   "NonEquivalentLattice",
	ProcessFailed:          "ProcessFailed",
	PotentialError:         "PotentialError",
	Cancelled:              "Cancelled",
	ConfigInvalid:          "ConfigInvalid",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the concrete error type carried by gophon's public APIs.
type Error struct {
	Kind    Kind
	Path    string // ConfigInvalid: dotted path of the offending key
	Status  int    // ProcessFailed: child process exit status
	Message string
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Kind, e.Message, e.Path)
	}
	if e.Kind == ProcessFailed {
		return fmt.Sprintf("%s: %s (status=%d)", e.Kind, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds an *Error the way gosl/chk.Err builds a generic error: a
// Sprintf-style message attached to one of the exhaustive kinds.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithPath attaches a configuration path to a ConfigInvalid error.
func WithPath(kind Kind, path, format string, args ...interface{}) *Error {
	e := New(kind, format, args...)
	e.Path = path
	return e
}

// WithStatus attaches a child-process exit status to a ProcessFailed error.
func WithStatus(status int, format string, args ...interface{}) *Error {
	e := New(ProcessFailed, format, args...)
	e.Status = status
	return e
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
