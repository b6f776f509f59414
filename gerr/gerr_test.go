// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gerr

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_gerr01 checks Error's message formatting across the Path/Status
// variants and the plain case.
func Test_gerr01(tst *testing.T) {

	chk.PrintTitle("gerr01. error message formatting")

	plain := New(NoMinimum, "bracket expansion diverged to %v", "infinity")
	if plain.Error() != "NoMinimum: bracket expansion diverged to infinity" {
		tst.Fatalf("unexpected plain message: %q", plain.Error())
	}

	withPath := WithPath(ConfigInvalid, "phonons.supercell.dim", "expected 3 entries, got %d", 2)
	if withPath.Error() != "ConfigInvalid: expected 3 entries, got 2 (at phonons.supercell.dim)" {
		tst.Fatalf("unexpected path message: %q", withPath.Error())
	}

	withStatus := WithStatus(7, "child exited")
	if withStatus.Error() != "ProcessFailed: child exited (status=7)" {
		tst.Fatalf("unexpected status message: %q", withStatus.Error())
	}
}

// Test_gerr02 checks Is matches only the given kind, and rejects plain
// (non-*Error) errors.
func Test_gerr02(tst *testing.T) {

	chk.PrintTitle("gerr02. Is kind matching")

	err := New(PotentialError, "oracle failed")
	if !Is(err, PotentialError) {
		tst.Fatalf("expected Is to match PotentialError")
	}
	if Is(err, ConfigInvalid) {
		tst.Fatalf("expected Is to reject a different kind")
	}
	if Is(nil, PotentialError) {
		tst.Fatalf("expected Is(nil, ...) to be false")
	}
}

// Test_gerr03 checks Kind.String falls back to a numeric form for an
// out-of-range value.
func Test_gerr03(tst *testing.T) {

	chk.PrintTitle("gerr03. Kind.String fallback")

	var bogus Kind = 999
	if bogus.String() != "Kind(999)" {
		tst.Fatalf("unexpected fallback string: %q", bogus.String())
	}
}
