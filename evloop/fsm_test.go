// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evloop

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_fsm01 checks that consecutive chasing-free iterations converge once
// MinPositiveIter is reached.
func Test_fsm01(tst *testing.T) {

	chk.PrintTitle("fsm01. converges after enough clean iterations")

	f := NewFSM(Config{MaxIter: 10, MinPositiveIter: 3})

	if s := f.Step(false); s != KeepGoing {
		tst.Fatalf("expected KeepGoing, got %v", s)
	}
	if s := f.Step(false); s != KeepGoing {
		tst.Fatalf("expected KeepGoing, got %v", s)
	}
	if s := f.Step(false); s != Done {
		tst.Fatalf("expected Done, got %v", s)
	}
}

// Test_fsm02 checks that chasing resets the clean-iteration counter and
// that exceeding MaxIter with FailOnExhaustion set reports Exhausted.
func Test_fsm02(tst *testing.T) {

	chk.PrintTitle("fsm02. chasing resets counter; exhaustion reported")

	f := NewFSM(Config{MaxIter: 2, MinPositiveIter: 2, FailOnExhaustion: true})

	if s := f.Step(true); s != KeepGoing {
		tst.Fatalf("iteration 1: expected KeepGoing, got %v", s)
	}
	if s := f.Step(true); s != Exhausted {
		tst.Fatalf("iteration 2: expected Exhausted, got %v", s)
	}
}

// Test_fsm03 checks that exceeding MaxIter without FailOnExhaustion reports
// Done rather than Exhausted.
func Test_fsm03(tst *testing.T) {

	chk.PrintTitle("fsm03. exhaustion without fail reports Done")

	f := NewFSM(Config{MaxIter: 1, MinPositiveIter: 1, FailOnExhaustion: false})

	if s := f.Step(true); s != Done {
		tst.Fatalf("expected Done once MaxIter exceeded without fail, got %v", s)
	}
}
