// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perm

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_perm01 checks the universal invariants listed in spec.md section 8:
// apply(inverse(p), apply(p, s)) == s; inverse(inverse(p)) == p;
// apply(compose(a,b), s) == apply(a, apply(b, s)).
func Test_perm01(tst *testing.T) {

	chk.PrintTitle("perm01. universal invariants")

	p := New([]int{2, 0, 3, 1})
	s := []int{10, 20, 30, 40}

	roundtrip := p.Inverse().ApplyInts(p.ApplyInts(s))
	chk.Ints(tst, "apply(inverse(p), apply(p, s)) == s", roundtrip, s)

	ii := p.Inverse().Inverse()
	chk.Ints(tst, "inverse(inverse(p)) == p", ii.Idx, p.Idx)

	a := New([]int{1, 0, 3, 2})
	b := New([]int{3, 2, 1, 0})
	lhs := Compose(a, b).ApplyInts(s)
	rhs := a.ApplyInts(b.ApplyInts(s))
	chk.Ints(tst, "apply(compose(a,b), s) == apply(a, apply(b, s))", lhs, rhs)
}

func Test_perm02(tst *testing.T) {

	chk.PrintTitle("perm02. identity and shift")

	id := Identity(5)
	for i, v := range id.Idx {
		if i != v {
			tst.Fatalf("identity permutation malformed at %d: %d", i, v)
		}
	}

	p := New([]int{0, 1, 2, 3, 4})
	shifted := p.ShiftRight(1)
	chk.Ints(tst, "shift right by 1", shifted.Idx, []int{1, 2, 3, 4, 0})
}
