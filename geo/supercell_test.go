// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geo

import (
	"testing"

	"github.com/cpmech/gophon/perm"
	"github.com/cpmech/gosl/chk"
)

// Test_supercell01 checks Diagonal's bookkeeping invariants: NumSuper ==
// det(T)*NumPrim, and every primitive atom has a stable designated image.
func Test_supercell01(tst *testing.T) {

	chk.PrintTitle("supercell01. diagonal bookkeeping")

	tok := Diagonal([3]int{2, 2, 2}, 2)
	if tok.NumSuper != 16 {
		tst.Fatalf("expected NumSuper=16, got %d", tok.NumSuper)
	}
	if len(tok.Designated) != 2 {
		tst.Fatalf("expected 2 designated entries, got %d", len(tok.Designated))
	}
	for p, s := range tok.Designated {
		if tok.Images[s].PrimAtom != p {
			tst.Fatalf("designated image %d does not map back to primitive atom %d", s, p)
		}
	}
}

// Test_supercell02 checks ExpandPermutation on a uniform 2x2x2 supercell
// with a 2-atom cell and the identity operation: the lifted permutation
// must itself be the identity.
func Test_supercell02(tst *testing.T) {

	chk.PrintTitle("supercell02. expand identity permutation")

	tok := Diagonal([3]int{2, 2, 2}, 2)
	primPerm := perm.Identity(2)
	identityRot := [3][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	lifted, ok := tok.ExpandPermutation(primPerm, identityRot)
	if !ok {
		tst.Fatalf("expected identity rotation to lift successfully")
	}
	for s := 0; s < tok.NumSuper; s++ {
		if lifted.Idx[s] != s {
			tst.Fatalf("expected identity lift, site %d mapped to %d", s, lifted.Idx[s])
		}
	}
}

// Test_supercell03 checks that a non-uniform supercell refuses to expand a
// non-identity rotation.
func Test_supercell03(tst *testing.T) {

	chk.PrintTitle("supercell03. non-uniform supercell rejected")

	tok := Diagonal([3]int{2, 1, 1}, 1)
	primPerm := perm.Identity(1)
	swapXY := [3][3]int{{0, 1, 0}, {1, 0, 0}, {0, 0, 1}}

	if _, ok := tok.ExpandPermutation(primPerm, swapXY); ok {
		tst.Fatalf("expected non-uniform supercell to reject expansion")
	}
}
