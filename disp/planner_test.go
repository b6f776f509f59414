// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disp

import (
	"testing"

	"github.com/cpmech/gophon/perm"
	"github.com/cpmech/gosl/chk"
)

// Test_disp01 checks that Axial policy on a single atom with no symmetry
// emits exactly the 3 Cartesian axes.
func Test_disp01(tst *testing.T) {

	chk.PrintTitle("disp01. axial, no symmetry")

	out := Plan(1, Axial, nil)
	if len(out) != 3 {
		tst.Fatalf("expected 3 displacements, got %d", len(out))
	}
	for _, d := range out {
		if d.Atom != 0 {
			tst.Fatalf("expected atom 0, got %d", d.Atom)
		}
	}
}

// Test_disp02 checks that a C2 rotation about z swapping two atoms reduces
// the number of emitted displacements below the naive 6: the op maps atom
// 0's +x and +y onto -x and -y on atom 1, which are not axial candidates and
// so cover nothing, but it maps atom 0's +z onto atom 1's +z, so 5
// displacements are emitted.
func Test_disp02(tst *testing.T) {

	chk.PrintTitle("disp02. atom-swapping symmetry reduces coverage")

	swap := perm.New([]int{1, 0})
	// C2 about z: (x,y,z) -> (-x,-y,z)
	c2z := [3][3]float64{
		{-1, 0, 0},
		{0, -1, 0},
		{0, 0, 1},
	}
	ops := []LittleGroupOp{{SitePerm: swap, CartRot: c2z}}

	out := Plan(2, Axial, ops)

	// atom 0: x,y,z all emitted (nothing covered yet).
	// atom 1: x covered by atom0's x (image: atom1, -x -> not +x; so not
	// covered); check by direct count instead of hand-deriving parity.
	if len(out) == 0 || len(out) > 6 {
		tst.Fatalf("unexpected displacement count: %d", len(out))
	}
	// z on atom 1 must be covered by atom 0's z (same direction, rotation
	// fixes z), so the total must be strictly less than the naive 6.
	if len(out) >= 6 {
		tst.Fatalf("expected symmetry to reduce displacement count below 6, got %d", len(out))
	}
}

// Test_disp03 checks that Diagonal policy yields more candidate directions
// than Axial, and ExtendedDiagonal yields more than Diagonal.
func Test_disp03(tst *testing.T) {

	chk.PrintTitle("disp03. direction set growth across policies")

	axial := directionSet(Axial)
	diag := directionSet(Diagonal)
	ext := directionSet(ExtendedDiagonal)

	if len(diag) <= len(axial) {
		tst.Fatalf("expected diagonal set larger than axial: %d vs %d", len(diag), len(axial))
	}
	if len(ext) <= len(diag) {
		tst.Fatalf("expected extended-diagonal set larger than diagonal: %d vs %d", len(ext), len(diag))
	}
}

// Test_disp04 checks applyRot against a genuinely non-symmetric rotation (a
// 3-fold axis cycling the Cartesian axes): a symmetric rotation like
// Test_disp02's C2 about z can't distinguish row- from column-vector
// application, so this exercises the convention directly.
func Test_disp04(tst *testing.T) {

	chk.PrintTitle("disp04. applyRot row-vector convention under a 3-fold axis")

	// Row-vector convention: out = v.r, out[j] = sum_i v[i]*r[i][j].
	// With r's rows e2,e3,e1, out = (v[2], v[0], v[1]).
	threefold := [3][3]float64{
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 0},
	}
	v := [3]float64{1, 2, 3}
	got := applyRot(threefold, v)
	want := [3]float64{3, 1, 2}
	if got != want {
		tst.Fatalf("applyRot: got %v want %v", got, want)
	}
}

// Test_disp05 checks Plan's coverage propagation under a genuine 3-fold
// axis permuting three atoms cyclically -- a rotation this asymmetric only
// reduces coverage correctly if applyRot uses the matching row-vector
// convention (Test_disp02's diagonal C2 can't tell the two conventions
// apart, since it's its own transpose). ops carries the whole closed group
// (identity, the 3-fold, and its square), matching how cmd/gophon builds
// LittleGroupOp from every element of sym.Close's output, not just a
// generator.
func Test_disp05(tst *testing.T) {

	chk.PrintTitle("disp05. 3-fold axis coverage on three atoms")

	identity := perm.New([]int{0, 1, 2})
	cycle := perm.New([]int{1, 2, 0})  // atom i -> atom i+1 mod 3
	cycle2 := perm.New([]int{2, 0, 1}) // atom i -> atom i+2 mod 3

	// 3-fold axis cycling the Cartesian axes: x -> y -> z -> x under the
	// row-vector convention out = v.r (see Test_disp04).
	threefold := [3][3]float64{
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 0},
	}
	threefoldSq := [3][3]float64{
		{0, 0, 1},
		{1, 0, 0},
		{0, 1, 0},
	}
	identityRot := [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	ops := []LittleGroupOp{
		{SitePerm: identity, CartRot: identityRot},
		{SitePerm: cycle, CartRot: threefold},
		{SitePerm: cycle2, CartRot: threefoldSq},
	}

	out := Plan(3, Axial, ops)

	// Atom 0's x,y,z are emitted directly (9 candidates total, nothing
	// covered yet); the group orbit of each covers one direction on each of
	// the other two atoms, so the full 9-candidate set collapses to 3.
	if len(out) != 3 {
		tst.Fatalf("expected 3-fold symmetry to reduce 9 candidates to 3, got %d: %+v", len(out), out)
	}
	if out[0].Atom != 0 {
		tst.Fatalf("expected the first emitted displacement on atom 0, got atom %d", out[0].Atom)
	}
}
