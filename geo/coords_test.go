// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geo

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// mirrors rsp2's coords.rs div_vs_mul test: make sure the library correctly
// chooses whether to use the regular matrix, the inverse matrix, or neither.
func Test_coords01(tst *testing.T) {

	chk.PrintTitle("coords01. div vs mul")

	lat := Cubic(2.0)
	x := func(mag float64) [][]float64 { return [][]float64{{mag, 0, 0}} }

	chk.Matrix(tst, "Fracs(1).ToFracs == 1", 1e-15, Fracs(x(1.0)).ToFracs(lat), x(1.0))
	chk.Matrix(tst, "Fracs(1).ToCarts == 2", 1e-15, Fracs(x(1.0)).ToCarts(lat), x(2.0))
	chk.Matrix(tst, "Carts(1).ToFracs == 0.5", 1e-15, Carts(x(1.0)).ToFracs(lat), x(0.5))
	chk.Matrix(tst, "Carts(1).ToCarts == 1", 1e-15, Carts(x(1.0)).ToCarts(lat), x(1.0))
}

// mirrors rsp2's multiplication_order test: make sure matrix multiplication
// is done in the right order for a lattice whose matrix is not symmetric.
func Test_coords02(tst *testing.T) {

	chk.PrintTitle("coords02. multiplication order")

	lat := NewLattice([3][3]float64{
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 0},
	})

	input := [][]float64{{1, 0, 0}}
	fracToCart := [][]float64{{0, 1, 0}}
	cartToFrac := [][]float64{{0, 0, 1}}

	chk.Matrix(tst, "Fracs.ToCarts", 1e-15, Fracs(input).ToCarts(lat), fracToCart)
	chk.Matrix(tst, "Carts.ToFracs", 1e-15, Carts(input).ToFracs(lat), cartToFrac)
}

// Fracs and Carts are small constructors mirroring rsp2's CoordsKind::{Fracs,Carts}.
func Fracs(v [][]float64) *Coords { return NewCoords(Fractional, v) }
func Carts(v [][]float64) *Coords { return NewCoords(Cartesian, v) }
