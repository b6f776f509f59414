// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geo implements the lattice, coordinate, and supercell primitives
// that every other gophon package builds on (GeometryCore).
package geo

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// Lattice is a 3x3 real matrix whose rows are the lattice vectors, plus the
// derived quantities every caller ends up needing: its inverse, volume, and
// per-vector norms. Mirrors gofem's habit (e.g. msolid.SmallElasticity) of
// caching derived scalars alongside the primary data at construction time.
type Lattice struct {
	M    [][]float64 // 3x3, rows are lattice vectors
	Inv  [][]float64 // 3x3, M*Inv == I
	Vol  float64     // |det(M)|
	Norm [3]float64  // row norms
}

// NewLattice builds a Lattice from 3 row vectors, computing and caching the
// inverse, volume and norms. Panics (as a programmer-error invariant
// violation, not a returned error) if the rows are degenerate.
func NewLattice(rows [3][3]float64) *Lattice {
	m := la.MatAlloc(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = rows[i][j]
		}
	}
	inv := la.MatAlloc(3, 3)
	det, err := la.MatInv(inv, m, 1e-13)
	if err != nil {
		chk.Panic("geo: NewLattice: singular lattice matrix: %v", err)
	}
	if math.Abs(det) < 1e-13 {
		chk.Panic("geo: NewLattice: lattice determinant is ~zero (det=%v)", det)
	}
	lat := &Lattice{M: m, Inv: inv, Vol: math.Abs(det)}
	for i := 0; i < 3; i++ {
		lat.Norm[i] = math.Sqrt(m[i][0]*m[i][0] + m[i][1]*m[i][1] + m[i][2]*m[i][2])
	}
	return lat
}

// Cubic returns a cubic lattice of the given side length, mirroring the
// convenience constructors rsp2's Lattice::cubic provides.
func Cubic(a float64) *Lattice {
	return NewLattice([3][3]float64{
		{a, 0, 0},
		{0, a, 0},
		{0, 0, a},
	})
}

// CheckInverse verifies M*Inv == I within tol, the invariant spec.md section
// 3 requires of every Lattice.
func (l *Lattice) CheckInverse(tol float64) error {
	prod := la.MatAlloc(3, 3)
	la.MatMul(prod, 1, l.M, l.Inv)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(prod[i][j]-want) > tol {
				return chk.Err("geo: Lattice inverse invariant violated at (%d,%d): got %v want %v", i, j, prod[i][j], want)
			}
		}
	}
	return nil
}
