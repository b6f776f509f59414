// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sym implements SymmetryCore: rational rotations+translations,
// group closure via a decomposition tree, and the site permutations
// space-group operations induce on a structure.
package sym

import (
	"math"

	"github.com/cpmech/gophon/geo"
	"github.com/cpmech/gosl/chk"
)

// Op is a space-group operation: an integer 3x3 rotation in a chosen
// lattice basis, plus a rational translation (components reduced to
// [0,1)). Ported from spec.md's SpaceGroupOp.
type Op struct {
	Rot   [3][3]int
	Trans [3]float64 // fractional, each component in [0,1)
}

// Identity returns the trivial operation.
func Identity() Op {
	var r [3][3]int
	for i := 0; i < 3; i++ {
		r[i][i] = 1
	}
	return Op{Rot: r}
}

// Compose returns the operation equivalent to applying a then b under
// Transform's row-vector convention (v' = v.R + t): v'' = (v.Ra+ta).Rb+tb
// = v.(Ra.Rb) + (ta.Rb+tb), so the new rotation is Ra.Rb and the new
// translation is ta.Rb + tb, each mod 1.
func Compose(a, b Op) Op {
	var r [3][3]int
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s := 0
			for k := 0; k < 3; k++ {
				s += a.Rot[i][k] * b.Rot[k][j]
			}
			r[i][j] = s
		}
	}
	var t [3]float64
	for j := 0; j < 3; j++ {
		s := b.Trans[j]
		for k := 0; k < 3; k++ {
			s += a.Trans[k] * float64(b.Rot[k][j])
		}
		t[j] = mod1(s)
	}
	return Op{Rot: r, Trans: t}
}

func mod1(x float64) float64 {
	x -= math.Floor(x)
	if x >= 1.0 {
		x -= 1.0
	}
	return x
}

// CartRot returns the Cartesian form of the rotation under the row-vector
// convention: for row vector v (frac), v' = v.R (frac),
// and cart(v) = v.L, so cart(v') = v.R.L = frac(cart(v)).R.L
//   = cart(v).Linv.R.L
// giving R_cart = Linv . R . L (all as matrices acting on the right of row
// vectors), matching geo.Coords' row-vector convention.
func (o Op) CartRot(lat *geo.Lattice) [3][3]float64 {
	var rf [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rf[i][j] = float64(o.Rot[i][j])
		}
	}
	tmp := matMul3(rf, toArr(lat.M))
	out := matMul3(toArr(lat.Inv), tmp)
	return out
}

// CartTrans returns the Cartesian form of the translation.
func (o Op) CartTrans(lat *geo.Lattice) [3]float64 {
	var out [3]float64
	for j := 0; j < 3; j++ {
		out[j] = o.Trans[0]*lat.M[0][j] + o.Trans[1]*lat.M[1][j] + o.Trans[2]*lat.M[2][j]
	}
	return out
}

// Transform applies o to fractional coordinates, returning new fractional
// coordinates wrapped into [0,1).
func (o Op) Transform(fracs [][3]float64) [][3]float64 {
	out := make([][3]float64, len(fracs))
	for a, v := range fracs {
		var w [3]float64
		for j := 0; j < 3; j++ {
			s := o.Trans[j]
			for k := 0; k < 3; k++ {
				s += float64(o.Rot[k][j]) * v[k]
			}
			w[j] = mod1(s)
		}
		out[a] = w
	}
	return out
}

func matMul3(a, b [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s := 0.0
			for k := 0; k < 3; k++ {
				s += a[i][k] * b[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}

func toArr(m [][]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j]
		}
	}
	return out
}

// Det3i returns the determinant of a 3x3 integer matrix.
func Det3i(m [3][3]int) int {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// ErrNotReduced is returned by LatticePointGroup when the caller's lattice
// has not been pre-reduced, per spec.md section 9's resolved Open Question:
// the original source's lattice-point-group codepath is "untested/
// suspicious" for unreduced lattices, so gophon refuses to silently
// transform instead of risking incorrect results.
var ErrNotReduced = chk.Err("sym: LatticePointGroup requires a reduced input lattice; reduce it explicitly first")
