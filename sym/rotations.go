// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sym

import (
	"math"

	"github.com/cpmech/gophon/geo"
)

// Tolerance bundles the numerical knobs LatticePointGroup needs, kept
// configurable per spec.md section 9 rather than hard-coded constants.
type Tolerance struct {
	// LengthRel is the relative tolerance used when matching a candidate
	// lattice point's length against a cell-vector length.
	LengthRel float64
	// IntegerMatrix is the tolerance for "unfloat"-ing a nearly-integer
	// matrix back to exact integers. The metric off-diagonal comparison does
	// not use it; that tolerance is a fixed 1e-5 * cbrt(volume).
	IntegerMatrix float64
}

// DefaultTolerance mirrors the source's own heuristics: a relative length
// tolerance of 1e-5, and a generous 1e-3 for unfloating the final matrices.
var DefaultTolerance = Tolerance{LengthRel: 1e-5, IntegerMatrix: 1e-3}

// maxSearchRadius bounds the fractional lattice points considered as
// candidate images of a cell vector; ported verbatim from rotations.rs's
// `const MAX: i32 = 5`.
const maxSearchRadius = 5

// IsReduced reports whether lat looks like a Minkowski/Niggli-reduced cell
// by a coarse test: for every pair of cell vectors, the off-diagonal metric
// element |a_i.a_j| is at most half the squared length of the shorter of
// the two (a reduced basis should be close to orthogonal relative to its
// own vector lengths). The vector lengths are not compared with one
// another, and tol is not used. This is a necessary, not sufficient,
// condition -- exactly as suspicious as the source's own comment admits.
func IsReduced(lat *geo.Lattice, tol Tolerance) bool {
	rows := [3][3]float64{toArr(lat.M)[0], toArr(lat.M)[1], toArr(lat.M)[2]}
	dot := func(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if math.Abs(dot(rows[i], rows[j])) > 0.5*math.Min(lat.Norm[i], lat.Norm[j])*lat.Norm[i]*lat.Norm[j]/math.Max(lat.Norm[i], lat.Norm[j]) {
				return false
			}
		}
	}
	return true
}

// LatticePointGroup searches for the integer rotation matrices (expressed
// in the lattice's own fractional basis) that preserve the metric tensor
// L.L^T, following rotations.rs's reduced_lattice_point_group: for a given
// lattice, each rotation R has a corresponding unimodular transform sigma
// with L.R^T = sigma.L, and (sigma.L).(sigma.L)^T == L.L^T. The diagonal of
// that equality pins each row of sigma.L to a specific length, giving a
// small search space; the off-diagonal elements then filter candidates.
//
// lat MUST already be reduced (see IsReduced); LatticePointGroup returns
// ErrNotReduced otherwise rather than silently transforming it, per
// spec.md section 9's resolved Open Question.
func LatticePointGroup(lat *geo.Lattice, tol Tolerance) ([][3][3]int, error) {
	if !IsReduced(lat, tol) {
		return nil, ErrNotReduced
	}

	rows := [3][3]float64{toArr(lat.M)[0], toArr(lat.M)[1], toArr(lat.M)[2]}

	type candidate struct {
		frac [3]int
		cart [3]float64
	}
	var choices [3][]candidate
	for row := 0; row < 3; row++ {
		target := lat.Norm[row]
		for i := -maxSearchRadius; i <= maxSearchRadius; i++ {
			for j := -maxSearchRadius; j <= maxSearchRadius; j++ {
				for k := -maxSearchRadius; k <= maxSearchRadius; k++ {
					frac := [3]int{i, j, k}
					cart := fracToCart(frac, rows)
					r := math.Sqrt(cart[0]*cart[0] + cart[1]*cart[1] + cart[2]*cart[2])
					if math.Abs(r-target) < tol.LengthRel*target {
						choices[row] = append(choices[row], candidate{frac: frac, cart: cart})
					}
				}
			}
		}
	}

	dot := func(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
	targetOffDiag := [3]float64{
		dot(rows[1], rows[2]),
		dot(rows[2], rows[0]),
		dot(rows[0], rows[1]),
	}
	metricTol := 1e-5 * math.Cbrt(lat.Vol)

	var unimodulars [][3][3]int
	for _, c0 := range choices[0] {
		for _, c1 := range choices[1] {
			for _, c2 := range choices[2] {
				u := [3][3]int{c0.frac, c1.frac, c2.frac}
				if abs(det3i(u)) != 1 {
					continue
				}
				offDiags := [3]float64{
					dot(c1.cart, c2.cart),
					dot(c2.cart, c0.cart),
					dot(c0.cart, c1.cart),
				}
				ok := true
				for k := 0; k < 3; k++ {
					if math.Abs(offDiags[k]-targetOffDiag[k]) > metricTol {
						ok = false
						break
					}
				}
				if ok {
					unimodulars = append(unimodulars, u)
				}
			}
		}
	}

	out := make([][3][3]int, 0, len(unimodulars))
	for _, u := range unimodulars {
		r, ok := unfloatRotation(u, lat, tol.IntegerMatrix)
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func fracToCart(frac [3]int, rows [3][3]float64) [3]float64 {
	var out [3]float64
	for j := 0; j < 3; j++ {
		out[j] = float64(frac[0])*rows[0][j] + float64(frac[1])*rows[1][j] + float64(frac[2])*rows[2][j]
	}
	return out
}

// unfloatRotation recovers R (frac, integer) from the unimodular transform
// u via R = Linv . (U . L), per rotations.rs's l_inv * (u * l_mat), then
// rounds to the nearest integer within tol.
func unfloatRotation(u [3][3]int, lat *geo.Lattice, tol float64) ([3][3]int, bool) {
	var uf [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			uf[i][j] = float64(u[i][j])
		}
	}
	tmp := matMul3(uf, toArr(lat.M))
	rf := matMul3(toArr(lat.Inv), tmp)
	var r [3][3]int
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rounded := math.Round(rf[i][j])
			if math.Abs(rf[i][j]-rounded) > tol {
				return r, false
			}
			r[i][j] = int(rounded)
		}
	}
	return r, true
}

func det3i(m [3][3]int) int { return Det3i(m) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
