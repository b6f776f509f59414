// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disp implements DisplacementPlanner: from a primitive cell and
// its space group, produces the minimal set of (atom, Cartesian direction)
// displacements whose force responses determine the force-constants tensor.
package disp

import (
	"math"

	"github.com/cpmech/gophon/perm"
	"gonum.org/v1/gonum/combin"
	"gonum.org/v1/gonum/floats"
)

// DirectionPolicy selects which candidate Cartesian directions are tried at
// each atom, per spec.md section 4.3 and the `phonons.disp-finder` config
// option.
type DirectionPolicy int

// DirectionPolicy values.
const (
	Axial DirectionPolicy = iota
	Diagonal
	ExtendedDiagonal
)

// Displacement is a planned (atom, Cartesian direction) pair; magnitude is
// applied by the caller (the configured displacement distance), so Dir here
// is always a unit vector.
type Displacement struct {
	Atom int
	Dir  [3]float64
}

// LittleGroupOp is one element of an atom's little group: the site
// permutation and Cartesian rotation induced by a space-group operation
// that the planner uses to propagate coverage to symmetry images.
type LittleGroupOp struct {
	SitePerm *perm.Permutation
	CartRot  [3][3]float64
}

// Plan enumerates every atom 0..numAtoms-1 and, for each not-yet-covered
// (atom, direction) candidate (from the policy's direction set, in a fixed
// order), emits it and marks as covered every symmetry image under ops --
// the site's orbit under the full space group, not just its stabilizer,
// since any operation maps some covered pair onto some other pair.
func Plan(numAtoms int, policy DirectionPolicy, ops []LittleGroupOp) []Displacement {
	dirs := directionSet(policy)

	type pair struct {
		atom int
		dir  int // index into dirs, using the closest-match comparison below
	}
	covered := make(map[pair]bool)

	var out []Displacement
	for atom := 0; atom < numAtoms; atom++ {
		for di, dir := range dirs {
			key := pair{atom, di}
			if covered[key] {
				continue
			}
			out = append(out, Displacement{Atom: atom, Dir: dir})
			covered[key] = true

			for _, op := range ops {
				imgAtom := op.SitePerm.Idx[atom]
				imgDir := applyRot(op.CartRot, dir)
				imgDi := closestDirIndex(dirs, imgDir)
				if imgDi >= 0 {
					covered[pair{imgAtom, imgDi}] = true
				}
			}
		}
	}
	return out
}

// directionSet returns the unit-vector candidates for a policy, in a fixed,
// deterministic order so Plan's output is reproducible.
func directionSet(policy DirectionPolicy) [][3]float64 {
	axes := [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	if policy == Axial {
		return axes
	}

	var out [][3]float64
	out = append(out, axes...)

	// Face diagonals: for each pair of axes (via combin.Combinations, which
	// enumerates the C(3,2)=3 unordered axis pairs), both sign
	// combinations of their sum.
	for _, pair := range combin.Combinations(3, 2) {
		for _, signs := range [][2]float64{{1, 1}, {1, -1}} {
			v := [3]float64{}
			v[pair[0]] = signs[0]
			v[pair[1]] = signs[1]
			out = append(out, normalize(v))
		}
	}
	if policy == Diagonal {
		return out
	}

	// ExtendedDiagonal: directions with one component at fractional
	// magnitude 2 relative to the other (e.g. (2,1,0)), per spec.md's
	// "extended diagonal up to fractional 2".
	for _, pair := range combin.Combinations(3, 2) {
		for _, signs := range [][2]float64{{2, 1}, {2, -1}, {1, 2}, {-1, 2}} {
			v := [3]float64{}
			v[pair[0]] = signs[0]
			v[pair[1]] = signs[1]
			out = append(out, normalize(v))
		}
	}
	return out
}

func normalize(v [3]float64) [3]float64 {
	n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}
}

// applyRot applies r to v using the same row-vector convention as
// sym.Op.CartRot/Transform: out = v.r, i.e. out[j] = sum_i v[i]*r[i][j].
func applyRot(r [3][3]float64, v [3]float64) [3]float64 {
	var out [3]float64
	for j := 0; j < 3; j++ {
		out[j] = v[0]*r[0][j] + v[1]*r[1][j] + v[2]*r[2][j]
	}
	return out
}

// closestDirIndex finds the entry in dirs matching v within a loose
// tolerance (symmetry images land exactly on another candidate direction
// for the direction sets Plan uses); returns -1 if no candidate matches,
// in which case that particular image simply isn't eligible for coverage
// marking (it will be visited directly when Plan reaches it).
func closestDirIndex(dirs [][3]float64, v [3]float64) int {
	const tol = 1e-6
	for i, d := range dirs {
		if floats.Distance(d[:], v[:], 2) < tol {
			return i
		}
	}
	return -1
}
