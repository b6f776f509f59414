// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sym

import (
	"math"

	"github.com/cpmech/gophon/perm"
	"github.com/cpmech/gosl/chk"
)

// FindPermutations computes, for each operation in ops, the site
// permutation it induces on fracs (fractional coordinates, already wrapped
// into the fundamental cell): the bijection sigma such that
// op.Transform(fracs) == fracs permuted by sigma, within tol fractional
// distance (after periodic wrapping). Ported from rsp2's
// find_perm::spacegroup_coperms.
func FindPermutations(fracs [][3]float64, ops []Op, tol float64) ([]*perm.Permutation, error) {
	out := make([]*perm.Permutation, len(ops))
	for gi, op := range ops {
		transformed := op.Transform(fracs)
		p, err := matchSites(transformed, fracs, tol)
		if err != nil {
			return nil, chk.Err("sym: FindPermutations: operation %d: %v", gi, err)
		}
		out[gi] = p
	}
	return out, nil
}

// matchSites finds, for every atom in `from`, the index in `to` it
// coincides with modulo lattice translations (in fractional units), and
// returns the Permutation q with q.Idx[i] == j.
func matchSites(from, to [][3]float64, tol float64) (*perm.Permutation, error) {
	n := len(from)
	if len(to) != n {
		return nil, chk.Err("matchSites: length mismatch %d != %d", n, len(to))
	}
	used := make([]bool, n)
	idx := make([]int, n)
	for i, a := range from {
		best, bestDist := -1, math.Inf(1)
		for j, b := range to {
			if used[j] {
				continue
			}
			d := fracDist(a, b)
			if d < bestDist {
				bestDist, best = d, j
			}
		}
		if best == -1 || bestDist > tol {
			return nil, chk.Err("matchSites: atom %d has no image within tol=%v (closest=%v)", i, tol, bestDist)
		}
		used[best] = true
		idx[i] = best
	}
	return perm.New(idx), nil
}

func fracDist(a, b [3]float64) float64 {
	var s float64
	for k := 0; k < 3; k++ {
		d := a[k] - b[k]
		d -= math.Round(d)
		s += d * d
	}
	return math.Sqrt(s)
}

// ValidatePermutations re-checks that op.Transform(fracs), permuted by p, is
// order-for-order identical (within tol) to fracs itself -- i.e. that the
// claimed site permutation actually undoes the transform. Mirrors the
// assertion find-perm.rs's tests make inline after calling
// spacegroup_coperms, factored out here as its own function so that a
// deliberately-corrupted permutation (perm.ShiftRight) can be fed through it
// and is guaranteed to fail, exactly as rsp2's validation_can_fail test
// demonstrates.
func ValidatePermutations(fracs [][3]float64, ops []Op, perms []*perm.Permutation, tol float64) error {
	if len(ops) != len(perms) {
		return chk.Err("sym: ValidatePermutations: length mismatch %d != %d", len(ops), len(perms))
	}
	for gi, op := range ops {
		transformed := op.Transform(fracs)
		p := perms[gi]
		// gather convention: transformed[i] should coincide with fracs[p.Idx[i]],
		// i.e. atom i is mapped onto atom p.Idx[i] by this operation.
		for i := 0; i < len(fracs); i++ {
			if fracDist(transformed[i], fracs[p.Idx[i]]) > tol {
				return chk.Err("sym: ValidatePermutations: operation %d mismatched at atom %d", gi, i)
			}
		}
	}
	return nil
}
