// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fconst implements ForceConstantsEngine: accumulates the
// symmetry-reduced force-response data a DisplacementPlanner collects into
// the full force-constants tensor Phi over the supercell, then folds Phi
// down into the Gamma-point dynamical matrix, per spec.md section 4.4.
package fconst

import (
	"math"

	"github.com/cpmech/gophon/gerr"
	"github.com/cpmech/gophon/geo"
	"github.com/cpmech/gophon/perm"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/mat"
)

// Displacement is one applied displacement: atom r, in supercell indexing,
// moved along Cart (not a unit vector -- its length is the displacement
// magnitude).
type Displacement struct {
	Atom int
	Cart [3]float64
}

// ForceSample is the force measured on one atom in response to a
// Displacement, identified by position in the parallel ForceSets slice.
type ForceSample struct {
	Atom  int
	Force [3]float64
}

// ForceConstants holds the block-sparse Phi tensor: Blocks[r][c] is the 3x3
// block such that F_c = -Phi[c][r] . u_r for a small displacement u_r of
// atom r, stored row-major (keyed by the displaced atom first) to match how
// ComputeRequiredRows accumulates one displaced atom at a time.
type ForceConstants struct {
	NumSuper int
	Blocks   map[int]map[int]*[3][3]float64
}

func newForceConstants(numSuper int) *ForceConstants {
	return &ForceConstants{NumSuper: numSuper, Blocks: make(map[int]map[int]*[3][3]float64)}
}

func (fc *ForceConstants) block(r, c int) *[3][3]float64 {
	row, ok := fc.Blocks[r]
	if !ok {
		row = make(map[int]*[3][3]float64)
		fc.Blocks[r] = row
	}
	b, ok := row[c]
	if !ok {
		b = &[3][3]float64{}
		row[c] = b
	}
	return b
}

func (fc *ForceConstants) setBlock(r, c int, m [3][3]float64) {
	*fc.block(r, c) = m
}

// ComputeRequiredRows builds Phi from the minimal set of displacements a
// DisplacementPlanner produced (grouped by displaced supercell atom) plus
// their force responses, then propagates every computed block to its full
// symmetry orbit via cartRots/deperms, mirroring
// rsp2's `ForceConstants::compute_required_rows(displacements, force_sets,
// cart_rots, deperms, &sc)` contract (tests/force-constants.rs).
//
// Each displacement's response must come with at least 3 linearly
// independent displacement directions per displaced atom before that atom's
// blocks can be solved for; gophon relies on disp.Plan's axial-first
// direction ordering to guarantee this holds by the time all displacements
// for a given atom have been seen.
func ComputeRequiredRows(
	displacements []Displacement,
	forceSets [][]ForceSample,
	cartRots [][3][3]float64,
	deperms []*perm.Permutation,
	sc *geo.SupercellToken,
) (*ForceConstants, error) {
	if len(displacements) != len(forceSets) {
		return nil, gerr.New(gerr.FunctionOutput, "fconst: %d displacements but %d force sets", len(displacements), len(forceSets))
	}

	byAtom := make(map[int][]int) // displaced atom -> indices into displacements
	for i, d := range displacements {
		byAtom[d.Atom] = append(byAtom[d.Atom], i)
	}

	fc := newForceConstants(sc.NumSuper)

	for r, idxs := range byAtom {
		if len(idxs) < 3 {
			return nil, gerr.New(gerr.FunctionOutput, "fconst: atom %d has only %d displacement directions, need 3", r, len(idxs))
		}
		dirs := idxs[:3]

		var dMat [3][3]float64
		for col, di := range dirs {
			for row := 0; row < 3; row++ {
				dMat[row][col] = displacements[di].Cart[row]
			}
		}
		dInv, err := invert3(dMat)
		if err != nil {
			return nil, gerr.New(gerr.FunctionOutput, "fconst: atom %d: displacement directions not independent: %v", r, err)
		}

		responses := make(map[int][3][3]float64) // atom c -> columns of forces across dirs
		for col, di := range dirs {
			for _, sample := range forceSets[di] {
				f := responses[sample.Atom]
				f[0][col] = sample.Force[0]
				f[1][col] = sample.Force[1]
				f[2][col] = sample.Force[2]
				responses[sample.Atom] = f
			}
		}

		for c, fMat := range responses {
			neg := fMat
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					neg[i][j] = -neg[i][j]
				}
			}
			block := matMul3(neg, dInv)
			fc.setBlock(r, c, block)
		}
	}

	propagateSymmetry(fc, cartRots, deperms)

	return fc, nil
}

// propagateSymmetry fills in Phi(p_g(c), p_g(r)) = R_g^T . Phi(c,r) . R_g
// for every known block and every (rotation, deperm) pair, the standard
// space-group covariance of the force-constants tensor (spec.md section
// 4.4's "symmetry invariants") under R_g's row-vector convention.
func propagateSymmetry(fc *ForceConstants, cartRots [][3][3]float64, deperms []*perm.Permutation) {
	type key struct{ r, c int }
	known := make(map[key]bool)
	for r, row := range fc.Blocks {
		for c := range row {
			known[key{r, c}] = true
		}
	}

	for g := range cartRots {
		rot := cartRots[g]
		dep := deperms[g]
		for r, row := range fc.Blocks {
			for c, block := range row {
				rImg := dep.Idx[r]
				cImg := dep.Idx[c]
				if known[key{rImg, cImg}] {
					continue
				}
				rotBlock := sandwich(rot, *block)
				fc.setBlock(rImg, cImg, rotBlock)
				known[key{rImg, cImg}] = true
			}
		}
	}
}

// Symmetrize averages Phi(r,c) with Phi(c,r)^T, and Repair enforces the
// acoustic sum rule row-wise (spec.md section 4.4): Phi(r,r) is adjusted so
// that sum_c Phi(r,c) == 0, i.e. a uniform translation produces zero net
// force.
func (fc *ForceConstants) Symmetrize() {
	type key struct{ r, c int }
	seen := make(map[key]bool)
	for r, row := range fc.Blocks {
		for c := range row {
			if r > c || seen[key{r, c}] {
				continue
			}
			seen[key{r, c}] = true
			a := fc.block(r, c)
			b := fc.block(c, r)
			var avg [3][3]float64
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					avg[i][j] = 0.5 * (a[i][j] + b[j][i])
				}
			}
			*a = avg
			var avgT [3][3]float64
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					avgT[i][j] = avg[j][i]
				}
			}
			*b = avgT
		}
	}
}

// Repair enforces the acoustic sum rule per row.
func (fc *ForceConstants) Repair() {
	for r, row := range fc.Blocks {
		var sum [3][3]float64
		for c, b := range row {
			if c == r {
				continue
			}
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					sum[i][j] += b[i][j]
				}
			}
		}
		var diag [3][3]float64
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				diag[i][j] = -sum[i][j]
			}
		}
		fc.setBlock(r, r, diag)
	}
}

// ToDenseMatrix expands Blocks into a full NumSuper x NumSuper matrix of 3x3
// blocks, the `dense` format compared against in tests/force-constants.rs.
func (fc *ForceConstants) ToDenseMatrix() [][][3][3]float64 {
	out := make([][][3][3]float64, fc.NumSuper)
	for r := range out {
		out[r] = make([][3][3]float64, fc.NumSuper)
	}
	for r, row := range fc.Blocks {
		for c, b := range row {
			out[r][c] = *b
		}
	}
	return out
}

// GammaDynamicalMatrix folds Phi down to the mass-weighted Gamma-point
// dynamical matrix D_ab = (1/sqrt(m_a m_b)) * sum_{images t of b} Phi(a,
// image(b,t)), summed over every supercell image of each primitive atom
// (translations carry no phase at Gamma), grounded on
// `force_constants.gamma_dynmat(&sc, prim_masses)`. The imaginary part is
// always exactly zero at Gamma and is returned only so callers have the
// same (real, imag) pair shape the acceptance tests compare against.
func GammaDynamicalMatrix(fc *ForceConstants, sc *geo.SupercellToken, masses []float64) (real, imag *mat.Dense) {
	n := sc.NumPrim
	real = mat.NewDense(3*n, 3*n, nil)
	imag = mat.NewDense(3*n, 3*n, nil)

	for a := 0; a < n; a++ {
		aSuper := sc.Designated[a]
		for b := 0; b < n; b++ {
			var sum [3][3]float64
			for superAtom, img := range sc.Images {
				if img.PrimAtom != b {
					continue
				}
				row, ok := fc.Blocks[aSuper]
				if !ok {
					continue
				}
				block, ok := row[superAtom]
				if !ok {
					continue
				}
				for i := 0; i < 3; i++ {
					for j := 0; j < 3; j++ {
						sum[i][j] += block[i][j]
					}
				}
			}
			w := 1.0 / math.Sqrt(masses[a]*masses[b])
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					real.Set(3*a+i, 3*b+j, sum[i][j]*w)
				}
			}
		}
	}
	return real, imag
}

// sandwich rotates the 3x3 block m by r. r is a sym.Op.CartRot-style
// row-vector rotation (points transform as v' = v.r), so a column-vector
// quantity like a force or displacement transforms via r^T, and m (which
// maps one column vector to another) transforms as r^T.m.r.
func sandwich(r [3][3]float64, m [3][3]float64) [3][3]float64 {
	rt := transpose3(r)
	return matMul3(matMul3(rt, m), r)
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

func transpose3(a [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[j][i]
		}
	}
	return out
}

func invert3(m [3][3]float64) ([3][3]float64, error) {
	a := la.MatAlloc(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a[i][j] = m[i][j]
		}
	}
	ai := la.MatAlloc(3, 3)
	det, err := la.MatInv(ai, a, 1e-14)
	if err != nil {
		return [3][3]float64{}, err
	}
	if det == 0 {
		return [3][3]float64{}, gerr.New(gerr.FunctionOutput, "fconst: singular displacement matrix")
	}
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = ai[i][j]
		}
	}
	return out, nil
}
