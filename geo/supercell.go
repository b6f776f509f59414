// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geo

import (
	"github.com/cpmech/gophon/perm"
	"github.com/cpmech/gosl/chk"
)

// Image records which primitive atom a supercell site is an image of, and
// which integer lattice translation (in primitive-cell units) carried it
// there.
type Image struct {
	PrimAtom int
	Trans    [3]int
}

// SupercellToken is the (primitive->super transform, site->image mapping)
// pair from spec.md's SupercellToken. Only diagonal (axis-aligned) integer
// transforms are supported, matching rsp2's supercell::diagonal, which is
// the only construction exercised by the force-constants acceptance tests.
type SupercellToken struct {
	Dim      [3]int  // diagonal transform T = diag(Dim)
	NumPrim  int
	NumSuper int
	Images   []Image // len == NumSuper; super site -> (prim atom, translation)

	// Designated is the stable "designated image" of each primitive atom:
	// the first supercell site, in construction order, that maps back to it.
	Designated []int // len == NumPrim
}

// Diagonal builds a SupercellToken for a diagonal transform T=diag(dim),
// tiling numPrim primitive atoms into dim[0]*dim[1]*dim[2] images each, in
// the canonical order: translation varies fastest over the 3rd axis, then
// the 2nd, then the 1st; within a translation, atoms are in primitive-cell
// order. This matches the iteration order rsp2's supercell::diagonal uses,
// which tests/force-constants.rs relies on only after re-deriving a
// permutation via perm_to_match. gophon's tests use this order directly and
// do not compare it against rsp2's layout.
func Diagonal(dim [3]int, numPrim int) *SupercellToken {
	det := dim[0] * dim[1] * dim[2]
	if det <= 0 {
		chk.Panic("geo: Diagonal: supercell dimensions must be positive, got %v", dim)
	}
	numSuper := det * numPrim
	tok := &SupercellToken{
		Dim: dim, NumPrim: numPrim, NumSuper: numSuper,
		Images:     make([]Image, 0, numSuper),
		Designated: make([]int, numPrim),
	}
	seenDesignated := make([]bool, numPrim)
	for i0 := 0; i0 < dim[0]; i0++ {
		for i1 := 0; i1 < dim[1]; i1++ {
			for i2 := 0; i2 < dim[2]; i2++ {
				for p := 0; p < numPrim; p++ {
					idx := len(tok.Images)
					tok.Images = append(tok.Images, Image{PrimAtom: p, Trans: [3]int{i0, i1, i2}})
					if !seenDesignated[p] {
						tok.Designated[p] = idx
						seenDesignated[p] = true
					}
				}
			}
		}
	}
	return tok
}

// NumImagesPerPrim returns det(T), the number of supercell images per
// primitive atom -- invariant "every primitive site has exactly det(T)
// supercell images" from spec.md section 3.
func (t *SupercellToken) NumImagesPerPrim() int {
	return t.Dim[0] * t.Dim[1] * t.Dim[2]
}

// ExpandPermutation lifts a primitive-cell site permutation and its integer
// rotation into a supercell-site permutation, for force-constants symmetry
// propagation (fconst.ComputeRequiredRows's deperms/cartRots, which index
// supercell sites, not primitive atoms). Only uniform supercells (Dim[0] ==
// Dim[1] == Dim[2]) are supported: for such a supercell, the translation
// lattice dim*Z^3 is invariant under ANY integer rotation matrix (since
// rot.(dim*k) == dim*(rot.k) for integer k), so each image's translation
// simply maps via rot mod dim regardless of the rotation's off-diagonal
// structure. For a non-uniform supercell this invariance isn't guaranteed in
// general, so the second return value is false and the caller should fall
// back to not propagating symmetry for that operation (correct, just slower).
func (t *SupercellToken) ExpandPermutation(primPerm *perm.Permutation, rot [3][3]int) (*perm.Permutation, bool) {
	if t.Dim[0] != t.Dim[1] || t.Dim[1] != t.Dim[2] {
		return nil, false
	}
	d := t.Dim[0]

	index := make(map[[4]int]int, t.NumSuper) // (primAtom, t0, t1, t2) -> site
	for s, img := range t.Images {
		index[[4]int{img.PrimAtom, img.Trans[0], img.Trans[1], img.Trans[2]}] = s
	}

	idx := make([]int, t.NumSuper)
	for s, img := range t.Images {
		p2 := primPerm.Idx[img.PrimAtom]
		var t2 [3]int
		for i := 0; i < 3; i++ {
			v := rot[i][0]*img.Trans[0] + rot[i][1]*img.Trans[1] + rot[i][2]*img.Trans[2]
			v %= d
			if v < 0 {
				v += d
			}
			t2[i] = v
		}
		s2, ok := index[[4]int{p2, t2[0], t2[1], t2[2]}]
		if !ok {
			return nil, false
		}
		idx[s] = s2
	}
	return perm.New(idx), true
}

// CartOffset returns the Cartesian offset a translation contributes, given
// the primitive lattice.
func CartOffset(lat *Lattice, trans [3]int) [3]float64 {
	var out [3]float64
	for j := 0; j < 3; j++ {
		out[j] = float64(trans[0])*lat.M[0][j] + float64(trans[1])*lat.M[1][j] + float64(trans[2])*lat.M[2][j]
	}
	return out
}
