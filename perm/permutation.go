// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package perm implements permutations as total maps (PermutationCore),
// used as first-class data throughout gophon's symmetry code.
package perm

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// Permutation is a total bijection on {0,...,n-1} stored as a dense slice:
// P.Idx[i] is where element i is sent. Ported from rsp2_soa_ops::Perm.
type Permutation struct {
	Idx []int
}

// Identity returns the identity permutation of length n.
func Identity(n int) *Permutation {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return &Permutation{Idx: idx}
}

// New wraps idx as a Permutation after checking it is a bijection on
// {0,...,len(idx)-1}. Panics (programmer error) if it is not, mirroring
// gosl/chk.Panic's use for invariant violations rather than returning error.
func New(idx []int) *Permutation {
	p := &Permutation{Idx: append([]int(nil), idx...)}
	if !p.isBijection() {
		chk.Panic("perm: New: %v is not a bijection on {0,...,%d}", idx, len(idx)-1)
	}
	return p
}

func (p *Permutation) isBijection() bool {
	n := len(p.Idx)
	seen := make([]bool, n)
	for _, v := range p.Idx {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// Len returns n.
func (p *Permutation) Len() int { return len(p.Idx) }

// Inverse returns the inverse permutation: Inverse()[p[i]] == i.
func (p *Permutation) Inverse() *Permutation {
	n := len(p.Idx)
	inv := make([]int, n)
	for i, v := range p.Idx {
		inv[v] = i
	}
	return &Permutation{Idx: inv}
}

// Compose returns a∘b, i.e. (a∘b)[i] = a[b[i]].
func Compose(a, b *Permutation) *Permutation {
	if a.Len() != b.Len() {
		chk.Panic("perm: Compose: length mismatch %d != %d", a.Len(), b.Len())
	}
	n := a.Len()
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = a.Idx[b.Idx[i]]
	}
	return &Permutation{Idx: out}
}

// ShiftRight cyclically shifts the permutation's outputs by n, the
// corruption used by find-perm.rs's validation_can_fail test to build a
// deliberately-wrong permutation.
func (p *Permutation) ShiftRight(n int) *Permutation {
	ln := p.Len()
	out := make([]int, ln)
	for i, v := range p.Idx {
		out[i] = ((v+n)%ln + ln) % ln
	}
	return &Permutation{Idx: out}
}

// ApplyInts permutes an []int sequence following the convention
// apply(p, s)[p[i]] = s[i], matching
// rsp2_soa_ops::Permute's "permuted_by" (a gather by inverse). Concretely,
// out[p.Idx[i]] = s[i] for all i.
func (p *Permutation) ApplyInts(s []int) []int {
	if len(s) != p.Len() {
		chk.Panic("perm: ApplyInts: length mismatch %d != %d", len(s), p.Len())
	}
	out := make([]int, len(s))
	for i, v := range s {
		out[p.Idx[i]] = v
	}
	return out
}

// ApplyFloat3 permutes a []([3]float64) sequence the same way ApplyInts does.
func (p *Permutation) ApplyFloat3(s [][3]float64) [][3]float64 {
	if len(s) != p.Len() {
		chk.Panic("perm: ApplyFloat3: length mismatch %d != %d", len(s), p.Len())
	}
	out := make([][3]float64, len(s))
	for i, v := range s {
		out[p.Idx[i]] = v
	}
	return out
}

// PartitionByKey groups indices [0,n) by a caller-supplied integer key,
// returning a map from each key to its indices in increasing order (the
// map itself has no key order). No package in gophon calls it yet.
// Grounded on gosl/utl's small int-slice helpers (utl.IntSort), which
// gofem itself uses for the same kind of bookkeeping chore.
func PartitionByKey(n int, key func(i int) int) map[int][]int {
	groups := make(map[int][]int)
	for i := 0; i < n; i++ {
		k := key(i)
		groups[k] = append(groups[k], i)
	}
	for k := range groups {
		utl.IntSort(groups[k])
	}
	return groups
}
