// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sym

import "github.com/cpmech/gosl/chk"

// Decomp records how an element was built from two earlier elements in the
// group's flat list; nil for the identity and for a generator. Kept as a parallel slice rather
// than a tree of pointers to avoid cyclic ownership, per spec.md section 9's
// design note (O(|G|) memory, no cycles, generators are the leaves).
type Decomp struct {
	Left, Right int
}

// Group is the flat closure of a set of generator Ops under Compose.
type Group struct {
	Ops     []Op
	Decomps []*Decomp // Decomps[i] == nil iff Ops[i] is the identity or a generator
}

// opKey turns an Op into a comparable key for deduplication.
type opKey struct {
	rot   [9]int
	trans [3]int64 // translation quantized to avoid float key fragility
}

const transQuantum = 1 << 20 // matches rational translations of small denominator

func keyOf(o Op) opKey {
	var k opKey
	n := 0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			k.rot[n] = o.Rot[i][j]
			n++
		}
	}
	for i := 0; i < 3; i++ {
		k.trans[i] = int64(o.Trans[i]*transQuantum + 0.5)
	}
	return k
}

// Close computes the closure of generators under Compose, starting from the
// identity (always included). Fails with a returned error (rather than
// looping forever) if maxSize elements are produced without closing, per
// spec.md section 3's "group closure over a generator set must be finite;
// implementers must detect and reject non-closing sets."
func Close(generators []Op, maxSize int) (*Group, error) {
	g := &Group{}
	seen := make(map[opKey]int)

	add := func(o Op, decomp *Decomp) int {
		k := keyOf(o)
		if idx, ok := seen[k]; ok {
			return idx
		}
		idx := len(g.Ops)
		g.Ops = append(g.Ops, o)
		g.Decomps = append(g.Decomps, decomp)
		seen[k] = idx
		return idx
	}

	add(Identity(), nil)
	for _, gen := range generators {
		add(gen, nil)
	}

	// Breadth-first closure: repeatedly compose every pair of known
	// elements until a full pass adds nothing new.
	for {
		grew := false
		n := len(g.Ops)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				composed := Compose(g.Ops[i], g.Ops[j])
				k := keyOf(composed)
				if _, ok := seen[k]; ok {
					continue
				}
				if len(g.Ops) >= maxSize {
					return nil, chk.Err("sym: Close: generator set did not close within %d elements", maxSize)
				}
				add(composed, &Decomp{Left: i, Right: j})
				grew = true
			}
		}
		if !grew {
			break
		}
	}
	return g, nil
}

// Rebuild reconstructs Ops[i] from its Decomp tree, verifying the stored
// composition still holds. Exists mainly to exercise the decomposition
// bookkeeping in tests; normal use just reads g.Ops directly.
func (g *Group) Rebuild(i int) Op {
	if g.Decomps[i] == nil {
		return g.Ops[i]
	}
	d := g.Decomps[i]
	return Compose(g.Rebuild(d.Left), g.Rebuild(d.Right))
}
