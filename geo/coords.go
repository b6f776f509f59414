// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geo

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// Tag distinguishes how a Coords sequence's numbers should be interpreted.
type Tag int

// Tag values.
const (
	Cartesian Tag = iota
	Fractional
)

// Coords is a sequence of length-3 vectors tagged as Cartesian or
// Fractional, ported from rsp2's CoordsKind enum. Conversion to the other
// tag multiplies by the lattice matrix (frac->cart) or its inverse
// (cart->frac); the two directions are kept as separate methods (To*/Into*)
// so that call sites document, at the call site, which conversion is
// intended -- the same distinction CoordsKind::{to,into}_{carts,fracs}
// draws in rsp2.
type Coords struct {
	Tag Tag
	V   [][]float64 // len(V) x 3
}

// NewCoords wraps v (not copied) under the given tag.
func NewCoords(tag Tag, v [][]float64) *Coords {
	return &Coords{Tag: tag, V: v}
}

// Len returns the number of atoms.
func (c *Coords) Len() int { return len(c.V) }

// ToCarts returns Cartesian coordinates, converting via lat if necessary.
// The receiver is left unmodified.
func (c *Coords) ToCarts(lat *Lattice) [][]float64 {
	if c.Tag == Cartesian {
		return cloneMat(c.V)
	}
	return dotN3(c.V, lat.M)
}

// ToFracs returns fractional coordinates, converting via lat if necessary.
// The receiver is left unmodified.
func (c *Coords) ToFracs(lat *Lattice) [][]float64 {
	if c.Tag == Fractional {
		return cloneMat(c.V)
	}
	return dotN3(c.V, lat.Inv)
}

// IntoCarts converts c in place to Cartesian coordinates.
func (c *Coords) IntoCarts(lat *Lattice) {
	if c.Tag == Cartesian {
		return
	}
	c.V = dotN3(c.V, lat.M)
	c.Tag = Cartesian
}

// IntoFracs converts c in place to fractional coordinates.
func (c *Coords) IntoFracs(lat *Lattice) {
	if c.Tag == Fractional {
		return
	}
	c.V = dotN3(c.V, lat.Inv)
	c.Tag = Fractional
}

// dotN3 computes v[i] . m for each row v[i], i.e. row-vector times matrix.
func dotN3(v [][]float64, m [][]float64) [][]float64 {
	out := la.MatAlloc(len(v), 3)
	for i := range v {
		for j := 0; j < 3; j++ {
			out[i][j] = v[i][0]*m[0][j] + v[i][1]*m[1][j] + v[i][2]*m[2][j]
		}
	}
	return out
}

func cloneMat(v [][]float64) [][]float64 {
	out := la.MatAlloc(len(v), 3)
	for i := range v {
		copy(out[i], v[i])
	}
	return out
}

// WrapFrac reduces each fractional component into [0,1).
func WrapFrac(v []float64) [3]float64 {
	var w [3]float64
	for i := 0; i < 3; i++ {
		w[i] = v[i] - math.Floor(v[i])
		if w[i] >= 1.0 { // guard against floor rounding at the boundary
			w[i] -= 1.0
		}
	}
	return w
}

// SameAtom reports whether two atoms' Cartesian positions coincide modulo
// lattice translations, within tol Cartesian norm -- the "same" relation
// spec.md section 3 defines for Coords.
func SameAtom(lat *Lattice, cartA, cartB []float64, tol float64) bool {
	fa := dotN3([][]float64{cartA}, lat.Inv)[0]
	fb := dotN3([][]float64{cartB}, lat.Inv)[0]
	d := [3]float64{fa[0] - fb[0], fa[1] - fb[1], fa[2] - fb[2]}
	for i := 0; i < 3; i++ {
		d[i] -= math.Round(d[i])
	}
	cart := dotN3([][]float64{{d[0], d[1], d[2]}}, lat.M)[0]
	n := math.Sqrt(cart[0]*cart[0] + cart[1]*cart[1] + cart[2]*cart[2])
	return n < tol
}
