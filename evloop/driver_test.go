// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evloop

import (
	"math"
	"testing"

	"github.com/cpmech/gophon/acoustic"
	"github.com/cpmech/gophon/cg"
	"github.com/cpmech/gophon/disp"
	"github.com/cpmech/gophon/geo"
	"github.com/cpmech/gophon/perm"
	"github.com/cpmech/gosl/chk"
)

// Test_driver01 runs one full Driver.Iterate pass for a single harmonically
// bound atom: CG must relax it back to the origin, the reconstructed
// dynamical matrix must be the harmonic constant itself, and (since a
// single-atom cell has no non-translational eigenmodes) no chasing should
// occur.
func Test_driver01(tst *testing.T) {

	chk.PrintTitle("driver01. single-atom harmonic well end-to-end")

	const k = 4.0
	pot := func(x []float64) (float64, []float64, error) {
		value := 0.0
		grad := make([]float64, len(x))
		for i, xi := range x {
			value += 0.5 * k * xi * xi
			grad[i] = k * xi
		}
		return value, grad, nil
	}

	sc := geo.Diagonal([3]int{1, 1, 1}, 1)
	identityPerm := perm.Identity(1)
	identityRot := [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	d := &Driver{
		CGConfig: cg.Config{
			Flavor:          cg.PolakRibiere,
			OnLsFailure:     cg.Fail,
			AlphaGuessFirst: 1.0,
			AlphaGuessMax:   1.0,
			Stop:            cg.Any(cg.GradientNorm(1e-10), cg.MaxIterations(200)),
		},
		Sc:                    sc,
		Masses:                []float64{1.0},
		DirectionPolicy:       disp.Axial,
		LittleGroupOps:        nil,
		CartRots:              [][3][3]float64{identityRot},
		Deperms:               []*perm.Permutation{identityPerm},
		DisplacementMagnitude: 0.01,
		Acoustic:              acoustic.Config{DisplacementDistance: 0.01, RotationalThreshold: 0.9, ImaginaryThreshold: 0.9},
		Chase:                 OneByOne,
	}

	pos0 := []float64{0.1, 0.0, 0.0}
	result, err := d.Iterate(pot, pos0)
	if err != nil {
		tst.Fatalf("Iterate failed: %v", err)
	}

	for i, x := range result.Position {
		if math.Abs(x) > 1e-6 {
			tst.Fatalf("expected relaxation to the origin, component %d = %v", i, x)
		}
	}
	if result.DidChasing {
		tst.Fatalf("expected no chasing for a single-atom cell")
	}
	if len(result.Kinds) != 3 {
		tst.Fatalf("expected 3 modes, got %d", len(result.Kinds))
	}
	for i, k := range result.Kinds {
		if k != acoustic.Translational {
			tst.Fatalf("mode %d: expected Translational (trivial for a single-atom cell), got %v", i, k)
		}
	}
	for i, ev := range result.Eigenvalues {
		if math.Abs(ev-k) > 1e-8 {
			tst.Fatalf("eigenvalue %d: got %v want %v", i, ev, k)
		}
	}
}
