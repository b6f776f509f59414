// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cg

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_cg01 minimizes 0.5*x^T A x - b^T x for a small SPD A, per spec.md
// section 8: "CG with a quadratic ... A SPD of size <=100, converges in
// <=100 iterations to A^-1 b within 1e-8."
func Test_cg01(tst *testing.T) {

	chk.PrintTitle("cg01. quadratic convergence")

	a := [][]float64{
		{4, 1, 0},
		{1, 3, 1},
		{0, 1, 2},
	}
	b := []float64{1, 2, 3}

	fn := func(x []float64) (float64, []float64, error) {
		ax := matVec(a, x)
		value := 0.0
		grad := make([]float64, len(x))
		for i := range x {
			value += 0.5 * x[i] * ax[i]
			grad[i] = ax[i] - b[i]
		}
		for i := range x {
			value -= b[i] * x[i]
		}
		return value, grad, nil
	}

	cfg := Config{
		Flavor:          PolakRibiere,
		OnLsFailure:     Fail,
		AlphaGuessFirst: 1.0,
		AlphaGuessMax:   1.0,
		Stop:            Any(GradientNorm(1e-10), MaxIterations(100)),
	}

	x0 := []float64{0, 0, 0}
	result, err := Minimize(cfg, x0, fn)
	if err != nil {
		tst.Fatalf("Minimize failed: %v", err)
	}
	if result.Iterations > 100 {
		tst.Fatalf("expected convergence within 100 iterations, got %d", result.Iterations)
	}

	expected := solveLinear3(a, b)
	for i := range expected {
		if math.Abs(result.Position[i]-expected[i]) > 1e-8 {
			tst.Fatalf("component %d: got %v want %v", i, result.Position[i], expected[i])
		}
	}
}

func matVec(a [][]float64, x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range a {
		s := 0.0
		for j := range x {
			s += a[i][j] * x[j]
		}
		out[i] = s
	}
	return out
}

// solveLinear3 solves Ax=b for a 3x3 system via Cramer's rule, used only to
// produce the reference answer for this test.
func solveLinear3(a [][]float64, b []float64) []float64 {
	det3 := func(m [3][3]float64) float64 {
		return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
			m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
			m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	}
	var m [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = a[i][j]
		}
	}
	d := det3(m)
	x := make([]float64, 3)
	for col := 0; col < 3; col++ {
		mc := m
		for row := 0; row < 3; row++ {
			mc[row][col] = b[row]
		}
		x[col] = det3(mc) / d
	}
	return x
}
