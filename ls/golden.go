// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ls

import (
	"math"

	"github.com/cpmech/gophon/gerr"
)

// ValueBound is a single evaluated point on the value function.
type ValueBound struct {
	Alpha float64
	Value float64
}

// phi is the golden ratio (1+sqrt(5))/2.
var phi = (1.0 + math.Sqrt(5.0)) / 2.0

// Golden performs a classical golden-section search over `interval`
// (interval[1] may be less than interval[0]), minimizing f via `value`.
// Ported from exact_ls.rs's `golden`.
//
// Maintains a triple (a,b,d) with b the best interior point; on each step
// it computes a companion interior point c, recomputes b's abscissa from
// (a,d) to resist floating-point drift, and rotates the triple. It stops
// when b's value is no lower than min(a.Value, d.Value) -- numerical noise
// dominating, or a flat function -- and returns b's alpha. Because b's abscissa is recomputed
// every iteration without re-evaluating its value, alpha and value can
// desynchronize by exit; this is accepted, documented behavior, not a bug
// (see spec's design notes).
func Golden(interval [2]float64, value ValueFn) (float64, error) {
	compute := func(alpha float64) (ValueBound, error) {
		v, err := value(alpha)
		if err != nil {
			return ValueBound{}, err
		}
		if !isFinite(v) {
			return ValueBound{}, gerr.New(gerr.FunctionOutput, "golden: value at alpha=%v was not finite: %v", alpha, v)
		}
		return ValueBound{Alpha: alpha, Value: v}, nil
	}

	midXs := func(a, d float64) (float64, float64) {
		dist := (d - a) / (1.0 + phi)
		return a + dist, d - dist
	}

	a, err := compute(interval[0])
	if err != nil {
		return 0, err
	}
	d, err := compute(interval[1])
	if err != nil {
		return 0, err
	}
	bAlpha, _ := midXs(a.Alpha, d.Alpha)
	b, err := compute(bAlpha)
	if err != nil {
		return 0, err
	}

	for {
		if b.Value >= math.Min(a.Value, d.Value) {
			break
		}

		newBAlpha, cAlpha := midXs(a.Alpha, d.Alpha)
		b.Alpha = newBAlpha

		c, err := compute(cAlpha)
		if err != nil {
			return 0, err
		}

		if b.Value < c.Value {
			a, b, d = c, b, a
		} else {
			a, b, d = b, c, d
		}
	}
	return b.Alpha, nil
}
