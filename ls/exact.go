// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ls implements the Linesearch primitives: an exact 1-D
// root-of-slope search (bisection bracketed by interval doubling) and a
// golden-section value minimizer, both with parity reflection for
// mis-oriented initial slopes. Ported from original_source's
// minimize/src/exact_ls.rs.
package ls

import (
	"math"

	"github.com/cpmech/gophon/gerr"
)

// SlopeFn evaluates the directional derivative s(alpha); callback errors
// are returned verbatim so ExactLS can short-circuit and propagate them
// distinctly from internal numerical failures.
type SlopeFn func(alpha float64) (float64, error)

// ValueFn evaluates f(alpha); see SlopeFn.
type ValueFn func(alpha float64) (float64, error)

// SlopeBound is a single evaluated point on the slope function.
type SlopeBound struct {
	Alpha float64
	Slope float64
}

// checkMirroring verifies the IEEE-754 property 2*x0-x0 == x0 that ExactLS's
// mirroring trick relies on when the initial slope at `from` is positive.
// See exact_ls.rs's check_mirroring_assumption.
func checkMirroring(x0 float64) error {
	if 2.0*x0-x0 != x0 {
		return gerr.New(gerr.BadBound, "mirroring assumption 2*%v-%v == %v failed", x0, x0, x0)
	}
	return nil
}

// ExactLS finds an endpoint alpha at which s(alpha) ~= 0, starting from
// `from` with an initial bracket width of `step`. Ported from exact_ls.rs's
// `linesearch`.
//
// If s(from) > 0, the problem is mirrored around `from` (alpha -> 2*from -
// alpha, slope negated) -- this relies on checkMirroring, surfaced as
// *gerr.Error{Kind: BadBound} if violated. The bound found in the mirrored
// problem is mapped back, so the returned alpha and slope are always those
// of the caller's own s(alpha).
//
// Bracketing doubles the interval width, starting from (from, from+step),
// until the upper endpoint's slope is >= 0; it fails with Kind: NoMinimum if
// alpha ceases to be finite. Refinement is then plain bisection, maintaining
// lo.Slope <= 0 <= hi.Slope, terminating when the midpoint equals an
// endpoint in floating point (returning the current lo). Non-finite slopes
// produce Kind: FunctionOutput.
func ExactLS(from, step float64, slope SlopeFn) (SlopeBound, error) {
	compute := func(alpha float64) (SlopeBound, error) {
		s, err := slope(alpha)
		if err != nil {
			return SlopeBound{}, err
		}
		if !isFinite(s) {
			return SlopeBound{}, gerr.New(gerr.FunctionOutput, "slope at alpha=%v was not finite: %v", alpha, s)
		}
		return SlopeBound{Alpha: alpha, Slope: s}, nil
	}

	a, err := compute(from)
	if err != nil {
		return SlopeBound{}, err
	}

	mirrored, center := false, a.Alpha
	if a.Slope > 0.0 {
		if err := checkMirroring(a.Alpha); err != nil {
			return SlopeBound{}, err
		}
		mirrored = true
		inner := compute
		compute = func(alpha float64) (SlopeBound, error) {
			b, err := inner(2.0*center - alpha)
			if err != nil {
				return SlopeBound{}, err
			}
			return SlopeBound{Alpha: alpha, Slope: -b.Slope}, nil
		}
		a.Slope *= -1.0
	}

	b, err := compute(from + step)
	if err != nil {
		return SlopeBound{}, err
	}

	a, b, err = findInitial(a, b, compute)
	if err != nil {
		return SlopeBound{}, err
	}
	bound, err := bisect(a, b, compute)
	if err != nil {
		return SlopeBound{}, err
	}
	if mirrored {
		bound = SlopeBound{Alpha: 2.0*center - bound.Alpha, Slope: -bound.Slope}
	}
	return bound, nil
}

func findInitial(a, b SlopeBound, compute func(float64) (SlopeBound, error)) (SlopeBound, SlopeBound, error) {
	if a.Slope > 0.0 {
		return SlopeBound{}, SlopeBound{}, gerr.New(gerr.BadBound, "findInitial: lower bound has positive slope %v", a.Slope)
	}
	for b.Slope < 0.0 {
		newAlpha := b.Alpha + (b.Alpha - a.Alpha)
		if !isFinite(newAlpha) {
			return SlopeBound{}, SlopeBound{}, gerr.New(gerr.NoMinimum, "interval doubling diverged past alpha=%v", b.Alpha)
		}
		next, err := compute(newAlpha)
		if err != nil {
			return SlopeBound{}, SlopeBound{}, err
		}
		b = next
	}
	return a, b, nil
}

func bisect(lo, hi SlopeBound, compute func(float64) (SlopeBound, error)) (SlopeBound, error) {
	if lo.Alpha > hi.Alpha {
		return SlopeBound{}, gerr.New(gerr.BadBound, "bisect: lo.alpha > hi.alpha (%v > %v)", lo.Alpha, hi.Alpha)
	}
	for {
		alpha := 0.5 * (lo.Alpha + hi.Alpha)
		if !(lo.Alpha < alpha && alpha < hi.Alpha) {
			return lo, nil
		}
		bound, err := compute(alpha)
		if err != nil {
			return SlopeBound{}, err
		}
		if bound.Slope >= 0.0 {
			hi = bound
		} else {
			lo = bound
		}
	}
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
