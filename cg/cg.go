// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cg

import (
	"math"

	"github.com/cpmech/gophon/gerr"
	"github.com/cpmech/gophon/ls"
	"github.com/cpmech/gosl/la"
)

// BetaFlavor selects the nonlinear CG beta update.
type BetaFlavor int

// BetaFlavor values.
const (
	// PolakRibiere is the Polak-Ribiere-style update (acgsd in spec.md's
	// config vocabulary).
	PolakRibiere BetaFlavor = iota
	// HagerZhang is the Hager-Zhang variant.
	HagerZhang
)

// LsFailurePolicy controls what happens when the fallback steepest-descent
// linesearch also fails.
type LsFailurePolicy int

// LsFailurePolicy values.
const (
	Succeed LsFailurePolicy = iota
	Warn
	Fail
)

// Config holds the per-run CGMinimizer configuration from spec.md section
// 4.2 / 6's `cg` block.
type Config struct {
	Flavor          BetaFlavor
	OnLsFailure     LsFailurePolicy
	AlphaGuessFirst float64
	AlphaGuessMax   float64
	Stop            StopCondition
	// Warn, if non-nil, receives human-readable progress/warning messages
	// (e.g. a Warn-policy linesearch failure), mirroring gofem's habit of
	// threading a verbosity-gated logger through its solvers.
	Warn func(format string, args ...interface{})
}

// ValueGradFn evaluates F(x) and grad F(x) together, matching the oracle
// contract in spec.md section 1 (PURPOSE & SCOPE): "the external atomistic
// potential (treated as an oracle returning value and gradient given
// Cartesian coordinates)".
type ValueGradFn func(x []float64) (value float64, grad []float64, err error)

// Result is CGMinimizer's public return value.
type Result struct {
	Position   []float64
	Value      float64
	Gradient   []float64
	Iterations int
}

// Minimize runs nonlinear conjugate gradient from x0, per spec.md section
// 4.2: direction d = -g + beta*d_prev, restarting to -g when d.g >= 0;
// linesearch along d with an alpha-guess that is the lesser of
// cfg.AlphaGuessMax (first iteration) or cfg.AlphaGuessFirst (subsequent)
// and a heuristic from the previous step. On linesearch failure, retries
// once from steepest descent; a second failure is handled per
// cfg.OnLsFailure.
func Minimize(cfg Config, x0 []float64, fn ValueGradFn) (Result, error) {
	x := la.VecClone(x0)

	value, grad, err := fn(x)
	if err != nil {
		return Result{}, err
	}

	var prevValue float64
	hasPrev := false
	var prevGrad, prevDir []float64
	alphaGuess := cfg.AlphaGuessMax

	iteration := 0
	for {
		gradNorm := la.VecNorm(grad)

		var dir []float64
		if prevDir == nil {
			dir = negate(grad)
		} else {
			beta := computeBeta(cfg.Flavor, grad, prevGrad, prevDir)
			dir = la.VecAdd(-1, grad, beta, prevDir) // dir = -grad + beta*prevDir
			if dot(dir, grad) >= 0 {
				dir = negate(grad)
			}
		}

		alpha, lsErr := runLineSearch(x, dir, alphaGuess, fn)
		if lsErr != nil {
			// retry once from steepest descent
			fallbackDir := negate(grad)
			alpha, lsErr = runLineSearch(x, fallbackDir, alphaGuess, fn)
			if lsErr != nil {
				switch cfg.OnLsFailure {
				case Succeed:
					return Result{Position: x, Value: value, Gradient: grad, Iterations: iteration}, nil
				case Warn:
					if cfg.Warn != nil {
						cfg.Warn("cg: linesearch failed twice at iteration %d: %v", iteration, lsErr)
					}
					return Result{Position: x, Value: value, Gradient: grad, Iterations: iteration}, nil
				default:
					return Result{}, gerr.New(gerr.FunctionOutput, "cg: linesearch failed twice at iteration %d: %v", iteration, lsErr)
				}
			}
			dir = fallbackDir
		}

		step := scale(alpha, dir)
		xNew := la.VecAdd(1, x, 1, step)
		valueNew, gradNew, err := fn(xNew)
		if err != nil {
			return Result{}, err
		}

		stepNorm := la.VecNorm(step)
		iteration++
		prevValue, hasPrev = value, true

		state := IterState{
			Iteration: iteration,
			Value:     valueNew,
			PrevValue: prevValue,
			HasPrev:   hasPrev,
			GradNorm:  gradNorm,
			StepNorm:  stepNorm,
		}

		prevGrad, prevDir = grad, dir
		x, value, grad = xNew, valueNew, gradNew

		alphaGuess = math.Min(cfg.AlphaGuessFirst, alpha*2)

		if cfg.Stop != nil && cfg.Stop(state) {
			break
		}
	}

	return Result{Position: x, Value: value, Gradient: grad, Iterations: iteration}, nil
}

// runLineSearch performs an exact linesearch along dir starting from x,
// returning the step length alpha minimizing F(x+alpha*dir).
func runLineSearch(x, dir []float64, alphaGuess float64, fn ValueGradFn) (float64, error) {
	slopeFn := func(alpha float64) (float64, error) {
		trial := la.VecAdd(1, x, alpha, dir)
		_, grad, err := fn(trial)
		if err != nil {
			return 0, err
		}
		return dot(grad, dir), nil
	}
	bound, err := ls.ExactLS(0.0, alphaGuess, slopeFn)
	if err != nil {
		return 0, err
	}
	return bound.Alpha, nil
}

func computeBeta(flavor BetaFlavor, grad, prevGrad, prevDir []float64) float64 {
	switch flavor {
	case HagerZhang:
		return hagerZhangBeta(grad, prevGrad, prevDir)
	default:
		return polakRibiereBeta(grad, prevGrad)
	}
}

// polakRibiereBeta computes beta = g.(g-g_prev) / (g_prev.g_prev), clamped
// to be non-negative (PR+).
func polakRibiereBeta(grad, prevGrad []float64) float64 {
	diff := make([]float64, len(grad))
	for i := range grad {
		diff[i] = grad[i] - prevGrad[i]
	}
	num := dot(grad, diff)
	den := dot(prevGrad, prevGrad)
	if den == 0 {
		return 0
	}
	beta := num / den
	if beta < 0 {
		return 0
	}
	return beta
}

// hagerZhangBeta computes the Hager-Zhang beta update.
func hagerZhangBeta(grad, prevGrad, prevDir []float64) float64 {
	y := make([]float64, len(grad))
	for i := range grad {
		y[i] = grad[i] - prevGrad[i]
	}
	dy := dot(prevDir, y)
	if dy == 0 {
		return 0
	}
	yy := dot(y, y)
	scaled := make([]float64, len(y))
	for i := range y {
		scaled[i] = y[i] - 2.0*prevDir[i]*yy/dy
	}
	return dot(scaled, grad) / dy
}

func negate(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = -x
	}
	return out
}

func scale(a float64, v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = a * x
	}
	return out
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
