// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cg implements CGMinimizer: nonlinear conjugate gradient over R^N
// with a pluggable Linesearch, configurable stop conditions, and recoverable
// linesearch failure.
package cg

import "math"

// IterState is the information a StopCondition predicate may inspect. It is
// stateless across iterations except for the minimizer's own bookkeeping of
// the previous value, mirroring gonum/optimize's FunctionConverge pattern of
// remembering only "best value seen so far".
type IterState struct {
	Iteration int
	Value     float64
	PrevValue float64
	HasPrev   bool
	GradNorm  float64
	StepNorm  float64
}

// StopCondition is an atomic or composite predicate over IterState; it
// returns true when the minimizer should stop.
type StopCondition func(s IterState) bool

// MaxIterations stops once s.Iteration reaches n.
func MaxIterations(n int) StopCondition {
	return func(s IterState) bool { return s.Iteration >= n }
}

// AbsValueChange stops once the absolute change in value between
// consecutive iterations drops below tol.
func AbsValueChange(tol float64) StopCondition {
	return func(s IterState) bool {
		return s.HasPrev && math.Abs(s.Value-s.PrevValue) < tol
	}
}

// RelValueChange stops once the relative change in value between
// consecutive iterations drops below tol.
func RelValueChange(tol float64) StopCondition {
	return func(s IterState) bool {
		if !s.HasPrev {
			return false
		}
		denom := math.Max(math.Abs(s.Value), math.Abs(s.PrevValue))
		if denom == 0 {
			return true
		}
		return math.Abs(s.Value-s.PrevValue)/denom < tol
	}
}

// GradientNorm stops once the gradient norm drops below tol.
func GradientNorm(tol float64) StopCondition {
	return func(s IterState) bool { return s.GradNorm < tol }
}

// StepNorm stops once the most recent step's norm drops below tol.
func StepNorm(tol float64) StopCondition {
	return func(s IterState) bool { return s.StepNorm < tol }
}

// All is satisfied only when every condition in conds is satisfied
// (short-circuiting on the first false).
func All(conds ...StopCondition) StopCondition {
	return func(s IterState) bool {
		for _, c := range conds {
			if !c(s) {
				return false
			}
		}
		return true
	}
}

// Any is satisfied when at least one condition in conds is satisfied
// (short-circuiting on the first true).
func Any(conds ...StopCondition) StopCondition {
	return func(s IterState) bool {
		for _, c := range conds {
			if c(s) {
				return true
			}
		}
		return false
	}
}
