// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package evloop implements EvLoopFSM: the outer state machine that
// alternates CG relaxation with force-constants assembly, diagonalization,
// mode classification and eigenmode chasing, ported from rsp2's
// relaxation.rs (EvLoopFsm, do_main_ev_loop).
package evloop

// Status is the outcome of one EvLoopFsm.Step call.
type Status int

// Status values, renamed from relaxation.rs's EvLoopStatus to the
// KeepGoing/Done/Exhausted vocabulary.
const (
	KeepGoing Status = iota
	Done
	Exhausted
)

// Config holds the spec.md section 6 `ev-loop` options.
type Config struct {
	MaxIter int
	// MinPositiveIter is the number of consecutive chasing-free iterations
	// required before the loop is considered converged.
	MinPositiveIter int
	// FailOnExhaustion, if true, makes Step return Exhausted (a hard
	// failure) instead of Done once MaxIter is exceeded with outstanding
	// bad eigenvectors, matching relaxation.rs's `config.fail`.
	FailOnExhaustion bool
}

// FSM is the loop state: which iteration we're on, and how many
// consecutive iterations required no eigenvector chasing.
type FSM struct {
	cfg        Config
	Iteration  int
	allOkCount int
}

// NewFSM starts the FSM at iteration 1, matching EvLoopFsm::new.
func NewFSM(cfg Config) *FSM {
	return &FSM{cfg: cfg, Iteration: 1}
}

// Step advances the FSM given whether this iteration performed eigenmode
// chasing, and reports whether the driver should keep going, is done, or
// has exhausted its iteration budget with bad eigenvectors still present.
func (f *FSM) Step(didChasing bool) Status {
	f.Iteration++
	if didChasing {
		f.allOkCount = 0
		if f.Iteration > f.cfg.MaxIter {
			if f.cfg.FailOnExhaustion {
				return Exhausted
			}
			return Done
		}
		return KeepGoing
	}

	f.allOkCount++
	if f.allOkCount >= f.cfg.MinPositiveIter {
		return Done
	}
	return KeepGoing
}
