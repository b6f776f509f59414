// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evloop

import (
	"github.com/cpmech/gophon/acoustic"
	"github.com/cpmech/gophon/cg"
	"github.com/cpmech/gophon/disp"
	"github.com/cpmech/gophon/fconst"
	"github.com/cpmech/gophon/geo"
	"github.com/cpmech/gophon/gerr"
	"github.com/cpmech/gophon/ls"
	"github.com/cpmech/gophon/perm"
	"gonum.org/v1/gonum/mat"
)

// ChasePolicy selects how eigenvector chasing is performed, per spec.md
// section 6's `ev-chase` option (grounded on
// relaxation.rs's cfg::EigenvectorChase).
type ChasePolicy int

// ChasePolicy values.
const (
	// OneByOne minimizes along each bad eigenvector in turn via an exact
	// linesearch, mirroring do_minimize_along_evec.
	OneByOne ChasePolicy = iota
	// Acgsd minimizes jointly over the coefficients of all bad eigenvectors
	// at once via nonlinear CG, mirroring do_cg_along_evecs.
	Acgsd
)

// Driver orchestrates one EvLoopFsm iteration: CG relaxation, force
// constants assembly at the relaxed structure, Gamma-point diagonalization,
// mode classification, and (conditionally) eigenvector chasing. Grounded
// end to end on relaxation.rs's do_main_ev_loop/maybe_do_ev_chasing.
type Driver struct {
	CGConfig              cg.Config
	Sc                    *geo.SupercellToken
	Masses                []float64 // primitive-cell masses, len == Sc.NumPrim
	DirectionPolicy       disp.DirectionPolicy
	LittleGroupOps        []disp.LittleGroupOp
	CartRots              [][3][3]float64 // per spacegroup op, for force-constant symmetry propagation
	Deperms               []*perm.Permutation
	DisplacementMagnitude float64
	Acoustic              acoustic.Config
	Chase                 ChasePolicy
}

// IterationResult is everything one Driver.Iterate call produces, enough to
// feed into FSM.Step and to report/persist per iteration.
type IterationResult struct {
	Position    []float64 // relaxed (and possibly chased) supercell Cartesian positions
	Eigenvalues []float64
	Kinds       []acoustic.ModeKind
	DidChasing  bool
}

// Iterate runs one full ev-loop body starting from pos0 (flattened
// supercell Cartesian coordinates): CG-relax, assemble Phi and the Gamma
// dynamical matrix, diagonalize, classify, and chase any Imaginary modes.
func (d *Driver) Iterate(pot cg.ValueGradFn, pos0 []float64) (IterationResult, error) {
	cgResult, err := cg.Minimize(d.CGConfig, pos0, pot)
	if err != nil {
		return IterationResult{}, err
	}
	pos := cgResult.Position

	fc, err := d.assembleForceConstants(pot, pos)
	if err != nil {
		return IterationResult{}, err
	}
	fc.Symmetrize()
	fc.Repair()

	real, _ := fconst.GammaDynamicalMatrix(fc, d.Sc, d.Masses)
	n := 3 * d.Sc.NumPrim
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, real.At(i, j))
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return IterationResult{}, gerr.New(gerr.FunctionOutput, "evloop: Gamma dynamical matrix eigendecomposition failed")
	}
	eigenvalues := eig.Values(nil)

	var vecs mat.Dense
	vecs.EigenvectorsSym(&eig)

	eigenvectors := make([][][3]float64, len(eigenvalues))
	for mode := range eigenvalues {
		ev := make([][3]float64, d.Sc.NumPrim)
		for a := 0; a < d.Sc.NumPrim; a++ {
			ev[a] = [3]float64{vecs.At(3*a, mode), vecs.At(3*a+1, mode), vecs.At(3*a+2, mode)}
		}
		eigenvectors[mode] = ev
	}

	designatedPos := make([]float64, 3*d.Sc.NumSuper)
	copy(designatedPos, pos)
	gradFn := func(cartsFlat []float64) ([]float64, error) {
		_, grad, err := pot(cartsFlat)
		return grad, err
	}
	kinds, err := acoustic.Classify(eigenvalues, eigenvectors, d.Masses, d.Sc, designatedPos, gradFn, d.Acoustic)
	if err != nil {
		return IterationResult{}, err
	}

	badModes := []int{}
	for i, k := range kinds {
		if k == acoustic.Imaginary {
			badModes = append(badModes, i)
		}
	}

	didChasing := len(badModes) > 0
	if didChasing {
		pos, err = d.chase(pot, pos, eigenvectors, badModes)
		if err != nil {
			return IterationResult{}, err
		}
	}

	return IterationResult{
		Position:    pos,
		Eigenvalues: eigenvalues,
		Kinds:       kinds,
		DidChasing:  didChasing,
	}, nil
}

// chase walks bad eigenvectors back to a stationary point, using whichever
// strategy d.Chase selects.
func (d *Driver) chase(pot cg.ValueGradFn, pos []float64, eigenvectors [][][3]float64, badModes []int) ([]float64, error) {
	switch d.Chase {
	case Acgsd:
		return d.chaseAcgsd(pot, pos, eigenvectors, badModes)
	default:
		return d.chaseOneByOne(pot, pos, eigenvectors, badModes)
	}
}

// chaseOneByOne minimizes along each bad eigenvector in turn via an exact
// linesearch, mirroring do_minimize_along_evec.
func (d *Driver) chaseOneByOne(pot cg.ValueGradFn, pos []float64, eigenvectors [][][3]float64, badModes []int) ([]float64, error) {
	for _, mode := range badModes {
		dir := replicateDirection(d.Sc, eigenvectors[mode])
		slopeFn := func(alpha float64) (float64, error) {
			trial := addScaled(pos, dir, alpha)
			_, grad, err := pot(trial)
			if err != nil {
				return 0, err
			}
			return dotSlice(grad, dir), nil
		}
		bound, err := ls.ExactLS(0.0, 1e-4, slopeFn)
		if err != nil {
			return nil, err
		}
		pos = addScaled(pos, dir, bound.Alpha)
	}
	return pos, nil
}

// chaseAcgsd minimizes jointly over one coefficient per bad eigenvector,
// mirroring do_cg_along_evecs/constrained_diff_fn: the position is
// pos + sum_k coeffs[k]*dirs[k], and the reduced gradient's k-th component
// is the full gradient's slope along dirs[k].
func (d *Driver) chaseAcgsd(pot cg.ValueGradFn, pos []float64, eigenvectors [][][3]float64, badModes []int) ([]float64, error) {
	dirs := make([][]float64, len(badModes))
	for i, mode := range badModes {
		dirs[i] = replicateDirection(d.Sc, eigenvectors[mode])
	}

	reducedFn := func(coeffs []float64) (float64, []float64, error) {
		trial := make([]float64, len(pos))
		copy(trial, pos)
		for k, c := range coeffs {
			for i := range trial {
				trial[i] += c * dirs[k][i]
			}
		}
		value, grad, err := pot(trial)
		if err != nil {
			return 0, nil, err
		}
		reducedGrad := make([]float64, len(dirs))
		for k := range dirs {
			reducedGrad[k] = dotSlice(grad, dirs[k])
		}
		return value, reducedGrad, nil
	}

	result, err := cg.Minimize(d.CGConfig, make([]float64, len(dirs)), reducedFn)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(pos))
	copy(out, pos)
	for k, c := range result.Position {
		for i := range out {
			out[i] += c * dirs[k][i]
		}
	}
	return out, nil
}

// assembleForceConstants plans and measures the displacement set at the
// relaxed structure pos, then folds the responses into Phi.
func (d *Driver) assembleForceConstants(pot cg.ValueGradFn, pos []float64) (*fconst.ForceConstants, error) {
	plan := disp.Plan(d.Sc.NumPrim, d.DirectionPolicy, d.LittleGroupOps)

	var displacements []fconst.Displacement
	var forceSets [][]fconst.ForceSample
	for _, pd := range plan {
		superAtom := d.Sc.Designated[pd.Atom]
		cart := [3]float64{
			pd.Dir[0] * d.DisplacementMagnitude,
			pd.Dir[1] * d.DisplacementMagnitude,
			pd.Dir[2] * d.DisplacementMagnitude,
		}
		displacements = append(displacements, fconst.Displacement{Atom: superAtom, Cart: cart})

		trial := make([]float64, len(pos))
		copy(trial, pos)
		trial[3*superAtom+0] += cart[0]
		trial[3*superAtom+1] += cart[1]
		trial[3*superAtom+2] += cart[2]

		_, grad, err := pot(trial)
		if err != nil {
			return nil, err
		}
		var samples []fconst.ForceSample
		for c := 0; c < d.Sc.NumSuper; c++ {
			f := [3]float64{-grad[3*c+0], -grad[3*c+1], -grad[3*c+2]}
			samples = append(samples, fconst.ForceSample{Atom: c, Force: f})
		}
		forceSets = append(forceSets, samples)
	}

	return fconst.ComputeRequiredRows(displacements, forceSets, d.CartRots, d.Deperms, d.Sc)
}

func replicateDirection(sc *geo.SupercellToken, eigvec [][3]float64) []float64 {
	out := make([]float64, 3*sc.NumSuper)
	for s, img := range sc.Images {
		v := eigvec[img.PrimAtom]
		out[3*s+0] = v[0]
		out[3*s+1] = v[1]
		out[3*s+2] = v[2]
	}
	return out
}

func addScaled(base, dir []float64, alpha float64) []float64 {
	out := make([]float64, len(base))
	for i := range base {
		out[i] = base[i] + alpha*dir[i]
	}
	return out
}

func dotSlice(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

