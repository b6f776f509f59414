// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package acoustic implements AcousticClassifier: labels each Gamma-point
// eigenmode as Translational, Rotational, Imaginary or Vibrational, ported
// from rsp2's acoustic_search.rs.
package acoustic

import (
	"math"

	"github.com/cpmech/gophon/gerr"
	"github.com/cpmech/gophon/geo"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"
)

// ModeKind classifies one eigenmode.
type ModeKind int

// ModeKind values.
const (
	// Translational: a uniform translation of the entire structure. Any
	// structure has at most three.
	Translational ModeKind = iota
	// Rotational: a zero that is also an inflection point, at most three
	// depending on dimensionality.
	Rotational
	// Imaginary: a negative-frequency mode that is not acoustic.
	Imaginary
	Vibrational
)

func (k ModeKind) String() string {
	switch k {
	case Translational:
		return "T"
	case Rotational:
		return "R"
	case Imaginary:
		return "!"
	default:
		return "-"
	}
}

// GradFn evaluates the potential gradient at a flattened Cartesian position
// array (3*numSuper components), the same oracle contract used by cg's
// ValueGradFn but without needing the value.
type GradFn func(cartsFlat []float64) ([]float64, error)

// Config holds the spec.md section 6 `acoustic-search` options.
type Config struct {
	DisplacementDistance float64
	RotationalThreshold  float64
	ImaginaryThreshold   float64
}

// Acousticness measures how closely a mass-weighted eigenvector resembles a
// uniform translation: the sum, over the 3 Cartesian translation
// directions, of the squared normalized overlap with that eigenvector. A
// pure translation scores 1.0; an eigenvector orthogonal to all three
// translations scores 0.0.
func Acousticness(eigvec [][3]float64, masses []float64) float64 {
	vNorm := 0.0
	for _, c := range eigvec {
		vNorm += c[0]*c[0] + c[1]*c[1] + c[2]*c[2]
	}
	if vNorm == 0 {
		return 0
	}
	vNorm = math.Sqrt(vNorm)

	total := 0.0
	for d := 0; d < 3; d++ {
		dot := 0.0
		tNorm := 0.0
		for i, c := range eigvec {
			sm := math.Sqrt(masses[i])
			dot += c[d] * sm
			tNorm += sm * sm
		}
		tNorm = math.Sqrt(tNorm)
		if tNorm == 0 {
			continue
		}
		overlap := dot / (vNorm * tNorm)
		total += overlap * overlap
	}
	return total
}

// Classify labels every eigenmode, mirroring acoustic_search.rs's
// perform_acoustic_search almost line for line: translational modes are
// found first via Acousticness, everything past the last translational
// mode is Vibrational, and the remaining negative-eigenvalue modes are
// classified by the antiparallel/parallel-ness of the gradient response to
// a small displacement along the mode on each side of equilibrium.
//
// eigenvectors[i] is the i-th mode's mass-weighted primitive-cell
// eigenvector; pos0 is the supercell's equilibrium Cartesian positions,
// flattened; gradFn evaluates the potential gradient at a trial supercell
// position.
func Classify(
	eigenvalues []float64,
	eigenvectors [][][3]float64,
	masses []float64,
	sc *geo.SupercellToken,
	pos0 []float64,
	gradFn GradFn,
	cfg Config,
) ([]ModeKind, error) {
	n := len(eigenvalues)
	kinds := make([]ModeKind, n)
	assigned := make([]bool, n)

	zeroIndex := n
	for i, ev := range eigenvalues {
		if ev >= 0.0 {
			zeroIndex = i
			break
		}
	}
	stopIndex := n
	for i, ev := range eigenvalues {
		if ev >= 10.0 {
			stopIndex = i
			break
		}
	}

	tEnd := zeroIndex
	translationalCount := 0
	for i := 0; i < stopIndex; i++ {
		if Acousticness(eigenvectors[i], masses) >= 0.95 {
			kinds[i] = Translational
			assigned[i] = true
			tEnd = i + 1
			translationalCount++
		}
	}
	if translationalCount > 3 {
		return nil, gerr.New(gerr.FunctionOutput, "acoustic: found %d pure translational modes, eigenbasis is not orthonormal", translationalCount)
	}

	for i := tEnd; i < n; i++ {
		kinds[i] = Vibrational
		assigned[i] = true
	}

	if zeroIndex > 0 {
		grad0, err := gradFn(pos0)
		if err != nil {
			return nil, err
		}

		for i := 0; i < zeroIndex; i++ {
			if assigned[i] {
				continue
			}

			dir := replicateDirection(sc, eigenvectors[i])
			posL := addScaled(pos0, dir, -cfg.DisplacementDistance)
			posR := addScaled(pos0, dir, cfg.DisplacementDistance)

			gradL, err := gradFn(posL)
			if err != nil {
				return nil, err
			}
			gradR, err := gradFn(posR)
			if err != nil {
				return nil, err
			}

			dGradL := normalizeOrZero(sub(grad0, gradL))
			dGradR := normalizeOrZero(sub(gradR, grad0))
			dot := floats.Dot(dGradL, dGradR)

			switch {
			case dot <= -cfg.RotationalThreshold:
				kinds[i] = Rotational
			case cfg.ImaginaryThreshold <= dot:
				kinds[i] = Imaginary
			default:
				// could be piecewise translational, which is unsupported;
				// treat as imaginary rather than silently mislabeling it.
				kinds[i] = Imaginary
			}
			assigned[i] = true
		}
	}

	for i := range assigned {
		if !assigned[i] {
			chk.Panic("acoustic: Classify: mode %d was never classified", i)
		}
	}
	return kinds, nil
}

// replicateDirection broadcasts a primitive-cell eigenvector across every
// supercell image, producing a flattened 3*NumSuper displacement direction.
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

func sub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

func normalizeOrZero(v []float64) []float64 {
	norm := floats.Norm(v, 2)
	if norm < 1e-300 {
		return v
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
