// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cfg holds gophon's YAML-decodable configuration tree, mirroring
// spec.md section 6's recognized top-level options. Decoding is a plain
// yaml.v3 unmarshal with no schema validation layer -- unknown keys are
// silently ignored: they are neither rejected nor reported.
package cfg

import (
	"gopkg.in/yaml.v3"
)

// Threading selects how the potential oracle (not gophon itself, which is
// single-threaded) parallelizes.
type Threading string

// Threading values.
const (
	Lammps Threading = "lammps"
	Rayon  Threading = "rayon"
	Serial Threading = "serial"
)

// Scalable is one entry of `scale-ranges`.
type Scalable struct {
	Range []float64 `yaml:"range,omitempty"`
	Guess float64   `yaml:"guess,omitempty"`
	Value float64   `yaml:"value,omitempty"`
}

// ScaleRanges is the `scale-ranges` block.
type ScaleRanges struct {
	Scalables    []Scalable `yaml:"scalables,omitempty"`
	RepeatCount  int        `yaml:"repeat-count,omitempty"`
	WarnThresh   float64    `yaml:"warn-threshold,omitempty"`
	Fail         bool       `yaml:"fail,omitempty"`
}

// CG is the `cg` block.
type CG struct {
	StopCondition   string  `yaml:"stop-condition,omitempty"`
	Flavor          string  `yaml:"flavor,omitempty"` // "acgsd" | "hager"
	OnLsFailure     string  `yaml:"on-ls-failure,omitempty"` // "succeed" | "warn" | "fail"
	AlphaGuessFirst float64 `yaml:"alpha-guess-first,omitempty"`
	AlphaGuessMax   float64 `yaml:"alpha-guess-max,omitempty"`
}

// Supercell is the `phonons.supercell` block: exactly one of Target or Dim
// should be set.
type Supercell struct {
	Target []float64 `yaml:"target,omitempty"`
	Dim    []int     `yaml:"dim,omitempty"`
}

// EigenSolver is the `phonons.eigen-solver` block.
type EigenSolver struct {
	Kind                 string `yaml:"kind,omitempty"` // "dense" | "sparse"
	ShiftInvertAttempts  int    `yaml:"shift-invert-attempts,omitempty"`
	HowMany              int    `yaml:"how-many,omitempty"`
}

// Phonons is the `phonons` block.
type Phonons struct {
	SymmetryTolerance   float64     `yaml:"symmetry-tolerance,omitempty"`
	DisplacementDistance float64    `yaml:"displacement-distance,omitempty"`
	Supercell           Supercell   `yaml:"supercell,omitempty"`
	DispFinder          string      `yaml:"disp-finder,omitempty"` // "axial"|"diag"|"diag-2"|"survey"
	EigenSolver         EigenSolver `yaml:"eigen-solver,omitempty"`
}

// EvChase is the `ev-chase` block: either the literal "one-by-one" or an
// `{acgsd: <CG>}` mapping, decoded manually since it's a tagged union, not
// a plain struct.
type EvChase struct {
	OneByOne bool
	Acgsd    *CG
}

// UnmarshalYAML implements the tagged-union decode for EvChase.
func (e *EvChase) UnmarshalYAML(value *yaml.Node) error {
	var asString string
	if err := value.Decode(&asString); err == nil {
		e.OneByOne = asString == "one-by-one"
		return nil
	}
	var asMap struct {
		Acgsd *CG `yaml:"acgsd"`
	}
	if err := value.Decode(&asMap); err != nil {
		return err
	}
	e.Acgsd = asMap.Acgsd
	return nil
}

// EvLoop is the `ev-loop` block.
type EvLoop struct {
	MinPositiveIter int  `yaml:"min-positive-iter,omitempty"`
	MaxIter         int  `yaml:"max-iter,omitempty"`
	Fail            bool `yaml:"fail,omitempty"`
}

// DefaultEvLoop returns the spec's documented defaults (min-positive-iter:
// 3, max-iter: 15, fail: true).
func DefaultEvLoop() EvLoop {
	return EvLoop{MinPositiveIter: 3, MaxIter: 15, Fail: true}
}

// AcousticSearch is the `acoustic-search` block.
type AcousticSearch struct {
	ExpectedNonTranslations int     `yaml:"expected-non-translations,omitempty"`
	DisplacementDistance    float64 `yaml:"displacement-distance,omitempty"`
	RotationalFdotThreshold float64 `yaml:"rotational-fdot-threshold,omitempty"`
	ImaginaryFdotThreshold  float64 `yaml:"imaginary-fdot-threshold,omitempty"`
}

// DefaultAcousticSearch returns the spec's documented defaults
// (displacement-distance: 1e-5, both fdot thresholds: 0.8).
func DefaultAcousticSearch() AcousticSearch {
	return AcousticSearch{
		DisplacementDistance:    1e-5,
		RotationalFdotThreshold: 0.8,
		ImaginaryFdotThreshold:  0.8,
	}
}

// Potential is one potential descriptor; Kind selects the executable or
// built-in backend, Params holds backend-specific options passed through
// verbatim (no schema validation, matching the spec's explicit Non-goal).
type Potential struct {
	Kind   string                 `yaml:"kind"`
	Params map[string]interface{} `yaml:"params,omitempty"`
}

// Settings is the full top-level configuration document.
type Settings struct {
	Threading      Threading     `yaml:"threading,omitempty"`
	Potential      []Potential   `yaml:"potential,omitempty"`
	ScaleRanges    *ScaleRanges  `yaml:"scale-ranges,omitempty"`
	Parameters     []string      `yaml:"parameters,omitempty"`
	CG             CG            `yaml:"cg,omitempty"`
	Phonons        Phonons       `yaml:"phonons,omitempty"`
	EvChase        EvChase       `yaml:"ev-chase,omitempty"`
	EvLoop         EvLoop        `yaml:"ev-loop,omitempty"`
	AcousticSearch AcousticSearch `yaml:"acoustic-search,omitempty"`
}

// Load decodes a single YAML document into Settings. Repeated --config
// files are merged by the caller (cmd/gophon), later files overriding
// earlier ones field by field -- Load itself knows nothing about merging.
func Load(data []byte) (Settings, error) {
	s := Settings{
		EvLoop:         DefaultEvLoop(),
		AcousticSearch: DefaultAcousticSearch(),
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Merge folds override onto base one top-level option at a time: an option
// left at its zero value in override (for ev-loop and acoustic-search: left
// at its default) keeps base's value, anything else replaces it. A block
// option (cg, phonons, ev-chase, ...) is replaced whole: fields of base's
// block that override's block leaves unset are not kept. This gives the
// CLI's repeatable `--config/-c` flag its documented "later overrides
// earlier" semantics (spec.md section 6) without requiring every file to
// repeat every option.
func Merge(base, override Settings) Settings {
	out := base
	if override.Threading != "" {
		out.Threading = override.Threading
	}
	if len(override.Potential) > 0 {
		out.Potential = override.Potential
	}
	if override.ScaleRanges != nil {
		out.ScaleRanges = override.ScaleRanges
	}
	if len(override.Parameters) > 0 {
		out.Parameters = override.Parameters
	}
	if override.CG != (CG{}) {
		out.CG = override.CG
	}
	if override.Phonons.SymmetryTolerance != 0 || override.Phonons.DisplacementDistance != 0 ||
		override.Phonons.DispFinder != "" || len(override.Phonons.Supercell.Target) > 0 ||
		len(override.Phonons.Supercell.Dim) > 0 || override.Phonons.EigenSolver != (EigenSolver{}) {
		out.Phonons = override.Phonons
	}
	if override.EvChase.OneByOne || override.EvChase.Acgsd != nil {
		out.EvChase = override.EvChase
	}
	if override.EvLoop != DefaultEvLoop() {
		out.EvLoop = override.EvLoop
	}
	if override.AcousticSearch != DefaultAcousticSearch() {
		out.AcousticSearch = override.AcousticSearch
	}
	return out
}
