// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/cpmech/gophon/cfg"
	"github.com/cpmech/gophon/cg"
	"github.com/cpmech/gophon/disp"
	"github.com/cpmech/gophon/evloop"
	"github.com/cpmech/gophon/geo"
	"github.com/cpmech/gosl/chk"
)

// Test_main01 checks the cfg->cg.Config translation applies its documented
// defaults when the config block leaves fields zero.
func Test_main01(tst *testing.T) {

	chk.PrintTitle("main01. cg config translation defaults")

	out := buildCGConfig(cfg.CG{})
	if out.AlphaGuessMax != 1.0 || out.AlphaGuessFirst != 1e-3 {
		tst.Fatalf("expected default alpha guesses, got %+v", out)
	}
	if out.Flavor != cg.PolakRibiere {
		tst.Fatalf("expected default flavor PolakRibiere, got %v", out.Flavor)
	}
	if out.OnLsFailure != cg.Warn {
		tst.Fatalf("expected default on-ls-failure Warn, got %v", out.OnLsFailure)
	}
}

// Test_main02 checks the disp-finder name mapping.
func Test_main02(tst *testing.T) {

	chk.PrintTitle("main02. disp-finder name mapping")

	cases := map[string]disp.DirectionPolicy{
		"axial":  disp.Axial,
		"diag":   disp.Diagonal,
		"diag-2": disp.ExtendedDiagonal,
		"":       disp.Axial,
	}
	for name, want := range cases {
		if got := dispFinderPolicy(name); got != want {
			tst.Fatalf("dispFinderPolicy(%q): got %v want %v", name, got, want)
		}
	}
}

// Test_main03 checks the ev-chase tagged union maps to the right
// evloop.ChasePolicy.
func Test_main03(tst *testing.T) {

	chk.PrintTitle("main03. ev-chase policy mapping")

	if chasePolicy(cfg.EvChase{OneByOne: true}) != evloop.OneByOne {
		tst.Fatalf("expected OneByOne")
	}
	if chasePolicy(cfg.EvChase{Acgsd: &cfg.CG{}}) != evloop.Acgsd {
		tst.Fatalf("expected Acgsd")
	}
}

// Test_main04 checks species-to-mass resolution, including the unknown
// case.
func Test_main04(tst *testing.T) {

	chk.PrintTitle("main04. species mass resolution")

	if m, ok := massOf("C"); !ok || m != 12.0107 {
		tst.Fatalf("unexpected carbon mass: %v %v", m, ok)
	}
	if _, ok := massOf("Xx"); ok {
		tst.Fatalf("expected unrecognized species to report ok=false")
	}
}

// Test_main05 checks cartToFrac against a simple orthorhombic cell where
// the conversion is just component-wise division.
func Test_main05(tst *testing.T) {

	chk.PrintTitle("main05. cart to frac conversion")

	lat := geo.NewLattice([3][3]float64{
		{2, 0, 0},
		{0, 4, 0},
		{0, 0, 8},
	})
	frac := cartToFrac(lat, [3]float64{1, 2, 4})
	want := [3]float64{0.5, 0.5, 0.5}
	for i := 0; i < 3; i++ {
		if diff := frac[i] - want[i]; diff > 1e-10 || diff < -1e-10 {
			tst.Fatalf("frac[%d]: got %v want %v", i, frac[i], want[i])
		}
	}
}
