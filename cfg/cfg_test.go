// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfg

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_cfg01 checks that Load applies the spec's documented defaults when
// a block is omitted entirely, and decodes nested blocks that are present.
func Test_cfg01(tst *testing.T) {

	chk.PrintTitle("cfg01. defaults and nested decode")

	doc := []byte(`
threading: serial
cg:
  flavor: hager
  on-ls-failure: warn
phonons:
  symmetry-tolerance: 1e-5
  disp-finder: diag-2
`)
	s, err := Load(doc)
	if err != nil {
		tst.Fatalf("Load failed: %v", err)
	}
	if s.Threading != Serial {
		tst.Fatalf("expected threading=serial, got %v", s.Threading)
	}
	if s.CG.Flavor != "hager" || s.CG.OnLsFailure != "warn" {
		tst.Fatalf("unexpected cg block: %+v", s.CG)
	}
	if s.Phonons.DispFinder != "diag-2" {
		tst.Fatalf("unexpected phonons.disp-finder: %v", s.Phonons.DispFinder)
	}
	if s.EvLoop != DefaultEvLoop() {
		tst.Fatalf("expected default ev-loop, got %+v", s.EvLoop)
	}
	if s.AcousticSearch != DefaultAcousticSearch() {
		tst.Fatalf("expected default acoustic-search, got %+v", s.AcousticSearch)
	}
}

// Test_cfg02 checks the `ev-chase` tagged-union decode for both forms.
func Test_cfg02(tst *testing.T) {

	chk.PrintTitle("cfg02. ev-chase tagged union")

	s1, err := Load([]byte("ev-chase: one-by-one\n"))
	if err != nil {
		tst.Fatalf("Load failed: %v", err)
	}
	if !s1.EvChase.OneByOne || s1.EvChase.Acgsd != nil {
		tst.Fatalf("expected one-by-one, got %+v", s1.EvChase)
	}

	s2, err := Load([]byte("ev-chase:\n  acgsd:\n    flavor: acgsd\n"))
	if err != nil {
		tst.Fatalf("Load failed: %v", err)
	}
	if s2.EvChase.OneByOne || s2.EvChase.Acgsd == nil || s2.EvChase.Acgsd.Flavor != "acgsd" {
		tst.Fatalf("expected acgsd variant, got %+v", s2.EvChase)
	}
}

// Test_cfg03 checks that Merge lets a later --config file override only
// the fields it sets, per spec.md section 6's "later overrides earlier".
func Test_cfg03(tst *testing.T) {

	chk.PrintTitle("cfg03. merge preserves untouched fields")

	base, err := Load([]byte("threading: serial\ncg:\n  flavor: acgsd\n"))
	if err != nil {
		tst.Fatalf("Load failed: %v", err)
	}
	override, err := Load([]byte("cg:\n  flavor: hager\n"))
	if err != nil {
		tst.Fatalf("Load failed: %v", err)
	}

	merged := Merge(base, override)
	if merged.Threading != Serial {
		tst.Fatalf("expected threading to survive merge, got %v", merged.Threading)
	}
	if merged.CG.Flavor != "hager" {
		tst.Fatalf("expected cg.flavor overridden to hager, got %v", merged.CG.Flavor)
	}
}
