// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

// atomicMasses holds standard atomic weights (amu) for the elements common
// in the kind of structures gophon targets (organics, common 2D materials,
// simple oxides/semiconductors). spec.md's data model leaves per-atom mass
// unspecified -- structure files only carry a species label -- so gophon
// resolves mass from species symbol via this table, the same resolution
// rsp2's own CLI performs against its bundled periodic table.
var atomicMasses = map[string]float64{
	"H": 1.00794, "He": 4.002602,
	"Li": 6.941, "Be": 9.012182, "B": 10.811, "C": 12.0107, "N": 14.0067,
	"O": 15.9994, "F": 18.9984032, "Ne": 20.1797,
	"Na": 22.98976928, "Mg": 24.305, "Al": 26.9815386, "Si": 28.0855,
	"P": 30.973762, "S": 32.065, "Cl": 35.453, "Ar": 39.948,
	"K": 39.0983, "Ca": 40.078, "Ti": 47.867, "Fe": 55.845, "Ni": 58.6934,
	"Cu": 63.546, "Zn": 65.38, "Ga": 69.723, "Ge": 72.64, "As": 74.9216,
	"Se": 78.96, "Br": 79.904,
	"Mo": 95.96, "Ag": 107.8682, "Cd": 112.411, "In": 114.818, "Sn": 118.71,
	"Sb": 121.76, "Te": 127.6, "I": 126.90447,
	"W": 183.84, "Pt": 195.084, "Au": 196.966569, "Pb": 207.2,
}

// massOf resolves species's atomic mass; ok is false when species is not in
// the table.
func massOf(species string) (float64, bool) {
	m, ok := atomicMasses[species]
	return m, ok
}
