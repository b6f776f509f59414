// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package structio writes the per-iteration structural artifacts spec.md
// section 6 calls for (POSCAR-style structure snapshots, XYZ animation
// frames), grounded on gofem's habit of building one bytes.Buffer per
// artifact and handing it to gosl/io.WriteFile.
package structio

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gophon/geo"
	"github.com/cpmech/gophon/gerr"
	"github.com/cpmech/gosl/io"
)

// WritePOSCAR writes structure's Cartesian geometry in POSCAR format
// (VASP's plain-text structure file): a comment line, a uniform scale
// factor, the lattice matrix, one species-name line, one species-count
// line, "Cartesian", then one line per atom. Like gosl/io.WriteFile itself, failures are reported via
// chk.Panic rather than a returned error -- a write failure here means the
// output directory is unusable, not a recoverable condition.
func WritePOSCAR(path, comment string, lat *geo.Lattice, species []string, carts [][3]float64) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n", comment)
	fmt.Fprintf(&buf, "1.0\n")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&buf, "%22.15f%22.15f%22.15f\n", lat.M[i][0], lat.M[i][1], lat.M[i][2])
	}

	counts := countRuns(species)
	for _, c := range counts {
		fmt.Fprintf(&buf, "%s ", c.name)
	}
	fmt.Fprintf(&buf, "\n")
	for _, c := range counts {
		fmt.Fprintf(&buf, "%d ", c.count)
	}
	fmt.Fprintf(&buf, "\n")

	fmt.Fprintf(&buf, "Cartesian\n")
	for _, c := range carts {
		fmt.Fprintf(&buf, "%22.15f%22.15f%22.15f\n", c[0], c[1], c[2])
	}

	io.WriteFile(path, &buf)
}

// WriteXYZFrame returns the bytes of one frame of an XYZ animation file: an
// atom-count line, a comment line, then one "species x y z" line per atom. Animation
// is by concatenation (spec.md section 6), so append is the caller's
// responsibility -- this writes a single self-contained frame's bytes.
func WriteXYZFrame(comment string, species []string, carts [][3]float64) *bytes.Buffer {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d\n", len(carts))
	fmt.Fprintf(&buf, "%s\n", comment)
	for i, c := range carts {
		fmt.Fprintf(&buf, "%-4s%22.15f%22.15f%22.15f\n", species[i], c[0], c[1], c[2])
	}
	return &buf
}

// ReadPOSCAR reads the input-structure file the CLI's positional argument
// names, in the same POSCAR dialect WritePOSCAR emits: a comment line, a
// uniform scale factor, the lattice matrix, one species-name line, one
// species-count line, a "Cartesian"/"Direct" selector, then one line per
// atom. Only the Cartesian mode WritePOSCAR produces is supported; a
// "Direct" file is reported as gerr.ConfigInvalid rather than silently
// mis-scaled, since fractional-to-Cartesian conversion needs the lattice
// matrix's own convention fixed first.
func ReadPOSCAR(path string) (lat *geo.Lattice, species []string, carts [][3]float64, err error) {
	f, oerr := os.Open(path)
	if oerr != nil {
		return nil, nil, nil, gerr.New(gerr.ConfigInvalid, "structio: cannot open %q: %v", path, oerr)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lines := make([]string, 0, 16)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if serr := sc.Err(); serr != nil {
		return nil, nil, nil, gerr.New(gerr.ConfigInvalid, "structio: reading %q: %v", path, serr)
	}
	if len(lines) < 8 {
		return nil, nil, nil, gerr.New(gerr.ConfigInvalid, "structio: %q is too short to be a POSCAR file", path)
	}

	scale, perr := strconv.ParseFloat(strings.TrimSpace(lines[1]), 64)
	if perr != nil {
		return nil, nil, nil, gerr.New(gerr.ConfigInvalid, "structio: %q: bad scale factor: %v", path, perr)
	}

	var rows [3][3]float64
	for i := 0; i < 3; i++ {
		fields := strings.Fields(lines[2+i])
		if len(fields) < 3 {
			return nil, nil, nil, gerr.New(gerr.ConfigInvalid, "structio: %q: bad lattice row %d", path, i)
		}
		for j := 0; j < 3; j++ {
			v, e := strconv.ParseFloat(fields[j], 64)
			if e != nil {
				return nil, nil, nil, gerr.New(gerr.ConfigInvalid, "structio: %q: bad lattice row %d: %v", path, i, e)
			}
			rows[i][j] = v * scale
		}
	}
	lat = geo.NewLattice(rows)

	names := strings.Fields(lines[5])
	counts := strings.Fields(lines[6])
	if len(names) != len(counts) {
		return nil, nil, nil, gerr.New(gerr.ConfigInvalid, "structio: %q: species/count line mismatch", path)
	}
	for i, name := range names {
		n, e := strconv.Atoi(counts[i])
		if e != nil {
			return nil, nil, nil, gerr.New(gerr.ConfigInvalid, "structio: %q: bad species count: %v", path, e)
		}
		for k := 0; k < n; k++ {
			species = append(species, name)
		}
	}

	mode := strings.ToLower(strings.TrimSpace(lines[7]))
	if !strings.HasPrefix(mode, "c") {
		return nil, nil, nil, gerr.New(gerr.ConfigInvalid, "structio: %q: only Cartesian-mode POSCAR files are supported", path)
	}

	for i := range species {
		row := 8 + i
		if row >= len(lines) {
			return nil, nil, nil, gerr.New(gerr.ConfigInvalid, "structio: %q: missing atom line %d", path, i)
		}
		fields := strings.Fields(lines[row])
		if len(fields) < 3 {
			return nil, nil, nil, gerr.New(gerr.ConfigInvalid, "structio: %q: bad atom line %d", path, i)
		}
		var c [3]float64
		for j := 0; j < 3; j++ {
			v, e := strconv.ParseFloat(fields[j], 64)
			if e != nil {
				return nil, nil, nil, gerr.New(gerr.ConfigInvalid, "structio: %q: bad atom line %d: %v", path, i, e)
			}
			c[j] = v
		}
		carts = append(carts, c)
	}

	return lat, species, carts, nil
}

type run struct {
	name  string
	count int
}

// countRuns collapses consecutive equal species into POSCAR's
// name-line/count-line pair, assuming (as POSCAR requires) that same-species
// atoms are already grouped contiguously.
func countRuns(species []string) []run {
	var out []run
	for _, s := range species {
		if len(out) > 0 && out[len(out)-1].name == s {
			out[len(out)-1].count++
			continue
		}
		out = append(out, run{name: s, count: 1})
	}
	return out
}
