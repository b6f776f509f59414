// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gophon/acoustic"
	"github.com/cpmech/gophon/cfg"
	"github.com/cpmech/gophon/cg"
	"github.com/cpmech/gophon/disp"
	"github.com/cpmech/gophon/evloop"
	"github.com/cpmech/gophon/gerr"
	"github.com/cpmech/gophon/geo"
	"github.com/cpmech/gophon/perm"
	"github.com/cpmech/gophon/structio"
	"github.com/cpmech/gophon/sym"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/urfave/cli/v2"
)

func main() {

	// catch errors the way gofem's own main.go does: print caller frames
	// and a red message rather than a raw Go panic trace, then exit
	// nonzero so the shell sees failure.
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	app := &cli.App{
		Name:  "gophon",
		Usage: "relax a structure to a stationary point and report its Gamma-point phonon spectrum",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file (repeatable; later files override earlier ones)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   "directory to write per-iteration artifacts into",
			},
			&cli.BoolFlag{
				Name:  "save-bands",
				Usage: "accepted and shown in the startup banner; no band or dynamical-matrix artifact is written",
			},
			&cli.BoolFlag{
				Name:  "profile",
				Usage: "report a pprof-style CPU/memory profile on exit",
			},
		},
		ArgsUsage: "<input-structure>",
		Action:    run,
	}

	if err := app.Run(os.Args); err != nil {
		io.PfRed("ERROR: %v\n", err)
		if e, ok := err.(*gerr.Error); ok && e.Kind == gerr.ProcessFailed && e.Status != 0 {
			os.Exit(e.Status)
		}
		os.Exit(1)
	}
}

// run is the CLI's Action: load and merge configuration, read the input
// structure, derive its symmetry, and drive the EvLoopFSM until Done or
// Exhausted.
func run(c *cli.Context) error {
	inputPath := c.Args().First()
	if inputPath == "" {
		return gerr.New(gerr.ConfigInvalid, "gophon: missing required <input-structure> argument")
	}

	defer utl.DoProf(c.Bool("profile"))()

	settings := cfg.Settings{EvLoop: cfg.DefaultEvLoop(), AcousticSearch: cfg.DefaultAcousticSearch()}
	for _, path := range c.StringSlice("config") {
		data, err := os.ReadFile(path)
		if err != nil {
			return gerr.WithPath(gerr.ConfigInvalid, path, "gophon: reading config: %v", err)
		}
		override, err := cfg.Load(data)
		if err != nil {
			return gerr.WithPath(gerr.ConfigInvalid, path, "gophon: parsing config: %v", err)
		}
		settings = cfg.Merge(settings, override)
	}

	outDir := c.String("output")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return gerr.New(gerr.ConfigInvalid, "gophon: creating output directory %q: %v", outDir, err)
	}

	io.Pf("\n%v\n", io.ArgsTable(
		"input structure", "input", inputPath,
		"output directory", "output", outDir,
		"configs applied", "config", len(c.StringSlice("config")),
		"save bands", "save-bands", c.Bool("save-bands"),
	))

	lat, species, carts, err := structio.ReadPOSCAR(inputPath)
	if err != nil {
		return err
	}
	numPrim := len(species)

	masses := make([]float64, numPrim)
	for i, s := range species {
		m, ok := massOf(s)
		if !ok {
			return gerr.WithPath(gerr.ConfigInvalid, "phonons", "gophon: unrecognized species %q, no atomic mass known", s)
		}
		masses[i] = m
	}

	dim := [3]int{1, 1, 1}
	if d := settings.Phonons.Supercell.Dim; len(d) == 3 {
		dim = [3]int{d[0], d[1], d[2]}
	}
	sc := geo.Diagonal(dim, numPrim)

	tol := sym.DefaultTolerance
	if settings.Phonons.SymmetryTolerance != 0 {
		tol.LengthRel = settings.Phonons.SymmetryTolerance
	}

	littleGroupOps, cartRots, deperms, err := buildSymmetry(lat, sc, carts, tol)
	if err != nil {
		return err
	}

	pot, err := buildSinglePotential(settings)
	if err != nil {
		return err
	}

	driver := &evloop.Driver{
		CGConfig:              buildCGConfig(settings.CG),
		Sc:                    sc,
		Masses:                masses,
		DirectionPolicy:       dispFinderPolicy(settings.Phonons.DispFinder),
		LittleGroupOps:        littleGroupOps,
		CartRots:              cartRots,
		Deperms:               deperms,
		DisplacementMagnitude: displacementDistance(settings.Phonons.DisplacementDistance),
		Acoustic: acoustic.Config{
			DisplacementDistance: settings.AcousticSearch.DisplacementDistance,
			RotationalThreshold:  settings.AcousticSearch.RotationalFdotThreshold,
			ImaginaryThreshold:   settings.AcousticSearch.ImaginaryFdotThreshold,
		},
		Chase: chasePolicy(settings.EvChase),
	}

	pos := make([]float64, 3*sc.NumSuper)
	for s, img := range sc.Images {
		cart := carts[img.PrimAtom]
		offset := geo.CartOffset(lat, img.Trans)
		pos[3*s+0] = cart[0] + offset[0]
		pos[3*s+1] = cart[1] + offset[1]
		pos[3*s+2] = cart[2] + offset[2]
	}

	fsm := evloop.NewFSM(evloop.Config{
		MaxIter:          settings.EvLoop.MaxIter,
		MinPositiveIter:  settings.EvLoop.MinPositiveIter,
		FailOnExhaustion: settings.EvLoop.Fail,
	})

	for {
		result, err := driver.Iterate(pot, pos)
		if err != nil {
			return err
		}
		pos = result.Position

		if err := persistIteration(outDir, fsm.Iteration, species, sc, lat, pos, result); err != nil {
			return err
		}

		status := fsm.Step(result.DidChasing)
		io.Pf("iteration %3d: %d modes, chasing=%v, status=%v\n", fsm.Iteration, len(result.Eigenvalues), result.DidChasing, status)

		switch status {
		case evloop.Done:
			io.Pf("converged\n")
			return nil
		case evloop.Exhausted:
			return gerr.New(gerr.ConfigInvalid, "gophon: ev-loop exhausted its %d-iteration budget with bad eigenvectors remaining", settings.EvLoop.MaxIter)
		}
	}
}

// buildSymmetry derives the primitive cell's point group (assuming a
// symmorphic space group, i.e. zero fractional translation on every
// operation -- a deliberate simplification for the CLI's own symmetry
// detection, see DESIGN.md), the site permutations each operation induces,
// and (for uniform supercells) their lift to supercell-site permutations for
// force-constants symmetry propagation.
func buildSymmetry(lat *geo.Lattice, sc *geo.SupercellToken, carts [][3]float64, tol sym.Tolerance) ([]disp.LittleGroupOp, [][3][3]float64, []*perm.Permutation, error) {
	rots, err := sym.LatticePointGroup(lat, tol)
	if err != nil {
		return nil, nil, nil, err
	}

	var generators []sym.Op
	for _, r := range rots {
		generators = append(generators, sym.Op{Rot: r})
	}
	group, err := sym.Close(generators, 192)
	if err != nil {
		return nil, nil, nil, err
	}

	fracs := make([][3]float64, len(carts))
	for i, cart := range carts {
		fracs[i] = cartToFrac(lat, cart)
	}
	primPerms, err := sym.FindPermutations(fracs, group.Ops, tol.LengthRel)
	if err != nil {
		return nil, nil, nil, err
	}

	littleGroupOps := make([]disp.LittleGroupOp, len(group.Ops))
	for i, op := range group.Ops {
		littleGroupOps[i] = disp.LittleGroupOp{SitePerm: primPerms[i], CartRot: op.CartRot(lat)}
	}

	var cartRots [][3][3]float64
	var deperms []*perm.Permutation
	for i, op := range group.Ops {
		lifted, ok := sc.ExpandPermutation(primPerms[i], op.Rot)
		if !ok {
			continue
		}
		cartRots = append(cartRots, op.CartRot(lat))
		deperms = append(deperms, lifted)
	}

	return littleGroupOps, cartRots, deperms, nil
}

func cartToFrac(lat *geo.Lattice, cart [3]float64) [3]float64 {
	var out [3]float64
	for j := 0; j < 3; j++ {
		out[j] = cart[0]*lat.Inv[0][j] + cart[1]*lat.Inv[1][j] + cart[2]*lat.Inv[2][j]
	}
	return out
}

func buildSinglePotential(settings cfg.Settings) (cg.ValueGradFn, error) {
	if len(settings.Potential) == 0 {
		return nil, gerr.WithPath(gerr.ConfigInvalid, "potential", "gophon: configuration declares no potential")
	}
	return buildPotential(settings.Potential[0])
}

func buildCGConfig(c cfg.CG) cg.Config {
	out := cg.Config{
		AlphaGuessFirst: c.AlphaGuessFirst,
		AlphaGuessMax:   c.AlphaGuessMax,
		Stop:            cg.GradientNorm(1e-8),
	}
	if out.AlphaGuessMax == 0 {
		out.AlphaGuessMax = 1.0
	}
	if out.AlphaGuessFirst == 0 {
		out.AlphaGuessFirst = 1e-3
	}
	switch c.Flavor {
	case "hager":
		out.Flavor = cg.HagerZhang
	default:
		out.Flavor = cg.PolakRibiere
	}
	switch c.OnLsFailure {
	case "succeed":
		out.OnLsFailure = cg.Succeed
	case "fail":
		out.OnLsFailure = cg.Fail
	default:
		out.OnLsFailure = cg.Warn
	}
	return out
}

func dispFinderPolicy(name string) disp.DirectionPolicy {
	switch name {
	case "diag":
		return disp.Diagonal
	case "diag-2":
		return disp.ExtendedDiagonal
	default:
		return disp.Axial
	}
}

func displacementDistance(d float64) float64 {
	if d == 0 {
		return 1e-2
	}
	return d
}

func chasePolicy(e cfg.EvChase) evloop.ChasePolicy {
	if e.Acgsd != nil {
		return evloop.Acgsd
	}
	return evloop.OneByOne
}

// persistIteration writes the spec.md section 6 per-iteration artifacts:
// a relaxed-structure POSCAR snapshot, an eigenvalues file, and an XYZ
// animation frame (appended by concatenation).
func persistIteration(outDir string, iter int, species []string, sc *geo.SupercellToken, lat *geo.Lattice, pos []float64, result evloop.IterationResult) error {
	carts := make([][3]float64, sc.NumSuper)
	for s := range carts {
		carts[s] = [3]float64{pos[3*s+0], pos[3*s+1], pos[3*s+2]}
	}
	allSpecies := make([]string, sc.NumSuper)
	for s, img := range sc.Images {
		allSpecies[s] = species[img.PrimAtom]
	}

	structio.WritePOSCAR(
		filepath.Join(outDir, fmt.Sprintf("structure-%02d.1.poscar", iter)),
		fmt.Sprintf("gophon iteration %d", iter),
		lat, allSpecies, carts,
	)

	var eig strings.Builder
	for i, v := range result.Eigenvalues {
		fmt.Fprintf(&eig, "%4d %24.15e %s\n", i, v, result.Kinds[i])
	}
	if err := os.WriteFile(filepath.Join(outDir, fmt.Sprintf("eigenvalues.%02d", iter)), []byte(eig.String()), 0o644); err != nil {
		return gerr.New(gerr.ConfigInvalid, "gophon: writing eigenvalues: %v", err)
	}

	frame := structio.WriteXYZFrame(fmt.Sprintf("gophon iteration %d", iter), allSpecies, carts)
	f, err := os.OpenFile(filepath.Join(outDir, "animation.xyz"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return gerr.New(gerr.ConfigInvalid, "gophon: opening animation file: %v", err)
	}
	defer f.Close()
	if _, err := f.Write(frame.Bytes()); err != nil {
		return gerr.New(gerr.ConfigInvalid, "gophon: appending animation frame: %v", err)
	}
	return nil
}
