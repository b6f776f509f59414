// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cpmech/gophon/cfg"
	"github.com/cpmech/gophon/cg"
	"github.com/cpmech/gophon/gerr"
	"github.com/cpmech/gophon/procdrv"
)

// buildPotential turns one configured potential descriptor into the
// cg.ValueGradFn oracle the rest of gophon drives against. The external
// atomistic potential itself is out of scope (spec.md section 1's "treated
// as an oracle"); what gophon owns is the bridge that gets Cartesian
// coordinates to an external process and a (value, gradient) pair back.
func buildPotential(p cfg.Potential) (cg.ValueGradFn, error) {
	switch p.Kind {
	case "external":
		cmdName, ok := p.Params["cmd"].(string)
		if !ok || cmdName == "" {
			return nil, gerr.WithPath(gerr.ConfigInvalid, "potential.params.cmd", "potential: kind=external requires a string params.cmd")
		}
		var args []string
		if raw, ok := p.Params["args"].([]interface{}); ok {
			for _, a := range raw {
				args = append(args, fmt.Sprintf("%v", a))
			}
		}
		return externalBridge(cmdName, args), nil
	case "harmonic":
		k := 1.0
		if v, ok := p.Params["spring-constant"].(float64); ok {
			k = v
		}
		return harmonicWell(k), nil
	default:
		return nil, gerr.WithPath(gerr.ConfigInvalid, "potential.kind", "potential: unrecognized kind %q", p.Kind)
	}
}

// externalBridge writes the trial Cartesian coordinates to the child's
// stdin (one atom count line, then one "x y z" line per atom) and expects
// back, on stdout, a value line followed by one "gx gy gz" gradient line per
// atom -- gophon's own bridge wire format, since no specific external
// potential protocol is part of the specified system.
func externalBridge(name string, args []string) cg.ValueGradFn {
	return func(x []float64) (float64, []float64, error) {
		n := len(x) / 3
		var in strings.Builder
		fmt.Fprintf(&in, "%d\n", n)
		for a := 0; a < n; a++ {
			fmt.Fprintf(&in, "%.15g %.15g %.15g\n", x[3*a], x[3*a+1], x[3*a+2])
		}

		var outLines []string
		err := procdrv.Run(name, args, procdrv.Options{
			Stdin:    in.String(),
			OnStdout: func(line string) { outLines = append(outLines, line) },
		})
		if err != nil {
			return 0, nil, err
		}
		if len(outLines) < n+1 {
			return 0, nil, gerr.New(gerr.PotentialError, "potential: %q returned %d lines, expected at least %d", name, len(outLines), n+1)
		}

		value, perr := strconv.ParseFloat(strings.TrimSpace(outLines[0]), 64)
		if perr != nil {
			return 0, nil, gerr.New(gerr.PotentialError, "potential: %q: bad value line: %v", name, perr)
		}
		grad := make([]float64, len(x))
		for a := 0; a < n; a++ {
			fields := strings.Fields(outLines[1+a])
			if len(fields) < 3 {
				return 0, nil, gerr.New(gerr.PotentialError, "potential: %q: bad gradient line %d", name, a)
			}
			for j := 0; j < 3; j++ {
				v, e := strconv.ParseFloat(fields[j], 64)
				if e != nil {
					return 0, nil, gerr.New(gerr.PotentialError, "potential: %q: bad gradient line %d: %v", name, a, e)
				}
				grad[3*a+j] = v
			}
		}
		return value, grad, nil
	}
}

// harmonicWell is a built-in toy oracle (no external process at all): each
// atom sits in its own independent harmonic well about its starting
// position, value = 0.5*k*sum(dx^2). Useful for exercising the full driver
// without a real potential wired up -- e.g. smoke-testing a configuration
// before pointing `potential.kind` at a real external backend.
func harmonicWell(k float64) cg.ValueGradFn {
	var base []float64
	return func(x []float64) (float64, []float64, error) {
		if base == nil {
			base = append([]float64(nil), x...)
		}
		value := 0.0
		grad := make([]float64, len(x))
		for i := range x {
			d := x[i] - base[i]
			value += 0.5 * k * d * d
			grad[i] = k * d
		}
		return value, grad, nil
	}
}
