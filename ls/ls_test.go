// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ls

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_ls01 exercises ExactLS on s(alpha) = alpha (slope of 0.5*alpha^2),
// whose unique root is 0; starting from alpha=0 (slope exactly zero) must
// return alpha=0 per spec.md section 8's boundary behavior.
func Test_ls01(tst *testing.T) {

	chk.PrintTitle("ls01. exact_ls zero starting slope")

	bound, err := ExactLS(0.0, 1.0, func(a float64) (float64, error) { return a, nil })
	if err != nil {
		tst.Fatalf("ExactLS failed: %v", err)
	}
	if math.Abs(bound.Alpha-0.0) > 1e-12 {
		tst.Fatalf("expected alpha=0, got %v", bound.Alpha)
	}
}

// Test_ls02 exercises ExactLS on a shifted quadratic's slope, starting from
// a point with positive slope so the mirroring path is exercised.
func Test_ls02(tst *testing.T) {

	chk.PrintTitle("ls02. exact_ls mirroring path")

	target := 3.0
	slope := func(a float64) (float64, error) { return a - target, nil }

	bound, err := ExactLS(10.0, 1.0, slope)
	if err != nil {
		tst.Fatalf("ExactLS failed: %v", err)
	}
	if math.Abs(bound.Alpha-target) > 1e-6 {
		tst.Fatalf("expected alpha~=%v, got %v", target, bound.Alpha)
	}
}

// Test_ls03 checks that ExactLS surfaces NoMinimum when the slope never
// turns non-negative.
func Test_ls03(tst *testing.T) {

	chk.PrintTitle("ls03. exact_ls with no minimum")

	_, err := ExactLS(0.0, 1.0, func(a float64) (float64, error) { return -1.0, nil })
	if err == nil {
		tst.Fatalf("expected NoMinimum error")
	}
}

// Test_golden01 checks termination on a flat function (spec.md section 8's
// boundary behavior: "terminates by the noise-dominates clause").
func Test_golden01(tst *testing.T) {

	chk.PrintTitle("golden01. flat function terminates")

	alpha, err := Golden([2]float64{-1.0, 1.0}, func(a float64) (float64, error) { return 0.0, nil })
	if err != nil {
		tst.Fatalf("Golden failed: %v", err)
	}
	if alpha < -1.0-1e-9 || alpha > 1.0+1e-9 {
		tst.Fatalf("alpha %v outside search interval", alpha)
	}
}

// Test_golden02 minimizes a simple quadratic via golden section.
func Test_golden02(tst *testing.T) {

	chk.PrintTitle("golden02. quadratic minimum")

	target := 0.37
	alpha, err := Golden([2]float64{-2.0, 2.0}, func(a float64) (float64, error) {
		d := a - target
		return d * d, nil
	})
	if err != nil {
		tst.Fatalf("Golden failed: %v", err)
	}
	if math.Abs(alpha-target) > 1e-4 {
		tst.Fatalf("expected alpha~=%v, got %v", target, alpha)
	}
}
