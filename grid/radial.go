// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "gonum.org/v1/gonum/floats"

// RadialOperator holds the constant part of the per-mode radial tridiagonal
// system (spec.md §3, "Radial operator (replicated)"). It is built once from
// the geometry and reused, with a per-mode diagonal update, by package theta.
type RadialOperator struct {
	Diag0    []float64 // [1..Nr]
	Offdiag0 []float64 // [1..Nr-1]
}

// BuildRadialOperator assembles Diag0/Offdiag0 from the cell geometry (C1).
// It is a pure function: no failure mode, no external state.
func BuildRadialOperator(g *Geometry) *RadialOperator {
	nr := g.Nr
	o := &RadialOperator{
		Diag0:    make([]float64, nr+1),
		Offdiag0: make([]float64, nr),
	}

	// offdiag0[i] = -da_r[i] / (r[i+1] - r[i]), i = 1..nr-1
	dr := make([]float64, nr) // dr[i] = r[i+1]-r[i], i=1..nr-1 stored at index i
	for i := 1; i <= nr-1; i++ {
		dr[i] = g.R[i+1] - g.R[i]
	}
	for i := 1; i <= nr-1; i++ {
		o.Offdiag0[i] = -g.DaR[i] / dr[i]
	}

	// diag0[1] = -offdiag0[1]
	// diag0[i] = -offdiag0[i] - offdiag0[i-1], i=2..nr-1
	// diag0[nr] = -offdiag0[nr-1]
	o.Diag0[1] = -o.Offdiag0[1]
	for i := 2; i <= nr-1; i++ {
		o.Diag0[i] = -o.Offdiag0[i] - o.Offdiag0[i-1]
	}
	o.Diag0[nr] = -o.Offdiag0[nr-1]
	return o
}

// DiagUpdate writes diag[i] = Diag0[i] - lambda*dv_r[i]/r[i]^2 into dst,
// reusing gonum/floats for the elementwise scale-and-subtract rather than a
// hand-rolled loop. dst must have length nr+1 (index 0 unused).
func DiagUpdate(dst []float64, o *RadialOperator, g *Geometry, lambda float64) {
	nr := g.Nr
	copy(dst, o.Diag0)
	scratch := make([]float64, nr+1)
	for i := 1; i <= nr; i++ {
		scratch[i] = g.DvR[i] / (g.R[i] * g.R[i])
	}
	floats.AddScaled(dst[1:], -lambda, scratch[1:])
}
