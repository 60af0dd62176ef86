// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package poisson ties components C1-C6 together into the opaque
// Setup/Solve handle §6 of the core specification calls for: geometry and
// radial operator (grid), the bit-reversal table (bitrev), the per-mode
// even/odd eigenbases (spectral), the distributed FFT (fft), the parity
// projector (parity) and the distributed Legendre transform plus
// tridiagonal solve (theta).
package poisson

import (
	"github.com/bjmueller/poisson/bitrev"
	"github.com/bjmueller/poisson/fft"
	"github.com/bjmueller/poisson/grid"
	"github.com/bjmueller/poisson/spectral"
	"github.com/bjmueller/poisson/topo"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Solver is the immutable, reusable handle built by Setup and consumed by
// Solve: an opaque value per spec.md §6, holding everything needed to run
// the forward/inverse pipeline for this rank's slice of the process grid.
type Solver struct {
	Verbose bool

	comm topo.Comm
	g    *grid.Geometry
	op   *grid.RadialOperator
	idx  *bitrev.Table
	bas  map[int]*spectral.Basis
	plan *fft.Plan

	nS, nE, nLoc int
	oS, oE, oLoc int
	p            int
}

// Setup builds the geometry, radial operator, bit-reversal table and
// per-mode eigenbases for this rank's share of a (θ, φ) process grid
// (spec.md §6's "opaque solver handle, immutable thereafter"). The local
// θ/φ ranges are derived from comm's Cartesian shape and this rank's
// coordinates within it.
func Setup(comm topo.Comm, nr, ntheta, nphi int, rIf []float64) (*Solver, error) {
	p := comm.P()
	q := comm.Q()
	if ntheta%p != 0 || nphi%q != 0 {
		return nil, chk.Err("poisson: Ntheta=%d/Nphi=%d must divide evenly by process grid (%d,%d)", ntheta, nphi, p, q)
	}
	nLoc := ntheta / p
	oLoc := nphi / q
	nS := comm.ThetaCoord()*nLoc + 1
	nE := nS + nLoc - 1
	oS := comm.PhiCoord()*oLoc + 1
	oE := oS + oLoc - 1

	g, err := grid.NewGeometry(nr, ntheta, nphi, rIf)
	if err != nil {
		return nil, chk.Err("poisson: Setup geometry: %v", err)
	}
	op := grid.BuildRadialOperator(g)

	idx, err := bitrev.New(nphi)
	if err != nil {
		return nil, chk.Err("poisson: Setup bit-reversal table: %v", err)
	}

	bas, err := spectral.Build(g, idx, oS, oE)
	if err != nil {
		return nil, chk.Err("poisson: Setup angular eigensolve: %v", err)
	}

	plan, err := fft.NewPlan(comm, oS, oE, nphi)
	if err != nil {
		return nil, chk.Err("poisson: Setup FFT plan: %v", err)
	}

	s := &Solver{
		comm: comm, g: g, op: op, idx: idx, bas: bas, plan: plan,
		nS: nS, nE: nE, nLoc: nLoc,
		oS: oS, oE: oE, oLoc: oLoc,
		p: p,
	}
	if s.Verbose && comm.Rank() == 0 {
		io.Pf("poisson: setup done: Nr=%d Ntheta=%d Nphi=%d grid=(%d,%d)\n", nr, ntheta, nphi, p, q)
	}
	return s, nil
}

func (s *Solver) logf(format string, args ...interface{}) {
	if s.Verbose && s.comm.Rank() == 0 {
		io.Pf(format, args...)
	}
}
