// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sphsolve is a thin driver around package poisson: it builds the
// 2-D Cartesian process grid from the MPI rank and the requested (P, Q)
// shape, runs one Setup/Solve cycle on a manufactured source, and prints a
// diagnostic summary. Grid-geometry input loading, communicator
// construction and reporting belong to the driver, not the core (spec.md
// §1's "deliberately out of scope"), so this file stays deliberately
// unambitious; it is not part of the specification being implemented.
package main

import (
	"github.com/bjmueller/poisson/ana"
	"github.com/bjmueller/poisson/poisson"
	"github.com/bjmueller/poisson/topo"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				chk.Verbose = true
				for i := 8; i > 3; i-- {
					chk.CallerInfo(i)
				}
				io.PfRed("ERROR: %v\n", err)
			}
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	// grid and process-grid shape
	nr := io.ArgToInt(0, 16)
	ntheta := io.ArgToInt(1, 8)
	nphi := io.ArgToInt(2, 8)
	p := io.ArgToInt(3, 1)
	q := io.ArgToInt(4, 1)
	verbose := io.ArgToBool(5, true)

	if mpi.Rank() == 0 && verbose {
		io.PfWhite("\nsphsolve -- distributed spherical-polar Poisson solver\n\n")
		io.Pf("%v\n", io.ArgsTable(
			"radial zones", "Nr", nr,
			"theta zones", "Ntheta", ntheta,
			"phi zones", "Nphi", nphi,
			"process-grid P", "P", p,
			"process-grid Q", "Q", q,
		))
	}

	rank := mpi.Rank()
	thetaCoord := rank / q
	phiCoord := rank % q
	comm, err := topo.NewGrid(p, q, thetaCoord, phiCoord)
	if err != nil {
		chk.Panic("failed to build process grid: %v", err)
	}

	rIf := make([]float64, nr+1)
	router := 10.0
	for i := range rIf {
		rIf[i] = router * float64(i) / float64(nr)
	}

	solver, err := poisson.Setup(comm, nr, ntheta, nphi, rIf)
	if err != nil {
		chk.Panic("Setup failed: %v", err)
	}
	solver.Verbose = verbose

	nLoc := ntheta / p
	oLoc := nphi / q
	nS := thetaCoord*nLoc + 1
	dtheta := 3.14159265358979 / float64(ntheta)

	var src ana.Scenario6
	rho := make([][][]float64, nr)
	for ir := range rho {
		r := router * (float64(ir) + 0.5) / float64(nr)
		rho[ir] = make([][]float64, nLoc)
		for jLoc := range rho[ir] {
			j := nS + jLoc
			theta := (float64(j) - 0.5) * dtheta
			rho[ir][jLoc] = make([]float64, oLoc)
			for kkLoc := range rho[ir][jLoc] {
				rho[ir][jLoc][kkLoc] = src.Rho(r, theta)
			}
		}
	}

	phi, err := solver.Solve(rho)
	if err != nil {
		chk.Panic("Solve failed: %v", err)
	}

	if mpi.Rank() == 0 && verbose {
		io.Pf("solve complete: phi[0][0][0] = %g\n", phi[0][0][0])
	}
}
