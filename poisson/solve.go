// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poisson

import (
	"github.com/bjmueller/poisson/parity"
	"github.com/bjmueller/poisson/theta"
	"github.com/cpmech/gosl/chk"
)

// Solve runs the full forward/inverse pipeline (C4 forward, C5 split, C6
// forward transform + per-mode tridiagonal solve + backward transform, C5
// recombine, C4 inverse) on this rank's local window of rho, spec.md §4's
// data-flow line: ρ(r,θ,φ) → C4 fwd → C5 split → C6 fwd+solve → C6 bwd → C5
// recombine → C4 inv → Φ(r,θ,φ). The solver handle is read-only; every
// working buffer below is allocated fresh per call (spec.md §6, "stateless
// across solve calls").
func (s *Solver) Solve(rho [][][]float64) (phi [][][]float64, err error) {
	nr := s.g.Nr
	nLoc, oLoc := s.nLoc, s.oLoc
	ntheta := s.g.Ntheta
	m := ntheta / 2

	if len(rho) != nr {
		return nil, chk.Err("poisson: Solve: rho has %d radial slabs, want Nr=%d", len(rho), nr)
	}
	for ir := range rho {
		if len(rho[ir]) != nLoc {
			return nil, chk.Err("poisson: Solve: rho[%d] has %d theta rows, want n_loc=%d", ir, len(rho[ir]), nLoc)
		}
		for jLoc := range rho[ir] {
			if len(rho[ir][jLoc]) != oLoc {
				return nil, chk.Err("poisson: Solve: rho[%d][%d] has %d phi values, want o_loc=%d", ir, jLoc, len(rho[ir][jLoc]), oLoc)
			}
		}
	}
	s.logf("poisson: solve start (Nr=%d n_loc=%d o_loc=%d)\n", nr, nLoc, oLoc)

	// Step C4 forward: one FFT row per (r, theta-local) pair, each o_loc long.
	rows := make([][]complex128, nr*nLoc)
	for ir := 0; ir < nr; ir++ {
		for jLoc := 0; jLoc < nLoc; jLoc++ {
			row := make([]complex128, oLoc)
			for kkLoc := 0; kkLoc < oLoc; kkLoc++ {
				row[kkLoc] = complex(rho[ir][jLoc][kkLoc], 0)
			}
			rows[ir*nLoc+jLoc] = row
		}
	}
	if err := s.plan.Forward(rows); err != nil {
		return nil, chk.Err("poisson: Solve forward FFT: %v", err)
	}

	// Reshape into one theta-slab per (r, phi-local) pair for C5/C6, which
	// both index rows by theta rather than by phi.
	parityRows := make([][]complex128, nr*oLoc)
	for ir := 0; ir < nr; ir++ {
		for kkLoc := 0; kkLoc < oLoc; kkLoc++ {
			slab := make([]complex128, nLoc)
			for jLoc := 0; jLoc < nLoc; jLoc++ {
				slab[jLoc] = rows[ir*nLoc+jLoc][kkLoc]
			}
			parityRows[ir*oLoc+kkLoc] = slab
		}
	}

	single := s.p == 1
	var evenRows, oddRows [][]complex128
	var half parity.Half
	if single {
		evenRows = make([][]complex128, nr*oLoc)
		oddRows = make([][]complex128, nr*oLoc)
		for i, row := range parityRows {
			ev, od, serr := parity.SplitSingleRank(ntheta, row)
			if serr != nil {
				return nil, chk.Err("poisson: Solve parity split: %v", serr)
			}
			evenRows[i], oddRows[i] = ev, od
		}
	} else {
		parityRows, half, err = parity.Split(s.comm, s.nS, s.nE, ntheta, parityRows)
		if err != nil {
			return nil, chk.Err("poisson: Solve parity split: %v", err)
		}
	}

	// Step C6: per local phi-slot, forward transform, tridiagonal solve per
	// theta-mode, backward transform.
	for kkLoc := 0; kkLoc < oLoc; kkLoc++ {
		kk := s.oS + kkLoc
		basis := s.bas[kk]
		if basis == nil {
			return nil, chk.Err("poisson: Solve: no eigenbasis for phi-slot %d", kk)
		}

		if single {
			evenSlab := make([][]complex128, m)
			oddSlab := make([][]complex128, m)
			for jLoc := 0; jLoc < m; jLoc++ {
				evenSlab[jLoc] = make([]complex128, nr)
				oddSlab[jLoc] = make([]complex128, nr)
				for ir := 0; ir < nr; ir++ {
					evenSlab[jLoc][ir] = evenRows[ir*oLoc+kkLoc][jLoc]
					oddSlab[jLoc][ir] = oddRows[ir*oLoc+kkLoc][jLoc]
				}
			}
			yEven, yOdd, ferr := theta.ForwardSingleRank(basis, s.g, evenSlab, oddSlab)
			if ferr != nil {
				return nil, chk.Err("poisson: Solve theta forward (phi-slot %d): %v", kk, ferr)
			}
			for j0 := 0; j0 < m; j0++ {
				sol, serr := theta.SolveMode(s.op, s.g, basis.Lambda[j0+1], yEven[j0])
				if serr != nil {
					return nil, chk.Err("poisson: Solve tridiagonal (theta-mode %d, phi-slot %d, even): %v", j0+1, kk, serr)
				}
				yEven[j0] = sol
			}
			for j0 := 0; j0 < m; j0++ {
				sol, serr := theta.SolveMode(s.op, s.g, basis.Lambda[m+1+j0], yOdd[j0])
				if serr != nil {
					return nil, chk.Err("poisson: Solve tridiagonal (theta-mode %d, phi-slot %d, odd): %v", m+1+j0, kk, serr)
				}
				yOdd[j0] = sol
			}
			evenBack, oddBack, berr := theta.BackwardSingleRank(basis, yEven, yOdd)
			if berr != nil {
				return nil, chk.Err("poisson: Solve theta backward (phi-slot %d): %v", kk, berr)
			}
			for jLoc := 0; jLoc < m; jLoc++ {
				for ir := 0; ir < nr; ir++ {
					evenRows[ir*oLoc+kkLoc][jLoc] = evenBack[jLoc][ir]
					oddRows[ir*oLoc+kkLoc][jLoc] = oddBack[jLoc][ir]
				}
			}
		} else {
			slab := make([][]complex128, nLoc)
			for jLoc := 0; jLoc < nLoc; jLoc++ {
				slab[jLoc] = make([]complex128, nr)
				for ir := 0; ir < nr; ir++ {
					slab[jLoc][ir] = parityRows[ir*oLoc+kkLoc][jLoc]
				}
			}
			yCoeff, ferr := theta.ForwardDistributed(s.comm, basis, s.g, s.nS, s.nE, half.IsEven, slab)
			if ferr != nil {
				return nil, chk.Err("poisson: Solve theta forward (phi-slot %d): %v", kk, ferr)
			}
			for jLoc := 0; jLoc < nLoc; jLoc++ {
				j := s.nS + jLoc
				sol, serr := theta.SolveMode(s.op, s.g, basis.Lambda[j], yCoeff[jLoc])
				if serr != nil {
					return nil, chk.Err("poisson: Solve tridiagonal (theta-mode %d, phi-slot %d): %v", j, kk, serr)
				}
				yCoeff[jLoc] = sol
			}
			back, berr := theta.BackwardDistributed(s.comm, basis, s.g, s.nS, s.nE, half.IsEven, yCoeff)
			if berr != nil {
				return nil, chk.Err("poisson: Solve theta backward (phi-slot %d): %v", kk, berr)
			}
			for jLoc := 0; jLoc < nLoc; jLoc++ {
				for ir := 0; ir < nr; ir++ {
					parityRows[ir*oLoc+kkLoc][jLoc] = back[jLoc][ir]
				}
			}
		}
	}

	// Step C5 recombine.
	if single {
		for i := range parityRows {
			row, rerr := parity.RecombineSingleRank(ntheta, evenRows[i], oddRows[i])
			if rerr != nil {
				return nil, chk.Err("poisson: Solve parity recombine: %v", rerr)
			}
			parityRows[i] = row
		}
	} else {
		parityRows, err = parity.Recombine(s.comm, s.nS, s.nE, ntheta, half, parityRows)
		if err != nil {
			return nil, chk.Err("poisson: Solve parity recombine: %v", err)
		}
	}

	// Reshape back into FFT rows and run the inverse transform.
	for ir := 0; ir < nr; ir++ {
		for kkLoc := 0; kkLoc < oLoc; kkLoc++ {
			slab := parityRows[ir*oLoc+kkLoc]
			for jLoc := 0; jLoc < nLoc; jLoc++ {
				rows[ir*nLoc+jLoc][kkLoc] = slab[jLoc]
			}
		}
	}
	if err := s.plan.Inverse(rows); err != nil {
		return nil, chk.Err("poisson: Solve inverse FFT: %v", err)
	}

	phi = make([][][]float64, nr)
	for ir := 0; ir < nr; ir++ {
		phi[ir] = make([][]float64, nLoc)
		for jLoc := 0; jLoc < nLoc; jLoc++ {
			phi[ir][jLoc] = make([]float64, oLoc)
			for kkLoc := 0; kkLoc < oLoc; kkLoc++ {
				phi[ir][jLoc][kkLoc] = real(rows[ir*nLoc+jLoc][kkLoc])
			}
		}
	}
	s.logf("poisson: solve done\n")
	return phi, nil
}
