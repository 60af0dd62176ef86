// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package topo wraps the 2-D Cartesian process grid over (θ, φ) that
// spec.md §6 assumes is supplied by the caller. Building the communicator
// (rank placement, MPI_Cart_create-equivalent bookkeeping) is explicitly out
// of scope for the core (spec.md §1); this package only addresses partner
// ranks from already-known grid coordinates and carries out the blocking
// point-to-point exchange the core's three suspension sites (C4, C5, C6)
// need, the same way gofem reaches for package-level github.com/cpmech/gosl/mpi
// calls (fem/fem.go, fem/s_implicit.go) rather than building its own
// transport.
package topo

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/mpi"
)

// Comm is what C4, C5 and C6 need from the process grid: identity, partner
// lookup and blocking point-to-point exchange. *Grid implements
// it against real (or inactive, single-process) github.com/cpmech/gosl/mpi
// transport; tests substitute other implementations to emulate multiple
// ranks within a single process (see topo/loopback.go).
type Comm interface {
	Rank() int
	Size() int
	P() int
	Q() int
	ThetaCoord() int
	PhiCoord() int
	ThetaPartner(other int) int
	PhiPartner(other int) int
	SendRecvFloat(partner int, send, recv []float64, sendFirst bool)
	SendRecvComplex(partner int, send, recv []complex128, sendFirst bool)
}

// Grid is the 2-D Cartesian process grid over (θ, φ). Rank layout is
// row-major: flat rank = thetaCoord*q + phiCoord.
type Grid struct {
	p, q       int // process-grid shape: p blocks along θ, q blocks along φ
	thetaCoord int // this rank's θ-block index, in [0, p)
	phiCoord   int // this rank's φ-block index, in [0, q)
}

// NewGrid builds the Grid wrapper from the caller-supplied process-grid
// shape and this rank's coordinates within it. The caller (driver, out of
// scope) is responsible for ensuring every rank agrees on (p, q) and that
// coordinates are consistent with the flat MPI rank ordering.
func NewGrid(p, q, thetaCoord, phiCoord int) (*Grid, error) {
	if p <= 0 || q <= 0 {
		return nil, chk.Err("topo: process-grid shape must be positive; got p=%d q=%d", p, q)
	}
	if thetaCoord < 0 || thetaCoord >= p || phiCoord < 0 || phiCoord >= q {
		return nil, chk.Err("topo: coordinates (%d,%d) out of range for shape (%d,%d)", thetaCoord, phiCoord, p, q)
	}
	return &Grid{p: p, q: q, thetaCoord: thetaCoord, phiCoord: phiCoord}, nil
}

// P returns the number of process-grid blocks along θ.
func (g *Grid) P() int { return g.p }

// Q returns the number of process-grid blocks along φ.
func (g *Grid) Q() int { return g.q }

// ThetaCoord returns this rank's θ-block index.
func (g *Grid) ThetaCoord() int { return g.thetaCoord }

// PhiCoord returns this rank's φ-block index.
func (g *Grid) PhiCoord() int { return g.phiCoord }

// Rank returns the flat MPI rank of this process.
func (g *Grid) Rank() int {
	if mpi.IsOn() {
		return mpi.Rank()
	}
	return g.thetaCoord*g.q + g.phiCoord
}

// Size returns the total number of ranks in the process grid.
func (g *Grid) Size() int { return g.p * g.q }

// flatRank converts (θ-block, φ-block) coordinates into the flat MPI rank.
func (g *Grid) flatRank(thetaCoord, phiCoord int) int { return thetaCoord*g.q + phiCoord }

// ThetaPartner returns the flat rank obtained by replacing this rank's
// θ-block coordinate with other, keeping the φ-block coordinate fixed.
func (g *Grid) ThetaPartner(other int) int { return g.flatRank(other, g.phiCoord) }

// PhiPartner returns the flat rank obtained by replacing this rank's
// φ-block coordinate with other, keeping the θ-block coordinate fixed.
func (g *Grid) PhiPartner(other int) int { return g.flatRank(g.thetaCoord, other) }

// SendRecvFloat exchanges buf with partner rank: it sends send and receives
// into recv (recv may alias a different slice than send; both must have
// equal, pre-allocated length). sendFirst controls posting order so that,
// per spec.md §5, paired ranks alternate send/receive order and avoid
// deadlock.
func (g *Grid) SendRecvFloat(partner int, send, recv []float64, sendFirst bool) {
	if !mpi.IsOn() {
		copy(recv, send)
		return
	}
	if sendFirst {
		mpi.SendOne(partner, send)
		mpi.ReceiveOne(partner, recv)
	} else {
		mpi.ReceiveOne(partner, recv)
		mpi.SendOne(partner, send)
	}
}

// SendRecvComplex is SendRecvFloat for complex128 buffers: values are
// flattened to interleaved (real, imag) float64 pairs for the exchange,
// since the transport only needs to move bytes, not interpret them.
func (g *Grid) SendRecvComplex(partner int, send, recv []complex128, sendFirst bool) {
	sf := flattenComplex(send)
	rf := make([]float64, 2*len(recv))
	g.SendRecvFloat(partner, sf, rf, sendFirst)
	unflattenComplex(recv, rf)
}

func flattenComplex(src []complex128) []float64 {
	dst := make([]float64, 2*len(src))
	for i, c := range src {
		dst[2*i] = real(c)
		dst[2*i+1] = imag(c)
	}
	return dst
}

func unflattenComplex(dst []complex128, src []float64) {
	for i := range dst {
		dst[i] = complex(src[2*i], src[2*i+1])
	}
}
