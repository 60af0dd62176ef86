// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fft implements the distributed in-place complex radix-2 FFT along
// the φ-axis of the process grid (C4): a decimation-in-frequency butterfly
// whose output lands in bit-reversed order, so its output slot directly
// indexes the per-mode spectral data built by package spectral. Local
// butterfly arithmetic is written out over []complex128 (gonum/cmplxs only
// applies the inverse's 1/nphi scaling); stages that cross a process
// boundary exchange full local slabs through a topo.Comm.
package fft

import (
	"math"
	"math/cmplx"

	"github.com/bjmueller/poisson/topo"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/cmplxs"
)

// Plan is a reusable distributed FFT along φ for a fixed process grid and
// local φ window. A Plan touches only the row slices passed to Forward and
// Inverse; the row/θ/r dimension is opaque to it.
type Plan struct {
	comm       topo.Comm
	oS, oE     int // global 1-based local φ-window bounds
	oLoc, nphi int
	levels     int // L = log2(nphi)
}

// NewPlan builds a Plan for a process grid whose local φ window is
// [oS, oE] (1-based) out of nphi total φ-zones (a power of two).
func NewPlan(comm topo.Comm, oS, oE, nphi int) (*Plan, error) {
	if nphi <= 0 || nphi&(nphi-1) != 0 {
		return nil, chk.Err("fft: nphi must be a power of two; got %d", nphi)
	}
	oLoc := oE - oS + 1
	if oLoc <= 0 || oLoc&(oLoc-1) != 0 {
		return nil, chk.Err("fft: local φ window size must be a power of two; got %d", oLoc)
	}
	levels := 0
	for 1<<uint(levels) < nphi {
		levels++
	}
	return &Plan{comm: comm, oS: oS, oE: oE, oLoc: oLoc, nphi: nphi, levels: levels}, nil
}

// Forward runs the forward butterfly in place on rows; each entry of rows
// must have length p.oLoc.
func (p *Plan) Forward(rows [][]complex128) error {
	return p.run(rows, false)
}

// Inverse runs the inverse butterfly in place on rows (stages in reverse
// order, conjugate twiddles, twiddle moved to the partner addend), taking
// bit-reversed input back to natural order, and applies the 1/nphi scaling
// once at the end.
func (p *Plan) Inverse(rows [][]complex128) error {
	if err := p.run(rows, true); err != nil {
		return err
	}
	scale := complex(1.0/float64(p.nphi), 0)
	for _, row := range rows {
		cmplxs.Scale(scale, row)
	}
	return nil
}

func (p *Plan) run(rows [][]complex128, inverse bool) error {
	for _, row := range rows {
		if len(row) != p.oLoc {
			return chk.Err("fft: row length %d does not match local φ window %d", len(row), p.oLoc)
		}
	}
	for k := 1; k <= p.levels; k++ {
		di := 1 << uint(p.levels-k)
		if inverse {
			di = 1 << uint(k-1)
		}
		if 2*di <= p.oLoc {
			p.localStage(rows, di, inverse)
		} else {
			if err := p.crossStage(rows, di, inverse); err != nil {
				return err
			}
		}
	}
	return nil
}

// twiddle returns ω^r for the given stage's base angle (forward: -π/di;
// inverse: +π/di, i.e. the conjugate).
func twiddle(di, r int, inverse bool) complex128 {
	angle := -math.Pi / float64(di) * float64(r)
	if inverse {
		angle = -angle
	}
	return cmplx.Exp(complex(0, angle))
}

// localStage combines pairs that lie entirely within this rank's local
// window (spec.md §4.4, "If 2*di <= o_loc the stage is purely local").
func (p *Plan) localStage(rows [][]complex128, di int, inverse bool) {
	groupSize := 2 * di
	for _, row := range rows {
		orig := append([]complex128(nil), row...)
		for g := 0; g+groupSize <= p.oLoc; g += groupSize {
			for r := 0; r < di; r++ {
				iEven := g + r
				iOdd := iEven + di
				e, o := orig[iEven], orig[iOdd]
				tw := twiddle(di, r, inverse)
				if !inverse {
					row[iEven] = e + o
					row[iOdd] = (e - o) * tw
				} else {
					row[iEven] = e + o*tw
					row[iOdd] = e - o*tw
				}
			}
		}
	}
}

// crossStage combines pairs that straddle a process boundary (spec.md
// §4.4, the "Else exchange the full local slab" branch). The partner rank
// is reached by a Cartesian shift of magnitude di/o_loc along φ; the rank
// owning the numerically lower half of the pair ((o_s-1)/di even) applies
// the additive update and sends first, the upper half applies the
// subtractive/twiddled update and receives first, matching spec.md §5's
// alternating send/recv order.
func (p *Plan) crossStage(rows [][]complex128, di int, inverse bool) error {
	shift := di / p.oLoc
	if shift == 0 {
		return chk.Err("fft: stage stride %d smaller than local φ window %d in cross-rank branch", di, p.oLoc)
	}
	isLower := ((p.oS-1)/di)%2 == 0
	partnerPhiCoord := p.comm.PhiCoord() ^ shift
	partner := p.comm.PhiPartner(partnerPhiCoord)
	rBase := (p.oS - 1) % di

	for _, row := range rows {
		partnerRow := make([]complex128, p.oLoc)
		p.comm.SendRecvComplex(partner, row, partnerRow, isLower)
		for pos := 0; pos < p.oLoc; pos++ {
			r := rBase + pos
			tw := twiddle(di, r, inverse)
			if isLower && !inverse {
				row[pos] = row[pos] + partnerRow[pos]
			} else if isLower {
				row[pos] = row[pos] + partnerRow[pos]*tw
			} else if !inverse {
				row[pos] = (partnerRow[pos] - row[pos]) * tw
			} else {
				row[pos] = partnerRow[pos] - row[pos]*tw
			}
		}
	}
	return nil
}
