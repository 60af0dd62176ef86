// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package parity implements the mirror-partner exchange that splits a
// post-FFT field into its even/odd θ-parity halves (C5), and its inverse
// that recombines the two halves before the inverse FFT. Both directions
// share the same mirror exchange; only the combining arithmetic differs.
package parity

import (
	"github.com/bjmueller/poisson/topo"
	"github.com/cpmech/gosl/chk"
)

// Half tells the caller which parity half this rank now holds after Split,
// or which parity half it is contributing before Recombine.
type Half struct {
	IsEven bool
	// L0 is this rank's θ-block index (n_s-1)/n_loc.
	L0 int
}

// classify derives this rank's θ-block index and even/odd half membership
// from its local θ window (spec.md §4.5: "the lower half (l_0 < P/2) will
// hold the even part after the exchange").
func classify(comm topo.Comm, nS, nLoc int) Half {
	p := comm.P()
	l0 := (nS - 1) / nLoc
	return Half{IsEven: l0 < p/2, L0: l0}
}

// Split exchanges each row's local θ-slab with its mirror partner and
// returns the even or odd half this rank now owns (Half.IsEven tells
// which). rows holds one slab per (r, φ-slot) pair, each of length nLoc;
// ntheta is the full θ-zone count. Split handles only nLoc < ntheta: for
// the single-rank case (nLoc == ntheta) it returns an error, and callers
// use SplitSingleRank, which returns the two half-length results.
func Split(comm topo.Comm, nS, nE, ntheta int, rows [][]complex128) ([][]complex128, Half, error) {
	nLoc := nE - nS + 1
	if nLoc == ntheta {
		return nil, Half{}, chk.Err("parity: Split called with a full-domain local window; use SplitSingleRank instead")
	}
	half := classify(comm, nS, nLoc)
	out, err := exchange(comm, nS, nE, ntheta, half, rows, splitCombine)
	return out, half, err
}

// Recombine is the inverse of Split: given this rank's current half (even
// or odd, as returned by a prior Split) it reconstructs the physical-space
// slab ready for the inverse FFT.
func Recombine(comm topo.Comm, nS, nE, ntheta int, half Half, rows [][]complex128) ([][]complex128, error) {
	nLoc := nE - nS + 1
	if nLoc == ntheta {
		return nil, chk.Err("parity: Recombine called with a full-domain local window; use RecombineSingleRank instead")
	}
	return exchange(comm, nS, nE, ntheta, half, rows, recombineCombine)
}

type combineFunc func(isEven bool, local, mirror complex128) complex128

func splitCombine(isEven bool, local, mirror complex128) complex128 {
	if isEven {
		return 0.5 * (local + mirror)
	}
	return 0.5 * (mirror - local)
}

func recombineCombine(isEven bool, local, mirror complex128) complex128 {
	// local here holds this rank's own half (even at the lower rank, odd
	// at the upper rank); mirror holds the partner's half, already
	// reversed into this rank's θ order. Solving the split equations for
	// the original physical values gives sum at the lower rank and
	// difference at the upper rank, with no ½ factor (spec.md §4.5).
	if isEven {
		return local + mirror
	}
	return mirror - local
}

// exchange implements the shared mirror-partner mechanics for Split and
// Recombine: send the local slab to the mirror partner, receive its slab
// reversed into this rank's θ order, and combine element-wise with fn.
func exchange(comm topo.Comm, nS, nE, ntheta int, half Half, rows [][]complex128, fn combineFunc) ([][]complex128, error) {
	nLoc := nE - nS + 1
	p := comm.P()
	partnerBlock := p - 1 - half.L0
	partner := comm.ThetaPartner(partnerBlock)
	sendFirst := half.IsEven

	out := make([][]complex128, len(rows))
	for i, row := range rows {
		if len(row) != nLoc {
			return nil, chk.Err("parity: row length %d does not match local θ window %d", len(row), nLoc)
		}
		partnerRaw := make([]complex128, nLoc)
		comm.SendRecvComplex(partner, row, partnerRaw, sendFirst)

		newRow := make([]complex128, nLoc)
		for pos := 0; pos < nLoc; pos++ {
			mirror := partnerRaw[nLoc-1-pos]
			newRow[pos] = fn(half.IsEven, row[pos], mirror)
		}
		out[i] = newRow
	}
	return out, nil
}

// SplitSingleRank is Split's single-θ-rank special case (n_loc == Nθ): the
// mirror exchange is purely local, so rather than updating a slab in place
// against itself (the original's ambiguous dependency, spec.md §9) it reads
// from one scratch copy and writes into two fresh half-length buffers. Both
// even[r] and odd[r] are indexed by the same canonical row r=0..m-1 (the
// north-hemisphere cell, spec.md §4.3's j=1..m), mirrored against cell
// Ntheta-1-r.
func SplitSingleRank(ntheta int, row []complex128) (even, odd []complex128, err error) {
	if len(row) != ntheta {
		return nil, nil, chk.Err("parity: row length %d does not match Ntheta %d", len(row), ntheta)
	}
	m := ntheta / 2
	orig := append([]complex128(nil), row...)
	even = make([]complex128, m)
	odd = make([]complex128, m)
	for r := 0; r < m; r++ {
		mirror := orig[ntheta-1-r]
		even[r] = 0.5 * (orig[r] + mirror)
		odd[r] = 0.5 * (orig[r] - mirror)
	}
	return even, odd, nil
}

// RecombineSingleRank inverts SplitSingleRank.
func RecombineSingleRank(ntheta int, even, odd []complex128) ([]complex128, error) {
	m := ntheta / 2
	if len(even) != m || len(odd) != m {
		return nil, chk.Err("parity: even/odd length mismatch for Ntheta %d", ntheta)
	}
	row := make([]complex128, ntheta)
	for r := 0; r < m; r++ {
		row[r] = even[r] + odd[r]
		row[ntheta-1-r] = even[r] - odd[r]
	}
	return row, nil
}
