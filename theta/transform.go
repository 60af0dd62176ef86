// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package theta implements the distributed Legendre transform and the
// per-mode tridiagonal solve (C6): for one local φ-wavenumber slot at a
// time, it projects a θ-local field onto (or reconstructs it from) the
// even/odd parity eigenbasis built by package spectral, using a local
// dense matrix-vector multiply (gonum/mat.Dense) plus, when more than one
// rank shares a parity half, the recursive-halving cross-rank reduction
// from reduce.go. The tridiagonal solve itself (one per θ-mode/φ-mode
// pair) uses gonum/mat.Tridiag.
package theta

import (
	"github.com/bjmueller/poisson/grid"
	"github.com/bjmueller/poisson/spectral"
	"github.com/bjmueller/poisson/topo"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// pack lays y (nLoc-by-Nr complex field values) out as spec.md §4.6 step 1
// describes: column 2i-2 holds Re(Y[i]), column 2i-1 holds Im(Y[i])
// (0-based), optionally pre-scaled by g.VolTh for the forward weighting.
func pack(y [][]complex128, nS int, g *grid.Geometry, weight bool) *mat.Dense {
	nLoc := len(y)
	nr := len(y[0])
	x := mat.NewDense(nLoc, 2*nr, nil)
	for pos := 0; pos < nLoc; pos++ {
		w := 1.0
		if weight {
			w = g.VolTh[nS+pos]
		}
		for i := 0; i < nr; i++ {
			x.Set(pos, 2*i, real(y[pos][i])*w)
			x.Set(pos, 2*i+1, imag(y[pos][i])*w)
		}
	}
	return x
}

func unpack(x *mat.Dense) [][]complex128 {
	rows, cols := x.Dims()
	nr := cols / 2
	out := make([][]complex128, rows)
	for pos := 0; pos < rows; pos++ {
		row := make([]complex128, nr)
		for i := 0; i < nr; i++ {
			row[i] = complex(x.At(pos, 2*i), x.At(pos, 2*i+1))
		}
		out[pos] = row
	}
	return out
}

// blockMul computes block^T * x (transpose=true, forward direction) or
// block * x (transpose=false, backward direction), where block is the
// rowLen-by-colLen sub-matrix of full starting at (rowOff, colOff).
func blockMul(full *mat.Dense, rowOff, colOff, rowLen, colLen int, x *mat.Dense, transpose bool) *mat.Dense {
	block := full.Slice(rowOff, rowOff+rowLen, colOff, colOff+colLen).(*mat.Dense)
	out := new(mat.Dense)
	if transpose {
		out.Mul(block.T(), x)
	} else {
		out.Mul(block, x)
	}
	return out
}

func denseToFlat(m *mat.Dense) []float64 {
	r, c := m.Dims()
	out := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out[i*c+j] = m.At(i, j)
		}
	}
	return out
}

func flatToDense(flat []float64, rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, flat[i*cols+j])
		}
	}
	return m
}

// ForwardDistributed runs the weight-scaled, transposed θ-transform for one
// local φ-wavenumber slot, including the cross-rank halving reduction when
// more than one rank shares this parity half (spec.md §4.6, forward).
func ForwardDistributed(comm topo.Comm, basis *spectral.Basis, g *grid.Geometry, nS, nE int, isEven bool, y [][]complex128) ([][]complex128, error) {
	return distributedTransform(comm, basis, g, nS, nE, isEven, y, true, true)
}

// BackwardDistributed is ForwardDistributed's inverse: plain (untransposed)
// multiplication and no weight scaling (spec.md §4.6, "Backward
// θ-transform").
func BackwardDistributed(comm topo.Comm, basis *spectral.Basis, g *grid.Geometry, nS, nE int, isEven bool, coeff [][]complex128) ([][]complex128, error) {
	return distributedTransform(comm, basis, g, nS, nE, isEven, coeff, false, false)
}

// distributedTransform runs the local half of the θ-transform for one
// φ-wavenumber slot. Two index conventions coexist here for an odd-parity
// (south) rank:
//
//   - posInHalf = l0-halfRanks is this rank's 0-based position within its
//     parity half. It addresses the cross-rank exchange (reduceHalving's
//     partner lookup assumes it, and it is also the mode-block this rank
//     ends up owning after the reduction — spec.md's j=nS+jLoc convention
//     that poisson.Solve relies on for basis.Lambda lookups).
//   - gridBlock = halfRanks-1-posInHalf (equivalently p-1-l0) is the
//     canonical (north-indexed) eigenbasis row block that this rank's
//     physical south window actually corresponds to, per the mirror
//     identity cell j <-> Ntheta+1-j (parity.go's exchange uses the same
//     p-1-l0 mirror for its partner block). Both a rank's own row range in
//     the forward direction and the reduced row block in the backward
//     direction must use gridBlock, not posInHalf.
//
// For even (north) ranks the two coincide (l0 itself), so the distinction
// is invisible there.
func distributedTransform(comm topo.Comm, basis *spectral.Basis, g *grid.Geometry, nS, nE int, isEven bool, y [][]complex128, transpose, weight bool) ([][]complex128, error) {
	nLoc := nE - nS + 1
	p := comm.P()
	if p < 2 {
		return nil, chk.Err("theta: distributed transform called with P=%d; use the single-rank path", p)
	}
	halfRanks := p / 2
	l0 := (nS - 1) / nLoc
	posInHalf := l0
	gridBlock := l0
	if !isEven {
		posInHalf = l0 - halfRanks
		gridBlock = halfRanks - 1 - posInHalf
	}
	parity := 0
	if !isEven {
		parity = 1
	}
	full := basis.Matrix[parity]

	// Forward: this rank's physical south window holds canonical row block
	// gridBlock in reverse local order (local position ascending maps to
	// canonical row descending), and its B-matrix weight comes from the
	// matching canonical (north-indexed) vol_th range.
	yIn := y
	packNS := nS
	if !isEven && transpose {
		yIn = reverseRows(y)
		packNS = gridBlock*nLoc + 1
	}

	x := pack(yIn, packNS, g, weight)
	_, cols := x.Dims()

	slabs := make([][]float64, halfRanks)
	for l := 0; l < halfRanks; l++ {
		var part *mat.Dense
		if transpose {
			// rows = this rank's own canonical range (gridBlock), cols =
			// target mode block l's range.
			part = blockMul(full, gridBlock*nLoc, l*nLoc, nLoc, nLoc, x, true)
		} else {
			// rows = target canonical grid block (mirrored for odd, since
			// reduceHalving hands the fully-summed slab back to the rank at
			// posInHalf, and that slab must land on gridBlock), cols = this
			// rank's own mode range (posInHalf).
			targetBlock := l
			if !isEven {
				targetBlock = halfRanks - 1 - l
			}
			part = blockMul(full, targetBlock*nLoc, posInHalf*nLoc, nLoc, nLoc, x, false)
		}
		slabs[l] = denseToFlat(part)
	}

	final, err := reduceHalving(comm, isEven, posInHalf, halfRanks, slabs)
	if err != nil {
		return nil, err
	}
	result := unpack(flatToDense(final, nLoc, cols))
	if !isEven && !transpose {
		result = reverseRows(result)
	}
	return result, nil
}

// reverseRows reverses the outer (row) ordering of a field slab, used to
// convert between an odd-parity rank's physical south ordering and the
// canonical (north-indexed) row ordering the eigenbasis is stored in.
func reverseRows(rows [][]complex128) [][]complex128 {
	n := len(rows)
	out := make([][]complex128, n)
	for i, row := range rows {
		out[n-1-i] = row
	}
	return out
}

// ForwardSingleRank is ForwardDistributed's single-θ-rank special case
// (P == 1): both parity halves live on this rank (spec.md §4.5's
// single-rank branch already hands them over as two separate m-long
// arrays), so the transform is a pair of ordinary dense MVMs with no
// cross-rank exchange.
func ForwardSingleRank(basis *spectral.Basis, g *grid.Geometry, even, odd [][]complex128) (yEven, yOdd [][]complex128, err error) {
	m := g.Ntheta / 2
	xEven := pack(even, 1, g, true)
	// odd[r] is already indexed by the canonical north row r=0..m-1 (see
	// SplitSingleRank), so its weight comes from the same vol_th[1..m]
	// range as even, not the south-physical range m+1..Ntheta.
	xOdd := pack(odd, 1, g, true)
	yEvenM := blockMul(basis.Matrix[0], 0, 0, m, m, xEven, true)
	yOddM := blockMul(basis.Matrix[1], 0, 0, m, m, xOdd, true)
	return unpack(yEvenM), unpack(yOddM), nil
}

// BackwardSingleRank is ForwardSingleRank's inverse: plain multiplication,
// no weight scaling.
func BackwardSingleRank(basis *spectral.Basis, coeffEven, coeffOdd [][]complex128) (even, odd [][]complex128, err error) {
	m := len(coeffEven)
	xEven := pack(coeffEven, 1, nil, false)
	xOdd := pack(coeffOdd, 1, nil, false)
	yEvenM := blockMul(basis.Matrix[0], 0, 0, m, m, xEven, false)
	yOddM := blockMul(basis.Matrix[1], 0, 0, m, m, xOdd, false)
	return unpack(yEvenM), unpack(yOddM), nil
}
