// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parity

import (
	"testing"

	"github.com/bjmueller/poisson/topo"
	"github.com/cpmech/gosl/chk"
)

func approxEqC(a, b complex128, tol float64) bool {
	dr := real(a) - real(b)
	di := imag(a) - imag(b)
	return dr > -tol && dr < tol && di > -tol && di < tol
}

// Test_parity01 is spec.md §8 scenario 4: splitting V=(1,2,3,4,4,3,2,1)
// yields even=(1,2,3,4) and odd=(0,0,0,0), and recombining reproduces V
// (I4, single-rank branch).
func Test_parity01(tst *testing.T) {

	chk.PrintTitle("parity01. Ntheta=8 single-rank split/recombine")

	v := []complex128{1, 2, 3, 4, 4, 3, 2, 1}
	even, odd, err := SplitSingleRank(8, v)
	if err != nil {
		tst.Errorf("SplitSingleRank failed: %v", err)
		return
	}
	wantEven := []complex128{1, 2, 3, 4}
	wantOdd := []complex128{0, 0, 0, 0}
	for i := range wantEven {
		if !approxEqC(even[i], wantEven[i], 1e-12) {
			tst.Errorf("even[%d] = %v, want %v", i, even[i], wantEven[i])
		}
		if !approxEqC(odd[i], wantOdd[i], 1e-12) {
			tst.Errorf("odd[%d] = %v, want %v", i, odd[i], wantOdd[i])
		}
	}

	back, err := RecombineSingleRank(8, even, odd)
	if err != nil {
		tst.Errorf("RecombineSingleRank failed: %v", err)
		return
	}
	for i := range v {
		if !approxEqC(back[i], v[i], 1e-12) {
			tst.Errorf("recombined[%d] = %v, want %v", i, back[i], v[i])
		}
	}
}

// Test_parity01b uses non-palindromic data (no P1-symmetric reflection, so
// the odd half is non-zero) to catch a mis-indexed mirror in
// SplitSingleRank/RecombineSingleRank that Test_parity01's all-even vector
// cannot: odd[r] must pair physical cell r against its true mirror
// Ntheta-1-r, not some other offset.
func Test_parity01b(tst *testing.T) {

	chk.PrintTitle("parity01b. Ntheta=8 single-rank split/recombine, non-symmetric data")

	v := []complex128{1, 2, 3, 4, 5, 6, 7, 8}
	even, odd, err := SplitSingleRank(8, v)
	if err != nil {
		tst.Errorf("SplitSingleRank failed: %v", err)
		return
	}
	// even[r] = 0.5*(v[r]+v[7-r]), odd[r] = 0.5*(v[r]-v[7-r]).
	wantEven := []complex128{4.5, 4.5, 4.5, 4.5}
	wantOdd := []complex128{-3.5, -2.5, -1.5, -0.5}
	for i := range wantEven {
		if !approxEqC(even[i], wantEven[i], 1e-12) {
			tst.Errorf("even[%d] = %v, want %v", i, even[i], wantEven[i])
		}
		if !approxEqC(odd[i], wantOdd[i], 1e-12) {
			tst.Errorf("odd[%d] = %v, want %v", i, odd[i], wantOdd[i])
		}
	}

	back, err := RecombineSingleRank(8, even, odd)
	if err != nil {
		tst.Errorf("RecombineSingleRank failed: %v", err)
		return
	}
	for i := range v {
		if !approxEqC(back[i], v[i], 1e-12) {
			tst.Errorf("recombined[%d] = %v, want %v", i, back[i], v[i])
		}
	}
}

// Test_parity02 checks the distributed (P=2) split/recombine round-trip on
// a 2-rank θ-partition using topo.Loopback: each rank owns half the θ-axis
// and exchanges with its mirror partner, exercising the general branch
// SplitSingleRank never reaches.
func Test_parity02(tst *testing.T) {

	chk.PrintTitle("parity02. Ntheta=8 distributed (P=2) split/recombine")

	const ntheta = 8
	v := []complex128{1, 2, 3, 4, 4, 3, 2, 1}
	set := topo.NewLoopbackSet(2, 1)
	nLoc := ntheta / 2

	results := make([][]complex128, len(set))
	halves := make([]Half, len(set))
	errs := make([]error, len(set))
	done := make(chan int, len(set))
	for idx, comm := range set {
		idx, comm := idx, comm
		go func() {
			nS := comm.ThetaCoord()*nLoc + 1
			nE := nS + nLoc - 1
			row := append([]complex128(nil), v[nS-1:nE]...)
			out, half, err := Split(comm, nS, nE, ntheta, [][]complex128{row})
			if err != nil {
				errs[idx] = err
				done <- idx
				return
			}
			back, err := Recombine(comm, nS, nE, ntheta, half, out)
			if err != nil {
				errs[idx] = err
				done <- idx
				return
			}
			halves[idx] = half
			results[idx] = back[0]
			done <- idx
		}()
	}
	for range set {
		<-done
	}
	for idx := range set {
		if errs[idx] != nil {
			tst.Errorf("rank %d: %v", idx, errs[idx])
		}
	}
	for idx, comm := range set {
		nS := comm.ThetaCoord()*nLoc + 1
		for pos, got := range results[idx] {
			want := v[nS-1+pos]
			if !approxEqC(got, want, 1e-9) {
				tst.Errorf("rank %d pos %d = %v, want %v", idx, pos, got, want)
			}
		}
	}
	if !halves[0].IsEven || halves[1].IsEven {
		tst.Errorf("expected rank 0 even, rank 1 odd; got %v, %v", halves[0].IsEven, halves[1].IsEven)
	}
}
