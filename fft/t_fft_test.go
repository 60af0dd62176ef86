// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fft

import (
	"testing"

	"github.com/bjmueller/poisson/topo"
	"github.com/cpmech/gosl/chk"
)

// Test_fft01 is scenario 5's single-rank impulse response: the forward
// transform of a unit impulse at φ-index 0 is constant (all-ones) in
// bit-reversed output order, and the inverse recovers the impulse (I3).
func Test_fft01(tst *testing.T) {

	chk.PrintTitle("fft01. Nphi=8 impulse round-trip, single rank")

	comm, err := topo.NewGrid(1, 1, 0, 0)
	if err != nil {
		tst.Errorf("NewGrid failed: %v", err)
		return
	}
	plan, err := NewPlan(comm, 1, 8, 8)
	if err != nil {
		tst.Errorf("NewPlan failed: %v", err)
		return
	}

	row := make([]complex128, 8)
	row[0] = 1
	rows := [][]complex128{row}

	if err := plan.Forward(rows); err != nil {
		tst.Errorf("Forward failed: %v", err)
		return
	}
	for i, v := range rows[0] {
		re, im := real(v), imag(v)
		if re < 1-1e-9 || re > 1+1e-9 || im < -1e-9 || im > 1e-9 {
			tst.Errorf("forward[%d] = %v, want 1+0i", i, v)
		}
	}

	if err := plan.Inverse(rows); err != nil {
		tst.Errorf("Inverse failed: %v", err)
		return
	}
	for i, v := range rows[0] {
		want := 0.0
		if i == 0 {
			want = 1.0
		}
		re, im := real(v), imag(v)
		if re < want-1e-9 || re > want+1e-9 || im < -1e-9 || im > 1e-9 {
			tst.Errorf("inverse[%d] = %v, want %g+0i", i, v, want)
		}
	}
}

// Test_fft02 checks the forward/inverse round-trip for a 4-rank process
// grid (P=2,Q=2) using topo.Loopback, exercising the cross-rank butterfly
// branch that a single-rank test cannot reach (spec.md §8 scenario 3's
// process layout, applied to the FFT stage in isolation).
func Test_fft02(tst *testing.T) {

	chk.PrintTitle("fft02. Nphi=8 round-trip across a 2x2 process grid")

	const nphi = 8
	set := topo.NewLoopbackSet(2, 2)
	oLoc := nphi / 2 // q=2 blocks along phi

	input := []complex128{1, 2, 3, 4, 5, 6, 7, 8}

	results := make([][]complex128, len(set))
	errs := make([]error, len(set))
	done := make(chan int, len(set))
	for idx, comm := range set {
		idx, comm := idx, comm
		go func() {
			oS := comm.PhiCoord()*oLoc + 1
			oE := oS + oLoc - 1
			plan, err := NewPlan(comm, oS, oE, nphi)
			if err != nil {
				errs[idx] = err
				done <- idx
				return
			}
			row := append([]complex128(nil), input[oS-1:oE]...)
			rows := [][]complex128{row}
			if err := plan.Forward(rows); err != nil {
				errs[idx] = err
				done <- idx
				return
			}
			if err := plan.Inverse(rows); err != nil {
				errs[idx] = err
				done <- idx
				return
			}
			results[idx] = rows[0]
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
		oS := comm.PhiCoord()*oLoc + 1
		for pos, v := range results[idx] {
			want := input[oS-1+pos]
			if re, im := real(v), imag(v); re < want-1e-9 || re > want+1e-9 || im < -1e-9 || im > 1e-9 {
				tst.Errorf("rank %d pos %d = %v, want %g+0i", idx, pos, v, want)
			}
		}
	}
}
