// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package theta

import "github.com/bjmueller/poisson/topo"

// reduceHalving implements spec.md §4.6 step 3: the cross-rank
// recursive-halving reduction that folds halfRanks local partial "slab
// rows" (one per θ-mode block owned by a same-parity rank) down to the
// single slab row owned by this rank, in log2(halfRanks) pair-wise
// exchanges.
//
// slabs holds halfRanks entries, one per target block l = 0..halfRanks-1;
// slabs[l] is this rank's own partial contribution toward block l, each a
// flat []float64 of the same length. isEven and lHalf identify this
// rank's parity half and its 0-based position within that half
// (spec.md's l_0, renumbered 0..halfRanks-1 within the half). It returns
// the single, fully-reduced slab owned by this rank (spec.md: "the final
// result resides in y[:,:,:,0]").
func reduceHalving(comm topo.Comm, isEven bool, lHalf, halfRanks int, slabs [][]float64) ([]float64, error) {
	if halfRanks == 1 {
		return slabs[0], nil
	}
	size := halfRanks
	myPos := lHalf
	inc := 1
	for size > 1 {
		groupIdx := myPos // lHalf/inc: myPos is halved as inc doubles
		isLower := groupIdx%2 == 0

		l0 := lHalf
		if !isEven {
			l0 += halfRanks
		}
		partnerL0 := l0 ^ inc
		partner := comm.ThetaPartner(partnerL0)

		half2 := size / 2
		vecLen := len(slabs[0])
		sendBuf := make([]float64, half2*vecLen)
		for l := 0; l < half2; l++ {
			var src []float64
			if isLower {
				src = slabs[2*l+1] // ship odd-indexed slab rows
			} else {
				src = slabs[2*l] // ship even-indexed slab rows
			}
			copy(sendBuf[l*vecLen:(l+1)*vecLen], src)
		}
		recvBuf := make([]float64, half2*vecLen)
		comm.SendRecvFloat(partner, sendBuf, recvBuf, isLower)

		next := make([][]float64, half2)
		for l := 0; l < half2; l++ {
			var keep []float64
			if isLower {
				keep = slabs[2*l]
			} else {
				keep = slabs[2*l+1]
			}
			recv := recvBuf[l*vecLen : (l+1)*vecLen]
			combined := make([]float64, vecLen)
			for i := range combined {
				combined[i] = keep[i] + recv[i]
			}
			next[l] = combined
		}
		slabs = next
		myPos /= 2
		size = half2
		inc *= 2
	}
	return slabs[0], nil
}
