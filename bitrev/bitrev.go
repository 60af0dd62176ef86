// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package bitrev precomputes the bit-reversal permutation used by the
// distributed FFT (C2) to align butterfly input/output and to label the
// spectral eigenvalue owning each local φ-wavenumber slot.
package bitrev

import "github.com/cpmech/gosl/chk"

// Table is the bit-reversal permutation of [0, n) for n a power of two.
// Table[i] reverses the log2(n)-bit binary representation of i. Table is an
// involution: Table[Table[i]] == i (I1).
type Table struct {
	N     int
	Index []int
}

// New builds the bit-reversal table for n (must be a power of two).
func New(n int) (*Table, error) {
	if n <= 0 || n&(n-1) != 0 {
		return nil, chk.Err("bitrev: n must be a power of two; got %d", n)
	}
	bits := 0
	for 1<<uint(bits) < n {
		bits++
	}
	t := &Table{N: n, Index: make([]int, n)}
	for i := 0; i < n; i++ {
		t.Index[i] = reverseBits(i, bits)
	}
	return t, nil
}

func reverseBits(i, bits int) int {
	r := 0
	for b := 0; b < bits; b++ {
		r <<= 1
		r |= i & 1
		i >>= 1
	}
	return r
}
