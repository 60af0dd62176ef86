// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package spectral builds, per local φ-wavenumber slot, the even/odd
// parity eigenbases of the discrete θ-Laplacian (C3). The generalized
// symmetric problem A_p*v = ω*B*v with diagonal B is reduced by congruence
// to a standard symmetric eigenproblem and solved with gonum/mat.EigenSym,
// the corpus's one ready dense symmetric eigensolver (backed by
// gonum/lapack/lapack64.Syev).
package spectral

import (
	"math"

	"github.com/bjmueller/poisson/bitrev"
	"github.com/bjmueller/poisson/grid"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// Basis holds the even/odd parity eigenbasis for one local φ-wavenumber
// slot: Lambda concatenates the m=Ntheta/2 even eigenvalues (positions
// 1..m) followed by the m odd eigenvalues (positions m+1..Ntheta). Matrix[0]
// and Matrix[1] are the corresponding m-by-m eigenvector bases (even, odd),
// columns ordered to match Lambda.
type Basis struct {
	Lambda []float64 // [1..Ntheta]
	Matrix [2]*mat.Dense
}

// maxLambda is the largest angular eigenvalue for which the outer-boundary
// exponent s = sqrt(1-4*lambda) (spec.md §4.6) stays real; see DESIGN.md's
// Open Question decision.
const maxLambda = 0.25

// Build solves the even/odd eigenproblems for every local φ-wavenumber slot
// kk in [oS, oE] (1-based, within [1, Nphi]) and returns one Basis per slot.
func Build(g *grid.Geometry, idx *bitrev.Table, oS, oE int) (map[int]*Basis, error) {
	m := g.Ntheta / 2
	bases := make(map[int]*Basis, oE-oS+1)
	for kk := oS; kk <= oE; kk++ {
		k := idx.Index[kk-1]
		lambdaPhi := angularEigenvalue(g, k)
		b, c := assembleTri(g, lambdaPhi)

		basis := &Basis{Lambda: make([]float64, g.Ntheta+1)}
		for p := 0; p < 2; p++ {
			values, vectors, err := solveParity(g, b, c, m, p)
			if err != nil {
				return nil, chk.Err("spectral: parity %d eigensolve failed for φ-slot %d (global k=%d): %v (diag=%v offdiag=%v)", p, kk, k, err, b[1:m+1], c[1:m+1])
			}
			for j := 0; j < m; j++ {
				if values[j] > maxLambda {
					return nil, chk.Err("spectral: eigenvalue %g exceeds the supported outer-boundary range (lambda<=%g) at φ-slot %d, θ-mode %d, parity %d", values[j], maxLambda, kk, j+1, p)
				}
			}
			basis.Matrix[p] = vectors
			if p == 0 {
				copy(basis.Lambda[1:m+1], values)
			} else {
				copy(basis.Lambda[m+1:g.Ntheta+1], values)
			}
		}
		bases[kk] = basis
	}
	return bases, nil
}

// angularEigenvalue computes λ_φ(k) = (2*sin(k*dφ/2)/dφ)^2 * dθ (spec.md
// §4.3 step 1).
func angularEigenvalue(g *grid.Geometry, k int) float64 {
	s := 2.0 * math.Sin(0.5*float64(k)*g.Dphi) / g.Dphi
	return s * s * g.Dtheta
}

// assembleTri builds the tridiagonal coefficients b, c of the discrete
// angular operator (spec.md §4.3 step 2): b is the main diagonal, c the
// off-diagonal linking row j to j+1 (solveParity's congruence reduction
// reuses c as both the sub- and super-diagonal, since the operator is
// symmetric and c[j] is the coupling shared by rows j and j+1). Both slices
// have length Ntheta+1 (index 0 unused).
func assembleTri(g *grid.Geometry, lambdaPhi float64) (b, c []float64) {
	n := g.Ntheta
	b = make([]float64, n+1)
	c = make([]float64, n+1)
	dt2 := g.Dtheta * g.Dtheta
	for j := 1; j <= n; j++ {
		sIfLo := math.Sin(g.ThetaIf[j-1])
		sIfHi := math.Sin(g.ThetaIf[j])
		c[j] = sIfHi / dt2
		b[j] = -(sIfLo+sIfHi)/dt2 - lambdaPhi/(math.Sin(g.Theta[j])*g.Dtheta)
	}
	return b, c
}
