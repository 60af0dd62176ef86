// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package theta

import (
	"math"

	"github.com/bjmueller/poisson/grid"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// SolveMode runs the per-(θ-mode, φ-mode) symmetric-positive-definite
// tridiagonal solve (spec.md §4.6, "Tridiagonal solve"): it perturbs the
// replicated radial operator by the angular eigenvalue lambda, applies the
// outer-boundary falloff correction, and solves for the real and
// imaginary parts of the radial coefficient vector in one call.
//
// y holds the Nr complex source values for this mode, already reduced
// across ranks by the caller but not yet negated or scaled: SolveMode
// itself builds the right-hand side src[i,c] = -y[j,...]*dv_r[i].
func SolveMode(op *grid.RadialOperator, g *grid.Geometry, lambda float64, y []complex128) ([]complex128, error) {
	nr := g.Nr
	if lambda > 0.25 {
		return nil, chk.Err("theta: eigenvalue %g exceeds the supported outer-boundary range (lambda<=0.25)", lambda)
	}
	diag1 := make([]float64, nr+1)
	grid.DiagUpdate(diag1, op, g, lambda)
	diag := append([]float64(nil), diag1[1:]...)
	offdiag := append([]float64(nil), op.Offdiag0[1:nr]...)

	s := math.Sqrt(1 - 4*lambda)
	rN := g.RIf[nr]
	diag[nr-1] += g.DaR[nr] * (1 + s) / (2 * rN) * math.Pow(g.R[nr]/rN, s)

	tri := mat.NewTridiag(nr, offdiag, diag, offdiag)

	b := mat.NewDense(nr, 2, nil)
	for i := 1; i <= nr; i++ {
		b.Set(i-1, 0, -real(y[i-1])*g.DvR[i])
		b.Set(i-1, 1, -imag(y[i-1])*g.DvR[i])
	}

	var dst mat.Dense
	if err := tri.SolveTo(&dst, false, b); err != nil {
		return nil, chk.Err("theta: tridiagonal solve failed for lambda=%g: %v (diag=%v offdiag=%v)", lambda, err, diag, offdiag)
	}

	out := make([]complex128, nr)
	for i := 0; i < nr; i++ {
		out[i] = complex(dst.At(i, 0), dst.At(i, 1))
	}
	return out, nil
}
