// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spectral

import (
	"math"

	"github.com/bjmueller/poisson/grid"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// solveParity builds the m-by-m generalized symmetric eigenproblem
// A_p*v = ω*B*v (spec.md §4.3 step 3, B = diag(vol_th[1..m])) for parity p
// (0 = even, 1 = odd), reduces it by congruence to a standard symmetric
// eigenproblem and solves it with gonum/mat.EigenSym. Eigenvalues come back
// ascending; eigenvectors are un-scaled to be B-orthonormal (I2).
func solveParity(g *grid.Geometry, b, c []float64, m, p int) (values []float64, vectors *mat.Dense, err error) {
	sqrtB := make([]float64, m+1)
	for j := 1; j <= m; j++ {
		sqrtB[j] = math.Sqrt(g.VolTh[j])
	}

	adash := mat.NewSymDense(m, nil)
	for j := 1; j <= m; j++ {
		diagVal := b[j]
		if j == m {
			if p == 0 {
				diagVal = b[m] + c[m]
			} else {
				diagVal = b[m] - c[m]
			}
		}
		adash.SetSym(j-1, j-1, diagVal/(sqrtB[j]*sqrtB[j]))
		if j < m {
			adash.SetSym(j-1, j, c[j]/(sqrtB[j]*sqrtB[j+1]))
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(adash, true); !ok {
		return nil, nil, chk.Err("spectral: generalized symmetric eigensolve did not converge")
	}
	values = eig.Values(nil)

	var w mat.Dense
	w.EigenvectorsSym(&eig)

	vectors = mat.NewDense(m, m, nil)
	for j := 0; j < m; j++ {
		for col := 0; col < m; col++ {
			vectors.Set(j, col, w.At(j, col)/sqrtB[j+1])
		}
	}
	return values, vectors, nil
}
