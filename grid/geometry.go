// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package grid builds the geometry arrays and the constant part of the
// radial tridiagonal operator for the spherical-polar mesh. All arrays
// follow the specification's 1-based indexing: slices are allocated with
// one extra (unused) slot at index 0 so that array index matches the
// mathematical subscript directly.
package grid

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Geometry holds the cell volumes, face areas and angular grid derived from
// the radial interface coordinates and the (uniform) θ/φ spacing. It is
// immutable once built.
type Geometry struct {
	Nr, Ntheta, Nphi int
	Dtheta, Dphi     float64

	RIf []float64 // [0..Nr]   radial interface coordinates
	R   []float64 // [1..Nr]   cell centers
	DaR []float64 // [1..Nr]   r_if[i]^2
	DvR []float64 // [1..Nr]   (r_if[i]^3 - r_if[i-1]^3)/3

	ThetaIf []float64 // [0..Ntheta]
	Theta   []float64 // [1..Ntheta]
	VolTh   []float64 // [1..Ntheta]   (cos θ_if[j-1] - cos θ_if[j]) / dθ
}

// NewGeometry builds the geometry arrays. nr, ntheta and nphi are the zone
// counts; ntheta and nphi must be powers of two (I3/I5 of the invariants in
// spec.md §3). rIf must be monotone increasing with rIf[0] >= 0 and have
// length nr+1.
func NewGeometry(nr, ntheta, nphi int, rIf []float64) (o *Geometry, err error) {
	if !isPow2(ntheta) {
		return nil, chk.Err("ntheta must be a power of two; got %d", ntheta)
	}
	if !isPow2(nphi) {
		return nil, chk.Err("nphi must be a power of two; got %d", nphi)
	}
	if len(rIf) != nr+1 {
		return nil, chk.Err("len(rIf)=%d must equal nr+1=%d", len(rIf), nr+1)
	}
	if rIf[0] < 0 {
		return nil, chk.Err("rIf[0]=%g must be >= 0", rIf[0])
	}
	for i := 1; i <= nr; i++ {
		if rIf[i] <= rIf[i-1] {
			return nil, chk.Err("rIf must be strictly increasing; rIf[%d]=%g <= rIf[%d]=%g", i, rIf[i], i-1, rIf[i-1])
		}
	}

	o = new(Geometry)
	o.Nr, o.Ntheta, o.Nphi = nr, ntheta, nphi
	o.Dtheta = math.Pi / float64(ntheta)
	o.Dphi = 2.0 * math.Pi / float64(nphi)

	o.RIf = append([]float64{}, rIf...)
	o.R = make([]float64, nr+1)
	o.DaR = make([]float64, nr+1)
	o.DvR = make([]float64, nr+1)
	for i := 1; i <= nr; i++ {
		o.R[i] = 0.5 * (o.RIf[i] + o.RIf[i-1])
		o.DaR[i] = o.RIf[i] * o.RIf[i]
		o.DvR[i] = (cube(o.RIf[i]) - cube(o.RIf[i-1])) / 3.0
	}

	o.ThetaIf = make([]float64, ntheta+1)
	o.Theta = make([]float64, ntheta+1)
	o.VolTh = make([]float64, ntheta+1)
	for j := 0; j <= ntheta; j++ {
		o.ThetaIf[j] = float64(j) * o.Dtheta
	}
	for j := 1; j <= ntheta; j++ {
		o.Theta[j] = 0.5 * (o.ThetaIf[j] + o.ThetaIf[j-1])
		o.VolTh[j] = (math.Cos(o.ThetaIf[j-1]) - math.Cos(o.ThetaIf[j])) / o.Dtheta
	}
	return o, nil
}

func cube(x float64) float64 { return x * x * x }

func isPow2(n int) bool { return n > 0 && n&(n-1) == 0 }
