// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements manufactured axisymmetric solutions used to check
// solve accuracy against a closed form (I5, spec.md §8 scenario 6), the same
// Init-then-evaluate shape gofem's own ana package uses for its elasticity
// solutions (ana/pressurised_cylinder.go, ana/plate_hole.go).
package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Harmonic is a manufactured pair (Φ*, ρ*) built from a single axisymmetric
// spherical harmonic degree L: Φ*(r,θ) = Coef·r^L·P_L(cosθ), paired with the
// closed-form ρ* given by Rho. Φ* is a pure growing power law; the solver's
// outer-boundary correction (theta.SolveMode) imposes the decaying
// r^(-(1+s)/2) branch instead, and ∇²Φ* is zero, not Rho.
type Harmonic struct {
	L    int
	Coef float64
}

// NewHarmonic initialises a degree-L manufactured pair (mirrors PressCylin's
// Init pattern: fields fixed at construction, evaluation methods pure).
func NewHarmonic(l int, coef float64) (*Harmonic, error) {
	if l < 0 {
		return nil, chk.Err("ana: degree L=%d must be >= 0", l)
	}
	return &Harmonic{L: l, Coef: coef}, nil
}

// Phi evaluates Φ*(r,θ) = Coef·r^L·P_L(cosθ).
func (o *Harmonic) Phi(r, theta float64) float64 {
	return o.Coef * math.Pow(r, float64(o.L)) * legendreP(o.L, math.Cos(theta))
}

// Rho evaluates ρ* = Coef·2·L·(L+1)/r^2 · r^L·P_L(cosθ). For L=2, Coef=1
// this gives 12·P₂(cosθ), not scenario 6's 6·P₂(cosθ), so Scenario6 below
// is a literal fixture rather than a value derived from this formula.
func (o *Harmonic) Rho(r, theta float64) float64 {
	ll1 := float64(o.L * (o.L + 1))
	return o.Coef * 2 * ll1 * math.Pow(r, float64(o.L)-2) * legendreP(o.L, math.Cos(theta))
}

// Scenario6 is the literal manufactured pair from spec.md §8 scenario 6:
// Φ* = r²·P₂(cosθ), ρ* = 6·P₂(cosθ).
type Scenario6 struct{}

// Phi evaluates Φ*(r,θ) = r²·P₂(cosθ).
func (Scenario6) Phi(r, theta float64) float64 {
	return r * r * legendreP(2, math.Cos(theta))
}

// Rho evaluates ρ*(θ) = 6·P₂(cosθ).
func (Scenario6) Rho(_ float64, theta float64) float64 {
	return 6 * legendreP(2, math.Cos(theta))
}

// Scenario1 is an odd-degree (L=1) manufactured pair built the same way as
// Scenario6 (Rho* = L(L+1)·P_L(cosθ), Phi* = r^L·P_L(cosθ)): it exercises
// the odd-parity branch of the θ-transform end-to-end (spec.md §4.3's odd
// eigenproblem), which Scenario6's purely even P2 harmonic never reaches.
type Scenario1 struct{}

// Phi evaluates Φ*(r,θ) = r·P1(cosθ) = r·cosθ.
func (Scenario1) Phi(r, theta float64) float64 {
	return r * legendreP(1, math.Cos(theta))
}

// Rho evaluates ρ*(θ) = 2·P1(cosθ) = 2·cosθ.
func (Scenario1) Rho(_ float64, theta float64) float64 {
	return 2 * legendreP(1, math.Cos(theta))
}

// legendreP evaluates the degree-l Legendre polynomial at x via the standard
// three-term recurrence (l+1)P_{l+1}(x) = (2l+1)x·P_l(x) - l·P_{l-1}(x); no
// library in the retrieval pack exposes Legendre polynomials (gonum's
// mathext only carries elliptic/hypergeometric functions), so this is a
// direct stdlib implementation.
func legendreP(l int, x float64) float64 {
	if l == 0 {
		return 1
	}
	if l == 1 {
		return x
	}
	pPrev, pCur := 1.0, x
	for n := 1; n < l; n++ {
		pNext := (float64(2*n+1)*x*pCur - float64(n)*pPrev) / float64(n+1)
		pPrev, pCur = pCur, pNext
	}
	return pCur
}
