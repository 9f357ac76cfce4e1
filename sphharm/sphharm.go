/*
 * sphharm.go, part of goace.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package sphharm

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/rmera/goace/legendre"
	"gonum.org/v1/gonum/spatial/r3"
)

// PoleTolerance is the value of sin(theta) under which a direction is
// considered to lie on the z axis. On the axis, phi is taken to be 0.
const PoleTolerance = 1e-14

const sqrt2 = 1.41421356237309504880

// Index returns the position of Y_l^m, -l<=m<=l in the flat, l-major
// slices used in this package.
func Index(l, m int) int {
	return m + l + l*l
}

// Size returns the number of (l,m) pairs with l<=L, -l<=m<=l.
func Size(L int) int {
	return (L + 1) * (L + 1)
}

// RXZS is the parametrization of a vector used to evaluate the harmonics:
// its length R, Z=cos(theta), X=sin(phi) and the sign S of cos(phi).
// Sin=sin(theta) and Cos=cos(phi) are kept too, as they can't be recovered
// accurately from Z close to the z axis, nor from X close to the y axis.
type RXZS struct {
	R   float64
	X   float64
	Z   float64
	S   float64
	Sin float64
	Cos float64
}

// cosphi returns cos(phi). A zero Cos is taken from X and S.
func (q RXZS) cosphi() float64 {
	if q.Cos != 0 {
		return q.Cos
	}
	return q.S * math.Sqrt(math.Max(0, 1-q.X*q.X))
}

// sintheta returns sin(theta). A zero Sin is taken from Z.
func (q RXZS) sintheta() float64 {
	if q.Sin > 0 {
		return q.Sin
	}
	return math.Sqrt(math.Max(0, 1-q.Z*q.Z))
}

// CartesianToRXZS returns the (r,x,z,s) parametrization of R.
// On the z axis (sin(theta) below PoleTolerance) the convention phi=0
// is used, i.e. X=0 and S=1. S is 1 for R.X==0.
// It returns an error for a zero or non-finite vector.
func CartesianToRXZS(R r3.Vec) (RXZS, error) {
	r := r3.Norm(R)
	if r == 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return RXZS{}, newError(ErrZeroVector, fmt.Sprintf("%v", R), "CartesianToRXZS")
	}
	z := math.Max(-1, math.Min(1, R.Z/r))
	rho := math.Hypot(R.X, R.Y)
	sin := math.Min(1, rho/r)
	if rho <= PoleTolerance*r {
		return RXZS{R: r, X: 0, Z: z, S: 1, Sin: sin, Cos: 1}, nil
	}
	x := math.Max(-1, math.Min(1, R.Y/rho))
	cos := math.Max(-1, math.Min(1, R.X/rho))
	s := 1.0
	if R.X < 0 {
		s = -1
	}
	return RXZS{R: r, X: x, Z: z, S: s, Sin: sin, Cos: cos}, nil
}

// ComplexYlm puts in Y the complex spherical harmonics Y_l^m for l<=L, in the
// order given by Index. P must contain the associated Legendre polynomials
// for x=q.Z, sin(theta)=q.Sin up to degree L. All harmonics carry a common factor 1/sqrt(2) with respect to the
// orthonormal ones.
func ComplexYlm(Y []complex128, L int, q RXZS, P []float64) error {
	if L < 0 {
		return newError(ErrDegree, fmt.Sprintf("L=%d", L), "ComplexYlm")
	}
	if len(Y) < Size(L) || len(P) < legendre.Size(L) {
		return newError(ErrBufferSize, fmt.Sprintf("len(Y)=%d len(P)=%d for L=%d", len(Y), len(P), L), "ComplexYlm")
	}
	for l := 0; l <= L; l++ {
		Y[Index(l, 0)] = complex(P[legendre.Index(l, 0)]/sqrt2, 0)
	}
	sig := 1.0
	ep := complex(1/sqrt2, 0)
	//exp(i phi), updated incrementally.
	ep1 := complex(q.cosphi(), q.X)
	for m := 1; m <= L; m++ {
		sig = -sig
		ep *= ep1
		em := complex(sig, 0) * cmplx.Conj(ep)
		for l := m; l <= L; l++ {
			p := complex(P[legendre.Index(l, m)], 0)
			Y[Index(l, -m)] = em * p
			Y[Index(l, m)] = ep * p
		}
	}
	return nil
}

// SHBasis evaluates the complex spherical harmonics up to a given
// degree. It only holds the recursion coefficients, which are
// never modified, so it is safe for concurrent use. The scratch space needed
// for evaluation is owned by Evaluators, obtained with NewEvaluator.
type SHBasis struct {
	maxL  int
	coeff *legendre.Coefficients
}

// NewSHBasis returns a basis for degrees up to maxL.
func NewSHBasis(maxL int) (*SHBasis, error) {
	coeff, err := legendre.NewCoefficients(maxL)
	if err != nil {
		return nil, newError(ErrDegree, err.Error(), "NewSHBasis")
	}
	return &SHBasis{maxL: maxL, coeff: coeff}, nil
}

// MaxL returns the maximum degree of the basis.
func (b *SHBasis) MaxL() int { return b.maxL }

// Len returns the number of harmonics in the basis.
func (b *SHBasis) Len() int { return Size(b.maxL) }

// Evaluate returns a new slice with the harmonics at R.
func (b *SHBasis) Evaluate(R r3.Vec) ([]complex128, error) {
	Y := make([]complex128, b.Len())
	if err := b.NewEvaluator().Evaluate(Y, R); err != nil {
		return nil, errDecorate(err, "SHBasis.Evaluate")
	}
	return Y, nil
}

// EvaluateGradient returns new slices with the harmonics at R and their
// gradients with respect to the components of R.
func (b *SHBasis) EvaluateGradient(R r3.Vec) ([]complex128, []CVec, error) {
	Y := make([]complex128, b.Len())
	dY := make([]CVec, b.Len())
	if err := b.NewEvaluator().EvaluateGradient(Y, dY, R); err != nil {
		return nil, nil, errDecorate(err, "SHBasis.EvaluateGradient")
	}
	return Y, dY, nil
}

// Evaluator holds the scratch buffers for the evaluation of an SHBasis.
// An Evaluator is not safe for concurrent use, each goroutine should have its own.
type Evaluator struct {
	b  *SHBasis
	P  []float64
	dP []float64
}

// NewEvaluator returns an Evaluator for the basis.
func (b *SHBasis) NewEvaluator() *Evaluator {
	return &Evaluator{
		b:  b,
		P:  make([]float64, legendre.Size(b.maxL)),
		dP: make([]float64, legendre.Size(b.maxL)),
	}
}

// Basis returns the basis the evaluator belongs to.
func (e *Evaluator) Basis() *SHBasis { return e.b }

// Evaluate puts in Y the harmonics at R.
func (e *Evaluator) Evaluate(Y []complex128, R r3.Vec) error {
	q, err := CartesianToRXZS(R)
	if err != nil {
		return errDecorate(err, "Evaluator.Evaluate")
	}
	if err := legendre.EvaluatePSin(e.b.maxL, q.Z, q.sintheta(), e.b.coeff, e.P); err != nil {
		return newError(ErrDegree, err.Error(), "Evaluator.Evaluate")
	}
	if err := ComplexYlm(Y, e.b.maxL, q, e.P); err != nil {
		return errDecorate(err, "Evaluator.Evaluate")
	}
	return nil
}

// EvaluateGradient puts in Y the harmonics at R, and in dY their gradients.
func (e *Evaluator) EvaluateGradient(Y []complex128, dY []CVec, R r3.Vec) error {
	q, err := CartesianToRXZS(R)
	if err != nil {
		return errDecorate(err, "Evaluator.EvaluateGradient")
	}
	if err := legendre.EvaluateDPSin(e.b.maxL, q.Z, q.sintheta(), e.b.coeff, e.P, e.dP); err != nil {
		return newError(ErrDegree, err.Error(), "Evaluator.EvaluateGradient")
	}
	if err := ComplexYlmD(Y, dY, e.b.maxL, q, e.P, e.dP); err != nil {
		return errDecorate(err, "Evaluator.EvaluateGradient")
	}
	return nil
}
