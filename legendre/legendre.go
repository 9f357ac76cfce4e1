/*
 * legendre.go, part of goace.
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

package legendre

import (
	"fmt"
	"math"
)

// Index returns the position of P_l^m, 0<=m<=l, in the flat, l-major
// arrays used by this package.
func Index(l, m int) int {
	return m + l*(l+1)/2
}

// Size returns the number of (l,m) pairs with l<=L, 0<=m<=l.
func Size(L int) int {
	return (L + 1) * (L + 2) / 2
}

// Coefficients holds the A and B coefficients of the three-term recurrence
// for normalized associated Legendre polynomials, up to degree L.
// They are indexed with Index. A Coefficients is never modified after
// construction, so it can be shared among goroutines.
type Coefficients struct {
	L int
	A []float64
	B []float64
}

// NewCoefficients computes the recursion coefficients up to maxDegree.
func NewCoefficients(maxDegree int) (*Coefficients, error) {
	if maxDegree < 0 {
		return nil, newError(ErrNegativeDegree, fmt.Sprintf("got %d", maxDegree), "NewCoefficients")
	}
	c := &Coefficients{
		L: maxDegree,
		A: make([]float64, Size(maxDegree)),
		B: make([]float64, Size(maxDegree)),
	}
	for l := 2; l <= maxDegree; l++ {
		ls := float64(l * l)
		lm1s := float64((l - 1) * (l - 1))
		for m := 0; m < l-1; m++ {
			ms := float64(m * m)
			c.A[Index(l, m)] = math.Sqrt((4*ls - 1) / (ls - ms))
			c.B[Index(l, m)] = -math.Sqrt((lm1s - ms) / (4*lm1s - 1))
		}
	}
	return c, nil
}

func checkArgs(L int, x float64, coeff *Coefficients, bufs ...[]float64) error {
	if L < 0 {
		return newError(ErrNegativeDegree, fmt.Sprintf("got %d", L), "checkArgs")
	}
	if math.IsNaN(x) || math.Abs(x) > 1 {
		return newError(ErrDomain, fmt.Sprintf("x=%g", x), "checkArgs")
	}
	if coeff == nil || coeff.L < L {
		return newError(ErrCoefficients, fmt.Sprintf("need degree %d", L), "checkArgs")
	}
	for _, b := range bufs {
		if len(b) < Size(L) {
			return newError(ErrBufferSize, fmt.Sprintf("%d < %d", len(b), Size(L)), "checkArgs")
		}
	}
	return nil
}

// sinTolerance bounds |x^2+sin^2-1| for a cos(theta), sin(theta) pair.
const sinTolerance = 1e-8

func checkSin(x, sintheta float64) error {
	if math.IsNaN(sintheta) || sintheta < 0 || sintheta > 1 || math.Abs(x*x+sintheta*sintheta-1) > sinTolerance {
		return newError(ErrDomain, fmt.Sprintf("x=%g sin=%g", x, sintheta), "checkSin")
	}
	return nil
}

const (
	sqrt3     = 1.7320508075688772935
	sqrt3div2 = -1.2247448713915890491 //-sqrt(3/2)
)

var p00 = math.Sqrt(1 / (4 * math.Pi))

// EvaluateP puts in P the normalized associated Legendre polynomials
// P_l^m(x) for 0<=l<=L, 0<=m<=l, where x=cos(theta). The Condon-Shortley
// phase is included. P must have at least Size(L) elements.
// Near x=±1, sin(theta) is poorly determined by x. Use EvaluatePSin when it is known.
func EvaluateP(L int, x float64, coeff *Coefficients, P []float64) error {
	if err := EvaluatePSin(L, x, math.Sqrt(math.Max(0, 1-x*x)), coeff, P); err != nil {
		return errDecorate(err, "EvaluateP")
	}
	return nil
}

// EvaluatePSin is like EvaluateP, but takes sintheta=sin(theta) as well as x=cos(theta).
// The two must be consistent, with sintheta>=0.
func EvaluatePSin(L int, x, sintheta float64, coeff *Coefficients, P []float64) error {
	if err := checkArgs(L, x, coeff, P); err != nil {
		return errDecorate(err, "EvaluatePSin")
	}
	if err := checkSin(x, sintheta); err != nil {
		return errDecorate(err, "EvaluatePSin")
	}
	//sintheta is zero at the poles, but it's only ever used as a factor.
	temp := p00
	P[Index(0, 0)] = temp
	if L == 0 {
		return nil
	}
	P[Index(1, 0)] = x * sqrt3 * temp
	temp = sqrt3div2 * sintheta * temp
	P[Index(1, 1)] = temp
	for l := 2; l <= L; l++ {
		for m := 0; m < l-1; m++ {
			i := Index(l, m)
			P[i] = coeff.A[i] * (x*P[Index(l-1, m)] + coeff.B[i]*P[Index(l-2, m)])
		}
		P[Index(l, l-1)] = x * math.Sqrt(float64(2*(l-1)+3)) * temp
		temp = -math.Sqrt(1.0+0.5/float64(l)) * sintheta * temp
		P[Index(l, l)] = temp
	}
	return nil
}

// EvaluateDP puts in P the polynomials computed by EvaluateP and in dP their derivatives
// with respect to theta (not x), where x=cos(theta). Both slices must have at least
// Size(L) elements.
func EvaluateDP(L int, x float64, coeff *Coefficients, P, dP []float64) error {
	if err := EvaluateDPSin(L, x, math.Sqrt(math.Max(0, 1-x*x)), coeff, P, dP); err != nil {
		return errDecorate(err, "EvaluateDP")
	}
	return nil
}

// EvaluateDPSin is like EvaluateDP, but takes sintheta=sin(theta) as well as x=cos(theta).
func EvaluateDPSin(L int, x, sintheta float64, coeff *Coefficients, P, dP []float64) error {
	if err := checkArgs(L, x, coeff, P, dP); err != nil {
		return errDecorate(err, "EvaluateDPSin")
	}
	if err := checkSin(x, sintheta); err != nil {
		return errDecorate(err, "EvaluateDPSin")
	}
	//d(cos)/dtheta=-sin, d(sin)/dtheta=cos=x
	temp := p00
	dtemp := 0.0
	P[Index(0, 0)] = temp
	dP[Index(0, 0)] = dtemp
	if L == 0 {
		return nil
	}
	P[Index(1, 0)] = x * sqrt3 * temp
	dP[Index(1, 0)] = -sintheta * sqrt3 * temp
	dtemp = sqrt3div2 * (x*temp + sintheta*dtemp)
	temp = sqrt3div2 * sintheta * temp
	P[Index(1, 1)] = temp
	dP[Index(1, 1)] = dtemp
	for l := 2; l <= L; l++ {
		for m := 0; m < l-1; m++ {
			i := Index(l, m)
			i1 := Index(l-1, m)
			i2 := Index(l-2, m)
			P[i] = coeff.A[i] * (x*P[i1] + coeff.B[i]*P[i2])
			dP[i] = coeff.A[i] * (-sintheta*P[i1] + x*dP[i1] + coeff.B[i]*dP[i2])
		}
		f := math.Sqrt(float64(2*(l-1) + 3))
		P[Index(l, l-1)] = x * f * temp
		dP[Index(l, l-1)] = f * (-sintheta*temp + x*dtemp)
		g := -math.Sqrt(1.0 + 0.5/float64(l))
		dtemp = g * (x*temp + sintheta*dtemp)
		temp = g * sintheta * temp
		P[Index(l, l)] = temp
		dP[Index(l, l)] = dtemp
	}
	return nil
}
