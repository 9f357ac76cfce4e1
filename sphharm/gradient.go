/*
 * gradient.go, part of goace.
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
	"math/cmplx"

	"github.com/rmera/goace/legendre"
	"gonum.org/v1/gonum/spatial/r3"
)

// CVec is a vector in 3D space with complex components, used for the
// gradients of complex functions of real coordinates.
type CVec [3]complex128

// Scale returns f*v
func (v CVec) Scale(f complex128) CVec {
	return CVec{f * v[0], f * v[1], f * v[2]}
}

// Add returns v+w
func (v CVec) Add(w CVec) CVec {
	return CVec{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Conj returns the complex conjugate of v
func (v CVec) Conj() CVec {
	return CVec{cmplx.Conj(v[0]), cmplx.Conj(v[1]), cmplx.Conj(v[2])}
}

// Real returns the real part of v.
func (v CVec) Real() r3.Vec {
	return r3.Vec{X: real(v[0]), Y: real(v[1]), Z: real(v[2])}
}

func fromReal(v r3.Vec) CVec {
	return CVec{complex(v.X, 0), complex(v.Y, 0), complex(v.Z, 0)}
}

// sinTolerance is the sin(theta) below which P_l^m/sin(theta) is replaced by its limit.
const sinTolerance = 1e-10

// ComplexYlmD puts in Y the harmonics, and in dY their gradients with respect
// to the cartesian components of the vector parametrized by q.
// P and dP must contain the Legendre polynomials at x=q.Z and their derivatives with
// respect to theta.
//
// The gradient is (1/r)(dY/dtheta e_theta + (1/sin(theta)) dY/dphi e_phi), with
// dY/dphi = i m Y. On the z axis, P_l^m/sin(theta) is replaced by its limit, which is
// z*dP_l^1/dtheta for m=1 and zero for m>1, so the gradient is defined everywhere but at the origin.
func ComplexYlmD(Y []complex128, dY []CVec, L int, q RXZS, P, dP []float64) error {
	if len(dY) < Size(L) || len(dP) < legendre.Size(L) {
		return newError(ErrBufferSize, fmt.Sprintf("len(dY)=%d len(dP)=%d for L=%d", len(dY), len(dP), L), "ComplexYlmD")
	}
	if err := ComplexYlm(Y, L, q, P); err != nil {
		return errDecorate(err, "ComplexYlmD")
	}
	sint := q.sintheta()
	cosp := q.cosphi()
	sinp := q.X
	etheta := r3.Vec{X: q.Z * cosp, Y: q.Z * sinp, Z: -sint}
	ephi := r3.Vec{X: -sinp, Y: cosp, Z: 0}
	ct := fromReal(r3.Scale(1/q.R, etheta))
	cp := fromReal(r3.Scale(1/q.R, ephi))
	pOverSin := func(l, m int) float64 {
		if sint > sinTolerance {
			return P[legendre.Index(l, m)] / sint
		}
		if m == 1 {
			return q.Z * dP[legendre.Index(l, 1)]
		}
		return 0
	}
	for l := 0; l <= L; l++ {
		dY[Index(l, 0)] = ct.Scale(complex(dP[legendre.Index(l, 0)]/sqrt2, 0))
	}
	sig := 1.0
	ep := complex(1/sqrt2, 0)
	ep1 := complex(cosp, sinp)
	for m := 1; m <= L; m++ {
		sig = -sig
		ep *= ep1
		for l := m; l <= L; l++ {
			dtheta := ct.Scale(ep * complex(dP[legendre.Index(l, m)], 0))
			dphi := cp.Scale(complex(0, float64(m)) * ep * complex(pOverSin(l, m), 0))
			g := dtheta.Add(dphi)
			dY[Index(l, m)] = g
			dY[Index(l, -m)] = g.Conj().Scale(complex(sig, 0))
		}
	}
	return nil
}
