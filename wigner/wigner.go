/*
 * wigner.go, part of goace.
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

/*
Package wigner provides 3D rotations and reflections, and the matrices that represent them on the
spaces spanned by the spherical harmonics of a given degree (Wigner-D matrices).

The matrices are defined through the harmonics of package sphharm, as the D that satisfies
Y_{L,mu}(Q r) = sum_mu' D_{mu,mu'} Y_{L,mu'}(r) for every r. Thus they follow
exactly the phase conventions of the harmonics, and include the parity (-1)^L for reflections.
*/
package wigner

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rmera/goace/sphharm"
	v3 "github.com/rmera/goace/v3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Rz returns the matrix of a rotation by angle radians around the z axis.
func Rz(angle float64) *mat.Dense {
	c, s := math.Cos(angle), math.Sin(angle)
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1})
}

// Ry returns the matrix of a rotation by angle radians around the y axis.
func Ry(angle float64) *mat.Dense {
	c, s := math.Cos(angle), math.Sin(angle)
	return mat.NewDense(3, 3, []float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c})
}

// EulerZYZ returns the rotation Rz(alpha)Ry(beta)Rz(gamma)
func EulerZYZ(alpha, beta, gamma float64) *mat.Dense {
	var tmp mat.Dense
	tmp.Mul(Rz(alpha), Ry(beta))
	ret := mat.NewDense(3, 3, nil)
	ret.Mul(&tmp, Rz(gamma))
	return ret
}

// RandomRotation returns a proper rotation from random Euler angles.
// The distribution is uniform on SO(3).
func RandomRotation(rng *rand.Rand) *mat.Dense {
	alpha := 2 * math.Pi * rng.Float64()
	beta := math.Acos(2*rng.Float64() - 1)
	gamma := 2 * math.Pi * rng.Float64()
	return EulerZYZ(alpha, beta, gamma)
}

// RandomO3 returns a random rotation that, with probability 1/2, is
// composed with an inversion.
func RandomO3(rng *rand.Rand) *mat.Dense {
	Q := RandomRotation(rng)
	if rng.Intn(2) == 1 {
		Q.Scale(-1, Q)
	}
	return Q
}

// sampleDirs returns n unit vectors evenly spread on the sphere (a Fibonacci lattice).
func sampleDirs(n int) []r3.Vec {
	golden := math.Pi * (3 - math.Sqrt(5))
	ret := make([]r3.Vec, n)
	for i := range ret {
		z := 1 - (2*float64(i)+1)/float64(n)
		rho := math.Sqrt(1 - z*z)
		phi := golden * float64(i)
		ret[i] = r3.Vec{X: rho * math.Cos(phi), Y: rho * math.Sin(phi), Z: z}
	}
	return ret
}

func mulVec(Q mat.Matrix, v r3.Vec) r3.Vec {
	return r3.Vec{
		X: Q.At(0, 0)*v.X + Q.At(0, 1)*v.Y + Q.At(0, 2)*v.Z,
		Y: Q.At(1, 0)*v.X + Q.At(1, 1)*v.Y + Q.At(1, 2)*v.Z,
		Z: Q.At(2, 0)*v.X + Q.At(2, 1)*v.Y + Q.At(2, 2)*v.Z,
	}
}

// D returns the (2L+1)x(2L+1) matrix representing the orthogonal transformation Q
// on the harmonics of degree L. Rows and columns are ordered from mu=-L to mu=L.
// The matrix is obtained by a least-squares fit on a fixed set of directions.
func D(L int, Q mat.Matrix) (*mat.CDense, error) {
	if L < 0 {
		return nil, newError(ErrDegree, fmt.Sprintf("L=%d", L), "D")
	}
	if !v3.IsOrthogonal(Q, 1e-10) {
		return nil, newError(ErrNotOrthogonal, "", "D")
	}
	n := 2*L + 1
	sh, err := sphharm.NewSHBasis(L)
	if err != nil {
		return nil, newError(ErrDegree, err.Error(), "D")
	}
	ev := sh.NewEvaluator()
	Y := make([]complex128, sh.Len())
	dirs := sampleDirs(4 * n)
	K := len(dirs)
	//The complex system Yr X = YQ, with X = D^T, is solved as a real one of twice the size.
	a := mat.NewDense(2*K, 2*n, nil)
	b := mat.NewDense(2*K, n, nil)
	off := sphharm.Index(L, -L)
	for k, r := range dirs {
		if err := ev.Evaluate(Y, r); err != nil {
			return nil, newError(ErrSolve, err.Error(), "D")
		}
		for mu := 0; mu < n; mu++ {
			y := Y[off+mu]
			a.Set(k, mu, real(y))
			a.Set(k, n+mu, -imag(y))
			a.Set(K+k, mu, imag(y))
			a.Set(K+k, n+mu, real(y))
		}
		if err := ev.Evaluate(Y, mulVec(Q, r)); err != nil {
			return nil, newError(ErrSolve, err.Error(), "D")
		}
		for mu := 0; mu < n; mu++ {
			b.Set(k, mu, real(Y[off+mu]))
			b.Set(K+k, mu, imag(Y[off+mu]))
		}
	}
	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		return nil, newError(ErrSolve, err.Error(), "D")
	}
	ret := mat.NewCDense(n, n, nil)
	for mu := 0; mu < n; mu++ {
		for mup := 0; mup < n; mup++ {
			//D[mu][mu'] = X[mu'][mu]
			ret.Set(mu, mup, complex(x.At(mup, mu), x.At(n+mup, mu)))
		}
	}
	return ret, nil
}

// Apply returns D·v
func Apply(D *mat.CDense, v []complex128) []complex128 {
	r, c := D.Dims()
	if c != len(v) {
		panic(fmt.Sprintf("goACE/wigner: can't apply a %dx%d matrix to a vector of length %d", r, c, len(v)))
	}
	ret := make([]complex128, r)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			ret[i] += D.At(i, j) * v[j]
		}
	}
	return ret
}
