/*
 * sphharm_test.go, part of goace.
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

package sphharm

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func randVec(rng *rand.Rand) r3.Vec {
	return r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
}

// plain Legendre polynomial P_l(t), by Bonnet's recursion
func legendreP(l int, t float64) float64 {
	p0, p1 := 1.0, t
	if l == 0 {
		return p0
	}
	for n := 1; n < l; n++ {
		p0, p1 = p1, (float64(2*n+1)*t*p1-float64(n)*p0)/float64(n+1)
	}
	return p1
}

func TestIndexBijection(Te *testing.T) {
	for L := 0; L <= 10; L++ {
		seen := make([]bool, Size(L))
		for l := 0; l <= L; l++ {
			for m := -l; m <= l; m++ {
				i := Index(l, m)
				require.True(Te, i >= 0 && i < Size(L))
				require.False(Te, seen[i])
				seen[i] = true
			}
		}
	}
}

func TestRXZS(Te *testing.T) {
	q, err := CartesianToRXZS(r3.Vec{X: 0, Y: 0, Z: 2})
	require.NoError(Te, err)
	assert.Equal(Te, RXZS{R: 2, X: 0, Z: 1, S: 1, Sin: 0, Cos: 1}, q)
	q, err = CartesianToRXZS(r3.Vec{X: 0, Y: 0, Z: -0.5})
	require.NoError(Te, err)
	assert.Equal(Te, -1.0, q.Z)
	assert.Equal(Te, 0.0, q.X)
	q, err = CartesianToRXZS(r3.Vec{X: -1, Y: 1, Z: 0})
	require.NoError(Te, err)
	assert.InDelta(Te, math.Sqrt2, q.R, 1e-15)
	assert.InDelta(Te, 1/math.Sqrt2, q.X, 1e-15)
	assert.Equal(Te, -1.0, q.S)
	assert.InDelta(Te, -1/math.Sqrt2, q.cosphi(), 1e-15)
	_, err = CartesianToRXZS(r3.Vec{})
	assert.True(Te, errors.Is(err, ErrZeroVector))
	_, err = CartesianToRXZS(r3.Vec{X: math.NaN()})
	assert.True(Te, errors.Is(err, ErrZeroVector))
}

func TestClosedForms(Te *testing.T) {
	b, err := NewSHBasis(1)
	require.NoError(Te, err)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 10; i++ {
		R := randVec(rng)
		Y, err := b.Evaluate(R)
		require.NoError(Te, err)
		r := r3.Norm(R)
		ct := R.Z / r
		eiphi := complex(R.X, R.Y) / complex(math.Hypot(R.X, R.Y), 0)
		st := math.Sqrt(1 - ct*ct)
		assert.InDelta(Te, 1/math.Sqrt(8*math.Pi), real(Y[Index(0, 0)]), 1e-14)
		assert.InDelta(Te, math.Sqrt(3/(8*math.Pi))*ct, real(Y[Index(1, 0)]), 1e-14)
		y11 := complex(-math.Sqrt(3/(16*math.Pi))*st, 0) * eiphi
		assert.InDelta(Te, 0, cmplx.Abs(y11-Y[Index(1, 1)]), 1e-14)
		assert.InDelta(Te, 0, cmplx.Abs(-cmplx.Conj(y11)-Y[Index(1, -1)]), 1e-14)
	}
}

// Close to the z axis, Y_1^1 is proportional to (x+iy)/r, which must keep
// its relative accuracy.
func TestNearPole(Te *testing.T) {
	b, err := NewSHBasis(3)
	require.NoError(Te, err)
	ev := b.NewEvaluator()
	Y := make([]complex128, b.Len())
	for _, eps := range []float64{1e-5, 1e-7, 1e-9, 1e-12} {
		for _, R := range []r3.Vec{{X: eps, Y: 0, Z: 1}, {X: -eps, Y: 2 * eps, Z: -1.5}, {X: 0, Y: eps, Z: 0.7}} {
			require.NoError(Te, ev.Evaluate(Y, R))
			r := r3.Norm(R)
			y11 := complex(-math.Sqrt(3/(8*math.Pi))/math.Sqrt2/r, 0) * complex(R.X, R.Y)
			assert.InDelta(Te, 0, cmplx.Abs(y11-Y[Index(1, 1)])/cmplx.Abs(y11), 1e-12, "eps=%g R=%v", eps, R)
			assert.InDelta(Te, 0, cmplx.Abs(-cmplx.Conj(y11)-Y[Index(1, -1)])/cmplx.Abs(y11), 1e-12, "eps=%g R=%v", eps, R)
		}
	}
	//Close to the y axis, cos(phi) must not be lost either.
	R := r3.Vec{X: 1e-9, Y: 1, Z: 0.2}
	require.NoError(Te, ev.Evaluate(Y, R))
	y11 := complex(-math.Sqrt(3/(8*math.Pi))/math.Sqrt2/r3.Norm(R), 0) * complex(R.X, R.Y)
	assert.InDelta(Te, 0, math.Abs(real(y11)-real(Y[Index(1, 1)]))/math.Abs(real(y11)), 1e-10)
}

func TestAdditionTheorem(Te *testing.T) {
	const L = 12
	b, err := NewSHBasis(L)
	require.NoError(Te, err)
	ev := b.NewEvaluator()
	Y1 := make([]complex128, b.Len())
	Y2 := make([]complex128, b.Len())
	rng := rand.New(rand.NewSource(4))
	for trial := 0; trial < 20; trial++ {
		R1 := randVec(rng)
		R2 := randVec(rng)
		require.NoError(Te, ev.Evaluate(Y1, R1))
		require.NoError(Te, ev.Evaluate(Y2, R2))
		cosg := r3.Cos(R1, R2)
		for l := 0; l <= L; l++ {
			var sq float64
			var cross complex128
			for m := -l; m <= l; m++ {
				y := Y1[Index(l, m)]
				sq += real(y * cmplx.Conj(y))
				cross += y * cmplx.Conj(Y2[Index(l, m)])
			}
			norm := float64(2*l+1) / (8 * math.Pi)
			assert.InDelta(Te, norm, sq, 1e-10, "l=%d", l)
			assert.InDelta(Te, norm*legendreP(l, cosg), real(cross), 1e-10, "l=%d", l)
			assert.InDelta(Te, 0, imag(cross), 1e-10, "l=%d", l)
		}
		for l := 0; l <= L; l++ {
			for m := 1; m <= l; m++ {
				sig := complex(math.Pow(-1, float64(m)), 0)
				assert.InDelta(Te, 0, cmplx.Abs(Y1[Index(l, -m)]-sig*cmplx.Conj(Y1[Index(l, m)])), 1e-14)
			}
		}
	}
}

func checkGradient(Te *testing.T, b *SHBasis, R r3.Vec) {
	const h = 1e-6
	_, dY, err := b.EvaluateGradient(R)
	require.NoError(Te, err)
	units := []r3.Vec{{X: 1}, {Y: 1}, {Z: 1}}
	for k, u := range units {
		Yp, err := b.Evaluate(r3.Add(R, r3.Scale(h, u)))
		require.NoError(Te, err)
		Ym, err := b.Evaluate(r3.Sub(R, r3.Scale(h, u)))
		require.NoError(Te, err)
		for i := range Yp {
			fd := (Yp[i] - Ym[i]) / complex(2*h, 0)
			assert.InDelta(Te, 0, cmplx.Abs(fd-dY[i][k]), 1e-6, "component %d index %d at %v", k, i, R)
		}
	}
}

func TestGradient(Te *testing.T) {
	b, err := NewSHBasis(7)
	require.NoError(Te, err)
	rng := rand.New(rand.NewSource(5))
	for trial := 0; trial < 15; trial++ {
		R := r3.Scale(0.5+rng.Float64(), r3.Unit(randVec(rng)))
		checkGradient(Te, b, R)
	}
	//On and near the poles.
	checkGradient(Te, b, r3.Vec{X: 0, Y: 0, Z: 1.3})
	checkGradient(Te, b, r3.Vec{X: 0, Y: 0, Z: -0.8})
	checkGradient(Te, b, r3.Vec{X: 1e-9, Y: -2e-9, Z: 1.1})
}

func TestPreconditions(Te *testing.T) {
	_, err := NewSHBasis(-1)
	assert.True(Te, errors.Is(err, ErrDegree))
	q, err := CartesianToRXZS(r3.Vec{X: 1, Y: 1, Z: 1})
	require.NoError(Te, err)
	err = ComplexYlm(make([]complex128, 3), 1, q, make([]float64, 3))
	assert.True(Te, errors.Is(err, ErrBufferSize))
	b, err := NewSHBasis(2)
	require.NoError(Te, err)
	_, err = b.Evaluate(r3.Vec{})
	assert.True(Te, errors.Is(err, ErrZeroVector))
}
