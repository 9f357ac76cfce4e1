/*
 * v3_test.go, part of goace.
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

package v3

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewMatrix(Te *testing.T) {
	_, err := NewMatrix([]float64{1, 2, 3, 4})
	require.Error(Te, err)
	_, err = FromVecs(nil)
	require.Error(Te, err)
	A, err := NewMatrix([]float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(Te, err)
	assert.Equal(Te, 3, A.NVecs())
	assert.Equal(Te, r3.Vec{X: 4, Y: 5, Z: 6}, A.Vec(1))
	B := A.Clone()
	B.SetVec(1, r3.Vec{X: 100})
	assert.Equal(Te, 4.0, A.At(1, 0))
	assert.Equal(Te, 100.0, B.At(1, 0))
	assert.Panics(Te, func() { A.Vec(3) })
}

func TestSomeVecs(Te *testing.T) {
	a := []float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}
	A, err := NewMatrix(a)
	require.NoError(Te, err)
	B := Zeros(3)
	B.SomeVecs(A, []int{1, 3, 5})
	assert.Equal(Te, A.Vec(3), B.Vec(1))
	assert.Equal(Te, A.Vec(5), B.Vec(2))
	assert.Panics(Te, func() { B.SomeVecs(A, []int{1, 3}) })
	assert.Panics(Te, func() { B.SomeVecs(A, []int{1, 3, 6}) })
}

func TestPermute(Te *testing.T) {
	A, err := FromVecs([]r3.Vec{{X: 1}, {Y: 2}, {Z: 3}})
	require.NoError(Te, err)
	B := Zeros(3)
	B.Permute(A, []int{2, 0, 1})
	assert.Equal(Te, A.Vec(2), B.Vec(0))
	assert.Equal(Te, A.Vec(0), B.Vec(1))
	assert.Panics(Te, func() { B.Permute(A, []int{0, 0, 1}) })
	require.NoError(Te, B.PermuteSafe(A, []int{1, 2, 0}))
	assert.Equal(Te, A.Vec(1), B.Vec(0))
	err = B.PermuteSafe(A, []int{0, 3, 1})
	require.Error(Te, err)
	var e Error
	require.True(Te, errors.As(err, &e))
	assert.Contains(Te, e.Decorate(""), "PermuteSafe")
	require.Error(Te, B.PermuteSafe(A, []int{0, 1}))
}

func TestNorms(Te *testing.T) {
	A, err := FromVecs([]r3.Vec{{X: 3, Y: 4}, {Z: -2}, {X: 1, Y: 1, Z: 1}})
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{5, 2, math.Sqrt(3)}, A.Norms(nil), 1e-15)
	buf := make([]float64, 5)
	n := A.Norms(buf)
	assert.Len(Te, n, 3)
	assert.Equal(Te, 5.0, buf[0])
}

func TestTransform(Te *testing.T) {
	A, err := FromVecs([]r3.Vec{{X: 1, Y: 2, Z: 3}, {X: -1, Y: 0.5, Z: 2}})
	require.NoError(Te, err)
	c, s := math.Cos(0.3), math.Sin(0.3)
	Q := mat.NewDense(3, 3, []float64{c, -s, 0, s, c, 0, 0, 0, 1})
	require.True(Te, IsOrthogonal(Q, -1))
	B := Zeros(2)
	B.Transform(A, Q)
	for i := 0; i < 2; i++ {
		a := A.Vec(i)
		b := B.Vec(i)
		assert.InDelta(Te, c*a.X-s*a.Y, b.X, 1e-12)
		assert.InDelta(Te, s*a.X+c*a.Y, b.Y, 1e-12)
		assert.InDelta(Te, a.Z, b.Z, 1e-12)
	}
	assert.InDeltaSlice(Te, A.Norms(nil), B.Norms(nil), 1e-12)
	//in place
	A.Transform(A, Q)
	assert.True(Te, mat.EqualApprox(A, B, 1e-12))
	assert.False(Te, IsOrthogonal(mat.NewDense(3, 3, []float64{1, 1, 0, 0, 1, 0, 0, 0, 1}), -1))
}
