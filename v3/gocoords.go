/*
 * gocoords.go, part of goace.
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

package v3

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const appzero float64 = 0.000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

//METHODS

// SomeVecs puts in F all the ith vectors of matrix A,
// where i are the numbers in clist. The vectors are in the same order
// than the clist.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	ar, ac := A.Dims()
	fr, fc := F.Dims()
	if ac != fc || fr != len(clist) {
		panic(ErrShape)
	}
	for key, val := range clist {
		if val < 0 || val >= ar {
			panic(ErrIndexOutOfRange)
		}
		F.SetRow(key, A.RawRowView(val))
	}
}

// Permute puts in F the vectors of A in the order given by perm, so
// the ith vector of F is the perm[i]th vector of A. F and A can't be the same.
func (F *Matrix) Permute(A *Matrix, perm []int) {
	if F.Dense == A.Dense {
		panic(ErrShape)
	}
	n := A.NVecs()
	if len(perm) != n || F.NVecs() != n {
		panic(ErrShape)
	}
	seen := make([]bool, n)
	for _, v := range perm {
		if v < 0 || v >= n || seen[v] {
			panic(ErrBadPermutation)
		}
		seen[v] = true
	}
	F.SomeVecs(A, perm)
}

// PermuteSafe is like Permute, but returns an error instead of panicking.
func (F *Matrix) PermuteSafe(A *Matrix, perm []int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case PanicMsg:
				err = Error{string(e), []string{"PermuteSafe"}, true}
			case mat.Error:
				err = Error{fmt.Sprintf("Error in a gonum function: %s", e.Error()), []string{"PermuteSafe"}, true}
			default:
				panic(r)
			}
		}
	}()
	F.Permute(A, perm)
	return err
}

// Transform applies the 3x3 transformation Q to each vector in A
// (i.e. each row a becomes Q·a) and puts the result in F.
func (F *Matrix) Transform(A *Matrix, Q mat.Matrix) {
	qr, qc := Q.Dims()
	if qr != 3 || qc != 3 {
		panic(ErrNot3x3Matrix)
	}
	if F.NVecs() != A.NVecs() {
		panic(ErrShape)
	}
	if F.Dense == A.Dense {
		tmp := mat.DenseCopyOf(A.Dense)
		F.Dense.Mul(tmp, Q.T())
		return
	}
	F.Dense.Mul(A.Dense, Q.T())
}

// IsOrthogonal returns true if Q is a 3x3 orthogonal matrix, i.e. a rotation or
// a reflection, within a tolerance epsilon. A negative epsilon means the default.
func IsOrthogonal(Q mat.Matrix, epsilon float64) bool {
	if epsilon < 0 {
		epsilon = appzero
	}
	qr, qc := Q.Dims()
	if qr != 3 || qc != 3 {
		return false
	}
	var qtq mat.Dense
	qtq.Mul(Q.T(), Q)
	return mat.EqualApprox(&qtq, eye3(), epsilon)
}

func eye3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}

// Norms returns the euclidean norm of each vector of F. They are put in
// dst if it is long enough, otherwise a new slice is allocated.
func (F *Matrix) Norms(dst []float64) []float64 {
	n := F.NVecs()
	if len(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	for i := range dst {
		dst[i] = floats.Norm(F.RawRowView(i), 2)
	}
	return dst
}
