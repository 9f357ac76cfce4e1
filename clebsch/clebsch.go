/*
 * clebsch.go, part of goace.
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

//Package clebsch computes Clebsch-Gordan coefficients <j1 m1 j2 m2|j3 m3> for integer
//angular momenta. All intermediate quantities are exact (math/big), only the
//final value is rounded to float64.
package clebsch

import (
	"fmt"
	"math/big"
	"sync"
)

// precision, in bits, of the square root taken at the end.
const sqrtPrec = 256

func fact(n int) *big.Int {
	return new(big.Int).MulRange(1, int64(n))
}

func binomial(n, k int) *big.Int {
	return new(big.Int).Binomial(int64(n), int64(k))
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

// Valid returns nil if (j,m) are valid quantum numbers, i.e. j>=0 and |m|<=j.
func Valid(j, m int) error {
	if j < 0 || abs(m) > j {
		return newError(ErrInvalidMomentum, fmt.Sprintf("j=%d m=%d", j, m), "Valid")
	}
	return nil
}

// Triangle returns true if j1, j2 and j3 satisfy the triangle inequality.
func Triangle(j1, j2, j3 int) bool {
	return abs(j1-j2) <= j3 && j3 <= j1+j2
}

// CG returns the Clebsch-Gordan coefficient <j1 m1 j2 m2|j3 m3>.
// It is zero if m3!=m1+m2, if the triangle inequality fails or if any |m|>j.
//
// The coefficient is computed as sqrt(N)*G where N is the rational
//
//	N = (2j3+1)(j3+m3)!(j3-m3)!(j1-m1)!(j1+m1)!(j2-m2)!(j2+m2)! / ((j1+j2+j3+1)!(j1+j2-j3)!(j1-j2+j3)!(-j1+j2+j3)!)
//
// and G the integer
//
//	G = sum_k (-1)^k C(j1+j2-j3, k) C(j1-j2+j3, j1-m1-k) C(-j1+j2+j3, j2+m2-k)
//
// where C are binomial coefficients, and k runs over all values for which every factorial has a
// non-negative argument.
func CG(j1, m1, j2, m2, j3, m3 int) float64 {
	if m3 != m1+m2 || !Triangle(j1, j2, j3) {
		return 0
	}
	if Valid(j1, m1) != nil || Valid(j2, m2) != nil || Valid(j3, m3) != nil {
		return 0
	}
	num := new(big.Int).SetInt64(int64(2*j3 + 1))
	for _, f := range []int{j3 + m3, j3 - m3, j1 - m1, j1 + m1, j2 - m2, j2 + m2} {
		num.Mul(num, fact(f))
	}
	den := fact(j1 + j2 + j3 + 1)
	for _, f := range []int{j1 + j2 - j3, j1 - j2 + j3, -j1 + j2 + j3} {
		den.Mul(den, fact(f))
	}
	N := new(big.Rat).SetFrac(num, den)

	kmin := max(0, j2-j3-m1, j1-j3+m2)
	kmax := min(j1+j2-j3, j1-m1, j2+m2)
	G := new(big.Int)
	term := new(big.Int)
	for k := kmin; k <= kmax; k++ {
		term.Mul(binomial(j1+j2-j3, k), binomial(j1-j2+j3, j1-m1-k))
		term.Mul(term, binomial(-j1+j2+j3, j2+m2-k))
		if k%2 == 0 {
			G.Add(G, term)
		} else {
			G.Sub(G, term)
		}
	}
	if G.Sign() == 0 {
		return 0
	}
	//sqrt(N)*G = sign(G)*sqrt(N*G^2)
	G2 := new(big.Int).Mul(G, G)
	NG2 := N.Mul(N, new(big.Rat).SetInt(G2))
	r := new(big.Float).SetPrec(sqrtPrec).SetRat(NG2)
	r.Sqrt(r)
	ret, _ := r.Float64()
	if G.Sign() < 0 {
		return -ret
	}
	return ret
}

type key [6]int

// Table memoizes Clebsch-Gordan coefficients. It is safe for concurrent use.
// The zero value is ready to use.
type Table struct {
	m sync.Map
}

// NewTable returns an empty table.
func NewTable() *Table {
	return new(Table)
}

// CG returns the same as the package-level CG, computing each coefficient
// only once.
func (t *Table) CG(j1, m1, j2, m2, j3, m3 int) float64 {
	if m3 != m1+m2 || !Triangle(j1, j2, j3) {
		return 0
	}
	k := key{j1, m1, j2, m2, j3, m3}
	if v, ok := t.m.Load(k); ok {
		return v.(float64)
	}
	v := CG(j1, m1, j2, m2, j3, m3)
	t.m.Store(k, v)
	return v
}
