/*
 * coupling.go, part of goace.
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

package symbasis

import (
	"fmt"
	"math"

	"github.com/rmera/goace/clebsch"
	"github.com/rmera/goace/onep"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

const (
	rankTol = 1e-10 //relative to the largest singular value
	zeroTol = 1e-12
	dropTol = 1e-14
)

// entry is a non-zero element of a row of the A2B map.
type entry struct {
	col int
	val float64
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

// couplingPaths returns all the sequences of intermediate angular momenta
// L_1=l_1, L_k in [|L_{k-1}-l_k|, L_{k-1}+l_k], that end in L_N=L.
func couplingPaths(ll []int, L int) [][]int {
	var ret [][]int
	var rec func(path []int)
	rec = func(path []int) {
		k := len(path)
		if k == len(ll) {
			if path[k-1] == L {
				ret = append(ret, append([]int(nil), path...))
			}
			return
		}
		prev := path[k-1]
		//the remaining momenta can't bring the total back to L
		rest := 0
		for _, l := range ll[k:] {
			rest += l
		}
		for Lk := abs(prev - ll[k]); Lk <= prev+ll[k]; Lk++ {
			if abs(Lk-L) > rest-ll[k] {
				continue
			}
			rec(append(path, Lk))
		}
	}
	if len(ll) == 0 {
		return nil
	}
	rec([]int{ll[0]})
	return ret
}

// pathCoefficient returns the generalized Clebsch-Gordan coefficient that couples
// the functions with degrees ll and orders mm along path.
func pathCoefficient(t *clebsch.Table, ll, mm, path []int) float64 {
	c := 1.0
	M := mm[0]
	for k := 1; k < len(ll); k++ {
		Mk := M + mm[k]
		if abs(Mk) > path[k] {
			return 0
		}
		c *= t.CG(path[k-1], M, ll[k], mm[k], path[k], Mk)
		if c == 0 {
			return 0
		}
		M = Mk
	}
	return c
}

// couple returns the symmetric functions built from the products whose factors have
// the labels nl (sorted). Each function is given as dim rows of the A2B map, one per
// component mu=-L..L, in terms of the functions of pi.
// The coupled products are symmetrized over the permutations of equal factors by
// accumulating them on the canonical PI functions, and the resulting coefficient vectors
// are reduced to an orthonormal basis of their span through a singular value decomposition.
func (pi *PIBasis) couple(t *clebsch.Table, nl []onep.NL, L int) ([][][]entry, error) {
	N := len(nl)
	ll := make([]int, N)
	parity := L
	for i, v := range nl {
		ll[i] = v.L
		parity += v.L
	}
	if parity%2 != 0 {
		return nil, nil
	}
	paths := couplingPaths(ll, L)
	if len(paths) == 0 {
		return nil, nil
	}
	dim := 2*L + 1
	cols := make(map[int]int)
	var colPI []int
	type coef struct {
		path, mu, col int
		val           float64
	}
	var coefs []coef
	mm := make([]int, N)
	idx := make([]int, N)
	missing := false
	var rec func(k, summ int)
	rec = func(k, summ int) {
		if missing {
			return
		}
		if k == N {
			if abs(summ) > L {
				return
			}
			for i := range mm {
				j, ok := pi.index1[onep.NLM{N: nl[i].N, L: nl[i].L, M: mm[i]}]
				if !ok {
					missing = true
					return
				}
				idx[i] = j
			}
			p, ok := pi.Lookup(idx)
			if !ok {
				missing = true
				return
			}
			c, ok := cols[p]
			if !ok {
				c = len(colPI)
				cols[p] = c
				colPI = append(colPI, p)
			}
			for ip, path := range paths {
				if v := pathCoefficient(t, ll, mm, path); v != 0 {
					coefs = append(coefs, coef{path: ip, mu: summ + L, col: c, val: v})
				}
			}
			return
		}
		for m := -ll[k]; m <= ll[k]; m++ {
			mm[k] = m
			rec(k+1, summ+m)
		}
	}
	rec(0, 0)
	if missing {
		//some m-component of the group didn't make it into the PI basis,
		//so no covariant function can be built from it.
		Logger().Debug("incomplete group skipped", zap.Any("nl", nl))
		return nil, nil
	}
	ncol := len(colPI)
	if ncol == 0 || len(coefs) == 0 {
		return nil, nil
	}
	U := mat.NewDense(len(paths), dim*ncol, nil)
	for _, c := range coefs {
		j := c.mu*ncol + c.col
		U.Set(c.path, j, U.At(c.path, j)+c.val)
	}
	var svd mat.SVD
	if ok := svd.Factorize(U, mat.SVDThin); !ok {
		return nil, newError(ErrReduction, fmt.Sprintf("SVD failed for group %v", nl), "PIBasis.couple")
	}
	s := svd.Values(nil)
	if len(s) == 0 || s[0] < zeroTol {
		return nil, nil
	}
	var V mat.Dense
	svd.VTo(&V)
	var ret [][][]entry
	for k, sk := range s {
		if sk <= rankTol*s[0] {
			break
		}
		f := make([][]entry, dim)
		for mu := 0; mu < dim; mu++ {
			for c := 0; c < ncol; c++ {
				v := V.At(mu*ncol+c, k)
				if math.Abs(v) > dropTol {
					f[mu] = append(f[mu], entry{col: colPI[c], val: v})
				}
			}
		}
		ret = append(ret, f)
	}
	return ret, nil
}
