/*
 * pibasis.go, part of goace.
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
	"sort"
	"strconv"

	"github.com/rmera/goace/onep"
	"go.uber.org/zap"
)

const degTol = 1e-12

// CVec is a complex 3D vector, used for gradients.
type CVec = onep.CVec

// PIBasis is a basis of permutation-invariant functions of a cluster. Each function
// is a product A_v1 A_v2 ... A_vN of the density projections A_v = sum_j phi_v(R_j),
// where phi_v is a function of a one-particle basis and the sum runs over the neighbors.
// The factors of each product are stored as a sorted tuple of one-particle indices,
// so each product appears only once. A PIBasis is immutable and safe for concurrent use.
type PIBasis struct {
	basis  onep.Basis
	spec1  []onep.NLM
	index1 map[onep.NLM]int
	order  int
	maxdeg float64
	prop   Property
	spec   [][]int
	index  map[string]int
}

func newPIBasis(basis onep.Basis, order int, maxdeg float64, prop Property) *PIBasis {
	return &PIBasis{
		basis:  basis,
		spec1:  basis.Spec(),
		index1: onep.SpecIndex(basis),
		order:  order,
		maxdeg: maxdeg,
		prop:   prop,
		index:  make(map[string]int),
	}
}

// BuildPIBasis returns the basis with all the products of up to order factors from
// basis, with total degree up to maxdeg, that can contribute to functions of the
// property prop. That is, the sum of the degrees l of the factors plus the rank of prop
// must be even, and the sum of the orders m can't exceed the rank in absolute value.
func BuildPIBasis(basis onep.Basis, order int, maxdeg float64, prop Property) (*PIBasis, error) {
	if basis == nil || basis.Len() == 0 || prop == nil {
		return nil, newError(ErrParameters, "empty one-particle basis or nil property", "BuildPIBasis")
	}
	if order < 1 || maxdeg <= 0 || math.IsNaN(maxdeg) || prop.Rank() < 0 {
		return nil, newError(ErrParameters, fmt.Sprintf("order: %d maxdeg: %g property: %s", order, maxdeg, prop), "BuildPIBasis")
	}
	pi := newPIBasis(basis, order, maxdeg, prop)
	deg := make([]float64, len(pi.spec1))
	mindeg := math.Inf(1)
	for i, f := range pi.spec1 {
		deg[i] = basis.Degree(f)
		mindeg = math.Min(mindeg, deg[i])
	}
	ll := make([]int, 0, order)
	var rec func(start int, cur []int, d float64, summ int)
	rec = func(start int, cur []int, d float64, summ int) {
		if len(cur) > 0 {
			ll = ll[:0]
			for _, v := range cur {
				ll = append(ll, pi.spec1[v].L)
			}
			if compatible(prop, ll, summ) {
				pi.add(cur)
			}
		}
		if len(cur) == order || d+mindeg > maxdeg+degTol {
			return
		}
		//the tuples are generated sorted, so they are already canonical.
		for i := start; i < len(pi.spec1); i++ {
			if d+deg[i] > maxdeg+degTol {
				continue
			}
			rec(i, append(cur, i), d+deg[i], summ+pi.spec1[i].M)
		}
	}
	rec(0, make([]int, 0, order), 0, 0)
	if pi.Len() == 0 {
		return nil, newError(ErrEmptyBasis, fmt.Sprintf("order: %d maxdeg: %g property: %s", order, maxdeg, prop), "BuildPIBasis")
	}
	Logger().Debug("built PI basis", zap.Int("onep", basis.Len()), zap.Int("order", order),
		zap.Float64("maxdeg", maxdeg), zap.Stringer("property", prop), zap.Int("functions", pi.Len()))
	return pi, nil
}

func (pi *PIBasis) add(prod []int) {
	p := append([]int(nil), prod...)
	k := tupleKey(p)
	if _, ok := pi.index[k]; ok {
		return
	}
	pi.index[k] = len(pi.spec)
	pi.spec = append(pi.spec, p)
}

// restrict returns a new basis with only the functions in keep, in that order.
func (pi *PIBasis) restrict(keep []int) *PIBasis {
	ret := newPIBasis(pi.basis, pi.order, pi.maxdeg, pi.prop)
	for _, k := range keep {
		ret.add(pi.spec[k])
	}
	return ret
}

// tupleKey returns a string that identifies the tuple of indices t.
func tupleKey(t []int) string {
	b := make([]byte, 0, 4*len(t))
	for i, v := range t {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(v), 10)
	}
	return string(b)
}

// canonical returns a sorted copy of t.
func canonical(t []int) []int {
	ret := append([]int(nil), t...)
	sort.Ints(ret)
	return ret
}

// Len returns the number of functions in the basis.
func (pi *PIBasis) Len() int { return len(pi.spec) }

// Order returns the largest number of factors allowed in a product.
func (pi *PIBasis) Order() int { return pi.order }

// MaxDeg returns the largest total degree allowed for a product.
func (pi *PIBasis) MaxDeg() float64 { return pi.maxdeg }

// Property returns the property the basis was filtered for.
func (pi *PIBasis) Property() Property { return pi.prop }

// OneParticle returns the underlying one-particle basis.
func (pi *PIBasis) OneParticle() onep.Basis { return pi.basis }

// Product returns the labels of the factors of the ith function.
func (pi *PIBasis) Product(i int) []onep.NLM {
	ret := make([]onep.NLM, len(pi.spec[i]))
	for j, v := range pi.spec[i] {
		ret[j] = pi.spec1[v]
	}
	return ret
}

// Lookup returns the position of the product of the one-particle
// functions with indices prod, in any order, and whether it is in the basis.
func (pi *PIBasis) Lookup(prod []int) (int, bool) {
	i, ok := pi.index[tupleKey(canonical(prod))]
	return i, ok
}

// Evaluate returns the values of all the functions of the basis for the cluster c.
func (pi *PIBasis) Evaluate(c *Cluster) ([]complex128, error) {
	ws := pi.NewWorkspace()
	if err := pi.evaluateA(ws, c, false); err != nil {
		return nil, errDecorate(err, "PIBasis.Evaluate")
	}
	ret := make([]complex128, pi.Len())
	pi.products(ws.A, ret)
	return ret, nil
}

// evaluateA puts in ws.A the density projections for the cluster c and,
// if grad is true, the gradients of the one-particle functions at each neighbor in ws.dphi.
func (pi *PIBasis) evaluateA(ws *Workspace, c *Cluster, grad bool) error {
	if ws == nil || ws.pi != pi {
		return newError(ErrParameters, "workspace belongs to a different basis", "PIBasis.evaluateA")
	}
	if c == nil {
		return newError(ErrCluster, "nil cluster", "PIBasis.evaluateA")
	}
	n1 := len(pi.spec1)
	for i := range ws.A {
		ws.A[i] = 0
	}
	nn := c.Len()
	if grad {
		ws.growD(nn)
	}
	for j := 0; j < nn; j++ {
		R := c.Rs.Vec(j)
		var err error
		if grad {
			err = ws.ev.EvaluateD(ws.phi, ws.dphi[j*n1:(j+1)*n1], R, c.Z0)
		} else {
			err = ws.ev.Evaluate(ws.phi, R, c.Z0)
		}
		if err != nil {
			return newError(ErrCluster, fmt.Sprintf("neighbor %d: %s", j, err.Error()), "PIBasis.evaluateA")
		}
		for i, v := range ws.phi {
			ws.A[i] += v
		}
	}
	return nil
}

// products puts in dst the value of each product, given the density projections A.
func (pi *PIBasis) products(A, dst []complex128) {
	for k, prod := range pi.spec {
		v := complex(1, 0)
		for _, i := range prod {
			v *= A[i]
		}
		dst[k] = v
	}
}

// productsD puts in dst the gradient of each product with respect to the position
// of one neighbor, given the density projections A and the gradients dphi of the
// one-particle functions at that neighbor.
func (pi *PIBasis) productsD(A []complex128, dphi []CVec, dst []CVec) {
	for k, prod := range pi.spec {
		var g CVec
		for t, it := range prod {
			f := complex(1, 0)
			for s, is := range prod {
				if s != t {
					f *= A[is]
				}
			}
			g = g.Add(dphi[it].Scale(f))
		}
		dst[k] = g
	}
}

// Workspace holds the scratch space needed to evaluate a basis. It is
// not safe for concurrent use, so each goroutine needs its own.
type Workspace struct {
	pi   *PIBasis
	ev   onep.Evaluator
	phi  []complex128
	A    []complex128
	dphi []CVec
	vals []complex128
	dpi  []CVec
}

// NewWorkspace returns a workspace for the basis.
func (pi *PIBasis) NewWorkspace() *Workspace {
	n1 := len(pi.spec1)
	return &Workspace{
		pi:   pi,
		ev:   pi.basis.NewEvaluator(),
		phi:  make([]complex128, n1),
		A:    make([]complex128, n1),
		vals: make([]complex128, pi.Len()),
		dpi:  make([]CVec, pi.Len()),
	}
}

// growD makes sure there is room for the one-particle gradients at nn neighbors.
func (ws *Workspace) growD(nn int) {
	need := nn * len(ws.phi)
	if cap(ws.dphi) < need {
		ws.dphi = make([]CVec, need)
	}
	ws.dphi = ws.dphi[:need]
}
