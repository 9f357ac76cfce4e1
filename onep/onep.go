/*
 * onep.go, part of goace.
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
Package onep defines the one-particle basis consumed by the symmetric basis builder,
i.e. the functions phi_nlm(R) evaluated at each neighbor of a cluster, and provides
RYlm, a basis of radial polynomials times complex spherical harmonics.

Any basis where the functions with the same n and l transform among themselves like the
spherical harmonics Y_lm of package sphharm can be used to build symmetric bases.
*/
package onep

import (
	"fmt"

	"github.com/rmera/goace/sphharm"
	"gonum.org/v1/gonum/spatial/r3"
)

// CVec is a complex 3D vector, used for gradients.
type CVec = sphharm.CVec

// NLM labels a one-particle function: radial index N, degree L and order M.
type NLM struct {
	N int
	L int
	M int
}

// NL returns the (n,l) part of the label.
func (b NLM) NL() NL {
	return NL{N: b.N, L: b.L}
}

func (b NLM) String() string {
	return fmt.Sprintf("(%d,%d,%d)", b.N, b.L, b.M)
}

// NL labels a radial-angular channel, i.e. all the functions with the same N and L.
type NL struct {
	N int
	L int
}

// Less orders NL labels first by N and then by L.
func (a NL) Less(b NL) bool {
	if a.N != b.N {
		return a.N < b.N
	}
	return a.L < b.L
}

// Basis is a one-particle basis. A Basis is immutable, and safe for
// concurrent use. Evaluation happens through Evaluators.
type Basis interface {
	//Number of functions in the basis.
	Len() int

	//Labels of the functions, in the order in which they are evaluated.
	Spec() []NLM

	//Degree of a function. Products of functions enter a symmetric basis
	//only if the sum of the degrees of their factors is small enough.
	Degree(b NLM) float64

	//Returns a new Evaluator for the basis.
	NewEvaluator() Evaluator
}

// Evaluator evaluates a one-particle basis. It owns whatever scratch space
// is needed, and is not safe for concurrent use.
type Evaluator interface {
	//Puts in dst the value of each function of the basis at the neighbor position R
	//(relative to the central atom), for a central atom of species z0.
	Evaluate(dst []complex128, R r3.Vec, z0 int) error

	//As Evaluate, also putting in ddst the gradients with respect to R.
	EvaluateD(dst []complex128, ddst []CVec, R r3.Vec, z0 int) error
}

// SpecIndex returns a map from labels to positions in the basis.
func SpecIndex(b Basis) map[NLM]int {
	s := b.Spec()
	ret := make(map[NLM]int, len(s))
	for i, v := range s {
		ret[v] = i
	}
	return ret
}
