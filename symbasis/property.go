/*
 * property.go, part of goace.
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
	"strings"

	"github.com/rmera/goace/wigner"
	"gonum.org/v1/gonum/mat"
)

// Property is the representation of O(3) under which the functions of a symmetric basis transform.
// The set of properties is closed: Invariant and SphericalVector.
type Property interface {
	//Rank returns L, the angular momentum of the representation.
	Rank() int
	//Dim returns the number of components of each basis function, 2L+1.
	Dim() int
	//Transform returns the Dim()xDim() matrix D(Q) such that
	//B(Q·Xs) = D(Q) B(Xs) for any orthogonal Q.
	Transform(Q mat.Matrix) (*mat.CDense, error)
	String() string
	isProperty()
}

// Invariant functions don't change under rotations and reflections.
type Invariant struct{}

func (Invariant) Rank() int      { return 0 }
func (Invariant) Dim() int       { return 1 }
func (Invariant) String() string { return "invariant" }
func (Invariant) isProperty()    {}

func (Invariant) Transform(Q mat.Matrix) (*mat.CDense, error) {
	return mat.NewCDense(1, 1, []complex128{1}), nil
}

// SphericalVector functions have 2L+1 components, mu=-L..L, which transform like
// the spherical harmonics Y_{L,mu}, including the parity (-1)^L under inversion.
type SphericalVector struct {
	L int
}

func (p SphericalVector) Rank() int      { return p.L }
func (p SphericalVector) Dim() int       { return 2*p.L + 1 }
func (p SphericalVector) String() string { return fmt.Sprintf("vector(L=%d)", p.L) }
func (SphericalVector) isProperty()      {}

func (p SphericalVector) Transform(Q mat.Matrix) (*mat.CDense, error) {
	D, err := wigner.D(p.L, Q)
	if err != nil {
		return nil, newError(ErrProperty, err.Error(), "SphericalVector.Transform")
	}
	return D, nil
}

// ParseProperty returns the property with the given name, "invariant" or "vector".
// L is only used for vectors.
func ParseProperty(name string, L int) (Property, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "invariant", "":
		return Invariant{}, nil
	case "vector", "spherical", "sphericalvector":
		if L < 0 {
			return nil, newError(ErrProperty, fmt.Sprintf("negative L %d", L), "ParseProperty")
		}
		return SphericalVector{L: L}, nil
	}
	return nil, newError(ErrProperty, fmt.Sprintf("unknown property %q", name), "ParseProperty")
}

// compatible returns true if a product of functions with degrees ll and total order
// summ can contribute to a basis with property p.
func compatible(p Property, ll []int, summ int) bool {
	L := p.Rank()
	s := L
	for _, l := range ll {
		s += l
	}
	return s%2 == 0 && summ <= L && summ >= -L
}
