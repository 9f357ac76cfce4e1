/*
 * cluster.go, part of goace.
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

	v3 "github.com/rmera/goace/v3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Cluster is the environment of a central atom: the positions of its neighbors,
// relative to the central atom, and the species of the central atom.
// A nil Rs means an atom without neighbors.
type Cluster struct {
	Rs *v3.Matrix
	Z0 int
}

// NewCluster returns a cluster with the given neighbor positions.
func NewCluster(Rs []r3.Vec, z0 int) (*Cluster, error) {
	c := &Cluster{Z0: z0}
	if len(Rs) == 0 {
		return c, nil
	}
	var err error
	c.Rs, err = v3.FromVecs(Rs)
	if err != nil {
		return nil, newError(ErrCluster, err.Error(), "NewCluster")
	}
	return c, c.Check()
}

// Len returns the number of neighbors in the cluster.
func (c *Cluster) Len() int {
	if c == nil || c.Rs == nil {
		return 0
	}
	return c.Rs.NVecs()
}

// Check returns an error if some neighbor is on top of the central atom
// or has a non-finite coordinate.
func (c *Cluster) Check() error {
	if c.Len() == 0 {
		return nil
	}
	for i, n := range c.Rs.Norms(nil) {
		if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
			return newError(ErrCluster, fmt.Sprintf("neighbor %d at %v", i, c.Rs.Vec(i)), "Cluster.Check")
		}
	}
	return nil
}

// Transformed returns a new cluster, with the neighbors of c permuted by perm
// (the ith neighbor of the new cluster is the perm[i]th of c) and then transformed
// by the orthogonal matrix Q. Either can be nil.
func (c *Cluster) Transformed(perm []int, Q mat.Matrix) (*Cluster, error) {
	ret := &Cluster{Z0: c.Z0}
	if c.Len() == 0 {
		return ret, nil
	}
	if perm != nil && len(perm) != c.Len() {
		return nil, newError(ErrCluster, fmt.Sprintf("permutation of length %d for %d neighbors", len(perm), c.Len()), "Cluster.Transformed")
	}
	if Q != nil && !v3.IsOrthogonal(Q, 1e-10) {
		return nil, newError(ErrCluster, "transformation is not orthogonal", "Cluster.Transformed")
	}
	if perm != nil {
		ret.Rs = v3.Zeros(c.Len())
		if err := ret.Rs.PermuteSafe(c.Rs, perm); err != nil {
			return nil, newError(ErrCluster, fmt.Sprintf("invalid permutation %v: %s", perm, err.Error()), "Cluster.Transformed")
		}
	} else {
		ret.Rs = c.Rs.Clone()
	}
	if Q != nil {
		ret.Rs.Transform(ret.Rs, Q)
	}
	return ret, nil
}
