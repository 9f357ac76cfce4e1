/*
 * doc.go, part of goace.
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
Package symbasis builds bases of functions of atomic clusters that are
invariant under permutations of the neighbors and transform in a prescribed
way under rotations and reflections, in the manner of the Atomic Cluster Expansion.

A one-particle basis (package onep) is summed over the neighbors of a cluster to give
the density projections A_nlm. Products of those projections, with up to a given number
of factors and total degree, make up a PIBasis, which is permutation-invariant.
The functions of a SymmetricBasis are linear combinations of those products, obtained
by coupling the angular momenta of the factors with Clebsch-Gordan coefficients.
The coupled combinations are reduced to a linearly independent set, so no function in
the basis is redundant.

	rb, _ := onep.NewRYlm(onep.RYlmParams{MaxDeg: 6, WL: 1, RIn: 0.5, RCut: 4})
	b, _ := symbasis.NewSymmetricBasis(rb, 3, 6, symbasis.Invariant{})
	c, _ := symbasis.NewCluster(positions, 0)
	B, _ := b.EvaluateInvariant(c)
*/
package symbasis
