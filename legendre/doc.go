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
Package legendre evaluates normalized associated Legendre polynomials P_l^m(cos theta),
and their derivatives with respect to theta, by means of the usual three-term recurrence.

The recursion coefficients depend only on the maximum degree, and are computed once
(NewCoefficients). The polynomials are stored in flat slices in l-major order,
see Index and Size. The normalization is such that P_0^0 = sqrt(1/4pi), and
P_l^m(cos theta) e^{im phi} is the orthonormal spherical harmonic Y_l^m, Condon-Shortley
phase included.
*/
package legendre
