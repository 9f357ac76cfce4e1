/*
 * symbasis.go, part of goace.
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
	"sort"

	"github.com/rmera/goace/clebsch"
	"github.com/rmera/goace/onep"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// csr is a real sparse matrix in compressed sparse row format.
type csr struct {
	rowptr []int
	cols   []int
	vals   []float64
	ncols  int
}

func (m *csr) rows() int { return len(m.rowptr) - 1 }

func (m *csr) appendRow(r []entry) {
	if len(m.rowptr) == 0 {
		m.rowptr = append(m.rowptr, 0)
	}
	for _, e := range r {
		m.cols = append(m.cols, e.col)
		m.vals = append(m.vals, e.val)
	}
	m.rowptr = append(m.rowptr, len(m.cols))
}

// dot returns the product of row i and x.
func (m *csr) dot(i int, x []complex128) complex128 {
	var s complex128
	for k := m.rowptr[i]; k < m.rowptr[i+1]; k++ {
		s += complex(m.vals[k], 0) * x[m.cols[k]]
	}
	return s
}

// dotD returns the product of row i and the vector of gradients x.
func (m *csr) dotD(i int, x []CVec) CVec {
	var s CVec
	for k := m.rowptr[i]; k < m.rowptr[i+1]; k++ {
		s = s.Add(x[m.cols[k]].Scale(complex(m.vals[k], 0)))
	}
	return s
}

func (m *csr) dense() *mat.Dense {
	ret := mat.NewDense(m.rows(), m.ncols, nil)
	for i := 0; i < m.rows(); i++ {
		for k := m.rowptr[i]; k < m.rowptr[i+1]; k++ {
			ret.Set(i, m.cols[k], m.vals[k])
		}
	}
	return ret
}

// SymmetricBasis is a basis of functions of a cluster that are invariant under
// permutations of the neighbors and transform under O(3) according to a Property.
// Each function is a linear combination of the functions of a PIBasis, given by
// the A2B map. A function of a SphericalVector{L} basis has 2L+1 components,
// mu=-L..L. A SymmetricBasis is immutable and safe for concurrent use,
// as long as each goroutine uses its own Workspace.
type SymmetricBasis struct {
	pi     *PIBasis
	prop   Property
	n      int
	a2b    csr
	labels [][]onep.NL
}

// NewSymmetricBasis builds the PI basis for the given parameters, and
// from it, the symmetric basis.
func NewSymmetricBasis(basis onep.Basis, order int, maxdeg float64, prop Property) (*SymmetricBasis, error) {
	pi, err := BuildPIBasis(basis, order, maxdeg, prop)
	if err != nil {
		return nil, errDecorate(err, "NewSymmetricBasis")
	}
	b, err := BuildSymmetricBasis(pi, prop)
	if err != nil {
		return nil, errDecorate(err, "NewSymmetricBasis")
	}
	return b, nil
}

// BuildSymmetricBasis returns the symmetric basis with property prop spanned by
// the functions of pi, which must have been built for the same property.
// The PI functions that don't contribute to any symmetric function are
// removed from the PI basis of the returned object.
func BuildSymmetricBasis(pi *PIBasis, prop Property) (*SymmetricBasis, error) {
	if pi == nil || prop == nil {
		return nil, newError(ErrParameters, "nil PI basis or property", "BuildSymmetricBasis")
	}
	if pi.prop != prop {
		return nil, newError(ErrProperty, fmt.Sprintf("PI basis built for %s, requested %s", pi.prop, prop), "BuildSymmetricBasis")
	}
	L := prop.Rank()
	dim := prop.Dim()
	//group the products by the labels (n,l) of their factors.
	var groups [][]onep.NL
	seen := make(map[string]bool)
	for _, prod := range pi.spec {
		nl := make([]onep.NL, len(prod))
		key := make([]int, 0, 2*len(prod))
		for i, v := range prod {
			nl[i] = pi.spec1[v].NL()
			key = append(key, nl[i].N, nl[i].L)
		}
		k := tupleKey(key)
		if seen[k] {
			continue
		}
		seen[k] = true
		sort.SliceStable(nl, func(i, j int) bool { return nl[i].Less(nl[j]) })
		groups = append(groups, nl)
	}
	t := clebsch.NewTable()
	var funcs [][][]entry
	var labels [][]onep.NL
	for _, g := range groups {
		f, err := pi.couple(t, g, L)
		if err != nil {
			return nil, errDecorate(err, "BuildSymmetricBasis")
		}
		funcs = append(funcs, f...)
		for range f {
			labels = append(labels, g)
		}
	}
	if len(funcs) == 0 {
		return nil, newError(ErrEmptyBasis, fmt.Sprintf("no %s function of order %d and degree %g", prop, pi.order, pi.maxdeg), "BuildSymmetricBasis")
	}
	//prune the PI functions nobody uses.
	newcol := make([]int, pi.Len())
	for i := range newcol {
		newcol[i] = -1
	}
	for _, f := range funcs {
		for _, row := range f {
			for _, e := range row {
				newcol[e.col] = 0
			}
		}
	}
	var keep []int
	for i, v := range newcol {
		if v == 0 {
			newcol[i] = len(keep)
			keep = append(keep, i)
		}
	}
	b := &SymmetricBasis{
		pi:     pi.restrict(keep),
		prop:   prop,
		n:      len(funcs),
		labels: labels,
	}
	b.a2b.ncols = len(keep)
	for _, f := range funcs {
		for mu := 0; mu < dim; mu++ {
			row := make([]entry, len(f[mu]))
			for i, e := range f[mu] {
				row[i] = entry{col: newcol[e.col], val: e.val}
			}
			sort.Slice(row, func(i, j int) bool { return row[i].col < row[j].col })
			b.a2b.appendRow(row)
		}
	}
	Logger().Debug("built symmetric basis", zap.Stringer("property", prop), zap.Int("groups", len(groups)),
		zap.Int("functions", b.n), zap.Int("pi", b.pi.Len()), zap.Int("pruned", pi.Len()-b.pi.Len()),
		zap.Int("nonzeros", len(b.a2b.vals)))
	return b, nil
}

// Len returns the number of functions in the basis.
func (b *SymmetricBasis) Len() int { return b.n }

// Dim returns the number of components of each function.
func (b *SymmetricBasis) Dim() int { return b.prop.Dim() }

// Property returns the property of the basis.
func (b *SymmetricBasis) Property() Property { return b.prop }

// PI returns the PI basis on which the basis is built.
func (b *SymmetricBasis) PI() *PIBasis { return b.pi }

// Label returns the (n,l) labels of the factors of the products that make up the kth function.
func (b *SymmetricBasis) Label(k int) []onep.NL {
	return append([]onep.NL(nil), b.labels[k]...)
}

// A2B returns a dense copy of the map from the PI basis to the symmetric basis.
// Row k*Dim()+mu gives the component mu of the kth function, so B = A2B·PI.
func (b *SymmetricBasis) A2B() *mat.Dense {
	return b.a2b.dense()
}

// NonZeros returns the number of non-zero elements of the A2B map.
func (b *SymmetricBasis) NonZeros() int { return len(b.a2b.vals) }

// NewWorkspace returns a workspace to evaluate the basis.
func (b *SymmetricBasis) NewWorkspace() *Workspace {
	return b.pi.NewWorkspace()
}

func (b *SymmetricBasis) checkDst(dst *mat.CDense, caller string) error {
	if dst == nil {
		return newError(ErrParameters, "nil destination", caller)
	}
	if r, c := dst.Dims(); r != b.n || c != b.Dim() {
		return newError(ErrParameters, fmt.Sprintf("destination is %dx%d, need %dx%d", r, c, b.n, b.Dim()), caller)
	}
	return nil
}

// Evaluate returns the values of the basis for the cluster c, as a Len()xDim() matrix.
func (b *SymmetricBasis) Evaluate(c *Cluster) (*mat.CDense, error) {
	ret := mat.NewCDense(b.n, b.Dim(), nil)
	if err := b.EvaluateWith(b.NewWorkspace(), c, ret); err != nil {
		return nil, errDecorate(err, "SymmetricBasis.Evaluate")
	}
	return ret, nil
}

// EvaluateWith puts in dst the values of the basis for the cluster c, using
// the workspace ws, which must have been obtained from b.
func (b *SymmetricBasis) EvaluateWith(ws *Workspace, c *Cluster, dst *mat.CDense) error {
	if err := b.checkDst(dst, "SymmetricBasis.EvaluateWith"); err != nil {
		return err
	}
	if err := b.pi.evaluateA(ws, c, false); err != nil {
		return errDecorate(err, "SymmetricBasis.EvaluateWith")
	}
	b.pi.products(ws.A, ws.vals)
	dim := b.Dim()
	for k := 0; k < b.n; k++ {
		for mu := 0; mu < dim; mu++ {
			dst.Set(k, mu, b.a2b.dot(k*dim+mu, ws.vals))
		}
	}
	return nil
}

// EvaluateInvariant returns the values of an invariant basis for the cluster c.
// Invariant functions are real, so only the real parts are returned.
func (b *SymmetricBasis) EvaluateInvariant(c *Cluster) ([]float64, error) {
	if _, ok := b.prop.(Invariant); !ok {
		return nil, newError(ErrProperty, fmt.Sprintf("basis is %s", b.prop), "SymmetricBasis.EvaluateInvariant")
	}
	v, err := b.Evaluate(c)
	if err != nil {
		return nil, errDecorate(err, "SymmetricBasis.EvaluateInvariant")
	}
	ret := make([]float64, b.n)
	for k := range ret {
		ret[k] = real(v.At(k, 0))
	}
	return ret, nil
}

// EvaluateGradient returns the values of the basis for the cluster c and their
// gradients with respect to the positions of the neighbors: dB[k*Dim()+mu][j] is
// the gradient of the component mu of the kth function with respect to the jth neighbor.
func (b *SymmetricBasis) EvaluateGradient(c *Cluster) (*mat.CDense, [][]CVec, error) {
	return b.EvaluateGradientWith(b.NewWorkspace(), c)
}

// EvaluateGradientWith is as EvaluateGradient, using the workspace ws.
func (b *SymmetricBasis) EvaluateGradientWith(ws *Workspace, c *Cluster) (*mat.CDense, [][]CVec, error) {
	if err := b.pi.evaluateA(ws, c, true); err != nil {
		return nil, nil, errDecorate(err, "SymmetricBasis.EvaluateGradient")
	}
	dim := b.Dim()
	vals := mat.NewCDense(b.n, dim, nil)
	b.pi.products(ws.A, ws.vals)
	for k := 0; k < b.n; k++ {
		for mu := 0; mu < dim; mu++ {
			vals.Set(k, mu, b.a2b.dot(k*dim+mu, ws.vals))
		}
	}
	nn := c.Len()
	n1 := len(ws.phi)
	dB := make([][]CVec, b.n*dim)
	for i := range dB {
		dB[i] = make([]CVec, nn)
	}
	for j := 0; j < nn; j++ {
		b.pi.productsD(ws.A, ws.dphi[j*n1:(j+1)*n1], ws.dpi)
		for row := range dB {
			dB[row][j] = b.a2b.dotD(row, ws.dpi)
		}
	}
	return vals, dB, nil
}
