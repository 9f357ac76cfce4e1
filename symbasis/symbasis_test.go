/*
 * symbasis_test.go, part of goace.
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

package symbasis

import (
	"context"
	"errors"
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/rmera/goace/onep"
	"github.com/rmera/goace/wigner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testParams = onep.RYlmParams{MaxDeg: 6, WL: 1, RIn: 0.5, RCut: 4}

func oneParticle(Te *testing.T) *onep.RYlm {
	rb, err := onep.NewRYlm(testParams)
	require.NoError(Te, err)
	return rb
}

func randomCluster(Te *testing.T, rng *rand.Rand, n int) *Cluster {
	Rs := make([]r3.Vec, n)
	for i := range Rs {
		d := r3.Unit(r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()})
		Rs[i] = r3.Scale(0.8+2*rng.Float64(), d)
	}
	c, err := NewCluster(Rs, 0)
	require.NoError(Te, err)
	return c
}

// cdiff returns the Frobenius norms of a-b and of a.
func cdiff(a, b *mat.CDense) (float64, float64) {
	r, c := a.Dims()
	var d, n float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d += math.Pow(cmplx.Abs(a.At(i, j)-b.At(i, j)), 2)
			n += math.Pow(cmplx.Abs(a.At(i, j)), 2)
		}
	}
	return math.Sqrt(d), math.Sqrt(n)
}

func TestSmallBases(Te *testing.T) {
	rb := oneParticle(Te)
	cases := []struct {
		order  int
		maxdeg float64
		prop   Property
		want   int
	}{
		//A_n00, n=1..6
		{1, 6, Invariant{}, 6},
		//4 A_n00, 4 pairs of l=0 functions and A_11m A_11m'
		{2, 4, Invariant{}, 9},
		//A_11mu, A_21mu and the coupling of A_100 with A_11mu
		{2, 3, SphericalVector{L: 1}, 3},
	}
	for _, c := range cases {
		b, err := NewSymmetricBasis(rb, c.order, c.maxdeg, c.prop)
		require.NoError(Te, err)
		assert.Equal(Te, c.want, b.Len(), "%d %g %s", c.order, c.maxdeg, c.prop)
		assert.Equal(Te, c.prop.Dim(), b.Dim())
		r, cols := b.A2B().Dims()
		assert.Equal(Te, b.Len()*b.Dim(), r)
		assert.Equal(Te, b.PI().Len(), cols)
	}
	pi, err := BuildPIBasis(rb, 1, 6, Invariant{})
	require.NoError(Te, err)
	//l=0 n=1..6, l=2 n=1..4, l=4 n=1..2
	assert.Equal(Te, 12, pi.Len())
	b, err := BuildSymmetricBasis(pi, Invariant{})
	require.NoError(Te, err)
	//only the l=0 functions survive
	assert.Equal(Te, 6, b.PI().Len())
	for k := 0; k < b.Len(); k++ {
		assert.Equal(Te, 0, b.Label(k)[0].L)
	}
}

func TestPIBasis(Te *testing.T) {
	rb := oneParticle(Te)
	pi, err := BuildPIBasis(rb, 3, 6, SphericalVector{L: 2})
	require.NoError(Te, err)
	idx := onep.SpecIndex(rb)
	for i := 0; i < pi.Len(); i++ {
		prod := pi.Product(i)
		require.LessOrEqual(Te, len(prod), 3)
		var deg float64
		suml, summ := 2, 0
		ii := make([]int, len(prod))
		for j, f := range prod {
			deg += rb.Degree(f)
			suml += f.L
			summ += f.M
			//reversed
			ii[len(prod)-1-j] = idx[f]
		}
		assert.LessOrEqual(Te, deg, 6+1e-12)
		assert.Zero(Te, suml%2)
		assert.LessOrEqual(Te, abs(summ), 2)
		k, ok := pi.Lookup(ii)
		assert.True(Te, ok)
		assert.Equal(Te, i, k)
	}
	c := randomCluster(Te, rand.New(rand.NewSource(1)), 6)
	v, err := pi.Evaluate(c)
	require.NoError(Te, err)
	A := make([]complex128, rb.Len())
	ev := rb.NewEvaluator()
	phi := make([]complex128, rb.Len())
	for j := 0; j < c.Len(); j++ {
		require.NoError(Te, ev.Evaluate(phi, c.Rs.Vec(j), 0))
		for i := range phi {
			A[i] += phi[i]
		}
	}
	for i := 0; i < pi.Len(); i++ {
		want := complex(1, 0)
		for _, f := range pi.Product(i) {
			want *= A[idx[f]]
		}
		assert.InDelta(Te, 0, cmplx.Abs(want-v[i]), 1e-12*(1+cmplx.Abs(want)))
	}
}

func TestCouplingPaths(Te *testing.T) {
	assert.Equal(Te, [][]int{{1, 0}}, couplingPaths([]int{1, 1}, 0))
	assert.Equal(Te, [][]int{{1, 0, 1}, {1, 1, 1}, {1, 2, 1}}, couplingPaths([]int{1, 1, 1}, 1))
	assert.Empty(Te, couplingPaths([]int{0, 0}, 1))
	assert.Equal(Te, [][]int{{2}}, couplingPaths([]int{2}, 2))
}

func TestInvariance(Te *testing.T) {
	rb := oneParticle(Te)
	b, err := NewSymmetricBasis(rb, 3, 6, Invariant{})
	require.NoError(Te, err)
	//6 of order 1; 9+4+1 pairs with l=0,1,2; 7 triples with l=(0,0,0) and 3 with l=(0,1,1).
	require.Equal(Te, 30, b.Len())
	rng := rand.New(rand.NewSource(2))
	for trial := 0; trial < 30; trial++ {
		c := randomCluster(Te, rng, 10)
		c2, err := c.Transformed(rng.Perm(10), wigner.RandomO3(rng))
		require.NoError(Te, err)
		B, err := b.Evaluate(c)
		require.NoError(Te, err)
		B2, err := b.Evaluate(c2)
		require.NoError(Te, err)
		d, n := cdiff(B, B2)
		assert.Less(Te, d, 1e-10*n, "trial %d", trial)
		for k := 0; k < b.Len(); k++ {
			assert.InDelta(Te, 0, imag(B.At(k, 0)), 1e-10*n)
		}
	}
	//deterministic
	b2, err := NewSymmetricBasis(rb, 3, 6, Invariant{})
	require.NoError(Te, err)
	assert.Equal(Te, b.Len(), b2.Len())
	assert.Equal(Te, b.PI().Len(), b2.PI().Len())
	assert.True(Te, mat.Equal(b.A2B(), b2.A2B()))
}

func TestCovariance(Te *testing.T) {
	rb := oneParticle(Te)
	for _, L := range []int{1, 2} {
		prop := SphericalVector{L: L}
		b, err := NewSymmetricBasis(rb, 3, 5, prop)
		require.NoError(Te, err)
		rng := rand.New(rand.NewSource(int64(3 + L)))
		dim := prop.Dim()
		for trial := 0; trial < 30; trial++ {
			c := randomCluster(Te, rng, 10)
			//proper rotations from Euler angles, and reflections
			var Q mat.Matrix = wigner.EulerZYZ(2*math.Pi*rng.Float64(), math.Pi*rng.Float64(), 2*math.Pi*rng.Float64())
			if trial%2 == 1 {
				Q = wigner.RandomO3(rng)
			}
			c2, err := c.Transformed(rng.Perm(10), Q)
			require.NoError(Te, err)
			D, err := prop.Transform(Q)
			require.NoError(Te, err)
			B, err := b.Evaluate(c)
			require.NoError(Te, err)
			B2, err := b.Evaluate(c2)
			require.NoError(Te, err)
			want := mat.NewCDense(b.Len(), dim, nil)
			row := make([]complex128, dim)
			for k := 0; k < b.Len(); k++ {
				for mu := range row {
					row[mu] = B.At(k, mu)
				}
				for mu, v := range wigner.Apply(D, row) {
					want.Set(k, mu, v)
				}
			}
			d, n := cdiff(want, B2)
			assert.Less(Te, d, 1e-10*n, "L=%d trial %d", L, trial)
		}
	}
}

func TestA2B(Te *testing.T) {
	rb := oneParticle(Te)
	b, err := NewSymmetricBasis(rb, 3, 5, Invariant{})
	require.NoError(Te, err)
	A2B := b.A2B()
	//the functions are linearly independent
	var svd mat.SVD
	require.True(Te, svd.Factorize(A2B, mat.SVDNone))
	s := svd.Values(nil)
	require.Len(Te, s, b.Len())
	assert.Greater(Te, s[len(s)-1], 1e-8*s[0])
	//every PI function is used
	r, c := A2B.Dims()
	for j := 0; j < c; j++ {
		nz := false
		for i := 0; i < r; i++ {
			if A2B.At(i, j) != 0 {
				nz = true
				break
			}
		}
		assert.True(Te, nz, "PI function %d unused", j)
	}
	//B = A2B*PI
	cl := randomCluster(Te, rand.New(rand.NewSource(4)), 8)
	pi, err := b.PI().Evaluate(cl)
	require.NoError(Te, err)
	B, err := b.Evaluate(cl)
	require.NoError(Te, err)
	for i := 0; i < r; i++ {
		var want complex128
		for j := 0; j < c; j++ {
			want += complex(A2B.At(i, j), 0) * pi[j]
		}
		assert.InDelta(Te, 0, cmplx.Abs(want-B.At(i, 0)), 1e-10*(1+cmplx.Abs(want)))
	}
	inv, err := b.EvaluateInvariant(cl)
	require.NoError(Te, err)
	for k, v := range inv {
		assert.Equal(Te, real(B.At(k, 0)), v)
	}
}

func TestGradient(Te *testing.T) {
	const h = 1e-6
	rb := oneParticle(Te)
	rng := rand.New(rand.NewSource(5))
	for _, prop := range []Property{Invariant{}, SphericalVector{L: 1}} {
		b, err := NewSymmetricBasis(rb, 3, 4, prop)
		require.NoError(Te, err)
		c := randomCluster(Te, rng, 5)
		B, dB, err := b.EvaluateGradient(c)
		require.NoError(Te, err)
		B0, err := b.Evaluate(c)
		require.NoError(Te, err)
		d, n := cdiff(B0, B)
		require.Less(Te, d, 1e-12*(1+n))
		require.Len(Te, dB, b.Len()*b.Dim())
		for j := 0; j < c.Len(); j++ {
			for x, u := range []r3.Vec{{X: 1}, {Y: 1}, {Z: 1}} {
				cp, err := c.Transformed(nil, nil)
				require.NoError(Te, err)
				cm, err := c.Transformed(nil, nil)
				require.NoError(Te, err)
				cp.Rs.SetVec(j, r3.Add(c.Rs.Vec(j), r3.Scale(h, u)))
				cm.Rs.SetVec(j, r3.Sub(c.Rs.Vec(j), r3.Scale(h, u)))
				Bp, err := b.Evaluate(cp)
				require.NoError(Te, err)
				Bm, err := b.Evaluate(cm)
				require.NoError(Te, err)
				for k := 0; k < b.Len(); k++ {
					for mu := 0; mu < b.Dim(); mu++ {
						fd := (Bp.At(k, mu) - Bm.At(k, mu)) / complex(2*h, 0)
						got := dB[k*b.Dim()+mu][j][x]
						assert.InDelta(Te, 0, cmplx.Abs(fd-got), 1e-5*(1+cmplx.Abs(fd)), "%s k=%d mu=%d j=%d", prop, k, mu, j)
					}
				}
			}
		}
	}
}

func TestEvaluateMany(Te *testing.T) {
	SetLogger(zaptest.NewLogger(Te))
	defer SetLogger(nil)
	rb := oneParticle(Te)
	b, err := NewSymmetricBasis(rb, 3, 5, SphericalVector{L: 1})
	require.NoError(Te, err)
	rng := rand.New(rand.NewSource(6))
	clusters := make([]*Cluster, 20)
	for i := range clusters {
		clusters[i] = randomCluster(Te, rng, 3+rng.Intn(8))
	}
	clusters[7] = &Cluster{}
	got, err := b.EvaluateMany(context.Background(), clusters, 4)
	require.NoError(Te, err)
	require.Len(Te, got, len(clusters))
	for i, c := range clusters {
		want, err := b.Evaluate(c)
		require.NoError(Te, err)
		d, _ := cdiff(want, got[i])
		assert.Zero(Te, d, "cluster %d", i)
	}
	//no neighbors, no density
	d, n := cdiff(got[7], got[7])
	assert.Zero(Te, d)
	assert.Zero(Te, n)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.EvaluateMany(ctx, clusters, 2)
	assert.True(Te, errors.Is(err, context.Canceled))

	bad := &Cluster{Rs: clusters[0].Rs.Clone()}
	bad.Rs.SetVec(0, r3.Vec{})
	_, err = b.EvaluateMany(context.Background(), append(clusters, bad), 3)
	assert.True(Te, errors.Is(err, ErrCluster))
}

func TestPole(Te *testing.T) {
	rb := oneParticle(Te)
	b, err := NewSymmetricBasis(rb, 2, 5, SphericalVector{L: 1})
	require.NoError(Te, err)
	c, err := NewCluster([]r3.Vec{{Z: 1.2}, {Z: -2}, {X: 1, Y: 1}}, 0)
	require.NoError(Te, err)
	B, dB, err := b.EvaluateGradient(c)
	require.NoError(Te, err)
	for k := 0; k < b.Len(); k++ {
		for mu := 0; mu < b.Dim(); mu++ {
			assert.False(Te, cmplx.IsNaN(B.At(k, mu)))
			for _, g := range dB[k*b.Dim()+mu] {
				for _, v := range g {
					assert.False(Te, cmplx.IsNaN(v))
				}
			}
		}
	}
}

func TestErrors(Te *testing.T) {
	rb := oneParticle(Te)
	_, err := NewSymmetricBasis(rb, 0, 6, Invariant{})
	assert.True(Te, errors.Is(err, ErrParameters))
	pi, err := BuildPIBasis(rb, 2, 4, Invariant{})
	require.NoError(Te, err)
	_, err = BuildSymmetricBasis(pi, SphericalVector{L: 1})
	assert.True(Te, errors.Is(err, ErrProperty))
	_, err = NewSymmetricBasis(rb, 1, 2, SphericalVector{L: 3})
	assert.True(Te, errors.Is(err, ErrEmptyBasis))
	_, err = NewCluster([]r3.Vec{{X: 1}, {}}, 0)
	assert.True(Te, errors.Is(err, ErrCluster))
	var e Error
	assert.True(Te, errors.As(err, &e))
	_, err = NewCluster([]r3.Vec{{X: 1}, {Y: math.NaN()}}, 0)
	assert.True(Te, errors.Is(err, ErrCluster))
	c, err := NewCluster([]r3.Vec{{X: 1}, {Y: 2}, {Z: 3}}, 0)
	require.NoError(Te, err)
	_, err = c.Transformed([]int{0, 0, 1}, nil)
	assert.True(Te, errors.Is(err, ErrCluster))
	_, err = c.Transformed(nil, mat.NewDense(3, 3, []float64{1, 1, 0, 0, 1, 0, 0, 0, 1}))
	assert.True(Te, errors.Is(err, ErrCluster))
	c2, err := c.Transformed(nil, nil)
	require.NoError(Te, err)
	c2.Rs.SetVec(0, r3.Vec{X: 5})
	assert.Equal(Te, r3.Vec{X: 1}, c.Rs.Vec(0))

	b, err := NewSymmetricBasis(rb, 2, 4, SphericalVector{L: 1})
	require.NoError(Te, err)
	_, err = b.EvaluateInvariant(randomCluster(Te, rand.New(rand.NewSource(7)), 3))
	assert.True(Te, errors.Is(err, ErrProperty))
	err = b.EvaluateWith(b.NewWorkspace(), &Cluster{}, mat.NewCDense(1, 1, nil))
	assert.True(Te, errors.Is(err, ErrParameters))
	b2, err := NewSymmetricBasis(rb, 2, 4, SphericalVector{L: 1})
	require.NoError(Te, err)
	err = b.EvaluateWith(b2.NewWorkspace(), &Cluster{}, mat.NewCDense(b.Len(), b.Dim(), nil))
	assert.True(Te, errors.Is(err, ErrParameters))
	_, err = ParseProperty("tensor", 2)
	assert.True(Te, errors.Is(err, ErrProperty))
	p, err := ParseProperty("vector", 2)
	require.NoError(Te, err)
	assert.Equal(Te, SphericalVector{L: 2}, p)
}
