/*
 * rylm.go, part of goace.
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

package onep

import (
	"fmt"
	"math"

	"github.com/rmera/goace/sphharm"
	"gonum.org/v1/gonum/spatial/r3"
)

// RYlmParams are the parameters that define an RYlm basis.
type RYlmParams struct {
	MaxDeg float64 `json:"maxdeg" yaml:"maxdeg"` //the largest degree n+WL*l of a function
	WL     float64 `json:"wl" yaml:"wl"`         //weight of the angular degree
	RIn    float64 `json:"rin" yaml:"rin"`       //distances [RIn,RCut] are mapped to [-1,1]
	RCut   float64 `json:"rcut" yaml:"rcut"`     //all functions vanish beyond RCut
}

// Check returns an error if the parameters don't define a basis.
func (p RYlmParams) Check() error {
	if p.MaxDeg < 1 || p.WL <= 0 || p.RIn < 0 || p.RCut <= p.RIn {
		return newError(ErrParameters, fmt.Sprintf("%+v", p), "RYlmParams.Check")
	}
	return nil
}

// RYlm is the basis phi_nlm(R) = R_n(r) Y_lm(R/r), n>=1, with degree n+WL*l.
// The radial functions are orthonormal Legendre polynomials of the distance,
// linearly mapped from [RIn,RCut] to [-1,1], times the envelope (1-(r/RCut)^2)^2,
// which goes smoothly to zero at the cutoff. The functions are ordered by n, then l, then m.
// RYlm does not depend on the species of the central atom.
type RYlm struct {
	p    RYlmParams
	maxn int
	maxl int
	sh   *sphharm.SHBasis
	spec []NLM
}

// NewRYlm returns the basis with all the functions of degree up to p.MaxDeg.
func NewRYlm(p RYlmParams) (*RYlm, error) {
	if err := p.Check(); err != nil {
		return nil, errDecorate(err, "NewRYlm")
	}
	b := &RYlm{p: p}
	b.maxn = int(math.Floor(p.MaxDeg + 1e-12))
	b.maxl = int(math.Floor((p.MaxDeg-1)/p.WL + 1e-12))
	var err error
	b.sh, err = sphharm.NewSHBasis(b.maxl)
	if err != nil {
		return nil, newError(ErrParameters, err.Error(), "NewRYlm")
	}
	for n := 1; n <= b.maxn; n++ {
		for l := 0; l <= b.maxl; l++ {
			if b.Degree(NLM{N: n, L: l}) > p.MaxDeg+1e-12 {
				break
			}
			for m := -l; m <= l; m++ {
				b.spec = append(b.spec, NLM{N: n, L: l, M: m})
			}
		}
	}
	return b, nil
}

// Params returns the parameters of the basis.
func (b *RYlm) Params() RYlmParams { return b.p }

// Len returns the number of functions in the basis.
func (b *RYlm) Len() int { return len(b.spec) }

// MaxN returns the largest radial index.
func (b *RYlm) MaxN() int { return b.maxn }

// MaxL returns the largest angular degree.
func (b *RYlm) MaxL() int { return b.maxl }

// Spec returns the labels of the functions. The slice must not be modified.
func (b *RYlm) Spec() []NLM { return b.spec }

// Degree returns n+WL*l
func (b *RYlm) Degree(f NLM) float64 {
	return float64(f.N) + b.p.WL*float64(f.L)
}

// NewEvaluator returns a new evaluator for the basis.
func (b *RYlm) NewEvaluator() Evaluator {
	return &rylmEvaluator{
		b:    b,
		sh:   b.sh.NewEvaluator(),
		Y:    make([]complex128, b.sh.Len()),
		dY:   make([]CVec, b.sh.Len()),
		rad:  make([]float64, b.maxn+1),
		drad: make([]float64, b.maxn+1),
	}
}

// radial puts in rad[n] the radial function n at distance r, and in drad[n] its derivative.
// rad[0] is not used.
func (b *RYlm) radial(r float64, rad, drad []float64) {
	if r >= b.p.RCut {
		for i := range rad {
			rad[i] = 0
			drad[i] = 0
		}
		return
	}
	w := b.p.RCut - b.p.RIn
	t := 2*(r-b.p.RIn)/w - 1
	dtdr := 2 / w
	u := r / b.p.RCut
	env := (1 - u*u) * (1 - u*u)
	denv := -4 * (1 - u*u) * u / b.p.RCut
	//Legendre polynomials P_k(t) and their derivatives, by Bonnet's recursion.
	p0, p1 := 1.0, t
	dp0, dp1 := 0.0, 1.0
	for n := 1; n <= b.maxn; n++ {
		k := n - 1 //polynomial degree
		var p, dp float64
		switch k {
		case 0:
			p, dp = p0, dp0
		case 1:
			p, dp = p1, dp1
		default:
			fk := float64(k)
			p = ((2*fk-1)*t*p1 - (fk-1)*p0) / fk
			dp = ((2*fk-1)*(p1+t*dp1) - (fk-1)*dp0) / fk
			p0, p1 = p1, p
			dp0, dp1 = dp1, dp
		}
		norm := math.Sqrt(float64(2*k+1) / 2)
		rad[n] = norm * p * env
		drad[n] = norm * (dp*dtdr*env + p*denv)
	}
}

type rylmEvaluator struct {
	b    *RYlm
	sh   *sphharm.Evaluator
	Y    []complex128
	dY   []CVec
	rad  []float64
	drad []float64
}

func (e *rylmEvaluator) Evaluate(dst []complex128, R r3.Vec, z0 int) error {
	if len(dst) < e.b.Len() {
		return newError(ErrBufferSize, fmt.Sprintf("%d < %d", len(dst), e.b.Len()), "RYlm.Evaluate")
	}
	if err := e.sh.Evaluate(e.Y, R); err != nil {
		return newError(ErrPosition, err.Error(), "RYlm.Evaluate")
	}
	e.b.radial(r3.Norm(R), e.rad, e.drad)
	for i, f := range e.b.spec {
		dst[i] = complex(e.rad[f.N], 0) * e.Y[sphharm.Index(f.L, f.M)]
	}
	return nil
}

func (e *rylmEvaluator) EvaluateD(dst []complex128, ddst []CVec, R r3.Vec, z0 int) error {
	if len(dst) < e.b.Len() || len(ddst) < e.b.Len() {
		return newError(ErrBufferSize, fmt.Sprintf("%d,%d < %d", len(dst), len(ddst), e.b.Len()), "RYlm.EvaluateD")
	}
	if err := e.sh.EvaluateGradient(e.Y, e.dY, R); err != nil {
		return newError(ErrPosition, err.Error(), "RYlm.EvaluateD")
	}
	r := r3.Norm(R)
	e.b.radial(r, e.rad, e.drad)
	rhat := r3.Scale(1/r, R)
	crhat := CVec{complex(rhat.X, 0), complex(rhat.Y, 0), complex(rhat.Z, 0)}
	for i, f := range e.b.spec {
		y := e.Y[sphharm.Index(f.L, f.M)]
		rad := complex(e.rad[f.N], 0)
		dst[i] = rad * y
		//grad(R_n Y) = R_n' rhat Y + R_n grad(Y)
		ddst[i] = crhat.Scale(complex(e.drad[f.N], 0) * y).Add(e.dY[sphharm.Index(f.L, f.M)].Scale(rad))
	}
	return nil
}
