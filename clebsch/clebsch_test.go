/*
 * clebsch_test.go, part of goace.
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

package clebsch

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownValues(Te *testing.T) {
	cases := []struct {
		j1, m1, j2, m2, j3, m3 int
		want                   float64
	}{
		{1, 1, 1, -1, 0, 0, 1 / math.Sqrt(3)},
		{1, 0, 1, 0, 0, 0, -1 / math.Sqrt(3)},
		{1, 0, 1, 0, 2, 0, math.Sqrt(2.0 / 3.0)},
		{1, 1, 1, -1, 2, 0, 1 / math.Sqrt(6)},
		{1, 1, 1, -1, 1, 0, 1 / math.Sqrt(2)},
		{1, 0, 1, 0, 1, 0, 0},
		{2, 2, 3, 3, 5, 5, 1},
		{0, 0, 4, -2, 4, -2, 1},
		{2, 0, 2, 0, 0, 0, 1 / math.Sqrt(5)},
	}
	for _, c := range cases {
		got := CG(c.j1, c.m1, c.j2, c.m2, c.j3, c.m3)
		assert.InDelta(Te, c.want, got, 1e-15, "%+v", c)
	}
}

func TestSelectionRules(Te *testing.T) {
	for j1 := 0; j1 <= 4; j1++ {
		for j2 := 0; j2 <= 4; j2++ {
			for j3 := 0; j3 <= 4; j3++ {
				for m1 := -j1; m1 <= j1; m1++ {
					for m2 := -j2; m2 <= j2; m2++ {
						for m3 := -j3; m3 <= j3; m3++ {
							if m3 != m1+m2 || !Triangle(j1, j2, j3) {
								require.Zero(Te, CG(j1, m1, j2, m2, j3, m3))
							}
						}
					}
				}
			}
		}
	}
	assert.Zero(Te, CG(1, 2, 1, -2, 0, 0))
}

// sum_{m1,m2} <j1 m1 j2 m2|J M><j1 m1 j2 m2|J' M'> = delta_JJ' delta_MM'
func TestOrthonormality(Te *testing.T) {
	for _, js := range [][2]int{{1, 1}, {2, 3}, {4, 4}, {12, 9}} {
		j1, j2 := js[0], js[1]
		for J := abs(j1 - j2); J <= j1+j2; J++ {
			for Jp := abs(j1 - j2); Jp <= j1+j2; Jp++ {
				for M := -min(J, Jp); M <= min(J, Jp); M++ {
					var s float64
					for m1 := -j1; m1 <= j1; m1++ {
						m2 := M - m1
						if abs(m2) > j2 {
							continue
						}
						s += CG(j1, m1, j2, m2, J, M) * CG(j1, m1, j2, m2, Jp, M)
					}
					want := 0.0
					if J == Jp {
						want = 1
					}
					require.InDelta(Te, want, s, 1e-12, "j1=%d j2=%d J=%d J'=%d M=%d", j1, j2, J, Jp, M)
				}
			}
		}
	}
}

func TestSymmetry(Te *testing.T) {
	for j1 := 0; j1 <= 3; j1++ {
		for j2 := 0; j2 <= 3; j2++ {
			for J := abs(j1 - j2); J <= j1+j2; J++ {
				sig := 1.0
				if (j1+j2-J)%2 != 0 {
					sig = -1
				}
				for m1 := -j1; m1 <= j1; m1++ {
					for m2 := -j2; m2 <= j2; m2++ {
						if abs(m1+m2) > J {
							continue
						}
						a := CG(j1, m1, j2, m2, J, m1+m2)
						assert.InDelta(Te, sig*a, CG(j2, m2, j1, m1, J, m1+m2), 1e-14)
						assert.InDelta(Te, sig*a, CG(j1, -m1, j2, -m2, J, -m1-m2), 1e-14)
					}
				}
			}
		}
	}
}

func TestTable(Te *testing.T) {
	t := NewTable()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m1 := -3; m1 <= 3; m1++ {
				for m2 := -2; m2 <= 2; m2++ {
					assert.Equal(Te, CG(3, m1, 2, m2, 4, m1+m2), t.CG(3, m1, 2, m2, 4, m1+m2))
				}
			}
		}()
	}
	wg.Wait()
	assert.True(Te, errors.Is(Valid(2, 3), ErrInvalidMomentum))
	assert.NoError(Te, Valid(2, -2))
}
