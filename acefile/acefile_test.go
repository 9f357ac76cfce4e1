/*
 * acefile_test.go, part of goace.
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

package acefile

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rmera/goace/onep"
	"github.com/rmera/goace/symbasis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func testBasis(Te *testing.T) *symbasis.SymmetricBasis {
	rb, err := onep.NewRYlm(onep.RYlmParams{MaxDeg: 5, WL: 1.5, RIn: 0.5, RCut: 4})
	require.NoError(Te, err)
	b, err := symbasis.NewSymmetricBasis(rb, 3, 5, symbasis.SphericalVector{L: 1})
	require.NoError(Te, err)
	return b
}

func TestRoundTrip(Te *testing.T) {
	b := testBasis(Te)
	d, err := Describe(b, 6, 8)
	require.NoError(Te, err)
	assert.Equal(Te, "vector", d.Property)
	assert.Equal(Te, 1, d.L)
	for _, c := range []Compression{Zstd, Gzip, None} {
		var buf bytes.Buffer
		require.NoError(Te, Write(&buf, d, c))
		d2, err := Read(&buf, c)
		require.NoError(Te, err)
		assert.Equal(Te, d, d2)
	}
	name := filepath.Join(Te.TempDir(), "basis.ace.zst")
	require.NoError(Te, WriteFile(name, d))
	d2, err := ReadFile(name)
	require.NoError(Te, err)
	b2, err := Rebuild(d2)
	require.NoError(Te, err)
	assert.Equal(Te, b.Len(), b2.Len())
	assert.True(Te, mat.Equal(b.A2B(), b2.A2B()))
	c, err := symbasis.NewCluster([]r3.Vec{{X: 1, Y: 0.2}, {Y: -1.5, Z: 0.3}, {X: 0.4, Y: 0.7, Z: 2}}, 6)
	require.NoError(Te, err)
	v, err := b.Evaluate(c)
	require.NoError(Te, err)
	v2, err := b2.Evaluate(c)
	require.NoError(Te, err)
	assert.True(Te, mat.CEqual(v, v2))
}

func TestCompressionFor(Te *testing.T) {
	assert.Equal(Te, Zstd, CompressionFor("basis.ace"))
	assert.Equal(Te, Zstd, CompressionFor("basis.ace.zst"))
	assert.Equal(Te, Gzip, CompressionFor("basis.ace.GZ"))
	assert.Equal(Te, None, CompressionFor("basis.json"))
}

func TestErrors(Te *testing.T) {
	_, err := Read(bytes.NewBufferString(`{"version": 7}`), None)
	assert.True(Te, errors.Is(err, ErrFormat))
	_, err = Read(bytes.NewBufferString("not zstd"), Zstd)
	assert.True(Te, errors.Is(err, ErrFormat))
	d, err := Describe(testBasis(Te))
	require.NoError(Te, err)
	d.Len++
	_, err = Rebuild(d)
	assert.True(Te, errors.Is(err, ErrMismatch))
	d.Len--
	d.Property = "tensor"
	_, err = Rebuild(d)
	assert.True(Te, errors.Is(err, ErrFormat))
}
