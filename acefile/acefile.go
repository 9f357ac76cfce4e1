/*
 * acefile.go, part of goace.
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
Package acefile stores the parameters of symmetric bases, so that they can be rebuilt
exactly. A descriptor is a JSON document, compressed with z-standard unless the
file name says otherwise (.json for plain text, .gz for gzip).

The functions of a basis are fully determined by its parameters, so the descriptor
doesn't store them, only a few numbers that allow checking the rebuilt basis.
*/
package acefile

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rmera/goace/onep"
	"github.com/rmera/goace/symbasis"
)

// Version is the current version of the descriptor format.
const Version = 1

// Descriptor holds what is needed to rebuild a symmetric basis with an RYlm
// one-particle basis.
type Descriptor struct {
	Version  int             `json:"version"`
	Radial   onep.RYlmParams `json:"radial"`
	Order    int             `json:"order"`
	MaxDeg   float64         `json:"maxdeg"`
	Property string          `json:"property"`
	L        int             `json:"L"`
	Species  []int           `json:"species,omitempty"`
	Len      int             `json:"len"`
	PILen    int             `json:"pilen"`
	NonZeros int             `json:"nonzeros"`
}

// Describe returns the descriptor for b. The one-particle basis of b must be an RYlm.
func Describe(b *symbasis.SymmetricBasis, species ...int) (*Descriptor, error) {
	pi := b.PI()
	rb, ok := pi.OneParticle().(*onep.RYlm)
	if !ok {
		return nil, newError(ErrBasis, fmt.Sprintf("one-particle basis %T", pi.OneParticle()), "Describe")
	}
	d := &Descriptor{
		Version:  Version,
		Radial:   rb.Params(),
		Order:    pi.Order(),
		MaxDeg:   pi.MaxDeg(),
		L:        b.Property().Rank(),
		Species:  species,
		Len:      b.Len(),
		PILen:    pi.Len(),
		NonZeros: b.NonZeros(),
	}
	switch b.Property().(type) {
	case symbasis.Invariant:
		d.Property = "invariant"
	case symbasis.SphericalVector:
		d.Property = "vector"
	default:
		return nil, newError(ErrBasis, fmt.Sprintf("property %s", b.Property()), "Describe")
	}
	return d, nil
}

// Rebuild builds the basis described by d, and checks that it matches the descriptor.
func Rebuild(d *Descriptor) (*symbasis.SymmetricBasis, error) {
	if d == nil || d.Version < 1 || d.Version > Version {
		return nil, newError(ErrFormat, "nil descriptor or unsupported version", "Rebuild")
	}
	rb, err := onep.NewRYlm(d.Radial)
	if err != nil {
		return nil, newError(ErrFormat, err.Error(), "Rebuild")
	}
	prop, err := symbasis.ParseProperty(d.Property, d.L)
	if err != nil {
		return nil, newError(ErrFormat, err.Error(), "Rebuild")
	}
	b, err := symbasis.NewSymmetricBasis(rb, d.Order, d.MaxDeg, prop)
	if err != nil {
		return nil, newError(ErrFormat, err.Error(), "Rebuild")
	}
	if b.Len() != d.Len || b.PI().Len() != d.PILen || b.NonZeros() != d.NonZeros {
		return nil, newError(ErrMismatch, fmt.Sprintf("len %d/%d pi %d/%d nonzeros %d/%d", b.Len(), d.Len, b.PI().Len(), d.PILen, b.NonZeros(), d.NonZeros), "Rebuild")
	}
	return b, nil
}

// Compression is the way a descriptor is compressed.
type Compression int

const (
	Zstd Compression = iota
	Gzip
	None
)

// CompressionFor returns the compression that corresponds to the file name.
func CompressionFor(name string) Compression {
	name = strings.ToLower(name)
	switch {
	case strings.HasSuffix(name, ".gz"):
		return Gzip
	case strings.HasSuffix(name, ".json"):
		return None
	}
	return Zstd
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Write writes d to w with the given compression.
func Write(w io.Writer, d *Descriptor, c Compression) error {
	var cw io.WriteCloser
	var err error
	switch c {
	case Gzip:
		cw = gzip.NewWriter(w)
	case None:
		cw = nopCloser{w}
	default:
		cw, err = zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return newError(ErrFormat, err.Error(), "Write")
		}
	}
	enc := json.NewEncoder(cw)
	enc.SetIndent("", "  ")
	if err = enc.Encode(d); err != nil {
		cw.Close()
		return newError(ErrFormat, err.Error(), "Write")
	}
	if err = cw.Close(); err != nil {
		return newError(ErrFormat, err.Error(), "Write")
	}
	return nil
}

// Read reads a descriptor compressed with c from r.
func Read(r io.Reader, c Compression) (*Descriptor, error) {
	var cr io.Reader
	switch c {
	case Gzip:
		g, err := gzip.NewReader(r)
		if err != nil {
			return nil, newError(ErrFormat, err.Error(), "Read")
		}
		defer g.Close()
		cr = g
	case None:
		cr = r
	default:
		z, err := zstd.NewReader(r)
		if err != nil {
			return nil, newError(ErrFormat, err.Error(), "Read")
		}
		defer z.Close()
		cr = z
	}
	d := new(Descriptor)
	if err := json.NewDecoder(cr).Decode(d); err != nil {
		return nil, newError(ErrFormat, err.Error(), "Read")
	}
	if d.Version < 1 || d.Version > Version {
		return nil, newError(ErrFormat, fmt.Sprintf("unsupported version %d", d.Version), "Read")
	}
	return d, nil
}

// WriteFile writes d to the file name, compressed according to the name.
func WriteFile(name string, d *Descriptor) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err = Write(f, d, CompressionFor(name)); err != nil {
		f.Close()
		return errDecorate(err, "WriteFile")
	}
	return f.Close()
}

// ReadFile reads a descriptor from the file name.
func ReadFile(name string) (*Descriptor, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := Read(f, CompressionFor(name))
	if err != nil {
		return nil, errDecorate(err, "ReadFile")
	}
	return d, nil
}
