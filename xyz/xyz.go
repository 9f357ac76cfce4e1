/*
 * xyz.go, part of goace.
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
Package xyz reads structures in the XYZ format, possibly with several frames,
and cuts them into the atomic environments (clusters) on which symmetric
bases are evaluated.
*/
package xyz

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rmera/goace/symbasis"
	v3 "github.com/rmera/goace/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Frame is one structure from an XYZ file.
type Frame struct {
	Symbols []string
	Z       []int
	Coords  *v3.Matrix
	Comment string
}

// Len returns the number of atoms in the frame.
func (f *Frame) Len() int { return len(f.Symbols) }

// Read reads all the frames in r.
func Read(r io.Reader) ([]*Frame, error) {
	xyz := bufio.NewReader(r)
	var frames []*Frame
	for {
		f, err := readFrame(xyz, len(frames))
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errDecorate(err, "Read")
		}
		frames = append(frames, f)
	}
	if len(frames) == 0 {
		return nil, newError(ErrFormat, "no frames", "Read")
	}
	return frames, nil
}

// ReadFile reads all the frames in the file name.
func ReadFile(name string) ([]*Frame, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	frames, err := Read(f)
	if err != nil {
		return nil, errDecorate(err, "ReadFile")
	}
	return frames, nil
}

// readFrame reads one frame, returning io.EOF if there is nothing left to read.
func readFrame(xyz *bufio.Reader, nframe int) (*Frame, error) {
	var line string
	var err error
	//blank lines between frames are tolerated
	for {
		line, err = xyz.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			break
		}
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, newError(ErrFormat, err.Error(), "readFrame")
		}
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms < 1 {
		return nil, newError(ErrFormat, fmt.Sprintf("frame %d: bad number of atoms %q", nframe, strings.TrimSpace(line)), "readFrame")
	}
	f := &Frame{Symbols: make([]string, natoms), Z: make([]int, natoms)}
	comment, err := xyz.ReadString('\n')
	if err != nil {
		return nil, newError(ErrFormat, fmt.Sprintf("frame %d: missing comment line", nframe), "readFrame")
	}
	f.Comment = strings.TrimSpace(comment)
	coords := make([]float64, 3*natoms)
	for i := 0; i < natoms; i++ {
		line, err = xyz.ReadString('\n')
		if err != nil && (err != io.EOF || i != natoms-1) {
			return nil, newError(ErrFormat, fmt.Sprintf("frame %d: %d atoms read, %d expected", nframe, i, natoms), "readFrame")
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, newError(ErrFormat, fmt.Sprintf("frame %d: line for atom %d ill formed", nframe, i), "readFrame")
		}
		f.Symbols[i] = fields[0]
		var ok bool
		f.Z[i], ok = Z(fields[0])
		if !ok {
			return nil, newError(ErrElement, fmt.Sprintf("frame %d, atom %d: %s", nframe, i, fields[0]), "readFrame")
		}
		for j := 0; j < 3; j++ {
			coords[3*i+j], err = strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return nil, newError(ErrFormat, fmt.Sprintf("frame %d, atom %d: %s", nframe, i, err.Error()), "readFrame")
			}
		}
	}
	f.Coords, err = v3.NewMatrix(coords)
	if err != nil {
		return nil, newError(ErrFormat, err.Error(), "readFrame")
	}
	return f, nil
}

// Clusters returns one cluster per atom of the frame, with the positions, relative
// to that atom, of all the other atoms closer than cutoff. If species is not empty,
// only atoms whose atomic numbers are in species are taken as centers and neighbors.
func (f *Frame) Clusters(cutoff float64, species ...int) ([]*symbasis.Cluster, error) {
	if cutoff <= 0 {
		return nil, newError(ErrCutoff, fmt.Sprintf("%g", cutoff), "Frame.Clusters")
	}
	cands := f.Centers(species...)
	if len(cands) == 0 {
		return nil, nil
	}
	rel := v3.Zeros(len(cands))
	norms := make([]float64, len(cands))
	var ret []*symbasis.Cluster
	for _, i := range cands {
		c := f.Coords.Vec(i)
		rel.SomeVecs(f.Coords, cands)
		for k := range cands {
			rel.SetVec(k, r3.Sub(rel.Vec(k), c))
		}
		norms = rel.Norms(norms)
		var neigh []r3.Vec
		for k, j := range cands {
			if j != i && norms[k] < cutoff {
				neigh = append(neigh, rel.Vec(k))
			}
		}
		cl, err := symbasis.NewCluster(neigh, f.Z[i])
		if err != nil {
			return nil, newError(ErrFormat, fmt.Sprintf("atom %d: %s", i, err.Error()), "Frame.Clusters")
		}
		ret = append(ret, cl)
	}
	return ret, nil
}

func allowed(z int, species []int) bool {
	if len(species) == 0 {
		return true
	}
	for _, v := range species {
		if v == z {
			return true
		}
	}
	return false
}

// Centers returns the indexes of the atoms with atomic numbers in species,
// or of all the atoms if species is empty. Those are the centers of the
// clusters returned by Clusters.
func (f *Frame) Centers(species ...int) []int {
	var ret []int
	for i, z := range f.Z {
		if allowed(z, species) {
			ret = append(ret, i)
		}
	}
	return ret
}
