/*
 * commands.go, part of goace.
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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rmera/goace/acefile"
	"github.com/rmera/goace/histo"
	"github.com/rmera/goace/onep"
	"github.com/rmera/goace/symbasis"
	"github.com/rmera/goace/xyz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

var (
	outFile   string
	basisFile string
	positions string
	workers   int
	cutoff    float64
	bins      int
	asJSON    bool
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print a summary of the basis",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, _, err := loadBasis()
		if err != nil {
			return err
		}
		return printInfo(cmd.OutOrStdout(), b)
	},
}

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Build the basis and write its descriptor",
	Long: `Build the basis and write its descriptor to the file given by --out.
The descriptor is compressed with z-standard, unless the file name ends in
.gz (gzip) or .json (no compression).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if outFile == "" {
			return fmt.Errorf("an output file (--out) is needed")
		}
		c, err := LoadConfig(configFile)
		if err != nil {
			return err
		}
		b, err := c.Build()
		if err != nil {
			return err
		}
		z, err := c.SpeciesZ()
		if err != nil {
			return err
		}
		d, err := acefile.Describe(b, z...)
		if err != nil {
			return err
		}
		if err := acefile.WriteFile(outFile, d); err != nil {
			return err
		}
		logger.Info("descriptor written", zap.String("file", outFile), zap.Int("functions", b.Len()))
		return nil
	},
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate the basis on the environments of each atom of an XYZ file",
	Long: `Evaluate the basis on the environment of each atom in each frame of the XYZ
file given by --positions. One line is printed per atom, with the frame and atom
indexes followed by the values of the basis functions. Invariant bases print
real numbers; other bases print the 2L+1 complex components of each function.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if positions == "" {
			return fmt.Errorf("a positions file (--positions) is needed")
		}
		b, species, err := loadBasis()
		if err != nil {
			return err
		}
		rcut := cutoff
		if rb, ok := b.PI().OneParticle().(*onep.RYlm); ok && rcut <= 0 {
			rcut = rb.Params().RCut
		}
		frames, err := xyz.ReadFile(positions)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return evaluate(ctx, cmd.OutOrStdout(), b, frames, rcut, species)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the values of the basis functions over the environments of an XYZ file",
	Long: `Evaluate the basis on every environment of the XYZ file given by --positions, and
print, for each basis function, the mean, standard deviation, extremes and a
histogram of its values. For non-invariant bases the rotation-invariant norm
of the components of each function is used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if positions == "" {
			return fmt.Errorf("a positions file (--positions) is needed")
		}
		b, species, err := loadBasis()
		if err != nil {
			return err
		}
		rcut := cutoff
		if rb, ok := b.PI().OneParticle().(*onep.RYlm); ok && rcut <= 0 {
			rcut = rb.Params().RCut
		}
		frames, err := xyz.ReadFile(positions)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		sums, err := summarize(ctx, b, frames, rcut, species, bins)
		if err != nil {
			return err
		}
		return printSummaries(cmd.OutOrStdout(), sums, asJSON)
	},
}

func init() {
	statsCmd.Flags().StringVarP(&positions, "positions", "p", "", "XYZ file with the structures")
	statsCmd.Flags().StringVarP(&basisFile, "basis", "b", "", "descriptor file to rebuild the basis from, instead of --config")
	statsCmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of concurrent evaluations (0 means one per CPU)")
	statsCmd.Flags().Float64Var(&cutoff, "cutoff", 0, "neighbor cutoff radius (0 means the radial cutoff of the basis)")
	statsCmd.Flags().IntVar(&bins, "bins", 10, "number of bins of each histogram (0 for none)")
	statsCmd.Flags().BoolVar(&asJSON, "json", false, "print the summaries as JSON")
	writeCmd.Flags().StringVarP(&outFile, "out", "o", "", "output descriptor file")
	evalCmd.Flags().StringVarP(&positions, "positions", "p", "", "XYZ file with the structures")
	evalCmd.Flags().StringVarP(&basisFile, "basis", "b", "", "descriptor file to rebuild the basis from, instead of --config")
	evalCmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of concurrent evaluations (0 means one per CPU)")
	evalCmd.Flags().Float64Var(&cutoff, "cutoff", 0, "neighbor cutoff radius (0 means the radial cutoff of the basis)")
	infoCmd.Flags().StringVarP(&basisFile, "basis", "b", "", "descriptor file to rebuild the basis from, instead of --config")
}

// loadBasis builds the basis from the descriptor file, if given, or from the configuration.
// It also returns the species the basis is meant for.
func loadBasis() (*symbasis.SymmetricBasis, []int, error) {
	if basisFile != "" {
		d, err := acefile.ReadFile(basisFile)
		if err != nil {
			return nil, nil, err
		}
		b, err := acefile.Rebuild(d)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("basis rebuilt", zap.String("file", basisFile))
		return b, d.Species, nil
	}
	c, err := LoadConfig(configFile)
	if err != nil {
		return nil, nil, err
	}
	b, err := c.Build()
	if err != nil {
		return nil, nil, err
	}
	z, err := c.SpeciesZ()
	return b, z, err
}

func printInfo(w io.Writer, b *symbasis.SymmetricBasis) error {
	pi := b.PI()
	byOrder := make([]int, pi.Order()+1)
	for k := 0; k < b.Len(); k++ {
		byOrder[len(b.Label(k))]++
	}
	fmt.Fprintf(w, "property:           %s\n", b.Property())
	fmt.Fprintf(w, "functions:          %d\n", b.Len())
	fmt.Fprintf(w, "components:         %d\n", b.Dim())
	fmt.Fprintf(w, "one-particle basis: %d\n", pi.OneParticle().Len())
	fmt.Fprintf(w, "PI functions:       %d\n", pi.Len())
	fmt.Fprintf(w, "A2B non-zeros:      %d\n", b.NonZeros())
	for n := 1; n < len(byOrder); n++ {
		fmt.Fprintf(w, "order %d:            %d\n", n, byOrder[n])
	}
	return nil
}

func evaluate(ctx context.Context, w io.Writer, b *symbasis.SymmetricBasis, frames []*xyz.Frame, rcut float64, species []int) error {
	_, invariant := b.Property().(symbasis.Invariant)
	for i, f := range frames {
		clusters, err := f.Clusters(rcut, species...)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		vals, err := b.EvaluateMany(ctx, clusters, workers)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		centers := f.Centers(species...)
		for j, v := range vals {
			var line strings.Builder
			fmt.Fprintf(&line, "%d %d %s", i, centers[j], f.Symbols[centers[j]])
			writeValues(&line, v, invariant)
			line.WriteByte('\n')
			if _, err := io.WriteString(w, line.String()); err != nil {
				return err
			}
		}
		logger.Debug("frame evaluated", zap.Int("frame", i), zap.Int("clusters", len(clusters)))
	}
	return nil
}

func writeValues(sb *strings.Builder, v *mat.CDense, invariant bool) {
	r, c := v.Dims()
	for k := 0; k < r; k++ {
		for mu := 0; mu < c; mu++ {
			sb.WriteByte(' ')
			x := v.At(k, mu)
			if invariant {
				sb.WriteString(strconv.FormatFloat(real(x), 'g', 12, 64))
				continue
			}
			sb.WriteString(strconv.FormatComplex(x, 'g', 12, 128))
		}
	}
}

// invariantValue returns the value of the kth function if v comes from an invariant basis,
// or the norm of its components otherwise.
func invariantValue(v *mat.CDense, k int, invariant bool) float64 {
	if invariant {
		return real(v.At(k, 0))
	}
	_, c := v.Dims()
	var s float64
	for mu := 0; mu < c; mu++ {
		x := v.At(k, mu)
		s += real(x)*real(x) + imag(x)*imag(x)
	}
	return math.Sqrt(s)
}

func summarize(ctx context.Context, b *symbasis.SymmetricBasis, frames []*xyz.Frame, rcut float64, species []int, bins int) ([]histo.Summary, error) {
	_, invariant := b.Property().(symbasis.Invariant)
	values := make([][]float64, b.Len())
	for i, f := range frames {
		clusters, err := f.Clusters(rcut, species...)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		vals, err := b.EvaluateMany(ctx, clusters, workers)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		for _, v := range vals {
			for k := range values {
				values[k] = append(values[k], invariantValue(v, k, invariant))
			}
		}
	}
	ret := make([]histo.Summary, b.Len())
	for k, v := range values {
		ret[k] = histo.Summarize(v, bins, k)
	}
	return ret, nil
}

func printSummaries(w io.Writer, sums []histo.Summary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sums)
	}
	for k, s := range sums {
		if _, err := fmt.Fprintf(w, "%4d n=%d mean=%.6g std=%.6g min=%.6g max=%.6g\n", k, s.N, s.Mean, s.Std, s.Min, s.Max); err != nil {
			return err
		}
		if s.Histo != nil {
			fmt.Fprintf(w, "%s\n", s.Histo)
		}
	}
	return nil
}
