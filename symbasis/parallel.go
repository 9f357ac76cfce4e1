/*
 * parallel.go, part of goace.
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
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// EvaluateMany evaluates the basis for each cluster, using up to workers goroutines,
// each with its own Workspace. workers<1 means runtime.GOMAXPROCS(0).
// The results are in the same order as the clusters. The first error, or the
// cancellation of ctx, stops the evaluation.
func (b *SymmetricBasis) EvaluateMany(ctx context.Context, clusters []*Cluster, workers int) ([]*mat.CDense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(clusters) {
		workers = len(clusters)
	}
	ret := make([]*mat.CDense, len(clusters))
	if len(clusters) == 0 {
		return ret, nil
	}
	g, ctx := errgroup.WithContext(ctx)
	next := make(chan int)
	g.Go(func() error {
		defer close(next)
		for i := range clusters {
			select {
			case next <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			ws := b.NewWorkspace()
			for i := range next {
				v := mat.NewCDense(b.n, b.Dim(), nil)
				if err := b.EvaluateWith(ws, clusters[i], v); err != nil {
					return newError(ErrCluster, fmt.Sprintf("cluster %d: %s", i, err.Error()), "SymmetricBasis.EvaluateMany")
				}
				ret[i] = v
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	Logger().Debug("evaluated clusters", zap.Int("clusters", len(clusters)), zap.Int("workers", workers))
	return ret, nil
}
