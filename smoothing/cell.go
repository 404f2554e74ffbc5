// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smoothing

import (
	"github.com/cpmech/lagoon/neighbor"
	"github.com/cpmech/lagoon/particle"
	"github.com/cpmech/lagoon/tree"
)

// hmaxGrowth is the monotonic expansion factor applied to a cell's gather
// radius when any active particle's trial h reaches beyond it
// (spec.md §4.5: "expand hmax by 1.05x").
const hmaxGrowth = 1.05

// SolveCell runs the smoothing-length solve for every active particle in
// one leaf cell, re-querying the tree with a larger gather radius
// whenever any particle's kernel sphere escapes the current radius, until
// every active particle in the cell converges in a single pass
// (spec.md §4.5).
func (s *Solver) SolveCell(step int, t *tree.Tree, cell int, mgr *neighbor.Manager, hminOf func(globalIdx int) float64) error {
	actives := t.ComputeActiveParticleList(cell)
	if len(actives) == 0 {
		return nil
	}

	hmax := t.Nodes[cell].Hmax
	if hmax <= 0 {
		hmax = 1e-3
	}

	for {
		t.ComputeGatherNeighborList(cell, s.Kernel.Range(), hmax, mgr)
		candidates := mgr.HydroIDs()
		neighParts := make([]*particle.Particle, 0, len(candidates))
		for _, j := range candidates {
			neighParts = append(neighParts, t.Particles[j])
		}

		allOK := true
		for _, gidx := range actives {
			self := t.Particles[gidx]
			hmin := 0.0
			if hminOf != nil {
				hmin = hminOf(gidx)
			}
			res, err := s.Solve(step, gidx, self, neighParts, hmin, hmax)
			if err == ErrInsufficientNeighbors {
				allOK = false
				break
			}
			if err != nil {
				return err
			}
			self.H = res.H
			self.Rho = res.Rho
			self.OmegaInv = res.OmegaInv
		}
		if allOK {
			return nil
		}
		hmax *= hmaxGrowth
	}
}
