// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ghost implements the ghost-particle replication machinery for
// periodic and mirror boundaries (spec.md §4.2, component C4).
package ghost

import (
	"github.com/cpmech/lagoon/domain"
	"github.com/cpmech/lagoon/particle"
	"github.com/cpmech/lagoon/simerr"
)

// GhostRangeFactor multiplies kernrange*h to decide how close to a closed
// face a particle must be before it is cloned (spec.md §4.2, step 2).
const GhostRangeFactor = 1.0

// Engine refreshes the ghost tail of a particle.Store against a domain
// box every sub-step (spec.md §4.2).
type Engine struct {
	Box       *domain.Box
	KernRange float64 // kernel support in units of h
}

// NewEngine builds a GhostEngine bound to a box and the active kernel's
// Range().
func NewEngine(box *domain.Box, kernRange float64) *Engine {
	return &Engine{Box: box, KernRange: kernRange}
}

// RefreshGhosts rebuilds the entire ghost tail of store from scratch,
// following spec.md §4.2 steps 1-3: reset, per-dimension cloning with
// orthogonal re-cloning of freshly made ghosts, and overflow detection.
func (e *Engine) RefreshGhosts(store *particle.Store, step int) error {
	store.ResetGhosts()
	ntot := store.Nreal

	for d := 0; d < e.Box.Ndim; d++ {
		if !e.Box.ClosedDim(d) {
			continue
		}
		base := ntot // particles present before this dimension's pass
		for i := 0; i < base; i++ {
			p := store.Particles[i]
			if !p.Alive {
				continue
			}
			reach := GhostRangeFactor * e.KernRange * p.H

			if e.Box.LHS[d] != domain.Open && p.R[d]-e.Box.BoxMin[d] < reach {
				g := e.clone(p, d, 0, e.Box.LHS[d])
				if !store.AppendGhost(g) {
					return simerr.New(simerr.GhostOverflow, step,
						"ghost tail exceeded Nsphmax=%d while cloning across dim %d lhs; increase Nsphmax or reduce ghost_range", store.Nsphmax, d)
				}
				ntot++
			}
			if e.Box.RHS[d] != domain.Open && e.Box.BoxMax[d]-p.R[d] < reach {
				g := e.clone(p, d, 1, e.Box.RHS[d])
				if !store.AppendGhost(g) {
					return simerr.New(simerr.GhostOverflow, step,
						"ghost tail exceeded Nsphmax=%d while cloning across dim %d rhs; increase Nsphmax or reduce ghost_range", store.Nsphmax, d)
				}
				ntot++
			}
		}
		// ntot now includes ghosts made in this dimension, so the next
		// dimension's loop (over [0,ntot)) also clones them, producing
		// corner/edge copies, per spec.md §4.2 step 2.
	}
	return nil
}

// clone implements CreateGhost: copy the parent's entire state, overwrite
// r[d]/v[d] per the transform, deactivate, and chase iorig to the true
// original if i is already a ghost (spec.md §4.2).
func (e *Engine) clone(parent *particle.Particle, d, side int, kind domain.BoundaryKind) *particle.Particle {
	g := new(particle.Particle)
	*g = *parent
	g.Active = false
	chain := append([]particle.FaceTransform(nil), parent.Ghost.Faces...)
	g.Ghost = particle.GhostTransform{Faces: append(chain, particle.FaceTransform{Dim: d, Side: side, Kind: kind})}
	g.Iorig = parent.Iorig // already chases to the true original since
	// a ghost's Iorig is always the real parent's id by construction.
	applyTransform(g, e.Box, d, side, kind)
	return g
}

// applyTransform overwrites r[d] and v[d] on g in place, according to the
// boundary kind, mirroring domain.Box.WrapOrReflect's per-face rules.
func applyTransform(g *particle.Particle, box *domain.Box, d, side int, kind domain.BoundaryKind) {
	switch kind {
	case domain.Periodic:
		if side == 0 {
			g.R[d] += box.BoxSize[d]
		} else {
			g.R[d] -= box.BoxSize[d]
		}
	case domain.Mirror:
		if side == 0 {
			g.R[d] = 2*box.BoxMin[d] - g.R[d]
		} else {
			g.R[d] = 2*box.BoxMax[d] - g.R[d]
		}
		g.V[d] = -g.V[d]
	}
}

// CopyStateToGhosts reloads every ghost's state from its current parent
// and replays the full chain of face transforms recorded on it (more
// than one entry for a corner/edge ghost), per spec.md §4.2. Called at
// every sub-step where parent state changed and before any neighbor
// query -- cheaper than RefreshGhosts because the ghost list itself
// (which particles are ghosted, across which faces) is left untouched;
// only state is refreshed. This is embarrassingly parallel (disjoint
// ghost indices) and is the only part of ghost maintenance the Design
// Notes (§9) permit parallelizing; ghost *creation* stays
// single-threaded because it appends to a shared tail.
func (e *Engine) CopyStateToGhosts(store *particle.Store) {
	for i := store.Nreal; i < store.Ntot(); i++ {
		g := store.Particles[i]
		parent := store.Particles[findParentIndex(store, g.Iorig)]
		preserveGhostID, preserveGhostFaces := g.ID, g.Ghost
		*g = *parent
		g.ID = preserveGhostID
		g.Ghost = preserveGhostFaces
		g.Active = false
		for _, face := range g.Ghost.Faces {
			applyTransform(g, e.Box, face.Dim, face.Side, face.Kind)
		}
	}
}

// findParentIndex locates the real slot holding original-id iorig. Real
// particles are stored in [0,Nreal) indexed by their own Iorig==ID
// invariant, so this is a direct lookup when ids are dense and
// order-preserving; fall back to a scan otherwise (store implementations
// that renumber particles should keep an id->index map instead).
func findParentIndex(store *particle.Store, iorig int) int {
	if iorig >= 0 && iorig < store.Nreal && store.Particles[iorig].ID == iorig {
		return iorig
	}
	for i := 0; i < store.Nreal; i++ {
		if store.Particles[i].ID == iorig {
			return i
		}
	}
	return 0
}
