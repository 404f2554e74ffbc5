// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/cpmech/lagoon/config"
	"github.com/cpmech/lagoon/domain"
	"github.com/cpmech/lagoon/particle"
	"github.com/cpmech/lagoon/simerr"
	"github.com/cpmech/lagoon/snapshot"
)

// loadInitialConditions reads the column-format snapshot named by
// Params.IC (the external IC generator's output, spec.md §1) into a
// fresh particle.Store, and derives a domain.Box whose extent is the
// particle bounding box grown by a 10% margin on both faces of every
// axis, whatever their boundary kind, with the configured per-face
// boundary kinds applied.
func loadInitialConditions(p *config.Params) (*domain.Box, *particle.Store, error) {
	box, store, _, err := loadColumnSnapshot(p, p.IC)
	return box, store, err
}

// loadColumnSnapshot reads a column-format snapshot file into a fresh
// store and a box derived from the particle extent, returning the
// snapshot's stamped time for resume (spec.md §6).
func loadColumnSnapshot(p *config.Params, path string) (*domain.Box, *particle.Store, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, simerr.New(simerr.IOFailure, 0, "cannot open snapshot %q: %v", path, err)
	}
	defer f.Close()

	hdr, parts, err := snapshot.ReadColumn(f)
	if err != nil {
		return nil, nil, 0, err
	}

	nsphmax := p.Nhydro
	if len(parts) > nsphmax {
		nsphmax = len(parts)
	}
	store := particle.NewStore(nsphmax + p.Nhydro/4 + 16)
	for _, pp := range parts {
		store.AddReal(pp)
	}

	box := boundingBox(p.Ndim, hdr.Ndim, parts)
	box.LHS = [3]domain.BoundaryKind{boundaryOf(p.XBoundaryLHS), boundaryOf(p.YBoundaryLHS), boundaryOf(p.ZBoundaryLHS)}
	box.RHS = [3]domain.BoundaryKind{boundaryOf(p.XBoundaryRHS), boundaryOf(p.YBoundaryRHS), boundaryOf(p.ZBoundaryRHS)}
	box.PeriodicGravity = p.PeriodicGravity
	return box, store, hdr.Time, nil
}

func boundingBox(ndim, hdrNdim int, parts []*particle.Particle) *domain.Box {
	if ndim <= 0 {
		ndim = hdrNdim
	}
	var lo, hi [3]float64
	for d := 0; d < ndim; d++ {
		lo[d], hi[d] = 1e300, -1e300
	}
	for _, pp := range parts {
		for d := 0; d < ndim; d++ {
			if pp.R[d] < lo[d] {
				lo[d] = pp.R[d]
			}
			if pp.R[d] > hi[d] {
				hi[d] = pp.R[d]
			}
		}
	}
	for d := 0; d < ndim; d++ {
		margin := 0.1 * (hi[d] - lo[d])
		if margin <= 0 {
			margin = 1.0
		}
		lo[d] -= margin
		hi[d] += margin
	}
	return domain.NewBox(ndim, lo, hi)
}

func boundaryOf(token string) domain.BoundaryKind {
	switch token {
	case "periodic":
		return domain.Periodic
	case "mirror":
		return domain.Mirror
	default:
		return domain.Open
	}
}
