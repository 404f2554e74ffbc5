// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package domain implements the simulation box geometry and the
// per-face boundary policy (spec.md §4.1).
package domain

import "github.com/cpmech/lagoon/vecd"

// BoundaryKind is one of the three per-face boundary policies.
type BoundaryKind int

const (
	Open BoundaryKind = iota
	Periodic
	Mirror
)

func (k BoundaryKind) String() string {
	switch k {
	case Periodic:
		return "periodic"
	case Mirror:
		return "mirror"
	}
	return "open"
}

// Box is the DomainBox: box geometry and per-face boundary kind.
type Box struct {
	Ndim            int
	BoxMin, BoxMax  vecd.V
	BoxSize         vecd.V
	LHS, RHS        [3]BoundaryKind // per dimension
	PeriodicGravity bool
}

// NewBox builds a Box from explicit min/max corners.
func NewBox(ndim int, boxmin, boxmax vecd.V) *Box {
	b := &Box{Ndim: ndim, BoxMin: boxmin, BoxMax: boxmax}
	for d := 0; d < ndim; d++ {
		b.BoxSize[d] = boxmax[d] - boxmin[d]
	}
	return b
}

// ClosedDim reports whether dimension d has at least one non-open face;
// GhostEngine only needs to scan closed dimensions (spec.md §4.2).
func (b *Box) ClosedDim(d int) bool {
	return b.LHS[d] != Open || b.RHS[d] != Open
}

// WrapOrReflect applies the boundary transform to one particle's position
// and velocity, in a single sweep over all dimensions, per spec.md §4.1.
// It mutates r and v in place.
func (b *Box) WrapOrReflect(r, v *vecd.V) {
	for d := 0; d < b.Ndim; d++ {
		switch b.LHS[d] {
		case Periodic:
			if r[d] < b.BoxMin[d] {
				r[d] += b.BoxSize[d]
			}
		case Mirror:
			if r[d] < b.BoxMin[d] {
				r[d] = 2*b.BoxMin[d] - r[d]
				v[d] = -v[d]
			}
		}
		switch b.RHS[d] {
		case Periodic:
			if r[d] > b.BoxMax[d] {
				r[d] -= b.BoxSize[d]
			}
		case Mirror:
			if r[d] > b.BoxMax[d] {
				r[d] = 2*b.BoxMax[d] - r[d]
				v[d] = -v[d]
			}
		}
	}
}

// Contained reports whether r lies within [BoxMin,BoxMax] for every closed
// dimension, i.e. the Boundary-containment invariant from spec.md §8.
func (b *Box) Contained(r vecd.V) bool {
	for d := 0; d < b.Ndim; d++ {
		if !b.ClosedDim(d) {
			continue
		}
		if r[d] < b.BoxMin[d] || r[d] > b.BoxMax[d] {
			return false
		}
	}
	return true
}
