// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package particle owns the fluid-particle array (real slots followed by
// a ghost tail), their lifecycle, typed flags and active mask
// (spec.md §3, component C3).
package particle

import (
	"github.com/cpmech/lagoon/domain"
	"github.com/cpmech/lagoon/vecd"
)

// Type is the particle species.
type Type int

const (
	Gas Type = iota
	Dust
	CDM
	Dead
)

// FaceTransform names one axis's boundary transform: Dim in [0,3),
// Side 0=lhs 1=rhs, Kind is Periodic or Mirror.
type FaceTransform struct {
	Dim  int
	Side int
	Kind domain.BoundaryKind
}

// GhostTransform names the chain of face transforms that produced a
// ghost particle, in application order. A corner/edge ghost crosses
// more than one closed face (spec.md §4.2 step 2's orthogonal
// re-cloning of already-made ghosts), so more than one entry may be
// present; replaying the whole chain against the real parent's current
// state is what lets CopyStateToGhosts reconstruct a corner/edge
// ghost's position without rebuilding the ghost list. A real particle
// carries an empty chain.
type GhostTransform struct {
	Faces []FaceTransform
}

// IsReal reports whether this transform marks a real (non-ghost) slot.
func (g GhostTransform) IsReal() bool { return len(g.Faces) == 0 }

// MeshlessState holds the Meshless-FV-only per-particle fields
// (spec.md §3: primitive/conservative vectors, gradients, Psi-factor
// matrices, slope-limit extrema).
type MeshlessState struct {
	W      [5]float64    // primitive: rho, v[0..d), P  (v padded to 3 comps + rho,P)
	Q      [5]float64    // conservative
	GradW  [5]vecd.V     // gradient tensor, one vecd.V per primitive component
	Bmat   [3][3]float64 // Psi B-matrix (E^-1)
	Wmin   [5]float64
	Wmax   [5]float64
	Volume float64
}

// Particle is one fluid (or ghost) particle.
type Particle struct {
	ID     int
	Iorig  int // original-id; for ghosts, chases back to the real parent
	Type   Type
	Alive  bool
	Active bool
	Ghost  GhostTransform

	R vecd.V
	V vecd.V

	M     float64
	U     float64 // internal energy
	H     float64
	Rho   float64
	Nden  float64 // number density
	OmegaInv float64 // grad-h correction Omega^-1
	Zeta  float64 // gravity correction
	Phi   float64 // gravitational potential
	A     vecd.V  // acceleration
	DUdt  float64
	Alpha float64 // artificial-viscosity coefficient
	Cs    float64 // sound speed

	Level     int
	LevelNeib int
	SinkID    int // -1 if none

	PotMin bool // true iff no neighbor within kernel reach has strictly greater Phi

	MFV MeshlessState
}

// NewReal returns a freshly allocated real particle with sane zero state.
func NewReal(id int, r, v vecd.V, m float64) *Particle {
	return &Particle{
		ID: id, Iorig: id, Type: Gas, Alive: true, Active: true,
		R: r, V: v, M: m, SinkID: -1,
	}
}

// Star is the point-mass collaborator particle type (spec.md §3).
type Star struct {
	R, V vecd.V
	M, H float64
}
