// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package gravity implements the self-gravity force/potential
// contributions from spec.md §4.8, component C9: smoothed pair gravity
// against the near list, unsoftened-by-distance direct summation,
// cell-multipole expansion (monopole/quadrupole and their fast Taylor
// variants), optional Ewald periodic correction, and star-particle
// softened gravity.
package gravity

import (
	"math"

	"github.com/cpmech/gosl/la"
	"github.com/cpmech/lagoon/kernel"
	"github.com/cpmech/lagoon/particle"
	"github.com/cpmech/lagoon/tree"
	"github.com/cpmech/lagoon/vecd"
)

// Multipole selects the cell-contribution expansion order.
type Multipole int

const (
	Monopole Multipole = iota
	Quadrupole
	FastMonopole
	FastQuadrupole
)

// PeriodicCorrector is the Ewald collaborator interface (spec.md §6):
// given a source mass and displacement vector, returns the periodic
// correction to add on top of the nearest-image contribution.
type PeriodicCorrector interface {
	Correct(m float64, dr vecd.V) (aPeriodic vecd.V, phiPeriodic float64)
}

// Engine evaluates gravitational accelerations and potentials.
type Engine struct {
	Ndim      int
	G         float64
	Kernel    kernel.Kernel
	Multipole Multipole
	Periodic  PeriodicCorrector // nil disables the Ewald correction
}

// harmonicH returns the spec's pair-softening length 2*h_a*h_b/(h_a+h_b)
// (spec.md §4.8's star formula, generalized to any two softening
// lengths).
func harmonicH(ha, hb float64) float64 {
	if ha+hb <= 0 {
		return 0
	}
	return 2 * ha * hb / (ha + hb)
}

// PairGravity accumulates the smoothed pair-gravity contribution
// (spec.md §4.8(a)) from the near list onto self, using Wgrav/Wpot at
// the harmonic-mean softening length of the pair.
func (e *Engine) PairGravity(self *particle.Particle, near []*particle.Particle) (accel vecd.V, phi float64) {
	for _, j := range near {
		if j == self {
			continue
		}
		dr := vecd.Sub(e.Ndim, self.R, j.R)
		r := vecd.Norm(e.Ndim, dr)
		if r <= 0 {
			continue
		}
		h := harmonicH(self.H, j.H)
		if h <= 0 {
			continue
		}
		s := r / h
		fg := e.Kernel.Wgrav(s) / (h * h)
		pg := e.Kernel.Wpot(s) / h
		for k := 0; k < e.Ndim; k++ {
			accel[k] -= e.G * j.M * fg * dr[k] / r
		}
		phi -= e.G * j.M * pg
		if e.Periodic != nil {
			ap, php := e.Periodic.Correct(j.M, dr)
			for k := 0; k < e.Ndim; k++ {
				accel[k] += e.G * ap[k]
			}
			phi += e.G * php
		}
	}
	return
}

// DirectGravity accumulates unsmoothed Newtonian gravity with Plummer
// softening by the pair's harmonic-mean h (spec.md §4.8(b)) from the
// direct list.
func (e *Engine) DirectGravity(self *particle.Particle, direct []*particle.Particle) (accel vecd.V, phi float64) {
	for _, j := range direct {
		if j == self {
			continue
		}
		dr := vecd.Sub(e.Ndim, self.R, j.R)
		r2 := vecd.NormSq(e.Ndim, dr)
		eps := harmonicH(self.H, j.H)
		denom2 := r2 + eps*eps
		denom := math.Sqrt(denom2)
		invDenom3 := 1.0 / (denom2 * denom)
		for k := 0; k < e.Ndim; k++ {
			accel[k] -= e.G * j.M * dr[k] * invDenom3
		}
		phi -= e.G * j.M / denom
		if e.Periodic != nil {
			ap, php := e.Periodic.Correct(j.M, dr)
			for k := 0; k < e.Ndim; k++ {
				accel[k] += e.G * ap[k]
			}
			phi += e.G * php
		}
	}
	return
}

// CellGravity accumulates the multipole-expanded contribution of every
// accepted gravity cell (spec.md §4.8(c)/(d)) onto self, evaluating the
// monopole term always and adding the quadrupole correction when
// e.Multipole is Quadrupole.
func (e *Engine) CellGravity(self *particle.Particle, t *tree.Tree, cellIDs []int) (accel vecd.V, phi float64) {
	for _, idx := range cellIDs {
		n := t.Nodes[idx]
		dr := vecd.Sub(e.Ndim, self.R, n.COM)
		r2 := vecd.NormSq(e.Ndim, dr)
		if r2 <= 0 {
			continue
		}
		r := math.Sqrt(r2)
		invR3 := 1.0 / (r2 * r)

		var a vecd.V
		var p float64
		for k := 0; k < e.Ndim; k++ {
			a[k] = -e.G * n.Mass * dr[k] * invR3
		}
		p = -e.G * n.Mass / r

		if e.Multipole == Quadrupole || e.Multipole == FastQuadrupole {
			da, dp := quadrupoleTerm(e.Ndim, e.G, n.Quad, dr, r2)
			for k := 0; k < e.Ndim; k++ {
				a[k] += da[k]
			}
			p += dp
		}

		if e.Periodic != nil {
			ap, php := e.Periodic.Correct(n.Mass, dr)
			for k := 0; k < e.Ndim; k++ {
				a[k] += e.G * ap[k]
			}
			p += e.G * php
		}

		for k := 0; k < e.Ndim; k++ {
			accel[k] += a[k]
		}
		phi += p
	}
	return
}

// quadrupoleTerm returns the quadrupole correction to the monopole
// field at displacement dr from a cell's center of mass, given its
// traceless quadrupole tensor Q (spec.md §4.3's per-node Q), via
// a_quad = G * Q*dr/r^5 - (5/2)*G*(dr.Q.dr)*dr/r^7 (minus the gradient
// of phi_quad = -(G/2)*(dr.Q.dr)/r^5, the same convention as the monopole),
// evaluated through gosl/la's dense matrix-vector multiply.
func quadrupoleTerm(ndim int, g float64, q [3][3]float64, dr vecd.V, r2 float64) (vecd.V, float64) {
	qm := la.MatAlloc(ndim, ndim)
	for a := 0; a < ndim; a++ {
		for b := 0; b < ndim; b++ {
			qm[a][b] = q[a][b]
		}
	}
	u := dr[:ndim]
	qu := make([]float64, ndim)
	la.MatVecMul(qu, 1, qm, u)

	var drQdr float64
	for k := 0; k < ndim; k++ {
		drQdr += dr[k] * qu[k]
	}

	r := math.Sqrt(r2)
	r5 := r2 * r2 * r
	r7 := r5 * r2

	var a vecd.V
	for k := 0; k < ndim; k++ {
		a[k] = g*qu[k]/r5 - 2.5*g*drQdr*dr[k]/r7
	}
	phi := -0.5 * g * drQdr / r5
	return a, phi
}

// FastCellField is the one-per-leaf Taylor-expansion field evaluated at
// a cell's geometric center (spec.md §4.8's "fast_monopole"/
// "fast_quadrupole"): accel and potential at the center, plus the
// gradient tensor of the acceleration used to extrapolate to each
// active particle's actual position.
type FastCellField struct {
	Center   vecd.V
	Accel    vecd.V
	Phi      float64
	GradA    [3][3]float64 // d(accel_a)/d(r_b) at Center
}

// ComputeFastCellField evaluates the field of every accepted cell once
// at the active cell's geometric center, for later per-particle
// application via ApplyFastField.
func (e *Engine) ComputeFastCellField(center vecd.V, t *tree.Tree, cellIDs []int) FastCellField {
	f := FastCellField{Center: center}
	for _, idx := range cellIDs {
		n := t.Nodes[idx]
		dr := vecd.Sub(e.Ndim, center, n.COM)
		r2 := vecd.NormSq(e.Ndim, dr)
		if r2 <= 0 {
			continue
		}
		r := math.Sqrt(r2)
		invR3 := 1.0 / (r2 * r)
		invR5 := invR3 / r2

		for k := 0; k < e.Ndim; k++ {
			f.Accel[k] -= e.G * n.Mass * dr[k] * invR3
		}
		f.Phi -= e.G * n.Mass / r

		for a := 0; a < e.Ndim; a++ {
			for b := 0; b < e.Ndim; b++ {
				delta := 0.0
				if a == b {
					delta = 1.0
				}
				f.GradA[a][b] += -e.G * n.Mass * (delta/(r2*r) - 3*dr[a]*dr[b]*invR5)
			}
		}

		if e.Multipole == FastQuadrupole {
			da, dp := quadrupoleTerm(e.Ndim, e.G, n.Quad, dr, r2)
			for k := 0; k < e.Ndim; k++ {
				f.Accel[k] += da[k]
			}
			f.Phi += dp
		}
	}
	return f
}

// ApplyFastField extrapolates a once-per-cell field to a particle's
// actual position via a first-order Taylor expansion about f.Center.
func (e *Engine) ApplyFastField(f FastCellField, r vecd.V) (accel vecd.V, phi float64) {
	dr := vecd.Sub(e.Ndim, r, f.Center)
	accel = f.Accel
	phi = f.Phi
	for a := 0; a < e.Ndim; a++ {
		for b := 0; b < e.Ndim; b++ {
			accel[a] += f.GradA[a][b] * dr[b]
		}
	}
	return
}

// GravityOnStars accumulates the softened gravitational acceleration
// exerted by every live real fluid particle onto each star, using the
// same pair-softening kernel as StarGravity applied in reverse
// (spec.md §4.8(e)): this is the fluid's back-reaction on the stars that
// sim.Driver feeds into the N-body collaborator as its frozen external
// acceleration for one sub-step.
func (e *Engine) GravityOnStars(stars []particle.Star, fluid []*particle.Particle) []vecd.V {
	out := make([]vecd.V, len(stars))
	for si, st := range stars {
		for _, j := range fluid {
			if !j.Alive || !j.Ghost.IsReal() {
				continue
			}
			dr := vecd.Sub(e.Ndim, st.R, j.R)
			r := vecd.Norm(e.Ndim, dr)
			if r <= 0 {
				continue
			}
			h := harmonicH(st.H, j.H)
			if h <= 0 {
				continue
			}
			s := r / h
			fg := e.Kernel.Wgrav(s) / (h * h)
			for k := 0; k < e.Ndim; k++ {
				out[si][k] -= e.G * j.M * fg * dr[k] / r
			}
		}
	}
	return out
}

// StarGravity accumulates softened gravity from point-mass star
// particles (spec.md §4.8(e)), using h_mean = 2*h_i*h_*/(h_i+h_*).
func (e *Engine) StarGravity(self *particle.Particle, stars []particle.Star) (accel vecd.V, phi float64) {
	for _, s := range stars {
		dr := vecd.Sub(e.Ndim, self.R, s.R)
		r := vecd.Norm(e.Ndim, dr)
		if r <= 0 {
			continue
		}
		h := harmonicH(self.H, s.H)
		if h <= 0 {
			continue
		}
		s2 := r / h
		fg := e.Kernel.Wgrav(s2) / (h * h)
		pg := e.Kernel.Wpot(s2) / h
		for k := 0; k < e.Ndim; k++ {
			accel[k] -= e.G * s.M * fg * dr[k] / r
		}
		phi -= e.G * s.M * pg
	}
	return
}
