// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package smoothing implements the per-particle smoothing-length solver:
// fixed-point iteration with bisection fallback, and the outer
// neighbor-list-resizing loop (spec.md §4.5, component C7).
package smoothing

import (
	"math"

	"github.com/cpmech/lagoon/kernel"
	"github.com/cpmech/lagoon/particle"
	"github.com/cpmech/lagoon/simerr"
)

// K1 is the fixed-point iteration budget before switching to bisection
// (spec.md §4.5).
const K1 = 30

// Solver holds the configuration shared by every per-particle solve.
type Solver struct {
	Ndim      int
	Kernel    kernel.Kernel
	Hfac      float64 // h = Hfac * (m/rho)^(1/ndim)
	HConverge float64
}

// NewSolver builds a solver for the given kernel; Hfac is derived from
// the desired mean neighbor count the way Gandalf-style codes fix it
// (kept as an explicit parameter here rather than re-derived, since the
// desired neighbor count is a run-level tuning choice, not part of the
// smoothing-length algorithm itself).
func NewSolver(ndim int, k kernel.Kernel, hfac, hconverge float64) *Solver {
	return &Solver{Ndim: ndim, Kernel: k, Hfac: hfac, HConverge: hconverge}
}

// DensitySum evaluates rho_i = sum_j m_j W(r_ij/h) / h^ndim over a
// provided neighbor snapshot (gather); self is counted exactly once,
// whether or not the snapshot contains it.
func (s *Solver) DensitySum(h float64, self *particle.Particle, neighbors []*particle.Particle) float64 {
	var rho float64
	hnd := math.Pow(h, float64(s.Ndim))
	// self-contribution: W(0)/h^ndim * m_i
	rho += self.M * s.Kernel.W(0) / hnd
	for _, pj := range neighbors {
		if pj == self {
			continue // already counted above
		}
		dr := sub(s.Ndim, self.R, pj.R)
		r := norm(s.Ndim, dr)
		rho += pj.M * s.Kernel.W(r/h) / hnd
	}
	return rho
}

func sub(ndim int, a, b [3]float64) [3]float64 {
	var r [3]float64
	for d := 0; d < ndim; d++ {
		r[d] = a[d] - b[d]
	}
	return r
}

func norm(ndim int, a [3]float64) float64 {
	var s float64
	for d := 0; d < ndim; d++ {
		s += a[d] * a[d]
	}
	return math.Sqrt(s)
}

// ErrInsufficientNeighbors is returned by Solve when the supplied neighbor set does
// not reach far enough for the trial h -- the caller must expand hmax by
// 1.05x and re-query the tree (spec.md §4.5).
var ErrInsufficientNeighbors = errInsufficient{}

type errInsufficient struct{}

func (errInsufficient) Error() string { return "smoothing: gather radius insufficient for trial h" }

// Result is the output of one successful Solve.
type Result struct {
	H        float64
	Rho      float64
	OmegaInv float64
	Iters    int
}

// Solve iterates h for one active particle given a neighbor snapshot
// already gathered out to hmax (spec.md §4.5 steps 1-5). hmin is 0, or
// hmin_sink when the particle is inside a sink.
func (s *Solver) Solve(step, particleID int, self *particle.Particle, neighbors []*particle.Particle, hmin, hmax float64) (Result, error) {
	hlo, hhi := hmin, hmax
	h := self.H
	if h <= 0 {
		h = 0.5 * (hlo + hhi)
	}

	var rho float64
	for k := 0; k < 5*K1; k++ {
		rho = s.DensitySum(h, self, neighbors)
		if rho <= 0 {
			return Result{}, simerr.NewForParticle(simerr.NonPositiveState, step, particleID,
				"density summed to %v at h=%v", rho, h)
		}
		hNew := s.Hfac * math.Pow(self.M/rho, 1.0/float64(s.Ndim))

		// neighbor-sphere insufficiency: the trial h's kernel reach must
		// stay within what the caller actually gathered (hmax here acts
		// as the outer bound already enforced by the gather radius).
		if s.Kernel.Range()*hNew > hmax {
			return Result{}, ErrInsufficientNeighbors
		}

		if k < K1 {
			if math.Abs(h-hNew) < s.HConverge*h {
				h = hNew
				return s.finish(h, rho, self, neighbors, k+1), nil
			}
			h = hNew
			continue
		}

		// bisection phase (k>=K1): tighten the bracket using the
		// over/under-density test from spec.md §4.5 step 4.
		n := rho / self.M // number density proxy for the bracket test
		if n*math.Pow(h, float64(s.Ndim)) > math.Pow(s.Hfac, float64(s.Ndim)) {
			hhi = h
		} else {
			hlo = h
		}
		h = 0.5 * (hlo + hhi)
	}
	return Result{}, simerr.NewForParticle(simerr.HIterationDiverged, step, particleID,
		"h-solver exceeded %d iterations", 5*K1)
}

func (s *Solver) finish(h, rho float64, self *particle.Particle, neighbors []*particle.Particle, iters int) Result {
	omegaInv := s.omegaInverse(h, rho, self, neighbors)
	return Result{H: h, Rho: rho, OmegaInv: omegaInv, Iters: iters}
}

// omegaInverse computes Omega^-1 = 1 + (h/(ndim*rho)) * drho/dh using the
// kernel's Omega(s) moment (spec.md §4.5).
func (s *Solver) omegaInverse(h, rho float64, self *particle.Particle, neighbors []*particle.Particle) float64 {
	hnd1 := math.Pow(h, float64(s.Ndim)+1)
	var drhodh float64
	for _, pj := range neighbors {
		dr := sub(s.Ndim, self.R, pj.R)
		r := norm(s.Ndim, dr)
		drhodh += pj.M * s.Kernel.Omega(r/h) / hnd1
	}
	return 1.0 + (h/(float64(s.Ndim)*rho))*drhodh
}

// PotMin reports whether no neighbor within kernel reach has a strictly
// greater gravitational potential than self (spec.md §4.5, used by
// sink-creation policy elsewhere and out of this module's scope).
func PotMin(self *particle.Particle, neighbors []*particle.Particle) bool {
	for _, pj := range neighbors {
		if pj.Phi > self.Phi {
			return false
		}
	}
	return true
}
