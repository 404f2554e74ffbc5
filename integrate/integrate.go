// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package integrate implements the block-timestep symplectic integrator
// from spec.md §4.9, component C10: level assignment via Courant/accel/
// energy conditions, leapfrog KDK/DKD, and the MFV two-stage
// Runge-Kutta predictor/corrector.
package integrate

import (
	"math"

	"github.com/cpmech/lagoon/particle"
)

// Scheme selects the sub-step integration rule.
type Scheme int

const (
	LeapfrogKDK Scheme = iota
	LeapfrogDKD
	RungeKutta
)

// Ladder holds the block-timestep level geometry (spec.md §4.9).
type Ladder struct {
	Nlevels int
	DtMax   float64
}

// DtLevel returns dt_level(l) = dt_max / 2^l.
func (l Ladder) DtLevel(level int) float64 {
	return l.DtMax / math.Pow(2, float64(level))
}

// CandidateTimestep returns the unconstrained per-particle timestep
// dt_i = min(C_Cour*h/v_sig, C_acc*sqrt(h/|a|), C_en*|u|/|du/dt|)
// (spec.md §4.9); any term whose denominator is zero/undefined is
// skipped rather than producing Inf.
func CandidateTimestep(p *particle.Particle, vsig, courantMult, accelMult, energyMult float64) float64 {
	dt := math.MaxFloat64
	if vsig > 0 {
		if c := courantMult * p.H / vsig; c < dt {
			dt = c
		}
	}
	amag := vecNorm(p.A)
	if amag > 0 {
		if c := accelMult * math.Sqrt(p.H/amag); c < dt {
			dt = c
		}
	}
	if p.DUdt != 0 {
		if c := energyMult * math.Abs(p.U) / math.Abs(p.DUdt); c < dt {
			dt = c
		}
	}
	return dt
}

func vecNorm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// AssignLevel rounds a candidate timestep down to the coarsest level
// whose dt_level does not exceed dtCandidate, enforcing the spec's
// hysteresis (a particle's level rises by at most one per sub-step) and
// levelneib discipline (a particle may only fall to a level its
// neighbors' levels still permit).
func AssignLevel(ladder Ladder, dtCandidate float64, currentLevel, levelNeib int) int {
	target := ladder.Nlevels - 1
	for l := 0; l < ladder.Nlevels; l++ {
		if ladder.DtLevel(l) <= dtCandidate {
			target = l
			break
		}
	}
	if target > currentLevel+1 {
		target = currentLevel + 1 // rise (finer level, larger id) at most one step per sub-step
	}
	if target < levelNeib {
		target = levelNeib // may only fall (coarser level, smaller id) within neighbor discipline
	}
	if target < 0 {
		target = 0
	}
	if target >= ladder.Nlevels {
		target = ladder.Nlevels - 1
	}
	return target
}

// KickDrift performs one leapfrog sub-step of size dt for a particle
// synchronizing at this boundary, using its current A and DUdt. With
// kickOnly=false, LeapfrogKDK kicks by dt/2, drifts by dt and kicks by
// dt/2 again, and LeapfrogDKD drifts by dt/2, kicks by dt and drifts by
// dt/2; forces are not recomputed inside the call, so both half-kicks of
// KDK use the same acceleration. With kickOnly=true, LeapfrogKDK applies
// a single dt/2 kick and LeapfrogDKD does nothing. The RungeKutta scheme does not route through here -- its two-stage
// predictor/corrector is RKPredict/RKCorrect below.
func KickDrift(p *particle.Particle, dt float64, scheme Scheme, kickOnly bool) {
	half := 0.5 * dt
	switch scheme {
	case LeapfrogDKD:
		if !kickOnly {
			drift(p, half)
			kick(p, dt)
			drift(p, half)
			return
		}
	default: // LeapfrogKDK
		kick(p, half)
		if !kickOnly {
			drift(p, dt)
			kick(p, half)
		}
	}
}

func kick(p *particle.Particle, dt float64) {
	for d := 0; d < 3; d++ {
		p.V[d] += dt * p.A[d]
	}
	p.U += dt * p.DUdt
	if p.U < 0 {
		p.U = 0
	}
}

func drift(p *particle.Particle, dt float64) {
	for d := 0; d < 3; d++ {
		p.R[d] += dt * p.V[d]
	}
}

// RKPredict advances r,v,u by half a step using the current rates, for
// the MFV two-stage predictor/corrector (spec.md §4.9): the predicted
// state at t+dt/2 is what flux evaluation sees; RKCorrect then applies
// the full-step update using fluxes evaluated at the midpoint.
func RKPredict(p *particle.Particle, dt float64) (savedR, savedV [3]float64, savedU float64) {
	savedR, savedV, savedU = p.R, p.V, p.U
	half := 0.5 * dt
	kick(p, half)
	drift(p, half)
	return
}

// RKCorrect restores the saved t0 state and applies the full-step
// kick/drift using the (now midpoint-evaluated) rates.
func RKCorrect(p *particle.Particle, dt float64, savedR, savedV [3]float64, savedU float64) {
	p.R, p.V, p.U = savedR, savedV, savedU
	kick(p, 0.5*dt)
	drift(p, dt)
	kick(p, 0.5*dt)
}
