// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package riemann implements the Riemann-solver collaborator used by the
// Meshless-FV hydro dialect (spec.md §6): given (W^L,W^R,dir,v_face) it
// returns the Godunov flux F.
package riemann

import "math"

// State is a primitive gas state (rho, vn, vt1, vt2, P) in the face
// frame, where vn is the velocity component along dir and vt1/vt2 the
// tangential components.
type State struct {
	Rho, Vn, Vt1, Vt2, P float64
}

// Flux is the Godunov flux in the face frame: mass, normal momentum,
// tangential momenta, energy.
type Flux struct {
	Mass, MomN, MomT1, MomT2, Energy float64
}

// Solver is the Riemann-solver collaborator interface.
type Solver interface {
	Solve(gamma float64, l, r State) Flux
}

// HLLC implements the Toro HLLC approximate Riemann solver, the standard
// choice for Meshless-FV Godunov fluxes.
type HLLC struct{}

func soundSpeed(gamma float64, rho, p float64) float64 {
	if rho <= 0 || p <= 0 {
		return 0
	}
	return math.Sqrt(gamma * p / rho)
}

func energyDensity(gamma float64, s State) float64 {
	ke := 0.5 * s.Rho * (s.Vn*s.Vn + s.Vt1*s.Vt1 + s.Vt2*s.Vt2)
	return s.P/(gamma-1.0) + ke
}

func fluxOf(s State, e float64) Flux {
	return Flux{
		Mass:   s.Rho * s.Vn,
		MomN:   s.Rho*s.Vn*s.Vn + s.P,
		MomT1:  s.Rho * s.Vn * s.Vt1,
		MomT2:  s.Rho * s.Vn * s.Vt2,
		Energy: s.Vn * (e + s.P),
	}
}

// Solve computes the HLLC flux between left/right primitive states
// already expressed in the face-normal frame.
func (HLLC) Solve(gamma float64, l, r State) Flux {
	if l.Rho <= 0 || r.Rho <= 0 || l.P <= 0 || r.P <= 0 {
		// callers are expected to have asserted positivity upstream
		// (spec.md §4.7); degrade to the arithmetic-mean flux rather
		// than propagate NaNs if this is ever hit without a floor set.
		mid := State{
			Rho: 0.5 * (l.Rho + r.Rho), Vn: 0.5 * (l.Vn + r.Vn),
			Vt1: 0.5 * (l.Vt1 + r.Vt1), Vt2: 0.5 * (l.Vt2 + r.Vt2),
			P: 0.5 * (l.P + r.P),
		}
		return fluxOf(mid, energyDensity(gamma, mid))
	}

	csL, csR := soundSpeed(gamma, l.Rho, l.P), soundSpeed(gamma, r.Rho, r.P)
	eL, eR := energyDensity(gamma, l), energyDensity(gamma, r)

	// Davis wave-speed estimates
	sL := math.Min(l.Vn-csL, r.Vn-csR)
	sR := math.Max(l.Vn+csL, r.Vn+csR)

	sStar := (r.P - l.P + l.Rho*l.Vn*(sL-l.Vn) - r.Rho*r.Vn*(sR-r.Vn)) /
		(l.Rho*(sL-l.Vn) - r.Rho*(sR-r.Vn))

	fL := fluxOf(l, eL)
	fR := fluxOf(r, eR)

	switch {
	case sL >= 0:
		return fL
	case sR <= 0:
		return fR
	case sStar >= 0:
		return hllcStar(gamma, l, eL, fL, sL, sStar)
	default:
		return hllcStar(gamma, r, eR, fR, sR, sStar)
	}
}

func hllcStar(gamma float64, s State, e float64, f Flux, sK, sStar float64) Flux {
	rhoStar := s.Rho * (sK - s.Vn) / (sK - sStar)
	eStar := rhoStar * (e/s.Rho + (sStar-s.Vn)*(sStar+s.P/(s.Rho*(sK-s.Vn))))

	uK := s.Rho
	uMomN := s.Rho * s.Vn
	uMomT1 := s.Rho * s.Vt1
	uMomT2 := s.Rho * s.Vt2
	uE := e

	uStarRho := rhoStar
	uStarMomN := rhoStar * sStar
	uStarMomT1 := rhoStar * s.Vt1
	uStarMomT2 := rhoStar * s.Vt2
	uStarE := eStar

	return Flux{
		Mass:   f.Mass + sK*(uStarRho-uK),
		MomN:   f.MomN + sK*(uStarMomN-uMomN),
		MomT1:  f.MomT1 + sK*(uStarMomT1-uMomT1),
		MomT2:  f.MomT2 + sK*(uStarMomT2-uMomT2),
		Energy: f.Energy + sK*(uStarE-uE),
	}
}
