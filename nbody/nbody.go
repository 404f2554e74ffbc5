// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package nbody provides a minimal reference implementation of the
// N-body star integrator collaborator from spec.md §6: given the star
// array and the hydro/gravity accelerations acting on it this step,
// advance the stars to the end of the sub-step.
package nbody

import (
	"math"

	"github.com/cpmech/gosl/ode"
	"github.com/cpmech/lagoon/particle"
	"github.com/cpmech/lagoon/vecd"
)

// Engine advances the star array with a direct-summation N-body force,
// using gosl/ode's explicit adaptive-step Dopri5 solver.
type Engine struct {
	Ndim int
	G    float64
}

// Advance integrates star positions/velocities from t to t+dt under
// mutual star-star gravity plus a caller-supplied, frozen-over-the-step
// external acceleration per star (the SPH/gravity force on that star
// from the fluid, computed once by the caller).
func (e *Engine) Advance(stars []particle.Star, extAccel []vecd.V, dt float64) error {
	n := len(stars)
	if n == 0 || dt == 0 {
		return nil
	}
	ndim := e.Ndim
	neq := n * 2 * ndim

	y := make([]float64, neq)
	for i, s := range stars {
		base := i * 2 * ndim
		for d := 0; d < ndim; d++ {
			y[base+d] = s.R[d]
			y[base+ndim+d] = s.V[d]
		}
	}

	fcn := func(f []float64, dx, x float64, y []float64) error {
		r := make([]vecd.V, n)
		for i := 0; i < n; i++ {
			base := i * 2 * ndim
			for d := 0; d < ndim; d++ {
				r[i][d] = y[base+d]
			}
		}
		for i := 0; i < n; i++ {
			base := i * 2 * ndim
			var accel vecd.V
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				dr := vecd.Sub(ndim, r[i], r[j])
				r2 := vecd.NormSq(ndim, dr)
				eps := 0.5 * (stars[i].H + stars[j].H)
				denom2 := r2 + eps*eps
				denom := math.Sqrt(denom2)
				invDenom3 := 1.0 / (denom2 * denom)
				for d := 0; d < ndim; d++ {
					accel[d] -= e.G * stars[j].M * dr[d] * invDenom3
				}
			}
			for d := 0; d < ndim; d++ {
				accel[d] += extAccel[i][d]
				f[base+d] = y[base+ndim+d]
				f[base+ndim+d] = accel[d]
			}
		}
		return nil
	}

	var solver ode.Solver
	solver.Init("Dopri5", neq, fcn, nil, nil, nil)
	solver.SetTol(1e-9, 1e-6)
	if err := solver.Solve(y, 0, dt, dt, false); err != nil {
		return err
	}

	for i := range stars {
		base := i * 2 * ndim
		for d := 0; d < ndim; d++ {
			stars[i].R[d] = y[base+d]
			stars[i].V[d] = y[base+ndim+d]
		}
	}
	return nil
}
