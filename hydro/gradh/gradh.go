// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package gradh implements HydroKernels Dialect A: grad-h SPH with
// artificial viscosity/conductivity (spec.md §4.6).
package gradh

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/lagoon/eos"
	"github.com/cpmech/lagoon/kernel"
	"github.com/cpmech/lagoon/particle"
	"github.com/cpmech/lagoon/vecd"
)

// AViscScheme computes the artificial-viscosity term Pi_ij.
type AViscScheme interface {
	Pi(ndim int, pi, pj *particle.Particle, alpha, beta float64) float64
}

var aviscAllocators = map[string]func() AViscScheme{
	"none": func() AViscScheme { return noneVisc{} },
	"mon97": func() AViscScheme { return mon97Visc{} },
}

// NewAVisc returns the named artificial-viscosity scheme.
func NewAVisc(name string) (AViscScheme, error) {
	alloc, ok := aviscAllocators[name]
	if !ok {
		return nil, chk.Err("gradh: unknown avisc token %q", name)
	}
	return alloc(), nil
}

type noneVisc struct{}

func (noneVisc) Pi(ndim int, pi, pj *particle.Particle, alpha, beta float64) float64 { return 0 }

// mon97Visc implements the Monaghan (1997) artificial viscosity
// (spec.md §4.6): Pi_ij = (-alpha*cbar*mu + beta*mu^2)/rhobar when
// v_ij.r_ij<0, else 0, with mu = hbar*(v.r)/(r^2+eta^2).
type mon97Visc struct{}

const etaSqFrac = 0.01 // eta^2 = etaSqFrac*h^2 softening, standard SPH choice

func (mon97Visc) Pi(ndim int, pi, pj *particle.Particle, alpha, beta float64) float64 {
	dr := vecd.Sub(ndim, pi.R, pj.R)
	dv := vecd.Sub(ndim, pi.V, pj.V)
	vijrij := vecd.Dot(ndim, dv, dr)
	if vijrij >= 0 {
		return 0
	}
	hbar := 0.5 * (pi.H + pj.H)
	r2 := vecd.NormSq(ndim, dr)
	eta2 := etaSqFrac * hbar * hbar
	mu := hbar * vijrij / (r2 + eta2)
	cbar := 0.5 * (pi.Cs + pj.Cs)
	rhobar := 0.5 * (pi.Rho + pj.Rho)
	return (-alpha*cbar*mu + beta*mu*mu) / rhobar
}

// ACondScheme computes an artificial thermal-conductivity rate addition.
type ACondScheme interface {
	Rate(ndim int, pi, pj *particle.Particle, vsig float64) float64
}

var acondAllocators = map[string]func() ACondScheme{
	"none":    func() ACondScheme { return noneCond{} },
	"wadsley": func() ACondScheme { return wadsleyCond{} },
}

// NewACond returns the named conductivity scheme.
func NewACond(name string) (ACondScheme, error) {
	alloc, ok := acondAllocators[name]
	if !ok {
		return nil, chk.Err("gradh: unknown acond token %q", name)
	}
	return alloc(), nil
}

type noneCond struct{}

func (noneCond) Rate(ndim int, pi, pj *particle.Particle, vsig float64) float64 { return 0 }

// wadsleyCond implements the Wadsley-style signal-velocity conductivity.
type wadsleyCond struct{}

const alphaCond = 1.0

func (wadsleyCond) Rate(ndim int, pi, pj *particle.Particle, vsig float64) float64 {
	rhobar := 0.5 * (pi.Rho + pj.Rho)
	return alphaCond * vsig * (pi.U - pj.U) / rhobar
}

// Engine evaluates grad-h SPH density, forces and energy rates.
type Engine struct {
	Ndim   int
	Kernel kernel.Kernel
	EOS    eos.EOS
	AVisc  AViscScheme
	ACond  ACondScheme
	Alpha, Beta float64
}

// UpdatePressureAndSoundSpeed refreshes P (stored in Rho-adjacent fields
// by the caller) and Cs from the current (rho,u), and must be called for
// particle i and every neighbor before ComputeForces, since the pairwise
// force sum needs every participant's pressure and sound speed already
// resolved.
func (e *Engine) UpdatePressureAndSoundSpeed(p *particle.Particle) float64 {
	press, cs := e.EOS.PressureU(p.Rho, p.U)
	p.Cs = cs
	return press
}

// gradWSym returns the SPH gradient kernel grad_i W_ij(h) in Cartesian
// components, pointing from j to i.
func (e *Engine) gradWSym(dr vecd.V, r, h float64) vecd.V {
	if r < 1e-300 {
		return vecd.V{}
	}
	dwdh := e.Kernel.DW(r/h) / math.Pow(h, float64(e.Ndim)+1)
	return vecd.Scale(e.Ndim, dwdh/r, dr)
}

// ComputeForces accumulates acceleration and du/dt for active particle i
// against its hydro-neighbor snapshot, per spec.md §4.6's momentum and
// energy equations. pressOf supplies each neighbor's already-computed
// pressure (see UpdatePressureAndSoundSpeed).
func (e *Engine) ComputeForces(i *particle.Particle, neighbors []*particle.Particle, pressOf func(*particle.Particle) float64) (accel vecd.V, dudt float64, levelneib int) {
	pi := pressOf(i)
	levelneib = i.Level
	for _, j := range neighbors {
		if j.Level > levelneib {
			levelneib = j.Level
		}
		dr := vecd.Sub(e.Ndim, i.R, j.R)
		r := vecd.Norm(e.Ndim, dr)
		if r < 1e-300 {
			continue
		}
		pj := pressOf(j)

		gWi := e.gradWSym(dr, r, i.H)
		gWj := e.gradWSym(dr, r, j.H)
		avgGW := vecd.Scale(e.Ndim, 0.5, vecd.Add(e.Ndim, gWi, gWj))

		pij := e.AVisc.Pi(e.Ndim, i, j, e.Alpha, e.Beta)

		termPi := pi / (i.OmegaInv * i.Rho * i.Rho)
		termPj := pj / (j.OmegaInv * j.Rho * j.Rho)

		for d := 0; d < e.Ndim; d++ {
			// use gWi for the i-side pressure term, gWj for the j-side,
			// and the symmetrized kernel for viscosity, per spec.md §4.6
			accel[d] -= j.M * (termPi*gWi[d] + termPj*gWj[d] + pij*avgGW[d])
		}

		dv := vecd.Sub(e.Ndim, i.V, j.V)
		dudt += j.M * termPi * vecd.Dot(e.Ndim, dv, gWi)

		cbar := 0.5 * (i.Cs + j.Cs)
		vsig := cbar - 0.5*vecd.Dot(e.Ndim, dv, dr)/r
		dudt += 0.5 * j.M * pij * vecd.Dot(e.Ndim, dv, avgGW)
		dudt += j.M * e.ACond.Rate(e.Ndim, i, j, vsig)
	}
	return
}
