// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package eos implements the gas-equation-of-state collaborators from
// spec.md §6: given (rho,u) or (rho,T), return pressure and sound speed.
// Variants are selected by name through an allocator map, the same
// factory idiom gofem/mreten uses for retention models.
package eos

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// EOS is the callback interface every gas-law variant implements.
type EOS interface {
	Init(gamma float64) error
	// PressureU returns (P, cs) given density and internal energy.
	PressureU(rho, u float64) (p, cs float64)
}

var allocators = make(map[string]func() EOS)

func init() {
	allocators["energy_eqn"] = func() EOS { return new(IdealGas) }
	allocators["isothermal"] = func() EOS { return new(Isothermal) }
	allocators["barotropic"] = func() EOS { return new(Barotropic) }
}

// New returns an initialized EOS variant by config token.
func New(name string, gamma float64) (EOS, error) {
	alloc, ok := allocators[name]
	if !ok {
		return nil, chk.Err("eos: unknown gas_eos token %q", name)
	}
	e := alloc()
	if err := e.Init(gamma); err != nil {
		return nil, err
	}
	return e, nil
}

// IdealGas is the default gamma-law energy-equation EOS: P=(gamma-1)*rho*u.
type IdealGas struct {
	gamma float64
}

func (o *IdealGas) Init(gamma float64) error {
	if gamma <= 1.0 {
		return chk.Err("eos: gamma_eos must be > 1, got %v", gamma)
	}
	o.gamma = gamma
	return nil
}

func (o *IdealGas) PressureU(rho, u float64) (p, cs float64) {
	p = (o.gamma - 1.0) * rho * u
	cs = math.Sqrt(o.gamma * (o.gamma - 1.0) * u)
	return
}

// Isothermal holds temperature (encoded as a fixed sound speed squared)
// constant: P = cs0^2 * rho.
type Isothermal struct {
	cs0 float64
}

func (o *Isothermal) Init(gamma float64) error {
	o.cs0 = 1.0 // neutral default; callers needing a specific isothermal
	// sound speed should set it explicitly via SetSoundSpeed.
	return nil
}

// SetSoundSpeed overrides the isothermal sound speed (config carries
// gamma_eos only; an isothermal run's temperature is supplied by the IC
// generator, an external collaborator per spec.md §1).
func (o *Isothermal) SetSoundSpeed(cs0 float64) { o.cs0 = cs0 }

func (o *Isothermal) PressureU(rho, u float64) (p, cs float64) {
	return o.cs0 * o.cs0 * rho, o.cs0
}

// Barotropic implements a polytropic P=K*rho^gamma closure with no
// explicit energy equation, used for isothermal-collapse-style problems.
type Barotropic struct {
	gamma, kpoly float64
}

func (o *Barotropic) Init(gamma float64) error {
	o.gamma = gamma
	o.kpoly = 1.0
	return nil
}

// SetPolytropicConstant overrides K in P=K*rho^gamma.
func (o *Barotropic) SetPolytropicConstant(k float64) { o.kpoly = k }

func (o *Barotropic) PressureU(rho, u float64) (p, cs float64) {
	p = o.kpoly * math.Pow(rho, o.gamma)
	cs = math.Sqrt(o.gamma * p / rho)
	return
}
