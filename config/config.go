// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package config reads the flat key->value simulation configuration
// (spec.md §6) from a YAML file and validates it into a typed Params.
package config

import (
	"os"

	"github.com/cpmech/lagoon/simerr"
	"gopkg.in/yaml.v3"
)

// Params is the typed, validated configuration for one run.
type Params struct {
	Sim  string `yaml:"sim"`
	IC   string `yaml:"ic"`
	Ndim int    `yaml:"ndim"`

	Nhydro int `yaml:"Nhydro"`
	Nstar  int `yaml:"Nstar"`

	Tend       float64 `yaml:"tend"`
	TsnapFirst float64 `yaml:"tsnapfirst"`
	DtSnap     float64 `yaml:"dt_snap"`
	NoutputStep int    `yaml:"noutputstep"`

	HydroForces     bool `yaml:"hydro_forces"`
	SelfGravity     bool `yaml:"self_gravity"`
	PeriodicGravity bool `yaml:"periodic_gravity"`

	GasEOS  string  `yaml:"gas_eos"`
	GammaEOS float64 `yaml:"gamma_eos"`

	SPH        string  `yaml:"sph"`
	HConverge  float64 `yaml:"h_converge"`
	Kernel     string  `yaml:"kernel"`
	Tabulated  bool    `yaml:"tabulated_kernel"`

	AVisc      string  `yaml:"avisc"`
	ACond      string  `yaml:"acond"`
	AlphaVisc  float64 `yaml:"alpha_visc"`
	BetaVisc   float64 `yaml:"beta_visc"`

	SPHIntegration string `yaml:"sph_integration"`
	CourantMult    float64 `yaml:"courant_mult"`
	AccelMult      float64 `yaml:"accel_mult"`
	EnergyMult     float64 `yaml:"energy_mult"`
	SphSingleTimestep bool `yaml:"sph_single_timestep"`
	Nlevels        int     `yaml:"Nlevels"`

	NeibSearch  string `yaml:"neib_search"`
	Nleafmax    int    `yaml:"Nleafmax"`
	ThetaMaxSqd float64 `yaml:"thetamaxsqd"`
	GravityMAC  string `yaml:"gravity_mac"`
	Multipole   string `yaml:"multipole"`

	XBoundaryLHS string `yaml:"x_boundary_lhs"`
	XBoundaryRHS string `yaml:"x_boundary_rhs"`
	YBoundaryLHS string `yaml:"y_boundary_lhs"`
	YBoundaryRHS string `yaml:"y_boundary_rhs"`
	ZBoundaryLHS string `yaml:"z_boundary_lhs"`
	ZBoundaryRHS string `yaml:"z_boundary_rhs"`
}

// recognized is the set of keys from spec.md §6 this reader understands.
// Kept as a set (not the struct tags) so unknown-key detection works on
// the raw document independently of how Params happens to be shaped.
var recognized = map[string]bool{
	"sim": true, "ic": true, "ndim": true, "Nhydro": true, "Nstar": true,
	"tend": true, "tsnapfirst": true, "dt_snap": true, "noutputstep": true,
	"hydro_forces": true, "self_gravity": true, "periodic_gravity": true,
	"gas_eos": true, "gamma_eos": true,
	"sph": true, "h_converge": true, "kernel": true, "tabulated_kernel": true,
	"avisc": true, "acond": true, "alpha_visc": true, "beta_visc": true,
	"sph_integration": true, "courant_mult": true, "accel_mult": true,
	"energy_mult": true, "sph_single_timestep": true, "Nlevels": true,
	"neib_search": true, "Nleafmax": true, "thetamaxsqd": true,
	"gravity_mac": true, "multipole": true,
	"x_boundary_lhs": true, "x_boundary_rhs": true,
	"y_boundary_lhs": true, "y_boundary_rhs": true,
	"z_boundary_lhs": true, "z_boundary_rhs": true,
}

var validEOS = map[string]bool{"energy_eqn": true, "isothermal": true, "barotropic": true}
var validSPH = map[string]bool{"gradh": true, "sm2012": true, "mfv_mm": true, "mfv_rk": true}
var validKernel = map[string]bool{"m4": true, "quintic": true, "gaussian": true}
var validAVisc = map[string]bool{"none": true, "mon97": true}
var validACond = map[string]bool{"none": true, "wadsley": true}
var validSPHInteg = map[string]bool{"lfkdk": true, "lfdkd": true, "rk": true}
var validNeibSearch = map[string]bool{"kdtree": true, "octtree": true, "brute": true}
var validGravMAC = map[string]bool{"geometric": true, "eigenmac": true}
var validMultipole = map[string]bool{"monopole": true, "quadrupole": true, "fast_monopole": true, "fast_quadrupole": true}
var validBoundary = map[string]bool{"open": true, "periodic": true, "mirror": true}

// Load reads and validates a configuration file, returning a ConfigError
// wrapped simerr.SimError on any unknown key or inconsistency.
func Load(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, simerr.New(simerr.IOFailure, 0, "cannot read config file %q: %v", path, err)
	}
	return Parse(data)
}

// Parse validates and decodes raw YAML bytes into Params.
func Parse(data []byte) (*Params, error) {
	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, simerr.New(simerr.ConfigError, 0, "cannot parse config: %v", err)
	}
	for key := range raw {
		if !recognized[key] {
			return nil, simerr.New(simerr.ConfigError, 0, "unknown configuration key %q", key)
		}
	}

	p := defaults()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, simerr.New(simerr.ConfigError, 0, "cannot decode config: %v", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func defaults() *Params {
	return &Params{
		Ndim:           3,
		DtSnap:         1.0,
		HydroForces:    true,
		GasEOS:         "energy_eqn",
		GammaEOS:       1.4,
		SPH:            "gradh",
		HConverge:      1e-4,
		Kernel:         "m4",
		AVisc:          "mon97",
		ACond:          "none",
		AlphaVisc:      1.0,
		BetaVisc:       2.0,
		SPHIntegration: "lfkdk",
		CourantMult:    0.2,
		AccelMult:      0.3,
		EnergyMult:     0.4,
		Nlevels:        1,
		NeibSearch:     "kdtree",
		Nleafmax:       8,
		ThetaMaxSqd:    0.04,
		GravityMAC:     "geometric",
		Multipole:      "monopole",
		XBoundaryLHS:   "open",
		XBoundaryRHS:   "open",
		YBoundaryLHS:   "open",
		YBoundaryRHS:   "open",
		ZBoundaryLHS:   "open",
		ZBoundaryRHS:   "open",
	}
}

// Validate checks enum membership and ndim<->boundary consistency
// (spec.md §6: "non-spatial dimensions' boundary settings are ignored").
func (p *Params) Validate() error {
	if p.Ndim < 1 || p.Ndim > 3 {
		return simerr.New(simerr.ConfigError, 0, "ndim must be in {1,2,3}, got %d", p.Ndim)
	}
	checks := []struct {
		name, val string
		set       map[string]bool
	}{
		{"gas_eos", p.GasEOS, validEOS},
		{"sph", p.SPH, validSPH},
		{"kernel", p.Kernel, validKernel},
		{"avisc", p.AVisc, validAVisc},
		{"acond", p.ACond, validACond},
		{"sph_integration", p.SPHIntegration, validSPHInteg},
		{"neib_search", p.NeibSearch, validNeibSearch},
		{"gravity_mac", p.GravityMAC, validGravMAC},
		{"multipole", p.Multipole, validMultipole},
	}
	for _, c := range checks {
		if !c.set[c.val] {
			return simerr.New(simerr.ConfigError, 0, "unrecognized %s token %q", c.name, c.val)
		}
	}
	bounds := []struct {
		name string
		dim  int
		val  string
	}{
		{"x_boundary_lhs", 0, p.XBoundaryLHS}, {"x_boundary_rhs", 0, p.XBoundaryRHS},
		{"y_boundary_lhs", 1, p.YBoundaryLHS}, {"y_boundary_rhs", 1, p.YBoundaryRHS},
		{"z_boundary_lhs", 2, p.ZBoundaryLHS}, {"z_boundary_rhs", 2, p.ZBoundaryRHS},
	}
	for _, b := range bounds {
		if b.dim >= p.Ndim {
			continue // non-spatial dimension: ignored per spec.md §6
		}
		if !validBoundary[b.val] {
			return simerr.New(simerr.ConfigError, 0, "unrecognized %s token %q", b.name, b.val)
		}
	}
	return nil
}
