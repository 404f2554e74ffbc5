// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagnostics

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/lagoon/particle"
)

func Test_energy_error_zero_at_t0(tst *testing.T) {
	chk.PrintTitle("diagnostics. relative energy error is zero at the reference step")

	c := NewCollector(1)
	p := particle.NewReal(0, [3]float64{0, 0, 0}, [3]float64{1, 0, 0}, 2.0)
	p.U = 0.5

	s0 := c.Evaluate(0, []*particle.Particle{p})
	chk.Scalar(tst, "E_err(0)", 1e-15, c.RelativeEnergyError(s0), 0)
}

func Test_energy_error_detects_drift(tst *testing.T) {
	chk.PrintTitle("diagnostics. relative energy error reflects a later change in E_tot")

	c := NewCollector(1)
	p := particle.NewReal(0, [3]float64{0, 0, 0}, [3]float64{1, 0, 0}, 2.0)
	p.U = 0.5
	c.Evaluate(0, []*particle.Particle{p})

	p.V[0] = 2.0 // kinetic energy quadruples
	s1 := c.Evaluate(1, []*particle.Particle{p})
	if c.RelativeEnergyError(s1) <= 0 {
		tst.Fatalf("expected nonzero relative energy error after velocity change")
	}
}

func Test_ghosts_excluded_from_invariants(tst *testing.T) {
	chk.PrintTitle("diagnostics. ghost particles do not contribute to mass/momentum sums")

	c := NewCollector(1)
	real := particle.NewReal(0, [3]float64{0, 0, 0}, [3]float64{1, 0, 0}, 1.0)
	ghost := particle.NewReal(1, [3]float64{1, 0, 0}, [3]float64{1, 0, 0}, 1.0)
	ghost.Ghost.Faces = []particle.FaceTransform{{Dim: 0, Side: 0, Kind: 1}} // any non-empty chain marks this a ghost

	s := c.Evaluate(0, []*particle.Particle{real, ghost})
	chk.Scalar(tst, "mass excludes ghost", 1e-15, s.Mass, real.M)
}
