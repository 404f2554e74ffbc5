// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gradh

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/lagoon/eos"
	"github.com/cpmech/lagoon/kernel"
	"github.com/cpmech/lagoon/particle"
)

func twoParticleEngine(tst *testing.T) (*Engine, *particle.Particle, *particle.Particle) {
	k, err := kernel.New("m4", 1, false)
	if err != nil {
		tst.Fatalf("kernel.New: %v", err)
	}
	e, err := eos.New("energy_eqn", 1.4)
	if err != nil {
		tst.Fatalf("eos.New: %v", err)
	}
	av, err := NewAVisc("mon97")
	if err != nil {
		tst.Fatalf("NewAVisc: %v", err)
	}
	ac, err := NewACond("none")
	if err != nil {
		tst.Fatalf("NewACond: %v", err)
	}
	eng := &Engine{Ndim: 1, Kernel: k, EOS: e, AVisc: av, ACond: ac, Alpha: 1, Beta: 2}

	pi := particle.NewReal(0, [3]float64{0.0, 0, 0}, [3]float64{0.1, 0, 0}, 1.0)
	pi.H, pi.Rho, pi.U, pi.OmegaInv = 0.2, 1.0, 1.0, 1.0
	pj := particle.NewReal(1, [3]float64{0.05, 0, 0}, [3]float64{-0.1, 0, 0}, 1.0)
	pj.H, pj.Rho, pj.U, pj.OmegaInv = 0.2, 1.0, 1.0, 1.0
	return eng, pi, pj
}

func Test_pairwise_force_momentum_conservation(tst *testing.T) {
	chk.PrintTitle("gradh. pairwise accel*mass is antisymmetric (momentum conserving)")

	eng, pi, pj := twoParticleEngine(tst)
	press := map[*particle.Particle]float64{}
	press[pi] = eng.UpdatePressureAndSoundSpeed(pi)
	press[pj] = eng.UpdatePressureAndSoundSpeed(pj)
	pressOf := func(p *particle.Particle) float64 { return press[p] }

	ai, _, _ := eng.ComputeForces(pi, []*particle.Particle{pj}, pressOf)
	aj, _, _ := eng.ComputeForces(pj, []*particle.Particle{pi}, pressOf)

	lhs := pi.M * ai[0]
	rhs := pj.M * aj[0]
	chk.Scalar(tst, "m_i*a_i + m_j*a_j", 1e-10, lhs+rhs, 0)
}
