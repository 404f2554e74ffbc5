// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/lagoon/config"
	"github.com/cpmech/lagoon/diagnostics"
	"github.com/cpmech/lagoon/domain"
	"github.com/cpmech/lagoon/particle"
)

func twoParticleParams() *config.Params {
	return &config.Params{
		Ndim: 1, Nhydro: 2,
		Tend: 10.0, TsnapFirst: 1e9, DtSnap: 1e9,
		HydroForces: true, SelfGravity: false,
		GasEOS: "energy_eqn", GammaEOS: 1.4,
		SPH: "gradh", HConverge: 1e-3, Kernel: "m4",
		AVisc: "mon97", ACond: "none", AlphaVisc: 1.0, BetaVisc: 2.0,
		SPHIntegration: "lfkdk", Nlevels: 1,
		Nleafmax: 2, ThetaMaxSqd: 0.25,
		Multipole: "monopole",
	}
}

func twoParticleStore() *particle.Store {
	store := particle.NewStore(16)
	p0 := particle.NewReal(0, [3]float64{-0.5, 0, 0}, [3]float64{0, 0, 0}, 1.0)
	p0.U = 1.0
	p1 := particle.NewReal(1, [3]float64{0.5, 0, 0}, [3]float64{0, 0, 0}, 1.0)
	p1.U = 1.0
	store.AddReal(p0)
	store.AddReal(p1)
	return store
}

func Test_substep_advances_time_and_conserves_momentum(tst *testing.T) {
	chk.PrintTitle("sim. one sub-step advances time and conserves total momentum")

	p := twoParticleParams()
	box := domain.NewBox(1, [3]float64{-10, 0, 0}, [3]float64{10, 0, 0})
	store := twoParticleStore()

	d, err := New(p, box, store)
	if err != nil {
		tst.Fatalf("New: %v", err)
	}

	col := diagnostics.NewCollector(1)
	before := col.Evaluate(0, store.All())

	t0 := d.t
	if err := d.SubStep(); err != nil {
		tst.Fatalf("SubStep: %v", err)
	}
	if d.t <= t0 {
		tst.Fatalf("expected time to advance, got t=%v (was %v)", d.t, t0)
	}

	after := col.Evaluate(d.t, store.All())
	chk.Scalar(tst, "total momentum (symmetric IC)", 1e-9, after.Momentum[0], before.Momentum[0])
}

func Test_substep_advances_a_star_under_self_gravity(tst *testing.T) {
	chk.PrintTitle("sim. a star particle is pulled toward the fluid and advanced by the N-body collaborator")

	p := twoParticleParams()
	p.SelfGravity = true
	p.Nstar = 1
	box := domain.NewBox(1, [3]float64{-10, 0, 0}, [3]float64{10, 0, 0})
	store := twoParticleStore()
	store.Stars = []*particle.Star{{R: [3]float64{5, 0, 0}, H: 0.1, M: 1.0}}

	d, err := New(p, box, store)
	if err != nil {
		tst.Fatalf("New: %v", err)
	}

	r0 := store.Stars[0].R[0]
	if err := d.SubStep(); err != nil {
		tst.Fatalf("SubStep: %v", err)
	}
	if store.Stars[0].R[0] >= r0 {
		tst.Fatalf("expected star to drift toward the fluid (x decreasing from %v), got %v", r0, store.Stars[0].R[0])
	}
}

func Test_substep_runge_kutta_predictor_corrector_advances_mfv_pair(tst *testing.T) {
	chk.PrintTitle("sim. sph=mfv_rk + sph_integration=rk drives the two-stage predictor/corrector path")

	p := twoParticleParams()
	p.SPH = "mfv_rk"
	p.SPHIntegration = "rk"
	box := domain.NewBox(1, [3]float64{-10, 0, 0}, [3]float64{10, 0, 0})
	store := twoParticleStore()

	d, err := New(p, box, store)
	if err != nil {
		tst.Fatalf("New: %v", err)
	}
	if d.mfvEngine == nil {
		tst.Fatalf("expected sph=mfv_rk to wire an mfv engine")
	}

	r0, r1 := store.Real(0).R[0], store.Real(1).R[0]
	t0 := d.t
	if err := d.SubStep(); err != nil {
		tst.Fatalf("SubStep: %v", err)
	}
	if d.t <= t0 {
		tst.Fatalf("expected time to advance, got t=%v (was %v)", d.t, t0)
	}
	if store.Real(0).R[0] == r0 || store.Real(1).R[0] == r1 {
		tst.Fatalf("expected the RK corrector to leave particles displaced from their predictor-saved state")
	}
}

func Test_substep_gives_pair_nonzero_pressure_acceleration(tst *testing.T) {
	chk.PrintTitle("sim. a two-particle pair within kernel reach gets a nonzero pressure acceleration")

	p := twoParticleParams()
	box := domain.NewBox(1, [3]float64{-10, 0, 0}, [3]float64{10, 0, 0})
	store := twoParticleStore()

	d, err := New(p, box, store)
	if err != nil {
		tst.Fatalf("New: %v", err)
	}
	if err := d.SubStep(); err != nil {
		tst.Fatalf("SubStep: %v", err)
	}

	p0, p1 := store.Real(0), store.Real(1)
	if p0.A[0] == 0 && p1.A[0] == 0 {
		tst.Fatalf("expected nonzero pressure acceleration on a symmetric two-particle pair, got zero on both")
	}
}
