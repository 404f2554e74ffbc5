// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gravity

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/lagoon/kernel"
	"github.com/cpmech/lagoon/particle"
	"github.com/cpmech/lagoon/vecd"
)

func twoBodyEngine(tst *testing.T) (*Engine, *particle.Particle, *particle.Particle) {
	k, err := kernel.New("m4", 1, false)
	if err != nil {
		tst.Fatalf("kernel.New: %v", err)
	}
	eng := &Engine{Ndim: 1, G: 1.0, Kernel: k, Multipole: Monopole}
	pi := particle.NewReal(0, vecd.V{0, 0, 0}, vecd.V{}, 1.0)
	pi.H = 0.1
	pj := particle.NewReal(1, vecd.V{1.0, 0, 0}, vecd.V{}, 2.0)
	pj.H = 0.1
	return eng, pi, pj
}

func Test_pair_gravity_momentum_conservation(tst *testing.T) {
	chk.PrintTitle("gravity. pairwise accel*mass is antisymmetric (momentum conserving)")

	eng, pi, pj := twoBodyEngine(tst)
	ai, _ := eng.PairGravity(pi, []*particle.Particle{pj})
	aj, _ := eng.PairGravity(pj, []*particle.Particle{pi})

	lhs := pi.M*ai[0] + pj.M*aj[0]
	chk.Scalar(tst, "m_i*a_i + m_j*a_j", 1e-12, lhs, 0)
}

func Test_pair_gravity_far_field_matches_newton(tst *testing.T) {
	chk.PrintTitle("gravity. beyond kernel support, smoothed gravity matches 1/r^2")

	eng, pi, pj := twoBodyEngine(tst)
	pj.R = vecd.V{10.0, 0, 0} // s = r/h = 1e7 with the h below, far beyond kernel range
	pi.H, pj.H = 1e-6, 1e-6   // softening negligible against r for the direct check

	a, _ := eng.PairGravity(pi, []*particle.Particle{pj})
	want := eng.G * pj.M / (10.0 * 10.0) // attraction toward pj, at +x
	chk.Scalar(tst, "a_x", 1e-9, a[0], want)

	aDirect, _ := eng.DirectGravity(pi, []*particle.Particle{pj})
	chk.Scalar(tst, "a_x (direct)", 1e-9, aDirect[0], want)
}

func Test_star_gravity_attracts_toward_star(tst *testing.T) {
	chk.PrintTitle("gravity. star gravity attracts fluid particle toward the star")

	k, err := kernel.New("m4", 2, false)
	if err != nil {
		tst.Fatalf("kernel.New: %v", err)
	}
	eng := &Engine{Ndim: 2, G: 1.0, Kernel: k}
	p := particle.NewReal(0, vecd.V{1, 0, 0}, vecd.V{}, 1.0)
	p.H = 0.05
	star := particle.Star{R: vecd.V{0, 0, 0}, M: 10.0, H: 0.05}

	a, phi := eng.StarGravity(p, []particle.Star{star})
	if a[0] >= 0 {
		tst.Fatalf("expected attraction toward star (negative a_x), got %v", a[0])
	}
	if phi >= 0 {
		tst.Fatalf("expected negative potential, got %v", phi)
	}
	if math.IsNaN(a[0]) || math.IsNaN(phi) {
		tst.Fatalf("NaN in star gravity result")
	}
}
