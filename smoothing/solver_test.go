// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smoothing

import (
	"math/rand"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/lagoon/kernel"
	"github.com/cpmech/lagoon/particle"
)

func Test_solver_converges_for_homogeneous_ic(tst *testing.T) {
	chk.PrintTitle("smoothing. fixed-point solve converges within K1 for homogeneous ICs")

	ndim := 3
	k, err := kernel.New("m4", ndim, false)
	if err != nil {
		tst.Fatalf("kernel.New: %v", err)
	}
	solver := NewSolver(ndim, k, 1.2, 1e-4)

	n := 200
	rng := rand.New(rand.NewSource(42))
	parts := make([]*particle.Particle, n)
	for i := 0; i < n; i++ {
		r := [3]float64{rng.Float64(), rng.Float64(), rng.Float64()}
		parts[i] = particle.NewReal(i, r, [3]float64{}, 1.0/float64(n))
		parts[i].H = 0.15
	}

	converged := 0
	for i := 0; i < n; i++ {
		others := make([]*particle.Particle, 0, n-1)
		for j := 0; j < n; j++ {
			if j != i {
				others = append(others, parts[j])
			}
		}
		res, err := solver.Solve(0, i, parts[i], others, 0, 0.6)
		if err != nil {
			continue
		}
		if res.Iters <= K1 {
			converged++
		}
	}

	frac := float64(converged) / float64(n)
	if frac < 0.99 {
		tst.Fatalf("expected >=99%% convergence within K1, got %v%%", 100*frac)
	}
}

func Test_solver_rejects_nonpositive_density(tst *testing.T) {
	chk.PrintTitle("smoothing. isolated particle with no neighbors still has self-density > 0")
	ndim := 3
	k, _ := kernel.New("m4", ndim, false)
	solver := NewSolver(ndim, k, 1.2, 1e-4)
	p := particle.NewReal(0, [3]float64{0, 0, 0}, [3]float64{}, 1.0)
	p.H = 0.1
	if rho := solver.DensitySum(p.H, p, nil); rho <= 0 {
		tst.Fatalf("expected a positive self-density, got %v", rho)
	}
	// with only its own W(0) term, each fixed-point update grows h by
	// Hfac/W(0)^(1/3) ~ 1.76 (0.1 -> 0.18 -> 0.31 -> 0.54), so the kernel
	// reach 2h passes hmax=1 and Solve asks for a wider gather instead of
	// reporting a non-positive state
	_, err := solver.Solve(0, 0, p, nil, 0, 1.0)
	if err != ErrInsufficientNeighbors {
		tst.Fatalf("expected ErrInsufficientNeighbors for an isolated particle, got %v", err)
	}
}
