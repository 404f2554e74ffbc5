// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ghost

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/lagoon/domain"
	"github.com/cpmech/lagoon/particle"
	"github.com/cpmech/lagoon/vecd"
)

func buildPeriodicBox() *domain.Box {
	b := domain.NewBox(3, vecd.V{0, 0, 0}, vecd.V{1, 1, 1})
	for d := 0; d < 3; d++ {
		b.LHS[d] = domain.Periodic
		b.RHS[d] = domain.Periodic
	}
	return b
}

func Test_refresh_ghosts_idempotent(tst *testing.T) {
	chk.PrintTitle("ghost. refresh is idempotent across two calls")

	box := buildPeriodicBox()
	store := particle.NewStore(500)
	for i := 0; i < 50; i++ {
		r := vecd.V{0.01 * float64(i%10), 0.5, 0.5}
		p := particle.NewReal(i, r, vecd.V{}, 1.0)
		p.H = 0.05
		store.AddReal(p)
	}

	eng := NewEngine(box, 2.0)
	if err := eng.RefreshGhosts(store, 0); err != nil {
		tst.Fatalf("first RefreshGhosts failed: %v", err)
	}
	n1 := store.Nghost
	var positions1 []vecd.V
	for i := store.Nreal; i < store.Ntot(); i++ {
		positions1 = append(positions1, store.Particles[i].R)
	}

	if err := eng.RefreshGhosts(store, 1); err != nil {
		tst.Fatalf("second RefreshGhosts failed: %v", err)
	}
	n2 := store.Nghost
	if n1 != n2 {
		tst.Fatalf("ghost count changed across identical refresh: %d != %d", n1, n2)
	}
	for i := store.Nreal; i < store.Ntot(); i++ {
		j := i - store.Nreal
		if store.Particles[i].R != positions1[j] {
			tst.Fatalf("ghost position changed across identical refresh at %d", j)
		}
	}
}

func Test_ghost_velocity_flips_on_mirror(tst *testing.T) {
	chk.PrintTitle("ghost. mirror boundary flips velocity component")

	box := domain.NewBox(1, vecd.V{0}, vecd.V{1})
	box.LHS[0] = domain.Mirror
	box.RHS[0] = domain.Mirror

	store := particle.NewStore(10)
	p := particle.NewReal(0, vecd.V{0.02, 0, 0}, vecd.V{-1, 0, 0}, 1.0)
	p.H = 0.1
	store.AddReal(p)

	eng := NewEngine(box, 2.0)
	if err := eng.RefreshGhosts(store, 0); err != nil {
		tst.Fatalf("RefreshGhosts failed: %v", err)
	}
	if store.Nghost == 0 {
		tst.Fatalf("expected at least one ghost near the mirror face")
	}
	g := store.Particles[store.Nreal]
	if g.V[0] != 1 {
		tst.Fatalf("expected mirrored v[0]==1, got %v", g.V[0])
	}
}
