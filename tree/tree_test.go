// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"math/rand"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/lagoon/neighbor"
	"github.com/cpmech/lagoon/particle"
	"github.com/cpmech/lagoon/vecd"
)

func randomParticles(n int, seed int64) []*particle.Particle {
	rng := rand.New(rand.NewSource(seed))
	parts := make([]*particle.Particle, n)
	for i := 0; i < n; i++ {
		r := vecd.V{rng.Float64(), rng.Float64(), rng.Float64()}
		p := particle.NewReal(i, r, vecd.V{}, 1.0/float64(n))
		p.H = 0.05
		if i%3 != 0 {
			p.Active = true
		}
		parts[i] = p
	}
	return parts
}

func Test_tree_bbox_contains_children(tst *testing.T) {
	chk.PrintTitle("tree. parent bbox contains child bboxes")
	parts := randomParticles(300, 1)
	tr := Build(parts, 3, 8, false)

	var walk func(idx int)
	walk = func(idx int) {
		n := &tr.Nodes[idx]
		if n.IsLeaf() {
			return
		}
		for _, ci := range []int{n.Left, n.Right} {
			c := &tr.Nodes[ci]
			for d := 0; d < 3; d++ {
				if c.BBMin[d] < n.BBMin[d]-1e-12 || c.BBMax[d] > n.BBMax[d]+1e-12 {
					tst.Fatalf("child bbox escapes parent bbox at dim %d", d)
				}
			}
		}
		walk(n.Left)
		walk(n.Right)
	}
	walk(tr.Root)
}

func Test_tree_mass_conservation(tst *testing.T) {
	chk.PrintTitle("tree. total mass at root equals sum of particle masses")
	parts := randomParticles(200, 2)
	tr := Build(parts, 3, 8, false)

	var total float64
	for _, p := range parts {
		total += p.M
	}
	chk.Scalar(tst, "root mass", 1e-9, tr.Nodes[tr.Root].Mass, total)
}

func Test_tree_hmax_consistency(tst *testing.T) {
	chk.PrintTitle("tree. hmax(node) == max hmax(children)")
	parts := randomParticles(150, 3)
	tr := Build(parts, 3, 8, false)

	var walk func(idx int) float64
	walk = func(idx int) float64 {
		n := &tr.Nodes[idx]
		if n.IsLeaf() {
			var h float64
			for i := n.Start; i < n.End; i++ {
				if tr.Particles[tr.Order[i]].H > h {
					h = tr.Particles[tr.Order[i]].H
				}
			}
			if h != n.Hmax {
				tst.Fatalf("leaf hmax mismatch")
			}
			return h
		}
		lh := walk(n.Left)
		rh := walk(n.Right)
		want := lh
		if rh > want {
			want = rh
		}
		if n.Hmax != want {
			tst.Fatalf("internal hmax mismatch: got %v want %v", n.Hmax, want)
		}
		return n.Hmax
	}
	walk(tr.Root)
}

// direct N^2 gravity force for comparison against a fully-opened tree walk
func directForce(parts []*particle.Particle, i int) vecd.V {
	var a vecd.V
	pi := parts[i]
	for j, pj := range parts {
		if j == i {
			continue
		}
		dr := vecd.Sub(3, pj.R, pi.R)
		r2 := vecd.NormSq(3, dr)
		r := sqrtf(r2)
		if r < 1e-12 {
			continue
		}
		f := pj.M / (r2 * r)
		for d := 0; d < 3; d++ {
			a[d] += f * dr[d]
		}
	}
	return a
}

func sqrtf(x float64) float64 {
	if x <= 0 {
		return 0
	}
	z := x
	for i := 0; i < 60; i++ {
		z = 0.5 * (z + x/z)
	}
	return z
}

func Test_tree_walk_equivalence_theta_zero(tst *testing.T) {
	chk.PrintTitle("tree. theta=0 tree walk equals direct N^2 sum")

	n := 80
	parts := randomParticles(n, 4)
	for _, p := range parts {
		p.Active = true
	}
	tr := Build(parts, 3, 8, false)
	tr.Stock()

	cells := tr.ComputeActiveCellList()
	mac := MAC{ThetaMaxSqd: 0} // thetamaxsqd=0: no cell ever passes the MAC, so every contact resolves to near/direct
	mgr := neighbor.NewManager(64)

	for _, cell := range cells {
		actives := tr.ComputeActiveParticleList(cell)
		tr.ComputeGravityInteractionAndGhostList(cell, 2.0, mac, mgr)
		if len(mgr.CellIDs()) != 0 {
			tst.Fatalf("expected no accepted cells at thetamaxsqd=0, got %d", len(mgr.CellIDs()))
		}
		candidates := append(append([]int{}, mgr.DirectIDs()...), mgr.HydroIDs()...)
		for _, i := range actives {
			var a vecd.V
			for _, j := range candidates {
				if j == i {
					continue
				}
				dr := vecd.Sub(3, parts[j].R, parts[i].R)
				r2 := vecd.NormSq(3, dr)
				r := sqrtf(r2)
				if r < 1e-12 {
					continue
				}
				f := parts[j].M / (r2 * r)
				for d := 0; d < 3; d++ {
					a[d] += f * dr[d]
				}
			}
			want := directForce(parts, i)
			for d := 0; d < 3; d++ {
				if abs(a[d]-want[d]) > 1e-9*(1+abs(want[d])) {
					tst.Fatalf("tree-walk/direct mismatch at particle %d dim %d: %v vs %v", i, d, a[d], want[d])
				}
			}
		}
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
