// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"github.com/cpmech/lagoon/neighbor"
	"github.com/cpmech/lagoon/vecd"
)

// ComputeGatherNeighborList walks the tree collecting every particle
// index j whose position lies within kernrange*hmax + cell_extent of the
// cell's bbox center, per spec.md §4.3.
func (t *Tree) ComputeGatherNeighborList(cell int, kernrange, hmax float64, mgr *neighbor.Manager) {
	center := t.CellCenter(cell)
	reach := kernrange*hmax + t.CellExtent(cell)
	mgr.Reset()
	t.gatherRec(t.Root, center, reach, mgr)
}

func (t *Tree) gatherRec(idx int, center vecd.V, reach float64, mgr *neighbor.Manager) {
	n := &t.Nodes[idx]
	if !t.sphereOverlapsBox(center, reach, n) {
		return
	}
	if n.IsLeaf() {
		for i := n.Start; i < n.End; i++ {
			gidx := t.Order[i]
			dr := vecd.Sub(t.Ndim, t.Particles[gidx].R, center)
			if vecd.Norm(t.Ndim, dr) <= reach {
				mgr.Append(neighbor.Hydro, gidx)
			}
		}
		return
	}
	t.gatherRec(n.Left, center, reach, mgr)
	t.gatherRec(n.Right, center, reach, mgr)
}

// sphereOverlapsBox reports whether the sphere (center,reach) can touch
// node's bbox, the node-recursion pruning test shared by every query.
func (t *Tree) sphereOverlapsBox(center vecd.V, reach float64, n *Node) bool {
	var d2 float64
	for d := 0; d < t.Ndim; d++ {
		c := center[d]
		lo, hi := n.BBMin[d], n.BBMax[d]
		var dd float64
		switch {
		case c < lo:
			dd = lo - c
		case c > hi:
			dd = c - hi
		}
		d2 += dd * dd
	}
	return d2 <= reach*reach
}

// ComputeNeighborAndGhostList gathers the symmetric hydro-neighbor
// candidate set for a cell (both real and ghost particles, since both
// live in this tree -- see the package doc comment), into mgr's Hydro
// sublist. EndSearch then trims the raw candidate set by the true
// per-pair kernel range.
func (t *Tree) ComputeNeighborAndGhostList(cell int, kernrange, hmax float64, mgr *neighbor.Manager) {
	t.ComputeGatherNeighborList(cell, kernrange, hmax, mgr)
}

// EndSearch trims a raw candidate list down to the true symmetric
// neighbor set for particle i: retains j iff
// |r_i-r_j|^2 <= max(kernrange*h_i, kernrange*h_j)^2, per spec.md §4.4.
func (t *Tree) EndSearch(i int, kernrange float64, candidates []int) []int {
	pi := t.Particles[i]
	out := candidates[:0:len(candidates)]
	for _, j := range candidates {
		if j == i {
			continue
		}
		pj := t.Particles[j]
		dr := vecd.Sub(t.Ndim, pi.R, pj.R)
		r2 := vecd.NormSq(t.Ndim, dr)
		hi, hj := kernrange*pi.H, kernrange*pj.H
		rmax := hi
		if hj > rmax {
			rmax = hj
		}
		if r2 <= rmax*rmax {
			out = append(out, j)
		}
	}
	return out
}

// MAC configures the opening-angle Multipole Acceptance Criterion
// (spec.md §4.3): a node is accepted as a cell contribution iff
// (size/dist)^2 * macfactor < thetamaxsqd.
type MAC struct {
	ThetaMaxSqd float64
	MACFactor   func(node *Node) float64 // 1 for geometric; max_j(1/phi_j)^(2/3) for eigen
}

// ComputeGravityInteractionAndGhostList classifies opposite-side contacts
// for an active cell into near (hydro-range smoothed gravity), direct
// (point-point), and cell (multipole) lists, per spec.md §4.3/§4.8.
//
// Tie-break rules implemented exactly as spec.md §4.3 states them:
//   - a node whose bbox overlaps the active cell always recurses (a);
//   - accepted-cell and recurse are mutually exclusive per node, so two
//     children straddling the acceptance boundary are each judged on
//     their own bbox, never merged, which is what "accept neither" means
//     in a binary tree where the parent already failed the MAC (b);
//   - distances use node COM (c).
func (t *Tree) ComputeGravityInteractionAndGhostList(cell int, kernrange float64, mac MAC, mgr *neighbor.Manager) {
	mgr.Reset()
	t.gravRec(t.Root, cell, kernrange, mac, mgr)
}

func (t *Tree) gravRec(idx, cell int, kernrange float64, mac MAC, mgr *neighbor.Manager) {
	n := &t.Nodes[idx]
	c := &t.Nodes[cell]

	if t.bboxOverlap(n, c) {
		if n.IsLeaf() {
			for i := n.Start; i < n.End; i++ {
				mgr.Append(neighbor.Hydro, t.Order[i])
			}
			return
		}
		t.gravRec(n.Left, cell, kernrange, mac, mgr)
		t.gravRec(n.Right, cell, kernrange, mac, mgr)
		return
	}

	center := t.CellCenter(cell)
	dr := vecd.Sub(t.Ndim, n.COM, center)
	dist2 := vecd.NormSq(t.Ndim, dr)
	size := t.nodeSize(n)

	macfactor := 1.0
	if mac.MACFactor != nil {
		macfactor = mac.MACFactor(n)
	}

	if dist2 > 0 && (size*size/dist2)*macfactor < mac.ThetaMaxSqd {
		mgr.Append(neighbor.Cell, idx)
		return
	}

	if n.IsLeaf() {
		reach := kernrange * n.Hmax
		if dist2 <= reach*reach {
			for i := n.Start; i < n.End; i++ {
				mgr.Append(neighbor.Hydro, t.Order[i])
			}
		} else {
			for i := n.Start; i < n.End; i++ {
				mgr.Append(neighbor.Direct, t.Order[i])
			}
		}
		return
	}
	t.gravRec(n.Left, cell, kernrange, mac, mgr)
	t.gravRec(n.Right, cell, kernrange, mac, mgr)
}

func (t *Tree) bboxOverlap(a, b *Node) bool {
	for d := 0; d < t.Ndim; d++ {
		if a.BBMax[d] < b.BBMin[d] || b.BBMax[d] < a.BBMin[d] {
			return false
		}
	}
	return true
}

func (t *Tree) nodeSize(n *Node) float64 {
	var maxSide float64
	for d := 0; d < t.Ndim; d++ {
		if s := n.BBMax[d] - n.BBMin[d]; s > maxSide {
			maxSide = s
		}
	}
	return maxSide
}
