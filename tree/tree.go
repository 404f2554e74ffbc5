// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tree implements the balanced binary (KD-style) spatial tree,
// split down to a leaf capacity, used for neighbor and gravity queries (spec.md §4.3, component C5).
//
// Ghosts are stored in the same contiguous particle.Store array as real
// particles (spec.md §3), so a single Tree built over the whole store
// already contains both real and ghost particles; "ghost trees" from
// spec.md §4.3/§4.4 are therefore this same tree, not a second structure.
package tree

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/lagoon/particle"
	"github.com/cpmech/lagoon/vecd"
)

// Node is one axis-aligned box in the tree.
type Node struct {
	BBMin, BBMax vecd.V
	COM          vecd.V
	Mass         float64
	Hmax         float64
	Quad         [3][3]float64 // traceless quadrupole moment about COM
	Start, End   int           // [Start,End) range into Tree.Order
	Left, Right  int           // child node indices; -1 if leaf
}

// IsLeaf reports whether a node has no children.
func (n *Node) IsLeaf() bool { return n.Left < 0 }

// Tree is a non-owning index structure over a particle slice.
type Tree struct {
	Ndim       int
	Nleafmax   int
	Quadrupole bool
	Particles  []*particle.Particle
	Order      []int // particle slice indices, leaf-contiguous
	Nodes      []Node
	Root       int
}

// Build constructs a fresh tree over parts (typically store.All(), i.e.
// real particles followed by the current ghost tail). The partition
// recurses on the widest axis, splitting at the median so the two
// children differ in size by at most one member -- this keeps leaf sizes
// balanced within a factor of 2, per spec.md §4.3.
func Build(parts []*particle.Particle, ndim, nleafmax int, quadrupole bool) *Tree {
	t := &Tree{Ndim: ndim, Nleafmax: nleafmax, Quadrupole: quadrupole, Particles: parts}
	t.Order = make([]int, len(parts))
	for i := range t.Order {
		t.Order[i] = i
	}
	t.Nodes = make([]Node, 0, 2*len(parts)/nleafmax+2)
	t.Root = t.buildRec(0, len(parts))
	return t
}

func (t *Tree) buildRec(lo, hi int) int {
	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{Start: lo, End: hi, Left: -1, Right: -1})

	if hi-lo <= t.Nleafmax {
		t.stockLeaf(idx)
		return idx
	}

	axis := t.widestAxis(lo, hi)
	sub := t.Order[lo:hi]
	sort.Slice(sub, func(a, b int) bool {
		return t.Particles[sub[a]].R[axis] < t.Particles[sub[b]].R[axis]
	})
	mid := lo + (hi-lo)/2 // median split: exactly balanced, within the
	// spec's "factor of 2" leaf-size tolerance for any nleafmax.

	left := t.buildRec(lo, mid)
	right := t.buildRec(mid, hi)
	t.Nodes[idx].Left = left
	t.Nodes[idx].Right = right
	t.stockInternal(idx)
	return idx
}

func (t *Tree) widestAxis(lo, hi int) int {
	var bmin, bmax vecd.V
	for d := 0; d < t.Ndim; d++ {
		bmin[d] = t.Particles[t.Order[lo]].R[d]
		bmax[d] = bmin[d]
	}
	for i := lo; i < hi; i++ {
		r := t.Particles[t.Order[i]].R
		for d := 0; d < t.Ndim; d++ {
			if r[d] < bmin[d] {
				bmin[d] = r[d]
			}
			if r[d] > bmax[d] {
				bmax[d] = r[d]
			}
		}
	}
	axis, width := 0, bmax[0]-bmin[0]
	for d := 1; d < t.Ndim; d++ {
		if w := bmax[d] - bmin[d]; w > width {
			axis, width = d, w
		}
	}
	return axis
}

// Stock recomputes bbox/mass/COM/hmax/quadrupole bottom-up without
// rebuilding the partition, for steps where geometry hasn't changed
// enough to warrant a full rebuild (spec.md §4.3, Driver step 2).
func (t *Tree) Stock() {
	t.stockGuard()
	t.stockRec(t.Root)
}

func (t *Tree) stockRec(idx int) {
	n := &t.Nodes[idx]
	if n.IsLeaf() {
		t.stockLeaf(idx)
		return
	}
	t.stockRec(n.Left)
	t.stockRec(n.Right)
	t.stockInternal(idx)
}

func (t *Tree) stockLeaf(idx int) {
	n := &t.Nodes[idx]
	var bmin, bmax, com vecd.V
	var mass, hmax float64
	first := true
	for i := n.Start; i < n.End; i++ {
		p := t.Particles[t.Order[i]]
		if first {
			bmin, bmax = p.R, p.R
			first = false
		}
		for d := 0; d < t.Ndim; d++ {
			if p.R[d] < bmin[d] {
				bmin[d] = p.R[d]
			}
			if p.R[d] > bmax[d] {
				bmax[d] = p.R[d]
			}
			com[d] += p.M * p.R[d]
		}
		mass += p.M
		if p.H > hmax {
			hmax = p.H
		}
	}
	if mass > 0 {
		for d := 0; d < t.Ndim; d++ {
			com[d] /= mass
		}
	}
	n.BBMin, n.BBMax, n.COM, n.Mass, n.Hmax = bmin, bmax, com, mass, hmax
	if t.Quadrupole {
		n.Quad = t.quadrupoleOf(n.Start, n.End, com)
	}
}

func (t *Tree) stockInternal(idx int) {
	n := &t.Nodes[idx]
	l, r := &t.Nodes[n.Left], &t.Nodes[n.Right]

	var bmin, bmax vecd.V
	for d := 0; d < t.Ndim; d++ {
		bmin[d] = minf(l.BBMin[d], r.BBMin[d])
		bmax[d] = maxf(l.BBMax[d], r.BBMax[d])
	}
	mass := l.Mass + r.Mass
	var com vecd.V
	if mass > 0 {
		for d := 0; d < t.Ndim; d++ {
			com[d] = (l.COM[d]*l.Mass + r.COM[d]*r.Mass) / mass
		}
	}
	hmax := l.Hmax
	if r.Hmax > hmax {
		hmax = r.Hmax
	}
	n.BBMin, n.BBMax, n.COM, n.Mass, n.Hmax = bmin, bmax, com, mass, hmax
	if t.Quadrupole {
		n.Quad = t.quadrupoleOf(n.Start, n.End, com)
	}
}

// quadrupoleOf computes the traceless quadrupole moment of members
// [lo,hi) about center com, per spec.md §3 (Tree invariants).
func (t *Tree) quadrupoleOf(lo, hi int, com vecd.V) [3][3]float64 {
	var q [3][3]float64
	for i := lo; i < hi; i++ {
		p := t.Particles[t.Order[i]]
		dr := vecd.Sub(t.Ndim, p.R, com)
		r2 := vecd.NormSq(t.Ndim, dr)
		for a := 0; a < t.Ndim; a++ {
			for b := 0; b < t.Ndim; b++ {
				term := 3 * dr[a] * dr[b]
				if a == b {
					term -= r2
				}
				q[a][b] += p.M * term
			}
		}
	}
	return q
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// ComputeActiveCellList returns the leaf nodes containing at least one
// active particle, per spec.md §4.3.
func (t *Tree) ComputeActiveCellList() []int {
	var cells []int
	for i := range t.Nodes {
		if !t.Nodes[i].IsLeaf() {
			continue
		}
		if t.leafHasActive(i) {
			cells = append(cells, i)
		}
	}
	return cells
}

func (t *Tree) leafHasActive(idx int) bool {
	n := &t.Nodes[idx]
	for i := n.Start; i < n.End; i++ {
		p := t.Particles[t.Order[i]]
		if p.Alive && p.Active {
			return true
		}
	}
	return false
}

// ComputeActiveParticleList returns the global particle-slice indices of
// the active particles within leaf cell, per spec.md §4.3.
func (t *Tree) ComputeActiveParticleList(cell int) []int {
	n := &t.Nodes[cell]
	out := make([]int, 0, n.End-n.Start)
	for i := n.Start; i < n.End; i++ {
		gidx := t.Order[i]
		p := t.Particles[gidx]
		if p.Alive && p.Active {
			out = append(out, gidx)
		}
	}
	return out
}

// CellCenter returns a leaf's geometric bbox center (not its COM), used
// as the reference point for gather/neighbor range tests.
func (t *Tree) CellCenter(cell int) vecd.V {
	n := &t.Nodes[cell]
	var c vecd.V
	for d := 0; d < t.Ndim; d++ {
		c[d] = 0.5 * (n.BBMin[d] + n.BBMax[d])
	}
	return c
}

// CellExtent returns half the bbox diagonal length, the "cell_extent"
// term in spec.md §4.3's gather-neighbor range test.
func (t *Tree) CellExtent(cell int) float64 {
	n := &t.Nodes[cell]
	var d2 float64
	for d := 0; d < t.Ndim; d++ {
		side := n.BBMax[d] - n.BBMin[d]
		d2 += side * side
	}
	return 0.5 * math.Sqrt(d2)
}

// stockGuard runs before Stock's bottom-up recompute and panics on a
// degenerate (empty) tree per gofem's chk.Panic-on-invariant-violation
// convention -- an empty tree is a programmer error, not a runtime
// condition callers should recover from.
func (t *Tree) stockGuard() {
	if len(t.Nodes) == 0 {
		chk.Panic("tree: Stock called on an empty tree")
	}
}
