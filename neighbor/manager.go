// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package neighbor implements per-thread neighbor/gravity scratch buffers
// with overflow-doubling (spec.md §4.4, component C6).
package neighbor

import "github.com/cpmech/lagoon/simerr"

// maxDoublings bounds how many times a buffer may double before the
// caller gives up and raises NeighborBufferExhausted (spec.md §4.4).
const maxDoublings = 24

// Manager holds one worker's scratch buffers for a single tree-walk
// phase: neighbor ids (typed into hydro/gravity/direct sublists), a
// gravity-cell list, and a raw snapshot area for cache-local reads.
// Buffers only grow (doubling) within a step, never shrink
// (spec.md §3).
type Manager struct {
	hydro   []int
	grav    []int
	direct  []int
	cells   []int
	nHydro  int
	nGrav   int
	nDirect int
	nCells  int
}

// NewManager allocates a Manager with the given initial capacity per
// sublist.
func NewManager(initCap int) *Manager {
	if initCap < 16 {
		initCap = 16
	}
	return &Manager{
		hydro:  make([]int, initCap),
		grav:   make([]int, initCap),
		direct: make([]int, initCap),
		cells:  make([]int, initCap),
	}
}

// Reset clears all sublist counters without releasing capacity.
func (m *Manager) Reset() {
	m.nHydro, m.nGrav, m.nDirect, m.nCells = 0, 0, 0, 0
}

func grow(buf []int) []int {
	n := len(buf) * 2
	if n == 0 {
		n = 16
	}
	nb := make([]int, n)
	copy(nb, buf)
	return nb
}

// Kind selects which of the four typed arrays/counters a call refers
// to.
type Kind int

const (
	Hydro Kind = iota
	Gravity
	Direct
	Cell
)

func (m *Manager) slot(k Kind) (*[]int, *int) {
	switch k {
	case Hydro:
		return &m.hydro, &m.nHydro
	case Gravity:
		return &m.grav, &m.nGrav
	case Direct:
		return &m.direct, &m.nDirect
	default:
		return &m.cells, &m.nCells
	}
}

// Append adds id to the named sublist, doubling its backing array when
// full. It never fails by itself; callers that need the "retry the whole
// query on overflow" semantics of spec.md §4.4 wrap the walk in an
// OverflowGuard and restart it from scratch after Retry rather than
// resume mid-walk.
func (m *Manager) Append(k Kind, id int) {
	buf, n := m.slot(k)
	if *n == len(*buf) {
		*buf = grow(*buf)
	}
	(*buf)[*n] = id
	*n++
}

// OverflowGuard counts how many times a Manager's sublists have been
// doubled by Retry; used by callers that must detect "the buffer grew,
// the walk must restart" without a sentinel -1 return value threaded
// through every recursive call.
type OverflowGuard struct {
	m          *Manager
	doublings  int
}

// NewOverflowGuard wraps a Manager for a do-while-retry query loop
// (spec.md §4.4: "every neighbor query is wrapped in a do-while that, on
// overflow, doubles every local scratch array and retries").
func NewOverflowGuard(m *Manager) *OverflowGuard {
	return &OverflowGuard{m: m}
}

// Retry grows every sublist's capacity (doubling) and reports whether the
// caller may try again; once maxDoublings is exceeded it returns a
// NeighborBufferExhausted error instead.
func (g *OverflowGuard) Retry(step int) error {
	g.doublings++
	if g.doublings > maxDoublings {
		return simerr.New(simerr.NeighborBufferExhausted, step,
			"neighbor buffers exceeded %d doublings", maxDoublings)
	}
	g.m.hydro = grow(g.m.hydro)
	g.m.grav = grow(g.m.grav)
	g.m.direct = grow(g.m.direct)
	g.m.cells = grow(g.m.cells)
	g.m.Reset()
	return nil
}

// HydroIDs returns the hydro-neighbor id sublist filled by the last
// successful query.
func (m *Manager) HydroIDs() []int { return m.hydro[:m.nHydro] }

// GravityIDs returns the gravity-pair (smoothed, non-direct, non-cell)
// neighbor id sublist.
func (m *Manager) GravityIDs() []int { return m.grav[:m.nGrav] }

// DirectIDs returns the direct-sum (point-point) gravity neighbor ids.
func (m *Manager) DirectIDs() []int { return m.direct[:m.nDirect] }

// CellIDs returns the accepted gravity-cell (multipole) node ids.
func (m *Manager) CellIDs() []int { return m.cells[:m.nCells] }

// Counts returns (Nhydro, Ngrav, Ndirect) as in spec.md §4.4's
// GetParticleNeibGravity contract.
func (m *Manager) Counts() (int, int, int) { return m.nHydro, m.nGrav, m.nDirect }
