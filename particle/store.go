// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package particle

import "github.com/cpmech/gosl/chk"

// Store owns the particle array: [0,Nreal) are real slots and
// [Nreal,Nreal+Nghost) is the ghost tail, sized up front to Nsphmax per
// spec.md §5 ("Ghost tail occupies a contiguous suffix ... sized to
// Nsphmax-Nsph").
type Store struct {
	Particles []*Particle
	Nreal     int
	Nghost    int
	Nsphmax   int
	Stars     []*Star
}

// NewStore allocates an empty store with room for nsphmax total slots
// (real + ghost); real particles are added with AddReal.
func NewStore(nsphmax int) *Store {
	return &Store{Particles: make([]*Particle, 0, nsphmax), Nsphmax: nsphmax}
}

// AddReal appends a real particle; panics if it would exceed Nsphmax,
// mirroring gofem's chk.Panic-on-invariant-violation convention.
func (s *Store) AddReal(p *Particle) {
	if len(s.Particles) >= s.Nsphmax {
		chk.Panic("particle store: cannot add real particle, Nsphmax=%d exceeded", s.Nsphmax)
	}
	s.Particles = append(s.Particles, p)
	s.Nreal++
}

// Ntot returns the current total occupied slot count (real + ghost).
func (s *Store) Ntot() int { return s.Nreal + s.Nghost }

// ResetGhosts truncates the ghost tail back to zero length, step 1 of
// RefreshGhosts (spec.md §4.2). Capacity is retained (no reallocation).
func (s *Store) ResetGhosts() {
	s.Particles = s.Particles[:s.Nreal]
	s.Nghost = 0
}

// AppendGhost appends one ghost particle slot, returning false instead
// of panicking once Nsphmax would be exceeded, so GhostEngine can raise
// GhostOverflow (spec.md §4.2, §7) rather than crash the process.
func (s *Store) AppendGhost(p *Particle) bool {
	if len(s.Particles) >= s.Nsphmax {
		return false
	}
	s.Particles = append(s.Particles, p)
	s.Nghost++
	return true
}

// Real returns the i-th real particle.
func (s *Store) Real(i int) *Particle { return s.Particles[i] }

// All returns every occupied slot (real followed by ghosts).
func (s *Store) All() []*Particle { return s.Particles }

// ActiveIndices returns the indices of all active, alive particles among
// the real slots (ghosts are never active, spec.md §4.2: CreateGhost
// always sets active=false).
func (s *Store) ActiveIndices() []int {
	idx := make([]int, 0, s.Nreal)
	for i := 0; i < s.Nreal; i++ {
		p := s.Particles[i]
		if p.Alive && p.Active {
			idx = append(idx, i)
		}
	}
	return idx
}
