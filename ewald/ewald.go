// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ewald provides a minimal reference implementation of the
// periodic-gravity-correction collaborator from spec.md §6: given a
// source mass and displacement vector, return the correction to add on
// top of the nearest-image direct sum. This is a real, if truncated,
// Ewald summation -- not a stand-in for Gandalf's own lookup table --
// satisfying the same interface (gravity.PeriodicCorrector).
package ewald

import (
	"math"

	"github.com/cpmech/lagoon/vecd"
)

// Table precomputes nothing (the sums below are cheap enough to
// evaluate directly); it holds the box size and truncation parameters.
type Table struct {
	Ndim     int
	BoxSize  vecd.V
	Alpha    float64 // Ewald splitting parameter; larger favors k-space
	NReal    int     // real-space image shells searched per axis
	NRecip   int     // reciprocal-space shells searched per axis
	G        float64 // not applied by Correct, which returns unit-G values
}

// NewTable returns a Table with the conventional alpha = 2/L rule of
// thumb and a modest shell count, sufficient for the self-gravity tests
// this engine carries.
func NewTable(ndim int, boxsize vecd.V, g float64) *Table {
	l := boxsize[0]
	for d := 1; d < ndim; d++ {
		if boxsize[d] > l {
			l = boxsize[d]
		}
	}
	return &Table{Ndim: ndim, BoxSize: boxsize, Alpha: 2.0 / l, NReal: 2, NRecip: 4, G: g}
}

// Correct implements gravity.PeriodicCorrector: it returns the
// acceleration and potential from every periodic image beyond the
// nearest one (real-space sum) plus the truncated reciprocal-space sum,
// for a unit-G point mass m at the nearest-image displacement dr.
func (t *Table) Correct(m float64, dr vecd.V) (aPeriodic vecd.V, phiPeriodic float64) {
	var aReal vecd.V
	var phiReal float64
	for nx := -t.NReal; nx <= t.NReal; nx++ {
		for ny := -t.shellY(); ny <= t.shellY(); ny++ {
			for nz := -t.shellZ(); nz <= t.shellZ(); nz++ {
				if nx == 0 && ny == 0 && nz == 0 {
					continue // nearest image already counted by the caller
				}
				shift := vecd.V{
					float64(nx) * t.BoxSize[0],
					float64(ny) * t.boxOr(1),
					float64(nz) * t.boxOr(2),
				}
				d := vecd.Sub(t.Ndim, dr, shift)
				r := vecd.Norm(t.Ndim, d)
				if r <= 0 {
					continue
				}
				erfc := math.Erfc(t.Alpha * r)
				invR3 := erfc / (r * r * r)
				gauss := 2 * t.Alpha / math.Sqrt(math.Pi) * math.Exp(-t.Alpha*t.Alpha*r*r) / (r * r)
				for k := 0; k < t.Ndim; k++ {
					aReal[k] -= m * (invR3 + gauss/r) * d[k]
				}
				phiReal -= m * erfc / r
			}
		}
	}

	aRecip, phiRecip := t.reciprocalSum(m, dr)

	for k := 0; k < t.Ndim; k++ {
		aPeriodic[k] = aReal[k] + aRecip[k]
	}
	phiPeriodic = phiReal + phiRecip
	return
}

func (t *Table) shellY() int {
	if t.Ndim >= 2 {
		return t.NReal
	}
	return 0
}

func (t *Table) shellZ() int {
	if t.Ndim >= 3 {
		return t.NReal
	}
	return 0
}

func (t *Table) boxOr(d int) float64 {
	if d < t.Ndim {
		return t.BoxSize[d]
	}
	return 1
}

// reciprocalSum evaluates the truncated k-space Ewald contribution over
// a cubic shell of reciprocal lattice vectors.
func (t *Table) reciprocalSum(m float64, dr vecd.V) (a vecd.V, phi float64) {
	vol := 1.0
	for d := 0; d < t.Ndim; d++ {
		vol *= t.BoxSize[d]
	}
	if vol <= 0 {
		return
	}
	twoPi := 2 * math.Pi
	for kx := -t.NRecip; kx <= t.NRecip; kx++ {
		for ky := -t.kShell(1); ky <= t.kShell(1); ky++ {
			for kz := -t.kShell(2); kz <= t.kShell(2); kz++ {
				if kx == 0 && ky == 0 && kz == 0 {
					continue
				}
				kv := vecd.V{
					twoPi * float64(kx) / t.boxOr(0),
					twoPi * float64(ky) / t.boxOr(1),
					twoPi * float64(kz) / t.boxOr(2),
				}
				k2 := vecd.NormSq(t.Ndim, kv)
				if k2 <= 0 {
					continue
				}
				kdotr := vecd.Dot(t.Ndim, kv, dr)
				weight := (4 * math.Pi / vol) * math.Exp(-k2/(4*t.Alpha*t.Alpha)) / k2
				phi += m * weight * math.Cos(kdotr)
				for d := 0; d < t.Ndim; d++ {
					a[d] -= m * weight * kv[d] * math.Sin(kdotr)
				}
			}
		}
	}
	return
}

func (t *Table) kShell(dim int) int {
	if dim < t.Ndim {
		return t.NRecip
	}
	return 0
}
