// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mfv

import (
	"math"

	"github.com/cpmech/lagoon/particle"
	"github.com/cpmech/lagoon/vecd"
)

// ComputeSlopeExtrema tracks, for each primitive variable, the min/max
// value seen over self's neighbors (spec.md §4.7 step 3), storing them
// into self.MFV.Wmin/Wmax.
func (e *Engine) ComputeSlopeExtrema(self *particle.Particle, neighbors []*particle.Particle) {
	nv := nvars(e.Ndim)
	wi := primOf(self, e.Ndim)
	wmin := append([]float64{}, wi...)
	wmax := append([]float64{}, wi...)
	for _, j := range neighbors {
		wj := primOf(j, e.Ndim)
		for a := 0; a < nv; a++ {
			if wj[a] < wmin[a] {
				wmin[a] = wj[a]
			}
			if wj[a] > wmax[a] {
				wmax[a] = wj[a]
			}
		}
	}
	for a := 0; a < nv && a < len(self.MFV.Wmin); a++ {
		self.MFV.Wmin[a] = wmin[a]
		self.MFV.Wmax[a] = wmax[a]
	}
}

// LimitedReconstruct returns the slope-limited linear reconstruction of
// self's primitive state at a face located at dx = r_face - r_self,
// clamped so the reconstructed midpoint value never leaves
// [Wmin,Wmax] (the Lanson-Vila / Barth-Jespersen style limiter from
// spec.md §4.7 step 3).
func (e *Engine) LimitedReconstruct(self *particle.Particle, dx vecd.V) []float64 {
	nv := nvars(e.Ndim)
	wi := primOf(self, e.Ndim)
	out := make([]float64, nv)
	for a := 0; a < nv; a++ {
		var lin float64
		for k := 0; k < e.Ndim; k++ {
			lin += self.MFV.GradW[a][k] * dx[k]
		}
		phi := limiterPhi(wi[a], wi[a]+lin, self.MFV.Wmin[a], self.MFV.Wmax[a])
		out[a] = wi[a] + phi*lin
	}
	return out
}

// limiterPhi returns a scalar in [0,1] that scales the linear
// extrapolation `extrap` so it stays within [lo,hi]; phi=1 is
// unconstrained (no limiting needed).
func limiterPhi(center, extrap, lo, hi float64) float64 {
	if extrap == center {
		return 1
	}
	var bound float64
	if extrap > center {
		bound = hi
	} else {
		bound = lo
	}
	phi := (bound - center) / (extrap - center)
	return math.Max(0, math.Min(1, phi))
}
