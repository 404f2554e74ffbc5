// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mfv implements HydroKernels Dialect B: Meshless Finite Volume
// with Psi-factors, slope-limited gradients and a Riemann-solved Godunov
// flux (spec.md §4.7).
package mfv

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cpmech/lagoon/kernel"
	"github.com/cpmech/lagoon/particle"
	"github.com/cpmech/lagoon/vecd"
)

// Engine evaluates Meshless-FV geometry (Psi-factors, gradients) and
// fluxes.
type Engine struct {
	Ndim   int
	Kernel kernel.Kernel
}

// ComputePsi computes E_i, n_i and B_i=E_i^-1 for particle i against a
// neighbor snapshot, per spec.md §4.7 step 1.
//
// d in {1,2,3} all route through a single gonum mat.Dense inversion
// rather than the three separate closed forms spec.md §4.7 allows,
// trading the 1D/2D shortcut for one implementation path; gonum's
// Cholesky/LU inversion is exact to machine precision for these small
// well-conditioned matrices so the numerical behavior is unchanged.
func (e *Engine) ComputePsi(self *particle.Particle, neighbors []*particle.Particle) (nDen float64, bmat [3][3]float64) {
	hnd := math.Pow(self.H, float64(e.Ndim))
	var E [3][3]float64
	for _, j := range neighbors {
		dr := vecd.Sub(e.Ndim, j.R, self.R)
		r := vecd.Norm(e.Ndim, dr)
		w := e.Kernel.W(r/self.H) / hnd
		nDen += w
		for a := 0; a < e.Ndim; a++ {
			for b := 0; b < e.Ndim; b++ {
				E[a][b] += dr[a] * dr[b] * w
			}
		}
	}
	if nDen <= 0 {
		return nDen, bmat
	}
	for a := 0; a < e.Ndim; a++ {
		for b := 0; b < e.Ndim; b++ {
			E[a][b] /= nDen
		}
	}

	dense := mat.NewDense(e.Ndim, e.Ndim, nil)
	for a := 0; a < e.Ndim; a++ {
		for b := 0; b < e.Ndim; b++ {
			dense.Set(a, b, E[a][b])
		}
	}
	var inv mat.Dense
	if err := inv.Inverse(dense); err != nil {
		// singular E (degenerate/collinear neighbor set): fall back to
		// the identity, which recovers the standard SPH-like gradient
		// estimate instead of amplifying noise through a near-singular
		// inverse.
		for a := 0; a < e.Ndim; a++ {
			bmat[a][a] = 1
		}
		return nDen, bmat
	}
	for a := 0; a < e.Ndim; a++ {
		for b := 0; b < e.Ndim; b++ {
			bmat[a][b] = inv.At(a, b)
		}
	}
	return nDen, bmat
}

// PsiTilde exposes psiTilde for callers outside this package that need
// the dual-basis vector directly (e.g. to build the pseudo-area vector
// passed into PairFlux).
func (e *Engine) PsiTilde(self *particle.Particle, nDen float64, bmat [3][3]float64, j *particle.Particle) vecd.V {
	return e.psiTilde(self, nDen, bmat, j)
}

// psiTilde returns Psi~_j[k] = sum_l B[k,l]*(r_j-r_i)[l]*W*h^-d/n, the
// per-neighbor dual basis vector from spec.md §4.7 step 2.
func (e *Engine) psiTilde(self *particle.Particle, nDen float64, bmat [3][3]float64, j *particle.Particle) vecd.V {
	hnd := math.Pow(self.H, float64(e.Ndim))
	dr := vecd.Sub(e.Ndim, j.R, self.R)
	r := vecd.Norm(e.Ndim, dr)
	w := e.Kernel.W(r/self.H) / hnd
	var out vecd.V
	if nDen <= 0 {
		return out
	}
	coeff := w / nDen
	for k := 0; k < e.Ndim; k++ {
		var s float64
		for l := 0; l < e.Ndim; l++ {
			s += bmat[k][l] * dr[l]
		}
		out[k] = s * coeff
	}
	return out
}

// nvars is the number of tracked primitive components: rho, v[0..ndim), P.
func nvars(ndim int) int { return ndim + 2 }

func primOf(p *particle.Particle, ndim int) []float64 {
	w := make([]float64, nvars(ndim))
	w[0] = p.MFV.W[0]
	for d := 0; d < ndim; d++ {
		w[1+d] = p.MFV.W[1+d]
	}
	w[nvars(ndim)-1] = p.MFV.W[4]
	return w
}

// ComputeGradients fills self.MFV.GradW[0:nvars) with the Psi-factor
// gradient estimate for every primitive component, per spec.md §4.7
// step 2.
func (e *Engine) ComputeGradients(self *particle.Particle, neighbors []*particle.Particle, nDen float64, bmat [3][3]float64) {
	nv := nvars(e.Ndim)
	wi := primOf(self, e.Ndim)
	grads := make([]vecd.V, nv)
	for _, j := range neighbors {
		psiT := e.psiTilde(self, nDen, bmat, j)
		wj := primOf(j, e.Ndim)
		for a := 0; a < nv; a++ {
			diff := wj[a] - wi[a]
			for k := 0; k < e.Ndim; k++ {
				grads[a][k] += diff * psiT[k]
			}
		}
	}
	for a := 0; a < nv && a < len(self.MFV.GradW); a++ {
		self.MFV.GradW[a] = grads[a]
	}
}
