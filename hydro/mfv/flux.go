// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mfv

import (
	"math"

	"github.com/cpmech/lagoon/particle"
	"github.com/cpmech/lagoon/riemann"
	"github.com/cpmech/lagoon/simerr"
	"github.com/cpmech/lagoon/vecd"
)

// orthonormalBasis builds an orthonormal (dir,t1,t2) frame for boosting
// a primitive state into the face-normal frame; t2 is the zero vector
// when ndim<3 and unused by the caller.
func orthonormalBasis(ndim int, dir vecd.V) (t1, t2 vecd.V) {
	switch ndim {
	case 1:
		return
	case 2:
		t1 = vecd.V{-dir[1], dir[0], 0}
		return
	default:
		aux := vecd.V{1, 0, 0}
		if math.Abs(dir[0]) > 0.9 {
			aux = vecd.V{0, 1, 0}
		}
		t1raw := vecd.Sub(3, aux, vecd.Scale(3, vecd.Dot(3, aux, dir), dir))
		n1 := vecd.Norm(3, t1raw)
		t1 = vecd.Scale(3, 1.0/n1, t1raw)
		t2 = cross(dir, t1)
		return
	}
}

func cross(a, b vecd.V) vecd.V {
	return vecd.V{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// PairFlux computes the MFV pair contribution between particles i and j
// (spec.md §4.7 step 4), writing -F.A into dQi and +F.A into dQj so that
// Newton's third law gives exact (bit-for-bit) conservation across the
// pair, per spec.md's MFV exact-conservation invariant.
func (e *Engine) PairFlux(gamma float64, solver riemann.Solver, i, j *particle.Particle, psiJatI, psiIatJ vecd.V, step int) (dQi, dQj [5]float64, err error) {
	// pseudo-area vector A_ij = V_i*Psi~_j|_i - V_j*Psi~_i|_j
	var A vecd.V
	for k := 0; k < e.Ndim; k++ {
		A[k] = i.MFV.Volume*psiJatI[k] - j.MFV.Volume*psiIatJ[k]
	}
	areaNorm := vecd.Norm(e.Ndim, A)
	if areaNorm < 1e-300 {
		return dQi, dQj, nil
	}
	dir := vecd.Scale(e.Ndim, 1.0/areaNorm, A)
	t1, t2 := orthonormalBasis(e.Ndim, dir)

	// face position/velocity (spec.md §4.7 step 4)
	rij := vecd.Sub(e.Ndim, j.R, i.R)
	wH := i.H / (i.H + j.H)
	var rFace, vFace vecd.V
	for k := 0; k < e.Ndim; k++ {
		rFace[k] = i.R[k] + wH*rij[k]
	}
	rij2 := vecd.NormSq(e.Ndim, rij)
	proj := vecd.Dot(e.Ndim, vecd.Sub(e.Ndim, j.V, i.V), dir) / rij2
	for k := 0; k < e.Ndim; k++ {
		vFace[k] = 0.5*(i.V[k]+j.V[k]) + proj*(0.5*rij[k])
	}

	dxi := vecd.Sub(e.Ndim, rFace, i.R)
	dxj := vecd.Sub(e.Ndim, rFace, j.R)
	wLraw := e.LimitedReconstruct(i, dxi)
	wRraw := e.LimitedReconstruct(j, dxj)

	if wLraw[0] <= 0 || wRraw[0] <= 0 || wLraw[len(wLraw)-1] <= 0 || wRraw[len(wRraw)-1] <= 0 {
		return dQi, dQj, simerr.NewForParticle(simerr.NonPositiveState, step, i.ID,
			"MFV reconstruction produced non-positive rho or P at the i-j face")
	}

	boostL := boostToFace(e.Ndim, wLraw, vFace, dir, t1, t2)
	boostR := boostToFace(e.Ndim, wRraw, vFace, dir, t1, t2)

	flux := solver.Solve(gamma, boostL, boostR)

	// F_lab = F' + vFace-dependent correction; standard moving-frame
	// flux boost used by meshless/moving-mesh Godunov schemes (e.g.
	// Springel 2010, Hopkins 2015).
	var momPrime, momLab vecd.V
	for k := 0; k < e.Ndim; k++ {
		momPrime[k] = flux.MomN*dir[k] + flux.MomT1*t1[k] + flux.MomT2*t2[k]
		momLab[k] = momPrime[k] + vFace[k]*flux.Mass
	}
	energyLab := flux.Energy + vecd.Dot(e.Ndim, vFace, momPrime) + 0.5*vecd.NormSq(e.Ndim, vFace)*flux.Mass

	dQi[0] = -flux.Mass * areaNorm
	dQj[0] = flux.Mass * areaNorm
	for k := 0; k < e.Ndim; k++ {
		dQi[1+k] = -momLab[k] * areaNorm
		dQj[1+k] = momLab[k] * areaNorm
	}
	dQi[4] = -energyLab * areaNorm
	dQj[4] = energyLab * areaNorm
	return dQi, dQj, nil
}

// boostToFace expresses a reconstructed primitive vector in the
// face-normal (n,t1,t2) frame the riemann package expects.
func boostToFace(ndim int, w []float64, vFace, dir, t1, t2 vecd.V) riemann.State {
	var v vecd.V
	for k := 0; k < ndim; k++ {
		v[k] = w[1+k] - vFace[k]
	}
	return riemann.State{
		Rho: w[0],
		Vn:  vecd.Dot(ndim, v, dir),
		Vt1: vecd.Dot(ndim, v, t1),
		Vt2: vecd.Dot(ndim, v, t2),
		P:   w[len(w)-1],
	}
}
