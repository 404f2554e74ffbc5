// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package vecd implements small fixed-capacity vectors for ndim in {1,2,3}.
//
// ndim is a runtime parameter (Design Notes, spec.md §9, option (a)): every
// vector is backed by a [3]float64 array regardless of dimensionality, and
// callers pass ndim explicitly so that components beyond ndim are simply
// never touched. This avoids the template/codegen route while keeping the
// hot loops branch-free for a fixed ndim within one simulation run.
package vecd

import "math"

// V is a dense 3-capacity vector; only the first ndim components are
// meaningful for a given simulation.
type V [3]float64

// Add returns a+b over the first ndim components.
func Add(ndim int, a, b V) (r V) {
	for d := 0; d < ndim; d++ {
		r[d] = a[d] + b[d]
	}
	return
}

// Sub returns a-b over the first ndim components.
func Sub(ndim int, a, b V) (r V) {
	for d := 0; d < ndim; d++ {
		r[d] = a[d] - b[d]
	}
	return
}

// Scale returns s*a over the first ndim components.
func Scale(ndim int, s float64, a V) (r V) {
	for d := 0; d < ndim; d++ {
		r[d] = s * a[d]
	}
	return
}

// Dot returns a.b over the first ndim components.
func Dot(ndim int, a, b V) (s float64) {
	for d := 0; d < ndim; d++ {
		s += a[d] * b[d]
	}
	return
}

// NormSq returns |a|^2 over the first ndim components.
func NormSq(ndim int, a V) float64 {
	return Dot(ndim, a, a)
}

// Norm returns |a| over the first ndim components.
func Norm(ndim int, a V) float64 {
	return math.Sqrt(NormSq(ndim, a))
}

// Outer returns the outer product a (x) b restricted to the first ndim
// rows/cols; entries beyond ndim are left zero.
func Outer(ndim int, a, b V) (m [3][3]float64) {
	for i := 0; i < ndim; i++ {
		for j := 0; j < ndim; j++ {
			m[i][j] = a[i] * b[j]
		}
	}
	return
}
