// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

// tableSize is the number of samples used when tabulating a kernel over
// [0, Range()]. Lookups use linear interpolation between samples.
const tableSize = 1000

// Tabulated wraps another Kernel, pre-sampling it on a uniform grid and
// interpolating at query time. Used when config `tabulated_kernel=1`.
type Tabulated struct {
	backend  Kernel
	rng      float64
	ds       float64
	w, dw, om, wg, wp []float64
}

// NewTabulated builds a lookup table over an already-initialized backend
// kernel. The table must agree with the backend within a configured
// tolerance (spec.md §6, Kernel callback contract); MaxAbsError
// measures this for tests.
func NewTabulated(backend Kernel) (*Tabulated, error) {
	t := &Tabulated{backend: backend, rng: backend.Range()}
	t.ds = t.rng / float64(tableSize-1)
	t.w = make([]float64, tableSize)
	t.dw = make([]float64, tableSize)
	t.om = make([]float64, tableSize)
	t.wg = make([]float64, tableSize)
	t.wp = make([]float64, tableSize)
	for i := 0; i < tableSize; i++ {
		s := float64(i) * t.ds
		t.w[i] = backend.W(s)
		t.dw[i] = backend.DW(s)
		t.om[i] = backend.Omega(s)
		t.wg[i] = backend.Wgrav(s)
		t.wp[i] = backend.Wpot(s)
	}
	return t, nil
}

func (t *Tabulated) Init(ndim int) error { return t.backend.Init(ndim) }
func (t *Tabulated) Range() float64      { return t.rng }

func (t *Tabulated) lookup(table []float64, s float64) float64 {
	if s >= t.rng {
		return table[tableSize-1]
	}
	if s <= 0 {
		return table[0]
	}
	x := s / t.ds
	i := int(x)
	if i >= tableSize-1 {
		return table[tableSize-1]
	}
	frac := x - float64(i)
	return table[i]*(1-frac) + table[i+1]*frac
}

func (t *Tabulated) W(s float64) float64     { return t.lookup(t.w, s) }
func (t *Tabulated) DW(s float64) float64    { return t.lookup(t.dw, s) }
func (t *Tabulated) Omega(s float64) float64 { return t.lookup(t.om, s) }
func (t *Tabulated) Wgrav(s float64) float64 { return t.lookup(t.wg, s) }
func (t *Tabulated) Wpot(s float64) float64  { return t.lookup(t.wp, s) }

// MaxAbsError samples both the tabulated kernel and its backend at n
// points and returns the maximum absolute difference in W, used by tests
// to assert the tabulated/analytic agreement tolerance from spec.md §6.
func (t *Tabulated) MaxAbsError(n int) float64 {
	var maxErr float64
	for i := 0; i < n; i++ {
		s := t.rng * float64(i) / float64(n-1)
		d := t.W(s) - t.backend.W(s)
		if d < 0 {
			d = -d
		}
		if d > maxErr {
			maxErr = d
		}
	}
	return maxErr
}
