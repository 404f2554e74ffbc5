// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_m4_normalization(tst *testing.T) {

	chk.PrintTitle("m4. kernel integrates to unity in 1D")

	k, err := New("m4", 1, false)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}

	// crude Riemann sum of W(s) over s in [0,2), mirrored about s=0
	n := 20000
	ds := k.Range() / float64(n)
	sum := 0.0
	for i := 0; i < n; i++ {
		s := (float64(i) + 0.5) * ds
		sum += 2.0 * k.W(s) * ds // factor 2: symmetric about 0
	}
	chk.Scalar(tst, "integral W ds", 1e-3, sum, 1.0)
}

func Test_m4_compact_support(tst *testing.T) {
	chk.PrintTitle("m4. kernel vanishes beyond range")
	k, _ := New("m4", 3, false)
	if k.W(k.Range()+0.1) != 0 {
		tst.Fatalf("expected W==0 beyond range")
	}
}

func Test_tabulated_agrees_with_analytic(tst *testing.T) {
	chk.PrintTitle("tabulated m4. agrees with analytic kernel")
	analytic, _ := New("m4", 3, false)
	tab, err := New("m4", 3, true)
	if err != nil {
		tst.Fatalf("New tabulated failed: %v", err)
	}
	tb := tab.(*Tabulated)
	maxErr := tb.MaxAbsError(500)
	_ = analytic
	if maxErr > 1e-3 {
		tst.Fatalf("tabulated kernel disagrees with analytic by %v", maxErr)
	}
}
