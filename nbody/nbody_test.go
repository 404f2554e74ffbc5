// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nbody

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/lagoon/particle"
	"github.com/cpmech/lagoon/vecd"
)

func Test_free_star_drifts_in_straight_line(tst *testing.T) {
	chk.PrintTitle("nbody. a single star with no companions and no external force drifts freely")

	eng := &Engine{Ndim: 1, G: 1.0}
	stars := []particle.Star{{R: vecd.V{0, 0, 0}, V: vecd.V{1, 0, 0}, M: 1, H: 0.01}}
	ext := []vecd.V{{0, 0, 0}}

	if err := eng.Advance(stars, ext, 1.0); err != nil {
		tst.Fatalf("Advance: %v", err)
	}

	chk.Scalar(tst, "r_x after dt=1 at v=1", 1e-6, stars[0].R[0], 1.0)
	chk.Scalar(tst, "v_x unchanged", 1e-6, stars[0].V[0], 1.0)
}
