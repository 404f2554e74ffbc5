// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/lagoon/particle"
)

func Test_dt_level_halves_per_level(tst *testing.T) {
	chk.PrintTitle("integrate. dt_level(l) = dt_max / 2^l")

	ladder := Ladder{Nlevels: 4, DtMax: 1.0}
	chk.Scalar(tst, "dt_level(0)", 1e-15, ladder.DtLevel(0), 1.0)
	chk.Scalar(tst, "dt_level(1)", 1e-15, ladder.DtLevel(1), 0.5)
	chk.Scalar(tst, "dt_level(2)", 1e-15, ladder.DtLevel(2), 0.25)
}

func Test_kdk_leapfrog_free_particle(tst *testing.T) {
	chk.PrintTitle("integrate. KDK leapfrog advances a free (a=0) particle at constant velocity")

	p := particle.NewReal(0, [3]float64{0, 0, 0}, [3]float64{2, 0, 0}, 1.0)
	KickDrift(p, 1.0, LeapfrogKDK, false)

	chk.Scalar(tst, "r_x after dt=1 at v=2, a=0", 1e-14, p.R[0], 2.0)
	chk.Scalar(tst, "v_x unchanged", 1e-14, p.V[0], 2.0)
}

func Test_level_hysteresis_limits_rise_to_one_step(tst *testing.T) {
	chk.PrintTitle("integrate. a particle cannot rise more than one level per sub-step")

	ladder := Ladder{Nlevels: 8, DtMax: 1.0}
	// dtCandidate tiny enough to demand the finest level (7), but
	// currentLevel=2 means the particle may only rise to level 3.
	got := AssignLevel(ladder, 1e-6, 2, 0)
	if got != 3 {
		tst.Fatalf("expected hysteresis-limited level 3, got %d", got)
	}
}

func Test_level_cannot_fall_below_levelneib(tst *testing.T) {
	chk.PrintTitle("integrate. a particle cannot fall below its levelneib floor")

	ladder := Ladder{Nlevels: 8, DtMax: 1.0}
	got := AssignLevel(ladder, 1.0, 5, 3)
	if got != 3 {
		tst.Fatalf("expected levelneib floor 3, got %d", got)
	}
}
