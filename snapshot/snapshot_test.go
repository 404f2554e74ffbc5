// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snapshot

import (
	"bytes"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/lagoon/particle"
)

func sampleParticles() []*particle.Particle {
	p0 := particle.NewReal(0, [3]float64{0.1, 0.2, 0.3}, [3]float64{1.5, -2.5, 0.0}, 1.0)
	p0.H, p0.Rho, p0.U = 0.05, 1.2, 0.8
	p1 := particle.NewReal(1, [3]float64{-0.7, 0.0, 0.9}, [3]float64{0.0, 3.3, -1.1}, 2.0)
	p1.H, p1.Rho, p1.U = 0.07, 0.9, 1.3
	return []*particle.Particle{p0, p1}
}

func Test_binary_round_trip_is_bit_exact_for_positions_velocities(tst *testing.T) {
	chk.PrintTitle("snapshot. binary round-trip preserves r,v to the bit")

	hdr := Header{Time: 1.25, Ndim: 3, Nhydro: 2}
	parts := sampleParticles()

	var buf bytes.Buffer
	if err := WriteBinary(&buf, hdr, parts); err != nil {
		tst.Fatalf("WriteBinary: %v", err)
	}

	gotHdr, gotParts, err := ReadBinary(&buf)
	if err != nil {
		tst.Fatalf("ReadBinary: %v", err)
	}
	if gotHdr.Ndim != hdr.Ndim || gotHdr.Nhydro != hdr.Nhydro {
		tst.Fatalf("header mismatch: got %+v, want %+v", gotHdr, hdr)
	}
	if !BitsEqual(gotHdr.Time, hdr.Time) {
		tst.Fatalf("time not bit-exact")
	}
	for i := range parts {
		for d := 0; d < 3; d++ {
			if !BitsEqual(parts[i].R[d], gotParts[i].R[d]) {
				tst.Fatalf("particle %d r[%d] not bit-exact: %v vs %v", i, d, parts[i].R[d], gotParts[i].R[d])
			}
			if !BitsEqual(parts[i].V[d], gotParts[i].V[d]) {
				tst.Fatalf("particle %d v[%d] not bit-exact: %v vs %v", i, d, parts[i].V[d], gotParts[i].V[d])
			}
		}
	}
}

func Test_column_round_trip(tst *testing.T) {
	chk.PrintTitle("snapshot. column text round-trip preserves particle count and scalar fields")

	hdr := Header{Time: 0.5, Ndim: 2, Nhydro: 2}
	parts := sampleParticles()

	var buf bytes.Buffer
	if err := WriteColumn(&buf, hdr, parts); err != nil {
		tst.Fatalf("WriteColumn: %v", err)
	}

	gotHdr, gotParts, err := ReadColumn(&buf)
	if err != nil {
		tst.Fatalf("ReadColumn: %v", err)
	}
	if len(gotParts) != len(parts) {
		tst.Fatalf("got %d particles, want %d", len(gotParts), len(parts))
	}
	chk.Scalar(tst, "time", 1e-15, gotHdr.Time, hdr.Time)
	for i := range parts {
		chk.Scalar(tst, "m", 1e-15, gotParts[i].M, parts[i].M)
		chk.Scalar(tst, "h", 1e-15, gotParts[i].H, parts[i].H)
	}
}
