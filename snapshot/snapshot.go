// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package snapshot implements the column (text) and binary snapshot
// formats from spec.md §6: round-trip equality is required up to float
// bit equality for positions/velocities.
package snapshot

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cpmech/lagoon/particle"
	"github.com/cpmech/lagoon/simerr"
)

const binaryMagic = "SRN1"

// Header carries the fields stamped at the top of every snapshot.
type Header struct {
	Time   float64
	Ndim   int
	Nhydro int
}

// WriteColumn writes the text format: a header line, then one row per
// particle with columns r[0..d) v[0..d) m h rho u.
func WriteColumn(w io.Writer, hdr Header, parts []*particle.Particle) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%.17g %d %d\n", hdr.Time, hdr.Ndim, hdr.Nhydro); err != nil {
		return simerr.New(simerr.IOFailure, 0, "snapshot column header write: %v", err)
	}
	for _, p := range parts {
		var sb strings.Builder
		for d := 0; d < hdr.Ndim; d++ {
			fmt.Fprintf(&sb, "%.17g ", p.R[d])
		}
		for d := 0; d < hdr.Ndim; d++ {
			fmt.Fprintf(&sb, "%.17g ", p.V[d])
		}
		fmt.Fprintf(&sb, "%.17g %.17g %.17g %.17g\n", p.M, p.H, p.Rho, p.U)
		if _, err := bw.WriteString(sb.String()); err != nil {
			return simerr.New(simerr.IOFailure, 0, "snapshot column row write: %v", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return simerr.New(simerr.IOFailure, 0, "snapshot column flush: %v", err)
	}
	return nil
}

// ReadColumn parses the text format back into a header and a fresh
// particle slice.
func ReadColumn(r io.Reader) (Header, []*particle.Particle, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var hdr Header
	if !sc.Scan() {
		return hdr, nil, simerr.New(simerr.IOFailure, 0, "snapshot column: empty file")
	}
	fields := strings.Fields(sc.Text())
	if len(fields) != 3 {
		return hdr, nil, simerr.New(simerr.IOFailure, 0, "snapshot column: malformed header %q", sc.Text())
	}
	hdr.Time, _ = strconv.ParseFloat(fields[0], 64)
	ndim, _ := strconv.Atoi(fields[1])
	n, _ := strconv.Atoi(fields[2])
	hdr.Ndim, hdr.Nhydro = ndim, n

	parts := make([]*particle.Particle, 0, n)
	id := 0
	for sc.Scan() {
		line := strings.Fields(sc.Text())
		if len(line) == 0 {
			continue
		}
		want := 2*ndim + 4
		if len(line) != want {
			return hdr, nil, simerr.New(simerr.IOFailure, 0, "snapshot column: row has %d fields, want %d", len(line), want)
		}
		var r, v [3]float64
		for d := 0; d < ndim; d++ {
			r[d], _ = strconv.ParseFloat(line[d], 64)
		}
		for d := 0; d < ndim; d++ {
			v[d], _ = strconv.ParseFloat(line[ndim+d], 64)
		}
		m, _ := strconv.ParseFloat(line[2*ndim], 64)
		h, _ := strconv.ParseFloat(line[2*ndim+1], 64)
		rho, _ := strconv.ParseFloat(line[2*ndim+2], 64)
		u, _ := strconv.ParseFloat(line[2*ndim+3], 64)
		p := particle.NewReal(id, r, v, m)
		p.H, p.Rho, p.U = h, rho, u
		parts = append(parts, p)
		id++
	}
	if err := sc.Err(); err != nil {
		return hdr, nil, simerr.New(simerr.IOFailure, 0, "snapshot column scan: %v", err)
	}
	return hdr, parts, nil
}

// WriteBinary writes the big-endian struct-of-arrays format: magic
// "SRN1", ndim:u8, version:u8, time:f64, N:u64, then one block per
// field (r, v, m, h, rho, u, flags).
func WriteBinary(w io.Writer, hdr Header, parts []*particle.Particle) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(binaryMagic); err != nil {
		return simerr.New(simerr.IOFailure, 0, "snapshot binary magic write: %v", err)
	}
	if err := binary.Write(bw, binary.BigEndian, uint8(hdr.Ndim)); err != nil {
		return simerr.New(simerr.IOFailure, 0, "snapshot binary ndim write: %v", err)
	}
	const version = uint8(1)
	if err := binary.Write(bw, binary.BigEndian, version); err != nil {
		return simerr.New(simerr.IOFailure, 0, "snapshot binary version write: %v", err)
	}
	if err := binary.Write(bw, binary.BigEndian, hdr.Time); err != nil {
		return simerr.New(simerr.IOFailure, 0, "snapshot binary time write: %v", err)
	}
	n := uint64(len(parts))
	if err := binary.Write(bw, binary.BigEndian, n); err != nil {
		return simerr.New(simerr.IOFailure, 0, "snapshot binary count write: %v", err)
	}

	writeBlock := func(get func(*particle.Particle) []float64) error {
		for _, p := range parts {
			for _, x := range get(p) {
				if err := binary.Write(bw, binary.BigEndian, x); err != nil {
					return err
				}
			}
		}
		return nil
	}

	blocks := []func(*particle.Particle) []float64{
		func(p *particle.Particle) []float64 { return p.R[:hdr.Ndim] },
		func(p *particle.Particle) []float64 { return p.V[:hdr.Ndim] },
		func(p *particle.Particle) []float64 { return []float64{p.M} },
		func(p *particle.Particle) []float64 { return []float64{p.H} },
		func(p *particle.Particle) []float64 { return []float64{p.Rho} },
		func(p *particle.Particle) []float64 { return []float64{p.U} },
	}
	for _, b := range blocks {
		if err := writeBlock(b); err != nil {
			return simerr.New(simerr.IOFailure, 0, "snapshot binary field block write: %v", err)
		}
	}
	for _, p := range parts {
		flag := uint32(p.Type)
		if err := binary.Write(bw, binary.BigEndian, flag); err != nil {
			return simerr.New(simerr.IOFailure, 0, "snapshot binary flags write: %v", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return simerr.New(simerr.IOFailure, 0, "snapshot binary flush: %v", err)
	}
	return nil
}

// ReadBinary parses the binary format, verifying the magic header.
func ReadBinary(r io.Reader) (Header, []*particle.Particle, error) {
	var hdr Header
	br := bufio.NewReader(r)
	magic := make([]byte, 4)
	if _, err := io.ReadFull(br, magic); err != nil {
		return hdr, nil, simerr.New(simerr.IOFailure, 0, "snapshot binary magic read: %v", err)
	}
	if string(magic) != binaryMagic {
		return hdr, nil, simerr.New(simerr.IOFailure, 0, "snapshot binary: bad magic %q", magic)
	}
	var ndimB, version uint8
	if err := binary.Read(br, binary.BigEndian, &ndimB); err != nil {
		return hdr, nil, simerr.New(simerr.IOFailure, 0, "snapshot binary ndim read: %v", err)
	}
	if err := binary.Read(br, binary.BigEndian, &version); err != nil {
		return hdr, nil, simerr.New(simerr.IOFailure, 0, "snapshot binary version read: %v", err)
	}
	if err := binary.Read(br, binary.BigEndian, &hdr.Time); err != nil {
		return hdr, nil, simerr.New(simerr.IOFailure, 0, "snapshot binary time read: %v", err)
	}
	var n uint64
	if err := binary.Read(br, binary.BigEndian, &n); err != nil {
		return hdr, nil, simerr.New(simerr.IOFailure, 0, "snapshot binary count read: %v", err)
	}
	hdr.Ndim = int(ndimB)
	hdr.Nhydro = int(n)

	parts := make([]*particle.Particle, n)
	for i := range parts {
		parts[i] = particle.NewReal(i, [3]float64{}, [3]float64{}, 0)
	}

	readBlock := func(set func(*particle.Particle, []float64)) error {
		buf := make([]float64, hdr.Ndim)
		for _, p := range parts {
			for d := range buf {
				if err := binary.Read(br, binary.BigEndian, &buf[d]); err != nil {
					return err
				}
			}
			set(p, buf)
		}
		return nil
	}
	readScalar := func(set func(*particle.Particle, float64)) error {
		for _, p := range parts {
			var x float64
			if err := binary.Read(br, binary.BigEndian, &x); err != nil {
				return err
			}
			set(p, x)
		}
		return nil
	}

	if err := readBlock(func(p *particle.Particle, v []float64) { copy(p.R[:hdr.Ndim], v) }); err != nil {
		return hdr, nil, simerr.New(simerr.IOFailure, 0, "snapshot binary r block read: %v", err)
	}
	if err := readBlock(func(p *particle.Particle, v []float64) { copy(p.V[:hdr.Ndim], v) }); err != nil {
		return hdr, nil, simerr.New(simerr.IOFailure, 0, "snapshot binary v block read: %v", err)
	}
	if err := readScalar(func(p *particle.Particle, x float64) { p.M = x }); err != nil {
		return hdr, nil, simerr.New(simerr.IOFailure, 0, "snapshot binary m block read: %v", err)
	}
	if err := readScalar(func(p *particle.Particle, x float64) { p.H = x }); err != nil {
		return hdr, nil, simerr.New(simerr.IOFailure, 0, "snapshot binary h block read: %v", err)
	}
	if err := readScalar(func(p *particle.Particle, x float64) { p.Rho = x }); err != nil {
		return hdr, nil, simerr.New(simerr.IOFailure, 0, "snapshot binary rho block read: %v", err)
	}
	if err := readScalar(func(p *particle.Particle, x float64) { p.U = x }); err != nil {
		return hdr, nil, simerr.New(simerr.IOFailure, 0, "snapshot binary u block read: %v", err)
	}
	for _, p := range parts {
		var flag uint32
		if err := binary.Read(br, binary.BigEndian, &flag); err != nil {
			return hdr, nil, simerr.New(simerr.IOFailure, 0, "snapshot binary flags read: %v", err)
		}
		p.Type = particle.Type(flag)
	}
	return hdr, parts, nil
}

// bitsEqual reports whether two float64 values are identical down to
// the bit, the round-trip contract spec.md §6 requires for r/v.
func bitsEqual(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}

// BitsEqual exposes bitsEqual for round-trip tests outside this package.
func BitsEqual(a, b float64) bool { return bitsEqual(a, b) }
