// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/cpmech/lagoon/simerr"
)

// exitWith terminates the process with the given exit code.
func exitWith(code int) { os.Exit(code) }

// exitCodeOf maps a simerr.SimError to the process exit code from
// spec.md §6/§7; ok is false for errors that carry no typed kind.
func exitCodeOf(err error) (int, bool) {
	se, ok := err.(*simerr.SimError)
	if !ok {
		return 0, false
	}
	return se.Kind.ExitCode(), true
}
