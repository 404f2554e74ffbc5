// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package simerr defines the structured error kinds raised across the
// simulation core, and the diagnostic record attached to fatal ones.
package simerr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the error classes from the error-handling design.
type Kind int

const (
	// ConfigError marks an invalid/unknown configuration key or an
	// inconsistent boundary <-> ndim combination.
	ConfigError Kind = iota
	// NeighborBufferExhausted marks a per-thread scratch buffer that
	// could not be grown past the doubling cap.
	NeighborBufferExhausted
	// GhostOverflow marks a ghost-tail write that would exceed Nghostmax.
	GhostOverflow
	// HIterationDiverged marks a smoothing-length solve that exceeded
	// 5*K1 iterations without converging.
	HIterationDiverged
	// NonPositiveState marks a reconstructed density or pressure <= 0
	// with no configured floor to apply.
	NonPositiveState
	// IOFailure marks a snapshot read/write failure.
	IOFailure
	// UserInterrupt marks a cooperative, clean shutdown request.
	UserInterrupt
)

func (k Kind) String() string {
	switch k {
	case ConfigError:
		return "ConfigError"
	case NeighborBufferExhausted:
		return "NeighborBufferExhausted"
	case GhostOverflow:
		return "GhostOverflow"
	case HIterationDiverged:
		return "HIterationDiverged"
	case NonPositiveState:
		return "NonPositiveState"
	case IOFailure:
		return "IOFailure"
	case UserInterrupt:
		return "UserInterrupt"
	}
	return "Unknown"
}

// ExitCode maps a Kind to the process exit code from spec.md §6.
func (k Kind) ExitCode() int {
	switch k {
	case ConfigError:
		return 1
	case IOFailure:
		return 2
	case HIterationDiverged, NonPositiveState:
		return 3
	case NeighborBufferExhausted, GhostOverflow:
		return 4
	}
	return 0
}

// Diagnostic is the structured record attached to a fatal error at the
// Driver boundary: step index, offending particle (-1 if none), and kind.
type Diagnostic struct {
	Step      int
	ParticleID int
	Kind      Kind
	Detail    string
}

// SimError is the concrete error type carried through the Driver stack.
type SimError struct {
	Diagnostic
	cause error
}

func (e *SimError) Error() string {
	if e.ParticleID >= 0 {
		return fmt.Sprintf("%v: step=%d particle=%d: %s", e.Kind, e.Step, e.ParticleID, e.Detail)
	}
	return fmt.Sprintf("%v: step=%d: %s", e.Kind, e.Step, e.Detail)
}

func (e *SimError) Unwrap() error { return e.cause }

// New builds a SimError with no particular particle attached.
func New(kind Kind, step int, format string, args ...interface{}) *SimError {
	return &SimError{Diagnostic: Diagnostic{Step: step, ParticleID: -1, Kind: kind, Detail: fmt.Sprintf(format, args...)}}
}

// NewForParticle builds a SimError tied to a specific particle id.
func NewForParticle(kind Kind, step, particleID int, format string, args ...interface{}) *SimError {
	return &SimError{Diagnostic: Diagnostic{Step: step, ParticleID: particleID, Kind: kind, Detail: fmt.Sprintf(format, args...)}}
}

// Wrap attaches a Kind/step to an underlying error without discarding it.
func Wrap(kind Kind, step int, cause error) *SimError {
	return &SimError{Diagnostic: Diagnostic{Step: step, ParticleID: -1, Kind: kind, Detail: cause.Error()}, cause: cause}
}

// Is reports whether err (or something it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	var se *SimError
	if !errors.As(err, &se) {
		return false
	}
	return se.Kind == kind
}
