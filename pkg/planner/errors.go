// pkg/planner/errors.go
// Copyright(c) 2022-2026 aerosurvey contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package planner

// ErrKind enumerates the three error kinds spec.md §7 considers
// sufficient. Only InvalidInput is ever returned from the public
// entry points as a Go error; UnsatisfiableCoverage surfaces as an
// empty PlanResult, and InternalInvariantViolation is logged and
// swallowed by the lower layers (pkg/sequence's final cleanup pass).
type ErrKind int

const (
	InvalidInput ErrKind = iota
	UnsatisfiableCoverage
	InternalInvariantViolation
)

func (k ErrKind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case UnsatisfiableCoverage:
		return "UnsatisfiableCoverage"
	case InternalInvariantViolation:
		return "InternalInvariantViolation"
	default:
		return "Unknown"
	}
}

// PlanError is raised synchronously from the public entry points
// before any work begins, fatal for that call.
type PlanError struct {
	Kind ErrKind
	Msg  string
}

func (e *PlanError) Error() string {
	return e.Kind.String() + ": " + e.Msg
}
