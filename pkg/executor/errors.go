package executor

import (
	"errors"
	"fmt"
)

// ErrUnknownCommand is the sentinel behind the "unknown command" diagnostic,
// mirroring the teacher's pkg/runtime/errors.go shape (a wrapped sentinel a
// caller could errors.Is against) generalized from ORM-connection errors to
// command dispatch.
var ErrUnknownCommand = errors.New("unknown command")

// SyntaxError reports a malformed command or clause (spec §7).
type SyntaxError struct {
	Command string
	Detail  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %s: %s", e.Command, e.Detail)
}

// ConstraintError reports an arity, domain, or key-integrity violation
// (spec §7). The executor never surfaces this as a Go error to its
// caller — it always converts it to a single diagnostic line first.
type ConstraintError struct {
	Table  string
	Reason string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s", e.Table, e.Reason)
}

func (e *Executor) syntaxErrf(command, format string, args ...interface{}) {
	se := &SyntaxError{Command: command, Detail: fmt.Sprintf(format, args...)}
	e.diagf("error: %v", se)
}

func (e *Executor) constraintErrf(table, format string, args ...interface{}) {
	ce := &ConstraintError{Table: table, Reason: fmt.Sprintf(format, args...)}
	e.diagf("error: %v", ce)
}
