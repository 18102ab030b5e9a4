// Package executor maps each of the twelve commands (CREATE, USE,
// DESCRIBE, SELECT, LET, RENAME, INSERT, UPDATE, DELETE, SHOW, INPUT,
// EXIT) onto operations over a catalog.Catalog (spec §4.4). It never
// halts the process on a recoverable error — every failure becomes
// exactly one diagnostic line written to Out, and only EXIT terminates
// (spec §7's propagation policy).
package executor

import (
	"fmt"
	"io"

	"github.com/marshallshelly/miniql/pkg/catalog"
)

// DefaultSnapshotPath is the fixed persistence file spec §4.5/§6 names.
const DefaultSnapshotPath = "dbms_state.ser"

// Executor runs commands against an explicitly owned Catalog — no
// package-level globals hold mutable state (spec §9).
type Executor struct {
	Cat          *catalog.Catalog
	Out          io.Writer
	SnapshotPath string

	// JSON switches DESCRIBE/SHOW to emit JSON instead of plain text,
	// mirroring the teacher's root-level --json flag
	// (cmd/pebble/commands/root.go's jsonOutput).
	JSON bool

	// Exited is set once EXIT has run; ExitCode mirrors spec §6's exit
	// code contract (0 on a clean EXIT, nonzero on a fatal snapshot
	// failure).
	Exited   bool
	ExitCode int
}

// New builds an Executor writing command output and diagnostics to out.
func New(cat *catalog.Catalog, out io.Writer) *Executor {
	return &Executor{Cat: cat, Out: out, SnapshotPath: DefaultSnapshotPath}
}

func (e *Executor) diagf(format string, args ...interface{}) {
	fmt.Fprintf(e.Out, format+"\n", args...)
}

// Execute parses and runs a single framed command (text with its
// trailing ";" already stripped by the caller's command framer, spec
// §6). A blank command is a no-op.
func (e *Executor) Execute(text string) {
	verb, rest := firstWord(text)
	if verb == "" {
		return
	}

	switch verb {
	case "CREATE":
		e.execCreate(rest)
	case "USE":
		e.execUse(rest)
	case "DESCRIBE":
		e.execDescribe(rest)
	case "SELECT":
		e.execSelectTop(rest)
	case "LET":
		e.execLet(rest)
	case "RENAME":
		e.execRename(rest)
	case "INSERT":
		e.execInsert(rest)
	case "UPDATE":
		e.execUpdate(rest)
	case "DELETE":
		e.execDelete(rest)
	case "SHOW":
		e.execShow(rest)
	case "INPUT":
		e.execInput(rest)
	case "EXIT":
		e.execExit()
	default:
		e.diagf("error: %v: %q", ErrUnknownCommand, verb)
	}
}
