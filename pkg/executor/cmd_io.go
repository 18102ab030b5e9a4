package executor

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/marshallshelly/miniql/pkg/catalog"
)

// execInput handles "INPUT file [OUTPUT file]" (spec §4.4/§6). Each
// non-empty line of file is one command, executed in turn against this
// same catalog; a trailing ";" is optional and stripped if present. When
// OUTPUT is given the accumulated status log is written there instead of
// to standard output.
func (e *Executor) execInput(rest string) {
	filename, tail := firstToken(rest)
	if filename == "" {
		e.diagf("syntax error: INPUT requires a file name")
		return
	}

	kw, tail2 := firstWord(tail)
	var outputFile string
	switch kw {
	case "":
		// no OUTPUT clause
	case "OUTPUT":
		outputFile, _ = firstToken(tail2)
		if outputFile == "" {
			e.diagf("syntax error: OUTPUT requires a file name")
			return
		}
	default:
		e.diagf("syntax error: unexpected text after INPUT file name")
		return
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		e.diagf("error: INPUT: %v", err)
		return
	}

	originalOut := e.Out
	var log bytes.Buffer
	if outputFile != "" {
		e.Out = &log
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSuffix(line, ";")
		fmt.Fprintf(e.Out, "> %s\n", line)
		e.Execute(line)
		if e.Exited {
			break
		}
	}

	e.Out = originalOut
	if outputFile != "" {
		if err := os.WriteFile(outputFile, log.Bytes(), 0o644); err != nil {
			e.diagf("error: INPUT: failed to write OUTPUT file %q: %v", outputFile, err)
		}
	}
}

// execExit snapshots the catalog and terminates the command loop (spec
// §4.4/§4.5/§6). A snapshot failure is reported but still ends the loop —
// ExitCode carries the nonzero status the caller should exit the process
// with (spec §6's exit-code contract).
func (e *Executor) execExit() {
	if err := catalog.Save(e.SnapshotPath, e.Cat); err != nil {
		e.diagf("error: failed to save snapshot: %v", err)
		e.ExitCode = 1
	} else {
		e.ExitCode = 0
	}
	e.diagf("Goodbye.")
	e.Exited = true
}
