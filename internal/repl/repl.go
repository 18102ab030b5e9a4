// Package repl implements the command framing spec §6 leaves to an
// "external collaborator": splitting a stream of UTF-8 text into
// individual commands on top-level ";" boundaries, with a command
// allowed to span multiple input lines.
package repl

import (
	"bufio"
	"io"
	"strings"
)

// Framer reads command text from an underlying reader and yields one
// framed command at a time, blank commands skipped (spec §6).
type Framer struct {
	r       *bufio.Reader
	pending string
	atEOF   bool
}

// NewFramer wraps r for command framing.
func NewFramer(r io.Reader) *Framer {
	return &Framer{r: bufio.NewReader(r)}
}

// Next returns the next non-blank framed command. ok is false once the
// stream is exhausted and no further command remains.
func (f *Framer) Next() (cmd string, ok bool, err error) {
	for {
		if idx, found := topLevelSemicolon(f.pending); found {
			cmd = strings.TrimSpace(f.pending[:idx])
			f.pending = f.pending[idx+1:]
			if cmd == "" {
				continue
			}
			return cmd, true, nil
		}

		if f.atEOF {
			cmd = strings.TrimSpace(f.pending)
			f.pending = ""
			if cmd == "" {
				return "", false, nil
			}
			return cmd, true, nil
		}

		line, readErr := f.r.ReadString('\n')
		f.pending += line
		if readErr != nil {
			if readErr != io.EOF {
				return "", false, readErr
			}
			f.atEOF = true
		}
	}
}

// topLevelSemicolon finds the first ";" in s that is outside a quoted
// string and outside any parenthesis nesting, the same top-level
// boundary rule pkg/executor's own parsers use for commas and keywords.
func topLevelSemicolon(s string) (int, bool) {
	depth := 0
	inQuotes := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case '(':
			if !inQuotes {
				depth++
			}
		case ')':
			if !inQuotes && depth > 0 {
				depth--
			}
		case ';':
			if !inQuotes && depth == 0 {
				return i, true
			}
		}
	}
	return -1, false
}
