// Package clioutput prints the CLI's own banners — startup/shutdown
// notices, file errors — never the SQL command output itself (spec §7/§8
// require that output to be byte-for-byte comparable, so it always goes
// through the plain fmt.Fprint* calls in pkg/executor instead). Adapted
// from the teacher's cmd/pebble/output package.
package clioutput

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

// Success prints a success banner to stderr.
func Success(format string, args ...interface{}) {
	fmt.Fprint(os.Stderr, successStyle.Render("✓ "))
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Warning prints a warning banner to stderr.
func Warning(format string, args ...interface{}) {
	fmt.Fprint(os.Stderr, warningStyle.Render("⚠ "))
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Error prints an error banner to stderr.
func Error(format string, args ...interface{}) {
	fmt.Fprint(os.Stderr, errorStyle.Render("✗ "))
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Info prints an info banner to stderr.
func Info(format string, args ...interface{}) {
	fmt.Fprint(os.Stderr, infoStyle.Render("ℹ "))
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Muted prints a de-emphasized banner to stderr — used for the REPL's
// "miniql> " style prompt decoration.
func Muted(format string, args ...interface{}) {
	fmt.Fprint(os.Stderr, mutedStyle.Render(fmt.Sprintf(format, args...)))
	fmt.Fprintln(os.Stderr)
}
