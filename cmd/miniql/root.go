package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the miniql binary's base command, grounded on the teacher's
// cmd/pebble/commands/root.go (persistent flags, Execute()/init() shape).
var rootCmd = &cobra.Command{
	Use:   "miniql",
	Short: "miniql - a small single-process relational database engine",
	Long: `miniql accepts a SQL-flavored command language, maintains a collection
of named databases and tables, persists state between runs, and answers
queries by driving primary-key-indexed storage.

Subcommands:
  run     - start the interactive command loop
  exec    - run a file of commands in batch mode
  browse  - open a read-only viewer over the persisted catalog`,
	Version: "0.1.0",
}

var (
	snapshotPath string
	jsonOutput   bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "state", "", "Path to the persistence file (default dbms_state.ser)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output DESCRIBE/SHOW in JSON format")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
