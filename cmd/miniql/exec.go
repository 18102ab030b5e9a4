package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/miniql/pkg/executor"
)

var execCmd = &cobra.Command{
	Use:   "exec <file>",
	Short: "Run a file of commands in batch mode",
	Long:  "exec is equivalent to issuing \"INPUT <file>;\" and then \"EXIT;\" (unless the file already ran EXIT) in a fresh interactive session.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolvedSnapshotPath()
		cat := loadCatalog(path)

		e := executor.New(cat, os.Stdout)
		e.SnapshotPath = path
		e.JSON = jsonOutput
		e.Execute(fmt.Sprintf("INPUT %s", args[0]))

		if !e.Exited {
			e.Execute("EXIT")
		}
		if e.ExitCode != 0 {
			os.Exit(e.ExitCode)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
}
