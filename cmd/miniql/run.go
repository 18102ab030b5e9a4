package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/miniql/internal/clioutput"
	"github.com/marshallshelly/miniql/internal/repl"
	"github.com/marshallshelly/miniql/pkg/catalog"
	"github.com/marshallshelly/miniql/pkg/executor"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive command loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func resolvedSnapshotPath() string {
	if snapshotPath != "" {
		return snapshotPath
	}
	return executor.DefaultSnapshotPath
}

func loadCatalog(path string) *catalog.Catalog {
	cat, found, err := catalog.Load(path)
	if err != nil {
		clioutput.Warning("could not read persistence file %q: %v (starting empty)", path, err)
	} else if found {
		clioutput.Info("loaded catalog from %q", path)
	}
	return cat
}

func runInteractive(in io.Reader, out io.Writer) error {
	path := resolvedSnapshotPath()
	cat := loadCatalog(path)

	e := executor.New(cat, out)
	e.SnapshotPath = path
	e.JSON = jsonOutput

	clioutput.Muted("miniql> type EXIT; to save and quit")

	framer := repl.NewFramer(in)
	for {
		cmd, ok, err := framer.Next()
		if err != nil {
			return fmt.Errorf("read command: %w", err)
		}
		if !ok {
			break
		}
		e.Execute(cmd)
		if e.Exited {
			break
		}
	}

	if e.ExitCode != 0 {
		os.Exit(e.ExitCode)
	}
	return nil
}
