package main

import (
	"github.com/spf13/cobra"

	"github.com/marshallshelly/miniql/internal/browsetui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open a read-only viewer over the persisted catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := loadCatalog(resolvedSnapshotPath())
		return browsetui.Run(cat)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
