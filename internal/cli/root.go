// Package cli wires up the versewalk command tree.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "versewalk",
	Short: "Memory-palace scripture memorization trainer",
	Long:  "Versewalk schedules scripture review with spaced repetition and grades recitation attempts against the source text. Single Go binary, local SQLite storage.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(importCmd)
}
