package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "membank",
	Short: "membank - A personal memory bank for AI assistants",
	Long:  "membank stores goals, plans, knowledge, and timestamped events keyed per owner, with full-text search and context-aware overviews.",
}

func init() {
	rootCmd.AddCommand(newSetCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newArchiveCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newOverviewCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newInfoCmd())
}
