package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/membank/membank/internal/config"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show configuration and storage paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Version:       %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Owner:         %s\n", config.GetOwnerID())
			fmt.Fprintf(cmd.OutOrStdout(), "Data Dir:      %s\n", config.GetDataDir())
			fmt.Fprintf(cmd.OutOrStdout(), "Database:      %s\n", config.GetDBPath())
			fmt.Fprintf(cmd.OutOrStdout(), "Query Timeout: %s\n", config.GetQueryTimeout())

			return nil
		},
	}

	return cmd
}
