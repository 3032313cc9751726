package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/membank/membank/internal/config"
	"github.com/membank/membank/internal/services"
)

func newGetCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "get <kind> <key>",
		Short: "Get item content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, key := args[0], args[1]

			return withService(func(svc *services.EntryService) error {
				record, err := svc.Get(context.Background(), config.GetOwnerID(), kind, key)
				if err != nil {
					return err
				}
				if record == nil {
					return fmt.Errorf("not found: %s '%s'", kind, key)
				}

				if jsonOutput {
					return printEntryJSON(cmd, record)
				}

				fmt.Fprintln(cmd.OutOrStdout(), record.Content)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full entry as JSON")

	return cmd
}
