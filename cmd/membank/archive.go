package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/membank/membank/internal/config"
	"github.com/membank/membank/internal/services"
)

func newArchiveCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "archive <kind> [key]",
		Short: "Archive an item, or all active items of a kind",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]

			if len(args) == 1 && !all {
				return fmt.Errorf("specify a key, or --all to archive every active %s", kind)
			}

			return withService(func(svc *services.EntryService) error {
				ctx := context.Background()
				owner := config.GetOwnerID()

				if len(args) == 2 {
					key := args[1]
					archived, err := svc.ArchiveItem(ctx, owner, kind, key)
					if err != nil {
						return err
					}
					if !archived {
						return fmt.Errorf("not found: %s '%s'", kind, key)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Archived %s '%s'\n", kind, key)
					return nil
				}

				keys, err := svc.ArchiveKind(ctx, owner, kind, "")
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Archived %d %s entries\n", len(keys), kind)
				for _, key := range keys {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", key)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Archive every active item of the kind")

	return cmd
}
