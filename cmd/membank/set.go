package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/membank/membank/internal/config"
	"github.com/membank/membank/internal/services"
)

func newSetCmd() *cobra.Command {
	var (
		filePath string
		status   string
		oldKey   string
		attrsRaw string
	)

	cmd := &cobra.Command{
		Use:   "set <kind> <key>",
		Short: "Create or update a keyed item",
		Long:  "Create or update an item such as a goal, plan, or preference. Setting the same kind and key again replaces the content in place.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, key := args[0], args[1]

			content, err := readContent(cmd, filePath)
			if err != nil {
				return err
			}

			attrs, err := parseAttrs(attrsRaw)
			if err != nil {
				return err
			}

			return withService(func(svc *services.EntryService) error {
				ctx := context.Background()
				owner := config.GetOwnerID()

				if oldKey != "" {
					record, err := svc.Rename(ctx, owner, kind, oldKey, key, content, status, attrs)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s '%s' to '%s'\n", kind, oldKey, record.KeyString())
					return nil
				}

				record, err := svc.Upsert(ctx, owner, kind, key, content, status, attrs)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s '%s'\n", kind, record.KeyString())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Read content from file instead of stdin")
	cmd.Flags().StringVar(&status, "status", "", "Entry status: active (default) or archived")
	cmd.Flags().StringVar(&oldKey, "old-key", "", "Rename the item stored under this key")
	cmd.Flags().StringVar(&attrsRaw, "attrs", "", "Attributes as a JSON object (priority, tags, due_date, ...)")

	return cmd
}
