package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/membank/membank/internal/config"
	"github.com/membank/membank/internal/database"
	"github.com/membank/membank/internal/services"
)

func newLogCmd() *cobra.Command {
	var (
		occurredRaw  string
		eventID      string
		attrsRaw     string
		replaceAttrs bool
	)

	cmd := &cobra.Command{
		Use:   "log <kind> [content]",
		Short: "Record a timestamped event",
		Long:  "Record an event such as a log, metric, or note. Pass --event-id to correct an existing event instead of appending a new one.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]

			occurredAt, err := parseTimeFlag(occurredRaw)
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

				if eventID != "" {
					patch := database.EventPatch{
						OccurredAt:   occurredAt,
						Extra:        attrs,
						ReplaceExtra: replaceAttrs,
					}
					if len(args) == 2 {
						patch.Content = &args[1]
					}
					record, err := svc.UpdateEvent(ctx, owner, eventID, patch)
					if err != nil {
						return err
					}
					if record == nil {
						return fmt.Errorf("event not found: %s", eventID)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Updated event %s\n", record.ID)
					return nil
				}

				if len(args) != 2 {
					return fmt.Errorf("content is required when recording a new event")
				}

				record, err := svc.LogEvent(ctx, owner, kind, args[1], occurredAt, attrs)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged %s %s\n", kind, record.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&occurredRaw, "at", "", "Occurrence time (RFC 3339 or YYYY-MM-DD, default now)")
	cmd.Flags().StringVar(&eventID, "event-id", "", "Update the event with this id instead of creating one")
	cmd.Flags().StringVar(&attrsRaw, "attrs", "", "Attributes as a JSON object")
	cmd.Flags().BoolVar(&replaceAttrs, "replace-attrs", false, "Replace stored attributes instead of merging (update only)")

	return cmd
}
