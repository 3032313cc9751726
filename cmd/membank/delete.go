package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/membank/membank/internal/config"
	"github.com/membank/membank/internal/services"
)

func newDeleteCmd() *cobra.Command {
	var (
		eventID string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "delete [kind] [key]",
		Short: "Permanently delete an item or event",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if eventID == "" && len(args) != 2 {
				return fmt.Errorf("specify <kind> <key>, or --event-id for events")
			}

			// Confirmation prompt
			if !force {
				var message string
				if eventID != "" {
					message = fmt.Sprintf("Delete event %s? This cannot be undone. (y/N) ", eventID)
				} else {
					message = fmt.Sprintf("Delete %s '%s'? This cannot be undone. (y/N) ", args[0], args[1])
				}

				reader := bufio.NewReader(os.Stdin)
				fmt.Fprint(cmd.ErrOrStderr(), message)
				answer, err := reader.ReadString('\n')
				if err != nil {
					return err
				}

				answer = strings.TrimSpace(strings.ToLower(answer))
				if answer != "y" {
					fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")
					return nil
				}
			}

			return withService(func(svc *services.EntryService) error {
				ctx := context.Background()
				owner := config.GetOwnerID()

				if eventID != "" {
					deleted, err := svc.DeleteEvent(ctx, owner, eventID)
					if err != nil {
						return err
					}
					if !deleted {
						return fmt.Errorf("event not found: %s", eventID)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted event %s\n", eventID)
					return nil
				}

				kind, key := args[0], args[1]
				deleted, err := svc.Delete(ctx, owner, kind, key)
				if err != nil {
					return err
				}
				if !deleted {
					return fmt.Errorf("not found: %s '%s'", kind, key)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s '%s'\n", kind, key)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&eventID, "event-id", "", "Delete the event with this id")
	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
