package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/membank/membank/internal/config"
	"github.com/membank/membank/internal/database"
	"github.com/membank/membank/internal/overview"
	"github.com/membank/membank/internal/services"
)

func newOverviewCmd() *cobra.Command {
	var (
		contextName   string
		truncateWords int
	)

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Show a structured overview of active entries",
		Long:  "Build a JSON overview of all active entries, grouped by kind with goals bucketed by status. Contexts narrow the sections: planning, upcoming, knowledge, or history.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbCtx, err := database.CreateDatabase("")
			if err != nil {
				return err
			}
			defer func() {
				_ = database.CloseDatabase(dbCtx)
			}()

			svc := services.NewEntryService(dbCtx)
			builder := overview.NewBuilder(svc)

			doc, err := builder.Build(context.Background(), config.GetOwnerID(), overview.Options{
				Context:       contextName,
				TruncateWords: truncateWords,
			})
			if err != nil {
				return err
			}

			if doc.IsEmpty() {
				fmt.Fprintln(cmd.OutOrStdout(), "No active entries")
				return nil
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(doc)
		},
	}

	cmd.Flags().StringVar(&contextName, "context", "", "Filter profile: planning, upcoming, knowledge, or history")
	cmd.Flags().IntVar(&truncateWords, "truncate-words", 0, "Word budget before content is truncated (default 200)")

	return cmd
}
