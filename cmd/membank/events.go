package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/membank/membank/internal/config"
	"github.com/membank/membank/internal/database"
	"github.com/membank/membank/internal/entry"
	"github.com/membank/membank/internal/services"
)

func newEventsCmd() *cobra.Command {
	var (
		startRaw string
		endRaw   string
		limit    int
		format   string
	)

	cmd := &cobra.Command{
		Use:   "events [kind]",
		Short: "List events, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := ""
			if len(args) == 1 {
				kind = args[0]
			}

			start, err := parseTimeFlag(startRaw)
			if err != nil {
				return err
			}
			end, err := parseTimeFlag(endRaw)
			if err != nil {
				return err
			}

			return withService(func(svc *services.EntryService) error {
				entries, err := svc.ListEvents(context.Background(), config.GetOwnerID(), database.ListFilter{
					Kind:  kind,
					Start: start,
					End:   end,
					Limit: limit,
				})
				if err != nil {
					return err
				}

				switch format {
				case "json":
					return printEntriesJSON(cmd, entries)
				case "table":
					outputEventTable(cmd, entries)
					return nil
				default:
					return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
				}
			})
		},
	}

	cmd.Flags().StringVar(&startRaw, "start", "", "Only events at or after this time")
	cmd.Flags().StringVar(&endRaw, "end", "", "Only events at or before this time")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of events (default 100)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")

	return cmd
}

func outputEventTable(cmd *cobra.Command, entries []entry.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)

	termWidth := getTerminalWidth()
	// ID (36), Kind (8), Occurred (16), borders; Content fills the rest.
	contentWidth := termWidth - 36 - 8 - 16 - 12
	if contentWidth < 20 {
		contentWidth = 20
	}

	t.AppendHeader(table.Row{"ID", "Kind", "Occurred", "Content"})
	for _, e := range entries {
		occurred := e.CreatedAt
		if e.OccurredAt != nil {
			occurred = *e.OccurredAt
		}
		t.AppendRow(table.Row{
			e.ID,
			e.Kind,
			occurred.Format("2006-01-02 15:04"),
			summarize(e.Content, contentWidth),
		})
	}

	t.Render()
}
