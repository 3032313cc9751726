package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/membank/membank/internal/config"
	"github.com/membank/membank/internal/database"
	"github.com/membank/membank/internal/entry"
	"github.com/membank/membank/internal/services"
)

func newSearchCmd() *cobra.Command {
	var (
		kind   string
		tag    string
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Full-text search across all entries",
		Long:  "Search entries by content and key. Terms are stemmed, so 'running' matches 'run'. An empty query lists the most recently updated entries.",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			return withService(func(svc *services.EntryService) error {
				entries, err := svc.Search(context.Background(), database.SearchParams{
					OwnerID: config.GetOwnerID(),
					Query:   query,
					Kind:    kind,
					Tag:     tag,
					Limit:   limit,
				})
				if err != nil {
					return err
				}

				switch format {
				case "json":
					return printEntriesJSON(cmd, entries)
				case "table":
					outputSearchTable(cmd, entries)
					return nil
				default:
					return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
				}
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Restrict results to one kind")
	cmd.Flags().StringVar(&tag, "tag", "", "Only entries whose tags contain this value")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results (default 100)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")

	return cmd
}

func outputSearchTable(cmd *cobra.Command, entries []entry.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)

	termWidth := getTerminalWidth()
	contentWidth := termWidth - 12 - 20 - 12
	if contentWidth < 20 {
		contentWidth = 20
	}

	t.AppendHeader(table.Row{"Kind", "Key", "Content"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.Kind,
			e.KeyString(),
			summarize(e.Content, contentWidth),
		})
	}

	t.Render()
}
