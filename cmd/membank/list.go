package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/membank/membank/internal/config"
	"github.com/membank/membank/internal/entry"
	"github.com/membank/membank/internal/services"
)

func newListCmd() *cobra.Command {
	var (
		status string
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List items of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]

			return withService(func(svc *services.EntryService) error {
				entries, err := svc.List(context.Background(), config.GetOwnerID(), kind, status, limit)
				if err != nil {
					return err
				}

				switch format {
				case "json":
					return printEntriesJSON(cmd, entries)
				case "table":
					outputTable(cmd, entries)
					return nil
				default:
					return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
				}
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status: active or archived")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of items (default 100)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")

	return cmd
}

func getTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	// Default width if terminal size cannot be determined
	return 80
}

// summarize collapses content onto one line and truncates it to fit a column.
func summarize(content string, maxWidth int) string {
	oneLine := strings.Join(strings.Fields(content), " ")
	return runewidth.Truncate(oneLine, maxWidth, "...")
}

func outputTable(cmd *cobra.Command, entries []entry.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)

	termWidth := getTerminalWidth()

	// Fixed columns: Key, Status, Updated. Content takes whatever remains.
	keyWidth := 10
	for _, e := range entries {
		if w := runewidth.StringWidth(e.KeyString()); w > keyWidth {
			keyWidth = w
		}
	}
	if keyWidth > 40 {
		keyWidth = 40
	}

	statusWidth := 8
	updatedWidth := 16 // "2006-01-02 15:04"
	borderPadding := 4 * 3
	contentWidth := termWidth - keyWidth - statusWidth - updatedWidth - borderPadding
	if contentWidth < 20 {
		contentWidth = 20
	}

	t.AppendHeader(table.Row{"Key", "Status", "Updated", "Content"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			runewidth.Truncate(e.KeyString(), keyWidth, "..."),
			string(e.Status),
			e.UpdatedAt.Format("2006-01-02 15:04"),
			summarize(e.Content, contentWidth),
		})
	}

	t.Render()
}
