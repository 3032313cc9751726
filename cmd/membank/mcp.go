package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/membank/membank/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Start the Model Context Protocol server for membank. Logs go to stderr so stdout stays clean for the protocol.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			server, err := mcp.NewServer(logger)
			if err != nil {
				return err
			}

			return server.Run(context.Background())
		},
	}

	return cmd
}
