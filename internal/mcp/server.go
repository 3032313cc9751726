// Package mcp exposes the memory store as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/membank/membank/internal/config"
	"github.com/membank/membank/internal/database"
	"github.com/membank/membank/internal/entry"
	"github.com/membank/membank/internal/overview"
	"github.com/membank/membank/internal/services"
)

// Server wraps the MCP server with memory-store functionality.
type Server struct {
	server  *mcp.Server
	dbCtx   *database.Context
	service *services.EntryService
	builder *overview.Builder
	logger  *slog.Logger
}

// NewServer creates a new MCP server instance backed by the local database.
func NewServer(logger *slog.Logger) (*Server, error) {
	dbCtx, err := database.CreateDatabase("")
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "membank",
		Version: "0.1.0",
	}, nil)

	service := services.NewEntryService(dbCtx)

	s := &Server{
		server:  mcpServer,
		dbCtx:   dbCtx,
		service: service,
		builder: overview.NewBuilder(service),
		logger:  logger,
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server with stdio transport.
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		_ = database.CloseDatabase(s.dbCtx)
	}()
	s.logger.Info("starting mcp server", "owner", config.GetOwnerID())
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "memory_upsert",
		Description: "Create or update a keyed item (goal, program, week, plan, knowledge, principle, preference, current). Same key updates the existing item; old_key renames it.",
	}, s.handleUpsert)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "memory_log",
		Description: "Log a timestamped event (log, metric, note), or correct an existing event by id",
	}, s.handleLog)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "memory_get",
		Description: "Fetch specific items by kind+key pairs, or list entries filtered by kind/status/date range",
	}, s.handleGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "memory_delete",
		Description: "Hard-delete an item by kind+key or an event by id",
	}, s.handleDelete)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "memory_archive",
		Description: "Archive an item (kind+key), bulk-archive a kind, or remove an event by id",
	}, s.handleArchive)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "memory_search",
		Description: "Full-text search across entries, with optional kind and tag filters",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "memory_overview",
		Description: "Context-aware overview of active entries with truncated content. Contexts: planning, upcoming, knowledge, history.",
	}, s.handleOverview)
}

// Input/Output types for each tool

type EntryOutput struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	Key        *string        `json:"key,omitempty"`
	Content    string         `json:"content"`
	Status     string         `json:"status"`
	OccurredAt *string        `json:"occurred_at,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
	CreatedAt  string         `json:"created_at"`
	UpdatedAt  string         `json:"updated_at"`
}

type UpsertInput struct {
	Kind    string         `json:"kind" jsonschema:"required,description=Type of item (goal, program, week, plan, knowledge, principle, preference, current)"`
	Key     string         `json:"key" jsonschema:"required,description=Unique identifier within kind (e.g. 'bench-225', 'current-program')"`
	Content string         `json:"content" jsonschema:"required,description=Main content as natural text"`
	Status  *string        `json:"status,omitempty" jsonschema:"description='active' (default) or 'archived'"`
	OldKey  *string        `json:"old_key,omitempty" jsonschema:"description=Rename the entry at old_key to key; errors if both keys exist"`
	Extra   map[string]any `json:"extra,omitempty" jsonschema:"description=Attribute bag (priority, tags, due_date, parent_key, start_date, duration_weeks)"`
}

type LogInput struct {
	Kind         string         `json:"kind,omitempty" jsonschema:"description=Type of event (log, metric, note)"`
	Content      *string        `json:"content,omitempty" jsonschema:"description=Description of the event as natural text"`
	OccurredAt   *string        `json:"occurred_at,omitempty" jsonschema:"description=ISO 8601 timestamp (defaults to now)"`
	EventID      *string        `json:"event_id,omitempty" jsonschema:"description=If provided, updates the existing event instead of creating a new one"`
	Extra        map[string]any `json:"extra,omitempty" jsonschema:"description=Attribute bag; merges into the stored bag on update"`
	ReplaceExtra bool           `json:"replace_extra,omitempty" jsonschema:"description=Replace the stored attribute bag instead of merging (update only)"`
}

type GetItemRef struct {
	Kind string `json:"kind" jsonschema:"required"`
	Key  string `json:"key" jsonschema:"required"`
}

type GetInput struct {
	Items  []GetItemRef `json:"items,omitempty" jsonschema:"description=Specific items to fetch by kind+key"`
	Kind   string       `json:"kind,omitempty" jsonschema:"description=Filter by kind (list mode)"`
	Status string       `json:"status,omitempty" jsonschema:"description=Filter by status (list mode, items only)"`
	Start  *string      `json:"start,omitempty" jsonschema:"description=ISO date start filter (events)"`
	End    *string      `json:"end,omitempty" jsonschema:"description=ISO date end filter (events)"`
	Limit  int          `json:"limit,omitempty" jsonschema:"description=Max results (default 100)"`
}

type GetOutput struct {
	Entries []EntryOutput `json:"entries"`
}

type DeleteInput struct {
	Kind    string  `json:"kind,omitempty" jsonschema:"description=Kind of the item to delete"`
	Key     string  `json:"key,omitempty" jsonschema:"description=Key of the item to delete"`
	EventID *string `json:"event_id,omitempty" jsonschema:"description=Event id to delete"`
}

type DeleteOutput struct {
	Deleted bool `json:"deleted"`
}

type ArchiveInput struct {
	Kind    string  `json:"kind,omitempty" jsonschema:"description=Kind of items to archive"`
	Key     string  `json:"key,omitempty" jsonschema:"description=Specific item key to archive"`
	EventID *string `json:"event_id,omitempty" jsonschema:"description=Specific event id to remove"`
	Status  string  `json:"status,omitempty" jsonschema:"description=Current status filter for bulk archive (default 'active')"`
}

type ArchiveOutput struct {
	ArchivedCount int      `json:"archived_count"`
	ArchivedKeys  []string `json:"archived_keys,omitempty"`
}

type SearchInput struct {
	Query string `json:"query" jsonschema:"description=Search terms; empty lists recent entries"`
	Kind  string `json:"kind,omitempty" jsonschema:"description=Restrict to one kind"`
	Tag   string `json:"tag,omitempty" jsonschema:"description=Substring filter on extra.tags"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Max results (default 100)"`
}

type OverviewInput struct {
	Context       string `json:"context,omitempty" jsonschema:"description=Filter profile: planning, upcoming, knowledge, or history"`
	TruncateWords int    `json:"truncate_words,omitempty" jsonschema:"description=Word budget before truncation (default 200)"`
}

// Tool handlers

func (s *Server) handleUpsert(ctx context.Context, req *mcp.CallToolRequest, input UpsertInput) (*mcp.CallToolResult, EntryOutput, error) {
	owner := config.GetOwnerID()

	status := ""
	if input.Status != nil {
		status = *input.Status
	}

	var (
		record *entry.Entry
		err    error
	)
	if input.OldKey != nil && *input.OldKey != "" {
		record, err = s.service.Rename(ctx, owner, input.Kind, *input.OldKey, input.Key, input.Content, status, input.Extra)
	} else {
		record, err = s.service.Upsert(ctx, owner, input.Kind, input.Key, input.Content, status, input.Extra)
	}
	if err != nil {
		s.logger.Error("upsert failed", "kind", input.Kind, "key", input.Key, "error", err)
		return nil, EntryOutput{}, fmt.Errorf("failed to upsert entry: %w", err)
	}

	return nil, entryOutput(*record), nil
}

func (s *Server) handleLog(ctx context.Context, req *mcp.CallToolRequest, input LogInput) (*mcp.CallToolResult, EntryOutput, error) {
	owner := config.GetOwnerID()
	occurredAt := parseTimestamp(input.OccurredAt)

	if input.EventID != nil && *input.EventID != "" {
		patch := database.EventPatch{
			Content:      input.Content,
			OccurredAt:   occurredAt,
			Extra:        input.Extra,
			ReplaceExtra: input.ReplaceExtra,
		}
		record, err := s.service.UpdateEvent(ctx, owner, *input.EventID, patch)
		if err != nil {
			return nil, EntryOutput{}, fmt.Errorf("failed to update event: %w", err)
		}
		if record == nil {
			return nil, EntryOutput{}, fmt.Errorf("event not found: %s", *input.EventID)
		}
		return nil, entryOutput(*record), nil
	}

	if input.Kind == "" || input.Content == nil {
		return nil, EntryOutput{}, fmt.Errorf("kind and content are required when creating an event")
	}

	record, err := s.service.LogEvent(ctx, owner, input.Kind, *input.Content, occurredAt, input.Extra)
	if err != nil {
		return nil, EntryOutput{}, fmt.Errorf("failed to log event: %w", err)
	}
	return nil, entryOutput(*record), nil
}

func (s *Server) handleGet(ctx context.Context, req *mcp.CallToolRequest, input GetInput) (*mcp.CallToolResult, GetOutput, error) {
	owner := config.GetOwnerID()

	if len(input.Items) > 0 {
		keys := make([]database.KindKey, 0, len(input.Items))
		for _, ref := range input.Items {
			keys = append(keys, database.KindKey{Kind: ref.Kind, Key: ref.Key})
		}
		records, err := s.service.GetMany(ctx, owner, keys)
		if err != nil {
			return nil, GetOutput{}, fmt.Errorf("failed to get entries: %w", err)
		}
		return nil, GetOutput{Entries: entryOutputs(records)}, nil
	}

	if input.Kind == "" {
		return nil, GetOutput{Entries: []EntryOutput{}}, nil
	}

	if entry.IsEventKind(input.Kind) {
		records, err := s.service.ListEvents(ctx, owner, database.ListFilter{
			Kind:  input.Kind,
			Start: parseTimestamp(input.Start),
			End:   parseTimestamp(input.End),
			Limit: input.Limit,
		})
		if err != nil {
			return nil, GetOutput{}, fmt.Errorf("failed to list events: %w", err)
		}
		return nil, GetOutput{Entries: entryOutputs(records)}, nil
	}

	records, err := s.service.List(ctx, owner, input.Kind, input.Status, input.Limit)
	if err != nil {
		return nil, GetOutput{}, fmt.Errorf("failed to list items: %w", err)
	}
	return nil, GetOutput{Entries: entryOutputs(records)}, nil
}

func (s *Server) handleDelete(ctx context.Context, req *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	owner := config.GetOwnerID()

	if input.EventID != nil && *input.EventID != "" {
		deleted, err := s.service.DeleteEvent(ctx, owner, *input.EventID)
		if err != nil {
			return nil, DeleteOutput{}, fmt.Errorf("failed to delete event: %w", err)
		}
		return nil, DeleteOutput{Deleted: deleted}, nil
	}

	if input.Kind == "" || input.Key == "" {
		return nil, DeleteOutput{}, fmt.Errorf("kind and key are required to delete an item")
	}

	deleted, err := s.service.Delete(ctx, owner, input.Kind, input.Key)
	if err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete item: %w", err)
	}
	return nil, DeleteOutput{Deleted: deleted}, nil
}

func (s *Server) handleArchive(ctx context.Context, req *mcp.CallToolRequest, input ArchiveInput) (*mcp.CallToolResult, ArchiveOutput, error) {
	owner := config.GetOwnerID()

	switch {
	case input.EventID != nil && *input.EventID != "":
		// Events have no archived state; removal is the closest operation.
		deleted, err := s.service.DeleteEvent(ctx, owner, *input.EventID)
		if err != nil {
			return nil, ArchiveOutput{}, fmt.Errorf("failed to delete event: %w", err)
		}
		count := 0
		if deleted {
			count = 1
		}
		return nil, ArchiveOutput{ArchivedCount: count}, nil

	case input.Kind != "" && input.Key != "":
		archived, err := s.service.ArchiveItem(ctx, owner, input.Kind, input.Key)
		if err != nil {
			return nil, ArchiveOutput{}, fmt.Errorf("failed to archive item: %w", err)
		}
		count := 0
		if archived {
			count = 1
		}
		return nil, ArchiveOutput{ArchivedCount: count}, nil

	case input.Kind != "":
		keys, err := s.service.ArchiveKind(ctx, owner, input.Kind, input.Status)
		if err != nil {
			return nil, ArchiveOutput{}, fmt.Errorf("failed to archive kind: %w", err)
		}
		return nil, ArchiveOutput{ArchivedCount: len(keys), ArchivedKeys: keys}, nil

	default:
		return nil, ArchiveOutput{}, fmt.Errorf("must specify kind+key, event_id, or kind for bulk archive")
	}
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, GetOutput, error) {
	records, err := s.service.Search(ctx, database.SearchParams{
		OwnerID: config.GetOwnerID(),
		Query:   input.Query,
		Kind:    input.Kind,
		Tag:     input.Tag,
		Limit:   input.Limit,
	})
	if err != nil {
		return nil, GetOutput{}, fmt.Errorf("failed to search entries: %w", err)
	}
	return nil, GetOutput{Entries: entryOutputs(records)}, nil
}

func (s *Server) handleOverview(ctx context.Context, req *mcp.CallToolRequest, input OverviewInput) (*mcp.CallToolResult, overview.Document, error) {
	doc, err := s.builder.Build(ctx, config.GetOwnerID(), overview.Options{
		Context:       input.Context,
		TruncateWords: input.TruncateWords,
	})
	if err != nil {
		return nil, overview.Document{}, fmt.Errorf("failed to build overview: %w", err)
	}
	return nil, *doc, nil
}

func entryOutput(e entry.Entry) EntryOutput {
	out := EntryOutput{
		ID:        e.ID,
		Kind:      e.Kind,
		Key:       e.Key,
		Content:   e.Content,
		Status:    string(e.Status),
		Extra:     e.Extra,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339),
	}
	if e.OccurredAt != nil {
		occurred := e.OccurredAt.Format(time.RFC3339)
		out.OccurredAt = &occurred
	}
	return out
}

func entryOutputs(entries []entry.Entry) []EntryOutput {
	out := make([]EntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryOutput(e))
	}
	return out
}

// parseTimestamp accepts RFC 3339 timestamps and plain ISO dates. Malformed
// input reads as "no value supplied".
func parseTimestamp(raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, *raw); err == nil {
			return &t
		}
	}
	return nil
}
