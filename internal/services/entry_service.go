// Package services exposes the high-level operations of the memory store:
// input normalization, timeout enforcement, and composition over the
// database repositories.
package services

import (
	"context"
	"time"

	"github.com/membank/membank/internal/config"
	"github.com/membank/membank/internal/database"
	"github.com/membank/membank/internal/entry"
)

// EntryService is the boundary the RPC/tool layer and the CLI call into.
// Every operation runs against a bounded-timeout context so a slow query
// fails the whole call instead of hanging it.
type EntryService struct {
	entries *database.EntryRepository
	events  *database.EventRepository
	search  *database.SearchQuery
	timeout time.Duration
}

// NewEntryService creates a new EntryService.
func NewEntryService(dbCtx *database.Context) *EntryService {
	return &EntryService{
		entries: database.NewEntryRepository(dbCtx),
		events:  database.NewEventRepository(dbCtx),
		search:  database.NewSearchQuery(dbCtx),
		timeout: config.GetQueryTimeout(),
	}
}

func (s *EntryService) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// Upsert inserts or replaces the item at (owner, kind, key), normalizing
// status and the extra bag at the boundary.
func (s *EntryService) Upsert(ctx context.Context, ownerID, kind, key, content, status string, extra map[string]any) (*entry.Entry, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	return s.entries.Upsert(ctx, database.UpsertParams{
		OwnerID: ownerID,
		Kind:    kind,
		Key:     key,
		Content: content,
		Status:  entry.NormalizeStatus(status),
		Extra:   entry.NormalizeExtra(extra),
	})
}

// Rename moves an item from oldKey to key. Returns database.ErrConflict
// when the target identity is occupied; falls back to a plain upsert when
// oldKey does not exist.
func (s *EntryService) Rename(ctx context.Context, ownerID, kind, oldKey, key, content, status string, extra map[string]any) (*entry.Entry, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	return s.entries.Rename(ctx, database.RenameParams{
		OwnerID: ownerID,
		Kind:    kind,
		OldKey:  oldKey,
		Key:     key,
		Content: content,
		Status:  entry.NormalizeStatus(status),
		Extra:   entry.NormalizeExtra(extra),
	})
}

// Get returns the item at (owner, kind, key), or nil when absent.
func (s *EntryService) Get(ctx context.Context, ownerID, kind, key string) (*entry.Entry, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	return s.entries.Find(ctx, ownerID, kind, key)
}

// GetMany performs a batch lookup; missing pairs are silently omitted.
func (s *EntryService) GetMany(ctx context.Context, ownerID string, keys []database.KindKey) ([]entry.Entry, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	return s.entries.FindMany(ctx, ownerID, keys)
}

// Delete hard-deletes an item.
func (s *EntryService) Delete(ctx context.Context, ownerID, kind, key string) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	return s.entries.Delete(ctx, ownerID, kind, key)
}

// List returns items of a kind, newest first. A non-empty status filter is
// normalized before matching; limit defaults to 100.
func (s *EntryService) List(ctx context.Context, ownerID, kind, status string, limit int) ([]entry.Entry, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}

	var statusFilter *entry.Status
	if status != "" {
		normalized := entry.NormalizeStatus(status)
		statusFilter = &normalized
	}

	return s.entries.List(ctx, ownerID, kind, statusFilter, limit)
}

// LogEvent appends a timestamped event; occurredAt defaults to now.
func (s *EntryService) LogEvent(ctx context.Context, ownerID, kind, content string, occurredAt *time.Time, extra map[string]any) (*entry.Entry, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	return s.events.Insert(ctx, ownerID, kind, content, occurredAt, entry.NormalizeExtra(extra))
}

// ListEvents returns events newest first with optional kind and time-range
// filters.
func (s *EntryService) ListEvents(ctx context.Context, ownerID string, filter database.ListFilter) ([]entry.Entry, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	return s.events.List(ctx, ownerID, filter)
}

// UpdateEvent applies a partial update to an event; nil when no matching
// event exists (including malformed ids).
func (s *EntryService) UpdateEvent(ctx context.Context, ownerID, id string, patch database.EventPatch) (*entry.Entry, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	if patch.Extra != nil {
		patch.Extra = entry.NormalizeExtra(patch.Extra)
	}
	return s.events.Update(ctx, ownerID, id, patch)
}

// DeleteEvent removes an event by id.
func (s *EntryService) DeleteEvent(ctx context.Context, ownerID, id string) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	return s.events.Delete(ctx, ownerID, id)
}

// Search runs full-text search over the owner's entries.
func (s *EntryService) Search(ctx context.Context, p database.SearchParams) ([]entry.Entry, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	return s.search.Search(ctx, p)
}

// ActiveEntries loads the overview working set: all active entries for the
// owner minus the reserved bookkeeping kind.
func (s *EntryService) ActiveEntries(ctx context.Context, ownerID string) ([]entry.Entry, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	return s.entries.ListActive(ctx, ownerID)
}

// ArchiveItem soft-deletes one item by flipping its status to archived,
// preserving content and extra. Reports whether the item existed.
func (s *EntryService) ArchiveItem(ctx context.Context, ownerID, kind, key string) (bool, error) {
	existing, err := s.Get(ctx, ownerID, kind, key)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	boundedCtx, cancel := s.bounded(ctx)
	defer cancel()

	_, err = s.entries.Upsert(boundedCtx, database.UpsertParams{
		OwnerID: ownerID,
		Kind:    kind,
		Key:     key,
		Content: existing.Content,
		Status:  entry.StatusArchived,
		Extra:   existing.Extra,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// ArchiveKind bulk-archives every item of a kind currently in the given
// status (default active) and returns the archived keys.
func (s *EntryService) ArchiveKind(ctx context.Context, ownerID, kind, status string) ([]string, error) {
	if status == "" {
		status = string(entry.StatusActive)
	}

	items, err := s.List(ctx, ownerID, kind, status, 1000)
	if err != nil {
		return nil, err
	}

	archived := make([]string, 0, len(items))
	for _, item := range items {
		if item.Key == nil {
			continue
		}
		if _, err := s.ArchiveItem(ctx, ownerID, kind, *item.Key); err != nil {
			return nil, err
		}
		archived = append(archived, *item.Key)
	}
	return archived, nil
}
