package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/membank/membank/internal/entry"
	sqldb "github.com/membank/membank/internal/database/sqlc"
)

// EntryRepository owns the keyed-item side of the entries table: the upsert
// identity, renames, lookups, and listings.
type EntryRepository struct {
	ctx *Context
}

func NewEntryRepository(dbCtx *Context) *EntryRepository {
	return &EntryRepository{ctx: dbCtx}
}

// KindKey addresses one item for batch lookups.
type KindKey struct {
	Kind string
	Key  string
}

// UpsertParams carries the caller-supplied fields of an upsert. Status and
// Extra are expected to be normalized already.
type UpsertParams struct {
	OwnerID string
	Kind    string
	Key     string
	Content string
	Status  entry.Status
	Extra   map[string]any
}

// Upsert inserts or replaces the item identified by (owner, kind, key) in a
// single statement. On conflict the engine keeps id and created_at and
// replaces content, status, and extra.
func (r *EntryRepository) Upsert(ctx context.Context, p UpsertParams) (*entry.Entry, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("entry repository: missing database context")
	}

	extra, err := marshalExtra(p.Extra)
	if err != nil {
		return nil, fmt.Errorf("entry repository: encode extra: %w", err)
	}

	now := time.Now().UTC()
	row, err := queries.UpsertEntry(ctx, sqldb.UpsertEntryParams{
		ID:        uuid.NewString(),
		OwnerID:   p.OwnerID,
		Kind:      p.Kind,
		Key:       sql.NullString{String: p.Key, Valid: true},
		Content:   p.Content,
		Status:    string(p.Status),
		Extra:     extra,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	record := EntryFromRow(row)
	return &record, nil
}

// RenameParams carries a rename request: the item at OldKey moves to Key
// with fresh content and status.
type RenameParams struct {
	OwnerID string
	Kind    string
	OldKey  string
	Key     string
	Content string
	Status  entry.Status
	Extra   map[string]any
}

// Rename changes an item's key in place, preserving id and created_at. When
// the old key does not exist it falls back to a plain upsert at the new key.
// An occupied target identity yields ErrConflict and leaves both rows
// untouched.
func (r *EntryRepository) Rename(ctx context.Context, p RenameParams) (*entry.Entry, error) {
	if r.ctx == nil || r.ctx.DB == nil {
		return nil, fmt.Errorf("entry repository: missing database context")
	}

	extra, err := marshalExtra(p.Extra)
	if err != nil {
		return nil, fmt.Errorf("entry repository: encode extra: %w", err)
	}

	var result entry.Entry
	err = r.ctx.withTx(ctx, func(q *sqldb.Queries) error {
		_, err := q.FindItem(ctx, sqldb.FindItemParams{OwnerID: p.OwnerID, Kind: p.Kind, Key: p.OldKey})
		if errors.Is(err, sql.ErrNoRows) {
			now := time.Now().UTC()
			row, err := q.UpsertEntry(ctx, sqldb.UpsertEntryParams{
				ID:        uuid.NewString(),
				OwnerID:   p.OwnerID,
				Kind:      p.Kind,
				Key:       sql.NullString{String: p.Key, Valid: true},
				Content:   p.Content,
				Status:    string(p.Status),
				Extra:     extra,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return err
			}
			result = EntryFromRow(row)
			return nil
		}
		if err != nil {
			return err
		}

		_, err = q.FindItem(ctx, sqldb.FindItemParams{OwnerID: p.OwnerID, Kind: p.Kind, Key: p.Key})
		if err == nil {
			return fmt.Errorf("%w: %s/%s", ErrConflict, p.Kind, p.Key)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		row, err := q.RenameItem(ctx, sqldb.RenameItemParams{
			NewKey:    p.Key,
			Content:   p.Content,
			Status:    string(p.Status),
			Extra:     extra,
			UpdatedAt: time.Now().UTC(),
			OwnerID:   p.OwnerID,
			Kind:      p.Kind,
			OldKey:    p.OldKey,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s/%s", ErrConflict, p.Kind, p.Key)
			}
			return err
		}
		result = EntryFromRow(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Find returns the item at (owner, kind, key), or nil when absent.
func (r *EntryRepository) Find(ctx context.Context, ownerID, kind, key string) (*entry.Entry, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("entry repository: missing database context")
	}

	row, err := queries.FindItem(ctx, sqldb.FindItemParams{OwnerID: ownerID, Kind: kind, Key: key})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	record := EntryFromRow(row)
	return &record, nil
}

// FindMany looks up a batch of items. Missing pairs are silently omitted.
func (r *EntryRepository) FindMany(ctx context.Context, ownerID string, keys []KindKey) ([]entry.Entry, error) {
	result := make([]entry.Entry, 0, len(keys))
	for _, kk := range keys {
		record, err := r.Find(ctx, ownerID, kk.Kind, kk.Key)
		if err != nil {
			return nil, err
		}
		if record != nil {
			result = append(result, *record)
		}
	}
	return result, nil
}

// Delete hard-deletes an item and reports whether a row was removed.
func (r *EntryRepository) Delete(ctx context.Context, ownerID, kind, key string) (bool, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return false, fmt.Errorf("entry repository: missing database context")
	}

	affected, err := queries.DeleteItem(ctx, sqldb.DeleteItemParams{OwnerID: ownerID, Kind: kind, Key: key})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// List returns items of a kind ordered by updated_at descending, optionally
// filtered by status.
func (r *EntryRepository) List(ctx context.Context, ownerID, kind string, status *entry.Status, limit int) ([]entry.Entry, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("entry repository: missing database context")
	}

	if status != nil {
		rows, err := queries.ListItemsByStatus(ctx, sqldb.ListItemsByStatusParams{
			OwnerID: ownerID,
			Kind:    kind,
			Status:  string(*status),
			Limit:   int64(limit),
		})
		if err != nil {
			return nil, err
		}
		return EntriesFromRows(rows), nil
	}

	rows, err := queries.ListItems(ctx, sqldb.ListItemsParams{OwnerID: ownerID, Kind: kind, Limit: int64(limit)})
	if err != nil {
		return nil, err
	}
	return EntriesFromRows(rows), nil
}

// ListActive loads every active entry for the owner except the reserved
// bookkeeping kind. The overview builder consumes this snapshot.
func (r *EntryRepository) ListActive(ctx context.Context, ownerID string) ([]entry.Entry, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("entry repository: missing database context")
	}

	rows, err := queries.ListActiveEntries(ctx, sqldb.ListActiveEntriesParams{
		OwnerID:      ownerID,
		ExcludedKind: entry.KindIssue,
	})
	if err != nil {
		return nil, err
	}
	return EntriesFromRows(rows), nil
}
