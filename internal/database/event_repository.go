package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/membank/membank/internal/entry"
	sqldb "github.com/membank/membank/internal/database/sqlc"
)

// EventRepository owns the unkeyed, append-only side of the entries table.
type EventRepository struct {
	ctx *Context
}

func NewEventRepository(dbCtx *Context) *EventRepository {
	return &EventRepository{ctx: dbCtx}
}

// Insert appends a new event row. OccurredAt defaults to now when nil.
func (r *EventRepository) Insert(ctx context.Context, ownerID, kind, content string, occurredAt *time.Time, extra map[string]any) (*entry.Entry, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("event repository: missing database context")
	}

	extraJSON, err := marshalExtra(extra)
	if err != nil {
		return nil, fmt.Errorf("event repository: encode extra: %w", err)
	}

	now := time.Now().UTC()
	occurred := now
	if occurredAt != nil {
		occurred = occurredAt.UTC()
	}

	row, err := queries.InsertEvent(ctx, sqldb.InsertEventParams{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Kind:       kind,
		Content:    content,
		Status:     string(entry.StatusActive),
		OccurredAt: sql.NullTime{Time: occurred, Valid: true},
		Extra:      extraJSON,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	record := EntryFromRow(row)
	return &record, nil
}

// FindByID returns the event with the given id, or nil when absent. A
// malformed id reads as not found.
func (r *EventRepository) FindByID(ctx context.Context, ownerID, id string) (*entry.Entry, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("event repository: missing database context")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	row, err := queries.FindEventByID(ctx, sqldb.FindEventByIDParams{OwnerID: ownerID, ID: id})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	record := EntryFromRow(row)
	return &record, nil
}

// EventPatch describes a partial event update. Nil fields are left
// untouched. Extra merges into the stored bag unless ReplaceExtra is set.
type EventPatch struct {
	Content      *string
	OccurredAt   *time.Time
	Extra        map[string]any
	ReplaceExtra bool
}

// Update applies a patch to an existing event inside one transaction and
// returns the updated row, or nil when no matching event exists.
func (r *EventRepository) Update(ctx context.Context, ownerID, id string, patch EventPatch) (*entry.Entry, error) {
	if r.ctx == nil || r.ctx.DB == nil {
		return nil, fmt.Errorf("event repository: missing database context")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	var result *entry.Entry
	err := r.ctx.withTx(ctx, func(q *sqldb.Queries) error {
		row, err := q.FindEventByID(ctx, sqldb.FindEventByIDParams{OwnerID: ownerID, ID: id})
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		current := EntryFromRow(row)

		content := current.Content
		if patch.Content != nil {
			content = *patch.Content
		}

		occurred := nullTime(current.OccurredAt)
		if patch.OccurredAt != nil {
			occurred = sql.NullTime{Time: patch.OccurredAt.UTC(), Valid: true}
		}

		extra := current.Extra
		if patch.Extra != nil {
			if patch.ReplaceExtra {
				extra = patch.Extra
			} else {
				merged := make(map[string]any, len(current.Extra)+len(patch.Extra))
				for k, v := range current.Extra {
					merged[k] = v
				}
				for k, v := range patch.Extra {
					merged[k] = v
				}
				extra = merged
			}
		}

		extraJSON, err := marshalExtra(extra)
		if err != nil {
			return fmt.Errorf("event repository: encode extra: %w", err)
		}

		updated, err := q.UpdateEvent(ctx, sqldb.UpdateEventParams{
			Content:    content,
			OccurredAt: occurred,
			Extra:      extraJSON,
			UpdatedAt:  time.Now().UTC(),
			OwnerID:    ownerID,
			ID:         id,
		})
		if err != nil {
			return err
		}

		record := EntryFromRow(updated)
		result = &record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes an event and reports whether a row was removed. A
// malformed id reads as not found.
func (r *EventRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return false, fmt.Errorf("event repository: missing database context")
	}
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	affected, err := queries.DeleteEvent(ctx, sqldb.DeleteEventParams{OwnerID: ownerID, ID: id})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListFilter narrows an event listing. Zero values mean no filter.
type ListFilter struct {
	Kind  string
	Start *time.Time
	End   *time.Time
	Limit int
}

// List returns events ordered by occurred_at descending, falling back to
// created_at for rows without an occurrence time. The query is assembled
// dynamically because every filter is optional.
func (r *EventRepository) List(ctx context.Context, ownerID string, filter ListFilter) ([]entry.Entry, error) {
	if r.ctx == nil || r.ctx.DB == nil {
		return nil, fmt.Errorf("event repository: missing database context")
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, owner_id, kind, key, content, status, occurred_at, extra, created_at, updated_at
FROM entries
WHERE owner_id = ? AND key IS NULL`)
	args := []any{ownerID}

	if filter.Kind != "" {
		sb.WriteString(" AND kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.Start != nil {
		sb.WriteString(" AND coalesce(occurred_at, created_at) >= ?")
		args = append(args, filter.Start.UTC())
	}
	if filter.End != nil {
		sb.WriteString(" AND coalesce(occurred_at, created_at) <= ?")
		args = append(args, filter.End.UTC())
	}

	sb.WriteString(" ORDER BY coalesce(occurred_at, created_at) DESC LIMIT ?")
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	rows, err := r.ctx.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []entry.Entry
	for rows.Next() {
		var row sqldb.Entry
		if err := rows.Scan(&row.ID, &row.OwnerID, &row.Kind, &row.Key, &row.Content, &row.Status, &row.OccurredAt, &row.Extra, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, EntryFromRow(row))
	}
	return result, rows.Err()
}
