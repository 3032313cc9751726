package sqldb

import (
	"context"
	"database/sql"
	"time"
)

const entryColumns = `id, owner_id, kind, key, content, status, occurred_at, extra, created_at, updated_at`

func scanEntry(row *sql.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.OwnerID, &e.Kind, &e.Key, &e.Content, &e.Status, &e.OccurredAt, &e.Extra, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer func() {
		_ = rows.Close()
	}()

	var result []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Kind, &e.Key, &e.Content, &e.Status, &e.OccurredAt, &e.Extra, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

const upsertEntry = `INSERT INTO entries (` + entryColumns + `)
VALUES (?, ?, ?, ?, ?, ?, NULL, ?, ?, ?)
ON CONFLICT(owner_id, kind, key) WHERE key IS NOT NULL DO UPDATE SET
    content = excluded.content,
    status = excluded.status,
    extra = excluded.extra,
    updated_at = excluded.updated_at
RETURNING ` + entryColumns

type UpsertEntryParams struct {
	ID        string
	OwnerID   string
	Kind      string
	Key       sql.NullString
	Content   string
	Status    string
	Extra     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpsertEntry inserts a keyed item or replaces the one already holding the
// (owner_id, kind, key) identity. Insert-or-update resolves inside the
// engine, so concurrent calls for the same key serialize without lost
// updates.
func (q *Queries) UpsertEntry(ctx context.Context, arg UpsertEntryParams) (Entry, error) {
	row := q.db.QueryRowContext(ctx, upsertEntry,
		arg.ID, arg.OwnerID, arg.Kind, arg.Key, arg.Content, arg.Status, arg.Extra, arg.CreatedAt, arg.UpdatedAt)
	return scanEntry(row)
}

const findItem = `SELECT ` + entryColumns + `
FROM entries
WHERE owner_id = ? AND kind = ? AND key = ?`

type FindItemParams struct {
	OwnerID string
	Kind    string
	Key     string
}

func (q *Queries) FindItem(ctx context.Context, arg FindItemParams) (Entry, error) {
	row := q.db.QueryRowContext(ctx, findItem, arg.OwnerID, arg.Kind, arg.Key)
	return scanEntry(row)
}

const renameItem = `UPDATE entries SET
    key = ?,
    content = ?,
    status = ?,
    extra = ?,
    updated_at = ?
WHERE owner_id = ? AND kind = ? AND key = ?
RETURNING ` + entryColumns

type RenameItemParams struct {
	NewKey    string
	Content   string
	Status    string
	Extra     string
	UpdatedAt time.Time
	OwnerID   string
	Kind      string
	OldKey    string
}

func (q *Queries) RenameItem(ctx context.Context, arg RenameItemParams) (Entry, error) {
	row := q.db.QueryRowContext(ctx, renameItem,
		arg.NewKey, arg.Content, arg.Status, arg.Extra, arg.UpdatedAt, arg.OwnerID, arg.Kind, arg.OldKey)
	return scanEntry(row)
}

const deleteItem = `DELETE FROM entries
WHERE owner_id = ? AND kind = ? AND key = ?`

type DeleteItemParams struct {
	OwnerID string
	Kind    string
	Key     string
}

func (q *Queries) DeleteItem(ctx context.Context, arg DeleteItemParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteItem, arg.OwnerID, arg.Kind, arg.Key)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listItems = `SELECT ` + entryColumns + `
FROM entries
WHERE owner_id = ? AND kind = ? AND key IS NOT NULL
ORDER BY updated_at DESC, created_at DESC
LIMIT ?`

type ListItemsParams struct {
	OwnerID string
	Kind    string
	Limit   int64
}

func (q *Queries) ListItems(ctx context.Context, arg ListItemsParams) ([]Entry, error) {
	rows, err := q.db.QueryContext(ctx, listItems, arg.OwnerID, arg.Kind, arg.Limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

const listItemsByStatus = `SELECT ` + entryColumns + `
FROM entries
WHERE owner_id = ? AND kind = ? AND key IS NOT NULL AND status = ?
ORDER BY updated_at DESC, created_at DESC
LIMIT ?`

type ListItemsByStatusParams struct {
	OwnerID string
	Kind    string
	Status  string
	Limit   int64
}

func (q *Queries) ListItemsByStatus(ctx context.Context, arg ListItemsByStatusParams) ([]Entry, error) {
	rows, err := q.db.QueryContext(ctx, listItemsByStatus, arg.OwnerID, arg.Kind, arg.Status, arg.Limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

const insertEvent = `INSERT INTO entries (` + entryColumns + `)
VALUES (?, ?, ?, NULL, ?, ?, ?, ?, ?, ?)
RETURNING ` + entryColumns

type InsertEventParams struct {
	ID         string
	OwnerID    string
	Kind       string
	Content    string
	Status     string
	OccurredAt sql.NullTime
	Extra      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Queries) InsertEvent(ctx context.Context, arg InsertEventParams) (Entry, error) {
	row := q.db.QueryRowContext(ctx, insertEvent,
		arg.ID, arg.OwnerID, arg.Kind, arg.Content, arg.Status, arg.OccurredAt, arg.Extra, arg.CreatedAt, arg.UpdatedAt)
	return scanEntry(row)
}

const findEventByID = `SELECT ` + entryColumns + `
FROM entries
WHERE owner_id = ? AND id = ? AND key IS NULL`

type FindEventByIDParams struct {
	OwnerID string
	ID      string
}

func (q *Queries) FindEventByID(ctx context.Context, arg FindEventByIDParams) (Entry, error) {
	row := q.db.QueryRowContext(ctx, findEventByID, arg.OwnerID, arg.ID)
	return scanEntry(row)
}

const updateEvent = `UPDATE entries SET
    content = ?,
    occurred_at = ?,
    extra = ?,
    updated_at = ?
WHERE owner_id = ? AND id = ? AND key IS NULL
RETURNING ` + entryColumns

type UpdateEventParams struct {
	Content    string
	OccurredAt sql.NullTime
	Extra      string
	UpdatedAt  time.Time
	OwnerID    string
	ID         string
}

func (q *Queries) UpdateEvent(ctx context.Context, arg UpdateEventParams) (Entry, error) {
	row := q.db.QueryRowContext(ctx, updateEvent,
		arg.Content, arg.OccurredAt, arg.Extra, arg.UpdatedAt, arg.OwnerID, arg.ID)
	return scanEntry(row)
}

const deleteEvent = `DELETE FROM entries
WHERE owner_id = ? AND id = ? AND key IS NULL`

type DeleteEventParams struct {
	OwnerID string
	ID      string
}

func (q *Queries) DeleteEvent(ctx context.Context, arg DeleteEventParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteEvent, arg.OwnerID, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listActiveEntries = `SELECT ` + entryColumns + `
FROM entries
WHERE owner_id = ? AND status = 'active' AND kind != ?
ORDER BY updated_at DESC, created_at DESC`

type ListActiveEntriesParams struct {
	OwnerID      string
	ExcludedKind string
}

// ListActiveEntries loads the overview working set: everything active for
// the owner except the reserved bookkeeping kind.
func (q *Queries) ListActiveEntries(ctx context.Context, arg ListActiveEntriesParams) ([]Entry, error) {
	rows, err := q.db.QueryContext(ctx, listActiveEntries, arg.OwnerID, arg.ExcludedKind)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

const deleteAllEntries = `DELETE FROM entries`

func (q *Queries) DeleteAllEntries(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllEntries)
	return err
}
