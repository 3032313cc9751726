package sqldb

import (
	"database/sql"
	"time"
)

// Entry mirrors a row of the entries table.
type Entry struct {
	ID         string
	OwnerID    string
	Kind       string
	Key        sql.NullString
	Content    string
	Status     string
	OccurredAt sql.NullTime
	Extra      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
