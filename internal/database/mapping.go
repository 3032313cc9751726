package database

import (
	"encoding/json"

	"github.com/membank/membank/internal/entry"
	sqldb "github.com/membank/membank/internal/database/sqlc"
)

// EntryFromRow converts a database row to a domain entry. A malformed extra
// column degrades to an empty bag rather than failing the read.
func EntryFromRow(row sqldb.Entry) entry.Entry {
	extra := map[string]any{}
	if row.Extra != "" {
		if err := json.Unmarshal([]byte(row.Extra), &extra); err != nil {
			extra = map[string]any{}
		}
	}

	return entry.Entry{
		ID:         row.ID,
		OwnerID:    row.OwnerID,
		Kind:       row.Kind,
		Key:        optionalString(row.Key),
		Content:    row.Content,
		Status:     entry.Status(row.Status),
		OccurredAt: optionalTime(row.OccurredAt),
		Extra:      extra,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

// EntriesFromRows converts a slice of rows.
func EntriesFromRows(rows []sqldb.Entry) []entry.Entry {
	result := make([]entry.Entry, 0, len(rows))
	for _, row := range rows {
		result = append(result, EntryFromRow(row))
	}
	return result
}

// marshalExtra serializes an attribute bag for storage. A nil bag stores as
// the empty object.
func marshalExtra(extra map[string]any) (string, error) {
	if len(extra) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(extra)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
