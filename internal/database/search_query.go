package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/membank/membank/internal/entry"
	sqldb "github.com/membank/membank/internal/database/sqlc"
)

// SearchQuery runs full-text search over key+content via the entries_fts
// FTS5 table (porter-stemmed, case-insensitive).
type SearchQuery struct {
	ctx *Context
}

func NewSearchQuery(dbCtx *Context) *SearchQuery {
	return &SearchQuery{ctx: dbCtx}
}

// SearchParams narrows a search. An empty Query degrades to a recency
// listing; Kind and Tag are independent auxiliary filters.
type SearchParams struct {
	OwnerID string
	Query   string
	Kind    string
	Tag     string
	Limit   int
}

// Search returns matching entries (items and events) ordered by text-search
// rank, tie-broken by recency.
func (s *SearchQuery) Search(ctx context.Context, p SearchParams) ([]entry.Entry, error) {
	if s.ctx == nil || s.ctx.DB == nil {
		return nil, fmt.Errorf("search query: missing database context")
	}

	limit := p.Limit
	if limit <= 0 {
		limit = 100
	}

	ftsQuery := sanitizeFTS(p.Query)

	var sb strings.Builder
	var args []any

	if ftsQuery == "" {
		sb.WriteString(`SELECT e.id, e.owner_id, e.kind, e.key, e.content, e.status, e.occurred_at, e.extra, e.created_at, e.updated_at
FROM entries e
WHERE e.owner_id = ?`)
		args = append(args, p.OwnerID)
	} else {
		sb.WriteString(`SELECT e.id, e.owner_id, e.kind, e.key, e.content, e.status, e.occurred_at, e.extra, e.created_at, e.updated_at
FROM entries_fts f
JOIN entries e ON e.rowid = f.rowid
WHERE entries_fts MATCH ? AND e.owner_id = ?`)
		args = append(args, ftsQuery, p.OwnerID)
	}

	if p.Kind != "" {
		sb.WriteString(" AND e.kind = ?")
		args = append(args, p.Kind)
	}
	if p.Tag != "" {
		sb.WriteString(` AND (SELECT count(*) FROM json_each(coalesce(json_extract(e.extra, '$.tags'), '[]')) je WHERE je.value LIKE ?) > 0`)
		args = append(args, "%"+p.Tag+"%")
	}

	if ftsQuery == "" {
		sb.WriteString(" ORDER BY e.updated_at DESC, e.created_at DESC LIMIT ?")
	} else {
		sb.WriteString(" ORDER BY f.rank, e.updated_at DESC, e.created_at DESC LIMIT ?")
	}
	args = append(args, limit)

	rows, err := s.ctx.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
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

// sanitizeFTS wraps each word in quotes for safe FTS5 queries.
// "knee pain" -> `"knee" "pain"`
func sanitizeFTS(query string) string {
	words := strings.Fields(query)
	for i, w := range words {
		w = strings.Trim(w, `"`)
		words[i] = `"` + w + `"`
	}
	return strings.Join(words, " ")
}
