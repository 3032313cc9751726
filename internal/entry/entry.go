// Package entry defines the domain model shared by the repository, the
// query engine, and the overview builder.
package entry

import (
	"strings"
	"time"
)

// Status is the stored lifecycle state of an entry. Exactly two values are
// ever persisted.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Well-known kinds. The store does not enforce an enum; these are the names
// the overview builder and the tool layer recognize.
const (
	KindGoal       = "goal"
	KindProgram    = "program"
	KindWeek       = "week"
	KindPlan       = "plan"
	KindKnowledge  = "knowledge"
	KindPrinciple  = "principle"
	KindPreference = "preference"
	KindCurrent    = "current"
	KindLog        = "log"
	KindMetric     = "metric"
	KindNote       = "note"

	// KindIssue is reserved for internal bookkeeping and never appears in
	// overviews.
	KindIssue = "issue"
)

// Entry is the single entity type: an item when Key is set, an event when it
// is not.
type Entry struct {
	ID         string         `json:"id"`
	OwnerID    string         `json:"owner_id"`
	Kind       string         `json:"kind"`
	Key        *string        `json:"key,omitempty"`
	Content    string         `json:"content"`
	Status     Status         `json:"status"`
	OccurredAt *time.Time     `json:"occurred_at,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// IsEvent reports whether the entry is an unkeyed, append-only event.
func (e Entry) IsEvent() bool {
	return e.Key == nil
}

// KeyString returns the key or the empty string for events.
func (e Entry) KeyString() string {
	if e.Key == nil {
		return ""
	}
	return *e.Key
}

// NormalizeStatus coerces arbitrary caller input to one of the two stored
// statuses. Deletion and inactivity synonyms map to archived; everything
// else, including the empty string, maps to active.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "archived", "deleted", "inactive", "removed":
		return StatusArchived
	default:
		return StatusActive
	}
}

// IsEventKind reports whether a kind names timestamped events rather than
// keyed items. Used by the tool layer to route listing requests.
func IsEventKind(kind string) bool {
	switch kind {
	case KindLog, KindMetric, KindNote:
		return true
	default:
		return false
	}
}
