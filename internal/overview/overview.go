// Package overview builds the condensed, context-filtered snapshot of an
// owner's active entries.
package overview

import (
	"context"
	"sort"
	"time"

	"github.com/membank/membank/internal/entry"
)

// Loader supplies the overview working set. Implemented by the entry
// service.
type Loader interface {
	ActiveEntries(ctx context.Context, ownerID string) ([]entry.Entry, error)
}

// Builder shapes active entries into a Document.
type Builder struct {
	loader Loader
}

func NewBuilder(loader Loader) *Builder {
	return &Builder{loader: loader}
}

// Options control context filtering and truncation. A zero Now means the
// current time.
type Options struct {
	Context       string
	TruncateWords int
	Now           time.Time
}

// Item is one entry's overview representation. Temporal fields appear only
// on plans that carry parsable scheduling attributes.
type Item struct {
	Key        string    `json:"key,omitempty"`
	ID         string    `json:"id,omitempty"`
	Content    string    `json:"content"`
	UpdatedAt  string    `json:"updated_at,omitempty"`
	OccurredAt string    `json:"occurred_at,omitempty"`
	Temporal   *Temporal `json:"temporal,omitempty"`
}

// Document is the sparse overview result: sections exist only when
// non-empty.
type Document struct {
	CurrentDate   string            `json:"current_date"`
	CurrentDay    string            `json:"current_day"`
	Goals         map[string][]Item `json:"goals,omitempty"`
	Program       []Item            `json:"program,omitempty"`
	Week          []Item            `json:"week,omitempty"`
	RecentPlans   []Item            `json:"recent_plans,omitempty"`
	Knowledge     []Item            `json:"knowledge,omitempty"`
	Principles    []Item            `json:"principles,omitempty"`
	Preferences   []Item            `json:"preferences,omitempty"`
	CurrentState  []Item            `json:"current_state,omitempty"`
	RecentLogs    []Item            `json:"recent_logs,omitempty"`
	RecentMetrics []Item            `json:"recent_metrics,omitempty"`
	RecentNotes   []Item            `json:"recent_notes,omitempty"`
}

// IsEmpty reports whether the document has no populated sections.
func (d *Document) IsEmpty() bool {
	return len(d.Goals) == 0 &&
		len(d.Program) == 0 &&
		len(d.Week) == 0 &&
		len(d.RecentPlans) == 0 &&
		len(d.Knowledge) == 0 &&
		len(d.Principles) == 0 &&
		len(d.Preferences) == 0 &&
		len(d.CurrentState) == 0 &&
		len(d.RecentLogs) == 0 &&
		len(d.RecentMetrics) == 0 &&
		len(d.RecentNotes) == 0
}

// profile is a named context filter: which kinds appear and how many rows
// the capped sections keep.
type profile struct {
	kinds       map[string]bool // nil means every kind
	planLimit   int
	logLimit    int
	metricLimit int
	noteLimit   int
}

func profileFor(name string) profile {
	p := profile{planLimit: 5, logLimit: 10, metricLimit: 10, noteLimit: 5}

	switch name {
	case "planning":
		p.kinds = kindSet(entry.KindGoal, entry.KindProgram, entry.KindWeek, entry.KindPlan,
			entry.KindPreference, entry.KindKnowledge, entry.KindPrinciple, entry.KindCurrent, entry.KindLog)
	case "upcoming":
		p.kinds = kindSet(entry.KindGoal, entry.KindWeek, entry.KindPlan, entry.KindLog)
		p.logLimit = 7
	case "knowledge":
		p.kinds = kindSet(entry.KindGoal, entry.KindProgram, entry.KindPreference,
			entry.KindKnowledge, entry.KindPrinciple)
	case "history":
		p.kinds = kindSet(entry.KindGoal, entry.KindLog, entry.KindMetric)
		p.logLimit = 500
		p.metricLimit = 500
	}
	// Unknown names behave as "no filter".

	return p
}

func kindSet(kinds ...string) map[string]bool {
	set := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

func (p profile) includes(kind string) bool {
	if p.kinds == nil {
		return true
	}
	return p.kinds[kind]
}

// Build loads the owner's active entries and produces the overview
// document.
func (b *Builder) Build(ctx context.Context, ownerID string, opts Options) (*Document, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	budget := opts.TruncateWords
	if budget <= 0 {
		budget = DefaultTruncateWords
	}

	entries, err := b.loader.ActiveEntries(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	prof := profileFor(opts.Context)

	byKind := make(map[string][]entry.Entry)
	for _, e := range entries {
		if !prof.includes(e.Kind) {
			continue
		}
		byKind[e.Kind] = append(byKind[e.Kind], e)
	}

	doc := &Document{
		CurrentDate: now.Format("2006-01-02"),
		CurrentDay:  now.Format("Monday"),
	}

	doc.Goals = buildGoals(byKind[entry.KindGoal])
	doc.Program = buildFull(byKind[entry.KindProgram])
	doc.Week = buildFull(byKind[entry.KindWeek])
	doc.RecentPlans = buildPlans(byKind[entry.KindPlan], prof.planLimit, now)
	doc.Knowledge = buildTruncated(byKind[entry.KindKnowledge], budget)
	doc.Principles = buildTruncated(byKind[entry.KindPrinciple], budget)
	doc.Preferences = buildTruncated(byKind[entry.KindPreference], budget)
	doc.CurrentState = buildFull(byKind[entry.KindCurrent])
	doc.RecentLogs = buildEvents(byKind[entry.KindLog], prof.logLimit, budget)
	doc.RecentMetrics = buildEvents(byKind[entry.KindMetric], prof.metricLimit, 0)
	doc.RecentNotes = buildEvents(byKind[entry.KindNote], prof.noteLimit, budget)

	return doc, nil
}

// buildGoals groups goals into progress buckets, each sorted by priority
// rank then recency. Goal content is never truncated.
func buildGoals(goals []entry.Entry) map[string][]Item {
	if len(goals) == 0 {
		return nil
	}

	buckets := make(map[string][]entry.Entry)
	for _, g := range goals {
		buckets[goalBucket(g)] = append(buckets[goalBucket(g)], g)
	}

	result := make(map[string][]Item, len(buckets))
	for bucket, members := range buckets {
		sort.SliceStable(members, func(i, j int) bool {
			ri, rj := entry.PriorityRank(members[i]), entry.PriorityRank(members[j])
			if ri != rj {
				return ri < rj
			}
			return members[i].UpdatedAt.After(members[j].UpdatedAt)
		})
		items := make([]Item, 0, len(members))
		for _, g := range members {
			items = append(items, itemFromEntry(g, 0))
		}
		result[bucket] = items
	}
	return result
}

// goalBucket normalizes a goal's progress bucket read from extra.status:
// completed folds into achieved, and anything outside the known buckets
// falls back to active.
func goalBucket(g entry.Entry) string {
	raw, _ := entry.ExtraString(g.Extra, entry.AttrStatus)
	switch raw {
	case "completed", "achieved":
		return "achieved"
	case "paused":
		return "paused"
	case "active":
		return "active"
	default:
		return "active"
	}
}

// buildPlans keeps the most-recent N plans by key-lexical-descending order
// (keys embed a sortable date) and merges temporal fields where computable.
func buildPlans(plans []entry.Entry, limit int, now time.Time) []Item {
	if len(plans) == 0 {
		return nil
	}

	sorted := make([]entry.Entry, len(plans))
	copy(sorted, plans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].KeyString() > sorted[j].KeyString()
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	items := make([]Item, 0, len(sorted))
	for _, p := range sorted {
		item := itemFromEntry(p, 0)
		if t, ok := ComputeTemporal(p, now); ok {
			temporal := t
			item.Temporal = &temporal
		}
		items = append(items, item)
	}
	return items
}

// buildFull maps low-cardinality kinds unchanged, keeping recency order.
func buildFull(entries []entry.Entry) []Item {
	if len(entries) == 0 {
		return nil
	}
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, itemFromEntry(e, 0))
	}
	return items
}

func buildTruncated(entries []entry.Entry, budget int) []Item {
	if len(entries) == 0 {
		return nil
	}
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, itemFromEntry(e, budget))
	}
	return items
}

// buildEvents keeps the most-recent limit events by occurrence time,
// falling back to creation time when the occurrence is unset.
func buildEvents(events []entry.Entry, limit, budget int) []Item {
	if len(events) == 0 {
		return nil
	}

	sorted := make([]entry.Entry, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return eventTime(sorted[i]).After(eventTime(sorted[j]))
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	items := make([]Item, 0, len(sorted))
	for _, e := range sorted {
		items = append(items, itemFromEntry(e, budget))
	}
	return items
}

func eventTime(e entry.Entry) time.Time {
	if e.OccurredAt != nil {
		return *e.OccurredAt
	}
	return e.CreatedAt
}

func itemFromEntry(e entry.Entry, budget int) Item {
	item := Item{
		Content: Truncate(e.Content, budget),
	}
	if e.Key != nil {
		item.Key = *e.Key
		item.UpdatedAt = e.UpdatedAt.Format(time.RFC3339)
	} else {
		item.ID = e.ID
		if e.OccurredAt != nil {
			item.OccurredAt = e.OccurredAt.Format(time.RFC3339)
		}
	}
	return item
}
