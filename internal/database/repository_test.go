package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/membank/membank/internal/entry"
)

func TestUpsertKeepsIdentityOnRepeat(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupTestDB(t)
	repo := NewEntryRepository(dbCtx)

	first, err := repo.Upsert(ctx, UpsertParams{
		OwnerID: "default",
		Kind:    "goal",
		Key:     "bench-225",
		Content: "Bench press 225 lbs",
		Status:  entry.StatusActive,
	})
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	second, err := repo.Upsert(ctx, UpsertParams{
		OwnerID: "default",
		Kind:    "goal",
		Key:     "bench-225",
		Content: "Bench press 225 lbs with pause",
		Status:  entry.StatusActive,
		Extra:   map[string]any{"priority": 1},
	})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected id %s to survive upsert, got %s", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected created_at to survive upsert")
	}
	if second.Content != "Bench press 225 lbs with pause" {
		t.Fatalf("expected content to be replaced, got %q", second.Content)
	}

	assertCount(t, dbCtx.DB, 1)
}

func TestUpsertScopedPerOwnerAndKind(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupTestDB(t)
	repo := NewEntryRepository(dbCtx)

	params := UpsertParams{Kind: "goal", Key: "bench-225", Content: "a", Status: entry.StatusActive}

	params.OwnerID = "alice"
	if _, err := repo.Upsert(ctx, params); err != nil {
		t.Fatalf("upsert for alice failed: %v", err)
	}
	params.OwnerID = "bob"
	if _, err := repo.Upsert(ctx, params); err != nil {
		t.Fatalf("upsert for bob failed: %v", err)
	}
	params.OwnerID = "alice"
	params.Kind = "plan"
	if _, err := repo.Upsert(ctx, params); err != nil {
		t.Fatalf("upsert for other kind failed: %v", err)
	}

	assertCount(t, dbCtx.DB, 3)

	got, err := repo.Find(ctx, "bob", "goal", "bench-225")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if got == nil || got.OwnerID != "bob" {
		t.Fatalf("expected bob's row, got %+v", got)
	}
}

func TestRenamePreservesIdentity(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupTestDB(t)
	repo := NewEntryRepository(dbCtx)

	original, err := repo.Upsert(ctx, UpsertParams{
		OwnerID: "default",
		Kind:    "plan",
		Key:     "2025-10-19",
		Content: "Week plan",
		Status:  entry.StatusActive,
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	renamed, err := repo.Rename(ctx, RenameParams{
		OwnerID: "default",
		Kind:    "plan",
		OldKey:  "2025-10-19",
		Key:     "2025-10-26",
		Content: "Week plan, shifted",
		Status:  entry.StatusActive,
	})
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}

	if renamed.ID != original.ID {
		t.Fatalf("expected rename to preserve id")
	}
	if renamed.KeyString() != "2025-10-26" {
		t.Fatalf("expected new key, got %q", renamed.KeyString())
	}

	old, err := repo.Find(ctx, "default", "plan", "2025-10-19")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if old != nil {
		t.Fatalf("expected old key to be gone, got %+v", old)
	}
}

func TestRenameConflictLeavesRowsUntouched(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupTestDB(t)
	repo := NewEntryRepository(dbCtx)

	if _, err := repo.Upsert(ctx, UpsertParams{OwnerID: "default", Kind: "plan", Key: "a", Content: "plan a", Status: entry.StatusActive}); err != nil {
		t.Fatalf("upsert a failed: %v", err)
	}
	if _, err := repo.Upsert(ctx, UpsertParams{OwnerID: "default", Kind: "plan", Key: "b", Content: "plan b", Status: entry.StatusActive}); err != nil {
		t.Fatalf("upsert b failed: %v", err)
	}

	_, err := repo.Rename(ctx, RenameParams{OwnerID: "default", Kind: "plan", OldKey: "a", Key: "b", Content: "moved", Status: entry.StatusActive})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	a, _ := repo.Find(ctx, "default", "plan", "a")
	b, _ := repo.Find(ctx, "default", "plan", "b")
	if a == nil || a.Content != "plan a" {
		t.Fatalf("expected source row unchanged, got %+v", a)
	}
	if b == nil || b.Content != "plan b" {
		t.Fatalf("expected target row unchanged, got %+v", b)
	}
}

func TestRenameMissingSourceFallsBackToUpsert(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupTestDB(t)
	repo := NewEntryRepository(dbCtx)

	record, err := repo.Rename(ctx, RenameParams{
		OwnerID: "default",
		Kind:    "plan",
		OldKey:  "never-existed",
		Key:     "fresh",
		Content: "fresh plan",
		Status:  entry.StatusActive,
	})
	if err != nil {
		t.Fatalf("rename fallback failed: %v", err)
	}
	if record.KeyString() != "fresh" {
		t.Fatalf("expected fresh key, got %q", record.KeyString())
	}
	assertCount(t, dbCtx.DB, 1)
}

func TestFindManyOmitsMissing(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupTestDB(t)
	repo := NewEntryRepository(dbCtx)

	if _, err := repo.Upsert(ctx, UpsertParams{OwnerID: "default", Kind: "goal", Key: "a", Content: "a", Status: entry.StatusActive}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	got, err := repo.FindMany(ctx, "default", []KindKey{
		{Kind: "goal", Key: "a"},
		{Kind: "goal", Key: "missing"},
	})
	if err != nil {
		t.Fatalf("FindMany failed: %v", err)
	}
	if len(got) != 1 || got[0].KeyString() != "a" {
		t.Fatalf("expected one hit for key a, got %+v", got)
	}
}

func TestDeleteReportsWhetherRowExisted(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupTestDB(t)
	repo := NewEntryRepository(dbCtx)

	if _, err := repo.Upsert(ctx, UpsertParams{OwnerID: "default", Kind: "goal", Key: "a", Content: "a", Status: entry.StatusActive}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	deleted, err := repo.Delete(ctx, "default", "goal", "a")
	if err != nil || !deleted {
		t.Fatalf("expected delete to remove row: %v deleted=%v", err, deleted)
	}

	deleted, err = repo.Delete(ctx, "default", "goal", "a")
	if err != nil || deleted {
		t.Fatalf("expected second delete to be a no-op: %v deleted=%v", err, deleted)
	}
}

func TestEventInsertIsAppendOnly(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupTestDB(t)
	repo := NewEventRepository(dbCtx)

	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		record, err := repo.Insert(ctx, "default", "log", "Squats 5x5", nil, nil)
		if err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
		if record.Key != nil {
			t.Fatalf("expected events to have no key, got %q", *record.Key)
		}
		if record.OccurredAt == nil {
			t.Fatalf("expected occurred_at to default to now")
		}
		ids[record.ID] = true
	}

	if len(ids) != 3 {
		t.Fatalf("expected 3 distinct event ids, got %d", len(ids))
	}
	assertCount(t, dbCtx.DB, 3)
}

func TestEventUpdateMergesExtra(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupTestDB(t)
	repo := NewEventRepository(dbCtx)

	record, err := repo.Insert(ctx, "default", "metric", "weight 180", nil, map[string]any{"x": "1"})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	updated, err := repo.Update(ctx, "default", record.ID, EventPatch{Extra: map[string]any{"y": "2"}})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated == nil {
		t.Fatalf("expected updated event")
	}
	if updated.Extra["x"] != "1" || updated.Extra["y"] != "2" {
		t.Fatalf("expected merged extra, got %+v", updated.Extra)
	}

	replaced, err := repo.Update(ctx, "default", record.ID, EventPatch{Extra: map[string]any{"z": "3"}, ReplaceExtra: true})
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if _, ok := replaced.Extra["x"]; ok {
		t.Fatalf("expected replace to drop old keys, got %+v", replaced.Extra)
	}
	if replaced.Extra["z"] != "3" {
		t.Fatalf("expected replaced extra, got %+v", replaced.Extra)
	}
}

func TestEventUpdateMissingOrMalformedID(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupTestDB(t)
	repo := NewEventRepository(dbCtx)

	content := "corrected"
	record, err := repo.Update(ctx, "default", "not-a-uuid", EventPatch{Content: &content})
	if err != nil {
		t.Fatalf("expected malformed id to read as not found, got error: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil for malformed id, got %+v", record)
	}

	record, err = repo.Update(ctx, "default", "0e8dd2a2-94a7-4b39-b44c-0b5241581f2f", EventPatch{Content: &content})
	if err != nil {
		t.Fatalf("expected missing id to read as not found, got error: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil for missing id, got %+v", record)
	}
}

func TestListEventsOrderedByOccurrence(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupTestDB(t)
	repo := NewEventRepository(dbCtx)

	t1 := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 10, 5, 8, 0, 0, 0, time.UTC)

	if _, err := repo.Insert(ctx, "default", "log", "older", &t1, nil); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := repo.Insert(ctx, "default", "log", "newer", &t2, nil); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	events, err := repo.List(ctx, "default", ListFilter{Kind: "log"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Content != "newer" {
		t.Fatalf("expected newest event first, got %q", events[0].Content)
	}

	ranged, err := repo.List(ctx, "default", ListFilter{Kind: "log", Start: &t2})
	if err != nil {
		t.Fatalf("ranged List failed: %v", err)
	}
	if len(ranged) != 1 || ranged[0].Content != "newer" {
		t.Fatalf("expected range filter to keep only the newer event, got %+v", ranged)
	}
}

func TestListActiveExcludesArchivedAndReservedKind(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupTestDB(t)
	repo := NewEntryRepository(dbCtx)

	if _, err := repo.Upsert(ctx, UpsertParams{OwnerID: "default", Kind: "goal", Key: "a", Content: "a", Status: entry.StatusActive}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if _, err := repo.Upsert(ctx, UpsertParams{OwnerID: "default", Kind: "goal", Key: "b", Content: "b", Status: entry.StatusArchived}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if _, err := repo.Upsert(ctx, UpsertParams{OwnerID: "default", Kind: entry.KindIssue, Key: "tracker", Content: "x", Status: entry.StatusActive}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if _, err := repo.Upsert(ctx, UpsertParams{OwnerID: "other", Kind: "goal", Key: "c", Content: "c", Status: entry.StatusActive}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	active, err := repo.ListActive(ctx, "default")
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(active) != 1 || active[0].KeyString() != "a" {
		t.Fatalf("expected only the active goal, got %+v", active)
	}
}
