package database

import (
	"context"
	"testing"

	"github.com/membank/membank/internal/entry"
)

func seedSearchEntries(t *testing.T, dbCtx *Context) {
	t.Helper()
	ctx := context.Background()
	entries := NewEntryRepository(dbCtx)
	events := NewEventRepository(dbCtx)

	seeds := []UpsertParams{
		{OwnerID: "default", Kind: "knowledge", Key: "squat-form", Content: "Keep knees tracking over toes when squatting", Status: entry.StatusActive, Extra: map[string]any{"tags": []any{"lifting", "form"}}},
		{OwnerID: "default", Kind: "goal", Key: "run-5k", Content: "Run a 5k without stopping", Status: entry.StatusActive},
		{OwnerID: "other", Kind: "knowledge", Key: "knee-care", Content: "Ice the knee after long runs", Status: entry.StatusActive},
	}
	for _, p := range seeds {
		if _, err := entries.Upsert(ctx, p); err != nil {
			t.Fatalf("seed upsert failed: %v", err)
		}
	}

	if _, err := events.Insert(ctx, "default", "log", "Knee felt sore after running", nil, nil); err != nil {
		t.Fatalf("seed event failed: %v", err)
	}
}

func TestSearchMatchesStemsAndScopesOwner(t *testing.T) {
	dbCtx := setupTestDB(t)
	seedSearchEntries(t, dbCtx)
	search := NewSearchQuery(dbCtx)

	// "running" should stem to match "run", "runs", "Run a 5k".
	results, err := search.Search(context.Background(), SearchParams{OwnerID: "default", Query: "running"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results for default owner, got %d: %+v", len(results), results)
	}
	for _, r := range results {
		if r.OwnerID != "default" {
			t.Fatalf("expected results scoped to default, got %+v", r)
		}
	}
}

func TestSearchKindFilter(t *testing.T) {
	dbCtx := setupTestDB(t)
	seedSearchEntries(t, dbCtx)
	search := NewSearchQuery(dbCtx)

	results, err := search.Search(context.Background(), SearchParams{OwnerID: "default", Query: "running", Kind: "log"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Kind != "log" {
		t.Fatalf("expected one log result, got %+v", results)
	}
}

func TestSearchTagFilter(t *testing.T) {
	dbCtx := setupTestDB(t)
	seedSearchEntries(t, dbCtx)
	search := NewSearchQuery(dbCtx)

	results, err := search.Search(context.Background(), SearchParams{OwnerID: "default", Query: "squat", Tag: "lifting"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].KeyString() != "squat-form" {
		t.Fatalf("expected the tagged knowledge entry, got %+v", results)
	}

	none, err := search.Search(context.Background(), SearchParams{OwnerID: "default", Query: "squat", Tag: "swimming"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no results for unknown tag, got %+v", none)
	}
}

func TestSearchEmptyQueryListsByRecency(t *testing.T) {
	dbCtx := setupTestDB(t)
	seedSearchEntries(t, dbCtx)
	search := NewSearchQuery(dbCtx)

	results, err := search.Search(context.Background(), SearchParams{OwnerID: "default", Query: "", Limit: 2})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected limit to cap results at 2, got %d", len(results))
	}
}

func TestSanitizeFTSQuotesWords(t *testing.T) {
	got := sanitizeFTS(`knee "pain"`)
	want := `"knee" "pain"`
	if got != want {
		t.Fatalf("sanitizeFTS = %q, want %q", got, want)
	}
	if sanitizeFTS("   ") != "" {
		t.Fatalf("expected blank query to sanitize to empty string")
	}
}
