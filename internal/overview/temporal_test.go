package overview

import (
	"testing"
	"time"

	"github.com/membank/membank/internal/entry"
)

func planEntry(extra map[string]any) entry.Entry {
	key := "2025-10-01"
	return entry.Entry{
		ID:      "id",
		OwnerID: "default",
		Kind:    entry.KindPlan,
		Key:     &key,
		Content: "Plan",
		Status:  entry.StatusActive,
		Extra:   extra,
	}
}

func TestComputeTemporalWeekBoundaries(t *testing.T) {
	start := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	extra := map[string]any{
		entry.AttrStartDate:     "2025-10-01",
		entry.AttrDurationWeeks: 8,
	}

	tests := []struct {
		days     int
		wantWeek int
	}{
		{0, 1},
		{6, 1},
		{7, 2},
		{13, 2},
		{14, 3},
	}

	for _, tt := range tests {
		today := start.AddDate(0, 0, tt.days)
		temporal, ok := ComputeTemporal(planEntry(extra), today)
		if !ok {
			t.Fatalf("day %d: expected temporal fields", tt.days)
		}
		if temporal.CurrentWeek != tt.wantWeek {
			t.Errorf("day %d: current_week = %d, want %d", tt.days, temporal.CurrentWeek, tt.wantWeek)
		}
		if temporal.DaysElapsed != tt.days {
			t.Errorf("day %d: days_elapsed = %d, want %d", tt.days, temporal.DaysElapsed, tt.days)
		}
	}
}

func TestComputeTemporalMidway(t *testing.T) {
	extra := map[string]any{
		entry.AttrStartDate:     "2025-10-01",
		entry.AttrDurationWeeks: 8,
	}
	// Day 28 is the start of week 5 of 8.
	today := time.Date(2025, 10, 29, 15, 30, 0, 0, time.UTC)

	temporal, ok := ComputeTemporal(planEntry(extra), today)
	if !ok {
		t.Fatalf("expected temporal fields")
	}
	if temporal.CurrentWeek != 5 {
		t.Errorf("current_week = %d, want 5", temporal.CurrentWeek)
	}
	if temporal.WeeksRemaining != 4 {
		t.Errorf("weeks_remaining = %d, want 4", temporal.WeeksRemaining)
	}
	if temporal.ProgressPct != 62 {
		t.Errorf("progress_pct = %d, want 62", temporal.ProgressPct)
	}
	if temporal.Status != "active" {
		t.Errorf("status = %q, want active", temporal.Status)
	}
}

func TestComputeTemporalPending(t *testing.T) {
	extra := map[string]any{
		entry.AttrStartDate:     "2025-12-01",
		entry.AttrDurationWeeks: 4,
	}
	today := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)

	temporal, ok := ComputeTemporal(planEntry(extra), today)
	if !ok {
		t.Fatalf("expected temporal fields")
	}
	if temporal.Status != "pending" {
		t.Errorf("status = %q, want pending", temporal.Status)
	}
	if temporal.CurrentWeek != 0 {
		t.Errorf("current_week = %d, want 0", temporal.CurrentWeek)
	}
	if temporal.ProgressPct != 0 {
		t.Errorf("progress_pct = %d, want 0", temporal.ProgressPct)
	}
	if temporal.DaysElapsed >= 0 {
		t.Errorf("days_elapsed = %d, want negative", temporal.DaysElapsed)
	}
}

func TestComputeTemporalCompleted(t *testing.T) {
	extra := map[string]any{
		entry.AttrStartDate:     "2025-01-01",
		entry.AttrDurationWeeks: 4,
	}
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	temporal, ok := ComputeTemporal(planEntry(extra), today)
	if !ok {
		t.Fatalf("expected temporal fields")
	}
	if temporal.Status != "completed" {
		t.Errorf("status = %q, want completed", temporal.Status)
	}
	if temporal.WeeksRemaining != 0 {
		t.Errorf("weeks_remaining = %d, want 0", temporal.WeeksRemaining)
	}
	if temporal.ProgressPct != 100 {
		t.Errorf("progress_pct = %d, want 100", temporal.ProgressPct)
	}
}

func TestComputeTemporalMissingOrInvalidAttrs(t *testing.T) {
	today := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	cases := map[string]map[string]any{
		"no attrs":          nil,
		"missing start":     {entry.AttrDurationWeeks: 8},
		"missing duration":  {entry.AttrStartDate: "2025-10-01"},
		"bad date":          {entry.AttrStartDate: "not-a-date", entry.AttrDurationWeeks: 8},
		"zero duration":     {entry.AttrStartDate: "2025-10-01", entry.AttrDurationWeeks: 0},
		"negative duration": {entry.AttrStartDate: "2025-10-01", entry.AttrDurationWeeks: -2},
	}

	for name, extra := range cases {
		if _, ok := ComputeTemporal(planEntry(extra), today); ok {
			t.Errorf("%s: expected no temporal fields", name)
		}
	}
}
