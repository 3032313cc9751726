package overview

import (
	"time"

	"github.com/membank/membank/internal/entry"
)

// Temporal carries the week-progress fields computed for a plan-like entry
// from its start_date and duration_weeks attributes.
type Temporal struct {
	DaysElapsed    int    `json:"days_elapsed"`
	CurrentWeek    int    `json:"current_week"`
	TotalWeeks     int    `json:"total_weeks"`
	WeeksRemaining int    `json:"weeks_remaining"`
	ProgressPct    int    `json:"progress_pct"`
	Status         string `json:"temporal_status"`
}

// ComputeTemporal derives week-progress metrics for a plan entry. When
// start_date or duration_weeks is absent, unparsable, or non-positive, it
// reports ok=false and the entry carries no temporal fields. Week
// boundaries: days 0-6 are week 1, days 7-13 week 2, and so on.
func ComputeTemporal(e entry.Entry, today time.Time) (Temporal, bool) {
	start, ok := entry.ExtraDate(e.Extra, entry.AttrStartDate)
	if !ok {
		return Temporal{}, false
	}
	totalWeeks, ok := entry.ExtraInt(e.Extra, entry.AttrDurationWeeks)
	if !ok || totalWeeks <= 0 {
		return Temporal{}, false
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	daysElapsed := int(day.Sub(start).Hours() / 24)

	currentWeek := 0
	if daysElapsed >= 0 {
		currentWeek = daysElapsed/7 + 1
	}

	weeksRemaining := totalWeeks - currentWeek + 1
	if weeksRemaining < 0 {
		weeksRemaining = 0
	}

	progress := currentWeek * 100 / totalWeeks
	if progress > 100 {
		progress = 100
	}

	status := "active"
	switch {
	case currentWeek < 1:
		status = "pending"
	case currentWeek > totalWeeks:
		status = "completed"
	}

	return Temporal{
		DaysElapsed:    daysElapsed,
		CurrentWeek:    currentWeek,
		TotalWeeks:     totalWeeks,
		WeeksRemaining: weeksRemaining,
		ProgressPct:    progress,
		Status:         status,
	}, true
}
