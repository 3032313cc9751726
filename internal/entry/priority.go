package entry

import (
	"regexp"
	"strings"
)

// Priority ranks used for overview ordering. Lower sorts first.
const (
	PriorityHigh        = 0
	PriorityMedium      = 1
	PriorityLow         = 2
	PriorityUnspecified = 3
)

var priorityMarker = regexp.MustCompile(`(?i)priority:\s*(high|urgent|medium|low)`)

// PriorityRank derives a single canonical rank for an entry. The extra bag
// wins when it carries a usable priority (numeric rank or label); otherwise
// the content is scanned for a "Priority: High|Medium|Low" marker.
func PriorityRank(e Entry) int {
	if n, ok := ExtraInt(e.Extra, AttrPriority); ok {
		return clampRank(n)
	}
	if label, ok := ExtraString(e.Extra, AttrPriority); ok {
		if rank, ok := rankFromLabel(label); ok {
			return rank
		}
	}
	if m := priorityMarker.FindStringSubmatch(e.Content); m != nil {
		if rank, ok := rankFromLabel(m[1]); ok {
			return rank
		}
	}
	return PriorityUnspecified
}

func rankFromLabel(label string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "high", "urgent":
		return PriorityHigh, true
	case "medium":
		return PriorityMedium, true
	case "low":
		return PriorityLow, true
	default:
		return 0, false
	}
}

func clampRank(n int) int {
	if n < PriorityHigh {
		return PriorityHigh
	}
	if n > PriorityUnspecified {
		return PriorityUnspecified
	}
	return n
}
