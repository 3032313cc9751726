package entry

import "testing"

func TestPriorityRankFromContentMarker(t *testing.T) {
	cases := []struct {
		content string
		want    int
	}{
		{"Bench 225x5 by June. Priority: High. Why: Rugby.", PriorityHigh},
		{"Squat 315x5. Priority: Medium.", PriorityMedium},
		{"5K under 20min. priority: low.", PriorityLow},
		{"Full ATG squat. Why: Hip health.", PriorityUnspecified},
		{"Deload week. Priority: Urgent follow-up.", PriorityHigh},
	}

	for _, tc := range cases {
		got := PriorityRank(Entry{Content: tc.content})
		if got != tc.want {
			t.Errorf("PriorityRank(%q) = %d, want %d", tc.content, got, tc.want)
		}
	}
}

func TestPriorityRankFromExtra(t *testing.T) {
	if got := PriorityRank(Entry{Extra: map[string]any{AttrPriority: 1}}); got != PriorityMedium {
		t.Fatalf("numeric priority: got %d", got)
	}
	if got := PriorityRank(Entry{Extra: map[string]any{AttrPriority: "urgent"}}); got != PriorityHigh {
		t.Fatalf("label priority: got %d", got)
	}
	if got := PriorityRank(Entry{Extra: map[string]any{AttrPriority: float64(9)}}); got != PriorityUnspecified {
		t.Fatalf("out-of-range rank should clamp, got %d", got)
	}

	// Extra wins over the content marker.
	e := Entry{
		Content: "Priority: Low.",
		Extra:   map[string]any{AttrPriority: "high"},
	}
	if got := PriorityRank(e); got != PriorityHigh {
		t.Fatalf("extra should win over content, got %d", got)
	}
}
