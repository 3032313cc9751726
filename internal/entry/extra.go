package entry

import (
	"strconv"
	"strings"
	"time"
)

// Recognized extra attribute names. The store treats the bag as opaque
// beyond best-effort parsing of these.
const (
	AttrPriority      = "priority"
	AttrTags          = "tags"
	AttrDueDate       = "due_date"
	AttrParentKey     = "parent_key"
	AttrStartDate     = "start_date"
	AttrDurationWeeks = "duration_weeks"
	AttrStatus        = "status"
)

// NormalizeExtra applies boundary coercions to an attribute bag and returns
// a copy safe to persist. A nil bag yields an empty one.
func NormalizeExtra(extra map[string]any) map[string]any {
	out := make(map[string]any, len(extra))
	for k, v := range extra {
		out[k] = v
	}
	if tags, ok := out[AttrTags]; ok {
		out[AttrTags] = NormalizeTags(tags)
	}
	return out
}

// NormalizeTags accepts a comma-separated string or a list and returns a
// clean string slice. Anything unrecognizable yields an empty slice.
func NormalizeTags(raw any) []string {
	switch v := raw.(type) {
	case string:
		return splitTags(v)
	case []string:
		out := make([]string, 0, len(v))
		for _, t := range v {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	default:
		return []string{}
	}
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ExtraString reads a string-valued attribute, returning false when the
// attribute is absent or not a string.
func ExtraString(extra map[string]any, name string) (string, bool) {
	if extra == nil {
		return "", false
	}
	s, ok := extra[name].(string)
	return s, ok
}

// ExtraInt reads an integer-valued attribute with best-effort coercion from
// the numeric and string forms JSON decoding produces.
func ExtraInt(extra map[string]any, name string) (int, bool) {
	if extra == nil {
		return 0, false
	}
	switch v := extra[name].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, true
		}
	}
	return 0, false
}

// ExtraDate parses an ISO date attribute. Unparsable values read as absent.
func ExtraDate(extra map[string]any, name string) (time.Time, bool) {
	raw, ok := ExtraString(extra, name)
	if !ok {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
