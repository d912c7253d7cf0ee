package store

import "strings"

// equalFold compares two metadata values case-insensitively after trimming.
func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// containsFold reports whether haystack contains needle, case-insensitively.
// Used for location matching where stored values are free-form.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}
