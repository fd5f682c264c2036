package utils

import "strings"

// TruncateForLog flattens s onto one line, collapsing whitespace runs, and
// cuts it to limit runes with a trailing "...". A non-positive limit yields "".
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	flat := strings.Join(strings.Fields(s), " ")
	if len(flat) <= limit {
		return flat
	}

	runes := 0
	for i := range flat {
		if runes == limit {
			return flat[:i] + "..."
		}
		runes++
	}
	return flat
}
