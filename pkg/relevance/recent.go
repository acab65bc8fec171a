package relevance

import "strings"

// DefaultRecentMax is how many recent searches are remembered per user.
const DefaultRecentMax = 5

// PushRecent returns list with query moved (or added) to the front, duplicates
// removed and the result capped at limit entries. Blank queries leave list unchanged.
// The input slice is not modified.
func PushRecent(list []string, query string, limit int) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]string(nil), list...)
	}
	if limit <= 0 {
		limit = DefaultRecentMax
	}

	out := make([]string, 0, limit)
	out = append(out, query)
	for _, q := range list {
		if len(out) == limit {
			break
		}
		if q == query {
			continue
		}
		out = append(out, q)
	}
	return out
}
