package app

import "strings"

// Spans carry the query for debugging, not archival. Collapse the
// whitespace and cap the length so wide INSERTs do not bloat exports.
const maxTracedQueryLen = 512

func formatDBQueryForTrace(query string) string {
	collapsed := strings.Join(strings.Fields(query), " ")
	if len(collapsed) <= maxTracedQueryLen {
		return collapsed
	}
	return collapsed[:maxTracedQueryLen] + "..."
}
