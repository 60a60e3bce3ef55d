package app

import (
	"regexp"
	"strings"
)

// Span attributes get the statement collapsed to one line and capped, so a
// bulk upsert cannot blow up trace storage.
const maxTracedQueryLength = 512

var collapseWhitespace = regexp.MustCompile(`\s+`)

func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	oneLine := collapseWhitespace.ReplaceAllString(query, " ")
	if len(oneLine) <= maxTracedQueryLength {
		return oneLine
	}

	return oneLine[:maxTracedQueryLength] + "..."
}
