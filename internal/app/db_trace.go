package app

import (
	"regexp"
	"strings"
)

// Traced SQL is trimmed so span attributes stay small.
const tracedQueryLimit = 512

var collapseWhitespace = regexp.MustCompile(`\s+`)

func formatDBQueryForTrace(query string) string {
	q := collapseWhitespace.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(q) > tracedQueryLimit {
		return q[:tracedQueryLimit] + "..."
	}
	return q
}
