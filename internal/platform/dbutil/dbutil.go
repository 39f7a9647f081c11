// Package dbutil holds Postgres DSN helpers shared by the API server and
// the migration CLI.
package dbutil

import (
	"net/url"
	"strings"
)

// NormalizeURL appends disable_prepared_binary_result=yes when requested,
// which pgbouncer in transaction pooling mode needs. An existing value in
// the DSN wins; unparseable input passes through untouched.
func NormalizeURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	q := parsed.Query()
	if q.Get("disable_prepared_binary_result") != "" {
		return raw
	}
	q.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = q.Encode()
	return parsed.String()
}

// DBNameFromURL extracts the database name from either a postgres:// URL or
// a keyword/value DSN, returning "" when neither form carries one.
func DBNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)

	if parsed, err := url.Parse(trimmed); err == nil && parsed != nil && parsed.Scheme != "" {
		if name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")); name != "" {
			return name
		}
	}

	for _, kv := range strings.Fields(trimmed) {
		if name, ok := strings.CutPrefix(kv, "dbname="); ok {
			if name = strings.Trim(strings.TrimSpace(name), `"'`); name != "" {
				return name
			}
		}
	}
	return ""
}
