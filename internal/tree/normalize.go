package tree

import (
	"regexp"
	"strings"
)

var separatorRuns = regexp.MustCompile(`[/\\]+`)

// Normalize converts a raw path-like string into canonical form: surrounding
// whitespace stripped, trailing separators removed, leading "./" prefixes
// removed, and runs of "/" or "\" collapsed into a single "/". Empty or
// whitespace-only input normalizes to "". Normalize is idempotent.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimRight(s, `/\`)
	for strings.HasPrefix(s, "./") || strings.HasPrefix(s, `.\`) {
		s = s[2:]
	}
	s = separatorRuns.ReplaceAllString(s, "/")
	return strings.TrimSpace(s)
}

// JoinNormalized normalizes each segment and joins the non-empty ones with "/".
func JoinNormalized(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if n := Normalize(seg); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "/")
}
