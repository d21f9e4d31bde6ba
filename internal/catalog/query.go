package catalog

import (
	"regexp"
	"strings"
)

const (
	publicDefaultLimit = 12
	publicMaxLimit     = 24
	adminDefaultLimit  = 20
	adminMaxLimit      = 40
)

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func clampLimit(limit, fallback, max int) int {
	if limit == 0 {
		limit = fallback
	}
	if limit < 1 {
		limit = 1
	}
	if limit > max {
		limit = max
	}
	return limit
}

func pageCount(total, limit int) int {
	if total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

// fuzzyPattern turns a free-text query into an ordered-substring regex:
// metacharacters are escaped per token and tokens are joined with a wildcard
// gap, so "fur set" matches "Furniture Set" while "set fur" does not.
// Returns "" when the query has no tokens; matching is done case-insensitively
// in the store (~*).
func fuzzyPattern(query string) string {
	tokens := strings.Fields(strings.TrimSpace(query))
	if len(tokens) == 0 {
		return ""
	}
	escaped := make([]string, len(tokens))
	for i, tok := range tokens {
		escaped[i] = regexp.QuoteMeta(tok)
	}
	return strings.Join(escaped, ".*")
}
