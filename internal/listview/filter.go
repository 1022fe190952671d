package listview

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Filter returns the items whose key contains query as a case-insensitive
// substring, in their original order. A blank query returns items unchanged.
// A nil key matches nothing unless the query is blank.
func Filter[E any](items []E, query string, key func(E) string) []E {
	q := NormalizeQuery(query)
	if q == "" {
		return items
	}

	out := make([]E, 0, len(items))
	if key == nil {
		return out
	}
	caser := cases.Lower(language.Und)
	for _, item := range items {
		if strings.Contains(caser.String(key(item)), q) {
			out = append(out, item)
		}
	}
	return out
}

// NormalizeQuery trims and lower-cases a filter query.
func NormalizeQuery(query string) string {
	q := strings.TrimSpace(query)
	if q == "" {
		return ""
	}
	return cases.Lower(language.Und).String(q)
}
