package internal

import (
	"maps"
	"net/url"
	"slices"
	"strings"
)

// BuildQuery renders params as a URL query string prefixed with "?".
// Keys are sorted and values escaped. A non-empty raw query is appended
// after the params. Returns "" when there is nothing to render.
//
//	BuildQuery("", map[string]string{"page": "2", "q": "go"}) // "?page=2&q=go"
//	BuildQuery("sort=asc", map[string]string{"page": "2"})    // "?page=2&sort=asc"
func BuildQuery(query string, params map[string]string) string {
	parts := make([]string, 0, len(params)+1)
	for _, key := range slices.Sorted(maps.Keys(params)) {
		parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(params[key]))
	}
	if query = strings.TrimPrefix(query, "?"); query != "" {
		parts = append(parts, query)
	}
	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}
