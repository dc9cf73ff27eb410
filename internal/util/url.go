package util

import "strings"

// NormalizeURL makes product links comparable: it trims whitespace, drops the
// fragment and strips trailing slashes. Query strings are kept since store
// links use them to pick the edition.
func NormalizeURL(rawURL string) string {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return ""
	}
	if i := strings.Index(u, "#"); i >= 0 {
		u = u[:i]
	}
	return strings.TrimRight(u, "/")
}

// ParsePastedURLs splits pasted text on newlines and commas and drops blank entries.
func ParsePastedURLs(text string) []string {
	var urls []string
	for _, part := range strings.Split(strings.ReplaceAll(text, ",", "\n"), "\n") {
		if u := strings.TrimSpace(part); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
