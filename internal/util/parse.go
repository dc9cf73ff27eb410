package util

import "strings"

// SplitList splits a comma separated setting such as "USD, eur,CAD" into upper-cased codes.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.ToUpper(strings.TrimSpace(part)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
