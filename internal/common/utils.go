package common

import "strings"

// SplitAndTrim splits s on sep, trims whitespace from every part and drops
// empty parts.
func SplitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
