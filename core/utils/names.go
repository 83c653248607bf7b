package utils

import (
	"fmt"
	"strings"
)

// Abbreviate joins names with ", ", showing at most limit of them followed by
// a count of the rest. A limit below 1 shows every name.
func Abbreviate(names []string, limit int) string {
	if limit < 1 || len(names) <= limit {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(names[:limit], ", "), len(names)-limit)
}

// Plural returns "<n> <one>" or "<n> <many>".
func Plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
