// Package search provides literal, case-insensitive substring matching used
// to shape search results (per-rack matched-item highlighting). It is
// intentionally small and dependency-free:
//
//   - No logging in the library (callers decide how/what to log)
//   - Queries are always treated as plain text: characters that are
//     meaningful to pattern languages ("*", ".", "(", "%", "_") have no
//     special effect
//   - Deterministic output order (input order of items is preserved)
//   - Stateless functions, safe for concurrent use
package search

import "strings"

// ContainsFold reports whether s contains substr as a case-insensitive
// literal substring. An empty substr matches everything, mirroring
// strings.Contains.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// MatchItems returns the items that contain query as a case-insensitive
// literal substring, preserving input order and duplicates. It returns nil
// when nothing matches, so callers can use the result length to decide
// whether an entry belongs in a highlight map at all.
func MatchItems(items []string, query string) []string {
	if len(items) == 0 {
		return nil
	}
	q := strings.ToLower(query)
	var out []string
	for _, it := range items {
		if strings.Contains(strings.ToLower(it), q) {
			out = append(out, it)
		}
	}
	return out
}
