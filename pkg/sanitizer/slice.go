package sanitizer

import "strings"

func NormalizeStringSlice(items []string, normalizer func(string) string) []string {
	if len(items) == 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	result := make([]string, 0, len(items))

	for _, item := range items {
		normalized := normalizer(item)

		if normalized == "" {
			continue
		}

		if seen[normalized] {
			continue
		}

		seen[normalized] = true
		result = append(result, normalized)
	}

	return result
}

// SplitList splits a comma list, trimming entries and dropping empty ones.
// Duplicates are kept since two rooms may share a room id.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NormalizeIDs trims ids and drops empty and repeated ones.
func NormalizeIDs(ids []string) []string {
	return NormalizeStringSlice(ids, strings.TrimSpace)
}
