package writer

import (
	"strings"
)

// SelectUnusedName picks the first pool entry whose name has not been used
// yet, comparing case-insensitively. An exhausted pool falls back to the full
// pool rather than returning nothing; an empty pool returns a zero candidate.
func SelectUnusedName(pool []NameCandidate, used []string) NameCandidate {
	if len(pool) == 0 {
		return NameCandidate{}
	}

	usedLower := make(map[string]struct{}, len(used))
	for _, u := range used {
		usedLower[strings.ToLower(u)] = struct{}{}
	}

	for _, c := range pool {
		if _, taken := usedLower[strings.ToLower(c.Name)]; !taken {
			return c
		}
	}
	return pool[0]
}

// TrimSetSuffix strips the catalog suffixes from a generated title so the
// bare name can be tracked against future selections.
func TrimSetSuffix(title string) string {
	title = strings.ReplaceAll(title, " Jewellery Set", "")
	title = strings.ReplaceAll(title, " Jewelry Set", "")
	title = strings.ReplaceAll(title, " Set", "")
	return strings.TrimSpace(title)
}
