package crawler

import "strings"

// IsRelevant decides whether text is topically admissible. An empty
// required list admits everything: an unreachable keyword source must
// not silently stop all crawling. Any excluded keyword hit rejects the
// text regardless of how many required keywords matched.
func IsRelevant(text string, required, excluded []string, minMatches int) bool {
	if len(required) == 0 {
		return true
	}
	if minMatches < 1 {
		minMatches = 1
	}

	lower := strings.ToLower(text)

	matches := 0
	for _, kw := range required {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			matches++
		}
	}
	if matches < minMatches {
		return false
	}

	for _, kw := range excluded {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}
