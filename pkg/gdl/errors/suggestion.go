package errors

import (
	"fmt"
	"strings"
)

// SuggestName suggests a close match for an unknown name among the
// known candidates, using Levenshtein distance. It returns an empty
// string when there is nothing useful to suggest.
func SuggestName(unknown string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	minDistance := len(unknown) + 1
	var bestMatch string
	for _, candidate := range candidates {
		if distance := levenshteinDistance(unknown, candidate); distance < minDistance {
			minDistance = distance
			bestMatch = candidate
		}
	}

	// Only suggest a rename when the edit distance is small enough to
	// plausibly be a typo.
	if minDistance < 5 && minDistance < len(unknown) {
		return fmt.Sprintf("did you mean '%s'?", bestMatch)
	}

	if len(candidates) > 5 {
		return fmt.Sprintf("known names include: %s, ...", strings.Join(candidates[:5], ", "))
	}
	return fmt.Sprintf("known names: %s", strings.Join(candidates, ", "))
}

// levenshteinDistance computes the edit distance between two strings
// using the two-row dynamic programming form.
func levenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	previous := make([]int, len(b)+1)
	current := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		previous[j] = j
	}

	for i := 1; i <= len(a); i++ {
		current[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			current[j] = current[j-1] + 1
			if previous[j]+1 < current[j] {
				current[j] = previous[j] + 1
			}
			if previous[j-1]+cost < current[j] {
				current[j] = previous[j-1] + cost
			}
		}
		previous, current = current, previous
	}

	return previous[len(b)]
}
