// Package suggest ranks candidate command names by similarity to a mistyped argument.
package suggest

import (
	"cmp"
	"slices"
	"strings"
)

// threshold is the minimum similarity score required for a candidate to be suggested.
const threshold = 0.5

type scored struct {
	name  string
	score float64
}

// FindSimilar returns up to maxResults candidates similar to target, best match first. Ties are
// broken alphabetically.
func FindSimilar(target string, candidates []string, maxResults int) []string {
	if target == "" || maxResults <= 0 {
		return []string{}
	}

	matches := make([]scored, 0, len(candidates))
	for _, name := range candidates {
		if score := similarity(target, name); score > threshold {
			matches = append(matches, scored{name: name, score: score})
		}
	}
	slices.SortFunc(matches, func(a, b scored) int {
		if a.score != b.score {
			return cmp.Compare(b.score, a.score)
		}
		return cmp.Compare(a.name, b.name)
	})

	result := make([]string, 0, min(len(matches), maxResults))
	for _, m := range matches[:min(len(matches), maxResults)] {
		result = append(result, m.name)
	}
	return result
}

// similarity scores a against b between 0 and 1, case-insensitively. A prefix of b scores 0.9.
func similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	switch {
	case a == b:
		return 1.0
	case strings.HasPrefix(b, a):
		return 0.9
	}
	longest := max(len(a), len(b))
	return 1.0 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein computes the edit distance between a and b using two rolling rows.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
