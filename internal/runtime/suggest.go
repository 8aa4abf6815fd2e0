package runtime

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultSuggestionDistance is the largest edit distance still worth suggesting.
const DefaultSuggestionDistance = 2

// suggest returns the candidate closest to label, or "" when none is within limit.
// Ties keep the earlier candidate, i.e. the one declared first.
func suggest(label string, candidates []string, limit int) string {
	if limit <= 0 {
		return ""
	}
	best, bestDist := "", limit+1
	needle := strings.ToLower(label)
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
