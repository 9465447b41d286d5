package roster

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/asherv/festrank/internal/domain"
)

// SuggestThreshold is the minimum similarity (0.0-1.0) a roster entry
// must reach to be offered as a suggestion for an unresolved chest number.
const SuggestThreshold = 0.5

// SuggestTeam returns the roster team whose code most closely resembles
// the unresolved chest number, for use in diagnostics ("did you mean").
// It never participates in point attribution; the resolution heuristics
// in ResolveTeam are the only authority on which team a winner belongs to.
//
// The boolean is false when the roster is empty or no code reaches
// SuggestThreshold similarity.
func SuggestTeam(chestNumber string, roster []domain.Team) (domain.Team, bool) {
	folded := folder.String(chestNumber)

	var best domain.Team
	bestScore := 0.0
	found := false

	for _, team := range roster {
		if team.Code == "" {
			continue
		}
		score := similarity(folded, folder.String(team.Code))
		if score > bestScore {
			best = team
			bestScore = score
			found = true
		}
	}

	if !found || bestScore < SuggestThreshold {
		return domain.Team{}, false
	}
	return best, true
}

// similarity computes a normalized similarity score between two strings
// using Levenshtein distance: 1.0 for identical strings, 0.0 for maximum
// dissimilarity. Distance is computed over runes, so the normalization
// uses rune counts as well.
func similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(s1, s2)

	maxLen := utf8.RuneCountInString(s1)
	if n := utf8.RuneCountInString(s2); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/float64(maxLen)
}
