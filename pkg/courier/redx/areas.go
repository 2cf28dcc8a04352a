package redx

import (
	"regexp"
	"strings"
)

// DefaultFuzzyThreshold is the minimum character-overlap score an area
// candidate must reach to be accepted. Empirically chosen; tune per
// deployment via Config.FuzzyThreshold.
const DefaultFuzzyThreshold = 0.5

var (
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
	nonAlnum      = regexp.MustCompile(`[^a-z0-9]+`)
)

// normalizeAreaName canonicalizes an area name for matching: lower case,
// parenthetical suffixes like "(Dhaka)" dropped, runs of non-alphanumerics
// collapsed to a single space.
func normalizeAreaName(s string) string {
	s = strings.ToLower(s)
	s = parenthetical.ReplaceAllString(s, " ")
	s = nonAlnum.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// matchArea finds the best candidate for a free-text query within one area
// list. Strategies run in strict order so that an exact or substring match is
// always deterministic and never score-dependent:
//
//  1. exact match on the normalized names
//  2. substring match in either direction
//  3. character-overlap fuzzy score, accepted only at or above threshold
//
// Returns nil when no strategy produces a match.
func matchArea(query string, areas []Area, threshold float64) *Area {
	nq := normalizeAreaName(query)
	if nq == "" {
		return nil
	}

	for i := range areas {
		if normalizeAreaName(areas[i].Name) == nq {
			return &areas[i]
		}
	}

	for i := range areas {
		nc := normalizeAreaName(areas[i].Name)
		if nc == "" {
			continue
		}
		if strings.Contains(nq, nc) || strings.Contains(nc, nq) {
			return &areas[i]
		}
	}

	var best *Area
	bestScore := 0.0
	for i := range areas {
		score := overlapScore(nq, normalizeAreaName(areas[i].Name))
		if score >= threshold && score > bestScore {
			best = &areas[i]
			bestScore = score
		}
	}
	return best
}

// overlapScore computes the fraction of query characters present in the
// candidate, over the length of the longer of the two normalized strings.
func overlapScore(query, candidate string) float64 {
	qr := []rune(query)
	cr := []rune(candidate)
	longer := len(qr)
	if len(cr) > longer {
		longer = len(cr)
	}
	if longer == 0 {
		return 0
	}

	present := 0
	for _, r := range qr {
		if strings.ContainsRune(candidate, r) {
			present++
		}
	}
	return float64(present) / float64(longer)
}

// candidateNames lists area names for error diagnostics.
func candidateNames(areas []Area) []string {
	names := make([]string, 0, len(areas))
	for _, a := range areas {
		names = append(names, a.Name)
	}
	return names
}
