// Package similarity computes a deterministic text relevance score between a
// search query and a candidate product name. It is the only ranking signal
// when no visual scorer is configured, so it is intentionally cheap and
// explainable: token overlap plus a vocabulary bonus for furniture terms.
package similarity

import (
	"math"
	"strings"
	"unicode"
)

const (
	minScore     = 0.55
	maxScore     = 0.98
	neutralScore = 0.70

	baseScore      = 0.60
	exactBaseScore = 0.80

	overlapWeight = 0.25
	maxBonus      = 0.15
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "for": {},
	"to": {}, "of": {}, "in": {}, "with": {}, "by": {}, "buy": {},
}

// furnitureKeywords are high-value domain terms; a shared keyword is a much
// stronger signal than generic word overlap.
var furnitureKeywords = map[string]struct{}{
	"sofa": {}, "couch": {}, "sectional": {}, "loveseat": {},
	"chair": {}, "armchair": {}, "recliner": {}, "stool": {},
	"table": {}, "desk": {}, "bed": {}, "bench": {}, "ottoman": {},
	"bookshelf": {}, "bookcase": {}, "cabinet": {}, "dresser": {},
	"nightstand": {}, "wardrobe": {}, "sideboard": {}, "credenza": {},
	"leather": {}, "velvet": {}, "linen": {}, "fabric": {},
	"wood": {}, "walnut": {}, "oak": {}, "teak": {}, "metal": {},
	"marble": {}, "glass": {}, "rattan": {},
	"modern": {}, "midcentury": {}, "scandinavian": {}, "industrial": {},
	"farmhouse": {}, "traditional": {}, "rustic": {}, "minimalist": {},
	"contemporary": {},
}

var colorWords = map[string]struct{}{
	"black": {}, "white": {}, "gray": {}, "grey": {}, "brown": {},
	"beige": {}, "cream": {}, "tan": {}, "navy": {}, "blue": {},
	"green": {}, "red": {}, "orange": {}, "yellow": {}, "pink": {},
	"purple": {}, "gold": {}, "silver": {}, "charcoal": {},
}

// Score rates how relevant candidateName is to query, returning a value in
// [0.55, 0.98]. Exact searches (brand+model lookups) start from a higher
// base and earn a recall bonus for query terms found in the candidate. A
// score of exactly 1.0 is never returned; identical strings still score
// 0.98 at most. Empty token sets on either side short-circuit to 0.70.
func Score(query, candidateName string, isExactSearch bool) float64 {
	queryTokens := tokenize(query)
	candidateTokens := tokenize(candidateName)
	if len(queryTokens) == 0 || len(candidateTokens) == 0 {
		return neutralScore
	}

	intersection := make([]string, 0, len(queryTokens))
	for token := range queryTokens {
		if _, ok := candidateTokens[token]; ok {
			intersection = append(intersection, token)
		}
	}
	union := len(queryTokens) + len(candidateTokens) - len(intersection)
	overlap := float64(len(intersection)) / float64(union)

	bonus := 0.0
	for _, token := range intersection {
		if _, ok := furnitureKeywords[token]; ok {
			bonus += 0.05
		}
		if _, ok := colorWords[token]; ok {
			bonus += 0.03
		}
	}

	base := baseScore
	if isExactSearch {
		base = exactBaseScore
		// Directional recall: how much of the query the candidate covers.
		bonus += float64(len(intersection)) / float64(len(queryTokens)) * 0.10
	}
	if bonus > maxBonus {
		bonus = maxBonus
	}

	score := base + overlap*overlapWeight + bonus
	if score < minScore {
		score = minScore
	}
	if score > maxScore {
		score = maxScore
	}
	return math.Round(score*100) / 100
}

func tokenize(s string) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)

	tokens := make(map[string]struct{})
	for _, token := range strings.Fields(cleaned) {
		if _, ok := stopWords[token]; ok {
			continue
		}
		tokens[token] = struct{}{}
	}
	return tokens
}
