package screening

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Matcher decides whether a party name matches a watch-list entry. The
// matching strategy is pluggable so the screening logic never hard-codes a
// particular comparison.
type Matcher interface {
	// Match returns whether query matches the list entry, with a
	// similarity score in [0,1].
	Match(query, entry string) (bool, float64)
}

// SubstringMatcher reproduces the historical list-matching behavior: an
// entry matches when it appears as an uppercase substring of the query.
// Its false-positive/negative profile is known and deliberately preserved;
// callers wanting better semantics should inject a FuzzyMatcher.
type SubstringMatcher struct{}

func (SubstringMatcher) Match(query, entry string) (bool, float64) {
	if entry == "" {
		return false, 0
	}
	if strings.Contains(strings.ToUpper(query), strings.ToUpper(entry)) {
		return true, 1.0
	}
	return false, 0
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)

// FuzzyMatcher matches names by Levenshtein similarity after
// normalization. Threshold is the minimum similarity considered a match.
type FuzzyMatcher struct {
	Threshold float64
}

// NewFuzzyMatcher returns a fuzzy matcher with the default 0.85 threshold.
func NewFuzzyMatcher() *FuzzyMatcher {
	return &FuzzyMatcher{Threshold: 0.85}
}

func (m *FuzzyMatcher) Match(query, entry string) (bool, float64) {
	q := normalizeName(query)
	e := normalizeName(entry)
	if q == "" || e == "" {
		return false, 0
	}
	score := levenshteinSimilarity(q, e)
	return score >= m.Threshold, score
}

func normalizeName(name string) string {
	name = strings.ToLower(name)
	name = nonAlnum.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(name), " ")
}

func levenshteinSimilarity(s1, s2 string) float64 {
	distance := levenshtein.ComputeDistance(s1, s2)
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}
