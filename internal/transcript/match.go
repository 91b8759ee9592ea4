package transcript

import (
	"fmt"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// MatchFunc decides whether two entries from different snapshots are the
// same utterance.
type MatchFunc func(a, b Entry) bool

// Matcher names accepted by MatcherByName.
const (
	MatcherExact = "exact"
	MatcherFuzzy = "fuzzy"
)

// Exact matches entries that are content-equal.
func Exact(a, b Entry) bool {
	return ContentEqual(a, b)
}

// Fuzzy matches entries with content-equal speakers whose normalized texts
// have a similarity of at least threshold, where similarity is
// 1 - editDistance/maxLen measured in runes.
func Fuzzy(threshold float64) MatchFunc {
	return func(a, b Entry) bool {
		if Normalize(a.Speaker) != Normalize(b.Speaker) {
			return false
		}
		return Similarity(Normalize(a.Text), Normalize(b.Text)) >= threshold
	}
}

// Similarity returns a value in [0,1]; 1 means identical.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}

// MatcherByName resolves a configured matcher name.
func MatcherByName(name string, threshold float64) (MatchFunc, error) {
	switch name {
	case "", MatcherExact:
		return Exact, nil
	case MatcherFuzzy:
		if threshold <= 0 || threshold > 1 {
			return nil, fmt.Errorf("fuzzy threshold must be in (0,1], got %v", threshold)
		}
		return Fuzzy(threshold), nil
	default:
		return nil, fmt.Errorf("unknown matcher: %s", name)
	}
}
