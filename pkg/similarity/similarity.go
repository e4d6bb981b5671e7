// Package similarity provides the word-overlap scoring used to merge
// near-duplicate discussion points and action items.
package similarity

import (
	"regexp"
	"strings"
)

// Canonical thresholds. Historical variants ranged a few points either way;
// these are the single values the consolidation passes are tested against.
const (
	// DiscussionThreshold merges two discussion points in the same topic.
	DiscussionThreshold = 0.70

	// ActionThreshold merges two action items anywhere in the list.
	ActionThreshold = 0.72

	// ActionPrefixLength is the length of the normalized prefix used for the
	// containment shortcut on action items.
	ActionPrefixLength = 22
)

var nonWordChars = regexp.MustCompile(`[^a-z0-9\s]+`)

// Normalize lower-cases s, strips punctuation, and collapses whitespace so
// that scoring is insensitive to presentation differences.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = nonWordChars.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// wordSet returns the set of normalized words in s.
func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(Normalize(s)) {
		set[w] = struct{}{}
	}
	return set
}

// Jaccard returns the Jaccard index of the word sets of a and b, in [0,1].
// Two empty strings score 1.0; one empty string against a non-empty one
// scores 0.0.
func Jaccard(a, b string) float64 {
	sa := wordSet(a)
	sb := wordSet(b)

	if len(sa) == 0 && len(sb) == 0 {
		return 1.0
	}
	if len(sa) == 0 || len(sb) == 0 {
		return 0.0
	}

	intersection := 0
	for w := range sa {
		if _, ok := sb[w]; ok {
			intersection++
		}
	}
	union := len(sa) + len(sb) - intersection
	return float64(intersection) / float64(union)
}

// SimilarEnough reports whether a and b meet or exceed the given Jaccard
// threshold.
func SimilarEnough(a, b string, threshold float64) bool {
	return Jaccard(a, b) >= threshold
}

// Subsumes reports whether the smaller of the two word sets is wholly
// contained in the larger. Catches re-dictations that only add filler words
// ("send report" vs "send the report") which Jaccard scores below threshold.
func Subsumes(a, b string) bool {
	sa := wordSet(a)
	sb := wordSet(b)
	if len(sa) == 0 || len(sb) == 0 {
		return false
	}
	small, big := sa, sb
	if len(small) > len(big) {
		small, big = big, small
	}
	for w := range small {
		if _, ok := big[w]; !ok {
			return false
		}
	}
	return true
}

// SharePrefix reports whether the normalized forms of a and b agree on their
// first n characters. Used by action consolidation to catch re-dictated items
// that diverge only in their tail.
func SharePrefix(a, b string, n int) bool {
	na := Normalize(a)
	nb := Normalize(b)
	if len(na) < n || len(nb) < n {
		return na == nb && na != ""
	}
	return na[:n] == nb[:n]
}
