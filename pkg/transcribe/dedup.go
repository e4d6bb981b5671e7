package transcribe

import (
	"strings"
)

// mergeOutcome reports how a final segment was folded into the committed
// transcript, for logging and metrics.
type mergeOutcome string

const (
	mergeDiscarded  mergeOutcome = "discarded"
	mergeCumulative mergeOutcome = "cumulative"
	mergeOverlap    mergeOutcome = "overlap"
	mergeAppended   mergeOutcome = "appended"
)

// mergeCommitted folds a newly finalized segment into the committed
// transcript. Engines re-report finalized text after restarts and some
// report cumulatively, so plain concatenation would duplicate content:
//
//  1. committed already contains the segment verbatim -> discard.
//  2. segment extends committed from the start (cumulative engine) ->
//     append only the suffix beyond the committed length.
//  3. segment re-reports the tail of committed before continuing ->
//     append only the non-overlapping remainder.
//  4. otherwise the segment is genuinely new -> append with a space.
//
// All comparisons are case-insensitive on whitespace-normalized words; the
// appended text keeps the segment's original casing.
func mergeCommitted(committed, segment string) (string, mergeOutcome) {
	segWords := strings.Fields(segment)
	if len(segWords) == 0 {
		return committed, mergeDiscarded
	}

	comWords := strings.Fields(committed)
	if len(comWords) == 0 {
		return strings.Join(segWords, " "), mergeAppended
	}

	comLower := lowerWords(comWords)
	segLower := lowerWords(segWords)

	if containsSubsequence(comLower, segLower) {
		return committed, mergeDiscarded
	}

	if len(segLower) > len(comLower) && equalWords(segLower[:len(comLower)], comLower) {
		return committed + " " + strings.Join(segWords[len(comWords):], " "), mergeCumulative
	}

	if k := suffixPrefixOverlap(comLower, segLower); k > 0 {
		return committed + " " + strings.Join(segWords[k:], " "), mergeOverlap
	}

	return committed + " " + strings.Join(segWords, " "), mergeAppended
}

func lowerWords(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}

func equalWords(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// containsSubsequence reports whether needle occurs as a contiguous run
// inside haystack.
func containsSubsequence(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if equalWords(haystack[i:i+len(needle)], needle) {
			return true
		}
	}
	return false
}

// suffixPrefixOverlap returns the largest k such that the last k words of
// committed equal the first k words of segment.
func suffixPrefixOverlap(committed, segment []string) int {
	max := len(committed)
	if len(segment) < max {
		max = len(segment)
	}
	for k := max; k > 0; k-- {
		if equalWords(committed[len(committed)-k:], segment[:k]) {
			return k
		}
	}
	return 0
}
