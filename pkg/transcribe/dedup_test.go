package transcribe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeCommitted_EmptySegment(t *testing.T) {
	merged, outcome := mergeCommitted("Hello team", "   ")
	assert.Equal(t, "Hello team", merged)
	assert.Equal(t, mergeDiscarded, outcome)
}

func TestMergeCommitted_FirstSegment(t *testing.T) {
	merged, outcome := mergeCommitted("", "Hello team")
	assert.Equal(t, "Hello team", merged)
	assert.Equal(t, mergeAppended, outcome)
}

func TestMergeCommitted_PureRepeat(t *testing.T) {
	merged, outcome := mergeCommitted("Hello team we need to talk", "hello team")
	assert.Equal(t, "Hello team we need to talk", merged)
	assert.Equal(t, mergeDiscarded, outcome)
}

func TestMergeCommitted_RepeatInMiddle(t *testing.T) {
	merged, outcome := mergeCommitted("one two three four", "two three")
	assert.Equal(t, "one two three four", merged)
	assert.Equal(t, mergeDiscarded, outcome)
}

func TestMergeCommitted_CumulativeEngine(t *testing.T) {
	// Some engines re-report the whole transcript so far plus the new tail.
	merged, outcome := mergeCommitted("Hello team", "Hello team we need to talk")
	assert.Equal(t, "Hello team we need to talk", merged)
	assert.Equal(t, mergeCumulative, outcome)
}

func TestMergeCommitted_CumulativeCaseInsensitive(t *testing.T) {
	merged, _ := mergeCommitted("Hello Team", "hello team we need to talk")
	assert.Equal(t, "Hello Team we need to talk", merged)
}

func TestMergeCommitted_TailOverlap(t *testing.T) {
	// The engine re-reports the tail of the previous utterance before
	// continuing after a restart.
	merged, outcome := mergeCommitted("we reviewed the sales numbers", "the sales numbers look strong")
	assert.Equal(t, "we reviewed the sales numbers look strong", merged)
	assert.Equal(t, mergeOverlap, outcome)
}

func TestMergeCommitted_NoOverlapAppends(t *testing.T) {
	merged, outcome := mergeCommitted("Hello team", "budget review is next")
	assert.Equal(t, "Hello team budget review is next", merged)
	assert.Equal(t, mergeAppended, outcome)
}

func TestMergeCommitted_Idempotent(t *testing.T) {
	// Feeding the same final segment twice yields the same transcript as once.
	once, _ := mergeCommitted("", "we agreed to extend the deadline")
	twice, outcome := mergeCommitted(once, "we agreed to extend the deadline")
	assert.Equal(t, once, twice)
	assert.Equal(t, mergeDiscarded, outcome)
}

func TestMergeCommitted_NormalizesSegmentWhitespace(t *testing.T) {
	merged, _ := mergeCommitted("Hello", "team   we   talked")
	assert.Equal(t, "Hello team we talked", merged)
}

func TestSuffixPrefixOverlap_PicksLargest(t *testing.T) {
	committed := []string{"a", "b", "a", "b"}
	segment := []string{"a", "b", "c"}
	// Last two words "a b" match the first two of the segment.
	assert.Equal(t, 2, suffixPrefixOverlap(committed, segment))
}

func TestContainsSubsequence(t *testing.T) {
	haystack := []string{"one", "two", "three"}
	assert.True(t, containsSubsequence(haystack, []string{"two", "three"}))
	assert.True(t, containsSubsequence(haystack, []string{"one", "two", "three"}))
	assert.False(t, containsSubsequence(haystack, []string{"three", "one"}))
	assert.False(t, containsSubsequence(haystack, []string{"one", "two", "three", "four"}))
	assert.False(t, containsSubsequence(haystack, nil))
}
