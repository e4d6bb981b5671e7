package minutes

import (
	"github.com/minutedesk/mins-cli/pkg/meeting"
	"github.com/minutedesk/mins-cli/pkg/similarity"
)

// Content is the consolidated output of transcript parsing: discussion
// points grouped by topic, decisions, and action items, each deduplicated.
// Entries added earlier always win against later near-duplicates, which is
// what makes recompilation idempotent when stored actions are seeded first.
type Content struct {
	Topics    map[string][]string
	Decisions []string
	Actions   []meeting.ActionItem
}

// NewContent returns empty consolidated content.
func NewContent() *Content {
	return &Content{Topics: make(map[string][]string)}
}

// AddDiscussion buckets a discussion point by topic and merges it into any
// existing near-duplicate in the same bucket, keeping the longer wording.
func (c *Content) AddDiscussion(point string) {
	topic := topicFor(point)
	for i, existing := range c.Topics[topic] {
		if similarity.SimilarEnough(existing, point, similarity.DiscussionThreshold) {
			if len(point) > len(existing) {
				c.Topics[topic][i] = point
			}
			return
		}
	}
	c.Topics[topic] = append(c.Topics[topic], point)
}

// AddDecision appends a decision unless a near-duplicate is already present.
func (c *Content) AddDecision(text string) {
	for i, existing := range c.Decisions {
		if similarity.SimilarEnough(existing, text, similarity.DiscussionThreshold) {
			if len(text) > len(existing) {
				c.Decisions[i] = text
			}
			return
		}
	}
	c.Decisions = append(c.Decisions, text)
}

// AddAction appends an action item unless it duplicates an existing one.
// The existing item wins outright: owner, deadline, and ID are preserved, so
// user-curated items survive recompilation untouched.
func (c *Content) AddAction(item meeting.ActionItem) {
	for _, existing := range c.Actions {
		if actionsSimilar(existing.Action, item.Action) {
			return
		}
	}
	c.Actions = append(c.Actions, item)
}

// actionsSimilar applies the action merge rule: word-overlap score over the
// action threshold, a shared normalized prefix, or one wording subsuming the
// other.
func actionsSimilar(a, b string) bool {
	return similarity.SimilarEnough(a, b, similarity.ActionThreshold) ||
		similarity.SharePrefix(a, b, similarity.ActionPrefixLength) ||
		similarity.Subsumes(a, b)
}

// DiscussionCount returns the total number of discussion points.
func (c *Content) DiscussionCount() int {
	n := 0
	for _, points := range c.Topics {
		n += len(points)
	}
	return n
}
