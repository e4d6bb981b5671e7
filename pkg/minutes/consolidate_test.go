package minutes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minutedesk/mins-cli/pkg/meeting"
)

func TestContent_AddDiscussionMergesNearDuplicates(t *testing.T) {
	c := NewContent()
	c.AddDiscussion("Discussion covered the quarterly sales figures.")
	c.AddDiscussion("Discussion covered the quarterly sales figures in detail.")

	points := c.Topics["Sales & Business Development"]
	require.Len(t, points, 1)
	// The longer wording wins.
	assert.Equal(t, "Discussion covered the quarterly sales figures in detail.", points[0])
	assert.Equal(t, 1, c.DiscussionCount())
}

func TestContent_AddDiscussionKeepsDistinctPoints(t *testing.T) {
	c := NewContent()
	c.AddDiscussion("Discussion covered the quarterly sales figures.")
	c.AddDiscussion("Noted: two clients renewed their contracts early.")

	assert.Len(t, c.Topics["Sales & Business Development"], 2)
}

func TestContent_AddDecisionDeduplicates(t *testing.T) {
	c := NewContent()
	c.AddDecision("Extend the project deadline.")
	c.AddDecision("Extend the project deadline by a week.")

	require.Len(t, c.Decisions, 1)
	assert.Equal(t, "Extend the project deadline by a week.", c.Decisions[0])
}

func TestContent_AddActionExistingWins(t *testing.T) {
	c := NewContent()
	existing, err := meeting.NewActionItem("Send report", "Alice", "Friday")
	require.NoError(t, err)
	c.AddAction(existing)

	parsed, err := meeting.NewActionItem("Team to send the report by Friday", "", "Friday")
	require.NoError(t, err)
	c.AddAction(parsed)

	require.Len(t, c.Actions, 1)
	assert.Equal(t, existing.ID, c.Actions[0].ID)
	assert.Equal(t, "Alice", c.Actions[0].Owner)
	assert.Equal(t, "Send report", c.Actions[0].Action)
}

func TestContent_AddActionKeepsDistinctItems(t *testing.T) {
	c := NewContent()
	a, _ := meeting.NewActionItem("Team to send the report by Friday", "", "")
	b, _ := meeting.NewActionItem("Manager to review the safety audit findings", "", "")
	c.AddAction(a)
	c.AddAction(b)

	assert.Len(t, c.Actions, 2)
}

func TestActionsSimilar(t *testing.T) {
	// Shared normalized prefix catches re-dictations diverging in the tail.
	assert.True(t, actionsSimilar(
		"Team to send the quarterly report to finance",
		"Team to send the quarterly report by Friday"))
	// Subsumption catches filler-word variants.
	assert.True(t, actionsSimilar("Send report", "Team to send the report"))
	assert.False(t, actionsSimilar(
		"Team to send the report",
		"Manager to book the training room"))
}
