package minutes

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/minutedesk/mins-cli/pkg/meeting"
)

var tracer = otel.Tracer("github.com/minutedesk/mins-cli/pkg/minutes")

// Section headings of the rendered document. ExtractActions depends on the
// action heading and table shape staying stable.
const (
	headingInfo       = "## Meeting Information"
	headingAttendees  = "## Attendees"
	headingSummary    = "## Executive Summary"
	headingDiscussion = "## Discussion Summary"
	headingDecisions  = "## Decisions"
	headingActions    = "## Action Items"
	headingFollowUp   = "## Follow-up"
	headingAddendum   = "## HR Addendum"
)

// actionCellLimit caps the action column width in the rendered table.
const actionCellLimit = 60

// emptyActionsRow is the placeholder row rendered when no actions exist.
const emptyActionsRow = "| No action items recorded | – | – |"

// ParseTranscript runs the full pipeline over raw dictation and returns the
// consolidated content.
func ParseTranscript(text string) *Content {
	c := NewContent()
	ParseTranscriptInto(c, text)
	return c
}

// ParseTranscriptInto parses raw dictation into c. Seeding c before calling
// (for example with a meeting's stored actions) makes those entries win any
// duplicate merge.
func ParseTranscriptInto(c *Content, text string) {
	for _, unit := range splitUnits(Preprocess(text)) {
		if isNoise(unit) || isFragment(unit) {
			continue
		}
		if item, ok := extractAction(unit); ok {
			c.AddAction(item)
			continue
		}
		if d, ok := extractDecision(unit); ok {
			c.AddDecision(d)
			continue
		}
		if p, ok := rewriteDiscussion(unit); ok {
			c.AddDiscussion(p)
		}
	}
}

// Compile renders structured minutes from the meeting's transcript. Stored
// actions are seeded before parsing so user-curated items survive
// recompilation with their owner, deadline, and ID intact. Returns the
// document and the consolidated action list.
func Compile(ctx context.Context, m *meeting.Meeting) (string, []meeting.ActionItem) {
	_, span := tracer.Start(ctx, "minutes.compile", trace.WithAttributes(
		attribute.String("meeting.type", string(m.Type)),
		attribute.Int("transcript.bytes", len(m.TranscriptText)),
	))
	defer span.End()

	content := NewContent()
	for _, a := range m.Actions {
		content.AddAction(a)
	}
	ParseTranscriptInto(content, m.TranscriptText)

	span.SetAttributes(
		attribute.Int("minutes.actions", len(content.Actions)),
		attribute.Int("minutes.discussion_points", content.DiscussionCount()),
	)

	return render(m, content), content.Actions
}

func render(m *meeting.Meeting, c *Content) string {
	var b strings.Builder

	b.WriteString("# Meeting Minutes\n\n")
	renderInfo(&b, m)
	renderAttendees(&b, m)
	renderSummary(&b, m, c)
	renderDiscussion(&b, m, c)
	renderDecisions(&b, c)
	renderActions(&b, c)
	renderFollowUp(&b, m, c)
	if m.Type.IsHRCase() {
		renderAddendum(&b, m)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func renderInfo(b *strings.Builder, m *meeting.Meeting) {
	title := m.Title
	if title == "" {
		title = "Untitled meeting"
	}
	fmt.Fprintf(b, "%s\n", headingInfo)
	fmt.Fprintf(b, "- **Title:** %s\n", title)
	fmt.Fprintf(b, "- **Type:** %s\n", typeDisplay(m.Type))
	fmt.Fprintf(b, "- **Date:** %s\n", m.Date.Format("02 January 2006"))
	fmt.Fprintf(b, "- **Time:** %s\n", orNotStated(m.StartTime))
	fmt.Fprintf(b, "- **Location:** %s\n", orNotStated(m.Location))
	if m.Type.IsHRCase() {
		fmt.Fprintf(b, "- **Case Reference:** %s\n", orNotStated(m.CaseRef))
	}
	b.WriteString("\n")
}

// rolePriority orders attendees by formality of role. Unknown roles sort
// last, in their original order.
var rolePriority = map[string]int{
	"chair":        0,
	"investigator": 0,
	"manager":      1,
	"hr":           2,
	"employee":     3,
	"note-taker":   4,
	"note taker":   4,
	"witness":      5,
	"companion":    6,
}

func renderAttendees(b *strings.Builder, m *meeting.Meeting) {
	fmt.Fprintf(b, "%s\n", headingAttendees)
	if len(m.Attendees) == 0 {
		b.WriteString("- None recorded\n\n")
		return
	}

	sorted := make([]meeting.Attendee, len(m.Attendees))
	copy(sorted, m.Attendees)
	sort.SliceStable(sorted, func(i, j int) bool {
		return roleRank(sorted[i].Role) < roleRank(sorted[j].Role)
	})

	for _, a := range sorted {
		if a.Role != "" {
			fmt.Fprintf(b, "- %s – %s\n", a.Name, a.Role)
		} else {
			fmt.Fprintf(b, "- %s\n", a.Name)
		}
	}
	b.WriteString("\n")
}

func roleRank(role string) int {
	if rank, ok := rolePriority[strings.ToLower(strings.TrimSpace(role))]; ok {
		return rank
	}
	return len(rolePriority)
}

func renderSummary(b *strings.Builder, m *meeting.Meeting, c *Content) {
	fmt.Fprintf(b, "%s\n", headingSummary)
	fmt.Fprintf(b, "The meeting covered %d topic %s, recorded %d %s, and assigned %d action %s.",
		len(c.Topics), plural(len(c.Topics), "area", "areas"),
		len(c.Decisions), plural(len(c.Decisions), "decision", "decisions"),
		len(c.Actions), plural(len(c.Actions), "item", "items"))
	switch m.Type {
	case meeting.TypeDisciplinary:
		b.WriteString(" This was a formal disciplinary meeting conducted in line with the company disciplinary procedure.")
	case meeting.TypeInvestigation:
		b.WriteString(" This was a formal investigation meeting; findings remain subject to review.")
	}
	b.WriteString("\n\n")
}

func renderDiscussion(b *strings.Builder, m *meeting.Meeting, c *Content) {
	fmt.Fprintf(b, "%s\n", headingDiscussion)
	if strings.TrimSpace(m.TranscriptText) == "" {
		b.WriteString("No transcript available.\n\n")
		return
	}
	if len(c.Topics) == 0 {
		b.WriteString("- No discussion points were captured.\n\n")
		return
	}

	topics := make([]string, 0, len(c.Topics))
	for t := range c.Topics {
		topics = append(topics, t)
	}
	sort.Strings(topics)

	for _, topic := range topics {
		fmt.Fprintf(b, "\n### %s\n", topic)
		for _, point := range c.Topics[topic] {
			fmt.Fprintf(b, "- %s\n", point)
		}
	}
	b.WriteString("\n")
}

func renderDecisions(b *strings.Builder, c *Content) {
	fmt.Fprintf(b, "%s\n", headingDecisions)
	if len(c.Decisions) == 0 {
		b.WriteString("- No formal decisions were recorded.\n\n")
		return
	}
	for _, d := range c.Decisions {
		fmt.Fprintf(b, "- %s\n", d)
	}
	b.WriteString("\n")
}

func renderActions(b *strings.Builder, c *Content) {
	fmt.Fprintf(b, "%s\n", headingActions)
	b.WriteString("| Action | Owner | Deadline |\n")
	b.WriteString("| --- | --- | --- |\n")
	if len(c.Actions) == 0 {
		b.WriteString(emptyActionsRow + "\n\n")
		return
	}
	for _, a := range c.Actions {
		deadline := a.Deadline
		if deadline == "" {
			deadline = "TBC"
		}
		fmt.Fprintf(b, "| %s | %s | %s |\n", tableCell(a.Action, actionCellLimit), tableCell(a.Owner, 0), tableCell(deadline, 0))
	}
	b.WriteString("\n")
}

// tableCell makes text safe for a markdown table row, truncating to limit
// when limit > 0.
func tableCell(text string, limit int) string {
	text = strings.ReplaceAll(text, "|", "/")
	if limit > 0 && len(text) > limit {
		text = strings.TrimSpace(text[:limit-3]) + "..."
	}
	return text
}

func renderFollowUp(b *strings.Builder, m *meeting.Meeting, c *Content) {
	fmt.Fprintf(b, "%s\n", headingFollowUp)
	n := 1
	if len(c.Actions) > 0 {
		fmt.Fprintf(b, "%d. %d action %s to be completed by the stated deadlines.\n",
			n, len(c.Actions), plural(len(c.Actions), "item", "items"))
		n++
	}
	fmt.Fprintf(b, "%d. %s\n", n, followUpForType(m.Type))
	n++
	fmt.Fprintf(b, "%d. Minutes to be circulated to all attendees.\n\n", n)
}

func followUpForType(t meeting.Type) string {
	switch t {
	case meeting.TypeDisciplinary:
		return "Outcome letter to be issued to the employee in line with the disciplinary procedure."
	case meeting.TypeInvestigation:
		return "Investigation findings to be compiled and next steps confirmed."
	case meeting.TypeOneOnOne:
		return "Points raised to be reviewed at the next one-to-one."
	}
	return "Progress on agreed items to be reviewed at the next team meeting."
}

func renderAddendum(b *strings.Builder, m *meeting.Meeting) {
	fmt.Fprintf(b, "%s\n\n", headingAddendum)
	if m.ConsentConfirmed {
		b.WriteString("The employee confirmed consent to the recording and transcription of this meeting.\n\n")
	} else {
		b.WriteString("Consent to recording was not confirmed; these minutes were produced from the note-taker's record.\n\n")
	}

	b.WriteString("### Allegations / Concerns\n")
	if m.CaseRef != "" {
		fmt.Fprintf(b, "As set out in the meeting invitation and case file %s.\n\n", m.CaseRef)
	} else {
		b.WriteString("As set out in the meeting invitation and case file.\n\n")
	}
	b.WriteString("### Evidence Presented\n")
	b.WriteString("Documented evidence was referenced during the meeting; see the case file.\n\n")
	b.WriteString("### Employee Response & Mitigation\n")
	b.WriteString("The employee's responses are recorded in the discussion summary above.\n\n")
	b.WriteString("### Outcome\n")
	b.WriteString("Outcome to be confirmed in writing.\n\n")
	b.WriteString("### Right of Appeal\n")
	b.WriteString("The employee was advised of the right of appeal in line with company procedure.\n")
}

func typeDisplay(t meeting.Type) string {
	switch t {
	case meeting.TypeOneOnOne:
		return "One-to-One"
	case meeting.TypeTeam:
		return "Team Meeting"
	case meeting.TypeDisciplinary:
		return "Disciplinary Hearing"
	case meeting.TypeInvestigation:
		return "Investigation Meeting"
	}
	return titleCaser.String(strings.ReplaceAll(string(t), "_", " "))
}

func orNotStated(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not stated"
	}
	return s
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
