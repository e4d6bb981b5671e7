package minutes

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/minutedesk/mins-cli/pkg/meeting"
	"github.com/minutedesk/mins-cli/pkg/similarity"
)

// Discussion point length bounds after rewriting.
const (
	discussionMinLen = 15
	discussionMaxLen = 160
)

var (
	directiveRegex = phraseSetRegex(directiveCues)
	agentRegex     = phraseSetRegex(agentCues)
	hedgeRegex     = phraseSetRegex(hedgeWords)

	numericOnlyRegex = regexp.MustCompile(`^[0-9 ]+$`)

	decisionLeadRegex = regexp.MustCompile(`(?i)\b(?:decided|agreed|resolved|concluded|approved|confirmed|determined)\b(?:\s+(?:that|to|on))?\s+`)

	hrOwnerRegex      = regexp.MustCompile(`(?i)\b(?:hr|human resources)\b`)
	managerOwnerRegex = regexp.MustCompile(`(?i)\b(?:i will|i'll)\b`)
	allOwnerRegex     = regexp.MustCompile(`(?i)\b(?:we will|we'll|everyone|everybody|all staff|all of us)\b`)

	titleCaser = cases.Title(language.BritishEnglish)
)

// isNoise reports whether the unit is a bare acknowledgement or numeric
// debris with no minute-worthy content.
func isNoise(unit string) bool {
	n := similarity.Normalize(unit)
	return n == "" || noisePhrases[n] || numericOnlyRegex.MatchString(n)
}

// isFragment reports whether the unit is structurally incomplete: it ends on
// a dangling preposition or bare verb, or opens a subordinate clause that
// never resolves.
func isFragment(unit string) bool {
	words := strings.Fields(similarity.Normalize(unit))
	if len(words) == 0 {
		return true
	}
	last := words[len(words)-1]
	if danglingEnders[last] || bareTrailingVerbs[last] {
		return true
	}
	for _, s := range subordinateStarters {
		if words[0] == s && len(words) < 4 {
			return true
		}
	}
	return false
}

// extractAction pulls an action item out of a unit containing both a
// directive cue and an agent cue. The unit is cleaned (social clauses cut,
// hedges trimmed), canonicalized to third person, and gated on length.
func extractAction(unit string) (meeting.ActionItem, bool) {
	if !directiveRegex.MatchString(unit) || !agentRegex.MatchString(unit) {
		return meeting.ActionItem{}, false
	}

	text := cutSocialClauses(unit)
	owner := inferOwner(text)
	deadline := extractDeadline(text)

	if punctualityPattern.MatchString(text) {
		item, err := meeting.NewActionItem(punctualityAction, "All", deadline)
		if err != nil {
			return meeting.ActionItem{}, false
		}
		return item, true
	}

	text = hedgeRegex.ReplaceAllString(text, " ")
	lower := strings.ToLower(text)
	for _, rw := range directiveRewrites {
		if idx := strings.Index(lower, rw.Phrase); idx >= 0 {
			text = rw.Prefix + text[idx+len(rw.Phrase):]
			break
		}
	}

	item, err := meeting.NewActionItem(tidyClause(text), owner, deadline)
	if err != nil {
		return meeting.ActionItem{}, false
	}
	return item, true
}

// cutSocialClauses drops the pleasantry tail from an instruction ("...and
// then we can grab a coffee").
func cutSocialClauses(text string) string {
	lower := strings.ToLower(text)
	cut := len(text)
	for _, clause := range socialClauses {
		if idx := strings.Index(lower, clause); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	text = text[:cut]
	return strings.TrimRight(strings.TrimSpace(text), ",;:")
}

// inferOwner maps pronoun usage to an owner. HR references beat everything;
// a first-person commitment is the manager's own action; first-person-plural
// commitments belong to all attendees. Empty means the caller's default.
func inferOwner(text string) string {
	switch {
	case hrOwnerRegex.MatchString(text):
		return "HR"
	case managerOwnerRegex.MatchString(text):
		return "Manager"
	case allOwnerRegex.MatchString(text):
		return "All"
	}
	return ""
}

// extractDeadline returns the canonical deadline for the first matching
// deadline phrasing, or "".
func extractDeadline(text string) string {
	for _, dp := range deadlinePatterns {
		m := dp.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		out := dp.Canonical
		if strings.Contains(out, "$1") {
			repl := strings.ToLower(m[1])
			if repl != "week" && repl != "month" {
				repl = titleCaser.String(repl)
			}
			out = strings.Replace(out, "$1", repl, 1)
		}
		return capitalizeFirst(out)
	}
	return ""
}

// extractDecision strips the agent+verb lead ("we agreed that") and keeps
// the remainder as the decision text.
func extractDecision(unit string) (string, bool) {
	loc := decisionLeadRegex.FindStringIndex(unit)
	if loc == nil {
		return "", false
	}
	rest := strings.TrimSpace(unit[loc[1]:])
	if len(rest) < meeting.ActionMinLen || len(rest) > meeting.ActionMaxLen {
		return "", false
	}
	return ensureSentence(rest), true
}

// rewriteDiscussion converts first-person narration into minute-taking
// voice and gates the result on completeness and length.
func rewriteDiscussion(unit string) (string, bool) {
	point := unit
	lower := strings.ToLower(unit)
	for _, rw := range discussionRewrites {
		if strings.HasPrefix(lower, rw.Phrase) {
			point = rw.Replacement + unit[len(rw.Phrase):]
			break
		}
	}

	for changed := true; changed; {
		changed = false
		lp := strings.ToLower(point)
		for _, h := range trailingHedges {
			if strings.HasSuffix(lp, h) {
				point = strings.TrimSpace(point[:len(point)-len(h)])
				changed = true
				break
			}
		}
	}

	// Hedge trimming can expose a new dangling ending; re-check.
	if isFragment(point) {
		return "", false
	}
	point = ensureSentence(point)
	if len(point) < discussionMinLen || len(point) > discussionMaxLen {
		return "", false
	}
	return point, true
}

// topicFor buckets a discussion point by keyword.
func topicFor(point string) string {
	words := make(map[string]bool)
	for _, w := range strings.Fields(similarity.Normalize(point)) {
		words[w] = true
	}
	for _, row := range topicKeywords {
		for _, kw := range row.Keywords {
			if words[kw] {
				return row.Topic
			}
		}
	}
	return defaultTopic
}

// tidyClause normalizes spacing, strips trailing punctuation, and
// capitalizes. Used for action text, which carries no terminal period.
func tidyClause(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = strings.TrimRight(text, ".,;:!? ")
	return capitalizeFirst(text)
}

// ensureSentence is tidyClause plus a terminal period.
func ensureSentence(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = strings.TrimRight(text, ",;: ")
	text = capitalizeFirst(text)
	if text != "" && !strings.ContainsAny(text[len(text)-1:], ".?!") {
		text += "."
	}
	return text
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
