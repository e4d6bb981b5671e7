// Package minutes compiles a raw dictated transcript into structured meeting
// minutes: preprocessing, unit splitting, classification, consolidation, and
// document rendering. The whole pipeline is deterministic and rule-based so
// the same transcript always produces the same minutes.
package minutes

import (
	"regexp"
	"strings"
)

// boundaryMarker is the synthetic unit boundary inserted before transition
// cues. ASCII unit separator, which never occurs in dictated text.
const boundaryMarker = "\x1f"

var camelBoundaryRegex = regexp.MustCompile(`([a-z])([A-Z])`)

var fillerRegex = phraseSetRegex(fillerWords)

// phraseSetRegex compiles a case-insensitive whole-word alternation for a
// phrase list. Spaces inside phrases match any run of whitespace.
func phraseSetRegex(phrases []string) *regexp.Regexp {
	parts := make([]string, len(phrases))
	for i, p := range phrases {
		parts[i] = strings.ReplaceAll(regexp.QuoteMeta(p), ` `, `\s+`)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(parts, "|") + `)\b`)
}

var transitionRegexes = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(transitionCues))
	for i, cue := range transitionCues {
		quoted := strings.ReplaceAll(regexp.QuoteMeta(cue), ` `, `\s+`)
		// Require preceding whitespace so a cue opening the transcript does
		// not get a boundary in front of it.
		out[i] = regexp.MustCompile(`(?i)(\s)(` + quoted + `)\b`)
	}
	return out
}()

// Preprocess cleans raw dictation for splitting: speech artifacts out,
// boilerplate off both ends, synthetic boundaries in.
func Preprocess(text string) string {
	// Dictation engines sometimes glue words across utterance boundaries
	// ("reportFirstly"). Split on the case flip.
	text = camelBoundaryRegex.ReplaceAllString(text, "$1 $2")

	text = fillerRegex.ReplaceAllString(text, " ")
	text = collapseStutters(text)
	text = stripGreetings(text)
	text = stripSignoffs(text)

	for _, re := range transitionRegexes {
		text = re.ReplaceAllString(text, "$1"+boundaryMarker+"$2")
	}

	return strings.Join(strings.Fields(text), " ")
}

// collapseStutters drops immediately repeated words ("the the report").
// Comparison ignores case and surrounding punctuation; the later occurrence
// wins so its punctuation is kept.
func collapseStutters(text string) string {
	words := strings.Fields(text)
	out := make([]string, 0, len(words))
	for _, w := range words {
		bare := trimWordPunct(w)
		if len(out) > 0 && bare != "" && strings.EqualFold(trimWordPunct(out[len(out)-1]), bare) {
			out[len(out)-1] = w
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

func trimWordPunct(w string) string {
	return strings.Trim(w, ".,;:!?\"'")
}

// stripGreetings removes boilerplate opener phrases from the front of the
// transcript, repeatedly, so stacked greetings all go.
func stripGreetings(text string) string {
	for {
		trimmed := strings.TrimLeft(text, " \t\n.,!?;:")
		lower := strings.ToLower(trimmed)
		stripped := false
		for _, phrase := range greetingPhrases {
			if strings.HasPrefix(lower, phrase) && wordBoundaryAfter(lower, len(phrase)) {
				text = trimmed[len(phrase):]
				stripped = true
				break
			}
		}
		if !stripped {
			return trimmed
		}
	}
}

// stripSignoffs removes boilerplate closer phrases from the end.
func stripSignoffs(text string) string {
	for {
		trimmed := strings.TrimRight(text, " \t\n.,!?;:")
		lower := strings.ToLower(trimmed)
		stripped := false
		for _, phrase := range signoffPhrases {
			if strings.HasSuffix(lower, phrase) && wordBoundaryBefore(lower, len(lower)-len(phrase)) {
				text = trimmed[:len(trimmed)-len(phrase)]
				stripped = true
				break
			}
		}
		if !stripped {
			return trimmed
		}
	}
}

func wordBoundaryAfter(s string, i int) bool {
	return i >= len(s) || !isWordByte(s[i])
}

func wordBoundaryBefore(s string, i int) bool {
	return i == 0 || !isWordByte(s[i-1])
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
