package minutes

import "regexp"

// Fixed lookup tables for the transcript pipeline. They are plain data so
// the classification logic that consumes them can be tested and extended
// independently.

// fillerWords are removed as whole-word matches before splitting.
var fillerWords = []string{
	"um", "uh", "erm", "hmm",
	"you know", "i mean", "sort of", "kind of",
	"basically", "literally", "like",
}

// greetingPhrases are stripped from the front of a transcript.
var greetingPhrases = []string{
	"good morning everyone", "good morning all", "good morning",
	"good afternoon everyone", "good afternoon",
	"hello everyone", "hello all", "hi everyone", "hi all", "hi team",
	"thanks for joining", "thank you for joining",
	"thanks for coming", "thank you all for coming",
	"welcome everybody", "welcome everyone",
	"right then", "okay so", "so",
}

// signoffPhrases are stripped from the end of a transcript.
var signoffPhrases = []string{
	"thanks everyone", "thank you everyone", "thanks all", "thank you all",
	"that's all for today", "that is all for today", "that's everything",
	"see you next week", "see you all next week", "see you tomorrow",
	"have a good day", "have a great day",
	"meeting adjourned", "goodbye", "bye",
}

// transitionCues receive an inserted sentence boundary. This is what makes
// unpunctuated dictation segmentable.
var transitionCues = []string{
	"firstly", "secondly", "thirdly", "lastly", "finally",
	"moving on", "next up", "on another note", "one more thing",
	"another thing", "also", "however", "additionally", "furthermore",
	"going forward", "to summarise", "to summarize", "in terms of",
	"i need you to", "i want you to", "we need to", "we must",
	"i would like you to", "i'd like you to",
}

// noisePhrases are conversational acknowledgements rejected outright.
var noisePhrases = map[string]bool{
	"yes": true, "yeah": true, "no": true, "okay": true, "ok": true,
	"sure": true, "right": true, "fine": true, "good": true, "great": true,
	"alright": true, "thanks": true, "thank you": true, "got it": true,
	"sounds good": true, "will do": true, "understood": true,
	"no problem": true, "exactly": true, "absolutely": true,
	"any questions": true, "makes sense": true,
}

// danglingEnders mark a structurally incomplete unit when they are the last
// word: prepositions, conjunctions, relative pronouns, articles.
var danglingEnders = map[string]bool{
	"on": true, "in": true, "at": true, "to": true, "of": true,
	"with": true, "by": true, "for": true, "from": true, "about": true,
	"into": true, "over": true, "under": true, "and": true, "or": true,
	"but": true, "so": true, "because": true, "that": true, "which": true,
	"who": true, "whom": true, "whose": true, "the": true, "a": true,
	"an": true, "if": true, "when": true, "while": true, "as": true,
	"than": true, "then": true,
}

// bareTrailingVerbs mark a unit ending on a verb with no object.
var bareTrailingVerbs = map[string]bool{
	"touch": true, "discuss": true, "review": true, "mention": true,
	"cover": true, "address": true, "consider": true, "check": true,
	"look": true, "go": true, "talk": true, "speak": true, "think": true,
	"say": true, "note": true, "raise": true, "do": true, "see": true,
}

// subordinateStarters open a clause that needs a continuation.
var subordinateStarters = []string{
	"because", "although", "though", "whereas", "since",
	"unless", "whilst", "while", "if",
}

// directiveCues signal an actionable instruction. Matched as whole words or
// phrases, combined with an agent cue.
var directiveCues = []string{
	"need to", "needs to", "must", "should", "have to", "has to",
	"ensure", "make sure", "complete", "finish", "submit", "send",
	"prepare", "review", "schedule", "organise", "organize", "arrange",
	"update", "follow up", "chase", "contact", "email", "call", "book",
	"fix", "resolve", "deliver", "draft", "circulate", "share",
	"confirm", "report", "arrive", "attend",
}

// agentCues reference someone an action can be assigned to.
var agentCues = []string{
	"you", "we", "i", "everyone", "team", "staff", "somebody", "someone",
	"everybody", "all of you", "each of you",
}

// decisionCues signal an explicit decision.
var decisionCues = []string{
	"decided", "agreed", "resolved", "concluded",
	"approved", "confirmed", "determined",
}

// socialClauses trail real instructions and are cut off.
var socialClauses = []string{
	"if you want", "if that's okay", "if that is okay", "if that works",
	"or something", "or whatever", "when you get a chance", "no pressure",
	"and then we can", "have a coffee", "grab a coffee",
}

// hedgeWords soften instructions and are trimmed from action text.
var hedgeWords = []string{
	"maybe", "perhaps", "possibly", "probably", "i think", "i guess",
}

// directiveRewrites canonicalize second-person directives to third-person
// imperatives. The matched phrase and everything before it is replaced by
// the prefix; the remainder becomes the task.
var directiveRewrites = []struct {
	Phrase string
	Prefix string
}{
	{"i need you to ", "Team to "},
	{"i want you to ", "Team to "},
	{"i would like you to ", "Team to "},
	{"i'd like you to ", "Team to "},
	{"you need to ", "Team to "},
	{"you should ", "Team to "},
	{"you must ", "Team to "},
	{"can you ", "Team to "},
	{"could you ", "Team to "},
	{"we need to ", "Team to "},
	{"we should ", "Team to "},
	{"we must ", "Team to "},
	{"we have to ", "Team to "},
	{"i will ", "Manager to "},
	{"i'll ", "Manager to "},
}

// punctualityPattern collapses the many phrasings of "turn up on time" into
// one canonical action.
var punctualityPattern = regexp.MustCompile(`(?i)\b(arrive|be|turn up|show up|get here|clock in)\b.{0,40}\bon time\b|\bpunctual`)

// punctualityAction is the canonical punctuality action string.
const punctualityAction = "All staff to arrive on time for scheduled shifts"

// deadlinePatterns map deadline phrasings to a canonical deadline string.
// $1 in Canonical substitutes the first capture group, title-cased.
var deadlinePatterns = []struct {
	Pattern   *regexp.Regexp
	Canonical string
}{
	{regexp.MustCompile(`(?i)\b(?:by|before|on) (monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`), "$1"},
	{regexp.MustCompile(`(?i)\bnext (week|month|monday|tuesday|wednesday|thursday|friday)\b`), "next $1"},
	{regexp.MustCompile(`(?i)\bend of (?:the )?week\b`), "End of week"},
	{regexp.MustCompile(`(?i)\bend of (?:the )?day\b`), "End of day"},
	{regexp.MustCompile(`(?i)\bend of (?:the )?month\b`), "End of month"},
	{regexp.MustCompile(`(?i)\beod\b`), "EOD"},
	{regexp.MustCompile(`(?i)\beow\b`), "End of week"},
	{regexp.MustCompile(`(?i)\beom\b`), "End of month"},
	{regexp.MustCompile(`(?i)\btomorrow\b`), "Tomorrow"},
	{regexp.MustCompile(`(?i)\btoday\b`), "Today"},
	{regexp.MustCompile(`(?i)\basap\b`), "ASAP"},
}

// discussionRewrites turn first-person narration into minute-taking voice.
// First match at the start of the unit wins.
var discussionRewrites = []struct {
	Phrase      string
	Replacement string
}{
	{"we discussed ", "Discussion covered "},
	{"we talked about ", "Discussion covered "},
	{"we went over ", "Discussion covered "},
	{"we looked at ", "The team reviewed "},
	{"i noted ", "Noted: "},
	{"i mentioned ", "Noted: "},
	{"i raised ", "Raised: "},
	{"i want to talk about ", "Topic raised: "},
	{"i want to discuss ", "Topic raised: "},
	{"i think ", "It was noted that "},
	{"we think ", "The view was that "},
	{"we believe ", "The view was that "},
}

// trailingHedges are cut from the end of discussion points.
var trailingHedges = []string{
	", i think", ", i guess", ", i suppose", " i think", " i suppose",
	" or something", " if that makes sense", " and so on", " and stuff",
}

// topicKeywords maps keywords to topic buckets. First matching entry wins;
// points with no match land in the default topic.
var topicKeywords = []struct {
	Keywords []string
	Topic    string
}{
	{[]string{"sales", "revenue", "customer", "customers", "client", "clients", "pipeline", "deal", "deals"}, "Sales & Business Development"},
	{[]string{"shift", "shifts", "punctual", "punctuality", "attendance", "late", "lateness", "rota", "absence", "holiday", "leave"}, "Attendance & Scheduling"},
	{[]string{"budget", "cost", "costs", "finance", "expense", "expenses", "spend", "invoice"}, "Finance"},
	{[]string{"hire", "hiring", "recruit", "recruitment", "staffing", "training", "onboarding"}, "People & Development"},
	{[]string{"safety", "incident", "compliance", "audit", "policy"}, "Compliance & Safety"},
	{[]string{"project", "projects", "deadline", "deadlines", "delivery", "milestone", "milestones", "launch"}, "Projects & Delivery"},
}

// defaultTopic is the bucket for unmatched discussion points.
const defaultTopic = "General Matters"
