package meeting

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Transcript is a parsed transcript file, flattened for the minutes compiler.
type Transcript struct {
	Segments        []TranscriptSegment
	Speakers        []string
	DurationSeconds int
	FullText        string
	Format          string // "vtt", "txt"
}

// TranscriptSegment is a single timed utterance from a transcript file.
type TranscriptSegment struct {
	Speaker string
	Text    string
	StartMs int
	EndMs   int
}

// Transcript parsing regular expressions.
var (
	// Matches a cue timing line: 00:00:05.579 --> 00:00:06.858
	vttTimingRegex = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2}\.\d{3})\s+-->\s+(\d{2}:\d{2}:\d{2}\.\d{3})`)

	// Matches a voice tag: <v Speaker Name>text
	vttVoiceRegex = regexp.MustCompile(`^<v\s+([^>]+)>\s*(.*?)(?:</v>)?$`)

	// Matches a plain-text transcript line: 0:11 : Speaker Name : text
	txtLineRegex = regexp.MustCompile(`^(\d+):(\d{2})\s*:\s*([^:]+?)\s*:\s*(.+)$`)
)

// ParseVTT parses a WebVTT transcript export.
func ParseVTT(r io.Reader) (*Transcript, error) {
	scanner := bufio.NewScanner(r)
	result := &Transcript{
		Segments: make([]TranscriptSegment, 0),
		Speakers: make([]string, 0),
		Format:   "vtt",
	}

	speakerSet := make(map[string]bool)
	var textBuilder strings.Builder
	var current *TranscriptSegment
	var lastEndMs int

	flush := func() {
		if current != nil && current.Text != "" {
			result.Segments = append(result.Segments, *current)
		}
		current = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// A blank line terminates the current cue.
		if line == "" {
			flush()
			continue
		}
		if line == "WEBVTT" || strings.HasPrefix(line, "NOTE") {
			continue
		}

		if matches := vttTimingRegex.FindStringSubmatch(line); matches != nil {
			flush()
			startMs := parseVTTTimestamp(matches[1])
			endMs := parseVTTTimestamp(matches[2])
			current = &TranscriptSegment{StartMs: startMs, EndMs: endMs}
			if endMs > lastEndMs {
				lastEndMs = endMs
			}
			continue
		}

		// Bare cue identifiers precede timing lines; skip them.
		if current == nil {
			continue
		}

		text := line
		if matches := vttVoiceRegex.FindStringSubmatch(line); matches != nil {
			speaker := strings.TrimSpace(matches[1])
			text = matches[2]
			current.Speaker = speaker
			if speaker != "" && !speakerSet[speaker] {
				speakerSet[speaker] = true
				result.Speakers = append(result.Speakers, speaker)
			}
		}
		if text == "" {
			continue
		}

		if current.Text != "" {
			current.Text += " "
		}
		current.Text += text

		if textBuilder.Len() > 0 {
			textBuilder.WriteString(" ")
		}
		textBuilder.WriteString(text)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	result.DurationSeconds = lastEndMs / 1000
	result.FullText = textBuilder.String()
	return result, nil
}

// ParseTXT parses a plain-text transcript with "M:SS : Speaker : text" lines.
// Malformed lines are skipped.
func ParseTXT(r io.Reader) (*Transcript, error) {
	scanner := bufio.NewScanner(r)
	result := &Transcript{
		Segments: make([]TranscriptSegment, 0),
		Speakers: make([]string, 0),
		Format:   "txt",
	}

	speakerSet := make(map[string]bool)
	var textBuilder strings.Builder
	var lastMs int

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		matches := txtLineRegex.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		minutes, _ := strconv.Atoi(matches[1])
		seconds, _ := strconv.Atoi(matches[2])
		speaker := strings.TrimSpace(matches[3])
		text := strings.TrimSpace(matches[4])

		ms := (minutes*60 + seconds) * 1000
		result.Segments = append(result.Segments, TranscriptSegment{
			Speaker: speaker,
			Text:    text,
			StartMs: ms,
			EndMs:   ms,
		})

		if !speakerSet[speaker] {
			speakerSet[speaker] = true
			result.Speakers = append(result.Speakers, speaker)
		}
		if ms > lastMs {
			lastMs = ms
		}

		if textBuilder.Len() > 0 {
			textBuilder.WriteString(" ")
		}
		textBuilder.WriteString(text)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	result.DurationSeconds = lastMs / 1000
	result.FullText = textBuilder.String()
	return result, nil
}

// ParseTranscriptFile picks a parser from the file name extension.
func ParseTranscriptFile(name string, r io.Reader) (*Transcript, error) {
	if strings.HasSuffix(strings.ToLower(name), ".vtt") {
		return ParseVTT(r)
	}
	return ParseTXT(r)
}

// parseVTTTimestamp parses a VTT timestamp (HH:MM:SS.mmm) to milliseconds.
func parseVTTTimestamp(ts string) int {
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0
	}

	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])

	secParts := strings.Split(parts[2], ".")
	seconds, _ := strconv.Atoi(secParts[0])
	milliseconds := 0
	if len(secParts) > 1 {
		milliseconds, _ = strconv.Atoi(secParts[1])
	}

	return hours*3600000 + minutes*60000 + seconds*1000 + milliseconds
}
