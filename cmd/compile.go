package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minutedesk/mins-cli/pkg/logging"
	"github.com/minutedesk/mins-cli/pkg/meeting"
	"github.com/minutedesk/mins-cli/pkg/minutes"
	"github.com/minutedesk/mins-cli/pkg/store"
)

// Compile command flags.
var (
	compileComplete bool
	compileQuiet    bool
	compileFile     string
	compileTitle    string
	compileType     string
)

// NewCompileCommand creates the 'compile' command.
func NewCompileCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [meeting-id]",
		Short: "Compile a meeting transcript into structured minutes",
		Long: `Compile a meeting's transcript into structured markdown minutes.

The transcript is cleaned (fillers, stutters, greetings), split into units,
and each unit is classified as an action item, a decision, or a discussion
point. Near-duplicate content is consolidated. Action items already stored
on the meeting survive recompilation unchanged.

With --file, the transcript is read from a WebVTT (.vtt) or plain-text
export instead of a recording session. Without a meeting id a new meeting
is created for it.

Examples:
  # Compile and print the minutes
  mins compile 7d8e1f

  # Compile and mark the meeting completed
  mins compile 7d8e1f --complete

  # Compile an exported recording into a new meeting
  mins compile --file weekly-sync.vtt --title "Weekly sync"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			return runCompile(cmd.Context(), deps, id)
		},
	}

	cmd.Flags().BoolVar(&compileComplete, "complete", false, "Mark the meeting completed after compiling")
	cmd.Flags().BoolVarP(&compileQuiet, "quiet", "q", false, "Suppress the rendered minutes, print only the summary")
	cmd.Flags().StringVar(&compileFile, "file", "", "Compile a transcript file (.vtt or .txt) instead of a recorded session")
	cmd.Flags().StringVar(&compileTitle, "title", "", "Title for the meeting created from --file")
	cmd.Flags().StringVar(&compileType, "type", string(meeting.TypeTeam), "Type for the meeting created from --file")

	return cmd
}

// runCompile loads or builds the meeting, compiles its minutes, and
// persists the result.
func runCompile(ctx context.Context, deps *Deps, id string) error {
	if id == "" && compileFile == "" {
		return fmt.Errorf("provide a meeting id or --file")
	}

	return withStore(ctx, deps, func(s store.MeetingStore) error {
		m, err := compileTarget(ctx, s, id)
		if err != nil {
			return err
		}
		log := deps.logger().With(logging.F("meeting_id", m.ID))

		doc, actions := minutes.Compile(ctx, m)
		m.MinutesText = doc
		m.Actions = actions
		if compileComplete {
			m.Status = meeting.StatusCompleted
		}

		if err := s.Save(ctx, m); err != nil {
			return fmt.Errorf("saving minutes: %w", err)
		}

		log.Info("minutes compiled",
			logging.F("actions", len(actions)),
			logging.F("bytes", len(doc)),
			logging.F("status", string(m.Status)))

		out := deps.output()
		if !compileQuiet {
			fmt.Fprintln(out, doc)
		}
		fmt.Fprintf(out, "Compiled minutes for %q: %d action item(s), status %s.\n",
			m.Title, len(actions), m.Status)
		return nil
	})
}

// compileTarget resolves the meeting to compile: a stored meeting, a stored
// meeting with its transcript replaced from --file, or a fresh meeting built
// around the file transcript.
func compileTarget(ctx context.Context, s store.MeetingStore, id string) (*meeting.Meeting, error) {
	var m *meeting.Meeting
	if id != "" {
		loaded, err := s.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("loading meeting: %w", err)
		}
		m = loaded
	}

	if compileFile == "" {
		return m, nil
	}

	f, err := os.Open(compileFile)
	if err != nil {
		return nil, fmt.Errorf("opening transcript file: %w", err)
	}
	defer f.Close()

	transcript, err := meeting.ParseTranscriptFile(compileFile, f)
	if err != nil {
		return nil, fmt.Errorf("parsing transcript file: %w", err)
	}
	if transcript.FullText == "" {
		return nil, fmt.Errorf("no transcript content in %s", compileFile)
	}

	if m == nil {
		title := compileTitle
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(compileFile), filepath.Ext(compileFile))
		}
		mtype := meeting.Type(compileType)
		if !mtype.Valid() {
			return nil, fmt.Errorf("invalid meeting type %q", compileType)
		}
		m = meeting.New(title, mtype)
		for _, speaker := range transcript.Speakers {
			m.Attendees = append(m.Attendees, meeting.Attendee{Name: speaker, Role: "Participant"})
		}
	}
	m.TranscriptText = transcript.FullText
	return m, nil
}
