package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/minutedesk/mins-cli/config"
	"github.com/minutedesk/mins-cli/pkg/live"
	"github.com/minutedesk/mins-cli/pkg/logging"
	"github.com/minutedesk/mins-cli/pkg/meeting"
	"github.com/minutedesk/mins-cli/pkg/store"
	"github.com/minutedesk/mins-cli/pkg/transcribe"
)

// Record command flags.
var (
	recordTitle     string
	recordType      string
	recordTime      string
	recordLocation  string
	recordCaseRef   string
	recordConsent   bool
	recordAttendees []string
)

// NewRecordCommand creates the 'record' command.
func NewRecordCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a meeting and capture a live transcript",
		Long: `Record a meeting via typed dictation. Each line you enter is committed
to the transcript; the accumulator deduplicates repeated and overlapping
recognition results so the transcript stays stable.

Session directives (lines starting with ':'):
  :pause            pause the recording clock and engine
  :resume           resume after a pause
  :mark <type> [note]  add a timestamped marker (decision, action, keypoint)
  :status           show the elapsed clock and transcript size
  :stop             end the session and save the meeting

Examples:
  # Record a team meeting
  mins record --title "Weekly sync" --type team

  # Record a disciplinary hearing with attendees
  mins record --title "Hearing" --type disciplinary --case-ref HR-2026-014 \
    --consent --attendee "Sarah Lane:Chair" --attendee "Tom Hale:Employee"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd.Context(), deps)
		},
	}

	cmd.Flags().StringVarP(&recordTitle, "title", "t", "", "Meeting title (required)")
	cmd.Flags().StringVar(&recordType, "type", string(meeting.TypeTeam), "Meeting type: one_on_one, team, disciplinary, investigation")
	cmd.Flags().StringVar(&recordTime, "time", "", "Meeting start time, e.g. 14:00")
	cmd.Flags().StringVar(&recordLocation, "location", "", "Meeting location")
	cmd.Flags().StringVar(&recordCaseRef, "case-ref", "", "HR case reference (disciplinary/investigation)")
	cmd.Flags().BoolVar(&recordConsent, "consent", false, "Recording consent confirmed by attendees")
	cmd.Flags().StringArrayVar(&recordAttendees, "attendee", nil, "Attendee as \"Name:Role\" (repeatable)")

	cmd.MarkFlagRequired("title")

	return cmd
}

// runRecord drives a recording session from the input stream to a saved
// draft meeting.
func runRecord(ctx context.Context, deps *Deps) error {
	mtype := meeting.Type(recordType)
	if !mtype.Valid() {
		return fmt.Errorf("invalid meeting type %q (valid: one_on_one, team, disciplinary, investigation)", recordType)
	}

	m := meeting.New(recordTitle, mtype)
	m.StartTime = recordTime
	m.Location = recordLocation
	m.CaseRef = recordCaseRef
	m.ConsentConfirmed = recordConsent

	attendees, err := parseAttendees(recordAttendees)
	if err != nil {
		return err
	}
	m.Attendees = attendees

	if mtype.IsHRCase() && m.CaseRef == "" {
		deps.logger().Warn("no case reference set for HR case meeting", logging.F("type", string(mtype)))
	}

	sessionLog, closeLog, err := sessionLogger(deps, m.ID)
	if err != nil {
		return err
	}
	defer closeLog()

	publisher := deps.NewPublisher()
	defer publisher.Close()

	// Snapshots publish from their own goroutine so a slow Redis can never
	// stall the session's event path or the elapsed-clock tick.
	stream := live.NewStream(func(snap transcribe.Snapshot) {
		publisher.Publish(ctx, m.ID, snap)
	})
	defer stream.Close()

	metrics := transcribe.NewMetrics("mins")
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("registering session metrics: %w", err)
	}

	engine := deps.NewEngine()
	session := transcribe.NewSession(transcribe.SessionConfig{
		Engine:       engine,
		Logger:       sessionLog,
		RestartDelay: deps.Config.RestartDelay,
		Metrics:      metrics,
		OnUpdate: stream.Send,
	})

	out := deps.output()
	interactive := false
	if f, ok := deps.In.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}

	if err := session.Start(); err != nil {
		return fmt.Errorf("starting recording: %w", err)
	}
	if interactive {
		fmt.Fprintf(out, "Recording %q (%s). Type dictation lines; ':stop' to finish.\n", m.Title, typeDisplayName(mtype))
	}

	scanner := bufio.NewScanner(deps.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			// A blank line mimics the engine ending on silence; the session
			// restarts it after the debounce delay.
			engine.EndUtterance()
			continue
		}
		if strings.HasPrefix(line, ":") {
			stop, derr := handleDirective(session, out, line)
			if derr != nil {
				fmt.Fprintf(out, "! %v\n", derr)
			}
			if stop {
				break
			}
			continue
		}
		engine.Feed(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading dictation input: %w", err)
	}

	// EOF without :stop still ends the session cleanly.
	snap := session.Snapshot()
	if snap.State == transcribe.StateRecording || snap.State == transcribe.StatePaused {
		if err := session.Stop(); err != nil {
			return fmt.Errorf("stopping session: %w", err)
		}
	}

	snap = session.Snapshot()
	m.TranscriptText = snap.Transcript

	if err := withStore(ctx, deps, func(s store.MeetingStore) error {
		return s.Save(ctx, m)
	}); err != nil {
		return fmt.Errorf("saving meeting: %w", err)
	}

	fmt.Fprintf(out, "\nSession complete: %s recorded, %d characters of transcript.\n",
		snap.ElapsedDisplay, len(snap.Transcript))
	for _, marker := range snap.Markers {
		fmt.Fprintf(out, "  [%s] %s %s\n", transcribe.FormatElapsed(marker.TimestampSeconds), marker.Type, marker.Note)
	}
	fmt.Fprintf(out, "Saved meeting %s\n", m.ID)
	fmt.Fprintf(out, "Compile minutes with: mins compile %s\n", m.ID)
	return nil
}

// handleDirective executes one ':' line. Returns true when the session
// should end.
func handleDirective(session *transcribe.Session, out io.Writer, line string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":stop":
		return true, nil
	case ":pause":
		if err := session.Pause(); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "paused at %s\n", session.Snapshot().ElapsedDisplay)
	case ":resume":
		if err := session.Resume(); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "resumed at %s\n", session.Snapshot().ElapsedDisplay)
	case ":mark":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: :mark <decision|action|keypoint> [note]")
		}
		note := strings.Join(fields[2:], " ")
		marker, err := session.AddMarker(meeting.MarkerType(fields[1]), note)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(out, "marked %s at %s\n", marker.Type, transcribe.FormatElapsed(marker.TimestampSeconds))
	case ":status":
		snap := session.Snapshot()
		fmt.Fprintf(out, "%s %s, %d characters, %d markers\n",
			snap.ElapsedDisplay, snap.State, len(snap.Transcript), len(snap.Markers))
		if snap.LastError != "" {
			fmt.Fprintf(out, "last error: %s\n", snap.LastError)
		}
	default:
		return false, fmt.Errorf("unknown directive %s", fields[0])
	}
	return false, nil
}

// parseAttendees parses repeated --attendee "Name:Role" flags.
func parseAttendees(raw []string) ([]meeting.Attendee, error) {
	var attendees []meeting.Attendee
	for _, entry := range raw {
		name, role, found := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		role = strings.TrimSpace(role)
		if !found || name == "" || role == "" {
			return nil, fmt.Errorf("invalid attendee %q (expected \"Name:Role\")", entry)
		}
		attendees = append(attendees, meeting.Attendee{Name: name, Role: role})
	}
	return attendees, nil
}

// sessionLogger builds the session audit logger. When session_log_dir is
// configured every session gets its own append-only log file.
func sessionLogger(deps *Deps, meetingID string) (logging.Logger, func(), error) {
	if deps.Config.SessionLogDir == "" {
		return deps.logger(), func() {}, nil
	}

	dir, err := config.ExpandPath(deps.Config.SessionLogDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving session log dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating session log dir: %w", err)
	}

	path := filepath.Join(dir, "session-"+meetingID+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening session log: %w", err)
	}

	sink := logging.NewSessionSink(f)
	level := logging.LevelInfo
	if deps.Config.Debug {
		level = logging.LevelDebug
	}
	log := logging.NewLogger(&logging.Config{
		Level:     level,
		Component: "recorder",
		Output:    os.Stderr,
		Sinks:     []logging.Sink{sink},
	})

	closeAll := func() {
		sink.Flush()
		sink.Close()
		f.Close()
	}
	return log, closeAll, nil
}

// typeDisplayName is the human form of a meeting type for status lines.
func typeDisplayName(t meeting.Type) string {
	switch t {
	case meeting.TypeOneOnOne:
		return "one-to-one"
	case meeting.TypeDisciplinary:
		return "disciplinary hearing"
	case meeting.TypeInvestigation:
		return "investigation meeting"
	default:
		return "team meeting"
	}
}
