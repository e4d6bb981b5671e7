package transcribe

import (
	"fmt"
	"sync"
	"time"

	mnerrors "github.com/minutedesk/mins-cli/pkg/errors"
	"github.com/minutedesk/mins-cli/pkg/logging"
	"github.com/minutedesk/mins-cli/pkg/meeting"
)

// State is the recording session lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StatePaused    State = "paused"
	StateStopped   State = "stopped"
)

// DefaultRestartDelay debounces engine auto-restarts so a flapping
// environment cannot trigger a restart storm.
const DefaultRestartDelay = 500 * time.Millisecond

// Scheduler abstracts delayed execution so tests can fire restart timers
// deterministically.
type Scheduler interface {
	// AfterFunc runs fn after d and returns a cancel function.
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Snapshot is the observable session state for UI rendering.
type Snapshot struct {
	State           State                     `json:"state"`
	Transcript      string                    `json:"transcript"`
	Interim         string                    `json:"interim"`
	ElapsedSeconds  int                       `json:"elapsed_seconds"`
	ElapsedDisplay  string                    `json:"elapsed_display"`
	Markers         []meeting.RecordingMarker `json:"markers,omitempty"`
	LastError       string                    `json:"last_error,omitempty"`
	EngineSupported bool                      `json:"engine_supported"`
}

// SessionConfig configures a recording session.
type SessionConfig struct {
	// Engine is the dictation engine handle. Nil means the environment has
	// no recognition capability; the session reports unsupported and refuses
	// to start.
	Engine Engine

	// Logger defaults to a nop logger.
	Logger logging.Logger

	// Scheduler defaults to real timers.
	Scheduler Scheduler

	// Now defaults to time.Now. Elapsed time is derived from it so the clock
	// cannot drift against wall time.
	Now func() time.Time

	// RestartDelay defaults to DefaultRestartDelay.
	RestartDelay time.Duration

	// OnUpdate, when set, receives a snapshot after every state change.
	// Called synchronously from the event path; implementations must be fast
	// and must not call back into the session.
	OnUpdate func(Snapshot)

	// Metrics, when set, records session counters.
	Metrics *Metrics
}

// Session accumulates one recording session's transcript. All engine events
// funnel through a single transition function guarded by a mutex, so no two
// recognition results are ever processed concurrently.
type Session struct {
	mu sync.Mutex

	engine       Engine
	log          logging.Logger
	sched        Scheduler
	now          func() time.Time
	restartDelay time.Duration
	onUpdate     func(Snapshot)
	metrics      *Metrics

	state     State
	committed string
	interim   string
	markers   []meeting.RecordingMarker
	lastErr   error

	// manuallyStopped is set before the engine Stop/Abort call is issued so
	// an ended event racing with the user's stop cannot trigger a restart.
	manuallyStopped bool
	cancelRestart   func()
	restartPending  bool

	// Elapsed time: frozen accumulates across pauses, runningSince is the
	// zero time unless recording.
	frozenElapsed time.Duration
	runningSince  time.Time

	stopTicker chan struct{}
}

// NewSession creates a session in the idle state.
func NewSession(cfg SessionConfig) *Session {
	log := cfg.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}
	sched := cfg.Scheduler
	if sched == nil {
		sched = realScheduler{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	delay := cfg.RestartDelay
	if delay <= 0 {
		delay = DefaultRestartDelay
	}

	return &Session{
		engine:       cfg.Engine,
		log:          log,
		sched:        sched,
		now:          now,
		restartDelay: delay,
		onUpdate:     cfg.OnUpdate,
		metrics:      cfg.Metrics,
		state:        StateIdle,
	}
}

// Supported reports whether a dictation engine is available.
func (s *Session) Supported() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine != nil
}

// Start transitions idle -> recording and starts the engine.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		s.lastErr = mnerrors.ErrEngineUnsupported
		return mnerrors.ErrEngineUnsupported
	}
	if s.state != StateIdle {
		return fmt.Errorf("start from %s: %w", s.state, mnerrors.ErrInvalidState)
	}

	s.manuallyStopped = false
	s.lastErr = nil
	s.interim = ""
	s.enterRecordingLocked()

	if err := s.engine.Start(s.HandleEvent); err != nil {
		s.leaveRecordingLocked()
		s.state = StateIdle
		s.lastErr = err
		return fmt.Errorf("starting engine: %w", err)
	}

	s.log.Info("recording started")
	s.notifyLocked()
	return nil
}

// Pause freezes the clock and stops the engine without ending the session.
func (s *Session) Pause() error {
	s.mu.Lock()

	if s.state != StateRecording {
		s.mu.Unlock()
		return fmt.Errorf("pause from %s: %w", s.state, mnerrors.ErrInvalidState)
	}

	// Intent first, then the stop call, so a terminating event delivered in
	// between cannot schedule a restart.
	s.manuallyStopped = true
	s.suppressRestartLocked()
	s.leaveRecordingLocked()
	s.state = StatePaused
	s.interim = ""

	s.log.Info("recording paused", logging.F("elapsed_seconds", s.elapsedSecondsLocked()))
	s.notifyLocked()
	engine := s.engine
	s.mu.Unlock()

	// Outside the lock: engines may emit synchronously from Stop.
	engine.Stop()
	return nil
}

// Resume transitions paused -> recording and restarts the engine.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaused {
		return fmt.Errorf("resume from %s: %w", s.state, mnerrors.ErrInvalidState)
	}

	s.manuallyStopped = false
	s.interim = ""
	s.enterRecordingLocked()

	if err := s.engine.Start(s.HandleEvent); err != nil {
		s.leaveRecordingLocked()
		s.state = StatePaused
		s.lastErr = err
		return fmt.Errorf("resuming engine: %w", err)
	}

	s.log.Info("recording resumed")
	s.notifyLocked()
	return nil
}

// Stop ends the session. Stopped is terminal; a fresh session is created by
// Reset or by constructing a new Session.
func (s *Session) Stop() error {
	s.mu.Lock()

	if s.state != StateRecording && s.state != StatePaused {
		s.mu.Unlock()
		return fmt.Errorf("stop from %s: %w", s.state, mnerrors.ErrInvalidState)
	}

	s.manuallyStopped = true
	s.suppressRestartLocked()
	if s.state == StateRecording {
		s.leaveRecordingLocked()
	}
	s.state = StateStopped
	s.interim = ""

	s.log.Info("recording stopped",
		logging.F("elapsed_seconds", s.elapsedSecondsLocked()),
		logging.F("transcript_chars", len(s.committed)))
	s.notifyLocked()
	engine := s.engine
	s.mu.Unlock()

	engine.Stop()
	return nil
}

// Reset returns the session to a clean idle state: transcript, markers,
// dedup history, and clock all cleared. Any live engine handle is aborted
// first so no orphaned listener keeps emitting into the session.
func (s *Session) Reset() {
	s.mu.Lock()

	s.manuallyStopped = true
	s.suppressRestartLocked()
	if s.state == StateRecording {
		s.leaveRecordingLocked()
	}

	s.state = StateIdle
	s.committed = ""
	s.interim = ""
	s.markers = nil
	s.lastErr = nil
	s.frozenElapsed = 0
	s.runningSince = time.Time{}
	s.notifyLocked()
	engine := s.engine
	s.mu.Unlock()

	if engine != nil {
		engine.Abort()
	}
}

// AddMarker appends a marker stamped with the current elapsed seconds.
// Valid while recording or paused.
func (s *Session) AddMarker(mtype meeting.MarkerType, note string) (meeting.RecordingMarker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording && s.state != StatePaused {
		return meeting.RecordingMarker{}, fmt.Errorf("marker in %s: %w", s.state, mnerrors.ErrInvalidState)
	}
	if !mtype.Valid() {
		return meeting.RecordingMarker{}, fmt.Errorf("marker type %q: %w", mtype, mnerrors.ErrValidation)
	}

	marker := meeting.NewMarker(mtype, s.elapsedSecondsLocked(), note)
	s.markers = append(s.markers, marker)
	s.log.Info("marker added",
		logging.F("type", string(mtype)),
		logging.F("timestamp_seconds", marker.TimestampSeconds))
	s.notifyLocked()
	return marker, nil
}

// Transcript returns the committed transcript.
func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}

// Snapshot returns the observable session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	elapsed := s.elapsedSecondsLocked()
	snap := Snapshot{
		State:           s.state,
		Transcript:      s.committed,
		Interim:         s.interim,
		ElapsedSeconds:  elapsed,
		ElapsedDisplay:  FormatElapsed(elapsed),
		EngineSupported: s.engine != nil,
	}
	if len(s.markers) > 0 {
		snap.Markers = append([]meeting.RecordingMarker(nil), s.markers...)
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	return snap
}

// HandleEvent is the single state-transition function for engine events.
// Engines call it as their EmitFunc.
func (s *Session) HandleEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Type {
	case EventResult:
		s.handleResultLocked(ev.Segments)
	case EventStarted:
		s.restartPending = false
		s.log.Debug("engine listening")
	case EventEnded:
		s.handleEndedLocked()
	case EventError:
		s.handleErrorLocked(ev.ErrKind)
	}
	s.notifyLocked()
}

func (s *Session) handleResultLocked(segments []ResultSegment) {
	if s.state != StateRecording {
		// Late results after a pause/stop are dropped; the transcript must
		// not grow once the clock is frozen.
		return
	}

	var latestInterim string
	gotFinal := false

	for _, seg := range segments {
		if !seg.Final {
			latestInterim = seg.Text
			continue
		}
		gotFinal = true
		before := s.committed
		merged, outcome := mergeCommitted(s.committed, seg.Text)
		s.committed = merged
		s.metrics.observeMerge(outcome)
		if outcome == mergeDiscarded && before != "" {
			s.log.Debug("duplicate segment discarded")
		}
	}

	// Interim text is a replaceable preview: the latest value wins, and any
	// final content clears it.
	if gotFinal {
		s.interim = ""
		s.lastErr = nil
	}
	if latestInterim != "" {
		s.interim = latestInterim
	}
}

func (s *Session) handleEndedLocked() {
	if s.state != StateRecording || s.manuallyStopped {
		return
	}
	// The engine auto-ended mid-session (silence timeout, hiccup). Restart
	// it after a debounce delay, invisibly to the caller.
	s.scheduleRestartLocked()
}

func (s *Session) handleErrorLocked(kind mnerrors.EngineErrorKind) {
	s.metrics.observeEngineError(kind)

	if mnerrors.IsIgnorableKind(kind) {
		return
	}

	if mnerrors.IsFatalKind(kind) {
		s.lastErr = fmt.Errorf("%s: %w", mnerrors.KindDescription(kind), mnerrors.ErrPermissionDenied)
		s.suppressRestartLocked()
		s.manuallyStopped = true
		if s.state == StateRecording {
			s.leaveRecordingLocked()
		}
		s.state = StateIdle
		s.interim = ""
		s.engine.Abort()
		s.log.Error("session halted", logging.F("kind", string(kind)))
		return
	}

	// Transient: surface as the observable error and let the subsequent
	// ended event drive the restart.
	s.lastErr = fmt.Errorf("engine error: %s", mnerrors.KindDescription(kind))
	s.log.Warn("transient engine error", logging.F("kind", string(kind)))
}

func (s *Session) scheduleRestartLocked() {
	if s.restartPending {
		return
	}
	s.restartPending = true
	s.cancelRestart = s.sched.AfterFunc(s.restartDelay, s.tryRestart)
}

// tryRestart runs on the scheduler goroutine after the debounce delay.
func (s *Session) tryRestart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.restartPending = false
	// The manual-stop intent is re-checked at the last moment: a stop that
	// landed during the debounce window wins.
	if s.manuallyStopped || s.state != StateRecording {
		return
	}

	s.metrics.observeRestart()
	s.log.Debug("restarting engine")
	if err := s.engine.Start(s.HandleEvent); err != nil {
		s.lastErr = fmt.Errorf("engine restart: %w", err)
		s.log.Warn("engine restart failed", logging.Err(err))
		// Schedule another attempt; the caller can observe lastErr and stop
		// manually if the environment keeps failing.
		s.scheduleRestartLocked()
	}
	s.notifyLocked()
}

func (s *Session) suppressRestartLocked() {
	if s.cancelRestart != nil {
		s.cancelRestart()
		s.cancelRestart = nil
	}
	s.restartPending = false
}

// enterRecordingLocked starts the clock and the 1s UI tick.
func (s *Session) enterRecordingLocked() {
	s.state = StateRecording
	s.runningSince = s.now()
	if s.onUpdate != nil {
		s.stopTicker = make(chan struct{})
		go s.runTicker(s.stopTicker)
	}
}

// leaveRecordingLocked freezes the clock and stops the UI tick.
func (s *Session) leaveRecordingLocked() {
	if !s.runningSince.IsZero() {
		s.frozenElapsed += s.now().Sub(s.runningSince)
		s.runningSince = time.Time{}
	}
	if s.stopTicker != nil {
		close(s.stopTicker)
		s.stopTicker = nil
	}
}

// runTicker publishes a snapshot once a second while recording so observers
// can render the elapsed clock without polling.
func (s *Session) runTicker(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.notifyLocked()
			s.mu.Unlock()
		}
	}
}

func (s *Session) elapsedSecondsLocked() int {
	elapsed := s.frozenElapsed
	if !s.runningSince.IsZero() {
		elapsed += s.now().Sub(s.runningSince)
	}
	return int(elapsed / time.Second)
}

func (s *Session) notifyLocked() {
	if s.onUpdate != nil {
		s.onUpdate(s.snapshotLocked())
	}
}

// FormatElapsed renders elapsed seconds as MM:SS.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
