package transcribe

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mnerrors "github.com/minutedesk/mins-cli/pkg/errors"
	"github.com/minutedesk/mins-cli/pkg/meeting"
)

// fakeEngine records lifecycle calls; tests inject events directly through
// Session.HandleEvent.
type fakeEngine struct {
	mu     sync.Mutex
	starts int
	stops  int
	aborts int
}

func (e *fakeEngine) Start(emit EmitFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.starts++
	return nil
}

func (e *fakeEngine) Stop()  { e.mu.Lock(); e.stops++; e.mu.Unlock() }
func (e *fakeEngine) Abort() { e.mu.Lock(); e.aborts++; e.mu.Unlock() }

func (e *fakeEngine) startCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.starts
}

// fakeScheduler captures scheduled functions so tests fire them manually.
type fakeScheduler struct {
	mu        sync.Mutex
	pending   []func()
	cancelled int
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, fn)
	return func() {
		s.mu.Lock()
		s.cancelled++
		s.mu.Unlock()
	}
}

// fire runs and clears all pending functions.
func (s *fakeScheduler) fire() {
	s.mu.Lock()
	fns := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (s *fakeScheduler) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestSession(t *testing.T) (*Session, *fakeEngine, *fakeScheduler, *fakeClock) {
	t.Helper()
	engine := &fakeEngine{}
	sched := &fakeScheduler{}
	clock := newFakeClock()
	sess := NewSession(SessionConfig{
		Engine:    engine,
		Scheduler: sched,
		Now:       clock.now,
	})
	return sess, engine, sched, clock
}

func finals(texts ...string) Event {
	segs := make([]ResultSegment, len(texts))
	for i, txt := range texts {
		segs[i] = ResultSegment{Text: txt, Final: true}
	}
	return Event{Type: EventResult, Segments: segs}
}

func interim(text string) Event {
	return Event{Type: EventResult, Segments: []ResultSegment{{Text: text, Final: false}}}
}

func TestSession_StartTransitionsToRecording(t *testing.T) {
	sess, engine, _, _ := newTestSession(t)
	require.NoError(t, sess.Start())
	assert.Equal(t, StateRecording, sess.Snapshot().State)
	assert.Equal(t, 1, engine.startCount())
}

func TestSession_StartRequiresEngine(t *testing.T) {
	sess := NewSession(SessionConfig{})
	assert.False(t, sess.Supported())
	err := sess.Start()
	assert.ErrorIs(t, err, mnerrors.ErrEngineUnsupported)
	assert.False(t, sess.Snapshot().EngineSupported)
	assert.NotEmpty(t, sess.Snapshot().LastError)
}

func TestSession_StartFromRecordingIsInvalid(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	require.NoError(t, sess.Start())
	assert.ErrorIs(t, sess.Start(), mnerrors.ErrInvalidState)
}

func TestSession_DedupIdempotence(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	require.NoError(t, sess.Start())

	// The engine re-reports an already-finalized segment after a restart.
	sess.HandleEvent(finals("we agreed to extend the deadline"))
	sess.HandleEvent(finals("we agreed to extend the deadline"))

	assert.Equal(t, "we agreed to extend the deadline", sess.Transcript())
}

func TestSession_CumulativeEngineHandling(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	require.NoError(t, sess.Start())

	sess.HandleEvent(finals("Hello team"))
	sess.HandleEvent(finals("Hello team we need to talk"))

	assert.Equal(t, "Hello team we need to talk", sess.Transcript())
}

func TestSession_InterimReplacesNotAppends(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	require.NoError(t, sess.Start())

	sess.HandleEvent(interim("Hel"))
	sess.HandleEvent(interim("Hello"))

	snap := sess.Snapshot()
	assert.Equal(t, "Hello", snap.Interim)
	assert.Empty(t, snap.Transcript)

	// Final content clears the preview and never includes stale interim text.
	sess.HandleEvent(finals("Hello everyone"))
	snap = sess.Snapshot()
	assert.Empty(t, snap.Interim)
	assert.Equal(t, "Hello everyone", snap.Transcript)
}

func TestSession_RestartTransparency(t *testing.T) {
	sess, engine, sched, _ := newTestSession(t)
	require.NoError(t, sess.Start())

	sess.HandleEvent(finals("Hello team"))

	// Engine dies mid-session: restart is debounced, then transparent.
	sess.HandleEvent(Event{Type: EventEnded})
	assert.Equal(t, StateRecording, sess.Snapshot().State)
	require.Equal(t, 1, sched.pendingCount())

	sched.fire()
	assert.Equal(t, 2, engine.startCount())

	// Engine re-reports the tail before continuing; no gap, no duplicate.
	sess.HandleEvent(finals("Hello team we need to talk"))
	assert.Equal(t, "Hello team we need to talk", sess.Transcript())
}

func TestSession_EndedWhileRecordingDebouncesOnce(t *testing.T) {
	sess, _, sched, _ := newTestSession(t)
	require.NoError(t, sess.Start())

	sess.HandleEvent(Event{Type: EventEnded})
	sess.HandleEvent(Event{Type: EventEnded})
	assert.Equal(t, 1, sched.pendingCount())
}

func TestSession_ManualStopSuppressesPendingRestart(t *testing.T) {
	sess, engine, sched, _ := newTestSession(t)
	require.NoError(t, sess.Start())

	sess.HandleEvent(Event{Type: EventEnded})
	require.Equal(t, 1, sched.pendingCount())

	require.NoError(t, sess.Stop())
	// Even if the timer fires after the cancel raced, the manual-stop intent
	// is re-checked before restarting.
	sched.fire()
	assert.Equal(t, 1, engine.startCount())
	assert.Equal(t, StateStopped, sess.Snapshot().State)
}

func TestSession_PauseSuppressesRestartAndFreezesClock(t *testing.T) {
	sess, engine, sched, clock := newTestSession(t)
	require.NoError(t, sess.Start())

	clock.advance(10 * time.Second)
	require.NoError(t, sess.Pause())
	assert.Equal(t, StatePaused, sess.Snapshot().State)
	assert.Equal(t, 10, sess.Snapshot().ElapsedSeconds)

	// Time passing while paused does not count.
	clock.advance(30 * time.Second)
	assert.Equal(t, 10, sess.Snapshot().ElapsedSeconds)

	require.NoError(t, sess.Resume())
	clock.advance(5 * time.Second)
	assert.Equal(t, 15, sess.Snapshot().ElapsedSeconds)
	assert.Equal(t, 2, engine.startCount())
	assert.Equal(t, 0, sched.pendingCount())
}

func TestSession_PermissionDeniedIsFatal(t *testing.T) {
	sess, engine, sched, _ := newTestSession(t)
	require.NoError(t, sess.Start())
	sess.HandleEvent(finals("Hello"))

	sess.HandleEvent(Event{Type: EventError, ErrKind: mnerrors.KindPermissionDenied})

	snap := sess.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Contains(t, snap.LastError, "permission denied")
	assert.Equal(t, 1, engine.aborts)

	// The trailing ended event from the aborted engine must not restart it.
	sess.HandleEvent(Event{Type: EventEnded})
	sched.fire()
	assert.Equal(t, 1, engine.startCount())
}

func TestSession_NoSpeechIsSilentlyIgnored(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	require.NoError(t, sess.Start())

	sess.HandleEvent(Event{Type: EventError, ErrKind: mnerrors.KindNoSpeech})
	sess.HandleEvent(Event{Type: EventError, ErrKind: mnerrors.KindAborted})

	snap := sess.Snapshot()
	assert.Equal(t, StateRecording, snap.State)
	assert.Empty(t, snap.LastError)
}

func TestSession_TransientErrorSurfacesAndClears(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	require.NoError(t, sess.Start())

	sess.HandleEvent(Event{Type: EventError, ErrKind: mnerrors.KindNetwork})
	assert.Contains(t, sess.Snapshot().LastError, "Network hiccup")
	assert.Equal(t, StateRecording, sess.Snapshot().State)

	// The next successful commit clears the observable error.
	sess.HandleEvent(finals("back online now"))
	assert.Empty(t, sess.Snapshot().LastError)
}

func TestSession_LateResultsAfterPauseAreDropped(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	require.NoError(t, sess.Start())
	sess.HandleEvent(finals("before pause"))
	require.NoError(t, sess.Pause())

	sess.HandleEvent(finals("after pause"))
	assert.Equal(t, "before pause", sess.Transcript())
}

func TestSession_Markers(t *testing.T) {
	sess, _, _, clock := newTestSession(t)

	_, err := sess.AddMarker(meeting.MarkerDecision, "too early")
	assert.ErrorIs(t, err, mnerrors.ErrInvalidState)

	require.NoError(t, sess.Start())
	clock.advance(65 * time.Second)

	marker, err := sess.AddMarker(meeting.MarkerDecision, "budget agreed")
	require.NoError(t, err)
	assert.Equal(t, 65, marker.TimestampSeconds)
	assert.NotEmpty(t, marker.ID)

	_, err = sess.AddMarker(meeting.MarkerType("bookmark"), "")
	assert.ErrorIs(t, err, mnerrors.ErrValidation)

	require.NoError(t, sess.Pause())
	_, err = sess.AddMarker(meeting.MarkerKeyPoint, "still allowed while paused")
	require.NoError(t, err)

	assert.Len(t, sess.Snapshot().Markers, 2)
}

func TestSession_ResetClearsEverything(t *testing.T) {
	sess, engine, _, clock := newTestSession(t)
	require.NoError(t, sess.Start())
	sess.HandleEvent(finals("some words"))
	clock.advance(20 * time.Second)
	_, err := sess.AddMarker(meeting.MarkerAction, "")
	require.NoError(t, err)
	require.NoError(t, sess.Stop())

	sess.Reset()

	snap := sess.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.Transcript)
	assert.Empty(t, snap.Markers)
	assert.Empty(t, snap.LastError)
	assert.Equal(t, 0, snap.ElapsedSeconds)
	assert.Equal(t, 1, engine.aborts)

	// A fresh session can start again from idle.
	require.NoError(t, sess.Start())
	assert.Equal(t, StateRecording, sess.Snapshot().State)
}

func TestSession_StopFromIdleIsInvalid(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	assert.ErrorIs(t, sess.Stop(), mnerrors.ErrInvalidState)
	assert.ErrorIs(t, sess.Pause(), mnerrors.ErrInvalidState)
	assert.ErrorIs(t, sess.Resume(), mnerrors.ErrInvalidState)
}

func TestSession_OnUpdateReceivesSnapshots(t *testing.T) {
	engine := &fakeEngine{}
	var mu sync.Mutex
	var states []State
	sess := NewSession(SessionConfig{
		Engine:    engine,
		Scheduler: &fakeScheduler{},
		OnUpdate: func(snap Snapshot) {
			mu.Lock()
			states = append(states, snap.State)
			mu.Unlock()
		},
	})

	require.NoError(t, sess.Start())
	require.NoError(t, sess.Stop())

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, states, StateRecording)
	assert.Contains(t, states, StateStopped)
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{65, "01:05"},
		{600, "10:00"},
		{-3, "00:00"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, FormatElapsed(tc.seconds))
	}
}

func TestPipeEngine_DeliversEvents(t *testing.T) {
	engine := NewPipeEngine()
	var mu sync.Mutex
	var events []Event
	require.NoError(t, engine.Start(func(ev Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	}))

	engine.FeedInterim("hel")
	engine.Feed("hello team")
	engine.EndUtterance()

	// Feeding after the utterance ended is buffered, not emitted, until the
	// engine restarts.
	engine.Feed("held words")

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(events), 3)
	for _, ev := range events {
		for _, seg := range ev.Segments {
			assert.NotEqual(t, "held words", seg.Text)
		}
	}
	var types []EventType
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	assert.Contains(t, types, EventResult)
	assert.Contains(t, types, EventEnded)
}

func TestPipeEngine_ReplaysInputFedDuringRestartGap(t *testing.T) {
	engine := NewPipeEngine()
	sched := &fakeScheduler{}
	sess := NewSession(SessionConfig{Engine: engine, Scheduler: sched})

	require.NoError(t, sess.Start())
	engine.Feed("hello team")
	engine.EndUtterance()

	// Typed while the engine is down, before the debounced restart fires.
	engine.Feed("we must review the budget")
	assert.Equal(t, "hello team", sess.Transcript())

	sched.fire()
	require.Eventually(t, func() bool {
		return strings.Contains(sess.Transcript(), "we must review the budget")
	}, time.Second, 5*time.Millisecond, "buffered line not replayed after restart")

	engine.Feed("and the rota")
	require.NoError(t, sess.Stop())

	assert.Equal(t, "hello team we must review the budget and the rota", sess.Transcript())
}

func TestPipeEngine_StopDiscardsBufferedInput(t *testing.T) {
	engine := NewPipeEngine()
	sched := &fakeScheduler{}
	sess := NewSession(SessionConfig{Engine: engine, Scheduler: sched})

	require.NoError(t, sess.Start())
	engine.Feed("before the gap")
	engine.EndUtterance()
	engine.Feed("never lands")
	require.NoError(t, sess.Stop())

	// A manual stop during the debounce window ends the utterance; the
	// buffered line must not leak into a later session on the same engine.
	sched.fire()
	assert.Equal(t, "before the gap", sess.Transcript())
}

func TestPipeEngine_WithSession_EndToEnd(t *testing.T) {
	engine := NewPipeEngine()
	sched := &fakeScheduler{}
	sess := NewSession(SessionConfig{Engine: engine, Scheduler: sched})

	require.NoError(t, sess.Start())
	engine.Feed("good morning everyone")
	engine.EndUtterance()
	sched.fire() // auto-restart
	engine.Feed("we need to review the budget")
	require.NoError(t, sess.Stop())

	assert.Equal(t, "good morning everyone we need to review the budget", sess.Transcript())
	assert.Equal(t, StateStopped, sess.Snapshot().State)
}
