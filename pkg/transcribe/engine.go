// Package transcribe turns a stream of dictation engine events into one
// stable, deduplicated transcript. It owns the recording session state
// machine and survives engine restarts without gaps or duplicates.
package transcribe

import (
	mnerrors "github.com/minutedesk/mins-cli/pkg/errors"
)

// EventType identifies a dictation engine event.
type EventType string

const (
	// EventResult carries a batch of recognition segments.
	EventResult EventType = "result"

	// EventStarted signals the engine began listening.
	EventStarted EventType = "started"

	// EventEnded signals the engine stopped listening. Engines routinely end
	// on their own after silence; the session restarts them transparently.
	EventEnded EventType = "ended"

	// EventError carries an engine error kind.
	EventError EventType = "error"
)

// ResultSegment is one recognition alternative from the engine. Interim
// segments may still be revised; final segments are stable.
type ResultSegment struct {
	Text  string
	Final bool
}

// Event is the single message type dispatched into the session's state
// transition function. Tests inject synthetic events instead of running a
// real engine.
type Event struct {
	Type     EventType
	Segments []ResultSegment
	ErrKind  mnerrors.EngineErrorKind
}

// EmitFunc delivers an engine event to the session. Implementations of
// Engine call it from whatever goroutine produces events; the session
// serializes processing internally.
type EmitFunc func(Event)

// Engine is a dictation engine handle. A session holds at most one live
// engine at a time and releases it (via Abort) before acquiring another.
type Engine interface {
	// Start begins recognition. It is fire-and-forget: the caller reacts to
	// started/ended/result/error events delivered through emit, not to the
	// return value, which only reports immediate startup failure. Events
	// must not be emitted before Start returns.
	Start(emit EmitFunc) error

	// Stop requests a graceful end. Pending final results may still be
	// delivered before the ended event.
	Stop()

	// Abort tears the engine down immediately, discarding pending results.
	// It emits no further events, including ended.
	Abort()
}
