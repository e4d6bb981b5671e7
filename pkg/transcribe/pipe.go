package transcribe

import (
	"sync"
)

// PipeEngine is a dictation engine fed programmatically, used by the CLI's
// typed-dictation mode and by integration-style tests. Each Feed call is
// delivered as a final result segment; FeedInterim delivers a replaceable
// interim segment; EndUtterance simulates the silence auto-end real engines
// exhibit.
type PipeEngine struct {
	mu      sync.Mutex
	emit    EmitFunc
	running bool

	// pending holds final segments fed while the engine was down after an
	// utterance end. They replay on the next start so nothing typed during
	// the restart debounce is lost.
	pending []ResultSegment
}

// NewPipeEngine creates a stopped pipe engine.
func NewPipeEngine() *PipeEngine {
	return &PipeEngine{}
}

// Start begins delivering events to emit, replaying any segments buffered
// while the engine was down.
func (e *PipeEngine) Start(emit EmitFunc) error {
	e.mu.Lock()
	e.emit = emit
	e.running = true
	e.mu.Unlock()

	go func() {
		emit(Event{Type: EventStarted})
		e.flushPending(emit)
	}()
	return nil
}

// flushPending emits buffered segments in feed order. Both the start replay
// and the next live feed call it, so whichever runs first drains the queue.
func (e *PipeEngine) flushPending(emit EmitFunc) {
	for {
		e.mu.Lock()
		if !e.running || len(e.pending) == 0 {
			e.mu.Unlock()
			return
		}
		seg := e.pending[0]
		e.pending = e.pending[1:]
		e.mu.Unlock()
		emit(Event{Type: EventResult, Segments: []ResultSegment{seg}})
	}
}

// Stop ends recognition gracefully. Buffered segments are discarded; a
// manual stop ends the utterance for good.
func (e *PipeEngine) Stop() {
	e.end(true)
}

// Abort tears down immediately without an ended event.
func (e *PipeEngine) Abort() {
	e.end(false)
}

func (e *PipeEngine) end(emitEnded bool) {
	e.mu.Lock()
	emit := e.emit
	wasRunning := e.running
	e.running = false
	e.pending = nil
	e.mu.Unlock()

	if emitEnded && wasRunning && emit != nil {
		emit(Event{Type: EventEnded})
	}
}

// Feed delivers text as a final recognition segment. While the engine is
// down it is buffered for replay on restart.
func (e *PipeEngine) Feed(text string) {
	e.deliver(ResultSegment{Text: text, Final: true})
}

// FeedInterim delivers text as an interim (replaceable) segment. Interim
// text fed while down is dropped; there is nothing to preview.
func (e *PipeEngine) FeedInterim(text string) {
	e.deliver(ResultSegment{Text: text, Final: false})
}

// EndUtterance emits an ended event while leaving the engine restartable,
// mimicking an engine that auto-ends after silence.
func (e *PipeEngine) EndUtterance() {
	e.mu.Lock()
	emit := e.emit
	running := e.running
	e.running = false
	e.mu.Unlock()

	if running && emit != nil {
		emit(Event{Type: EventEnded})
	}
}

func (e *PipeEngine) deliver(seg ResultSegment) {
	e.mu.Lock()
	if !e.running {
		if seg.Final {
			e.pending = append(e.pending, seg)
		}
		e.mu.Unlock()
		return
	}
	emit := e.emit
	e.mu.Unlock()

	if emit == nil {
		return
	}
	// Anything the start replay has not picked up yet goes first so the
	// transcript keeps input order.
	e.flushPending(emit)
	emit(Event{Type: EventResult, Segments: []ResultSegment{seg}})
}
