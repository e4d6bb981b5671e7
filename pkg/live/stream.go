package live

import (
	"sync"

	"github.com/minutedesk/mins-cli/pkg/transcribe"
)

// Stream forwards session snapshots to a publish function from its own
// goroutine. Send never blocks: when publishing lags, intermediate snapshots
// are replaced by the latest one. This keeps a slow or unreachable Redis out
// of the recording event path.
type Stream struct {
	mu     sync.Mutex
	closed bool
	ch     chan transcribe.Snapshot
	done   chan struct{}
}

// NewStream starts the forwarding goroutine. Close must be called to stop it
// and wait for the in-flight publish to finish.
func NewStream(publish func(transcribe.Snapshot)) *Stream {
	s := &Stream{
		ch:   make(chan transcribe.Snapshot, 1),
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		for snap := range s.ch {
			publish(snap)
		}
	}()
	return s
}

// Send queues a snapshot, displacing an unpublished older one. Send after
// Close is a no-op; a session ticker may deliver one final snapshot while
// the stream is shutting down.
func (s *Stream) Send(snap transcribe.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for {
		select {
		case s.ch <- snap:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// Close stops the forwarder after the current publish completes.
func (s *Stream) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	close(s.ch)
	<-s.done
}
