package logging

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// LogEntry represents a log entry to be written to a sink.
type LogEntry struct {
	Timestamp time.Time
	Level     string
	Component string
	Message   string
	Fields    map[string]string
}

// Sink is an interface for components that receive log entries.
type Sink interface {
	// Write queues a log entry for async processing.
	Write(entry LogEntry)
	// Flush blocks until all queued entries are written.
	Flush() error
	// Close shuts down the sink gracefully.
	Close() error
}

// SessionSink writes log entries to a per-session writer, typically the
// recording session's audit log file. Writes are buffered and flushed by a
// background goroutine so the recorder's event loop never blocks on disk.
type SessionSink struct {
	w         io.Writer
	entryChan chan LogEntry
	flushChan chan chan error
	done      chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	closed    bool
}

// NewSessionSink creates a sink that appends formatted entries to w.
func NewSessionSink(w io.Writer) *SessionSink {
	s := &SessionSink{
		w:         w,
		entryChan: make(chan LogEntry, 256),
		flushChan: make(chan chan error),
		done:      make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Write queues a log entry. If the buffer is full the entry is dropped;
// the session log is an aid, not a system of record.
func (s *SessionSink) Write(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.entryChan <- entry:
	default:
	}
}

// Flush blocks until all queued entries are written.
func (s *SessionSink) Flush() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	select {
	case s.flushChan <- errChan:
		return <-errChan
	case <-time.After(time.Second):
		return fmt.Errorf("session sink flush timeout")
	}
}

// Close drains remaining entries and stops the background goroutine.
func (s *SessionSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()
	return nil
}

func (s *SessionSink) run() {
	defer s.wg.Done()
	for {
		select {
		case entry := <-s.entryChan:
			s.writeEntry(entry)
		case errChan := <-s.flushChan:
			for draining := true; draining; {
				select {
				case entry := <-s.entryChan:
					s.writeEntry(entry)
				default:
					errChan <- nil
					draining = false
				}
			}
		case <-s.done:
			for {
				select {
				case entry := <-s.entryChan:
					s.writeEntry(entry)
				default:
					return
				}
			}
		}
	}
}

func (s *SessionSink) writeEntry(entry LogEntry) {
	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	line := fmt.Sprintf("%s [%s] %s", entry.Timestamp.Format(time.RFC3339), entry.Level, entry.Message)
	for _, k := range keys {
		line += fmt.Sprintf(" %s=%s", k, entry.Fields[k])
	}
	fmt.Fprintln(s.w, line)
}

// stringify renders a field value for sink output.
func stringify(v interface{}) string {
	if err, ok := v.(error); ok && err != nil {
		return err.Error()
	}
	return fmt.Sprint(v)
}
