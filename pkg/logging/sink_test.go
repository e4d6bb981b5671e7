package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer serializes access between the sink's writer goroutine and the
// test's assertions.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func entry(msg string) LogEntry {
	return LogEntry{
		Timestamp: time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC),
		Level:     "info",
		Component: "recorder",
		Message:   msg,
	}
}

func TestSessionSink_FlushWritesQueuedEntries(t *testing.T) {
	buf := &syncBuffer{}
	sink := NewSessionSink(buf)
	defer sink.Close()

	sink.Write(entry("recording started"))
	sink.Write(entry("marker added"))

	require.NoError(t, sink.Flush())
	out := buf.String()
	assert.Contains(t, out, "recording started")
	assert.Contains(t, out, "marker added")
}

func TestSessionSink_FlushRepeatable(t *testing.T) {
	buf := &syncBuffer{}
	sink := NewSessionSink(buf)
	defer sink.Close()

	for i := 0; i < 3; i++ {
		sink.Write(entry("tick"))
		require.NoError(t, sink.Flush())
	}
	assert.Equal(t, 3, strings.Count(buf.String(), "tick"))
}

func TestSessionSink_CloseDrainsRemaining(t *testing.T) {
	buf := &syncBuffer{}
	sink := NewSessionSink(buf)

	sink.Write(entry("recording stopped"))
	require.NoError(t, sink.Close())

	assert.Contains(t, buf.String(), "recording stopped")
}

func TestSessionSink_WriteAfterCloseIsDropped(t *testing.T) {
	buf := &syncBuffer{}
	sink := NewSessionSink(buf)
	require.NoError(t, sink.Close())

	sink.Write(entry("late entry"))
	require.NoError(t, sink.Flush())
	require.NoError(t, sink.Close())

	assert.NotContains(t, buf.String(), "late entry")
}

func TestSessionSink_FieldsSortedInOutput(t *testing.T) {
	buf := &syncBuffer{}
	sink := NewSessionSink(buf)
	defer sink.Close()

	e := entry("meeting saved")
	e.Fields = map[string]string{"meeting_id": "m-1", "elapsed": "00:42"}
	sink.Write(e)
	require.NoError(t, sink.Flush())

	line := buf.String()
	assert.Less(t, strings.Index(line, "elapsed=00:42"), strings.Index(line, "meeting_id=m-1"))
}
