package core

import (
	"context"
	"sync"
)

// Transcript is an append-only sink for audit events. Implementations must
// be safe for concurrent appends from sibling branches.
type Transcript interface {
	Append(ev Event)
}

// MemoryTranscript is an in-memory Transcript retaining events in append
// order. Useful for tests, examples and post-run inspection.
type MemoryTranscript struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryTranscript creates an empty in-memory transcript.
func NewMemoryTranscript() *MemoryTranscript { return &MemoryTranscript{} }

// Append implements Transcript.
func (t *MemoryTranscript) Append(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.events = append(t.events, ev)
}

// Events returns a snapshot of all appended events.
func (t *MemoryTranscript) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Event, len(t.events))
	copy(out, t.events)

	return out
}

// NoopTranscript discards all events. It is the default when no transcript
// is attached to a context.
type NoopTranscript struct{}

// Append implements Transcript.
func (NoopTranscript) Append(Event) {}

type transcriptKey struct{}

// WithTranscript attaches a transcript to the context. Branches forked from
// the returned context share the same sink.
func WithTranscript(ctx context.Context, t Transcript) context.Context {
	return context.WithValue(ctx, transcriptKey{}, t)
}

// TranscriptFrom returns the transcript attached to the context, or a
// NoopTranscript when none is attached.
func TranscriptFrom(ctx context.Context) Transcript {
	if t, ok := ctx.Value(transcriptKey{}).(Transcript); ok {
		return t
	}
	return NoopTranscript{}
}
