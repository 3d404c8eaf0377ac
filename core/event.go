package core

import (
	"time"

	"github.com/google/uuid"
)

// LimitInfo describes a tripped budget attached to an audit event: which
// kind of limit, the measured value and the configured bound.
type LimitInfo struct {
	Kind  string  `json:"kind"`
	Value float64 `json:"value"`
	Limit float64 `json:"limit"`
}

// Event is an immutable audit record. Limit violations append one Event to
// the branch transcript immediately before the error surfaces so post-hoc
// review can identify exactly which nested budget tripped and with what
// numbers.
type Event struct {
	ID        string     `json:"id"`
	Author    string     `json:"author"`
	Timestamp time.Time  `json:"timestamp"`
	Content   *Content   `json:"content,omitempty"`
	Limit     *LimitInfo `json:"limit,omitempty"`
	Message   *string    `json:"message,omitempty"`
}

// NewEvent creates a bare event authored by author.
func NewEvent(author string) Event {
	return Event{
		ID:        NewID(),
		Author:    author,
		Timestamp: time.Now().UTC(),
	}
}

// NewLimitEvent constructs the audit record emitted when a limit of the
// given kind is violated.
func NewLimitEvent(kind string, value, limit float64, message string) Event {
	e := NewEvent("system")
	e.Limit = &LimitInfo{Kind: kind, Value: value, Limit: limit}
	e.Message = &message
	return e
}

// NewMessageEvent constructs an event carrying conversation content.
func NewMessageEvent(author string, content Content) Event {
	e := NewEvent(author)
	e.Content = &content
	return e
}

// NewID generates a new unique identifier for events.
func NewID() string { return uuid.NewString() }
