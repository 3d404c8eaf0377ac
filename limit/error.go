package limit

import (
	"context"

	"github.com/hupe1980/runbound/core"
	"github.com/hupe1980/runbound/logging"
)

// Kind identifies which budget a violation tripped.
type Kind string

const (
	// KindToken marks a violated token budget.
	KindToken Kind = "token"
	// KindMessage marks a violated conversation-length budget.
	KindMessage Kind = "message"
	// KindTime marks a violated wall-clock budget.
	KindTime Kind = "time"
	// KindWorking marks a violated working-time budget.
	KindWorking Kind = "working"
	// KindOperator is reserved for limits imposed by operators on top of
	// this package.
	KindOperator Kind = "operator"
	// KindCustom is reserved for caller-defined limits layered on the same
	// error type.
	KindCustom Kind = "custom"
)

// Error reports a violated limit. It is a control-flow signal, not a defect
// indicator: callers typically re-raise it unless they explicitly want to
// alter control flow (e.g. terminate an agent loop). Measurements recorded
// before the violation are never rolled back.
type Error struct {
	// Kind is the violated budget's kind.
	Kind Kind
	// Value is the measured value that tripped the budget.
	Value float64
	// Limit is the configured bound at the time of the violation.
	Limit float64
	// Message is a human-readable description embedding kind, value and
	// bound.
	Message string

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap returns the cancellation artifact a time violation was converted
// from, or nil.
func (e *Error) Unwrap() error { return e.cause }

// logger is the package-level logger. Violations are logged at warn level
// immediately before the error surfaces.
var logger logging.Logger = logging.NoOpLogger{}

// SetLogger replaces the package-level logger. Pass nil to disable logging.
func SetLogger(l logging.Logger) {
	if l == nil {
		l = logging.NoOpLogger{}
	}
	logger = l
}

// violation appends an audit event to the branch transcript and logs the
// violation before the error is handed to the caller.
func violation(ctx context.Context, e *Error) error {
	core.TranscriptFrom(ctx).Append(core.NewLimitEvent(string(e.Kind), e.Value, e.Limit, e.Message))
	logger.Warn(e.Message, "kind", string(e.Kind), "value", e.Value, "limit", e.Limit)
	return e
}
