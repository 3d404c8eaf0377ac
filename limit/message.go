package limit

import (
	"context"
	"fmt"
	"sync/atomic"
)

// MessageLimit bounds the length of a conversation. The total number of
// messages is compared to the bound, not just messages added after
// acquisition.
//
// The handle is single use: acquiring an already-used instance panics.
// Create a new handle per scope.
type MessageLimit struct {
	bound cell[int64]
	used  atomic.Bool
}

// Message returns a limit on conversation length. max is the maximum number
// of messages; nil means unlimited. Negative values panic.
func Message(max *int64) *MessageLimit {
	l := &MessageLimit{}
	l.bound.set(max, KindMessage)
	return l
}

// Limit returns the currently configured bound (nil = unlimited).
func (l *MessageLimit) Limit() *int64 { return l.bound.value() }

// SetLimit replaces the bound for the active node created from this handle.
// It does not trigger a check.
func (l *MessageLimit) SetLimit(max *int64) { l.bound.set(max, KindMessage) }

func (l *MessageLimit) start(ctx context.Context) context.Context {
	if l.used.Swap(true) {
		panic("limit: message limit handles are single use; create a new handle per scope")
	}
	return push(ctx, &messageNode{bound: &l.bound, parent: leaf[messageNode](ctx)})
}

func (l *MessageLimit) end(ctx context.Context, err error) error {
	mustPop[messageNode](ctx, KindMessage)
	return err
}

// messageNode carries no counter of its own; the absolute message count is
// supplied externally at check time.
type messageNode struct {
	bound  *cell[int64]
	parent *messageNode
}

// check compares count against this node's bound only. Ancestors are
// deliberately never consulted.
func (n *messageNode) check(ctx context.Context, count int64, raiseForEqual bool) error {
	max, ok := n.bound.get()
	if !ok {
		return nil
	}

	if count < max || (count == max && !raiseForEqual) {
		return nil
	}

	verb := "exceeded"
	if count == max {
		verb = "reached"
	}

	return violation(ctx, &Error{
		Kind:    KindMessage,
		Value:   float64(count),
		Limit:   float64(max),
		Message: fmt.Sprintf("message limit %s: count %d, limit %d", verb, count, max),
	})
}

// CheckMessageLimit compares the conversation's absolute message count
// against the nearest message limit active on the branch. When
// raiseForEqual is true a count equal to the bound already violates
// ("reached"); otherwise only a greater count does ("exceeded"). It returns
// nil when no message scope is active.
func CheckMessageLimit(ctx context.Context, count int, raiseForEqual bool) error {
	n := leaf[messageNode](ctx)
	if n == nil {
		return nil
	}
	return n.check(ctx, int64(count), raiseForEqual)
}
