package limit

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// TimeLimit bounds the wall-clock time which can elapse while the scope is
// open. Unlike the cooperative limits it is enforced through context
// cancellation: acquiring the scope arms a deadline on the derived context,
// and any ctx-aware wait inside the scope is interrupted once the bound
// elapses. Code that runs without consulting the context is not interrupted;
// use WorkingTime to budget active compute.
//
// Release always disarms the deadline, even while another error is already
// propagating. If the scope's own deadline fired, release converts the
// cancellation into a time violation chained onto the in-flight error.
// Nesting composes through the context tree: the nearer deadline fires
// first and is caught by its own scope's release.
//
// The handle is single use (including direct self-nesting): acquiring an
// already-used instance panics. Create a new handle per scope.
type TimeLimit struct {
	max  *time.Duration
	used atomic.Bool

	elapsed error
	cancel  context.CancelFunc
}

// Time returns a limit on elapsed wall-clock time. max is the maximum
// duration; nil means unlimited. Negative values panic.
func Time(max *time.Duration) *TimeLimit {
	if max != nil && *max < 0 {
		panic(fmt.Sprintf("limit: time limit must be non-negative or nil, got %v", *max))
	}

	l := &TimeLimit{}
	if max != nil {
		cp := *max
		l.max = &cp
	}

	return l
}

// Limit returns the configured bound (nil = unlimited). Time bounds are
// fixed at construction; the deadline cannot be re-armed once the scope is
// open.
func (l *TimeLimit) Limit() *time.Duration {
	if l.max == nil {
		return nil
	}
	cp := *l.max
	return &cp
}

func (l *TimeLimit) start(ctx context.Context) context.Context {
	if l.used.Swap(true) {
		panic("limit: time limit handles are single use; create a new handle per scope")
	}

	if l.max == nil {
		return ctx
	}

	// The sentinel lets release distinguish this scope's deadline from an
	// outer scope's via context.Cause identity.
	l.elapsed = errors.New("time limit elapsed")

	tctx, cancel := context.WithTimeoutCause(ctx, *l.max, l.elapsed)
	l.cancel = cancel

	return tctx
}

func (l *TimeLimit) end(ctx context.Context, err error) error {
	if l.cancel == nil {
		return err
	}

	l.cancel()

	if context.Cause(ctx) != l.elapsed {
		return err
	}

	secs := l.max.Seconds()

	return violation(ctx, &Error{
		Kind:    KindTime,
		Value:   secs,
		Limit:   secs,
		Message: fmt.Sprintf("time limit exceeded: limit %.2fs", secs),
		cause:   err,
	})
}
