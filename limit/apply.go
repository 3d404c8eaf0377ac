package limit

import (
	"context"
)

// Limit is the common handle interface for the four budget kinds. Handles
// are produced by the Token, Message, Time and WorkingTime factories; the
// set is closed.
type Limit interface {
	// start acquires the scope on the branch represented by ctx and returns
	// the derived context. Configuration errors panic.
	start(ctx context.Context) context.Context
	// end releases the scope acquired by the matching start. It receives the
	// context returned by start and the error propagating out of the scope
	// (nil if none) and may convert it, e.g. a fired deadline into a time
	// violation. end must run on every exit path.
	end(ctx context.Context, err error) error
}

// With applies limits in order for the duration of fn. Every successfully
// acquired limit is released in reverse order on every exit path, including
// when a later acquisition panics and when fn itself panics. The error
// returned is fn's error, possibly converted by a releasing scope (a fired
// time limit replaces it with a *Error chained onto it).
func With(ctx context.Context, limits []Limit, fn func(ctx context.Context) error) (err error) {
	type acquired struct {
		lim Limit
		ctx context.Context
	}

	held := make([]acquired, 0, len(limits))
	defer func() {
		for i := len(held) - 1; i >= 0; i-- {
			err = held[i].lim.end(held[i].ctx, err)
		}
	}()

	for _, lim := range limits {
		ctx = lim.start(ctx)
		held = append(held, acquired{lim: lim, ctx: ctx})
	}

	return fn(ctx)
}
