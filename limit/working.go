package limit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// wallclock supplies timestamps for working-time measurement. Tests swap in
// a mock to advance time deterministically.
var wallclock clock.Clock = clock.New()

// WorkingTimeLimit bounds working time: wall-clock time elapsed since
// acquisition minus externally reported waiting time (e.g. time queued for
// model capacity). It approximates active compute in a cooperative
// scheduler, where a wall-clock measurement alone cannot tell running code
// from code blocked on external resources.
//
// The handle is reentrant like TokenLimit: it may be applied repeatedly,
// including directly nested within itself, and on concurrent branches.
//
// Enforcement is cooperative: producers call RecordWaitingTime and
// consumers call CheckWorkingTimeLimit.
type WorkingTimeLimit struct {
	bound cell[time.Duration]
}

// WorkingTime returns a limit on working time. max is the maximum duration;
// nil means unlimited. Negative values panic.
func WorkingTime(max *time.Duration) *WorkingTimeLimit {
	l := &WorkingTimeLimit{}
	l.bound.set(max, KindWorking)
	return l
}

// Limit returns the currently configured bound (nil = unlimited).
func (l *WorkingTimeLimit) Limit() *time.Duration { return l.bound.value() }

// SetLimit replaces the bound for every active node created from this
// handle. It does not trigger a check.
func (l *WorkingTimeLimit) SetLimit(max *time.Duration) { l.bound.set(max, KindWorking) }

func (l *WorkingTimeLimit) start(ctx context.Context) context.Context {
	return push(ctx, &workingNode{
		bound:  &l.bound,
		parent: leaf[workingNode](ctx),
		start:  wallclock.Now(),
	})
}

func (l *WorkingTimeLimit) end(ctx context.Context, err error) error {
	mustPop[workingNode](ctx, KindWorking)
	return err
}

// workingNode measures one acquisition: a fixed start timestamp plus an
// accumulated waiting total. Working time is derived from a live clock
// sample at check time, not a running sum.
type workingNode struct {
	bound  *cell[time.Duration]
	parent *workingNode
	start  time.Time

	mu      sync.Mutex
	waiting time.Duration
}

// recordWaiting adds waiting time to this node and every strict ancestor,
// mirroring token write-through. Waiting recorded here discounts future
// checks; it is never applied retroactively to values already reported.
func (n *workingNode) recordWaiting(d time.Duration) {
	if n.parent != nil {
		n.parent.recordWaiting(d)
	}

	n.mu.Lock()
	n.waiting += d
	n.mu.Unlock()
}

// working returns elapsed time since start minus accumulated waiting.
func (n *workingNode) working() time.Duration {
	n.mu.Lock()
	w := n.waiting
	n.mu.Unlock()

	return wallclock.Since(n.start) - w
}

// check walks leaf to root with the same fail-fast policy as token limits:
// ancestors are evaluated only after this node passes.
func (n *workingNode) check(ctx context.Context) error {
	if err := n.checkSelf(ctx); err != nil {
		return err
	}
	if n.parent != nil {
		return n.parent.check(ctx)
	}
	return nil
}

func (n *workingNode) checkSelf(ctx context.Context) error {
	max, ok := n.bound.get()
	if !ok {
		return nil
	}

	working := n.working()
	if working <= max {
		return nil
	}

	return violation(ctx, &Error{
		Kind:    KindWorking,
		Value:   working.Seconds(),
		Limit:   max.Seconds(),
		Message: fmt.Sprintf("working time limit exceeded: value %.2fs, limit %.2fs", working.Seconds(), max.Seconds()),
	})
}

// RecordWaitingTime records time spent waiting on external capacity against
// every working-time limit active on the branch. It never checks the limits
// and is a no-op when no working-time scope is active.
func RecordWaitingTime(ctx context.Context, d time.Duration) {
	if n := leaf[workingNode](ctx); n != nil {
		n.recordWaiting(d)
	}
}

// CheckWorkingTimeLimit reports whether working time exceeds any
// working-time limit active on the branch, nearest scope first. It returns
// nil when no working-time scope is active.
func CheckWorkingTimeLimit(ctx context.Context) error {
	n := leaf[workingNode](ctx)
	if n == nil {
		return nil
	}
	return n.check(ctx)
}
