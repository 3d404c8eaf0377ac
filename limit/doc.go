// Package limit enforces bounded resource budgets across nested and
// concurrently forked regions of an agent run: total token usage,
// conversation length, wall-clock time and working (non-waiting) time.
//
// Budgets are applied with With, which acquires a set of limits for the
// duration of a function and guarantees release in reverse order on every
// exit path:
//
//	max := limit.Count(50_000)
//	err := limit.With(ctx, []limit.Limit{limit.Token(max)}, func(ctx context.Context) error {
//	    return agentLoop(ctx)
//	})
//
// Each acquisition pushes a node onto a per-kind ancestor chain carried by
// the context. Because contexts are immutable and copied at every goroutine
// fork, each concurrently scheduled branch automatically gets its own leaf
// pointer: pushes and pops in one branch are invisible to siblings, while
// nodes acquired above the fork stay shared by all descendants.
//
// Token and working-time limits rely on cooperative checking: producers
// record measurements (RecordModelUsage, RecordWaitingTime) which propagate
// to every ancestor node, and consumers poll (CheckTokenLimit,
// CheckWorkingTimeLimit) which walks the chain leaf to root, failing fast at
// the nearest violating node. Message limits compare an externally supplied
// count against the nearest node only. Time limits are enforced through
// context cancellation rather than polling: the deadline interrupts the next
// ctx-aware wait and release converts the cancellation into a violation.
//
// Violations are reported as *Error through ordinary error returns and can
// be intercepted at any enclosing scope. Configuration mistakes — negative
// bounds, reacquiring a single-use handle, releasing a branch with no active
// scope — are programming errors and panic.
package limit
