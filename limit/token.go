package limit

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/runbound/core"
)

// TokenLimit bounds the total number of tokens which can be used while the
// scope is open. Tokens used before acquisition are not counted.
//
// The handle is reentrant: it may be applied multiple times, sequentially or
// nested within itself, and on concurrently running branches. All
// acquisitions share the handle's single mutable bound.
//
// Enforcement is cooperative: producers call RecordModelUsage and consumers
// call CheckTokenLimit.
type TokenLimit struct {
	bound cell[int64]
}

// Token returns a limit on total token consumption. max is the maximum
// number of tokens; nil means unlimited. Negative values panic.
func Token(max *int64) *TokenLimit {
	l := &TokenLimit{}
	l.bound.set(max, KindToken)
	return l
}

// Limit returns the currently configured bound (nil = unlimited).
func (l *TokenLimit) Limit() *int64 { return l.bound.value() }

// SetLimit replaces the bound for every active node created from this
// handle. It does not re-check usage already recorded, which may now exceed
// the new bound; the next CheckTokenLimit will report it.
func (l *TokenLimit) SetLimit(max *int64) { l.bound.set(max, KindToken) }

func (l *TokenLimit) start(ctx context.Context) context.Context {
	return push(ctx, &tokenNode{bound: &l.bound, parent: leaf[tokenNode](ctx)})
}

func (l *TokenLimit) end(ctx context.Context, err error) error {
	mustPop[tokenNode](ctx, KindToken)
	return err
}

// tokenNode accumulates usage for one acquisition. The parent pointer is
// fixed at push time and never altered.
type tokenNode struct {
	bound  *cell[int64]
	parent *tokenNode

	mu    sync.Mutex
	usage core.Usage
}

// record adds usage to this node and every strict ancestor, so an
// ancestor's own total always reflects everything recorded at or below it.
func (n *tokenNode) record(usage core.Usage) {
	if n.parent != nil {
		n.parent.record(usage)
	}

	n.mu.Lock()
	n.usage = n.usage.Add(usage)
	n.mu.Unlock()
}

// check walks leaf to root, failing fast at the nearest violating node.
// Ancestors of a violating node are not evaluated in the same call.
func (n *tokenNode) check(ctx context.Context) error {
	if err := n.checkSelf(ctx); err != nil {
		return err
	}
	if n.parent != nil {
		return n.parent.check(ctx)
	}
	return nil
}

func (n *tokenNode) checkSelf(ctx context.Context) error {
	max, ok := n.bound.get()
	if !ok {
		return nil
	}

	n.mu.Lock()
	total := int64(n.usage.TotalTokens)
	n.mu.Unlock()

	if total <= max {
		return nil
	}

	return violation(ctx, &Error{
		Kind:    KindToken,
		Value:   float64(total),
		Limit:   float64(max),
		Message: fmt.Sprintf("token limit exceeded: value %d, limit %d", total, max),
	})
}

// RecordModelUsage records model usage against every token limit active on
// the branch. It never checks the limits and is a no-op when no token scope
// is active.
func RecordModelUsage(ctx context.Context, usage core.Usage) {
	if n := leaf[tokenNode](ctx); n != nil {
		n.record(usage)
	}
}

// CheckTokenLimit reports whether accumulated usage exceeds any token limit
// active on the branch, nearest scope first. It returns nil when no token
// scope is active.
func CheckTokenLimit(ctx context.Context) error {
	n := leaf[tokenNode](ctx)
	if n == nil {
		return nil
	}
	return n.check(ctx)
}
