package limit

import (
	"context"
)

// Leaf pointers are carried as context values, one chain per limit kind.
// The resulting data structure is a tree: every node holds a fixed pointer
// to the node that was the branch's leaf when it was pushed, and forking a
// goroutine with the current context snapshots the leaf for the child. Later
// pushes in any branch derive fresh contexts and never mutate what siblings
// observe, while nodes pushed above the fork stay shared.

// leafKey is a typed context key; each node-type instantiation is a distinct
// key.
type leafKey[N any] struct{}

// leaf returns the branch's current leaf node for kind N, or nil.
func leaf[N any](ctx context.Context) *N {
	n, _ := ctx.Value(leafKey[N]{}).(*N)
	return n
}

// push derives a context whose leaf for kind N is n. The caller wires
// n.parent to the previous leaf before pushing.
func push[N any](ctx context.Context, n *N) context.Context {
	return context.WithValue(ctx, leafKey[N]{}, n)
}

// mustPop asserts the branch has an active node of kind N at release time.
// Releasing a branch whose chain is empty is a programming error, not a
// limit violation.
func mustPop[N any](ctx context.Context, kind Kind) *N {
	n := leaf[N](ctx)
	if n == nil {
		panic("limit: " + string(kind) + " limit released on a branch with no active scope")
	}
	return n
}
