package limit

import (
	"fmt"
	"sync"
	"time"
)

// Count returns a pointer to a count bound. A nil *int64 means unlimited.
func Count(v int64) *int64 { return &v }

// Span returns a pointer to a duration bound. A nil *time.Duration means
// unlimited.
func Span(d time.Duration) *time.Duration { return &d }

// cell is the shared, mutable bound referenced by every node created from
// one handle. Reads are always live: a mutation is visible instantly to all
// nodes sharing the cell, without retroactive validation of measurements
// already recorded.
type cell[T int64 | time.Duration] struct {
	mu sync.RWMutex
	v  *T
}

// get returns the current bound and whether one is set.
func (c *cell[T]) get() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.v == nil {
		var zero T
		return zero, false
	}

	return *c.v, true
}

// set replaces the bound. A negative value is a configuration error and
// panics; nil means unlimited.
func (c *cell[T]) set(v *T, kind Kind) {
	if v != nil && *v < 0 {
		panic(fmt.Sprintf("limit: %s limit must be non-negative or nil, got %v", kind, *v))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if v == nil {
		c.v = nil
		return
	}

	cp := *v
	c.v = &cp
}

// value returns a copy of the bound pointer for callers inspecting the
// current configuration.
func (c *cell[T]) value() *T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.v == nil {
		return nil
	}

	cp := *c.v
	return &cp
}
