package agent

import (
	"context"
	"fmt"
	"sync"
)

// Parallel coordinates the concurrent execution of multiple loops.
//
// Each child runs in its own goroutine and receives the parent context,
// which snapshots the parent's limit scopes at the fork boundary: limits a
// child applies are invisible to its siblings, while budgets opened above
// the fork remain shared and account usage from all children.
type Parallel struct {
	name     string
	children []*Loop
}

// NewParallel creates a parallel coordinator over the given loops.
func NewParallel(name string, children ...*Loop) *Parallel {
	return &Parallel{name: name, children: children}
}

// Name returns the coordinator's name.
func (p *Parallel) Name() string { return p.name }

// Run executes all children concurrently with the same input. All children
// run to completion even if siblings fail; the first error encountered is
// returned.
func (p *Parallel) Run(ctx context.Context, input string) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(p.children))

	for _, child := range p.children {
		wg.Add(1)
		go func(c *Loop) {
			defer wg.Done()

			if _, err := c.Run(ctx, input); err != nil {
				errCh <- fmt.Errorf("parallel execution failed for loop %s: %w", c.Name(), err)
			}
		}(child)
	}

	wg.Wait()
	close(errCh)

	if len(errCh) > 0 {
		return <-errCh
	}

	return nil
}
