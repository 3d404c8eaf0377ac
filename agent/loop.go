package agent

import (
	"context"
	"errors"

	"github.com/hupe1980/runbound/core"
	"github.com/hupe1980/runbound/limit"
	"github.com/hupe1980/runbound/logging"
	"github.com/hupe1980/runbound/model"
)

// Loop coordinates a conversation with a model under a set of limits.
//
// Each iteration checks the message budget before generating (strict, so a
// conversation that would reach the cap stops early), generates, appends
// the response, then polls the message and working-time budgets. Token
// budgets are enforced inside the model implementations. A tripped budget
// terminates the loop with the violation as the returned error.
type Loop struct {
	name     string
	model    model.Model
	limits   []limit.Limit
	maxIters int
	stop     func(core.Content) bool
	logger   logging.Logger
}

// LoopOption mutates loop configuration.
type LoopOption func(*Loop)

// WithLimits sets the limits applied for the duration of each Run.
func WithLimits(limits ...limit.Limit) LoopOption {
	return func(l *Loop) { l.limits = limits }
}

// WithMaxIterations caps the number of generations per Run.
func WithMaxIterations(n int) LoopOption {
	return func(l *Loop) { l.maxIters = n }
}

// WithStopCondition sets a predicate evaluated on each assistant response;
// returning true ends the loop.
func WithStopCondition(fn func(core.Content) bool) LoopOption {
	return func(l *Loop) { l.stop = fn }
}

// WithLogger sets the loop logger.
func WithLogger(logger logging.Logger) LoopOption {
	return func(l *Loop) { l.logger = logger }
}

// NewLoop constructs a loop around a model.
// Defaults: no limits, 100 iterations, stop after the first response.
func NewLoop(name string, m model.Model, opts ...LoopOption) *Loop {
	l := &Loop{
		name:     name,
		model:    m,
		maxIters: 100,
		logger:   logging.NoOpLogger{},
	}

	for _, o := range opts {
		o(l)
	}

	return l
}

// Name returns the loop's name.
func (l *Loop) Name() string { return l.name }

// Run executes the conversation loop under the configured limits. The
// conversation accumulated so far is returned alongside any error; when a
// budget trips, err satisfies errors.As(*limit.Error).
func (l *Loop) Run(ctx context.Context, input string) ([]core.Content, error) {
	contents := []core.Content{core.NewUserContent(input)}

	err := limit.With(ctx, l.limits, func(ctx context.Context) error {
		for i := 0; i < l.maxIters; i++ {
			// Generating would add one message; a count that already reaches
			// the cap makes the generation pointless.
			if err := limit.CheckMessageLimit(ctx, len(contents)+1, true); err != nil {
				return err
			}

			resp, err := l.model.Generate(ctx, model.Request{Contents: contents})
			if err != nil {
				return err
			}

			contents = append(contents, resp.Content)

			if err := limit.CheckMessageLimit(ctx, len(contents), false); err != nil {
				return err
			}
			if err := limit.CheckWorkingTimeLimit(ctx); err != nil {
				return err
			}

			if l.stop != nil && !l.stop(resp.Content) {
				continue
			}
			return nil
		}
		return nil
	})

	if err != nil {
		var lerr *limit.Error
		if errors.As(err, &lerr) {
			l.logger.Warn("loop terminated by limit", "loop", l.name, "kind", string(lerr.Kind))
		}
		return contents, err
	}

	return contents, nil
}
