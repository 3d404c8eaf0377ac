// Package runbound provides a high-level façade for running agent
// conversations under nested resource budgets (tokens, messages, wall-clock
// and working time). Most applications interact with this package by:
//  1. Creating a Runbound via New() (optionally overriding the transcript
//     sink and logger)
//  2. Building one or more limits (limit.Token, limit.Message, limit.Time,
//     limit.WorkingTime)
//  3. Running a model-driven loop under those limits via Run()
//
// The façade delegates enforcement to the limit package while keeping setup
// and usage ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply a durable transcript
// sink and a structured logger.
package runbound

import (
	"context"

	"github.com/hupe1980/runbound/agent"
	"github.com/hupe1980/runbound/core"
	"github.com/hupe1980/runbound/limit"
	"github.com/hupe1980/runbound/logging"
	"github.com/hupe1980/runbound/model"
)

// Options configures the Runbound instance.
type Options struct {
	// Transcript receives an audit event every time a budget is violated.
	// Defaults to an in-memory transcript if not provided.
	Transcript core.Transcript

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Runbound is the high-level façade aggregating the transcript sink and
// logger shared by all runs.
type Runbound struct {
	opts Options
}

// New creates a new Runbound instance with optional overrides.
func New(optFns ...func(o *Options)) *Runbound {
	opts := Options{
		Transcript: core.NewMemoryTranscript(),
		Logger:     logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runbound{opts: opts}
}

// Transcript returns the configured transcript sink.
func (r *Runbound) Transcript() core.Transcript { return r.opts.Transcript }

// Run executes fn under the given limits with the configured transcript
// attached to the context. Limits are acquired in order before fn runs and
// released in reverse order afterwards; a tripped budget surfaces as a
// *limit.Error.
func (r *Runbound) Run(ctx context.Context, limits []limit.Limit, fn func(ctx context.Context) error) error {
	ctx = core.WithTranscript(ctx, r.opts.Transcript)
	return limit.With(ctx, limits, fn)
}

// RunLoop is a synchronous helper that drives a conversation loop over m
// under the given limits and returns the accumulated conversation.
func (r *Runbound) RunLoop(ctx context.Context, m model.Model, input string, limits ...limit.Limit) ([]core.Content, error) {
	loop := agent.NewLoop(m.Info().Name, m,
		agent.WithLimits(limits...),
		agent.WithLogger(r.opts.Logger),
	)

	ctx = core.WithTranscript(ctx, r.opts.Transcript)
	return loop.Run(ctx, input)
}
