package runbound

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/runbound/core"
	"github.com/hupe1980/runbound/limit"
	"github.com/hupe1980/runbound/model"
)

func TestRunAppliesLimits(t *testing.T) {
	rb := New()

	err := rb.Run(context.Background(), []limit.Limit{limit.Token(limit.Count(10))}, func(ctx context.Context) error {
		limit.RecordModelUsage(ctx, core.Usage{TotalTokens: 12})
		return limit.CheckTokenLimit(ctx)
	})

	var lerr *limit.Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, limit.KindToken, lerr.Kind)
}

func TestRunRecordsViolationsOnTranscript(t *testing.T) {
	tr := core.NewMemoryTranscript()
	rb := New(func(o *Options) { o.Transcript = tr })

	err := rb.Run(context.Background(), []limit.Limit{limit.Message(limit.Count(1))}, func(ctx context.Context) error {
		return limit.CheckMessageLimit(ctx, 3, false)
	})
	require.Error(t, err)

	events := tr.Events()
	require.Len(t, events, 1)
	require.NotNil(t, events[0].Limit)
	assert.Equal(t, "message", events[0].Limit.Kind)
	assert.Equal(t, float64(3), events[0].Limit.Value)
}

func TestRunLoopUnderBudget(t *testing.T) {
	rb := New()

	m := model.NewMockModel("test", "mock")
	m.AddResponse("hi", "hello")
	m.SetUsage(core.Usage{TotalTokens: 4})

	contents, err := rb.RunLoop(context.Background(), m, "hi", limit.Token(limit.Count(10)))
	require.NoError(t, err)
	require.Len(t, contents, 2)
	assert.Equal(t, "hello", contents[1].Text())
}

func TestRunLoopTripsTokenBudget(t *testing.T) {
	rb := New()

	m := model.NewMockModel("test", "mock")
	m.SetUsage(core.Usage{TotalTokens: 20})

	_, err := rb.RunLoop(context.Background(), m, "hi", limit.Token(limit.Count(10)))

	var lerr *limit.Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, limit.KindToken, lerr.Kind)

	// The violation is audited on the façade's transcript.
	mem, ok := rb.Transcript().(*core.MemoryTranscript)
	require.True(t, ok)
	require.Len(t, mem.Events(), 1)
}
