package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/runbound/core"
	"github.com/hupe1980/runbound/limit"
	"github.com/hupe1980/runbound/model"
)

func TestLoopSingleTurn(t *testing.T) {
	m := model.NewMockModel("test", "mock")
	m.AddResponse("hi", "hello")

	loop := NewLoop("greeter", m)

	contents, err := loop.Run(context.Background(), "hi")
	require.NoError(t, err)
	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "hello", contents[1].Text())
	assert.Equal(t, 1, m.Calls())
}

func TestLoopRunsUntilStopCondition(t *testing.T) {
	m := model.NewMockModel("test", "mock")

	calls := 0
	loop := NewLoop("worker", m,
		WithStopCondition(func(core.Content) bool {
			calls++
			return calls >= 3
		}),
	)

	contents, err := loop.Run(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, 3, m.Calls())
	assert.Len(t, contents, 4)
}

func TestLoopMaxIterations(t *testing.T) {
	m := model.NewMockModel("test", "mock")

	loop := NewLoop("worker", m,
		WithMaxIterations(2),
		WithStopCondition(func(core.Content) bool { return false }),
	)

	_, err := loop.Run(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Calls())
}

func TestLoopStopsBeforeGeneratingWhenMessageLimitWouldBeReached(t *testing.T) {
	m := model.NewMockModel("test", "mock")

	// Limit of 3 messages: user + assistant fits, but generating a second
	// response would need a conversation of 4.
	loop := NewLoop("worker", m,
		WithLimits(limit.Message(limit.Count(3))),
		WithStopCondition(func(core.Content) bool { return false }),
	)

	contents, err := loop.Run(context.Background(), "go")

	var lerr *limit.Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, limit.KindMessage, lerr.Kind)
	assert.Equal(t, 1, m.Calls())
	assert.Len(t, contents, 2)
}

func TestLoopTokenLimitSurfacesFromModel(t *testing.T) {
	m := model.NewMockModel("test", "mock")
	m.SetUsage(core.Usage{TotalTokens: 7})

	loop := NewLoop("worker", m,
		WithLimits(limit.Token(limit.Count(10))),
		WithStopCondition(func(core.Content) bool { return false }),
	)

	_, err := loop.Run(context.Background(), "go")

	var lerr *limit.Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, limit.KindToken, lerr.Kind)
	assert.Equal(t, float64(14), lerr.Value)
	assert.Equal(t, 2, m.Calls())
}

func TestLoopLimitsReleasedBetweenRuns(t *testing.T) {
	m := model.NewMockModel("test", "mock")
	m.SetUsage(core.Usage{TotalTokens: 6})

	loop := NewLoop("worker", m, WithLimits(limit.Token(limit.Count(10))))

	// Each run gets a fresh scope, so a single 6-token turn never trips.
	for i := 0; i < 3; i++ {
		_, err := loop.Run(context.Background(), "go")
		require.NoError(t, err)
	}
}

func TestLoopTimeLimitCancelsGeneration(t *testing.T) {
	m := model.NewMockModel("test", "mock")

	loop := NewLoop("worker", m, WithLimits(limit.Time(limit.Span(0))))

	_, err := loop.Run(context.Background(), "go")

	var lerr *limit.Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, limit.KindTime, lerr.Kind)
}
