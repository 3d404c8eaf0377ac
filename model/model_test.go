package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/runbound/core"
	"github.com/hupe1980/runbound/limit"
)

func TestMockModelCannedResponse(t *testing.T) {
	m := NewMockModel("test", "mock")
	m.AddResponse("hi", "hello there")

	resp, err := m.Generate(context.Background(), Request{
		Contents: []core.Content{core.NewUserContent("hi")},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", resp.Content.Text())
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 1, m.Calls())
}

func TestMockModelRequiresContents(t *testing.T) {
	m := NewMockModel("test", "mock")

	_, err := m.Generate(context.Background(), Request{})
	require.Error(t, err)
}

func TestMockModelRecordsUsageAgainstTokenBudget(t *testing.T) {
	m := NewMockModel("test", "mock")
	m.SetUsage(core.Usage{TotalTokens: 6})

	err := limit.With(context.Background(), []limit.Limit{limit.Token(limit.Count(10))}, func(ctx context.Context) error {
		if _, err := m.Generate(ctx, Request{Contents: []core.Content{core.NewUserContent("hi")}}); err != nil {
			return err
		}
		// The second call pushes the total to 12, past the bound of 10.
		_, err := m.Generate(ctx, Request{Contents: []core.Content{core.NewUserContent("hi")}})
		return err
	})

	var lerr *limit.Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, limit.KindToken, lerr.Kind)
	assert.Equal(t, float64(12), lerr.Value)
	assert.Equal(t, float64(10), lerr.Limit)
}

func TestMockModelUsageIsRecordedEvenWhenBudgetTrips(t *testing.T) {
	m := NewMockModel("test", "mock")
	m.SetUsage(core.Usage{TotalTokens: 5})

	err := limit.With(context.Background(), []limit.Limit{limit.Token(limit.Count(2))}, func(ctx context.Context) error {
		_, err := m.Generate(ctx, Request{Contents: []core.Content{core.NewUserContent("hi")}})
		require.Error(t, err)

		// Usage from the tripped call was not rolled back.
		return limit.CheckTokenLimit(ctx)
	})

	var lerr *limit.Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, float64(5), lerr.Value)
}
