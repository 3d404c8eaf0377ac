package limit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageLimitValidatesBound(t *testing.T) {
	require.Panics(t, func() { Message(Count(-1)) })

	l := Message(Count(3))
	require.Panics(t, func() { l.SetLimit(Count(-1)) })
}

func TestMessageLimitNoActiveScope(t *testing.T) {
	require.NoError(t, CheckMessageLimit(context.Background(), 100, true))
}

func TestMessageLimitUnlimited(t *testing.T) {
	err := With(context.Background(), []Limit{Message(nil)}, func(ctx context.Context) error {
		return CheckMessageLimit(ctx, 1_000_000, true)
	})
	require.NoError(t, err)
}

func TestMessageLimitReachedVersusExceeded(t *testing.T) {
	err := With(context.Background(), []Limit{Message(Count(3))}, func(ctx context.Context) error {
		// Equal count only violates in strict mode.
		require.NoError(t, CheckMessageLimit(ctx, 3, false))

		err := CheckMessageLimit(ctx, 3, true)
		var lerr *Error
		require.ErrorAs(t, err, &lerr)
		assert.Equal(t, KindMessage, lerr.Kind)
		assert.Equal(t, float64(3), lerr.Value)
		assert.Equal(t, float64(3), lerr.Limit)
		assert.Contains(t, lerr.Message, "reached")

		err = CheckMessageLimit(ctx, 4, false)
		require.ErrorAs(t, err, &lerr)
		assert.Equal(t, float64(4), lerr.Value)
		assert.Contains(t, lerr.Message, "exceeded")

		return nil
	})
	require.NoError(t, err)
}

func TestMessageLimitChecksNearestNodeOnly(t *testing.T) {
	err := With(context.Background(), []Limit{Message(Count(1))}, func(ctx context.Context) error {
		return With(ctx, []Limit{Message(Count(100))}, func(ctx context.Context) error {
			// Only the inner bound of 100 is consulted; the outer bound of 1
			// is deliberately skipped.
			return CheckMessageLimit(ctx, 5, false)
		})
	})
	require.NoError(t, err)
}

func TestMessageLimitOuterAppliesAfterInnerReleased(t *testing.T) {
	err := With(context.Background(), []Limit{Message(Count(1))}, func(ctx context.Context) error {
		err := With(ctx, []Limit{Message(Count(100))}, func(ctx context.Context) error {
			return CheckMessageLimit(ctx, 5, false)
		})
		require.NoError(t, err)

		return CheckMessageLimit(ctx, 5, false)
	})

	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, float64(5), lerr.Value)
	assert.Equal(t, float64(1), lerr.Limit)
}

func TestMessageLimitHandleIsSingleUse(t *testing.T) {
	l := Message(Count(3))

	require.NoError(t, With(context.Background(), []Limit{l}, func(context.Context) error {
		return nil
	}))

	// Sequential reuse.
	require.Panics(t, func() {
		_ = With(context.Background(), []Limit{l}, func(context.Context) error {
			return nil
		})
	})
}

func TestMessageLimitHandleRejectsSelfNesting(t *testing.T) {
	l := Message(Count(3))

	require.Panics(t, func() {
		_ = With(context.Background(), []Limit{l}, func(ctx context.Context) error {
			return With(ctx, []Limit{l}, func(context.Context) error {
				return nil
			})
		})
	})
}

func TestMessageLimitBoundMutationIsLive(t *testing.T) {
	l := Message(Count(100))

	err := With(context.Background(), []Limit{l}, func(ctx context.Context) error {
		require.NoError(t, CheckMessageLimit(ctx, 5, false))

		l.SetLimit(Count(3))
		return CheckMessageLimit(ctx, 5, false)
	})

	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, float64(3), lerr.Limit)
}
