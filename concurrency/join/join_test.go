package join

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllCollectsEveryOutcome(t *testing.T) {
	boom := errors.New("boom")
	res := All(context.Background(),
		Go("a", func(context.Context) (any, error) { return 1, nil }),
		Go("b", func(context.Context) (any, error) { return nil, boom }),
	)

	a, err := Value[int](res, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, a)

	assert.ErrorIs(t, res.Err("b"), boom)
	assert.Equal(t, []string{"a"}, res.Succeeded())
	assert.Equal(t, map[string]error{"b": boom}, res.Failed())
	assert.True(t, res.Partial())
	assert.False(t, res.AllFailed())
}

func TestAllRunsConcurrently(t *testing.T) {
	const delay = 150 * time.Millisecond
	sleep := func(ctx context.Context) (any, error) {
		select {
		case <-time.After(delay):
			return "done", nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	start := time.Now()
	res := All(context.Background(), Go("x", sleep), Go("y", sleep), Go("z", sleep))
	elapsed := time.Since(start)

	assert.Empty(t, res.Failed())
	assert.Less(t, elapsed, 2*delay)
}

func TestFailureDoesNotCancelSiblings(t *testing.T) {
	var finished atomic.Bool
	res := All(context.Background(),
		Go("fast-fail", func(context.Context) (any, error) { return nil, errors.New("fail") }),
		Go("slow-ok", func(ctx context.Context) (any, error) {
			select {
			case <-time.After(50 * time.Millisecond):
				finished.Store(true)
				return "ok", nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}),
	)

	assert.True(t, finished.Load())
	assert.NoError(t, res.Err("slow-ok"))
}

func TestAllFailed(t *testing.T) {
	fail := func(context.Context) (any, error) { return nil, errors.New("x") }
	res := All(context.Background(), Go("a", fail), Go("b", fail))

	assert.True(t, res.AllFailed())
	assert.False(t, res.Partial())
	assert.False(t, All(context.Background()).AllFailed())
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	res := All(ctx, Go("a", func(context.Context) (any, error) {
		ran.Store(true)
		return nil, nil
	}))

	assert.False(t, ran.Load())
	assert.ErrorIs(t, res.Err("a"), context.Canceled)
}

func TestPanicBecomesError(t *testing.T) {
	res := All(context.Background(), Go("p", func(context.Context) (any, error) {
		panic("bad")
	}))

	require.Error(t, res.Err("p"))
	assert.Contains(t, res.Err("p").Error(), "panicked")
}

func TestValueTypeMismatch(t *testing.T) {
	res := All(context.Background(), Go("a", func(context.Context) (any, error) { return "s", nil }))

	_, err := Value[int](res, "a")
	require.Error(t, err)

	_, err = Value[int](res, "missing")
	require.Error(t, err)
}

func TestDuplicateNamesPanic(t *testing.T) {
	noop := func(context.Context) (any, error) { return nil, nil }
	assert.Panics(t, func() { All(context.Background(), Go("a", noop), Go("a", noop)) })
}
