package host

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwait_Succeeded(t *testing.T) {
	v, err := Await(context.Background(), "read", func(done func(AsyncResult[string])) {
		go done(Succeeded("body"))
	})
	require.NoError(t, err)
	assert.Equal(t, "body", v)
}

func TestAwait_FailedIsOpError(t *testing.T) {
	cause := errors.New("item is locked")
	_, err := Await(context.Background(), "write", func(done func(AsyncResult[struct{}])) {
		done(Failed[struct{}](cause))
	})

	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "write", opErr.Op)
	assert.ErrorIs(t, err, cause)
}

func TestAwait_FailedWithoutCause(t *testing.T) {
	_, err := Await(context.Background(), "read", func(done func(AsyncResult[int])) {
		done(AsyncResult[int]{Status: StatusFailed})
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errFailedNoDetail)
}

func TestAwait_NoMessagePassesThrough(t *testing.T) {
	_, err := Await(context.Background(), "read", func(done func(AsyncResult[string])) {
		done(Failed[string](ErrNoMessage))
	})
	assert.True(t, IsNoMessage(err))

	var opErr *OpError
	assert.False(t, errors.As(err, &opErr))
}

func TestAwait_OnlyFirstCallbackCounts(t *testing.T) {
	v, err := Await(context.Background(), "read", func(done func(AsyncResult[string])) {
		done(Succeeded("first"))
		done(Failed[string](errors.New("late")))
	})
	require.NoError(t, err)
	assert.Equal(t, "first", v)
}

func TestAwait_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := Await(ctx, "read", func(done func(AsyncResult[string])) {})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGo(t *testing.T) {
	v, err := Go(context.Background(), "count", func() (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = Go(context.Background(), "count", func() (int, error) { return 0, errors.New("boom") })
	assert.EqualError(t, err, "host count: boom")
}
