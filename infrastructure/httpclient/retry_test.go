package httpclient

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quickPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, InitialDelay: time.Millisecond, BackoffFactor: 2.0}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), quickPolicy(), func() error {
		calls++
		if calls < 3 {
			return &StatusError{StatusCode: 503}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_NonTransientReturnsImmediately(t *testing.T) {
	calls := 0
	conflict := &StatusError{StatusCode: 409}
	err := Retry(context.Background(), quickPolicy(), func() error {
		calls++
		return conflict
	})

	assert.Equal(t, 1, calls, "a conflict is terminal, never retried")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 409, se.StatusCode)
}

func TestRetry_ExhaustsBudget(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), quickPolicy(), func() error {
		calls++
		return &StatusError{StatusCode: 500}
	})

	require.Error(t, err)
	assert.Equal(t, 4, calls, "initial attempt plus MaxRetries")
	var se *StatusError
	assert.ErrorAs(t, err, &se, "the last failure stays in the chain")
}

func TestRetry_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, quickPolicy(), func() error {
		t.Fatal("fn must not run after cancellation")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(context.Canceled))
	assert.False(t, IsTransient(context.DeadlineExceeded))
	assert.False(t, IsTransient(&StatusError{StatusCode: 404}))
	assert.False(t, IsTransient(&StatusError{StatusCode: 409}))
	assert.False(t, IsTransient(errors.New("plain")))

	assert.True(t, IsTransient(&StatusError{StatusCode: 429}))
	assert.True(t, IsTransient(&StatusError{StatusCode: 500}))
	assert.True(t, IsTransient(&StatusError{StatusCode: 503}))
	assert.True(t, IsTransient(&net.DNSError{IsTimeout: true}))
}

func TestStatusErrorHelpers(t *testing.T) {
	err := error(&StatusError{Method: "POST", URL: "/mappings", StatusCode: 409, Body: []byte(`{"x":1}`)})

	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, []byte(`{"x":1}`), ConflictBody(err))
	assert.Nil(t, ConflictBody(&StatusError{StatusCode: 500}))
}
