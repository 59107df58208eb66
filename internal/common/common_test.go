package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserError(t *testing.T) {
	err := NewUserError("could not add customer", ErrInvalidMobile)
	assert.Equal(t, "could not add customer: mobile number must be exactly 9 digits", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidMobile))

	bare := NewUserError("nothing to do", nil)
	assert.Equal(t, "nothing to do", bare.Error())
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	handler, err := NewHandler(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)

	slog.New(handler).Info("customer added", "name", "John")
	assert.Contains(t, buf.String(), `"name":"John"`)

	_, err = NewHandler(&buf, slog.LevelInfo, "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()
	opts := RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

	t.Run("succeeds after transient failure", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			if calls < 2 {
				return errors.New("transient")
			}
			return nil
		}, opts)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		bad := errors.New("bad request")
		err := WithRetry(ctx, func() error {
			calls++
			return Permanent(bad)
		}, opts)
		assert.ErrorIs(t, err, bad)
		assert.NotErrorIs(t, err, ErrMaxRetries)
		assert.Equal(t, 1, calls)
	})

	t.Run("custom policy", func(t *testing.T) {
		calls := 0
		custom := opts
		custom.Retryable = func(err error) bool { return errors.Is(err, ErrRateLimit) }
		err := WithRetry(ctx, func() error {
			calls++
			if calls == 1 {
				return ErrRateLimit
			}
			return ErrInvalidAmount
		}, custom)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Equal(t, 2, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		down := errors.New("still down")
		err := WithRetry(ctx, func() error {
			calls++
			return down
		}, opts)
		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.ErrorIs(t, err, down)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops when context ends", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		calls := 0
		err := WithRetry(cctx, func() error {
			calls++
			cancel()
			return errors.New("flaky")
		}, RetryOptions{MaxAttempts: 5, InitialDelay: time.Hour})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(errors.New("connection reset")))
	assert.False(t, IsRetryable(Permanent(ErrInvalidAmount)))
	assert.False(t, IsRetryable(fmt.Errorf("wrapped: %w", context.Canceled)))
	assert.Nil(t, Permanent(nil))
}
