package rpc

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cryptohub-labs/walletalert/internal/common"
	"github.com/cryptohub-labs/walletalert/pkg/config"
)

func fastRetryConfig(attempts int) *config.RetryConfig {
	return &config.RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    common.NewDuration(time.Millisecond),
		MaxBackoff:        common.NewDuration(5 * time.Millisecond),
		BackoffMultiplier: 2.0,
	}
}

func TestRetryableError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"connection refused", syscall.ECONNREFUSED, true},
		{"connection reset", syscall.ECONNRESET, true},
		{"timeout text", errors.New("request timeout exceeded"), true},
		{"deadline text", errors.New("context deadline exceeded"), true},
		{"rate limited", errors.New("429 too many requests"), true},
		{"bad gateway", errors.New("502 bad gateway"), true},
		{"service unavailable", errors.New("503 service unavailable"), true},
		{"execution reverted", errors.New("execution reverted"), false},
		{"plain error", errors.New("invalid argument"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.retryable, retryableError(tt.err))
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	t.Parallel()

	cfg := &config.RetryConfig{
		MaxAttempts:       5,
		InitialBackoff:    common.NewDuration(time.Second),
		MaxBackoff:        common.NewDuration(10 * time.Second),
		BackoffMultiplier: 2.0,
	}

	// First attempt never waits
	require.Zero(t, calculateBackoff(1, cfg))

	// Later attempts grow exponentially within the ±25% jitter band
	second := calculateBackoff(2, cfg)
	require.GreaterOrEqual(t, second, 750*time.Millisecond)
	require.LessOrEqual(t, second, 1250*time.Millisecond)

	third := calculateBackoff(3, cfg)
	require.GreaterOrEqual(t, third, 1500*time.Millisecond)
	require.LessOrEqual(t, third, 2500*time.Millisecond)

	// Backoff is capped at MaxBackoff plus jitter
	tenth := calculateBackoff(10, cfg)
	require.LessOrEqual(t, tenth, 12500*time.Millisecond)
}

func TestRetryWithBackoff_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retryWithBackoff(context.Background(), fastRetryConfig(5), "test_op", func() error {
		calls++
		if calls < 3 {
			return syscall.ECONNRESET
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestRetryWithBackoff_NonRetryableFailsImmediately(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retryWithBackoff(context.Background(), fastRetryConfig(5), "test_op", func() error {
		calls++
		return errors.New("execution reverted")
	})

	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestRetryWithBackoff_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retryWithBackoff(context.Background(), fastRetryConfig(3), "test_op", func() error {
		calls++
		return syscall.ECONNREFUSED
	})

	require.Error(t, err)
	require.Equal(t, 3, calls)
	require.Contains(t, err.Error(), "all 3 attempts failed")
}

func TestRetryWithBackoff_NilConfigExecutesOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retryWithBackoff(context.Background(), nil, "test_op", func() error {
		calls++
		return syscall.ECONNREFUSED
	})

	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestRetryWithBackoff_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retryWithBackoff(ctx, fastRetryConfig(5), "test_op", func() error {
		calls++
		return syscall.ECONNREFUSED
	})

	require.Error(t, err)
	require.Zero(t, calls)
}
