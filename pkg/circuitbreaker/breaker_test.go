package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStore = errors.New("connection refused")

func TestExecute_TripsAfterConsecutiveFailures(t *testing.T) {
	cb := New(Config{Name: "test", MaxRequests: 1, Timeout: time.Minute, ConsecutiveFailures: 2})

	for i := 0; i < 2; i++ {
		_, err := Execute(cb, func() (int64, error) { return 0, errStore })
		require.ErrorIs(t, err, errStore)
		assert.False(t, IsRejected(err))
	}

	calls := 0
	_, err := Execute(cb, func() (int64, error) {
		calls++
		return 1, nil
	})
	assert.True(t, IsRejected(err))
	assert.Zero(t, calls)
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}

func TestExecute_SuccessResetsFailureCount(t *testing.T) {
	cb := New(Config{Name: "test-reset", MaxRequests: 1, Timeout: time.Minute, ConsecutiveFailures: 2})

	_, _ = Execute(cb, func() (int64, error) { return 0, errStore })
	got, err := Execute(cb, func() (int64, error) { return 4, nil })
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)

	_, _ = Execute(cb, func() (int64, error) { return 0, errStore })
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestExecute_CancelledCallsDoNotTrip(t *testing.T) {
	cb := New(Config{Name: "test-cancel", MaxRequests: 1, Timeout: time.Minute, ConsecutiveFailures: 2})

	for i := 0; i < 5; i++ {
		_, err := Execute(cb, func() (int64, error) {
			return 0, fmt.Errorf("script: %w", context.Canceled)
		})
		require.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())

	_, _ = Execute(cb, func() (int64, error) { return 0, context.DeadlineExceeded })
	_, _ = Execute(cb, func() (int64, error) { return 0, context.DeadlineExceeded })
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}

func TestCounterStoreConfig(t *testing.T) {
	cfg := CounterStoreConfig("counter_store_contact")
	assert.Equal(t, "counter_store_contact", cfg.Name)
	assert.Equal(t, uint32(3), cfg.ConsecutiveFailures)
	assert.Positive(t, cfg.Timeout)
}
