package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drjehan/portfolio-api/pkg/logger"
	"github.com/drjehan/portfolio-api/pkg/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Config holds circuit breaker configuration
type Config struct {
	Name string
	// MaxRequests is the number of trial calls let through while half-open
	MaxRequests uint32
	// Timeout is how long the breaker stays open before a trial call
	Timeout time.Duration
	// ConsecutiveFailures trips the breaker
	ConsecutiveFailures uint32
}

// CounterStoreConfig suits the rate limit counter store: a few failures in a
// row mean it is down, and checks should skip it instead of waiting out the
// full call timeout on every request.
func CounterStoreConfig(name string) Config {
	return Config{
		Name:                name,
		MaxRequests:         1,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 3,
	}
}

// New creates a breaker that logs and exports its state transitions
func New(cfg Config) *gobreaker.CircuitBreaker {
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 1
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(float64(gobreaker.StateClosed))

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         cfg.Name,
		MaxRequests:  cfg.MaxRequests,
		Timeout:      cfg.Timeout,
		IsSuccessful: isSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// isSuccessful does not count a cancelled call against the dependency. A
// caller that went away says nothing about its health.
func isSuccessful(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// Execute runs fn through cb
func Execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T

	result, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker %q: unexpected result type %T", cb.Name(), result)
	}
	return typed, nil
}

// IsRejected reports whether err came from the breaker itself rather than fn
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
