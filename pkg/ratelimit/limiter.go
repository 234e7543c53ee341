package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/drjehan/portfolio-api/pkg/circuitbreaker"
	"github.com/drjehan/portfolio-api/pkg/logger"
	"github.com/drjehan/portfolio-api/pkg/metrics"
	"github.com/drjehan/portfolio-api/pkg/tracing"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DegradedRemaining is reported when no counter store is available
const DegradedRemaining = 999

// slidingWindowScript weighs the previous fixed window by how much of it still
// overlaps the sliding window, then increments the current window counter.
// Returns -1 when the request is denied, otherwise the remaining budget.
var slidingWindowScript = redis.NewScript(`
local current_key  = KEYS[1]
local previous_key = KEYS[2]
local limit        = tonumber(ARGV[1])
local now          = tonumber(ARGV[2])
local window       = tonumber(ARGV[3])
local ttl          = ARGV[4]

local current  = tonumber(redis.call("GET", current_key) or "0")
local previous = tonumber(redis.call("GET", previous_key) or "0")

local elapsed  = (now % window) / window
local weighted = math.floor((1 - elapsed) * previous)

if weighted + current >= limit then
  return -1
end

local updated = redis.call("INCR", current_key)
if updated == 1 then
  redis.call("PEXPIRE", current_key, ttl)
end

return limit - (updated + weighted)
`)

// Decision is the outcome of a single Check call
type Decision struct {
	Allowed   bool
	Remaining int
	Limit     int
	// Reset is the epoch milliseconds at which the current window ends
	Reset int64
}

// Config describes one limiter instance
type Config struct {
	// Name labels metrics and logs, e.g. "contact"
	Name string
	// Prefix namespaces the counter keys in the store
	Prefix string
	Limit  int
	Window time.Duration
	// Timeout bounds each counter store round-trip
	Timeout time.Duration
}

// Limiter is a sliding-window rate limiter backed by a shared counter store.
// With no store it allows every request.
type Limiter struct {
	client redis.Scripter
	// breaker skips the store while it keeps failing
	breaker *gobreaker.CircuitBreaker
	cfg     Config
	now     func() time.Time
}

// New creates a limiter. A nil client puts the limiter in degraded mode.
func New(client redis.Scripter, cfg Config) *Limiter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Limiter{
		client:  client,
		breaker: circuitbreaker.New(circuitbreaker.CounterStoreConfig("counter_store_" + cfg.Name)),
		cfg:     cfg,
		now:     time.Now,
	}
}

// WithClock replaces the time source, for tests
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Limit returns the configured number of requests per window
func (l *Limiter) Limit() int {
	return l.cfg.Limit
}

// Degraded reports whether the limiter runs without a counter store
func (l *Limiter) Degraded() bool {
	return l.client == nil
}

// Check counts one request for identifier. Store failures fail open so an
// outage never blocks a legitimate booking.
func (l *Limiter) Check(ctx context.Context, identifier string) Decision {
	now := l.now()
	if l.client == nil {
		metrics.RateLimitDecisions.WithLabelValues(l.cfg.Name, "degraded").Inc()
		return l.degraded(now)
	}

	ctx, span := tracing.StartSpan(ctx, "ratelimit.check")
	defer span.End()
	span.SetAttributes(attribute.String("ratelimit.limiter", l.cfg.Name))

	// The store call outlives a disconnected caller and is bounded only by
	// the limiter's own timeout
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.cfg.Timeout)
	defer cancel()

	windowMs := l.cfg.Window.Milliseconds()
	nowMs := now.UnixMilli()
	bucket := nowMs / windowMs

	keys := []string{
		l.key(identifier, bucket),
		l.key(identifier, bucket-1),
	}
	args := []any{
		l.cfg.Limit,
		nowMs,
		windowMs,
		strconv.FormatInt(windowMs*2+1000, 10),
	}

	start := time.Now()
	remaining, err := circuitbreaker.Execute(l.breaker, func() (int64, error) {
		return slidingWindowScript.Run(ctx, l.client, keys, args...).Int64()
	})
	duration := metrics.MeasureDuration(start)

	if circuitbreaker.IsRejected(err) {
		metrics.RateLimitDecisions.WithLabelValues(l.cfg.Name, "degraded").Inc()
		return l.degraded(now)
	}
	if err != nil {
		metrics.CounterStoreDuration.WithLabelValues("sliding_window", "error").Observe(duration)
		metrics.RateLimitDecisions.WithLabelValues(l.cfg.Name, "degraded").Inc()
		span.RecordError(err)
		logger.LogAPICall(ctx, "counter_store", "sliding_window", "error", duration,
			zap.String("limiter", l.cfg.Name),
			zap.Error(err),
		)
		return l.degraded(now)
	}
	metrics.CounterStoreDuration.WithLabelValues("sliding_window", "success").Observe(duration)

	decision := Decision{
		Allowed:   remaining >= 0,
		Remaining: int(max(remaining, 0)),
		Limit:     l.cfg.Limit,
		Reset:     (bucket + 1) * windowMs,
	}

	if decision.Allowed {
		metrics.RateLimitDecisions.WithLabelValues(l.cfg.Name, "allowed").Inc()
	} else {
		metrics.RateLimitDecisions.WithLabelValues(l.cfg.Name, "denied").Inc()
		logger.Warn("Rate limit exceeded",
			zap.String("limiter", l.cfg.Name),
			zap.String("identifier", identifier),
		)
	}
	span.SetAttributes(attribute.Bool("ratelimit.allowed", decision.Allowed))

	return decision
}

func (l *Limiter) degraded(now time.Time) Decision {
	return Decision{
		Allowed:   true,
		Remaining: DegradedRemaining,
		Limit:     l.cfg.Limit,
		Reset:     now.UnixMilli(),
	}
}

func (l *Limiter) key(identifier string, bucket int64) string {
	return fmt.Sprintf("%s:%s:%d", l.cfg.Prefix, identifier, bucket)
}
