package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/drjehan/portfolio-api/pkg/logger"
	"github.com/drjehan/portfolio-api/pkg/retry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewStoreClient connects to the counter store. url is a redis:// or rediss://
// URL; token, when set, overrides the password embedded in the URL.
// The connection is verified with a PING bounded by timeout, retried briefly
// in case the store is still starting.
func NewStoreClient(ctx context.Context, url, token string, timeout time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid counter store URL: %w", err)
	}
	if token != "" {
		opts.Password = token
	}
	opts.DialTimeout = timeout
	opts.ReadTimeout = timeout
	opts.WriteTimeout = timeout
	// One round-trip per check; a failure fails open instead of retrying
	opts.MaxRetries = -1

	client := redis.NewClient(opts)

	err = retry.Do(ctx, retry.StartupConfig(), "counter_store_ping", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return client.Ping(pingCtx).Err()
	})
	if err != nil {
		_ = client.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("failed to connect to counter store: %w", err)
	}

	logger.Info("Connected to rate limit counter store", zap.String("addr", opts.Addr))
	return client, nil
}

// ClientIP derives the caller address from proxy headers: the first entry of
// X-Forwarded-For, then X-Real-IP, else "anonymous". Headers are trusted as
// sent, so a client can spoof them.
func ClientIP(h http.Header) string {
	if xff := h.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(h.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	return "anonymous"
}

// Identifier builds the per-endpoint key for a caller, e.g. "contact-203.0.113.7"
func Identifier(endpoint, ip string) string {
	return endpoint + "-" + ip
}

// ClientIdentifier combines Identifier and ClientIP for an incoming request
func ClientIdentifier(endpoint string, h http.Header) string {
	return Identifier(endpoint, ClientIP(h))
}
