package httpclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// DefaultTimeout bounds every outbound call made through a StandardHTTPClient
const DefaultTimeout = 10 * time.Second

// UserAgent identifies this service to storage providers
const UserAgent = "portfolio-api/1.0"

// Client is the subset of *http.Client the storage clients need, so tests can
// swap in a fake
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// StandardHTTPClient wraps http.Client, stamping each request with the user
// agent and the caller's trace context
type StandardHTTPClient struct {
	client *http.Client
}

// NewStandardClient creates a client with DefaultTimeout
func NewStandardClient() *StandardHTTPClient {
	return NewClientWithTimeout(DefaultTimeout)
}

// NewClientWithTimeout creates a client whose requests fail after timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewClientWithTimeout(timeout time.Duration) *StandardHTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &StandardHTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Do sends req. The request context carries both cancellation and the span
// whose trace headers are injected.
func (c *StandardHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}
	otel.GetTextMapPropagator().Inject(req.Context(), propagation.HeaderCarrier(req.Header))
	return c.client.Do(req)
}
