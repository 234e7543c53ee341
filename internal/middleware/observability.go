package middleware

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/drjehan/portfolio-api/pkg/logger"
	"github.com/drjehan/portfolio-api/pkg/metrics"
	"github.com/drjehan/portfolio-api/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// unmatchedRoute labels requests no route matched, keeping label cardinality bounded
const unmatchedRoute = "unmatched"

// redactedQueryKeys never appear in logs
var redactedQueryKeys = map[string]bool{
	"token": true, "key": true, "api_key": true, "apikey": true, "secret": true,
}

// ObservabilityMiddleware records request metrics and writes one log line per request.
// Metrics use the route template; the log keeps the concrete path.
func ObservabilityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		metrics.ActiveRequests.WithLabelValues(method).Inc()
		defer metrics.ActiveRequests.WithLabelValues(method).Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		status := c.Writer.Status()
		duration := metrics.MeasureDuration(start)

		labels := []string{method, route, strconv.Itoa(status)}
		metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(duration)
		metrics.HTTPRequestTotal.WithLabelValues(labels...).Inc()

		logger.LogHTTPRequest(c.Request.Context(), method, c.Request.URL.Path, status, duration, requestFields(c, status)...)
	}
}

func requestFields(c *gin.Context, status int) []zap.Field {
	fields := []zap.Field{
		zap.String("client_ip", ratelimit.ClientIP(c.Request.Header)),
		zap.String("user_agent", c.Request.UserAgent()),
		zap.Int("response_size", c.Writer.Size()),
	}

	if remaining := c.Writer.Header().Get(HeaderRateLimitRemaining); remaining != "" {
		fields = append(fields, zap.String("ratelimit_remaining", remaining))
	}

	if status < 400 {
		return fields
	}

	if query := safeQuery(c.Request.URL.Query()); len(query) > 0 {
		fields = append(fields, zap.Any("query_params", query))
	}
	if len(c.Errors) > 0 {
		fields = append(fields, zap.String("error", c.Errors.String()))
	}
	return fields
}

// safeQuery flattens the query to first values, dropping redacted keys
func safeQuery(query url.Values) map[string]string {
	out := make(map[string]string, len(query))
	for key, values := range query {
		if len(values) == 0 || redactedQueryKeys[strings.ToLower(key)] {
			continue
		}
		out[key] = values[0]
	}
	return out
}
