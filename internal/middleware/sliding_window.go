package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/drjehan/portfolio-api/internal/models"
	"github.com/drjehan/portfolio-api/pkg/errors"
	"github.com/drjehan/portfolio-api/pkg/ratelimit"
	"github.com/gin-gonic/gin"
)

const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// SlidingWindowLimit gates a route with a shared sliding-window limiter keyed
// by "<endpoint>-<client ip>". Allowed requests carry X-RateLimit-Remaining;
// denied ones get a 429 with the full set of rate-limit headers and message
// as the error text.
func SlidingWindowLimit(limiter *ratelimit.Limiter, endpoint, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := ratelimit.ClientIdentifier(endpoint, c.Request.Header)
		decision := limiter.Check(c.Request.Context(), identifier)

		if !decision.Allowed {
			_ = c.Error(fmt.Errorf("%s: %w", identifier, errors.ErrRateLimited)) //nolint:errcheck
			c.Header(HeaderRateLimitLimit, strconv.Itoa(decision.Limit))
			c.Header(HeaderRateLimitRemaining, strconv.Itoa(decision.Remaining))
			c.Header(HeaderRateLimitReset, strconv.FormatInt(decision.Reset, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.RateLimitedResponse{
				Success:   false,
				Error:     message,
				Remaining: 0,
				Reset:     decision.Reset,
			})
			return
		}

		c.Header(HeaderRateLimitRemaining, strconv.Itoa(decision.Remaining))
		c.Next()
	}
}
