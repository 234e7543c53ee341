package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/drjehan/portfolio-api/internal/models"
	"github.com/drjehan/portfolio-api/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	// visitorTTL drops buckets of clients that have gone quiet
	visitorTTL      = 3 * time.Minute
	visitorSweepInt = time.Minute
)

// BurstGuard is an in-memory token bucket per client IP. It protects the
// operational endpoints (health, metrics) that do not go through the shared
// counter store.
type BurstGuard struct {
	visitors *gocache.Cache
	mu       sync.Mutex
	r        rate.Limit // requests per second
	b        int        // burst size
}

// NewBurstGuard creates a guard allowing r requests per second with bursts of b
func NewBurstGuard(r rate.Limit, b int) *BurstGuard {
	return &BurstGuard{
		visitors: gocache.New(visitorTTL, visitorSweepInt),
		r:        r,
		b:        b,
	}
}

// getVisitor returns the bucket for a given client, extending its lifetime
func (g *BurstGuard) getVisitor(ip string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()

	limiter, ok := g.visitors.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(g.r, g.b)
	}
	g.visitors.SetDefault(ip, limiter)

	return limiter.(*rate.Limiter)
}

// Middleware returns a Gin middleware function for rate limiting
func (g *BurstGuard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.getVisitor(ratelimit.ClientIP(c.Request.Header)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Success: false,
				Error:   "Rate limit exceeded. Please try again later.",
			})
			return
		}

		c.Next()
	}
}
