package main

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/drjehan/portfolio-api/config"
	"github.com/drjehan/portfolio-api/internal/handlers"
	"github.com/drjehan/portfolio-api/internal/middleware"
	"github.com/drjehan/portfolio-api/pkg/metrics"
	"github.com/drjehan/portfolio-api/pkg/ratelimit"
)

const (
	contactBodyLimit = 100 * 1024
	// Room for multipart framing around a 5 MiB receipt
	uploadBodyLimit = 6 * 1024 * 1024

	msgContactRateLimited = "Too many requests. Please wait a moment and try again."
	msgUploadRateLimited  = "Too many upload attempts. Please wait a moment and try again."
)

// routes holds what the router dispatches to
type routes struct {
	contactLimiter *ratelimit.Limiter
	uploadLimiter  *ratelimit.Limiter
	booking        *handlers.BookingHandler
	upload         *handlers.UploadHandler
	health         *handlers.HealthHandler
}

func newRouter(cfg *config.Config, r routes) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(handlers.Recovery(cfg.IsDevelopment()))
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))

	// Operational endpoints are cheap; a local token bucket is enough
	burstGuard := middleware.NewBurstGuard(10, 20)
	formCORS := corsMiddleware(cfg)

	api := router.Group("/api")
	api.GET("/healthcheck", burstGuard.Middleware(), r.health.Healthcheck)
	api.GET("/metrics", burstGuard.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	api.OPTIONS("/contact", handlers.Preflight)
	api.POST("/contact",
		formCORS,
		middleware.SlidingWindowLimit(r.contactLimiter, "contact", msgContactRateLimited),
		middleware.BodySizeLimitMiddleware(contactBodyLimit),
		r.booking.Submit,
	)

	api.OPTIONS("/upload", handlers.Preflight)
	api.POST("/upload",
		formCORS,
		middleware.SlidingWindowLimit(r.uploadLimiter, "upload", msgUploadRateLimited),
		middleware.BodySizeLimitMiddleware(uploadBodyLimit),
		r.upload.Upload,
	)

	return router
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:  []string{"POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders: []string{middleware.HeaderRateLimitLimit, middleware.HeaderRateLimitRemaining, middleware.HeaderRateLimitReset},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(cfg.Server.AllowedOrigins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	}
	return cors.New(corsCfg)
}
