package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/drjehan/portfolio-api/config"
	"github.com/drjehan/portfolio-api/internal/handlers"
	"github.com/drjehan/portfolio-api/internal/services"
	"github.com/drjehan/portfolio-api/pkg/httpclient"
	"github.com/drjehan/portfolio-api/pkg/imagehost"
	"github.com/drjehan/portfolio-api/pkg/logger"
	"github.com/drjehan/portfolio-api/pkg/metrics"
	"github.com/drjehan/portfolio-api/pkg/objectstorage"
	"github.com/drjehan/portfolio-api/pkg/profiling"
	"github.com/drjehan/portfolio-api/pkg/ratelimit"
	"github.com/drjehan/portfolio-api/pkg/tracing"
	"github.com/drjehan/portfolio-api/pkg/vercelblob"
	"go.uber.org/zap"
)

// newCounterStore connects to Redis when configured. Any failure leaves the
// limiters degraded instead of stopping the server.
func newCounterStore(ctx context.Context, cfg *config.Config) *redis.Client {
	if !cfg.RateLimit.StoreEnabled() {
		logger.Warn("Rate limiting degraded: REDIS_URL or REDIS_TOKEN not set, all requests will be allowed")
		return nil
	}

	client, err := ratelimit.NewStoreClient(ctx, cfg.RateLimit.RedisURL, cfg.RateLimit.RedisToken, cfg.Server.OutboundTimeout)
	if err != nil {
		logger.Warn("Rate limiting degraded: counter store unavailable", zap.Error(err))
		return nil
	}
	return client
}

func newLimiter(client *redis.Client, cfg ratelimit.Config) *ratelimit.Limiter {
	// A nil *redis.Client must not become a non-nil interface
	if client == nil {
		return ratelimit.New(nil, cfg)
	}
	return ratelimit.New(client, cfg)
}

// buildStorageBackends creates a client for every configured storage tier
func buildStorageBackends(cfg *config.Config, httpClient httpclient.Client) services.StorageBackends {
	var backends services.StorageBackends
	storage := cfg.Storage

	if storage.BlobToken != "" {
		backends.Blob = vercelblob.NewClient(httpClient, storage.BlobAPIURL, storage.BlobToken)
	}

	if storage.ObjectStorage.Enabled() {
		client, err := objectstorage.NewStorageClient(objectstorage.Config{
			AccessKeyID:     storage.ObjectStorage.AccessKeyID,
			SecretAccessKey: storage.ObjectStorage.SecretAccessKey,
			BucketName:      storage.ObjectStorage.BucketName,
			Endpoint:        storage.ObjectStorage.Endpoint,
			Region:          storage.ObjectStorage.Region,
			PublicURL:       storage.ObjectStorage.PublicURL,
		})
		if err != nil {
			logger.Fatal("Failed to initialize object storage client", zap.Error(err))
		}
		backends.Object = client
	}

	if storage.ImgBBAPIKey != "" {
		backends.ImgBB = imagehost.NewImgBBClient(httpClient, storage.ImgBBAPIURL, storage.ImgBBAPIKey)
	}

	if storage.CloudinaryURL != "" {
		client, err := imagehost.NewCloudinaryClient(storage.CloudinaryURL)
		if err != nil {
			logger.Fatal("Failed to initialize Cloudinary client", zap.Error(err))
		}
		backends.Cloudinary = client
	}

	return backends
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting portfolio API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	service := tracing.Config{
		ServiceName:       cfg.Observability.ServiceName,
		ServiceNamespace:  cfg.Observability.ServiceNamespace,
		ServiceVersion:    cfg.Observability.ServiceVersion,
		ServiceInstanceID: cfg.Observability.ServiceInstanceID,
		Environment:       cfg.Server.AppEnv,
		Endpoint:          cfg.Observability.ExporterEndpoint,
	}

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(service)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, service)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	metrics.Init(cfg.Observability.ServiceName)

	// Shared counter store for both sliding-window limiters
	redisClient := newCounterStore(context.Background(), cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	contactLimiter := newLimiter(redisClient, ratelimit.Config{
		Name:    "contact",
		Prefix:  cfg.RateLimit.ContactPrefix,
		Limit:   5,
		Window:  time.Minute,
		Timeout: cfg.Server.OutboundTimeout,
	})
	uploadLimiter := newLimiter(redisClient, ratelimit.Config{
		Name:    "upload",
		Prefix:  cfg.RateLimit.UploadPrefix,
		Limit:   3,
		Window:  5 * time.Minute,
		Timeout: cfg.Server.OutboundTimeout,
	})

	// Initialize services
	httpClient := httpclient.NewClientWithTimeout(cfg.Server.OutboundTimeout)
	uploadService := services.NewUploadService(buildStorageBackends(cfg, httpClient), cfg.Server.OutboundTimeout)
	bookingService := services.NewBookingService(cfg)

	logger.Info("Receipt storage selected", zap.String("backend", string(uploadService.ActiveBackend())))

	// Initialize handlers
	exposeDetails := cfg.IsDevelopment()
	bookingHandler := handlers.NewBookingHandler(bookingService, exposeDetails)
	uploadHandler := handlers.NewUploadHandler(uploadService, exposeDetails)

	var pingStore func(ctx context.Context) error
	if redisClient != nil {
		pingStore = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	healthHandler := handlers.NewHealthHandler(pingStore, uploadService.ActiveBackend)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := newRouter(cfg, routes{
		contactLimiter: contactLimiter,
		uploadLimiter:  uploadLimiter,
		booking:        bookingHandler,
		upload:         uploadHandler,
		health:         healthHandler,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
