package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/drjehan/portfolio-api/pkg/logger"
	"github.com/drjehan/portfolio-api/pkg/whatsapp"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	WhatsApp      WhatsAppConfig
	Storage       StorageConfig
	RateLimit     RateLimitConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
	// OutboundTimeout bounds every call to the counter store and storage backends
	OutboundTimeout time.Duration
}

type WhatsAppConfig struct {
	Number  string
	BaseURL string
}

type StorageConfig struct {
	BlobToken  string
	BlobAPIURL string

	ObjectStorage ObjectStorageConfig

	ImgBBAPIKey string
	ImgBBAPIURL string

	CloudinaryURL string
}

type ObjectStorageConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
	PublicURL       string
}

// Enabled reports whether credentials and a bucket are all present
func (o ObjectStorageConfig) Enabled() bool {
	return o.AccessKeyID != "" && o.SecretAccessKey != "" && o.BucketName != ""
}

type RateLimitConfig struct {
	RedisURL      string
	RedisToken    string
	ContactPrefix string
	UploadPrefix  string
}

// StoreEnabled reports whether the shared counter store is configured.
// Without it both limiters run degraded and allow everything.
func (r RateLimitConfig) StoreEnabled() bool {
	return r.RedisURL != "" && r.RedisToken != ""
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "*")
	v.SetDefault("OUTBOUND_TIMEOUT_SECONDS", 10)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("WHATSAPP_NUMBER", "+201036816899")
	v.SetDefault("WHATSAPP_BASE_URL", whatsapp.DefaultBaseURL)
	v.SetDefault("BLOB_API_URL", "https://blob.vercel-storage.com")
	v.SetDefault("IMGBB_API_URL", "https://api.imgbb.com/1/upload")
	v.SetDefault("OBJECT_STORAGE_REGION", "us-east-1")
	v.SetDefault("RATE_LIMIT_PREFIX", "dr-jehan-portfolio")
	v.SetDefault("UPLOAD_RATE_LIMIT_PREFIX", "dr-jehan-upload")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "") // OTLP over HTTP; empty disables tracing
	v.SetDefault("O11Y_BE_SERVICE_NAME", "portfolio-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "dr-jehan")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "portfolio-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			GinMode:         v.GetString("GIN_MODE"),
			AppEnv:          v.GetString("APP_ENV"),
			AllowedOrigins:  splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
			OutboundTimeout: time.Duration(v.GetInt("OUTBOUND_TIMEOUT_SECONDS")) * time.Second,
		},
		WhatsApp: WhatsAppConfig{
			Number:  v.GetString("WHATSAPP_NUMBER"),
			BaseURL: v.GetString("WHATSAPP_BASE_URL"),
		},
		Storage: StorageConfig{
			BlobToken:  v.GetString("BLOB_READ_WRITE_TOKEN"),
			BlobAPIURL: v.GetString("BLOB_API_URL"),
			ObjectStorage: ObjectStorageConfig{
				AccessKeyID:     v.GetString("OBJECT_STORAGE_ACCESS_KEY_ID"),
				SecretAccessKey: v.GetString("OBJECT_STORAGE_SECRET_ACCESS_KEY"),
				BucketName:      v.GetString("OBJECT_STORAGE_BUCKET"),
				Endpoint:        v.GetString("OBJECT_STORAGE_ENDPOINT"),
				Region:          v.GetString("OBJECT_STORAGE_REGION"),
				PublicURL:       v.GetString("OBJECT_STORAGE_PUBLIC_URL"),
			},
			ImgBBAPIKey:   v.GetString("IMGBB_API_KEY"),
			ImgBBAPIURL:   v.GetString("IMGBB_API_URL"),
			CloudinaryURL: v.GetString("CLOUDINARY_URL"),
		},
		RateLimit: RateLimitConfig{
			RedisURL:      v.GetString("REDIS_URL"),
			RedisToken:    v.GetString("REDIS_TOKEN"),
			ContactPrefix: v.GetString("RATE_LIMIT_PREFIX"),
			UploadPrefix:  v.GetString("UPLOAD_RATE_LIMIT_PREFIX"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}
	if c.Server.OutboundTimeout <= 0 {
		return fmt.Errorf("OUTBOUND_TIMEOUT_SECONDS must be positive")
	}

	if c.RateLimit.ContactPrefix == "" || c.RateLimit.UploadPrefix == "" {
		return fmt.Errorf("RATE_LIMIT_PREFIX and UPLOAD_RATE_LIMIT_PREFIX must not be empty")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	// A malformed destination still produces a link, so this is only a warning
	if !whatsapp.IsValidEgyptianNumber(c.WhatsApp.Number) {
		logger.Warn("WHATSAPP_NUMBER does not look like an Egyptian mobile number",
			zap.String("number", c.WhatsApp.Number))
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

func splitList(s string) []string {
	items := []string{}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
