package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			AllowedOrigins:  []string{"*"},
			OutboundTimeout: 10 * time.Second,
		},
		WhatsApp: WhatsAppConfig{Number: "+201036816899"},
		RateLimit: RateLimitConfig{
			ContactPrefix: "dr-jehan-portfolio",
			UploadPrefix:  "dr-jehan-upload",
		},
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name: "development environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "development"},
			},
			expected: true,
		},
		{
			name: "debug gin mode",
			config: &Config{
				Server: ServerConfig{GinMode: "debug"},
			},
			expected: true,
		},
		{
			name: "release mode",
			config: &Config{
				Server: ServerConfig{GinMode: "release", AppEnv: "production"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.IsDevelopment())
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Server: ServerConfig{AppEnv: "production"}}).IsProduction())
	assert.False(t, (&Config{Server: ServerConfig{AppEnv: "development"}}).IsProduction())
	assert.False(t, (&Config{Server: ServerConfig{AppEnv: "staging"}}).IsProduction())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:   "malformed whatsapp number only warns",
			mutate: func(c *Config) { c.WhatsApp.Number = "12" },
		},
		{
			name:        "missing port",
			mutate:      func(c *Config) { c.Server.Port = "" },
			expectError: true,
			errorMsg:    "PORT is required",
		},
		{
			name:        "no origins",
			mutate:      func(c *Config) { c.Server.AllowedOrigins = nil },
			expectError: true,
			errorMsg:    "ALLOWED_CORS_ORIGINS is required",
		},
		{
			name:        "zero timeout",
			mutate:      func(c *Config) { c.Server.OutboundTimeout = 0 },
			expectError: true,
			errorMsg:    "OUTBOUND_TIMEOUT_SECONDS",
		},
		{
			name:        "empty prefix",
			mutate:      func(c *Config) { c.RateLimit.UploadPrefix = "" },
			expectError: true,
			errorMsg:    "RATE_LIMIT_PREFIX",
		},
		{
			name: "profiling without endpoint",
			mutate: func(c *Config) {
				c.Profiling.Enabled = true
			},
			expectError: true,
			errorMsg:    "O11Y_PROFILING_ENDPOINT is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRateLimitConfig_StoreEnabled(t *testing.T) {
	assert.False(t, RateLimitConfig{}.StoreEnabled())
	assert.False(t, RateLimitConfig{RedisURL: "redis://localhost:6379"}.StoreEnabled())
	assert.True(t, RateLimitConfig{RedisURL: "redis://localhost:6379", RedisToken: "t"}.StoreEnabled())
}

func TestObjectStorageConfig_Enabled(t *testing.T) {
	assert.False(t, ObjectStorageConfig{BucketName: "receipts"}.Enabled())
	assert.True(t, ObjectStorageConfig{AccessKeyID: "a", SecretAccessKey: "s", BucketName: "receipts"}.Enabled())
}

// isolate runs Load away from any .env file and blanks variables the host
// might set; viper ignores empty values and falls back to defaults.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"PORT", "GIN_MODE", "APP_ENV", "ALLOWED_CORS_ORIGINS", "OUTBOUND_TIMEOUT_SECONDS",
		"WHATSAPP_NUMBER", "WHATSAPP_BASE_URL", "REDIS_URL", "REDIS_TOKEN", "LOG_LEVEL",
		"RATE_LIMIT_PREFIX", "UPLOAD_RATE_LIMIT_PREFIX", "O11Y_PROFILING_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.Server.OutboundTimeout)
	assert.Equal(t, "+201036816899", cfg.WhatsApp.Number)
	assert.Equal(t, "https://wa.me", cfg.WhatsApp.BaseURL)
	assert.Equal(t, "https://api.imgbb.com/1/upload", cfg.Storage.ImgBBAPIURL)
	assert.Equal(t, "dr-jehan-portfolio", cfg.RateLimit.ContactPrefix)
	assert.Equal(t, "dr-jehan-upload", cfg.RateLimit.UploadPrefix)
	assert.False(t, cfg.RateLimit.StoreEnabled())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	isolate(t)

	t.Setenv("PORT", "9000")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("APP_ENV", "development")
	t.Setenv("ALLOWED_CORS_ORIGINS", "https://drjehan.example, https://www.drjehan.example")
	t.Setenv("OUTBOUND_TIMEOUT_SECONDS", "3")
	t.Setenv("WHATSAPP_NUMBER", "+201001234567")
	t.Setenv("BLOB_READ_WRITE_TOKEN", "blob-token")
	t.Setenv("IMGBB_API_KEY", "imgbb-key")
	t.Setenv("CLOUDINARY_URL", "cloudinary://k:s@demo")
	t.Setenv("OBJECT_STORAGE_ACCESS_KEY_ID", "ak")
	t.Setenv("OBJECT_STORAGE_SECRET_ACCESS_KEY", "sk")
	t.Setenv("OBJECT_STORAGE_BUCKET", "receipts")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("REDIS_TOKEN", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"https://drjehan.example", "https://www.drjehan.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.Server.OutboundTimeout)
	assert.Equal(t, "+201001234567", cfg.WhatsApp.Number)
	assert.Equal(t, "blob-token", cfg.Storage.BlobToken)
	assert.Equal(t, "imgbb-key", cfg.Storage.ImgBBAPIKey)
	assert.Equal(t, "cloudinary://k:s@demo", cfg.Storage.CloudinaryURL)
	assert.True(t, cfg.Storage.ObjectStorage.Enabled())
	assert.True(t, cfg.RateLimit.StoreEnabled())
}

func TestLoad_ValidationFailure(t *testing.T) {
	isolate(t)
	t.Setenv("OUTBOUND_TIMEOUT_SECONDS", "0")

	cfg, err := Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}
