// Package objectstorage stores receipts in any S3-compatible bucket.
package objectstorage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/drjehan/portfolio-api/pkg/logger"
	"github.com/drjehan/portfolio-api/pkg/metrics"
	"go.uber.org/zap"
)

const backendLabel = "object_storage"

// Config describes the bucket and its credentials
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	// Endpoint is empty for AWS itself, or the base URL of a compatible provider
	Endpoint string
	Region   string
	// PublicURL, when set, prefixes object keys in returned URLs (CDN or custom domain)
	PublicURL string
}

// objectPutter is the part of *s3.Client the storage client needs
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// StorageClient uploads objects and builds their public URLs
type StorageClient struct {
	s3Client   objectPutter
	bucketName string
	publicBase string
}

// NewStorageClient creates an S3 client for cfg
func NewStorageClient(cfg Config) (*StorageClient, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := s3.Options{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"", // session token not needed
		),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		// Most compatible providers only route path-style requests
		opts.UsePathStyle = true
	}

	logger.Info("Object storage client initialized",
		zap.String("bucket", cfg.BucketName),
		zap.String("endpoint", cfg.Endpoint),
		zap.String("region", cfg.Region),
	)

	return &StorageClient{
		s3Client:   s3.New(opts),
		bucketName: cfg.BucketName,
		publicBase: publicBase(cfg),
	}, nil
}

// publicBase is the URL prefix under which object keys are reachable
func publicBase(cfg Config) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimRight(cfg.PublicURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.BucketName
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.BucketName, cfg.Region)
	}
}

// Upload stores data under key and returns its public URL. The bucket policy
// must allow anonymous reads for the URL to resolve.
func (s *StorageClient) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	start := time.Now()
	operation := "putObject"

	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.StorageRequestDuration.WithLabelValues(backendLabel, "error").Observe(duration)
		metrics.StorageRequestTotal.WithLabelValues(backendLabel, "error").Inc()
		logger.LogAPICall(ctx, backendLabel, operation, "error", duration,
			zap.Error(err),
			zap.String("key", key),
		)
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	metrics.StorageRequestDuration.WithLabelValues(backendLabel, "success").Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(backendLabel, "success").Inc()
	logger.LogAPICall(ctx, backendLabel, operation, "success", duration,
		zap.String("key", key),
		zap.Int("size_bytes", len(data)),
	)

	return s.publicBase + "/" + key, nil
}
