package services

import (
	"context"

	"github.com/drjehan/portfolio-api/internal/models"
)

// BookingServiceInterface defines the interface for booking submissions
type BookingServiceInterface interface {
	Submit(ctx context.Context, raw map[string]string) (*models.BookingResponse, error)
}

// UploadServiceInterface defines the interface for receipt uploads
type UploadServiceInterface interface {
	Upload(ctx context.Context, data []byte, fileName, mimeType string) (*models.UploadResult, error)
	ActiveBackend() models.StorageBackend
}

// BlobStore writes a file at a path and returns its public URL (Vercel Blob)
type BlobStore interface {
	Put(ctx context.Context, pathname string, data []byte, contentType string) (string, error)
}

// ObjectStore writes a file under a key and returns its public URL (S3-compatible)
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ImageHost accepts images only and returns a hosted URL (ImgBB, Cloudinary)
type ImageHost interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}
