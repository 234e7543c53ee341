package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/drjehan/portfolio-api/internal/models"
	"github.com/drjehan/portfolio-api/pkg/errors"
	"github.com/drjehan/portfolio-api/pkg/logger"
	"github.com/drjehan/portfolio-api/pkg/metrics"
	"github.com/drjehan/portfolio-api/pkg/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ReceiptPrefix namespaces uploaded receipts in path-based stores
const ReceiptPrefix = "receipts"

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// StorageBackends holds the configured storage clients. A nil field means the
// tier is not configured.
type StorageBackends struct {
	Blob       BlobStore
	Object     ObjectStore
	ImgBB      ImageHost
	Cloudinary ImageHost
}

// upload is one file moving through the storage chain
type upload struct {
	data     []byte
	safeName string
	mimeType string
	// key is the collision-free object name, e.g. "1700000000000-receipt-1a2b3c4d.png"
	key string
}

type storageTier struct {
	backend    models.StorageBackend
	imagesOnly bool
	put        func(ctx context.Context, u upload) (string, error)
}

// UploadService stores receipts using the first configured storage tier that
// accepts the file. Tiers are chosen by configuration, never by failure: an
// error from the chosen tier is returned as is.
type UploadService struct {
	tiers   []storageTier
	timeout time.Duration
	now     func() time.Time
	suffix  func() string
}

// NewUploadService builds the chain Vercel Blob -> object storage -> ImgBB ->
// Cloudinary, keeping only configured tiers. With none configured, files are
// returned inline as data URLs.
func NewUploadService(backends StorageBackends, timeout time.Duration) *UploadService {
	s := &UploadService{
		timeout: timeout,
		now:     time.Now,
		suffix:  randomSuffix,
	}

	if backends.Blob != nil {
		blob := backends.Blob
		s.tiers = append(s.tiers, storageTier{
			backend: models.BackendVercelBlob,
			put: func(ctx context.Context, u upload) (string, error) {
				return blob.Put(ctx, ReceiptPrefix+"/"+u.key, u.data, u.mimeType)
			},
		})
	}
	if backends.Object != nil {
		object := backends.Object
		s.tiers = append(s.tiers, storageTier{
			backend: models.BackendObjectStorage,
			put: func(ctx context.Context, u upload) (string, error) {
				return object.Upload(ctx, ReceiptPrefix+"/"+u.key, u.data, u.mimeType)
			},
		})
	}
	if backends.ImgBB != nil {
		imgbb := backends.ImgBB
		s.tiers = append(s.tiers, storageTier{
			backend:    models.BackendImgBB,
			imagesOnly: true,
			put: func(ctx context.Context, u upload) (string, error) {
				return imgbb.Upload(ctx, u.safeName, u.data)
			},
		})
	}
	if backends.Cloudinary != nil {
		cld := backends.Cloudinary
		s.tiers = append(s.tiers, storageTier{
			backend:    models.BackendCloudinary,
			imagesOnly: true,
			put: func(ctx context.Context, u upload) (string, error) {
				// Cloudinary appends the format itself
				return cld.Upload(ctx, strings.TrimSuffix(u.key, path.Ext(u.key)), u.data)
			},
		})
	}

	return s
}

// ActiveBackend reports the first configured tier, as used for images
func (s *UploadService) ActiveBackend() models.StorageBackend {
	if len(s.tiers) == 0 {
		return models.BackendInlineData
	}
	return s.tiers[0].backend
}

// Upload stores data and returns where it went. It fails with ErrUpload when
// the chosen backend fails and with ErrNoEligibleBackend when backends are
// configured but none accepts mimeType.
func (s *UploadService) Upload(ctx context.Context, data []byte, fileName, mimeType string) (*models.UploadResult, error) {
	ctx, span := tracing.StartSpan(ctx, "upload.store")
	defer span.End()

	u := upload{
		data:     data,
		safeName: unsafeFileChars.ReplaceAllString(fileName, "_"),
		mimeType: mimeType,
		key:      ObjectKey(fileName, s.now(), s.suffix()),
	}

	if len(s.tiers) == 0 {
		logger.Warn("No storage backend configured, returning inline data URL",
			zap.String("mime_type", mimeType),
			zap.Int("size_bytes", len(data)),
		)
		metrics.ReceiptUploads.WithLabelValues(string(models.BackendInlineData), "success").Inc()
		return &models.UploadResult{URL: DataURL(mimeType, data), Backend: models.BackendInlineData}, nil
	}

	isImage := strings.HasPrefix(mimeType, "image/")
	for _, tier := range s.tiers {
		if tier.imagesOnly && !isImage {
			continue
		}

		span.SetAttributes(attribute.String("upload.backend", string(tier.backend)))

		tierCtx, cancel := context.WithTimeout(ctx, s.timeout)
		url, err := tier.put(tierCtx, u)
		cancel()

		if err != nil {
			metrics.ReceiptUploads.WithLabelValues(string(tier.backend), "error").Inc()
			span.RecordError(err)
			return nil, errors.UploadError(string(tier.backend), err)
		}

		metrics.ReceiptUploads.WithLabelValues(string(tier.backend), "success").Inc()
		logger.Info("Receipt uploaded",
			zap.String("storage", string(tier.backend)),
			zap.String("mime_type", mimeType),
			zap.Int("size_bytes", len(data)),
		)
		return &models.UploadResult{URL: url, Backend: tier.backend}, nil
	}

	metrics.ReceiptUploads.WithLabelValues("none", "error").Inc()
	err := fmt.Errorf("%s: %w", mimeType, errors.ErrNoEligibleBackend)
	span.RecordError(err)
	logger.Error("No configured storage backend accepts file type", zap.String("mime_type", mimeType))
	return nil, err
}

// ObjectKey builds "<epoch ms>-<sanitized name>-<suffix><ext>". Characters
// other than ASCII letters, digits, dot and hyphen become underscores, so the
// key cannot escape its prefix.
func ObjectKey(fileName string, now time.Time, suffix string) string {
	safe := unsafeFileChars.ReplaceAllString(path.Base(fileName), "_")
	ext := path.Ext(safe)
	base := strings.TrimSuffix(safe, ext)
	if ext == "." {
		ext = ""
	}
	if base == "" || base == "." || base == ".." {
		base = "receipt"
	}
	return fmt.Sprintf("%d-%s-%s%s", now.UnixMilli(), base, suffix, ext)
}

// DataURL embeds data as a base64 data URL
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
