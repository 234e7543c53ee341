package services_test

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/drjehan/portfolio-api/internal/models"
	"github.com/drjehan/portfolio-api/internal/services"
	"github.com/drjehan/portfolio-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes = []byte("\x89PNG\r\n\x1a\nfake")
	pdfBytes = []byte("%PDF-1.7 fake")
)

func hasDeadline(ctx context.Context) bool {
	_, ok := ctx.Deadline()
	return ok
}

func receiptKey(key string) bool {
	return strings.HasPrefix(key, services.ReceiptPrefix+"/") && strings.HasSuffix(key, ".png")
}

func TestUploadService_InlineWhenNothingConfigured(t *testing.T) {
	service := services.NewUploadService(services.StorageBackends{}, time.Second)

	result, err := service.Upload(context.Background(), pdfBytes, "receipt.pdf", "application/pdf")

	require.NoError(t, err)
	assert.Equal(t, models.BackendInlineData, result.Backend)
	assert.Equal(t, "data:application/pdf;base64,"+base64.StdEncoding.EncodeToString(pdfBytes), result.URL)
	assert.Equal(t, models.BackendInlineData, service.ActiveBackend())
}

func TestUploadService_BlobFirst(t *testing.T) {
	blob := new(MockBlobStore)
	imgbb := new(MockImageHost)
	blob.On("Put", mock.MatchedBy(hasDeadline), mock.MatchedBy(receiptKey), pngBytes, "image/png").
		Return("https://blob.example/receipts/x.png", nil).Once()

	service := services.NewUploadService(services.StorageBackends{Blob: blob, ImgBB: imgbb}, time.Second)
	result, err := service.Upload(context.Background(), pngBytes, "my receipt.png", "image/png")

	require.NoError(t, err)
	assert.Equal(t, models.BackendVercelBlob, result.Backend)
	assert.Equal(t, "https://blob.example/receipts/x.png", result.URL)
	assert.Equal(t, models.BackendVercelBlob, service.ActiveBackend())
	blob.AssertExpectations(t)
	imgbb.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_BlobFailureDoesNotFallThrough(t *testing.T) {
	blob := new(MockBlobStore)
	object := new(MockObjectStore)
	blob.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.InternalError("blob down")).Once()

	service := services.NewUploadService(services.StorageBackends{Blob: blob, Object: object}, time.Second)
	result, err := service.Upload(context.Background(), pngBytes, "r.png", "image/png")

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, errors.ErrUpload))
	assert.Contains(t, err.Error(), string(models.BackendVercelBlob))
	object.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_ObjectStorageAcceptsPDF(t *testing.T) {
	object := new(MockObjectStore)
	object.On("Upload", mock.MatchedBy(hasDeadline), mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "receipts/") && strings.HasSuffix(key, ".pdf")
	}), pdfBytes, "application/pdf").Return("https://cdn.example/receipts/r.pdf", nil).Once()

	service := services.NewUploadService(services.StorageBackends{Object: object}, time.Second)
	result, err := service.Upload(context.Background(), pdfBytes, "r.pdf", "application/pdf")

	require.NoError(t, err)
	assert.Equal(t, models.BackendObjectStorage, result.Backend)
	object.AssertExpectations(t)
}

func TestUploadService_ImgBBForImages(t *testing.T) {
	imgbb := new(MockImageHost)
	imgbb.On("Upload", mock.MatchedBy(hasDeadline), "my_receipt.png", pngBytes).
		Return("https://i.ibb.co/x/receipt.png", nil).Once()

	service := services.NewUploadService(services.StorageBackends{ImgBB: imgbb}, time.Second)
	result, err := service.Upload(context.Background(), pngBytes, "my receipt.png", "image/png")

	require.NoError(t, err)
	assert.Equal(t, models.BackendImgBB, result.Backend)
	assert.Equal(t, "https://i.ibb.co/x/receipt.png", result.URL)
	imgbb.AssertExpectations(t)
}

func TestUploadService_ImgBBFailureIsReported(t *testing.T) {
	imgbb := new(MockImageHost)
	imgbb.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.InternalError("Invalid API v1 key.")).Once()

	service := services.NewUploadService(services.StorageBackends{ImgBB: imgbb}, time.Second)
	result, err := service.Upload(context.Background(), pngBytes, "receipt.png", "image/png")

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, errors.ErrUpload))
}

func TestUploadService_PDFWithOnlyImageHostsFails(t *testing.T) {
	imgbb := new(MockImageHost)
	cld := new(MockImageHost)

	service := services.NewUploadService(services.StorageBackends{ImgBB: imgbb, Cloudinary: cld}, time.Second)
	result, err := service.Upload(context.Background(), pdfBytes, "receipt.pdf", "application/pdf")

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, errors.ErrNoEligibleBackend))
	imgbb.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	cld.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_CloudinaryGetsKeyWithoutExtension(t *testing.T) {
	cld := new(MockImageHost)
	cld.On("Upload", mock.Anything, mock.MatchedBy(func(id string) bool {
		return !strings.Contains(id, ".") && !strings.Contains(id, "/") && strings.Contains(id, "-scan-")
	}), pngBytes).Return("https://res.cloudinary.com/demo/image/upload/receipts/x.png", nil).Once()

	service := services.NewUploadService(services.StorageBackends{Cloudinary: cld}, time.Second)
	result, err := service.Upload(context.Background(), pngBytes, "scan.png", "image/png")

	require.NoError(t, err)
	assert.Equal(t, models.BackendCloudinary, result.Backend)
	cld.AssertExpectations(t)
}

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_123)

	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{"plain", "receipt.png", "1700000000123-receipt-abc.png"},
		{"spaces and arabic", "إيصال الدفع 1.jpg", "1700000000123-" + strings.Repeat("_", 12) + "1-abc.jpg"},
		{"path traversal", "../../etc/passwd", "1700000000123-passwd-abc"},
		{"backslashes", `..\..\evil.pdf`, "1700000000123-.._.._evil-abc.pdf"},
		{"empty", "", "1700000000123-receipt-abc"},
		{"extension only", ".png", "1700000000123-receipt-abc.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := services.ObjectKey(tt.fileName, now, "abc")
			assert.Equal(t, tt.want, key)
			assert.NotContains(t, key, "/")
		})
	}
}

func TestDataURL(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,aGk=", services.DataURL("image/png", []byte("hi")))
}
