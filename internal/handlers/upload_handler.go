package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/drjehan/portfolio-api/internal/models"
	"github.com/drjehan/portfolio-api/internal/services"
	"github.com/drjehan/portfolio-api/pkg/errors"
	"github.com/drjehan/portfolio-api/pkg/logger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// MaxFileSize is the largest receipt accepted, 5 MiB
	MaxFileSize = 5 * 1024 * 1024

	// ReceiptField is the multipart field carrying the file
	ReceiptField = "receipt"

	msgNoFile       = "No file provided"
	msgInvalidType  = "Invalid file type. Only JPG, PNG, WebP, and PDF files are allowed."
	msgUploadFailed = "Failed to upload file. Please try again."
)

var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

type UploadHandler struct {
	service       services.UploadServiceInterface
	exposeDetails bool
}

func NewUploadHandler(service services.UploadServiceInterface, exposeDetails bool) *UploadHandler {
	return &UploadHandler{service: service, exposeDetails: exposeDetails}
}

// Upload handles POST /api/upload
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile(ReceiptField)
	if err != nil {
		if isBodyTooLarge(err) {
			respondErrorWithDetails(c, http.StatusBadRequest, sizeLimitMessage(), currentSize(c.Request.ContentLength), err)
			return
		}
		respondError(c, http.StatusBadRequest, msgNoFile, err)
		return
	}

	if file.Size > MaxFileSize {
		respondErrorWithDetails(c, http.StatusBadRequest, sizeLimitMessage(), currentSize(file.Size),
			errors.InvalidInputError(ReceiptField, currentSize(file.Size)))
		return
	}

	data, err := readPart(file)
	if err != nil {
		logger.LogError(err, "Failed to read uploaded file")
		respondServerError(c, http.StatusInternalServerError, msgUploadFailed, err, h.exposeDetails)
		return
	}

	mimeType := contentType(file, data)
	if !allowedTypes[mimeType] {
		respondErrorWithDetails(c, http.StatusBadRequest, msgInvalidType, "Received: "+mimeType,
			errors.InvalidInputError(ReceiptField, "type "+mimeType))
		return
	}

	result, err := h.service.Upload(c.Request.Context(), data, file.Filename, mimeType)
	if err != nil {
		logger.Error("Receipt upload failed",
			zap.Error(err),
			zap.Bool("no_eligible_backend", errors.Is(err, errors.ErrNoEligibleBackend)),
		)
		respondServerError(c, http.StatusInternalServerError, msgUploadFailed, err, h.exposeDetails)
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		Success:  true,
		URL:      result.URL,
		Filename: file.Filename,
		Size:     file.Size,
		Type:     mimeType,
		Storage:  result.Backend,
	})
}

func sizeLimitMessage() string {
	return fmt.Sprintf("File size must be less than %dMB", MaxFileSize/(1024*1024))
}

func currentSize(size int64) string {
	return fmt.Sprintf("Current size: %.2fMB", float64(size)/(1024*1024))
}

func readPart(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// contentType trusts the declared part type and only sniffs the content when
// the client sent none or a generic one
func contentType(file *multipart.FileHeader, data []byte) string {
	declared := strings.ToLower(strings.TrimSpace(file.Header.Get("Content-Type")))
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	detected := mimetype.Detect(data).String()
	// Drop parameters such as "; charset=utf-8"
	detected, _, _ = strings.Cut(detected, ";")
	return detected
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
