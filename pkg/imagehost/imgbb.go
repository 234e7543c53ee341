// Package imagehost uploads images to third-party image hosting services.
// Neither host accepts PDFs.
package imagehost

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/drjehan/portfolio-api/pkg/httpclient"
	"github.com/drjehan/portfolio-api/pkg/logger"
	"github.com/drjehan/portfolio-api/pkg/metrics"
	"go.uber.org/zap"
)

// DefaultImgBBURL is the ImgBB v1 upload endpoint
const DefaultImgBBURL = "https://api.imgbb.com/1/upload"

// ImgBBClient uploads images to ImgBB with an API key
type ImgBBClient struct {
	httpClient httpclient.Client
	apiURL     string
	apiKey     string
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewImgBBClient creates an ImgBB client. An empty apiURL selects DefaultImgBBURL.
func NewImgBBClient(httpClient httpclient.Client, apiURL, apiKey string) *ImgBBClient {
	if apiURL == "" {
		apiURL = DefaultImgBBURL
	}
	return &ImgBBClient{
		httpClient: httpClient,
		apiURL:     apiURL,
		apiKey:     apiKey,
	}
}

// Upload sends the image base64-encoded as a form field and returns its URL.
// A response with success=false is an error even when the status is 200.
func (c *ImgBBClient) Upload(ctx context.Context, name string, data []byte) (string, error) {
	start := time.Now()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for field, value := range map[string]string{
		"key":   c.apiKey,
		"image": base64.StdEncoding.EncodeToString(data),
		"name":  name,
	} {
		if err := form.WriteField(field, value); err != nil {
			return "", fmt.Errorf("failed to build imgbb form: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to build imgbb form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create imgbb request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		record(ctx, "imgbb", start, "error", name, err)
		return "", fmt.Errorf("imgbb request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		record(ctx, "imgbb", start, "error", name, err)
		return "", fmt.Errorf("failed to read imgbb response: %w", err)
	}

	var result imgbbResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		err = fmt.Errorf("imgbb returned %d with an unreadable body: %w", resp.StatusCode, err)
		record(ctx, "imgbb", start, "error", name, err)
		return "", err
	}

	if !result.Success || result.Data.URL == "" {
		msg := result.Error.Message
		if msg == "" {
			msg = "unknown error"
		}
		err = fmt.Errorf("imgbb upload failed: %s", msg)
		record(ctx, "imgbb", start, "error", name, err)
		return "", err
	}

	record(ctx, "imgbb", start, "success", name, nil)
	return result.Data.URL, nil
}

func record(ctx context.Context, backend string, start time.Time, status, name string, err error) {
	duration := metrics.MeasureDuration(start)
	metrics.StorageRequestDuration.WithLabelValues(backend, status).Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(backend, status).Inc()

	fields := []zap.Field{zap.String("name", name)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.LogAPICall(ctx, backend, "upload", status, duration, fields...)
}
