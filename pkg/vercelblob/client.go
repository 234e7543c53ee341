// Package vercelblob uploads files to Vercel Blob storage over its HTTP API.
package vercelblob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/drjehan/portfolio-api/pkg/httpclient"
	"github.com/drjehan/portfolio-api/pkg/logger"
	"github.com/drjehan/portfolio-api/pkg/metrics"
	"go.uber.org/zap"
)

const (
	// DefaultAPIURL is the public Blob API endpoint
	DefaultAPIURL = "https://blob.vercel-storage.com"
	apiVersion    = "7"
	backendLabel  = "vercel_blob"
)

// Client writes public blobs with a read-write token
type Client struct {
	httpClient httpclient.Client
	apiURL     string
	token      string
}

type putResponse struct {
	URL         string `json:"url"`
	DownloadURL string `json:"downloadUrl"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a Blob client. An empty apiURL selects DefaultAPIURL.
func NewClient(httpClient httpclient.Client, apiURL, token string) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		httpClient: httpClient,
		apiURL:     strings.TrimRight(apiURL, "/"),
		token:      token,
	}
}

// Put stores data at pathname and returns the public URL of the blob
func (c *Client) Put(ctx context.Context, pathname string, data []byte, contentType string) (string, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.apiURL+"/"+pathname, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create blob request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("x-api-version", apiVersion)
	req.Header.Set("x-content-type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ctx, start, "error", pathname, err)
		return "", fmt.Errorf("blob request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record(ctx, start, "error", pathname, err)
		return "", fmt.Errorf("failed to read blob response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		msg := http.StatusText(resp.StatusCode)
		if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		err = fmt.Errorf("blob API returned %d: %s", resp.StatusCode, msg)
		c.record(ctx, start, "error", pathname, err)
		return "", err
	}

	var result putResponse
	if err := json.Unmarshal(body, &result); err != nil {
		c.record(ctx, start, "error", pathname, err)
		return "", fmt.Errorf("failed to decode blob response: %w", err)
	}
	if result.URL == "" {
		err = fmt.Errorf("blob API returned no url")
		c.record(ctx, start, "error", pathname, err)
		return "", err
	}

	c.record(ctx, start, "success", pathname, nil)
	return result.URL, nil
}

func (c *Client) record(ctx context.Context, start time.Time, status, pathname string, err error) {
	duration := metrics.MeasureDuration(start)
	metrics.StorageRequestDuration.WithLabelValues(backendLabel, status).Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(backendLabel, status).Inc()

	fields := []zap.Field{zap.String("pathname", pathname)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.LogAPICall(ctx, backendLabel, "put", status, duration, fields...)
}
