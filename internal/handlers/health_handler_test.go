package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/drjehan/portfolio-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthHandler_Healthcheck(t *testing.T) {
	activeStorage := func() models.StorageBackend { return models.BackendImgBB }

	tests := []struct {
		name         string
		pingStore    func(ctx context.Context) error
		counterStore string
	}{
		{
			name:         "store reachable",
			pingStore:    func(ctx context.Context) error { return nil },
			counterStore: "live",
		},
		{
			name:         "store unreachable",
			pingStore:    func(ctx context.Context) error { return errors.New("dial tcp: connection refused") },
			counterStore: "degraded",
		},
		{
			name:         "store not configured",
			pingStore:    nil,
			counterStore: "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.pingStore, activeStorage)
			router := gin.New()
			router.GET("/api/healthcheck", handler.Healthcheck)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/healthcheck", http.NoBody)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate", w.Header().Get("Cache-Control"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "ok", body["status"])
			assert.Equal(t, tt.counterStore, body["counterStore"])
			assert.Equal(t, "ImgBB", body["storage"])
		})
	}
}
