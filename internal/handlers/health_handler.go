package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/drjehan/portfolio-api/internal/models"
	"github.com/gin-gonic/gin"
)

const healthProbeTimeout = 2 * time.Second

type HealthHandler struct {
	// pingStore is nil when no counter store is configured
	pingStore     func(ctx context.Context) error
	activeStorage func() models.StorageBackend
}

func NewHealthHandler(pingStore func(ctx context.Context) error, activeStorage func() models.StorageBackend) *HealthHandler {
	return &HealthHandler{
		pingStore:     pingStore,
		activeStorage: activeStorage,
	}
}

// Healthcheck always answers 200: rate limiting fails open, so an unreachable
// counter store degrades the service rather than taking it down.
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	counterStore := "degraded"
	if h.pingStore != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
		defer cancel()
		if err := h.pingStore(ctx); err == nil {
			counterStore = "live"
		} else {
			attachError(c, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"counterStore": counterStore,
		"storage":      h.activeStorage(),
	})
}
