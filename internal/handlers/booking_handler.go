package handlers

import (
	"net/http"

	"github.com/drjehan/portfolio-api/internal/models"
	"github.com/drjehan/portfolio-api/internal/services"
	"github.com/drjehan/portfolio-api/pkg/errors"
	"github.com/drjehan/portfolio-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgFormErrors     = "Please check your form for errors"
	msgWhatsAppConfig = "WhatsApp configuration error. Please contact support."
)

type BookingHandler struct {
	service       services.BookingServiceInterface
	exposeDetails bool
}

func NewBookingHandler(service services.BookingServiceInterface, exposeDetails bool) *BookingHandler {
	return &BookingHandler{service: service, exposeDetails: exposeDetails}
}

// Submit handles POST /api/contact
func (h *BookingHandler) Submit(c *gin.Context) {
	raw, err := readFormFields(c)
	if err != nil {
		// An unreadable body is validated as empty so every field is reported
		logger.Debug("Booking body could not be parsed", zap.Error(err))
	}

	resp, err := h.service.Submit(c.Request.Context(), raw)
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			attachError(c, err)
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error:   msgFormErrors,
				Errors:  vErr.Fields,
			})
		case errors.Is(err, errors.ErrConfiguration):
			respondError(c, http.StatusInternalServerError, msgWhatsAppConfig, err)
		default:
			logger.LogError(err, "Booking submission failed")
			respondServerError(c, http.StatusInternalServerError, msgUnexpected, err, h.exposeDetails)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// readFormFields binds a flat JSON object and keeps its string values.
// Values of any other JSON type are dropped and so reported as missing.
func readFormFields(c *gin.Context) (map[string]string, error) {
	fields := map[string]string{}

	var decoded map[string]any
	if err := c.ShouldBindJSON(&decoded); err != nil {
		return fields, err
	}

	for key, value := range decoded {
		if s, ok := value.(string); ok {
			fields[key] = s
		}
	}
	return fields, nil
}
