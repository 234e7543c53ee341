package handlers

import (
	"github.com/drjehan/portfolio-api/internal/models"
	"github.com/gin-gonic/gin"
)

const msgUnexpected = "An error occurred while processing your request. Please try again."

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, models.ErrorResponse{Success: false, Error: message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message, details string, err error) {
	attachError(c, err)
	c.JSON(status, models.ErrorResponse{Success: false, Error: message, Details: details})
}

// respondServerError sends a 500-class response. The raw error text is only
// exposed when exposeDetails is set (non-production).
func respondServerError(c *gin.Context, status int, message string, err error, exposeDetails bool) {
	if exposeDetails && err != nil {
		respondErrorWithDetails(c, status, message, err.Error(), err)
		return
	}
	respondError(c, status, message, err)
}
