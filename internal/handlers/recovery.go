package handlers

import (
	"fmt"
	"net/http"

	"github.com/drjehan/portfolio-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery converts a panic in any handler into the standard JSON 500 body
func Recovery(exposeDetails bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		err := fmt.Errorf("panic: %v", recovered)
		logger.Error("Recovered from panic",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
		)
		respondServerError(c, http.StatusInternalServerError, msgUnexpected, err, exposeDetails)
		c.Abort()
	})
}
