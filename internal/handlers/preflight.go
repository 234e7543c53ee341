package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Preflight answers OPTIONS for the public form endpoints with a fixed,
// permissive CORS declaration
func Preflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Status(http.StatusOK)
}
