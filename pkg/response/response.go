// Package response writes the JSON bodies shared by the API handlers.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feuerwehr-web/pkg/logger"
)

// DegradedHeader marks a 200 response whose data could not be loaded.
const DegradedHeader = "X-Data-Degraded"

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created answers a successful form submission.
func Created(c *gin.Context, id string) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": id})
}

func Error(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }

func Unauthorized(c *gin.Context, msg string) { Error(c, http.StatusUnauthorized, msg) }

func Forbidden(c *gin.Context, msg string) { Error(c, http.StatusForbidden, msg) }

func NotFound(c *gin.Context, msg string) { Error(c, http.StatusNotFound, msg) }

func Conflict(c *gin.Context, msg string) { Error(c, http.StatusConflict, msg) }

func TooManyRequests(c *gin.Context, msg string) { Error(c, http.StatusTooManyRequests, msg) }

// InternalError logs err and answers 500 with msg. The error itself never
// reaches the client.
func InternalError(c *gin.Context, err error, msg string) {
	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	Error(c, http.StatusInternalServerError, msg)
}

// Degraded answers 200 with fallback when a read endpoint could not load its
// data. The failure is logged and flagged in the DegradedHeader.
func Degraded(c *gin.Context, err error, fallback any) {
	logger.Error("read endpoint degraded",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.Header(DegradedHeader, "1")
	c.JSON(http.StatusOK, fallback)
}
