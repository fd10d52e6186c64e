// Package response writes JSON error bodies and maps classified errors to
// HTTP status codes.
package response

import (
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/apperror"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func StatusOf(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error aborts the request with the status for err. Server-side failures are
// logged and their details kept out of the body.
func Error(c *gin.Context, log logger.ZapLogger, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": apperror.Message(err)})
}

// BadRequest is for binding and parsing failures caught before the usecase.
func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
