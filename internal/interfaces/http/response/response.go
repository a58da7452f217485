package response

import (
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainerrors "donation-platform.backend/internal/domain/errors"
	"donation-platform.backend/pkg/logger"
)

var exposeInternalErrors atomic.Bool

// SetExposeInternalErrors controls whether the cause of a 500 is written to
// the response body. The cause is logged either way.
func SetExposeInternalErrors(expose bool) {
	exposeInternalErrors.Store(expose)
}

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	appErr, ok := domainerrors.AsAppError(err)
	if !ok {
		// Default to Internal Server Error if not an AppError
		appErr = domainerrors.InternalError(err)
	}

	detail := appErr.Message
	if appErr.Status >= 500 {
		logger.Error(c.Request.Context(), "Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		if exposeInternalErrors.Load() && err != nil {
			detail = err.Error()
		}
	}

	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
		"error":   detail,
	})
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
		"error":   message,
	})
}
