package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	notifdomain "github.com/andeanlabs/izibridge/internal/notification/domain"
)

var ErrInvalidRequest = errors.New("invalid_request")

// recoveryJSON answers a handler panic with the same error shape the rest
// of the surface uses, instead of gin's bodiless 500.
func recoveryJSON(c *gin.Context, recovered any) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"details": fmt.Sprint(recovered),
	})
}

// ErrorHandlingMiddleware turns errors recorded on the gin context into the
// JSON shapes the gateway understands. Handlers that already wrote a
// response are left alone.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, payload)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, gin.H) {
	switch {
	case errors.Is(err, notifdomain.ErrValidationFailed):
		return http.StatusBadRequest, gin.H{"error": "validation_failed"}
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, gin.H{"error": "invalid_request"}
	default:
		return http.StatusInternalServerError, gin.H{
			"error":   "reconciliation_failed",
			"details": err.Error(),
		}
	}
}
