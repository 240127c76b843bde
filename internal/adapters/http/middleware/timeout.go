package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Deadline sets a deadline on the request context. Handlers that wait on
// the card controller stop waiting when it passes; the refresh cycle
// itself keeps running on the controller's context.
func Deadline(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
