package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Timeout applies a default deadline to every request context. A
// caller-supplied deadline (via connection-level cancellation) still
// wins if it fires first. On expiry, in-flight transactions roll back
// and open cursors are abandoned through context cancellation.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
