package middleware

import (
	"content-ingestion-service/utils"

	"github.com/gin-gonic/gin"
)

// RequestSizeLimit rejects requests whose declared body size exceeds the
// upload cap before any of the body is read.
func RequestSizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			utils.RespondWithPayloadTooLarge(c,
				"Request body exceeds maximum size",
				gin.H{
					"max_size": maxSize,
					"received": c.Request.ContentLength,
				})
			c.Abort()
			return
		}
		c.Next()
	}
}
