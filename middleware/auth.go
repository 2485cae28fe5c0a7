package middleware

import (
	"content-ingestion-service/internal/config"
	"content-ingestion-service/utils"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	config *config.Config
}

func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{config: cfg}
}

// OptionalAuth validates a bearer token when one is present. Requests
// without a token still pass through; the upload handler falls back to
// the user_id form field in that case.
func (a *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.config.JWTSecret == "" {
			c.Next()
			return
		}

		tokenString := utils.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if tokenString != "" {
			claims, err := utils.ValidateJWT(tokenString, a.config.JWTSecret)
			if err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("authenticated", true)
			}
		}

		c.Next()
	}
}

// Helper function to get user ID from context
func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}
