package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"content-ingestion-service/internal/config"
	"content-ingestion-service/utils"

	"github.com/gin-gonic/gin"
)

func authRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(NewAuthMiddleware(cfg).OptionalAuth())
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})
	return router
}

func TestOptionalAuthValidToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	token, err := utils.GenerateJWT("u1", cfg.JWTSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	authRouter(cfg).ServeHTTP(w, req)

	if w.Body.String() != "u1" {
		t.Errorf("expected user id from token, got %q", w.Body.String())
	}
}

func TestOptionalAuthInvalidTokenPassesThrough(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	authRouter(cfg).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("invalid token must not block the request, got %d", w.Code)
	}
	if w.Body.String() != "" {
		t.Errorf("invalid token must not set a user id, got %q", w.Body.String())
	}
}

func TestOptionalAuthNoToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}

	req := httptest.NewRequest("GET", "/whoami", nil)
	w := httptest.NewRecorder()
	authRouter(cfg).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("anonymous request must pass, got %d", w.Code)
	}
}
