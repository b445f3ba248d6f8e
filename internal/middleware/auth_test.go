package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rabet/config"
	"rabet/internal/auth"
	"rabet/internal/domain"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "test-access",
		RefreshSecret: "test-refresh",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "rabet",
	}
}

func protectedRouter(cfg *config.JWTConfig, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthRequired(cfg)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})
	r.GET("/protected", handlers...)
	return r
}

func request(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	cfg := testJWTConfig()
	r := protectedRouter(cfg)

	token, err := auth.GenerateAccessToken(cfg, 5, "p@example.com", domain.RoleProvider)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if w := request(r, "Bearer "+token); w.Code != http.StatusOK {
		t.Errorf("valid token: got %d, want 200 (%s)", w.Code, w.Body.String())
	}
	if w := request(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("missing header: got %d, want 401", w.Code)
	}
	if w := request(r, "Basic abc"); w.Code != http.StatusUnauthorized {
		t.Errorf("non-bearer header: got %d, want 401", w.Code)
	}
	if w := request(r, "Bearer not-a-token"); w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: got %d, want 401", w.Code)
	}

	expired := testJWTConfig()
	expired.AccessExpiry = -time.Minute
	stale, err := auth.GenerateAccessToken(expired, 5, "p@example.com", domain.RoleProvider)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if w := request(r, "Bearer "+stale); w.Code != http.StatusUnauthorized {
		t.Errorf("expired token: got %d, want 401", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	cfg := testJWTConfig()
	r := protectedRouter(cfg, RequireRole(domain.RoleProvider))

	provider, _ := auth.GenerateAccessToken(cfg, 5, "p@example.com", domain.RoleProvider)
	client, _ := auth.GenerateAccessToken(cfg, 6, "c@example.com", domain.RoleClient)

	if w := request(r, "Bearer "+provider); w.Code != http.StatusOK {
		t.Errorf("provider role: got %d, want 200", w.Code)
	}
	if w := request(r, "Bearer "+client); w.Code != http.StatusForbidden {
		t.Errorf("client role: got %d, want 403", w.Code)
	}
}

func TestAdminRequired(t *testing.T) {
	cfg := testJWTConfig()
	r := protectedRouter(cfg, AdminRequired())

	admin, _ := auth.GenerateAccessToken(cfg, 1, "admin@example.com", domain.RoleAdmin)
	provider, _ := auth.GenerateAccessToken(cfg, 5, "p@example.com", domain.RoleProvider)

	if w := request(r, "Bearer "+admin); w.Code != http.StatusOK {
		t.Errorf("admin: got %d, want 200", w.Code)
	}
	if w := request(r, "Bearer "+provider); w.Code != http.StatusForbidden {
		t.Errorf("non-admin: got %d, want 403", w.Code)
	}
}
