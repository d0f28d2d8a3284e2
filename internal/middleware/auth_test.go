package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bizlist/config"
	"bizlist/internal/auth"
	"bizlist/internal/domain"

	"github.com/gin-gonic/gin"
)

func testIssuer() *auth.Issuer {
	return auth.NewIssuer(&config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "bizlist-test",
	})
}

func protectedRouter(iss *auth.Issuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthRequired(iss), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "email": GetEmail(c)})
	})
	r.POST("/producers", AuthRequired(iss), RequireRole(domain.RoleProducer, domain.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return r
}

func TestAuthRequiredRejectsMissingHeader(t *testing.T) {
	r := protectedRouter(testIssuer())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequiredRejectsMalformedHeader(t *testing.T) {
	r := protectedRouter(testIssuer())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequiredRejectsForeignToken(t *testing.T) {
	iss := testIssuer()
	other := auth.NewIssuer(&config.JWTConfig{
		AccessSecret: "someone-else",
		AccessExpiry: time.Minute,
		Issuer:       "bizlist-test",
	})
	tok, err := other.AccessToken(1, "a@b.c", domain.RoleMember)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	r := protectedRouter(iss)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequiredSetsIdentity(t *testing.T) {
	iss := testIssuer()
	tok, err := iss.AccessToken(42, "buyer@example.com", domain.RoleMember)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	r := protectedRouter(iss)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !containsAll(body, `"user_id":42`, `"email":"buyer@example.com"`) {
		t.Errorf("identity not propagated: %s", body)
	}
}

func TestRequireRoleGatesByRole(t *testing.T) {
	iss := testIssuer()
	r := protectedRouter(iss)

	tests := []struct {
		name string
		role string
		want int
	}{
		{"member is refused", domain.RoleMember, http.StatusForbidden},
		{"producer passes", domain.RoleProducer, http.StatusCreated},
		{"admin passes", domain.RoleAdmin, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := iss.AccessToken(7, "x@y.z", tt.role)
			if err != nil {
				t.Fatalf("mint: %v", err)
			}
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/producers", nil)
			req.Header.Set("Authorization", "Bearer "+tok)
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRequireRoleWithoutAuthIsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RequireRole(domain.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
