package auth

import (
	"errors"
	"testing"
	"time"

	"bizlist/config"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "bizlist-test",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	iss := NewIssuer(testJWTConfig())
	tok, err := iss.AccessToken(7, "buyer@example.com", "MEMBER")
	if err != nil {
		t.Fatalf("AccessToken: %v", err)
	}
	claims, err := iss.ParseAccess(tok)
	if err != nil {
		t.Fatalf("ParseAccess: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "buyer@example.com" || claims.Role != "MEMBER" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Subject != "7" {
		t.Errorf("subject = %q, want 7", claims.Subject)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	iss := NewIssuer(testJWTConfig())
	tok, err := iss.RefreshToken(42)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	id, err := iss.ParseRefresh(tok)
	if err != nil {
		t.Fatalf("ParseRefresh: %v", err)
	}
	if id != 42 {
		t.Errorf("user id = %d, want 42", id)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	iss := NewIssuer(testJWTConfig())
	access, _ := iss.AccessToken(7, "buyer@example.com", "MEMBER")
	refresh, _ := iss.RefreshToken(7)
	if _, err := iss.ParseRefresh(access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token accepted as refresh: %v", err)
	}
	if _, err := iss.ParseAccess(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh token accepted as access: %v", err)
	}
}

func TestParseAccessRejectsBadSecret(t *testing.T) {
	iss := NewIssuer(testJWTConfig())
	tok, err := iss.AccessToken(7, "buyer@example.com", "MEMBER")
	if err != nil {
		t.Fatalf("AccessToken: %v", err)
	}
	otherCfg := testJWTConfig()
	otherCfg.AccessSecret = "different"
	if _, err := NewIssuer(otherCfg).ParseAccess(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseAccessRejectsForeignIssuer(t *testing.T) {
	foreignCfg := testJWTConfig()
	foreignCfg.Issuer = "someone-else"
	tok, err := NewIssuer(foreignCfg).AccessToken(7, "buyer@example.com", "MEMBER")
	if err != nil {
		t.Fatalf("AccessToken: %v", err)
	}
	if _, err := NewIssuer(testJWTConfig()).ParseAccess(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseAccessRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessExpiry = -time.Minute
	iss := NewIssuer(cfg)
	tok, err := iss.AccessToken(7, "buyer@example.com", "MEMBER")
	if err != nil {
		t.Fatalf("AccessToken: %v", err)
	}
	if _, err := iss.ParseAccess(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseAccessRejectsGarbage(t *testing.T) {
	iss := NewIssuer(testJWTConfig())
	if _, err := iss.ParseAccess("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
