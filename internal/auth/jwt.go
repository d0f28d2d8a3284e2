package auth

import (
	"errors"
	"strconv"
	"time"

	"bizlist/config"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// AccessClaims identifies the caller on every authenticated request. Email
// rides along because the checkout email-verification gate is keyed by the
// account address, not a separate form field.
type AccessClaims struct {
	UserID uint   `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"` // MEMBER | PRODUCER | ADMIN
	jwt.RegisteredClaims
}

// Issuer mints and checks this service's tokens. Access and refresh tokens
// use separate secrets so a leaked access secret cannot mint refreshes.
type Issuer struct {
	cfg *config.JWTConfig
}

func NewIssuer(cfg *config.JWTConfig) *Issuer {
	return &Issuer{cfg: cfg}
}

func (i *Issuer) AccessToken(userID uint, email, role string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    i.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.AccessExpiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.AccessSecret))
}

func (i *Issuer) RefreshToken(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    i.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.RefreshExpiry)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.RefreshSecret))
}

// ParseAccess rejects tokens signed with the wrong key or algorithm, expired
// tokens, and tokens minted by another issuer.
func (i *Issuer) ParseAccess(token string) (*AccessClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &AccessClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(i.cfg.AccessSecret), nil
	}, jwt.WithIssuer(i.cfg.Issuer), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseRefresh returns the user ID the refresh token was minted for.
func (i *Issuer) ParseRefresh(token string) (uint, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(i.cfg.RefreshSecret), nil
	}, jwt.WithIssuer(i.cfg.Issuer), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}
