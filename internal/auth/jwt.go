package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrMissingTenant  = errors.New("token has no tenant claim")
	ErrSecretRequired = errors.New("jwt secret is required")
)

// TenantClaims carries the store a dashboard request is scoped to.
type TenantClaims struct {
	Tenant string `json:"tenant"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 tenant tokens.
type Tokens struct {
	secret []byte
}

func NewTokens(secret string) (*Tokens, error) {
	if secret == "" {
		return nil, ErrSecretRequired
	}
	return &Tokens{secret: []byte(secret)}, nil
}

func (t *Tokens) GenerateToken(tenant, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TenantClaims{
		Tenant: tenant,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ParseTenant verifies tokenStr and returns its tenant claim.
func (t *Tokens) ParseTenant(tokenStr string) (string, error) {
	var claims TenantClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Tenant == "" {
		return "", ErrMissingTenant
	}
	return claims.Tenant, nil
}
