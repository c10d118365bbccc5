package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/inventory-service/internal/domain"
)

// TokenManager handles issuing and verifying session JWTs.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager. The secret is process-wide and fixed
// for the lifetime of the manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// IdentityClaims describes the JWT payload carried by session tokens.
type IdentityClaims struct {
	UserID string      `json:"id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity converts the claims back into the domain identity.
func (c *IdentityClaims) Identity() domain.Identity {
	return domain.Identity{ID: c.UserID, Email: c.Email, Role: c.Role}
}

// Issue signs a session token for the identity. An unset role falls back to
// USER so every token carries a role.
func (tm *TokenManager) Issue(identity domain.Identity) (string, time.Time, error) {
	role := identity.Role
	if role == "" {
		role = domain.RoleUser
	}

	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &IdentityClaims{
		UserID: identity.ID,
		Email:  identity.Email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates the signature, algorithm, and expiry of a session token.
// Every failure mode comes back as an error; callers treat any error as the
// absence of a session.
func (tm *TokenManager) Verify(tokenStr string) (*IdentityClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*IdentityClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// TTL exposes the configured session lifetime for cookie max-age alignment.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}
