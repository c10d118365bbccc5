package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/inventory-service/internal/domain"
)

// SessionCookieName is the credential carrier holding the session token.
const SessionCookieName = "token"

// IdentityResolver yields the authenticated identity for a request, if any.
type IdentityResolver interface {
	Resolve(c *fiber.Ctx) (*domain.Identity, bool)
}

// SessionResolver extracts the session token from the request cookie and
// validates it. Verification failures are an expected outcome and only ever
// reach the debug log.
type SessionResolver struct {
	tokens *TokenManager
	logger *zap.Logger
}

// NewSessionResolver constructs a resolver around the token manager.
func NewSessionResolver(tokens *TokenManager, logger *zap.Logger) *SessionResolver {
	return &SessionResolver{tokens: tokens, logger: logger}
}

// Resolve returns the identity embedded in a valid session token, or nothing.
func (r *SessionResolver) Resolve(c *fiber.Ctx) (*domain.Identity, bool) {
	raw := c.Cookies(SessionCookieName)
	if raw == "" {
		return nil, false
	}

	claims, err := r.tokens.Verify(raw)
	if err != nil {
		if r.logger != nil {
			r.logger.Debug("session token rejected", zap.Error(err))
		}
		return nil, false
	}

	identity := claims.Identity()
	return &identity, true
}
