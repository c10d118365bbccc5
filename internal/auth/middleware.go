package auth

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inventory-service/internal/domain"
	apperrors "github.com/spec-kit/inventory-service/pkg/util"
)

const identityKey = "auth_identity"

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/login"

// RouteClass partitions inbound paths for the access gate.
type RouteClass int

const (
	RoutePublic RouteClass = iota
	RouteAPIProtected
	RoutePageProtected
)

// publicAPIPaths are the API endpoints reachable without a session.
var publicAPIPaths = map[string]struct{}{
	"/api/auth/login":  {},
	"/api/auth/signup": {},
}

// ClassifyRoute decides the gate policy for a request path. Comparison is
// case-insensitive so a case-variant path can never dodge a protected class
// when the router folds case.
func ClassifyRoute(path string) RouteClass {
	path = strings.ToLower(path)
	if _, ok := publicAPIPaths[path]; ok {
		return RoutePublic
	}
	if strings.HasPrefix(path, "/api/") || path == "/api" {
		return RouteAPIProtected
	}
	if strings.HasPrefix(path, "/dashboard") || strings.HasPrefix(path, "/products") {
		return RoutePageProtected
	}
	return RoutePublic
}

// AccessGate intercepts every request before the route handlers and enforces
// the session requirement per route class. Handlers behind the gate consume
// the attached identity and never touch the credential carrier themselves.
type AccessGate struct {
	resolver IdentityResolver
}

// NewAccessGate constructs the gate.
func NewAccessGate(resolver IdentityResolver) *AccessGate {
	return &AccessGate{resolver: resolver}
}

// Handle classifies the route and either passes through, rejects with 401,
// or redirects to the login page preserving the requested path.
func (g *AccessGate) Handle(c *fiber.Ctx) error {
	switch ClassifyRoute(c.Path()) {
	case RoutePublic:
		return c.Next()
	case RouteAPIProtected:
		identity, ok := g.resolver.Resolve(c)
		if !ok {
			return apperrors.NewUnauthorized("not authenticated")
		}
		c.Locals(identityKey, identity)
		return c.Next()
	case RoutePageProtected:
		identity, ok := g.resolver.Resolve(c)
		if !ok {
			return c.Redirect(loginRedirectTarget(c.Path()), fiber.StatusFound)
		}
		c.Locals(identityKey, identity)
		return c.Next()
	}
	return c.Next()
}

func loginRedirectTarget(originalPath string) string {
	return LoginPath + "?from=" + url.QueryEscape(originalPath)
}

// IdentityFromContext retrieves the identity attached by the access gate.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}
