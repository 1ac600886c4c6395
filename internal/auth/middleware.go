package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/quocphungccq1911h/mobi/internal/domain"
)

const identityKey = "auth_identity"

// Middleware resolves a bearer token into a request-scoped identity.
// A missing, malformed, or invalid token leaves the request unauthenticated
// and lets it proceed; public routes are reachable without credentials and
// the policy layer decides whether an identity is required.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs the authentication middleware.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Authenticate runs once per request. On a verified token the decoded
// identity is attached to the request locals; it is never shared across
// requests.
func (m *Middleware) Authenticate(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return c.Next()
	}

	identity, err := m.tokens.Verify(parts[1])
	if err != nil {
		return c.Next()
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity, if any.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}
