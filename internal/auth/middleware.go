package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/favourites-api/internal/domain"
	apperrors "github.com/spec-kit/favourites-api/pkg/util"
)

const identityKey = "auth_identity"

// Schemes accepted in the Authorization header. JWT is what existing clients send.
var acceptedSchemes = []string{"JWT", "Bearer"}

// AuthMiddleware validates bearer tokens and attaches the caller identity.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthenticated("missing authorization header")
	}

	token, ok := ExtractToken(authHeader)
	if !ok {
		return apperrors.NewUnauthenticated("invalid authorization header")
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		return apperrors.NewUnauthenticated(err.Error())
	}

	c.Locals(identityKey, claims.Identity())
	return c.Next()
}

// ExtractToken splits "<scheme> <token>" and returns the token for a recognized scheme.
func ExtractToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	for _, scheme := range acceptedSchemes {
		if strings.EqualFold(parts[0], scheme) {
			return token, true
		}
	}
	return "", false
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	return identity, ok
}
