package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	userContextKey = "currentUserID"
	// SessionCookie is the cookie the identity provider sets for browser sessions.
	SessionCookie = "__session"
)

// TokenParser resolves an identity token to the provider's user ID.
type TokenParser interface {
	Parse(token string) (string, error)
}

// AuthContext is the caller identity handed explicitly to write handlers.
type AuthContext struct {
	UserID string
}

// Authenticated reports whether the request carried a valid identity.
func (a AuthContext) Authenticated() bool {
	return a.UserID != ""
}

// AuthedHandler is a fiber handler that receives the caller identity as an argument.
type AuthedHandler func(c *fiber.Ctx, auth AuthContext) error

// Identify resolves the caller from a Bearer token or the session cookie. Requests without
// a valid token pass through anonymously; handlers decide whether identity is required.
func Identify(parser TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get("Authorization"))
		if token == "" {
			token = c.Cookies(SessionCookie)
		}
		if token == "" {
			return c.Next()
		}

		userID, err := parser.Parse(token)
		if err == nil && userID != "" {
			c.Locals(userContextKey, userID)
		}
		return c.Next()
	}
}

// WithAuth adapts an AuthedHandler so the resolved identity is passed in explicitly.
func WithAuth(next AuthedHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return next(c, CurrentAuth(c))
	}
}

// CurrentAuth extracts the identity stored by Identify.
func CurrentAuth(c *fiber.Ctx) AuthContext {
	if id, ok := c.Locals(userContextKey).(string); ok {
		return AuthContext{UserID: id}
	}
	return AuthContext{}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
