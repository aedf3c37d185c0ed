package middleware

import (
	"errors"
	"strings"

	"skill-eval/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	CtxUserIDKey = "user_id"
	CtxEmailKey  = "email"
	CtxRoleKey   = "role"
)

type AuthMiddleware struct {
	jwt        jwt.Service
	cookieName string
}

// NewAuthMiddleware accepts a bearer token, falling back to the session
// cookie when cookieName is set.
func NewAuthMiddleware(jwtSvc jwt.Service, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc, cookieName: cookieName}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok && m.cookieName != "" {
			token = strings.TrimSpace(c.Cookies(m.cookieName))
			ok = token != ""
		}
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "authentication required", nil, nil)
		}

		claims, err := m.jwt.ValidateAccessToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "invalid token", nil, err)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxEmailKey, claims.Email)
		c.Locals(CtxRoleKey, claims.Role)

		return c.Next()
	}
}

// RequireRole must run after the auth middleware.
func RequireRole(role string) fiber.Handler {
	return func(c fiber.Ctx) error {
		got, _ := c.Locals(CtxRoleKey).(string)
		if !strings.EqualFold(got, role) {
			return NewAppError(fiber.StatusForbidden, "insufficient permissions", nil, nil)
		}
		return c.Next()
	}
}

func UserIDFromCtx(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func RoleFromCtx(c fiber.Ctx) string {
	r, _ := c.Locals(CtxRoleKey).(string)
	return r
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c fiber.Ctx) (string, bool) {
	return bearerTokenFromHeader(c.Get("Authorization"))
}
