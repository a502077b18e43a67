package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gas1730-arch/oi-market/pkg/errors"
	"github.com/gas1730-arch/oi-market/pkg/logger"
	"github.com/gas1730-arch/oi-market/pkg/response"
)

// TokenVerifier turns a bearer credential into the caller's uid.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Authenticate rejects the request with auth-required unless it carries a
// valid bearer token, and stores the caller's uid under "uid".
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, errors.AuthRequired("Authorization header is required", nil))
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return response.Error(c, errors.AuthRequired("Invalid authorization format", nil))
		}

		uid, err := m.verifier.VerifyToken(c.Request().Context(), strings.TrimSpace(parts[1]))
		if err != nil || uid == "" {
			logger.Debug("Authenticate: %s %s: token rejected: %v", c.Request().Method, c.Path(), err)
			return response.Error(c, errors.AuthRequired("Invalid or expired token", err))
		}

		c.Set("uid", uid)
		return next(c)
	}
}

// UID returns the uid stored by Authenticate.
func UID(c echo.Context) string {
	uid, _ := c.Get("uid").(string)
	return uid
}
