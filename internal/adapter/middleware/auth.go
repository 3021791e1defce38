package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"shiksha-loan-backend/pkg/token"
)

const (
	ctxSubject = "auth.subject"
	ctxRole    = "auth.role"
)

// TokenValidator is satisfied by *token.Service.
type TokenValidator interface {
	Validate(raw string) (*token.Claims, error)
}

// RequireRole accepts a bearer token carrying one of roles and stores the
// subject on the echo context.
func RequireRole(tokens TokenValidator, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			claims, err := tokens.Validate(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
			}
			if !hasRole(claims.Role, roles) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			SetIdentity(c, claims.Subject, claims.Role)
			return next(c)
		}
	}
}

// SetIdentity stores the authenticated caller on c.
func SetIdentity(c echo.Context, subject, role string) {
	c.Set(ctxSubject, subject)
	c.Set(ctxRole, role)
}

// Subject is the authenticated caller, or "" outside RequireRole.
func Subject(c echo.Context) string {
	s, _ := c.Get(ctxSubject).(string)
	return s
}

func Role(c echo.Context) string {
	r, _ := c.Get(ctxRole).(string)
	return r
}

func bearer(h string) (string, bool) {
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	raw := strings.TrimSpace(h[len(prefix):])
	return raw, raw != ""
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
