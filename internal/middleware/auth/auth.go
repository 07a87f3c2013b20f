package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dmarkin/tenant_portal/internal/models"
	"github.com/dmarkin/tenant_portal/internal/tokens"
)

const claimsContextKey = "claims"

type Gate struct {
	Issuer *tokens.Issuer
}

// ClaimsFrom returns the claims RequireAuth stored on the context, or nil
// when the route was not authenticated.
func ClaimsFrom(c echo.Context) *tokens.Claims {
	if v, ok := c.Get(claimsContextKey).(*tokens.Claims); ok {
		return v
	}
	return nil
}

// RequireAuth decodes the bearer access token (Authorization header first,
// accessToken cookie as fallback) and stores the claims on the context.
// Missing, malformed or expired tokens fail closed before any handler runs.
func (g *Gate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := bearerToken(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := g.Issuer.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired access token")
		}

		c.Set(claimsContextKey, claims)
		return next(c)
	}
}

// RequireRoles rejects any authenticated caller whose role is not in the
// route's allow-list.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
	}
}

// RequireTenantParam compares the tenant claim against the tenant id in
// the route path. Superadmin bypasses the check unconditionally.
func RequireTenantParam(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}
			if claims.Role == models.RoleSuperadmin {
				return next(c)
			}
			if claims.TenantID() != c.Param(param) {
				return echo.NewHTTPError(http.StatusForbidden, "you do not belong to this tenant")
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}
