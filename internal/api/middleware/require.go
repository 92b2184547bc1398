package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openbiz/directory-api/internal/api/metrics"
	"github.com/openbiz/directory-api/internal/core/access"
	"github.com/openbiz/directory-api/internal/core/domain"
)

// RequireAuth rejects requests that carry no verified identity.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if identityOf(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			return next(c)
		}
	}
}

// RequireRole rejects unauthenticated requests with 401 and authenticated
// requests whose role is not in the allowed set with 403. An empty role list
// means no restriction.
func RequireRole(operation string, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := identityOf(c)
			if id == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			if !access.Allowed(id, access.Roles(roles...)) {
				metrics.AuthzDecisionsTotal.WithLabelValues(operation, "deny").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			metrics.AuthzDecisionsTotal.WithLabelValues(operation, "allow").Inc()
			return next(c)
		}
	}
}

func identityOf(c echo.Context) *domain.Identity {
	id, _ := c.Get(IdentityKey).(*domain.Identity)
	return id
}
