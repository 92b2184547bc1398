package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openbiz/directory-api/internal/api/middleware"
	"github.com/openbiz/directory-api/internal/core/domain"
)

// currentIdentity extracts the identity injected by the Identity middleware.
// Routes behind RequireAuth always have one; the check here is a fast-fail
// for misconfigured route chains.
func currentIdentity(c echo.Context) (*domain.Identity, error) {
	id, _ := c.Get(middleware.IdentityKey).(*domain.Identity)
	if id == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return id, nil
}
