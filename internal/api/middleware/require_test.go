package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/openbiz/directory-api/internal/core/domain"
)

func newGuardContext(id *domain.Identity) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if id != nil {
		c.Set(IdentityKey, id)
	}
	return c
}

func TestRequireAuth(t *testing.T) {
	ok := func(echo.Context) error { return nil }

	err := RequireAuth()(ok)(newGuardContext(nil))
	if httpStatusOf(t, err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity")
	}

	if err := RequireAuth()(ok)(newGuardContext(&domain.Identity{ID: "u1", Role: domain.RoleUser})); err != nil {
		t.Fatalf("authenticated request rejected: %v", err)
	}
}

func TestRequireRole(t *testing.T) {
	ok := func(echo.Context) error { return nil }
	guard := RequireRole("admin_probe", domain.RoleAdmin)

	err := guard(ok)(newGuardContext(nil))
	if httpStatusOf(t, err) != http.StatusUnauthorized {
		t.Fatalf("unauthenticated must be 401, not 403")
	}

	err = guard(ok)(newGuardContext(&domain.Identity{ID: "u1", Role: domain.RoleUser}))
	if httpStatusOf(t, err) != http.StatusForbidden {
		t.Fatalf("wrong role must be 403")
	}

	if err := guard(ok)(newGuardContext(&domain.Identity{ID: "a1", Role: domain.RoleAdmin})); err != nil {
		t.Fatalf("admin rejected: %v", err)
	}
}
