package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/openbiz/directory-api/internal/core/domain"
	"github.com/openbiz/directory-api/internal/core/ports"
)

// stubAuth resolves token subjects from a fixed map.
type stubAuth struct {
	users map[string]*domain.User
}

func (s *stubAuth) Register(context.Context, ports.RegisterInput) (*domain.User, string, error) {
	return nil, "", errors.New("not implemented")
}

func (s *stubAuth) Login(context.Context, string, string) (*domain.User, string, error) {
	return nil, "", errors.New("not implemented")
}

func (s *stubAuth) Validate(_ context.Context, userID string) (*domain.User, error) {
	if u, ok := s.users[userID]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func signToken(t *testing.T, secret, sub string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      sub,
		"username": "alice",
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newIdentityContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpStatusOf(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestIdentity_MissingHeaderIsUnauthenticated(t *testing.T) {
	auth := &stubAuth{users: map[string]*domain.User{}}
	c, _ := newIdentityContext("")

	called := false
	err := Identity("secret", auth)(func(c echo.Context) error {
		called = true
		if c.Get(IdentityKey) != nil {
			t.Fatalf("identity must be absent without a token")
		}
		if IdentityFrom(c.Request().Context()) != nil {
			t.Fatalf("request context identity must be absent without a token")
		}
		return nil
	})(c)

	if err != nil {
		t.Fatalf("missing header must not be an error by itself: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestIdentity_ValidToken(t *testing.T) {
	user := &domain.User{
		ID:        "u1",
		Username:  "alice",
		Email:     "a@x.com",
		FirstName: "Alice",
		LastName:  "A",
		Role:      domain.RoleAdmin,
	}
	auth := &stubAuth{users: map[string]*domain.User{"u1": user}}
	c, _ := newIdentityContext("Bearer " + signToken(t, "secret", "u1", time.Hour))

	err := Identity("secret", auth)(func(c echo.Context) error {
		id, _ := c.Get(IdentityKey).(*domain.Identity)
		if id == nil {
			t.Fatalf("identity not set")
		}
		// Role comes from the account, not the token.
		if id.Role != domain.RoleAdmin {
			t.Fatalf("role not re-read from account: %+v", id)
		}
		// The direct flavor (echo key) and gateway flavor (request context)
		// must expose an identical shape.
		ctxID := IdentityFrom(c.Request().Context())
		if !reflect.DeepEqual(id, ctxID) {
			t.Fatalf("context identity differs: %+v vs %+v", id, ctxID)
		}
		return nil
	})(c)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestIdentity_ExpiredToken(t *testing.T) {
	auth := &stubAuth{users: map[string]*domain.User{}}
	c, _ := newIdentityContext("Bearer " + signToken(t, "secret", "u1", -time.Minute))

	err := Identity("secret", auth)(func(echo.Context) error { return nil })(c)
	if httpStatusOf(t, err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token")
	}
}

func TestIdentity_BadSignature(t *testing.T) {
	auth := &stubAuth{users: map[string]*domain.User{}}
	c, _ := newIdentityContext("Bearer " + signToken(t, "other-secret", "u1", time.Hour))

	err := Identity("secret", auth)(func(echo.Context) error { return nil })(c)
	if httpStatusOf(t, err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad signature")
	}
}

func TestIdentity_MalformedHeader(t *testing.T) {
	auth := &stubAuth{users: map[string]*domain.User{}}
	c, _ := newIdentityContext("Token abc")

	err := Identity("secret", auth)(func(echo.Context) error { return nil })(c)
	if httpStatusOf(t, err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed header")
	}
}

// A valid token whose subject account was deleted must fail authentication,
// not reach the handler.
func TestIdentity_DeletedSubject(t *testing.T) {
	auth := &stubAuth{users: map[string]*domain.User{}}
	c, _ := newIdentityContext("Bearer " + signToken(t, "secret", "gone", time.Hour))

	called := false
	err := Identity("secret", auth)(func(echo.Context) error {
		called = true
		return nil
	})(c)
	if httpStatusOf(t, err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted subject")
	}
	if called {
		t.Fatalf("handler must not run on a partial context")
	}
}
