package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/openbiz/directory-api/internal/core/domain"
)

func TestHTTPErrorHandlerMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"user exists", domain.ErrUserExists, http.StatusConflict},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized},
		{"throttled", domain.ErrTooManyAttempts, http.StatusTooManyRequests},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"email in use", domain.ErrEmailInUse, http.StatusForbidden},
		{"user missing", domain.ErrUserNotFound, http.StatusNotFound},
		{"business missing", domain.ErrBusinessNotFound, http.StatusNotFound},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "bad input"), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	e := echo.New()
	h := NewHTTPErrorHandler(zerolog.Nop())

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			h(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("code = %d, want %d", rec.Code, tc.code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] == "" {
				t.Fatalf("empty error envelope: %s", rec.Body.String())
			}
		})
	}
}

// Internal causes must not leak to the client.
func TestHTTPErrorHandlerHidesInternalDetail(t *testing.T) {
	e := echo.New()
	h := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h(errors.New("dial tcp 10.0.0.3:27017: connection refused"), e.NewContext(req, rec))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "internal server error" {
		t.Fatalf("leaked detail: %q", body["error"])
	}
}
