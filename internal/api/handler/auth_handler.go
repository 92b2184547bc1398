package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openbiz/directory-api/internal/api/metrics"
	"github.com/openbiz/directory-api/internal/core/domain"
	"github.com/openbiz/directory-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username                  string `json:"username" validate:"required,min=3"`
	Email                     string `json:"email" validate:"required,email"`
	Password                  string `json:"password" validate:"required,min=6"`
	FirstName                 string `json:"first_name" validate:"required"`
	LastName                  string `json:"last_name" validate:"required"`
	Phone                     string `json:"phone"`
	ReserveServiceDescription string `json:"reserve_service_description"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	ID                        string `json:"id"`
	Username                  string `json:"username"`
	Email                     string `json:"email"`
	FirstName                 string `json:"first_name"`
	LastName                  string `json:"last_name"`
	Phone                     string `json:"phone,omitempty"`
	ReserveServiceDescription string `json:"reserve_service_description,omitempty"`
	Role                      string `json:"role"`
	AccessToken               string `json:"access_token"`
}

func newAuthResponse(u *domain.User, token string) authResponse {
	return authResponse{
		ID:                        u.ID,
		Username:                  u.Username,
		Email:                     u.Email,
		FirstName:                 u.FirstName,
		LastName:                  u.LastName,
		Phone:                     u.Phone,
		ReserveServiceDescription: u.ReserveServiceDescription,
		Role:                      u.Role,
		AccessToken:               token,
	}
}

// Register creates a new account with role USER.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:                  req.Username,
		Email:                     req.Email,
		Password:                  req.Password,
		FirstName:                 req.FirstName,
		LastName:                  req.LastName,
		Phone:                     req.Phone,
		ReserveServiceDescription: req.ReserveServiceDescription,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, newAuthResponse(user, token))
}

// Login authenticates a user and returns a fresh access token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      201   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, domain.ErrTooManyAttempts):
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		default:
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, newAuthResponse(user, token))
}

// Profile returns the identity attached to the request context.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Identity
// @Failure      401  {object}  map[string]string
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, id)
}

// AdminOnly is a role-gated probe route.
//
// @Summary      Admin-only check
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /auth/admin [get]
func (h *AuthHandler) AdminOnly(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Admin access granted"})
}
