package ports

import (
	"context"

	"github.com/openbiz/directory-api/internal/core/domain"
)

// RegisterInput carries everything needed to create an account.
type RegisterInput struct {
	Username                  string
	Email                     string
	Password                  string
	FirstName                 string
	LastName                  string
	Phone                     string
	ReserveServiceDescription string
}

// AuthService implements registration, login, and server-side identity
// re-hydration. Register and Login also return a signed access token.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
	// Validate resolves a token subject back to its account.
	// Returns domain.ErrUserNotFound when the account no longer exists.
	Validate(ctx context.Context, userID string) (*domain.User, error)
}
