package ports

import (
	"context"

	"github.com/openbiz/directory-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Uniqueness of username and email is enforced by the storage layer; Create
// returns domain.ErrUserExists when either collides.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByUsernameOrEmail matches either field exactly (case-sensitive).
	// Used as a friendly pre-check before Create; the unique indexes remain
	// the true invariant.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// Delete removes the user and every business it owns in a single
	// storage transaction.
	Delete(ctx context.Context, id string) error
}
