package ports

import (
	"context"

	"github.com/openbiz/directory-api/internal/core/domain"
)

// UpdateUserInput carries a partial profile update. Nil fields are left
// untouched, never nulled.
type UpdateUserInput struct {
	ID                        string
	FirstName                 *string
	LastName                  *string
	Email                     *string
	Phone                     *string
	ReserveServiceDescription *string
}

// UserService exposes account queries and self-or-admin mutations. Mutating
// operations check existence before authorization, so a non-owner probing a
// missing id sees NotFound rather than Forbidden.
type UserService interface {
	FindAll(ctx context.Context) ([]*domain.User, error)
	FindOne(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, caller *domain.Identity, in UpdateUserInput) (*domain.User, error)
	// Remove deletes the account and cascades to its businesses.
	Remove(ctx context.Context, caller *domain.Identity, id string) error
}
