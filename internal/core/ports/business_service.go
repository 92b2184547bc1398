package ports

import (
	"context"

	"github.com/openbiz/directory-api/internal/core/domain"
)

const DefaultPageSize = 10

// PageInput selects a window of the listing feed. Take defaults to
// DefaultPageSize when not positive; Cursor is the id of the last record of
// the previous page (empty = first page).
type PageInput struct {
	Take   int
	Cursor string
}

// BusinessConnection is one page of listings plus the continuation cursor.
// NextCursor is nil on the final page. TotalCount is computed independently
// of the page fetch.
type BusinessConnection struct {
	Nodes      []*domain.Business `json:"nodes"`
	NextCursor *string            `json:"next_cursor"`
	TotalCount int64              `json:"total_count"`
}

// CreateBusinessInput carries the fields of a new listing.
type CreateBusinessInput struct {
	Name        string
	Description string
	ContactInfo map[string]any
	Links       map[string]any
	Photos      []string
}

// UpdateBusinessInput carries a partial listing update. Nil fields are left
// untouched.
type UpdateBusinessInput struct {
	ID          string
	Name        *string
	Description *string
	ContactInfo map[string]any
	Links       map[string]any
	Photos      []string
}

// BusinessService exposes listing CRUD and the paginated feed. Mutating
// operations follow the fixed order lookup → authorize → apply → persist.
type BusinessService interface {
	Create(ctx context.Context, caller *domain.Identity, in CreateBusinessInput) (*domain.Business, error)
	FindAll(ctx context.Context, page PageInput) (*BusinessConnection, error)
	FindOne(ctx context.Context, id string) (*domain.Business, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Business, error)
	Update(ctx context.Context, caller *domain.Identity, in UpdateBusinessInput) (*domain.Business, error)
	Remove(ctx context.Context, caller *domain.Identity, id string) error
}
