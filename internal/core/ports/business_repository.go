package ports

import (
	"context"
	"time"

	"github.com/openbiz/directory-api/internal/core/domain"
)

// PageKey is the ordering key of the listing feed: creation time descending
// with id descending as the tie-break, so records with identical timestamps
// still have a total order and cursors stay stable.
type PageKey struct {
	CreatedAt time.Time
	ID        string
}

// BusinessRepository defines persistence operations for business listings.
type BusinessRepository interface {
	Create(ctx context.Context, b *domain.Business) error
	FindByID(ctx context.Context, id string) (*domain.Business, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Business, error)
	// ListAfter returns up to limit businesses ordered by (created_at desc,
	// id desc), starting strictly after the given key. A nil key starts from
	// the newest record.
	ListAfter(ctx context.Context, after *PageKey, limit int) ([]*domain.Business, error)
	// Count returns the total number of businesses. It runs outside any page
	// fetch, so it is only eventually consistent with concurrent writes.
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, b *domain.Business) error
	Delete(ctx context.Context, id string) error
}
