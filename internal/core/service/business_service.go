package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openbiz/directory-api/internal/core/access"
	"github.com/openbiz/directory-api/internal/core/domain"
	"github.com/openbiz/directory-api/internal/core/ports"
)

// BusinessService implements listing CRUD and the paginated feed.
type BusinessService struct {
	repo  ports.BusinessRepository
	users ports.UserRepository
	audit ports.AuditRecorder
	log   zerolog.Logger
}

func NewBusinessService(
	repo ports.BusinessRepository,
	users ports.UserRepository,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *BusinessService {
	if audit == nil {
		audit = ports.NopRecorder{}
	}
	return &BusinessService{repo: repo, users: users, audit: audit, log: log}
}

// Create inserts a listing owned by the caller. The owner must reference an
// existing account at creation time.
func (s *BusinessService) Create(ctx context.Context, caller *domain.Identity, in ports.CreateBusinessInput) (*domain.Business, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}

	if _, err := s.users.FindByID(ctx, caller.ID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	b := &domain.Business{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     caller.ID,
		ContactInfo: in.ContactInfo,
		Links:       in.Links,
		Photos:      in.Photos,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if b.Photos == nil {
		b.Photos = []string{}
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.log.Info().Str("business_id", b.ID).Str("owner_id", caller.ID).Msg("business created")
	return b, nil
}

// FindAll returns one page of the feed, newest first. The window is fetched
// with one extra record to detect a next page; the total count runs as a
// separate query and is only eventually consistent with concurrent writes.
func (s *BusinessService) FindAll(ctx context.Context, page ports.PageInput) (*ports.BusinessConnection, error) {
	take := page.Take
	if take <= 0 {
		take = ports.DefaultPageSize
	}

	var after *ports.PageKey
	if page.Cursor != "" {
		anchor, err := s.repo.FindByID(ctx, page.Cursor)
		if err != nil {
			return nil, err
		}
		after = &ports.PageKey{CreatedAt: anchor.CreatedAt, ID: anchor.ID}
	}

	nodes, err := s.repo.ListAfter(ctx, after, take+1)
	if err != nil {
		return nil, err
	}

	var nextCursor *string
	if len(nodes) > take {
		nodes = nodes[:take]
		last := nodes[len(nodes)-1].ID
		nextCursor = &last
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &ports.BusinessConnection{
		Nodes:      nodes,
		NextCursor: nextCursor,
		TotalCount: total,
	}, nil
}

func (s *BusinessService) FindOne(ctx context.Context, id string) (*domain.Business, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *BusinessService) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Business, error) {
	return s.repo.FindByOwner(ctx, ownerID)
}

// Update applies a partial update after the lookup → authorize sequence.
// Nil input fields leave the stored values untouched.
func (s *BusinessService) Update(ctx context.Context, caller *domain.Identity, in ports.UpdateBusinessInput) (*domain.Business, error) {
	b, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if err := access.Check(caller, access.OwnerOr(b.OwnerID, domain.RoleAdmin)); err != nil {
		s.recordDecision(caller, domain.AuditUpdateBusiness, in.ID, "deny")
		return nil, err
	}

	if in.Name != nil {
		b.Name = *in.Name
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	if in.ContactInfo != nil {
		b.ContactInfo = in.ContactInfo
	}
	if in.Links != nil {
		b.Links = in.Links
	}
	if in.Photos != nil {
		b.Photos = in.Photos
	}
	b.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.recordDecision(caller, domain.AuditUpdateBusiness, in.ID, "allow")
	return b, nil
}

// Remove deletes a listing after the lookup → authorize sequence.
func (s *BusinessService) Remove(ctx context.Context, caller *domain.Identity, id string) error {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := access.Check(caller, access.OwnerOr(b.OwnerID, domain.RoleAdmin)); err != nil {
		s.recordDecision(caller, domain.AuditDeleteBusiness, id, "deny")
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("business_id", id).Str("actor_id", caller.ID).Msg("business deleted")
	s.recordDecision(caller, domain.AuditDeleteBusiness, id, "allow")
	return nil
}

func (s *BusinessService) recordDecision(caller *domain.Identity, action, targetID, decision string) {
	actorID := ""
	if caller != nil {
		actorID = caller.ID
	}
	s.audit.Record(domain.AuditEntry{
		ActorID:   actorID,
		Action:    action,
		TargetID:  targetID,
		Decision:  decision,
		CreatedAt: time.Now().UTC(),
	})
}
