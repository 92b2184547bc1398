package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/openbiz/directory-api/internal/core/access"
	"github.com/openbiz/directory-api/internal/core/domain"
	"github.com/openbiz/directory-api/internal/core/ports"
)

// UserService implements account queries and self-or-admin mutations.
type UserService struct {
	repo  ports.UserRepository
	audit ports.AuditRecorder
	log   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, audit ports.AuditRecorder, log zerolog.Logger) *UserService {
	if audit == nil {
		audit = ports.NopRecorder{}
	}
	return &UserService{repo: repo, audit: audit, log: log}
}

func (s *UserService) FindAll(ctx context.Context) ([]*domain.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *UserService) FindOne(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies a partial profile update. Existence is checked before
// ownership, so probing a missing id yields NotFound, not Forbidden. An email
// change re-checks uniqueness against the rest of the table first.
func (s *UserService) Update(ctx context.Context, caller *domain.Identity, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	req := access.OwnerOr(user.ID, domain.RoleAdmin)
	if err := access.Check(caller, req); err != nil {
		s.recordDecision(caller, domain.AuditUpdateUser, in.ID, "deny")
		return nil, err
	}

	if in.Email != nil && *in.Email != user.Email {
		existing, err := s.repo.FindByEmail(ctx, *in.Email)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrEmailInUse
		}
		user.Email = *in.Email
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.ReserveServiceDescription != nil {
		user.ReserveServiceDescription = *in.ReserveServiceDescription
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.recordDecision(caller, domain.AuditUpdateUser, in.ID, "allow")
	return user, nil
}

// Remove deletes the account together with every business it owns. The
// cascade runs inside one storage transaction in the repository, so a crash
// cannot leave listings pointing at a deleted owner.
func (s *UserService) Remove(ctx context.Context, caller *domain.Identity, id string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := access.Check(caller, access.OwnerOr(user.ID, domain.RoleAdmin)); err != nil {
		s.recordDecision(caller, domain.AuditDeleteUser, id, "deny")
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("user_id", id).Str("actor_id", caller.ID).Msg("user deleted")
	s.recordDecision(caller, domain.AuditDeleteUser, id, "allow")
	return nil
}

func (s *UserService) recordDecision(caller *domain.Identity, action, targetID, decision string) {
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
