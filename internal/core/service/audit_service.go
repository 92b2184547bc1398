package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openbiz/directory-api/internal/core/domain"
	"github.com/openbiz/directory-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists entries to the
// audit repository.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process assigns an id and persists a single audit entry.
func (s *auditService) Process(ctx context.Context, e domain.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	if err := s.repo.Insert(ctx, &e); err != nil {
		return fmt.Errorf("persist audit entry: %w", err)
	}

	s.log.Debug().
		Str("action", e.Action).
		Str("actor_id", e.ActorID).
		Str("decision", e.Decision).
		Msg("audit entry recorded")
	return nil
}
