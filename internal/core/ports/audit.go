package ports

import (
	"context"

	"github.com/openbiz/directory-api/internal/core/domain"
)

// AuditRecorder accepts audit entries for asynchronous persistence. Record
// must not block the request path beyond queueing.
type AuditRecorder interface {
	Record(e domain.AuditEntry)
}

// AuditService persists a single audit entry.
type AuditService interface {
	Process(ctx context.Context, e domain.AuditEntry) error
}

// AuditRepository defines persistence for the audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, e *domain.AuditEntry) error
}

// NopRecorder discards audit entries. Used where auditing is not wired.
type NopRecorder struct{}

func (NopRecorder) Record(domain.AuditEntry) {}
