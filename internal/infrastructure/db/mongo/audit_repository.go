package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openbiz/directory-api/internal/core/domain"
)

const collectionAudit = "audit_log"

// AuditRepository persists the security audit trail. Entries are append-only.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

type auditDoc struct {
	ID        string    `bson:"_id"`
	ActorID   string    `bson:"actor_id,omitempty"`
	Action    string    `bson:"action"`
	TargetID  string    `bson:"target_id,omitempty"`
	Decision  string    `bson:"decision"`
	Detail    string    `bson:"detail,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := auditDoc{
		ID:        e.ID,
		ActorID:   e.ActorID,
		Action:    e.Action,
		TargetID:  e.TargetID,
		Decision:  e.Decision,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
