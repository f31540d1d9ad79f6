package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devforge/auth-service/internal/core/ports"
)

const auditCollection = "auth_audit"

// AuditRepository persists authentication audit events. Events are written by
// the dispatcher workers, never on the request path.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	Username string `bson:"username"`
	Action   string `bson:"action"`
	Outcome  string `bson:"outcome"`
	RemoteIP string `bson:"remote_ip,omitempty"`
	At       int64  `bson:"at"`
}

func (r *AuditRepository) Record(ctx context.Context, event ports.AuditEvent) error {
	doc := mongoAuditEvent{
		Username: event.Username,
		Action:   event.Action,
		Outcome:  event.Outcome,
		RemoteIP: event.RemoteIP,
		At:       event.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
