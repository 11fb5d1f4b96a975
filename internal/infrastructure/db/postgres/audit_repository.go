package postgres

import (
	"context"
	"fmt"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
)

// AuditRepository appends lifecycle transitions to the request history trail.
type AuditRepository struct {
	db DB
}

func NewAuditRepository(db DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) InsertChange(ctx context.Context, change *domain.StatusChange) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO request_history (request_id, from_status, to_status, actor_role, actor_id, notes, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		change.RequestID, change.From, change.To, change.ActorRole, change.ActorID, change.Notes, change.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}
