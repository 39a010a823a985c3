package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/repository"
)

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository returns a Postgres-backed NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) repository.NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) CreateMany(ctx context.Context, n domain.Notification) error {
	if len(n.RecipientIDs) == 0 {
		return nil
	}

	const query = `
	INSERT INTO notifications (id, recipient_id, title, body, entity_type, entity_id)
	VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	seen := make(map[string]struct{}, len(n.RecipientIDs))
	for _, recipient := range n.RecipientIDs {
		if _, ok := seen[recipient]; ok || recipient == "" {
			continue
		}
		seen[recipient] = struct{}{}
		batch.Queue(query, uuid.NewString(), recipient, n.Title, n.Body, n.EntityType, n.EntityID)
	}

	results := r.pool.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return err
		}
	}
	return results.Close()
}
