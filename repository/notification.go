package repository

import (
	"context"

	"github.com/fastygo/contracts/domain"
)

// NotificationRepository persists in-app notifications, one row per recipient.
type NotificationRepository interface {
	CreateMany(ctx context.Context, notification domain.Notification) error
}

// WebhookEventRepository deduplicates provider callbacks.
type WebhookEventRepository interface {
	// MarkProcessed returns false when the event id was already seen.
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

// Transactor runs fn in a database transaction carried by the context.
// Nested calls join the outer transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
