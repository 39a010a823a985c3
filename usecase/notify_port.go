package usecase

import (
	"context"

	"github.com/fastygo/contracts/domain"
)

// Notifier hands post-commit side effects to the notification worker so use
// cases stay transport-agnostic. Implementations must not block on delivery.
type Notifier interface {
	Notify(ctx context.Context, notification domain.Notification) error
	Track(ctx context.Context, update domain.TrackingUpdate) error
}
