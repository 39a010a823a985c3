package notifier

import (
	"context"
	"encoding/json"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/internal/infrastructure/outbox"
	"github.com/fastygo/contracts/usecase"
)

// Bridge adapts the Processor to the use case Notifier port.
type Bridge struct {
	processor *Processor
}

func NewBridge(processor *Processor) *Bridge {
	return &Bridge{processor: processor}
}

func (b *Bridge) Notify(_ context.Context, notification domain.Notification) error {
	if b.processor == nil || len(notification.RecipientIDs) == 0 {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	return b.processor.Enqueue(outbox.Message{
		Kind:       outbox.KindNotification,
		ContractID: contractID(notification.EntityType, notification.EntityID),
		Data:       payload,
		Priority:   3,
	})
}

func (b *Bridge) Track(_ context.Context, update domain.TrackingUpdate) error {
	if b.processor == nil || update.Stage == "" {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return b.processor.Enqueue(outbox.Message{
		Kind:       outbox.KindTracking,
		ContractID: update.Metadata["contract_id"],
		Data:       payload,
		Priority:   4,
	})
}

func contractID(entityType, entityID string) string {
	if entityType != "contract" {
		return ""
	}
	return entityID
}

var _ usecase.Notifier = (*Bridge)(nil)
