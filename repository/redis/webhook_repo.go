package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/repository"
)

type webhookEventRepository struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewWebhookEventRepository creates a Redis-backed webhook deduplication store.
func NewWebhookEventRepository(client *redislib.Client, ttl time.Duration) repository.WebhookEventRepository {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &webhookEventRepository{
		client: client,
		prefix: "webhook:signature:",
		ttl:    ttl,
	}
}

func (r *webhookEventRepository) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, domain.ErrInvalidPayload
	}
	return r.client.SetNX(ctx, r.key(eventID), time.Now().UTC().Format(time.RFC3339), r.ttl).Result()
}

func (r *webhookEventRepository) Forget(ctx context.Context, eventID string) error {
	return r.client.Del(ctx, r.key(eventID)).Err()
}

func (r *webhookEventRepository) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}
