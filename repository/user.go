package repository

import (
	"context"

	"github.com/fastygo/contracts/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// ListAdminIDs returns active users notified about contract changes.
	ListAdminIDs(ctx context.Context) ([]string, error)
}
