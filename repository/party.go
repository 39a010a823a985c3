package repository

import (
	"context"

	"github.com/fastygo/contracts/domain"
)

type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	SetHasSignedContract(ctx context.Context, id string, value bool) error
}

type CustomerRepository interface {
	// GetByID loads the customer with its person or company record, addresses
	// and linked people.
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	// ActivateCascade activates the customer and, for companies, every linked
	// person customer. It returns the ids whose status changed.
	ActivateCascade(ctx context.Context, id string) ([]string, error)
}

type ScopeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Scope, error)
}
