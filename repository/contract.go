package repository

import (
	"context"
	"time"

	"github.com/fastygo/contracts/domain"
)

type ContractFilter struct {
	ProjectID          string
	CustomerID         string
	CollaboratorUserID string
	Status             domain.ContractStatus
	Limit              int
	Offset             int
}

// ContractRepository never returns soft-deleted rows.
type ContractRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Contract, error)
	// GetForUpdate row-locks the contract for the running transaction.
	GetForUpdate(ctx context.Context, id string) (*domain.Contract, error)
	GetByExternalDocumentID(ctx context.Context, documentID string) (*domain.Contract, error)
	List(ctx context.Context, filter ContractFilter) ([]domain.Contract, error)
	Create(ctx context.Context, contract *domain.Contract) error
	Update(ctx context.Context, contract *domain.Contract) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	CountSigned(ctx context.Context, projectID string) (int, error)
}

// ContractEventRepository stores the contract audit trail.
type ContractEventRepository interface {
	Append(ctx context.Context, event domain.ContractEvent) error
}
