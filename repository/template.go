package repository

import (
	"context"
	"time"

	"github.com/fastygo/contracts/domain"
)

type TemplateFilter struct {
	ScopeID string
	Search  string
	Limit   int
	Offset  int
}

type TemplateRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Template, error)
	List(ctx context.Context, filter TemplateFilter) ([]domain.Template, error)
	Create(ctx context.Context, template *domain.Template) error
	Update(ctx context.Context, template *domain.Template) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	// NameTaken reports whether another live template in the same scope uses
	// name. excludeID skips the template being edited.
	NameTaken(ctx context.Context, scopeID *string, name, excludeID string) (bool, error)
}
