// Package contract renders contract documents from templates and drives their
// draft, final, signed and canceled lifecycle.
package contract

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/internal/htmltable"
	"github.com/fastygo/contracts/internal/pricing"
	"github.com/fastygo/contracts/repository"
	"github.com/fastygo/contracts/usecase"
)

// DocumentRenderer prints contract HTML to PDF.
type DocumentRenderer interface {
	RenderPDF(ctx context.Context, title, html string) ([]byte, error)
}

// Repositories groups the persistence ports used by the engine.
type Repositories struct {
	Contracts repository.ContractRepository
	Events    repository.ContractEventRepository
	Templates repository.TemplateRepository
	Projects  repository.ProjectRepository
	Customers repository.CustomerRepository
	Scopes    repository.ScopeRepository
	Users     repository.UserRepository
	Tx        repository.Transactor
}

// Options tunes rendering. Zero values fall back to defaults.
type Options struct {
	Tiers        pricing.Table
	Labels       htmltable.Labels
	TierKeywords []string
	Renderer     DocumentRenderer
	Now          func() time.Time
}

type UseCase struct {
	repos    Repositories
	notifier usecase.Notifier
	renderer DocumentRenderer
	mutator  *htmltable.Mutator
	keywords []string
	now      func() time.Time
	logger   *zap.Logger
}

func New(repos Repositories, notifier usecase.Notifier, logger *zap.Logger, opts Options) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if len(opts.TierKeywords) == 0 {
		opts.TierKeywords = pricing.DefaultKeywords
	}
	return &UseCase{
		repos:    repos,
		notifier: notifier,
		renderer: opts.Renderer,
		mutator:  htmltable.New(opts.Tiers, opts.Labels),
		keywords: opts.TierKeywords,
		now:      opts.Now,
		logger:   logger,
	}
}

// GetContract returns a live contract.
func (uc *UseCase) GetContract(ctx context.Context, id string) (*domain.Contract, error) {
	if id == "" {
		return nil, domain.ErrContractNotFound
	}
	return uc.repos.Contracts.GetByID(ctx, id)
}

// ListContracts filters live contracts.
func (uc *UseCase) ListContracts(ctx context.Context, filter repository.ContractFilter) ([]domain.Contract, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	return uc.repos.Contracts.List(ctx, filter)
}

// RenderPDF prints the current contract HTML.
func (uc *UseCase) RenderPDF(ctx context.Context, id string) ([]byte, *domain.Contract, error) {
	if uc.renderer == nil {
		return nil, nil, domain.NewError(domain.ErrCodeInternal, "pdf renderer not configured")
	}
	c, err := uc.GetContract(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	title := c.Title
	if title == "" {
		title = "Contrato " + c.ID
	}
	data, err := uc.renderer.RenderPDF(ctx, title, c.ContractHTML)
	if err != nil {
		return nil, nil, domain.WrapError(domain.ErrCodeInternal, "pdf rendering failed", err)
	}
	return data, c, nil
}

func (uc *UseCase) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if uc.repos.Tx == nil {
		return fn(ctx)
	}
	return uc.repos.Tx.WithinTx(ctx, fn)
}
