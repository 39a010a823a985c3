// Package template manages the reusable contract templates.
package template

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/internal/placeholder"
	"github.com/fastygo/contracts/internal/pricing"
	"github.com/fastygo/contracts/repository"
)

// Input carries the editable template fields. Nil pointers keep the stored
// value on update.
type Input struct {
	ScopeID     *string `json:"scope_id,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	HTML        *string `json:"html,omitempty"`
}

// View decorates a template with derived facts used by editors.
type View struct {
	domain.Template
	TierPriced   bool     `json:"tier_priced"`
	Placeholders []string `json:"placeholders"`
}

type UseCase struct {
	templates repository.TemplateRepository
	keywords  []string
	now       func() time.Time
	logger    *zap.Logger
}

func New(templates repository.TemplateRepository, keywords []string, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(keywords) == 0 {
		keywords = pricing.DefaultKeywords
	}
	return &UseCase{
		templates: templates,
		keywords:  keywords,
		now:       time.Now,
		logger:    logger,
	}
}

func (uc *UseCase) view(t *domain.Template) *View {
	return &View{
		Template:     *t,
		TierPriced:   pricing.IsTierPriced(t.Name, t.Description, uc.keywords),
		Placeholders: placeholder.Keys(t.HTML),
	}
}

func (uc *UseCase) GetTemplate(ctx context.Context, id string) (*View, error) {
	t, err := uc.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.view(t), nil
}

func (uc *UseCase) ListTemplates(ctx context.Context, filter repository.TemplateFilter) ([]View, error) {
	items, err := uc.templates.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(items))
	for i := range items {
		out = append(out, *uc.view(&items[i]))
	}
	return out, nil
}

func (uc *UseCase) CreateTemplate(ctx context.Context, in Input) (*View, error) {
	t := &domain.Template{ScopeID: cleanID(in.ScopeID)}
	if in.Name != nil {
		t.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.HTML != nil {
		t.HTML = *in.HTML
	}
	if err := validate(t); err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueName(ctx, t, ""); err != nil {
		return nil, err
	}
	if err := uc.templates.Create(ctx, t); err != nil {
		return nil, err
	}
	uc.logger.Info("template created", zap.String("template_id", t.ID), zap.String("name", t.Name))
	return uc.view(t), nil
}

func (uc *UseCase) UpdateTemplate(ctx context.Context, id string, in Input) (*View, error) {
	t, err := uc.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	renamed := false
	if in.ScopeID != nil {
		t.ScopeID = cleanID(in.ScopeID)
		renamed = true
	}
	if in.Name != nil {
		t.Name = strings.TrimSpace(*in.Name)
		renamed = true
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.HTML != nil {
		t.HTML = *in.HTML
	}
	if err := validate(t); err != nil {
		return nil, err
	}
	if renamed {
		if err := uc.ensureUniqueName(ctx, t, t.ID); err != nil {
			return nil, err
		}
	}
	if err := uc.templates.Update(ctx, t); err != nil {
		return nil, err
	}
	uc.logger.Info("template updated", zap.String("template_id", t.ID))
	return uc.view(t), nil
}

// DeleteTemplate soft-deletes a template. Contracts keep their snapshots.
func (uc *UseCase) DeleteTemplate(ctx context.Context, id string) error {
	if err := uc.templates.SoftDelete(ctx, id, uc.now()); err != nil {
		return err
	}
	uc.logger.Info("template deleted", zap.String("template_id", id))
	return nil
}

func (uc *UseCase) ensureUniqueName(ctx context.Context, t *domain.Template, excludeID string) error {
	taken, err := uc.templates.NameTaken(ctx, t.ScopeID, t.Name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrTemplateNameConflict.WithDetail("name", t.Name)
	}
	return nil
}

func validate(t *domain.Template) error {
	if t.Name == "" {
		return domain.ErrInvalidPayload.WithDetail("field", "name")
	}
	if strings.TrimSpace(t.HTML) == "" {
		return domain.ErrInvalidPayload.WithDetail("field", "html")
	}
	return nil
}

func cleanID(id *string) *string {
	if id == nil {
		return nil
	}
	return domain.StringPtr(strings.TrimSpace(*id))
}
