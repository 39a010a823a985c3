package contract

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/internal/htmltable"
	"github.com/fastygo/contracts/internal/placeholder"
	"github.com/fastygo/contracts/internal/pricing"
	"github.com/fastygo/contracts/internal/schedule"
	"github.com/fastygo/contracts/internal/variables"
)

// PreviewInput renders without persisting.
type PreviewInput struct {
	TemplateID string            `json:"template_id"`
	Variables  map[string]string `json:"variables,omitempty"`
	Parties
	PaymentTerms
}

// Preview runs the render pipeline and returns the result.
func (uc *UseCase) Preview(ctx context.Context, in PreviewInput) (*Rendition, error) {
	if strings.TrimSpace(in.TemplateID) == "" {
		return nil, domain.ErrInvalidPayload.WithDetail("field", "template_id")
	}
	return uc.render(ctx, renderRequest{
		templateID: in.TemplateID,
		parties:    in.Parties,
		overrides:  in.Variables,
		terms:      in.PaymentTerms,
	})
}

type related struct {
	template     *domain.Template
	project      *domain.Project
	customer     *domain.Customer
	collaborator *domain.User
	scope        *domain.Scope
}

func (uc *UseCase) load(ctx context.Context, req renderRequest) (*related, error) {
	p := req.parties
	hasCollaborator := domain.StringValue(p.CollaboratorUserID) != ""
	hasProjectCustomer := domain.StringValue(p.ProjectID) != "" && domain.StringValue(p.CustomerID) != ""
	if !hasCollaborator && !hasProjectCustomer {
		return nil, domain.ErrMissingParty
	}

	var out related
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tpl, err := uc.repos.Templates.GetByID(gctx, req.templateID)
		out.template = tpl
		return err
	})
	if id := domain.StringValue(p.ProjectID); id != "" {
		g.Go(func() error {
			project, err := uc.repos.Projects.GetByID(gctx, id)
			out.project = project
			return err
		})
	}
	if id := domain.StringValue(p.CustomerID); id != "" {
		g.Go(func() error {
			customer, err := uc.repos.Customers.GetByID(gctx, id)
			out.customer = customer
			return err
		})
	}
	if id := domain.StringValue(p.CollaboratorUserID); id != "" {
		g.Go(func() error {
			user, err := uc.repos.Users.GetByID(gctx, id)
			out.collaborator = user
			return err
		})
	}
	if id := domain.StringValue(p.ScopeID); id != "" {
		g.Go(func() error {
			scope, err := uc.repos.Scopes.GetByID(gctx, id)
			out.scope = scope
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if out.scope != nil && out.project != nil && out.scope.ProjectID != out.project.ID {
		return nil, domain.ErrScopeProjectMismatch.WithDetail("scope_id", out.scope.ID)
	}
	return &out, nil
}

// render loads the related entities, builds the variables, substitutes
// placeholders, applies tier pricing and recomputes the unresolved keys.
func (uc *UseCase) render(ctx context.Context, req renderRequest) (*Rendition, error) {
	rel, err := uc.load(ctx, req)
	if err != nil {
		return nil, err
	}

	today := uc.now()
	input := variables.Input{
		Customer:        rel.customer,
		Project:         rel.project,
		Scope:           rel.scope,
		Collaborator:    rel.collaborator,
		Contract:        req.contract,
		MonthlyValue:    req.terms.MonthlyValue,
		MonthsCount:     req.terms.MonthsCount,
		FirstPaymentDay: req.terms.FirstPaymentDay,
		Today:           today,
	}
	vars := placeholder.Merge(variables.Build(input), req.overrides)

	out := &Rendition{
		TemplateHTML: rel.template.HTML,
		Variables:    vars,
		TierPriced:   pricing.IsTierPriced(rel.template.Name, rel.template.Description, uc.keywords),
	}
	if rel.scope != nil {
		scopeHTML := rel.scope.HTML
		out.ScopeHTML = &scopeHTML
	}

	source := rel.template.HTML
	if req.manualHTML != nil {
		source = *req.manualHTML
	}
	out.HTML = placeholder.Render(source, vars)

	if out.TierPriced && req.manualHTML == nil && req.terms.present() {
		if req.terms.MonthsCount != nil && req.terms.FirstPaymentDay != nil {
			out.Installments = schedule.Plan(req.terms.FirstPaymentDay, *req.terms.MonthsCount, today)
		}
		html, report := uc.mutator.Apply(out.HTML, htmltable.Input{
			MonthlyValue: req.terms.MonthlyValue,
			Installments: schedule.Labels(out.Installments),
		})
		out.HTML = html
		out.Pricing = &report
	}

	out.Unresolved = placeholder.Keys(out.HTML)
	if !variables.HasPerson(input) {
		out.Unresolved = placeholder.Without(out.Unresolved, variables.PersonPrefix+"_")
	}
	if len(out.Unresolved) == 0 {
		out.Unresolved = nil
	}

	uc.logger.Debug("contract rendered",
		zap.String("template_id", req.templateID),
		zap.Bool("tier_priced", out.TierPriced),
		zap.Int("unresolved", len(out.Unresolved)),
	)
	return out, nil
}
