package contract

import (
	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/internal/htmltable"
	"github.com/fastygo/contracts/internal/placeholder"
	"github.com/fastygo/contracts/internal/schedule"
)

// PaymentTerms are the optional inputs of the payment schedule.
type PaymentTerms struct {
	MonthlyValue    *float64 `json:"monthly_value,omitempty"`
	MonthsCount     *int     `json:"months_count,omitempty"`
	FirstPaymentDay *string  `json:"first_payment_day,omitempty"`
}

func (p PaymentTerms) present() bool {
	return p.MonthlyValue != nil || p.MonthsCount != nil || p.FirstPaymentDay != nil
}

// Parties names the entities a contract is bound to.
type Parties struct {
	ProjectID          *string `json:"project_id,omitempty"`
	CustomerID         *string `json:"customer_id,omitempty"`
	CollaboratorUserID *string `json:"collaborator_user_id,omitempty"`
	ScopeID            *string `json:"scope_id,omitempty"`
}

// CreateInput describes a new contract.
type CreateInput struct {
	Title      string            `json:"title"`
	TemplateID string            `json:"template_id"`
	Variables  map[string]string `json:"variables,omitempty"`
	CreatedBy  string            `json:"-"`
	Parties
	PaymentTerms
}

// UpdateInput changes a contract. Nil fields keep the stored value; a pointer
// to an empty id clears an optional link.
type UpdateInput struct {
	Title        *string           `json:"title,omitempty"`
	TemplateID   *string           `json:"template_id,omitempty"`
	Variables    map[string]string `json:"variables,omitempty"`
	ContractHTML *string           `json:"contract_html,omitempty"`
	ActorID      string            `json:"-"`
	Parties
	PaymentTerms
}

// Rendition is the output of the render pipeline.
type Rendition struct {
	HTML         string                 `json:"html"`
	TemplateHTML string                 `json:"-"`
	ScopeHTML    *string                `json:"-"`
	Variables    placeholder.Variables  `json:"variables"`
	Unresolved   []string               `json:"unresolved_placeholders"`
	Installments []schedule.Installment `json:"installments,omitempty"`
	TierPriced   bool                   `json:"tier_priced"`
	Pricing      *htmltable.Report      `json:"pricing,omitempty"`
}

// renderRequest is everything the pipeline reads.
type renderRequest struct {
	templateID string
	parties    Parties
	overrides  map[string]string
	terms      PaymentTerms
	contract   *domain.Contract
	manualHTML *string
}
