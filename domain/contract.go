package domain

import "time"

// ContractStatus is the lifecycle state of a contract document.
type ContractStatus string

const (
	ContractDraft    ContractStatus = "draft"
	ContractFinal    ContractStatus = "final"
	ContractSigned   ContractStatus = "signed"
	ContractCanceled ContractStatus = "canceled"
)

// Valid reports whether s is a known status.
func (s ContractStatus) Valid() bool {
	switch s {
	case ContractDraft, ContractFinal, ContractSigned, ContractCanceled:
		return true
	}
	return false
}

// Terminal reports whether the status blocks content changes.
func (s ContractStatus) Terminal() bool {
	return s == ContractSigned || s == ContractCanceled
}

// CanTransitionTo encodes draft -> final -> signed with canceled reachable
// from draft or final.
func (s ContractStatus) CanTransitionTo(next ContractStatus) bool {
	switch s {
	case ContractDraft:
		return next == ContractFinal || next == ContractCanceled
	case ContractFinal:
		return next == ContractSigned || next == ContractCanceled
	}
	return false
}

// Contract is a rendered legal document bound to a template.
type Contract struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title,omitempty"`
	ProjectID          *string `json:"project_id,omitempty"`
	CustomerID         *string `json:"customer_id,omitempty"`
	CollaboratorUserID *string `json:"collaborator_user_id,omitempty"`
	TemplateID         string  `json:"template_id"`
	ScopeID            *string `json:"scope_id,omitempty"`
	CreatedBy          string  `json:"created_by"`

	Status                      ContractStatus `json:"status"`
	IsLocked                    bool           `json:"is_locked"`
	ExternalSignatureDocumentID *string        `json:"external_signature_document_id,omitempty" placeholder:"-"`

	TemplateHTMLSnapshot   string            `json:"template_html_snapshot" placeholder:"-"`
	ScopeHTMLSnapshot      *string           `json:"scope_html_snapshot,omitempty" placeholder:"-"`
	ContractHTML           string            `json:"contract_html" placeholder:"-"`
	Variables              map[string]string `json:"variables,omitempty"`
	UnresolvedPlaceholders []string          `json:"unresolved_placeholders,omitempty"`

	MonthlyValue    *float64 `json:"monthly_value,omitempty"`
	MonthsCount     *int     `json:"months_count,omitempty"`
	FirstPaymentDay *string  `json:"first_payment_day,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Editable reports whether content fields may change.
func (c *Contract) Editable() error {
	if c == nil {
		return ErrContractNotFound
	}
	switch {
	case c.Status == ContractSigned:
		return ErrContractSigned
	case c.Status == ContractCanceled:
		return ErrContractCanceled
	case c.IsLocked:
		return ErrContractLocked
	}
	return nil
}

// HasParty reports whether the contract names a project+customer pair or a
// collaborator.
func (c *Contract) HasParty() bool {
	if c == nil {
		return false
	}
	if c.CollaboratorUserID != nil && *c.CollaboratorUserID != "" {
		return true
	}
	return c.ProjectID != nil && *c.ProjectID != "" && c.CustomerID != nil && *c.CustomerID != ""
}

func (c *Contract) Touch() {
	if c == nil {
		return
	}
	c.UpdatedAt = time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = c.UpdatedAt
	}
}

// StringValue dereferences optional identifiers.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns nil for empty strings.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
