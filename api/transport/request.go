package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// PaymentDay accepts the first payment anchor as a JSON number (day of
// month) or a string (YYYY-MM-DD, DD/MM/YY, DD/MM/YYYY or digits).
type PaymentDay string

func (p *PaymentDay) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PaymentDay(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("first_payment_day: want number or string")
	}
	*p = PaymentDay(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

// Ptr returns the value as an optional string.
func (p *PaymentDay) Ptr() *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}

// ContractRequest is the body of create and preview calls.
type ContractRequest struct {
	Title              string            `json:"title"`
	TemplateID         string            `json:"template_id"`
	Variables          map[string]string `json:"variables"`
	ProjectID          *string           `json:"project_id"`
	CustomerID         *string           `json:"customer_id"`
	CollaboratorUserID *string           `json:"collaborator_user_id"`
	ScopeID            *string           `json:"scope_id"`
	MonthlyValue       *float64          `json:"monthly_value"`
	MonthsCount        *int              `json:"months_count"`
	FirstPaymentDay    *PaymentDay       `json:"first_payment_day"`
}

// ContractUpdateRequest changes a contract. Omitted fields are kept.
type ContractUpdateRequest struct {
	Title              *string           `json:"title"`
	TemplateID         *string           `json:"template_id"`
	Variables          map[string]string `json:"variables"`
	ContractHTML       *string           `json:"contract_html"`
	ProjectID          *string           `json:"project_id"`
	CustomerID         *string           `json:"customer_id"`
	CollaboratorUserID *string           `json:"collaborator_user_id"`
	ScopeID            *string           `json:"scope_id"`
	MonthlyValue       *float64          `json:"monthly_value"`
	MonthsCount        *int              `json:"months_count"`
	FirstPaymentDay    *PaymentDay       `json:"first_payment_day"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type SignatureDocumentRequest struct {
	DocumentID string `json:"document_id"`
}

type TemplateRequest struct {
	ScopeID     *string `json:"scope_id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	HTML        *string `json:"html"`
}
