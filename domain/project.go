package domain

import "time"

// Project is the commercial engagement a contract belongs to.
type Project struct {
	ID                string     `json:"id"`
	CustomerID        string     `json:"customer_id"`
	Name              string     `json:"name"`
	Description       string     `json:"description,omitempty"`
	Status            string     `json:"status"`
	Stage             string     `json:"stage,omitempty"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	HasSignedContract bool       `json:"has_signed_contract" placeholder:"-"`
	MemberIDs         []string   `json:"member_ids,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
