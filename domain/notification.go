package domain

import "time"

// Notification is an in-app message for a set of recipients.
type Notification struct {
	Title        string   `json:"title"`
	Body         string   `json:"body"`
	EntityType   string   `json:"entity_type"`
	EntityID     string   `json:"entity_id"`
	RecipientIDs []string `json:"recipient_ids"`
}

// TrackingUpdate informs the customer-facing tracking channel that a project
// or customer reached a stage.
type TrackingUpdate struct {
	ProjectID  string            `json:"project_id,omitempty"`
	CustomerID string            `json:"customer_id,omitempty"`
	Stage      string            `json:"stage"`
	Message    string            `json:"message,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
