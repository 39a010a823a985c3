package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message kinds handled by the notification worker.
const (
	KindNotification = "notification"
	KindTracking     = "tracking"
)

// Message is a side effect scheduled after a contract transaction commits.
type Message struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	ContractID string          `json:"contract_id,omitempty"`
	Data       json.RawMessage `json:"data"`
	Priority   int             `json:"priority"`
	Attempts   int             `json:"attempts"`
	LastError  string          `json:"last_error,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (m *Message) normalize() {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Priority <= 0 || m.Priority > 5 {
		m.Priority = 3
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
}
