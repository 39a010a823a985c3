package domain

import (
	"encoding/json"
	"time"
)

// Contract event names recorded in the audit trail.
const (
	EventContractCreated       = "contract.created"
	EventContractUpdated       = "contract.updated"
	EventContractStatusChanged = "contract.status_changed"
	EventContractSigned        = "contract.signed"
	EventContractLocked        = "contract.locked"
	EventContractUnlocked      = "contract.unlocked"
	EventContractDeleted       = "contract.deleted"
)

// ContractEvent represents a change applied to a contract.
type ContractEvent struct {
	ID         string            `json:"id"`
	ContractID string            `json:"contract_id"`
	Name       string            `json:"name"`
	ActorID    string            `json:"actor_id,omitempty"`
	Payload    json.RawMessage   `json:"payload,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}
