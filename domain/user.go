package domain

import "time"

const (
	RoleAdmin      = "admin"
	UserStatusLive = "active"
)

// User is an authenticated platform account. Named as a contract
// collaborator, the user is the contracting party and their profile feeds
// the COLLABORATOR_* placeholders.
type User struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email,omitempty"`
	TaxID     string            `json:"tax_id,omitempty"`
	Phone     string            `json:"phone,omitempty"`
	Role      string            `json:"role"`
	Status    string            `json:"status" placeholder:"-"`
	Address   *Address          `json:"address,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at" placeholder:"-"`
	UpdatedAt time.Time         `json:"updated_at" placeholder:"-"`
}

func (u *User) IsActive() bool {
	return u != nil && u.Status == UserStatusLive
}

// IsAdmin reports whether u receives signature notifications for every
// contract.
func (u *User) IsAdmin() bool {
	return u.IsActive() && u.Role == RoleAdmin
}
