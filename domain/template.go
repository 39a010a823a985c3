package domain

import "time"

// Template is a reusable HTML document with {{KEY}} placeholders. Name is
// unique per owning scope.
type Template struct {
	ID          string     `json:"id"`
	ScopeID     *string    `json:"scope_id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	HTML        string     `json:"html" placeholder:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// Scope is a project's scope-of-work document.
type Scope struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Title     string    `json:"title"`
	Version   int       `json:"version"`
	HTML      string    `json:"html" placeholder:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
