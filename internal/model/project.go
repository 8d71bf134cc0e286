package model

import (
	"time"
)

// Project groups tasks and has exactly one owner.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Computed fields (not stored)
	TaskCount int `json:"task_count,omitempty"`

	// Loaded relationships
	Tasks []Task `json:"tasks,omitempty"`
}

// IsOwnedBy returns true if the actor owns the project
func (p *Project) IsOwnedBy(actorID int64) bool {
	return p.OwnerID == actorID
}

// NewProject holds the fields for creating a project. The owner is the actor.
type NewProject struct {
	Name        string
	Description *string
}

// ProjectPatch is a partial update. Nil fields are left unchanged.
type ProjectPatch struct {
	Name        *string
	Description Optional[string]
}

// ProjectFilter narrows a project listing
type ProjectFilter struct {
	OwnerID *int64
	Search  string // case-insensitive substring of name
}
