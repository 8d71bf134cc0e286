package model

import (
	"time"
)

// Tag is a global label that can be attached to many tasks
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayColor returns the color or "-" when unset
func (t *Tag) DisplayColor() string {
	if t.Color == nil {
		return "-"
	}
	return *t.Color
}

type NewTag struct {
	Name  string
	Color *string
}

type TagPatch struct {
	Name  *string
	Color Optional[string]
}

type TagFilter struct {
	Search string
}
