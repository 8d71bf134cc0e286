package model

import (
	"time"
)

// Status represents the current state of a task
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Priority represents task priority level
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a unit of work inside a project
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ProjectID   int64      `json:"project_id"`
	AssigneeID  *int64     `json:"assignee_id,omitempty"`
	AuthorID    int64      `json:"author_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Loaded relationships (not stored in tasks table)
	Tags     []Tag     `json:"tags,omitempty"`
	Comments []Comment `json:"comments,omitempty"`
}

// IsOverdue returns true if the task is past its due date
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusDone {
		return false
	}
	return now.After(*t.DueDate)
}

// IsAssignedTo returns true if the actor is the task's assignee
func (t *Task) IsAssignedTo(actorID int64) bool {
	return t.AssigneeID != nil && *t.AssigneeID == actorID
}

// HasTag returns true if the loaded tags contain tagID
func (t *Task) HasTag(tagID int64) bool {
	for _, tag := range t.Tags {
		if tag.ID == tagID {
			return true
		}
	}
	return false
}

// NewTask holds the fields for creating a task. Empty Status and Priority
// fall back to TODO and MEDIUM.
type NewTask struct {
	ProjectID   int64
	Title       string
	Description *string
	Status      Status
	Priority    Priority
	DueDate     *time.Time
	AssigneeID  *int64
}

// TaskPatch is a partial update. ProjectID is immutable and has no field here.
type TaskPatch struct {
	Title       *string
	Description Optional[string]
	Status      *Status
	Priority    *Priority
	DueDate     Optional[time.Time]
	AssigneeID  Optional[int64]
}

type TaskFilter struct {
	ProjectID  *int64
	Status     *Status
	Priority   *Priority
	AssigneeID *int64
	AuthorID   *int64
	TagID      *int64
	Search     string // case-insensitive substring of title
	DueBefore  *time.Time
}
