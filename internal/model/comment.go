package model

import (
	"time"
)

// Comment belongs to exactly one task
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	TaskID    int64     `json:"task_id"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NewComment struct {
	TaskID  int64
	Content string
}

type CommentFilter struct {
	TaskID   *int64
	AuthorID *int64
}
