package db

import (
	"context"
	"database/sql"

	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/paging"
)

const commentColumns = `c.id, c.content, c.task_id, c.author_id, c.created_at, c.updated_at`

// ListComments returns a page of comments, newest first
func (q *Queries) ListComments(ctx context.Context, f model.CommentFilter, r paging.Request) ([]model.Comment, int, error) {
	w := &where{}
	if f.TaskID != nil {
		w.add("c.task_id = ?", *f.TaskID)
	}
	if f.AuthorID != nil {
		w.add("c.author_id = ?", *f.AuthorID)
	}

	total, err := q.count(ctx, "comments c", w)
	if err != nil {
		return nil, 0, err
	}

	rows, err := q.q.QueryContext(ctx, `
		SELECT `+commentColumns+`
		FROM comments c`+w.String()+`
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT ? OFFSET ?
	`, pageArgs(w, r)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, *c)
	}
	return comments, total, rows.Err()
}

// FindComment retrieves a comment by ID
func (q *Queries) FindComment(ctx context.Context, id int64) (*model.Comment, error) {
	row := q.q.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments c WHERE c.id = ?`, id)

	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// CreateComment creates a new comment on a task
func (q *Queries) CreateComment(ctx context.Context, in model.NewComment, authorID int64) (*model.Comment, error) {
	ts := now()

	res, err := q.q.ExecContext(ctx, `
		INSERT INTO comments (content, task_id, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, in.Content, in.TaskID, authorID, ts, ts)
	if err != nil {
		return nil, translate(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &model.Comment{
		ID:        id,
		Content:   in.Content,
		TaskID:    in.TaskID,
		AuthorID:  authorID,
		CreatedAt: ts,
		UpdatedAt: ts,
	}, nil
}

// UpdateComment replaces the content of a comment
func (q *Queries) UpdateComment(ctx context.Context, id int64, content string) (*model.Comment, error) {
	s := &setter{}
	s.set("content", content)

	query, args := s.build("comments", id)
	res, err := q.q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if ok, err := affected(res); err != nil || !ok {
		return nil, err
	}

	return q.FindComment(ctx, id)
}

// DeleteComment deletes a comment
func (q *Queries) DeleteComment(ctx context.Context, id int64) (bool, error) {
	res, err := q.q.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func scanComment(s scanner) (*model.Comment, error) {
	var c model.Comment
	if err := s.Scan(&c.ID, &c.Content, &c.TaskID, &c.AuthorID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
