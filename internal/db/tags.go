package db

import (
	"context"
	"database/sql"

	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/paging"
)

const tagColumns = `g.id, g.name, g.color, g.created_at, g.updated_at`

// ListTags returns a page of tags ordered by name, case-insensitively
func (q *Queries) ListTags(ctx context.Context, f model.TagFilter, r paging.Request) ([]model.Tag, int, error) {
	w := &where{}
	w.contains("g.name", f.Search)

	total, err := q.count(ctx, "tags g", w)
	if err != nil {
		return nil, 0, err
	}

	rows, err := q.q.QueryContext(ctx, `
		SELECT `+tagColumns+`
		FROM tags g`+w.String()+`
		ORDER BY g.name COLLATE NOCASE ASC, g.id ASC
		LIMIT ? OFFSET ?
	`, pageArgs(w, r)...)
	if err != nil {
		return nil, 0, err
	}

	tags, err := scanTags(rows)
	return tags, total, err
}

// FindTag returns a single tag by ID
func (q *Queries) FindTag(ctx context.Context, id int64) (*model.Tag, error) {
	row := q.q.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags g WHERE g.id = ?`, id)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// FindTagByName returns the tag with exactly this name
func (q *Queries) FindTagByName(ctx context.Context, name string) (*model.Tag, error) {
	row := q.q.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags g WHERE g.name = ?`, name)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// TagNameTaken reports whether another tag already uses name. The tag with
// id excludeID is ignored so that a tag never conflicts with itself.
func (q *Queries) TagNameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var n int
	err := q.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags WHERE name = ? AND id != ?`, name, excludeID).Scan(&n)
	return n > 0, err
}

// CreateTag creates a new tag. A duplicate name yields ErrDuplicate.
func (q *Queries) CreateTag(ctx context.Context, in model.NewTag) (*model.Tag, error) {
	ts := now()

	res, err := q.q.ExecContext(ctx, `
		INSERT INTO tags (name, color, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, in.Name, in.Color, ts, ts)
	if err != nil {
		return nil, translate(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &model.Tag{
		ID:        id,
		Name:      in.Name,
		Color:     in.Color,
		CreatedAt: ts,
		UpdatedAt: ts,
	}, nil
}

// UpdateTag applies the fields present in patch
func (q *Queries) UpdateTag(ctx context.Context, id int64, patch model.TagPatch) (*model.Tag, error) {
	s := &setter{}
	if patch.Name != nil {
		s.set("name", *patch.Name)
	}
	if patch.Color.IsSet() {
		s.set("color", patch.Color.Ptr())
	}

	query, args := s.build("tags", id)
	res, err := q.q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	if ok, err := affected(res); err != nil || !ok {
		return nil, err
	}

	return q.FindTag(ctx, id)
}

// DeleteTag detaches the tag from every task and deletes it. No task is
// deleted.
func (q *Queries) DeleteTag(ctx context.Context, id int64) (bool, error) {
	if _, err := q.q.ExecContext(ctx, `DELETE FROM task_tags WHERE tag_id = ?`, id); err != nil {
		return false, err
	}

	res, err := q.q.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// scanTags drains and closes rows
func scanTags(rows *sql.Rows) ([]model.Tag, error) {
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *t)
	}
	return tags, rows.Err()
}

func scanTag(s scanner) (*model.Tag, error) {
	var t model.Tag
	if err := s.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
