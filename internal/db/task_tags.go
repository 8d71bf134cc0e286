package db

import (
	"context"

	"github.com/dori/taskhub/internal/model"
)

// The task_tags association table is managed only through the methods below;
// tags are never attached by mutating Task.Tags.

// TaskTags returns tags for a task
func (q *Queries) TaskTags(ctx context.Context, taskID int64) ([]model.Tag, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT `+tagColumns+`
		FROM tags g
		JOIN task_tags tt ON g.id = tt.tag_id
		WHERE tt.task_id = ?
		ORDER BY g.name COLLATE NOCASE ASC
	`, taskID)
	if err != nil {
		return nil, err
	}
	return scanTags(rows)
}

// ListTagsForTasks returns the tags of many tasks keyed by task ID
func (q *Queries) ListTagsForTasks(ctx context.Context, taskIDs []int64) (map[int64][]model.Tag, error) {
	out := make(map[int64][]model.Tag, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}

	args := make([]any, len(taskIDs))
	for i, id := range taskIDs {
		args[i] = id
	}

	rows, err := q.q.QueryContext(ctx, `
		SELECT tt.task_id, `+tagColumns+`
		FROM tags g
		JOIN task_tags tt ON g.id = tt.tag_id
		WHERE tt.task_id IN `+inClause(len(taskIDs))+`
		ORDER BY g.name COLLATE NOCASE ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var taskID int64
		var t model.Tag
		if err := rows.Scan(&taskID, &t.ID, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out[taskID] = append(out[taskID], t)
	}
	return out, rows.Err()
}

// HasTaskTag reports whether the association exists
func (q *Queries) HasTaskTag(ctx context.Context, taskID, tagID int64) (bool, error) {
	var n int
	err := q.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM task_tags WHERE task_id = ? AND tag_id = ?
	`, taskID, tagID).Scan(&n)
	return n > 0, err
}

// AttachTag adds a tag to a task. Attaching twice is a no-op; the result
// reports whether a row was inserted.
func (q *Queries) AttachTag(ctx context.Context, taskID, tagID int64) (bool, error) {
	res, err := q.q.ExecContext(ctx, `
		INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)
	`, taskID, tagID)
	if err != nil {
		return false, translate(err)
	}
	return affected(res)
}

// DetachTag removes a tag from a task and reports whether a row was removed
func (q *Queries) DetachTag(ctx context.Context, taskID, tagID int64) (bool, error) {
	res, err := q.q.ExecContext(ctx, `
		DELETE FROM task_tags WHERE task_id = ? AND tag_id = ?
	`, taskID, tagID)
	if err != nil {
		return false, err
	}
	return affected(res)
}
