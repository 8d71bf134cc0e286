package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/paging"
)

const taskColumns = `t.id, t.title, t.description, t.status, t.priority, t.due_date,
	t.project_id, t.assignee_id, t.author_id, t.created_at, t.updated_at`

// ListTasks returns a page of tasks, newest first, with their tags loaded
func (q *Queries) ListTasks(ctx context.Context, f model.TaskFilter, r paging.Request) ([]model.Task, int, error) {
	w := &where{}
	if f.ProjectID != nil {
		w.add("t.project_id = ?", *f.ProjectID)
	}
	if f.Status != nil {
		w.add("t.status = ?", string(*f.Status))
	}
	if f.Priority != nil {
		w.add("t.priority = ?", string(*f.Priority))
	}
	if f.AssigneeID != nil {
		w.add("t.assignee_id = ?", *f.AssigneeID)
	}
	if f.AuthorID != nil {
		w.add("t.author_id = ?", *f.AuthorID)
	}
	if f.TagID != nil {
		w.add("EXISTS (SELECT 1 FROM task_tags tt WHERE tt.task_id = t.id AND tt.tag_id = ?)", *f.TagID)
	}
	if f.DueBefore != nil {
		w.add("t.due_date IS NOT NULL AND t.due_date < ?", f.DueBefore.UTC())
	}
	w.contains("t.title", f.Search)

	total, err := q.count(ctx, "tasks t", w)
	if err != nil {
		return nil, 0, err
	}

	rows, err := q.q.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t`+w.String()+`
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT ? OFFSET ?
	`, pageArgs(w, r)...)
	if err != nil {
		return nil, 0, err
	}
	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	if err := q.loadTags(ctx, tasks); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// tasksByProject returns every task of a project, newest first
func (q *Queries) tasksByProject(ctx context.Context, projectID int64) ([]model.Task, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		WHERE t.project_id = ?
		ORDER BY t.created_at DESC, t.id DESC
	`, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, err
	}

	if err := q.loadTags(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindTask returns a single task by ID without relationships
func (q *Queries) FindTask(ctx context.Context, id int64) (*model.Task, error) {
	row := q.q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = ?`, id)

	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// FindTaskWithTags returns a task with its tags loaded
func (q *Queries) FindTaskWithTags(ctx context.Context, id int64) (*model.Task, error) {
	t, err := q.FindTask(ctx, id)
	if err != nil || t == nil {
		return t, err
	}

	tags, err := q.TaskTags(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Tags = tags
	return t, nil
}

// CreateTask creates a new task authored by authorID
func (q *Queries) CreateTask(ctx context.Context, in model.NewTask, authorID int64) (*model.Task, error) {
	ts := now()

	status := in.Status
	if status == "" {
		status = model.StatusTodo
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	due := utcPtr(in.DueDate)

	res, err := q.q.ExecContext(ctx, `
		INSERT INTO tasks (title, description, status, priority, due_date, project_id, assignee_id, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, in.Title, in.Description, string(status), string(priority), due, in.ProjectID, in.AssigneeID, authorID, ts, ts)
	if err != nil {
		return nil, translate(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &model.Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     due,
		ProjectID:   in.ProjectID,
		AssigneeID:  in.AssigneeID,
		AuthorID:    authorID,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// UpdateTask applies the fields present in patch. The project is never changed.
func (q *Queries) UpdateTask(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, error) {
	s := &setter{}
	if patch.Title != nil {
		s.set("title", *patch.Title)
	}
	if patch.Description.IsSet() {
		s.set("description", patch.Description.Ptr())
	}
	if patch.Status != nil {
		s.set("status", string(*patch.Status))
	}
	if patch.Priority != nil {
		s.set("priority", string(*patch.Priority))
	}
	if patch.DueDate.IsSet() {
		s.set("due_date", utcPtr(patch.DueDate.Ptr()))
	}
	if patch.AssigneeID.IsSet() {
		s.set("assignee_id", patch.AssigneeID.Ptr())
	}

	query, args := s.build("tasks", id)
	res, err := q.q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	if ok, err := affected(res); err != nil || !ok {
		return nil, err
	}

	return q.FindTaskWithTags(ctx, id)
}

// DeleteTask deletes a task with its comments and tag associations
func (q *Queries) DeleteTask(ctx context.Context, id int64) (bool, error) {
	if _, err := q.q.ExecContext(ctx, `DELETE FROM comments WHERE task_id = ?`, id); err != nil {
		return false, err
	}
	if _, err := q.q.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ?`, id); err != nil {
		return false, err
	}

	res, err := q.q.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// loadTags fills Tags on every task with one query. Rows of the task query
// must already be closed.
func (q *Queries) loadTags(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]int64, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}

	byTask, err := q.ListTagsForTasks(ctx, ids)
	if err != nil {
		return err
	}
	for i := range tasks {
		tasks[i].Tags = byTask[tasks[i].ID]
	}
	return nil
}

// Helper functions

// scanTasks drains and closes rows
func scanTasks(rows *sql.Rows) ([]model.Task, error) {
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func scanTask(s scanner) (*model.Task, error) {
	var t model.Task
	var status, priority string

	err := s.Scan(
		&t.ID, &t.Title, &t.Description, &status, &priority, &t.DueDate,
		&t.ProjectID, &t.AssigneeID, &t.AuthorID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Status = model.Status(status)
	t.Priority = model.Priority(priority)
	return &t, nil
}

// utcPtr normalizes an optional timestamp to UTC
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
