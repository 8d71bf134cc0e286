package db

import (
	"context"
	"database/sql"

	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/paging"
)

const projectColumns = `p.id, p.name, p.description, p.owner_id, p.created_at, p.updated_at`

// ListProjects returns a page of projects, newest first, with task counts
func (q *Queries) ListProjects(ctx context.Context, f model.ProjectFilter, r paging.Request) ([]model.Project, int, error) {
	w := &where{}
	if f.OwnerID != nil {
		w.add("p.owner_id = ?", *f.OwnerID)
	}
	w.contains("p.name", f.Search)

	total, err := q.count(ctx, "projects p", w)
	if err != nil {
		return nil, 0, err
	}

	rows, err := q.q.QueryContext(ctx, `
		SELECT `+projectColumns+`,
		       (SELECT COUNT(*) FROM tasks WHERE project_id = p.id) AS task_count
		FROM projects p`+w.String()+`
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT ? OFFSET ?
	`, pageArgs(w, r)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt, &p.TaskCount)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, p)
	}

	return projects, total, rows.Err()
}

// FindProject returns a single project by ID
func (q *Queries) FindProject(ctx context.Context, id int64) (*model.Project, error) {
	row := q.q.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.id = ?`, id)

	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// FindProjectWithTasks returns a project and all of its tasks
func (q *Queries) FindProjectWithTasks(ctx context.Context, id int64) (*model.Project, error) {
	p, err := q.FindProject(ctx, id)
	if err != nil || p == nil {
		return p, err
	}

	tasks, err := q.tasksByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Tasks = tasks
	p.TaskCount = len(tasks)

	return p, nil
}

// CreateProject creates a new project owned by ownerID
func (q *Queries) CreateProject(ctx context.Context, in model.NewProject, ownerID int64) (*model.Project, error) {
	ts := now()

	res, err := q.q.ExecContext(ctx, `
		INSERT INTO projects (name, description, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, in.Name, in.Description, ownerID, ts, ts)
	if err != nil {
		return nil, translate(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &model.Project{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     ownerID,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// UpdateProject applies the fields present in patch
func (q *Queries) UpdateProject(ctx context.Context, id int64, patch model.ProjectPatch) (*model.Project, error) {
	s := &setter{}
	if patch.Name != nil {
		s.set("name", *patch.Name)
	}
	if patch.Description.IsSet() {
		s.set("description", patch.Description.Ptr())
	}

	query, args := s.build("projects", id)
	res, err := q.q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	if ok, err := affected(res); err != nil || !ok {
		return nil, err
	}

	return q.FindProject(ctx, id)
}

// DeleteProject deletes a project with its tasks, their comments and their
// tag associations. Run it inside a transaction so the cascade is atomic.
func (q *Queries) DeleteProject(ctx context.Context, id int64) (bool, error) {
	children := `SELECT id FROM tasks WHERE project_id = ?`

	if _, err := q.q.ExecContext(ctx, `DELETE FROM comments WHERE task_id IN (`+children+`)`, id); err != nil {
		return false, err
	}
	if _, err := q.q.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id IN (`+children+`)`, id); err != nil {
		return false, err
	}
	if _, err := q.q.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, id); err != nil {
		return false, err
	}

	res, err := q.q.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func scanProject(s scanner) (*model.Project, error) {
	var p model.Project
	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
