package db

import (
	"context"
	"database/sql"

	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/paging"
)

const roleColumns = `r.id, r.name, r.description, r.created_at, r.updated_at`

// ListRoles returns a page of roles ordered by name
func (q *Queries) ListRoles(ctx context.Context, f model.RoleFilter, r paging.Request) ([]model.Role, int, error) {
	w := &where{}
	w.contains("r.name", f.Search)

	total, err := q.count(ctx, "roles r", w)
	if err != nil {
		return nil, 0, err
	}

	rows, err := q.q.QueryContext(ctx, `
		SELECT `+roleColumns+`
		FROM roles r`+w.String()+`
		ORDER BY r.name
		LIMIT ? OFFSET ?
	`, pageArgs(w, r)...)
	if err != nil {
		return nil, 0, err
	}

	roles, err := scanRoles(rows)
	return roles, total, err
}

// FindRole returns a single role by ID
func (q *Queries) FindRole(ctx context.Context, id int64) (*model.Role, error) {
	row := q.q.QueryRowContext(ctx, `SELECT `+roleColumns+` FROM roles r WHERE r.id = ?`, id)

	role, err := scanRole(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return role, err
}

// FindRoleByName returns the role with exactly this name
func (q *Queries) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	row := q.q.QueryRowContext(ctx, `SELECT `+roleColumns+` FROM roles r WHERE r.name = ?`, name)

	role, err := scanRole(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return role, err
}

// RoleNameTaken reports whether a role other than excludeID uses name
func (q *Queries) RoleNameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var n int
	err := q.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM roles WHERE name = ? AND id != ?`, name, excludeID).Scan(&n)
	return n > 0, err
}

// CreateRole creates a new role. A duplicate name yields ErrDuplicate.
func (q *Queries) CreateRole(ctx context.Context, in model.NewRole) (*model.Role, error) {
	ts := now()

	res, err := q.q.ExecContext(ctx, `
		INSERT INTO roles (name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, in.Name, in.Description, ts, ts)
	if err != nil {
		return nil, translate(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &model.Role{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// UpdateRole applies the fields present in patch
func (q *Queries) UpdateRole(ctx context.Context, id int64, patch model.RolePatch) (*model.Role, error) {
	s := &setter{}
	if patch.Name != nil {
		s.set("name", *patch.Name)
	}
	if patch.Description.IsSet() {
		s.set("description", patch.Description.Ptr())
	}

	query, args := s.build("roles", id)
	res, err := q.q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	if ok, err := affected(res); err != nil || !ok {
		return nil, err
	}

	return q.FindRole(ctx, id)
}

// DeleteRole removes the role and its assignments
func (q *Queries) DeleteRole(ctx context.Context, id int64) (bool, error) {
	if _, err := q.q.ExecContext(ctx, `DELETE FROM user_roles WHERE role_id = ?`, id); err != nil {
		return false, err
	}

	res, err := q.q.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// scanRoles drains and closes rows
func scanRoles(rows *sql.Rows) ([]model.Role, error) {
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}
	return roles, rows.Err()
}

func scanRole(s scanner) (*model.Role, error) {
	var role model.Role
	if err := s.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return nil, err
	}
	return &role, nil
}
