package db

import (
	"context"
	"database/sql"

	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/paging"
)

const userColumns = `u.id, u.email, u.first_name, u.last_name, u.is_active, u.created_at, u.updated_at`

// ListUsers returns a page of users ordered by email, with roles loaded
func (q *Queries) ListUsers(ctx context.Context, f model.UserFilter, r paging.Request) ([]model.User, int, error) {
	w := &where{}
	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		w.add(`(LOWER(u.email) LIKE LOWER(?) ESCAPE '\'
			OR LOWER(u.first_name) LIKE LOWER(?) ESCAPE '\'
			OR LOWER(u.last_name) LIKE LOWER(?) ESCAPE '\')`, pattern, pattern, pattern)
	}
	if f.Active != nil {
		w.add("u.is_active = ?", boolInt(*f.Active))
	}
	if f.Role != "" {
		w.add(`EXISTS (SELECT 1 FROM user_roles ur JOIN roles r ON r.id = ur.role_id
			WHERE ur.user_id = u.id AND r.name = ?)`, f.Role)
	}

	total, err := q.count(ctx, "users u", w)
	if err != nil {
		return nil, 0, err
	}

	rows, err := q.q.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users u`+w.String()+`
		ORDER BY u.email COLLATE NOCASE ASC
		LIMIT ? OFFSET ?
	`, pageArgs(w, r)...)
	if err != nil {
		return nil, 0, err
	}

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, 0, err
	}
	rows.Close()

	// Roles are loaded after rows are closed; see the single-connection note in Open.
	for i := range users {
		roles, err := q.UserRoles(ctx, users[i].ID)
		if err != nil {
			return nil, 0, err
		}
		users[i].Roles = roles
	}
	return users, total, nil
}

// FindUser returns a single user without roles
func (q *Queries) FindUser(ctx context.Context, id int64) (*model.User, error) {
	row := q.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = ?`, id)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// FindUserWithRoles returns a user with roles loaded
func (q *Queries) FindUserWithRoles(ctx context.Context, id int64) (*model.User, error) {
	u, err := q.FindUser(ctx, id)
	if err != nil || u == nil {
		return u, err
	}

	roles, err := q.UserRoles(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return u, nil
}

// EmailTaken reports whether a user other than excludeID uses email,
// compared case-insensitively
func (q *Queries) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var n int
	err := q.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users WHERE email = ? COLLATE NOCASE AND id != ?
	`, email, excludeID).Scan(&n)
	return n > 0, err
}

// CreateUser creates an active user
func (q *Queries) CreateUser(ctx context.Context, in model.NewUser) (*model.User, error) {
	ts := now()

	res, err := q.q.ExecContext(ctx, `
		INSERT INTO users (email, first_name, last_name, is_active, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
	`, in.Email, in.FirstName, in.LastName, ts, ts)
	if err != nil {
		return nil, translate(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &model.User{
		ID:        id,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsActive:  true,
		CreatedAt: ts,
		UpdatedAt: ts,
	}, nil
}

// UpdateUser applies the fields present in patch
func (q *Queries) UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	s := &setter{}
	if patch.Email != nil {
		s.set("email", *patch.Email)
	}
	if patch.FirstName != nil {
		s.set("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		s.set("last_name", *patch.LastName)
	}
	return q.applyUserUpdate(ctx, id, s)
}

// SetUserActive activates or deactivates a user
func (q *Queries) SetUserActive(ctx context.Context, id int64, active bool) (*model.User, error) {
	s := &setter{}
	s.set("is_active", boolInt(active))
	return q.applyUserUpdate(ctx, id, s)
}

func (q *Queries) applyUserUpdate(ctx context.Context, id int64, s *setter) (*model.User, error) {
	query, args := s.build("users", id)
	res, err := q.q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	if ok, err := affected(res); err != nil || !ok {
		return nil, err
	}
	return q.FindUserWithRoles(ctx, id)
}

// UserRoles returns the roles assigned to a user
func (q *Queries) UserRoles(ctx context.Context, userID int64) ([]model.Role, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT `+roleColumns+`
		FROM roles r
		JOIN user_roles ur ON r.id = ur.role_id
		WHERE ur.user_id = ?
		ORDER BY r.name
	`, userID)
	if err != nil {
		return nil, err
	}
	return scanRoles(rows)
}

// HasUserRole reports whether the user holds the role
func (q *Queries) HasUserRole(ctx context.Context, userID, roleID int64) (bool, error) {
	var n int
	err := q.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM user_roles WHERE user_id = ? AND role_id = ?
	`, userID, roleID).Scan(&n)
	return n > 0, err
}

// GrantRole assigns a role to a user and reports whether a row was inserted
func (q *Queries) GrantRole(ctx context.Context, userID, roleID int64) (bool, error) {
	res, err := q.q.ExecContext(ctx, `
		INSERT OR IGNORE INTO user_roles (user_id, role_id) VALUES (?, ?)
	`, userID, roleID)
	if err != nil {
		return false, translate(err)
	}
	return affected(res)
}

// RevokeRole removes a role from a user and reports whether a row was removed
func (q *Queries) RevokeRole(ctx context.Context, userID, roleID int64) (bool, error) {
	res, err := q.q.ExecContext(ctx, `
		DELETE FROM user_roles WHERE user_id = ? AND role_id = ?
	`, userID, roleID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func scanUser(s scanner) (*model.User, error) {
	var u model.User
	var active int
	err := s.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.IsActive = active == 1
	return &u, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
