package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/dori/taskhub/internal/apperr"
	"github.com/dori/taskhub/internal/db"
	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/paging"
	"github.com/dori/taskhub/internal/policy"
)

// UserService manages accounts and their role assignments. Users are
// deactivated, never deleted.
type UserService struct {
	base
	defaultRole string
}

func NewUserService(database Database, logger *logrus.Logger, pol *policy.Policy) *UserService {
	return &UserService{base: newBase(database, logger, pol), defaultRole: model.RoleMember}
}

// Register creates an active user and grants the default role when it
// exists. Emails are unique regardless of case.
func (s *UserService) Register(ctx context.Context, in model.NewUser) (*model.User, error) {
	return call(ctx, s.base, "user.register", nil, func(q *db.Queries) (*model.User, error) {
		if err := s.checkEmail(ctx, q, in.Email, 0); err != nil {
			return nil, err
		}
		u, err := q.CreateUser(ctx, in)
		if err != nil {
			return nil, dup(err, "user", in.Email)
		}

		role, err := q.FindRoleByName(ctx, s.defaultRole)
		if err != nil {
			return nil, err
		}
		if role != nil {
			if _, err := q.GrantRole(ctx, u.ID, role.ID); err != nil {
				return nil, err
			}
		}
		return q.FindUserWithRoles(ctx, u.ID)
	})
}

// Get returns the user with roles loaded.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	return call(ctx, s.base, "user.get", nil, func(q *db.Queries) (*model.User, error) {
		u, err := q.FindUserWithRoles(ctx, id)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, apperr.NotFound("user", id)
		}
		return u, nil
	})
}

func (s *UserService) List(ctx context.Context, f model.UserFilter, r paging.Request) (paging.Page[model.User], error) {
	return list(ctx, s.base, "user.list", r, func(q *db.Queries, r paging.Request) ([]model.User, int, error) {
		return q.ListUsers(ctx, f, r)
	})
}

// Update edits a profile. Users may edit themselves; administrators may
// edit anyone.
func (s *UserService) Update(ctx context.Context, actor model.Actor, id int64, patch model.UserPatch) (*model.User, error) {
	return call(ctx, s.base, "user.update", &actor, func(q *db.Queries) (*model.User, error) {
		u, err := s.load(ctx, q, id)
		if err != nil {
			return nil, err
		}
		if err := s.policy.CanUpdateUser(actor, u); err != nil {
			return nil, err
		}
		if patch.Email != nil {
			if err := s.checkEmail(ctx, q, *patch.Email, id); err != nil {
				return nil, err
			}
		}

		updated, err := q.UpdateUser(ctx, id, patch)
		if err != nil {
			if patch.Email != nil {
				err = dup(err, "user", *patch.Email)
			}
			return nil, err
		}
		if updated == nil {
			return nil, apperr.NotFound("user", id)
		}
		return updated, nil
	})
}

// SetActive activates or deactivates a user.
func (s *UserService) SetActive(ctx context.Context, actor model.Actor, id int64, active bool) (*model.User, error) {
	return call(ctx, s.base, "user.set_active", &actor, func(q *db.Queries) (*model.User, error) {
		if _, err := s.load(ctx, q, id); err != nil {
			return nil, err
		}
		if err := s.policy.CanManageUsers(actor); err != nil {
			return nil, err
		}

		u, err := q.SetUserActive(ctx, id, active)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, apperr.NotFound("user", id)
		}
		return u, nil
	})
}

// AssignRole grants the named role. Granting a role the user already holds
// is a Conflict.
func (s *UserService) AssignRole(ctx context.Context, actor model.Actor, userID int64, roleName string) (*model.User, error) {
	return call(ctx, s.base, "user.assign_role", &actor, func(q *db.Queries) (*model.User, error) {
		role, err := s.loadAssignment(ctx, q, actor, userID, roleName)
		if err != nil {
			return nil, err
		}

		held, err := q.HasUserRole(ctx, userID, role.ID)
		if err != nil {
			return nil, err
		}
		if held {
			return nil, apperr.Conflictf("user_role", roleName, "user %d already has role %s", userID, roleName)
		}
		if _, err := q.GrantRole(ctx, userID, role.ID); err != nil {
			return nil, err
		}
		return q.FindUserWithRoles(ctx, userID)
	})
}

// RevokeRole removes the named role. Revoking a role the user does not hold
// succeeds.
func (s *UserService) RevokeRole(ctx context.Context, actor model.Actor, userID int64, roleName string) (*model.User, error) {
	return call(ctx, s.base, "user.revoke_role", &actor, func(q *db.Queries) (*model.User, error) {
		role, err := s.loadAssignment(ctx, q, actor, userID, roleName)
		if err != nil {
			return nil, err
		}
		if _, err := q.RevokeRole(ctx, userID, role.ID); err != nil {
			return nil, err
		}
		return q.FindUserWithRoles(ctx, userID)
	})
}

// loadAssignment resolves both ends of a role assignment before checking
// that the actor may manage users.
func (s *UserService) loadAssignment(ctx context.Context, q *db.Queries, actor model.Actor, userID int64, roleName string) (*model.Role, error) {
	if _, err := s.load(ctx, q, userID); err != nil {
		return nil, err
	}
	role, err := q.FindRoleByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperr.NotFound("role", roleName)
	}
	if err := s.policy.CanManageUsers(actor); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *UserService) load(ctx context.Context, q *db.Queries, id int64) (*model.User, error) {
	u, err := q.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user", id)
	}
	return u, nil
}

func (s *UserService) checkEmail(ctx context.Context, q *db.Queries, email string, excludeID int64) error {
	taken, err := q.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("user", email)
	}
	return nil
}
