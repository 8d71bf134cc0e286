package service

import (
	"context"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/dori/taskhub/internal/apperr"
	"github.com/dori/taskhub/internal/db"
	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/paging"
	"github.com/dori/taskhub/internal/policy"
)

// RoleService manages roles. Every mutation requires the administrator role.
// System roles can be edited but never deleted or renamed.
type RoleService struct {
	base
	system map[string]struct{}
	names  []string
}

// NewRoleService copies systemRoles; later changes to the slice have no
// effect.
func NewRoleService(database Database, logger *logrus.Logger, pol *policy.Policy, systemRoles []string) *RoleService {
	s := &RoleService{
		base:   newBase(database, logger, pol),
		system: make(map[string]struct{}, len(systemRoles)),
	}
	for _, name := range systemRoles {
		if _, ok := s.system[name]; ok || name == "" {
			continue
		}
		s.system[name] = struct{}{}
		s.names = append(s.names, name)
	}
	return s
}

// IsSystemRole reports whether name is protected from deletion.
func (s *RoleService) IsSystemRole(name string) bool {
	_, ok := s.system[name]
	return ok
}

// SystemRoles returns the protected role names in configuration order.
func (s *RoleService) SystemRoles() []string {
	return slices.Clone(s.names)
}

// EnsureSystemRoles creates every configured system role that is missing.
func (s *RoleService) EnsureSystemRoles(ctx context.Context) error {
	return s.run(ctx, "role.ensure_system", nil, func(q *db.Queries) error {
		for _, name := range s.names {
			role, err := q.FindRoleByName(ctx, name)
			if err != nil {
				return err
			}
			if role != nil {
				continue
			}
			if _, err := q.CreateRole(ctx, model.NewRole{Name: name}); err != nil {
				return err
			}
			s.log.WithField("role", name).Info("created system role")
		}
		return nil
	})
}

func (s *RoleService) Create(ctx context.Context, actor model.Actor, in model.NewRole) (*model.Role, error) {
	return call(ctx, s.base, "role.create", &actor, func(q *db.Queries) (*model.Role, error) {
		if err := s.policy.CanManageRoles(actor); err != nil {
			return nil, err
		}
		if err := s.checkName(ctx, q, in.Name, 0); err != nil {
			return nil, err
		}
		role, err := q.CreateRole(ctx, in)
		return role, dup(err, "role", in.Name)
	})
}

func (s *RoleService) Get(ctx context.Context, id int64) (*model.Role, error) {
	return call(ctx, s.base, "role.get", nil, func(q *db.Queries) (*model.Role, error) {
		return s.load(ctx, q, id)
	})
}

func (s *RoleService) List(ctx context.Context, f model.RoleFilter, r paging.Request) (paging.Page[model.Role], error) {
	return list(ctx, s.base, "role.list", r, func(q *db.Queries, r paging.Request) ([]model.Role, int, error) {
		return q.ListRoles(ctx, f, r)
	})
}

// Update changes a role. Keeping the current name is never a conflict.
func (s *RoleService) Update(ctx context.Context, actor model.Actor, id int64, patch model.RolePatch) (*model.Role, error) {
	return call(ctx, s.base, "role.update", &actor, func(q *db.Queries) (*model.Role, error) {
		role, err := s.load(ctx, q, id)
		if err != nil {
			return nil, err
		}
		if err := s.policy.CanManageRoles(actor); err != nil {
			return nil, err
		}
		if patch.Name != nil && *patch.Name != role.Name {
			if s.IsSystemRole(role.Name) {
				return nil, apperr.Forbidden("system role " + role.Name + " cannot be renamed")
			}
			if err := s.checkName(ctx, q, *patch.Name, id); err != nil {
				return nil, err
			}
		}

		updated, err := q.UpdateRole(ctx, id, patch)
		if err != nil {
			if patch.Name != nil {
				err = dup(err, "role", *patch.Name)
			}
			return nil, err
		}
		if updated == nil {
			return nil, apperr.NotFound("role", id)
		}
		return updated, nil
	})
}

// Delete removes a role and all of its assignments. System roles are
// rejected.
func (s *RoleService) Delete(ctx context.Context, actor model.Actor, id int64) error {
	return s.run(ctx, "role.delete", &actor, func(q *db.Queries) error {
		role, err := s.load(ctx, q, id)
		if err != nil {
			return err
		}
		if err := s.policy.CanManageRoles(actor); err != nil {
			return err
		}
		if s.IsSystemRole(role.Name) {
			return apperr.Forbidden("system role " + role.Name + " cannot be deleted")
		}

		removed, err := q.DeleteRole(ctx, id)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.NotFound("role", id)
		}
		return nil
	})
}

func (s *RoleService) load(ctx context.Context, q *db.Queries, id int64) (*model.Role, error) {
	role, err := q.FindRole(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperr.NotFound("role", id)
	}
	return role, nil
}

func (s *RoleService) checkName(ctx context.Context, q *db.Queries, name string, excludeID int64) error {
	taken, err := q.RoleNameTaken(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("role", name)
	}
	return nil
}
