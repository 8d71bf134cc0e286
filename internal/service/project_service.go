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

// ProjectService manages projects. Only the owner may change or delete a
// project.
type ProjectService struct{ base }

func NewProjectService(database Database, logger *logrus.Logger, pol *policy.Policy) *ProjectService {
	return &ProjectService{newBase(database, logger, pol)}
}

// Create creates a project owned by the actor.
func (s *ProjectService) Create(ctx context.Context, actor model.Actor, in model.NewProject) (*model.Project, error) {
	return call(ctx, s.base, "project.create", &actor, func(q *db.Queries) (*model.Project, error) {
		return q.CreateProject(ctx, in, actor.ID)
	})
}

func (s *ProjectService) Get(ctx context.Context, id int64) (*model.Project, error) {
	return call(ctx, s.base, "project.get", nil, func(q *db.Queries) (*model.Project, error) {
		return s.load(ctx, q, id)
	})
}

// GetWithTasks returns the project with every task and their tags loaded.
func (s *ProjectService) GetWithTasks(ctx context.Context, id int64) (*model.Project, error) {
	return call(ctx, s.base, "project.get_with_tasks", nil, func(q *db.Queries) (*model.Project, error) {
		p, err := q.FindProjectWithTasks(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, apperr.NotFound("project", id)
		}
		return p, nil
	})
}

func (s *ProjectService) List(ctx context.Context, f model.ProjectFilter, r paging.Request) (paging.Page[model.Project], error) {
	return list(ctx, s.base, "project.list", r, func(q *db.Queries, r paging.Request) ([]model.Project, int, error) {
		return q.ListProjects(ctx, f, r)
	})
}

func (s *ProjectService) Update(ctx context.Context, actor model.Actor, id int64, patch model.ProjectPatch) (*model.Project, error) {
	return call(ctx, s.base, "project.update", &actor, func(q *db.Queries) (*model.Project, error) {
		p, err := s.load(ctx, q, id)
		if err != nil {
			return nil, err
		}
		if err := s.policy.CanUpdateProject(actor, p); err != nil {
			return nil, err
		}

		updated, err := q.UpdateProject(ctx, id, patch)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, apperr.NotFound("project", id)
		}
		return updated, nil
	})
}

// Delete removes the project together with its tasks, their comments and
// their tag associations.
func (s *ProjectService) Delete(ctx context.Context, actor model.Actor, id int64) error {
	return s.run(ctx, "project.delete", &actor, func(q *db.Queries) error {
		p, err := s.load(ctx, q, id)
		if err != nil {
			return err
		}
		if err := s.policy.CanDeleteProject(actor, p); err != nil {
			return err
		}

		removed, err := q.DeleteProject(ctx, id)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.NotFound("project", id)
		}
		return nil
	})
}

func (s *ProjectService) load(ctx context.Context, q *db.Queries, id int64) (*model.Project, error) {
	p, err := q.FindProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("project", id)
	}
	return p, nil
}
