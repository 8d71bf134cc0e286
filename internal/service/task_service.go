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

// TaskService manages tasks and their tag associations.
type TaskService struct{ base }

func NewTaskService(database Database, logger *logrus.Logger, pol *policy.Policy) *TaskService {
	return &TaskService{newBase(database, logger, pol)}
}

// Create creates a task authored by the actor. The parent project must exist.
func (s *TaskService) Create(ctx context.Context, actor model.Actor, in model.NewTask) (*model.Task, error) {
	return call(ctx, s.base, "task.create", &actor, func(q *db.Queries) (*model.Task, error) {
		return s.create(ctx, q, actor, in)
	})
}

// CreateWithTags creates a task and attaches the named tags, creating any tag
// that does not exist yet. Nothing is stored unless every step succeeds.
func (s *TaskService) CreateWithTags(ctx context.Context, actor model.Actor, in model.NewTask, tagNames []string) (*model.Task, error) {
	return call(ctx, s.base, "task.create_with_tags", &actor, func(q *db.Queries) (*model.Task, error) {
		t, err := s.create(ctx, q, actor, in)
		if err != nil {
			return nil, err
		}
		for _, name := range tagNames {
			tag, err := q.FindTagByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if tag == nil {
				if tag, err = q.CreateTag(ctx, model.NewTag{Name: name}); err != nil {
					return nil, dup(err, "tag", name)
				}
			}
			if _, err := q.AttachTag(ctx, t.ID, tag.ID); err != nil {
				return nil, err
			}
		}
		return q.FindTaskWithTags(ctx, t.ID)
	})
}

func (s *TaskService) create(ctx context.Context, q *db.Queries, actor model.Actor, in model.NewTask) (*model.Task, error) {
	p, err := q.FindProject(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("project", in.ProjectID)
	}
	if err := s.policy.CanCreateTask(actor, p); err != nil {
		return nil, err
	}
	return q.CreateTask(ctx, in, actor.ID)
}

// Get returns the task with its tags.
func (s *TaskService) Get(ctx context.Context, id int64) (*model.Task, error) {
	return call(ctx, s.base, "task.get", nil, func(q *db.Queries) (*model.Task, error) {
		t, err := q.FindTaskWithTags(ctx, id)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, apperr.NotFound("task", id)
		}
		return t, nil
	})
}

func (s *TaskService) List(ctx context.Context, f model.TaskFilter, r paging.Request) (paging.Page[model.Task], error) {
	return list(ctx, s.base, "task.list", r, func(q *db.Queries, r paging.Request) ([]model.Task, int, error) {
		return q.ListTasks(ctx, f, r)
	})
}

func (s *TaskService) Update(ctx context.Context, actor model.Actor, id int64, patch model.TaskPatch) (*model.Task, error) {
	return call(ctx, s.base, "task.update", &actor, func(q *db.Queries) (*model.Task, error) {
		t, err := s.load(ctx, q, id)
		if err != nil {
			return nil, err
		}
		if err := s.policy.CanUpdateTask(actor, t); err != nil {
			return nil, err
		}

		updated, err := q.UpdateTask(ctx, id, patch)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, apperr.NotFound("task", id)
		}
		return updated, nil
	})
}

// Delete removes the task with its comments and tag associations.
func (s *TaskService) Delete(ctx context.Context, actor model.Actor, id int64) error {
	return s.run(ctx, "task.delete", &actor, func(q *db.Queries) error {
		t, err := s.load(ctx, q, id)
		if err != nil {
			return err
		}
		if err := s.policy.CanDeleteTask(actor, t); err != nil {
			return err
		}

		removed, err := q.DeleteTask(ctx, id)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.NotFound("task", id)
		}
		return nil
	})
}

// AddTag attaches a tag to a task. Attaching a tag that is already present
// is a Conflict.
func (s *TaskService) AddTag(ctx context.Context, actor model.Actor, taskID, tagID int64) (*model.Task, error) {
	return call(ctx, s.base, "task.add_tag", &actor, func(q *db.Queries) (*model.Task, error) {
		if err := s.loadPair(ctx, q, taskID, tagID); err != nil {
			return nil, err
		}

		attached, err := q.HasTaskTag(ctx, taskID, tagID)
		if err != nil {
			return nil, err
		}
		if attached {
			return nil, alreadyAttached(taskID, tagID)
		}

		inserted, err := q.AttachTag(ctx, taskID, tagID)
		if err != nil {
			return nil, err
		}
		if !inserted {
			return nil, alreadyAttached(taskID, tagID)
		}
		return q.FindTaskWithTags(ctx, taskID)
	})
}

// RemoveTag detaches a tag from a task. Removing an association that does
// not exist succeeds.
func (s *TaskService) RemoveTag(ctx context.Context, actor model.Actor, taskID, tagID int64) (*model.Task, error) {
	return call(ctx, s.base, "task.remove_tag", &actor, func(q *db.Queries) (*model.Task, error) {
		if err := s.loadPair(ctx, q, taskID, tagID); err != nil {
			return nil, err
		}
		if _, err := q.DetachTag(ctx, taskID, tagID); err != nil {
			return nil, err
		}
		return q.FindTaskWithTags(ctx, taskID)
	})
}

func (s *TaskService) load(ctx context.Context, q *db.Queries, id int64) (*model.Task, error) {
	t, err := q.FindTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("task", id)
	}
	return t, nil
}

// loadPair confirms that both ends of a task-tag association exist.
func (s *TaskService) loadPair(ctx context.Context, q *db.Queries, taskID, tagID int64) error {
	if _, err := s.load(ctx, q, taskID); err != nil {
		return err
	}
	tag, err := q.FindTag(ctx, tagID)
	if err != nil {
		return err
	}
	if tag == nil {
		return apperr.NotFound("tag", tagID)
	}
	return nil
}

func alreadyAttached(taskID, tagID int64) error {
	return apperr.Conflictf("task_tag", "", "tag %d is already attached to task %d", tagID, taskID)
}
