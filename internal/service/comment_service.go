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

// CommentService manages comments on tasks. Edit rights belong to the comment
// author alone; the project owner gets no override.
type CommentService struct{ base }

func NewCommentService(database Database, logger *logrus.Logger, pol *policy.Policy) *CommentService {
	return &CommentService{newBase(database, logger, pol)}
}

func (s *CommentService) Create(ctx context.Context, actor model.Actor, in model.NewComment) (*model.Comment, error) {
	return call(ctx, s.base, "comment.create", &actor, func(q *db.Queries) (*model.Comment, error) {
		task, err := q.FindTask(ctx, in.TaskID)
		if err != nil {
			return nil, err
		}
		if task == nil {
			return nil, apperr.NotFound("task", in.TaskID)
		}
		return q.CreateComment(ctx, in, actor.ID)
	})
}

func (s *CommentService) Get(ctx context.Context, id int64) (*model.Comment, error) {
	return call(ctx, s.base, "comment.get", nil, func(q *db.Queries) (*model.Comment, error) {
		return s.load(ctx, q, id)
	})
}

// ListByTask returns the comments of an existing task, newest first.
func (s *CommentService) ListByTask(ctx context.Context, taskID int64, r paging.Request) (paging.Page[model.Comment], error) {
	return list(ctx, s.base, "comment.list", r, func(q *db.Queries, r paging.Request) ([]model.Comment, int, error) {
		task, err := q.FindTask(ctx, taskID)
		if err != nil {
			return nil, 0, err
		}
		if task == nil {
			return nil, 0, apperr.NotFound("task", taskID)
		}
		return q.ListComments(ctx, model.CommentFilter{TaskID: &taskID}, r)
	})
}

func (s *CommentService) Update(ctx context.Context, actor model.Actor, id int64, content string) (*model.Comment, error) {
	return call(ctx, s.base, "comment.update", &actor, func(q *db.Queries) (*model.Comment, error) {
		c, err := s.load(ctx, q, id)
		if err != nil {
			return nil, err
		}
		if err := s.policy.CanUpdateComment(actor, c); err != nil {
			return nil, err
		}

		updated, err := q.UpdateComment(ctx, id, content)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, apperr.NotFound("comment", id)
		}
		return updated, nil
	})
}

// Delete allows the author, or any actor holding the administrator role.
func (s *CommentService) Delete(ctx context.Context, actor model.Actor, id int64) error {
	return s.run(ctx, "comment.delete", &actor, func(q *db.Queries) error {
		c, err := s.load(ctx, q, id)
		if err != nil {
			return err
		}
		if err := s.policy.CanDeleteComment(actor, c); err != nil {
			return err
		}

		removed, err := q.DeleteComment(ctx, id)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.NotFound("comment", id)
		}
		return nil
	})
}

func (s *CommentService) load(ctx context.Context, q *db.Queries, id int64) (*model.Comment, error) {
	c, err := q.FindComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("comment", id)
	}
	return c, nil
}
