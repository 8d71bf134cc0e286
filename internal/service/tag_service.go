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

// TagService manages the global tag vocabulary. Tag names are unique with an
// exact, case-sensitive comparison.
type TagService struct{ base }

func NewTagService(database Database, logger *logrus.Logger, pol *policy.Policy) *TagService {
	return &TagService{newBase(database, logger, pol)}
}

func (s *TagService) Create(ctx context.Context, actor model.Actor, in model.NewTag) (*model.Tag, error) {
	return call(ctx, s.base, "tag.create", &actor, func(q *db.Queries) (*model.Tag, error) {
		if err := s.checkName(ctx, q, in.Name, 0); err != nil {
			return nil, err
		}
		tag, err := q.CreateTag(ctx, in)
		return tag, dup(err, "tag", in.Name)
	})
}

func (s *TagService) Get(ctx context.Context, id int64) (*model.Tag, error) {
	return call(ctx, s.base, "tag.get", nil, func(q *db.Queries) (*model.Tag, error) {
		return s.load(ctx, q, id)
	})
}

// GetByName returns the tag with exactly this name.
func (s *TagService) GetByName(ctx context.Context, name string) (*model.Tag, error) {
	return call(ctx, s.base, "tag.get_by_name", nil, func(q *db.Queries) (*model.Tag, error) {
		tag, err := q.FindTagByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if tag == nil {
			return nil, apperr.NotFound("tag", name)
		}
		return tag, nil
	})
}

func (s *TagService) List(ctx context.Context, f model.TagFilter, r paging.Request) (paging.Page[model.Tag], error) {
	return list(ctx, s.base, "tag.list", r, func(q *db.Queries, r paging.Request) ([]model.Tag, int, error) {
		return q.ListTags(ctx, f, r)
	})
}

// Update renames or recolors a tag. Keeping the current name is never a
// conflict.
func (s *TagService) Update(ctx context.Context, actor model.Actor, id int64, patch model.TagPatch) (*model.Tag, error) {
	return call(ctx, s.base, "tag.update", &actor, func(q *db.Queries) (*model.Tag, error) {
		if _, err := s.load(ctx, q, id); err != nil {
			return nil, err
		}
		if patch.Name != nil {
			if err := s.checkName(ctx, q, *patch.Name, id); err != nil {
				return nil, err
			}
		}

		tag, err := q.UpdateTag(ctx, id, patch)
		if err != nil {
			if patch.Name != nil {
				err = dup(err, "tag", *patch.Name)
			}
			return nil, err
		}
		if tag == nil {
			return nil, apperr.NotFound("tag", id)
		}
		return tag, nil
	})
}

// Delete removes the tag and detaches it from every task. Tasks are kept.
func (s *TagService) Delete(ctx context.Context, actor model.Actor, id int64) error {
	return s.run(ctx, "tag.delete", &actor, func(q *db.Queries) error {
		removed, err := q.DeleteTag(ctx, id)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.NotFound("tag", id)
		}
		return nil
	})
}

func (s *TagService) load(ctx context.Context, q *db.Queries, id int64) (*model.Tag, error) {
	tag, err := q.FindTag(ctx, id)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, apperr.NotFound("tag", id)
	}
	return tag, nil
}

func (s *TagService) checkName(ctx context.Context, q *db.Queries, name string, excludeID int64) error {
	taken, err := q.TagNameTaken(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("tag", name)
	}
	return nil
}
