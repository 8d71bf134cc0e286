// Package service sequences existence checks, authorization and mutation for
// each entity. Every call runs inside one store transaction and fails with
// exactly one apperr kind.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dori/taskhub/internal/apperr"
	"github.com/dori/taskhub/internal/db"
	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/paging"
	"github.com/dori/taskhub/internal/policy"
)

// Database is the transactional store the services run against.
type Database interface {
	Transaction(ctx context.Context, fn func(q *db.Queries) error) error
}

// base carries the collaborators shared by every service.
type base struct {
	db     Database
	log    *logrus.Logger
	policy *policy.Policy
}

func newBase(database Database, logger *logrus.Logger, pol *policy.Policy) base {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if pol == nil {
		pol = policy.New()
	}
	return base{db: database, log: logger, policy: pol}
}

// run executes fn in a transaction. The returned error is always an
// *apperr.Error.
func (b base) run(ctx context.Context, op string, actor *model.Actor, fn func(q *db.Queries) error) error {
	fields := logrus.Fields{"op": op, "op_id": uuid.NewString()}
	if actor != nil {
		fields["actor"] = actor.ID
	}
	entry := b.log.WithFields(fields)

	err := b.db.Transaction(ctx, fn)
	if err == nil {
		entry.Debug("completed")
		return nil
	}

	failure := classify(err)
	switch failure.Kind {
	case apperr.ErrInternal:
		entry.WithError(failure.Cause).Error("operation failed")
	case apperr.ErrForbidden:
		entry.WithError(failure).Info("operation denied")
	default:
		entry.WithError(failure).Debug("operation rejected")
	}
	return failure
}

// call is run for operations that produce a value.
func call[T any](ctx context.Context, b base, op string, actor *model.Actor, fn func(q *db.Queries) (T, error)) (T, error) {
	var out T
	err := b.run(ctx, op, actor, func(q *db.Queries) error {
		var err error
		out, err = fn(q)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// classify maps any error onto the failure taxonomy. Storage errors that the
// orchestration did not anticipate become Internal.
func classify(err error) *apperr.Error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, db.ErrDuplicate) {
		return apperr.Conflictf("", "", "a record with the same unique value already exists")
	}
	return apperr.Internal(err)
}

// dup turns a backstop uniqueness failure into a Conflict on entity/key and
// leaves every other error unchanged.
func dup(err error, entity, key string) error {
	if errors.Is(err, db.ErrDuplicate) {
		return apperr.Conflict(entity, key)
	}
	return err
}

// list validates the page request and wraps a store listing into a page.
func list[T any](ctx context.Context, b base, op string, r paging.Request, fn func(q *db.Queries, r paging.Request) ([]T, int, error)) (paging.Page[T], error) {
	return call(ctx, b, op, nil, func(q *db.Queries) (paging.Page[T], error) {
		r, err := paging.NewRequest(r.Page, r.Limit)
		if err != nil {
			return paging.Page[T]{}, err
		}
		items, total, err := fn(q, r)
		if err != nil {
			return paging.Page[T]{}, err
		}
		return paging.NewPage(items, total, r), nil
	})
}
