package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindsMatchWithErrorsIs(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{NotFound("project", 7), ErrNotFound},
		{Forbidden("only the owner can delete"), ErrForbidden},
		{Conflict("tag", "urgent"), ErrConflict},
		{Validation("limit", "must be at most 100"), ErrValidation},
		{Internal(sql.ErrConnDone), ErrInternal},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.kind) {
			t.Errorf("%v: expected kind %v", tc.err, tc.kind)
		}
		if got := KindOf(tc.err); got != tc.kind {
			t.Errorf("KindOf(%v) = %v, want %v", tc.err, got, tc.kind)
		}
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("delete project: %w", NotFound("project", 3))
	if !IsNotFound(err) {
		t.Fatalf("expected wrapped error to be NotFound")
	}
	var ae *Error
	if !errors.As(err, &ae) || ae.Entity != "project" || ae.Key != "3" {
		t.Fatalf("unexpected unwrapped error: %#v", ae)
	}
}

func TestInternalHidesCause(t *testing.T) {
	err := Internal(errors.New("UNIQUE constraint failed: secret_table.col"))
	if strings.Contains(err.Error(), "secret_table") {
		t.Fatalf("internal error leaked cause: %q", err.Error())
	}
	if errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("internal error should not unwrap to its cause")
	}
	if err.Cause == nil {
		t.Fatalf("cause should be kept for logging")
	}
}

func TestKindOfForeignError(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != ErrInternal {
		t.Fatalf("expected ErrInternal, got %v", got)
	}
	if KindOf(nil) != nil {
		t.Fatalf("expected nil kind for nil error")
	}
}

func TestMessages(t *testing.T) {
	if got := NotFound("task", 12).Error(); got != "task 12 not found" {
		t.Errorf("unexpected message %q", got)
	}
	if got := Conflict("tag", "urgent").Error(); got != `tag "urgent" already exists` {
		t.Errorf("unexpected message %q", got)
	}
	if got := Conflictf("task_tag", "1:2", "tag %d is already attached to task %d", 2, 1).Error(); got != "conflict: tag 2 is already attached to task 1" {
		t.Errorf("unexpected message %q", got)
	}
}
