package model

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dori/taskhub/internal/apperr"
)

// Field limits
const (
	ProjectNameMax        = 100
	ProjectDescriptionMax = 1000
	TaskTitleMax          = 200
	TaskDescriptionMax    = 2000
	TagNameMax            = 50
	CommentContentMax     = 2000
	RoleNameMax           = 50
	RoleDescriptionMax    = 255
	UserNameMax           = 100
)

var (
	roleNamePattern = regexp.MustCompile(`^[A-Z][A-Z_]*$`)
	colorPattern    = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// The Validate methods below are the input shape checks run by callers before
// a service is invoked. Services themselves only enforce business rules.

func (n NewProject) Validate() error {
	if err := checkLen("name", n.Name, 1, ProjectNameMax); err != nil {
		return err
	}
	return checkOptLen("description", n.Description, ProjectDescriptionMax)
}

func (p ProjectPatch) Validate() error {
	if p.Name != nil {
		if err := checkLen("name", *p.Name, 1, ProjectNameMax); err != nil {
			return err
		}
	}
	return checkOptLen("description", p.Description.Ptr(), ProjectDescriptionMax)
}

func (n NewTask) Validate() error {
	if n.ProjectID <= 0 {
		return apperr.Validation("project_id", "is required")
	}
	if err := checkLen("title", n.Title, 1, TaskTitleMax); err != nil {
		return err
	}
	if err := checkOptLen("description", n.Description, TaskDescriptionMax); err != nil {
		return err
	}
	if n.Status != "" && !n.Status.Valid() {
		return apperr.Validationf("status", "unknown status %q", n.Status)
	}
	if n.Priority != "" && !n.Priority.Valid() {
		return apperr.Validationf("priority", "unknown priority %q", n.Priority)
	}
	return nil
}

func (p TaskPatch) Validate() error {
	if p.Title != nil {
		if err := checkLen("title", *p.Title, 1, TaskTitleMax); err != nil {
			return err
		}
	}
	if err := checkOptLen("description", p.Description.Ptr(), TaskDescriptionMax); err != nil {
		return err
	}
	if p.Status != nil && !p.Status.Valid() {
		return apperr.Validationf("status", "unknown status %q", *p.Status)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return apperr.Validationf("priority", "unknown priority %q", *p.Priority)
	}
	return nil
}

func (n NewTag) Validate() error {
	if err := checkLen("name", n.Name, 1, TagNameMax); err != nil {
		return err
	}
	return checkColor(n.Color)
}

func (p TagPatch) Validate() error {
	if p.Name != nil {
		if err := checkLen("name", *p.Name, 1, TagNameMax); err != nil {
			return err
		}
	}
	return checkColor(p.Color.Ptr())
}

func (n NewComment) Validate() error {
	if n.TaskID <= 0 {
		return apperr.Validation("task_id", "is required")
	}
	return ValidateCommentContent(n.Content)
}

func ValidateCommentContent(content string) error {
	return checkLen("content", content, 1, CommentContentMax)
}

func (n NewRole) Validate() error {
	if err := checkRoleName(n.Name); err != nil {
		return err
	}
	return checkOptLen("description", n.Description, RoleDescriptionMax)
}

func (p RolePatch) Validate() error {
	if p.Name != nil {
		if err := checkRoleName(*p.Name); err != nil {
			return err
		}
	}
	return checkOptLen("description", p.Description.Ptr(), RoleDescriptionMax)
}

func (n NewUser) Validate() error {
	if err := checkEmail(n.Email); err != nil {
		return err
	}
	if err := checkLen("first_name", n.FirstName, 0, UserNameMax); err != nil {
		return err
	}
	return checkLen("last_name", n.LastName, 0, UserNameMax)
}

func (p UserPatch) Validate() error {
	if p.Email != nil {
		if err := checkEmail(*p.Email); err != nil {
			return err
		}
	}
	if p.FirstName != nil {
		if err := checkLen("first_name", *p.FirstName, 0, UserNameMax); err != nil {
			return err
		}
	}
	if p.LastName != nil {
		return checkLen("last_name", *p.LastName, 0, UserNameMax)
	}
	return nil
}

func checkLen(field, s string, min, max int) error {
	n := utf8.RuneCountInString(s)
	if min > 0 && strings.TrimSpace(s) == "" {
		return apperr.Validation(field, "must not be empty")
	}
	if n < min {
		return apperr.Validationf(field, "must be at least %d characters", min)
	}
	if n > max {
		return apperr.Validationf(field, "must be at most %d characters", max)
	}
	return nil
}

func checkOptLen(field string, s *string, max int) error {
	if s == nil {
		return nil
	}
	return checkLen(field, *s, 0, max)
}

func checkColor(c *string) error {
	if c == nil || colorPattern.MatchString(*c) {
		return nil
	}
	return apperr.Validationf("color", "%q is not a #RRGGBB color", *c)
}

func checkRoleName(name string) error {
	if err := checkLen("name", name, 1, RoleNameMax); err != nil {
		return err
	}
	if !roleNamePattern.MatchString(name) {
		return apperr.Validation("name", "must start with an uppercase letter and contain only uppercase letters and underscores")
	}
	return nil
}

func checkEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperr.Validationf("email", "%q is not a valid address", email)
	}
	return nil
}
