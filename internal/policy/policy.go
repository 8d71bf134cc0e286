// Package policy decides whether an actor may act on a resource.
//
// Every decision is a pure function of the actor and the already loaded
// resource. A nil result means allowed; otherwise the result is a Forbidden
// failure carrying the reason. Ownership is always compared against the
// resource's own stored owner or author, never inherited from a parent.
package policy

import (
	"github.com/dori/taskhub/internal/apperr"
	"github.com/dori/taskhub/internal/model"
)

// TaskCreateRule decides whether actor may create a task in project.
type TaskCreateRule func(actor model.Actor, project *model.Project) bool

// AllowAll is the default task creation rule.
func AllowAll(model.Actor, *model.Project) bool { return true }

// Policy holds the configurable parts of the authorization rules.
type Policy struct {
	adminRole  string
	taskCreate TaskCreateRule
}

type Option func(*Policy)

// WithTaskCreateRule replaces the task creation rule.
func WithTaskCreateRule(rule TaskCreateRule) Option {
	return func(p *Policy) {
		if rule != nil {
			p.taskCreate = rule
		}
	}
}

// WithAdminRole changes the role name that grants administrative overrides.
func WithAdminRole(role string) Option {
	return func(p *Policy) {
		if role != "" {
			p.adminRole = role
		}
	}
}

func New(opts ...Option) *Policy {
	p := &Policy{adminRole: model.RoleAdmin, taskCreate: AllowAll}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Policy) isAdmin(a model.Actor) bool {
	return a.HasRole(p.adminRole)
}

func (p *Policy) CanCreateTask(a model.Actor, project *model.Project) error {
	if !p.taskCreate(a, project) {
		return apperr.Forbidden("not allowed to create tasks in this project")
	}
	return nil
}

// CanUpdateProject allows the owner only. There is no administrative override.
func (p *Policy) CanUpdateProject(a model.Actor, project *model.Project) error {
	if !project.IsOwnedBy(a.ID) {
		return apperr.Forbidden("only the project owner can update this project")
	}
	return nil
}

// CanDeleteProject allows the owner only. There is no administrative override.
func (p *Policy) CanDeleteProject(a model.Actor, project *model.Project) error {
	if !project.IsOwnedBy(a.ID) {
		return apperr.Forbidden("only the project owner can delete this project")
	}
	return nil
}

// CanUpdateTask allows the task's author and its assignee.
func (p *Policy) CanUpdateTask(a model.Actor, task *model.Task) error {
	if task.AuthorID == a.ID || task.IsAssignedTo(a.ID) {
		return nil
	}
	return apperr.Forbidden("only the task author or assignee can update this task")
}

func (p *Policy) CanDeleteTask(a model.Actor, task *model.Task) error {
	if task.AuthorID == a.ID || p.isAdmin(a) {
		return nil
	}
	return apperr.Forbidden("only the task author or an administrator can delete this task")
}

// CanUpdateComment allows the comment author only.
func (p *Policy) CanUpdateComment(a model.Actor, c *model.Comment) error {
	if c.AuthorID != a.ID {
		return apperr.Forbidden("only the comment author can edit this comment")
	}
	return nil
}

func (p *Policy) CanDeleteComment(a model.Actor, c *model.Comment) error {
	if c.AuthorID == a.ID || p.isAdmin(a) {
		return nil
	}
	return apperr.Forbidden("only the comment author or an administrator can delete this comment")
}

func (p *Policy) CanManageRoles(a model.Actor) error {
	if !p.isAdmin(a) {
		return apperr.Forbidden("role management requires the " + p.adminRole + " role")
	}
	return nil
}

func (p *Policy) CanManageUsers(a model.Actor) error {
	if !p.isAdmin(a) {
		return apperr.Forbidden("user management requires the " + p.adminRole + " role")
	}
	return nil
}

// CanUpdateUser allows users to edit their own profile, and administrators
// to edit anyone's.
func (p *Policy) CanUpdateUser(a model.Actor, u *model.User) error {
	if u.ID == a.ID || p.isAdmin(a) {
		return nil
	}
	return apperr.Forbidden("users can only update their own profile")
}
