package policy

import (
	"testing"

	"github.com/dori/taskhub/internal/apperr"
	"github.com/dori/taskhub/internal/model"
)

var (
	owner  = model.Actor{ID: 1, Roles: []string{model.RoleMember}}
	member = model.Actor{ID: 456, Roles: []string{model.RoleMember}}
	admin  = model.Actor{ID: 456, Roles: []string{model.RoleAdmin}}
)

func TestProjectOwnershipHasNoAdminOverride(t *testing.T) {
	p := New()
	project := &model.Project{ID: 10, OwnerID: owner.ID}

	if err := p.CanUpdateProject(owner, project); err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if err := p.CanDeleteProject(owner, project); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	for _, a := range []model.Actor{member, admin} {
		if err := p.CanUpdateProject(a, project); !apperr.IsForbidden(err) {
			t.Errorf("actor %+v update: expected Forbidden, got %v", a, err)
		}
		if err := p.CanDeleteProject(a, project); !apperr.IsForbidden(err) {
			t.Errorf("actor %+v delete: expected Forbidden, got %v", a, err)
		}
	}
}

func TestCommentDeleteAdminOverride(t *testing.T) {
	p := New()
	comment := &model.Comment{ID: 1, AuthorID: 123}

	if err := p.CanDeleteComment(member, comment); !apperr.IsForbidden(err) {
		t.Fatalf("member delete: expected Forbidden, got %v", err)
	}
	if err := p.CanDeleteComment(admin, comment); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if err := p.CanDeleteComment(model.Actor{ID: 123}, comment); err != nil {
		t.Fatalf("author delete: %v", err)
	}
}

func TestCommentUpdateAuthorOnly(t *testing.T) {
	p := New()
	comment := &model.Comment{ID: 1, AuthorID: 123}

	if err := p.CanUpdateComment(model.Actor{ID: 123}, comment); err != nil {
		t.Fatalf("author update: %v", err)
	}
	if err := p.CanUpdateComment(admin, comment); !apperr.IsForbidden(err) {
		t.Fatalf("admin update: expected Forbidden, got %v", err)
	}
}

func TestTaskRules(t *testing.T) {
	p := New()
	assignee := int64(77)
	task := &model.Task{ID: 5, AuthorID: owner.ID, AssigneeID: &assignee}

	if err := p.CanUpdateTask(owner, task); err != nil {
		t.Errorf("author update: %v", err)
	}
	if err := p.CanUpdateTask(model.Actor{ID: assignee}, task); err != nil {
		t.Errorf("assignee update: %v", err)
	}
	if err := p.CanUpdateTask(admin, task); !apperr.IsForbidden(err) {
		t.Errorf("admin update: expected Forbidden, got %v", err)
	}
	if err := p.CanDeleteTask(model.Actor{ID: assignee}, task); !apperr.IsForbidden(err) {
		t.Errorf("assignee delete: expected Forbidden, got %v", err)
	}
	if err := p.CanDeleteTask(admin, task); err != nil {
		t.Errorf("admin delete: %v", err)
	}
}

func TestTaskCreateRule(t *testing.T) {
	project := &model.Project{ID: 1, OwnerID: owner.ID}
	if err := New().CanCreateTask(model.Actor{ID: 99}, project); err != nil {
		t.Fatalf("default rule should allow any actor: %v", err)
	}

	ownerOnly := New(WithTaskCreateRule(func(a model.Actor, p *model.Project) bool {
		return p.IsOwnedBy(a.ID)
	}))
	if err := ownerOnly.CanCreateTask(member, project); !apperr.IsForbidden(err) {
		t.Fatalf("expected Forbidden, got %v", err)
	}
	if err := ownerOnly.CanCreateTask(owner, project); err != nil {
		t.Fatalf("owner should be allowed: %v", err)
	}
}

func TestAdminRoleOverride(t *testing.T) {
	p := New(WithAdminRole("SUPERUSER"))
	if err := p.CanManageRoles(admin); !apperr.IsForbidden(err) {
		t.Fatalf("ADMIN is not the admin role here, got %v", err)
	}
	if err := p.CanManageRoles(model.Actor{ID: 1, Roles: []string{"SUPERUSER"}}); err != nil {
		t.Fatalf("SUPERUSER should manage roles: %v", err)
	}
}

func TestUserRules(t *testing.T) {
	p := New()
	u := &model.User{ID: member.ID}
	if err := p.CanUpdateUser(member, u); err != nil {
		t.Errorf("self update: %v", err)
	}
	if err := p.CanUpdateUser(owner, u); !apperr.IsForbidden(err) {
		t.Errorf("other update: expected Forbidden, got %v", err)
	}
	if err := p.CanManageUsers(member); !apperr.IsForbidden(err) {
		t.Errorf("member manage: expected Forbidden, got %v", err)
	}
	if err := p.CanManageUsers(model.Actor{ID: 2, Roles: []string{model.RoleAdmin}}); err != nil {
		t.Errorf("admin manage: %v", err)
	}
}
