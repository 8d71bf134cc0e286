package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dori/taskhub/internal/apperr"
)

type runner struct {
	t      *testing.T
	dbPath string
}

func newRunner(t *testing.T) *runner {
	return &runner{t: t, dbPath: filepath.Join(t.TempDir(), "test.db")}
}

// run executes a command as actor with roles and returns exit code and output
func (r *runner) run(actor, roles string, args ...string) (int, string, string) {
	r.t.Helper()
	var stdout, stderr bytes.Buffer
	full := []string{"--db", r.dbPath}
	if actor != "" {
		full = append(full, "--actor", actor)
	}
	if roles != "" {
		full = append(full, "--roles", roles)
	}
	full = append(full, args...)
	code := Run(context.Background(), full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func (r *runner) mustRun(actor, roles string, args ...string) string {
	r.t.Helper()
	code, out, errOut := r.run(actor, roles, args...)
	if code != ExitOK {
		r.t.Fatalf("%v: exit %d\nstdout: %s\nstderr: %s", args, code, out, errOut)
	}
	return out
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{apperr.NotFound("task", 1), ExitNotFound},
		{apperr.Forbidden("no"), ExitForbidden},
		{apperr.Conflict("tag", "x"), ExitConflict},
		{apperr.Validation("name", "empty"), ExitValidation},
		{apperr.Internal(errors.New("disk")), ExitInternal},
		{errors.New("raw"), ExitInternal},
	}
	for _, tc := range cases {
		if got := ExitCode(tc.err); got != tc.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestHelpAndVersion(t *testing.T) {
	r := newRunner(t)
	if code, out, _ := r.run("", "", "help"); code != ExitOK || !strings.Contains(out, "Usage:") {
		t.Fatalf("help: exit %d, %q", code, out)
	}
	if code, out, _ := r.run("", "", "version"); code != ExitOK || !strings.Contains(out, Version) {
		t.Fatalf("version: exit %d, %q", code, out)
	}
	if code, _, _ := r.run("", "", "bogus"); code != ExitValidation {
		t.Fatalf("unknown command: exit %d", code)
	}
	if code, _, errOut := r.run("", "", "task", "bogus"); code != ExitValidation || !strings.Contains(errOut, "taskhub task update") {
		t.Fatalf("unknown subcommand: exit %d, %q", code, errOut)
	}
}

func TestProjectWorkflow(t *testing.T) {
	r := newRunner(t)

	out := r.mustRun("1", "", "project", "create", "--name", "Launch", "--desc", "Q4 launch")
	if !strings.Contains(out, "Launch") || !strings.Contains(out, "Project #1") {
		t.Fatalf("unexpected create output: %s", out)
	}

	out = r.mustRun("1", "", "task", "create", "--project", "1", "--title", "Write notes", "--priority", "high")
	if !strings.Contains(out, "HIGH") || !strings.Contains(out, "TODO") {
		t.Fatalf("unexpected task output: %s", out)
	}

	out = r.mustRun("", "", "project", "list")
	if !strings.Contains(out, "Launch") || !strings.Contains(out, "1 total") {
		t.Fatalf("unexpected list output: %s", out)
	}

	out = r.mustRun("", "", "project", "get", "1", "--tasks")
	if !strings.Contains(out, "Write notes") {
		t.Fatalf("expected tasks in output: %s", out)
	}

	// A non-owner, even an administrator, cannot touch the project.
	if code, _, _ := r.run("2", "ADMIN", "project", "update", "1", "--name", "Mine"); code != ExitForbidden {
		t.Fatalf("non-owner update: exit %d", code)
	}
	if code, _, _ := r.run("2", "ADMIN", "project", "delete", "1"); code != ExitForbidden {
		t.Fatalf("non-owner delete: exit %d", code)
	}

	out = r.mustRun("1", "", "project", "update", "1", "--clear-desc")
	if strings.Contains(out, "Q4 launch") {
		t.Fatalf("description should be cleared: %s", out)
	}

	r.mustRun("1", "", "project", "delete", "1")
	if code, _, _ := r.run("", "", "task", "get", "1"); code != ExitNotFound {
		t.Fatalf("task should be gone with its project: exit %d", code)
	}
}

func TestMutationsRequireActor(t *testing.T) {
	r := newRunner(t)
	code, _, errOut := r.run("", "", "project", "create", "--name", "P")
	if code != ExitValidation || !strings.Contains(errOut, "actor") {
		t.Fatalf("expected missing actor failure, got %d %q", code, errOut)
	}
}

func TestInputValidation(t *testing.T) {
	r := newRunner(t)
	cases := [][]string{
		{"project", "create", "--name", ""},
		{"tag", "create", "--name", "x", "--color", "red"},
		{"task", "create", "--project", "1", "--title", "T", "--status", "BLOCKED"},
		{"task", "get", "abc"},
		{"task", "list", "--limit", "500"},
		{"role", "create", "--name", "lowercase"},
		{"user", "register", "--email", "not-an-email"},
	}
	for _, args := range cases {
		if code, _, _ := r.run("1", "ADMIN", args...); code != ExitValidation {
			t.Errorf("%v: exit %d, want %d", args, code, ExitValidation)
		}
	}
}

func TestTagWorkflow(t *testing.T) {
	r := newRunner(t)
	r.mustRun("1", "", "project", "create", "--name", "P1")
	r.mustRun("1", "", "task", "create", "--project", "1", "--title", "T1")
	r.mustRun("1", "", "tag", "create", "--name", "urgent", "--color", "#FF0000")

	if code, _, _ := r.run("1", "", "tag", "create", "--name", "urgent"); code != ExitConflict {
		t.Fatalf("duplicate tag: exit %d", code)
	}

	// Keeping the same name while changing color is fine.
	r.mustRun("1", "", "tag", "update", "1", "--name", "urgent", "--color", "#00FF00")

	out := r.mustRun("1", "", "task", "tag", "1", "1")
	if !strings.Contains(out, "urgent") {
		t.Fatalf("expected tag on task: %s", out)
	}
	if code, _, _ := r.run("1", "", "task", "tag", "1", "1"); code != ExitConflict {
		t.Fatalf("double attach: exit %d", code)
	}
	if code, _, _ := r.run("1", "", "task", "tag", "1", "9"); code != ExitNotFound {
		t.Fatalf("missing tag: exit %d", code)
	}

	r.mustRun("1", "", "task", "untag", "1", "1")
	r.mustRun("1", "", "task", "untag", "1", "1")

	out = r.mustRun("", "", "tag", "list", "--search", "URG")
	if !strings.Contains(out, "urgent") {
		t.Fatalf("search should be case-insensitive: %s", out)
	}
}

func TestQuickAdd(t *testing.T) {
	r := newRunner(t)
	r.mustRun("1", "", "project", "create", "--name", "P1")
	r.mustRun("1", "", "tag", "create", "--name", "work")

	out := r.mustRun("1", "", "task", "add", "--project", "1", "Review", "PR", "@work", "@new", "!high")
	for _, want := range []string{"Review PR", "HIGH", "work", "new"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %s", want, out)
		}
	}

	out = r.mustRun("", "", "tag", "list")
	if !strings.Contains(out, "2 total") {
		t.Fatalf("quick add should create only the missing tag: %s", out)
	}

	if code, _, _ := r.run("1", "", "task", "add", "--project", "7", "Orphan", "@ghost"); code != ExitNotFound {
		t.Fatalf("missing project: exit %d", code)
	}
	out = r.mustRun("", "", "tag", "list", "--search", "ghost")
	if !strings.Contains(out, "no results") {
		t.Fatalf("failed quick add should not leave tags behind: %s", out)
	}
}

func TestCommentWorkflow(t *testing.T) {
	r := newRunner(t)
	r.mustRun("1", "", "project", "create", "--name", "P1")
	r.mustRun("1", "", "task", "create", "--project", "1", "--title", "T1")
	r.mustRun("123", "MEMBER", "comment", "add", "--task", "1", "Looks", "good")

	out := r.mustRun("", "", "comment", "list", "1")
	if !strings.Contains(out, "Looks good") {
		t.Fatalf("unexpected comments: %s", out)
	}

	if code, _, _ := r.run("456", "MEMBER", "comment", "update", "1", "hijack"); code != ExitForbidden {
		t.Fatalf("non-author update: exit %d", code)
	}
	if code, _, _ := r.run("456", "MEMBER", "comment", "delete", "1"); code != ExitForbidden {
		t.Fatalf("member delete: exit %d", code)
	}
	r.mustRun("456", "ADMIN", "comment", "delete", "1")

	if code, _, _ := r.run("", "", "comment", "list", "99"); code != ExitNotFound {
		t.Fatalf("comments of missing task: exit %d", code)
	}
}

func TestUserAndRoleWorkflow(t *testing.T) {
	r := newRunner(t)

	out := r.mustRun("", "", "user", "register", "--email", "ada@example.com", "--first", "Ada")
	if !strings.Contains(out, "MEMBER") {
		t.Fatalf("new users get MEMBER: %s", out)
	}
	if code, _, _ := r.run("", "", "user", "register", "--email", "Ada@Example.com"); code != ExitConflict {
		t.Fatalf("duplicate email: exit %d", code)
	}

	if code, _, _ := r.run("1", "MEMBER", "role", "create", "--name", "REVIEWER"); code != ExitForbidden {
		t.Fatalf("member role create: exit %d", code)
	}
	r.mustRun("1", "ADMIN", "role", "create", "--name", "REVIEWER")

	out = r.mustRun("1", "ADMIN", "user", "grant", "1", "REVIEWER")
	if !strings.Contains(out, "REVIEWER") {
		t.Fatalf("expected granted role: %s", out)
	}
	if code, _, _ := r.run("1", "ADMIN", "user", "grant", "1", "REVIEWER"); code != ExitConflict {
		t.Fatalf("double grant: exit %d", code)
	}

	out = r.mustRun("", "", "role", "list")
	if !strings.Contains(out, "ADMIN") || !strings.Contains(out, "yes") {
		t.Fatalf("system roles should be marked: %s", out)
	}
	if code, _, _ := r.run("1", "ADMIN", "role", "delete", "1"); code != ExitForbidden {
		t.Fatalf("system role delete: exit %d", code)
	}

	out = r.mustRun("1", "ADMIN", "user", "deactivate", "1")
	if !strings.Contains(out, "inactive") {
		t.Fatalf("expected inactive user: %s", out)
	}
	out = r.mustRun("", "", "user", "list", "--active", "false")
	if !strings.Contains(out, "ada@example.com") {
		t.Fatalf("expected inactive user in list: %s", out)
	}
}
