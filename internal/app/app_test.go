package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/paging"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := configFromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("configFromEnv: %v", err)
	}
	if cfg.LogLevel != logrus.WarnLevel || cfg.LogFormat != "text" {
		t.Fatalf("unexpected logging defaults: %v %s", cfg.LogLevel, cfg.LogFormat)
	}
	if len(cfg.SystemRoles) != 2 {
		t.Fatalf("expected ADMIN and MEMBER, got %v", cfg.SystemRoles)
	}
	if filepath.Base(cfg.DBPath) != "taskhub.db" {
		t.Fatalf("unexpected db path %s", cfg.DBPath)
	}
}

func TestConfigFromEnv(t *testing.T) {
	cfg, err := configFromEnv(envMap(map[string]string{
		EnvDataDir:     "/srv/taskhub",
		EnvLogLevel:    "debug",
		EnvLogFormat:   "JSON",
		EnvSystemRoles: "ADMIN, MEMBER ,AUDITOR,",
		EnvActorID:     "42",
		EnvActorRoles:  "ADMIN",
		EnvTheme:       "dracula",
	}))
	if err != nil {
		t.Fatalf("configFromEnv: %v", err)
	}
	if cfg.DBPath != filepath.Join("/srv/taskhub", "taskhub.db") {
		t.Fatalf("db path should follow data dir, got %s", cfg.DBPath)
	}
	if cfg.LogLevel != logrus.DebugLevel || cfg.LogFormat != "json" {
		t.Fatalf("unexpected logging config: %v %s", cfg.LogLevel, cfg.LogFormat)
	}
	if len(cfg.SystemRoles) != 3 || cfg.SystemRoles[2] != "AUDITOR" {
		t.Fatalf("unexpected system roles: %v", cfg.SystemRoles)
	}
	if cfg.Theme != "dracula" {
		t.Fatalf("unexpected theme %q", cfg.Theme)
	}
	if cfg.Actor.ID != 42 || !cfg.Actor.IsAdmin() {
		t.Fatalf("unexpected actor: %+v", cfg.Actor)
	}
}

func TestConfigRejectsInvalidValues(t *testing.T) {
	for key, value := range map[string]string{
		EnvLogLevel:  "chatty",
		EnvLogFormat: "xml",
		EnvActorID:   "abc",
		EnvTheme:     "solarized",
	} {
		if _, err := configFromEnv(envMap(map[string]string{key: value})); err == nil {
			t.Errorf("%s=%s: expected error", key, value)
		}
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	content := "TASKHUB_DB_PATH=" + filepath.Join(dir, "from-file.db") + "\nTASKHUB_ACTOR_ID=7\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvActorID, "")
	os.Unsetenv(EnvDBPath)
	os.Unsetenv(EnvActorID)

	cfg, err := LoadConfig(envFile)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "from-file.db") || cfg.Actor.ID != 7 {
		t.Fatalf("file values not applied: %+v", cfg)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.env")); err == nil {
		t.Fatalf("expected error for an explicit missing file")
	}
}

func TestNewWiresServices(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.DataDir = dir
	cfg.DBPath = filepath.Join(dir, "test.db")
	cfg.SystemRoles = []string{model.RoleAdmin, model.RoleMember, "AUDITOR"}

	logger, _ := test.NewNullLogger()
	ctx := context.Background()

	a, err := New(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	page, err := a.Roles.List(ctx, model.RoleFilter{}, paging.Default())
	if err != nil {
		t.Fatalf("list roles: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("expected configured system roles to exist, got %d", page.Total)
	}

	actor := model.Actor{ID: 1}
	p, err := a.Projects.Create(ctx, actor, model.NewProject{Name: "P1"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := a.Tasks.Create(ctx, actor, model.NewTask{ProjectID: p.ID, Title: "T1"}); err != nil {
		t.Fatalf("create task: %v", err)
	}
}
