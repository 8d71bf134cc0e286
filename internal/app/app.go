package app

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dori/taskhub/internal/db"
	"github.com/dori/taskhub/internal/policy"
	"github.com/dori/taskhub/internal/service"
)

// App holds the application state and dependencies
type App struct {
	DB     *db.DB
	Log    *logrus.Logger
	Config *Config

	Projects *service.ProjectService
	Tasks    *service.TaskService
	Tags     *service.TagService
	Comments *service.CommentService
	Users    *service.UserService
	Roles    *service.RoleService
}

// New opens the database described by cfg and wires the services. A nil
// logger is built from cfg.
func New(ctx context.Context, cfg *Config, logger *logrus.Logger) (*App, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = NewLogger(cfg)
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	database, err := db.Open(cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pol := policy.New()
	a := &App{
		DB:       database,
		Log:      logger,
		Config:   cfg,
		Projects: service.NewProjectService(database, logger, pol),
		Tasks:    service.NewTaskService(database, logger, pol),
		Tags:     service.NewTagService(database, logger, pol),
		Comments: service.NewCommentService(database, logger, pol),
		Users:    service.NewUserService(database, logger, pol),
		Roles:    service.NewRoleService(database, logger, pol, cfg.SystemRoles),
	}

	if err := a.Roles.EnsureSystemRoles(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create system roles: %w", err)
	}

	return a, nil
}

// Close cleans up application resources
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
