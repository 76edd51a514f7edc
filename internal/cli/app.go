package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/taskmasterhq/taskmaster/internal/config"
	"github.com/taskmasterhq/taskmaster/internal/model"
	"github.com/taskmasterhq/taskmaster/internal/scheduler"
	"github.com/taskmasterhq/taskmaster/internal/storage"
	"github.com/taskmasterhq/taskmaster/internal/store"
)

// App bundles the loaded data layer for a CLI invocation.
type App struct {
	Config     config.Config
	Repo       storage.Repository
	Tasks      *store.TaskStore
	Categories *store.CategoryStore
	Settings   model.Settings
	Engine     *scheduler.Engine
	Now        func() time.Time

	closer interface{ Close() error }
}

func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func bootstrap(ctx context.Context) (*App, error) {
	cfg, err := config.Load(configDirFlag)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
	}

	repo, err := storage.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tasks := store.NewTaskStore(repo, time.Now)
	if err := tasks.Load(ctx); err != nil {
		repo.Close()
		return nil, err
	}
	categories := store.NewCategoryStore(repo)
	if err := categories.Load(ctx); err != nil {
		repo.Close()
		return nil, err
	}
	settings, err := repo.LoadSettings(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		settings = model.DefaultSettings()
	} else if err != nil {
		repo.Close()
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	return &App{
		Config:     cfg,
		Repo:       repo,
		Tasks:      tasks,
		Categories: categories,
		Settings:   settings,
		Engine:     scheduler.NewEngine(cfg.SchedulerBuffer),
		Now:        time.Now,
		closer:     repo,
	}, nil
}
