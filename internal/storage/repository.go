package storage

import (
	"context"
	"errors"

	"github.com/taskmasterhq/taskmaster/internal/model"
)

// ErrNotFound reports a row that has never been written, such as the
// settings singleton on a fresh database. Callers fall back to defaults.
var ErrNotFound = errors.New("storage: not found")

// Repository is the durable side of the stores. The in-memory stores own the
// canonical state; Save operations replace the stored list wholesale (last
// write wins, single process assumed).
type Repository interface {
	LoadTasks(ctx context.Context) ([]model.Task, error)
	SaveTasks(ctx context.Context, tasks []model.Task) error

	LoadCategories(ctx context.Context) ([]model.Category, error)
	SaveCategories(ctx context.Context, categories []model.Category) error

	LoadSettings(ctx context.Context) (model.Settings, error)
	SaveSettings(ctx context.Context, settings model.Settings) error

	Reset(ctx context.Context) error
}
