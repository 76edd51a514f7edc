package storage

import (
	"context"
	"sync"

	"github.com/taskmasterhq/taskmaster/internal/model"
)

// MemoryRepository keeps everything in process. It is the Repository test
// double for the store and TUI tests.
type MemoryRepository struct {
	mu         sync.RWMutex
	tasks      []model.Task
	categories []model.Category
	settings   *model.Settings
	seededCats bool
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) LoadTasks(ctx context.Context) ([]model.Task, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Task, len(r.tasks))
	copy(out, r.tasks)
	return out, nil
}

func (r *MemoryRepository) SaveTasks(ctx context.Context, tasks []model.Task) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = make([]model.Task, len(tasks))
	copy(r.tasks, tasks)
	return nil
}

func (r *MemoryRepository) LoadCategories(ctx context.Context) ([]model.Category, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.categories) == 0 && !r.seededCats {
		r.categories = model.DefaultCategories()
		r.seededCats = true
	}
	out := make([]model.Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

func (r *MemoryRepository) SaveCategories(ctx context.Context, categories []model.Category) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories = make([]model.Category, len(categories))
	copy(r.categories, categories)
	r.seededCats = true
	return nil
}

func (r *MemoryRepository) LoadSettings(ctx context.Context) (model.Settings, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.settings == nil {
		return model.Settings{}, ErrNotFound
	}
	return *r.settings, nil
}

func (r *MemoryRepository) SaveSettings(ctx context.Context, settings model.Settings) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = &settings
	return nil
}

func (r *MemoryRepository) Reset(ctx context.Context) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = nil
	r.categories = nil
	r.settings = nil
	r.seededCats = true
	return nil
}
