package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/taskmasterhq/taskmaster/internal/model"
	"github.com/taskmasterhq/taskmaster/internal/storage"
)

type CategoryDraft struct {
	Name  string
	Color string
}

type CategoryPatch struct {
	Name  *string
	Color *string
}

// CategoryStore owns the category list. Deleting a category that tasks still
// reference is a two-phase workflow at the caller boundary: ask
// TaskStore.CountByCategory first, then on commit call Remove here followed by
// TaskStore.ClearCategory. The store itself never touches tasks.
type CategoryStore struct {
	mu         sync.RWMutex
	repo       storage.Repository
	categories []model.Category
}

func NewCategoryStore(repo storage.Repository) *CategoryStore {
	return &CategoryStore{repo: repo}
}

func (s *CategoryStore) Load(ctx context.Context) error {
	categories, err := s.repo.LoadCategories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
	return nil
}

func (s *CategoryStore) Add(ctx context.Context, draft CategoryDraft) (model.Category, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return model.Category{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat := model.Category{
		ID:    s.uniqueSlugLocked(model.Slugify(name)),
		Name:  name,
		Color: draft.Color,
	}
	if cat.Color == "" {
		cat.Color = "#4CAF50"
	}
	if err := cat.Validate(); err != nil {
		return model.Category{}, err
	}

	next := append(s.copyLocked(), cat)
	if err := s.repo.SaveCategories(ctx, next); err != nil {
		return model.Category{}, fmt.Errorf("persist categories: %w", err)
	}
	s.categories = next
	return cat, nil
}

func (s *CategoryStore) Update(ctx context.Context, id string, patch CategoryPatch) (model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Category{}, fmt.Errorf("%w: category %s", ErrNotFound, id)
	}

	cat := s.categories[idx]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return model.Category{}, ErrEmptyName
		}
		cat.Name = name
	}
	if patch.Color != nil {
		cat.Color = *patch.Color
	}
	if err := cat.Validate(); err != nil {
		return model.Category{}, err
	}

	next := s.copyLocked()
	next[idx] = cat
	if err := s.repo.SaveCategories(ctx, next); err != nil {
		return model.Category{}, fmt.Errorf("persist categories: %w", err)
	}
	s.categories = next
	return cat, nil
}

// Remove deletes the category and reports whether it existed.
func (s *CategoryStore) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return false
	}
	next := s.copyLocked()
	next = append(next[:idx], next[idx+1:]...)
	if err := s.repo.SaveCategories(ctx, next); err != nil {
		return false
	}
	s.categories = next
	return true
}

func (s *CategoryStore) FindByID(id string) (model.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Category{}, false
	}
	return s.categories[idx], true
}

func (s *CategoryStore) Snapshot() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Replace swaps the whole list, used by backup import.
func (s *CategoryStore) Replace(ctx context.Context, categories []model.Category) error {
	for _, c := range categories {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	next := make([]model.Category, len(categories))
	copy(next, categories)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SaveCategories(ctx, next); err != nil {
		return fmt.Errorf("persist categories: %w", err)
	}
	s.categories = next
	return nil
}

func (s *CategoryStore) indexLocked(id string) int {
	for i, c := range s.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *CategoryStore) copyLocked() []model.Category {
	out := make([]model.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *CategoryStore) uniqueSlugLocked(base string) string {
	if base == "" {
		base = "category"
	}
	slug := base
	for n := 2; s.indexLocked(slug) >= 0; n++ {
		slug = fmt.Sprintf("%s-%d", base, n)
	}
	return slug
}
