// Package store owns the canonical in-memory task and category lists.
// Every mutation goes through a store operation, refreshes the entity's
// UpdatedAt and writes the full list through to the repository; when the
// write fails the in-memory state is left untouched. Query results are
// copies and must not be mutated by callers.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskmasterhq/taskmaster/internal/model"
	"github.com/taskmasterhq/taskmaster/internal/storage"
)

var (
	ErrEmptyTitle = errors.New("store: task title is required")
	ErrEmptyName  = errors.New("store: category name is required")
	ErrNotFound   = errors.New("store: not found")
)

type FilterTag string

const (
	FilterAll       FilterTag = "all"
	FilterCompleted FilterTag = "completed"
	FilterPending   FilterTag = "pending"
)

type SortKey string

const (
	SortDateAsc      SortKey = "date-asc"
	SortDateDesc     SortKey = "date-desc"
	SortPriorityAsc  SortKey = "priority-asc"
	SortPriorityDesc SortKey = "priority-desc"
	SortCreatedDesc  SortKey = "created-desc"
)

// TaskDraft is the creation input. Zero-valued optional fields take the
// documented defaults (medium priority, no reminder).
type TaskDraft struct {
	Title       string
	Description string
	Category    string
	Priority    model.Priority
	DueDate     string
	DueTime     string
	Reminder    model.ReminderLead
}

// TaskPatch is a partial update: only non-nil fields are applied.
type TaskPatch struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *model.Priority
	DueDate     *string
	DueTime     *string
	Reminder    *model.ReminderLead
	Completed   *bool
}

type TaskStore struct {
	mu    sync.RWMutex
	repo  storage.Repository
	tasks []model.Task
	now   func() time.Time
}

func NewTaskStore(repo storage.Repository, now func() time.Time) *TaskStore {
	if now == nil {
		now = time.Now
	}
	return &TaskStore{repo: repo, now: now}
}

// Load replaces the in-memory list with the repository's contents.
func (s *TaskStore) Load(ctx context.Context) error {
	tasks, err := s.repo.LoadTasks(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

func (s *TaskStore) Add(ctx context.Context, draft TaskDraft) (model.Task, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return model.Task{}, ErrEmptyTitle
	}
	now := s.now()
	task := model.Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(draft.Title),
		Description: draft.Description,
		Category:    draft.Category,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
		DueTime:     draft.DueTime,
		Reminder:    draft.Reminder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.Reminder == "" {
		task.Reminder = model.ReminderNone
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := append(s.copyLocked(), task)
	if err := s.repo.SaveTasks(ctx, next); err != nil {
		return model.Task{}, fmt.Errorf("persist tasks: %w", err)
	}
	s.tasks = next
	return task, nil
}

func (s *TaskStore) Update(ctx context.Context, id string, patch TaskPatch) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Task{}, fmt.Errorf("%w: task %s", ErrNotFound, id)
	}

	task := s.tasks[idx]
	dueChanged := false
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return model.Task{}, ErrEmptyTitle
		}
		task.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Category != nil {
		task.Category = *patch.Category
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil && *patch.DueDate != task.DueDate {
		task.DueDate = *patch.DueDate
		dueChanged = true
	}
	if patch.DueTime != nil && *patch.DueTime != task.DueTime {
		task.DueTime = *patch.DueTime
		dueChanged = true
	}
	if patch.Reminder != nil && *patch.Reminder != task.Reminder {
		task.Reminder = *patch.Reminder
		dueChanged = true
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if dueChanged {
		// A moved deadline or changed lead re-arms the reminder.
		task.NotifiedAt = nil
	}
	task.UpdatedAt = s.now()
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}

	next := s.copyLocked()
	next[idx] = task
	if err := s.repo.SaveTasks(ctx, next); err != nil {
		return model.Task{}, fmt.Errorf("persist tasks: %w", err)
	}
	s.tasks = next
	return task, nil
}

// Remove deletes the task and reports whether it existed. Deleting a missing
// id is not an error.
func (s *TaskStore) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return false
	}
	next := s.copyLocked()
	next = append(next[:idx], next[idx+1:]...)
	if err := s.repo.SaveTasks(ctx, next); err != nil {
		return false
	}
	s.tasks = next
	return true
}

// ToggleCompletion flips the completed flag. The second return is false when
// the task does not exist.
func (s *TaskStore) ToggleCompletion(ctx context.Context, id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Task{}, false
	}
	task := s.tasks[idx]
	task.Completed = !task.Completed
	task.UpdatedAt = s.now()

	next := s.copyLocked()
	next[idx] = task
	if err := s.repo.SaveTasks(ctx, next); err != nil {
		return model.Task{}, false
	}
	s.tasks = next
	return task, true
}

// MarkNotified records the reminder de-dup marker after a reminder has been
// surfaced to the user.
func (s *TaskStore) MarkNotified(ctx context.Context, id string, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return false
	}
	task := s.tasks[idx]
	task.NotifiedAt = &at
	task.UpdatedAt = s.now()

	next := s.copyLocked()
	next[idx] = task
	if err := s.repo.SaveTasks(ctx, next); err != nil {
		return false
	}
	s.tasks = next
	return true
}

func (s *TaskStore) FindByID(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Task{}, false
	}
	return s.tasks[idx], true
}

func (s *TaskStore) Snapshot() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Replace swaps the whole list, used by backup import. The incoming tasks are
// validated before anything is applied.
func (s *TaskStore) Replace(ctx context.Context, tasks []model.Task) error {
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	next := make([]model.Task, len(tasks))
	copy(next, tasks)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SaveTasks(ctx, next); err != nil {
		return fmt.Errorf("persist tasks: %w", err)
	}
	s.tasks = next
	return nil
}

func (s *TaskStore) ByCategory(categoryID string) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if t.Category == categoryID {
			out = append(out, t)
		}
	}
	return out
}

// ByDueDate matches on the calendar date component only; time of day is
// ignored.
func (s *TaskStore) ByDueDate(date string) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if t.DueDate != "" && t.DueDate == date {
			out = append(out, t)
		}
	}
	return out
}

// Search matches a case-insensitive substring over title or description.
// An empty query returns the full list.
func (s *TaskStore) Search(query string) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if query == "" {
		return s.copyLocked()
	}
	term := strings.ToLower(query)
	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if strings.Contains(strings.ToLower(t.Title), term) || strings.Contains(strings.ToLower(t.Description), term) {
			out = append(out, t)
		}
	}
	return out
}

// CountByCategory supports the delete-category confirmation step.
func (s *TaskStore) CountByCategory(categoryID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, t := range s.tasks {
		if t.Category == categoryID {
			n++
		}
	}
	return n
}

// ClearCategory blanks the category field on every referencing task and
// returns how many were touched. No other task field changes.
func (s *TaskStore) ClearCategory(ctx context.Context, categoryID string) int {
	if categoryID == "" {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyLocked()
	cleared := 0
	now := s.now()
	for i := range next {
		if next[i].Category == categoryID {
			next[i].Category = ""
			next[i].UpdatedAt = now
			cleared++
		}
	}
	if cleared == 0 {
		return 0
	}
	if err := s.repo.SaveTasks(ctx, next); err != nil {
		return 0
	}
	s.tasks = next
	return cleared
}

// Progress is the completed percentage, rounded; 0 for an empty store.
func (s *TaskStore) Progress() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.tasks) == 0 {
		return 0
	}
	completed := 0
	for _, t := range s.tasks {
		if t.Completed {
			completed++
		}
	}
	return int(float64(completed)/float64(len(s.tasks))*100 + 0.5)
}

func (s *TaskStore) indexLocked(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskStore) copyLocked() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Filter is pure: it never mutates its input.
func Filter(tasks []model.Task, tag FilterTag) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		switch tag {
		case FilterCompleted:
			if t.Completed {
				out = append(out, t)
			}
		case FilterPending:
			if !t.Completed {
				out = append(out, t)
			}
		default:
			out = append(out, t)
		}
	}
	return out
}

// Sort returns a sorted copy. Tasks without a due date sort after dated ones
// for both date directions; ties keep their input order.
func Sort(tasks []model.Task, key SortKey) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)

	switch key {
	case SortDateAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return lessByDate(out[i], out[j], false)
		})
	case SortDateDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return lessByDate(out[i], out[j], true)
		})
	case SortPriorityAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	case SortPriorityDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() > out[j].Priority.Rank()
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

func lessByDate(a, b model.Task, desc bool) bool {
	if a.DueDate == "" {
		return false
	}
	if b.DueDate == "" {
		return true
	}
	if desc {
		return a.DueDate > b.DueDate
	}
	return a.DueDate < b.DueDate
}
