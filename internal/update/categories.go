package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskmasterhq/taskmaster/internal/model"
	"github.com/taskmasterhq/taskmaster/internal/store"
)

func (m Model) handleCategoriesKey(msg tea.KeyMsg) Model {
	if m.Categories.PendingDelete != "" {
		switch msg.String() {
		case "y", "enter":
			m.confirmCategoryDelete()
		case "n", "esc":
			m.Categories.PendingDelete = ""
			m.Categories.PendingCount = 0
			m.Status = StatusBar{Text: "delete cancelled", IsError: false}
		}
		return m
	}

	switch msg.String() {
	case "up", "k":
		if m.Categories.Cursor > 0 {
			m.Categories.Cursor--
		}
	case "down", "j":
		if m.Categories.Cursor < len(m.categoryItems())-1 {
			m.Categories.Cursor++
		}
	case "d", "x":
		m.requestCategoryDelete()
	}
	return m
}

// requestCategoryDelete starts the confirmation step. Deleting a category
// never deletes its tasks; they are detached on confirm.
func (m *Model) requestCategoryDelete() {
	cat, ok := m.selectedCategory()
	if !ok {
		return
	}
	count := 0
	if m.taskStore != nil {
		count = m.taskStore.CountByCategory(cat.ID)
	}
	m.Categories.PendingDelete = cat.ID
	m.Categories.PendingCount = count
	m.Status = StatusBar{
		Text:    fmt.Sprintf("delete %s? %d task(s) will lose their category [y/n]", cat.Name, count),
		IsError: false,
	}
}

func (m *Model) confirmCategoryDelete() {
	id := m.Categories.PendingDelete
	m.Categories.PendingDelete = ""
	m.Categories.PendingCount = 0
	if m.categoryStore == nil || id == "" {
		return
	}
	ctx := context.Background()
	cleared := 0
	if m.taskStore != nil {
		cleared = m.taskStore.ClearCategory(ctx, id)
	}
	if !m.categoryStore.Remove(ctx, id) {
		m.Status = StatusBar{Text: "category not found", IsError: true}
		return
	}
	if m.Categories.Cursor >= len(m.categoryItems()) && m.Categories.Cursor > 0 {
		m.Categories.Cursor--
	}
	m.refreshVisibleTasks()
	m.Status = StatusBar{Text: fmt.Sprintf("category removed, %d task(s) detached", cleared), IsError: false}
}

func (m *Model) addCategory(draft store.CategoryDraft) (model.Category, error) {
	if m.categoryStore == nil {
		return model.Category{}, store.ErrNotFound
	}
	return m.categoryStore.Add(context.Background(), draft)
}

func (m Model) categoryItems() []model.Category {
	if m.categoryStore == nil {
		return nil
	}
	return m.categoryStore.Snapshot()
}

func (m Model) selectedCategory() (model.Category, bool) {
	items := m.categoryItems()
	if m.Categories.Cursor < 0 || m.Categories.Cursor >= len(items) {
		return model.Category{}, false
	}
	return items[m.Categories.Cursor], true
}
