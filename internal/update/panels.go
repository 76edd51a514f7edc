package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskmasterhq/taskmaster/internal/views"
)

func (m Model) renderTasksView() string {
	items := make([]views.TaskItemData, 0, len(m.Tasks.Visible))
	now := m.now()
	for _, t := range m.Tasks.Visible {
		due := t.DueDate
		if t.DueTime != "" {
			due += " " + t.DueTime
		}
		overdue := false
		if at, ok := t.DueAt(now.Location()); ok {
			overdue = !t.Completed && at.Before(now)
		}
		items = append(items, views.TaskItemData{
			ID:        t.ID,
			Title:     t.Title,
			Category:  m.categoryName(t.Category),
			Priority:  string(t.Priority),
			Due:       due,
			Completed: t.Completed,
			Overdue:   overdue,
		})
	}
	progressPct := 0
	if m.taskStore != nil {
		progressPct = m.taskStore.Progress()
	}
	return views.RenderTaskListPanel(views.TaskListPanelData{
		QuickAddView: m.quickAddInput.View(),
		ListView:     m.taskList.View(),
		Items:        items,
		SelectedID:   m.SelectedTaskID,
		FilterLabel:  string(m.Filter),
		SortLabel:    string(m.Sort),
		SearchQuery:  m.SearchQuery,
		ProgressView: m.doneProgress.ViewAs(float64(progressPct) / 100),
		ProgressPct:  progressPct,
	})
}

func (m Model) renderCalendarView() string {
	cells := m.monthCells()
	data := make([]views.CalendarCellData, 0, len(cells))
	for _, c := range cells {
		data = append(data, views.CalendarCellData{
			Day:       c.Day,
			InMonth:   c.InCurrentMonth,
			IsToday:   c.IsToday,
			Selected:  c.InCurrentMonth && c.Day == m.Calendar.SelectedDay,
			TaskCount: len(c.Tasks),
		})
	}
	return views.RenderCalendarPanel(views.CalendarPanelData{
		MonthLabel: fmt.Sprintf("%s %d", m.Calendar.Month, m.Calendar.Year),
		Cells:      data,
		DayLabel:   m.selectedDayDate(),
		DayTable:   m.dayTable.View(),
	})
}

func (m Model) renderCategoriesView() string {
	cats := m.categoryItems()
	items := make([]views.CategoryItemData, 0, len(cats))
	selectedID := ""
	for i, c := range cats {
		count := 0
		if m.taskStore != nil {
			count = m.taskStore.CountByCategory(c.ID)
		}
		if i == m.Categories.Cursor {
			selectedID = c.ID
		}
		items = append(items, views.CategoryItemData{
			ID:        c.ID,
			Name:      c.Name,
			Color:     c.Color,
			TaskCount: count,
		})
	}
	prompt := ""
	if m.Categories.PendingDelete != "" {
		prompt = fmt.Sprintf("delete category? %d task(s) will be detached [y/n]", m.Categories.PendingCount)
	}
	return views.RenderCategoriesPanel(views.CategoriesPanelData{
		Items:         items,
		SelectedID:    selectedID,
		ConfirmPrompt: prompt,
	})
}

func (m Model) renderTaskDetailPane() string {
	sel, ok := m.selectedTask()
	if !ok {
		return "detail:\n(no selection)"
	}
	due := sel.DueDate
	if sel.DueTime != "" {
		due += " " + sel.DueTime
	}
	return views.RenderTaskDetailPane(views.TaskDetailData{
		SelectedID:   sel.ID,
		Priority:     string(sel.Priority),
		Category:     m.categoryName(sel.Category),
		Due:          due,
		Reminder:     string(sel.Reminder),
		MarkdownView: m.detailViewport.View(),
	})
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m Model) categoryName(id string) string {
	if id == "" || m.categoryStore == nil {
		return ""
	}
	if cat, ok := m.categoryStore.FindByID(id); ok {
		return cat.Name
	}
	return id
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		_ = m.notifier.Send(n)
	}
}
