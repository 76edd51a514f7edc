package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskmasterhq/taskmaster/internal/calendar"
	"github.com/taskmasterhq/taskmaster/internal/model"
	"github.com/taskmasterhq/taskmaster/internal/store"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "h", "left":
		m.shiftMonth(-1)
	case "l", "right":
		m.shiftMonth(1)
	case "up", "k":
		m.shiftSelectedDay(-7)
	case "down", "j":
		m.shiftSelectedDay(7)
	case "H":
		m.shiftSelectedDay(-1)
	case "L":
		m.shiftSelectedDay(1)
	case "t":
		today := m.now()
		m.Calendar.Year, m.Calendar.Month = today.Year(), today.Month()
		m.Calendar.SelectedDay = today.Day()
		m.Status = StatusBar{Text: "calendar: today", IsError: false}
	case "enter":
		m.CurrentView = ViewTasks
		m.SearchQuery = ""
		m.focusSelectedDayTasks()
	}
	return m
}

func (m *Model) shiftMonth(delta int) {
	year, month := calendar.NormalizeMonth(m.Calendar.Year, int(m.Calendar.Month)+delta)
	m.Calendar.Year, m.Calendar.Month = year, month
	if max := calendar.DaysIn(year, month); m.Calendar.SelectedDay > max {
		m.Calendar.SelectedDay = max
	}
	m.Status = StatusBar{Text: fmt.Sprintf("calendar: %s %d", month, year), IsError: false}
}

func (m *Model) shiftSelectedDay(delta int) {
	day := m.Calendar.SelectedDay + delta
	max := calendar.DaysIn(m.Calendar.Year, m.Calendar.Month)
	switch {
	case day < 1:
		m.shiftMonth(-1)
		m.Calendar.SelectedDay = calendar.DaysIn(m.Calendar.Year, m.Calendar.Month) + day
	case day > max:
		m.shiftMonth(1)
		m.Calendar.SelectedDay = day - max
	default:
		m.Calendar.SelectedDay = day
	}
	if m.Calendar.SelectedDay < 1 {
		m.Calendar.SelectedDay = 1
	}
}

// focusSelectedDayTasks moves the task cursor to the first task due on the
// selected calendar day.
func (m *Model) focusSelectedDayTasks() {
	tasks := m.selectedDayTasks()
	if len(tasks) == 0 {
		m.Status = StatusBar{Text: "no tasks on selected day", IsError: false}
		return
	}
	m.refreshVisibleTasks()
	for i, t := range m.Tasks.Visible {
		if t.ID == tasks[0].ID {
			m.Tasks.Cursor = i
			break
		}
	}
	m.syncSelectedTask()
}

func (m Model) selectedDayDate() string {
	return time.Date(m.Calendar.Year, m.Calendar.Month, m.Calendar.SelectedDay, 0, 0, 0, 0, time.Local).Format(model.DueDateLayout)
}

func (m Model) selectedDayTasks() []model.Task {
	if m.taskStore == nil {
		return nil
	}
	tasks := m.taskStore.ByDueDate(m.selectedDayDate())
	return store.Sort(tasks, store.SortDateAsc)
}

func (m Model) monthCells() []calendar.Cell {
	var tasks []model.Task
	if m.taskStore != nil {
		tasks = m.taskStore.Snapshot()
	}
	return calendar.BuildMonth(m.Calendar.Year, m.Calendar.Month, tasks, m.now())
}

func (m Model) dayTableRows() []table.Row {
	tasks := m.selectedDayTasks()
	rows := make([]table.Row, 0, len(tasks))
	for _, t := range tasks {
		timeCol := t.DueTime
		if timeCol == "" {
			timeCol = "--:--"
		}
		rows = append(rows, table.Row{timeCol, string(t.Priority), t.Title})
	}
	return rows
}
