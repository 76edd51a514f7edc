package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskmasterhq/taskmaster/internal/scheduler"
	"github.com/taskmasterhq/taskmaster/internal/store"
)

func (m Model) handleTasksKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "a", "i":
		m.Tasks.CaptureMode = true
		m.quickAddInput.Focus()
		m.Status = StatusBar{Text: "quick add mode", IsError: false}
	case "up", "k":
		if m.Tasks.Cursor > 0 {
			m.Tasks.Cursor--
		}
		m.syncSelectedTask()
	case "down", "j":
		if m.Tasks.Cursor < len(m.Tasks.Visible)-1 {
			m.Tasks.Cursor++
		}
		m.syncSelectedTask()
	case " ":
		m.toggleSelectedTask()
	case "x":
		m.removeSelectedTask()
	case "f":
		m.cycleFilter()
	case "s":
		m.cycleSort()
	case "esc":
		if m.SearchQuery != "" {
			m.SearchQuery = ""
			m.refreshVisibleTasks()
			m.Status = StatusBar{Text: "search cleared", IsError: false}
		}
	}
	return m
}

func (m Model) handleQuickAddKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Tasks.CaptureMode = false
		m.quickAddInput.Blur()
		m.quickAddInput.SetValue("")
		m.Status = StatusBar{Text: "task list mode", IsError: false}
		return m
	case "enter":
		m.quickAdd(m.quickAddInput.Value())
		m.quickAddInput.SetValue("")
		return m
	}
	if msg.Type == tea.KeyRunes {
		m.quickAddInput.SetValue(m.quickAddInput.Value() + string(msg.Runes))
		return m
	}
	var cmd tea.Cmd
	m.quickAddInput, cmd = m.quickAddInput.Update(msg)
	_ = cmd
	return m
}

func (m *Model) quickAdd(raw string) {
	if m.taskStore == nil {
		return
	}
	draft, err := parseQuickAdd(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	task, err := m.taskStore.Add(context.Background(), draft)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.refreshVisibleTasks()
	m.rearmScheduler()
	m.Status = StatusBar{Text: fmt.Sprintf("task added: %s", task.Title), IsError: false}
}

func (m *Model) toggleSelectedTask() {
	if m.taskStore == nil {
		return
	}
	sel, ok := m.selectedTask()
	if !ok {
		return
	}
	task, ok := m.taskStore.ToggleCompletion(context.Background(), sel.ID)
	if !ok {
		m.Status = StatusBar{Text: "task not found", IsError: true}
		return
	}
	m.refreshVisibleTasks()
	m.rearmScheduler()
	state := "pending"
	if task.Completed {
		state = "done"
	}
	m.Status = StatusBar{Text: fmt.Sprintf("task %s: %s", state, task.Title), IsError: false}
}

func (m *Model) removeSelectedTask() {
	if m.taskStore == nil {
		return
	}
	sel, ok := m.selectedTask()
	if !ok {
		return
	}
	if m.taskStore.Remove(context.Background(), sel.ID) {
		m.refreshVisibleTasks()
		m.rearmScheduler()
		m.Status = StatusBar{Text: fmt.Sprintf("task removed: %s", sel.Title), IsError: false}
	}
}

func (m *Model) cycleFilter() {
	switch m.Filter {
	case store.FilterAll:
		m.Filter = store.FilterPending
	case store.FilterPending:
		m.Filter = store.FilterCompleted
	default:
		m.Filter = store.FilterAll
	}
	m.refreshVisibleTasks()
	m.Status = StatusBar{Text: fmt.Sprintf("filter: %s", m.Filter), IsError: false}
}

func (m *Model) cycleSort() {
	switch m.Sort {
	case store.SortCreatedDesc:
		m.Sort = store.SortDateAsc
	case store.SortDateAsc:
		m.Sort = store.SortDateDesc
	case store.SortDateDesc:
		m.Sort = store.SortPriorityDesc
	case store.SortPriorityDesc:
		m.Sort = store.SortPriorityAsc
	default:
		m.Sort = store.SortCreatedDesc
	}
	m.refreshVisibleTasks()
	m.Status = StatusBar{Text: fmt.Sprintf("sort: %s", m.Sort), IsError: false}
}

// rearmScheduler rebuilds the trigger queue and immediately schedules tasks
// whose reminder window is already live, so they still fire once.
func (m *Model) rearmScheduler() {
	if m.Scheduler == nil || m.taskStore == nil {
		return
	}
	now := m.now()
	snapshot := m.taskStore.Snapshot()
	m.Scheduler.Rearm(snapshot, now)
	for _, t := range scheduler.Due(now, snapshot) {
		_ = m.Scheduler.Schedule(scheduler.Event{TaskID: t.ID, Title: t.Title, TriggerAt: now})
	}
}
