package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskmasterhq/taskmaster/internal/commands"
	"github.com/taskmasterhq/taskmaster/internal/store"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.Palette.Active = false
		m.Palette.Input = ""
		return m
	}

	ctx := context.Background()
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			if m.taskStore == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "task store unavailable"}
			}
			task, err := m.taskStore.Add(ctx, draftFromAddArgs(a))
			if err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewTasks
			m.refreshVisibleTasks()
			m.rearmScheduler()
			return commands.Result{Message: fmt.Sprintf("added task: %s", task.Title)}, nil
		},
		Done: func(a commands.TargetArgs) (commands.Result, error) {
			task, ok := m.resolveTask(a.Target)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task matching %q", a.Target)}
			}
			toggled, _ := m.taskStore.ToggleCompletion(ctx, task.ID)
			m.refreshVisibleTasks()
			m.rearmScheduler()
			state := "pending"
			if toggled.Completed {
				state = "done"
			}
			return commands.Result{Message: fmt.Sprintf("task %s: %s", state, toggled.Title)}, nil
		},
		Remove: func(a commands.TargetArgs) (commands.Result, error) {
			task, ok := m.resolveTask(a.Target)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task matching %q", a.Target)}
			}
			m.taskStore.Remove(ctx, task.ID)
			m.refreshVisibleTasks()
			m.rearmScheduler()
			return commands.Result{Message: fmt.Sprintf("removed task: %s", task.Title)}, nil
		},
		Search: func(a commands.SearchArgs) (commands.Result, error) {
			m.SearchQuery = a.Query
			m.CurrentView = ViewTasks
			m.refreshVisibleTasks()
			if a.Query == "" {
				return commands.Result{Message: "search cleared"}, nil
			}
			return commands.Result{Message: fmt.Sprintf("search: %s (%d hit(s))", a.Query, len(m.Tasks.Visible))}, nil
		},
		Filter: func(a commands.FilterArgs) (commands.Result, error) {
			m.Filter = a.Tag
			m.refreshVisibleTasks()
			return commands.Result{Message: fmt.Sprintf("filter: %s", a.Tag)}, nil
		},
		Sort: func(a commands.SortArgs) (commands.Result, error) {
			m.Sort = a.Key
			m.refreshVisibleTasks()
			return commands.Result{Message: fmt.Sprintf("sort: %s", a.Key)}, nil
		},
		Category: func(a commands.CategoryArgs) (commands.Result, error) {
			switch a.Action {
			case "add":
				cat, err := m.addCategory(store.CategoryDraft{Name: a.Name, Color: a.Color})
				if err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: fmt.Sprintf("added category: %s", cat.Name)}, nil
			default:
				if m.categoryStore == nil {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "category store unavailable"}
				}
				cat, ok := m.categoryStore.FindByID(a.Target)
				if !ok {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no category %q", a.Target)}
				}
				cleared := 0
				if m.taskStore != nil {
					cleared = m.taskStore.ClearCategory(ctx, cat.ID)
				}
				m.categoryStore.Remove(ctx, cat.ID)
				m.refreshVisibleTasks()
				return commands.Result{Message: fmt.Sprintf("removed category %s, %d task(s) detached", cat.Name, cleared)}, nil
			}
		},
		Export: func() (commands.Result, error) {
			path, err := m.performBackup()
			if err != nil {
				return commands.Result{}, err
			}
			m.recordBackup(path)
			return commands.Result{Message: fmt.Sprintf("exported to %s", path)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
	} else {
		m.Status = StatusBar{Text: res.Message, IsError: false}
		m.notify("Command", res.Message, "info")
	}

	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	return m
}

// resolveTask matches a full ID or an unambiguous ID prefix.
func (m Model) resolveTask(target string) (taskRef, bool) {
	if m.taskStore == nil || target == "" {
		return taskRef{}, false
	}
	if t, ok := m.taskStore.FindByID(target); ok {
		return taskRef{ID: t.ID, Title: t.Title}, true
	}
	var match taskRef
	found := 0
	for _, t := range m.taskStore.Snapshot() {
		if strings.HasPrefix(t.ID, target) {
			match = taskRef{ID: t.ID, Title: t.Title}
			found++
		}
	}
	if found != 1 {
		return taskRef{}, false
	}
	return match, true
}

type taskRef struct {
	ID    string
	Title string
}
