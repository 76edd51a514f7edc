package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskmasterhq/taskmaster/internal/backup"
	"github.com/taskmasterhq/taskmaster/internal/scheduler"
	"github.com/taskmasterhq/taskmaster/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.rearmTickCmd()}
	if m.Scheduler != nil {
		cmds = append(cmds, waitForReminderCmd(m.Scheduler.C()))
	}
	if backup.AutoBackupDue(m.Settings, m.now()) {
		cmds = append(cmds, m.performBackupCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) rearmTickCmd() tea.Cmd {
	return tea.Tick(m.pollInterval, func(time.Time) tea.Msg { return RearmTickMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.dispatch(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) dispatch(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			next := m.handlePaletteKey(typed)
			return next, nil
		}

		keyStr := typed.String()
		if m.CurrentView == ViewTasks && m.Tasks.CaptureMode && keyStr != "ctrl+c" &&
			keyStr != m.Keys.Tasks && keyStr != m.Keys.Calendar && keyStr != m.Keys.Categories &&
			keyStr != m.Keys.Help && keyStr != "/" && keyStr != m.Keys.Quit {
			return m.handleQuickAddKey(typed), nil
		}

		switch keyStr {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, nil
		case m.Keys.Tasks:
			m.CurrentView = ViewTasks
			return m, nil
		case m.Keys.Calendar:
			m.CurrentView = ViewCalendar
			return m, nil
		case m.Keys.Categories:
			m.CurrentView = ViewCategories
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown", IsError: false}
			} else {
				m.Status = StatusBar{Text: "help hidden", IsError: false}
			}
			return m, nil
		case "B":
			if !m.spinnerActive {
				m.spinnerActive = true
				m.Status = StatusBar{Text: "backup started", IsError: false}
				return m, tea.Batch(m.backupSpinner.Tick, m.performBackupCmd())
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewTasks:
			return m.handleTasksKey(typed), nil
		case ViewCalendar:
			return m.handleCalendarKey(typed), nil
		case ViewCategories:
			return m.handleCategoriesKey(typed), nil
		}
	case spinner.TickMsg:
		if m.spinnerActive {
			var cmd tea.Cmd
			m.backupSpinner, cmd = m.backupSpinner.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case ReminderDueMsg:
		m.ReminderLog = append(m.ReminderLog, typed.Event)
		if len(m.ReminderLog) > 20 {
			m.ReminderLog = m.ReminderLog[len(m.ReminderLog)-20:]
		}
		m.applyReminder(typed.Event)
		if m.Scheduler != nil {
			return m, waitForReminderCmd(m.Scheduler.C())
		}
		return m, nil
	case RearmTickMsg:
		m.rearmScheduler()
		cmds := []tea.Cmd{m.rearmTickCmd()}
		if !m.spinnerActive && backup.AutoBackupDue(m.Settings, m.now()) {
			cmds = append(cmds, m.performBackupCmd())
		}
		return m, tea.Batch(cmds...)
	case BackupDoneMsg:
		m.spinnerActive = false
		if typed.Err != nil {
			m.Status = StatusBar{Text: fmt.Sprintf("backup failed: %v", typed.Err), IsError: true}
			m.notify("Backup Failed", typed.Err.Error(), "error")
			return m, nil
		}
		m.recordBackup(typed.Path)
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		status = fmt.Sprintf("status: %s", m.Status.Text)
	}
	mainPane := ""
	detailPane := ""
	switch m.CurrentView {
	case ViewTasks:
		mainPane = m.renderTasksView()
		detailPane = m.renderTaskDetailPane() + m.renderCommandPalette() + m.renderHelpIfVisible()
	case ViewCalendar:
		mainPane = m.renderCalendarView()
		detailPane = m.renderTaskDetailPane() + m.renderHelpIfVisible()
	case ViewCategories:
		mainPane = m.renderCategoriesView()
		detailPane = m.renderHelpIfVisible()
	}
	notificationView := ""
	if len(m.ReminderLog) > 0 {
		last := m.ReminderLog[len(m.ReminderLog)-1]
		notificationView = fmt.Sprintf("last-reminder: %s @ %s", last.Title, last.TriggerAt.Format("15:04:05"))
	}
	if m.spinnerActive {
		spin := m.backupSpinner.View()
		notificationView = strings.TrimSpace(strings.Join([]string{notificationView, "backup: " + spin + " running"}, "\n"))
	}
	notificationView = strings.TrimSpace(strings.Join([]string{
		notificationView,
		strings.TrimSpace(m.renderNotificationsView()),
	}, "\n"))

	return views.RenderApp(views.AppData{
		Header:        fmt.Sprintf("taskmaster | view: %s | selected: %s", m.CurrentView, m.SelectedTaskID),
		MainPane:      mainPane,
		DetailPane:    detailPane,
		StatusLine:    status,
		StatusIsError: m.Status.IsError,
		Notification:  notificationView,
		Footer:        fmt.Sprintf("keys: %s tasks | %s calendar | %s categories | / cmd | B backup | %s help | %s quit", m.Keys.Tasks, m.Keys.Calendar, m.Keys.Categories, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewTasks, ViewCalendar, ViewCategories:
		return true
	default:
		return false
	}
}

func waitForReminderCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev}
	}
}
