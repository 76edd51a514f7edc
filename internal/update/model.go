package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/taskmasterhq/taskmaster/internal/model"
	"github.com/taskmasterhq/taskmaster/internal/scheduler"
	"github.com/taskmasterhq/taskmaster/internal/storage"
	"github.com/taskmasterhq/taskmaster/internal/store"
)

type View string

const (
	ViewTasks      View = "Tasks"
	ViewCalendar   View = "Calendar"
	ViewCategories View = "Categories"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks      string
	Calendar   string
	Categories string
	Help       string
	Quit       string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type TasksState struct {
	Cursor      int
	CaptureMode bool
	Visible     []model.Task
}

type CalendarState struct {
	Year        int
	Month       time.Month
	SelectedDay int
}

// CategoriesState carries the two-step delete flow: PendingDelete holds the
// category awaiting confirmation together with how many tasks reference it.
type CategoriesState struct {
	Cursor        int
	PendingDelete string
	PendingCount  int
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type Model struct {
	CurrentView    View
	SelectedTaskID string
	Filter         store.FilterTag
	Sort           store.SortKey
	SearchQuery    string
	Tasks          TasksState
	Calendar       CalendarState
	Categories     CategoriesState
	Settings       model.Settings
	Scheduler      *scheduler.Engine
	ReminderLog    []scheduler.Event
	Palette        CommandPaletteState
	HelpVisible    bool
	Notifications  []Notification
	DesktopEnabled bool
	notifier       DesktopNotifier
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	taskStore     *store.TaskStore
	categoryStore *store.CategoryStore
	repo          storage.Repository
	backupDir     string
	pollInterval  time.Duration
	now           func() time.Time

	// Bubble components used for rich TUI controls
	taskList       list.Model
	dayTable       table.Model
	quickAddInput  textinput.Model
	commandInput   textinput.Model
	doneProgress   progress.Model
	backupSpinner  spinner.Model
	helpModel      help.Model
	detailViewport viewport.Model
	spinnerActive  bool
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type ReminderDueMsg struct {
	Event scheduler.Event
}

type BackupDoneMsg struct {
	Path string
	Err  error
}

// RearmTickMsg re-syncs the reminder queue with the store on an interval,
// catching edits made outside the UI session and the auto-backup schedule.
type RearmTickMsg struct{}

// Deps wires the data layer into the TUI.
type Deps struct {
	Tasks          *store.TaskStore
	Categories     *store.CategoryStore
	Repo           storage.Repository
	Settings       model.Settings
	Engine         *scheduler.Engine
	BackupDir      string
	PollInterval   time.Duration
	DesktopEnabled bool
	Notifier       DesktopNotifier
	Now            func() time.Time
}

func NewModel(deps Deps) Model {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	today := now()
	m := Model{
		CurrentView: ViewTasks,
		Filter:      store.FilterAll,
		Sort:        store.SortCreatedDesc,
		Calendar: CalendarState{
			Year:        today.Year(),
			Month:       today.Month(),
			SelectedDay: today.Day(),
		},
		Settings:       deps.Settings,
		Scheduler:      deps.Engine,
		DesktopEnabled: deps.DesktopEnabled,
		notifier:       NoopDesktopNotifier{},
		Keys: GlobalKeyMap{
			Tasks:      "1",
			Calendar:   "2",
			Categories: "3",
			Help:       "?",
			Quit:       "q",
		},
		taskStore:     deps.Tasks,
		categoryStore: deps.Categories,
		repo:          deps.Repo,
		backupDir:     deps.BackupDir,
		pollInterval:  deps.PollInterval,
		now:           now,
	}
	if m.pollInterval <= 0 {
		m.pollInterval = time.Minute
	}
	if deps.Notifier != nil {
		m.notifier = deps.Notifier
	}
	m.initBubbleComponents()
	m.refreshVisibleTasks()
	m.rearmScheduler()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.taskList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.taskList.Title = "Tasks (list)"
	m.taskList.SetShowHelp(false)
	m.taskList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "Time", Width: 7},
		{Title: "Pri", Width: 8},
		{Title: "Title", Width: 30},
	}
	m.dayTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(8))

	m.quickAddInput = textinput.New()
	m.quickAddInput.Prompt = "add> "
	m.quickAddInput.CharLimit = 256
	m.quickAddInput.Width = 42

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.doneProgress = progress.New(progress.WithDefaultGradient())

	m.backupSpinner = spinner.New()
	m.backupSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.detailViewport = viewport.New(42, 12)
}

func (m *Model) syncBubbleData() {
	items := make([]list.Item, 0, len(m.Tasks.Visible))
	for _, t := range m.Tasks.Visible {
		desc := string(t.Priority)
		if t.DueDate != "" {
			desc += " | due " + t.DueDate
		}
		items = append(items, listItem{title: t.Title, description: desc})
	}
	m.taskList.SetItems(items)
	if len(items) > 0 && m.Tasks.Cursor < len(items) {
		m.taskList.Select(m.Tasks.Cursor)
	}

	m.dayTable.SetRows(m.dayTableRows())

	if m.Tasks.CaptureMode {
		m.quickAddInput.Focus()
	}
	if m.Palette.Active {
		m.commandInput.Focus()
	}

	if sel, ok := m.selectedTask(); ok {
		md := sel.Description
		if md == "" {
			md = "_No description_"
		}
		m.detailViewport.SetContent(renderMarkdownDetail(md))
	}
}

func (m *Model) refreshVisibleTasks() {
	if m.taskStore == nil {
		m.Tasks.Visible = nil
		return
	}
	var tasks []model.Task
	if m.SearchQuery != "" {
		tasks = m.taskStore.Search(m.SearchQuery)
	} else {
		tasks = m.taskStore.Snapshot()
	}
	tasks = store.Filter(tasks, m.Filter)
	tasks = store.Sort(tasks, m.Sort)
	m.Tasks.Visible = tasks
	if m.Tasks.Cursor >= len(tasks) {
		m.Tasks.Cursor = len(tasks) - 1
	}
	if m.Tasks.Cursor < 0 {
		m.Tasks.Cursor = 0
	}
	m.syncSelectedTask()
}

func (m *Model) syncSelectedTask() {
	if len(m.Tasks.Visible) == 0 {
		m.SelectedTaskID = ""
		return
	}
	m.SelectedTaskID = m.Tasks.Visible[m.Tasks.Cursor].ID
}

func (m Model) selectedTask() (model.Task, bool) {
	if m.Tasks.Cursor < 0 || m.Tasks.Cursor >= len(m.Tasks.Visible) {
		return model.Task{}, false
	}
	return m.Tasks.Visible[m.Tasks.Cursor], true
}
