package update

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskmasterhq/taskmaster/internal/backup"
	"github.com/taskmasterhq/taskmaster/internal/model"
	"github.com/taskmasterhq/taskmaster/internal/scheduler"
	"github.com/taskmasterhq/taskmaster/internal/storage"
	"github.com/taskmasterhq/taskmaster/internal/store"
)

func newTestModel(t *testing.T) (Model, *store.TaskStore, *store.CategoryStore) {
	t.Helper()
	repo := storage.NewMemoryRepository()
	clock := func() time.Time { return time.Date(2026, 2, 10, 12, 0, 0, 0, time.Local) }
	tasks := store.NewTaskStore(repo, clock)
	cats := store.NewCategoryStore(repo)
	if err := cats.Load(context.Background()); err != nil {
		t.Fatalf("load categories: %v", err)
	}
	m := NewModel(Deps{
		Tasks:      tasks,
		Categories: cats,
		Repo:       repo,
		Settings:   model.DefaultSettings(),
		BackupDir:  t.TempDir(),
		Now:        clock,
	})
	return m, tasks, cats
}

func pressKeys(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(k)
		m = updated.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelDefaults(t *testing.T) {
	m, _, _ := newTestModel(t)
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected default view %q, got %q", ViewTasks, m.CurrentView)
	}
	if m.Filter != store.FilterAll {
		t.Fatalf("expected default filter, got %q", m.Filter)
	}
	if m.Sort != store.SortCreatedDesc {
		t.Fatalf("expected default sort, got %q", m.Sort)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.Calendar.Month != time.February || m.Calendar.Year != 2026 {
		t.Fatalf("expected calendar synced to clock, got %v %d", m.Calendar.Month, m.Calendar.Year)
	}
}

func TestUpdateSyncsTaskListItems(t *testing.T) {
	m, tasks, _ := newTestModel(t)
	if _, err := tasks.Add(context.Background(), store.TaskDraft{Title: "Water plants"}); err != nil {
		t.Fatalf("add task: %v", err)
	}
	// The model was built before the task existed; any Update must land the
	// refreshed rows in the returned model's list widget, not a discarded copy.
	m = pressKeys(t, m, runes("f"))
	if len(m.Tasks.Visible) != 1 {
		t.Fatalf("expected 1 visible task, got %d", len(m.Tasks.Visible))
	}
	if got := len(m.taskList.Items()); got != len(m.Tasks.Visible) {
		t.Fatalf("task list widget has %d items, visible tasks %d", got, len(m.Tasks.Visible))
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = pressKeys(t, m, runes("2"))
	if m.CurrentView != ViewCalendar {
		t.Fatalf("expected calendar view, got %q", m.CurrentView)
	}
	m = pressKeys(t, m, runes("3"))
	if m.CurrentView != ViewCategories {
		t.Fatalf("expected categories view, got %q", m.CurrentView)
	}
}

func TestQuickAddCreatesTask(t *testing.T) {
	m, tasks, _ := newTestModel(t)
	m = pressKeys(t, m,
		runes("a"),
		runes("Pay rent pri:high due:2026-02-28"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	all := tasks.Snapshot()
	if len(all) != 1 {
		t.Fatalf("expected 1 task, got %d", len(all))
	}
	if all[0].Title != "Pay rent" || all[0].Priority != model.PriorityHigh || all[0].DueDate != "2026-02-28" {
		t.Fatalf("unexpected task: %+v", all[0])
	}
	if len(m.Tasks.Visible) != 1 {
		t.Fatalf("expected visible list refreshed, got %d", len(m.Tasks.Visible))
	}
}

func TestToggleAndRemoveKeys(t *testing.T) {
	m, tasks, _ := newTestModel(t)
	if _, err := tasks.Add(context.Background(), store.TaskDraft{Title: "One"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	m.refreshVisibleTasks()

	m = pressKeys(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if got := tasks.Snapshot(); !got[0].Completed {
		t.Fatalf("expected task completed, got %+v", got[0])
	}

	m = pressKeys(t, m, runes("x"))
	if got := tasks.Snapshot(); len(got) != 0 {
		t.Fatalf("expected task removed, got %d", len(got))
	}
	if m.SelectedTaskID != "" {
		t.Fatalf("expected selection cleared, got %q", m.SelectedTaskID)
	}
}

func TestFilterAndSortCycling(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = pressKeys(t, m, runes("f"))
	if m.Filter != store.FilterPending {
		t.Fatalf("expected pending filter, got %q", m.Filter)
	}
	m = pressKeys(t, m, runes("s"))
	if m.Sort != store.SortDateAsc {
		t.Fatalf("expected date-asc sort, got %q", m.Sort)
	}
}

func TestPaletteAddCommand(t *testing.T) {
	m, tasks, _ := newTestModel(t)
	m = pressKeys(t, m,
		runes("/"),
		runes("add Buy milk pri:low"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	if m.Palette.Active {
		t.Fatal("expected palette closed after execute")
	}
	all := tasks.Snapshot()
	if len(all) != 1 || all[0].Title != "Buy milk" || all[0].Priority != model.PriorityLow {
		t.Fatalf("unexpected tasks: %+v", all)
	}
	if m.Status.IsError {
		t.Fatalf("unexpected error status: %+v", m.Status)
	}
}

func TestPaletteUnknownCommandSetsError(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = pressKeys(t, m,
		runes("/"),
		runes("teleport home"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	if !m.Status.IsError {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
}

func TestCategoryDeleteDetachesTasks(t *testing.T) {
	m, tasks, cats := newTestModel(t)
	cat, err := cats.Add(context.Background(), store.CategoryDraft{Name: "Errands"})
	if err != nil {
		t.Fatalf("add category: %v", err)
	}
	if _, err := tasks.Add(context.Background(), store.TaskDraft{Title: "Post office", Category: cat.ID}); err != nil {
		t.Fatalf("add task: %v", err)
	}

	m = pressKeys(t, m, runes("3"))
	// move cursor onto the new category (defaults are seeded first)
	for i, c := range cats.Snapshot() {
		if c.ID == cat.ID {
			m.Categories.Cursor = i
		}
	}
	m = pressKeys(t, m, runes("d"))
	if m.Categories.PendingDelete != cat.ID || m.Categories.PendingCount != 1 {
		t.Fatalf("expected pending delete with 1 task, got %+v", m.Categories)
	}

	m = pressKeys(t, m, runes("y"))
	if _, ok := cats.FindByID(cat.ID); ok {
		t.Fatal("expected category removed")
	}
	got := tasks.Snapshot()
	if len(got) != 1 || got[0].Category != "" {
		t.Fatalf("expected task kept but detached, got %+v", got)
	}
}

func TestCategoryDeleteCancel(t *testing.T) {
	m, _, cats := newTestModel(t)
	before := len(cats.Snapshot())
	m = pressKeys(t, m, runes("3"), runes("d"), runes("n"))
	if m.Categories.PendingDelete != "" {
		t.Fatal("expected pending delete cleared")
	}
	if len(cats.Snapshot()) != before {
		t.Fatal("expected no category removed on cancel")
	}
}

func TestCalendarMonthNavigationWrapsYear(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = pressKeys(t, m, runes("2"))
	m.Calendar.Year, m.Calendar.Month = 2026, time.January
	m = pressKeys(t, m, runes("h"))
	if m.Calendar.Year != 2025 || m.Calendar.Month != time.December {
		t.Fatalf("expected Dec 2025, got %v %d", m.Calendar.Month, m.Calendar.Year)
	}
	m = pressKeys(t, m, runes("l"))
	if m.Calendar.Year != 2026 || m.Calendar.Month != time.January {
		t.Fatalf("expected Jan 2026, got %v %d", m.Calendar.Month, m.Calendar.Year)
	}
}

func TestReminderDueMarksNotified(t *testing.T) {
	m, tasks, _ := newTestModel(t)
	task, err := tasks.Add(context.Background(), store.TaskDraft{
		Title:    "Standup",
		DueDate:  "2026-02-10",
		DueTime:  "14:00",
		Reminder: model.Reminder15Min,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	trigger := time.Date(2026, 2, 10, 13, 45, 0, 0, time.Local)
	updated, _ := m.Update(ReminderDueMsg{Event: scheduler.Event{TaskID: task.ID, Title: task.Title, TriggerAt: trigger}})
	m = updated.(Model)

	got, ok := tasks.FindByID(task.ID)
	if !ok {
		t.Fatal("task missing")
	}
	if got.NotifiedAt == nil || !got.NotifiedAt.Equal(trigger) {
		t.Fatalf("expected notifiedAt %v, got %v", trigger, got.NotifiedAt)
	}
	if len(m.ReminderLog) != 1 {
		t.Fatalf("expected reminder logged, got %d", len(m.ReminderLog))
	}
}

func TestBackupDoneRecordsTimestamp(t *testing.T) {
	m, _, _ := newTestModel(t)
	updated, _ := m.Update(BackupDoneMsg{Path: "/tmp/taskmaster_backup_2026-02-10.json"})
	m = updated.(Model)
	if m.Settings.LastBackupAt == nil {
		t.Fatal("expected last backup timestamp set")
	}
	if m.Status.IsError {
		t.Fatalf("unexpected error status: %+v", m.Status)
	}

	updated, _ = m.Update(BackupDoneMsg{Err: errors.New("disk full")})
	m = updated.(Model)
	if !m.Status.IsError {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m, _, _ := newTestModel(t)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	next := updated.(Model)
	if !next.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Status = StatusBar{Text: "all good"}
	out := m.View()
	if !strings.Contains(out, "view: Tasks") {
		t.Fatalf("expected view label in output: %q", out)
	}
	if !strings.Contains(out, "all good") {
		t.Fatalf("expected status text in output: %q", out)
	}

	m.CurrentView = ViewCalendar
	out = m.View()
	if !strings.Contains(out, "February 2026") {
		t.Fatalf("expected month label in output: %q", out)
	}
}

func TestImportDocumentReplacesStores(t *testing.T) {
	m, tasks, _ := newTestModel(t)
	if _, err := tasks.Add(context.Background(), store.TaskDraft{Title: "Old"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	ts := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	doc := backup.Document{Tasks: []model.Task{{
		ID:        "import-1",
		Title:     "Imported",
		Priority:  model.PriorityMedium,
		Reminder:  model.ReminderNone,
		CreatedAt: ts,
		UpdatedAt: ts,
	}}}
	if err := m.ImportDocument(doc); err != nil {
		t.Fatalf("import: %v", err)
	}
	got := tasks.Snapshot()
	if len(got) != 1 || got[0].Title != "Imported" {
		t.Fatalf("expected imported task only, got %+v", got)
	}
}

func TestRearmTickSchedulesNext(t *testing.T) {
	m, _, _ := newTestModel(t)
	updated, cmd := m.Update(RearmTickMsg{})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected follow-up tick command")
	}
}
