package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskmasterhq/taskmaster/internal/backup"
	"github.com/taskmasterhq/taskmaster/internal/scheduler"
)

func (m *Model) applyReminder(ev scheduler.Event) {
	m.Status = StatusBar{Text: fmt.Sprintf("reminder: %s", ev.Title), IsError: false}
	if m.taskStore != nil {
		m.taskStore.MarkNotified(context.Background(), ev.TaskID, ev.TriggerAt)
		m.refreshVisibleTasks()
	}
	m.notify("Task Reminder", ev.Title, "info")
}

func (m *Model) performBackup() (string, error) {
	if m.taskStore == nil || m.categoryStore == nil {
		return "", fmt.Errorf("stores unavailable")
	}
	data, err := backup.Encode(m.taskStore.Snapshot(), m.categoryStore.Snapshot(), m.Settings, m.now())
	if err != nil {
		return "", err
	}
	return backup.WriteFile(m.backupDir, data, m.now())
}

func (m Model) performBackupCmd() tea.Cmd {
	return func() tea.Msg {
		path, err := m.performBackup()
		return BackupDoneMsg{Path: path, Err: err}
	}
}

// recordBackup stamps the settings so the next auto-backup waits a full
// interval from this run.
func (m *Model) recordBackup(path string) {
	at := m.now()
	m.Settings.LastBackupAt = &at
	if m.repo != nil {
		if err := m.repo.SaveSettings(context.Background(), m.Settings); err != nil {
			m.Status = StatusBar{Text: fmt.Sprintf("backup saved but settings write failed: %v", err), IsError: true}
			return
		}
	}
	m.Status = StatusBar{Text: fmt.Sprintf("backup written: %s", path), IsError: false}
	m.notify("Backup", "backup written: "+path, "info")
}

// ImportDocument replaces store contents from a decoded backup. Missing keys
// leave the matching store untouched.
func (m *Model) ImportDocument(doc backup.Document) error {
	ctx := context.Background()
	if doc.Tasks != nil && m.taskStore != nil {
		if err := m.taskStore.Replace(ctx, doc.Tasks); err != nil {
			return err
		}
	}
	if doc.Categories != nil && m.categoryStore != nil {
		if err := m.categoryStore.Replace(ctx, doc.Categories); err != nil {
			return err
		}
	}
	if doc.Settings != nil {
		m.Settings = *doc.Settings
		if m.repo != nil {
			if err := m.repo.SaveSettings(ctx, m.Settings); err != nil {
				return err
			}
		}
	}
	m.refreshVisibleTasks()
	m.rearmScheduler()
	return nil
}
