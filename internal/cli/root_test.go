package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/taskmasterhq/taskmaster/internal/storage"
	"github.com/taskmasterhq/taskmaster/internal/store"
)

func TestSetVersionInfo(t *testing.T) {
	origVersion := appVersion
	origCommit := appCommit
	origDate := appDate
	defer func() {
		appVersion = origVersion
		appCommit = origCommit
		appDate = origDate
	}()

	SetVersionInfo("1.2.3", "abc1234", "2026-09-01")

	if appVersion != "1.2.3" {
		t.Errorf("appVersion = %q, want 1.2.3", appVersion)
	}
	if appCommit != "abc1234" {
		t.Errorf("appCommit = %q, want abc1234", appCommit)
	}
	if appDate != "2026-09-01" {
		t.Errorf("appDate = %q, want 2026-09-01", appDate)
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"nonexistent-command"})

	err := Execute()
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExecute_VersionSubcommand(t *testing.T) {
	origVersion := appVersion
	defer func() { appVersion = origVersion }()
	appVersion = "test-ver"

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"version"})

	if err := Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(stdout.String(), "taskmaster test-ver") {
		t.Errorf("unexpected version output: %q", stdout.String())
	}
}

func TestExecute_ResetRequiresConfirmation(t *testing.T) {
	useTempData(t)
	defer func() { resetYesFlag = false }()

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"reset"})

	err := Execute()
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("expected confirmation error, got %v", err)
	}
}

func TestExecute_ExportImportRoundTrip(t *testing.T) {
	dataDir := useTempData(t)
	seedOneTask(t, filepath.Join(dataDir, "taskmaster.db"), "Water plants")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"export"})
	if err := Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}

	backupDir := os.Getenv("TASKMASTER_BACKUP_DIR")
	entries, err := os.ReadDir(backupDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one backup file, got %v (err %v)", entries, err)
	}
	backupPath := filepath.Join(backupDir, entries[0].Name())

	defer func() { resetYesFlag = false }()
	rootCmd.SetArgs([]string{"reset", "--yes"})
	if err := Execute(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	rootCmd.SetArgs([]string{"import", backupPath})
	if err := Execute(); err != nil {
		t.Fatalf("import: %v", err)
	}

	repo, err := storage.OpenSQLite(filepath.Join(dataDir, "taskmaster.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer repo.Close()
	tasks, err := repo.LoadTasks(context.Background())
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Water plants" {
		t.Fatalf("expected restored task, got %+v", tasks)
	}
}

func useTempData(t *testing.T) string {
	t.Helper()
	dataDir := t.TempDir()
	t.Setenv("TASKMASTER_DB_PATH", filepath.Join(dataDir, "taskmaster.db"))
	t.Setenv("TASKMASTER_BACKUP_DIR", filepath.Join(dataDir, "backups"))
	return dataDir
}

func seedOneTask(t *testing.T, dbPath, title string) {
	t.Helper()
	repo, err := storage.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer repo.Close()
	tasks := store.NewTaskStore(repo, func() time.Time { return time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC) })
	if _, err := tasks.Add(context.Background(), store.TaskDraft{Title: title}); err != nil {
		t.Fatalf("seed task: %v", err)
	}
}
