package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := Default()
	if cfg.PollInterval != def.PollInterval || cfg.SchedulerBuffer != def.SchedulerBuffer {
		t.Fatalf("unexpected config: %#v", cfg)
	}
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
database:
  path: /tmp/custom.db
reminders:
  poll_interval: 30s
  desktop_notifications: false
`
	if err := os.WriteFile(filepath.Join(dir, "taskmaster.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabasePath != "/tmp/custom.db" {
		t.Fatalf("database path: got %q", cfg.DatabasePath)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Fatalf("poll interval: got %v", cfg.PollInterval)
	}
	if cfg.DesktopNotifications {
		t.Fatal("desktop notifications should be disabled")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("TASKMASTER_DB_PATH", "/tmp/env.db")
	t.Setenv("TASKMASTER_POLL_INTERVAL", "2m")
	t.Setenv("TASKMASTER_DESKTOP_NOTIFICATIONS", "off")
	t.Setenv("TASKMASTER_SCHEDULER_BUFFER", "128")

	cfg := FromEnv(Default())
	if cfg.DatabasePath != "/tmp/env.db" {
		t.Fatalf("db path: got %q", cfg.DatabasePath)
	}
	if cfg.PollInterval != 2*time.Minute {
		t.Fatalf("poll interval: got %v", cfg.PollInterval)
	}
	if cfg.DesktopNotifications {
		t.Fatal("desktop notifications should be off")
	}
	if cfg.SchedulerBuffer != 128 {
		t.Fatalf("scheduler buffer: got %d", cfg.SchedulerBuffer)
	}
}

func TestFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("TASKMASTER_POLL_INTERVAL", "soon")
	t.Setenv("TASKMASTER_SCHEDULER_BUFFER", "lots")

	cfg := FromEnv(Default())
	def := Default()
	if cfg.PollInterval != def.PollInterval || cfg.SchedulerBuffer != def.SchedulerBuffer {
		t.Fatalf("malformed env values applied: %#v", cfg)
	}
}
