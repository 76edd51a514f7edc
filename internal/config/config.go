// Package config loads runtime configuration: a taskmaster.yaml next to the
// data directory, overridden by TASKMASTER_* environment variables. Missing
// file or keys fall back to defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DatabasePath         string
	BackupDir            string
	PollInterval         time.Duration
	DesktopNotifications bool
	SchedulerBuffer      int
}

func Default() Config {
	base := baseDir()
	return Config{
		DatabasePath:         filepath.Join(base, "taskmaster.db"),
		BackupDir:            filepath.Join(base, "backups"),
		PollInterval:         time.Minute,
		DesktopNotifications: true,
		SchedulerBuffer:      64,
	}
}

func baseDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "taskmaster")
	}
	return ".taskmaster"
}

// Load reads taskmaster.yaml from dir (the data directory when dir is empty),
// then applies environment overrides.
func Load(dir string) (Config, error) {
	cfg := Default()
	if dir == "" {
		dir = baseDir()
	}

	v := viper.New()
	v.SetConfigName("taskmaster")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("database.path", cfg.DatabasePath)
	v.SetDefault("backup.dir", cfg.BackupDir)
	v.SetDefault("reminders.poll_interval", cfg.PollInterval.String())
	v.SetDefault("reminders.desktop_notifications", cfg.DesktopNotifications)
	v.SetDefault("reminders.scheduler_buffer", cfg.SchedulerBuffer)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("reading taskmaster.yaml: %w", err)
		}
	}

	cfg.DatabasePath = v.GetString("database.path")
	cfg.BackupDir = v.GetString("backup.dir")
	if d, err := time.ParseDuration(v.GetString("reminders.poll_interval")); err == nil && d > 0 {
		cfg.PollInterval = d
	}
	cfg.DesktopNotifications = v.GetBool("reminders.desktop_notifications")
	if n := v.GetInt("reminders.scheduler_buffer"); n > 0 {
		cfg.SchedulerBuffer = n
	}

	return FromEnv(cfg), nil
}

// FromEnv applies TASKMASTER_* overrides on top of base.
func FromEnv(base Config) Config {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("TASKMASTER_DB_PATH")); v != "" {
		cfg.DatabasePath = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKMASTER_BACKUP_DIR")); v != "" {
		cfg.BackupDir = v
	}
	if v, ok := getEnvDuration("TASKMASTER_POLL_INTERVAL"); ok && v > 0 {
		cfg.PollInterval = v
	}
	if v, ok := getEnvBool("TASKMASTER_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("TASKMASTER_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	return cfg
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return d, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
