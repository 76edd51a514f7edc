package model

import (
	"fmt"
	"time"
)

type BackupFrequency string

const (
	BackupNever   BackupFrequency = "never"
	BackupDaily   BackupFrequency = "daily"
	BackupWeekly  BackupFrequency = "weekly"
	BackupMonthly BackupFrequency = "monthly"
)

func (f BackupFrequency) IsValid() bool {
	switch f {
	case BackupNever, BackupDaily, BackupWeekly, BackupMonthly:
		return true
	default:
		return false
	}
}

// Interval returns the minimum gap between automatic backups. The second
// return is false for BackupNever. A month counts as 30 days.
func (f BackupFrequency) Interval() (time.Duration, bool) {
	switch f {
	case BackupDaily:
		return 24 * time.Hour, true
	case BackupWeekly:
		return 7 * 24 * time.Hour, true
	case BackupMonthly:
		return 30 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

type Settings struct {
	Theme                string          `json:"theme"`
	Language             string          `json:"language"`
	NotificationsEnabled bool            `json:"notificationsEnabled"`
	SoundEnabled         bool            `json:"soundEnabled"`
	AutoBackup           BackupFrequency `json:"autoBackupFrequency"`
	LastBackupAt         *time.Time      `json:"lastBackupDate,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:                "dark",
		Language:             "en",
		NotificationsEnabled: true,
		SoundEnabled:         true,
		AutoBackup:           BackupNever,
	}
}

func (s Settings) Validate() error {
	if !s.AutoBackup.IsValid() {
		return fmt.Errorf("model: invalid auto backup frequency: %q", s.AutoBackup)
	}
	return nil
}
