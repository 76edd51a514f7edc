// Package backup serializes the full application state to a single JSON
// document and restores it. Decoding is all-or-nothing: a malformed document
// yields ErrMalformedBackup and no partial result, so callers never apply
// corrupt data.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/taskmasterhq/taskmaster/internal/model"
)

var ErrMalformedBackup = errors.New("backup: malformed document")

// Document is the backup file shape. Absent top-level keys stay nil so the
// importer applies only what is present. BackupDate is accepted as a legacy
// alias for ExportDate.
type Document struct {
	Tasks      []model.Task     `json:"tasks,omitempty"`
	Categories []model.Category `json:"categories,omitempty"`
	Settings   *model.Settings  `json:"settings,omitempty"`
	ExportDate time.Time        `json:"exportDate"`
	BackupDate *time.Time       `json:"backupDate,omitempty"`
}

// Encode builds a backup document stamped with now.
func Encode(tasks []model.Task, categories []model.Category, settings model.Settings, now time.Time) ([]byte, error) {
	doc := Document{
		Tasks:      tasks,
		Categories: categories,
		Settings:   &settings,
		ExportDate: now,
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("backup: encode: %w", err)
	}
	return out, nil
}

// Decode parses and validates a backup document. Every present record is
// validated before the document is returned; any failure means no result.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformedBackup, err)
	}

	for _, t := range doc.Tasks {
		if err := t.Validate(); err != nil {
			return Document{}, fmt.Errorf("%w: task %s: %v", ErrMalformedBackup, t.ID, err)
		}
	}
	for _, c := range doc.Categories {
		if err := c.Validate(); err != nil {
			return Document{}, fmt.Errorf("%w: category %s: %v", ErrMalformedBackup, c.ID, err)
		}
	}
	if doc.Settings != nil {
		if err := doc.Settings.Validate(); err != nil {
			return Document{}, fmt.Errorf("%w: settings: %v", ErrMalformedBackup, err)
		}
	}
	if doc.ExportDate.IsZero() && doc.BackupDate != nil {
		doc.ExportDate = *doc.BackupDate
	}
	return doc, nil
}

// AutoBackupDue reports whether an automatic backup should run, per the
// configured frequency and the time of the last backup. A missing last-backup
// timestamp means one is due immediately.
func AutoBackupDue(settings model.Settings, now time.Time) bool {
	interval, ok := settings.AutoBackup.Interval()
	if !ok {
		return false
	}
	if settings.LastBackupAt == nil {
		return true
	}
	return now.Sub(*settings.LastBackupAt) > interval
}

// FileName builds the conventional backup file name for the given day.
func FileName(now time.Time) string {
	return fmt.Sprintf("taskmaster_backup_%s.json", now.Format("2006-01-02"))
}

// WriteFile writes the encoded document into dir with the conventional name
// and returns the full path.
func WriteFile(dir string, data []byte, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("backup: create dir: %w", err)
	}
	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("backup: write %s: %w", path, err)
	}
	return path, nil
}

// ReadFile loads and decodes a backup file.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("backup: read %s: %w", path, err)
	}
	return Decode(data)
}
