package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/taskmasterhq/taskmaster/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens (or creates) the database at path and applies pending
// migrations before handing out the repository.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) LoadTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, category, priority, due_date, due_time, reminder, completed, notified_at, created_at, updated_at
		FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveTasks(ctx context.Context, tasks []model.Task) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
			return err
		}
		for _, t := range tasks {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO tasks (id, title, description, category, priority, due_date, due_time, reminder, completed, notified_at, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				t.ID, t.Title, t.Description, t.Category, string(t.Priority), t.DueDate, t.DueTime, string(t.Reminder),
				boolInt(t.Completed), nullTime(t.NotifiedAt), mustTime(t.CreatedAt), mustTime(t.UpdatedAt),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadCategories returns the stored categories, seeding the historical
// defaults (Work/Personal/Urgent) when the table is empty.
func (r *SQLiteRepository) LoadCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, color FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if scanErr := rows.Scan(&c.ID, &c.Name, &c.Color); scanErr != nil {
			return nil, scanErr
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		defaults := model.DefaultCategories()
		if err := r.SaveCategories(ctx, defaults); err != nil {
			return nil, err
		}
		return defaults, nil
	}
	return out, nil
}

func (r *SQLiteRepository) SaveCategories(ctx context.Context, categories []model.Category) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
			return err
		}
		for _, c := range categories {
			if _, err := tx.ExecContext(ctx, `INSERT INTO categories (id, name, color) VALUES (?, ?, ?)`, c.ID, c.Name, c.Color); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) LoadSettings(ctx context.Context) (model.Settings, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT theme, language, notifications_enabled, sound_enabled, auto_backup, last_backup_at
		FROM settings WHERE id = 1`)

	var out model.Settings
	var notifications int
	var sound int
	var autoBackup string
	var lastBackup sql.NullString
	err := row.Scan(&out.Theme, &out.Language, &notifications, &sound, &autoBackup, &lastBackup)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Settings{}, ErrNotFound
	}
	if err != nil {
		return model.Settings{}, err
	}
	out.NotificationsEnabled = notifications == 1
	out.SoundEnabled = sound == 1
	out.AutoBackup = model.BackupFrequency(autoBackup)
	out.LastBackupAt, err = parseNullableTime(lastBackup)
	if err != nil {
		return model.Settings{}, err
	}
	return out, nil
}

func (r *SQLiteRepository) SaveSettings(ctx context.Context, settings model.Settings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, theme, language, notifications_enabled, sound_enabled, auto_backup, last_backup_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			theme = excluded.theme,
			language = excluded.language,
			notifications_enabled = excluded.notifications_enabled,
			sound_enabled = excluded.sound_enabled,
			auto_backup = excluded.auto_backup,
			last_backup_at = excluded.last_backup_at`,
		settings.Theme, settings.Language, boolInt(settings.NotificationsEnabled), boolInt(settings.SoundEnabled),
		string(settings.AutoBackup), nullTime(settings.LastBackupAt),
	)
	return err
}

func (r *SQLiteRepository) Reset(ctx context.Context) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{`DELETE FROM tasks`, `DELETE FROM categories`, `DELETE FROM settings`} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var priority string
	var reminder string
	var completed int
	var notified sql.NullString
	var created string
	var updated string
	if err := s.Scan(&out.ID, &out.Title, &out.Description, &out.Category, &priority, &out.DueDate, &out.DueTime, &reminder, &completed, &notified, &created, &updated); err != nil {
		return model.Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.Task{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return model.Task{}, err
	}
	notifiedAt, err := parseNullableTime(notified)
	if err != nil {
		return model.Task{}, err
	}
	out.Priority = model.Priority(priority)
	out.Reminder = model.ReminderLead(reminder)
	out.Completed = completed == 1
	out.NotifiedAt = notifiedAt
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}
