package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrInvalidReminder = errors.New("model: invalid reminder lead")
	ErrInvalidDueDate  = errors.New("model: invalid due date")
	ErrInvalidDueTime  = errors.New("model: invalid due time")
)

const (
	DueDateLayout = "2006-01-02"
	DueTimeLayout = "15:04"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities for sorting: high > medium > low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

type ReminderLead string

const (
	ReminderNone   ReminderLead = "none"
	ReminderOnTime ReminderLead = "ontime"
	Reminder5Min   ReminderLead = "5min"
	Reminder15Min  ReminderLead = "15min"
	Reminder30Min  ReminderLead = "30min"
	Reminder1Hour  ReminderLead = "1hour"
	Reminder1Day   ReminderLead = "1day"
)

var reminderOffsets = map[ReminderLead]time.Duration{
	ReminderOnTime: 0,
	Reminder5Min:   5 * time.Minute,
	Reminder15Min:  15 * time.Minute,
	Reminder30Min:  30 * time.Minute,
	Reminder1Hour:  time.Hour,
	Reminder1Day:   24 * time.Hour,
}

func (r ReminderLead) IsValid() bool {
	_, ok := reminderOffsets[r]
	return ok || r == ReminderNone
}

// Offset returns the lead time before the due instant at which the reminder
// fires. The second return is false for ReminderNone.
func (r ReminderLead) Offset() (time.Duration, bool) {
	d, ok := reminderOffsets[r]
	return d, ok
}

type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Category    string       `json:"category,omitempty"`
	Priority    Priority     `json:"priority"`
	DueDate     string       `json:"dueDate,omitempty"`
	DueTime     string       `json:"dueTime,omitempty"`
	Reminder    ReminderLead `json:"reminder"`
	Completed   bool         `json:"completed"`
	NotifiedAt  *time.Time   `json:"notifiedAt,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if !t.Reminder.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidReminder, t.Reminder)
	}
	if t.DueDate != "" {
		if _, err := time.Parse(DueDateLayout, t.DueDate); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDueDate, t.DueDate)
		}
	}
	if t.DueTime != "" {
		if _, err := time.Parse(DueTimeLayout, t.DueTime); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDueTime, t.DueTime)
		}
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}

// DueAt combines DueDate and DueTime into a concrete instant in loc.
// The second return is false when either component is missing or malformed.
func (t Task) DueAt(loc *time.Location) (time.Time, bool) {
	if t.DueDate == "" || t.DueTime == "" {
		return time.Time{}, false
	}
	at, err := time.ParseInLocation(DueDateLayout+" "+DueTimeLayout, t.DueDate+" "+t.DueTime, loc)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}
