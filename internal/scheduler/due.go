// Package scheduler decides when task reminders fire. The window matching is
// pure so it can be tested without timers; the Engine does the actual waiting.
package scheduler

import (
	"time"

	"github.com/taskmasterhq/taskmaster/internal/model"
)

// Window is the tolerance after the reminder instant during which a poll
// still counts the reminder as due.
const Window = time.Minute

// ReminderInstant computes when the task's reminder should fire: the due
// instant minus the configured lead. The second return is false when the task
// has no complete due date/time or no reminder.
func ReminderInstant(t model.Task, loc *time.Location) (time.Time, bool) {
	lead, ok := t.Reminder.Offset()
	if !ok {
		return time.Time{}, false
	}
	dueAt, ok := t.DueAt(loc)
	if !ok {
		return time.Time{}, false
	}
	return dueAt.Add(-lead), true
}

// Due returns the tasks whose reminder should fire at now: not completed,
// reminder armed, now within [instant, instant+Window], and not already
// notified for this instant. Pure function of its arguments.
func Due(now time.Time, tasks []model.Task) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		instant, ok := ReminderInstant(t, now.Location())
		if !ok {
			continue
		}
		if now.Before(instant) || now.After(instant.Add(Window)) {
			continue
		}
		if t.NotifiedAt != nil && !t.NotifiedAt.Before(instant) {
			continue
		}
		out = append(out, t)
	}
	return out
}
