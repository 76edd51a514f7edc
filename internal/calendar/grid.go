// Package calendar builds the month grid shown in the calendar view. All
// functions are pure: "now" is always supplied by the caller.
package calendar

import (
	"time"

	"github.com/taskmasterhq/taskmaster/internal/model"
)

// Rows and Cols fix the grid at 6 weeks so every month renders the same
// shape regardless of where its first day falls.
const (
	Rows  = 6
	Cols  = 7
	Cells = Rows * Cols
)

type Cell struct {
	Date           string // YYYY-MM-DD
	Day            int
	InCurrentMonth bool
	IsToday        bool
	Tasks          []model.Task
}

// BuildMonth lays out year/month as 42 Sunday-first cells. Leading cells hold
// the trailing days of the previous month, trailing cells the start of the
// next. Each cell carries the tasks whose due date matches it exactly.
func BuildMonth(year int, month time.Month, tasks []model.Task, now time.Time) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	firstWeekday := int(first.Weekday())
	today := now.Format(model.DueDateLayout)

	byDate := make(map[string][]model.Task)
	for _, t := range tasks {
		if t.DueDate != "" {
			byDate[t.DueDate] = append(byDate[t.DueDate], t)
		}
	}

	cells := make([]Cell, 0, Cells)
	for i := 0; i < Cells; i++ {
		day := first.AddDate(0, 0, i-firstWeekday)
		date := day.Format(model.DueDateLayout)
		cells = append(cells, Cell{
			Date:           date,
			Day:            day.Day(),
			InCurrentMonth: day.Month() == month && day.Year() == year,
			IsToday:        date == today,
			Tasks:          byDate[date],
		})
	}
	return cells
}

// NormalizeMonth folds month overflow into the year, so callers can step
// navigation with month±1 and let December/January roll over here.
func NormalizeMonth(year int, month int) (int, time.Month) {
	for month < 1 {
		month += 12
		year--
	}
	for month > 12 {
		month -= 12
		year++
	}
	return year, time.Month(month)
}

// DaysIn returns the number of days in year/month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
