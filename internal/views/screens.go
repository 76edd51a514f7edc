package views

import (
	"fmt"
	"strings"
)

type TaskItemData struct {
	ID        string
	Title     string
	Category  string
	Priority  string
	Due       string
	Completed bool
	Overdue   bool
}

type TaskListPanelData struct {
	QuickAddView string
	ListView     string
	Items        []TaskItemData
	SelectedID   string
	FilterLabel  string
	SortLabel    string
	SearchQuery  string
	ProgressView string
	ProgressPct  int
}

type CalendarCellData struct {
	Day       int
	InMonth   bool
	IsToday   bool
	Selected  bool
	TaskCount int
}

type CalendarPanelData struct {
	MonthLabel string
	Cells      []CalendarCellData
	DayLabel   string
	DayTable   string
}

type CategoryItemData struct {
	ID        string
	Name      string
	Color     string
	TaskCount int
}

type CategoriesPanelData struct {
	Items         []CategoryItemData
	SelectedID    string
	ConfirmPrompt string
}

type TaskDetailData struct {
	SelectedID   string
	Priority     string
	Category     string
	Due          string
	Reminder     string
	MarkdownView string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTaskListPanel(data TaskListPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	b.WriteString(data.QuickAddView + "\n")
	b.WriteString(fmt.Sprintf("filter: %s | sort: %s", data.FilterLabel, data.SortLabel))
	if data.SearchQuery != "" {
		b.WriteString(fmt.Sprintf(" | search: %q", data.SearchQuery))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	b.WriteString("actions: [a]add [space]done [x]delete [f]filter [s]sort [j/k]move\n")
	b.WriteString(data.ListView + "\n")
	if len(data.Items) == 0 {
		b.WriteString("(no tasks)")
		return strings.TrimSpace(b.String())
	}
	for _, item := range data.Items {
		cursor := " "
		if data.SelectedID == item.ID {
			cursor = ">"
		}
		box := "[ ]"
		if item.Completed {
			box = "[x]"
		}
		b.WriteString(fmt.Sprintf("%s %s %s %s", cursor, box, priorityBadge(item), item.Title))
		if item.Category != "" {
			b.WriteString(fmt.Sprintf(" #%s", item.Category))
		}
		if item.Due != "" {
			b.WriteString(fmt.Sprintf(" due:%s", item.Due))
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// RenderCalendarPanel draws a Sunday-first month grid. Today is wrapped in
// brackets and the selected day in parens; a trailing * marks days with tasks.
func RenderCalendarPanel(data CalendarPanelData) string {
	var b strings.Builder
	b.WriteString("calendar:\n")
	b.WriteString(fmt.Sprintf("month: %s\n", data.MonthLabel))
	b.WriteString("actions: [h/l]month [j/k]day [t]today [enter]tasks\n")
	b.WriteString(" Su  Mo  Tu  We  Th  Fr  Sa\n")
	for i, cell := range data.Cells {
		b.WriteString(renderCalendarCell(cell))
		if (i+1)%7 == 0 {
			b.WriteString("\n")
		}
	}
	if data.DayLabel != "" {
		b.WriteString(fmt.Sprintf("\n%s:\n", data.DayLabel))
		if strings.TrimSpace(data.DayTable) == "" {
			b.WriteString("(no tasks)")
		} else {
			b.WriteString(data.DayTable)
		}
	}
	return strings.TrimSpace(b.String())
}

func renderCalendarCell(cell CalendarCellData) string {
	day := fmt.Sprintf("%2d", cell.Day)
	if !cell.InMonth {
		day = " ."
	}
	switch {
	case cell.Selected:
		day = "(" + strings.TrimSpace(day) + ")"
	case cell.IsToday:
		day = "[" + strings.TrimSpace(day) + "]"
	}
	marker := " "
	if cell.InMonth && cell.TaskCount > 0 {
		marker = "*"
	}
	return fmt.Sprintf("%3s%s", day, marker)
}

func RenderCategoriesPanel(data CategoriesPanelData) string {
	var b strings.Builder
	b.WriteString("categories:\n")
	b.WriteString("actions: [j/k]move [d]delete [/ cat add <name>]\n")
	if len(data.Items) == 0 {
		b.WriteString("(no categories)")
		return b.String()
	}
	for _, item := range data.Items {
		cursor := " "
		if data.SelectedID == item.ID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %s (%d task(s))\n", cursor, item.Color, item.Name, item.TaskCount))
	}
	if data.ConfirmPrompt != "" {
		b.WriteString("\nconfirm: " + data.ConfirmPrompt)
	}
	return strings.TrimSpace(b.String())
}

func RenderTaskDetailPane(data TaskDetailData) string {
	if strings.TrimSpace(data.SelectedID) == "" {
		return "detail:\n(no selection)"
	}
	return fmt.Sprintf("detail:\nid: %s\npriority: %s\ncategory: %s\ndue: %s\nreminder: %s\n\ndescription:\n%s",
		data.SelectedID,
		data.Priority,
		data.Category,
		data.Due,
		data.Reminder,
		data.MarkdownView,
	)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("\nnotification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func priorityBadge(item TaskItemData) string {
	if item.Overdue || item.Priority == "high" {
		return "[RED]"
	}
	if item.Priority == "medium" {
		return "[YELLOW]"
	}
	return "[GREEN]"
}
