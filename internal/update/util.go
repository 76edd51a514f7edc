package update

import (
	"strings"

	"github.com/taskmasterhq/taskmaster/internal/commands"
	"github.com/taskmasterhq/taskmaster/internal/store"
	"github.com/taskmasterhq/taskmaster/internal/views"
)

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// parseQuickAdd accepts the palette add syntax without the leading verb.
func parseQuickAdd(raw string) (store.TaskDraft, error) {
	cmd, err := commands.Parse("add " + strings.TrimSpace(raw))
	if err != nil {
		return store.TaskDraft{}, err
	}
	return draftFromAddArgs(*cmd.Add), nil
}

func draftFromAddArgs(a commands.AddArgs) store.TaskDraft {
	return store.TaskDraft{
		Title:    a.Title,
		Category: a.Category,
		Priority: a.Priority,
		DueDate:  a.DueDate,
		DueTime:  a.DueTime,
		Reminder: a.Reminder,
	}
}

func renderMarkdownDetail(md string) string {
	return views.RenderMarkdown(md)
}
