package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	mainPaneWidth   = 62
	detailPaneWidth = 46
)

// AppData is one fully-composed frame: the active view in the main pane,
// the detail/help column beside it, and the status, notification and key
// hint lines below.
type AppData struct {
	Header        string
	MainPane      string
	DetailPane    string
	StatusLine    string
	StatusIsError bool
	Notification  string
	Footer        string
}

var (
	headerStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	mainPaneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(0, 1)
	detailPaneStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	notificationStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("11")).Padding(0, 1)
	footerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderApp assembles a frame. The main pane is wider than the detail
// column so the task list and the 7-column calendar grid keep their full
// row width.
func RenderApp(data AppData) string {
	main := mainPaneStyle.Width(mainPaneWidth).Render(data.MainPane)
	detail := detailPaneStyle.Width(detailPaneWidth).Render(data.DetailPane)
	row := lipgloss.JoinHorizontal(lipgloss.Top, main, detail)

	status := statusStyle.Render(data.StatusLine)
	if data.StatusIsError {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{
		headerStyle.Render(data.Header),
		row,
		status,
	}
	if data.Notification != "" {
		lines = append(lines, notificationStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders a task description for the detail pane, falling
// back to the raw text when glamour cannot style it.
func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
