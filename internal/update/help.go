package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/taskmasterhq/taskmaster/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Tasks, Action: "switch to Tasks"},
		{Key: m.Keys.Calendar, Action: "switch to Calendar"},
		{Key: m.Keys.Categories, Action: "switch to Categories"},
		{Key: "/", Action: "open command palette"},
		{Key: "B", Action: "run backup"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewTasks:
		return []KeyBinding{
			{Key: "a", Action: "quick add task"},
			{Key: "j/k", Action: "move selection"},
			{Key: "space", Action: "toggle completion"},
			{Key: "x", Action: "delete task"},
			{Key: "f/s", Action: "cycle filter / sort"},
			{Key: "esc", Action: "clear search"},
		}
	case ViewCalendar:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next month"},
			{Key: "j/k", Action: "move a week"},
			{Key: "H/L", Action: "move a day"},
			{Key: "t", Action: "jump to today"},
			{Key: "enter", Action: "open day's tasks"},
		}
	case ViewCategories:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "d", Action: "delete category (confirm)"},
			{Key: "y/n", Action: "confirm / cancel delete"},
		}
	default:
		return nil
	}
}

func (m Model) helpBindings() []key.Binding {
	var out []key.Binding
	for _, kb := range append(m.globalBindings(), m.viewBindings()...) {
		out = append(out, key.NewBinding(
			key.WithKeys(kb.Key),
			key.WithHelp(kb.Key, kb.Action),
		))
	}
	return out
}
