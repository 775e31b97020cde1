package loglist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlog/internal/models"
)

var (
	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)

	habitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Width(24)

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	relapseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	viewport viewport.Model
	logs     []models.DailyLog
	names    map[int64]string
}

func New(width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		names:    map[int64]string{},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.logs) == 0 {
		return "\n  No entries yet. Press 's' or 'x' on the Habits tab to log today."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetLogs replaces the entries shown. logs must already be sorted.
func (m *Model) SetLogs(logs []models.DailyLog, names map[int64]string) {
	m.logs = logs
	m.names = names
	m.Render()
}

func (m *Model) Render() {
	var b strings.Builder
	for _, l := range m.logs {
		name, ok := m.names[l.HabitID]
		if !ok {
			name = fmt.Sprintf("habit #%d", l.HabitID)
		}

		status := successStyle.Render(string(l.Status))
		if l.Status == models.StatusRelapse {
			status = relapseStyle.Render(string(l.Status))
		}

		line := fmt.Sprintf("%s %s %s", dateStyle.Render(l.Date), habitStyle.Render(name), status)
		if l.Note != nil && *l.Note != "" {
			line += "  " + noteStyle.Render(*l.Note)
		}
		b.WriteString(line + "\n")
	}
	m.viewport.SetContent(b.String())
}
