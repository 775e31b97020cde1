package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateLoading:
		content = docStyle.Render(m.spinner.View() + " Loading dashboard...")
	case StateError:
		content = m.viewError()
	case StateReady:
		content = lipgloss.JoinVertical(lipgloss.Left, m.viewSummary(), m.viewTab())
	}

	parts := []string{m.viewTabs(), content}
	if m.notice != "" {
		parts = append(parts, noticeStyle.Render(m.notice))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.tab == Tab(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewSummary() string {
	s := m.summary
	stat := func(label string, value string) string {
		return statLabelStyle.Render(label+" ") + statValueStyle.Render(value)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		stat("Active", fmt.Sprint(s.ActiveCount)), "   ",
		stat("Success days", fmt.Sprint(s.TotalSuccessDays)), "   ",
		stat("Relapses", fmt.Sprint(s.TotalRelapseCount)), "   ",
		stat("Best streak", fmt.Sprintf("%dd", s.BestStreak)), "   ",
		stat("Avg progress", fmt.Sprintf("%d%%", s.AvgProgressPercentage)),
	)
	return summaryStyle.Render(row)
}

func (m Model) viewTab() string {
	switch m.tab {
	case TabLogs:
		return docStyle.Render(m.logs.View())
	default:
		return docStyle.Render(m.habits.View())
	}
}

func (m Model) viewError() string {
	hint := "[r] Retry   [q] Quit"
	if m.ended {
		hint = "[q] Quit"
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		dangerStyle.Render("Could not load the dashboard"),
		fmt.Sprint(m.err),
		"",
		hint,
	))
}
