package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlog/internal/tui/components/habitlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		// Responses from superseded loads are dropped.
		if msg.gen != m.gen || m.ended {
			return m, nil
		}
		m.applyLoaded(msg)
		return m, nil

	case habitlist.LogTodayMsg:
		m.notice = fmt.Sprintf("Saving %s for %s...", msg.Status, msg.HabitName)
		return m, m.logToday(msg)

	case loggedMsg:
		if m.ended {
			return m, nil
		}
		if msg.err != nil {
			m.notice = fmt.Sprintf("Could not log %s: %v", msg.habitName, msg.err)
			return m, nil
		}
		m.notice = fmt.Sprintf("Logged %s for %s today.", msg.status, msg.habitName)
		return m, m.reload()

	case SessionEndedMsg:
		m.ended = true
		m.gen++
		m.state = StateError
		m.err = fmt.Errorf("session ended (%s). Run 'habitlog auth login' and reopen the dashboard", msg.Reason)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.tab = (m.tab + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.tab = (m.tab - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			if m.ended {
				return m, nil
			}
			m.notice = ""
			return m, m.reload()
		}
	}

	if m.state != StateReady {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.tab {
	case TabHabits:
		m.habits, cmd = m.habits.Update(msg)
	case TabLogs:
		m.logs, cmd = m.logs.Update(msg)
	}
	return m, cmd
}
