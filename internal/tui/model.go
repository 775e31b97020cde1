// Package tui is the interactive dashboard.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlog/internal/events"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/tui/components/habitlist"
	"github.com/julianstephens/habitlog/internal/tui/components/loglist"
)

const (
	requestTimeout = 15 * time.Second
	recentLogLimit = 50
)

// Source is what the dashboard reads from and writes to.
type Source interface {
	Summary(ctx context.Context) (models.DashboardSummary, error)
	Logs(ctx context.Context) ([]models.DailyLog, error)
	LogToday(ctx context.Context, habitID int64, status models.LogStatus) error
}

type SessionState int

const (
	StateLoading SessionState = iota
	StateReady
	StateError
)

type Tab int

const (
	TabHabits Tab = iota
	TabLogs
	tabCount
)

var tabTitles = []string{"Habits", "Logs"}

// loadedMsg carries the result of the load started with generation gen.
type loadedMsg struct {
	gen     int
	summary models.DashboardSummary
	logs    []models.DailyLog
	err     error
}

type loggedMsg struct {
	habitName string
	status    models.LogStatus
	err       error
}

// SessionEndedMsg is sent into the program when a logout is published.
type SessionEndedMsg struct {
	Reason events.Reason
}

type Model struct {
	ctx      context.Context
	source   Source
	state    SessionState
	tab      Tab
	gen      int
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	habits   habitlist.Model
	logs     loglist.Model
	summary  models.DashboardSummary
	err      error
	notice   string
	ended    bool
	quitting bool
	width    int
	height   int
}

// NewModel returns a model that starts in the loading state; Init issues
// the first load.
func NewModel(ctx context.Context, source Source) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		source:  source,
		state:   StateLoading,
		gen:     1,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		habits:  habitlist.New(nil, 0, 0),
		logs:    loglist.New(0, 0),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(m.gen))
}

func (m Model) State() SessionState { return m.state }

func (m Model) Summary() models.DashboardSummary { return m.summary }

func (m Model) Err() error { return m.err }

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Refresh, m.keys.Quit, m.keys.Help}
	if m.state == StateReady && m.tab == TabHabits {
		keys = append(keys, m.keys.Success, m.keys.Relapse)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

// reload invalidates any load in flight and starts a new one.
func (m *Model) reload() tea.Cmd {
	m.gen++
	m.state = StateLoading
	m.err = nil
	return tea.Batch(m.spinner.Tick, m.load(m.gen))
}

func (m Model) load(gen int) tea.Cmd {
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		summary, err := source.Summary(ctx)
		if err != nil {
			return loadedMsg{gen: gen, err: err}
		}
		logs, err := source.Logs(ctx)
		if err != nil {
			return loadedMsg{gen: gen, err: err}
		}
		models.SortLogsByDateDesc(logs)
		if len(logs) > recentLogLimit {
			logs = logs[:recentLogLimit]
		}
		return loadedMsg{gen: gen, summary: summary, logs: logs}
	}
}

func (m Model) logToday(msg habitlist.LogTodayMsg) tea.Cmd {
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()
		err := source.LogToday(ctx, msg.HabitID, msg.Status)
		return loggedMsg{habitName: msg.HabitName, status: msg.Status, err: err}
	}
}

func (m *Model) applyLoaded(msg loadedMsg) {
	if msg.err != nil {
		m.state = StateError
		m.err = msg.err
		return
	}

	m.state = StateReady
	m.summary = msg.summary
	m.habits.SetItems(msg.summary.Items)

	names := make(map[int64]string, len(msg.summary.Items))
	for _, it := range msg.summary.Items {
		names[it.Habit.ID] = it.Habit.Name
	}
	m.logs.SetLogs(msg.logs, names)
}

func (m *Model) resize() {
	// tabs, summary box, help and padding
	h := m.height - 12
	if h < 3 {
		h = 3
	}
	w := m.width - 4
	m.habits.SetSize(w, h)
	m.logs.SetSize(w, h)
}
