package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlog/internal/models"
)

// LogTodayMsg asks the parent to record today's outcome for a habit.
type LogTodayMsg struct {
	HabitID   int64
	HabitName string
	Status    models.LogStatus
}

type Item struct {
	models.DashboardItem
	bar progress.Model
}

func (i Item) Title() string { return i.Habit.Name }

func (i Item) Description() string {
	s := i.Stats
	return fmt.Sprintf("%s %3d%% | streak %dd | %d ok / %d relapse | goal %dd",
		i.bar.ViewAs(float64(s.ProgressPercentage)/100),
		s.ProgressPercentage, s.Streak, s.TotalSuccessDays, s.TotalRelapseCount, s.GoalDays)
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Success key.Binding
	Relapse key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Success: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "log success today"),
		),
		Relapse: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "log relapse today"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
	bar  progress.Model
}

func New(items []models.DashboardItem, width, height int) Model {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(20), progress.WithoutPercentage())

	l := list.New(toItems(items, bar), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered by the parent

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Success, keys.Relapse}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Success, keys.Relapse}
	}

	return Model{list: l, keys: keys, bar: bar}
}

func toItems(items []models.DashboardItem, bar progress.Model) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = Item{DashboardItem: it, bar: bar}
	}
	return out
}

func (m *Model) SetItems(items []models.DashboardItem) {
	m.list.SetItems(toItems(items, m.bar))
}

// Selected returns the highlighted habit, if any.
func (m Model) Selected() (models.DashboardItem, bool) {
	i, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.DashboardItem{}, false
	}
	return i.DashboardItem, true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		var status models.LogStatus
		switch {
		case key.Matches(msg, m.keys.Success):
			status = models.StatusSuccess
		case key.Matches(msg, m.keys.Relapse):
			status = models.StatusRelapse
		}
		if status != "" {
			if it, ok := m.Selected(); ok {
				return m, func() tea.Msg {
					return LogTodayMsg{HabitID: it.Habit.ID, HabitName: it.Habit.Name, Status: status}
				}
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No active habits yet.\n  Add one with 'habitlog habit add'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
