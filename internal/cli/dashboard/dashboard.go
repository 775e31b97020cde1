package dashboard

import (
	"context"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlog/internal/api"
	"github.com/julianstephens/habitlog/internal/cli"
	dash "github.com/julianstephens/habitlog/internal/dashboard"
	"github.com/julianstephens/habitlog/internal/events"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/tui"
	"github.com/julianstephens/habitlog/internal/utils"
)

type DashboardCmd struct {
	Server bool `help:"Use the server's aggregated dashboard endpoint instead of aggregating locally."`
	TUI    bool `name:"tui" short:"i" help:"Open the interactive dashboard."`
}

func (c *DashboardCmd) Run(ctx *cli.Context) error {
	src := &apiSource{client: ctx.API, timezone: ctx.Config.Timezone, server: c.Server}

	if c.TUI {
		return runTUI(ctx, src)
	}

	summary, err := src.Summary(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}
	render(ctx, summary)
	return nil
}

func render(ctx *cli.Context, s models.DashboardSummary) {
	if s.ActiveCount == 0 {
		ctx.Println("No active habits.")
		return
	}

	rows := make([][]string, 0, len(s.Items))
	for _, item := range s.Items {
		rows = append(rows, []string{
			strconv.FormatInt(item.Habit.ID, 10),
			item.Habit.Name,
			fmt.Sprintf("%dd", item.Stats.Streak),
			strconv.Itoa(item.Stats.TotalSuccessDays),
			strconv.Itoa(item.Stats.TotalRelapseCount),
			fmt.Sprintf("%d%%", item.Stats.ProgressPercentage),
		})
	}
	ctx.Printf("%s", cli.Table([]string{"ID", "HABIT", "STREAK", "SUCCESS", "RELAPSES", "PROGRESS"}, rows))
	ctx.Println()
	ctx.Printf("Active habits:    %d\n", s.ActiveCount)
	ctx.Printf("Best streak:      %d days\n", s.BestStreak)
	ctx.Printf("Success days:     %d\n", s.TotalSuccessDays)
	ctx.Printf("Relapses:         %d\n", s.TotalRelapseCount)
	ctx.Printf("Average progress: %d%%\n", s.AvgProgressPercentage)
}

func runTUI(ctx *cli.Context, src tui.Source) error {
	p := tea.NewProgram(tui.NewModel(ctx.Ctx, src), tea.WithAltScreen(), tea.WithContext(ctx.Ctx))

	// Send blocks until the program is running, so forward from a goroutine.
	ctx.Session.OnLogout(func(reason events.Reason) {
		go p.Send(tui.SessionEndedMsg{Reason: reason})
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

// apiSource feeds the interactive dashboard from the API.
type apiSource struct {
	client   *api.Client
	timezone string
	server   bool
}

func (s *apiSource) Summary(ctx context.Context) (models.DashboardSummary, error) {
	if s.server {
		return s.client.Habits().Dashboard(ctx)
	}
	return dash.Load(ctx, s.client.Habits())
}

func (s *apiSource) Logs(ctx context.Context) ([]models.DailyLog, error) {
	return s.client.Logs().List(ctx, nil)
}

func (s *apiSource) LogToday(ctx context.Context, habitID int64, status models.LogStatus) error {
	today, err := utils.TodayInTimezone(s.timezone)
	if err != nil {
		return err
	}
	_, err = s.client.Logs().Upsert(ctx, models.LogInput{HabitID: habitID, Date: today, Status: status})
	return err
}
