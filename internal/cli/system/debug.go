package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitlog/internal/api"
	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/models"
)

type DebugCmd struct {
	DBPath    *DebugDBPathCmd    `cmd:"" help:"Show database path."`
	DumpHabit *DebugDumpHabitCmd `cmd:"" help:"Dump a habit and its stats as JSON."`
	DumpLogs  *DebugDumpLogsCmd  `cmd:"" help:"Dump normalized log entries as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	// Output in machine-readable format
	return printJSON(ctx, map[string]string{
		"path":       ctx.DB.Path(),
		"config_dir": ctx.Config.ConfigDir,
	})
}

type DebugDumpHabitCmd struct {
	ID int64 `arg:"" help:"ID of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.API.Habits().List(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}

	var habit *models.Habit
	for i := range habits {
		if habits[i].ID == cmd.ID {
			habit = &habits[i]
			break
		}
	}
	if habit == nil {
		return fmt.Errorf("habit not found: %d", cmd.ID)
	}

	stats, err := ctx.API.Habits().Stats(ctx.Ctx, cmd.ID)
	if err != nil && !api.IsNotFound(err) {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	return printJSON(ctx, models.DashboardItem{Habit: *habit, Stats: stats})
}

type DebugDumpLogsCmd struct {
	Habit *int64 `help:"Only dump entries of this habit."`
}

func (cmd *DebugDumpLogsCmd) Run(ctx *cli.Context) error {
	logs, err := ctx.API.Logs().List(ctx.Ctx, cmd.Habit)
	if err != nil {
		return fmt.Errorf("failed to list logs: %w", err)
	}
	return printJSON(ctx, logs)
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}
