package logs

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/julianstephens/habitlog/internal/api"
	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/export"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/utils"
)

type LogCmd struct {
	List   LogListCmd   `cmd:"" help:"List log entries, newest first." default:"1"`
	Add    LogAddCmd    `cmd:"" help:"Record a day, asking before overwriting an existing entry."`
	Set    LogSetCmd    `cmd:"" help:"Record a day, overwriting any existing entry."`
	Edit   LogEditCmd   `cmd:"" help:"Edit a log entry."`
	Delete LogDeleteCmd `cmd:"" help:"Delete a log entry."`
	Export LogExportCmd `cmd:"" help:"Export log entries to CSV or JSON."`
}

type LogListCmd struct {
	Habit *int64 `help:"Only show entries of this habit."`
	Limit int    `short:"n" help:"Maximum number of entries to show (0 for all)." default:"0"`
}

func (c *LogListCmd) Run(ctx *cli.Context) error {
	logs, err := ctx.API.Logs().List(ctx.Ctx, c.Habit)
	if err != nil {
		return fmt.Errorf("failed to list logs: %w", err)
	}
	if len(logs) == 0 {
		ctx.Println("No log entries.")
		return nil
	}

	names, err := ctx.HabitNames()
	if err != nil {
		return err
	}

	models.SortLogsByDateDesc(logs)
	if c.Limit > 0 && len(logs) > c.Limit {
		logs = logs[:c.Limit]
	}

	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		name, ok := names[l.HabitID]
		if !ok {
			name = fmt.Sprintf("#%d", l.HabitID)
		}
		trigger := ""
		if l.TriggerID != nil {
			trigger = strconv.FormatInt(*l.TriggerID, 10)
		}
		note := ""
		if l.Note != nil {
			note = *l.Note
		}
		rows = append(rows, []string{
			strconv.FormatInt(l.ID, 10),
			l.Date,
			name,
			cli.Status(string(l.Status)),
			trigger,
			note,
		})
	}
	ctx.Printf("%s", cli.Table([]string{"ID", "DATE", "HABIT", "STATUS", "TRIGGER", "NOTE"}, rows))
	return nil
}

// entryFlags are shared by add and set.
type entryFlags struct {
	HabitID int64   `arg:"" name:"habit" help:"Habit ID."`
	Status  string  `arg:"" enum:"success,relapse" help:"success or relapse."`
	Date    string  `short:"d" help:"Day to record (YYYY-MM-DD). Defaults to today."`
	Note    *string `help:"Free-form note."`
	Trigger *int64  `short:"t" help:"Trigger ID (relapses only)."`
}

func (f *entryFlags) Validate() error {
	status, err := models.ParseLogStatus(f.Status)
	if err != nil {
		return err
	}
	if f.Trigger != nil && status != models.StatusRelapse {
		return fmt.Errorf("--trigger only applies to relapses")
	}
	if f.Date != "" {
		return utils.ValidateDate(f.Date)
	}
	return nil
}

func (f *entryFlags) input(ctx *cli.Context) (models.LogInput, error) {
	date, err := ctx.Date(f.Date)
	if err != nil {
		return models.LogInput{}, err
	}
	return models.LogInput{
		HabitID:   f.HabitID,
		Date:      date,
		Status:    models.LogStatus(f.Status),
		Note:      f.Note,
		TriggerID: f.Trigger,
	}, nil
}

type LogAddCmd struct {
	entryFlags
	Yes bool `short:"y" help:"Overwrite an existing entry without asking."`
}

func (c *LogAddCmd) Run(ctx *cli.Context) error {
	in, err := c.input(ctx)
	if err != nil {
		return err
	}

	var promptErr error
	res, err := ctx.API.Logs().UpsertConfirm(ctx.Ctx, in, func(existing models.DailyLog) bool {
		ok, err := ctx.Confirm(c.Yes,
			fmt.Sprintf("Habit %d already has a %s entry for %s. Overwrite it?", in.HabitID, existing.Status, in.Date),
			"")
		if err != nil {
			promptErr = err
			return false
		}
		return ok
	})
	if promptErr != nil {
		return promptErr
	}
	if errors.Is(err, api.ErrOverwriteDeclined) {
		ctx.Println("Kept the existing entry.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", in.Date, err)
	}

	report(ctx, res)
	return nil
}

type LogSetCmd struct {
	entryFlags
}

func (c *LogSetCmd) Run(ctx *cli.Context) error {
	in, err := c.input(ctx)
	if err != nil {
		return err
	}
	res, err := ctx.API.Logs().Upsert(ctx.Ctx, in)
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", in.Date, err)
	}
	report(ctx, res)
	return nil
}

func report(ctx *cli.Context, res api.UpsertResult) {
	verb := "Updated"
	if res.Created {
		verb = "Logged"
	}
	ctx.Printf("%s %s for habit %d on %s (ID: %d)\n", verb, res.Log.Status, res.Log.HabitID, res.Log.Date, res.Log.ID)
}

type LogEditCmd struct {
	ID           int64   `arg:"" help:"Log entry ID."`
	Status       *string `help:"New status (success or relapse)."`
	Date         *string `help:"New date (YYYY-MM-DD)."`
	Note         *string `help:"New note."`
	Trigger      *int64  `help:"New trigger ID."`
	ClearTrigger bool    `help:"Remove the trigger from the entry."`
}

func (c *LogEditCmd) Validate() error {
	if c.Trigger != nil && c.ClearTrigger {
		return fmt.Errorf("--trigger and --clear-trigger are mutually exclusive")
	}
	if c.Status != nil {
		if _, err := models.ParseLogStatus(*c.Status); err != nil {
			return err
		}
	}
	if c.Date != nil {
		return utils.ValidateDate(*c.Date)
	}
	return nil
}

func (c *LogEditCmd) Run(ctx *cli.Context) error {
	patch := models.LogPatch{
		Date:         c.Date,
		Note:         c.Note,
		TriggerID:    c.Trigger,
		ClearTrigger: c.ClearTrigger,
	}
	if c.Status != nil {
		status := models.LogStatus(*c.Status)
		patch.Status = &status
	}
	if patch.Date == nil && patch.Status == nil && patch.Note == nil && patch.TriggerID == nil && !patch.ClearTrigger {
		ctx.Println("No changes specified.")
		return nil
	}

	l, err := ctx.API.Logs().Update(ctx.Ctx, c.ID, patch)
	if err != nil {
		return fmt.Errorf("failed to update log %d: %w", c.ID, err)
	}
	ctx.Printf("Updated log %d: %s on %s\n", l.ID, l.Status, l.Date)
	return nil
}

type LogDeleteCmd struct {
	ID  int64 `arg:"" help:"Log entry ID."`
	Yes bool  `short:"y" help:"Do not ask for confirmation."`
}

func (c *LogDeleteCmd) Run(ctx *cli.Context) error {
	ok, err := ctx.Confirm(c.Yes, fmt.Sprintf("Delete log %d?", c.ID), "")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Cancelled.")
		return nil
	}
	if err := ctx.API.Logs().Remove(ctx.Ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete log %d: %w", c.ID, err)
	}
	ctx.Printf("Deleted log %d\n", c.ID)
	return nil
}

type LogExportCmd struct {
	Output string `short:"o" help:"Output file. Writes to stdout when omitted." type:"path"`
	Format string `short:"f" help:"csv or json. Inferred from the output extension when omitted."`
	Habit  *int64 `help:"Only export entries of this habit."`
}

func (c *LogExportCmd) Validate() error {
	if c.Format != "" {
		_, err := export.ParseFormat(c.Format)
		return err
	}
	return nil
}

func (c *LogExportCmd) Run(ctx *cli.Context) error {
	format := export.FormatCSV
	switch {
	case c.Format != "":
		format, _ = export.ParseFormat(c.Format)
	case c.Output != "":
		format = export.FormatFromPath(c.Output)
	}

	logs, err := ctx.API.Logs().List(ctx.Ctx, c.Habit)
	if err != nil {
		return fmt.Errorf("failed to list logs: %w", err)
	}
	habits, err := ctx.API.Habits().List(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}
	triggers, err := ctx.API.Triggers().List(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to load triggers: %w", err)
	}
	models.SortLogsByDateDesc(logs)
	names := export.NewNames(habits, triggers)

	if c.Output == "" {
		return export.Write(ctx.Out, format, logs, names)
	}

	if err := export.WriteFile(c.Output, format, logs, names); err != nil {
		return err
	}
	logger.Info("exported logs", "count", len(logs), "path", c.Output, "format", format)
	ctx.Printf("Exported %d entries to %s\n", len(logs), c.Output)
	return nil
}
