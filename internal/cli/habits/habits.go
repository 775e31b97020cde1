package habits

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/utils"
)

type HabitCmd struct {
	List   HabitListCmd   `cmd:"" help:"List habits." default:"1"`
	Add    HabitAddCmd    `cmd:"" help:"Add a habit."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its logs."`
	Stats  HabitStatsCmd  `cmd:"" help:"Show stats for a habit."`
}

type HabitListCmd struct {
	Active bool `help:"Only show active habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	var (
		habits []models.Habit
		err    error
	)
	if c.Active {
		habits, err = ctx.API.Habits().Active(ctx.Ctx)
	} else {
		habits, err = ctx.API.Habits().List(ctx.Ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}

	if len(habits) == 0 {
		ctx.Println("No habits yet. Add one with 'habitlog habit add'.")
		return nil
	}

	rows := make([][]string, 0, len(habits))
	for _, h := range habits {
		active := "yes"
		if !h.IsActive {
			active = cli.Muted("no")
		}
		rows = append(rows, []string{
			strconv.FormatInt(h.ID, 10),
			h.Name,
			h.StartDate,
			fmt.Sprintf("%dd", h.GoalDays),
			active,
		})
	}
	ctx.Printf("%s", cli.Table([]string{"ID", "NAME", "START", "GOAL", "ACTIVE"}, rows))
	return nil
}

type HabitAddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	StartDate string `short:"s" help:"Start date (YYYY-MM-DD). Defaults to today."`
	Goal      int    `short:"g" help:"Goal in days." default:"30"`
	Inactive  bool   `help:"Create the habit paused."`
}

func (c *HabitAddCmd) Validate() error {
	if c.Goal <= 0 {
		return fmt.Errorf("goal must be greater than zero")
	}
	if c.StartDate != "" {
		return utils.ValidateDate(c.StartDate)
	}
	return nil
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	start, err := ctx.Date(c.StartDate)
	if err != nil {
		return err
	}

	in := models.HabitInput{Name: c.Name, StartDate: start, GoalDays: c.Goal}
	if c.Inactive {
		active := false
		in.IsActive = &active
	}

	h, err := ctx.API.Habits().Create(ctx.Ctx, in)
	if err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}
	ctx.Printf("Added habit: %s (ID: %d)\n", h.Name, h.ID)
	return nil
}

type HabitEditCmd struct {
	ID        int64   `arg:"" help:"Habit ID."`
	Name      *string `help:"New name."`
	StartDate *string `help:"New start date (YYYY-MM-DD)."`
	Goal      *int    `help:"New goal in days."`
	Activate  bool    `help:"Mark the habit active." xor:"active"`
	Pause     bool    `help:"Mark the habit inactive." xor:"active"`
}

func (c *HabitEditCmd) Validate() error {
	if c.Activate && c.Pause {
		return fmt.Errorf("--activate and --pause are mutually exclusive")
	}
	if c.Goal != nil && *c.Goal <= 0 {
		return fmt.Errorf("goal must be greater than zero")
	}
	if c.StartDate != nil {
		return utils.ValidateDate(*c.StartDate)
	}
	return nil
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	patch := models.HabitPatch{Name: c.Name, StartDate: c.StartDate, GoalDays: c.Goal}
	if c.Activate || c.Pause {
		active := c.Activate
		patch.IsActive = &active
	}
	if patch.Empty() {
		ctx.Println("No changes specified. Use --name, --start-date, --goal, --activate or --pause.")
		return nil
	}

	h, err := ctx.API.Habits().Update(ctx.Ctx, c.ID, patch)
	if err != nil {
		return fmt.Errorf("failed to update habit %d: %w", c.ID, err)
	}
	ctx.Printf("Updated habit: %s (ID: %d)\n", h.Name, h.ID)
	return nil
}

type HabitDeleteCmd struct {
	ID  int64 `arg:"" help:"Habit ID."`
	Yes bool  `short:"y" help:"Do not ask for confirmation."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	ok, err := ctx.Confirm(c.Yes,
		fmt.Sprintf("Delete habit %d?", c.ID),
		"All of its log entries are deleted with it.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Cancelled.")
		return nil
	}

	if err := ctx.API.Habits().Remove(ctx.Ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete habit %d: %w", c.ID, err)
	}
	ctx.Printf("Deleted habit %d\n", c.ID)
	return nil
}

type HabitStatsCmd struct {
	ID int64 `arg:"" help:"Habit ID."`
}

func (c *HabitStatsCmd) Run(ctx *cli.Context) error {
	s, err := ctx.API.Habits().Stats(ctx.Ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to load stats for habit %d: %w", c.ID, err)
	}

	ctx.Printf("Habit %d\n", c.ID)
	ctx.Printf("  Current streak:  %d days\n", s.Streak)
	ctx.Printf("  Success days:    %d\n", s.TotalSuccessDays)
	ctx.Printf("  Relapses:        %d\n", s.TotalRelapseCount)
	ctx.Printf("  Goal:            %d days\n", s.GoalDays)
	ctx.Printf("  Progress:        %d%%\n", s.ProgressPercentage)
	return nil
}
