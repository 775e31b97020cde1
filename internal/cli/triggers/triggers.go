package triggers

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/models"
)

type TriggerCmd struct {
	List   TriggerListCmd   `cmd:"" help:"List triggers." default:"1"`
	Add    TriggerAddCmd    `cmd:"" help:"Add a trigger."`
	Rename TriggerRenameCmd `cmd:"" help:"Rename a trigger."`
	Delete TriggerDeleteCmd `cmd:"" help:"Delete a trigger."`
}

type TriggerListCmd struct{}

func (c *TriggerListCmd) Run(ctx *cli.Context) error {
	triggers, err := ctx.API.Triggers().List(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to list triggers: %w", err)
	}
	if len(triggers) == 0 {
		ctx.Println("No triggers yet. Add one with 'habitlog trigger add'.")
		return nil
	}

	rows := make([][]string, 0, len(triggers))
	for _, t := range triggers {
		rows = append(rows, []string{strconv.FormatInt(t.ID, 10), t.Name})
	}
	ctx.Printf("%s", cli.Table([]string{"ID", "NAME"}, rows))
	return nil
}

type TriggerAddCmd struct {
	Name string `arg:"" help:"Trigger name."`
}

func (c *TriggerAddCmd) Run(ctx *cli.Context) error {
	t, err := ctx.API.Triggers().Create(ctx.Ctx, models.TriggerInput{Name: c.Name})
	if err != nil {
		return fmt.Errorf("failed to add trigger: %w", err)
	}
	ctx.Printf("Added trigger: %s (ID: %d)\n", t.Name, t.ID)
	return nil
}

type TriggerRenameCmd struct {
	ID   int64  `arg:"" help:"Trigger ID."`
	Name string `arg:"" help:"New name."`
}

func (c *TriggerRenameCmd) Run(ctx *cli.Context) error {
	t, err := ctx.API.Triggers().Update(ctx.Ctx, c.ID, models.TriggerInput{Name: c.Name})
	if err != nil {
		return fmt.Errorf("failed to rename trigger %d: %w", c.ID, err)
	}
	ctx.Printf("Renamed trigger %d to %s\n", t.ID, t.Name)
	return nil
}

type TriggerDeleteCmd struct {
	ID  int64 `arg:"" help:"Trigger ID."`
	Yes bool  `short:"y" help:"Do not ask for confirmation."`
}

func (c *TriggerDeleteCmd) Run(ctx *cli.Context) error {
	ok, err := ctx.Confirm(c.Yes,
		fmt.Sprintf("Delete trigger %d?", c.ID),
		"Log entries that reference it keep their status but lose the trigger.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Cancelled.")
		return nil
	}

	if err := ctx.API.Triggers().Remove(ctx.Ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete trigger %d: %w", c.ID, err)
	}
	ctx.Printf("Deleted trigger %d\n", c.ID)
	return nil
}
