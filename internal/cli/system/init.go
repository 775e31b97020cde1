package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitlog/internal/backup"
	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/logger"
)

type InitCmd struct {
	Force bool `help:"Snapshot and delete the existing local database first. Stored settings and file-backend tokens are reset."`
}

func (cmd *InitCmd) Run(ctx *cli.Context) error {
	path := ctx.DB.Path()

	if cmd.Force {
		if _, err := os.Stat(path); err == nil {
			snap, err := backup.NewManager(path).Create()
			if err != nil {
				return fmt.Errorf("failed to snapshot database before reset: %w", err)
			}
			ctx.Printf("Saved previous database to %s\n", snap)
		}
		if err := ctx.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		logger.Info("removed local database", "path", path)
	}

	if err := ctx.DB.Init(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	current, _, err := ctx.DB.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	ctx.Printf("✓ Initialized %s (schema version %d)\n", path, current)
	return nil
}
