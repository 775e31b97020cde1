package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/habitlog/internal/api"
	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/tokens"
	"github.com/julianstephens/habitlog/internal/utils"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	check := func(name string, err error) {
		if err != nil {
			ctx.Printf("❌ %s: FAIL\n", name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			return
		}
		ctx.Printf("✓ %s: OK\n", name)
	}
	warn := func(name string, err error) {
		if err != nil {
			ctx.Printf("⚠ %s: WARNING\n", name)
			ctx.Printf("   %v\n", err)
			return
		}
		ctx.Printf("✓ %s: OK\n", name)
	}

	check("Config directory", checkConfigDir(ctx))

	dbErr := checkDBReachable(ctx)
	check("Database reachable", dbErr)
	if dbErr == nil {
		check("Migrations complete", checkMigrationsComplete(ctx))
	} else {
		ctx.Printf("⊘ Migrations complete: SKIPPED (database not reachable)\n")
	}

	check("Token backend", checkTokenBackend(ctx))
	check("Clock/timezone", checkClockTimezone(ctx))
	warn("API reachable", checkAPI(ctx))

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkConfigDir(ctx *cli.Context) error {
	info, err := os.Stat(ctx.Config.ConfigDir)
	if err != nil {
		return fmt.Errorf("config directory %s: %w", ctx.Config.ConfigDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", ctx.Config.ConfigDir)
	}
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if ctx.DB == nil {
		return fmt.Errorf("database not opened")
	}
	if err := ctx.DB.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, err := ctx.DB.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run '%s init')", current, latest, constants.AppName)
	}
	return nil
}

func checkTokenBackend(ctx *cli.Context) error {
	if ks, ok := ctx.Tokens.(*tokens.KeyringStore); ok && !ks.IsAvailable() {
		return fmt.Errorf("OS keyring unavailable; use --token-backend=%s", constants.TokenBackendFile)
	}
	if _, err := ctx.Tokens.Get(); err != nil {
		return fmt.Errorf("failed to read tokens from %s backend: %w", ctx.Config.TokenBackend, err)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := utils.LoadLocation(ctx.Config.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", ctx.Config.Timezone, err)
	}
	return nil
}

// checkAPI treats a 401 as reachable; only transport failures and 5xx count.
func checkAPI(ctx *cli.Context) error {
	c, cancel := context.WithTimeout(ctx.Ctx, 5*time.Second)
	defer cancel()

	_, err := ctx.API.Habits().List(c)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, api.ErrUnauthorized):
		return fmt.Errorf("%s is reachable but you are not logged in", ctx.API.BaseURL())
	case api.StatusCode(err) >= 500:
		return fmt.Errorf("%s returned %d", ctx.API.BaseURL(), api.StatusCode(err))
	case api.StatusCode(err) != 0:
		return nil
	default:
		return fmt.Errorf("cannot reach %s: %w", ctx.API.BaseURL(), err)
	}
}
