package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/cli/auth"
	"github.com/julianstephens/habitlog/internal/cli/dashboard"
	"github.com/julianstephens/habitlog/internal/cli/habits"
	"github.com/julianstephens/habitlog/internal/cli/logs"
	"github.com/julianstephens/habitlog/internal/cli/system"
	"github.com/julianstephens/habitlog/internal/cli/triggers"
	"github.com/julianstephens/habitlog/internal/config"
	"github.com/julianstephens/habitlog/internal/constants"
	apperrors "github.com/julianstephens/habitlog/internal/errors"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/storage"
	"github.com/julianstephens/habitlog/internal/tokens"
)

var CLI struct {
	Version      kong.VersionFlag
	APIURL       string        `name:"api-url" help:"Base URL of the habit tracker API, including the /api prefix." env:"HABITLOG_API_URL"`
	ConfigDir    string        `help:"Directory holding the local database and logs." env:"HABITLOG_CONFIG_DIR" default:"~/.config/habitlog"`
	TokenBackend string        `help:"Where tokens are kept: keyring, file or memory." env:"HABITLOG_TOKEN_BACKEND"`
	Timezone     string        `help:"IANA timezone used for 'today'." env:"HABITLOG_TIMEZONE"`
	Timeout      time.Duration `help:"Per-request timeout." env:"HABITLOG_TIMEOUT" default:"30s"`
	Debug        bool          `help:"Mirror logs to stderr at debug level." env:"HABITLOG_DEBUG"`

	Init      system.InitCmd         `cmd:"" help:"Initialize the local database."`
	Doctor    system.DoctorCmd       `cmd:"" help:"Run health checks and diagnostics."`
	Dashboard dashboard.DashboardCmd `cmd:"" help:"Show active habits and their progress." default:"1"`
	Auth      auth.AuthCmd           `cmd:"" help:"Register, log in and out."`
	Habit     habits.HabitCmd        `cmd:"" help:"Manage habits."`
	Trigger   triggers.TriggerCmd    `cmd:"" help:"Manage relapse triggers."`
	Log       logs.LogCmd            `cmd:"" help:"Record and manage daily log entries."`
	Settings  system.SettingsCmd     `cmd:"" help:"Manage locally stored settings."`
	Backup    system.BackupCmd       `cmd:"" help:"Snapshot and restore the local database."`
	DebugCmd  system.DebugCmd        `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	// .env files must be loaded before kong reads the environment.
	loaded, dotEnvErr := config.LoadDotEnv(workingDir(), envConfigDir())

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track habits, streaks and relapses against a habit tracker API"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg := &config.Config{
		APIURL:       CLI.APIURL,
		ConfigDir:    CLI.ConfigDir,
		TokenBackend: CLI.TokenBackend,
		Timezone:     CLI.Timezone,
		Timeout:      CLI.Timeout,
		Debug:        CLI.Debug,
	}
	if err := cfg.ResolveConfigDir(); err != nil {
		apperrors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	if dotEnvErr != nil {
		logger.Warn("failed to load .env file", "error", dotEnvErr)
	}
	for _, path := range loaded {
		logger.Debug("loaded .env file", "path", path)
	}

	db := storage.NewStore(cfg.DBPath())
	isInit := ctx.Command() == "init"

	// init opens the database itself and must not read settings from it
	var settings config.SettingsReader
	if !isInit {
		if err := openDB(db); err != nil {
			apperrors.Fatal(err)
		}
		settings = db
	}

	if err := cfg.Resolve(settings); err != nil {
		db.Close()
		apperrors.Fatal(err)
	}

	store, err := tokens.Open(cfg.TokenBackend, db)
	if err != nil {
		db.Close()
		apperrors.Fatal(err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	appCtx := cli.NewContext(runCtx, cfg, db, store)

	err = ctx.Run(appCtx)
	appCtx.Session.Close()
	stop()
	db.Close()
	if err != nil {
		apperrors.Fatal(err)
	}
}

// openDB loads the local database, creating it on first use.
func openDB(db *storage.Store) error {
	err := db.Load()
	if errors.Is(err, storage.ErrNotInitialized) {
		logger.Info("creating local database", "path", db.Path())
		return db.Init()
	}
	if err != nil {
		return fmt.Errorf("%w (run '%s init' to migrate)", err, constants.AppName)
	}
	return nil
}

func workingDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return dir
}

func envConfigDir() string {
	dir := os.Getenv(constants.EnvConfigDir)
	if dir == "" {
		dir = constants.DefaultConfigDir
	}
	expanded, err := config.ExpandHome(dir)
	if err != nil {
		return ""
	}
	return expanded
}
