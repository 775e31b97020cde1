package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/habitlog/internal/api"
	"github.com/julianstephens/habitlog/internal/config"
	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/events"
	"github.com/julianstephens/habitlog/internal/session"
	"github.com/julianstephens/habitlog/internal/storage"
	"github.com/julianstephens/habitlog/internal/tokens"
	"github.com/julianstephens/habitlog/internal/utils"
)

// Context is handed to every command's Run method.
type Context struct {
	Ctx      context.Context
	Config   *config.Config
	DB       *storage.Store
	Tokens   tokens.Store
	Bus      *events.Broadcaster
	Session  *session.Session
	API      *api.Client
	Prompter Prompter
	Out      io.Writer
}

// NewContext wires the API client and session around an already opened
// token store.
func NewContext(ctx context.Context, cfg *config.Config, db *storage.Store, store tokens.Store) *Context {
	bus := events.NewBroadcaster()
	client := api.New(cfg.APIURL, store, bus,
		api.WithTimeout(cfg.Timeout),
		api.WithUserAgent(constants.AppName+"/"+constants.Version),
	)
	return &Context{
		Ctx:      ctx,
		Config:   cfg,
		DB:       db,
		Tokens:   store,
		Bus:      bus,
		Session:  session.New(store, bus),
		API:      client,
		Prompter: HuhPrompter{},
		Out:      os.Stdout,
	}
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Today is the current calendar date in the configured timezone.
func (c *Context) Today() (string, error) {
	return utils.TodayInTimezone(c.Config.Timezone)
}

// Date returns s validated, or today when s is empty.
func (c *Context) Date(s string) (string, error) {
	return utils.DateOrToday(s, c.Config.Timezone)
}

// Confirm asks a yes/no question unless skip is set.
func (c *Context) Confirm(skip bool, title, description string) (bool, error) {
	if skip {
		return true, nil
	}
	return c.Prompter.Confirm(title, description)
}

// HabitNames maps habit IDs to names. Used wherever logs are printed.
func (c *Context) HabitNames() (map[int64]string, error) {
	habits, err := c.API.Habits().List(c.Ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}
	names := make(map[int64]string, len(habits))
	for _, h := range habits {
		names[h.ID] = h.Name
	}
	return names, nil
}
