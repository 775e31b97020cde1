// Package clitest builds command contexts backed by an in-memory API server
// and a temporary local database.
package clitest

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitlog/internal/api/apitest"
	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/config"
	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage"
	"github.com/julianstephens/habitlog/internal/tokens"
)

// Prompter answers prompts from canned responses and records the titles.
type Prompter struct {
	Confirms  []bool
	Passwords []string
	Asked     []string
}

func (p *Prompter) Confirm(title, _ string) (bool, error) {
	p.Asked = append(p.Asked, title)
	if len(p.Confirms) == 0 {
		return false, cli.ErrAborted
	}
	answer := p.Confirms[0]
	p.Confirms = p.Confirms[1:]
	return answer, nil
}

func (p *Prompter) Password(title string) (string, error) {
	p.Asked = append(p.Asked, title)
	if len(p.Passwords) == 0 {
		return "", cli.ErrAborted
	}
	pw := p.Passwords[0]
	p.Passwords = p.Passwords[1:]
	return pw, nil
}

type Env struct {
	Ctx      *cli.Context
	Server   *apitest.Server
	Out      *bytes.Buffer
	Prompter *Prompter
}

// New returns a logged-out environment using the file token backend.
func New(t *testing.T) *Env {
	t.Helper()

	srv := apitest.NewServer(t)

	dir := t.TempDir()
	db := storage.NewStore(filepath.Join(dir, constants.DefaultDBName))
	if err := db.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		APIURL:       srv.URL(),
		ConfigDir:    dir,
		TokenBackend: constants.TokenBackendFile,
		Timezone:     "UTC",
		Timeout:      5 * time.Second,
	}

	ctx := cli.NewContext(context.Background(), cfg, db, tokens.NewSQLiteStore(db))
	out := &bytes.Buffer{}
	prompter := &Prompter{}
	ctx.Out = out
	ctx.Prompter = prompter

	return &Env{Ctx: ctx, Server: srv, Out: out, Prompter: prompter}
}

// Authenticated returns an environment holding a token pair the server accepts.
func Authenticated(t *testing.T) *Env {
	t.Helper()
	env := New(t)
	pair := models.TokenPair{Access: env.Server.IssueAccess(), Refresh: env.Server.RefreshToken}
	if err := env.Ctx.Tokens.Set(pair); err != nil {
		t.Fatalf("failed to store tokens: %v", err)
	}
	env.Ctx.Session.MarkAuthenticated()
	return env
}
