package auth

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/tokens"
)

type AuthCmd struct {
	Register RegisterCmd `cmd:"" help:"Create an account."`
	Login    LoginCmd    `cmd:"" help:"Log in and store the token pair."`
	Logout   LogoutCmd   `cmd:"" help:"Forget the stored token pair."`
	Status   StatusCmd   `cmd:"" help:"Show authentication state and token expiry."`
}

type RegisterCmd struct {
	Username string `arg:"" help:"Username."`
	Password string `help:"Password (prompted when omitted)." env:"HABITLOG_PASSWORD"`
	Login    bool   `help:"Log in right after registering."`
}

func (c *RegisterCmd) Run(ctx *cli.Context) error {
	password, err := passwordOrPrompt(ctx, c.Password, "Choose a password")
	if err != nil {
		return err
	}

	if err := ctx.API.Auth().Register(ctx.Ctx, c.Username, password); err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}
	ctx.Printf("✓ Registered %s\n", c.Username)

	if !c.Login {
		ctx.Printf("  Run 'habitlog auth login %s' to sign in.\n", c.Username)
		return nil
	}
	return login(ctx, c.Username, password)
}

type LoginCmd struct {
	Username string `arg:"" help:"Username."`
	Password string `help:"Password (prompted when omitted)." env:"HABITLOG_PASSWORD"`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	password, err := passwordOrPrompt(ctx, c.Password, "Password for "+c.Username)
	if err != nil {
		return err
	}
	return login(ctx, c.Username, password)
}

func login(ctx *cli.Context, username, password string) error {
	if _, err := ctx.API.Auth().Login(ctx.Ctx, username, password); err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	ctx.Session.MarkAuthenticated()

	if ctx.DB != nil {
		if err := ctx.DB.SetSetting(constants.SettingLastLogin, username); err != nil {
			logger.Warn("failed to remember last login", "error", err)
		}
	}

	ctx.Printf("✓ Logged in as %s\n", username)
	return nil
}

func passwordOrPrompt(ctx *cli.Context, password, title string) (string, error) {
	if password != "" {
		return password, nil
	}
	p, err := ctx.Prompter.Password(title)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return p, nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.API.Auth().Logout(); err != nil {
		return err
	}
	ctx.Println("✓ Logged out")
	return nil
}

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	pair, err := ctx.Tokens.Get()
	if err != nil {
		return fmt.Errorf("failed to read tokens: %w", err)
	}

	if !ctx.Session.Authenticated() || pair.Access == "" {
		ctx.Println("Not logged in.")
		if pair.Refresh != "" {
			ctx.Println("  A refresh token is stored; the next request will try to renew the session.")
		}
		return nil
	}

	user := ""
	if ctx.DB != nil {
		user, _ = ctx.DB.GetSetting(constants.SettingLastLogin)
	}
	if user != "" {
		ctx.Printf("Logged in as %s\n", user)
	} else {
		ctx.Println("Logged in")
	}
	ctx.Printf("  API:           %s\n", ctx.API.BaseURL())
	ctx.Printf("  Token backend: %s\n", ctx.Config.TokenBackend)

	if claims, err := tokens.Inspect(pair.Access); err != nil {
		ctx.Println("  Access token:  opaque (expiry unknown)")
	} else {
		if claims.UserID != "" {
			ctx.Printf("  User ID:       %s\n", claims.UserID)
		}
		ctx.Printf("  Access token:  %s\n", describeExpiry(claims, time.Now()))
	}

	refresh := "stored"
	if pair.Refresh == "" {
		refresh = "missing"
	}
	ctx.Printf("  Refresh token: %s\n", refresh)
	return nil
}

func describeExpiry(c tokens.Claims, now time.Time) string {
	if c.ExpiresAt.IsZero() {
		return "no expiry"
	}
	if c.Expired(now) {
		return fmt.Sprintf("expired %s ago (renewed on next request)", now.Sub(c.ExpiresAt).Round(time.Second))
	}
	return fmt.Sprintf("valid for %s (until %s)", c.ExpiresAt.Sub(now).Round(time.Second), c.ExpiresAt.Local().Format(time.RFC1123))
}
